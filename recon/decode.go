package recon

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Table is a decoded upload: one header row plus data rows, all cells as
// strings. Ragged rows are allowed; missing trailing cells read as absent.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at column index i, tolerating short rows.
func (t Table) Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// DecodeTable turns uploaded bytes into a Table based on the filename
// extension. CSV is decoded as UTF-8 text, .xlsx via excelize, legacy .xls
// via the OLE2 reader. Anything else is ErrUnsupportedFileType.
func DecodeTable(data []byte, filename string) (Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return decodeCSV(data)
	case ".xlsx":
		return decodeXlsx(data)
	case ".xls":
		return decodeXls(data)
	default:
		return Table{}, ErrUnsupportedFileType
	}
}

func decodeCSV(data []byte) (Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrFileDecode, err)
	}
	return tableFromRows(records)
}

func decodeXlsx(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrFileDecode, err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return Table{}, fmt.Errorf("%w: no worksheet found", ErrFileDecode)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrFileDecode, err)
	}
	return tableFromRows(rows)
}

func decodeXls(data []byte) (Table, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrFileDecode, err)
	}
	if workbook.NumSheets() == 0 {
		return Table{}, fmt.Errorf("%w: no worksheet found", ErrFileDecode)
	}
	rows := workbook.ReadAllCells(100000)
	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, ErrEmptyTable
	}
	return Table{Headers: rows[0], Rows: rows[1:]}, nil
}
