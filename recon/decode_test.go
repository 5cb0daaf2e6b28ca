package recon

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecodeTableCSV(t *testing.T) {
	data := []byte("EMPLOYEE ID,FIRST NAME,EARNINGS\n001234,Ada,1500.00\n005678,Grace,\n")
	table, err := DecodeTable(data, "recon.csv")
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(table.Headers) != 3 || table.Headers[0] != "EMPLOYEE ID" {
		t.Fatalf("headers = %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Cell(table.Rows[0], 2) != "1500.00" {
		t.Fatalf("cell = %q", table.Cell(table.Rows[0], 2))
	}
}

func TestDecodeTableXlsx(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "EMPLOYEE ID")
	_ = f.SetCellValue("Sheet1", "B1", "EARNINGS")
	_ = f.SetCellValue("Sheet1", "A2", "001234")
	_ = f.SetCellValue("Sheet1", "B2", 1500.5)

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	table, err := DecodeTable(buf.Bytes(), "recon.xlsx")
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(table.Headers) != 2 || table.Headers[1] != "EARNINGS" {
		t.Fatalf("headers = %v", table.Headers)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
}

func TestDecodeTableUnsupportedExtension(t *testing.T) {
	_, err := DecodeTable([]byte("anything"), "recon.pdf")
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("err = %v, want ErrUnsupportedFileType", err)
	}
}

func TestDecodeTableBadBytes(t *testing.T) {
	_, err := DecodeTable([]byte("this is not a zip archive"), "recon.xlsx")
	if !errors.Is(err, ErrFileDecode) {
		t.Fatalf("err = %v, want ErrFileDecode", err)
	}
}

func TestDecodeTableEmpty(t *testing.T) {
	_, err := DecodeTable([]byte(""), "recon.csv")
	if !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("err = %v, want ErrEmptyTable", err)
	}
}

func TestCellToleratesShortRows(t *testing.T) {
	table := Table{Headers: []string{"A", "B", "C"}}
	row := []string{"only"}
	if got := table.Cell(row, 2); got != "" {
		t.Fatalf("Cell out of range = %q, want empty", got)
	}
}
