package recon

import "errors"

var (
	// ErrInvalidPlan: declared pension plan is not one of the two known values.
	ErrInvalidPlan = errors.New("invalid pension plan: use 'PERS' or 'STRS'")

	// ErrPlanMismatch: header detection confidently disagrees with the
	// declared plan. Rejected before any deletion happens.
	ErrPlanMismatch = errors.New("spreadsheet headers do not match the declared pension plan")

	// ErrUnsupportedFileType: upload extension is not csv/xls/xlsx.
	ErrUnsupportedFileType = errors.New("unsupported file type: use .csv, .xls or .xlsx")

	// ErrFileDecode wraps any failure turning the uploaded bytes into rows.
	ErrFileDecode = errors.New("could not read file")

	// ErrEmptyTable: the decoded file has no header row.
	ErrEmptyTable = errors.New("file contains no rows")
)
