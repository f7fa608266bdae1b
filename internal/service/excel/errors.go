package excel

import (
	"errors"
	"fmt"
)

// ErrNoUsableSheets no sheet has a header row and at least one data row.
var ErrNoUsableSheets = errors.New("no sheet with a header row and at least one data row")

// ErrEmptyWorkbook the workbook contains no worksheets.
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// ErrNoFile a read was attempted before a workbook was loaded.
var ErrNoFile = errors.New("no file loaded")

// SheetError failure tied to one worksheet.
type SheetError struct {
	Sheet string
	Stage string // "read", "mapping"
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.Sheet, e.Stage, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
