package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"engezna/internal/model"
)

// Reader loads a workbook and materializes its worksheets as typed cells
type Reader struct {
	file   *excelize.File
	fileID string
}

// NewReader creates a reader
func NewReader() *Reader {
	return &Reader{
		fileID: uuid.New().String(),
	}
}

// LoadFile opens an xlsx stream
func (r *Reader) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	r.file = file
	return nil
}

// FileID random id of this upload
func (r *Reader) FileID() string {
	return r.fileID
}

// Close releases the workbook
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// SheetNames worksheet names in workbook order
func (r *Reader) SheetNames() ([]string, error) {
	if r.file == nil {
		return nil, ErrNoFile
	}
	return r.file.GetSheetList(), nil
}

// Sheets reads every worksheet. Sheets without any non-blank row come back with
// no headers and no rows; the extractor skips them.
func (r *Reader) Sheets() ([]model.Sheet, error) {
	names, err := r.SheetNames()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrEmptyWorkbook
	}

	sheets := make([]model.Sheet, 0, len(names))
	for _, name := range names {
		sheet, err := r.ReadSheet(name)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// ReadSheet reads one worksheet. The first non-blank row is the header row.
func (r *Reader) ReadSheet(name string) (model.Sheet, error) {
	if r.file == nil {
		return model.Sheet{}, ErrNoFile
	}

	rows, err := r.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Sheet{}, &SheetError{Sheet: name, Stage: "read", Err: err}
	}

	sheet := model.Sheet{Name: name, Headers: []string{}, Rows: [][]model.CellValue{}}

	headerIdx := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return sheet, nil
	}

	for _, h := range rows[headerIdx] {
		sheet.Headers = append(sheet.Headers, strings.TrimSpace(h))
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		cells := make([]model.CellValue, len(row))
		for j, raw := range row {
			cells[j] = r.typedCell(name, j+1, i+1, raw)
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet, nil
}

// typedCell numeric cells become Number, blanks Empty, everything else Text.
func (r *Reader) typedCell(sheet string, col, row int, raw string) model.CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.EmptyCell()
	}

	addr, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return model.TextCell(raw)
	}
	ct, err := r.file.GetCellType(sheet, addr)
	if err != nil {
		return model.TextCell(raw)
	}

	switch ct {
	case excelize.CellTypeNumber, excelize.CellTypeUnset, excelize.CellTypeFormula, excelize.CellTypeDate:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return model.NumberCell(f)
		}
	}
	return model.TextCell(raw)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadWorkbook loads an xlsx stream and returns all of its sheets.
func ReadWorkbook(reader io.Reader) ([]model.Sheet, error) {
	r := NewReader()
	if err := r.LoadFile(reader); err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Sheets()
}
