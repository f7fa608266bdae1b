package excel_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"engezna/internal/model"
)

// sheetData rows of one worksheet, header row first
type sheetData struct {
	name string
	rows [][]any
}

func buildWorkbook(t *testing.T, sheets ...sheetData) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	defaultSheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	for _, s := range sheets {
		_, err := wb.NewSheet(s.name)
		require.NoError(t, err)
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, wb.SetSheetRow(s.name, cell, &r))
		}
	}
	if defaultSheet != "" && !hasSheet(sheets, defaultSheet) {
		require.NoError(t, wb.DeleteSheet(defaultSheet))
	}
	return wb
}

func hasSheet(sheets []sheetData, name string) bool {
	for _, s := range sheets {
		if s.name == name {
			return true
		}
	}
	return false
}

func workbookBytes(t *testing.T, wb *excelize.File) *bytes.Reader {
	t.Helper()

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func textRows(rows ...[]string) [][]model.CellValue {
	out := make([][]model.CellValue, 0, len(rows))
	for _, r := range rows {
		cells := make([]model.CellValue, 0, len(r))
		for _, v := range r {
			if v == "" {
				cells = append(cells, model.EmptyCell())
				continue
			}
			cells = append(cells, model.TextCell(v))
		}
		out = append(out, cells)
	}
	return out
}

func productNames(c model.ExtractedCategory) []string {
	out := make([]string, 0, len(c.Products))
	for _, p := range c.Products {
		out = append(out, p.NameAr)
	}
	return out
}
