package excel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engezna/internal/model"
	"engezna/internal/service/excel"
)

func TestExporter_ReviewWorkbook(t *testing.T) {
	ex := excel.NewExtractor(excel.ExtractorOptions{})
	result, err := ex.Extract(context.Background(), []model.Sheet{
		{
			Name:    "بيتزا",
			Headers: []string{"الصنف", "صغير", "وسط", "كبير"},
			Rows: [][]model.CellValue{
				{model.TextCell("مارجريتا"), model.NumberCell(80), model.NumberCell(110), model.NumberCell(140)},
				{model.TextCell("خضار"), model.EmptyCell(), model.EmptyCell(), model.EmptyCell()},
			},
		},
	}, nil)
	require.NoError(t, err)

	f, err := excel.NewExporter().Export(result)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{excel.ProductsSheet, excel.DetectionSheet, excel.WarningsSheet}, f.GetSheetList())

	rows, err := f.GetRows(excel.ProductsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Product", rows[0][1])
	assert.Equal(t, "بيتزا", rows[1][0])
	assert.Equal(t, "مارجريتا", rows[1][1])
	assert.Equal(t, "variants", rows[1][4])
	assert.Equal(t, "صغير=80; وسط=110; كبير=140", rows[1][6])
	assert.Equal(t, "no", rows[1][10])
	assert.Equal(t, "خضار", rows[2][1])
	assert.Equal(t, "fixed", rows[2][4])
	assert.Equal(t, "yes", rows[2][10])

	det, err := f.GetRows(excel.DetectionSheet)
	require.NoError(t, err)
	require.Len(t, det, 2)
	assert.Equal(t, "بيتزا", det[1][0])
	assert.Equal(t, "sizes", det[1][3])

	warnings, err := f.GetRows(excel.WarningsSheet)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[1][0], "خضار")
}

func TestExporter_NilResult(t *testing.T) {
	_, err := excel.NewExporter().Export(nil)
	assert.Error(t, err)
}
