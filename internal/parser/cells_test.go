package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"engezna/internal/model"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cell model.CellValue
		want float64
		ok   bool
	}{
		{"currency suffix", model.TextCell("12.50 ج.م"), 12.5, true},
		{"negative text", model.TextCell("-5"), 0, false},
		{"empty text", model.TextCell(""), 0, false},
		{"zero number", model.NumberCell(0), 0, false},
		{"negative number", model.NumberCell(-3), 0, false},
		{"positive number", model.NumberCell(45), 45, true},
		{"comma decimal", model.TextCell("7,5"), 7.5, true},
		{"arabic digits", model.TextCell("٤٥ جنيه"), 45, true},
		{"letters only", model.TextCell("غير متاح"), 0, false},
		{"empty cell", model.EmptyCell(), 0, false},
		{"leading currency", model.TextCell("EGP 30"), 30, true},
	}

	for _, tc := range cases {
		got, ok := ParsePrice(tc.cell)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.InDelta(t, tc.want, got, 1e-9, tc.name)
	}
}

func TestIsProbablyNumericColumn(t *testing.T) {
	t.Parallel()

	rows := [][]model.CellValue{
		{model.TextCell("برجر"), model.NumberCell(45), model.TextCell("10")},
		{model.TextCell("بيبسي"), model.TextCell("15 ج.م"), model.TextCell("لا يوجد")},
		{model.TextCell("شاي"), model.EmptyCell()},
		{model.TextCell("قهوة"), model.NumberCell(20), model.TextCell("متاح")},
	}

	assert.False(t, IsProbablyNumericColumn(rows, 0))
	assert.True(t, IsProbablyNumericColumn(rows, 1))
	assert.False(t, IsProbablyNumericColumn(rows, 2))
	assert.False(t, IsProbablyNumericColumn(rows, 5), "column without any cell")
	assert.False(t, IsProbablyNumericColumn(nil, 0))
}

func TestIsProbablyNumericColumn_SamplesFirstTenRows(t *testing.T) {
	t.Parallel()

	var rows [][]model.CellValue
	for i := 0; i < 10; i++ {
		rows = append(rows, []model.CellValue{model.NumberCell(float64(i + 1))})
	}
	for i := 0; i < 20; i++ {
		rows = append(rows, []model.CellValue{model.TextCell("نص")})
	}

	assert.True(t, IsProbablyNumericColumn(rows, 0))
}

func TestCellText(t *testing.T) {
	t.Parallel()

	row := []model.CellValue{model.TextCell("  برجر  "), model.NumberCell(12.5)}
	assert.Equal(t, "برجر", CellText(row, 0))
	assert.Equal(t, "12.5", CellText(row, 1))
	assert.Equal(t, "", CellText(row, 4))
	assert.Equal(t, "", CellText(row, model.NoColumn))
}
