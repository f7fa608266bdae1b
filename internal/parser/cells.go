package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"engezna/internal/model"
)

// numericSampleRows rows inspected by IsProbablyNumericColumn
const numericSampleRows = 10

// numericColumnRatio share of non-empty sampled cells that must look numeric
const numericColumnRatio = 0.8

var numericPrefixRe = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)

// ParsePrice converts a cell to a positive price.
//
// Text is stripped of everything except digits, '.', ',' and '-', commas become
// decimal points and the longest leading number is parsed, so "12.50 ج.م" is 12.5
// and "1,5" is 1.5. Zero, negative or unparseable values yield ok=false.
func ParsePrice(c model.CellValue) (price float64, ok bool) {
	switch c.Kind {
	case model.CellNumber:
		return positive(c.Number)
	case model.CellText:
		return parsePriceText(c.Text)
	default:
		return 0, false
	}
}

func parsePriceText(s string) (float64, bool) {
	s = FoldDigits(s)

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", ".")

	prefix := numericPrefixRe.FindString(cleaned)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return positive(v)
}

func positive(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// LooksNumeric reports whether a cell is a number or text that starts with one.
func LooksNumeric(c model.CellValue) bool {
	switch c.Kind {
	case model.CellNumber:
		return true
	case model.CellText:
		return numericPrefixRe.MatchString(FoldDigits(strings.TrimSpace(c.Text)))
	default:
		return false
	}
}

// IsProbablyNumericColumn samples the first rows of a column and reports whether
// at least 80% of the non-empty cells are numeric. A column with no non-empty
// sampled cell is not numeric.
func IsProbablyNumericColumn(rows [][]model.CellValue, col int) bool {
	nonEmpty, numeric := 0, 0
	for i, row := range rows {
		if i >= numericSampleRows {
			break
		}
		c := model.CellAt(row, col)
		if c.IsEmpty() {
			continue
		}
		nonEmpty++
		if LooksNumeric(c) {
			numeric++
		}
	}
	if nonEmpty == 0 {
		return false
	}
	return float64(numeric)/float64(nonEmpty) >= numericColumnRatio
}

// CellText trimmed display text of row[col]; "" for missing or empty cells.
func CellText(row []model.CellValue, col int) string {
	if col == model.NoColumn {
		return ""
	}
	return model.CellAt(row, col).String()
}
