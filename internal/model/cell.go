package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellKind tags the variant held by a CellValue
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// CellValue raw spreadsheet cell: Number | Text | Empty. Never mutated after read.
type CellValue struct {
	Kind   CellKind
	Number float64
	Text   string
}

// NumberCell builds a numeric cell
func NumberCell(v float64) CellValue {
	return CellValue{Kind: CellNumber, Number: v}
}

// TextCell builds a text cell
func TextCell(s string) CellValue {
	return CellValue{Kind: CellText, Text: s}
}

// EmptyCell builds an empty cell
func EmptyCell() CellValue {
	return CellValue{Kind: CellEmpty}
}

// IsEmpty reports whether the cell carries no usable content.
// Whitespace-only text counts as empty.
func (c CellValue) IsEmpty() bool {
	switch c.Kind {
	case CellNumber:
		return false
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return true
	}
}

// String returns the trimmed display form of the cell.
func (c CellValue) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return strings.TrimSpace(c.Text)
	default:
		return ""
	}
}

// MarshalJSON encodes the cell as a JSON number, string or null.
func (c CellValue) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		return json.Marshal(c.Number)
	case CellText:
		return json.Marshal(c.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON number, string or null.
func (c *CellValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = EmptyCell()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*c = EmptyCell()
			return nil
		}
		*c = TextCell(s)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("cell must be a number, string or null: %w", err)
		}
		*c = NumberCell(f)
		return nil
	}
}

// Sheet one worksheet. Rows may be shorter or longer than Headers; missing cells are Empty.
type Sheet struct {
	Name    string        `json:"name"`
	Headers []string      `json:"headers"`
	Rows    [][]CellValue `json:"rows"`
}

// CellAt returns the cell at col, or Empty when the row is shorter.
func CellAt(row []CellValue, col int) CellValue {
	if col < 0 || col >= len(row) {
		return EmptyCell()
	}
	return row[col]
}
