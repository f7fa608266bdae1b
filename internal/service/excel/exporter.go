package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"engezna/internal/model"
)

// review workbook sheet names
const (
	ProductsSheet  = "Products"
	DetectionSheet = "Detection"
	WarningsSheet  = "Warnings"
)

var productHeaders = []string{
	"Category", "Product", "Name (EN)", "Description", "Pricing", "Price",
	"Variants", "Unit", "Min qty", "Step", "Needs review", "Source",
}

var detectionHeaders = []string{
	"Sheet", "Pricing", "Variant type", "Variant group", "Unit", "Confidence", "Products", "Suggestions",
}

// Exporter writes an extraction result as a review workbook
type Exporter struct{}

// NewExporter creates an exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export builds a workbook with the combined products, per-sheet detection and warnings.
func (e *Exporter) Export(result *model.MultiSheetResult) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, int) error{
		func(f *excelize.File, style int) error { return writeProducts(f, style, result.Combined) },
		func(f *excelize.File, style int) error { return writeDetections(f, style, result.Sheets) },
		func(f *excelize.File, style int) error { return writeWarnings(f, style, result.Combined.Warnings) },
	}
	for _, step := range steps {
		if err := step(f, headerStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	return f.SetRowStyle(sheet, 1, 1, style)
}

func writeRow(f *excelize.File, sheet string, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeProducts(f *excelize.File, style int, data model.ParsedExcelData) error {
	if err := writeHeader(f, ProductsSheet, productHeaders, style); err != nil {
		return err
	}
	n := 2
	for _, c := range data.Categories {
		for _, p := range c.Products {
			var price any
			if p.Price != nil {
				price = *p.Price
			}
			values := []any{
				c.NameAr, p.NameAr, p.NameEn, p.DescriptionAr, string(p.PricingType), price,
				variantSummary(p.Variants), string(p.UnitType), p.MinQuantity, p.QuantityStep,
				yesNo(p.NeedsReview), p.SourceNote,
			}
			if err := writeRow(f, ProductsSheet, n, values); err != nil {
				return err
			}
			n++
		}
	}
	return f.SetPanes(ProductsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeDetections(f *excelize.File, style int, sheets []model.SheetResult) error {
	if _, err := f.NewSheet(DetectionSheet); err != nil {
		return err
	}
	if err := writeHeader(f, DetectionSheet, detectionHeaders, style); err != nil {
		return err
	}
	for i, s := range sheets {
		d := s.Detection
		values := []any{
			s.Name, string(d.PricingType), string(d.VariantType), d.VariantGroupID,
			string(d.UnitType), d.Confidence, s.Data.TotalProducts, strings.Join(d.Suggestions, "\n"),
		}
		if err := writeRow(f, DetectionSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeWarnings(f *excelize.File, style int, warnings []string) error {
	if _, err := f.NewSheet(WarningsSheet); err != nil {
		return err
	}
	if err := writeHeader(f, WarningsSheet, []string{"Warning"}, style); err != nil {
		return err
	}
	for i, w := range warnings {
		if err := writeRow(f, WarningsSheet, i+2, []any{w}); err != nil {
			return err
		}
	}
	return nil
}

// variantSummary "صغير=80; وسط=110"
func variantSummary(variants []model.ExtractedVariant) string {
	parts := make([]string, 0, len(variants))
	for _, v := range variants {
		parts = append(parts, v.NameAr+"="+strconv.FormatFloat(v.Price, 'f', -1, 64))
	}
	return strings.Join(parts, "; ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
