package excel

import (
	"fmt"
	"strings"

	"engezna/internal/model"
	"engezna/internal/parser"
)

// TransformOptions resolved pricing model of a sheet and row-level settings
type TransformOptions struct {
	PricingType     model.PricingType
	VariantType     model.VariantType
	UnitType        model.UnitType
	SheetName       string // used in source notes
	DefaultCategory string // placeholder for rows without a category; defaults to model.DefaultCategoryName
}

// Transform turns data rows into categories of products.
//
// Rows with an empty product name are skipped silently. Rows that cannot be priced
// are kept, flagged for review and reported in Warnings. Row numbers in warnings
// count the header as row 1.
func Transform(rows [][]model.CellValue, mapping model.ColumnMapping, opts TransformOptions) model.ParsedExcelData {
	pricing := opts.PricingType
	if !pricing.IsValid() {
		pricing = model.PricingFixed
	}
	variantType := opts.VariantType
	if pricing != model.PricingVariants {
		variantType = model.VariantNone
	}
	placeholder := opts.DefaultCategory
	if placeholder == "" {
		placeholder = model.DefaultCategoryName
	}

	out := model.ParsedExcelData{
		Categories:  []model.ExtractedCategory{},
		Warnings:    []string{},
		PricingType: pricing,
		VariantType: variantType,
		UnitType:    opts.UnitType,
	}
	index := make(map[string]int)

	for i, row := range rows {
		n := i + 2

		name := parser.CellText(row, mapping.Product)
		if name == "" {
			continue
		}

		categoryName := parser.CellText(row, mapping.Category)
		if categoryName == "" {
			categoryName = placeholder
		}
		ci, ok := index[categoryName]
		if !ok {
			ci = len(out.Categories)
			index[categoryName] = ci
			out.Categories = append(out.Categories, model.ExtractedCategory{
				NameAr:             categoryName,
				DisplayOrder:       ci + 1,
				Products:           []model.ExtractedProduct{},
				DefaultPricingType: pricing,
				DefaultUnitType:    opts.UnitType,
				DefaultVariantType: variantType,
			})
		}

		product := model.ExtractedProduct{
			NameAr:        name,
			NameEn:        parser.CellText(row, mapping.NameEn),
			DescriptionAr: parser.CellText(row, mapping.Description),
			PricingType:   pricing,
			VariantType:   variantType,
			UnitType:      rowUnit(row, mapping, opts.UnitType),
			ImageURL:      imageURL(parser.CellText(row, mapping.ImageURL)),
			SourceNote:    sourceNote(opts.SheetName, n),
		}

		switch pricing {
		case model.PricingVariants:
			variants := parseVariants(row, mapping.Variants)
			if len(variants) == 0 {
				product.PricingType = model.PricingFixed
				product.VariantType = model.VariantNone
				product.NeedsReview = true
				out.Warnings = append(out.Warnings, fmt.Sprintf("row %d: no prices for product '%s'", n, name))
				break
			}
			product.Variants = variants
			price := variants[0].Price
			product.Price = &price
		default:
			if price, ok := parser.ParsePrice(model.CellAt(row, mapping.Price)); ok {
				product.Price = &price
			} else {
				product.NeedsReview = true
				out.Warnings = append(out.Warnings, fmt.Sprintf("row %d: missing price for product '%s'", n, name))
			}
		}

		product.MinQuantity, product.QuantityStep = quantityDefaults(product.PricingType, product.UnitType)

		out.Categories[ci].Products = append(out.Categories[ci].Products, product)
		out.TotalProducts++
	}

	return out
}

func parseVariants(row []model.CellValue, cols []model.VariantColumn) []model.ExtractedVariant {
	var variants []model.ExtractedVariant
	for _, col := range cols {
		price, ok := parser.ParsePrice(model.CellAt(row, col.ColumnIndex))
		if !ok {
			continue
		}
		variants = append(variants, model.ExtractedVariant{
			NameAr:       col.NameAr,
			NameEn:       col.NameEn,
			Price:        price,
			IsDefault:    len(variants) == 0,
			DisplayOrder: len(variants) + 1,
			Multiplier:   copyFloat(col.Multiplier),
		})
	}
	return variants
}

func rowUnit(row []model.CellValue, mapping model.ColumnMapping, fallback model.UnitType) model.UnitType {
	if u, ok := parser.ParseUnit(parser.CellText(row, mapping.Unit)); ok {
		return u
	}
	return fallback
}

func imageURL(s string) string {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return ""
}

func sourceNote(sheet string, row int) string {
	if sheet == "" {
		return fmt.Sprintf("row %d", row)
	}
	return fmt.Sprintf("%s: row %d", sheet, row)
}

// quantityDefaults minimum order and step; weighed goods start at a quarter kilo.
func quantityDefaults(pricing model.PricingType, unit model.UnitType) (minQty, step float64) {
	if pricing == model.PricingPerUnit {
		switch unit {
		case model.UnitKg:
			return 0.25, 0.25
		case model.UnitGram:
			return 100, 50
		}
	}
	return 1, 1
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
