package excel

import (
	"context"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"engezna/internal/model"
	"engezna/internal/parser"
)

var validate = validator.New()

// ExtractorOptions Extractor settings
type ExtractorOptions struct {
	LowConfidence   float64 // detection review threshold; <= 0 uses parser.DefaultLowConfidence
	DefaultCategory string  // placeholder category name; "" uses model.DefaultCategoryName
	Concurrency     int     // sheets processed in parallel; <= 0 means one per sheet
	Logger          zerolog.Logger
}

// Extractor runs column detection and row transformation over every sheet and
// merges the sheets into one catalog
type Extractor struct {
	detector        *parser.ColumnDetector
	defaultCategory string
	concurrency     int
	log             zerolog.Logger
}

// NewExtractor creates an extractor
func NewExtractor(opts ExtractorOptions) *Extractor {
	placeholder := opts.DefaultCategory
	if placeholder == "" {
		placeholder = model.DefaultCategoryName
	}
	return &Extractor{
		detector:        parser.NewColumnDetector(opts.LowConfidence),
		defaultCategory: placeholder,
		concurrency:     opts.Concurrency,
		log:             opts.Logger,
	}
}

// Detect runs column detection for a single sheet.
func (e *Extractor) Detect(sheet model.Sheet) model.DetectionResult {
	return e.detector.Detect(sheet.Headers, sheet.Rows, sheet.Name)
}

// Extract processes every usable sheet. overrides replaces automatic detection
// for the named sheets. Sheets are processed independently and results keep the
// input order. Fails with ErrNoUsableSheets when no sheet has a data row, and with
// a *SheetError when an override is invalid.
func (e *Extractor) Extract(ctx context.Context, sheets []model.Sheet, overrides map[string]model.ManualMapping) (*model.MultiSheetResult, error) {
	if err := validateOverrides(overrides); err != nil {
		return nil, err
	}

	usable := make([]model.Sheet, 0, len(sheets))
	for _, s := range sheets {
		if len(s.Headers) == 0 || len(s.Rows) == 0 {
			e.log.Debug().Str("sheet", s.Name).Msg("skipping sheet without data rows")
			continue
		}
		usable = append(usable, s)
	}
	if len(usable) == 0 {
		return nil, ErrNoUsableSheets
	}

	results := make([]model.SheetResult, len(usable))
	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i, sheet := range usable {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			override, ok := overrides[sheet.Name]
			var m *model.ManualMapping
			if ok {
				m = &override
			}
			results[i] = e.processSheet(sheet, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.MultiSheetResult{
		Sheets:   results,
		Combined: mergeSheets(results),
	}, nil
}

func validateOverrides(overrides map[string]model.ManualMapping) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := validate.Struct(overrides[name]); err != nil {
			return &SheetError{Sheet: name, Stage: "mapping", Err: err}
		}
	}
	return nil
}

func (e *Extractor) processSheet(sheet model.Sheet, override *model.ManualMapping) model.SheetResult {
	var det model.DetectionResult
	if override != nil {
		det = ApplyManualMapping(sheet.Headers, *override)
	} else {
		det = e.detector.Detect(sheet.Headers, sheet.Rows, sheet.Name)
	}

	data := Transform(sheet.Rows, det.Mapping, TransformOptions{
		PricingType:     det.PricingType,
		VariantType:     det.VariantType,
		UnitType:        det.UnitType,
		SheetName:       sheet.Name,
		DefaultCategory: e.defaultCategory,
	})

	if det.Mapping.Category == model.NoColumn {
		renameCategory(&data, e.defaultCategory, parser.SheetLabel(sheet.Name))
	}

	e.log.Debug().
		Str("sheet", sheet.Name).
		Str("pricing", string(det.PricingType)).
		Float64("confidence", det.Confidence).
		Bool("manual", override != nil).
		Int("products", data.TotalProducts).
		Int("warnings", len(data.Warnings)).
		Msg("sheet extracted")

	return model.SheetResult{
		Name:      sheet.Name,
		Detection: det,
		Data:      data,
	}
}

// renameCategory relabels the placeholder category of a sheet that had no
// category column.
func renameCategory(data *model.ParsedExcelData, placeholder, label string) {
	if label == "" || label == placeholder {
		return
	}
	for i := range data.Categories {
		if data.Categories[i].NameAr == placeholder {
			data.Categories[i].NameAr = label
		}
	}
}

// mergeSheets merges categories by name in sheet order. The first occurrence of a
// name keeps its defaults; display order is renumbered over the merged list. The
// combined pricing model is the first sheet's.
func mergeSheets(sheets []model.SheetResult) model.ParsedExcelData {
	combined := model.ParsedExcelData{
		Categories: []model.ExtractedCategory{},
		Warnings:   []string{},
	}
	index := make(map[string]int)

	for i, s := range sheets {
		if i == 0 {
			combined.PricingType = s.Data.PricingType
			combined.VariantType = s.Data.VariantType
			combined.UnitType = s.Data.UnitType
		}
		for _, c := range s.Data.Categories {
			if idx, ok := index[c.NameAr]; ok {
				combined.Categories[idx].Products = append(combined.Categories[idx].Products, c.Products...)
				continue
			}
			index[c.NameAr] = len(combined.Categories)
			c.Products = slices.Clone(c.Products)
			combined.Categories = append(combined.Categories, c)
		}
		combined.TotalProducts += s.Data.TotalProducts
		combined.Warnings = append(combined.Warnings, s.Data.Warnings...)
	}

	for i := range combined.Categories {
		combined.Categories[i].DisplayOrder = i + 1
	}
	return combined
}
