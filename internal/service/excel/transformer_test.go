package excel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engezna/internal/model"
	"engezna/internal/parser"
	"engezna/internal/service/excel"
)

func fixedMapping(product, price int) model.ColumnMapping {
	m := model.NewColumnMapping()
	m.Product = product
	m.Price = price
	return m
}

func sizeMapping() model.ColumnMapping {
	m := model.NewColumnMapping()
	m.Product = 0
	for i, label := range []string{"صغير", "وسط", "كبير"} {
		m.Variants = append(m.Variants, model.VariantColumn{
			ColumnIndex: i + 1,
			Role:        []model.SemanticRole{model.RoleSizeSmall, model.RoleSizeMedium, model.RoleSizeLarge}[i],
			NameAr:      label,
			NameEn:      label,
			VariantType: model.VariantSize,
		})
	}
	return m
}

func TestTransform_FixedPricing(t *testing.T) {
	rows := textRows([]string{"ساندوتش برجر", "45"}, []string{"بيبسي", "15"})

	data := excel.Transform(rows, fixedMapping(0, 1), excel.TransformOptions{PricingType: model.PricingFixed})

	require.Len(t, data.Categories, 1)
	cat := data.Categories[0]
	assert.Equal(t, model.DefaultCategoryName, cat.NameAr)
	assert.Equal(t, 1, cat.DisplayOrder)
	require.Len(t, cat.Products, 2)
	require.NotNil(t, cat.Products[0].Price)
	require.NotNil(t, cat.Products[1].Price)
	assert.Equal(t, 45.0, *cat.Products[0].Price)
	assert.Equal(t, 15.0, *cat.Products[1].Price)
	assert.Equal(t, model.PricingFixed, cat.Products[0].PricingType)
	assert.Equal(t, 2, data.TotalProducts)
	assert.Empty(t, data.Warnings)
	assert.Equal(t, model.PricingFixed, data.PricingType)
}

func TestTransform_Variants(t *testing.T) {
	rows := textRows([]string{"بيتزا مارجريتا", "80", "120", "160"})

	data := excel.Transform(rows, sizeMapping(), excel.TransformOptions{
		PricingType: model.PricingVariants,
		VariantType: model.VariantSize,
	})

	require.Equal(t, 1, data.TotalProducts)
	p := data.Categories[0].Products[0]
	assert.Equal(t, model.PricingVariants, p.PricingType)
	assert.Equal(t, model.VariantSize, p.VariantType)
	require.Len(t, p.Variants, 3)

	prices := []float64{80, 120, 160}
	for i, v := range p.Variants {
		assert.Equal(t, prices[i], v.Price)
		assert.Equal(t, i+1, v.DisplayOrder)
		assert.Equal(t, i == 0, v.IsDefault)
	}
	require.NotNil(t, p.Price)
	assert.Equal(t, 80.0, *p.Price)
	assert.False(t, p.NeedsReview)
}

func TestTransform_VariantsSkipUnparsableColumns(t *testing.T) {
	rows := textRows([]string{"بيتزا خضار", "", "110", "150"})

	data := excel.Transform(rows, sizeMapping(), excel.TransformOptions{PricingType: model.PricingVariants, VariantType: model.VariantSize})

	p := data.Categories[0].Products[0]
	require.Len(t, p.Variants, 2)
	assert.Equal(t, "وسط", p.Variants[0].NameAr)
	assert.True(t, p.Variants[0].IsDefault)
	assert.Equal(t, 1, p.Variants[0].DisplayOrder)
	assert.Equal(t, 110.0, *p.Price)
}

func TestTransform_VariantsDemotedWhenNoPrice(t *testing.T) {
	rows := textRows([]string{"المنتج ده", "", "غير متاح", "0"})

	data := excel.Transform(rows, sizeMapping(), excel.TransformOptions{PricingType: model.PricingVariants, VariantType: model.VariantSize})

	require.Equal(t, 1, data.TotalProducts)
	p := data.Categories[0].Products[0]
	assert.Equal(t, model.PricingFixed, p.PricingType)
	assert.Equal(t, model.VariantNone, p.VariantType)
	assert.True(t, p.NeedsReview)
	assert.Nil(t, p.Price)
	assert.Empty(t, p.Variants)
	assert.Equal(t, []string{"row 2: no prices for product 'المنتج ده'"}, data.Warnings)
}

func TestTransform_MissingPriceKeepsProduct(t *testing.T) {
	rows := textRows([]string{"شاي", ""}, []string{"", "10"}, []string{"قهوة", "20"})

	data := excel.Transform(rows, fixedMapping(0, 1), excel.TransformOptions{PricingType: model.PricingFixed, SheetName: "مشروبات"})

	assert.Equal(t, 2, data.TotalProducts)
	p := data.Categories[0].Products[0]
	assert.True(t, p.NeedsReview)
	assert.Nil(t, p.Price)
	assert.Equal(t, "مشروبات: row 2", p.SourceNote)
	assert.Equal(t, "مشروبات: row 4", data.Categories[0].Products[1].SourceNote)
	assert.Equal(t, []string{"row 2: missing price for product 'شاي'"}, data.Warnings)
}

func TestTransform_OptionalColumns(t *testing.T) {
	m := fixedMapping(1, 2)
	m.Category = 0
	m.Description = 3
	m.NameEn = 4
	m.ImageURL = 5
	rows := textRows(
		[]string{"مشروبات", "عصير مانجو", "25", "طازج", "Mango Juice", "https://cdn.example.com/mango.jpg"},
		[]string{"حلويات", "كنافة", "40", "", "", "mango.jpg"},
		[]string{"مشروبات", "عصير فراولة", "30", "", "", ""},
	)

	data := excel.Transform(rows, m, excel.TransformOptions{PricingType: model.PricingFixed})

	require.Len(t, data.Categories, 2)
	assert.Equal(t, "مشروبات", data.Categories[0].NameAr)
	assert.Equal(t, 1, data.Categories[0].DisplayOrder)
	assert.Equal(t, "حلويات", data.Categories[1].NameAr)
	assert.Equal(t, 2, data.Categories[1].DisplayOrder)
	assert.Equal(t, []string{"عصير مانجو", "عصير فراولة"}, productNames(data.Categories[0]))

	mango := data.Categories[0].Products[0]
	assert.Equal(t, "طازج", mango.DescriptionAr)
	assert.Equal(t, "Mango Juice", mango.NameEn)
	assert.Equal(t, "https://cdn.example.com/mango.jpg", mango.ImageURL)
	assert.Empty(t, data.Categories[1].Products[0].ImageURL)
}

func TestTransform_PerUnitQuantities(t *testing.T) {
	m := fixedMapping(0, 1)
	m.Unit = 2
	rows := textRows([]string{"طماطم", "12", ""}, []string{"زعفران", "90", "جرام"}, []string{"بطيخ", "30", "حبة"})

	data := excel.Transform(rows, m, excel.TransformOptions{PricingType: model.PricingPerUnit, UnitType: model.UnitKg})

	ps := data.Categories[0].Products
	require.Len(t, ps, 3)
	assert.Equal(t, model.UnitKg, ps[0].UnitType)
	assert.Equal(t, 0.25, ps[0].MinQuantity)
	assert.Equal(t, 0.25, ps[0].QuantityStep)
	assert.Equal(t, model.UnitGram, ps[1].UnitType)
	assert.Equal(t, 100.0, ps[1].MinQuantity)
	assert.Equal(t, 50.0, ps[1].QuantityStep)
	assert.Equal(t, model.UnitPiece, ps[2].UnitType)
	assert.Equal(t, 1.0, ps[2].MinQuantity)
}

func TestTransform_Idempotent(t *testing.T) {
	rows := textRows(
		[]string{"بيتزا مارجريتا", "80", "120", "160"},
		[]string{"بيتزا خضار", "", "", ""},
	)
	mapping := sizeMapping()
	mult := 0.5
	mapping.Variants[1].Multiplier = &mult
	opts := excel.TransformOptions{PricingType: model.PricingVariants, VariantType: model.VariantSize}

	first := excel.Transform(rows, mapping, opts)
	second := excel.Transform(rows, mapping, opts)

	assert.Equal(t, first.Categories, second.Categories)
	assert.Equal(t, first, second)
}

func TestTransform_ShortRows(t *testing.T) {
	rows := [][]model.CellValue{{model.TextCell("مياه")}}

	data := excel.Transform(rows, fixedMapping(0, 3), excel.TransformOptions{PricingType: model.PricingFixed})

	require.Equal(t, 1, data.TotalProducts)
	assert.True(t, data.Categories[0].Products[0].NeedsReview)
}

func TestTransform_SheetHintVariantsWithoutColumnsDemotes(t *testing.T) {
	headers := []string{"المنتج", "السعر"}
	rows := textRows([]string{"مارجريتا", "80"})

	det := parser.NewColumnDetector(parser.DefaultLowConfidence).Detect(headers, rows, "بيتزا")
	require.Equal(t, model.PricingVariants, det.PricingType)

	data := excel.Transform(rows, det.Mapping, excel.TransformOptions{
		PricingType: det.PricingType,
		VariantType: det.VariantType,
		UnitType:    det.UnitType,
		SheetName:   "بيتزا",
	})

	require.Len(t, data.Categories, 1)
	require.Len(t, data.Categories[0].Products, 1)
	p := data.Categories[0].Products[0]
	assert.Equal(t, model.PricingFixed, p.PricingType)
	assert.True(t, p.NeedsReview)
	assert.Nil(t, p.Price)
	assert.Empty(t, p.Variants)
	assert.Equal(t, []string{"row 2: no prices for product 'مارجريتا'"}, data.Warnings)
}
