package parser

import (
	"strings"

	"engezna/internal/model"
)

// SheetHintResolver infers a pricing prior from a sheet name
type SheetHintResolver struct {
	rules []hintRule
}

// NewSheetHintResolver creates a resolver with the built-in rules.
// Rules are tried in order; the first rule with a matching keyword wins.
func NewSheetHintResolver() *SheetHintResolver {
	rules := []hintRule{
		{
			keywords: []string{"خضار", "خضروات", "خضراوات", "فواكه", "فاكهة", "vegetable", "veggies", "fruit", "produce"},
			hint:     SheetHint{PricingType: model.PricingPerUnit, UnitType: model.UnitKg},
		},
		{
			keywords: []string{"سوبر", "بقالة", "ماركت", "هايبر", "grocery", "supermarket", "market", "mart"},
			hint:     SheetHint{PricingType: model.PricingFixed, UnitType: model.UnitPiece},
		},
		{
			keywords: []string{"أحجام", "احجام", "مقاسات", "بيتزا", "sizes", "pizza"},
			hint:     SheetHint{PricingType: model.PricingVariants, VariantType: model.VariantSize, VariantGroupID: "sizes"},
		},
		{
			keywords: []string{"لحوم", "لحمة", "مشويات", "مشاوي", "جريل", "كباب", "كفتة", "بالوزن", "جزارة", "meat", "grill", "bbq", "butcher", "by weight"},
			hint:     SheetHint{PricingType: model.PricingVariants, VariantType: model.VariantWeight, VariantGroupID: "restaurant_weight"},
		},
		{
			keywords: []string{"قهوة", "جرامات", "محمصة", "محامص", "coffee", "roastery", "roaster", "grams"},
			hint:     SheetHint{PricingType: model.PricingVariants, VariantType: model.VariantCoffeeWeight, VariantGroupID: "coffee_weight"},
		},
		{
			keywords: []string{"مطعم", "وجبات", "منيو", "قائمة الطعام", "restaurant", "meals", "menu"},
			hint:     SheetHint{PricingType: model.PricingFixed, UnitType: model.UnitPiece},
		},
	}
	for i := range rules {
		rules[i].keywords = normalizeKeywords(rules[i].keywords)
	}
	return &SheetHintResolver{rules: rules}
}

// Resolve returns the hint for a sheet name. Without a matching rule the hint is
// fixed pricing with no unit and no variant type.
func (r *SheetHintResolver) Resolve(sheetName string) SheetHint {
	name := NormalizeHeader(sheetName)
	if name == "" {
		return SheetHint{PricingType: model.PricingFixed}
	}

	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				hint := rule.hint
				hint.Keyword = kw
				return hint
			}
		}
	}
	return SheetHint{PricingType: model.PricingFixed}
}

var defaultHintResolver = NewSheetHintResolver()

// ResolveSheetHint resolves a sheet name with the built-in rules.
func ResolveSheetHint(sheetName string) SheetHint {
	return defaultHintResolver.Resolve(sheetName)
}
