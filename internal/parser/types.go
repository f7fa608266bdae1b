package parser

import "engezna/internal/model"

// SheetHint pricing prior inferred from a sheet name
type SheetHint struct {
	PricingType    model.PricingType `json:"pricingType,omitempty"`
	VariantType    model.VariantType `json:"variantType,omitempty"`
	UnitType       model.UnitType    `json:"unitType,omitempty"`
	VariantGroupID string            `json:"variantGroupId,omitempty"`
	Keyword        string            `json:"keyword,omitempty"`
}

// Matched reports whether a sheet-name rule produced the hint.
func (h SheetHint) Matched() bool {
	return h.Keyword != ""
}

// hintRule sheet-name keywords and the hint they produce
type hintRule struct {
	keywords []string
	hint     SheetHint
}

// matchPass decides whether a normalized header satisfies a normalized keyword.
type matchPass func(header, keyword string) bool
