package model

// DefaultCategoryName placeholder category for rows without a category column
const DefaultCategoryName = "عام"

// ExtractedVariant one priced option of a product
type ExtractedVariant struct {
	NameAr       string   `json:"nameAr"`
	NameEn       string   `json:"nameEn"`
	Price        float64  `json:"price"`
	IsDefault    bool     `json:"isDefault"`
	DisplayOrder int      `json:"displayOrder"`
	Multiplier   *float64 `json:"multiplier,omitempty"`
}

// ExtractedProduct product row after extraction
type ExtractedProduct struct {
	NameAr        string             `json:"nameAr"`
	NameEn        string             `json:"nameEn,omitempty"`
	DescriptionAr string             `json:"descriptionAr,omitempty"`
	PricingType   PricingType        `json:"pricingType"`
	VariantType   VariantType        `json:"variantType,omitempty"`
	Price         *float64           `json:"price,omitempty"`
	UnitType      UnitType           `json:"unitType,omitempty"`
	MinQuantity   float64            `json:"minQuantity"`
	QuantityStep  float64            `json:"quantityStep"`
	Variants      []ExtractedVariant `json:"variants,omitempty"`
	ImageURL      string             `json:"imageUrl,omitempty"`
	NeedsReview   bool               `json:"needsReview"`
	SourceNote    string             `json:"sourceNote"`
}

// ExtractedCategory category with its products, keyed by NameAr for merges
type ExtractedCategory struct {
	NameAr             string             `json:"nameAr"`
	NameEn             string             `json:"nameEn,omitempty"`
	DisplayOrder       int                `json:"displayOrder"`
	Products           []ExtractedProduct `json:"products"`
	DefaultPricingType PricingType        `json:"defaultPricingType"`
	DefaultUnitType    UnitType           `json:"defaultUnitType,omitempty"`
	DefaultVariantType VariantType        `json:"defaultVariantType,omitempty"`
}

// ParsedExcelData extraction output for one sheet, or the merged catalog
type ParsedExcelData struct {
	Categories    []ExtractedCategory `json:"categories"`
	TotalProducts int                 `json:"totalProducts"`
	Warnings      []string            `json:"warnings"`
	PricingType   PricingType         `json:"pricingType"`
	VariantType   VariantType         `json:"variantType,omitempty"`
	UnitType      UnitType            `json:"unitType,omitempty"`
}

// SheetResult per-sheet detection and extraction
type SheetResult struct {
	Name      string          `json:"name"`
	Detection DetectionResult `json:"detection"`
	Data      ParsedExcelData `json:"data"`
}

// MultiSheetResult output contract handed to the persistence / review collaborators
type MultiSheetResult struct {
	Sheets   []SheetResult   `json:"sheets"`
	Combined ParsedExcelData `json:"combined"`
}
