package model

// SemanticRole purpose of a spreadsheet column
type SemanticRole string

const (
	RoleCategory    SemanticRole = "category"
	RoleProduct     SemanticRole = "product"
	RolePrice       SemanticRole = "price"
	RoleDescription SemanticRole = "description"
	RoleNameEn      SemanticRole = "name_en"
	RoleUnit        SemanticRole = "unit"
	RoleImageURL    SemanticRole = "image_url"

	RoleSizeSmall  SemanticRole = "size_small"
	RoleSizeMedium SemanticRole = "size_medium"
	RoleSizeLarge  SemanticRole = "size_large"
	RoleSizeFamily SemanticRole = "size_family"

	RoleWeightQuarter       SemanticRole = "weight_quarter"
	RoleWeightHalf          SemanticRole = "weight_half"
	RoleWeightThreeQuarters SemanticRole = "weight_three_quarters"
	RoleWeightKilo          SemanticRole = "weight_kilo"

	RoleWeight125g SemanticRole = "weight_125g"
	RoleWeight250g SemanticRole = "weight_250g"
	RoleWeight500g SemanticRole = "weight_500g"
	RoleWeight1kg  SemanticRole = "weight_1kg"

	RoleOptionSingle SemanticRole = "option_single"
	RoleOptionDouble SemanticRole = "option_double"
	RoleOptionTriple SemanticRole = "option_triple"

	// RoleVariantCustom marks a numeric column promoted to a variant by sniffing.
	RoleVariantCustom SemanticRole = "variant_custom"

	// RoleIgnore is only valid in manual mappings.
	RoleIgnore SemanticRole = "ignore"
)

// SingularRoles roles that map to at most one column, in detection priority order
var SingularRoles = []SemanticRole{
	RoleProduct,
	RoleCategory,
	RoleDescription,
	RoleNameEn,
	RoleUnit,
	RoleImageURL,
	RolePrice,
}

// IsSingular reports whether the role maps to at most one column.
func (r SemanticRole) IsSingular() bool {
	for _, s := range SingularRoles {
		if s == r {
			return true
		}
	}
	return false
}

// PricingType pricing model of a product or sheet
type PricingType string

const (
	PricingFixed    PricingType = "fixed"
	PricingPerUnit  PricingType = "per_unit"
	PricingVariants PricingType = "variants"
)

// IsValid reports whether p is one of the known pricing types.
func (p PricingType) IsValid() bool {
	switch p {
	case PricingFixed, PricingPerUnit, PricingVariants:
		return true
	default:
		return false
	}
}

// VariantType kind of variant set
type VariantType string

const (
	VariantNone         VariantType = ""
	VariantSize         VariantType = "size"
	VariantWeight       VariantType = "weight"
	VariantCoffeeWeight VariantType = "coffee_weight"
	VariantOption       VariantType = "option"
)

// UnitType selling unit
type UnitType string

const (
	UnitNone  UnitType = ""
	UnitKg    UnitType = "kg"
	UnitGram  UnitType = "gram"
	UnitPiece UnitType = "piece"
	UnitLiter UnitType = "liter"
)

// VariantLabel display names of a variant role; Multiplier is the fraction of a canonical unit
type VariantLabel struct {
	NameAr     string   `json:"nameAr"`
	NameEn     string   `json:"nameEn"`
	Multiplier *float64 `json:"multiplier,omitempty"`
}

// VariantGroup predefined set of mutually exclusive variant columns
type VariantGroup struct {
	ID          string                        `json:"id"`
	VariantType VariantType                   `json:"variantType"`
	Roles       []SemanticRole                `json:"roles"`
	Labels      map[SemanticRole]VariantLabel `json:"labels"`
}

// NoColumn marks a role without a column
const NoColumn = -1

// VariantColumn one priced variant column
type VariantColumn struct {
	ColumnIndex int          `json:"columnIndex"`
	Role        SemanticRole `json:"role"`
	NameAr      string       `json:"nameAr"`
	NameEn      string       `json:"nameEn"`
	VariantType VariantType  `json:"variantType"`
	Multiplier  *float64     `json:"multiplier,omitempty"`
}

// ColumnMapping column assignment for one sheet
type ColumnMapping struct {
	Category    int             `json:"category"`
	Product     int             `json:"product"`
	Price       int             `json:"price"`
	Description int             `json:"description"`
	NameEn      int             `json:"nameEn"`
	Unit        int             `json:"unit"`
	ImageURL    int             `json:"imageUrl"`
	Variants    []VariantColumn `json:"variants"`
}

// NewColumnMapping returns a mapping with every singular role unassigned.
func NewColumnMapping() ColumnMapping {
	return ColumnMapping{
		Category:    NoColumn,
		Product:     NoColumn,
		Price:       NoColumn,
		Description: NoColumn,
		NameEn:      NoColumn,
		Unit:        NoColumn,
		ImageURL:    NoColumn,
		Variants:    []VariantColumn{},
	}
}

// Index returns the column of a singular role, or NoColumn.
func (m ColumnMapping) Index(role SemanticRole) int {
	switch role {
	case RoleCategory:
		return m.Category
	case RoleProduct:
		return m.Product
	case RolePrice:
		return m.Price
	case RoleDescription:
		return m.Description
	case RoleNameEn:
		return m.NameEn
	case RoleUnit:
		return m.Unit
	case RoleImageURL:
		return m.ImageURL
	default:
		return NoColumn
	}
}

// Set assigns a singular role. Returns false for non-singular roles.
func (m *ColumnMapping) Set(role SemanticRole, col int) bool {
	switch role {
	case RoleCategory:
		m.Category = col
	case RoleProduct:
		m.Product = col
	case RolePrice:
		m.Price = col
	case RoleDescription:
		m.Description = col
	case RoleNameEn:
		m.NameEn = col
	case RoleUnit:
		m.Unit = col
	case RoleImageURL:
		m.ImageURL = col
	default:
		return false
	}
	return true
}

// Usable reports whether a product column is present.
func (m ColumnMapping) Usable() bool {
	return m.Product != NoColumn
}

// DetectionResult output of column detection or manual mapping
type DetectionResult struct {
	Mapping        ColumnMapping `json:"mapping"`
	Confidence     float64       `json:"confidence"`
	PricingType    PricingType   `json:"pricingType"`
	VariantType    VariantType   `json:"variantType,omitempty"`
	UnitType       UnitType      `json:"unitType,omitempty"`
	VariantGroupID string        `json:"variantGroupId,omitempty"`
	Suggestions    []string      `json:"suggestions"`
}

// ManualMapping explicit column → role assignment produced by a reviewer
type ManualMapping struct {
	Columns     map[int]SemanticRole `json:"columns" validate:"required,min=1"`
	PricingType PricingType          `json:"pricingType" validate:"required,oneof=fixed per_unit variants"`
	VariantType VariantType          `json:"variantType,omitempty"`
	UnitType    UnitType             `json:"unitType,omitempty"`
}
