package excel

import (
	"fmt"
	"slices"
	"strings"

	"engezna/internal/model"
	"engezna/internal/parser"
)

const (
	manualConfidence          = 0.8
	manualConfidenceNoProduct = 0.2
)

// ApplyManualMapping builds a detection result from a reviewer's column → role
// assignment. Columns are applied in ascending order; the first column given a
// singular role keeps it. Variant roles take their group's canonical labels.
func ApplyManualMapping(headers []string, m model.ManualMapping) model.DetectionResult {
	mapping := model.NewColumnMapping()
	suggestions := []string{}

	pricing := m.PricingType
	if !pricing.IsValid() {
		suggestions = append(suggestions, fmt.Sprintf("unknown pricing type %q; using fixed", pricing))
		pricing = model.PricingFixed
	}

	variantType := m.VariantType
	groupID := ""

	cols := make([]int, 0, len(m.Columns))
	for col := range m.Columns {
		cols = append(cols, col)
	}
	slices.Sort(cols)

	for _, col := range cols {
		role := m.Columns[col]
		if role == model.RoleIgnore || role == "" {
			continue
		}
		if col < 0 || col >= len(headers) {
			suggestions = append(suggestions, fmt.Sprintf("column %d is outside the header row; role %s ignored", col, role))
			continue
		}

		switch {
		case role.IsSingular():
			if prev := mapping.Index(role); prev != model.NoColumn {
				suggestions = append(suggestions, fmt.Sprintf("column %d: role %s already assigned to column %d", col, role, prev))
				continue
			}
			mapping.Set(role, col)
		case role == model.RoleVariantCustom:
			label := strings.TrimSpace(headers[col])
			vt := m.VariantType
			if vt == model.VariantNone {
				vt = model.VariantOption
			}
			mapping.Variants = append(mapping.Variants, model.VariantColumn{
				ColumnIndex: col,
				Role:        role,
				NameAr:      label,
				NameEn:      label,
				VariantType: vt,
			})
		default:
			group, label, ok := parser.LookupVariantRole(role)
			if !ok {
				suggestions = append(suggestions, fmt.Sprintf("column %d: unknown role %q ignored", col, role))
				continue
			}
			mapping.Variants = append(mapping.Variants, model.VariantColumn{
				ColumnIndex: col,
				Role:        role,
				NameAr:      label.NameAr,
				NameEn:      label.NameEn,
				VariantType: group.VariantType,
				Multiplier:  label.Multiplier,
			})
			if groupID == "" {
				groupID = group.ID
			}
			if variantType == model.VariantNone {
				variantType = group.VariantType
			}
		}
	}

	if pricing == model.PricingVariants {
		if len(mapping.Variants) == 0 {
			suggestions = append(suggestions, "pricing type is variants but no variant columns were assigned")
		}
		if variantType == model.VariantNone {
			variantType = model.VariantOption
		}
	} else {
		if len(mapping.Variants) > 0 {
			suggestions = append(suggestions, fmt.Sprintf("%d variant columns ignored because pricing type is %s", len(mapping.Variants), pricing))
			mapping.Variants = []model.VariantColumn{}
		}
		variantType = model.VariantNone
		groupID = ""
	}

	confidence := manualConfidence
	if mapping.Product == model.NoColumn {
		confidence = manualConfidenceNoProduct
		suggestions = append(suggestions, "no product column assigned; map a column to the product role")
	}

	return model.DetectionResult{
		Mapping:        mapping,
		Confidence:     confidence,
		PricingType:    pricing,
		VariantType:    variantType,
		UnitType:       m.UnitType,
		VariantGroupID: groupID,
		Suggestions:    suggestions,
	}
}
