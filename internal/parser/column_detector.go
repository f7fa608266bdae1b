package parser

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"engezna/internal/model"
)

// DefaultLowConfidence confidence under which a review suggestion is added
const DefaultLowConfidence = 0.5

// minGroupColumns matched member columns a variant group needs to win
const minGroupColumns = 2

var (
	matchPasses = []matchPass{exactMatch, headerContainsKeyword, keywordContainsHeader}

	// Reorders the usual role priority on purpose: price is matched after variant
	// groups so "سعر صغير" stays a size column, and each match pass runs over all
	// roles before the next pass starts.
	leadingRoles = []model.SemanticRole{
		model.RoleProduct,
		model.RoleCategory,
		model.RoleDescription,
		model.RoleNameEn,
		model.RoleUnit,
		model.RoleImageURL,
	}
	priceRoles = []model.SemanticRole{model.RolePrice}
)

func exactMatch(header, keyword string) bool {
	return header == keyword
}

func headerContainsKeyword(header, keyword string) bool {
	return runeLen(keyword) >= 2 && strings.Contains(header, keyword)
}

func keywordContainsHeader(header, keyword string) bool {
	return runeLen(header) >= 2 && strings.Contains(keyword, header)
}

// columnSet free flags per header column; blank headers start taken
type columnSet []bool

func newColumnSet(normalized []string) columnSet {
	s := make(columnSet, len(normalized))
	for i, h := range normalized {
		s[i] = h != ""
	}
	return s
}

func (s columnSet) clone() columnSet {
	return append(columnSet(nil), s...)
}

func (s columnSet) take(i int) {
	if i >= 0 && i < len(s) {
		s[i] = false
	}
}

func (s columnSet) isFree(i int) bool {
	return i >= 0 && i < len(s) && s[i]
}

func findColumn(pass matchPass, normalized []string, free columnSet, keywords []string) int {
	for i, h := range normalized {
		if !free.isFree(i) {
			continue
		}
		for _, kw := range keywords {
			if pass(h, kw) {
				return i
			}
		}
	}
	return model.NoColumn
}

// assignRoles runs every pass over all roles before moving to the next pass, so an
// exact match anywhere beats a substring match for any role. Matched columns are
// taken from free.
func assignRoles(roles []model.SemanticRole, normalized []string, free columnSet) map[model.SemanticRole]int {
	found := make(map[model.SemanticRole]int, len(roles))
	for _, pass := range matchPasses {
		for _, role := range roles {
			if _, ok := found[role]; ok {
				continue
			}
			if idx := findColumn(pass, normalized, free, roleKeywords[role]); idx != model.NoColumn {
				found[role] = idx
				free.take(idx)
			}
		}
	}
	return found
}

// groupMatch variant columns one group found on the free headers
type groupMatch struct {
	group   model.VariantGroup
	columns []model.VariantColumn
}

func matchVariantGroups(headers, normalized []string, free columnSet) []groupMatch {
	out := make([]groupMatch, 0, len(variantGroups))
	for _, g := range variantGroups {
		found := assignRoles(g.Roles, normalized, free.clone())
		cols := make([]model.VariantColumn, 0, len(found))
		for _, role := range g.Roles {
			idx, ok := found[role]
			if !ok {
				continue
			}
			label := strings.TrimSpace(headers[idx])
			cols = append(cols, model.VariantColumn{
				ColumnIndex: idx,
				Role:        role,
				NameAr:      label,
				NameEn:      label,
				VariantType: g.VariantType,
				Multiplier:  copyMultiplier(g.Labels[role].Multiplier),
			})
		}
		slices.SortStableFunc(cols, func(a, b model.VariantColumn) int {
			return cmp.Compare(a.ColumnIndex, b.ColumnIndex)
		})
		out = append(out, groupMatch{group: g, columns: cols})
	}
	return out
}

// bestVariantGroup most matched columns wins; ties keep the earlier declared group.
func bestVariantGroup(matches []groupMatch) (groupMatch, bool) {
	best := -1
	for i, m := range matches {
		if len(m.columns) < minGroupColumns {
			continue
		}
		if best < 0 || len(m.columns) > len(matches[best].columns) {
			best = i
		}
	}
	if best < 0 {
		return groupMatch{}, false
	}
	return matches[best], true
}

func groupColumns(matches []groupMatch, groupID string) []model.VariantColumn {
	for _, m := range matches {
		if m.group.ID == groupID {
			return m.columns
		}
	}
	return nil
}

// fallbackProductColumn first unassigned column whose header and sampled cells do
// not look numeric
func fallbackProductColumn(normalized []string, free columnSet, rows [][]model.CellValue) int {
	for i, h := range normalized {
		if !free.isFree(i) {
			continue
		}
		if LooksNumeric(model.TextCell(h)) || IsProbablyNumericColumn(rows, i) {
			continue
		}
		return i
	}
	return model.NoColumn
}

func numericColumns(normalized []string, free columnSet, rows [][]model.CellValue) []int {
	var cols []int
	for i, h := range normalized {
		if !free.isFree(i) || isIdentifierHeader(h) {
			continue
		}
		if IsProbablyNumericColumn(rows, i) {
			cols = append(cols, i)
		}
	}
	return cols
}

func classifyAdhoc(normalized []string, cols []int) model.VariantType {
	for _, c := range cols {
		if matchesAnyKeyword(normalized[c], weightishKeywords) {
			return model.VariantWeight
		}
	}
	for _, c := range cols {
		if matchesAnyKeyword(normalized[c], sizeishKeywords) {
			return model.VariantSize
		}
	}
	return model.VariantOption
}

func adhocVariants(headers []string, cols []int, vt model.VariantType) []model.VariantColumn {
	out := make([]model.VariantColumn, 0, len(cols))
	for _, c := range cols {
		label := strings.TrimSpace(headers[c])
		vc := model.VariantColumn{
			ColumnIndex: c,
			Role:        model.RoleVariantCustom,
			NameAr:      label,
			NameEn:      label,
			VariantType: vt,
		}
		if role, ok := MatchVariantRole(label); ok {
			if _, l, ok := LookupVariantRole(role); ok {
				vc.Role = role
				vc.Multiplier = l.Multiplier
			}
		}
		out = append(out, vc)
	}
	return out
}

func assignedSingular(m model.ColumnMapping) int {
	n := 0
	for _, role := range model.SingularRoles {
		if m.Index(role) != model.NoColumn {
			n++
		}
	}
	return n
}

// Confidence matched slots over 4 + max(1, variant columns), clamped to [0,1].
func Confidence(m model.ColumnMapping) float64 {
	matched := float64(assignedSingular(m) + len(m.Variants))
	denom := math.Max(float64(4+max(1, len(m.Variants))), 1)
	return math.Min(math.Max(matched/denom, 0), 1)
}

// ColumnDetector detects column roles and the pricing model of one sheet
type ColumnDetector struct {
	hints         *SheetHintResolver
	lowConfidence float64
}

// NewColumnDetector creates a detector. A threshold outside (0,1] uses DefaultLowConfidence.
func NewColumnDetector(lowConfidence float64) *ColumnDetector {
	if lowConfidence <= 0 || lowConfidence > 1 {
		lowConfidence = DefaultLowConfidence
	}
	return &ColumnDetector{
		hints:         defaultHintResolver,
		lowConfidence: lowConfidence,
	}
}

// Detect maps headers to roles and resolves the pricing model.
//
// Precedence, first applicable wins:
//  1. variant columns from a named group (or ad-hoc numeric columns) → variants
//  2. sheet hint per_unit → per_unit
//  3. sheet hint variants → variants, with whichever hint group columns matched
//  4. fixed
//
// rows are only used for numeric sniffing and may be nil.
func (d *ColumnDetector) Detect(headers []string, rows [][]model.CellValue, sheetName string) model.DetectionResult {
	normalized := normalizeAll(headers)
	free := newColumnSet(normalized)
	mapping := model.NewColumnMapping()
	suggestions := []string{}

	for role, idx := range assignRoles(leadingRoles, normalized, free) {
		mapping.Set(role, idx)
	}

	groups := matchVariantGroups(headers, normalized, free)
	variantType := model.VariantNone
	variantGroupID := ""
	if best, ok := bestVariantGroup(groups); ok {
		mapping.Variants = best.columns
		for _, c := range best.columns {
			free.take(c.ColumnIndex)
		}
		variantType = best.group.VariantType
		variantGroupID = best.group.ID
	}

	if idx, ok := assignRoles(priceRoles, normalized, free)[model.RolePrice]; ok {
		mapping.Price = idx
	}

	if len(mapping.Variants) == 0 && mapping.Price == model.NoColumn {
		numeric := numericColumns(normalized, free, rows)
		switch {
		case len(numeric) == 1:
			mapping.Price = numeric[0]
			free.take(numeric[0])
		case len(numeric) >= 2:
			variantType = classifyAdhoc(normalized, numeric)
			mapping.Variants = adhocVariants(headers, numeric, variantType)
			for _, c := range numeric {
				free.take(c)
			}
			suggestions = append(suggestions, fmt.Sprintf("%d numeric columns treated as %s variants; check the variant labels", len(numeric), variantType))
		}
	}

	if mapping.Product == model.NoColumn {
		if idx := fallbackProductColumn(normalized, free, rows); idx != model.NoColumn {
			mapping.Product = idx
			free.take(idx)
			suggestions = append(suggestions, fmt.Sprintf("no product column header recognized; using %q as the product name", strings.TrimSpace(headers[idx])))
		} else {
			suggestions = append(suggestions, "no product column found; assign the product name column manually")
		}
	}

	hint := d.hints.Resolve(sheetName)
	hintColumns := groupColumns(groups, hint.VariantGroupID)

	var pricing model.PricingType
	unit := model.UnitNone
	switch {
	case len(mapping.Variants) > 0:
		pricing = model.PricingVariants
	case hint.PricingType == model.PricingPerUnit:
		pricing = model.PricingPerUnit
		unit = hint.UnitType
	case hint.PricingType == model.PricingVariants:
		pricing = model.PricingVariants
		variantType = hint.VariantType
		variantGroupID = hint.VariantGroupID
		mapping.Variants = []model.VariantColumn{}
		for _, c := range hintColumns {
			if c.ColumnIndex == mapping.Product {
				continue
			}
			if c.ColumnIndex == mapping.Price {
				mapping.Price = model.NoColumn
			}
			mapping.Variants = append(mapping.Variants, c)
		}
		if len(mapping.Variants) == 0 {
			suggestions = append(suggestions, fmt.Sprintf("sheet name suggests %s variants but no variant price columns were found", hint.VariantType))
		}
	default:
		pricing = model.PricingFixed
		unit = hint.UnitType
	}

	confidence := Confidence(mapping)
	if confidence < d.lowConfidence {
		suggestions = append(suggestions, fmt.Sprintf("low detection confidence (%.2f); review the column mapping", confidence))
	}

	return model.DetectionResult{
		Mapping:        mapping,
		Confidence:     confidence,
		PricingType:    pricing,
		VariantType:    variantType,
		UnitType:       unit,
		VariantGroupID: variantGroupID,
		Suggestions:    suggestions,
	}
}
