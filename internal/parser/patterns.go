package parser

import (
	"engezna/internal/model"
)

// rawRoleKeywords bilingual header keywords per role, normalized once at init.
// Keyword order inside a role does not matter; role order is fixed by the callers.
var rawRoleKeywords = map[model.SemanticRole][]string{
	model.RoleProduct: {
		"المنتج", "منتج", "اسم المنتج", "الصنف", "صنف", "اسم الصنف", "الوجبة", "وجبة",
		"اسم الوجبة", "البند", "الاسم", "اسم",
		"product", "product name", "item", "item name", "name",
	},
	model.RoleCategory: {
		"القسم", "قسم", "الفئة", "فئة", "التصنيف", "تصنيف", "المجموعة", "مجموعة",
		"category", "section", "group",
	},
	model.RoleDescription: {
		"الوصف", "وصف", "المكونات", "مكونات", "التفاصيل", "تفاصيل", "ملاحظات",
		"description", "desc", "details", "ingredients",
	},
	model.RoleNameEn: {
		"الاسم بالانجليزي", "الاسم الانجليزي", "اسم انجليزي", "بالانجليزي", "انجليزي",
		"english name", "name en", "name_en", "en name", "english",
	},
	model.RoleUnit: {
		"الوحدة", "وحدة", "وحدة البيع", "unit", "uom",
	},
	model.RoleImageURL: {
		"الصورة", "صورة", "رابط الصورة", "image", "image url", "image_url", "photo", "img", "picture",
	},
	model.RolePrice: {
		"السعر", "سعر", "الثمن", "سعر البيع", "price", "cost", "selling price",
	},

	model.RoleSizeSmall:  {"صغير", "صغيرة", "سمول", "small", "sm", "s"},
	model.RoleSizeMedium: {"وسط", "متوسط", "ميديم", "medium", "med", "m"},
	model.RoleSizeLarge:  {"كبير", "كبيرة", "لارج", "large", "lg", "l"},
	model.RoleSizeFamily: {"عائلي", "فاميلي", "جامبو", "كبير جدا", "family", "jumbo", "xl"},

	model.RoleWeightQuarter:       {"ربع", "ربع كيلو", "1/4", "¼", "quarter", "1/4 kg"},
	model.RoleWeightHalf:          {"نص", "نصف", "نص كيلو", "نصف كيلو", "1/2", "½", "half", "1/2 kg"},
	model.RoleWeightThreeQuarters: {"تلت ارباع", "ثلاثة ارباع", "ثلاث ارباع", "3/4", "¾", "three quarters"},
	model.RoleWeightKilo:          {"كيلو", "كيلو جرام", "كجم", "kilo", "kg"},

	model.RoleWeight125g: {"125 جرام", "125 جم", "125جم", "125 gm", "125g", "125 g", "125"},
	model.RoleWeight250g: {"250 جرام", "250 جم", "250جم", "250 gm", "250g", "250 g", "250"},
	model.RoleWeight500g: {"500 جرام", "500 جم", "500جم", "500 gm", "500g", "500 g", "500"},
	model.RoleWeight1kg:  {"1000 جرام", "1000 جم", "1 كيلو", "1000g", "1kg", "1 kg", "1000"},

	model.RoleOptionSingle: {"سنجل", "سينجل", "فردي", "single"},
	model.RoleOptionDouble: {"دبل", "دابل", "مزدوج", "double"},
	model.RoleOptionTriple: {"تريبل", "تربل", "ثلاثي", "triple"},
}

var roleKeywords = normalizeKeywordTable(rawRoleKeywords)

// variantGroups declaration order is the tie-break order.
var variantGroups = []model.VariantGroup{
	{
		ID:          "sizes",
		VariantType: model.VariantSize,
		Roles:       []model.SemanticRole{model.RoleSizeSmall, model.RoleSizeMedium, model.RoleSizeLarge, model.RoleSizeFamily},
		Labels: map[model.SemanticRole]model.VariantLabel{
			model.RoleSizeSmall:  {NameAr: "صغير", NameEn: "Small"},
			model.RoleSizeMedium: {NameAr: "وسط", NameEn: "Medium"},
			model.RoleSizeLarge:  {NameAr: "كبير", NameEn: "Large"},
			model.RoleSizeFamily: {NameAr: "عائلي", NameEn: "Family"},
		},
	},
	{
		ID:          "restaurant_weight",
		VariantType: model.VariantWeight,
		Roles:       []model.SemanticRole{model.RoleWeightQuarter, model.RoleWeightHalf, model.RoleWeightThreeQuarters, model.RoleWeightKilo},
		Labels: map[model.SemanticRole]model.VariantLabel{
			model.RoleWeightQuarter:       {NameAr: "ربع كيلو", NameEn: "Quarter Kilo", Multiplier: multiplier(0.25)},
			model.RoleWeightHalf:          {NameAr: "نص كيلو", NameEn: "Half Kilo", Multiplier: multiplier(0.5)},
			model.RoleWeightThreeQuarters: {NameAr: "تلت ارباع كيلو", NameEn: "Three Quarters Kilo", Multiplier: multiplier(0.75)},
			model.RoleWeightKilo:          {NameAr: "كيلو", NameEn: "Kilo", Multiplier: multiplier(1)},
		},
	},
	{
		ID:          "coffee_weight",
		VariantType: model.VariantCoffeeWeight,
		Roles:       []model.SemanticRole{model.RoleWeight125g, model.RoleWeight250g, model.RoleWeight500g, model.RoleWeight1kg},
		Labels: map[model.SemanticRole]model.VariantLabel{
			model.RoleWeight125g: {NameAr: "125 جرام", NameEn: "125g", Multiplier: multiplier(0.125)},
			model.RoleWeight250g: {NameAr: "250 جرام", NameEn: "250g", Multiplier: multiplier(0.25)},
			model.RoleWeight500g: {NameAr: "500 جرام", NameEn: "500g", Multiplier: multiplier(0.5)},
			model.RoleWeight1kg:  {NameAr: "1 كيلو", NameEn: "1kg", Multiplier: multiplier(1)},
		},
	},
	{
		ID:          "portions",
		VariantType: model.VariantOption,
		Roles:       []model.SemanticRole{model.RoleOptionSingle, model.RoleOptionDouble, model.RoleOptionTriple},
		Labels: map[model.SemanticRole]model.VariantLabel{
			model.RoleOptionSingle: {NameAr: "سنجل", NameEn: "Single"},
			model.RoleOptionDouble: {NameAr: "دبل", NameEn: "Double"},
			model.RoleOptionTriple: {NameAr: "تريبل", NameEn: "Triple"},
		},
	},
}

var (
	identifierKeywords = normalizeKeywords([]string{
		"#", "م", "رقم", "الرقم", "مسلسل", "كود", "الكود", "باركود",
		"code", "sku", "barcode", "id", "no", "no.", "serial",
	})
	weightishKeywords = normalizeKeywords([]string{
		"ربع", "نص", "نصف", "كيلو", "جرام", "جم", "كجم",
		"quarter", "half", "kilo", "kg", "gram", "gm",
	})
	sizeishKeywords = normalizeKeywords([]string{
		"صغير", "وسط", "متوسط", "كبير", "عائلي",
		"small", "medium", "large", "family",
	})
)

// unitKeywords order matters for the substring pass: "كيلوجرام" is kg, not gram.
var unitKeywords = []struct {
	unit     model.UnitType
	keywords []string
}{
	{model.UnitKg, normalizeKeywords([]string{"كيلو", "كجم", "كغ", "كيلوجرام", "kg", "kilo", "kilogram"})},
	{model.UnitGram, normalizeKeywords([]string{"جرام", "جم", "غرام", "gram", "g", "gm", "gr"})},
	{model.UnitPiece, normalizeKeywords([]string{"قطعة", "حبة", "عدد", "علبة", "piece", "pcs", "pc", "each"})},
	{model.UnitLiter, normalizeKeywords([]string{"لتر", "liter", "litre", "ltr"})},
}

func multiplier(v float64) *float64 {
	return &v
}

func copyMultiplier(m *float64) *float64 {
	if m == nil {
		return nil
	}
	return multiplier(*m)
}

func normalizeKeywords(kws []string) []string {
	seen := make(map[string]bool, len(kws))
	out := make([]string, 0, len(kws))
	for _, kw := range kws {
		n := NormalizeHeader(kw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeywordTable(in map[model.SemanticRole][]string) map[model.SemanticRole][]string {
	out := make(map[model.SemanticRole][]string, len(in))
	for role, kws := range in {
		out[role] = normalizeKeywords(kws)
	}
	return out
}

// RoleKeywords returns a copy of the normalized keywords of a role.
func RoleKeywords(role model.SemanticRole) []string {
	return append([]string(nil), roleKeywords[role]...)
}

// VariantGroups returns a deep copy of the variant groups in declaration order.
func VariantGroups() []model.VariantGroup {
	out := make([]model.VariantGroup, len(variantGroups))
	for i, g := range variantGroups {
		out[i] = copyGroup(g)
	}
	return out
}

// VariantGroupByID finds a variant group by ID.
func VariantGroupByID(id string) (model.VariantGroup, bool) {
	for _, g := range variantGroups {
		if g.ID == id {
			return copyGroup(g), true
		}
	}
	return model.VariantGroup{}, false
}

// LookupVariantRole returns the group and label that own a variant role.
func LookupVariantRole(role model.SemanticRole) (model.VariantGroup, model.VariantLabel, bool) {
	for _, g := range variantGroups {
		if label, ok := g.Labels[role]; ok {
			label.Multiplier = copyMultiplier(label.Multiplier)
			return copyGroup(g), label, true
		}
	}
	return model.VariantGroup{}, model.VariantLabel{}, false
}

func copyGroup(g model.VariantGroup) model.VariantGroup {
	labels := make(map[model.SemanticRole]model.VariantLabel, len(g.Labels))
	for role, label := range g.Labels {
		label.Multiplier = copyMultiplier(label.Multiplier)
		labels[role] = label
	}
	return model.VariantGroup{
		ID:          g.ID,
		VariantType: g.VariantType,
		Roles:       append([]model.SemanticRole(nil), g.Roles...),
		Labels:      labels,
	}
}

// MatchVariantRole finds the variant role whose keywords best match a header:
// exact matches across every group first, then substring matches.
func MatchVariantRole(header string) (model.SemanticRole, bool) {
	h := NormalizeHeader(header)
	if h == "" {
		return "", false
	}
	for _, pass := range matchPasses {
		for _, g := range variantGroups {
			for _, role := range g.Roles {
				for _, kw := range roleKeywords[role] {
					if pass(h, kw) {
						return role, true
					}
				}
			}
		}
	}
	return "", false
}

// ParseUnit recognizes a selling unit from free text such as "كيلو" or "pcs".
func ParseUnit(text string) (model.UnitType, bool) {
	t := NormalizeHeader(text)
	if t == "" {
		return model.UnitNone, false
	}
	for _, u := range unitKeywords {
		for _, kw := range u.keywords {
			if t == kw {
				return u.unit, true
			}
		}
	}
	for _, u := range unitKeywords {
		for _, kw := range u.keywords {
			if headerContainsKeyword(t, kw) {
				return u.unit, true
			}
		}
	}
	return model.UnitNone, false
}

func isIdentifierHeader(normalized string) bool {
	for _, kw := range identifierKeywords {
		if exactMatch(normalized, kw) || (runeLen(kw) >= 3 && headerContainsKeyword(normalized, kw)) {
			return true
		}
	}
	return false
}

func matchesAnyKeyword(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if exactMatch(normalized, kw) || headerContainsKeyword(normalized, kw) {
			return true
		}
	}
	return false
}

// RolePatterns keywords of one role, for display
type RolePatterns struct {
	Role     model.SemanticRole `json:"role"`
	Keywords []string           `json:"keywords"`
}

// PatternSnapshot read-only view of the registry
type PatternSnapshot struct {
	Roles         []RolePatterns       `json:"roles"`
	VariantGroups []model.VariantGroup `json:"variantGroups"`
}

// Snapshot returns every role's keywords, singular roles first, then variant roles
// in group order.
func Snapshot() PatternSnapshot {
	snap := PatternSnapshot{VariantGroups: VariantGroups()}
	for _, role := range model.SingularRoles {
		snap.Roles = append(snap.Roles, RolePatterns{Role: role, Keywords: RoleKeywords(role)})
	}
	for _, g := range variantGroups {
		for _, role := range g.Roles {
			snap.Roles = append(snap.Roles, RolePatterns{Role: role, Keywords: RoleKeywords(role)})
		}
	}
	return snap
}
