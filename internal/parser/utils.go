package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	harakatRe    = regexp.MustCompile(`[\x{064B}-\x{0652}\x{0670}]`)

	arabicFolding = strings.NewReplacer(
		"أ", "ا",
		"إ", "ا",
		"آ", "ا",
		"ٱ", "ا",
		"ة", "ه",
		"ى", "ي",
		"ـ", "",
	)

	digitFolding = strings.NewReplacer(
		"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
		"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
		"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
		"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
		"٫", ".", "٬", ",",
	)
)

// NormalizeHeader canonical form of a header or keyword: NFKC, lower case,
// Arabic letter folding, ASCII digits, collapsed spaces.
func NormalizeHeader(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = harakatRe.ReplaceAllString(s, "")
	s = arabicFolding.Replace(s)
	s = FoldDigits(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FoldDigits rewrites Arabic-Indic and Persian digits and separators to ASCII.
func FoldDigits(s string) string {
	return digitFolding.Replace(s)
}

// ContainsAny reports whether text contains any of the keywords.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// SheetLabel derives a category label from a sheet title: text before the first '-'.
func SheetLabel(sheetName string) string {
	if i := strings.Index(sheetName, "-"); i >= 0 {
		sheetName = sheetName[:i]
	}
	return strings.TrimSpace(sheetName)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func normalizeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = NormalizeHeader(s)
	}
	return out
}
