package media

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SortKey returns the normalized sort name for a title: the server's sort
// alias when present, else the title, case-folded with accents removed.
func SortKey(sortName, title string) string {
	s := strings.TrimSpace(sortName)
	if s == "" {
		s = strings.TrimSpace(title)
	}
	return strings.Join(strings.Fields(removeAccents(cases.Fold().String(s))), " ")
}

// SortKey returns m's normalized sort name.
func (m *Media) SortKey() string {
	return SortKey(m.SortName, m.Title)
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
