package matcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NormalizeSpace collapses every whitespace run to a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Texts returns the normalised text of each matched element, skipping empty
// ones.
func Texts(m Match) []string {
	texts := make([]string, 0, m.Len())

	m.Selection.Each(func(_ int, s *goquery.Selection) {
		if text := NormalizeSpace(s.Text()); text != "" {
			texts = append(texts, text)
		}
	})

	return texts
}
