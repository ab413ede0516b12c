package selector

import (
	"strings"

	"omnifetch/internal/dom"
)

const (
	// MaxTextLength bounds the text embedded in XPathByText and Summary.
	MaxTextLength = 50

	// TruncationMarker follows text cut at MaxTextLength.
	TruncationMarker = "..."
)

// XPathByText matches on the trimmed text content of n.
func XPathByText(n dom.Node) (string, bool) {
	if n == nil {
		return "", false
	}

	text := strings.TrimSpace(n.Text())
	if text == "" {
		return "", false
	}

	return `//*[text()="` + Truncate(text, MaxTextLength) + `"]`, true
}

// XPathByAttribute matches on the first attribute, in stored order, that is
// neither class nor style and has a value.
func XPathByAttribute(n dom.Node) (string, bool) {
	if n == nil {
		return "", false
	}

	for _, attr := range n.Attributes() {
		if attr.Name == "class" || attr.Name == "style" || attr.Value == "" {
			continue
		}

		return `//*[@` + attr.Name + `="` + attr.Value + `"]`, true
	}

	return "", false
}

// Truncate keeps the first limit runes of s and appends TruncationMarker
// when anything was cut.
func Truncate(s string, limit int) string {
	if limit < 0 {
		limit = 0
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + TruncationMarker
		}
		count++
	}

	return s
}
