// Package selector derives CSS and XPath selectors, and a display summary,
// for a single element of a dom.Node tree.
//
// Every function is a pure function of the node and its ancestors and
// siblings at call time. Absent selectors are reported with a false second
// return value, never with an error. Attribute and text values are embedded
// verbatim; callers that need parseable output for arbitrary content must
// escape it themselves.
package selector

import (
	"strconv"
	"strings"

	"omnifetch/internal/dom"
)

// IDSelector returns "#id" when the node carries a non-empty id.
func IDSelector(n dom.Node) (string, bool) {
	if n == nil || n.ID() == "" {
		return "", false
	}

	return "#" + n.ID(), true
}

// ClassSelector joins every class token with ".". Repeated tokens are kept.
func ClassSelector(n dom.Node) (string, bool) {
	classes := dom.Classes(n)
	if len(classes) == 0 {
		return "", false
	}

	return "." + strings.Join(classes, "."), true
}

// TagSelector is the lower-cased tag name.
func TagSelector(n dom.Node) string {
	if n == nil {
		return ""
	}

	return strings.ToLower(n.Tag())
}

// NthChildSelector returns tag:nth-child(k), k counting every sibling.
func NthChildSelector(n dom.Node) string {
	tag := TagSelector(n)

	pos, _, ok := dom.Position(n, nil)
	if !ok {
		return tag
	}

	return tag + ":nth-child(" + strconv.Itoa(pos) + ")"
}
