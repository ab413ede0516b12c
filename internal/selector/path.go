package selector

import (
	"slices"
	"strconv"
	"strings"

	"omnifetch/internal/dom"
)

const (
	// MaxDepth caps the segments of FullCSSPath and XPathFull. Segments
	// nearest the node are kept.
	MaxDepth = 5

	// maxPathClasses is how many class tokens an ancestor contributes to a
	// CSS path segment.
	maxPathClasses = 2

	cssSeparator = " > "
)

// FullCSSPath walks from n towards the root building one segment per
// element: tag#id, else tag.c1.c2, else the tag with :nth-of-type(k) when the
// parent has more than one child with the same tag. An id does not end the
// walk.
func FullCSSPath(n dom.Node) string {
	segments := make([]string, 0, MaxDepth)

	for cur := n; cur != nil && len(segments) < MaxDepth; cur = cur.Parent() {
		segments = append(segments, cssSegment(cur))

		if !attached(cur) {
			break
		}
	}

	slices.Reverse(segments)

	return strings.Join(segments, cssSeparator)
}

func cssSegment(n dom.Node) string {
	tag := TagSelector(n)

	if id := n.ID(); id != "" {
		return tag + "#" + id
	}

	if classes := dom.Classes(n); len(classes) > 0 {
		if len(classes) > maxPathClasses {
			classes = classes[:maxPathClasses]
		}

		return tag + "." + strings.Join(classes, ".")
	}

	pos, total, ok := dom.Position(n, func(sibling dom.Node) bool {
		return strings.EqualFold(sibling.Tag(), n.Tag())
	})
	if ok && total > 1 {
		return tag + ":nth-of-type(" + strconv.Itoa(pos) + ")"
	}

	return tag
}

// XPathFull returns //*[@id="…"] for nodes with an id. Otherwise it builds
// /tag[k]/… from the ancestors, k counting every sibling.
func XPathFull(n dom.Node) string {
	if n == nil {
		return ""
	}

	if id := n.ID(); id != "" {
		return `//*[@id="` + id + `"]`
	}

	segments := make([]string, 0, MaxDepth)

	for cur := n; cur != nil && len(segments) < MaxDepth; cur = cur.Parent() {
		pos, _, ok := dom.Position(cur, nil)
		if !ok {
			// A root is the only element at its level.
			pos = 1
		}

		segments = append(segments, TagSelector(cur)+"["+strconv.Itoa(pos)+"]")

		if !ok {
			break
		}
	}

	slices.Reverse(segments)

	return "/" + strings.Join(segments, "/")
}

// attached reports whether n's parent still lists it. The walk stops at the
// root and at elements removed while it was running.
func attached(n dom.Node) bool {
	_, _, ok := dom.Position(n, nil)

	return ok
}
