// Package dom defines the element contract the selector generator walks and
// the two trees that satisfy it: an arena-backed in-memory tree and an
// adapter over parsed HTML.
package dom

import "strings"

// Attribute is a single name/value pair in document order.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Node is an element in a rooted, ordered tree.
//
// Parent returns nil for the root and for detached elements. Children holds
// element children only. Handles must be comparable: two handles for the same
// element compare equal with ==.
type Node interface {
	Tag() string
	ID() string
	ClassName() string
	Attributes() []Attribute
	Text() string
	Parent() Node
	Children() []Node
}

// Classes splits the raw class attribute of n on whitespace runs. Repeated
// tokens are kept.
func Classes(n Node) []string {
	if n == nil {
		return nil
	}

	return strings.Fields(n.ClassName())
}

// Position returns the 1-based position of n among the children of its
// parent accepted by keep, and how many children keep accepted. ok is false
// when n has no parent or the parent no longer lists it.
func Position(n Node, keep func(Node) bool) (pos, total int, ok bool) {
	if n == nil {
		return 0, 0, false
	}

	parent := n.Parent()
	if parent == nil {
		return 0, 0, false
	}

	for _, sibling := range parent.Children() {
		if sibling == nil || (keep != nil && !keep(sibling)) {
			continue
		}

		total++

		if sibling == n {
			pos = total
			ok = true
		}
	}

	return pos, total, ok
}
