package dom

import "strings"

const noParent = -1

type entryKind uint8

const (
	elementEntry entryKind = iota
	textEntry
)

type entry struct {
	kind     entryKind
	tag      string
	attrs    []Attribute
	text     string
	parent   int
	children []int
}

// Tree owns its nodes top-down. Each entry stores its parent as an index, so
// handles never form owning cycles.
type Tree struct {
	entries []entry
}

// NewTree creates a tree whose root element has the given tag.
func NewTree(tag string, attrs ...Attribute) *Tree {
	t := &Tree{}
	t.entries = append(t.entries, entry{
		kind:   elementEntry,
		tag:    tag,
		attrs:  attrs,
		parent: noParent,
	})

	return t
}

// Root returns the root element.
func (t *Tree) Root() Node {
	return treeNode{tree: t, index: 0}
}

// Append adds an element under parent and returns it.
func (t *Tree) Append(parent Node, tag string, attrs ...Attribute) Node {
	p := t.indexOf(parent)

	t.entries = append(t.entries, entry{
		kind:   elementEntry,
		tag:    tag,
		attrs:  attrs,
		parent: p,
	})

	index := len(t.entries) - 1
	t.entries[p].children = append(t.entries[p].children, index)

	return treeNode{tree: t, index: index}
}

// AppendText adds a text run under parent.
func (t *Tree) AppendText(parent Node, text string) {
	p := t.indexOf(parent)

	t.entries = append(t.entries, entry{
		kind:   textEntry,
		text:   text,
		parent: p,
	})
	t.entries[p].children = append(t.entries[p].children, len(t.entries)-1)
}

// Detach unlinks n from its parent. The element keeps its subtree.
func (t *Tree) Detach(n Node) {
	i := t.indexOf(n)

	p := t.entries[i].parent
	if p == noParent {
		return
	}

	kids := t.entries[p].children
	for k, c := range kids {
		if c == i {
			t.entries[p].children = append(kids[:k:k], kids[k+1:]...)

			break
		}
	}

	t.entries[i].parent = noParent
}

// Len reports how many elements the tree holds, detached ones included.
func (t *Tree) Len() int {
	n := 0

	for _, e := range t.entries {
		if e.kind == elementEntry {
			n++
		}
	}

	return n
}

// Walk visits every attached element in document order.
func (t *Tree) Walk(visit func(Node)) {
	var walk func(i int)
	walk = func(i int) {
		visit(treeNode{tree: t, index: i})

		for _, c := range t.entries[i].children {
			if t.entries[c].kind == elementEntry {
				walk(c)
			}
		}
	}

	walk(0)
}

func (t *Tree) indexOf(n Node) int {
	tn, ok := n.(treeNode)
	if !ok || tn.tree != t {
		panic("dom: node does not belong to this tree")
	}

	return tn.index
}

// Attr is shorthand for building an Attribute.
func Attr(name, value string) Attribute {
	return Attribute{Name: name, Value: value}
}

type treeNode struct {
	tree  *Tree
	index int
}

func (n treeNode) entry() *entry {
	return &n.tree.entries[n.index]
}

func (n treeNode) Tag() string {
	return n.entry().tag
}

func (n treeNode) ID() string {
	return n.attr("id")
}

func (n treeNode) ClassName() string {
	return n.attr("class")
}

func (n treeNode) attr(name string) string {
	for _, a := range n.entry().attrs {
		if a.Name == name {
			return a.Value
		}
	}

	return ""
}

func (n treeNode) Attributes() []Attribute {
	attrs := n.entry().attrs
	if len(attrs) == 0 {
		return nil
	}

	out := make([]Attribute, len(attrs))
	copy(out, attrs)

	return out
}

func (n treeNode) Text() string {
	var sb strings.Builder

	var collect func(i int)
	collect = func(i int) {
		e := &n.tree.entries[i]
		if e.kind == textEntry {
			sb.WriteString(e.text)

			return
		}

		for _, c := range e.children {
			collect(c)
		}
	}

	collect(n.index)

	return sb.String()
}

func (n treeNode) Parent() Node {
	p := n.entry().parent
	if p == noParent {
		return nil
	}

	return treeNode{tree: n.tree, index: p}
}

func (n treeNode) Children() []Node {
	var out []Node

	for _, c := range n.entry().children {
		if n.tree.entries[c].kind == elementEntry {
			out = append(out, treeNode{tree: n.tree, index: c})
		}
	}

	return out
}
