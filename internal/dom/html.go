package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// FromHTML adapts a parsed element. It returns nil for document, text,
// comment and doctype nodes.
func FromHTML(n *html.Node) Node {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}

	return htmlNode{n: n}
}

// HTMLNode returns the parsed node behind a handle produced by FromHTML.
func HTMLNode(n Node) (*html.Node, bool) {
	hn, ok := n.(htmlNode)
	if !ok {
		return nil, false
	}

	return hn.n, true
}

type htmlNode struct {
	n *html.Node
}

func (h htmlNode) Tag() string {
	return h.n.Data
}

func (h htmlNode) ID() string {
	return h.attr("id")
}

func (h htmlNode) ClassName() string {
	return h.attr("class")
}

func (h htmlNode) attr(name string) string {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}

	return ""
}

func (h htmlNode) Attributes() []Attribute {
	if len(h.n.Attr) == 0 {
		return nil
	}

	out := make([]Attribute, 0, len(h.n.Attr))

	for _, a := range h.n.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}

		out = append(out, Attribute{Name: name, Value: a.Val})
	}

	return out
}

func (h htmlNode) Text() string {
	var sb strings.Builder

	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)

			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}

	collect(h.n)

	return sb.String()
}

func (h htmlNode) Parent() Node {
	return FromHTML(h.n.Parent)
}

func (h htmlNode) Children() []Node {
	var out []Node

	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, htmlNode{n: c})
		}
	}

	return out
}
