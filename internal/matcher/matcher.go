// Package matcher resolves CSS selectors and XPath expressions against a
// parsed page.
package matcher

import (
	"fmt"
	"io"
	"strings"

	"omnifetch/internal/entity"
	"omnifetch/pkg/apperr"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

type Kind = entity.SelectorKind

const (
	KindCSS   = entity.SelectorCSS
	KindXPath = entity.SelectorXPath
)

var prefixes = []struct {
	prefix string
	kind   Kind
}{
	{"xpath:", KindXPath},
	{"x:", KindXPath},
	{"css:", KindCSS},
	{"c:", KindCSS},
}

// Detect classifies selector and strips any explicit kind prefix. Without a
// prefix, expressions starting with "/", "./" or "(" are XPath.
func Detect(selector string) (Kind, string) {
	s := strings.TrimSpace(selector)

	for _, p := range prefixes {
		if len(s) >= len(p.prefix) && strings.EqualFold(s[:len(p.prefix)], p.prefix) {
			return p.kind, strings.TrimSpace(s[len(p.prefix):])
		}
	}

	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "(") {
		return KindXPath, s
	}

	return KindCSS, s
}

// Page is a parsed document ready for matching.
type Page struct {
	root *html.Node
	doc  *goquery.Document
}

func New(root *html.Node) *Page {
	return &Page{
		root: root,
		doc:  goquery.NewDocumentFromNode(root),
	}
}

func Parse(r io.Reader) (*Page, error) {
	const op = "matcher.Parse"

	root, err := html.Parse(r)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "html_parse_failed",
			apperr.MetaStage:  apperr.StagePageState,
		})
	}

	return New(root), nil
}

func (p *Page) Root() *html.Node {
	return p.root
}

// Match is the result of resolving one selector.
type Match struct {
	Kind       Kind
	Expression string
	Selection  *goquery.Selection
}

func (m Match) Nodes() []*html.Node {
	return m.Selection.Nodes
}

func (m Match) Len() int {
	return m.Selection.Length()
}

// Match resolves selector in document order.
func (p *Page) Match(selector string) (Match, error) {
	const op = "matcher.Match"

	kind, expr := Detect(selector)
	if expr == "" {
		return Match{}, apperr.InvalidReqError(op, "selector", fmt.Errorf("empty selector"))
	}

	switch kind {
	case KindXPath:
		compiled, err := xpath.Compile(expr)
		if err != nil {
			return Match{}, invalidSelector(op, selector, err)
		}

		nodes := htmlquery.QuerySelectorAll(p.root, compiled)

		return Match{Kind: kind, Expression: expr, Selection: p.selection(nodes)}, nil
	default:
		compiled, err := cascadia.Compile(expr)
		if err != nil {
			return Match{}, invalidSelector(op, selector, err)
		}

		return Match{Kind: kind, Expression: expr, Selection: p.doc.FindMatcher(compiled)}, nil
	}
}

// selection wraps XPath results. Only elements are kept, so text() and
// attribute results do not leak into element previews.
func (p *Page) selection(nodes []*html.Node) *goquery.Selection {
	elements := make([]*html.Node, 0, len(nodes))

	for _, n := range nodes {
		if n.Type == html.ElementNode {
			elements = append(elements, n)
		}
	}

	return p.doc.FindNodes(elements...)
}

// Contains reports whether selector resolves to a set that includes node.
func (p *Page) Contains(selector string, node *html.Node) (bool, error) {
	m, err := p.Match(selector)
	if err != nil {
		return false, err
	}

	for _, n := range m.Nodes() {
		if n == node {
			return true, nil
		}
	}

	return false, nil
}

func invalidSelector(op, selector string, err error) error {
	return apperr.Wrap(op, apperr.CodeInvalidSelector, err, map[string]any{
		apperr.MetaReason:   "selector_compile_failed",
		apperr.MetaStage:    apperr.StageMatching,
		apperr.MetaSelector: selector,
	})
}
