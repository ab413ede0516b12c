package dom_test

import (
	"strings"
	"testing"

	"omnifetch/internal/dom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestTree_ParentAndChildren(t *testing.T) {
	tree := dom.NewTree("html")
	body := tree.Append(tree.Root(), "body")
	first := tree.Append(body, "p", dom.Attr("id", "first"))
	tree.AppendText(body, "between")
	second := tree.Append(body, "p", dom.Attr("class", "note  wide"))

	assert.Nil(t, tree.Root().Parent())
	assert.Equal(t, body, first.Parent())
	assert.Equal(t, []dom.Node{first, second}, body.Children())
	assert.Equal(t, "first", first.ID())
	assert.Equal(t, []string{"note", "wide"}, dom.Classes(second))
	assert.Equal(t, 4, tree.Len())
}

func TestTree_TextConcatenatesDescendants(t *testing.T) {
	tree := dom.NewTree("div")
	tree.AppendText(tree.Root(), "Hello ")
	span := tree.Append(tree.Root(), "span")
	tree.AppendText(span, "brave")
	tree.AppendText(tree.Root(), " world")

	assert.Equal(t, "Hello brave world", tree.Root().Text())
	assert.Equal(t, "brave", span.Text())
}

func TestTree_AttributesAreCopied(t *testing.T) {
	tree := dom.NewTree("a", dom.Attr("href", "/x"))

	attrs := tree.Root().Attributes()
	attrs[0].Value = "/changed"

	assert.Equal(t, "/x", tree.Root().Attributes()[0].Value)
}

func TestTree_Detach(t *testing.T) {
	tree := dom.NewTree("ul")
	a := tree.Append(tree.Root(), "li")
	b := tree.Append(tree.Root(), "li")

	tree.Detach(a)

	assert.Nil(t, a.Parent())
	assert.Equal(t, []dom.Node{b}, tree.Root().Children())
}

func TestTree_Walk(t *testing.T) {
	tree := dom.NewTree("html")
	body := tree.Append(tree.Root(), "body")
	tree.Append(body, "main")
	tree.Append(tree.Root(), "footer")

	var tags []string
	tree.Walk(func(n dom.Node) { tags = append(tags, n.Tag()) })

	assert.Equal(t, []string{"html", "body", "main", "footer"}, tags)
}

func TestPosition(t *testing.T) {
	tree := dom.NewTree("div")
	tree.Append(tree.Root(), "span")
	btn := tree.Append(tree.Root(), "button")
	tree.Append(tree.Root(), "button")

	pos, total, ok := dom.Position(btn, nil)
	require.True(t, ok)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 3, total)

	pos, total, ok = dom.Position(btn, func(n dom.Node) bool { return n.Tag() == "button" })
	require.True(t, ok)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 2, total)

	_, _, ok = dom.Position(tree.Root(), nil)
	assert.False(t, ok)
}

func TestFromHTML(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<html><body><div id="main" class="a b" data-x="1">Hi <b>there</b></div><!-- c --><p></p></body></html>`))
	require.NoError(t, err)

	assert.Nil(t, dom.FromHTML(doc))

	root := dom.FromHTML(doc.FirstChild)
	require.NotNil(t, root)
	assert.Equal(t, "html", root.Tag())
	assert.Nil(t, root.Parent())

	body := root.Children()[1]
	assert.Equal(t, "body", body.Tag())

	kids := body.Children()
	require.Len(t, kids, 2)

	div := kids[0]
	assert.Equal(t, "main", div.ID())
	assert.Equal(t, "a b", div.ClassName())
	assert.Equal(t, "Hi there", div.Text())
	assert.Equal(t, []dom.Attribute{
		{Name: "id", Value: "main"},
		{Name: "class", Value: "a b"},
		{Name: "data-x", Value: "1"},
	}, div.Attributes())
	assert.Equal(t, body, div.Parent())

	raw, ok := dom.HTMLNode(div)
	require.True(t, ok)
	assert.Equal(t, "div", raw.Data)
}
