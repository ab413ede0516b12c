package selector_test

import (
	"fmt"
	"strings"
	"testing"

	"omnifetch/internal/dom"
	"omnifetch/internal/selector"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var tags = []string{"div", "p", "span", "a", "ul", "li", "button", "SECTION"}

// genTree draws a random tree and returns every element in creation order.
func genTree(t *rapid.T) []dom.Node {
	tree := dom.NewTree("html")
	nodes := []dom.Node{tree.Root()}

	size := rapid.IntRange(1, 40).Draw(t, "size")
	for i := 0; i < size; i++ {
		parent := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, fmt.Sprintf("parent%d", i))]
		tag := rapid.SampledFrom(tags).Draw(t, fmt.Sprintf("tag%d", i))

		var attrs []dom.Attribute
		if rapid.Bool().Draw(t, fmt.Sprintf("hasID%d", i)) {
			attrs = append(attrs, dom.Attr("id", rapid.StringMatching(`[a-z]{1,6}`).Draw(t, fmt.Sprintf("id%d", i))))
		}
		if rapid.Bool().Draw(t, fmt.Sprintf("hasClass%d", i)) {
			attrs = append(attrs, dom.Attr("class", rapid.StringMatching(`( {0,2}[a-z]{1,4}){0,4}`).Draw(t, fmt.Sprintf("class%d", i))))
		}

		node := tree.Append(parent, tag, attrs...)
		if rapid.Bool().Draw(t, fmt.Sprintf("hasText%d", i)) {
			tree.AppendText(node, rapid.StringMatching(`[a-z ]{0,80}`).Draw(t, fmt.Sprintf("text%d", i)))
		}

		nodes = append(nodes, node)
	}

	return nodes
}

func TestProperty_PathsRespectDepthCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		for _, n := range genTree(t) {
			css := strings.Split(selector.FullCSSPath(n), " > ")
			require.LessOrEqual(t, len(css), selector.MaxDepth)
			require.True(t, strings.HasPrefix(css[len(css)-1], strings.ToLower(n.Tag())))

			xp := selector.XPathFull(n)
			if n.ID() != "" {
				require.Equal(t, `//*[@id="`+n.ID()+`"]`, xp)

				continue
			}

			require.True(t, strings.HasPrefix(xp, "/"))
			require.LessOrEqual(t, len(strings.Split(xp[1:], "/")), selector.MaxDepth)
		}
	})
}

func TestProperty_NthChildIsOnePlusPrecedingSiblings(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		for _, n := range genTree(t) {
			parent := n.Parent()
			if parent == nil {
				require.Equal(t, strings.ToLower(n.Tag()), selector.NthChildSelector(n))

				continue
			}

			preceding := 0
			for _, sibling := range parent.Children() {
				if sibling == n {
					break
				}
				preceding++
			}

			want := fmt.Sprintf("%s:nth-child(%d)", strings.ToLower(n.Tag()), preceding+1)
			require.Equal(t, want, selector.NthChildSelector(n))
		}
	})
}

func TestProperty_GenerateIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		for _, n := range genTree(t) {
			first := selector.Generate(n)
			second := selector.Generate(n)

			require.Equal(t, first, second)
			require.Equal(t, selector.Summarize(n), selector.Summarize(n))
			require.NotEmpty(t, first.Preferred())
			require.Equal(t, strings.ToLower(n.Tag()), first.CSS.Tag)
		}
	})
}

func TestProperty_TruncationLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		for _, n := range genTree(t) {
			text := strings.TrimSpace(n.Text())
			summary := selector.Summarize(n)
			byText, ok := selector.XPathByText(n)

			if text == "" {
				require.False(t, ok)
				require.Empty(t, summary.TruncatedText)

				continue
			}

			require.True(t, ok)

			want := text
			if len([]rune(text)) > selector.MaxTextLength {
				want = string([]rune(text)[:selector.MaxTextLength]) + selector.TruncationMarker
			}

			require.Equal(t, want, summary.TruncatedText)
			require.Equal(t, `//*[text()="`+want+`"]`, byText)
		}
	})
}
