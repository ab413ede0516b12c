package selector

import (
	"strings"

	"omnifetch/internal/dom"
)

type CSS struct {
	ID       *string `json:"id"`
	Class    *string `json:"class"`
	Tag      string  `json:"tag"`
	NthChild string  `json:"nth_child"`
	FullPath string  `json:"full_path"`
}

type XPath struct {
	Full        string  `json:"full"`
	ByText      *string `json:"by_text"`
	ByAttribute *string `json:"by_attribute"`
}

// Bundle holds every candidate selector computed for one element.
type Bundle struct {
	CSS   CSS   `json:"css"`
	XPath XPath `json:"xpath"`
}

// Generate runs every extractor once. A nil node yields the zero Bundle.
func Generate(n dom.Node) Bundle {
	if n == nil {
		return Bundle{}
	}

	return Bundle{
		CSS: CSS{
			ID:       optional(IDSelector(n)),
			Class:    optional(ClassSelector(n)),
			Tag:      TagSelector(n),
			NthChild: NthChildSelector(n),
			FullPath: FullCSSPath(n),
		},
		XPath: XPath{
			Full:        XPathFull(n),
			ByText:      optional(XPathByText(n)),
			ByAttribute: optional(XPathByAttribute(n)),
		},
	}
}

// Preferred picks the id selector, else the class selector, else the tag.
func (b Bundle) Preferred() string {
	if b.CSS.ID != nil {
		return *b.CSS.ID
	}

	if b.CSS.Class != nil {
		return *b.CSS.Class
	}

	return b.CSS.Tag
}

// Summary is a flat description of an element for display and logs.
type Summary struct {
	Tag            string          `json:"tag"`
	ID             *string         `json:"id"`
	ClassAttribute *string         `json:"class"`
	TruncatedText  string          `json:"text"`
	Attributes     []dom.Attribute `json:"attributes"`
}

// Summarize describes n. Attributes are reported verbatim and in full.
func Summarize(n dom.Node) Summary {
	if n == nil {
		return Summary{}
	}

	s := Summary{
		Tag:           TagSelector(n),
		TruncatedText: Truncate(strings.TrimSpace(n.Text()), MaxTextLength),
		Attributes:    n.Attributes(),
	}

	if id := n.ID(); id != "" {
		s.ID = &id
	}

	if class := n.ClassName(); class != "" {
		s.ClassAttribute = &class
	}

	if s.Attributes == nil {
		s.Attributes = []dom.Attribute{}
	}

	return s
}

func optional(value string, ok bool) *string {
	if !ok {
		return nil
	}

	return &value
}
