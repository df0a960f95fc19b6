package components

import (
	"encoding/json"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moseybank/sitelayout/markup"
)

// RichTextNode is one node of a structured rich text document.
type RichTextNode struct {
	Type      string         `json:"type,omitempty"`
	Text      *string        `json:"text,omitempty"`
	URL       string         `json:"url,omitempty"`
	Target    string         `json:"target,omitempty"`
	Title     string         `json:"title,omitempty"`
	Bold      bool           `json:"bold,omitempty"`
	Italic    bool           `json:"italic,omitempty"`
	Underline bool           `json:"underline,omitempty"`
	Code      bool           `json:"code,omitempty"`
	Children  []RichTextNode `json:"children,omitempty"`
}

//nolint:gochecknoglobals // lookup table
var richTextElements = map[string]atom.Atom{
	"paragraph":     atom.P,
	"heading-one":   atom.H1,
	"heading-two":   atom.H2,
	"heading-three": atom.H3,
	"heading-four":  atom.H4,
	"heading-five":  atom.H5,
	"heading-six":   atom.H6,
	"bulleted-list": atom.Ul,
	"numbered-list": atom.Ol,
	"list-item":     atom.Li,
	"quote":         atom.Blockquote,
	"link":          atom.A,
}

// RichText renders a rich text json document inside a div with class.
// A missing or unreadable document renders an empty div.
func RichText(document json.RawMessage, class string) *html.Node {
	var attrs []html.Attribute
	if class != "" {
		attrs = append(attrs, markup.Attr("class", class))
	}
	wrapper := markup.Element(atom.Div, attrs)

	if len(document) == 0 {
		return wrapper
	}

	var root RichTextNode
	if err := json.Unmarshal(document, &root); err != nil {
		return wrapper
	}

	for _, child := range root.Children {
		markup.Append(wrapper, renderRichTextNode(child))
	}
	return wrapper
}

func renderRichTextNode(n RichTextNode) *html.Node {
	if n.Text != nil {
		return renderLeaf(n)
	}

	if n.Type == "br" {
		return markup.Element(atom.Br, nil)
	}

	children := make([]*html.Node, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, renderRichTextNode(child))
	}

	a, ok := richTextElements[n.Type]
	if !ok {
		return markup.Fragment(children...)
	}

	var attrs []html.Attribute
	if a == atom.A {
		attrs = append(attrs, markup.Attr("href", n.URL))
		if n.Target != "" {
			attrs = append(attrs, markup.Attr("target", n.Target))
		}
		if n.Title != "" {
			attrs = append(attrs, markup.Attr("title", n.Title))
		}
	}
	return markup.Element(a, attrs, children...)
}

func renderLeaf(n RichTextNode) *html.Node {
	node := markup.Text(*n.Text)
	if n.Code {
		node = markup.Element(atom.Code, nil, node)
	}
	if n.Underline {
		node = markup.Element(atom.U, nil, node)
	}
	if n.Italic {
		node = markup.Element(atom.Em, nil, node)
	}
	if n.Bold {
		node = markup.Element(atom.Strong, nil, node)
	}
	return node
}
