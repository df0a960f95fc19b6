package components

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moseybank/sitelayout/markup"
)

type DropDownOption struct {
	Value string
	Label string
}

type DropDownProps struct {
	Name    string
	Label   string
	Options []DropDownOption
	// Value is the pre-selected option, nil for none.
	Value   *DropDownOption
	Compact bool
}

// DropDown renders a labelled select box.
func DropDown(props DropDownProps) *html.Node {
	class := "drop-down"
	if props.Compact {
		class += " drop-down--compact"
	}

	name := props.Name
	if name == "" {
		name = "drop-down"
	}

	selectNode := markup.Element(atom.Select, []html.Attribute{
		markup.Attr("name", name),
		markup.Attr("aria-label", props.Label),
	})
	for _, opt := range props.Options {
		attrs := []html.Attribute{markup.Attr("value", opt.Value)}
		if props.Value != nil && props.Value.Value == opt.Value {
			attrs = append(attrs, markup.Attr("selected", ""))
		}
		markup.Append(selectNode, markup.Element(atom.Option, attrs, markup.Text(opt.Label)))
	}

	return markup.Element(atom.Label, []html.Attribute{markup.Attr("class", class)},
		markup.Element(atom.Span, []html.Attribute{markup.Attr("class", "drop-down__label")},
			markup.Text(props.Label)),
		selectNode,
	)
}
