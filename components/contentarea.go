package components

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pitabwire/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moseybank/sitelayout/gql"
	"github.com/moseybank/sitelayout/markup"
)

// BlockRenderer renders one content area item for the given variant.
type BlockRenderer func(ctx context.Context, item gql.ContentItem, variant string) *html.Node

// Factory resolves content types to their renderer.
type Factory struct {
	mu        sync.RWMutex
	renderers map[string]BlockRenderer
}

// NewFactory creates a factory holding the built-in block renderers.
func NewFactory() *Factory {
	f := &Factory{renderers: map[string]BlockRenderer{}}
	f.Register("MegaMenuGroupBlock", renderMegaMenuGroup)
	f.Register("MenuNavigationBlock", renderMenuNavigation)
	return f
}

func (f *Factory) Register(typeName string, renderer BlockRenderer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renderers[typeName] = renderer
}

func (f *Factory) Resolve(typeName string) (BlockRenderer, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	r, ok := f.renderers[typeName]
	return r, ok
}

type ContentAreaProps struct {
	Variant string
	// NoWrapper drops the area element, the items are returned as a fragment.
	NoWrapper   bool
	ItemWrapper atom.Atom
	ItemClass   string
}

// ContentArea renders items in order, each inside its own wrapper element.
func (f *Factory) ContentArea(ctx context.Context, items []gql.ContentItem, props ContentAreaProps) *html.Node {
	wrapperAtom := props.ItemWrapper
	if wrapperAtom == 0 {
		wrapperAtom = atom.Div
	}

	rendered := make([]*html.Node, 0, len(items))
	for _, item := range items {
		renderer, ok := f.Resolve(item.TypeName)
		if !ok {
			util.Log(ctx).WithField("type", item.TypeName).Debug("no renderer for content type")
			renderer = renderGenericBlock
		}

		attrs := []html.Attribute{markup.Attr("data-component", item.TypeName)}
		if item.Key != "" {
			attrs = append(attrs, markup.Attr("data-key", item.Key))
		}
		if props.ItemClass != "" {
			attrs = append(attrs, markup.Attr("class", props.ItemClass))
		}
		rendered = append(rendered, markup.Element(wrapperAtom, attrs, renderer(ctx, item, props.Variant)))
	}

	if props.NoWrapper {
		return markup.Fragment(rendered...)
	}

	attrs := []html.Attribute{markup.Attr("data-component", "ContentArea")}
	if props.Variant != "" {
		attrs = append(attrs, markup.Attr("data-variant", props.Variant))
	}
	return markup.Element(atom.Div, attrs, rendered...)
}

type menuNavigationBlock struct {
	Title string          `json:"title"`
	Items []*gql.LinkItem `json:"items"`
}

type megaMenuGroupBlock struct {
	MenuName string            `json:"menuName"`
	MenuData []gql.ContentItem `json:"menuData"`
}

func renderMenuNavigation(_ context.Context, item gql.ContentItem, variant string) *html.Node {
	var block menuNavigationBlock
	if err := json.Unmarshal(item.Data, &block); err != nil {
		return nil
	}

	list := markup.Element(atom.Ul, nil)
	for _, link := range block.Items {
		if link == nil {
			continue
		}
		markup.Append(list, markup.Element(atom.Li,
			[]html.Attribute{markup.Attr("data-key", ListKey(link))},
			CmsLink(link, "")))
	}

	return markup.Element(atom.Div, []html.Attribute{markup.Attr("class", "menu-navigation menu-navigation--"+variantOrDefault(variant))},
		markup.Element(atom.Div, []html.Attribute{markup.Attr("class", "menu-navigation__title")}, markup.Text(block.Title)),
		list,
	)
}

func renderMegaMenuGroup(ctx context.Context, item gql.ContentItem, variant string) *html.Node {
	var block megaMenuGroupBlock
	if err := json.Unmarshal(item.Data, &block); err != nil {
		return nil
	}

	group := markup.Element(atom.Div, []html.Attribute{markup.Attr("class", "menu-group menu-group--"+variantOrDefault(variant))},
		markup.Element(atom.Div, []html.Attribute{markup.Attr("class", "menu-group__name")}, markup.Text(block.MenuName)))
	for _, child := range block.MenuData {
		if child.TypeName != "MenuNavigationBlock" {
			continue
		}
		markup.Append(group, renderMenuNavigation(ctx, child, variant))
	}
	return group
}

func renderGenericBlock(_ context.Context, item gql.ContentItem, _ string) *html.Node {
	return markup.Element(atom.Div, []html.Attribute{
		markup.Attr("class", "unresolved-block"),
		markup.Attr("data-type", item.TypeName),
	})
}

func variantOrDefault(variant string) string {
	if variant == "" {
		return "default"
	}
	return variant
}
