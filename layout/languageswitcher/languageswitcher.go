// Package languageswitcher renders the drop-down that lets visitors change
// the site locale.
package languageswitcher

import (
	"context"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moseybank/sitelayout/components"
	"github.com/moseybank/sitelayout/graph"
	"github.com/moseybank/sitelayout/layout"
	"github.com/moseybank/sitelayout/localization"
	"github.com/moseybank/sitelayout/markup"
)

const (
	DefaultLocale = "en"
	DefaultTitle  = "Select language"
)

type Props struct {
	Ctx *layout.RequestContext
	// Attributes are copied onto the wrapping div.
	Attributes []html.Attribute
}

// CurrentLocale is the locale of rc, DefaultLocale when unset.
func CurrentLocale(rc *layout.RequestContext) string {
	if rc == nil || rc.Locale == "" {
		return DefaultLocale
	}
	return rc.Locale
}

// Options builds the drop-down entries for locales, labelled in the language
// of current. Locales without a label show their code.
func Options(dict localization.Dictionary, current string, locales []string) []components.DropDownOption {
	options := make([]components.DropDownOption, 0, len(locales))
	for _, locale := range locales {
		label := locale
		if dict != nil {
			if l, ok := dict.LocaleLabel(current, locale); ok {
				label = l
			}
		}
		options = append(options, components.DropDownOption{Value: locale, Label: label})
	}
	return options
}

// Title is the drop-down label in the language of current.
func Title(dict localization.Dictionary, current string) string {
	if dict != nil {
		if title, ok := dict.Title(current); ok {
			return title
		}
	}
	return DefaultTitle
}

// Render returns the language picker, or nil when fewer than two locales are
// available. A failed locale lookup also renders nothing.
func Render(ctx context.Context, props Props) *html.Node {
	deps := layout.FromContext(ctx)
	current := CurrentLocale(props.Ctx)

	var locales []string
	if deps.Config.DisableLayoutQueries() {
		locales, _ = deps.Locales.CachedLocales(ctx, false)
	} else {
		var client graph.Client
		if props.Ctx != nil {
			client = props.Ctx.Client
		}
		locales = deps.Locales.GetLocales(ctx, false, client)
	}

	if len(locales) < 2 {
		return nil
	}

	options := Options(deps.Dictionary, current, locales)

	var selected *components.DropDownOption
	for i := range options {
		if options[i].Value == current {
			selected = &options[i]
			break
		}
	}

	attrs := make([]html.Attribute, 0, len(props.Attributes)+1)
	attrs = append(attrs, props.Attributes...)
	div := markup.Element(atom.Div, attrs, components.DropDown(components.DropDownProps{
		Name:    "locale",
		Label:   Title(deps.Dictionary, current),
		Options: options,
		Value:   selected,
		Compact: true,
	}))
	markup.SetAttr(div, "data-component", "LanguagePicker")
	return div
}
