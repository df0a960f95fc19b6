// Package footer renders the site footer from the layout settings published
// in the content graph.
package footer

import (
	"context"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moseybank/sitelayout/components"
	"github.com/moseybank/sitelayout/gql"
	"github.com/moseybank/sitelayout/graph"
	"github.com/moseybank/sitelayout/layout"
	"github.com/moseybank/sitelayout/layout/languageswitcher"
	"github.com/moseybank/sitelayout/markup"
)

const (
	DefaultCopyright = "&copy; Optimizely. All rights reserved"

	LogoSource = "/assets/moseybank-logo-white.svg"
	LogoWidth  = 200
	LogoHeight = 35
	LogoAlt    = "Moseybank Logo"

	operationGetFooterData = "getFooterData"
)

type Props struct {
	// Locale overrides the locale of Ctx.
	Locale string
	Ctx    *layout.RequestContext
}

// EffectiveLocale is the footer locale, empty when neither props nor the
// request context carry one.
func (p Props) EffectiveLocale() string {
	if p.Locale != "" {
		return p.Locale
	}
	if p.Ctx != nil {
		return p.Ctx.Locale
	}
	return ""
}

// Fetch loads the footer data for props. It returns nil when layout queries
// are disabled, when the graph has no layout or when the query failed; the
// failure is logged.
func Fetch(ctx context.Context, props Props) *gql.FooterData {
	deps := layout.FromContext(ctx)
	if deps.Config.DisableLayoutQueries() {
		return nil
	}

	client := deps.Client(ctx, props.Ctx)
	res, err := gql.GetSdk(client).GetFooterData(ctx, gql.GetFooterDataVariables{
		Locale: gql.LocaleToGraphLocale(props.EffectiveLocale()),
	})
	if err != nil {
		graph.ReportFailure(ctx, operationGetFooterData, err)
		return nil
	}
	return res.Footer()
}

// Render builds the footer. Missing data renders the empty shell with the
// default copyright line.
func Render(ctx context.Context, props Props) *html.Node {
	deps := layout.FromContext(ctx)
	data := Fetch(ctx, props)
	if data == nil {
		data = &gql.FooterData{}
	}

	heading := ""
	if data.ContactInfoHeading != nil {
		heading = *data.ContactInfoHeading
	}
	var contactInfo []byte
	if data.ContactInfo != nil {
		contactInfo = data.ContactInfo.JSON
	}

	grid := markup.Element(atom.Div, classAttr("footer__grid"),
		markup.Element(atom.Section, classAttr("footer__contact"),
			markup.Element(atom.Div, classAttr("footer__contact-heading"), markup.Text(heading)),
			components.RichText(contactInfo, "prose footer__contact-info"),
		),
		deps.Components.ContentArea(ctx, data.FooterMenus, components.ContentAreaProps{
			Variant:     "footer",
			NoWrapper:   true,
			ItemWrapper: atom.Nav,
		}),
		languageswitcher.Render(ctx, languageswitcher.Props{Ctx: props.Ctx}),
	)

	logo := markup.Element(atom.Div, classAttr("footer__logo"),
		markup.Element(atom.Img, []html.Attribute{
			markup.Attr("src", LogoSource),
			markup.Attr("width", strconv.Itoa(LogoWidth)),
			markup.Attr("height", strconv.Itoa(LogoHeight)),
			markup.Attr("alt", LogoAlt),
		}),
	)

	copyright := DefaultCopyright
	if data.Copyright != nil {
		copyright = *data.Copyright
	}

	legal := markup.Element(atom.Ul, classAttr("footer__legal-links"))
	for _, link := range data.LegalLinks {
		if link == nil {
			continue
		}
		markup.Append(legal, markup.Element(atom.Li,
			[]html.Attribute{markup.Attr("data-key", components.ListKey(link))},
			components.CmsLink(link, "")))
	}

	return markup.Element(atom.Footer, classAttr("footer"),
		markup.Element(atom.Div, classAttr("footer__container"),
			grid,
			logo,
			markup.Element(atom.Div, classAttr("footer__bottom"),
				markup.Element(atom.P, classAttr("footer__copyright"), markup.Text(copyright)),
				legal,
			),
		),
	)
}

func classAttr(class string) []html.Attribute {
	return []html.Attribute{markup.Attr("class", class)}
}
