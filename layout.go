package sitelayout

import (
	"context"

	"golang.org/x/net/html"

	"github.com/moseybank/sitelayout/layout"
	"github.com/moseybank/sitelayout/layout/footer"
	"github.com/moseybank/sitelayout/layout/languageswitcher"
)

// RequestContext is the per page context handed to the renderers.
type RequestContext = layout.RequestContext

// LayoutContext returns ctx carrying the service render dependencies.
func (s *Service) LayoutContext(ctx context.Context) context.Context {
	return layout.ToContext(ctx, s.deps)
}

// Footer renders the site footer. locale overrides the locale of rc.
func (s *Service) Footer(ctx context.Context, locale string, rc *RequestContext) *html.Node {
	return footer.Render(s.LayoutContext(ctx), footer.Props{Locale: locale, Ctx: rc})
}

// LanguageSwitcher renders the language picker, nil when there is nothing to pick.
func (s *Service) LanguageSwitcher(ctx context.Context, rc *RequestContext, attrs ...html.Attribute) *html.Node {
	return languageswitcher.Render(s.LayoutContext(ctx), languageswitcher.Props{Ctx: rc, Attributes: attrs})
}
