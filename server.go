package sitelayout

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/html"

	"github.com/moseybank/sitelayout/localization"
	lhttp "github.com/moseybank/sitelayout/localization/interceptors/http"
	"github.com/moseybank/sitelayout/locales"
	"github.com/moseybank/sitelayout/markup"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Handler returns the preview endpoints:
//
//	GET /footer?locale=xx
//	GET /language-switcher?locale=xx
//	GET /healthz
func (s *Service) Handler() http.Handler {
	healthPath := s.healthCheckPath
	if healthPath == "" {
		healthPath = "/healthz"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, s.HandleHealth)
	mux.Handle("GET /footer", s.fragmentHandler(func(r *http.Request, rc *RequestContext) *html.Node {
		return s.Footer(r.Context(), "", rc)
	}))
	mux.Handle("GET /language-switcher", s.fragmentHandler(func(r *http.Request, rc *RequestContext) *html.Node {
		return s.LanguageSwitcher(r.Context(), rc)
	}))

	return otelhttp.NewHandler(lhttp.LanguageHTTPMiddleware(mux), s.Name())
}

// fragmentHandler renders one fragment per request inside its own locale scope.
func (s *Service) fragmentHandler(render func(r *http.Request, rc *RequestContext) *html.Node) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := locales.WithRequestScope(r.Context())
		defer s.locales.EndRequestScope(ctx)

		rc := &RequestContext{
			Locale: localization.PreferredLocale(ctx, ""),
			Client: s.graphClient,
		}

		node := render(r.WithContext(ctx), rc)
		out, err := markup.Render(node)
		if err != nil {
			s.Log(ctx).WithError(err).Error("could not render fragment")
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if node == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out))
	})
}
