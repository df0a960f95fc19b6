// Package layout holds what the page chrome renderers share: the request
// context handed in by the host page and the dependencies carried in the
// context.
package layout

import (
	"context"
	"sync"

	"github.com/pitabwire/util"

	"github.com/moseybank/sitelayout/components"
	"github.com/moseybank/sitelayout/config"
	"github.com/moseybank/sitelayout/graph"
	"github.com/moseybank/sitelayout/localization"
	"github.com/moseybank/sitelayout/locales"
)

// RequestContext is the per page context the host passes to the renderers.
// Both fields are optional.
type RequestContext struct {
	Locale string
	Client graph.Client
}

// Config is the configuration the renderers read.
type Config interface {
	config.ConfigurationLayout
	config.ConfigurationGraph
}

// ClientFactory builds a graph client when the request context has none.
type ClientFactory func(ctx context.Context) graph.Client

// Dependencies are shared by all renders of a process.
type Dependencies struct {
	Config     Config
	Dictionary localization.Dictionary
	Locales    *locales.Repository
	Components *components.Factory
	NewClient  ClientFactory

	clientOnce    sync.Once
	defaultClient graph.Client
}

// NewDependencies fills the unset fields of deps with working defaults.
func NewDependencies(ctx context.Context, deps *Dependencies) *Dependencies {
	if deps == nil {
		deps = &Dependencies{}
	}

	if deps.Config == nil {
		cfg, err := config.FromEnv[config.ConfigurationDefault]()
		if err != nil {
			util.Log(ctx).WithError(err).Warn("could not read layout configuration, using defaults")
		}
		deps.Config = &cfg
	}

	if deps.Dictionary == nil {
		dict, err := localization.Load(ctx, deps.Config.GetDictionaryPath())
		if err != nil {
			util.Log(ctx).WithError(err).Warn("could not load dictionary, using the built-in one")
			dict, _ = localization.Default()
		}
		deps.Dictionary = dict
	}

	if deps.NewClient == nil {
		cfg := deps.Config
		deps.NewClient = func(_ context.Context) graph.Client {
			return graph.NewClient("", "", append(graph.DefaultOptions(), graph.WithConfig(cfg))...)
		}
	}

	if deps.Components == nil {
		deps.Components = components.NewFactory()
	}

	if deps.Locales == nil {
		deps.Locales = locales.NewRepository(locales.WithClientFactory(deps.sharedClient))
	}

	return deps
}

func (d *Dependencies) sharedClient(ctx context.Context) graph.Client {
	d.clientOnce.Do(func() {
		d.defaultClient = d.NewClient(ctx)
	})
	return d.defaultClient
}

// Client returns the client of rc, or the process wide client built on first use.
func (d *Dependencies) Client(ctx context.Context, rc *RequestContext) graph.Client {
	if rc != nil && rc.Client != nil {
		return rc.Client
	}
	return d.sharedClient(ctx)
}

type contextKey string

func (c contextKey) String() string {
	return "sitelayout/layout/" + string(c)
}

const ctxKeyDependencies = contextKey("dependenciesKey")

// ToContext adds deps to ctx.
func ToContext(ctx context.Context, deps *Dependencies) context.Context {
	return context.WithValue(ctx, ctxKeyDependencies, deps)
}

//nolint:gochecknoglobals // host-less default, built on first use
var defaultDependencies = sync.OnceValue(func() *Dependencies {
	return NewDependencies(context.Background(), nil)
})

// FromContext returns the dependencies in ctx.
//
// A context without dependencies gets the host-less default: configuration
// read from the environment, the embedded dictionary and one locale
// repository shared by every such render for the life of the process.
// Hosts should inject their own with ToContext; each use of the default is
// logged as a warning.
func FromContext(ctx context.Context) *Dependencies {
	deps, ok := ctx.Value(ctxKeyDependencies).(*Dependencies)
	if !ok || deps == nil {
		util.Log(ctx).Warn("no layout dependencies in context, using the process default")
		return defaultDependencies()
	}
	return deps
}
