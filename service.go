package sitelayout

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pitabwire/util"

	"github.com/moseybank/sitelayout/cache"
	"github.com/moseybank/sitelayout/client"
	"github.com/moseybank/sitelayout/components"
	"github.com/moseybank/sitelayout/config"
	"github.com/moseybank/sitelayout/graph"
	"github.com/moseybank/sitelayout/layout"
	"github.com/moseybank/sitelayout/localization"
	"github.com/moseybank/sitelayout/locales"
	"github.com/moseybank/sitelayout/telemetry"
)

type contextKey string

func (c contextKey) String() string {
	return "sitelayout/" + string(c)
}

const (
	ctxKeyService = contextKey("serviceKey")

	defaultHTTPReadTimeoutSeconds  = 15
	defaultHTTPWriteTimeoutSeconds = 15
	defaultHTTPIdleTimeoutSeconds  = 60
	shutdownTimeoutSeconds         = 10
)

// Service holds together the components needed to render the page chrome.
// An instance lives for the lifetime of the application and is carried in
// contexts.
type Service struct {
	name          string
	version       string
	environment   string
	logger        *util.LogEntry
	configuration any

	cacheManager cache.Manager
	cacheURI     string
	httpManager  client.Manager
	graphClient  graph.Client
	dictionary   localization.Dictionary
	factory      *components.Factory
	locales      *locales.Repository
	deps         *layout.Dependencies

	telemetryManager telemetry.Manager

	healthCheckers  []Checker
	healthCheckPath string
	handler         http.Handler
	httpServer      *http.Server

	cancelFunc context.CancelFunc
	cleanup    func(ctx context.Context)
	startOnce  sync.Once
	stopMutex  sync.Mutex
	setupErr   error
}

type Option func(ctx context.Context, service *Service)

// NewService creates a new instance of Service with the name and supplied options.
func NewService(name string, opts ...Option) (context.Context, *Service, error) {
	return NewServiceWithContext(context.Background(), name, opts...)
}

// NewServiceWithContext creates a new instance of Service with context, name
// and supplied options. Options are applied over a configuration read from the
// environment; an error is returned when a required component cannot be built.
func NewServiceWithContext(ctx context.Context, name string, opts ...Option) (context.Context, *Service, error) {
	ctx, signalCancelFunc := signal.NotifyContext(ctx,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	defaultLogger := util.Log(ctx)
	ctx = util.ContextWithLogger(ctx, defaultLogger)

	service := &Service{
		name:       name,
		cancelFunc: signalCancelFunc,
		logger:     defaultLogger,
	}

	defaultCfg, err := config.FromEnv[config.ConfigurationDefault]()
	if err != nil {
		signalCancelFunc()
		return ctx, nil, err
	}
	opts = append([]Option{WithConfig(&defaultCfg)}, opts...)

	service.Init(ctx, opts...)
	if err = service.setup(ctx); err != nil {
		service.Stop(ctx)
		return ctx, nil, err
	}

	ctx = SvcToContext(ctx, service)
	ctx = config.ToContext(ctx, service.Config())
	ctx = util.ContextWithLogger(ctx, service.logger)
	ctx = layout.ToContext(ctx, service.deps)
	return ctx, service, nil
}

// SvcToContext pushes a service instance into the supplied context for easier propagation.
func SvcToContext(ctx context.Context, service *Service) context.Context {
	return context.WithValue(ctx, ctxKeyService, service)
}

// Svc obtains a service instance being propagated through the context.
func Svc(ctx context.Context) *Service {
	service, ok := ctx.Value(ctxKeyService).(*Service)
	if !ok {
		return nil
	}

	return service
}

// Name gets the name of the service. Its the first argument used when NewService is called.
func (s *Service) Name() string {
	return s.name
}

// WithName specifies the name the service will utilize.
func WithName(name string) Option {
	return func(_ context.Context, s *Service) {
		s.name = name
	}
}

func (s *Service) Version() string {
	return s.version
}

func WithVersion(version string) Option {
	return func(_ context.Context, s *Service) {
		s.version = version
	}
}

func (s *Service) Environment() string {
	return s.environment
}

func WithEnvironment(environment string) Option {
	return func(_ context.Context, s *Service) {
		s.environment = environment
	}
}

// Init evaluates the options provided as arguments and supplies them to the service object.
func (s *Service) Init(ctx context.Context, opts ...Option) {
	for _, opt := range opts {
		opt(ctx, s)
	}
}

// recordSetupError keeps the first error an option ran into.
func (s *Service) recordSetupError(err error) {
	if err != nil && s.setupErr == nil {
		s.setupErr = err
	}
}

// setup builds every component no option supplied.
func (s *Service) setup(ctx context.Context) error {
	if s.setupErr != nil {
		return s.setupErr
	}

	if s.cacheManager == nil {
		WithCacheManager()(ctx, s)
	}
	for _, name := range []string{cache.NameLocales, cache.NameGraphQueries} {
		if _, ok := s.cacheManager.GetRawCache(name); ok {
			continue
		}
		raw, err := openRawCache(ctx, s.cacheURIFor(), name, s.cacheMaxAge(name))
		if err != nil {
			return err
		}
		s.cacheManager.AddCache(name, raw)
	}

	if s.dictionary == nil {
		path := ""
		if cfg, ok := s.Config().(config.ConfigurationLayout); ok {
			path = cfg.GetDictionaryPath()
		}
		dict, err := localization.Load(ctx, path)
		if err != nil {
			return err
		}
		s.dictionary = dict
	}

	if s.graphClient == nil {
		s.graphClient = s.newGraphClient()
	}

	if s.factory == nil {
		s.factory = components.NewFactory()
	}

	localeRaw, _ := s.cacheManager.GetRawCache(cache.NameLocales)
	s.locales = locales.NewRepository(
		locales.WithRawCache(localeRaw),
		locales.WithTTL(s.cacheMaxAge(cache.NameLocales)),
		locales.WithClientFactory(func(context.Context) graph.Client { return s.graphClient }),
	)

	layoutCfg, ok := s.Config().(layout.Config)
	if !ok {
		return errors.New("configuration does not provide the layout and graph settings")
	}
	s.deps = layout.NewDependencies(ctx, &layout.Dependencies{
		Config:     layoutCfg,
		Dictionary: s.dictionary,
		Locales:    s.locales,
		Components: s.factory,
		NewClient:  func(context.Context) graph.Client { return s.graphClient },
	})

	return nil
}

func (s *Service) newGraphClient() graph.Client {
	opts := graph.DefaultOptions()

	if cfg, ok := s.Config().(config.ConfigurationGraph); ok {
		opts = append(opts, graph.WithConfig(cfg))
	}
	if s.httpManager != nil {
		opts = append(opts, graph.WithHTTPManager(s.httpManager))
	}

	if raw, ok := s.cacheManager.GetRawCache(cache.NameGraphQueries); ok {
		ttl := time.Duration(0)
		if cfg, cfgOk := s.Config().(config.ConfigurationGraph); cfgOk {
			ttl = cfg.GetGraphQueryCacheTTL()
		}
		store := cache.NewGenericCache[string, json.RawMessage](raw, nil)
		opts = append(opts, graph.WithQueryCacheStore(store, ttl))
	}

	return graph.NewClient("", "", opts...)
}

// Dependencies are the render dependencies built by the service.
func (s *Service) Dependencies() *layout.Dependencies {
	return s.deps
}

// GraphClient is the content graph client shared by all renders.
func (s *Service) GraphClient() graph.Client {
	return s.graphClient
}

func (s *Service) Dictionary() localization.Dictionary {
	return s.dictionary
}

func (s *Service) Locales() *locales.Repository {
	return s.locales
}

// AddCleanupMethod Adds user defined functions to be run just before completely stopping the service.
func (s *Service) AddCleanupMethod(f func(ctx context.Context)) {
	s.stopMutex.Lock()
	defer s.stopMutex.Unlock()

	if s.cleanup == nil {
		s.cleanup = f
		return
	}

	old := s.cleanup
	s.cleanup = func(ctx context.Context) { f(ctx); old(ctx) }
}

// Run serves the preview endpoints on address until ctx is done.
func (s *Service) Run(ctx context.Context, address string) error {
	address = s.determineHTTPPort(address)

	s.startOnce.Do(func() {
		if s.healthCheckPath == "" {
			s.healthCheckPath = "/healthz"
		}
		s.handler = s.Handler()
		s.httpServer = &http.Server{
			Addr:    address,
			Handler: s.handler,
			BaseContext: func(_ net.Listener) context.Context {
				return ctx
			},
			ReadTimeout:  defaultHTTPReadTimeoutSeconds * time.Second,
			WriteTimeout: defaultHTTPWriteTimeoutSeconds * time.Second,
			IdleTimeout:  defaultHTTPIdleTimeoutSeconds * time.Second,
		}
	})

	errCh := make(chan error, 1)
	go func() {
		s.Log(ctx).WithField("address", address).Info("preview server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.Stop(context.WithoutCancel(ctx))
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.Log(ctx).WithError(err).Error("system exit in error")
		s.Stop(ctx)
		return err
	}
}

func (s *Service) determineHTTPPort(currentPort string) string {
	if currentPort != "" {
		return currentPort
	}

	cfg, ok := s.Config().(config.ConfigurationPorts)
	if !ok || cfg.HTTPPort() == "" {
		return ":8080"
	}
	return cfg.HTTPPort()
}

// Stop shuts the preview server down and releases caches and clients.
func (s *Service) Stop(ctx context.Context) {
	if !s.stopMutex.TryLock() {
		return
	}
	defer s.stopMutex.Unlock()

	s.Log(ctx).Info("service stopping")

	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeoutSeconds*time.Second)
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.Log(ctx).WithError(err).Warn("preview server did not shut down cleanly")
		}
		cancel()
	}

	if s.cleanup != nil {
		s.cleanup(ctx)
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
}
