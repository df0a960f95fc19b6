package layouttest

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/pitabwire/util"
	"github.com/stretchr/testify/suite"

	"github.com/moseybank/sitelayout/client"
	"github.com/moseybank/sitelayout/config"
	"github.com/moseybank/sitelayout/graph"
	"github.com/moseybank/sitelayout/layout"
	"github.com/moseybank/sitelayout/localization"
	"github.com/moseybank/sitelayout/locales"
)

// BaseSuite starts a fake graph per test and captures the log output.
type BaseSuite struct {
	suite.Suite
	Graph *Graph

	logMu  sync.Mutex
	logBuf *bytes.Buffer
}

func (s *BaseSuite) SetupTest() {
	s.Graph = NewGraph()
	s.logBuf = &bytes.Buffer{}
}

func (s *BaseSuite) TearDownTest() {
	s.Graph.Close()
}

// Config returns a configuration pointing at the fake graph.
func (s *BaseSuite) Config() *config.ConfigurationDefault {
	cfg, err := config.FromEnv[config.ConfigurationDefault]()
	s.Require().NoError(err)
	cfg.GraphGateway = s.Graph.URL()
	cfg.GraphSingleKey = "test-key"
	cfg.GraphMaxAttempts = 1
	cfg.DisableLayoutQueriesValue = ""
	return &cfg
}

// Client builds a graph client for the fake graph without client side caching.
func (s *BaseSuite) Client() graph.Client {
	return graph.NewClient(s.Graph.URL(), "test-key",
		graph.WithHTTPManager(client.NewManager(client.WithHTTPRetryPolicy(&client.RetryPolicy{
			MaxAttempts: 1,
			Backoff:     func(int) time.Duration { return 0 },
		}))))
}

// Context returns a context carrying deps and a logger writing to the suite buffer.
func (s *BaseSuite) Context(cfg layout.Config) context.Context {
	dict, err := localization.Default()
	s.Require().NoError(err)

	repo := locales.NewRepository(locales.WithClientFactory(func(context.Context) graph.Client {
		return s.Client()
	}))
	s.T().Cleanup(func() { _ = repo.Close() })

	deps := layout.NewDependencies(context.Background(), &layout.Dependencies{
		Config:     cfg,
		Dictionary: dict,
		Locales:    repo,
		NewClient:  func(context.Context) graph.Client { return s.Client() },
	})

	logger := util.NewLogger(context.Background(), util.WithLogOutput(s), util.WithLogNoColor(true))
	ctx := util.ContextWithLogger(context.Background(), logger)
	return layout.ToContext(ctx, deps)
}

func (s *BaseSuite) Write(p []byte) (int, error) {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	return s.logBuf.Write(p)
}

// Logs returns what was logged through Context so far.
func (s *BaseSuite) Logs() string {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	return s.logBuf.String()
}
