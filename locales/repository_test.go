package locales_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pitabwire/util"
	"github.com/stretchr/testify/suite"

	"github.com/moseybank/sitelayout/cache"
	"github.com/moseybank/sitelayout/graph"
	"github.com/moseybank/sitelayout/locales"
)

const schemaResponse = `{"__schema": {"types": [
	{"kind": "ENUM", "name": "Locales", "enumValues": [{"name": "ALL"}, {"name": "NEUTRAL"}, {"name": "en"}, {"name": "en"}, {"name": "fr"}]},
	{"kind": "ENUM", "name": "BlogLocales", "enumValues": [{"name": "fr"}, {"name": "de"}]},
	{"kind": "OBJECT", "name": "Locales2", "enumValues": null}
]}}`

type schemaClient struct {
	response string
	err      error
	calls    atomic.Int32
	release  chan struct{}
}

func (c *schemaClient) Request(_ context.Context, _, _ string, _ map[string]any, out any) error {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return c.err
	}
	return json.Unmarshal([]byte(c.response), out)
}

func (c *schemaClient) Endpoint() string { return "fake://graph" }

type RepositorySuite struct {
	suite.Suite
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) TestDedupeKeepsFirstSeenOrder() {
	s.Equal([]string{"en", "fr"}, locales.Dedupe([]string{"en", "en", "fr"}))
	s.Equal([]string{"fr", "en", "de"}, locales.Dedupe([]string{"fr", "en", "fr", "de", "en"}))
	s.Empty(locales.Dedupe(nil))
}

func (s *RepositorySuite) TestSystemLocalesFilter() {
	testCases := []struct {
		name          string
		includeSystem bool
		want          []string
	}{
		{name: "without system locales", includeSystem: false, want: []string{"en", "fr", "de"}},
		{name: "with system locales", includeSystem: true, want: []string{"ALL", "NEUTRAL", "en", "fr", "de"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			repo := locales.NewRepository()
			defer repo.Close()

			got := repo.GetLocales(context.Background(), tc.includeSystem, &schemaClient{response: schemaResponse})
			s.Equal(tc.want, got)
		})
	}
}

func (s *RepositorySuite) TestRepeatedCallsIssueOneQuery() {
	repo := locales.NewRepository()
	defer repo.Close()

	client := &schemaClient{response: schemaResponse}
	ctx := context.Background()

	first := repo.GetLocales(ctx, false, client)
	first[0] = "mutated"

	second := repo.GetLocales(ctx, false, client)
	s.Equal([]string{"en", "fr", "de"}, second)
	s.Equal(int32(1), client.calls.Load())

	repo.GetLocales(ctx, true, client)
	s.Equal(int32(2), client.calls.Load(), "system flag is a separate cache entry")
}

func (s *RepositorySuite) TestConcurrentFirstCallsShareOneQuery() {
	repo := locales.NewRepository()
	defer repo.Close()

	client := &schemaClient{response: schemaResponse, release: make(chan struct{})}
	ctx := context.Background()

	const callers = 8
	results := make([][]string, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = repo.GetLocales(ctx, false, client)
		}()
	}

	s.Eventually(func() bool { return client.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(client.release)
	wg.Wait()

	s.Equal(int32(1), client.calls.Load())
	for _, res := range results {
		s.Equal([]string{"en", "fr", "de"}, res)
	}
}

func (s *RepositorySuite) TestRequestScopes() {
	repo := locales.NewRepository()
	defer repo.Close()

	client := &schemaClient{response: schemaResponse}
	base := context.Background()
	s.False(locales.IsRequestScoped(base))
	s.Equal(locales.ProcessScope, locales.ScopeFromContext(base))

	reqA := locales.WithRequestScope(base)
	reqB := locales.WithRequestScope(base)
	s.True(locales.IsRequestScoped(reqA))
	s.NotEqual(locales.ScopeFromContext(reqA), locales.ScopeFromContext(reqB))

	repo.GetLocales(reqA, false, client)
	repo.GetLocales(reqA, false, client)
	s.Equal(int32(1), client.calls.Load())

	repo.GetLocales(reqB, false, client)
	s.Equal(int32(2), client.calls.Load())

	repo.EndRequestScope(reqA)
	repo.GetLocales(reqA, false, client)
	s.Equal(int32(3), client.calls.Load())

	repo.GetLocales(base, false, client)
	s.Require().NoError(repo.Invalidate(base))
	repo.GetLocales(base, false, client)
	s.Equal(int32(5), client.calls.Load())
}

func (s *RepositorySuite) TestFailureYieldsEmptyListAndIsNotCached() {
	var buf bytes.Buffer
	ctx := util.ContextWithLogger(context.Background(),
		util.NewLogger(context.Background(), util.WithLogOutput(&buf), util.WithLogNoColor(true)))

	repo := locales.NewRepository()
	defer repo.Close()

	failing := &schemaClient{err: &graph.RequestError{Response: graph.ErrorResponse{
		Code: "AUTHENTICATION_ERROR", Status: 401,
		System: &graph.ErrorSystem{Message: "Invalid key", Auth: "epi-single"},
	}}}

	got := repo.GetLocales(ctx, false, failing)
	s.NotNil(got)
	s.Empty(got)
	s.Contains(buf.String(), "[Optimizely Graph] [Error] AUTHENTICATION_ERROR (401) Invalid key epi-single")

	working := &schemaClient{response: schemaResponse}
	s.Equal([]string{"en", "fr", "de"}, repo.GetLocales(ctx, false, working))
	s.Equal(int32(1), working.calls.Load())
}

func (s *RepositorySuite) TestSharedRawCacheAndDefaultClient() {
	raw := cache.NewInMemoryCache()
	defer raw.Close()

	var built atomic.Int32
	client := &schemaClient{err: errors.New("offline")}
	repo := locales.NewRepository(
		locales.WithRawCache(raw),
		locales.WithTTL(time.Minute),
		locales.WithClientFactory(func(context.Context) graph.Client {
			built.Add(1)
			return client
		}),
	)

	s.Empty(repo.GetLocales(context.Background(), false, nil))
	s.Empty(repo.GetLocales(context.Background(), false, nil))
	s.Equal(int32(1), built.Load())
	s.Equal(int32(2), client.calls.Load())

	client.err = nil
	client.response = schemaResponse
	s.Len(repo.GetLocales(context.Background(), false, nil), 3)

	exists, err := raw.Exists(context.Background(), "locales:process:false")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(repo.Close())
	exists, err = raw.Exists(context.Background(), "locales:process:false")
	s.Require().NoError(err)
	s.True(exists, "a shared cache stays open")
}

func (s *RepositorySuite) TestCachedLocalesNeverQueries() {
	repo := locales.NewRepository()
	defer repo.Close()

	ctx := context.Background()
	_, found := repo.CachedLocales(ctx, false)
	s.False(found)

	client := &schemaClient{response: schemaResponse}
	repo.GetLocales(ctx, false, client)

	list, found := repo.CachedLocales(ctx, false)
	s.True(found)
	s.Equal([]string{"en", "fr", "de"}, list)
	s.Equal(int32(1), client.calls.Load())
}
