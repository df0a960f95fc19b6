package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestContextHelpersAndKeyString() {
	ctx := context.Background()
	cfg := ConfigurationDefault{ServiceName: "svc"}

	s.Equal("sitelayout/config/configurationKey", ctxKeyConfiguration.String())

	ctx = ToContext(ctx, cfg)
	fromCtx := FromContext[ConfigurationDefault](ctx)
	s.Equal("svc", fromCtx.ServiceName)

	missing := FromContext[*ConfigurationDefault](context.Background())
	s.Nil(missing)
}

func (s *ConfigSuite) TestFromEnvAndFillEnv() {
	type envCfg struct {
		Value string `env:"SITELAYOUT_TEST_VALUE"`
	}

	s.T().Setenv("SITELAYOUT_TEST_VALUE", "abc")

	fromEnv, err := FromEnv[envCfg]()
	s.Require().NoError(err)
	s.Equal("abc", fromEnv.Value)

	var target envCfg
	s.Require().NoError(FillEnv(&target))
	s.Equal("abc", target.Value)
}

func (s *ConfigSuite) TestDefaultsFromEnv() {
	cfg, err := FromEnv[ConfigurationDefault]()
	s.Require().NoError(err)

	s.Equal("sitelayout", cfg.Name())
	s.Equal(DefaultGraphGateway, cfg.GetGraphGateway())
	s.Equal(10*time.Second, cfg.GetGraphTimeout())
	s.Equal(2, cfg.GetGraphMaxAttempts())
	s.Equal(time.Minute, cfg.GetGraphQueryCacheTTL())
	s.Equal(5*time.Minute, cfg.GetLocaleCacheTTL())
	s.Equal("mem://", cfg.GetCacheURI())
	s.False(cfg.DisableLayoutQueries())
	s.Equal(":8080", cfg.HTTPPort())
}

func (s *ConfigSuite) TestDisableLayoutQueries() {
	testCases := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "unset", value: "", expected: false},
		{name: "one disables", value: "1", expected: true},
		{name: "true is not one", value: "true", expected: false},
		{name: "zero", value: "0", expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.T().Setenv("DISABLE_LAYOUT_QUERIES", tc.value)
			cfg, err := FromEnv[ConfigurationDefault]()
			s.Require().NoError(err)
			s.Equal(tc.expected, cfg.DisableLayoutQueries())
		})
	}
}

func (s *ConfigSuite) TestGettersFallBackOnBadValues() {
	cfg := &ConfigurationDefault{
		GraphGateway:       "  ",
		GraphTimeout:       "soon",
		GraphMaxAttempts:   0,
		GraphQueryCacheTTL: "-1s",
		CacheURI:           "",
		LocaleCacheTTL:     "",
		HTTPServerPort:     "9090",
		LogLevel:           "trace",
	}

	s.Equal(DefaultGraphGateway, cfg.GetGraphGateway())
	s.Equal(10*time.Second, cfg.GetGraphTimeout())
	s.Equal(1, cfg.GetGraphMaxAttempts())
	s.Equal(time.Minute, cfg.GetGraphQueryCacheTTL())
	s.Equal("mem://", cfg.GetCacheURI())
	s.Equal(5*time.Minute, cfg.GetLocaleCacheTTL())
	s.Equal(":9090", cfg.HTTPPort())
	s.True(cfg.LoggingLevelIsDebug())

	cfg.HTTPServerPort = "localhost:7070"
	s.Equal("localhost:7070", cfg.HTTPPort())
	cfg.HTTPServerPort = "nonsense"
	s.Equal(":8080", cfg.HTTPPort())
}

func (s *ConfigSuite) TestTelemetrySettings() {
	cfg, err := FromEnv[ConfigurationDefault]()
	s.Require().NoError(err)
	s.False(cfg.DisableOpenTelemetry())
	s.InDelta(0.1, cfg.SamplingRatio(), 0.0001)

	cfg.OpenTelemetryTraceRatio = 4
	s.InDelta(1.0, cfg.SamplingRatio(), 0.0001)
	cfg.OpenTelemetryTraceRatio = -1
	s.Zero(cfg.SamplingRatio())

	s.T().Setenv("OPENTELEMETRY_DISABLE", "true")
	cfg, err = FromEnv[ConfigurationDefault]()
	s.Require().NoError(err)
	s.True(cfg.DisableOpenTelemetry())
}
