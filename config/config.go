package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type contextKey string

func (c contextKey) String() string {
	return "sitelayout/config/" + string(c)
}

const (
	ctxKeyConfiguration = contextKey("configurationKey")

	DefaultGraphGateway = "https://cg.optimizely.com/content/v2"
)

// ToContext adds service configuration to the current supplied context.
func ToContext(ctx context.Context, config any) context.Context {
	return context.WithValue(ctx, ctxKeyConfiguration, config)
}

// FromContext extracts service configuration from the supplied context if any exist.
func FromContext[T any](ctx context.Context) T {
	if cfg, ok := ctx.Value(ctxKeyConfiguration).(T); ok {
		return cfg
	}
	var zero T
	return zero
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

type ConfigurationDefault struct {
	LogLevel      string `envDefault:"info"                      env:"LOG_LEVEL"       yaml:"log_level"`
	LogTimeFormat string `envDefault:"2006-01-02T15:04:05Z07:00" env:"LOG_TIME_FORMAT" yaml:"log_time_format"`
	LogColored    bool   `envDefault:"true"                      env:"LOG_COLORED"     yaml:"log_colored"`

	LogShowStackTrace bool `envDefault:"false" env:"LOG_SHOW_STACK_TRACE" yaml:"log_show_stack_trace"`

	TraceRequests        bool `envDefault:"false" env:"TRACE_REQUESTS"          yaml:"trace_requests"`
	TraceRequestsLogBody bool `envDefault:"false" env:"TRACE_REQUESTS_LOG_BODY" yaml:"trace_requests_log_body"`

	ServiceName        string `envDefault:"sitelayout" env:"SERVICE_NAME"        yaml:"service_name"`
	ServiceEnvironment string `envDefault:""           env:"SERVICE_ENVIRONMENT" yaml:"service_environment"`
	ServiceVersion     string `envDefault:""           env:"SERVICE_VERSION"     yaml:"service_version"`

	OpenTelemetryDisable    bool    `envDefault:"false" env:"OPENTELEMETRY_DISABLE"        yaml:"opentelemetry_disable"`
	OpenTelemetryTraceRatio float64 `envDefault:"0.1"   env:"OPENTELEMETRY_TRACE_ID_RATIO" yaml:"opentelemetry_trace_id_ratio"`

	HTTPServerPort string `envDefault:":8080" env:"HTTP_PORT" yaml:"http_server_port"`

	GraphGateway   string `envDefault:"https://cg.optimizely.com/content/v2" env:"OPTIMIZELY_GRAPH_GATEWAY"    yaml:"graph_gateway"`
	GraphSingleKey string `envDefault:""                                     env:"OPTIMIZELY_GRAPH_SINGLE_KEY" yaml:"graph_single_key"`

	GraphTimeout       string `envDefault:"10s" env:"GRAPH_TIMEOUT"          yaml:"graph_timeout"`
	GraphMaxAttempts   int    `envDefault:"2"   env:"GRAPH_MAX_ATTEMPTS"     yaml:"graph_max_attempts"`
	GraphQueryCacheTTL string `envDefault:"60s" env:"GRAPH_QUERY_CACHE_TTL"  yaml:"graph_query_cache_ttl"`

	// DisableLayoutQueriesValue is kept as a string, only "1" disables the queries.
	DisableLayoutQueriesValue string `envDefault:"" env:"DISABLE_LAYOUT_QUERIES" yaml:"disable_layout_queries"`

	CacheURI       string `envDefault:"mem://" env:"CACHE_URI"        yaml:"cache_uri"`
	LocaleCacheTTL string `envDefault:"5m"     env:"LOCALE_CACHE_TTL" yaml:"locale_cache_ttl"`

	DictionaryPath string `envDefault:"" env:"DICTIONARY_PATH" yaml:"dictionary_path"`
}

type ConfigurationService interface {
	Name() string
	Environment() string
	Version() string
}

var _ ConfigurationService = new(ConfigurationDefault)

func (c *ConfigurationDefault) Name() string {
	return c.ServiceName
}
func (c *ConfigurationDefault) Environment() string {
	return c.ServiceEnvironment
}
func (c *ConfigurationDefault) Version() string {
	return c.ServiceVersion
}

type ConfigurationTelemetry interface {
	DisableOpenTelemetry() bool
	SamplingRatio() float64
}

var _ ConfigurationTelemetry = new(ConfigurationDefault)

func (c *ConfigurationDefault) DisableOpenTelemetry() bool {
	return c.OpenTelemetryDisable
}

// SamplingRatio is the trace id ratio, clamped to [0, 1].
func (c *ConfigurationDefault) SamplingRatio() float64 {
	switch {
	case c.OpenTelemetryTraceRatio < 0:
		return 0
	case c.OpenTelemetryTraceRatio > 1:
		return 1
	}
	return c.OpenTelemetryTraceRatio
}

type ConfigurationLogLevel interface {
	LoggingLevel() string
	LoggingTimeFormat() string
	LoggingShowStackTrace() bool
	LoggingColored() bool
	LoggingLevelIsDebug() bool
}

var _ ConfigurationLogLevel = new(ConfigurationDefault)

func (c *ConfigurationDefault) LoggingLevel() string {
	return c.LogLevel
}

func (c *ConfigurationDefault) LoggingTimeFormat() string {
	return c.LogTimeFormat
}

func (c *ConfigurationDefault) LoggingColored() bool {
	return c.LogColored
}

func (c *ConfigurationDefault) LoggingShowStackTrace() bool {
	return c.LogShowStackTrace
}

func (c *ConfigurationDefault) LoggingLevelIsDebug() bool {
	return c.LoggingLevel() == "debug" || c.LoggingLevel() == "trace"
}

type ConfigurationTraceRequests interface {
	TraceReq() bool
	TraceReqLogBody() bool
}

var _ ConfigurationTraceRequests = new(ConfigurationDefault)

func (c *ConfigurationDefault) TraceReq() bool {
	return c.TraceRequests
}

func (c *ConfigurationDefault) TraceReqLogBody() bool {
	return c.TraceRequestsLogBody
}

type ConfigurationPorts interface {
	HTTPPort() string
}

var _ ConfigurationPorts = new(ConfigurationDefault)

func (c *ConfigurationDefault) HTTPPort() string {
	if i, err := strconv.Atoi(c.HTTPServerPort); err == nil && i > 0 {
		return fmt.Sprintf(":%s", strings.TrimSpace(c.HTTPServerPort))
	}

	if strings.HasPrefix(c.HTTPServerPort, ":") || strings.Contains(c.HTTPServerPort, ":") {
		return c.HTTPServerPort
	}

	return ":8080"
}

// ConfigurationGraph describes how the content graph is reached.
type ConfigurationGraph interface {
	GetGraphGateway() string
	GetGraphSingleKey() string
	GetGraphTimeout() time.Duration
	GetGraphMaxAttempts() int
	GetGraphQueryCacheTTL() time.Duration
}

var _ ConfigurationGraph = new(ConfigurationDefault)

func (c *ConfigurationDefault) GetGraphGateway() string {
	if strings.TrimSpace(c.GraphGateway) == "" {
		return DefaultGraphGateway
	}
	return c.GraphGateway
}

func (c *ConfigurationDefault) GetGraphSingleKey() string {
	return c.GraphSingleKey
}

func (c *ConfigurationDefault) GetGraphTimeout() time.Duration {
	return parseDuration(c.GraphTimeout, 10*time.Second)
}

func (c *ConfigurationDefault) GetGraphMaxAttempts() int {
	if c.GraphMaxAttempts < 1 {
		return 1
	}
	return c.GraphMaxAttempts
}

func (c *ConfigurationDefault) GetGraphQueryCacheTTL() time.Duration {
	return parseDuration(c.GraphQueryCacheTTL, time.Minute)
}

// ConfigurationLayout holds the settings read by the layout renderers.
type ConfigurationLayout interface {
	DisableLayoutQueries() bool
	GetDictionaryPath() string
}

var _ ConfigurationLayout = new(ConfigurationDefault)

func (c *ConfigurationDefault) DisableLayoutQueries() bool {
	return c.DisableLayoutQueriesValue == "1"
}

func (c *ConfigurationDefault) GetDictionaryPath() string {
	return c.DictionaryPath
}

type ConfigurationCache interface {
	GetCacheURI() string
	GetLocaleCacheTTL() time.Duration
}

var _ ConfigurationCache = new(ConfigurationDefault)

func (c *ConfigurationDefault) GetCacheURI() string {
	if strings.TrimSpace(c.CacheURI) == "" {
		return "mem://"
	}
	return c.CacheURI
}

func (c *ConfigurationDefault) GetLocaleCacheTTL() time.Duration {
	return parseDuration(c.LocaleCacheTTL, 5*time.Minute)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
