package client

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultHTTPTimeoutSeconds     = 30
	defaultHTTPIdleTimeoutSeconds = 90
	defaultRetryAttempts          = 1
	defaultRetryBackoff           = 200 * time.Millisecond
)

// HTTPOption configures HTTP client behavior.
type HTTPOption func(*httpConfig)

// RetryPolicy decides how often a request is attempted and how long to wait in between.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// DefaultRetryPolicy makes maxAttempts attempts with a linear backoff.
func DefaultRetryPolicy(maxAttempts int) *RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = defaultRetryAttempts
	}
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * defaultRetryBackoff
		},
	}
}

type httpConfig struct {
	timeout     time.Duration
	transport   http.RoundTripper
	idleTimeout time.Duration
	retryPolicy *RetryPolicy

	traceRequests       bool
	traceRequestHeaders bool
	traceRequestBody    bool
}

func (c *httpConfig) process(opts ...HTTPOption) {
	for _, opt := range opts {
		opt(c)
	}
	c.retryPolicy = normalizeRetryPolicy(c.retryPolicy)
}

// normalizeRetryPolicy makes at least one attempt and always has a backoff.
// The caller's policy is left untouched.
func normalizeRetryPolicy(policy *RetryPolicy) *RetryPolicy {
	if policy == nil {
		return DefaultRetryPolicy(defaultRetryAttempts)
	}
	if policy.MaxAttempts >= 1 && policy.Backoff != nil {
		return policy
	}

	normalized := *policy
	if normalized.MaxAttempts < 1 {
		normalized.MaxAttempts = defaultRetryAttempts
	}
	if normalized.Backoff == nil {
		normalized.Backoff = DefaultRetryPolicy(normalized.MaxAttempts).Backoff
	}
	return &normalized
}

// WithHTTPTimeout sets the request timeout.
func WithHTTPTimeout(timeout time.Duration) HTTPOption {
	return func(c *httpConfig) {
		c.timeout = timeout
	}
}

// WithHTTPTransport sets the HTTP transport.
func WithHTTPTransport(transport http.RoundTripper) HTTPOption {
	return func(c *httpConfig) {
		c.transport = transport
	}
}

// WithHTTPIdleTimeout sets the idle timeout.
func WithHTTPIdleTimeout(timeout time.Duration) HTTPOption {
	return func(c *httpConfig) {
		c.idleTimeout = timeout
	}
}

// WithHTTPRetryPolicy overrides the retry policy of the invoker.
func WithHTTPRetryPolicy(policy *RetryPolicy) HTTPOption {
	return func(c *httpConfig) {
		c.retryPolicy = policy
	}
}

// WithHTTPTraceRequests enables request logging.
func WithHTTPTraceRequests() HTTPOption {
	return func(c *httpConfig) {
		c.traceRequests = true
	}
}

// WithHTTPTraceRequestHeaders enables header logging.
func WithHTTPTraceRequestHeaders() HTTPOption {
	return func(c *httpConfig) {
		c.traceRequestHeaders = true
	}
}

// WithHTTPTraceRequestBody enables body logging when tracing.
func WithHTTPTraceRequestBody() HTTPOption {
	return func(c *httpConfig) {
		c.traceRequestBody = true
	}
}

// NewHTTPClient creates a new HTTP client with the provided options.
// If no transport is specified, it defaults to otelhttp.NewTransport(http.DefaultTransport).
func NewHTTPClient(opts ...HTTPOption) *http.Client {
	cfg := &httpConfig{
		timeout:     time.Duration(defaultHTTPTimeoutSeconds) * time.Second,
		idleTimeout: time.Duration(defaultHTTPIdleTimeoutSeconds) * time.Second,
	}
	cfg.process(opts...)

	if cfg.transport == nil {
		base := http.DefaultTransport
		if t, ok := base.(*http.Transport); ok && cfg.idleTimeout > 0 {
			clone := t.Clone()
			clone.IdleConnTimeout = cfg.idleTimeout
			base = clone
		}
		cfg.transport = otelhttp.NewTransport(base)
	}

	if cfg.traceRequests {
		cfg.transport = NewLoggingTransport(cfg.transport,
			WithTransportLogRequests(true),
			WithTransportLogResponses(true),
			WithTransportLogHeaders(cfg.traceRequestHeaders),
			WithTransportLogBody(cfg.traceRequestBody))
	}

	return &http.Client{
		Transport: cfg.transport,
		Timeout:   cfg.timeout,
	}
}
