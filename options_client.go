package sitelayout

import (
	"context"

	"github.com/moseybank/sitelayout/client"
	"github.com/moseybank/sitelayout/config"
	"github.com/moseybank/sitelayout/graph"
)

// HTTPClientManager obtains the instrumented http invoker the graph client uses.
func (s *Service) HTTPClientManager() client.Manager {
	return s.httpManager
}

// WithHTTPClient configures the HTTP invoker behind the graph client. Timeout,
// retries and request tracing default to the service configuration.
func WithHTTPClient(opts ...client.HTTPOption) Option {
	return func(_ context.Context, s *Service) {
		var defaults []client.HTTPOption

		if cfg, ok := s.Config().(config.ConfigurationGraph); ok {
			defaults = append(defaults,
				client.WithHTTPTimeout(cfg.GetGraphTimeout()),
				client.WithHTTPRetryPolicy(client.DefaultRetryPolicy(cfg.GetGraphMaxAttempts())))
		}

		if cfg, ok := s.Config().(config.ConfigurationTraceRequests); ok && cfg.TraceReq() {
			defaults = append(defaults, client.WithHTTPTraceRequests(), client.WithHTTPTraceRequestHeaders())
			if cfg.TraceReqLogBody() {
				defaults = append(defaults, client.WithHTTPTraceRequestBody())
			}
		}

		s.httpManager = client.NewManager(append(defaults, opts...)...)
	}
}

// WithGraphClient makes the service render with client instead of building one.
func WithGraphClient(gc graph.Client) Option {
	return func(_ context.Context, s *Service) {
		s.graphClient = gc
	}
}
