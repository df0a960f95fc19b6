package client

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pitabwire/util"
)

const defaultMaxBodySize = 1024

// LoggingTransportOption configures the logging HTTP transport.
type LoggingTransportOption func(*loggingTransport)

type loggingTransport struct {
	transport    http.RoundTripper
	logRequests  bool
	logResponses bool
	logHeaders   bool
	logBody      bool
	maxBodySize  int64
}

// NewLoggingTransport wraps transport so every round trip is logged through the context logger.
// Headers and bodies are only logged when enabled; the graph key travels in the url and is redacted.
func NewLoggingTransport(transport http.RoundTripper, opts ...LoggingTransportOption) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}

	t := &loggingTransport{
		transport:    transport,
		logRequests:  true,
		logResponses: true,
		maxBodySize:  defaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func WithTransportLogRequests(enabled bool) LoggingTransportOption {
	return func(t *loggingTransport) {
		t.logRequests = enabled
	}
}

func WithTransportLogResponses(enabled bool) LoggingTransportOption {
	return func(t *loggingTransport) {
		t.logResponses = enabled
	}
}

// WithTransportLogHeaders enables header logging; headers may contain credentials.
func WithTransportLogHeaders(enabled bool) LoggingTransportOption {
	return func(t *loggingTransport) {
		t.logHeaders = enabled
	}
}

func WithTransportLogBody(enabled bool) LoggingTransportOption {
	return func(t *loggingTransport) {
		t.logBody = enabled
	}
}

func WithTransportMaxBodySize(size int64) LoggingTransportOption {
	return func(t *loggingTransport) {
		t.maxBodySize = size
	}
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := util.Log(req.Context()).WithFields(map[string]any{
		"method": req.Method,
		"url":    redactURL(req),
	})

	if t.logRequests {
		entry := log
		if t.logHeaders {
			entry = entry.WithField("headers", flattenHeaders(req.Header))
		}
		if t.logBody && req.Body != nil {
			var body string
			body, req.Body = t.peek(req.Body)
			if body != "" {
				entry = entry.WithField("body", body)
			}
		}
		entry.Info("HTTP request sent")
	}

	resp, err := t.transport.RoundTrip(req)

	if !t.logResponses {
		return resp, err
	}

	log = log.WithField("duration", time.Since(start).String())
	if err != nil {
		log.WithError(err).Error("HTTP request failed")
		return resp, err
	}

	log = log.WithFields(map[string]any{
		"status":     resp.StatusCode,
		"statusText": http.StatusText(resp.StatusCode),
	})
	if t.logHeaders {
		log = log.WithField("headers", flattenHeaders(resp.Header))
	}
	if t.logBody && resp.Body != nil {
		var body string
		body, resp.Body = t.peek(resp.Body)
		if body != "" {
			log = log.WithField("body", body)
		}
	}
	log.Info("HTTP response received")

	return resp, err
}

// peek reads up to maxBodySize bytes and returns a body that still yields the full content.
func (t *loggingTransport) peek(body io.ReadCloser) (string, io.ReadCloser) {
	head, err := io.ReadAll(io.LimitReader(body, t.maxBodySize))
	if err != nil || len(head) == 0 {
		return "", body
	}
	return string(head), struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), body), body}
}

func flattenHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if len(values) > 0 {
			out[name] = strings.Join(values, " , ")
		}
	}
	return out
}

func redactURL(req *http.Request) string {
	u := *req.URL
	q := u.Query()
	if q.Has("auth") {
		q.Set("auth", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
