package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pitabwire/util"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultMaxResponseBodyLen        = 10 << 20 // graph responses are small, cap at 10MB
	defaultCircuitBreakerMaxRequests = 3
	defaultCircuitBreakerInterval    = 30 * time.Second
	defaultCircuitBreakerTimeout     = 45 * time.Second
	defaultCircuitBreakerThreshold   = 20
	defaultCircuitBreakerFailureRate = 0.5
)

var (
	ErrResponseTooLarge = errors.New("response body truncated, it exceeds configured limit")
	ErrNoResponse       = errors.New("no response received")
)

// serverError wraps a 5xx response so the circuit breaker records it as a
// failure, while still allowing callers to read the response body.
type serverError struct {
	statusCode int
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error: HTTP %d", e.statusCode)
}

// Manager invokes http endpoints through a shared instrumented client.
type Manager interface {
	Invoke(ctx context.Context,
		method string, endpointURL string, payload any,
		headers http.Header) (*InvokeResponse, error)
}

type InvokeResponse struct {
	StatusCode int
	Headers    http.Header
	Body       io.ReadCloser

	maxBodyLen int64
}

func (s *InvokeResponse) Close() error {
	if s.Body != nil {
		return s.Body.Close()
	}
	return nil
}

// ToContent reads the whole body, bounded by the configured limit, and closes it.
func (s *InvokeResponse) ToContent(ctx context.Context) ([]byte, error) {
	defer util.CloseAndLogOnError(ctx, s)

	reader := io.Reader(s.Body)
	if s.maxBodyLen > 0 {
		reader = io.LimitReader(s.Body, s.maxBodyLen+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if s.maxBodyLen > 0 && int64(len(data)) > s.maxBodyLen {
		return data[:s.maxBodyLen], ErrResponseTooLarge
	}

	return data, nil
}

type invoker struct {
	breakers    sync.Map // map[string]*gobreaker.CircuitBreaker[*http.Response]
	client      *http.Client
	maxBodyLen  int64
	retryPolicy *RetryPolicy
}

// NewManager creates a new invoker with the provided options.
func NewManager(opts ...HTTPOption) Manager {
	cfg := &httpConfig{}
	cfg.process(opts...)

	return &invoker{
		client:      NewHTTPClient(opts...),
		maxBodyLen:  defaultMaxResponseBodyLen,
		retryPolicy: cfg.retryPolicy,
	}
}

func (s *invoker) breakerFor(key string) *gobreaker.CircuitBreaker[*http.Response] {
	if cb, ok := s.breakers.Load(key); ok {
		//nolint:errcheck // only *gobreaker.CircuitBreaker[*http.Response] is stored
		return cb.(*gobreaker.CircuitBreaker[*http.Response])
	}

	st := gobreaker.Settings{
		Name:        "http:" + key,
		MaxRequests: defaultCircuitBreakerMaxRequests,
		Interval:    defaultCircuitBreakerInterval,
		Timeout:     defaultCircuitBreakerTimeout,

		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < defaultCircuitBreakerThreshold {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= defaultCircuitBreakerFailureRate
		},
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](st)

	actual, _ := s.breakers.LoadOrStore(key, cb)
	//nolint:errcheck // only *gobreaker.CircuitBreaker[*http.Response] is stored
	return actual.(*gobreaker.CircuitBreaker[*http.Response])
}

func breakerKey(req *http.Request) string {
	return req.Method + " " + req.URL.Host
}

func isRetryableStatus(code int) bool {
	return code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}

//nolint:gocognit // retry loop with circuit breaker
func (s *invoker) execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	retry := s.retryPolicy
	cb := s.breakerFor(breakerKey(req))

	resp, err := cb.Execute(func() (*http.Response, error) {
		var lastErr error

		for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
			if attempt > 1 && req.GetBody != nil {
				bodyReader, bErr := req.GetBody()
				if bErr != nil {
					return nil, lastErr
				}
				req.Body = bodyReader
			}

			resp, doErr := s.client.Do(req)
			switch {
			case doErr != nil:
				if resp != nil && resp.Body != nil {
					_ = resp.Body.Close()
				}
				lastErr = doErr
			case isRetryableStatus(resp.StatusCode) && attempt < retry.MaxAttempts:
				_ = resp.Body.Close()
				lastErr = &serverError{statusCode: resp.StatusCode}
			case resp.StatusCode >= http.StatusInternalServerError:
				return resp, &serverError{statusCode: resp.StatusCode}
			default:
				return resp, nil
			}

			if attempt == retry.MaxAttempts {
				break
			}

			t := time.NewTimer(retry.Backoff(attempt))
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		return nil, lastErr
	})

	// A 5xx with a body is handed back so callers can read the error payload.
	var sErr *serverError
	if resp != nil && errors.As(err, &sErr) {
		return resp, nil
	}

	return resp, err
}

// Invoke sends payload as JSON (when not nil) and returns the raw response.
// The caller owns the response body.
func (s *invoker) Invoke(ctx context.Context,
	method string, endpointURL string, payload any,
	headers http.Header) (*InvokeResponse, error) {
	if headers == nil {
		headers = http.Header{
			"Content-Type": {"application/json"},
			"Accept":       {"application/json"},
		}
	}

	var body io.Reader
	if payload != nil {
		postBody, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(postBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpointURL, body)
	if err != nil {
		return nil, err
	}
	req.Header = headers

	//nolint:bodyclose // InvokeResponse owns the body
	resp, err := s.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpointURL, ErrNoResponse)
	}

	return &InvokeResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       resp.Body,
		maxBodyLen: s.maxBodyLen,
	}, nil
}
