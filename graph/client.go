package graph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pitabwire/util"

	"github.com/moseybank/sitelayout/cache"
	"github.com/moseybank/sitelayout/client"
	"github.com/moseybank/sitelayout/config"
	"github.com/moseybank/sitelayout/telemetry"
)

// Client is a handle to a configured content graph connection.
type Client interface {
	// Request runs query with variables and decodes the data member into out.
	Request(ctx context.Context, operation string, query string, variables map[string]any, out any) error
	Endpoint() string
}

type graphClient struct {
	endpoint string
	key      string
	opts     options
	tracer   telemetry.Tracer
}

type requestBody struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type responseEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// NewClient creates a client for the gateway at endpoint authenticated by the
// single key. Empty values fall back to WithConfig and then to the public gateway.
func NewClient(endpoint, key string, opts ...Option) Client {
	o := options{queryCacheTTL: defaultQueryCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}

	if o.cfg != nil {
		if endpoint == "" {
			endpoint = o.cfg.GetGraphGateway()
		}
		if key == "" {
			key = o.cfg.GetGraphSingleKey()
		}
	}
	if endpoint == "" {
		endpoint = config.DefaultGraphGateway
	}

	if o.httpManager == nil {
		httpOpts := []client.HTTPOption{}
		if o.cfg != nil {
			httpOpts = append(httpOpts,
				client.WithHTTPTimeout(o.cfg.GetGraphTimeout()),
				client.WithHTTPRetryPolicy(client.DefaultRetryPolicy(o.cfg.GetGraphMaxAttempts())))
		}
		o.httpManager = client.NewManager(httpOpts...)
	}

	if o.queryCache && o.queryStore == nil {
		o.queryStore = cache.NewGenericCache[string, json.RawMessage](cache.NewInMemoryCache(), nil)
		if o.cfg != nil {
			o.queryCacheTTL = o.cfg.GetGraphQueryCacheTTL()
		}
	}

	return &graphClient{
		endpoint: endpoint,
		key:      key,
		opts:     o,
		tracer:   telemetry.NewTracer(telemetry.GraphPackage),
	}
}

func (c *graphClient) Endpoint() string {
	return c.endpoint
}

func (c *graphClient) Request(
	ctx context.Context,
	operation string,
	query string,
	variables map[string]any,
	out any,
) (err error) {
	ctx, span := c.tracer.Start(ctx, operation)
	defer func() { c.tracer.End(ctx, span, err) }()

	body := requestBody{Query: query, Variables: variables, OperationName: operation}

	var cacheKey string
	if c.opts.queryCache {
		cacheKey, err = c.cacheKey(body)
		if err != nil {
			return err
		}
		data, found, cacheErr := c.opts.queryStore.Get(ctx, cacheKey)
		if cacheErr != nil {
			util.Log(ctx).WithError(cacheErr).Warn("query cache lookup failed")
		}
		if found {
			return decodeData(data, out)
		}
	}

	data, err := c.do(ctx, body)
	if err != nil {
		return err
	}

	if c.opts.queryCache {
		if setErr := c.opts.queryStore.Set(ctx, cacheKey, data, c.opts.queryCacheTTL); setErr != nil {
			util.Log(ctx).WithError(setErr).Warn("query cache store failed")
		}
	}

	return decodeData(data, out)
}

func (c *graphClient) do(ctx context.Context, body requestBody) (json.RawMessage, error) {
	endpointURL, err := c.requestURL(body)
	if err != nil {
		return nil, err
	}

	method := http.MethodPost
	var payload any = body
	if c.opts.fetchCaching {
		method = http.MethodGet
		payload = nil
	}

	headers := http.Header{
		"Accept":       {"application/json"},
		"Content-Type": {"application/json"},
	}

	resp, err := c.opts.httpManager.Invoke(ctx, method, endpointURL, payload, headers)
	if err != nil {
		return nil, fmt.Errorf("content graph %s: %w", body.OperationName, err)
	}

	content, err := resp.ToContent(ctx)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newHTTPError(resp.StatusCode, content)
	}

	var envelope responseEnvelope
	if err = json.Unmarshal(content, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(envelope.Errors) > 0 {
		return nil, newGraphQLError(resp.StatusCode, envelope.Errors)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, fmt.Errorf("%w: no data", ErrMalformedResponse)
	}

	return envelope.Data, nil
}

func (c *graphClient) requestURL(body requestBody) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if c.key != "" {
		q.Set("auth", c.key)
	}
	q.Set("cache", strconv.FormatBool(c.opts.cache))

	if c.opts.fetchCaching {
		q.Set("query", body.Query)
		if body.OperationName != "" {
			q.Set("operationName", body.OperationName)
		}
		if len(body.Variables) > 0 {
			vars, mErr := json.Marshal(body.Variables)
			if mErr != nil {
				return "", mErr
			}
			q.Set("variables", string(vars))
		}
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *graphClient) cacheKey(body requestBody) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(strings.TrimRight(c.endpoint, "/")+"\n"), data...))
	return "graph:" + hex.EncodeToString(sum[:]), nil
}

func decodeData(data json.RawMessage, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
