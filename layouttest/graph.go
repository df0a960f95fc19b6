// Package layouttest provides a fake content graph and suite helpers for
// testing the layout renderers.
package layouttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Response is a canned reply of the fake graph.
type Response struct {
	Status int
	Body   string
}

// Graph is an in process content graph answering by operation name.
type Graph struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	calls     map[string]int
	variables map[string][]map[string]any
}

// NewGraph starts a fake graph. Unknown operations answer 400 with a gateway
// error body.
func NewGraph() *Graph {
	g := &Graph{
		responses: map[string]Response{},
		calls:     map[string]int{},
		variables: map[string][]map[string]any{},
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	return g
}

func (g *Graph) URL() string {
	return g.Server.URL
}

func (g *Graph) Close() {
	g.Server.Close()
}

// Respond sets the reply for operation.
func (g *Graph) Respond(operation string, status int, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responses[operation] = Response{Status: status, Body: body}
}

// Calls returns how often operation was requested.
func (g *Graph) Calls(operation string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[operation]
}

// TotalCalls returns the number of requests served.
func (g *Graph) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := 0
	for _, n := range g.calls {
		total += n
	}
	return total
}

// Variables returns the variables sent with each request of operation.
func (g *Graph) Variables(operation string) []map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.variables[operation]
}

func (g *Graph) serve(w http.ResponseWriter, r *http.Request) {
	operation, variables := readRequest(r)

	g.mu.Lock()
	g.calls[operation]++
	g.variables[operation] = append(g.variables[operation], variables)
	resp, ok := g.responses[operation]
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"GRAPHQL_VALIDATION_FAILED","status":400,"system":{"message":"unknown operation"}}`))
		return
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp.Body))
}

func readRequest(r *http.Request) (string, map[string]any) {
	variables := map[string]any{}

	if r.Method == http.MethodGet {
		q := r.URL.Query()
		if raw := q.Get("variables"); raw != "" {
			_ = json.Unmarshal([]byte(raw), &variables)
		}
		return q.Get("operationName"), variables
	}

	var body struct {
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}
	data, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(data, &body)
	if body.Variables != nil {
		variables = body.Variables
	}
	return body.OperationName, variables
}
