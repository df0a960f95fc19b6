package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedResponse = errors.New("malformed content graph response")

// ErrorSystem is the system block of a gateway error body.
type ErrorSystem struct {
	Message string `json:"message,omitempty"`
	Auth    string `json:"auth,omitempty"`
}

// ErrorResponse mirrors the error body returned by the graph gateway.
type ErrorResponse struct {
	Code   string       `json:"code,omitempty"`
	Status int          `json:"status,omitempty"`
	System *ErrorSystem `json:"system,omitempty"`
}

// RequestError is returned for non-2xx responses and GraphQL level errors.
type RequestError struct {
	Response ErrorResponse `json:"response"`
}

func (e *RequestError) Error() string {
	var sb strings.Builder
	sb.WriteString("content graph request failed")
	if e.Response.Code != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Response.Code)
	}
	if e.Response.Status != 0 {
		fmt.Fprintf(&sb, " (%d)", e.Response.Status)
	}
	if e.Response.System != nil && e.Response.System.Message != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Response.System.Message)
	}
	return sb.String()
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

func newHTTPError(status int, body []byte) *RequestError {
	reqErr := &RequestError{}
	if len(body) > 0 {
		_ = json.Unmarshal(body, &reqErr.Response)
	}
	if reqErr.Response.Status == 0 {
		reqErr.Response.Status = status
	}
	return reqErr
}

func newGraphQLError(status int, errs []gqlError) *RequestError {
	messages := make([]string, 0, len(errs))
	code := "GRAPHQL_ERROR"
	for _, e := range errs {
		messages = append(messages, e.Message)
		if e.Extensions.Code != "" && code == "GRAPHQL_ERROR" {
			code = e.Extensions.Code
		}
	}
	return &RequestError{Response: ErrorResponse{
		Code:   code,
		Status: status,
		System: &ErrorSystem{Message: strings.Join(messages, "; ")},
	}}
}
