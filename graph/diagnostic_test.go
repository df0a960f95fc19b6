package graph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/pitabwire/util"
	"github.com/stretchr/testify/suite"
)

type DiagnosticSuite struct {
	suite.Suite
}

func TestDiagnosticSuite(t *testing.T) {
	suite.Run(t, new(DiagnosticSuite))
}

type codedTestError struct {
	code   string
	status int
}

func (e codedTestError) Error() string   { return "coded failure" }
func (e codedTestError) Code() string    { return e.code }
func (e codedTestError) StatusCode() int { return e.status }

type exportedFieldsError struct {
	Code   string
	Status int
}

func (e *exportedFieldsError) Error() string { return "exported failure" }

func (s *DiagnosticSuite) TestDiagnoseShapes() {
	testCases := []struct {
		name string
		err  error
		want Diagnostic
	}{
		{
			name: "nil error",
			err:  nil,
			want: Diagnostic{Code: UnknownCode, Message: UnknownMessage},
		},
		{
			name: "plain error",
			err:  errors.New("dial tcp: connection refused"),
			want: Diagnostic{Code: UnknownCode, Message: "dial tcp: connection refused"},
		},
		{
			name: "request error with system block",
			err: &RequestError{Response: ErrorResponse{
				Code: "FORBIDDEN", Status: 403,
				System: &ErrorSystem{Message: "No access", Auth: "HMAC"},
			}},
			want: Diagnostic{Code: "FORBIDDEN", Status: 403, Message: "No access", Auth: "HMAC"},
		},
		{
			name: "wrapped request error without system block",
			err:  fmt.Errorf("fetch footer: %w", &RequestError{Response: ErrorResponse{Status: 502}}),
			want: Diagnostic{Code: UnknownCode, Status: 502, Message: "fetch footer: content graph request failed (502)"},
		},
		{
			name: "error exposing code and status methods",
			err:  codedTestError{code: "TIMEOUT", status: 504},
			want: Diagnostic{Code: "TIMEOUT", Status: 504, Message: "coded failure"},
		},
		{
			name: "error with exported fields",
			err:  &exportedFieldsError{Code: "RATE_LIMITED", Status: 429},
			want: Diagnostic{Code: "RATE_LIMITED", Status: 429, Message: "exported failure"},
		},
		{
			name: "url error",
			err:  &url.Error{Op: "Get", URL: "https://cg.example.com", Err: errors.New("eof")},
			want: Diagnostic{Code: UnknownCode, Message: `Get "https://cg.example.com": eof`},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, Diagnose(tc.err))
		})
	}
}

func (s *DiagnosticSuite) TestString() {
	s.Equal("[Optimizely Graph] [Error] FORBIDDEN (403) No access HMAC",
		Diagnostic{Code: "FORBIDDEN", Status: 403, Message: "No access", Auth: "HMAC"}.String())
	s.Equal("[Optimizely Graph] [Error] UNKNOWN Unknown error",
		Diagnostic{Code: UnknownCode, Message: UnknownMessage}.String())
}

func (s *DiagnosticSuite) TestReportFailureLogsOneLine() {
	buf := &bytes.Buffer{}
	log := util.NewLogger(context.Background(), util.WithLogOutput(buf), util.WithLogNoColor(true))
	ctx := util.ContextWithLogger(context.Background(), log)

	d := ReportFailure(ctx, "getLocales", errors.New("boom"))
	s.Equal(UnknownCode, d.Code)
	s.Equal("boom", d.Message)

	out := buf.String()
	s.Contains(out, "[Optimizely Graph] [Error] UNKNOWN boom")
	s.Contains(out, "getLocales")
}
