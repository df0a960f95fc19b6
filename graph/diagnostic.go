package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pitabwire/util"

	"github.com/moseybank/sitelayout/telemetry"
)

const (
	UnknownCode    = "UNKNOWN"
	UnknownMessage = "Unknown error"
)

// Diagnostic is the fixed shape logged for a failed graph fetch.
type Diagnostic struct {
	Code    string
	Status  int
	Message string
	Auth    string
}

type fieldPath []string

// Candidate locations, most specific first.
//
//nolint:gochecknoglobals // read only lookup tables
var (
	codePaths    = []fieldPath{{"response", "code"}, {"code"}}
	statusPaths  = []fieldPath{{"response", "status"}, {"status"}}
	messagePaths = []fieldPath{{"response", "system", "message"}, {"message"}}
	authPaths    = []fieldPath{{"response", "system", "auth"}}
)

// Diagnose extracts a Diagnostic from any error shape. Missing fields take
// their defaults and the function never panics.
func Diagnose(err error) Diagnostic {
	doc := errorDocument(err)

	d := Diagnostic{
		Code:    UnknownCode,
		Message: UnknownMessage,
	}
	if v, ok := lookupString(doc, codePaths); ok {
		d.Code = v
	}
	if v, ok := lookupInt(doc, statusPaths); ok {
		d.Status = v
	}
	if v, ok := lookupString(doc, messagePaths); ok {
		d.Message = v
	}
	if v, ok := lookupString(doc, authPaths); ok {
		d.Auth = v
	}
	return d
}

// String renders the diagnostic as a single log line.
func (d Diagnostic) String() string {
	status := ""
	if d.Status != 0 {
		status = fmt.Sprintf(" (%d)", d.Status)
	}
	return strings.TrimSpace(fmt.Sprintf("[Optimizely Graph] [Error] %s%s %s %s", d.Code, status, d.Message, d.Auth))
}

//nolint:gochecknoglobals // instrument is created once the meter provider is configured
var failureCounter = sync.OnceValue(func() telemetry.FailureCounter {
	return telemetry.NewFailureCounter(telemetry.GraphPackage)
})

// ReportFailure logs one structured line for a failed fetch and counts it.
func ReportFailure(ctx context.Context, operation string, err error) Diagnostic {
	d := Diagnose(err)

	util.Log(ctx).WithFields(map[string]any{
		"operation": operation,
		"code":      d.Code,
		"status":    d.Status,
		"auth":      d.Auth,
	}).WithError(err).Error(d.String())

	failureCounter().Add(ctx, operation, d.Code)
	return d
}

// codedError and statusError let foreign error types expose their details.
type codedError interface{ Code() string }

type statusError interface{ StatusCode() int }

// errorDocument turns err into a generic document the field paths are
// evaluated against.
func errorDocument(err error) map[string]any {
	doc := map[string]any{}
	if err == nil {
		return doc
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		mergeJSON(doc, reqErr)
	} else {
		mergeJSON(doc, err)
	}

	var ce codedError
	if errors.As(err, &ce) && ce.Code() != "" {
		setIfAbsent(doc, "code", ce.Code())
	}
	var se statusError
	if errors.As(err, &se) && se.StatusCode() != 0 {
		setIfAbsent(doc, "status", se.StatusCode())
	}
	setIfAbsent(doc, "message", err.Error())

	return doc
}

func mergeJSON(doc map[string]any, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	var fields map[string]any
	if json.Unmarshal(data, &fields) != nil {
		return
	}
	for k, val := range fields {
		doc[k] = val
	}
}

func setIfAbsent(doc map[string]any, key string, value any) {
	if _, ok := field(doc, key); !ok {
		doc[key] = value
	}
}

// field looks key up case-insensitively, exported struct fields marshal capitalised.
func field(doc map[string]any, key string) (any, bool) {
	if v, ok := doc[key]; ok && v != nil {
		return v, true
	}
	for k, v := range doc {
		if strings.EqualFold(k, key) && v != nil {
			return v, true
		}
	}
	return nil, false
}

func resolve(doc map[string]any, path fieldPath) (any, bool) {
	var current any = doc
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = field(m, key); !ok {
			return nil, false
		}
	}
	return current, true
}

func lookupString(doc map[string]any, paths []fieldPath) (string, bool) {
	for _, p := range paths {
		v, ok := resolve(doc, p)
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s, true
			}
		case float64, int:
			return fmt.Sprint(s), true
		}
	}
	return "", false
}

func lookupInt(doc map[string]any, paths []fieldPath) (int, bool) {
	for _, p := range paths {
		v, ok := resolve(doc, p)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n != 0 {
				return int(n), true
			}
		case int:
			if n != 0 {
				return n, true
			}
		}
	}
	return 0, false
}
