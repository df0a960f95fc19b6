package locales

import (
	"context"

	"github.com/rs/xid"
)

// ProcessScope is used when no request scope is present in the context.
const ProcessScope = "process"

type contextKey string

func (c contextKey) String() string {
	return "sitelayout/locales/" + string(c)
}

const ctxKeyScope = contextKey("scopeKey")

// WithRequestScope starts a new cache scope for one request. Locale lists
// resolved with the returned context are shared only within that request.
func WithRequestScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyScope, "req-"+xid.New().String())
}

// ScopeFromContext returns the cache scope of ctx.
func ScopeFromContext(ctx context.Context) string {
	scope, ok := ctx.Value(ctxKeyScope).(string)
	if !ok || scope == "" {
		return ProcessScope
	}
	return scope
}

// IsRequestScoped reports whether ctx carries a request scope.
func IsRequestScoped(ctx context.Context) bool {
	return ScopeFromContext(ctx) != ProcessScope
}
