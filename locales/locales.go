package locales

import (
	"github.com/moseybank/sitelayout/gql"
)

// Dedupe drops repeated values, keeping the first occurrence of each.
func Dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// WithoutSystem drops the ALL and NEUTRAL pseudo locales.
func WithoutSystem(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if gql.Locales(v).IsSystem() {
			continue
		}
		out = append(out, v)
	}
	return out
}

// FromSchema derives the locale list from an introspection result.
func FromSchema(q *gql.GetLocalesQuery, includeSystem bool) []string {
	values := Dedupe(q.LocaleEnumValues())
	if includeSystem {
		return values
	}
	return WithoutSystem(values)
}
