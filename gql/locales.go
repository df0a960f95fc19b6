package gql

import "strings"

// Locales is a value of the content graph locale enum.
type Locales string

const (
	LocalesALL     Locales = "ALL"
	LocalesNEUTRAL Locales = "NEUTRAL"
)

// IsSystem reports whether l is one of the pseudo values ALL or NEUTRAL.
func (l Locales) IsSystem() bool {
	return l == LocalesALL || l == LocalesNEUTRAL
}

// LocaleToGraphLocale maps a site locale such as "en-US" to its enum value "en_US".
// An empty locale maps to ALL.
func LocaleToGraphLocale(locale string) Locales {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return LocalesALL
	}
	return Locales(strings.ReplaceAll(locale, "-", "_"))
}
