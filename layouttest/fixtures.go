package layouttest

import (
	"encoding/json"
)

const (
	OperationFooter  = "getFooterData"
	OperationLocales = "getLocales"
)

// FooterResponse is a complete layout with one menu group and two legal
// links around a null entry.
const FooterResponse = `{"data": {"appLayout": {"items": [{
	"contactInfoHeading": "Get in touch",
	"contactInfo": {"json": {"type": "richText", "children": [
		{"type": "paragraph", "children": [{"text": "Call 0800 MOSEY"}]}
	]}},
	"footerMenus": [{
		"__typename": "MegaMenuGroupBlock",
		"_metadata": {"key": "menu-1"},
		"menuName": "Banking",
		"menuData": [{"__typename": "MenuNavigationBlock", "title": "Accounts",
			"items": [{"text": "Savings", "url": {"default": "/savings"}}]}]
	}],
	"copyright": "© 2026 Moseybank",
	"legalLinks": [
		{"text": "Privacy", "url": {"default": "/privacy"}},
		null,
		{"text": "Cookies", "target": "_blank", "url": {"default": "/cookies"}}
	]
}]}}}`

// LocalesResponse answers the schema introspection with one Locales enum
// holding ALL, NEUTRAL and values.
func LocalesResponse(values ...string) string {
	type enumValue struct {
		Name string `json:"name"`
	}
	enum := []enumValue{{Name: "ALL"}, {Name: "NEUTRAL"}}
	for _, v := range values {
		enum = append(enum, enumValue{Name: v})
	}

	doc := map[string]any{
		"data": map[string]any{
			"__schema": map[string]any{
				"types": []map[string]any{
					{"kind": "ENUM", "name": "Locales", "enumValues": enum},
					{"kind": "OBJECT", "name": "Query", "enumValues": nil},
				},
			},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// AuthFailure is the gateway reply for a rejected key.
const AuthFailure = `{"code":"AUTHENTICATION_ERROR","status":401,"system":{"message":"Invalid single key","auth":"epi-single"}}`
