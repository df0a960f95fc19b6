package gql

import (
	"context"
	"strings"

	"github.com/moseybank/sitelayout/graph"
)

const getFooterDataDocument = `query getFooterData($locale: [Locales]) {
  appLayout: LayoutSettingsBlock(locale: $locale, limit: 1) {
    items {
      contactInfoHeading
      contactInfo { json }
      footerMenus {
        __typename
        _metadata { key }
        ... on MegaMenuGroupBlock {
          menuName
          menuData {
            __typename
            ... on MenuNavigationBlock {
              title
              items { url { base default } text title target }
            }
          }
        }
      }
      copyright
      legalLinks { url { base default } text title target }
    }
  }
}`

const getLocalesDocument = `query getLocales {
  __schema {
    types {
      kind
      name
      enumValues { name }
    }
  }
}`

// Sdk exposes the named queries of the layout.
type Sdk struct {
	client graph.Client
}

// GetSdk binds the queries to client.
func GetSdk(client graph.Client) *Sdk {
	return &Sdk{client: client}
}

func (s *Sdk) GetFooterData(ctx context.Context, vars GetFooterDataVariables) (*GetFooterDataQuery, error) {
	locale := vars.Locale
	if locale == "" {
		locale = LocalesALL
	}

	out := &GetFooterDataQuery{}
	err := s.client.Request(ctx, "getFooterData", getFooterDataDocument,
		map[string]any{"locale": locale}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Sdk) GetLocales(ctx context.Context) (*GetLocalesQuery, error) {
	out := &GetLocalesQuery{}
	if err := s.client.Request(ctx, "getLocales", getLocalesDocument, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// LocaleEnumValues lists the value names of every ENUM type whose name ends in
// "Locales", in schema order and with duplicates.
func (q *GetLocalesQuery) LocaleEnumValues() []string {
	if q == nil || q.Schema == nil {
		return nil
	}

	var values []string
	for _, t := range q.Schema.Types {
		if t.Kind != "ENUM" || !strings.HasSuffix(t.Name, "Locales") {
			continue
		}
		for _, v := range t.EnumValues {
			values = append(values, v.Name)
		}
	}
	return values
}
