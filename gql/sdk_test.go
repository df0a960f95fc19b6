package gql_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/moseybank/sitelayout/gql"
)

type recordedRequest struct {
	operation string
	variables map[string]any
}

type fakeClient struct {
	response string
	err      error
	requests []recordedRequest
}

func (f *fakeClient) Request(_ context.Context, operation, _ string, variables map[string]any, out any) error {
	f.requests = append(f.requests, recordedRequest{operation: operation, variables: variables})
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}

func (f *fakeClient) Endpoint() string { return "fake://graph" }

type SdkSuite struct {
	suite.Suite
}

func TestSdkSuite(t *testing.T) {
	suite.Run(t, new(SdkSuite))
}

func (s *SdkSuite) TestLocaleToGraphLocale() {
	testCases := []struct {
		in   string
		want gql.Locales
	}{
		{"", gql.LocalesALL},
		{"  ", gql.LocalesALL},
		{"en", "en"},
		{"en-US", "en_US"},
		{"zh-Hant-TW", "zh_Hant_TW"},
	}
	for _, tc := range testCases {
		s.Run(tc.in, func() {
			s.Equal(tc.want, gql.LocaleToGraphLocale(tc.in))
		})
	}
	s.True(gql.LocalesNEUTRAL.IsSystem())
	s.False(gql.Locales("fr").IsSystem())
}

func (s *SdkSuite) TestGetFooterData() {
	fc := &fakeClient{response: `{
		"appLayout": {"items": [{
			"contactInfoHeading": "Contact",
			"contactInfo": {"json": {"type": "richText", "children": []}},
			"footerMenus": [{"__typename": "MegaMenuGroupBlock", "_metadata": {"key": "m1"}, "menuName": "Bank"}],
			"copyright": "2026 Moseybank",
			"legalLinks": [{"text": "Privacy", "url": {"default": "/privacy"}}, null]
		}]}
	}`}

	res, err := gql.GetSdk(fc).GetFooterData(context.Background(), gql.GetFooterDataVariables{Locale: "fr"})
	s.Require().NoError(err)

	s.Require().Len(fc.requests, 1)
	s.Equal("getFooterData", fc.requests[0].operation)
	s.Equal(gql.Locales("fr"), fc.requests[0].variables["locale"])

	footer := res.Footer()
	s.Require().NotNil(footer)
	s.Equal("Contact", *footer.ContactInfoHeading)
	s.Equal("2026 Moseybank", *footer.Copyright)
	s.Require().Len(footer.FooterMenus, 1)
	s.Equal("MegaMenuGroupBlock", footer.FooterMenus[0].TypeName)
	s.Equal("m1", footer.FooterMenus[0].Key)
	s.Contains(string(footer.FooterMenus[0].Data), "menuName")
	s.Require().Len(footer.LegalLinks, 2)
	s.Equal("/privacy", *footer.LegalLinks[0].URL.Default)
	s.Nil(footer.LegalLinks[1])
}

func (s *SdkSuite) TestGetFooterDataDefaultsToAllLocales() {
	fc := &fakeClient{response: `{"appLayout": {"items": []}}`}

	res, err := gql.GetSdk(fc).GetFooterData(context.Background(), gql.GetFooterDataVariables{})
	s.Require().NoError(err)
	s.Nil(res.Footer())
	s.Equal(gql.LocalesALL, fc.requests[0].variables["locale"])
}

func (s *SdkSuite) TestErrorsPassThrough() {
	boom := errors.New("boom")
	fc := &fakeClient{err: boom}

	_, err := gql.GetSdk(fc).GetFooterData(context.Background(), gql.GetFooterDataVariables{})
	s.ErrorIs(err, boom)

	_, err = gql.GetSdk(fc).GetLocales(context.Background())
	s.ErrorIs(err, boom)
}

func (s *SdkSuite) TestLocaleEnumValues() {
	fc := &fakeClient{response: `{"__schema": {"types": [
		{"kind": "ENUM", "name": "Locales", "enumValues": [{"name": "en"}, {"name": "ALL"}]},
		{"kind": "OBJECT", "name": "FakeLocales", "enumValues": [{"name": "xx"}]},
		{"kind": "ENUM", "name": "ContentLocales", "enumValues": [{"name": "en"}, {"name": "fr"}]},
		{"kind": "ENUM", "name": "OrderBy", "enumValues": [{"name": "ASC"}]}
	]}}`}

	res, err := gql.GetSdk(fc).GetLocales(context.Background())
	s.Require().NoError(err)
	s.Equal("getLocales", fc.requests[0].operation)
	s.Equal([]string{"en", "ALL", "en", "fr"}, res.LocaleEnumValues())

	var empty *gql.GetLocalesQuery
	s.Nil(empty.LocaleEnumValues())
}
