package gql

import "encoding/json"

// RichTextField holds a rich text document as returned by the graph.
type RichTextField struct {
	JSON json.RawMessage `json:"json"`
	HTML string          `json:"html,omitempty"`
}

// ContentItem is one block of a content area; Data keeps the full block.
type ContentItem struct {
	TypeName string          `json:"__typename"`
	Key      string          `json:"key,omitempty"`
	Data     json.RawMessage `json:"-"`
}

func (c *ContentItem) UnmarshalJSON(data []byte) error {
	var head struct {
		TypeName string `json:"__typename"`
		Meta     *struct {
			Key string `json:"key"`
		} `json:"_metadata"`
		Key string `json:"key"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	c.TypeName = head.TypeName
	c.Key = head.Key
	if c.Key == "" && head.Meta != nil {
		c.Key = head.Meta.Key
	}
	c.Data = append(json.RawMessage(nil), data...)
	return nil
}

func (c ContentItem) MarshalJSON() ([]byte, error) {
	if len(c.Data) > 0 {
		return c.Data, nil
	}
	type plain ContentItem
	return json.Marshal(plain(c))
}

// LinkItem is a CMS link as exposed on legal links and menus.
type LinkItem struct {
	Text   *string `json:"text,omitempty"`
	Title  *string `json:"title,omitempty"`
	Target *string `json:"target,omitempty"`
	URL    *URL    `json:"url,omitempty"`
}

// URL is the graph's content url object.
type URL struct {
	Base    *string `json:"base,omitempty"`
	Default *string `json:"default,omitempty"`
}

// FooterData is the footer part of the application layout.
type FooterData struct {
	ContactInfoHeading *string        `json:"contactInfoHeading,omitempty"`
	ContactInfo        *RichTextField `json:"contactInfo,omitempty"`
	FooterMenus        []ContentItem  `json:"footerMenus,omitempty"`
	Copyright          *string        `json:"copyright,omitempty"`
	LegalLinks         []*LinkItem    `json:"legalLinks,omitempty"`
}

type GetFooterDataVariables struct {
	Locale Locales `json:"locale"`
}

type GetFooterDataQuery struct {
	AppLayout *struct {
		Items []*FooterData `json:"items"`
	} `json:"appLayout"`
}

// Footer returns the first layout item, nil when there is none.
func (q *GetFooterDataQuery) Footer() *FooterData {
	if q == nil || q.AppLayout == nil || len(q.AppLayout.Items) == 0 {
		return nil
	}
	return q.AppLayout.Items[0]
}

// SchemaType is one entry of the introspected schema.
type SchemaType struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	EnumValues []struct {
		Name string `json:"name"`
	} `json:"enumValues"`
}

type GetLocalesQuery struct {
	Schema *struct {
		Types []SchemaType `json:"types"`
	} `json:"__schema"`
}
