package components

import (
	"hash/fnv"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moseybank/sitelayout/gql"
	"github.com/moseybank/sitelayout/markup"
)

// Href resolves the address of link, preferring the default url over the base.
func Href(link *gql.LinkItem) string {
	if link == nil || link.URL == nil {
		return ""
	}
	if link.URL.Default != nil && *link.URL.Default != "" {
		return *link.URL.Default
	}
	if link.URL.Base != nil {
		return *link.URL.Base
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListKey derives a stable key for link, usable to tell list items apart.
func ListKey(link *gql.LinkItem) string {
	if link == nil {
		return "link-nil"
	}

	h := fnv.New64a()
	for _, part := range []string{Href(link), deref(link.Text), deref(link.Title), deref(link.Target)} {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	return "link-" + strconv.FormatUint(h.Sum64(), 36)
}

// CmsLink renders link as an anchor. The link text is used when no children
// are given.
func CmsLink(link *gql.LinkItem, class string, children ...*html.Node) *html.Node {
	if link == nil {
		return nil
	}

	attrs := []html.Attribute{markup.Attr("href", Href(link))}
	if class != "" {
		attrs = append(attrs, markup.Attr("class", class))
	}
	if title := deref(link.Title); title != "" {
		attrs = append(attrs, markup.Attr("title", title))
	}
	if target := deref(link.Target); target != "" {
		attrs = append(attrs, markup.Attr("target", target))
		if strings.EqualFold(target, "_blank") {
			attrs = append(attrs, markup.Attr("rel", "noopener noreferrer"))
		}
	}

	if len(children) == 0 {
		text := deref(link.Text)
		if text == "" {
			text = Href(link)
		}
		children = []*html.Node{markup.Text(text)}
	}

	return markup.Element(atom.A, attrs, children...)
}
