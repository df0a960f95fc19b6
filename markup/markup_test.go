package markup_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moseybank/sitelayout/markup"
)

type MarkupSuite struct {
	suite.Suite
}

func TestMarkupSuite(t *testing.T) {
	suite.Run(t, new(MarkupSuite))
}

func (s *MarkupSuite) TestRenderEscapesText() {
	n := markup.Element(atom.P, []html.Attribute{markup.Attr("class", "copy")},
		markup.Text("&copy; Optimizely"), nil)

	out, err := markup.Render(n)
	s.Require().NoError(err)
	s.Equal(`<p class="copy">&amp;copy; Optimizely</p>`, out)
	s.Equal("&copy; Optimizely", markup.TextContent(n))

	out, err = markup.Render(nil)
	s.Require().NoError(err)
	s.Empty(out)
}

func (s *MarkupSuite) TestFragmentChildrenAreSpliced() {
	list := markup.Element(atom.Ul, nil,
		markup.Fragment(
			markup.Element(atom.Li, nil, markup.Text("a")),
			markup.Element(atom.Li, nil, markup.Text("b")),
		),
		markup.Element(atom.Li, nil, markup.Text("c")),
	)

	items := markup.FindAll(list, markup.ByAtom(atom.Li))
	s.Require().Len(items, 3)
	s.Equal("abc", markup.TextContent(list))
	for _, item := range items {
		s.Same(list, item.Parent)
	}
}

func (s *MarkupSuite) TestAttributes() {
	n := markup.Element(atom.Div, nil)
	s.False(markup.HasAttr(n, "data-component"))

	markup.SetAttr(n, "data-component", "LanguagePicker")
	markup.SetAttr(n, "class", "a")
	markup.SetAttr(n, "class", "b")

	s.Len(n.Attr, 2)
	s.Equal("b", markup.GetAttr(n, "class"))
	s.Same(n, markup.Find(n, markup.ByAttr("data-component", "LanguagePicker")))
	s.Nil(markup.Find(n, markup.ByAtom(atom.Span)))
	s.Empty(markup.GetAttr(nil, "class"))
}

func (s *MarkupSuite) TestAppendMovesAttachedNodes() {
	child := markup.Element(atom.Span, nil)
	first := markup.Element(atom.Div, nil, child)
	second := markup.Element(atom.Div, nil, child)

	s.Nil(first.FirstChild)
	s.Same(second, child.Parent)
}
