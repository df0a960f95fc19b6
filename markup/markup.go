// Package markup builds and inspects golang.org/x/net/html node trees.
package markup

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is shorthand for a namespace free attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Element creates an element node for a, appending the non nil children.
func Element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
	return Append(n, children...)
}

// Text creates a text node. Content is escaped when rendered.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Fragment groups children without adding an element of its own.
func Fragment(children ...*html.Node) *html.Node {
	return Append(&html.Node{Type: html.DocumentNode}, children...)
}

// Append attaches children to parent. Nil children are skipped and detached
// nodes are moved.
func Append(parent *html.Node, children ...*html.Node) *html.Node {
	for _, child := range children {
		if child == nil {
			continue
		}
		if child.Parent != nil {
			child.Parent.RemoveChild(child)
		}
		if child.Type == html.DocumentNode {
			for c := child.FirstChild; c != nil; c = child.FirstChild {
				child.RemoveChild(c)
				parent.AppendChild(c)
			}
			continue
		}
		parent.AppendChild(child)
	}
	return parent
}

// SetAttr replaces or adds the attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, Attr(key, val))
}

// GetAttr returns the value of key on n, empty when absent.
func GetAttr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries key.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Render serialises n. A nil node renders as the empty string.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FindAll returns every node below and including n that matches, in document order.
func FindAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if match(node) {
			found = append(found, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	if n != nil {
		traverse(n)
	}
	return found
}

// Find returns the first match of FindAll, or nil.
func Find(n *html.Node, match func(*html.Node) bool) *html.Node {
	all := FindAll(n, match)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// ByAtom matches elements of type a.
func ByAtom(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

// ByAttr matches elements whose attribute key equals val.
func ByAttr(key, val string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasAttr(n, key) && GetAttr(n, key) == val
	}
}

// TextContent concatenates the text below n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	for _, t := range FindAll(n, func(node *html.Node) bool { return node.Type == html.TextNode }) {
		sb.WriteString(t.Data)
	}
	return sb.String()
}
