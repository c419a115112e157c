// internal/browser/dom/html.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// FromHTML parses markup with x/net/html and converts the result into an
// arena document rooted at the <html> element. Comments, doctypes and
// whitespace-only text are dropped.
func FromHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromNode(root), nil
}

// FromNode converts an already parsed tree. When n is a document node its
// first element child becomes the root.
func FromNode(n *html.Node) *Document {
	d := NewDocument()
	d.sources = make(map[*html.Node]NodeID)
	d.html = n
	for n != nil && n.Type == html.DocumentNode {
		var first *html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				first = c
				break
			}
		}
		n = first
	}
	if n == nil {
		return d
	}
	d.convert(n, InvalidNode)
	return d
}

func (d *Document) convert(n *html.Node, parent NodeID) {
	var id NodeID
	switch n.Type {
	case html.ElementNode:
		attrs := make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			attrs[a.Key] = a.Val
		}
		id = d.NewElement(strings.ToLower(n.Data), attrs)
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return
		}
		id = d.NewText(n.Data)
	default:
		return
	}
	d.nodes[id].source = n
	d.sources[n] = id
	if parent != InvalidNode {
		// Both ids were just allocated by this converter.
		_ = d.AppendChild(parent, id)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.convert(c, id)
	}
}

// CollectStyleText returns the text content of every <style> element in
// document order.
func CollectStyleText(d *Document) []string {
	var out []string
	d.Walk(d.Root(), func(id NodeID) bool {
		if d.Tag(id) != "style" {
			return true
		}
		var sb strings.Builder
		for _, c := range d.Children(id) {
			if n := d.Node(c); n != nil && n.Kind == TextNode {
				sb.WriteString(n.Text)
			}
		}
		if sb.Len() > 0 {
			out = append(out, sb.String())
		}
		return false
	})
	return out
}
