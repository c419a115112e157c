// internal/reporting/xml.go
package reporting

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/tinybrowser/api/schemas"
)

// XMLReporter collects snapshots into a single <layouts> document that is
// written out on Close.
type XMLReporter struct {
	mu     sync.Mutex
	writer io.WriteCloser
	doc    *etree.Document
	root   *etree.Element
	closed bool
}

func NewXMLReporter(writer io.WriteCloser) *XMLReporter {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return &XMLReporter{
		writer: writer,
		doc:    doc,
		root:   doc.CreateElement("layouts"),
	}
}

func (r *XMLReporter) Write(snapshot *schemas.LayoutSnapshot) error {
	if snapshot == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	el := r.root.CreateElement("layout")
	el.CreateAttr("pass-id", snapshot.PassID)
	if snapshot.Source != "" {
		el.CreateAttr("source", snapshot.Source)
	}
	if !snapshot.CreatedAt.IsZero() {
		el.CreateAttr("created-at", snapshot.CreatedAt.UTC().Format(time.RFC3339Nano))
	}
	vp := el.CreateElement("viewport")
	vp.CreateAttr("width", num(snapshot.Viewport.Width))
	vp.CreateAttr("height", num(snapshot.Viewport.Height))
	if snapshot.Root != nil {
		appendBox(el, snapshot.Root)
	}
	return nil
}

// Close writes the document and closes the underlying writer.
func (r *XMLReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	r.doc.Indent(2)
	if _, err := r.doc.WriteTo(r.writer); err != nil {
		r.writer.Close()
		return fmt.Errorf("failed to write xml report: %w", err)
	}
	return r.writer.Close()
}

func appendBox(parent *etree.Element, b *schemas.BoxSnapshot) {
	el := parent.CreateElement("box")
	el.CreateAttr("type", b.Type.String())
	if b.Tag != "" {
		el.CreateAttr("tag", b.Tag)
	}
	if b.XPath != "" {
		el.CreateAttr("xpath", b.XPath)
	}

	content := el.CreateElement("content")
	content.CreateAttr("x", num(b.Content.X))
	content.CreateAttr("y", num(b.Content.Y))
	content.CreateAttr("width", num(b.Content.Width))
	content.CreateAttr("height", num(b.Content.Height))
	appendEdges(el, "padding", b.Padding)
	appendEdges(el, "border", b.Border)
	appendEdges(el, "margin", b.Margin)

	if len(b.Styles) > 0 {
		keys := make([]string, 0, len(b.Styles))
		for k := range b.Styles {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		styles := el.CreateElement("styles")
		for _, k := range keys {
			decl := styles.CreateElement("declaration")
			decl.CreateAttr("property", k)
			decl.CreateAttr("value", b.Styles[k])
		}
	}
	if b.Text != "" {
		el.CreateElement("text").SetText(b.Text)
	}
	for _, child := range b.Children {
		appendBox(el, child)
	}
}

func appendEdges(parent *etree.Element, name string, e schemas.Edges) {
	if zeroEdges(e) {
		return
	}
	el := parent.CreateElement(name)
	el.CreateAttr("top", num(e.Top))
	el.CreateAttr("right", num(e.Right))
	el.CreateAttr("bottom", num(e.Bottom))
	el.CreateAttr("left", num(e.Left))
}
