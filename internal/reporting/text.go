// internal/reporting/text.go
package reporting

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/xkilldash9x/tinybrowser/api/schemas"
)

// TextReporter writes each snapshot as an indented box tree.
type TextReporter struct {
	mu     sync.Mutex
	writer io.WriteCloser
	closed bool
}

func NewTextReporter(writer io.WriteCloser) *TextReporter {
	return &TextReporter{writer: writer}
}

func (r *TextReporter) Write(snapshot *schemas.LayoutSnapshot) error {
	if snapshot == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	w := bufio.NewWriter(r.writer)
	fmt.Fprintf(w, "pass %s", snapshot.PassID)
	if snapshot.Source != "" {
		fmt.Fprintf(w, " (%s)", snapshot.Source)
	}
	fmt.Fprintf(w, " viewport %sx%s boxes=%d\n",
		num(snapshot.Viewport.Width), num(snapshot.Viewport.Height), snapshot.Count())
	if snapshot.Root != nil {
		writeBox(w, snapshot.Root, 1)
	}
	return w.Flush()
}

func (r *TextReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.writer.Close()
}

func writeBox(w *bufio.Writer, b *schemas.BoxSnapshot, depth int) {
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(b.Type.String())
	switch {
	case b.Text != "":
		fmt.Fprintf(w, " %q", b.Text)
	case b.Tag != "":
		w.WriteString(" <" + b.Tag + ">")
	}
	c := b.Content
	fmt.Fprintf(w, " x=%s y=%s w=%s h=%s", num(c.X), num(c.Y), num(c.Width), num(c.Height))
	if !zeroEdges(b.Margin) {
		w.WriteString(" margin=" + edges(b.Margin))
	}
	if !zeroEdges(b.Border) {
		w.WriteString(" border=" + edges(b.Border))
	}
	if !zeroEdges(b.Padding) {
		w.WriteString(" padding=" + edges(b.Padding))
	}
	if len(b.Styles) > 0 {
		keys := make([]string, 0, len(b.Styles))
		for k := range b.Styles {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		decls := make([]string, len(keys))
		for i, k := range keys {
			decls[i] = k + ": " + b.Styles[k]
		}
		w.WriteString(" {" + strings.Join(decls, "; ") + "}")
	}
	w.WriteByte('\n')

	for _, child := range b.Children {
		writeBox(w, child, depth+1)
	}
}

func zeroEdges(e schemas.Edges) bool {
	return e == schemas.Edges{}
}

func edges(e schemas.Edges) string {
	return num(e.Top) + "," + num(e.Right) + "," + num(e.Bottom) + "," + num(e.Left)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
