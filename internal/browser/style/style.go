// internal/browser/style/style.go
package style

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/tinybrowser/internal/browser/dom"
	"github.com/xkilldash9x/tinybrowser/internal/browser/parser"
)

// DefaultUserAgentCSS gives structural elements block display and hides
// elements that never render.
const DefaultUserAgentCSS = `
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, form, header, footer,
section, article, nav, main, aside, blockquote, pre, table, figure, hr, address, dl, dt, dd {
    display: block;
}

head, script, style, title, meta, link, template, noscript, base {
    display: none;
}
`

// UserAgentSheet parses DefaultUserAgentCSS.
func UserAgentSheet() parser.StyleSheet {
	return parser.NewParser(DefaultUserAgentCSS).Parse()
}

// StyledNode represents a document node combined with its computed styles.
type StyledNode struct {
	Node           dom.NodeID
	ComputedStyles map[parser.Property]parser.Value
	Children       []*StyledNode

	doc *dom.Document
}

// Document returns the arena the node belongs to.
func (sn *StyledNode) Document() *dom.Document { return sn.doc }

func (sn *StyledNode) IsText() bool {
	n := sn.doc.Node(sn.Node)
	return n != nil && n.Kind == dom.TextNode
}

func (sn *StyledNode) Tag() string  { return sn.doc.Tag(sn.Node) }
func (sn *StyledNode) Text() string { return sn.doc.Text(sn.Node) }

// Lookup returns the computed value of property, or fallback when unset.
func (sn *StyledNode) Lookup(property, fallback string) string {
	if val, ok := sn.ComputedStyles[parser.Property(property)]; ok {
		return string(val)
	}
	return fallback
}

// DisplayType is the box-generation mode of a node.
type DisplayType int

const (
	DisplayInline DisplayType = iota
	DisplayBlock
	DisplayNone
)

func (d DisplayType) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayNone:
		return "none"
	default:
		return "inline"
	}
}

// Display maps the display property: "block" and "none" are recognized and
// everything else, including no value, is inline. Text is always inline.
func (sn *StyledNode) Display() DisplayType {
	if sn.IsText() {
		return DisplayInline
	}
	switch sn.Lookup("display", "inline") {
	case "block":
		return DisplayBlock
	case "none":
		return DisplayNone
	default:
		return DisplayInline
	}
}

// -- Style Tree Construction --

// TreeBuilder builds style trees. It holds no per-pass state, so one
// builder can serve concurrent passes.
type TreeBuilder struct {
	logger *zap.Logger
}

// NewTreeBuilder creates a builder. A nil logger disables logging.
func NewTreeBuilder(logger *zap.Logger) *TreeBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeBuilder{logger: logger.Named("style")}
}

// BuildTree builds a style tree with a no-op logger.
func BuildTree(doc *dom.Document, root dom.NodeID, sheet parser.StyleSheet) (*StyledNode, error) {
	return NewTreeBuilder(nil).Build(doc, root, sheet)
}

// Build validates the document, then walks it in pre-order from root with a
// fresh MatchContext. An empty document yields a nil tree and no error.
func (b *TreeBuilder) Build(doc *dom.Document, root dom.NodeID, sheet parser.StyleSheet) (*StyledNode, error) {
	if doc == nil || doc.Len() == 0 {
		return nil, nil
	}
	if doc.Node(root) == nil {
		return nil, fmt.Errorf("style tree root: %w: %d", dom.ErrInvalidNode, root)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("style tree: %w", err)
	}

	mc := NewMatchContext(doc, root)
	count := 0
	tree := b.build(mc, doc, root, sheet, &count)
	b.logger.Debug("Style tree built",
		zap.Int("nodes", count),
		zap.Int("rules", len(sheet.Rules)),
	)
	return tree, nil
}

func (b *TreeBuilder) build(mc *MatchContext, doc *dom.Document, id dom.NodeID, sheet parser.StyleSheet, count *int) *StyledNode {
	*count++
	sn := &StyledNode{Node: id, doc: doc}
	if !doc.IsElement(id) {
		sn.ComputedStyles = map[parser.Property]parser.Value{}
		return sn
	}
	sn.ComputedStyles = ComputeStyle(mc, id, sheet)
	for _, child := range doc.Children(id) {
		sn.Children = append(sn.Children, b.build(mc, doc, child, sheet, count))
	}
	return sn
}
