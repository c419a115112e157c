// internal/browser/layout/box.go
package layout

import (
	"github.com/xkilldash9x/tinybrowser/internal/browser/dom"
	"github.com/xkilldash9x/tinybrowser/internal/browser/style"
)

// -- Core Structures: Box Model and Dimensions --

// Dimensions defines the geometry of a layout box.
type Dimensions struct {
	// Content area (x, y) relative to the viewport.
	Content Rect

	Padding Edges
	Border  Edges
	Margin  Edges
}

// MarginBox returns the rectangle enclosing the margin area.
func (d Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// BorderBox returns the rectangle enclosing the border area.
func (d Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// PaddingBox returns the rectangle enclosing the padding area.
func (d Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

type Rect struct {
	X, Y, Width, Height float64
}

// ExpandedBy returns a new rectangle expanded by the edge sizes.
func (r Rect) ExpandedBy(e Edges) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

type Edges struct {
	Top, Right, Bottom, Left float64
}

// -- Layout Tree (Box Tree) --

// BoxType defines the type of box generated by a node.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	// AnonymousBlockBox wraps runs of inline content inside a block. It
	// never holds a styled node.
	AnonymousBlockBox
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	default:
		return "anonymous"
	}
}

// LayoutBox is a node in the Layout Tree.
type LayoutBox struct {
	Dimensions Dimensions
	BoxType    BoxType
	StyledNode *style.StyledNode
	Children   []*LayoutBox
}

func NewLayoutBox(boxType BoxType, styledNode *style.StyledNode) *LayoutBox {
	if boxType == AnonymousBlockBox {
		styledNode = nil
	}
	return &LayoutBox{
		BoxType:    boxType,
		StyledNode: styledNode,
	}
}

// IsBlockLevel checks if the box stacks vertically in its parent.
func (b *LayoutBox) IsBlockLevel() bool {
	return b.BoxType == BlockBox || b.BoxType == AnonymousBlockBox
}

// GetInlineContainer returns the box inline children should be appended to.
// Inline and anonymous boxes hold inline content directly. A block reuses
// its trailing anonymous block, or appends a fresh one.
func (b *LayoutBox) GetInlineContainer() *LayoutBox {
	switch b.BoxType {
	case InlineBox, AnonymousBlockBox:
		return b
	default:
		if n := len(b.Children); n > 0 {
			if last := b.Children[n-1]; last.BoxType == AnonymousBlockBox {
				return last
			}
		}
		anon := NewLayoutBox(AnonymousBlockBox, nil)
		b.Children = append(b.Children, anon)
		return anon
	}
}

// Node returns the document node the box was generated for, or
// dom.InvalidNode for anonymous boxes.
func (b *LayoutBox) Node() dom.NodeID {
	if b.StyledNode == nil {
		return dom.InvalidNode
	}
	return b.StyledNode.Node
}

// Document returns the arena the tree was built from. Anonymous boxes are
// resolved through their first styled descendant.
func (b *LayoutBox) Document() *dom.Document {
	if b.StyledNode != nil {
		return b.StyledNode.Document()
	}
	for _, c := range b.Children {
		if d := c.Document(); d != nil {
			return d
		}
	}
	return nil
}

// FindBox returns the box generated for node in the subtree rooted at b.
func (b *LayoutBox) FindBox(node dom.NodeID) *LayoutBox {
	if b == nil {
		return nil
	}
	if b.StyledNode != nil && b.StyledNode.Node == node {
		return b
	}
	for _, child := range b.Children {
		if found := child.FindBox(node); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits the subtree in pre-order.
func (b *LayoutBox) Walk(fn func(*LayoutBox)) {
	if b == nil {
		return
	}
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}
