// internal/browser/layout/layout.go
package layout

import (
	"math"

	"go.uber.org/zap"

	"github.com/xkilldash9x/tinybrowser/internal/browser/style"
)

// -- Engine Core --

type Engine struct {
	viewportWidth  float64
	viewportHeight float64
	logger         *zap.Logger
}

// NewEngine creates a layout engine for the given viewport. A nil logger
// disables logging.
func NewEngine(viewportWidth, viewportHeight float64, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		viewportWidth:  viewportWidth,
		viewportHeight: viewportHeight,
		logger:         logger.Named("layout"),
	}
}

// InitialContainingBlock is the rectangle the root box is laid out against.
func (e *Engine) InitialContainingBlock() Dimensions {
	return Dimensions{Content: Rect{X: 0, Y: 0, Width: e.viewportWidth, Height: e.viewportHeight}}
}

// BuildAndLayoutTree builds the box tree for styleRoot and lays it out
// against the viewport.
func (e *Engine) BuildAndLayoutTree(styleRoot *style.StyledNode) *LayoutBox {
	if styleRoot == nil {
		return nil
	}

	layoutTree := BuildLayoutTree(styleRoot)
	if layoutTree == nil {
		e.logger.Debug("Root generates no box", zap.Stringer("display", styleRoot.Display()))
		return nil
	}

	layoutTree.Layout(e.InitialContainingBlock())

	boxes := 0
	layoutTree.Walk(func(*LayoutBox) { boxes++ })
	e.logger.Debug("Layout complete",
		zap.Int("boxes", boxes),
		zap.Float64("height", layoutTree.Dimensions.MarginBox().Height),
	)
	return layoutTree
}

// -- Layout Algorithm --

// Layout calculates the dimensions and position of the box and its
// subtree, placing it as the first in-flow child of containing. Any
// previous result is discarded, so repeated calls give the same geometry.
func (b *LayoutBox) Layout(containing Dimensions) {
	b.layout(containing.Content, 0)
}

// layout places the box offset pixels below the top of the containing
// block's content area.
func (b *LayoutBox) layout(cb Rect, offset float64) {
	b.Dimensions = Dimensions{}
	switch b.BoxType {
	case BlockBox:
		b.layoutBlock(cb, offset)
	case AnonymousBlockBox:
		b.layoutAnonymous(cb, offset)
	case InlineBox:
		b.layoutInline(cb, offset)
	}
}

func (b *LayoutBox) layoutBlock(cb Rect, offset float64) {
	b.calculateBlockWidth(cb.Width)
	b.calculateBlockPosition(cb, offset)

	height, explicit := b.explicitHeight(cb.Height)
	if explicit {
		b.Dimensions.Content.Height = height
	}
	childrenHeight := b.layoutChildren(b.Dimensions.Content)
	if !explicit {
		b.Dimensions.Content.Height = childrenHeight
	}
}

func (b *LayoutBox) layoutAnonymous(cb Rect, offset float64) {
	d := &b.Dimensions
	d.Content.X = cb.X
	d.Content.Y = cb.Y + offset
	d.Content.Width = cb.Width
	d.Content.Height = b.layoutChildren(d.Content)
}

// layoutInline positions the box at the running offset with zero width.
// Its children are stacked from its y against the containing block.
func (b *LayoutBox) layoutInline(cb Rect, offset float64) {
	d := &b.Dimensions
	d.Content.X = cb.X
	d.Content.Y = cb.Y + offset
	d.Content.Height = b.layoutChildren(Rect{X: cb.X, Y: d.Content.Y, Width: cb.Width, Height: cb.Height})
}

// layoutChildren stacks the children vertically inside container and
// returns the sum of their margin-box heights.
func (b *LayoutBox) layoutChildren(container Rect) float64 {
	offset := 0.0
	for _, child := range b.Children {
		child.layout(container, offset)
		offset += child.Dimensions.MarginBox().Height
	}
	return offset
}

// calculateBlockWidth resolves width, horizontal margins, padding and
// borders. The margin box fills the containing width except when width and
// both margins are auto, where the content alone takes that width.
func (b *LayoutBox) calculateBlockWidth(containingWidth float64) {
	sn := b.StyledNode
	if sn == nil {
		return
	}

	width := style.Auto
	if l, ok := sn.Resolve("width"); ok && !isNegative(l) {
		width = l
	}
	marginLeft := resolveEdge(sn, "margin", style.SideLeft)
	marginRight := resolveEdge(sn, "margin", style.SideRight)

	d := &b.Dimensions
	d.Padding.Left = nonNegative(resolveEdge(sn, "padding", style.SideLeft).ToPx(containingWidth))
	d.Padding.Right = nonNegative(resolveEdge(sn, "padding", style.SideRight).ToPx(containingWidth))
	d.Border.Left = nonNegative(resolveEdge(sn, "border", style.SideLeft).ToPx(containingWidth))
	d.Border.Right = nonNegative(resolveEdge(sn, "border", style.SideRight).ToPx(containingWidth))

	total := width.ToPx(containingWidth) + marginLeft.ToPx(containingWidth) + marginRight.ToPx(containingWidth) +
		d.Padding.Left + d.Padding.Right + d.Border.Left + d.Border.Right

	// Over-constrained: auto margins cannot absorb a negative remainder.
	if !width.Auto && total > containingWidth {
		if marginLeft.Auto {
			marginLeft = style.Px(0)
		}
		if marginRight.Auto {
			marginRight = style.Px(0)
		}
	}

	underflow := containingWidth - total
	w := width.ToPx(containingWidth)
	ml := marginLeft.ToPx(containingWidth)
	mr := marginRight.ToPx(containingWidth)

	switch {
	case width.Auto && marginLeft.Auto && marginRight.Auto:
		// Auto margins stay 0 and the content takes the whole containing
		// width. Padding and border spill past it.
		if underflow >= 0 {
			w = containingWidth
		} else {
			w = 0
			mr += underflow
		}
	case width.Auto:
		// A lone auto margin is 0. The width takes the remainder, negative
		// when fixed margins overflow the container.
		w = underflow
	case marginLeft.Auto && marginRight.Auto:
		ml = underflow / 2
		mr = underflow / 2
	case marginLeft.Auto:
		ml = underflow
	case marginRight.Auto:
		mr = underflow
	default:
		mr += underflow
	}

	d.Content.Width = w
	d.Margin.Left = ml
	d.Margin.Right = mr
}

// calculateBlockPosition resolves the vertical edges and places the
// content area. Vertical percentages resolve against the containing width.
func (b *LayoutBox) calculateBlockPosition(cb Rect, offset float64) {
	sn := b.StyledNode
	d := &b.Dimensions
	if sn != nil {
		d.Margin.Top = resolveEdge(sn, "margin", style.SideTop).ToPx(cb.Width)
		d.Margin.Bottom = resolveEdge(sn, "margin", style.SideBottom).ToPx(cb.Width)
		d.Padding.Top = nonNegative(resolveEdge(sn, "padding", style.SideTop).ToPx(cb.Width))
		d.Padding.Bottom = nonNegative(resolveEdge(sn, "padding", style.SideBottom).ToPx(cb.Width))
		d.Border.Top = nonNegative(resolveEdge(sn, "border", style.SideTop).ToPx(cb.Width))
		d.Border.Bottom = nonNegative(resolveEdge(sn, "border", style.SideBottom).ToPx(cb.Width))
	}

	d.Content.X = cb.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = cb.Y + offset + d.Margin.Top + d.Border.Top + d.Padding.Top
}

// explicitHeight reports the height set on the box, with percentages
// resolved against the containing block's content height.
func (b *LayoutBox) explicitHeight(containingHeight float64) (float64, bool) {
	if b.StyledNode == nil {
		return 0, false
	}
	l, ok := b.StyledNode.Resolve("height")
	if !ok || l.Auto || isNegative(l) {
		return 0, false
	}
	return l.ToPx(containingHeight), true
}

// resolveEdge returns one side of an edge property, or zero when it is
// unset or cannot be resolved.
func resolveEdge(sn *style.StyledNode, base string, side style.Side) style.Length {
	if l, ok := sn.ResolveEdge(base, side); ok {
		return l
	}
	return style.Px(0)
}

func isNegative(l style.Length) bool {
	return !l.Auto && l.Value < 0
}

func nonNegative(v float64) float64 {
	return math.Max(0, v)
}
