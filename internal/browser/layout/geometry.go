// internal/browser/layout/geometry.go
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xkilldash9x/tinybrowser/api/schemas"
)

// ErrNotRendered is returned for elements that exist in the document but
// generate no box.
var ErrNotRendered = errors.New("element not rendered")

// -- Public Interface for Geometry Retrieval --

// GetElementGeometry selects an element by XPath and returns the geometry
// of its border box.
func (e *Engine) GetElementGeometry(layoutRoot *LayoutBox, selector string) (*schemas.ElementGeometry, error) {
	if layoutRoot == nil {
		return nil, fmt.Errorf("layout tree is nil")
	}
	doc := layoutRoot.Document()
	if doc == nil {
		return nil, fmt.Errorf("could not find root DOM node")
	}
	target, err := doc.QueryXPath(selector)
	if err != nil {
		return nil, fmt.Errorf("query '%s': %w", selector, err)
	}
	box := layoutRoot.FindBox(target)
	if box == nil {
		return nil, fmt.Errorf("element '%s' found in DOM but %w (e.g., display: none)", selector, ErrNotRendered)
	}
	return box.ToElementGeometry(), nil
}

// ToElementGeometry converts the box's border box to an ElementGeometry.
func (b *LayoutBox) ToElementGeometry() *schemas.ElementGeometry {
	rect := b.Dimensions.BorderBox()
	x, y, width, height := rect.X, rect.Y, rect.Width, rect.Height

	geo := &schemas.ElementGeometry{
		Vertices: []float64{x, y, x + width, y, x + width, y + height, x, y + height},
		Width:    int64(math.Round(width)),
		Height:   int64(math.Round(height)),
	}
	if sn := b.StyledNode; sn != nil && !sn.IsText() {
		geo.TagName = strings.ToUpper(sn.Tag())
		if typ, ok := sn.Document().Attr(sn.Node, "type"); ok {
			geo.Type = typ
		}
	}
	return geo
}

// -- Snapshots --

var boxTypes = map[BoxType]schemas.BoxType{
	BlockBox:          schemas.BoxBlock,
	InlineBox:         schemas.BoxInline,
	AnonymousBlockBox: schemas.BoxAnonymous,
}

// Snapshot converts the subtree rooted at b into its serializable form.
func (b *LayoutBox) Snapshot() *schemas.BoxSnapshot {
	d := b.Dimensions
	snap := &schemas.BoxSnapshot{
		Type:    boxTypes[b.BoxType],
		Content: schemas.Rect{X: d.Content.X, Y: d.Content.Y, Width: d.Content.Width, Height: d.Content.Height},
		Padding: toEdges(d.Padding),
		Border:  toEdges(d.Border),
		Margin:  toEdges(d.Margin),
	}

	if sn := b.StyledNode; sn != nil {
		doc := sn.Document()
		if sn.IsText() {
			snap.Text = sn.Text()
		} else {
			snap.Tag = sn.Tag()
			snap.XPath = doc.GenerateUniqueXPath(sn.Node)
			if len(sn.ComputedStyles) > 0 {
				snap.Styles = make(map[string]string, len(sn.ComputedStyles))
				for k, v := range sn.ComputedStyles {
					snap.Styles[string(k)] = string(v)
				}
			}
		}
	}

	for _, c := range b.Children {
		snap.Children = append(snap.Children, c.Snapshot())
	}
	return snap
}

func toEdges(e Edges) schemas.Edges {
	return schemas.Edges{Top: e.Top, Right: e.Right, Bottom: e.Bottom, Left: e.Left}
}
