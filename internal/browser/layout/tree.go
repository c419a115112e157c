// internal/browser/layout/tree.go
package layout

import (
	"github.com/xkilldash9x/tinybrowser/internal/browser/style"
)

// -- Layout Tree Construction --

// BuildLayoutTree constructs the LayoutBox tree from the Style Tree. Nodes
// with display none produce no box and their subtree is skipped.
func BuildLayoutTree(styledNode *style.StyledNode) *LayoutBox {
	if styledNode == nil {
		return nil
	}

	var root *LayoutBox
	switch styledNode.Display() {
	case style.DisplayNone:
		return nil
	case style.DisplayBlock:
		root = NewLayoutBox(BlockBox, styledNode)
	default:
		root = NewLayoutBox(InlineBox, styledNode)
	}

	for _, childStyled := range styledNode.Children {
		if childBox := BuildLayoutTree(childStyled); childBox != nil {
			addChildToBox(root, childBox)
		}
	}
	return root
}

// addChildToBox encapsulates the block/inline child placement logic.
func addChildToBox(root *LayoutBox, childBox *LayoutBox) {
	if childBox.IsBlockLevel() {
		root.Children = append(root.Children, childBox)
		return
	}
	container := root.GetInlineContainer()
	container.Children = append(container.Children, childBox)
}
