// internal/browser/dom/document.go
package dom

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"
)

// NodeID indexes a node inside a Document's arena.
type NodeID int

// InvalidNode marks an absent relation (no parent, no next sibling).
const InvalidNode NodeID = -1

// NodeKind distinguishes element nodes from text nodes.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

var (
	// ErrInvalidNode is returned when an id does not address a node in the arena.
	ErrInvalidNode = errors.New("dom: invalid node id")
	// ErrMalformedTree is returned when parent, child and sibling relations disagree.
	ErrMalformedTree = errors.New("dom: malformed tree")
)

// Node is one entry of the arena. Relations are arena indices.
type Node struct {
	Kind        NodeKind
	Tag         string
	Attrs       map[string]string
	Text        string
	Parent      NodeID
	NextSibling NodeID
	Children    []NodeID

	source *html.Node
}

// Document owns every node of one tree. It is built once and treated as
// immutable while a style or layout pass reads it.
type Document struct {
	nodes   []Node
	root    NodeID
	sources map[*html.Node]NodeID
	html    *html.Node
}

// NewDocument returns an empty document with no root.
func NewDocument() *Document {
	return &Document{root: InvalidNode}
}

// NewElement allocates a detached element node.
func (d *Document) NewElement(tag string, attrs map[string]string) NodeID {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return d.push(Node{Kind: ElementNode, Tag: tag, Attrs: attrs})
}

// NewText allocates a detached text node.
func (d *Document) NewText(text string) NodeID {
	return d.push(Node{Kind: TextNode, Text: text})
}

func (d *Document) push(n Node) NodeID {
	n.Parent = InvalidNode
	n.NextSibling = InvalidNode
	d.nodes = append(d.nodes, n)
	id := NodeID(len(d.nodes) - 1)
	if d.root == InvalidNode {
		d.root = id
	}
	return id
}

// AppendChild attaches child as the last child of parent, wiring the parent
// back-reference and the previous last child's next-sibling link.
func (d *Document) AppendChild(parent, child NodeID) error {
	if !d.valid(parent) {
		return fmt.Errorf("%w: parent %d", ErrInvalidNode, parent)
	}
	if !d.valid(child) {
		return fmt.Errorf("%w: child %d", ErrInvalidNode, child)
	}
	if parent == child {
		return fmt.Errorf("%w: node %d cannot be its own child", ErrMalformedTree, child)
	}
	p := &d.nodes[parent]
	if p.Kind != ElementNode {
		return fmt.Errorf("%w: text node %d cannot have children", ErrMalformedTree, parent)
	}
	c := &d.nodes[child]
	if c.Parent != InvalidNode {
		return fmt.Errorf("%w: node %d already attached to %d", ErrMalformedTree, child, c.Parent)
	}
	if n := len(p.Children); n > 0 {
		d.nodes[p.Children[n-1]].NextSibling = child
	}
	c.Parent = parent
	c.NextSibling = InvalidNode
	p.Children = append(p.Children, child)
	return nil
}

// SetRoot selects the node a pass starts from. By default the first
// allocated node is the root.
func (d *Document) SetRoot(id NodeID) error {
	if !d.valid(id) {
		return fmt.Errorf("%w: root %d", ErrInvalidNode, id)
	}
	d.root = id
	return nil
}

func (d *Document) Root() NodeID { return d.root }
func (d *Document) Len() int     { return len(d.nodes) }

func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

// Node returns the arena entry for id, or nil when id is out of range.
// Callers must not modify the returned node.
func (d *Document) Node(id NodeID) *Node {
	if !d.valid(id) {
		return nil
	}
	return &d.nodes[id]
}

func (d *Document) IsElement(id NodeID) bool {
	return d.valid(id) && d.nodes[id].Kind == ElementNode
}

func (d *Document) Tag(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	return d.nodes[id].Tag
}

func (d *Document) Text(id NodeID) string {
	if !d.valid(id) {
		return ""
	}
	return d.nodes[id].Text
}

// Attr returns the value of an attribute and whether it is present.
func (d *Document) Attr(id NodeID, name string) (string, bool) {
	if !d.IsElement(id) {
		return "", false
	}
	v, ok := d.nodes[id].Attrs[name]
	return v, ok
}

func (d *Document) Parent(id NodeID) NodeID {
	if !d.valid(id) {
		return InvalidNode
	}
	return d.nodes[id].Parent
}

func (d *Document) NextSibling(id NodeID) NodeID {
	if !d.valid(id) {
		return InvalidNode
	}
	return d.nodes[id].NextSibling
}

func (d *Document) Children(id NodeID) []NodeID {
	if !d.valid(id) {
		return nil
	}
	return d.nodes[id].Children
}

// Walk visits id and every node below it in pre-order. Returning false from
// fn prunes the subtree of the visited node.
func (d *Document) Walk(id NodeID, fn func(NodeID) bool) {
	if !d.valid(id) {
		return
	}
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		children := d.nodes[n].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Validate checks that every relation stays inside the arena, that each
// child's parent points back at the node listing it, and that next-sibling
// links follow the order of the parent's child list.
func (d *Document) Validate() error {
	if len(d.nodes) == 0 {
		return nil
	}
	if !d.valid(d.root) {
		return fmt.Errorf("%w: root %d", ErrInvalidNode, d.root)
	}

	listed := make([]int, len(d.nodes))
	for i := range d.nodes {
		id := NodeID(i)
		n := &d.nodes[i]
		if n.Parent != InvalidNode && !d.valid(n.Parent) {
			return fmt.Errorf("%w: node %d has parent %d outside the arena", ErrMalformedTree, id, n.Parent)
		}
		if n.NextSibling != InvalidNode && !d.valid(n.NextSibling) {
			return fmt.Errorf("%w: node %d has next sibling %d outside the arena", ErrMalformedTree, id, n.NextSibling)
		}
		if n.Kind == TextNode && len(n.Children) > 0 {
			return fmt.Errorf("%w: text node %d has children", ErrMalformedTree, id)
		}
		for k, c := range n.Children {
			if !d.valid(c) {
				return fmt.Errorf("%w: node %d lists child %d outside the arena", ErrMalformedTree, id, c)
			}
			if d.nodes[c].Parent != id {
				return fmt.Errorf("%w: child %d of %d points to parent %d", ErrMalformedTree, c, id, d.nodes[c].Parent)
			}
			want := InvalidNode
			if k+1 < len(n.Children) {
				want = n.Children[k+1]
			}
			if d.nodes[c].NextSibling != want {
				return fmt.Errorf("%w: node %d has next sibling %d, expected %d", ErrMalformedTree, c, d.nodes[c].NextSibling, want)
			}
			listed[c]++
		}
	}
	for i := range d.nodes {
		n := &d.nodes[i]
		if n.Parent == InvalidNode {
			if n.NextSibling != InvalidNode {
				return fmt.Errorf("%w: detached node %d has a next sibling", ErrMalformedTree, i)
			}
			continue
		}
		if listed[i] != 1 {
			return fmt.Errorf("%w: node %d is listed %d times by its parent", ErrMalformedTree, i, listed[i])
		}
	}

	// Parent links may still form a loop that never reaches the root.
	for id := d.root; id != InvalidNode; id = d.nodes[id].Parent {
		if listed[id] < 0 {
			return fmt.Errorf("%w: ancestor loop at node %d", ErrMalformedTree, id)
		}
		listed[id] = -1
	}
	return nil
}

// Source returns the parsed HTML node an element was converted from, when
// the document came from FromHTML.
func (d *Document) Source(id NodeID) *html.Node {
	if !d.valid(id) {
		return nil
	}
	return d.nodes[id].source
}

// Lookup maps a parsed HTML node back to its arena id.
func (d *Document) Lookup(n *html.Node) (NodeID, bool) {
	id, ok := d.sources[n]
	return id, ok
}
