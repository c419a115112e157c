// internal/browser/style/selectors.go
package style

import (
	"github.com/xkilldash9x/tinybrowser/internal/browser/dom"
	"github.com/xkilldash9x/tinybrowser/internal/browser/parser"
)

// MatchContext answers selector queries for one style pass. Selectors are
// matched left to right: the chain is walked forward from every element that
// satisfies the first component, and every element reached by the last
// component is recorded. The first query for a selector performs that walk
// over the pass root's subtree; later queries are lookups.
//
// A MatchContext is not safe for concurrent use. Each pass creates its own.
type MatchContext struct {
	doc  *dom.Document
	root dom.NodeID
	memo map[*parser.Selector][]bool
}

// NewMatchContext creates a context scoped to the subtree rooted at root.
func NewMatchContext(doc *dom.Document, root dom.NodeID) *MatchContext {
	return &MatchContext{
		doc:  doc,
		root: root,
		memo: make(map[*parser.Selector][]bool),
	}
}

// Matches reports whether sel applies to node.
func (mc *MatchContext) Matches(node dom.NodeID, sel *parser.Selector) bool {
	if sel == nil || sel.Len() == 0 || !mc.doc.IsElement(node) {
		return false
	}
	if sel.Len() == 1 {
		return mc.matchesComponent(node, sel.Component(0))
	}
	terminals, ok := mc.memo[sel]
	if !ok {
		terminals = mc.expand(sel)
		mc.memo[sel] = terminals
	}
	return terminals[node]
}

type step struct {
	index int
	node  dom.NodeID
}

// expand walks sel from every element under the context root and returns
// the set of nodes its last component was reached on.
func (mc *MatchContext) expand(sel *parser.Selector) []bool {
	terminals := make([]bool, mc.doc.Len())
	visited := make(map[step]struct{})
	mc.doc.Walk(mc.root, func(id dom.NodeID) bool {
		mc.walk(sel, step{0, id}, terminals, visited)
		return true
	})
	return terminals
}

func (mc *MatchContext) walk(sel *parser.Selector, s step, terminals []bool, visited map[step]struct{}) {
	if _, seen := visited[s]; seen {
		return
	}
	visited[s] = struct{}{}

	comp := sel.Component(s.index)
	if !mc.doc.IsElement(s.node) || !mc.matchesComponent(s.node, comp) {
		return
	}
	if s.index == sel.Len()-1 {
		terminals[s.node] = true
		return
	}

	next := s.index + 1
	switch comp.Combinator {
	case parser.CombinatorCompound:
		mc.walk(sel, step{next, s.node}, terminals, visited)
	case parser.CombinatorChild:
		for _, child := range mc.doc.Children(s.node) {
			mc.walk(sel, step{next, child}, terminals, visited)
		}
	case parser.CombinatorDescendant:
		for _, child := range mc.doc.Children(s.node) {
			mc.doc.Walk(child, func(id dom.NodeID) bool {
				mc.walk(sel, step{next, id}, terminals, visited)
				return true
			})
		}
	case parser.CombinatorAdjacentSibling:
		if sib := mc.doc.NextSibling(s.node); sib != dom.InvalidNode {
			mc.walk(sel, step{next, sib}, terminals, visited)
		}
	case parser.CombinatorGeneralSibling:
		for sib := mc.doc.NextSibling(s.node); sib != dom.InvalidNode; sib = mc.doc.NextSibling(sib) {
			mc.walk(sel, step{next, sib}, terminals, visited)
		}
	}
}

// matchesComponent tests a single component against an element. Class
// matching compares the whole class attribute.
func (mc *MatchContext) matchesComponent(node dom.NodeID, comp parser.Component) bool {
	switch comp.Prefix {
	case parser.PrefixID:
		v, ok := mc.doc.Attr(node, "id")
		return ok && v == comp.Identifier
	case parser.PrefixClass:
		v, ok := mc.doc.Attr(node, "class")
		return ok && v == comp.Identifier
	default:
		return comp.Identifier == "*" || mc.doc.Tag(node) == comp.Identifier
	}
}
