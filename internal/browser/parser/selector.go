// internal/browser/parser/selector.go
package parser

import (
	"strings"
)

// Prefix says which attribute a component tests.
type Prefix int

const (
	PrefixNone  Prefix = iota // tag name or "*"
	PrefixID                  // #
	PrefixClass               // .
)

// Combinator relates a component to the component that follows it.
type Combinator int

const (
	CombinatorNone            Combinator = iota // last component
	CombinatorDescendant                        // Space
	CombinatorChild                             // >
	CombinatorAdjacentSibling                   // +
	CombinatorGeneralSibling                    // ~
	CombinatorCompound                          // no separator: the next component tests the same node
)

// Component is one step of a selector chain.
type Component struct {
	Prefix     Prefix
	Identifier string
	Combinator Combinator
}

func (c Component) String() string {
	var sb strings.Builder
	switch c.Prefix {
	case PrefixID:
		sb.WriteByte('#')
	case PrefixClass:
		sb.WriteByte('.')
	}
	sb.WriteString(c.Identifier)
	return sb.String()
}

// Specificity counts ids, classes and tags, most significant first.
type Specificity [3]int

// Compare returns -1, 0 or 1 comparing component-wise from the id count.
func (s Specificity) Compare(other Specificity) int {
	for i := range s {
		switch {
		case s[i] < other[i]:
			return -1
		case s[i] > other[i]:
			return 1
		}
	}
	return 0
}

// Selector is an immutable component chain with its specificity computed once.
type Selector struct {
	components  []Component
	specificity Specificity
}

// NewSelector copies components into a selector. Any component that is not
// last and carries no combinator is treated as a descendant step, and the
// last component's combinator is cleared.
func NewSelector(components ...Component) *Selector {
	comps := make([]Component, len(components))
	copy(comps, components)
	for i := range comps {
		if i == len(comps)-1 {
			comps[i].Combinator = CombinatorNone
		} else if comps[i].Combinator == CombinatorNone {
			comps[i].Combinator = CombinatorDescendant
		}
	}
	return &Selector{components: comps, specificity: calculateSpecificity(comps)}
}

func calculateSpecificity(comps []Component) Specificity {
	var s Specificity
	for _, c := range comps {
		switch c.Prefix {
		case PrefixID:
			s[0]++
		case PrefixClass:
			s[1]++
		default:
			if c.Identifier != "*" {
				s[2]++
			}
		}
	}
	return s
}

func (s *Selector) Specificity() Specificity { return s.specificity }
func (s *Selector) Len() int                 { return len(s.components) }

// Component returns the i-th component.
func (s *Selector) Component(i int) Component { return s.components[i] }

// String renders the selector back into CSS syntax.
func (s *Selector) String() string {
	var sb strings.Builder
	for _, c := range s.components {
		sb.WriteString(c.String())
		switch c.Combinator {
		case CombinatorDescendant:
			sb.WriteByte(' ')
		case CombinatorChild:
			sb.WriteString(" > ")
		case CombinatorAdjacentSibling:
			sb.WriteString(" + ")
		case CombinatorGeneralSibling:
			sb.WriteString(" ~ ")
		}
	}
	return sb.String()
}
