// internal/browser/style/cascade.go
package style

import (
	"sort"

	"github.com/xkilldash9x/tinybrowser/internal/browser/dom"
	"github.com/xkilldash9x/tinybrowser/internal/browser/parser"
)

// matchedRule is a rule that applies to the element being styled, tagged
// with the highest specificity among its matching selectors.
type matchedRule struct {
	specificity  parser.Specificity
	declarations []parser.Declaration
}

// ComputeStyle resolves the declarations that apply to node. Matched rules
// are applied in ascending specificity, with sheet order breaking ties.
// Important declarations from the sheet are applied after normal ones, and
// the element's inline style attribute is applied last.
func ComputeStyle(mc *MatchContext, node dom.NodeID, sheet parser.StyleSheet) map[parser.Property]parser.Value {
	styles := make(map[parser.Property]parser.Value)
	if !mc.doc.IsElement(node) {
		return styles
	}

	var matched []matchedRule
	for _, rule := range sheet.Rules {
		best, ok := parser.Specificity{}, false
		for _, sel := range rule.Selectors {
			if !mc.Matches(node, sel) {
				continue
			}
			if !ok || sel.Specificity().Compare(best) > 0 {
				best = sel.Specificity()
			}
			ok = true
		}
		if ok {
			matched = append(matched, matchedRule{specificity: best, declarations: rule.Declarations})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].specificity.Compare(matched[j].specificity) < 0
	})

	for _, important := range []bool{false, true} {
		for _, m := range matched {
			for _, decl := range m.declarations {
				if decl.Important == important {
					styles[decl.Property] = decl.Value
				}
			}
		}
	}

	if inline, ok := mc.doc.Attr(node, "style"); ok {
		for _, decl := range parser.ParseDeclarations(inline) {
			styles[decl.Property] = decl.Value
		}
	}
	return styles
}
