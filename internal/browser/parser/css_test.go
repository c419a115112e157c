// browser/parser/css_test.go
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper functions to build expected structures concisely
func d(prop, val string, important bool) Declaration {
	return Declaration{Property: Property(prop), Value: Value(val), Important: important}
}

func c(prefix Prefix, ident string, comb Combinator) Component {
	return Component{Prefix: prefix, Identifier: ident, Combinator: comb}
}

func components(s *Selector) []Component {
	out := make([]Component, s.Len())
	for i := range out {
		out[i] = s.Component(i)
	}
	return out
}

func TestParseSelector_Components(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Component
	}{
		{"Tag", "div", []Component{c(PrefixNone, "div", CombinatorNone)}},
		{"Tag lowercased", "DIV", []Component{c(PrefixNone, "div", CombinatorNone)}},
		{"ID", "#main", []Component{c(PrefixID, "main", CombinatorNone)}},
		{"Class keeps case", ".Button", []Component{c(PrefixClass, "Button", CombinatorNone)}},
		{"Universal", "*", []Component{c(PrefixNone, "*", CombinatorNone)}},
		{"Compound", "input#username.required", []Component{
			c(PrefixNone, "input", CombinatorCompound),
			c(PrefixID, "username", CombinatorCompound),
			c(PrefixClass, "required", CombinatorNone),
		}},
		{"Descendant", "div p", []Component{c(PrefixNone, "div", CombinatorDescendant), c(PrefixNone, "p", CombinatorNone)}},
		{"Child", "article>section", []Component{c(PrefixNone, "article", CombinatorChild), c(PrefixNone, "section", CombinatorNone)}},
		{"Adjacent", "h1 + h2", []Component{c(PrefixNone, "h1", CombinatorAdjacentSibling), c(PrefixNone, "h2", CombinatorNone)}},
		{"General", "h2 ~ *", []Component{c(PrefixNone, "h2", CombinatorGeneralSibling), c(PrefixNone, "*", CombinatorNone)}},
		{"Chain", ".container .item > span", []Component{
			c(PrefixClass, "container", CombinatorDescendant),
			c(PrefixClass, "item", CombinatorChild),
			c(PrefixNone, "span", CombinatorNone),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseSelector(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, components(sel))
		})
	}
}

func TestParseSelector_Unsupported(t *testing.T) {
	for _, input := range []string{"", "a[href]", "a:hover", "div >", "#", ". x", "1div"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSelector(input)
			assert.Error(t, err)
		})
	}
}

func TestSpecificity(t *testing.T) {
	tests := []struct {
		input    string
		expected Specificity
	}{
		{"*", Specificity{0, 0, 0}},
		{"div", Specificity{0, 0, 1}},
		{".a", Specificity{0, 1, 0}},
		{"#a", Specificity{1, 0, 0}},
		{"div.a#b", Specificity{1, 1, 1}},
		{"section * > .x ~ span", Specificity{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := ParseSelector(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sel.Specificity())
		})
	}

	assert.Equal(t, 1, Specificity{1, 0, 0}.Compare(Specificity{0, 99, 99}), "one id beats any number of classes and tags")
	assert.Equal(t, -1, Specificity{0, 1, 5}.Compare(Specificity{0, 2, 0}))
	assert.Equal(t, 0, Specificity{0, 1, 1}.Compare(Specificity{0, 1, 1}))
}

func TestNewSelector_NormalizesCombinators(t *testing.T) {
	sel := NewSelector(
		Component{Prefix: PrefixNone, Identifier: "div"},
		Component{Prefix: PrefixNone, Identifier: "p", Combinator: CombinatorChild},
	)
	assert.Equal(t, CombinatorDescendant, sel.Component(0).Combinator)
	assert.Equal(t, CombinatorNone, sel.Component(1).Combinator)
	assert.Equal(t, "div p", sel.String())
}

func TestParseStyleSheet(t *testing.T) {
	input := `
	/* leading comment */
	@import url("x.css");
	@media screen { div { color: blue; } }
	h1, h2 .title { color: red; }
	a:hover, p { margin: 0 }
	input[type=text] { width: 10px; }
	.empty { }
	div > span { a: 1; } div + span { b: 2 }
	`
	sheet := NewParser(input).Parse()
	require.Len(t, sheet.Rules, 4)

	assert.Equal(t, "h1", sheet.Rules[0].Selectors[0].String())
	assert.Equal(t, "h2 .title", sheet.Rules[0].Selectors[1].String())
	assert.Equal(t, []Declaration{d("color", "red", false)}, sheet.Rules[0].Declarations)

	require.Len(t, sheet.Rules[1].Selectors, 1, "unsupported selector is dropped from the list")
	assert.Equal(t, "p", sheet.Rules[1].Selectors[0].String())
	assert.Equal(t, []Declaration{d("margin", "0", false)}, sheet.Rules[1].Declarations)

	assert.Equal(t, "div > span", sheet.Rules[2].Selectors[0].String())
	assert.Equal(t, "div + span", sheet.Rules[3].Selectors[0].String())
	assert.Equal(t, []Declaration{d("b", "2", false)}, sheet.Rules[3].Declarations)
}

func TestParseDeclarations(t *testing.T) {
	input := `
	{
		color: red;
		font-size: 16px !important;
		MARGIN: 10px 20px;
		border: 1px solid red;
        /* Comment between declarations */
        padding: 0;
		background: url("a;b.png");
		broken;
		: nothing;
		width: calc(100% - (2 * 10px));
	}
	`
	p := NewParser(input)
	got, err := p.parseDeclarationBlock()
	require.NoError(t, err)

	expected := []Declaration{
		d("color", "red", false),
		d("font-size", "16px", true),
		d("margin", "10px 20px", false),
		d("border", "1px solid red", false),
		d("padding", "0", false),
		d("background", `url("a;b.png")`, false),
		d("width", "calc(100% - (2 * 10px))", false),
	}
	assert.Equal(t, expected, got)
}

func TestParseInlineDeclarations(t *testing.T) {
	got := ParseDeclarations("color:red;; width : 50% ;height:10px!important")
	assert.Equal(t, []Declaration{
		d("color", "red", false),
		d("width", "50%", false),
		d("height", "10px", true),
	}, got)

	assert.Empty(t, ParseDeclarations(""))
	assert.Empty(t, ParseDeclarations("   "))
}

func TestMerge_PreservesOrder(t *testing.T) {
	a := NewParser("a { x: 1 } b { x: 2 }").Parse()
	b := NewParser("c { x: 3 }").Parse()
	merged := Merge(a, StyleSheet{}, b)
	require.Len(t, merged.Rules, 3)
	assert.Equal(t, "a", merged.Rules[0].Selectors[0].String())
	assert.Equal(t, "b", merged.Rules[1].Selectors[0].String())
	assert.Equal(t, "c", merged.Rules[2].Selectors[0].String())
}
