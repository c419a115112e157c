// internal/browser/parser/css.go
package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Property represents a CSS property (e.g., "display").
type Property string

// Value represents a CSS value (e.g., "none").
type Value string

// Declaration is a key-value pair (e.g., display: none).
type Declaration struct {
	Property  Property
	Value     Value
	Important bool
}

// Rule applies its declarations to every element matched by any of its selectors.
type Rule struct {
	Selectors    []*Selector
	Declarations []Declaration
}

// StyleSheet is an ordered list of rules. Order is the cascade tie-break.
type StyleSheet struct {
	Rules []Rule
}

// Merge concatenates sheets, keeping each sheet's rule order.
func Merge(sheets ...StyleSheet) StyleSheet {
	var out StyleSheet
	for _, s := range sheets {
		out.Rules = append(out.Rules, s.Rules...)
	}
	return out
}

// errUnsupportedSelector marks selector syntax outside type, class and id
// selectors (attribute selectors, pseudo-classes, namespaces).
var errUnsupportedSelector = errors.New("unsupported selector")

// Parser holds the state of the CSS parser.
type Parser struct {
	input string
	pos   int
}

func NewParser(input string) *Parser {
	return &Parser{input: input, pos: 0}
}

// Parse analyzes the input CSS string and builds a StyleSheet. Parsing is
// lenient: at-rules and comments are skipped, unsupported selectors are
// dropped from their list, and a rule left with no selector is skipped.
func (p *Parser) Parse() StyleSheet {
	var rules []Rule
	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		if p.currentChar() == '@' {
			p.skipAtRule()
			continue
		}
		if p.currentChar() == '}' {
			// Stray closing brace from a malformed block.
			p.consumeChar()
			continue
		}

		selectors := p.parseSelectorList()
		if p.eof() {
			break
		}
		declarations, err := p.parseDeclarationBlock()
		if err != nil {
			continue
		}
		if len(selectors) > 0 && len(declarations) > 0 {
			rules = append(rules, Rule{Selectors: selectors, Declarations: declarations})
		}
	}
	return StyleSheet{Rules: rules}
}

// ParseDeclarations parses a declaration list without braces, as found in
// an inline style attribute.
func ParseDeclarations(input string) []Declaration {
	p := NewParser(input)
	return p.parseDeclarationList()
}

// ParseSelector parses a single selector such as "div > .item".
func ParseSelector(input string) (*Selector, error) {
	p := NewParser(input)
	p.consumeWhitespace()
	sel, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	p.consumeWhitespace()
	if !p.eof() {
		return nil, fmt.Errorf("unexpected %q at offset %d in selector %q", p.currentChar(), p.pos, input)
	}
	return sel, nil
}

// parseSelectorList parses a comma-separated selector list up to '{'.
func (p *Parser) parseSelectorList() []*Selector {
	var selectors []*Selector
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' {
			break
		}
		sel, err := p.parseSelector()
		if err != nil {
			p.skipTo(',', '{')
		} else {
			selectors = append(selectors, sel)
		}

		p.consumeWhitespace()
		if !p.eof() && p.currentChar() == ',' {
			p.consumeChar()
			continue
		}
		if !p.eof() && p.currentChar() != '{' {
			// Junk after a selector spoils the whole list.
			p.skipTo('{')
			return nil
		}
		break
	}
	return selectors
}

// parseSelector parses components and the combinators between them,
// stopping before ',', '{' or end of input.
func (p *Parser) parseSelector() (*Selector, error) {
	var components []Component
	for {
		comp, err := p.parseComponent()
		if err != nil {
			return nil, err
		}
		components = append(components, comp)

		hadSpace := p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' || p.currentChar() == ',' {
			break
		}

		var combinator Combinator
		switch p.currentChar() {
		case '>':
			combinator = CombinatorChild
			p.consumeChar()
		case '+':
			combinator = CombinatorAdjacentSibling
			p.consumeChar()
		case '~':
			combinator = CombinatorGeneralSibling
			p.consumeChar()
		default:
			if hadSpace {
				combinator = CombinatorDescendant
			} else {
				combinator = CombinatorCompound
			}
		}
		components[len(components)-1].Combinator = combinator

		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' || p.currentChar() == ',' {
			return nil, fmt.Errorf("dangling combinator at offset %d", p.pos)
		}
	}
	return NewSelector(components...), nil
}

// parseComponent parses one of "*", "tag", "#id" or ".class".
func (p *Parser) parseComponent() (Component, error) {
	if p.eof() {
		return Component{}, fmt.Errorf("unexpected end of selector")
	}
	switch ch := p.currentChar(); {
	case ch == '*':
		p.consumeChar()
		return Component{Prefix: PrefixNone, Identifier: "*"}, nil
	case ch == '#' || ch == '.':
		p.consumeChar()
		ident := p.parseIdentifier()
		if ident == "" {
			return Component{}, fmt.Errorf("empty identifier after %q at offset %d", ch, p.pos)
		}
		prefix := PrefixID
		if ch == '.' {
			prefix = PrefixClass
		}
		return Component{Prefix: prefix, Identifier: ident}, nil
	case isValidIdentifierStart(ch):
		return Component{Prefix: PrefixNone, Identifier: strings.ToLower(p.parseIdentifier())}, nil
	default:
		return Component{}, fmt.Errorf("%w: %q at offset %d", errUnsupportedSelector, ch, p.pos)
	}
}

// parseDeclarationBlock parses the content within { ... }.
func (p *Parser) parseDeclarationBlock() ([]Declaration, error) {
	p.consumeWhitespace()
	if p.eof() || p.currentChar() != '{' {
		return nil, fmt.Errorf("expected '{' at start of declarations")
	}
	p.consumeChar()

	declarations := p.parseDeclarationList()

	if !p.eof() && p.currentChar() == '}' {
		p.consumeChar()
	}
	return declarations, nil
}

// parseDeclarationList reads declarations until '}' or end of input.
func (p *Parser) parseDeclarationList() []Declaration {
	var declarations []Declaration
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '}' {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		if p.currentChar() == ';' {
			p.consumeChar()
			continue
		}

		property, value, important := p.parseDeclaration()
		if property != "" && value != "" {
			declarations = append(declarations, Declaration{
				Property:  Property(strings.ToLower(property)),
				Value:     Value(value),
				Important: important,
			})
		}
	}
	return declarations
}

// parseDeclaration parses a single 'property: value;' pair.
func (p *Parser) parseDeclaration() (prop, val string, important bool) {
	if !isValidIdentifierStart(p.currentChar()) {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return
	}
	prop = p.parseIdentifier()
	p.consumeWhitespace()

	if p.eof() || p.currentChar() != ':' {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return "", "", false
	}
	p.consumeChar()
	p.consumeWhitespace()

	val = p.parseValue()
	if strings.HasSuffix(strings.ToLower(val), "!important") {
		important = true
		val = strings.TrimSpace(val[:len(val)-len("!important")])
	}

	p.consumeWhitespace()
	if !p.eof() && p.currentChar() == ';' {
		p.consumeChar()
	}
	return
}

// parseValue reads a CSS value until a delimiter.
func (p *Parser) parseValue() string {
	start := p.pos
	for !p.eof() {
		ch := p.currentChar()
		if ch == ';' || ch == '}' {
			break
		}
		if ch == '"' || ch == '\'' {
			p.skipQuotedString(ch)
			continue
		}
		if ch == '(' {
			p.consumeChar()
			p.skipBlock('(', ')')
			continue
		}
		p.pos++
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

// --- Lexer-like Helpers ---

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

// consumeWhitespace skips whitespace and comments and reports whether it
// skipped anything.
func (p *Parser) consumeWhitespace() bool {
	start := p.pos
	for !p.eof() {
		if isWhitespace(p.currentChar()) {
			p.pos++
			continue
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		break
	}
	return p.pos > start
}

func (p *Parser) startsWith(s string) bool {
	if p.pos+len(s) > len(p.input) {
		return false
	}
	return p.input[p.pos:p.pos+len(s)] == s
}

func (p *Parser) skipComment() {
	p.pos += 2
	endIndex := strings.Index(p.input[p.pos:], "*/")
	if endIndex == -1 {
		p.pos = len(p.input)
	} else {
		p.pos += endIndex + 2
	}
}

func (p *Parser) skipTo(targets ...byte) {
	for !p.eof() {
		ch := p.currentChar()
		for _, target := range targets {
			if ch == target {
				return
			}
		}
		p.pos++
	}
}

// skipBlock consumes up to and including the close that balances an
// already consumed open.
func (p *Parser) skipBlock(open, close byte) {
	depth := 1
	for !p.eof() {
		c := p.consumeChar()
		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) skipQuotedString(quote byte) {
	p.consumeChar()
	for !p.eof() {
		ch := p.consumeChar()
		if ch == '\\' {
			p.consumeChar()
		} else if ch == quote {
			return
		}
	}
}

func (p *Parser) skipAtRule() {
	p.consumeChar() // '@'
	_ = p.parseIdentifier()
	for !p.eof() {
		ch := p.currentChar()
		if ch == '{' {
			p.consumeChar()
			p.skipBlock('{', '}')
			return
		}
		if ch == ';' {
			p.consumeChar()
			return
		}
		p.pos++
	}
}

func (p *Parser) parseIdentifier() string {
	start := p.pos
	for !p.eof() && isValidIdentifierChar(p.currentChar()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isValidIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-'
}

func isValidIdentifierChar(ch byte) bool {
	return isValidIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}
