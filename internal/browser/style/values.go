// internal/browser/style/values.go
package style

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/xkilldash9x/tinybrowser/internal/browser/parser"
)

// Unit of a resolved length.
type Unit int

const (
	UnitPx Unit = iota
	UnitPercent
)

func (u Unit) String() string {
	if u == UnitPercent {
		return "%"
	}
	return "px"
}

// Length is a typed property value. When Auto is set Value and Unit are zero.
type Length struct {
	Value float64
	Unit  Unit
	Auto  bool
}

// Auto is the resolved form of the "auto" keyword.
var Auto = Length{Auto: true}

// Px builds a pixel length.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPx} }

// Percent builds a percentage length.
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

// ToPx converts the length to pixels. Percentages resolve against base and
// auto counts as zero.
func (l Length) ToPx(base float64) float64 {
	switch {
	case l.Auto:
		return 0
	case l.Unit == UnitPercent:
		return l.Value * base / 100
	default:
		return l.Value
	}
}

// Resolver converts a raw declaration value. It reports false when the value
// cannot be understood, which callers treat as no value.
type Resolver func(raw string) (Length, bool)

// resolvers is the per-property table consulted by Resolve. Properties not
// listed here have no typed form.
var resolvers = map[parser.Property]Resolver{
	"width":  resolveAutoLength,
	"height": resolveAutoLength,

	"margin":        resolveAutoLength,
	"margin-top":    resolveAutoLength,
	"margin-right":  resolveAutoLength,
	"margin-bottom": resolveAutoLength,
	"margin-left":   resolveAutoLength,

	"padding":        resolveLength,
	"padding-top":    resolveLength,
	"padding-right":  resolveLength,
	"padding-bottom": resolveLength,
	"padding-left":   resolveLength,

	"border":        resolveBorder,
	"border-top":    resolveBorder,
	"border-right":  resolveBorder,
	"border-bottom": resolveBorder,
	"border-left":   resolveBorder,

	"border-width":        resolveLength,
	"border-top-width":    resolveLength,
	"border-right-width":  resolveLength,
	"border-bottom-width": resolveLength,
	"border-left-width":   resolveLength,
}

// ResolverFor returns the resolver registered for property.
func ResolverFor(property parser.Property) (Resolver, bool) {
	r, ok := resolvers[property]
	return r, ok
}

// Resolve returns the typed value of property. Unknown properties, missing
// values and unparsable values all report false.
func (sn *StyledNode) Resolve(property parser.Property) (Length, bool) {
	r, ok := resolvers[property]
	if !ok {
		return Length{}, false
	}
	raw, ok := sn.ComputedStyles[property]
	if !ok {
		return Length{}, false
	}
	return r(string(raw))
}

// Side selects one edge of a box.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

var sideNames = [...]string{"top", "right", "bottom", "left"}

func (s Side) String() string { return sideNames[s] }

// ResolveEdge resolves one side of "margin", "padding" or "border". The
// longhand wins; otherwise the side is taken from the shorthand. Borders
// also consult border-<side>, border-width and border, in that order.
func (sn *StyledNode) ResolveEdge(base string, side Side) (Length, bool) {
	if base == "border" {
		if l, ok := sn.Resolve(parser.Property("border-" + side.String() + "-width")); ok {
			return l, true
		}
		if l, ok := sn.Resolve(parser.Property("border-" + side.String())); ok {
			return l, true
		}
		if l, ok := sn.resolveShorthandSide("border-width", side, resolveLength); ok {
			return l, true
		}
		return sn.Resolve("border")
	}

	if l, ok := sn.Resolve(parser.Property(base + "-" + side.String())); ok {
		return l, true
	}
	r, ok := resolvers[parser.Property(base)]
	if !ok {
		return Length{}, false
	}
	return sn.resolveShorthandSide(parser.Property(base), side, r)
}

func (sn *StyledNode) resolveShorthandSide(property parser.Property, side Side, r Resolver) (Length, bool) {
	raw, ok := sn.ComputedStyles[property]
	if !ok {
		return Length{}, false
	}
	token, ok := shorthandSide(strings.Fields(string(raw)), side)
	if !ok {
		return Length{}, false
	}
	return r(token)
}

// shorthandSide picks the token for side from a 1-4 value shorthand.
func shorthandSide(parts []string, side Side) (string, bool) {
	var idx [4]int
	switch len(parts) {
	case 1:
		idx = [4]int{0, 0, 0, 0}
	case 2:
		idx = [4]int{0, 1, 0, 1}
	case 3:
		idx = [4]int{0, 1, 2, 1}
	case 4:
		idx = [4]int{0, 1, 2, 3}
	default:
		return "", false
	}
	return parts[idx[side]], true
}

// -- Resolvers --

func resolveAutoLength(raw string) (Length, bool) {
	return lexLength(raw, true)
}

func resolveLength(raw string) (Length, bool) {
	return lexLength(raw, false)
}

// resolveBorder reads the width from a "1px solid red" style value. The
// width must be the first token.
func resolveBorder(raw string) (Length, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Length{}, false
	}
	return lexLength(fields[0], false)
}

// lexLength accepts exactly one px dimension, percentage, bare zero or, when
// allowAuto is set, the keyword auto.
func lexLength(raw string, allowAuto bool) (Length, bool) {
	l := css.NewLexer(parse.NewInput(strings.NewReader(raw)))
	var out Length
	found := false
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return Length{}, false
			}
			return out, found
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		if found {
			return Length{}, false
		}
		found = true

		switch tt {
		case css.DimensionToken:
			num, unit := splitDimension(string(data))
			if unit != "px" {
				return Length{}, false
			}
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return Length{}, false
			}
			out = Px(v)
		case css.PercentageToken:
			v, err := strconv.ParseFloat(string(data[:len(data)-1]), 64)
			if err != nil {
				return Length{}, false
			}
			out = Percent(v)
		case css.NumberToken:
			v, err := strconv.ParseFloat(string(data), 64)
			if err != nil || v != 0 {
				return Length{}, false
			}
			out = Px(0)
		case css.IdentToken:
			if !allowAuto || !strings.EqualFold(string(data), "auto") {
				return Length{}, false
			}
			out = Auto
		default:
			return Length{}, false
		}
	}
}

// splitDimension separates the numeric part of a dimension token from its
// lowercased unit.
func splitDimension(s string) (string, string) {
	end := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == '+' {
			end = i + 1
			continue
		}
		if (ch == 'e' || ch == 'E') && i+1 < len(s) && (s[i+1] >= '0' && s[i+1] <= '9' || s[i+1] == '-' || s[i+1] == '+') {
			end = i + 1
			continue
		}
		break
	}
	return s[:end], strings.ToLower(s[end:])
}
