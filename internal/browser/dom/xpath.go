// internal/browser/dom/xpath.go
package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
)

var (
	// ErrNoSource is returned by XPath queries on documents that were built
	// programmatically rather than parsed from HTML.
	ErrNoSource = errors.New("dom: document has no parsed HTML source")
	// ErrNotFound is returned when an XPath expression selects nothing that
	// exists in the arena.
	ErrNotFound = errors.New("dom: no element matches")
)

// QueryXPath evaluates expr against the parsed HTML and returns the arena id
// of the first selected element.
func (d *Document) QueryXPath(expr string) (NodeID, error) {
	if d.html == nil {
		return InvalidNode, ErrNoSource
	}
	n, err := htmlquery.Query(d.html, expr)
	if err != nil {
		return InvalidNode, fmt.Errorf("invalid XPath selector '%s': %w", expr, err)
	}
	if n == nil {
		return InvalidNode, fmt.Errorf("%w: '%s'", ErrNotFound, expr)
	}
	id, ok := d.Lookup(n)
	if !ok {
		return InvalidNode, fmt.Errorf("%w: '%s' selects a node that was not converted", ErrNotFound, expr)
	}
	return id, nil
}

// GenerateUniqueXPath builds an XPath expression for an element, anchoring on
// the nearest ancestor-or-self that carries an id attribute.
func (d *Document) GenerateUniqueXPath(id NodeID) string {
	if !d.valid(id) {
		return ""
	}

	var path []string
	for n := id; n != InvalidNode; n = d.Parent(n) {
		if !d.IsElement(n) {
			continue
		}
		tag := strings.ToLower(d.Tag(n))
		if tag == "" {
			continue
		}
		if v, ok := d.Attr(n, "id"); ok && v != "" {
			path = append(path, fmt.Sprintf(`//*[@id='%s']`, v))
			break
		}

		// XPath indices are 1-based and count same-tag siblings only.
		index := 1
		if p := d.Parent(n); p != InvalidNode {
			for _, sib := range d.Children(p) {
				if sib == n {
					break
				}
				if d.IsElement(sib) && strings.ToLower(d.Tag(sib)) == tag {
					index++
				}
			}
		}
		path = append(path, fmt.Sprintf("%s[%d]", tag, index))
	}

	if len(path) == 0 {
		return "/"
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	xpath := strings.Join(path, "/")
	if !strings.HasPrefix(xpath, "//*[@id=") {
		xpath = "/" + xpath
	}
	return xpath
}
