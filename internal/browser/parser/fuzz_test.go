// browser/parser/fuzz_test.go
package parser

import (
	"reflect"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
)

// FuzzParse checks that arbitrary stylesheet and inline text never panics
// the parser and that parsing is deterministic.
func FuzzParse(f *testing.F) {
	f.Add([]byte(`div > p + span ~ em, .a#b { margin: 1px 2px !important; color: red }`))
	f.Add([]byte(`@media screen { a { x: 1 } } /* c */ b { background: url("a;b") }`))
	f.Add([]byte(`{{{ ; : }`))

	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzz.NewConsumer(data)
		css, err := consumer.GetString()
		if err != nil {
			return
		}
		inline, _ := consumer.GetString()

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Caught a panic while parsing %q: %v", css, r)
			}
		}()

		first := NewParser(css).Parse()
		second := NewParser(css).Parse()
		if !reflect.DeepEqual(first, second) {
			t.Errorf("parsing %q is not deterministic", css)
		}
		_ = ParseDeclarations(inline)
		_, _ = ParseSelector(inline)
	})
}
