// internal/reporting/json.go
package reporting

import (
	"fmt"
	"io"
	"sync"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/tinybrowser/api/schemas"
)

// Sorted keys keep style maps stable between runs.
var jsonAPI = json.ConfigCompatibleWithStandardLibrary

// JSONReporter writes one JSON document per snapshot, newline delimited.
type JSONReporter struct {
	mu      sync.Mutex
	writer  io.WriteCloser
	encoder *json.Encoder
	closed  bool
}

func NewJSONReporter(writer io.WriteCloser) *JSONReporter {
	return &JSONReporter{writer: writer, encoder: jsonAPI.NewEncoder(writer)}
}

func (r *JSONReporter) Write(snapshot *schemas.LayoutSnapshot) error {
	if snapshot == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if err := r.encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", snapshot.PassID, err)
	}
	return nil
}

func (r *JSONReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.writer.Close()
}
