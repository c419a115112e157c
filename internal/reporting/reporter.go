// -- internal/reporting/reporter.go --
package reporting

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/xkilldash9x/tinybrowser/api/schemas"
	"github.com/xkilldash9x/tinybrowser/internal/observability"
)

// ErrClosed is returned by Write once the reporter has been closed.
var ErrClosed = errors.New("reporter is closed")

// Reporter defines the interface for writing render results to an output.
type Reporter interface {
	// Write processes a single layout snapshot.
	Write(snapshot *schemas.LayoutSnapshot) error
	// Close finalizes the report and closes any underlying resources (e.g., file handles).
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// NopCloser lets callers hand a plain writer (a buffer, a cobra output
// stream) to NewWithWriter without it being closed.
func NopCloser(w io.Writer) io.WriteCloser {
	return &nopWriteCloser{w}
}

// New creates a new reporter based on the specified format and output path.
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser // Use interface type
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		// Wrap Stdout so Close() is a no-op.
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	r, err := NewWithWriter(format, writer)
	if err != nil {
		if !isStdOut {
			writer.Close()
		}
		return nil, err
	}
	observability.GetLogger().Named("reporting").Debug("Reporter opened",
		zap.String("format", format), zap.Bool("stdout", isStdOut))
	return r, nil
}

// NewWithWriter builds a reporter for format that takes ownership of writer.
func NewWithWriter(format string, writer io.WriteCloser) (Reporter, error) {
	switch format {
	case "text":
		return NewTextReporter(writer), nil
	case "json":
		return NewJSONReporter(writer), nil
	case "xml":
		return NewXMLReporter(writer), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
