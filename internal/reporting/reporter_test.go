// internal/reporting/reporter_test.go
package reporting_test

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/tinybrowser/api/schemas"
	"github.com/xkilldash9x/tinybrowser/internal/reporting"
)

// closeRecorder is a buffer that remembers whether it was closed.
type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func sampleSnapshot(passID string) *schemas.LayoutSnapshot {
	return &schemas.LayoutSnapshot{
		PassID:    passID,
		Source:    "page.html",
		Viewport:  schemas.Viewport{Width: 800, Height: 600},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Root: &schemas.BoxSnapshot{
			Type:    schemas.BoxBlock,
			Tag:     "div",
			XPath:   "//*[@id='main']",
			Styles:  map[string]string{"width": "100px", "display": "block"},
			Content: schemas.Rect{X: 11, Y: 11, Width: 100, Height: 20.5},
			Border:  schemas.Edges{Top: 1, Right: 1, Bottom: 1, Left: 1},
			Margin:  schemas.Edges{Top: 10, Right: 689, Bottom: 10, Left: 10},
			Children: []*schemas.BoxSnapshot{
				{
					Type:    schemas.BoxAnonymous,
					Content: schemas.Rect{X: 11, Y: 11, Width: 100},
					Children: []*schemas.BoxSnapshot{
						{Type: schemas.BoxInline, Text: "hello"},
					},
				},
			},
		},
	}
}

// -- Constructor Tests --

// TestNew_Success_Stdout tests creating reporters writing to stdout.
func TestNew_Success_Stdout(t *testing.T) {
	for _, format := range []string{"text", "json", "xml"} {
		t.Run(format, func(t *testing.T) {
			// Test explicit stdout
			r, err := reporting.New(format, "stdout")
			require.NoError(t, err)
			assert.NotNil(t, r)
			assert.NoError(t, r.Close())

			// Test implicit stdout (empty path)
			r, err = reporting.New(format, "")
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}
}

// TestNew_Success_File tests creating a reporter writing to a file.
func TestNew_Success_File(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "output.json")

	r, err := reporting.New("json", tmpFile)
	require.NoError(t, err)

	// File should exist now (created by os.Create in New)
	_, err = os.Stat(tmpFile)
	assert.NoError(t, err, "Output file should have been created")

	require.NoError(t, r.Write(sampleSnapshot("p1")))
	require.NoError(t, r.Close())

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"pass_id":"p1"`)
}

// TestNew_Failure_UnsupportedFormat tests handling of unknown formats.
func TestNew_Failure_UnsupportedFormat(t *testing.T) {
	r, err := reporting.New("invalid-format", "stdout")
	assert.Error(t, err)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "unsupported output format: invalid-format")

	// The file is created before the format is checked, then closed.
	tmpFile := filepath.Join(t.TempDir(), "output.pdf")
	r, err = reporting.New("pdf", tmpFile)
	assert.Error(t, err)
	assert.Nil(t, r)
}

// TestNew_Failure_FileCreation tests an output path that cannot be created.
func TestNew_Failure_FileCreation(t *testing.T) {
	invalidPath := filepath.Join(t.TempDir(), "non_existent_dir", "output.txt")

	r, err := reporting.New("text", invalidPath)
	assert.Error(t, err)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "failed to create output file")
}

// -- Writer Tests --

func TestTextReporter(t *testing.T) {
	out := &closeRecorder{}
	r := reporting.NewTextReporter(out)

	require.NoError(t, r.Write(sampleSnapshot("p1")))
	require.NoError(t, r.Write(nil))
	require.NoError(t, r.Close())
	assert.True(t, out.closed)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "pass p1 (page.html) viewport 800x600 boxes=3", lines[0])
	assert.Equal(t,
		"  BLOCK <div> x=11 y=11 w=100 h=20.5 margin=10,689,10,10 border=1,1,1,1 {display: block; width: 100px}",
		lines[1])
	assert.Equal(t, "    ANONYMOUS x=11 y=11 w=100 h=0", lines[2])
	assert.Equal(t, `      INLINE "hello" x=0 y=0 w=0 h=0`, lines[3])
}

func TestJSONReporter(t *testing.T) {
	out := &closeRecorder{}
	r := reporting.NewJSONReporter(out)

	require.NoError(t, r.Write(sampleSnapshot("p1")))
	require.NoError(t, r.Write(sampleSnapshot("p2")))
	require.NoError(t, r.Close())

	// -- one document per line --
	var got []schemas.LayoutSnapshot
	scanner := bufio.NewScanner(&out.Buffer)
	for scanner.Scan() {
		var snap schemas.LayoutSnapshot
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &snap))
		got = append(got, snap)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].PassID)
	assert.Equal(t, "p2", got[1].PassID)
	assert.Equal(t, *sampleSnapshot("p1").Root, *got[0].Root)
	assert.Equal(t, 3, got[1].Count())
}

func TestXMLReporter(t *testing.T) {
	out := &closeRecorder{}
	r := reporting.NewXMLReporter(out)

	require.NoError(t, r.Write(sampleSnapshot("p1")))
	require.NoError(t, r.Write(sampleSnapshot("p2")))
	assert.Zero(t, out.Len(), "nothing is written before Close")
	require.NoError(t, r.Close())
	assert.True(t, out.closed)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out.Bytes()))

	layouts := doc.SelectElements("layouts")
	require.Len(t, layouts, 1)
	passes := layouts[0].SelectElements("layout")
	require.Len(t, passes, 2)
	assert.Equal(t, "p1", passes[0].SelectAttrValue("pass-id", ""))
	assert.Equal(t, "page.html", passes[0].SelectAttrValue("source", ""))
	assert.Equal(t, "2024-01-02T03:04:05Z", passes[0].SelectAttrValue("created-at", ""))

	box := passes[0].SelectElement("box")
	require.NotNil(t, box)
	assert.Equal(t, "BLOCK", box.SelectAttrValue("type", ""))
	assert.Equal(t, "div", box.SelectAttrValue("tag", ""))
	assert.Equal(t, "20.5", box.SelectElement("content").SelectAttrValue("height", ""))
	assert.Equal(t, "689", box.SelectElement("margin").SelectAttrValue("right", ""))
	assert.Nil(t, box.SelectElement("padding"), "zero edges are omitted")

	decls := box.SelectElement("styles").SelectElements("declaration")
	require.Len(t, decls, 2)
	assert.Equal(t, "display", decls[0].SelectAttrValue("property", ""))

	text := doc.FindElement("//box[@type='INLINE']/text")
	require.NotNil(t, text)
	assert.Equal(t, "hello", text.Text())
}

func TestReporter_WriteAfterClose(t *testing.T) {
	for _, format := range []string{"text", "json", "xml"} {
		t.Run(format, func(t *testing.T) {
			out := &closeRecorder{}
			r, err := reporting.NewWithWriter(format, out)
			require.NoError(t, err)

			require.NoError(t, r.Close())
			assert.NoError(t, r.Close(), "second Close is a no-op")
			assert.ErrorIs(t, r.Write(sampleSnapshot("late")), reporting.ErrClosed)
		})
	}
}

func TestNopCloser(t *testing.T) {
	var buf bytes.Buffer
	r, err := reporting.NewWithWriter("text", reporting.NopCloser(&buf))
	require.NoError(t, err)
	require.NoError(t, r.Write(sampleSnapshot("p1")))
	require.NoError(t, r.Close())
	assert.Contains(t, buf.String(), "pass p1")
}
