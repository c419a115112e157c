package dom_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/tinybrowser/internal/browser/dom"
)

func TestFromHTML_ConvertsElementsAndText(t *testing.T) {
	doc, err := dom.FromHTML(strings.NewReader(`<!DOCTYPE html>
<html><head><title>T</title></head>
<body>
  <!-- dropped -->
  <div ID="main" class="Box">Hello <b>world</b></div>
</body></html>`))
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	root := doc.Root()
	assert.Equal(t, "html", doc.Tag(root))
	assert.Equal(t, dom.InvalidNode, doc.Parent(root))

	children := doc.Children(root)
	require.Len(t, children, 2)
	assert.Equal(t, "head", doc.Tag(children[0]))
	assert.Equal(t, "body", doc.Tag(children[1]))
	assert.Equal(t, children[1], doc.NextSibling(children[0]))

	body := doc.Children(children[1])
	require.Len(t, body, 1, "whitespace and comments are dropped")
	div := body[0]
	assert.Equal(t, "div", doc.Tag(div))
	id, ok := doc.Attr(div, "id")
	assert.True(t, ok, "attribute keys are lowercased by the HTML parser")
	assert.Equal(t, "main", id)
	class, _ := doc.Attr(div, "class")
	assert.Equal(t, "Box", class, "attribute values keep their case")

	inner := doc.Children(div)
	require.Len(t, inner, 2)
	assert.Equal(t, dom.TextNode, doc.Node(inner[0]).Kind)
	assert.Equal(t, "Hello ", doc.Text(inner[0]))
	assert.Equal(t, "b", doc.Tag(inner[1]))

	src := doc.Source(div)
	require.NotNil(t, src)
	back, ok := doc.Lookup(src)
	assert.True(t, ok)
	assert.Equal(t, div, back)
}

func TestFromHTML_EmptyInput(t *testing.T) {
	doc, err := dom.FromHTML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "html", doc.Tag(doc.Root()))
	assert.NoError(t, doc.Validate())
}

func TestCollectStyleText(t *testing.T) {
	doc, err := dom.FromHTML(strings.NewReader(`<html><head>
<style>p { color: red; }</style>
<style></style>
</head><body><style>div { display: block; }</style></body></html>`))
	require.NoError(t, err)

	sheets := dom.CollectStyleText(doc)
	assert.Equal(t, []string{"p { color: red; }", "div { display: block; }"}, sheets)
}
