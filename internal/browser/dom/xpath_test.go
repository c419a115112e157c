package dom_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/tinybrowser/internal/browser/dom"
)

const testHTML = `
	<html>
	<body>
		<div id="header">
			<h1>Welcome</h1>
		</div>
		<div class="content">
			<p>P1</p><p>P2</p>
			<ul>
				<li>Item 1</li>
				<!-- comment -->
				<li>Item 2</li>
				<li id="special">Item 3</li>
			</ul>
		</div>
		<div class="content"><p>P3</p></div>
	</body>
	</html>
	`

func parseTestDoc(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.FromHTML(strings.NewReader(testHTML))
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
	return doc
}

func TestGenerateUniqueXPath(t *testing.T) {
	doc := parseTestDoc(t)

	tests := []struct {
		name          string
		targetXPath   string
		expectedXPath string
	}{
		{"Body", "//body", "/html[1]/body[1]"},
		{"Element with ID", "//div[@id='header']", `//*[@id='header']`},
		{"Child of ID element", "//h1", `//*[@id='header']/h1[1]`},
		{"Specific index", "(//p)[2]", "/html[1]/body[1]/div[2]/p[2]"},
		{"Ambiguous classes", "(//div[@class='content'])[2]/p", "/html[1]/body[1]/div[3]/p[1]"},
		{"List item skipping comments", "//ul/li[2]", "/html[1]/body[1]/div[2]/ul[1]/li[2]"},
		{"List item with ID", "//li[@id='special']", `//*[@id='special']`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := doc.QueryXPath(tt.targetXPath)
			require.NoError(t, err, "test setup: %s", tt.targetXPath)

			generated := doc.GenerateUniqueXPath(target)
			assert.Equal(t, tt.expectedXPath, generated)

			roundTrip, err := doc.QueryXPath(generated)
			require.NoError(t, err)
			assert.Equal(t, target, roundTrip, "generated XPath did not select the original node")
		})
	}
}

func TestQueryXPath_Errors(t *testing.T) {
	doc := parseTestDoc(t)

	_, err := doc.QueryXPath("//table")
	assert.ErrorIs(t, err, dom.ErrNotFound)

	_, err = doc.QueryXPath("//*[")
	assert.Error(t, err)

	built := dom.NewDocument()
	built.NewElement("div", nil)
	_, err = built.QueryXPath("//div")
	assert.ErrorIs(t, err, dom.ErrNoSource)
}
