package schemas_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/tinybrowser/api/schemas"
)

// TestStructJSONTags uses reflection to verify that the `json` tags on struct fields
// are correct. Reports written by older builds must stay readable.
func TestStructJSONTags(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name         string
		structRef    interface{}
		expectedTags map[string]string
	}{
		{
			name:      "LayoutSnapshot",
			structRef: schemas.LayoutSnapshot{},
			expectedTags: map[string]string{
				"PassID":    "pass_id",
				"Source":    "source,omitempty",
				"Viewport":  "viewport",
				"CreatedAt": "created_at",
				"Root":      "root",
			},
		},
		{
			name:      "BoxSnapshot",
			structRef: schemas.BoxSnapshot{},
			expectedTags: map[string]string{
				"Type":     "type",
				"Tag":      "tag,omitempty",
				"Text":     "text,omitempty",
				"XPath":    "xpath,omitempty",
				"Styles":   "styles,omitempty",
				"Content":  "content",
				"Padding":  "padding",
				"Border":   "border",
				"Margin":   "margin",
				"Children": "children,omitempty",
			},
		},
		{
			name:      "ElementGeometry",
			structRef: schemas.ElementGeometry{},
			expectedTags: map[string]string{
				"Vertices": "vertices",
				"Width":    "width",
				"Height":   "height",
				"TagName":  "tagName",
				"Type":     "type,omitempty",
			},
		},
		{
			name:      "Edges",
			structRef: schemas.Edges{},
			expectedTags: map[string]string{
				"Top":    "top",
				"Right":  "right",
				"Bottom": "bottom",
				"Left":   "left",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			structType := reflect.TypeOf(tc.structRef)
			actualTags := make(map[string]string)

			for i := 0; i < structType.NumField(); i++ {
				field := structType.Field(i)
				if jsonTag := field.Tag.Get("json"); jsonTag != "" {
					actualTags[field.Name] = jsonTag
				}
			}
			assert.Equal(t, tc.expectedTags, actualTags, "JSON tags for struct %s do not match expectations", tc.name)
		})
	}
}

func TestLayoutSnapshot_Count(t *testing.T) {
	var nilSnap *schemas.LayoutSnapshot
	assert.Equal(t, 0, nilSnap.Count())
	assert.Equal(t, 0, (&schemas.LayoutSnapshot{}).Count())

	snap := &schemas.LayoutSnapshot{Root: &schemas.BoxSnapshot{
		Children: []*schemas.BoxSnapshot{
			{Children: []*schemas.BoxSnapshot{{}, {}}},
			{},
		},
	}}
	assert.Equal(t, 5, snap.Count())
}

func TestBoxType_String(t *testing.T) {
	assert.Equal(t, "BLOCK", schemas.BoxBlock.String())
	assert.Equal(t, "ANONYMOUS", schemas.BoxAnonymous.String())
}
