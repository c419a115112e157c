package schemas

import "time"

// -- Layout Snapshot Schemas --

// BoxType names the kind of box in a layout snapshot.
type BoxType string

const (
	BoxBlock     BoxType = "BLOCK"
	BoxInline    BoxType = "INLINE"
	BoxAnonymous BoxType = "ANONYMOUS"
)

func (b BoxType) String() string { return string(b) }

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Edges holds the four side sizes of a margin, border or padding area.
type Edges struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Viewport is the initial containing block a pass was laid out against.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoxSnapshot is the serializable form of one layout box and its subtree.
type BoxSnapshot struct {
	Type BoxType `json:"type"`
	// Tag is empty for anonymous boxes and text.
	Tag   string `json:"tag,omitempty"`
	Text  string `json:"text,omitempty"`
	XPath string `json:"xpath,omitempty"`
	// Styles holds the computed declarations of the box's element.
	Styles   map[string]string `json:"styles,omitempty"`
	Content  Rect              `json:"content"`
	Padding  Edges             `json:"padding"`
	Border   Edges             `json:"border"`
	Margin   Edges             `json:"margin"`
	Children []*BoxSnapshot    `json:"children,omitempty"`
}

// LayoutSnapshot is the result of a single render pass.
type LayoutSnapshot struct {
	PassID    string       `json:"pass_id"`
	Source    string       `json:"source,omitempty"`
	Viewport  Viewport     `json:"viewport"`
	CreatedAt time.Time    `json:"created_at"`
	Root      *BoxSnapshot `json:"root"`
}

// Count returns the number of boxes in the snapshot.
func (s *LayoutSnapshot) Count() int {
	if s == nil || s.Root == nil {
		return 0
	}
	n := 0
	var walk func(*BoxSnapshot)
	walk = func(b *BoxSnapshot) {
		n++
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return n
}

// ElementGeometry defines the bounding box, vertices, and metadata of a DOM element.
type ElementGeometry struct {
	// Vertices of the border box, clockwise from the top-left corner.
	Vertices []float64 `json:"vertices"`
	Width    int64     `json:"width"`
	Height   int64     `json:"height"`
	// TagName (e.g., "INPUT", "BUTTON").
	TagName string `json:"tagName"`
	// Type (e.g., 'text', 'password', 'checkbox') from the element's type attribute.
	Type string `json:"type,omitempty"`
}
