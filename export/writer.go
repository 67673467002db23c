// Package export serializes a presentation model through a package
// writer. It owns every export-side rule: z-order, geometry clamps, color
// and text sanitization, and image validation. The concrete file format
// lives behind the Writer interface.
package export

import (
	"time"

	"github.com/tsawler/deckcodec/model"
)

// Writer is a stateful package builder. Calls are made from a single
// goroutine, one at a time.
type Writer interface {
	SetMetadata(Metadata)
	// DefineLayout sets the slide size in inches.
	DefineLayout(width, height float64)
	SetTheme(model.Theme)
	AddSlide() SlideWriter
	// Bytes serializes the finished package.
	Bytes() ([]byte, error)
}

// SlideWriter receives the content of one slide.
type SlideWriter interface {
	SetBackground(BackgroundSpec)
	AddText(TextSpec)
	AddShape(ShapeSpec)
	AddImage(ImageSpec)
	AddTable(TableSpec)
	SetNotes(string)
}

// Metadata is the document properties block.
type Metadata struct {
	Author         string
	Title          string
	Subject        string
	Keywords       []string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
}

// Frame positions an element. Lengths are in inches.
type Frame struct {
	Name     string
	X, Y     float64
	W, H     float64
	Rotation float64 // Degrees clockwise
	FlipH    bool
	FlipV    bool
	Locked   bool
	Z        int
}

// ParagraphSpec holds paragraph formatting. It travels on every run of
// the paragraph.
type ParagraphSpec struct {
	Align       model.TextAlignment
	LineHeight  float64 // Multiple of single spacing
	SpaceBefore float64 // Points
	SpaceAfter  float64 // Points
	Bullet      model.BulletKind
	Level       int
}

// RunSpec is one sanitized text run. Break ends the paragraph after this
// run.
type RunSpec struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Font      string
	Size      float64 // Points
	Color     string  // RRGGBB
	Hyperlink string
	Break     bool
	Paragraph ParagraphSpec
}

// Paragraphs groups runs back into paragraphs using the Break flags.
func Paragraphs(runs []RunSpec) [][]RunSpec {
	var out [][]RunSpec
	start := 0
	for i, r := range runs {
		if r.Break {
			out = append(out, runs[start:i+1])
			start = i + 1
		}
	}
	if start < len(runs) {
		out = append(out, runs[start:])
	}
	return out
}

// TextSpec is a text box.
type TextSpec struct {
	Frame
	Runs        []RunSpec
	Box         model.TextBox
	Placeholder model.Placeholder
}

// FillSpec is a sanitized fill. Colors are RRGGBB.
type FillSpec struct {
	Type         model.FillType
	Color        string
	Transparency float64 // 0-1, 0 is opaque
	Angle        float64
	Stops        []model.GradientStop
}

// LineSpec is a visible outline.
type LineSpec struct {
	Color        string
	Width        float64 // Points, always > 0
	Dash         model.DashStyle
	Transparency float64
}

// ShapeSpec is a preset geometry. Line is nil when the shape has no
// outline.
type ShapeSpec struct {
	Frame
	Shape model.ShapeKind
	Fill  FillSpec
	Line  *LineSpec
	Runs  []RunSpec
	Box   model.TextBox
}

// ImageData is a validated image payload: either embedded bytes or an
// external http(s) URL.
type ImageData struct {
	Data   []byte
	MIME   string
	URL    string
	Width  int // Intrinsic pixels, 0 when unknown
	Height int
}

// External reports whether the image is linked rather than embedded.
func (d ImageData) External() bool {
	return d.URL != ""
}

// ImageSpec is a picture.
type ImageSpec struct {
	Frame
	Image   ImageData
	AltText string
}

// CellSpec is one table cell.
type CellSpec struct {
	Text    string
	RowSpan int
	ColSpan int
	Merged  bool
}

// TableSpec is a table. Widths and heights are in inches.
type TableSpec struct {
	Frame
	Cells        [][]CellSpec
	ColumnWidths []float64
	RowHeights   []float64
}

// BackgroundSpec is a slide background: an image when Image is set,
// otherwise the solid Color (RRGGBB).
type BackgroundSpec struct {
	Color string
	Image *ImageData
}
