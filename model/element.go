package model

import "strings"

// Kind identifies an element variant.
type Kind int

const (
	KindText Kind = iota
	KindShape
	KindImage
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindShape:
		return "shape"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Element is the interface for all slide elements. It is sealed: the only
// implementations are *TextElement, *ShapeElement, *ImageElement and
// *TableElement.
type Element interface {
	Kind() Kind
	Common() Base
	ZIndex() int
	isElement()
}

// Base holds the properties shared by every element variant.
type Base struct {
	ID       string
	Name     string
	X, Y     int     // Position in pixels
	Width    int     // Width in pixels
	Height   int     // Height in pixels
	Rotation float64 // Clockwise rotation in degrees
	Locked   bool
	Z        int // Draw order; higher renders above lower
}

// Common returns the shared element properties.
func (b Base) Common() Base { return b }

// ZIndex returns the draw order key.
func (b Base) ZIndex() int { return b.Z }

// Placeholder identifies the layout placeholder a text element fills.
type Placeholder int

const (
	PlaceholderNone Placeholder = iota
	PlaceholderTitle
	PlaceholderSubtitle
	PlaceholderBody
	PlaceholderDate
	PlaceholderFooter
	PlaceholderSlideNumber
)

func (p Placeholder) String() string {
	switch p {
	case PlaceholderTitle:
		return "title"
	case PlaceholderSubtitle:
		return "subtitle"
	case PlaceholderBody:
		return "body"
	case PlaceholderDate:
		return "date"
	case PlaceholderFooter:
		return "footer"
	case PlaceholderSlideNumber:
		return "slide-number"
	default:
		return ""
	}
}

// IsFooter reports whether the placeholder is a footer element (footer,
// date or slide number).
func (p Placeholder) IsFooter() bool {
	switch p {
	case PlaceholderFooter, PlaceholderDate, PlaceholderSlideNumber:
		return true
	}
	return false
}

// VerticalAlign is the vertical anchoring of text inside its box.
type VerticalAlign int

const (
	VAlignTop VerticalAlign = iota
	VAlignMiddle
	VAlignBottom
)

// AutoFit describes how a text box reacts to overflowing text.
type AutoFit int

const (
	AutoFitNone   AutoFit = iota
	AutoFitShrink         // shrink text on overflow
	AutoFitResize         // resize shape to fit text
)

// Padding holds box insets in pixels.
type Padding struct {
	Top, Right, Bottom, Left int
}

// TextBox holds text body properties.
type TextBox struct {
	VerticalAlign VerticalAlign
	Padding       Padding
	AutoFit       AutoFit
	Wrap          bool
	Columns       int
}

// DefaultTextBox returns the box properties implied by an empty bodyPr.
func DefaultTextBox() TextBox {
	return TextBox{
		Padding: Padding{Top: 5, Right: 10, Bottom: 5, Left: 10},
		Wrap:    true,
		Columns: 1,
	}
}

// TextElement is a text box or text placeholder.
type TextElement struct {
	Base
	Content     TextContent
	Box         TextBox
	Placeholder Placeholder
}

func (*TextElement) Kind() Kind { return KindText }
func (*TextElement) isElement() {}

// ShapeKind enumerates the supported preset geometries.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeRoundedRectangle
	ShapeEllipse
	ShapeTriangle
	ShapeDiamond
	ShapePentagon
	ShapeHexagon
	ShapeStar5
	ShapeStar6
	ShapeArrow
	ShapeChevron
	ShapeCallout
	ShapeLine
	ShapeCurvedLine
	ShapeConnector
	ShapeOther // Unsupported preset, rendered as a rectangle
)

var shapeKindNames = [...]string{
	ShapeRectangle:        "rectangle",
	ShapeRoundedRectangle: "rounded-rectangle",
	ShapeEllipse:          "ellipse",
	ShapeTriangle:         "triangle",
	ShapeDiamond:          "diamond",
	ShapePentagon:         "pentagon",
	ShapeHexagon:          "hexagon",
	ShapeStar5:            "star5",
	ShapeStar6:            "star6",
	ShapeArrow:            "arrow",
	ShapeChevron:          "chevron",
	ShapeCallout:          "callout",
	ShapeLine:             "line",
	ShapeCurvedLine:       "curved-line",
	ShapeConnector:        "connector",
	ShapeOther:            "other",
}

func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeKindNames) {
		return "other"
	}
	return shapeKindNames[k]
}

// IsLine reports whether the shape is a one-dimensional path.
func (k ShapeKind) IsLine() bool {
	return k == ShapeLine || k == ShapeCurvedLine || k == ShapeConnector
}

// ShapeElement is a preset geometry with fill, stroke and optional text.
type ShapeElement struct {
	Base
	Shape  ShapeKind
	Fill   Fill
	Stroke Stroke
	Text   *TextContent // nil when the shape carries no text
	Box    TextBox
	FlipH  bool
	FlipV  bool
}

func (*ShapeElement) Kind() Kind { return KindShape }
func (*ShapeElement) isElement() {}

// ImageElement is a picture resolved to inline data.
type ImageElement struct {
	Base
	Src           string // data URI or http(s) URL
	Path          string // Original part path inside the package, if any
	AltText       string
	NaturalWidth  int // Intrinsic pixel size, 0 when unknown
	NaturalHeight int
}

func (*ImageElement) Kind() Kind { return KindImage }
func (*ImageElement) isElement() {}

// ElementText returns the plain text carried by an element, if any.
func ElementText(el Element) string {
	switch e := el.(type) {
	case *TextElement:
		return e.Content.PlainText()
	case *ShapeElement:
		if e.Text == nil {
			return ""
		}
		return e.Text.PlainText()
	case *ImageElement:
		return e.AltText
	case *TableElement:
		return strings.TrimRight(e.GetText(), "\n")
	}
	return ""
}
