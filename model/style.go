package model

// FillType is the fill variant of a shape or background.
type FillType int

const (
	FillNone FillType = iota
	FillSolid
	FillGradient
	FillPattern
)

func (f FillType) String() string {
	switch f {
	case FillSolid:
		return "solid"
	case FillGradient:
		return "gradient"
	case FillPattern:
		return "pattern"
	default:
		return "none"
	}
}

// GradientStop is one color stop of a gradient.
type GradientStop struct {
	Position float64 // 0-100
	Color    string
}

// Fill describes how a shape interior is painted.
type Fill struct {
	Type    FillType
	Color   string  // Solid color, or pattern foreground
	Opacity float64 // 0-1
	Angle   float64 // Linear gradient angle in degrees
	Stops   []GradientStop
}

// SolidFill returns an opaque solid fill.
func SolidFill(color string) Fill {
	return Fill{Type: FillSolid, Color: color, Opacity: 1}
}

// DashStyle is the dash pattern of an outline.
type DashStyle int

const (
	DashSolid DashStyle = iota
	DashDashed
	DashDotted
)

func (d DashStyle) String() string {
	switch d {
	case DashDashed:
		return "dashed"
	case DashDotted:
		return "dotted"
	default:
		return "solid"
	}
}

// Stroke describes a shape outline. A zero width means no outline.
type Stroke struct {
	Color   string
	Width   float64 // Points
	Dash    DashStyle
	Opacity float64 // 0-1
}

// Visible reports whether the stroke draws anything.
func (s Stroke) Visible() bool {
	return s.Width > 0
}

// BackgroundType is the background variant of a slide.
type BackgroundType int

const (
	BackgroundNone BackgroundType = iota
	BackgroundSolid
	BackgroundGradient
	BackgroundImage
)

func (b BackgroundType) String() string {
	switch b {
	case BackgroundSolid:
		return "solid"
	case BackgroundGradient:
		return "gradient"
	case BackgroundImage:
		return "image"
	default:
		return "none"
	}
}

// Background is the slide background.
type Background struct {
	Type  BackgroundType
	Color string
	Angle float64
	Stops []GradientStop
	Image string // data URI for image backgrounds
}
