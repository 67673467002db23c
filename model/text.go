package model

import "strings"

// TextAlignment represents paragraph alignment
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a TextAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// BulletKind is the list marker of a paragraph.
type BulletKind int

const (
	BulletNone BulletKind = iota
	BulletChar
	BulletNumber
)

func (b BulletKind) String() string {
	switch b {
	case BulletChar:
		return "bullet"
	case BulletNumber:
		return "number"
	default:
		return "none"
	}
}

// Defaults applied when a run or paragraph does not say otherwise.
const (
	DefaultFont       = "Calibri"
	DefaultFontSize   = 18.0 // points
	DefaultColor      = "#000000"
	DefaultLineHeight = 1.0
)

// TextContent is a sequence of paragraphs.
type TextContent struct {
	Paragraphs []Paragraph
}

// Paragraph represents a paragraph within a text body.
type Paragraph struct {
	Runs        []TextRun
	Align       TextAlignment
	LineHeight  float64 // Multiple of single spacing
	SpaceBefore float64 // Points
	SpaceAfter  float64 // Points
	Bullet      BulletKind
	Level       int // Indent level (0 = top level)
}

// TextRun represents a text run with consistent formatting.
type TextRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Font      string
	Size      float64 // Points
	Color     string  // #RRGGBB
	Hyperlink string  // Target URL, or "#slideN" for internal jumps
}

// NewRun returns a run carrying the default formatting.
func NewRun(text string) TextRun {
	return TextRun{
		Text:  text,
		Font:  DefaultFont,
		Size:  DefaultFontSize,
		Color: DefaultColor,
	}
}

// Text returns the concatenated run text of the paragraph.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsEmpty reports whether no run in the paragraph carries text.
func (p Paragraph) IsEmpty() bool {
	for _, r := range p.Runs {
		if r.Text != "" {
			return false
		}
	}
	return true
}

// PlainText returns the paragraphs' text joined with newlines.
func (c TextContent) PlainText() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// IsEmpty reports whether the content carries no text at all.
func (c TextContent) IsEmpty() bool {
	for _, p := range c.Paragraphs {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}

// PlainTextContent builds content from plain text, one paragraph per line,
// using the default run formatting.
func PlainTextContent(text string) TextContent {
	lines := strings.Split(text, "\n")
	c := TextContent{Paragraphs: make([]Paragraph, 0, len(lines))}
	for _, line := range lines {
		c.Paragraphs = append(c.Paragraphs, Paragraph{
			Runs:       []TextRun{NewRun(line)},
			LineHeight: DefaultLineHeight,
		})
	}
	return c
}
