package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Presentation represents a complete presentation document.
type Presentation struct {
	ID       string
	Name     string
	Slides   []Slide
	Theme    Theme
	Width    int // Slide width in pixels
	Height   int // Slide height in pixels
	Metadata Metadata
}

// Metadata contains document-level information
type Metadata struct {
	Author         string
	Title          string
	Subject        string
	Keywords       []string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
}

// Slide represents a single slide.
type Slide struct {
	ID         string
	Index      int    // 0-indexed position in the presentation
	LayoutID   string // Source layout identifier
	Elements   []Element
	Background Background
	Notes      string // Plain-text speaker notes
	Thumbnail  string // Optional cached thumbnail (data URI)
}

// SlideCount returns the number of slides
func (p *Presentation) SlideCount() int {
	return len(p.Slides)
}

// GetSlide returns a slide by index (0-indexed)
func (p *Presentation) GetSlide(index int) *Slide {
	if index < 0 || index >= len(p.Slides) {
		return nil
	}
	return &p.Slides[index]
}

// Validate checks the structural invariants of the presentation: positive
// slide dimensions and slide indices matching their array position.
func (p *Presentation) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid slide size %dx%d", p.Width, p.Height)
	}
	for i, s := range p.Slides {
		if s.Index != i {
			return fmt.Errorf("slide at position %d has index %d", i, s.Index)
		}
	}
	return nil
}

// SortedElements returns the slide's elements ordered by ascending z-index.
// Elements sharing a z-index keep their relative array order. The slide
// itself is not modified.
func (s *Slide) SortedElements() []Element {
	out := make([]Element, len(s.Elements))
	copy(out, s.Elements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex() < out[j].ZIndex()
	})
	return out
}

// Title returns the text of the slide's title placeholder, if any.
func (s *Slide) Title() string {
	for _, el := range s.SortedElements() {
		if t, ok := el.(*TextElement); ok && t.Placeholder == PlaceholderTitle {
			return strings.TrimSpace(t.Content.PlainText())
		}
	}
	return ""
}

// ExtractText concatenates all text-bearing elements in draw order
func (s *Slide) ExtractText() string {
	var sb strings.Builder
	for _, el := range s.SortedElements() {
		text := ElementText(el)
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// ExtractTables returns the slide's tables in draw order.
func (s *Slide) ExtractTables() []*TableElement {
	var tables []*TableElement
	for _, el := range s.SortedElements() {
		if t, ok := el.(*TableElement); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// ExtractText returns the text of every slide, separated by blank lines.
func (p *Presentation) ExtractText() string {
	var sb strings.Builder
	for i := range p.Slides {
		sb.WriteString(p.Slides[i].ExtractText())
		sb.WriteString("\n")
	}
	return sb.String()
}
