package model

import (
	"strings"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindText, "text"},
		{KindShape, "shape"},
		{KindImage, "image"},
		{KindTable, "table"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestElementKinds(t *testing.T) {
	elements := []Element{
		&TextElement{},
		&ShapeElement{},
		&ImageElement{},
		NewTable(1, 1),
	}
	want := []Kind{KindText, KindShape, KindImage, KindTable}

	for i, el := range elements {
		if el.Kind() != want[i] {
			t.Errorf("element %d Kind() = %v, want %v", i, el.Kind(), want[i])
		}
	}
}

func TestSlide_SortedElements(t *testing.T) {
	s := Slide{Elements: []Element{
		&TextElement{Base: Base{ID: "a", Z: 3}},
		&ShapeElement{Base: Base{ID: "b", Z: 1}},
		&ImageElement{Base: Base{ID: "c", Z: 2}},
		&ShapeElement{Base: Base{ID: "d", Z: 1}},
	}}

	sorted := s.SortedElements()
	var ids []string
	for _, el := range sorted {
		ids = append(ids, el.Common().ID)
	}
	if got := strings.Join(ids, ","); got != "b,d,c,a" {
		t.Errorf("SortedElements() order = %s, want b,d,c,a", got)
	}

	// The slide itself is untouched.
	if s.Elements[0].Common().ID != "a" {
		t.Error("SortedElements() modified the slide")
	}
}

func TestSlide_Title(t *testing.T) {
	s := Slide{Elements: []Element{
		&TextElement{Base: Base{Z: 0}, Content: PlainTextContent("Body text"), Placeholder: PlaceholderBody},
		&TextElement{Base: Base{Z: 1}, Content: PlainTextContent("  The Title "), Placeholder: PlaceholderTitle},
	}}

	if got := s.Title(); got != "The Title" {
		t.Errorf("Title() = %q, want %q", got, "The Title")
	}
}

func TestSlide_ExtractTables(t *testing.T) {
	back := NewTable(1, 1)
	back.Name, back.Z = "back", 1
	front := NewTable(1, 1)
	front.Name, front.Z = "front", 4
	s := Slide{Elements: []Element{
		front,
		&TextElement{Base: Base{Name: "t", Z: 2}},
		back,
	}}

	tables := s.ExtractTables()
	if len(tables) != 2 {
		t.Fatalf("ExtractTables() = %d tables, want 2", len(tables))
	}
	if tables[0].Name != "back" || tables[1].Name != "front" {
		t.Errorf("order = %q, %q, want back, front", tables[0].Name, tables[1].Name)
	}
}

func TestPresentation_Validate(t *testing.T) {
	p := &Presentation{Width: 960, Height: 540, Slides: []Slide{{Index: 0}, {Index: 1}}}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	p.Slides[1].Index = 5
	if err := p.Validate(); err == nil {
		t.Error("Validate() with non-contiguous indices should fail")
	}

	p.Slides[1].Index = 1
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() after fixing index = %v", err)
	}

	p.Width = 0
	if err := p.Validate(); err == nil {
		t.Error("Validate() with zero width should fail")
	}
}

func TestPresentation_GetSlide(t *testing.T) {
	p := &Presentation{Slides: []Slide{{Index: 0, Notes: "n"}}}
	if p.GetSlide(0) == nil || p.GetSlide(0).Notes != "n" {
		t.Error("GetSlide(0) did not return the slide")
	}
	if p.GetSlide(1) != nil || p.GetSlide(-1) != nil {
		t.Error("GetSlide out of range should return nil")
	}
	if p.SlideCount() != 1 {
		t.Errorf("SlideCount() = %d, want 1", p.SlideCount())
	}
}

func TestTextContent_PlainText(t *testing.T) {
	c := TextContent{Paragraphs: []Paragraph{
		{Runs: []TextRun{{Text: "Hello "}, {Text: "world"}}},
		{Runs: []TextRun{{Text: ""}}},
		{Runs: []TextRun{{Text: "Bye"}}},
	}}

	if got := c.PlainText(); got != "Hello world\n\nBye" {
		t.Errorf("PlainText() = %q", got)
	}
	if c.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !c.Paragraphs[1].IsEmpty() {
		t.Error("Paragraph.IsEmpty() = false for empty run")
	}
}

func TestPlainTextContent(t *testing.T) {
	c := PlainTextContent("a\nb")
	if len(c.Paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(c.Paragraphs))
	}
	r := c.Paragraphs[0].Runs[0]
	if r.Font != DefaultFont || r.Size != DefaultFontSize || r.Color != DefaultColor {
		t.Errorf("run defaults = %+v", r)
	}
}

func TestThemeColors_Lookup(t *testing.T) {
	var c ThemeColors
	c.Set("accent2", "#FF8800")
	c.Set("dk1", "#111111")
	c.Set("bogus", "#222222")

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"accent2", "#FF8800", true},
		{"dk1", "#111111", true},
		{"tx1", "#111111", true},
		{"accent1", "", false},
		{"bogus", "", false},
	}

	for _, tt := range tests {
		got, ok := c.Lookup(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDefaultTheme(t *testing.T) {
	th := DefaultTheme()
	for _, slot := range SchemeSlots {
		if _, ok := th.Colors.Lookup(slot); !ok {
			t.Errorf("DefaultTheme slot %s undefined", slot)
		}
	}
	if th.Colors.IsZero() {
		t.Error("DefaultTheme colors are zero")
	}
}

func TestTable_ToMarkdown(t *testing.T) {
	table := NewTable(2, 2)
	table.SetCell(0, 0, Cell{Text: "A", RowSpan: 1, ColSpan: 1})
	table.SetCell(0, 1, Cell{Text: "B|C", RowSpan: 1, ColSpan: 1})
	table.SetCell(1, 0, Cell{Text: "1", RowSpan: 1, ColSpan: 1})
	table.SetCell(1, 1, Cell{Text: "2\n3", RowSpan: 1, ColSpan: 1})

	want := "| A | B\\|C |\n|---|---|\n| 1 | 2 3 |\n"
	if got := table.ToMarkdown(); got != want {
		t.Errorf("ToMarkdown() = %q, want %q", got, want)
	}

	if err := table.SetCell(5, 0, Cell{}); err == nil {
		t.Error("SetCell out of bounds should fail")
	}
	if table.GetCell(0, 9) != nil {
		t.Error("GetCell out of bounds should be nil")
	}
}

func TestElementText(t *testing.T) {
	table := NewTable(1, 2)
	table.Cells[0][0].Text = "x"
	table.Cells[0][1].Text = "y"

	tests := []struct {
		el   Element
		want string
	}{
		{&TextElement{Content: PlainTextContent("t")}, "t"},
		{&ShapeElement{}, ""},
		{&ImageElement{AltText: "alt"}, "alt"},
		{table, "x\ty"},
	}

	for _, tt := range tests {
		if got := ElementText(tt.el); got != tt.want {
			t.Errorf("ElementText(%v) = %q, want %q", tt.el.Kind(), got, tt.want)
		}
	}
}

func TestWarning_String(t *testing.T) {
	w := Warning{Kind: WarningMissingMedia, Slide: 1, Element: "Picture 3", Message: "rId4 not found"}
	if got := w.String(); got != `missing-media slide 2 "Picture 3": rId4 not found` {
		t.Errorf("String() = %q", got)
	}

	doc := Warning{Kind: WarningMalformedPart, Slide: -1}
	if got := doc.String(); got != "malformed-part" {
		t.Errorf("String() = %q", got)
	}
}

func TestShapeKind(t *testing.T) {
	if ShapeStar5.String() != "star5" {
		t.Errorf("ShapeStar5.String() = %q", ShapeStar5.String())
	}
	if ShapeKind(99).String() != "other" {
		t.Error("out of range ShapeKind should be other")
	}
	if !ShapeConnector.IsLine() || ShapeEllipse.IsLine() {
		t.Error("IsLine mismatch")
	}
}
