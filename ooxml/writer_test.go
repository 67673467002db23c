package ooxml

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/deckcodec/export"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/pptx"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// unzip returns every part of a package keyed by name.
func unzip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("package is not a zip: %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		parts[f.Name] = string(b)
	}
	return parts
}

func textSpec(name, text string, z int) export.TextSpec {
	return export.TextSpec{
		Frame: export.Frame{Name: name, X: 1, Y: 1, W: 2, H: 1, Z: z},
		Runs:  []export.RunSpec{{Text: text, Font: "Calibri", Size: 18, Color: "000000", Paragraph: export.ParagraphSpec{LineHeight: 1}}},
		Box:   model.DefaultTextBox(),
	}
}

func TestWriter_PackageParts(t *testing.T) {
	w := New(WithClock(func() time.Time { return fixedTime }))
	w.SetMetadata(export.Metadata{Author: "ann", Title: "T & C", Keywords: []string{"a", "b"}})
	w.DefineLayout(10, 7.5)
	s1 := w.AddSlide()
	s1.AddText(textSpec("Title", "hello", 0))
	s1.SetNotes("remember")
	w.AddSlide()

	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	parts := unzip(t, data)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/theme/theme1.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/notesSlides/notesSlide1.xml",
		"ppt/notesMasters/notesMaster1.xml",
		"ppt/theme/theme2.xml",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	if _, ok := parts["ppt/notesSlides/notesSlide2.xml"]; ok {
		t.Error("slide without notes got a notes part")
	}

	if !strings.Contains(parts["ppt/presentation.xml"], `<p:sldSz cx="9144000" cy="6858000"/>`) {
		t.Errorf("slide size not written: %s", parts["ppt/presentation.xml"])
	}
	core := parts["docProps/core.xml"]
	for _, want := range []string{
		"<dc:title>T &amp; C</dc:title>",
		"<dc:creator>ann</dc:creator>",
		"<cp:keywords>a; b</cp:keywords>",
		"2024-03-01T12:00:00Z",
	} {
		if !strings.Contains(core, want) {
			t.Errorf("core.xml missing %q", want)
		}
	}
	ct := parts["[Content_Types].xml"]
	if !strings.Contains(ct, `PartName="/ppt/notesSlides/notesSlide1.xml"`) {
		t.Error("notes slide override missing")
	}
	if !strings.Contains(parts["ppt/slides/_rels/slide1.xml.rels"], "../notesSlides/notesSlide1.xml") {
		t.Error("slide 1 does not reference its notes")
	}
}

func TestWriter_NoNotesMasterWithoutNotes(t *testing.T) {
	w := New()
	w.AddSlide().AddText(textSpec("a", "x", 0))
	data, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	parts := unzip(t, data)
	if _, ok := parts["ppt/notesMasters/notesMaster1.xml"]; ok {
		t.Error("notes master written without notes")
	}
	if strings.Contains(parts["ppt/presentation.xml"], "notesMasterIdLst") {
		t.Error("presentation references a notes master")
	}
}

func TestWriter_MediaDedupe(t *testing.T) {
	img := export.ImageData{Data: pngBytes(t, 2, 2), MIME: "image/png", Width: 2, Height: 2}
	other := export.ImageData{Data: pngBytes(t, 3, 3), MIME: "image/png", Width: 3, Height: 3}

	w := New()
	s := w.AddSlide()
	s.SetBackground(export.BackgroundSpec{Color: "FFFFFF", Image: &img})
	s.AddImage(export.ImageSpec{Frame: export.Frame{W: 1, H: 1}, Image: img})
	w.AddSlide().AddImage(export.ImageSpec{Frame: export.Frame{W: 1, H: 1}, Image: img})
	w.AddSlide().AddImage(export.ImageSpec{Frame: export.Frame{W: 1, H: 1}, Image: other})

	data, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	var media []string
	for name := range unzip(t, data) {
		if strings.HasPrefix(name, "ppt/media/") {
			media = append(media, name)
		}
	}
	if len(media) != 2 {
		t.Errorf("media parts = %v, want 2", media)
	}
}

func TestWriter_MediaCacheEviction(t *testing.T) {
	a := pngBytes(t, 1, 1)
	b := pngBytes(t, 1, 2)

	w := New(WithMediaCacheSize(1))
	s := w.AddSlide()
	for _, d := range [][]byte{a, b, a} {
		s.AddImage(export.ImageSpec{Frame: export.Frame{W: 1, H: 1}, Image: export.ImageData{Data: d, MIME: "image/png"}})
	}
	if len(w.media) != 3 {
		t.Errorf("media = %d, want 3 once the first entry is evicted", len(w.media))
	}
}

func TestWriter_ExternalImageAndLinks(t *testing.T) {
	w := New()
	s := w.AddSlide()
	s.AddImage(export.ImageSpec{
		Frame: export.Frame{W: 1, H: 1},
		Image: export.ImageData{URL: "https://example.com/a.png"},
	})
	spec := textSpec("t", "go", 0)
	spec.Runs[0].Hyperlink = "#slide7"
	s.AddText(spec)

	data, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	rels := unzip(t, data)["ppt/slides/_rels/slide1.xml.rels"]
	if !strings.Contains(rels, `Target="https://example.com/a.png" TargetMode="External"`) {
		t.Errorf("external image rel missing: %s", rels)
	}
	if !strings.Contains(rels, `Target="#slide7" TargetMode="External"`) {
		t.Errorf("out-of-range slide link should stay external: %s", rels)
	}
}

func TestExtents(t *testing.T) {
	got := extents([]float64{1, 2}, 2, 10)
	if got[0] != 914400 || got[1] != 1828800 {
		t.Errorf("extents(matching) = %v", got)
	}
	got = extents([]float64{1}, 2, 4)
	if got[0] != 1828800 || got[1] != 1828800 {
		t.Errorf("extents(mismatch) = %v", got)
	}
	got = extents([]float64{1, 0}, 2, 2)
	if got[0] != 914400 {
		t.Errorf("extents(zero width) = %v", got)
	}
}

func TestMergeFlags(t *testing.T) {
	cells := [][]export.CellSpec{
		{{RowSpan: 2, ColSpan: 2}, {RowSpan: 1, ColSpan: 1}, {RowSpan: 1, ColSpan: 1}},
		{{RowSpan: 1, ColSpan: 1}, {RowSpan: 1, ColSpan: 1}, {RowSpan: 1, ColSpan: 1}},
	}
	h, v := mergeFlags(cells, 2, 3)
	if !h[0][1] || v[0][1] {
		t.Errorf("(0,1) h=%v v=%v, want hMerge", h[0][1], v[0][1])
	}
	if h[1][0] || !v[1][0] {
		t.Errorf("(1,0) h=%v v=%v, want vMerge", h[1][0], v[1][0])
	}
	if !h[1][1] || !v[1][1] {
		t.Errorf("(1,1) h=%v v=%v, want both", h[1][1], v[1][1])
	}
	if h[0][2] || v[0][2] {
		t.Error("(0,2) should not be merged")
	}
}

func TestPresetGeometry(t *testing.T) {
	tests := map[model.ShapeKind]string{
		model.ShapeRectangle:  "rect",
		model.ShapeEllipse:    "ellipse",
		model.ShapeArrow:      "rightArrow",
		model.ShapeCallout:    "wedgeRectCallout",
		model.ShapeCurvedLine: "curvedConnector3",
		model.ShapeOther:      "rect",
	}
	for kind, want := range tests {
		if got := presetGeometry(kind); got != want {
			t.Errorf("presetGeometry(%v) = %q, want %q", kind, got, want)
		}
	}
}

// roundTrip exports p and decodes the result.
func roundTrip(t *testing.T, p *model.Presentation) (*model.Presentation, []model.Warning) {
	t.Helper()
	data, exportWarnings, err := export.Export(p, New(WithClock(func() time.Time { return fixedTime })), export.Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	pkg, err := pptx.PackageFromBytes(data)
	if err != nil {
		t.Fatalf("PackageFromBytes() error = %v", err)
	}
	out, warnings, err := pptx.Decode(context.Background(), pkg, pptx.Options{Workers: 2})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return out, append(exportWarnings, warnings...)
}

func base(name string, x, y, w, h, z int) model.Base {
	return model.Base{Name: name, X: x, Y: y, Width: w, Height: h, Z: z}
}

func TestRoundTrip(t *testing.T) {
	red := model.NewRun("world")
	red.Italic = true
	red.Color = "#FF0000"
	red.Size = 24
	red.Hyperlink = "https://example.com"
	bold := model.NewRun("Hello ")
	bold.Bold = true
	jump := model.NewRun("Next")
	jump.Hyperlink = "#slide2"
	jump.Underline = true

	title := &model.TextElement{
		Base: base("Title", 96, 48, 480, 96, 5),
		Content: model.TextContent{Paragraphs: []model.Paragraph{
			{Runs: []model.TextRun{bold, red}, LineHeight: 1},
			{Runs: []model.TextRun{jump}, Align: model.AlignCenter, LineHeight: 1.5, Bullet: model.BulletChar, Level: 1},
		}},
		Box:         model.DefaultTextBox(),
		Placeholder: model.PlaceholderTitle,
	}
	ellipse := &model.ShapeElement{
		Base:   base("Oval", 192, 192, 96, 96, 1),
		Shape:  model.ShapeEllipse,
		Fill:   model.Fill{Type: model.FillSolid, Color: "#00FF00", Opacity: 0.5},
		Stroke: model.Stroke{Color: "#0000FF", Width: 2, Dash: model.DashDashed, Opacity: 1},
		Box:    model.DefaultTextBox(),
	}
	ellipse.Rotation = 45
	line := &model.ShapeElement{
		Base:  base("Rule", 0, 300, 960, 1, 3),
		Shape: model.ShapeLine,
		Box:   model.DefaultTextBox(),
	}
	pic := &model.ImageElement{
		Base:    base("Logo", 10, 10, 50, 50, 4),
		Src:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 2, 3)),
		AltText: "company logo",
	}
	table := model.NewTable(2, 2)
	table.Base = base("Grid", 96, 400, 192, 96, 6)
	table.Cells[0][0] = model.Cell{Text: "wide", RowSpan: 1, ColSpan: 2}
	table.Cells[0][1] = model.Cell{RowSpan: 1, ColSpan: 1, Merged: true}
	table.Cells[1][0] = model.Cell{Text: "a", RowSpan: 1, ColSpan: 1}
	table.Cells[1][1] = model.Cell{Text: "b", RowSpan: 1, ColSpan: 1}
	table.ColumnWidths = []int{96, 96}
	table.RowHeights = []int{48, 48}

	in := &model.Presentation{
		Width:    960,
		Height:   540,
		Metadata: model.Metadata{Title: "Deck", Keywords: []string{"q3", "plan"}},
		Slides: []model.Slide{
			{
				Elements:   []model.Element{title, ellipse, line, pic, table},
				Background: model.Background{Type: model.BackgroundSolid, Color: "#112233"},
				Notes:      "line one\nline two",
			},
			{Elements: []model.Element{&model.TextElement{
				Base:    base("Body", 0, 0, 96, 96, 0),
				Content: model.PlainTextContent("second"),
				Box:     model.DefaultTextBox(),
			}}},
		},
	}

	out, warnings := roundTrip(t, in)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if out.Width != 960 || out.Height != 540 {
		t.Errorf("size = %dx%d", out.Width, out.Height)
	}
	if out.Metadata.Title != "Deck" || out.Metadata.Author != export.DefaultAuthor {
		t.Errorf("metadata = %+v", out.Metadata)
	}
	if strings.Join(out.Metadata.Keywords, ",") != "q3,plan" {
		t.Errorf("keywords = %v", out.Metadata.Keywords)
	}
	if !out.Metadata.Created.Equal(fixedTime) {
		t.Errorf("created = %v", out.Metadata.Created)
	}
	if out.Theme.Colors.Accent1 != "#4472C4" {
		t.Errorf("theme accent1 = %q", out.Theme.Colors.Accent1)
	}
	if len(out.Slides) != 2 {
		t.Fatalf("slides = %d", len(out.Slides))
	}

	s := out.Slides[0]
	if s.Notes != "line one\nline two" {
		t.Errorf("notes = %q", s.Notes)
	}
	if s.Background.Type != model.BackgroundSolid || s.Background.Color != "#112233" {
		t.Errorf("background = %+v", s.Background)
	}

	els := s.SortedElements()
	if len(els) != 5 {
		t.Fatalf("elements = %d, want 5", len(els))
	}
	wantZ := []int{1, 3, 4, 5, 6}
	for i, el := range els {
		if el.ZIndex() != wantZ[i] {
			t.Errorf("element %d z = %d, want %d", i, el.ZIndex(), wantZ[i])
		}
	}

	gotEllipse, ok := els[0].(*model.ShapeElement)
	if !ok {
		t.Fatalf("element 0 is %T", els[0])
	}
	if gotEllipse.Shape != model.ShapeEllipse || gotEllipse.Rotation != 45 {
		t.Errorf("ellipse = %v rot %v", gotEllipse.Shape, gotEllipse.Rotation)
	}
	if gotEllipse.X != 192 || gotEllipse.Y != 192 || gotEllipse.Width != 96 || gotEllipse.Height != 96 {
		t.Errorf("ellipse geometry = %+v", gotEllipse.Base)
	}
	if gotEllipse.Fill.Color != "#00FF00" || gotEllipse.Fill.Opacity != 0.5 {
		t.Errorf("fill = %+v", gotEllipse.Fill)
	}
	if gotEllipse.Stroke.Color != "#0000FF" || gotEllipse.Stroke.Width != 2 || gotEllipse.Stroke.Dash != model.DashDashed {
		t.Errorf("stroke = %+v", gotEllipse.Stroke)
	}

	gotLine := els[1].(*model.ShapeElement)
	if gotLine.Shape != model.ShapeLine || gotLine.Stroke.Visible() {
		t.Errorf("line = %v stroke %+v, want invisible line", gotLine.Shape, gotLine.Stroke)
	}

	gotPic := els[2].(*model.ImageElement)
	if gotPic.Src != pic.Src || gotPic.AltText != "company logo" {
		t.Errorf("picture = %+v", gotPic)
	}
	if gotPic.NaturalWidth != 2 || gotPic.NaturalHeight != 3 {
		t.Errorf("natural size = %dx%d", gotPic.NaturalWidth, gotPic.NaturalHeight)
	}

	gotTitle := els[3].(*model.TextElement)
	if gotTitle.Placeholder != model.PlaceholderTitle {
		t.Errorf("placeholder = %v", gotTitle.Placeholder)
	}
	paras := gotTitle.Content.Paragraphs
	if len(paras) != 2 || len(paras[0].Runs) != 2 {
		t.Fatalf("paragraphs = %+v", paras)
	}
	r0, r1 := paras[0].Runs[0], paras[0].Runs[1]
	if r0.Text != "Hello " || !r0.Bold || r0.Font != "Calibri" || r0.Size != 18 {
		t.Errorf("run 0 = %+v", r0)
	}
	if r1.Text != "world" || !r1.Italic || r1.Color != "#FF0000" || r1.Size != 24 || r1.Hyperlink != "https://example.com" {
		t.Errorf("run 1 = %+v", r1)
	}
	p1 := paras[1]
	if p1.Align != model.AlignCenter || p1.LineHeight != 1.5 || p1.Bullet != model.BulletChar || p1.Level != 1 {
		t.Errorf("paragraph 1 = %+v", p1)
	}
	if p1.Runs[0].Hyperlink != "#slide2" || !p1.Runs[0].Underline {
		t.Errorf("slide link run = %+v", p1.Runs[0])
	}

	gotTable := els[4].(*model.TableElement)
	if gotTable.Rows != 2 || gotTable.Cols != 2 {
		t.Fatalf("table = %dx%d", gotTable.Rows, gotTable.Cols)
	}
	if c := gotTable.GetCell(0, 0); c.Text != "wide" || c.ColSpan != 2 {
		t.Errorf("cell (0,0) = %+v", c)
	}
	if c := gotTable.GetCell(0, 1); !c.Merged {
		t.Errorf("cell (0,1) = %+v, want merged", c)
	}
	if c := gotTable.GetCell(1, 1); c.Text != "b" {
		t.Errorf("cell (1,1) = %+v", c)
	}
	if gotTable.ColumnWidths[0] != 96 || gotTable.RowHeights[1] != 48 {
		t.Errorf("table extents = %v %v", gotTable.ColumnWidths, gotTable.RowHeights)
	}

	if got := out.Slides[1].Title(); got != "" {
		t.Errorf("slide 2 title = %q, want none", got)
	}
	if got := out.Slides[1].ExtractText(); !strings.Contains(got, "second") {
		t.Errorf("slide 2 text = %q", got)
	}
}

func TestRoundTrip_EmptySlideKeepsOrder(t *testing.T) {
	in := &model.Presentation{
		Width:  960,
		Height: 540,
		Slides: []model.Slide{
			{},
			{Elements: []model.Element{&model.TextElement{
				Base:    base("only", 10, 10, 100, 40, 0),
				Content: model.PlainTextContent("two"),
				Box:     model.DefaultTextBox(),
			}}},
		},
	}
	out, _ := roundTrip(t, in)
	if len(out.Slides) != 2 {
		t.Fatalf("slides = %d", len(out.Slides))
	}
	if len(out.Slides[0].Elements) != 0 {
		t.Errorf("empty slide gained elements: %v", out.Slides[0].Elements)
	}
	if out.Slides[1].Index != 1 || strings.TrimSpace(out.Slides[1].ExtractText()) != "two" {
		t.Errorf("slide 2 = %+v", out.Slides[1])
	}
	if out.Slides[0].Background.Color != "#FFFFFF" {
		t.Errorf("default background = %+v", out.Slides[0].Background)
	}
}
