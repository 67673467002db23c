package deckcodec

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/pptx"
)

func textElement(name, text string, ph model.Placeholder, z int) *model.TextElement {
	return &model.TextElement{
		Base:        model.Base{Name: name, X: 96, Y: 48 + 96*z, Width: 480, Height: 72, Z: z},
		Content:     model.PlainTextContent(text),
		Box:         model.DefaultTextBox(),
		Placeholder: ph,
	}
}

// sampleDeck exports a two-slide deck and returns the package bytes.
func sampleDeck(t *testing.T) []byte {
	t.Helper()
	p := &model.Presentation{
		Width:  960,
		Height: 540,
		Slides: []model.Slide{
			{
				Index: 0,
				Elements: []model.Element{
					textElement("Title", "Intro", model.PlaceholderTitle, 0),
					textElement("Body", "alpha", model.PlaceholderNone, 1),
					textElement("Footer", "Confidential", model.PlaceholderFooter, 2),
				},
				Notes: "say hi",
			},
			{
				Index:    1,
				Elements: []model.Element{textElement("Body", "beta", model.PlaceholderNone, 0)},
			},
		},
	}
	data, warnings, err := Export(p)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Export() warnings = %v", warnings)
	}
	return data
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFromBytes_Presentation(t *testing.T) {
	p, warnings, err := FromBytes(sampleDeck(t)).Presentation()
	if err != nil {
		t.Fatalf("Presentation() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Presentation() warnings = %v", warnings)
	}
	if len(p.Slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(p.Slides))
	}
	if got := p.Slides[0].Title(); got != "Intro" {
		t.Errorf("slide 1 title = %q, want %q", got, "Intro")
	}
	if got := p.Slides[0].Notes; got != "say hi" {
		t.Errorf("slide 1 notes = %q, want %q", got, "say hi")
	}
	if p.Width != 960 || p.Height != 540 {
		t.Errorf("size = %dx%d, want 960x540", p.Width, p.Height)
	}
	if p.Metadata.Author != "deckcodec" {
		t.Errorf("author = %q, want default author", p.Metadata.Author)
	}
}

func TestCodec_Text(t *testing.T) {
	data := sampleDeck(t)

	tests := []struct {
		name    string
		codec   *Codec
		want    []string
		notWant []string
	}{
		{
			name:    "all slides",
			codec:   FromBytes(data),
			want:    []string{"Intro", "alpha", "Confidential", "beta"},
			notWant: []string{"[Notes:"},
		},
		{
			name:  "with notes",
			codec: FromBytes(data).IncludeNotes(),
			want:  []string{"[Notes: say hi]"},
		},
		{
			name:    "exclude footers",
			codec:   FromBytes(data).ExcludeFooters(),
			want:    []string{"alpha"},
			notWant: []string{"Confidential"},
		},
		{
			name:    "second slide only",
			codec:   FromBytes(data).Slides(2),
			want:    []string{"beta"},
			notWant: []string{"alpha", "Intro"},
		},
		{
			name:  "range",
			codec: FromBytes(data).SlideRange(1, 2),
			want:  []string{"alpha", "beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _, err := tt.codec.Text()
			if err != nil {
				t.Fatalf("Text() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("Text() = %q, missing %q", text, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(text, w) {
					t.Errorf("Text() = %q, should not contain %q", text, w)
				}
			}
		})
	}
}

func TestCodec_IncludeTitles(t *testing.T) {
	text, _, err := FromBytes(sampleDeck(t)).Slides(1).IncludeTitles().Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if !strings.HasPrefix(text, "Intro\n\n") {
		t.Errorf("Text() = %q, want title heading first", text)
	}
	if strings.Count(text, "Intro") != 1 {
		t.Errorf("Text() = %q, title rendered more than once", text)
	}
}

func TestCodec_Markdown(t *testing.T) {
	md, _, err := FromBytes(sampleDeck(t)).IncludeNotes().Markdown()
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	for _, want := range []string{"# Intro", "alpha", "---", "beta", "> **Notes:** say hi"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() = %q, missing %q", md, want)
		}
	}
}

func TestCodec_SlideOutOfRange(t *testing.T) {
	data := sampleDeck(t)
	for _, n := range []int{0, 3, -1} {
		_, _, err := FromBytes(data).Slides(n).Text()
		if err == nil {
			t.Errorf("Slides(%d).Text() expected error", n)
			continue
		}
		if !strings.Contains(err.Error(), "out of range") {
			t.Errorf("Slides(%d).Text() error = %v", n, err)
		}
	}
}

func TestCodec_SlideCount(t *testing.T) {
	if got := Must(FromBytes(sampleDeck(t)).SlideCount()); got != 2 {
		t.Errorf("SlideCount() = %d, want 2", got)
	}
}

func TestCodec_Workers(t *testing.T) {
	data := sampleDeck(t)
	if _, _, err := FromBytes(data).Workers(0).Presentation(); err == nil {
		t.Error("Workers(0) expected error")
	}
	p, _, err := FromBytes(data).Workers(1).Presentation()
	if err != nil {
		t.Fatalf("Workers(1) error = %v", err)
	}
	if len(p.Slides) != 2 {
		t.Errorf("got %d slides, want 2", len(p.Slides))
	}
}

func TestCodec_IDGenerator(t *testing.T) {
	var n atomic.Int64
	gen := func() string {
		return fmt.Sprintf("id-%d", n.Add(1))
	}
	p, _, err := FromBytes(sampleDeck(t)).Workers(1).IDGenerator(gen).Presentation()
	if err != nil {
		t.Fatalf("Presentation() error = %v", err)
	}
	if !strings.HasPrefix(p.ID, "id-") {
		t.Errorf("presentation ID = %q", p.ID)
	}
	for _, s := range p.Slides {
		if !strings.HasPrefix(s.ID, "id-") {
			t.Errorf("slide %d ID = %q", s.Index, s.ID)
		}
		for _, el := range s.Elements {
			if id := el.Common().ID; !strings.HasPrefix(id, "id-") {
				t.Errorf("element %q ID = %q", el.Common().Name, id)
			}
		}
	}
}

func TestCodec_Immutability(t *testing.T) {
	data := sampleDeck(t)
	base := FromBytes(data)
	second := base.Slides(2)

	if len(base.options.slides) != 0 {
		t.Errorf("base codec slides = %v, want none", base.options.slides)
	}
	third := second.Slides(1)
	if len(second.options.slides) != 1 {
		t.Errorf("second codec slides = %v, want [2]", second.options.slides)
	}
	if len(third.options.slides) != 2 {
		t.Errorf("third codec slides = %v, want [2 1]", third.options.slides)
	}

	text, _, err := base.Text()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "alpha") || !strings.Contains(text, "beta") {
		t.Errorf("base Text() = %q, want both slides", text)
	}
}

func TestCodec_Errors(t *testing.T) {
	docx := zipBytes(t, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	})

	tests := []struct {
		name   string
		codec  *Codec
		target error
	}{
		{"nil data", FromBytes(nil), nil},
		{"not a zip", FromBytes([]byte("plain text, not a package")), pptx.ErrNotPackage},
		{"other ooxml", FromBytes(docx), ErrUnsupportedFormat},
		{"missing file", Open(filepath.Join(t.TempDir(), "missing.pptx")), os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.codec.Presentation()
			if err == nil {
				t.Fatal("Presentation() expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Presentation() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestExportFile_OpenRoundTrip(t *testing.T) {
	p, _, err := FromBytes(sampleDeck(t)).Presentation()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "quarterly.pptx")
	if _, err := ExportFile(p, path, WithAuthor("ops")); err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}

	got, _, err := Open(path).Presentation()
	if err != nil {
		t.Fatalf("Open().Presentation() error = %v", err)
	}
	if got.Name != "quarterly" {
		t.Errorf("Name = %q, want %q", got.Name, "quarterly")
	}
	// The model already carried an author, so WithAuthor does not replace it.
	if got.Metadata.Author != "deckcodec" {
		t.Errorf("Author = %q, want %q", got.Metadata.Author, "deckcodec")
	}
	if got.Slides[1].ExtractText() != p.Slides[1].ExtractText() {
		t.Errorf("slide 2 text = %q, want %q", got.Slides[1].ExtractText(), p.Slides[1].ExtractText())
	}
}

func TestCodec_Roundtrip(t *testing.T) {
	data, _, err := FromBytes(sampleDeck(t)).DefaultAuthor("ops").Roundtrip()
	if err != nil {
		t.Fatalf("Roundtrip() error = %v", err)
	}
	text := MustText(FromBytes(data).IncludeNotes().Text())
	for _, want := range []string{"Intro", "alpha", "beta", "say hi"} {
		if !strings.Contains(text, want) {
			t.Errorf("round-tripped Text() = %q, missing %q", text, want)
		}
	}
}

func TestExport_NilPresentation(t *testing.T) {
	if _, _, err := Export(nil); err == nil {
		t.Error("Export(nil) expected error")
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Kind: model.WarningMissingMedia, Slide: 0, Element: "Picture 3", Message: "rId4 not found"},
		{Kind: model.WarningMalformedPart, Slide: -1, Message: "theme"},
		{Kind: model.WarningMissingMedia, Slide: 2},
	}
	got := FormatWarnings(warnings)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("FormatWarnings() = %q, want 3 lines", got)
	}
	if lines[1] != "malformed-part: theme" {
		t.Errorf("line 2 = %q", lines[1])
	}
	if FormatWarnings(nil) != "" {
		t.Error("FormatWarnings(nil) should be empty")
	}

	counts := CountByKind(warnings)
	if counts["missing-media"] != 2 || counts["malformed-part"] != 1 {
		t.Errorf("CountByKind() = %v", counts)
	}
}

func TestMust_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must() did not panic")
		}
	}()
	Must(FromBytes(nil).SlideCount())
}
