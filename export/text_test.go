package export

import (
	"testing"

	"github.com/tsawler/deckcodec/model"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"keeps whitespace controls", "a\tb\nc\rd", "a\tb\nc\rd"},
		{"strips controls", "a\x00b\x07c\x1bd\x7f", "abcd"},
		{"strips C1 controls", "x\u0085y", "xy"},
		{"NFC composes", "e\u0301", "\u00e9"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.in); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRuns_Breaks(t *testing.T) {
	content := model.TextContent{Paragraphs: []model.Paragraph{
		{Runs: []model.TextRun{model.NewRun("one"), model.NewRun("two")}, Align: model.AlignCenter},
		{Runs: []model.TextRun{model.NewRun("")}},
		{Runs: []model.TextRun{model.NewRun("\x00")}},
		{Runs: []model.TextRun{model.NewRun("three")}, Bullet: model.BulletChar, Level: 1},
	}}

	runs := Runs(content)
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(runs))
	}
	wantBreak := []bool{false, true, false}
	for i, r := range runs {
		if r.Break != wantBreak[i] {
			t.Errorf("run %d (%q) Break = %v, want %v", i, r.Text, r.Break, wantBreak[i])
		}
	}
	if runs[0].Paragraph.Align != model.AlignCenter {
		t.Errorf("paragraph alignment not carried: %+v", runs[0].Paragraph)
	}
	if runs[2].Paragraph.Bullet != model.BulletChar || runs[2].Paragraph.Level != 1 {
		t.Errorf("bullet not carried: %+v", runs[2].Paragraph)
	}

	paras := Paragraphs(runs)
	if len(paras) != 2 || len(paras[0]) != 2 || paras[1][0].Text != "three" {
		t.Errorf("Paragraphs() = %v", paras)
	}
}

func TestRuns_Defaults(t *testing.T) {
	content := model.TextContent{Paragraphs: []model.Paragraph{{
		Runs: []model.TextRun{{Text: "x", Color: "#abc", Hyperlink: " https://example.com "}},
	}}}
	runs := Runs(content)
	if len(runs) != 1 {
		t.Fatalf("runs = %d", len(runs))
	}
	r := runs[0]
	if r.Font != model.DefaultFont || r.Size != model.DefaultFontSize {
		t.Errorf("font = %q %v", r.Font, r.Size)
	}
	if r.Color != "AABBCC" {
		t.Errorf("Color = %q, want AABBCC", r.Color)
	}
	if r.Hyperlink != "https://example.com" {
		t.Errorf("Hyperlink = %q", r.Hyperlink)
	}
	if r.Paragraph.LineHeight != model.DefaultLineHeight {
		t.Errorf("LineHeight = %v", r.Paragraph.LineHeight)
	}

	bad := Runs(model.TextContent{Paragraphs: []model.Paragraph{{Runs: []model.TextRun{{Text: "x", Color: "blue"}}}}})
	if bad[0].Color != "000000" {
		t.Errorf("invalid color = %q, want 000000", bad[0].Color)
	}
}

func TestRuns_Empty(t *testing.T) {
	if runs := Runs(model.TextContent{}); len(runs) != 0 {
		t.Errorf("Runs(empty) = %v", runs)
	}
	if paras := Paragraphs(nil); len(paras) != 0 {
		t.Errorf("Paragraphs(nil) = %v", paras)
	}
}
