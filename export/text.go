package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/deckcodec/colors"
	"github.com/tsawler/deckcodec/model"
)

// SanitizeText removes control characters other than tab, newline and
// carriage return, then normalizes to NFC.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return norm.NFC.String(clean)
}

// Runs flattens text content into writer runs. Runs whose text is empty
// after sanitization are dropped, paragraphs left without runs are
// dropped, and every emitted paragraph but the last ends with a Break.
func Runs(content model.TextContent) []RunSpec {
	var out []RunSpec
	for _, para := range content.Paragraphs {
		pspec := ParagraphSpec{
			Align:       para.Align,
			LineHeight:  para.LineHeight,
			SpaceBefore: para.SpaceBefore,
			SpaceAfter:  para.SpaceAfter,
			Bullet:      para.Bullet,
			Level:       para.Level,
		}
		if pspec.LineHeight <= 0 {
			pspec.LineHeight = model.DefaultLineHeight
		}

		emitted := 0
		for _, run := range para.Runs {
			text := SanitizeText(run.Text)
			if text == "" {
				continue
			}
			out = append(out, runSpec(run, text, pspec))
			emitted++
		}
		if emitted > 0 {
			out[len(out)-1].Break = true
		}
	}
	if len(out) > 0 {
		out[len(out)-1].Break = false
	}
	return out
}

func runSpec(run model.TextRun, text string, para ParagraphSpec) RunSpec {
	font := strings.TrimSpace(run.Font)
	if font == "" {
		font = model.DefaultFont
	}
	size := run.Size
	if size <= 0 {
		size = model.DefaultFontSize
	}
	return RunSpec{
		Text:      text,
		Bold:      run.Bold,
		Italic:    run.Italic,
		Underline: run.Underline,
		Strike:    run.Strike,
		Font:      font,
		Size:      size,
		Color:     colors.Sanitize(run.Color, colors.HexBlack),
		Hyperlink: strings.TrimSpace(run.Hyperlink),
		Paragraph: para,
	}
}
