package pptx

import (
	"strings"

	"github.com/tsawler/deckcodec/model"
)

// ExtractOptions holds options for text extraction.
type ExtractOptions struct {
	IncludeNotes   bool  // Include speaker notes
	IncludeTitles  bool  // Include slide titles
	SlideNumbers   []int // Which slides to include (0-indexed, empty = all)
	ExcludeFooters bool  // Exclude footer placeholders (footer, date, slide number)
}

func selectSlides(p *model.Presentation, numbers []int) []*model.Slide {
	if len(numbers) == 0 {
		out := make([]*model.Slide, len(p.Slides))
		for i := range p.Slides {
			out[i] = &p.Slides[i]
		}
		return out
	}
	out := make([]*model.Slide, 0, len(numbers))
	for _, idx := range numbers {
		if s := p.GetSlide(idx); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// textBodies returns the text content of a slide in draw order, skipping
// titles when they are rendered separately and footers when excluded.
func textBodies(s *model.Slide, opts ExtractOptions) []model.TextContent {
	var out []model.TextContent
	for _, el := range s.SortedElements() {
		switch e := el.(type) {
		case *model.TextElement:
			if e.Placeholder == model.PlaceholderTitle && opts.IncludeTitles {
				continue
			}
			if opts.ExcludeFooters && e.Placeholder.IsFooter() {
				continue
			}
			out = append(out, e.Content)
		case *model.ShapeElement:
			if e.Text != nil {
				out = append(out, *e.Text)
			}
		case *model.ImageElement, *model.TableElement:
		}
	}
	return out
}

// Text renders the presentation as plain text.
func Text(p *model.Presentation, opts ExtractOptions) string {
	var result strings.Builder

	for i, slide := range selectSlides(p, opts.SlideNumbers) {
		if i > 0 {
			result.WriteString("\n\n")
		}

		if title := slide.Title(); opts.IncludeTitles && title != "" {
			result.WriteString(title)
			result.WriteString("\n\n")
		}

		for _, body := range textBodies(slide, opts) {
			for _, para := range body.Paragraphs {
				text := strings.TrimRight(para.Text(), "\n")
				if text == "" {
					continue
				}
				if para.Bullet != model.BulletNone {
					result.WriteString(strings.Repeat("  ", para.Level))
					result.WriteString("• ")
				}
				result.WriteString(text)
				result.WriteString("\n")
			}
		}

		for _, table := range slide.ExtractTables() {
			result.WriteString("\n")
			for _, row := range table.Cells {
				for j, cell := range row {
					if j > 0 {
						result.WriteString("\t")
					}
					result.WriteString(cell.Text)
				}
				result.WriteString("\n")
			}
		}

		if opts.IncludeNotes && slide.Notes != "" {
			result.WriteString("\n[Notes: ")
			result.WriteString(slide.Notes)
			result.WriteString("]\n")
		}
	}

	return result.String()
}

// Markdown renders the presentation as Markdown, one section per slide.
func Markdown(p *model.Presentation, opts ExtractOptions) string {
	var result strings.Builder

	for i, slide := range selectSlides(p, opts.SlideNumbers) {
		if i > 0 {
			result.WriteString("\n---\n\n")
		}

		mdOpts := opts
		mdOpts.IncludeTitles = true
		if title := slide.Title(); title != "" {
			result.WriteString("# ")
			result.WriteString(title)
			result.WriteString("\n\n")
		}

		for _, body := range textBodies(slide, mdOpts) {
			for _, para := range body.Paragraphs {
				text := strings.TrimRight(para.Text(), "\n")
				if text == "" {
					continue
				}
				switch para.Bullet {
				case model.BulletNumber:
					result.WriteString(strings.Repeat("  ", para.Level))
					result.WriteString("1. ")
					result.WriteString(text)
					result.WriteString("\n")
				case model.BulletChar:
					result.WriteString(strings.Repeat("  ", para.Level))
					result.WriteString("- ")
					result.WriteString(text)
					result.WriteString("\n")
				default:
					result.WriteString(text)
					result.WriteString("\n\n")
				}
			}
		}

		for _, table := range slide.ExtractTables() {
			result.WriteString("\n")
			result.WriteString(table.ToMarkdown())
		}

		if opts.IncludeNotes && slide.Notes != "" {
			result.WriteString("\n> **Notes:** ")
			result.WriteString(strings.ReplaceAll(slide.Notes, "\n", "\n> "))
			result.WriteString("\n")
		}
	}

	return strings.TrimSpace(result.String())
}
