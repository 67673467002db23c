package deckcodec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/tsawler/deckcodec/format"
	"github.com/tsawler/deckcodec/internal/metrics"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/pptx"
)

// Codec provides a fluent interface for decoding PPTX packages.
// Each configuration method returns a new Codec instance, making it
// safe for concurrent use and allowing method chaining.
type Codec struct {
	// Source: a file name or an in-memory package
	filename string
	data     []byte

	// Configuration
	options CodecOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Codec with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (c *Codec) clone() *Codec {
	return &Codec{
		filename: c.filename,
		data:     c.data,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// ============================================================================
// Configuration Methods (return new Codec instance)
// ============================================================================

// Slides specifies which slides to render (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	text, _, err := deckcodec.Open("deck.pptx").Slides(1, 3).Text()
func (c *Codec) Slides(slides ...int) *Codec {
	newCodec := c.clone()
	newCodec.options.slides = append(newCodec.options.slides, slides...)
	return newCodec
}

// SlideRange specifies a range of slides to render (1-indexed, inclusive).
func (c *Codec) SlideRange(start, end int) *Codec {
	newCodec := c.clone()
	for i := start; i <= end; i++ {
		newCodec.options.slides = append(newCodec.options.slides, i)
	}
	return newCodec
}

// IncludeNotes appends speaker notes to each slide's text.
func (c *Codec) IncludeNotes() *Codec {
	newCodec := c.clone()
	newCodec.options.includeNotes = true
	return newCodec
}

// IncludeTitles emits each slide title as a heading line before the body.
func (c *Codec) IncludeTitles() *Codec {
	newCodec := c.clone()
	newCodec.options.includeTitles = true
	return newCodec
}

// ExcludeFooters drops footer, date and slide-number placeholders from
// rendered text.
func (c *Codec) ExcludeFooters() *Codec {
	newCodec := c.clone()
	newCodec.options.excludeFooters = true
	return newCodec
}

// Workers bounds concurrent media and slide decoding. Values below 1
// record an error that surfaces from the terminal operation.
func (c *Codec) Workers(n int) *Codec {
	newCodec := c.clone()
	if n < 1 && newCodec.err == nil {
		newCodec.err = fmt.Errorf("workers must be at least 1, got %d", n)
	}
	newCodec.options.workers = n
	return newCodec
}

// Logger sets the logger that receives a Warn record per warning.
func (c *Codec) Logger(l *slog.Logger) *Codec {
	newCodec := c.clone()
	newCodec.options.logger = l
	return newCodec
}

// IDGenerator replaces the UUID generator used for presentation, slide
// and element identities.
func (c *Codec) IDGenerator(fn func() string) *Codec {
	newCodec := c.clone()
	if fn != nil {
		newCodec.options.newID = fn
	}
	return newCodec
}

// DefaultAuthor sets the author Roundtrip writes when the deck has none.
func (c *Codec) DefaultAuthor(author string) *Codec {
	newCodec := c.clone()
	newCodec.options.author = author
	return newCodec
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Presentation decodes the package into the model. Warnings list every
// element or part that was dropped or defaulted; an error is returned only
// when the package as a whole cannot be read.
//
// Example:
//
//	p, warnings, err := deckcodec.Open("deck.pptx").Presentation()
func (c *Codec) Presentation() (*model.Presentation, []Warning, error) {
	return c.PresentationContext(context.Background())
}

// PresentationContext is Presentation with a context bounding decoding.
func (c *Codec) PresentationContext(ctx context.Context) (*model.Presentation, []Warning, error) {
	p, warnings, err := c.decode(ctx)
	slides := 0
	if p != nil {
		slides = len(p.Slides)
	}
	metrics.Observe(metrics.StageImport, slides, warnings, err)
	return p, warnings, err
}

// Text decodes the package and renders the selected slides as plain text.
//
// Example:
//
//	text, warnings, err := deckcodec.Open("deck.pptx").IncludeNotes().Text()
func (c *Codec) Text() (string, []Warning, error) {
	p, warnings, err := c.Presentation()
	if err != nil {
		return "", warnings, err
	}
	indices, err := c.resolveSlides(len(p.Slides))
	if err != nil {
		return "", warnings, err
	}
	return pptx.Text(p, c.options.extractOptions(indices)), warnings, nil
}

// Markdown decodes the package and renders the selected slides as
// Markdown, one section per slide.
func (c *Codec) Markdown() (string, []Warning, error) {
	p, warnings, err := c.Presentation()
	if err != nil {
		return "", warnings, err
	}
	indices, err := c.resolveSlides(len(p.Slides))
	if err != nil {
		return "", warnings, err
	}
	return pptx.Markdown(p, c.options.extractOptions(indices)), warnings, nil
}

// Roundtrip decodes the package and exports the model again. Warnings
// from both directions are returned, import first.
func (c *Codec) Roundtrip() ([]byte, []Warning, error) {
	p, warnings, err := c.Presentation()
	if err != nil {
		return nil, warnings, err
	}
	opts := []ExportOption{WithExportWorkers(c.options.workers), WithExportLogger(c.options.logger)}
	if c.options.author != "" {
		opts = append(opts, WithAuthor(c.options.author))
	}
	data, exportWarnings, err := Export(p, opts...)
	return data, append(warnings, exportWarnings...), err
}

// SlideCount returns the number of slides in the package.
func (c *Codec) SlideCount() (int, error) {
	p, _, err := c.Presentation()
	if err != nil {
		return 0, err
	}
	return len(p.Slides), nil
}

// decode opens the source, checks its format and runs the pptx decoder.
func (c *Codec) decode(ctx context.Context) (*model.Presentation, []Warning, error) {
	if c.err != nil {
		return nil, nil, c.err
	}

	data := c.data
	if data == nil {
		if c.filename == "" {
			return nil, nil, fmt.Errorf("no filename specified")
		}
		b, err := os.ReadFile(c.filename)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", c.filename, err)
		}
		data = b
	}

	f, err := format.DetectFromBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", pptx.ErrNotPackage, err)
	}
	switch {
	case f == format.Unknown:
		return nil, nil, pptx.ErrNotPackage
	case !f.IsPresentationML():
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	pkg, err := pptx.NewPackage(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, err
	}
	p, warnings, err := pptx.Decode(ctx, pkg, c.options.decodeOptions())
	if err != nil {
		return nil, warnings, err
	}
	if c.filename != "" {
		base := path.Base(strings.ReplaceAll(c.filename, "\\", "/"))
		p.Name = strings.TrimSuffix(base, path.Ext(base))
	}
	return p, warnings, nil
}

// resolveSlides validates the 1-indexed slide selection and returns it
// 0-indexed and sorted. An empty selection means every slide.
func (c *Codec) resolveSlides(count int) ([]int, error) {
	if len(c.options.slides) == 0 {
		return nil, nil
	}
	seen := make(map[int]bool)
	var indices []int
	for _, s := range c.options.slides {
		if s < 1 || s > count {
			return nil, fmt.Errorf("slide %d out of range (1-%d)", s, count)
		}
		if !seen[s-1] {
			seen[s-1] = true
			indices = append(indices, s-1)
		}
	}
	sort.Ints(indices)
	return indices, nil
}
