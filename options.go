package deckcodec

import (
	"log/slog"

	"github.com/tsawler/deckcodec/pptx"
)

// CodecOptions holds configuration for decoding and text extraction.
type CodecOptions struct {
	// Slide selection (1-indexed in API, stored as-is)
	slides []int

	// Rendering
	includeNotes   bool
	includeTitles  bool
	excludeFooters bool

	// Decoding
	workers int
	logger  *slog.Logger
	newID   func() string

	// Export
	author string
}

// defaultOptions returns the default codec options.
func defaultOptions() CodecOptions {
	d := pptx.DefaultOptions()
	return CodecOptions{
		slides:  nil, // nil means all slides
		workers: d.Workers,
		newID:   d.NewID,
	}
}

// clone creates a deep copy of CodecOptions.
func (o CodecOptions) clone() CodecOptions {
	newOpts := o
	if o.slides != nil {
		newOpts.slides = make([]int, len(o.slides))
		copy(newOpts.slides, o.slides)
	}
	return newOpts
}

// decodeOptions converts to pptx decoding options.
func (o CodecOptions) decodeOptions() pptx.Options {
	return pptx.Options{
		Workers: o.workers,
		Logger:  o.logger,
		NewID:   o.newID,
	}
}

// extractOptions converts to pptx rendering options. Slide numbers must
// already be validated and converted to 0-indexed.
func (o CodecOptions) extractOptions(indices []int) pptx.ExtractOptions {
	return pptx.ExtractOptions{
		IncludeNotes:   o.includeNotes,
		IncludeTitles:  o.includeTitles,
		SlideNumbers:   indices,
		ExcludeFooters: o.excludeFooters,
	}
}
