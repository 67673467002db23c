// Package deckcodec provides a fluent API for reading PPTX presentations
// into a typed model and writing models back out as PPTX packages.
//
// Basic usage:
//
//	p, warnings, err := deckcodec.Open("deck.pptx").Presentation()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", deckcodec.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := deckcodec.Open("deck.pptx").
//	    Slides(1, 2).
//	    IncludeNotes().
//	    ExcludeFooters().
//	    Text()
//
// Writing a model:
//
//	data, warnings, err := deckcodec.Export(p)
//
// For lower-level control the pptx, export and ooxml packages are also
// available.
package deckcodec

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/deckcodec/export"
	"github.com/tsawler/deckcodec/internal/metrics"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/ooxml"
)

// ErrUnsupportedFormat is returned when the input is not a PresentationML
// package.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Open returns a Codec for a file on disk. Nothing is read until a
// terminal operation runs.
//
// Example:
//
//	p, warnings, err := deckcodec.Open("deck.pptx").Presentation()
func Open(filename string) *Codec {
	return &Codec{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns a Codec for a package held in memory.
//
// Example:
//
//	text, _, err := deckcodec.FromBytes(data).Text()
func FromBytes(data []byte) *Codec {
	c := &Codec{
		data:    data,
		options: defaultOptions(),
	}
	if data == nil {
		c.err = fmt.Errorf("no data provided")
	}
	return c
}

// ExportOption configures Export.
type ExportOption func(*export.Options)

// WithAuthor sets the author written when the model has none.
func WithAuthor(author string) ExportOption {
	return func(o *export.Options) { o.Author = author }
}

// WithExportWorkers bounds concurrent image preparation.
func WithExportWorkers(n int) ExportOption {
	return func(o *export.Options) { o.Workers = n }
}

// WithExportLogger sets the logger that receives export warnings.
func WithExportLogger(l *slog.Logger) ExportOption {
	return func(o *export.Options) { o.Logger = l }
}

// Export serializes a presentation as a .pptx package. Elements that
// cannot be written are skipped and reported in the returned warnings.
//
// Example:
//
//	data, warnings, err := deckcodec.Export(p, deckcodec.WithAuthor("me"))
func Export(p *model.Presentation, opts ...ExportOption) ([]byte, []Warning, error) {
	o := export.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	w := ooxml.New(ooxml.WithLogger(o.Logger))
	data, warnings, err := export.Export(p, w, o)

	slides := 0
	if p != nil {
		slides = len(p.Slides)
	}
	metrics.Observe(metrics.StageExport, slides, warnings, err)
	return data, warnings, err
}

// ExportFile writes the exported package to path.
func ExportFile(p *model.Presentation, path string, opts ...ExportOption) ([]Warning, error) {
	data, warnings, err := Export(p, opts...)
	if err != nil {
		return warnings, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return warnings, fmt.Errorf("writing %s: %w", path, err)
	}
	return warnings, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := deckcodec.Must(deckcodec.Open("deck.pptx").SlideCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to a terminal operation returning
// warnings, such as Text() or Presentation(), and panics if the error is
// non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	text := deckcodec.MustText(deckcodec.Open("deck.pptx").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
