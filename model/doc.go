// Package model provides the in-memory representation of a presentation
// document.
//
// Every import operation produces these types and every export operation
// consumes them. Values are treated as immutable once built: the host owns a
// single [Presentation] per open document and replaces it wholesale on edit.
//
// # Presentation Structure
//
// A [Presentation] holds ordered [Slide] values, one [Theme], the slide size
// in device pixels and [Metadata]:
//
//	p := &model.Presentation{Width: 960, Height: 540}
//	p.Slides = append(p.Slides, model.Slide{Index: 0})
//
// # Elements
//
// Slide content implements the sealed [Element] interface. The concrete
// variants are:
//
//   - [TextElement] - text boxes and placeholders
//   - [ShapeElement] - preset geometry with fill, stroke and optional text
//   - [ImageElement] - pictures resolved to inline data
//   - [TableElement] - simple tables
//
// Consumers switch on the concrete type; [Kind] is provided for logging and
// serialization tags.
//
// # Units
//
// Positions and sizes are device pixels at 96 DPI, font sizes and stroke
// widths are points, rotation is degrees and colors are "#RRGGBB" strings.
package model
