// Package ooxml writes PresentationML packages. Writer implements
// export.Writer and produces a .pptx archive that the pptx package, and
// PowerPoint, can open.
package ooxml

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tsawler/deckcodec/export"
	"github.com/tsawler/deckcodec/internal/logging"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/units"
)

// DefaultMediaCacheSize bounds the number of distinct image payloads
// remembered for de-duplication.
const DefaultMediaCacheSize = 256

// Default slide size: 10 x 5.625 inches (16:9).
const (
	defaultSlideCx = 9144000
	defaultSlideCy = 5143500
)

// Option configures a Writer.
type Option func(*Writer)

// WithMediaCacheSize sets how many distinct images are tracked for
// de-duplication. Sizes below 1 use DefaultMediaCacheSize.
func WithMediaCacheSize(n int) Option {
	return func(w *Writer) { w.cacheSize = n }
}

// WithClock sets the time source used for missing document dates.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

// Writer accumulates a presentation and serializes it as a .pptx package.
// It is safe for concurrent use; calls are serialized internally.
type Writer struct {
	mu sync.Mutex

	meta     export.Metadata
	cx, cy   int64
	theme    model.Theme
	slides   []*slideWriter
	media    []mediaPart
	byHash   *lru.Cache[string, string]
	imageSeq int

	cacheSize int
	now       func() time.Time
	logger    *slog.Logger
}

type mediaPart struct {
	name string // Part path, e.g. ppt/media/image1.png
	ext  string
	mime string
	data []byte
}

// New returns an empty Writer with a 16:9 layout and the default theme.
func New(opts ...Option) *Writer {
	w := &Writer{
		cx:    defaultSlideCx,
		cy:    defaultSlideCy,
		theme: model.DefaultTheme(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.cacheSize < 1 {
		w.cacheSize = DefaultMediaCacheSize
	}
	w.logger = logging.Component(w.logger, "ooxml")
	cache, err := lru.New[string, string](w.cacheSize)
	if err != nil {
		panic(err)
	}
	w.byHash = cache
	return w
}

// SetMetadata sets the document properties.
func (w *Writer) SetMetadata(m export.Metadata) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.meta = m
}

// DefineLayout sets the slide size in inches. Non-positive sizes keep
// the current layout.
func (w *Writer) DefineLayout(width, height float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if width > 0 && height > 0 {
		w.cx = units.InchesToEMU(width)
		w.cy = units.InchesToEMU(height)
	}
}

// SetTheme sets the palette and fonts written to the theme part.
func (w *Writer) SetTheme(t model.Theme) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.theme = t
}

// AddSlide appends a slide and returns its writer.
func (w *Writer) AddSlide() export.SlideWriter {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := newSlideWriter(w, len(w.slides)+1)
	w.slides = append(w.slides, s)
	return s
}

// addMedia stores an image payload and returns its part path. Identical
// payloads share one part while they remain in the cache. Callers hold
// w.mu.
func (w *Writer) addMedia(data []byte, mime string) string {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if name, ok := w.byHash.Get(key); ok {
		return name
	}

	ext := extensionFor(mime)
	w.imageSeq++
	name := fmt.Sprintf("ppt/media/image%d.%s", w.imageSeq, ext)
	w.media = append(w.media, mediaPart{name: name, ext: ext, mime: mime, data: data})
	w.byHash.Add(key, name)
	return name
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	case "image/tiff":
		return "tiff"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}

// Bytes serializes the package.
func (w *Writer) Bytes() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range w.parts() {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	w.logger.Debug("wrote package",
		"slides", len(w.slides),
		"media", len(w.media),
		"bytes", buf.Len())
	return buf.Bytes(), nil
}

type part struct {
	name string
	data []byte
}

// parts renders every part in archive order, content types first.
func (w *Writer) parts() []part {
	hasNotes := false
	for _, s := range w.slides {
		if s.notes != "" {
			hasNotes = true
			break
		}
	}

	out := []part{
		{partContentTypes, []byte(w.contentTypesXML(hasNotes))},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"docProps/core.xml", []byte(w.corePropsXML())},
		{"docProps/app.xml", []byte(w.appPropsXML())},
		{"ppt/presentation.xml", []byte(w.presentationXML(hasNotes))},
		{"ppt/_rels/presentation.xml.rels", []byte(w.presentationRelsXML(hasNotes))},
		{"ppt/presProps.xml", []byte(presPropsXML)},
		{"ppt/viewProps.xml", []byte(viewPropsXML)},
		{"ppt/tableStyles.xml", []byte(tableStylesXML)},
		{"ppt/theme/theme1.xml", []byte(themeXML(w.theme))},
		{"ppt/slideMasters/slideMaster1.xml", []byte(slideMasterXML)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", []byte(slideMasterRelsXML)},
		{"ppt/slideLayouts/slideLayout1.xml", []byte(slideLayoutXML)},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", []byte(slideLayoutRelsXML)},
	}
	if hasNotes {
		out = append(out,
			part{"ppt/notesMasters/notesMaster1.xml", []byte(notesMasterXML)},
			part{"ppt/notesMasters/_rels/notesMaster1.xml.rels", []byte(notesMasterRelsXML)},
			part{"ppt/theme/theme2.xml", []byte(themeXML(w.theme))},
		)
	}

	for _, s := range w.slides {
		slideXML, rels := s.render(len(w.slides))
		out = append(out,
			part{s.partName(), []byte(slideXML)},
			part{s.relsPartName(), []byte(rels)},
		)
		if s.notes != "" {
			out = append(out,
				part{s.notesPartName(), []byte(s.notesXML())},
				part{s.notesRelsPartName(), []byte(s.notesRelsXML())},
			)
		}
	}
	for _, m := range w.media {
		out = append(out, part{m.name, m.data})
	}
	return out
}
