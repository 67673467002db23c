package pptx

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/deckcodec/internal/logging"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/units"
)

// Default slide size (16:9 at 96 DPI) used when sldSz is absent.
const (
	defaultSlideWidth  = 960
	defaultSlideHeight = 540
)

// Options configures decoding.
type Options struct {
	// Workers bounds concurrent slide and media decoding. Zero or less
	// means GOMAXPROCS.
	Workers int
	// Logger receives a Warn record per partial-fidelity loss. Nil discards.
	Logger *slog.Logger
	// NewID generates presentation, slide and element identities.
	NewID func() string
}

// DefaultOptions returns the default decoding options.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.GOMAXPROCS(0),
		NewID:   uuid.NewString,
	}
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	o.Logger = logging.Component(o.Logger, "pptx")
	return o
}

// Reader provides access to a decoded PPTX presentation.
type Reader struct {
	presentation *model.Presentation
	warnings     []model.Warning
}

// Open decodes a PPTX file with default options.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(context.Background(), filename, DefaultOptions())
}

// OpenWithOptions decodes a PPTX file. The archive is released before
// returning.
func OpenWithOptions(ctx context.Context, filename string, opts Options) (*Reader, error) {
	pkg, err := OpenPackage(filename)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()

	r, err := newReader(ctx, pkg, opts)
	if err != nil {
		return nil, err
	}
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	r.presentation.Name = strings.TrimSuffix(base, path.Ext(base))
	return r, nil
}

// FromBytes decodes a PPTX package held in memory.
func FromBytes(ctx context.Context, data []byte, opts Options) (*Reader, error) {
	pkg, err := PackageFromBytes(data)
	if err != nil {
		return nil, err
	}
	return newReader(ctx, pkg, opts)
}

func newReader(ctx context.Context, pkg Package, opts Options) (*Reader, error) {
	p, warnings, err := Decode(ctx, pkg, opts)
	if err != nil {
		return nil, err
	}
	return &Reader{presentation: p, warnings: warnings}, nil
}

// Presentation returns the decoded document.
func (r *Reader) Presentation() *model.Presentation {
	return r.presentation
}

// Warnings returns the partial-fidelity losses recorded while decoding.
func (r *Reader) Warnings() []model.Warning {
	return r.warnings
}

// SlideCount returns the number of slides.
func (r *Reader) SlideCount() int {
	return len(r.presentation.Slides)
}

// Slide returns the slide at the given index (0-indexed).
func (r *Reader) Slide(index int) (*model.Slide, error) {
	s := r.presentation.GetSlide(index)
	if s == nil {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(r.presentation.Slides)-1)
	}
	return s, nil
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	return r.presentation.Metadata
}

// Text extracts and returns all text content from the presentation.
func (r *Reader) Text() string {
	return Text(r.presentation, ExtractOptions{IncludeTitles: true})
}

// TextWithOptions extracts text content with the specified options.
func (r *Reader) TextWithOptions(opts ExtractOptions) string {
	return Text(r.presentation, opts)
}

// Markdown returns the presentation content as Markdown.
func (r *Reader) Markdown() string {
	return Markdown(r.presentation, ExtractOptions{IncludeTitles: true})
}

// MarkdownWithOptions returns presentation content as Markdown with options.
func (r *Reader) MarkdownWithOptions(opts ExtractOptions) string {
	return Markdown(r.presentation, opts)
}

// Decode builds a presentation from a package. Only an unreadable
// presentation part or a package without slides is an error; everything
// else is absorbed and reported in the returned warnings.
//
// Decoding runs in three phases. Theme, media and document properties are
// read concurrently; then layouts and masters, which need the theme and
// media; then slides, at most opts.Workers at a time. Warnings are
// returned document-level first, then per slide in slide order.
func Decode(ctx context.Context, pkg Package, opts Options) (*model.Presentation, []model.Warning, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	if !hasPart(pkg, partPresentation) {
		return nil, nil, ErrMissingPresentation
	}
	var pres presentationXML
	if err := readXML(pkg, partPresentation, &pres); err != nil {
		return nil, nil, fmt.Errorf("parsing presentation: %w", err)
	}

	docDiag := newDiagnostics(-1, logger)
	presRels, err := readRelationships(pkg, partPresentation)
	if err != nil {
		docDiag.add(model.WarningMalformedPart, relsPath(partPresentation), "%v", err)
	}

	slideParts := slideOrder(pkg, &pres, presRels, docDiag)
	if len(slideParts) == 0 {
		return nil, nil, ErrNoSlides
	}

	out := &model.Presentation{
		ID:     opts.NewID(),
		Width:  defaultSlideWidth,
		Height: defaultSlideHeight,
	}
	if sz := pres.SlideSz; sz != nil && sz.Cx > 0 && sz.Cy > 0 {
		out.Width = units.EMUToPixels(sz.Cx)
		out.Height = units.EMUToPixels(sz.Cy)
	}

	// Phase 1: theme, media, document properties.
	var (
		theme *model.Theme
		media MediaMap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		theme = loadTheme(pkg, presRels, docDiag)
		return nil
	})
	g.Go(func() error {
		media = extractMedia(gctx, pkg, opts.Workers)
		return nil
	})
	g.Go(func() error {
		if !hasPart(pkg, partCoreProps) {
			return nil
		}
		data, err := pkg.ReadPart(partCoreProps)
		if err == nil {
			out.Metadata, err = parseCoreProperties(data)
		}
		if err != nil {
			docDiag.add(model.WarningMalformedPart, partCoreProps, "%v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if theme != nil {
		out.Theme = *theme
	}

	// Phase 2: layouts and masters.
	layouts := loadLayouts(ctx, pkg, media, theme, docDiag, opts.Workers)

	// Phase 3: slides.
	slideNumbers := make(map[string]int, len(slideParts))
	for i, part := range slideParts {
		slideNumbers[part] = i + 1
	}
	slides := make([]model.Slide, len(slideParts))
	diags := make([]*diagnostics, len(slideParts))

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, part := range slideParts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d := &slideDecoder{
				pkg:          pkg,
				media:        media,
				theme:        theme,
				layouts:      layouts,
				slideNumbers: slideNumbers,
				newID:        opts.NewID,
				diag:         newDiagnostics(i, logger),
			}
			slides[i] = d.decode(i, part)
			diags[i] = d.diag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	out.Slides = slides

	warnings := append([]model.Warning(nil), docDiag.warnings...)
	for _, d := range diags {
		warnings = append(warnings, d.warnings...)
	}

	logger.Debug("decoded presentation",
		"slides", len(out.Slides),
		"media", len(media),
		"warnings", len(warnings))
	return out, warnings, nil
}

// slideOrder returns slide part paths in presentation order. Without a
// usable sldIdLst it falls back to the numeric order of slide part names.
func slideOrder(pkg Package, pres *presentationXML, rels Relationships, diag *diagnostics) []string {
	var parts []string
	if pres.SlideIdList != nil {
		for _, id := range pres.SlideIdList.SlideId {
			rel, ok := rels.Target(id.RID)
			if !ok || rel.External {
				diag.add(model.WarningUnresolvedRelationship, partPresentation, "slide %s not found", id.RID)
				continue
			}
			if !hasPart(pkg, rel.Target) {
				diag.add(model.WarningMalformedPart, rel.Target, "slide part missing")
				continue
			}
			parts = append(parts, rel.Target)
		}
	}
	if len(parts) > 0 {
		return parts
	}

	for _, name := range pkg.Parts() {
		if slideNumber(name) > 0 {
			parts = append(parts, name)
		}
	}
	sort.Slice(parts, func(i, j int) bool {
		return slideNumber(parts[i]) < slideNumber(parts[j])
	})
	return parts
}

// slideNumber extracts N from "ppt/slides/slideN.xml", or 0.
func slideNumber(name string) int {
	if !strings.HasPrefix(name, slidePrefix) || !strings.HasSuffix(name, ".xml") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, slidePrefix), ".xml"))
	if err != nil {
		return 0
	}
	return n
}

// loadTheme finds the presentation theme through the presentation
// relationships, then the first master, then the first theme part.
func loadTheme(pkg Package, presRels Relationships, diag *diagnostics) *model.Theme {
	part := ""
	if rel, ok := presRels.ByType(relTheme); ok && !rel.External {
		part = rel.Target
	}
	if part == "" {
		if rel, ok := presRels.ByType(relSlideMaster); ok {
			if mrels, err := readRelationships(pkg, rel.Target); err == nil {
				if trel, ok := mrels.ByType(relTheme); ok {
					part = trel.Target
				}
			}
		}
	}
	if part == "" {
		for _, name := range pkg.Parts() {
			if strings.HasPrefix(name, themePrefix) && strings.HasSuffix(name, ".xml") {
				part = name
				break
			}
		}
	}
	if part == "" || !hasPart(pkg, part) {
		return nil
	}

	data, err := pkg.ReadPart(part)
	if err != nil {
		diag.add(model.WarningMalformedPart, part, "%v", err)
		return nil
	}
	th, err := parseTheme(data)
	if err != nil {
		diag.add(model.WarningMalformedPart, part, "%v", err)
		return nil
	}
	return &th
}

// loadLayouts decodes every layout and master part concurrently.
func loadLayouts(ctx context.Context, pkg Package, media MediaMap, theme *model.Theme, diag *diagnostics, workers int) map[string]*layoutInfo {
	var parts []string
	for _, name := range pkg.Parts() {
		if !strings.HasSuffix(name, ".xml") || strings.Contains(name, "/_rels/") {
			continue
		}
		if strings.HasPrefix(name, slideLayoutPrefix) || strings.HasPrefix(name, slideMasterPrefix) {
			parts = append(parts, name)
		}
	}

	var mu sync.Mutex
	out := make(map[string]*layoutInfo, len(parts))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, part := range parts {
		g.Go(func() error {
			info := loadLayout(pkg, part, media, theme, diag)
			mu.Lock()
			out[part] = info
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// slideDecoder decodes one slide part.
type slideDecoder struct {
	pkg          Package
	media        MediaMap
	theme        *model.Theme
	layouts      map[string]*layoutInfo
	slideNumbers map[string]int
	newID        func() string
	diag         *diagnostics
}

func (d *slideDecoder) decode(index int, part string) model.Slide {
	slide := model.Slide{ID: d.newID(), Index: index}

	rels, err := readRelationships(d.pkg, part)
	if err != nil {
		d.diag.add(model.WarningMalformedPart, relsPath(part), "%v", err)
	}

	var layout, master *layoutInfo
	if rel, ok := rels.ByType(relSlideLayout); ok {
		layout = d.layouts[rel.Target]
	}
	if layout != nil {
		slide.LayoutID = layout.Name
		master = d.layouts[layout.Master]
	}

	var doc partXML
	if err := readXML(d.pkg, part, &doc); err != nil {
		d.diag.add(model.WarningMalformedPart, part, "%v", err)
		slide.Background = inheritedBackground(layout, master)
		return slide
	}

	b := &slideBuilder{
		diag:         d.diag,
		rels:         rels,
		media:        d.media,
		theme:        d.theme,
		layout:       layout,
		master:       master,
		slideNumbers: d.slideNumbers,
		newID:        d.newID,
	}
	b.walk(&doc.CSld.SpTree, identity)
	slide.Elements = b.elements

	if bg, ok := parseBackground(doc.CSld.Bg, rels, d.media, d.theme, d.diag, part); ok {
		slide.Background = bg
	} else {
		slide.Background = inheritedBackground(layout, master)
	}

	if rel, ok := rels.ByType(relNotesSlide); ok && !rel.External {
		if data, err := d.pkg.ReadPart(rel.Target); err == nil {
			slide.Notes = ExtractNotes(data)
		}
	}
	return slide
}

func inheritedBackground(layout, master *layoutInfo) model.Background {
	for _, src := range []*layoutInfo{layout, master} {
		if src != nil && src.HasBackground {
			return src.Background
		}
	}
	return model.Background{}
}
