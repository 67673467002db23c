package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"

	"github.com/tsawler/deckcodec/colors"
	"github.com/tsawler/deckcodec/internal/logging"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/units"
)

// DefaultAuthor is written when the model carries no author.
const DefaultAuthor = "deckcodec"

// minExtent is the smallest width or height, in inches, the package
// format accepts.
const minExtent = 0.1

// ErrNilPresentation is returned when there is nothing to export.
var ErrNilPresentation = errors.New("export: nil presentation")

// Options configures an export.
type Options struct {
	// Author replaces an empty metadata author.
	Author string
	// Workers bounds concurrent image preparation.
	Workers int
	Logger  *slog.Logger
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		Author:  DefaultAuthor,
		Workers: runtime.GOMAXPROCS(0),
	}
}

func (o Options) withDefaults() Options {
	if o.Author == "" {
		o.Author = DefaultAuthor
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	o.Logger = logging.Component(o.Logger, "export")
	return o
}

// Export writes p through w and returns the serialized package together
// with a warning for every element that was skipped or defaulted.
func Export(p *model.Presentation, w Writer, opts Options) ([]byte, []model.Warning, error) {
	return ExportContext(context.Background(), p, w, opts)
}

// ExportContext is Export with a context bounding image preparation.
func ExportContext(ctx context.Context, p *model.Presentation, w Writer, opts Options) ([]byte, []model.Warning, error) {
	if p == nil {
		return nil, nil, ErrNilPresentation
	}
	opts = opts.withDefaults()

	images, err := prepareImages(ctx, imageSources(p), opts.Workers)
	if err != nil {
		return nil, nil, fmt.Errorf("preparing images: %w", err)
	}

	e := &engine{logger: opts.Logger, images: images}
	w.SetMetadata(e.metadata(p.Metadata, opts.Author))
	w.DefineLayout(units.PixelsToInches(p.Width), units.PixelsToInches(p.Height))
	theme := p.Theme
	if theme.Colors.IsZero() {
		theme = model.DefaultTheme()
	}
	w.SetTheme(theme)

	for i := range p.Slides {
		e.slide = i
		e.writeSlide(&p.Slides[i], w.AddSlide())
	}

	data, err := w.Bytes()
	if err != nil {
		return nil, e.warnings, fmt.Errorf("serializing package: %w", err)
	}
	opts.Logger.Debug("exported presentation",
		"slides", len(p.Slides),
		"images", len(images),
		"warnings", len(e.warnings))
	return data, e.warnings, nil
}

// imageSources lists every image source the export will need.
func imageSources(p *model.Presentation) []string {
	var out []string
	for i := range p.Slides {
		s := &p.Slides[i]
		if s.Background.Type == model.BackgroundImage && s.Background.Image != "" {
			out = append(out, s.Background.Image)
		}
		for _, el := range s.Elements {
			if img, ok := el.(*model.ImageElement); ok {
				out = append(out, img.Src)
			}
		}
	}
	return out
}

// engine carries per-export state. It is used from one goroutine.
type engine struct {
	logger   *slog.Logger
	images   map[string]preparedImage
	slide    int
	warnings []model.Warning
}

func (e *engine) warn(kind model.WarningKind, element, format string, args ...any) {
	w := model.Warning{
		Kind:    kind,
		Slide:   e.slide,
		Element: element,
		Message: fmt.Sprintf(format, args...),
	}
	e.warnings = append(e.warnings, w)
	e.logger.Warn(w.Message, "slide", e.slide, "element", element, "kind", kind.String())
}

func (e *engine) metadata(m model.Metadata, author string) Metadata {
	out := Metadata{
		Author:         SanitizeText(strings.TrimSpace(m.Author)),
		Title:          SanitizeText(m.Title),
		Subject:        SanitizeText(m.Subject),
		LastModifiedBy: SanitizeText(m.LastModifiedBy),
		Created:        m.Created,
		Modified:       m.Modified,
	}
	if out.Author == "" {
		out.Author = author
	}
	for _, k := range m.Keywords {
		if k = strings.TrimSpace(SanitizeText(k)); k != "" {
			out.Keywords = append(out.Keywords, k)
		}
	}
	return out
}

func (e *engine) writeSlide(s *model.Slide, sw SlideWriter) {
	sw.SetBackground(e.background(s.Background))

	for _, el := range s.SortedElements() {
		switch v := el.(type) {
		case *model.TextElement:
			e.writeText(v, sw)
		case *model.ShapeElement:
			e.writeShape(v, sw)
		case *model.ImageElement:
			e.writeImage(v, sw)
		case *model.TableElement:
			e.writeTable(v, sw)
		}
	}

	if notes := strings.TrimSpace(SanitizeText(s.Notes)); notes != "" {
		sw.SetNotes(notes)
	}
}

func (e *engine) background(bg model.Background) BackgroundSpec {
	white := BackgroundSpec{Color: colors.HexWhite}
	switch bg.Type {
	case model.BackgroundSolid:
		return BackgroundSpec{Color: colors.Sanitize(bg.Color, colors.HexWhite)}
	case model.BackgroundGradient:
		c := bg.Color
		if len(bg.Stops) > 0 {
			c = bg.Stops[0].Color
		}
		return BackgroundSpec{Color: colors.Sanitize(c, colors.HexWhite)}
	case model.BackgroundImage:
		prep, ok := e.images[bg.Image]
		if !ok || prep.err != nil {
			e.warn(model.WarningInvalidImageSource, "background", "background image source rejected")
			return white
		}
		if prep.decodeErr != nil {
			e.warn(model.WarningImageDecode, "background", "%v", prep.decodeErr)
		}
		data := prep.data
		return BackgroundSpec{Color: colors.HexWhite, Image: &data}
	}
	return white
}

// frame converts element geometry to inches, or reports false when the
// element has no area.
func (e *engine) frame(b model.Base) (Frame, bool) {
	if b.Width <= 0 || b.Height <= 0 {
		e.warn(model.WarningInvalidGeometry, b.Name, "size %dx%d", b.Width, b.Height)
		return Frame{}, false
	}
	rot := b.Rotation
	if math.IsNaN(rot) || math.IsInf(rot, 0) {
		rot = 0
	}
	return Frame{
		Name:     SanitizeText(b.Name),
		X:        math.Max(0, units.PixelsToInches(b.X)),
		Y:        math.Max(0, units.PixelsToInches(b.Y)),
		W:        math.Max(minExtent, units.PixelsToInches(b.Width)),
		H:        math.Max(minExtent, units.PixelsToInches(b.Height)),
		Rotation: rot,
		Locked:   b.Locked,
		Z:        b.Z,
	}, true
}

func (e *engine) writeText(t *model.TextElement, sw SlideWriter) {
	f, ok := e.frame(t.Base)
	if !ok {
		return
	}
	runs := Runs(t.Content)
	if len(runs) == 0 {
		e.warn(model.WarningEmptyText, t.Name, "no text after sanitization")
		return
	}
	sw.AddText(TextSpec{Frame: f, Runs: runs, Box: t.Box, Placeholder: t.Placeholder})
}

func (e *engine) writeShape(s *model.ShapeElement, sw SlideWriter) {
	f, ok := e.frame(s.Base)
	if !ok {
		return
	}
	f.FlipH, f.FlipV = s.FlipH, s.FlipV

	spec := ShapeSpec{Frame: f, Shape: s.Shape, Box: s.Box, Fill: fillSpec(s.Fill)}
	if s.Shape == model.ShapeOther {
		spec.Shape = model.ShapeRectangle
	}
	if s.Stroke.Width > 0 {
		spec.Line = &LineSpec{
			Color:        colors.Sanitize(s.Stroke.Color, colors.HexBlack),
			Width:        s.Stroke.Width,
			Dash:         s.Stroke.Dash,
			Transparency: transparency(s.Stroke.Opacity),
		}
	}
	if s.Text != nil {
		spec.Runs = Runs(*s.Text)
	}
	sw.AddShape(spec)
}

func fillSpec(f model.Fill) FillSpec {
	out := FillSpec{Type: f.Type, Transparency: transparency(f.Opacity), Angle: f.Angle}
	switch f.Type {
	case model.FillNone:
	case model.FillGradient:
		for _, s := range f.Stops {
			out.Stops = append(out.Stops, model.GradientStop{
				Position: math.Min(100, math.Max(0, s.Position)),
				Color:    colors.Sanitize(s.Color, colors.HexWhite),
			})
		}
		if len(out.Stops) < 2 {
			c := f.Color
			if len(out.Stops) == 1 {
				c = out.Stops[0].Color
			}
			return FillSpec{Type: model.FillSolid, Color: colors.Sanitize(c, colors.HexWhite), Transparency: out.Transparency}
		}
		out.Color = out.Stops[0].Color
	default:
		out.Color = colors.Sanitize(f.Color, colors.HexWhite)
	}
	return out
}

// transparency converts an opacity to the writer's transparency. Zero
// opacity is treated as unset.
func transparency(opacity float64) float64 {
	if opacity <= 0 || opacity >= 1 || math.IsNaN(opacity) {
		return 0
	}
	return 1 - opacity
}

func (e *engine) writeImage(img *model.ImageElement, sw SlideWriter) {
	f, ok := e.frame(img.Base)
	if !ok {
		return
	}
	prep, ok := e.images[img.Src]
	if !ok || prep.err != nil {
		e.warn(model.WarningInvalidImageSource, img.Name, "image source rejected")
		return
	}
	if prep.decodeErr != nil {
		e.warn(model.WarningImageDecode, img.Name, "%v", prep.decodeErr)
	}
	sw.AddImage(ImageSpec{Frame: f, Image: prep.data, AltText: SanitizeText(img.AltText)})
}

func (e *engine) writeTable(t *model.TableElement, sw SlideWriter) {
	f, ok := e.frame(t.Base)
	if !ok {
		return
	}
	if len(t.Cells) == 0 {
		e.warn(model.WarningInvalidGeometry, t.Name, "table has no rows")
		return
	}

	spec := TableSpec{Frame: f, Cells: make([][]CellSpec, len(t.Cells))}
	for r, row := range t.Cells {
		spec.Cells[r] = make([]CellSpec, len(row))
		for c, cell := range row {
			spec.Cells[r][c] = CellSpec{
				Text:    SanitizeText(cell.Text),
				RowSpan: max(1, cell.RowSpan),
				ColSpan: max(1, cell.ColSpan),
				Merged:  cell.Merged,
			}
		}
	}
	for _, w := range t.ColumnWidths {
		spec.ColumnWidths = append(spec.ColumnWidths, math.Max(0, units.PixelsToInches(w)))
	}
	for _, h := range t.RowHeights {
		spec.RowHeights = append(spec.RowHeights, math.Max(0, units.PixelsToInches(h)))
	}
	sw.AddTable(spec)
}
