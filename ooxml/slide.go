package ooxml

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tsawler/deckcodec/export"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/pptx"
	"github.com/tsawler/deckcodec/units"
)

const (
	tableURI       = "http://schemas.openxmlformats.org/drawingml/2006/table"
	actionSlideJmp = "ppaction://hlinksldjump"
)

// slideItem is one element queued for rendering. Exactly one spec is set.
type slideItem struct {
	text  *export.TextSpec
	shape *export.ShapeSpec
	image *export.ImageSpec
	media string // Part path of an embedded image
	table *export.TableSpec
}

// slideWriter collects one slide. Rendering is deferred to Bytes because
// slide hyperlinks can only be checked once the slide count is final.
type slideWriter struct {
	w      *Writer
	number int

	bg      export.BackgroundSpec
	bgMedia string
	items   []slideItem
	notes   string
}

func newSlideWriter(w *Writer, number int) *slideWriter {
	return &slideWriter{w: w, number: number, bg: export.BackgroundSpec{Color: "FFFFFF"}}
}

func (s *slideWriter) SetBackground(bg export.BackgroundSpec) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.bg = bg
	s.bgMedia = ""
	if bg.Image != nil && !bg.Image.External() {
		s.bgMedia = s.w.addMedia(bg.Image.Data, bg.Image.MIME)
	}
}

func (s *slideWriter) AddText(t export.TextSpec) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.items = append(s.items, slideItem{text: &t})
}

func (s *slideWriter) AddShape(sh export.ShapeSpec) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.items = append(s.items, slideItem{shape: &sh})
}

func (s *slideWriter) AddImage(img export.ImageSpec) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	item := slideItem{image: &img}
	if !img.Image.External() {
		item.media = s.w.addMedia(img.Image.Data, img.Image.MIME)
	}
	s.items = append(s.items, item)
}

func (s *slideWriter) AddTable(t export.TableSpec) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.items = append(s.items, slideItem{table: &t})
}

func (s *slideWriter) SetNotes(notes string) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.notes = notes
}

func (s *slideWriter) partName() string {
	return fmt.Sprintf("ppt/slides/slide%d.xml", s.number)
}

func (s *slideWriter) relsPartName() string {
	return fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s.number)
}

func (s *slideWriter) notesPartName() string {
	return fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", s.number)
}

func (s *slideWriter) notesRelsPartName() string {
	return fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", s.number)
}

// render produces the slide part and its relationships. slideCount
// bounds internal slide links.
func (s *slideWriter) render(slideCount int) (slideXML, relsXMLText string) {
	r := &slideRenderer{
		slideCount: slideCount,
		rels:       []rel{{id: "rId1", typ: relSlideLayout, target: "../slideLayouts/slideLayout1.xml"}},
		byTarget:   map[string]string{},
		nextShape:  2,
	}

	var sb strings.Builder
	sb.WriteString(xmlDecl)
	sb.WriteString(`<p:sld ` + nsPML + `><p:cSld>`)
	r.background(&sb, s.bg, s.bgMedia)
	sb.WriteString(`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	sb.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	for _, it := range s.items {
		switch {
		case it.text != nil:
			r.text(&sb, it.text)
		case it.shape != nil:
			r.shape(&sb, it.shape)
		case it.image != nil:
			r.image(&sb, it.image, it.media)
		case it.table != nil:
			r.table(&sb, it.table)
		}
	}
	sb.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)

	if s.notes != "" {
		r.add(relNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", s.number), false)
	}
	return sb.String(), relsXML(r.rels)
}

func (s *slideWriter) notesXML() string {
	var sb strings.Builder
	sb.WriteString(xmlDecl)
	sb.WriteString(`<p:notes ` + nsPML + `><p:cSld>`)
	sb.WriteString(`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	sb.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/>` +
		`<p:cNvSpPr><a:spLocks noGrp="1" noRot="1" noChangeAspect="1"/></p:cNvSpPr>` +
		`<p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>`)
	sb.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/>` +
		`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>` +
		`<p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	writePlainParagraphs(&sb, s.notes)
	sb.WriteString(`</p:txBody></p:sp></p:spTree></p:cSld>`)
	sb.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`)
	return sb.String()
}

func (s *slideWriter) notesRelsXML() string {
	return relsXML([]rel{
		{id: "rId1", typ: relNotesMaster, target: "../notesMasters/notesMaster1.xml"},
		{id: "rId2", typ: relSlide, target: fmt.Sprintf("../slides/slide%d.xml", s.number)},
	})
}

// slideRenderer holds the state of one render pass.
type slideRenderer struct {
	slideCount int
	rels       []rel
	byTarget   map[string]string
	nextShape  int
}

// add returns the relationship ID for a target, reusing an existing one.
func (r *slideRenderer) add(typ, target string, external bool) string {
	key := typ + "|" + target
	if id, ok := r.byTarget[key]; ok {
		return id
	}
	id := "rId" + strconv.Itoa(len(r.rels)+1)
	r.rels = append(r.rels, rel{id: id, typ: typ, target: target, external: external})
	r.byTarget[key] = id
	return id
}

// link resolves a run hyperlink. "#slideN" within range becomes an
// internal slide jump; anything else is an external hyperlink.
func (r *slideRenderer) link(target string) (string, string) {
	if n, ok := slideLinkNumber(target); ok && n >= 1 && n <= r.slideCount {
		return r.add(relSlide, fmt.Sprintf("slide%d.xml", n), false), actionSlideJmp
	}
	return r.add(relHyperlink, target, true), ""
}

func slideLinkNumber(target string) (int, bool) {
	rest, ok := strings.CutPrefix(target, "#slide")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

func (r *slideRenderer) shapeID() int {
	id := r.nextShape
	r.nextShape++
	return id
}

// cNvPr renders the non-visual properties, carrying the z-index hint.
func (r *slideRenderer) cNvPr(sb *strings.Builder, id int, f export.Frame, descr string) {
	name := f.Name
	if name == "" {
		name = "Shape " + strconv.Itoa(id-1)
	}
	fmt.Fprintf(sb, `<p:cNvPr id="%d" name="%s"`, id, esc(name))
	if descr != "" {
		fmt.Fprintf(sb, ` descr="%s"`, esc(descr))
	}
	fmt.Fprintf(sb, `><a:extLst><a:ext uri="%s"><dc:zIndex xmlns:dc="urn:deckcodec" val="%d"/></a:ext></a:extLst></p:cNvPr>`,
		pptx.ZOrderExtURI, f.Z)
}

func xfrm(sb *strings.Builder, prefix string, f export.Frame) {
	fmt.Fprintf(sb, `<%s:xfrm`, prefix)
	if rot := units.DegreesToRotation(f.Rotation); rot != 0 {
		fmt.Fprintf(sb, ` rot="%d"`, rot)
	}
	if f.FlipH {
		sb.WriteString(` flipH="1"`)
	}
	if f.FlipV {
		sb.WriteString(` flipV="1"`)
	}
	fmt.Fprintf(sb, `><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></%s:xfrm>`,
		units.InchesToEMU(f.X), units.InchesToEMU(f.Y),
		units.InchesToEMU(f.W), units.InchesToEMU(f.H), prefix)
}

func locks(tag string, locked bool, extra string) string {
	attrs := extra
	if locked {
		attrs += ` noMove="1" noResize="1"`
	}
	if attrs == "" {
		return ""
	}
	return "<a:" + tag + attrs + "/>"
}

func placeholderAttrs(p model.Placeholder) string {
	switch p {
	case model.PlaceholderTitle:
		return `type="title"`
	case model.PlaceholderSubtitle:
		return `type="subTitle" idx="1"`
	case model.PlaceholderBody:
		return `type="body" idx="1"`
	case model.PlaceholderDate:
		return `type="dt" sz="half" idx="10"`
	case model.PlaceholderFooter:
		return `type="ftr" sz="quarter" idx="11"`
	case model.PlaceholderSlideNumber:
		return `type="sldNum" sz="quarter" idx="12"`
	}
	return ""
}

func (r *slideRenderer) text(sb *strings.Builder, t *export.TextSpec) {
	id := r.shapeID()
	sb.WriteString(`<p:sp><p:nvSpPr>`)
	r.cNvPr(sb, id, t.Frame, "")
	if t.Placeholder == model.PlaceholderNone {
		fmt.Fprintf(sb, `<p:cNvSpPr txBox="1">%s</p:cNvSpPr><p:nvPr/>`, locks("spLocks", t.Locked, ""))
	} else {
		fmt.Fprintf(sb, `<p:cNvSpPr>%s</p:cNvSpPr><p:nvPr><p:ph %s/></p:nvPr>`,
			locks("spLocks", t.Locked, ` noGrp="1"`), placeholderAttrs(t.Placeholder))
	}
	sb.WriteString(`</p:nvSpPr><p:spPr>`)
	xfrm(sb, "a", t.Frame)
	sb.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	writeTxBody(sb, "p:txBody", t.Runs, t.Box, r.link)
	sb.WriteString(`</p:sp>`)
}

// presetGeometry maps a shape kind to its DrawingML preset name.
func presetGeometry(k model.ShapeKind) string {
	switch k {
	case model.ShapeRoundedRectangle:
		return "roundRect"
	case model.ShapeEllipse:
		return "ellipse"
	case model.ShapeTriangle:
		return "triangle"
	case model.ShapeDiamond:
		return "diamond"
	case model.ShapePentagon:
		return "pentagon"
	case model.ShapeHexagon:
		return "hexagon"
	case model.ShapeStar5:
		return "star5"
	case model.ShapeStar6:
		return "star6"
	case model.ShapeArrow:
		return "rightArrow"
	case model.ShapeChevron:
		return "chevron"
	case model.ShapeCallout:
		return "wedgeRectCallout"
	case model.ShapeLine:
		return "line"
	case model.ShapeCurvedLine:
		return "curvedConnector3"
	case model.ShapeConnector:
		return "bentConnector3"
	default:
		return "rect"
	}
}

func (r *slideRenderer) shape(sb *strings.Builder, s *export.ShapeSpec) {
	id := r.shapeID()
	if s.Shape.IsLine() {
		sb.WriteString(`<p:cxnSp><p:nvCxnSpPr>`)
		r.cNvPr(sb, id, s.Frame, "")
		fmt.Fprintf(sb, `<p:cNvCxnSpPr>%s</p:cNvCxnSpPr><p:nvPr/></p:nvCxnSpPr><p:spPr>`, locks("cxnSpLocks", s.Locked, ""))
		xfrm(sb, "a", s.Frame)
		fmt.Fprintf(sb, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, presetGeometry(s.Shape))
		writeLine(sb, s.Line)
		sb.WriteString(`</p:spPr></p:cxnSp>`)
		return
	}

	sb.WriteString(`<p:sp><p:nvSpPr>`)
	r.cNvPr(sb, id, s.Frame, "")
	fmt.Fprintf(sb, `<p:cNvSpPr>%s</p:cNvSpPr><p:nvPr/></p:nvSpPr><p:spPr>`, locks("spLocks", s.Locked, ""))
	xfrm(sb, "a", s.Frame)
	fmt.Fprintf(sb, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, presetGeometry(s.Shape))
	writeFill(sb, s.Fill)
	writeLine(sb, s.Line)
	sb.WriteString(`</p:spPr>`)
	if len(s.Runs) > 0 {
		writeTxBody(sb, "p:txBody", s.Runs, s.Box, r.link)
	}
	sb.WriteString(`</p:sp>`)
}

// srgb renders a color with an optional alpha derived from transparency.
func srgb(color string, transparency float64) string {
	if transparency <= 0 {
		return fmt.Sprintf(`<a:srgbClr val="%s"/>`, color)
	}
	return fmt.Sprintf(`<a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr>`,
		color, units.FractionToPercent(1-transparency))
}

func writeFill(sb *strings.Builder, f export.FillSpec) {
	switch f.Type {
	case model.FillSolid:
		fmt.Fprintf(sb, `<a:solidFill>%s</a:solidFill>`, srgb(f.Color, f.Transparency))
	case model.FillGradient:
		sb.WriteString(`<a:gradFill rotWithShape="1"><a:gsLst>`)
		for _, st := range f.Stops {
			fmt.Fprintf(sb, `<a:gs pos="%d">%s</a:gs>`, int(st.Position*1000), srgb(st.Color, f.Transparency))
		}
		fmt.Fprintf(sb, `</a:gsLst><a:lin ang="%d" scaled="0"/></a:gradFill>`, units.DegreesToRotation(f.Angle))
	case model.FillPattern:
		fmt.Fprintf(sb, `<a:pattFill prst="pct50"><a:fgClr>%s</a:fgClr><a:bgClr><a:srgbClr val="FFFFFF"/></a:bgClr></a:pattFill>`,
			srgb(f.Color, f.Transparency))
	default:
		sb.WriteString(`<a:noFill/>`)
	}
}

func dashPreset(d model.DashStyle) string {
	switch d {
	case model.DashDashed:
		return "dash"
	case model.DashDotted:
		return "sysDot"
	default:
		return "solid"
	}
}

func writeLine(sb *strings.Builder, l *export.LineSpec) {
	if l == nil {
		sb.WriteString(`<a:ln><a:noFill/></a:ln>`)
		return
	}
	fmt.Fprintf(sb, `<a:ln w="%d"><a:solidFill>%s</a:solidFill><a:prstDash val="%s"/></a:ln>`,
		units.PointsToEMU(l.Width), srgb(l.Color, l.Transparency), dashPreset(l.Dash))
}

// mediaTarget makes a media part path relative to ppt/slides/.
func mediaTarget(part string) string {
	return "../media/" + path.Base(part)
}

func (r *slideRenderer) image(sb *strings.Builder, img *export.ImageSpec, media string) {
	var blip string
	if img.Image.External() {
		blip = fmt.Sprintf(`<a:blip r:link="%s"/>`, r.add(relImage, img.Image.URL, true))
	} else {
		blip = fmt.Sprintf(`<a:blip r:embed="%s"/>`, r.add(relImage, mediaTarget(media), false))
	}

	id := r.shapeID()
	sb.WriteString(`<p:pic><p:nvPicPr>`)
	r.cNvPr(sb, id, img.Frame, img.AltText)
	fmt.Fprintf(sb, `<p:cNvPicPr>%s</p:cNvPicPr><p:nvPr/></p:nvPicPr>`, locks("picLocks", img.Locked, ` noChangeAspect="1"`))
	fmt.Fprintf(sb, `<p:blipFill>%s<a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr>`, blip)
	xfrm(sb, "a", img.Frame)
	sb.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
}

func (r *slideRenderer) background(sb *strings.Builder, bg export.BackgroundSpec, media string) {
	if media != "" {
		fmt.Fprintf(sb, `<p:bg><p:bgPr><a:blipFill dpi="0" rotWithShape="1"><a:blip r:embed="%s"/><a:srcRect/><a:stretch><a:fillRect/></a:stretch></a:blipFill><a:effectLst/></p:bgPr></p:bg>`,
			r.add(relImage, mediaTarget(media), false))
		return
	}
	color := bg.Color
	if color == "" {
		color = "FFFFFF"
	}
	fmt.Fprintf(sb, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, color)
}

// table renders a graphic frame holding an a:tbl. Every row is padded to
// the grid width, and cells covered by a span get the matching merge
// flag.
func (r *slideRenderer) table(sb *strings.Builder, t *export.TableSpec) {
	rows := len(t.Cells)
	cols := 0
	for _, row := range t.Cells {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		cols = 1
	}

	widths := extents(t.ColumnWidths, cols, t.W)
	heights := extents(t.RowHeights, rows, t.H)
	hMerge, vMerge := mergeFlags(t.Cells, rows, cols)

	id := r.shapeID()
	sb.WriteString(`<p:graphicFrame><p:nvGraphicFramePr>`)
	r.cNvPr(sb, id, t.Frame, "")
	fmt.Fprintf(sb, `<p:cNvGraphicFramePr>%s</p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`,
		locks("graphicFrameLocks", t.Locked, ` noGrp="1"`))
	xfrm(sb, "p", t.Frame)
	fmt.Fprintf(sb, `<a:graphic><a:graphicData uri="%s"><a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`, tableURI)
	for _, w := range widths {
		fmt.Fprintf(sb, `<a:gridCol w="%d"/>`, w)
	}
	sb.WriteString(`</a:tblGrid>`)

	for ri := 0; ri < rows; ri++ {
		fmt.Fprintf(sb, `<a:tr h="%d">`, heights[ri])
		for ci := 0; ci < cols; ci++ {
			cell := export.CellSpec{RowSpan: 1, ColSpan: 1}
			if ci < len(t.Cells[ri]) {
				cell = t.Cells[ri][ci]
			}
			sb.WriteString(`<a:tc`)
			if cell.ColSpan > 1 {
				fmt.Fprintf(sb, ` gridSpan="%d"`, cell.ColSpan)
			}
			if cell.RowSpan > 1 {
				fmt.Fprintf(sb, ` rowSpan="%d"`, cell.RowSpan)
			}
			if hMerge[ri][ci] || (cell.Merged && !vMerge[ri][ci]) {
				sb.WriteString(` hMerge="1"`)
			}
			if vMerge[ri][ci] {
				sb.WriteString(` vMerge="1"`)
			}
			sb.WriteString(`><a:txBody><a:bodyPr/><a:lstStyle/>`)
			writePlainParagraphs(sb, cell.Text)
			sb.WriteString(`</a:txBody><a:tcPr/></a:tc>`)
		}
		sb.WriteString(`</a:tr>`)
	}
	sb.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

// extents converts n lengths in inches to EMUs. When the given lengths do
// not match n, or any is zero, total is split evenly instead.
func extents(lengths []float64, n int, total float64) []int64 {
	out := make([]int64, n)
	usable := len(lengths) == n
	for _, l := range lengths {
		if l <= 0 {
			usable = false
		}
	}
	for i := range out {
		if usable {
			out[i] = units.InchesToEMU(lengths[i])
		} else if n > 0 {
			out[i] = units.InchesToEMU(total / float64(n))
		}
	}
	return out
}

// mergeFlags marks cells covered by another cell's span: hMerge for
// cells to the right of an origin, vMerge for cells below it.
func mergeFlags(cells [][]export.CellSpec, rows, cols int) (h, v [][]bool) {
	h = make([][]bool, rows)
	v = make([][]bool, rows)
	for i := range h {
		h[i] = make([]bool, cols)
		v[i] = make([]bool, cols)
	}
	for ri, row := range cells {
		for ci, c := range row {
			if c.Merged || h[ri][ci] || v[ri][ci] {
				continue
			}
			for dr := 0; dr < c.RowSpan && ri+dr < rows; dr++ {
				for dc := 0; dc < c.ColSpan && ci+dc < cols; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					if dr > 0 {
						v[ri+dr][ci+dc] = true
					}
					if dc > 0 {
						h[ri+dr][ci+dc] = true
					}
				}
			}
		}
	}
	return h, v
}
