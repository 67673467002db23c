package pptx

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/tsawler/deckcodec/colors"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/units"
)

// defaultLineWidth is the outline width, in points, implied by a theme
// line reference or a bare connector.
const defaultLineWidth = 0.75

// diagnostics collects warnings for one slide (or the document when
// slide is -1) and logs each as it is recorded.
type diagnostics struct {
	slide  int
	logger *slog.Logger

	mu       sync.Mutex
	warnings []model.Warning
}

func newDiagnostics(slide int, logger *slog.Logger) *diagnostics {
	return &diagnostics{slide: slide, logger: logger}
}

func (d *diagnostics) add(kind model.WarningKind, element, format string, args ...any) {
	w := model.Warning{
		Kind:    kind,
		Slide:   d.slide,
		Element: element,
		Message: fmt.Sprintf(format, args...),
	}
	d.mu.Lock()
	d.warnings = append(d.warnings, w)
	d.mu.Unlock()
	d.logger.Warn(w.Message, "slide", d.slide, "element", element, "kind", kind.String())
}

// transform maps coordinates from a group's child space into slide space.
// Group rotation is accumulated and added to each child's own rotation.
type transform struct {
	sx, dx float64
	sy, dy float64
	rot    float64
}

var identity = transform{sx: 1, sy: 1}

func (t transform) apply(off *ptXML, ext *extentXML) (x, y, w, h float64) {
	return t.sx*float64(off.X) + t.dx,
		t.sy*float64(off.Y) + t.dy,
		t.sx * float64(ext.Cx),
		t.sy * float64(ext.Cy)
}

// child returns the transform for the children of a group whose own
// transform is xf, expressed in t's coordinate space.
func (t transform) child(xf *xfrmXML) transform {
	if xf == nil || xf.Off == nil || xf.Ext == nil {
		return t
	}
	g := transform{sx: 1, sy: 1}
	chOff := ptXML{}
	if xf.ChOff != nil {
		chOff = *xf.ChOff
	}
	if xf.ChExt != nil && xf.ChExt.Cx > 0 {
		g.sx = float64(xf.Ext.Cx) / float64(xf.ChExt.Cx)
	}
	if xf.ChExt != nil && xf.ChExt.Cy > 0 {
		g.sy = float64(xf.Ext.Cy) / float64(xf.ChExt.Cy)
	}
	g.dx = float64(xf.Off.X) - float64(chOff.X)*g.sx
	g.dy = float64(xf.Off.Y) - float64(chOff.Y)*g.sy

	return transform{
		sx:  t.sx * g.sx,
		dx:  t.sx*g.dx + t.dx,
		sy:  t.sy * g.sy,
		dy:  t.sy*g.dy + t.dy,
		rot: t.rot + units.RotationToDegrees(xf.Rot),
	}
}

// slideBuilder turns one decoded shape tree into model elements.
type slideBuilder struct {
	diag   *diagnostics
	rels   Relationships
	media  MediaMap
	theme  *model.Theme
	layout *layoutInfo
	master *layoutInfo
	// slideNumbers maps slide part paths to 1-based positions.
	slideNumbers map[string]int
	newID        func() string

	order    int
	elements []model.Element
}

// walk visits a shape tree in document order, flattening groups.
func (b *slideBuilder) walk(tree *shapeTreeXML, tr transform) {
	for _, node := range tree.Nodes {
		switch {
		case node.Sp != nil:
			b.buildShape(node.Sp, tr)
		case node.Pic != nil:
			b.buildPicture(node.Pic, tr)
		case node.Frame != nil:
			b.buildFrame(node.Frame, tr)
		case node.Cxn != nil:
			b.buildConnector(node.Cxn, tr)
		case node.Group != nil:
			b.walk(node.Group, tr.child(node.Group.GrpSpPr.Xfrm))
		}
	}
}

// add appends an element and advances the document-order counter.
func (b *slideBuilder) add(el model.Element) {
	b.elements = append(b.elements, el)
	b.order++
}

// base builds the common element fields.
func (b *slideBuilder) base(cnv *cNvPrXML, xf *xfrmXML, tr transform, locked bool) model.Base {
	base := model.Base{
		ID:     b.newID(),
		Name:   cnv.Name,
		Locked: locked,
		Z:      b.order,
	}
	if z, ok := zIndexHint(cnv); ok {
		base.Z = z
	}
	if xf != nil && xf.Off != nil && xf.Ext != nil {
		x, y, w, h := tr.apply(xf.Off, xf.Ext)
		base.X = units.EMUToPixels(int64(math.Round(x)))
		base.Y = units.EMUToPixels(int64(math.Round(y)))
		base.Width = units.EMUToPixels(int64(math.Round(w)))
		base.Height = units.EMUToPixels(int64(math.Round(h)))
	}
	rot := tr.rot
	if xf != nil {
		rot += units.RotationToDegrees(xf.Rot)
	}
	base.Rotation = normalizeDegrees(rot)
	return base
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// zIndexHint reads an explicit z-index from the cNvPr extension list.
func zIndexHint(cnv *cNvPrXML) (int, bool) {
	if cnv.ExtLst == nil {
		return 0, false
	}
	for _, ext := range cnv.ExtLst.Ext {
		if ext.URI != ZOrderExtURI || ext.ZIndex == nil {
			continue
		}
		z, err := strconv.Atoi(strings.TrimSpace(ext.ZIndex.Val))
		if err != nil {
			return 0, false
		}
		return z, true
	}
	return 0, false
}

// textContextFor builds the run-decoding context for one element.
func (b *slideBuilder) textContextFor(element string, style *styleXML) textContext {
	tc := textContext{
		theme: b.theme,
		link: func(relID string) string {
			return b.resolveLink(element, relID)
		},
	}
	if style != nil && style.FontRef != nil {
		if spec := style.FontRef.spec(); spec != nil {
			tc.color = colors.Resolve(spec, b.theme, colors.Black)
		}
	}
	return tc
}

// resolveLink maps a hyperlink relationship to a URL or "#slideN".
func (b *slideBuilder) resolveLink(element, relID string) string {
	rel, ok := b.rels.Target(relID)
	if !ok {
		b.diag.add(model.WarningUnresolvedRelationship, element, "hyperlink %s not found", relID)
		return ""
	}
	if rel.External {
		return rel.Target
	}
	if n, ok := b.slideNumbers[rel.Target]; ok {
		return "#slide" + strconv.Itoa(n)
	}
	b.diag.add(model.WarningUnresolvedRelationship, element, "hyperlink %s targets %s", relID, rel.Target)
	return ""
}

// buildShape converts a p:sp into a text or shape element.
func (b *slideBuilder) buildShape(sp *spXML, tr transform) {
	nv := &sp.NvSpPr
	xf := sp.SpPr.Xfrm
	if !hasGeometry(xf) && nv.NvPr.Ph != nil {
		xf = b.inheritedGeometry(nv.NvPr.Ph)
	}
	locked := nv.CNvSpPr.SpLocks != nil && truthy(nv.CNvSpPr.SpLocks.NoMove)
	base := b.base(&nv.CNvPr, xf, tr, locked)

	tc := b.textContextFor(base.Name, sp.Style)
	var content model.TextContent
	var box model.TextBox
	if sp.TxBody != nil {
		content = parseTextBody(sp.TxBody, tc)
		box = parseBodyProps(&sp.TxBody.BodyPr)
	} else {
		box = model.DefaultTextBox()
	}

	fill := b.fill(&sp.SpPr.fillPropsXML, sp.Style)
	stroke := b.stroke(sp.SpPr.Ln, sp.Style, false)
	kind := shapeKind(sp.SpPr)

	plainRect := kind == model.ShapeRectangle && fill.Type == model.FillNone && !stroke.Visible()
	isText := nv.NvPr.Ph != nil || truthy(nv.CNvSpPr.TxBox) || (plainRect && !content.IsEmpty())

	if isText {
		b.add(&model.TextElement{
			Base:        base,
			Content:     content,
			Box:         box,
			Placeholder: placeholderKind(nv.NvPr.Ph),
		})
		return
	}

	el := &model.ShapeElement{
		Base:   base,
		Shape:  kind,
		Fill:   fill,
		Stroke: stroke,
		Box:    box,
	}
	if xf != nil {
		el.FlipH = truthy(xf.FlipH)
		el.FlipV = truthy(xf.FlipV)
	}
	if !content.IsEmpty() {
		el.Text = &content
	}
	b.add(el)
}

// buildConnector converts a p:cxnSp into a line shape.
func (b *slideBuilder) buildConnector(cxn *cxnSpXML, tr transform) {
	base := b.base(&cxn.NvCxnSpPr.CNvPr, cxn.SpPr.Xfrm, tr, false)
	kind := model.ShapeLine
	if cxn.SpPr.PrstGeom != nil {
		if k := presetShape(cxn.SpPr.PrstGeom.Prst); k.IsLine() {
			kind = k
		}
	}
	el := &model.ShapeElement{
		Base:   base,
		Shape:  kind,
		Fill:   model.Fill{Type: model.FillNone},
		Stroke: b.stroke(cxn.SpPr.Ln, cxn.Style, true),
		Box:    model.DefaultTextBox(),
	}
	if xf := cxn.SpPr.Xfrm; xf != nil {
		el.FlipH = truthy(xf.FlipH)
		el.FlipV = truthy(xf.FlipV)
	}
	b.add(el)
}

// buildPicture converts a p:pic. Pictures whose media cannot be found are
// skipped.
func (b *slideBuilder) buildPicture(pic *picXML, tr transform) {
	nv := &pic.NvPicPr
	name := nv.CNvPr.Name
	blip := pic.BlipFill.Blip
	if blip == nil || (blip.Embed == "" && blip.Link == "") {
		b.diag.add(model.WarningUnresolvedRelationship, name, "picture has no image reference")
		return
	}

	var src, partPath string
	var natW, natH int
	if blip.Embed != "" {
		rel, ok := b.rels.Target(blip.Embed)
		switch {
		case !ok:
			b.diag.add(model.WarningUnresolvedRelationship, name, "%s not found", blip.Embed)
			return
		case rel.External:
			src = rel.Target
		default:
			media, ok := b.media.Lookup(rel.Target)
			if !ok {
				b.diag.add(model.WarningMissingMedia, name, "%s has no media entry", rel.Target)
				return
			}
			src, partPath = media.DataURI(), media.Part
			natW, natH = media.Width, media.Height
		}
	} else {
		rel, ok := b.rels.Target(blip.Link)
		if !ok {
			b.diag.add(model.WarningUnresolvedRelationship, name, "%s not found", blip.Link)
			return
		}
		src = rel.Target
	}

	locked := nv.CNvPicPr.PicLocks != nil && truthy(nv.CNvPicPr.PicLocks.NoMove)
	b.add(&model.ImageElement{
		Base:          b.base(&nv.CNvPr, pic.SpPr.Xfrm, tr, locked),
		Src:           src,
		Path:          partPath,
		AltText:       nv.CNvPr.Descr,
		NaturalWidth:  natW,
		NaturalHeight: natH,
	})
}

// buildFrame converts a p:graphicFrame holding a table. Charts, diagrams
// and OLE objects are not represented.
func (b *slideBuilder) buildFrame(gf *graphicFrameXML, tr transform) {
	tbl := gf.Graphic.GraphicData.Tbl
	if tbl == nil {
		return
	}
	nv := &gf.NvGraphicFramePr
	locks := nv.CNvGraphicFramePr.GraphicFrameLocks
	base := b.base(&nv.CNvPr, gf.Xfrm, tr, locks != nil && truthy(locks.NoMove))

	rows := len(tbl.Tr)
	cols := len(tbl.TblGrid.GridCol)
	for _, row := range tbl.Tr {
		if len(row.Tc) > cols {
			cols = len(row.Tc)
		}
	}

	t := model.NewTable(rows, cols)
	t.Base = base
	for _, gc := range tbl.TblGrid.GridCol {
		t.ColumnWidths = append(t.ColumnWidths, units.EMUToPixels(gc.W))
	}
	tc := b.textContextFor(base.Name, nil)
	for r, row := range tbl.Tr {
		t.RowHeights = append(t.RowHeights, units.EMUToPixels(row.H))
		for c, cell := range row.Tc {
			mc := model.Cell{RowSpan: 1, ColSpan: 1}
			if cell.RowSpan > 1 {
				mc.RowSpan = cell.RowSpan
			}
			if cell.GridSpan > 1 {
				mc.ColSpan = cell.GridSpan
			}
			mc.Merged = truthy(cell.HMerge) || truthy(cell.VMerge)
			if cell.TxBody != nil {
				mc.Text = parseTextBody(cell.TxBody, tc).PlainText()
			}
			t.Cells[r][c] = mc
		}
	}
	b.add(t)
}

// fill resolves a shape fill, falling back to the theme style reference.
func (b *slideBuilder) fill(props *fillPropsXML, style *styleXML) model.Fill {
	switch {
	case props.NoFill != nil:
		return model.Fill{Type: model.FillNone}
	case props.SolidFill != nil:
		f := model.SolidFill(colors.Resolve(props.SolidFill.spec(), b.theme, colors.Black))
		f.Opacity = props.SolidFill.alpha()
		return f
	case props.GradFill != nil:
		return b.gradient(props.GradFill)
	case props.PattFill != nil:
		f := model.Fill{Type: model.FillPattern, Opacity: 1}
		f.Color = colors.Resolve(props.PattFill.FgClr.spec(), b.theme, colors.Black)
		return f
	}
	if style != nil && style.FillRef != nil && style.FillRef.Idx != "0" {
		if spec := style.FillRef.spec(); spec != nil {
			f := model.SolidFill(colors.Resolve(spec, b.theme, colors.Black))
			f.Opacity = style.FillRef.alpha()
			return f
		}
	}
	return model.Fill{Type: model.FillNone}
}

func (b *slideBuilder) gradient(g *gradFillXML) model.Fill {
	f := model.Fill{Type: model.FillGradient, Opacity: 1}
	if g.GsLst != nil {
		for _, gs := range g.GsLst.Gs {
			f.Stops = append(f.Stops, model.GradientStop{
				Position: float64(gs.Pos) / 1000,
				Color:    colors.Resolve(gs.spec(), b.theme, colors.Black),
			})
		}
	}
	if len(f.Stops) > 0 {
		f.Color = f.Stops[0].Color
	}
	if g.Lin != nil {
		f.Angle = float64(g.Lin.Ang) / units.RotationUnit
	}
	return f
}

// stroke resolves a shape outline. Connectors always draw: with no line
// properties they get a thin black line.
func (b *slideBuilder) stroke(ln *lnXML, style *styleXML, connector bool) model.Stroke {
	s := model.Stroke{Color: colors.Black, Opacity: 1}
	if ln != nil {
		if ln.NoFill != nil {
			return model.Stroke{}
		}
		if w, err := strconv.ParseInt(strings.TrimSpace(ln.W), 10, 64); err == nil && w > 0 {
			s.Width = units.EMUToPoints(w)
		}
		if ln.SolidFill != nil {
			s.Color = colors.Resolve(ln.SolidFill.spec(), b.theme, colors.Black)
			s.Opacity = ln.SolidFill.alpha()
			if s.Width == 0 {
				s.Width = defaultLineWidth
			}
		}
		if ln.PrstDash != nil {
			s.Dash = dashStyle(ln.PrstDash.Val)
		}
		if s.Width > 0 && ln.SolidFill == nil {
			s.Color = b.styleLineColor(style)
		}
		if s.Width > 0 {
			return s
		}
	}
	if style != nil && style.LnRef != nil && style.LnRef.Idx != "0" {
		s.Color = b.styleLineColor(style)
		s.Width = defaultLineWidth
		return s
	}
	if connector {
		s.Width = defaultLineWidth
		return s
	}
	return model.Stroke{}
}

func (b *slideBuilder) styleLineColor(style *styleXML) string {
	if style == nil || style.LnRef == nil {
		return colors.Black
	}
	return colors.Resolve(style.LnRef.spec(), b.theme, colors.Black)
}

func dashStyle(v string) model.DashStyle {
	switch {
	case v == "" || v == "solid":
		return model.DashSolid
	case strings.Contains(strings.ToLower(v), "dash"):
		return model.DashDashed
	case strings.Contains(strings.ToLower(v), "dot"):
		return model.DashDotted
	default:
		return model.DashSolid
	}
}

func hasGeometry(xf *xfrmXML) bool {
	return xf != nil && xf.Off != nil && xf.Ext != nil
}

// inheritedGeometry finds the transform of the matching placeholder on
// the layout, then the master.
func (b *slideBuilder) inheritedGeometry(ph *phXML) *xfrmXML {
	for _, src := range []*layoutInfo{b.layout, b.master} {
		if src == nil {
			continue
		}
		if xf := src.Placeholders.lookup(ph); xf != nil {
			return xf
		}
	}
	return nil
}

func shapeKind(spPr spPrXML) model.ShapeKind {
	switch {
	case spPr.PrstGeom != nil:
		return presetShape(spPr.PrstGeom.Prst)
	case spPr.CustGeom != nil:
		return model.ShapeOther
	default:
		return model.ShapeRectangle
	}
}

// presetShape maps a DrawingML preset geometry name to a shape kind.
func presetShape(prst string) model.ShapeKind {
	switch prst {
	case "", "rect":
		return model.ShapeRectangle
	case "roundRect", "round1Rect", "round2SameRect", "round2DiagRect", "snipRoundRect":
		return model.ShapeRoundedRectangle
	case "ellipse":
		return model.ShapeEllipse
	case "triangle", "rtTriangle":
		return model.ShapeTriangle
	case "diamond":
		return model.ShapeDiamond
	case "pentagon", "homePlate":
		return model.ShapePentagon
	case "hexagon":
		return model.ShapeHexagon
	case "star5":
		return model.ShapeStar5
	case "star6":
		return model.ShapeStar6
	case "rightArrow", "leftArrow", "upArrow", "downArrow", "leftRightArrow", "upDownArrow":
		return model.ShapeArrow
	case "chevron":
		return model.ShapeChevron
	case "line", "straightConnector1":
		return model.ShapeLine
	}
	switch {
	case strings.Contains(strings.ToLower(prst), "callout"):
		return model.ShapeCallout
	case strings.HasPrefix(prst, "curvedConnector"):
		return model.ShapeCurvedLine
	case strings.HasPrefix(prst, "bentConnector"):
		return model.ShapeConnector
	}
	return model.ShapeOther
}

// placeholderKind maps a p:ph type to the model placeholder role. A
// placeholder without a type is a body placeholder.
func placeholderKind(ph *phXML) model.Placeholder {
	if ph == nil {
		return model.PlaceholderNone
	}
	switch ph.Type {
	case "title", "ctrTitle":
		return model.PlaceholderTitle
	case "subTitle":
		return model.PlaceholderSubtitle
	case "dt":
		return model.PlaceholderDate
	case "ftr":
		return model.PlaceholderFooter
	case "sldNum":
		return model.PlaceholderSlideNumber
	default:
		return model.PlaceholderBody
	}
}
