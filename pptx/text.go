package pptx

import (
	"strconv"
	"strings"

	"github.com/tsawler/deckcodec/colors"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/units"
)

// textContext carries what run decoding needs from the enclosing slide.
type textContext struct {
	theme *model.Theme
	// color is the default run color, e.g. from a shape's fontRef.
	color string
	// link resolves a hyperlink relationship ID; "" means unresolved.
	link func(relID string) string
}

func (tc textContext) defaultColor() string {
	if tc.color != "" {
		return tc.color
	}
	return model.DefaultColor
}

// parseTextBody converts a txBody into text content.
func parseTextBody(body *txBodyXML, tc textContext) model.TextContent {
	var content model.TextContent
	if body == nil {
		return content
	}
	for i := range body.P {
		content.Paragraphs = append(content.Paragraphs, parseParagraph(&body.P[i], tc))
	}
	return content
}

// parseParagraph converts one a:p. Runs, line breaks and fields keep
// their document order; a paragraph with none of them gets a single empty
// run styled from endParaRPr.
func parseParagraph(p *pXML, tc textContext) model.Paragraph {
	para := model.Paragraph{
		Align:      model.AlignLeft,
		LineHeight: model.DefaultLineHeight,
	}

	if ppr := p.PPr; ppr != nil {
		para.Align = parseAlign(ppr.Algn)
		para.Level = ppr.Lvl
		if ppr.LnSpc != nil {
			if pct, ok := spacingPercent(ppr.LnSpc); ok {
				para.LineHeight = pct
			} else if pts, ok := spacingPoints(ppr.LnSpc); ok && pts > 0 {
				para.LineHeight = pts / model.DefaultFontSize
			}
		}
		para.SpaceBefore = spacingToPoints(ppr.SpcBef)
		para.SpaceAfter = spacingToPoints(ppr.SpcAft)
		switch {
		case ppr.BuNone != nil:
			para.Bullet = model.BulletNone
		case ppr.BuChar != nil:
			para.Bullet = model.BulletChar
		case ppr.BuAutoNum != nil:
			para.Bullet = model.BulletNumber
		}
	}

	for _, item := range p.Items {
		switch {
		case item.R != nil:
			para.Runs = append(para.Runs, parseRun(item.R.RPr, item.R.text(), tc))
		case item.Br != nil:
			para.Runs = append(para.Runs, parseRun(item.Br.RPr, "\n", tc))
		case item.Fld != nil:
			para.Runs = append(para.Runs, parseRun(item.Fld.RPr, item.Fld.T, tc))
		}
	}

	if len(para.Runs) == 0 {
		para.Runs = []model.TextRun{parseRun(p.EndParaRPr, "", tc)}
	}
	return para
}

// text returns the run text, whether wrapped in a:t or inline. Inline
// character data is trimmed since it also holds the indentation around
// a:rPr.
func (r *rXML) text() string {
	if r.T != nil {
		return *r.T
	}
	return strings.TrimSpace(r.Inline)
}

// parseRun applies run properties over the defaults.
func parseRun(rpr *rPrXML, text string, tc textContext) model.TextRun {
	run := model.TextRun{
		Text:  text,
		Font:  model.DefaultFont,
		Size:  model.DefaultFontSize,
		Color: tc.defaultColor(),
	}
	if rpr == nil {
		return run
	}

	if sz, err := strconv.Atoi(strings.TrimSpace(rpr.Sz)); err == nil && sz > 0 {
		run.Size = units.HundredthsToPoints(sz)
	}
	run.Bold = truthy(rpr.B)
	run.Italic = truthy(rpr.I)
	run.Underline = rpr.U != "" && rpr.U != "none"
	run.Strike = rpr.Strike != "" && rpr.Strike != "noStrike"
	if rpr.Latin != nil {
		run.Font = resolveFont(rpr.Latin.Typeface, tc.theme)
	}
	if spec := rpr.SolidFill.spec(); spec != nil {
		run.Color = colors.Resolve(spec, tc.theme, tc.defaultColor())
	}
	if rpr.HlinkClick != nil && rpr.HlinkClick.RID != "" && tc.link != nil {
		run.Hyperlink = tc.link(rpr.HlinkClick.RID)
	}
	return run
}

// parseBodyProps converts a:bodyPr into box properties.
func parseBodyProps(b *bodyPrXML) model.TextBox {
	box := model.DefaultTextBox()
	if b == nil {
		return box
	}

	switch b.Anchor {
	case "ctr":
		box.VerticalAlign = model.VAlignMiddle
	case "b":
		box.VerticalAlign = model.VAlignBottom
	}

	inset := func(v *int64, def int) int {
		if v == nil {
			return def
		}
		return units.EMUToPixels(*v)
	}
	box.Padding = model.Padding{
		Top:    inset(b.TIns, box.Padding.Top),
		Right:  inset(b.RIns, box.Padding.Right),
		Bottom: inset(b.BIns, box.Padding.Bottom),
		Left:   inset(b.LIns, box.Padding.Left),
	}

	box.Wrap = b.Wrap != "none"
	if b.NumCol > 0 {
		box.Columns = b.NumCol
	}
	switch {
	case b.NormAutofit != nil:
		box.AutoFit = model.AutoFitShrink
	case b.SpAutoFit != nil:
		box.AutoFit = model.AutoFitResize
	}
	return box
}

func parseAlign(algn string) model.TextAlignment {
	switch algn {
	case "ctr":
		return model.AlignCenter
	case "r":
		return model.AlignRight
	case "just", "dist":
		return model.AlignJustify
	default:
		return model.AlignLeft
	}
}

func spacingPercent(s *spacingXML) (float64, bool) {
	if s == nil || s.SpcPct == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(s.SpcPct.Val))
	if err != nil {
		return 0, false
	}
	return units.PercentToFraction(v), true
}

func spacingPoints(s *spacingXML) (float64, bool) {
	if s == nil || s.SpcPts == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(s.SpcPts.Val))
	if err != nil {
		return 0, false
	}
	return units.HundredthsToPoints(v), true
}

// spacingToPoints converts paragraph spacing to points. Percentages are
// taken relative to the default font size.
func spacingToPoints(s *spacingXML) float64 {
	if pts, ok := spacingPoints(s); ok {
		return pts
	}
	if pct, ok := spacingPercent(s); ok {
		return pct * model.DefaultFontSize
	}
	return 0
}

// truthy reports whether an OOXML boolean attribute is set.
func truthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true") || v == "on"
}
