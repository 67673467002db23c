package ooxml

import (
	"fmt"
	"strings"

	"github.com/tsawler/deckcodec/export"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/units"
)

// bulletIndent is the hanging indent of one list level, in EMUs.
const bulletIndent = 342900

// linkFunc allocates a relationship for a hyperlink target and returns
// its ID plus the hlinkClick action, if any.
type linkFunc func(target string) (relID, action string)

// writeTxBody renders runs as a text body. tag is "p:txBody" for shapes
// and "a:txBody" for table cells.
func writeTxBody(sb *strings.Builder, tag string, runs []export.RunSpec, box model.TextBox, link linkFunc) {
	sb.WriteString("<" + tag + ">")
	writeBodyPr(sb, box)
	sb.WriteString(`<a:lstStyle/>`)
	paras := export.Paragraphs(runs)
	if len(paras) == 0 {
		sb.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
	}
	for _, p := range paras {
		writeParagraph(sb, p, link)
	}
	sb.WriteString("</" + tag + ">")
}

func writeBodyPr(sb *strings.Builder, box model.TextBox) {
	wrap := "square"
	if !box.Wrap {
		wrap = "none"
	}
	anchor := "t"
	switch box.VerticalAlign {
	case model.VAlignMiddle:
		anchor = "ctr"
	case model.VAlignBottom:
		anchor = "b"
	}
	fmt.Fprintf(sb, `<a:bodyPr wrap="%s" lIns="%d" tIns="%d" rIns="%d" bIns="%d" anchor="%s"`,
		wrap,
		units.PixelsToEMU(box.Padding.Left),
		units.PixelsToEMU(box.Padding.Top),
		units.PixelsToEMU(box.Padding.Right),
		units.PixelsToEMU(box.Padding.Bottom),
		anchor)
	if box.Columns > 1 {
		fmt.Fprintf(sb, ` numCol="%d"`, box.Columns)
	}
	sb.WriteString(` rtlCol="0">`)
	switch box.AutoFit {
	case model.AutoFitShrink:
		sb.WriteString(`<a:normAutofit/>`)
	case model.AutoFitResize:
		sb.WriteString(`<a:spAutoFit/>`)
	default:
		sb.WriteString(`<a:noAutofit/>`)
	}
	sb.WriteString(`</a:bodyPr>`)
}

func alignAttr(a model.TextAlignment) string {
	switch a {
	case model.AlignCenter:
		return "ctr"
	case model.AlignRight:
		return "r"
	case model.AlignJustify:
		return "just"
	default:
		return "l"
	}
}

func writeParagraph(sb *strings.Builder, runs []export.RunSpec, link linkFunc) {
	ps := runs[0].Paragraph
	sb.WriteString(`<a:p>`)
	fmt.Fprintf(sb, `<a:pPr algn="%s"`, alignAttr(ps.Align))
	if ps.Level > 0 {
		fmt.Fprintf(sb, ` lvl="%d"`, ps.Level)
	}
	if ps.Bullet != model.BulletNone {
		fmt.Fprintf(sb, ` marL="%d" indent="%d"`, bulletIndent*(ps.Level+1), -bulletIndent)
	}
	sb.WriteString(`>`)
	if ps.LineHeight > 0 {
		fmt.Fprintf(sb, `<a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, units.FractionToPercent(ps.LineHeight))
	}
	if ps.SpaceBefore > 0 {
		fmt.Fprintf(sb, `<a:spcBef><a:spcPts val="%d"/></a:spcBef>`, units.PointsToHundredths(ps.SpaceBefore))
	}
	if ps.SpaceAfter > 0 {
		fmt.Fprintf(sb, `<a:spcAft><a:spcPts val="%d"/></a:spcAft>`, units.PointsToHundredths(ps.SpaceAfter))
	}
	switch ps.Bullet {
	case model.BulletChar:
		sb.WriteString(`<a:buFont typeface="Arial"/><a:buChar char="&#8226;"/>`)
	case model.BulletNumber:
		sb.WriteString(`<a:buFont typeface="+mj-lt"/><a:buAutoNum type="arabicPeriod"/>`)
	default:
		sb.WriteString(`<a:buNone/>`)
	}
	sb.WriteString(`</a:pPr>`)

	for _, r := range runs {
		rpr := runProps(r, link)
		// Line breaks inside a run become a:br so they survive as soft
		// returns within the paragraph.
		for i, seg := range strings.Split(r.Text, "\n") {
			if i > 0 {
				fmt.Fprintf(sb, `<a:br>%s</a:br>`, rpr)
			}
			if seg != "" {
				fmt.Fprintf(sb, `<a:r>%s<a:t>%s</a:t></a:r>`, rpr, esc(seg))
			}
		}
	}
	last := runs[len(runs)-1]
	fmt.Fprintf(sb, `<a:endParaRPr lang="en-US" sz="%d" dirty="0"/>`, units.PointsToHundredths(last.Size))
	sb.WriteString(`</a:p>`)
}

// runProps renders a:rPr. Child order follows CT_TextCharacterProperties.
func runProps(r export.RunSpec, link linkFunc) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<a:rPr lang="en-US" sz="%d"`, units.PointsToHundredths(r.Size))
	if r.Bold {
		sb.WriteString(` b="1"`)
	}
	if r.Italic {
		sb.WriteString(` i="1"`)
	}
	if r.Underline {
		sb.WriteString(` u="sng"`)
	}
	if r.Strike {
		sb.WriteString(` strike="sngStrike"`)
	}
	sb.WriteString(` dirty="0">`)
	fmt.Fprintf(&sb, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, r.Color)
	if r.Font != "" {
		fmt.Fprintf(&sb, `<a:latin typeface="%s"/>`, esc(r.Font))
	}
	if r.Hyperlink != "" && link != nil {
		id, action := link(r.Hyperlink)
		if action != "" {
			fmt.Fprintf(&sb, `<a:hlinkClick r:id="%s" action="%s"/>`, id, action)
		} else {
			fmt.Fprintf(&sb, `<a:hlinkClick r:id="%s"/>`, id)
		}
	}
	sb.WriteString(`</a:rPr>`)
	return sb.String()
}

// writePlainParagraphs renders text as one paragraph per line, used for
// table cells and notes.
func writePlainParagraphs(sb *strings.Builder, text string) {
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			sb.WriteString(`<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>`)
			continue
		}
		fmt.Fprintf(sb, `<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>%s</a:t></a:r></a:p>`, esc(line))
	}
}
