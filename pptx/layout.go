package pptx

import (
	"path"
	"strings"

	"github.com/tsawler/deckcodec/colors"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/units"
)

// layoutInfo is what slides inherit from a slide layout or master.
type layoutInfo struct {
	Part          string
	Name          string
	Background    model.Background
	HasBackground bool
	Placeholders  *placeholderIndex
	Master        string // Master part path; empty for masters
}

// placeholderIndex finds placeholder transforms by idx or type.
type placeholderIndex struct {
	byIdx  map[string]*xfrmXML
	byType map[string]*xfrmXML
}

func newPlaceholderIndex(tree *shapeTreeXML) *placeholderIndex {
	idx := &placeholderIndex{
		byIdx:  make(map[string]*xfrmXML),
		byType: make(map[string]*xfrmXML),
	}
	idx.collect(tree)
	return idx
}

func (p *placeholderIndex) collect(tree *shapeTreeXML) {
	for _, node := range tree.Nodes {
		if node.Group != nil {
			p.collect(node.Group)
			continue
		}
		if node.Sp == nil || node.Sp.NvSpPr.NvPr.Ph == nil || !hasGeometry(node.Sp.SpPr.Xfrm) {
			continue
		}
		ph := node.Sp.NvSpPr.NvPr.Ph
		xf := node.Sp.SpPr.Xfrm
		if ph.Idx != "" {
			if _, ok := p.byIdx[ph.Idx]; !ok {
				p.byIdx[ph.Idx] = xf
			}
		}
		key := placeholderTypeKey(ph.Type)
		if _, ok := p.byType[key]; !ok {
			p.byType[key] = xf
		}
	}
}

// lookup matches idx first, then type.
func (p *placeholderIndex) lookup(ph *phXML) *xfrmXML {
	if p == nil || ph == nil {
		return nil
	}
	if ph.Idx != "" {
		if xf, ok := p.byIdx[ph.Idx]; ok {
			return xf
		}
	}
	return p.byType[placeholderTypeKey(ph.Type)]
}

func placeholderTypeKey(t string) string {
	switch t {
	case "", "obj":
		return "body"
	case "ctrTitle":
		return "title"
	}
	return t
}

// loadLayout decodes a slide layout or master part.
func loadLayout(pkg Package, part string, media MediaMap, theme *model.Theme, diag *diagnostics) *layoutInfo {
	info := &layoutInfo{
		Part: part,
		Name: strings.TrimSuffix(path.Base(part), path.Ext(part)),
	}

	var doc partXML
	if err := readXML(pkg, part, &doc); err != nil {
		diag.add(model.WarningMalformedPart, part, "%v", err)
		info.Placeholders = &placeholderIndex{}
		return info
	}
	if doc.CSld.Name != "" {
		info.Name = doc.CSld.Name
	}
	info.Placeholders = newPlaceholderIndex(&doc.CSld.SpTree)

	rels, err := readRelationships(pkg, part)
	if err != nil {
		diag.add(model.WarningMalformedPart, relsPath(part), "%v", err)
	}
	if rel, ok := rels.ByType(relSlideMaster); ok {
		info.Master = rel.Target
	}
	info.Background, info.HasBackground = parseBackground(doc.CSld.Bg, rels, media, theme, diag, part)
	return info
}

// parseBackground converts p:bg. The boolean is false when the part
// declares no background of its own.
func parseBackground(bg *bgXML, rels Relationships, media MediaMap, theme *model.Theme, diag *diagnostics, element string) (model.Background, bool) {
	if bg == nil {
		return model.Background{}, false
	}
	if ref := bg.BgRef; ref != nil {
		if spec := ref.spec(); spec != nil {
			return model.Background{
				Type:  model.BackgroundSolid,
				Color: colors.Resolve(spec, theme, colors.White),
			}, true
		}
		return model.Background{}, false
	}
	pr := bg.BgPr
	if pr == nil {
		return model.Background{}, false
	}

	switch {
	case pr.NoFill != nil:
		return model.Background{Type: model.BackgroundNone}, true
	case pr.SolidFill != nil:
		return model.Background{
			Type:  model.BackgroundSolid,
			Color: colors.Resolve(pr.SolidFill.spec(), theme, colors.White),
		}, true
	case pr.GradFill != nil:
		out := model.Background{Type: model.BackgroundGradient}
		if pr.GradFill.GsLst != nil {
			for _, gs := range pr.GradFill.GsLst.Gs {
				out.Stops = append(out.Stops, model.GradientStop{
					Position: float64(gs.Pos) / 1000,
					Color:    colors.Resolve(gs.spec(), theme, colors.White),
				})
			}
		}
		if len(out.Stops) > 0 {
			out.Color = out.Stops[0].Color
		}
		if pr.GradFill.Lin != nil {
			out.Angle = float64(pr.GradFill.Lin.Ang) / units.RotationUnit
		}
		return out, true
	case pr.BlipFill != nil && pr.BlipFill.Blip != nil:
		m, ok := ResolveImage(pr.BlipFill.Blip.Embed, rels, media)
		if !ok {
			diag.add(model.WarningMissingMedia, element, "background image %s not found", pr.BlipFill.Blip.Embed)
			return model.Background{}, false
		}
		return model.Background{Type: model.BackgroundImage, Image: m.DataURI()}, true
	case pr.PattFill != nil:
		return model.Background{
			Type:  model.BackgroundSolid,
			Color: colors.Resolve(pr.PattFill.FgClr.spec(), theme, colors.White),
		}, true
	}
	return model.Background{}, false
}
