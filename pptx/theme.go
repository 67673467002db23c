package pptx

import (
	"strconv"
	"strings"

	"github.com/tsawler/deckcodec/colors"
	"github.com/tsawler/deckcodec/model"
	"github.com/tsawler/deckcodec/units"
)

// parseTheme decodes a theme part. Slots the part leaves out stay empty.
func parseTheme(data []byte) (model.Theme, error) {
	var doc themeXML
	if err := decodeXML(data, &doc); err != nil {
		return model.Theme{}, err
	}

	th := model.Theme{
		Name:      doc.Name,
		MajorFont: doc.ThemeElements.FontScheme.MajorFont.Latin.Typeface,
		MinorFont: doc.ThemeElements.FontScheme.MinorFont.Latin.Typeface,
	}
	if th.Name == "" {
		th.Name = doc.ThemeElements.ClrScheme.Name
	}

	cs := doc.ThemeElements.ClrScheme
	slots := map[string]*colorChoiceXML{
		"dk1": cs.Dk1, "lt1": cs.Lt1, "dk2": cs.Dk2, "lt2": cs.Lt2,
		"accent1": cs.Accent1, "accent2": cs.Accent2, "accent3": cs.Accent3,
		"accent4": cs.Accent4, "accent5": cs.Accent5, "accent6": cs.Accent6,
		"hlink": cs.Hlink, "folHlink": cs.FolHlink,
	}
	for name, node := range slots {
		spec := node.spec()
		if spec == nil || spec.Scheme != "" {
			// A scheme slot cannot reference the scheme it defines.
			continue
		}
		th.Colors.Set(name, colors.Resolve(spec, nil, colors.Black))
	}
	return th, nil
}

// spec converts a decoded color choice to a resolver spec. It returns nil
// when no color node is present.
func (c *colorChoiceXML) spec() *colors.Spec {
	if c == nil {
		return nil
	}
	var s colors.Spec
	switch {
	case c.SrgbClr != nil:
		s.SRGB = c.SrgbClr.Val
	case c.SchemeClr != nil:
		s.Scheme = c.SchemeClr.Val
	case c.SysClr != nil:
		s.SysLast = c.SysClr.LastClr
	case c.PrstClr != nil:
		s.Preset = c.PrstClr.Val
	default:
		return nil
	}
	return &s
}

// alpha returns the opacity carried by the color node, 1 when absent.
func (c *colorChoiceXML) alpha() float64 {
	if c == nil {
		return 1
	}
	for _, v := range []*colorValXML{c.SrgbClr, c.SchemeClr, c.SysClr, c.PrstClr} {
		if v == nil || v.Alpha == nil {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v.Alpha.Val))
		if err != nil {
			return 1
		}
		a := units.PercentToFraction(n)
		if a < 0 {
			return 0
		}
		if a > 1 {
			return 1
		}
		return a
	}
	return 1
}

// resolveFont maps theme font references to concrete typefaces.
func resolveFont(typeface string, theme *model.Theme) string {
	switch {
	case typeface == "":
		return model.DefaultFont
	case strings.HasPrefix(typeface, "+mn-"):
		if theme != nil && theme.MinorFont != "" {
			return theme.MinorFont
		}
		return model.DefaultFont
	case strings.HasPrefix(typeface, "+mj-"):
		if theme != nil && theme.MajorFont != "" {
			return theme.MajorFont
		}
		return model.DefaultFont
	}
	return typeface
}
