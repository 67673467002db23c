// Package colors resolves DrawingML color references to concrete colors and
// sanitizes colors for export.
//
// Resolution never fails: every input, including a nil or malformed spec,
// yields a "#RRGGBB" string.
package colors

import (
	"strings"

	"github.com/tsawler/deckcodec/model"
)

// Defaults callers pick per context.
const (
	Black = "#000000"
	White = "#FFFFFF"
)

// Spec is a decoded color node: at most one of the fields is normally set,
// mirroring a:srgbClr, a:schemeClr, a:sysClr and a:prstClr.
type Spec struct {
	SRGB    string // srgbClr val, e.g. "FF8800"
	Scheme  string // schemeClr val, e.g. "accent2"
	SysLast string // sysClr lastClr
	Preset  string // prstClr val, e.g. "red"
}

// IsZero reports whether the spec names no color at all.
func (s Spec) IsZero() bool {
	return s == Spec{}
}

// presets maps the supported preset names to hex values.
var presets = map[string]string{
	"black":   "#000000",
	"white":   "#FFFFFF",
	"red":     "#FF0000",
	"green":   "#008000",
	"blue":    "#0000FF",
	"yellow":  "#FFFF00",
	"cyan":    "#00FFFF",
	"magenta": "#FF00FF",
	"gray":    "#808080",
	"grey":    "#808080",
	"orange":  "#FFA500",
	"purple":  "#800080",
	"pink":    "#FFC0CB",
	"brown":   "#A52A2A",
	"navy":    "#000080",
	"teal":    "#008080",
	"lime":    "#00FF00",
	"maroon":  "#800000",
	"olive":   "#808000",
	"silver":  "#C0C0C0",
}

// Preset returns the hex value of a preset color name.
func Preset(name string) (string, bool) {
	v, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// Resolve turns a color spec into "#RRGGBB". The first match wins: direct
// RGB, theme scheme slot, system color, preset name. Anything unresolved
// returns fallback, or black when fallback itself is not a valid color.
func Resolve(spec *Spec, theme *model.Theme, fallback string) string {
	def := normalizeFallback(fallback)
	if spec == nil {
		return def
	}

	if spec.SRGB != "" {
		if v, ok := parseHex6(spec.SRGB); ok {
			return "#" + v
		}
	}

	if spec.Scheme != "" && theme != nil {
		if v, ok := theme.Colors.Lookup(spec.Scheme); ok {
			if hex, ok := parseHex6(v); ok {
				return "#" + hex
			}
		}
	}

	if spec.SysLast != "" {
		if v, ok := parseHex6(spec.SysLast); ok {
			return "#" + v
		}
	}

	if spec.Preset != "" {
		if v, ok := Preset(spec.Preset); ok {
			return v
		}
	}

	return def
}

func normalizeFallback(fallback string) string {
	if v, ok := parseHex6(fallback); ok {
		return "#" + v
	}
	return Black
}

// parseHex6 accepts exactly six hex digits with an optional leading '#'
// and returns them uppercased.
func parseHex6(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 || !isHex(s) {
		return "", false
	}
	return strings.ToUpper(s), true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
