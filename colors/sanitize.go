package colors

import "strings"

// Export-side defaults, without the leading '#'.
const (
	HexBlack = "000000"
	HexWhite = "FFFFFF"
)

// Sanitize prepares a color for the package writer: it strips a leading
// '#', uppercases, and accepts only 3- or 6-digit hex. Three digits expand
// by doubling each digit ("abc" becomes "AABBCC"). Anything else returns
// fallback, which is expected to already be a 6-digit hex value.
func Sanitize(value, fallback string) string {
	v, ok := Valid(value)
	if !ok {
		return fallback
	}
	return v
}

// Valid reports whether value sanitizes cleanly and returns the result.
func Valid(value string) (string, bool) {
	v := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(value), "#"))
	if !isHex(v) {
		return "", false
	}
	switch len(v) {
	case 6:
		return v, true
	case 3:
		return string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]}), true
	}
	return "", false
}

// WithHash returns a sanitized color in "#RRGGBB" form.
func WithHash(value, fallback string) string {
	return "#" + Sanitize(value, fallback)
}
