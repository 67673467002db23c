package model

import (
	"fmt"
	"strings"
)

// WarningKind classifies a partial-fidelity loss.
type WarningKind int

const (
	// WarningMissingMedia: an image's relationship resolved but no media entry exists.
	WarningMissingMedia WarningKind = iota
	// WarningUnresolvedRelationship: a relationship ID has no target.
	WarningUnresolvedRelationship
	// WarningMalformedPart: a part could not be decoded and was skipped.
	WarningMalformedPart
	// WarningInvalidGeometry: an element had a non-positive width or height.
	WarningInvalidGeometry
	// WarningInvalidColor: a color failed validation and was defaulted.
	WarningInvalidColor
	// WarningInvalidImageSource: an image source is neither a base64 image data URI nor http(s).
	WarningInvalidImageSource
	// WarningEmptyText: a text element had no non-empty run and was omitted.
	WarningEmptyText
	// WarningImageDecode: image bytes could not be decoded; a placeholder was used.
	WarningImageDecode
)

func (k WarningKind) String() string {
	switch k {
	case WarningMissingMedia:
		return "missing-media"
	case WarningUnresolvedRelationship:
		return "unresolved-relationship"
	case WarningMalformedPart:
		return "malformed-part"
	case WarningInvalidGeometry:
		return "invalid-geometry"
	case WarningInvalidColor:
		return "invalid-color"
	case WarningInvalidImageSource:
		return "invalid-image-source"
	case WarningEmptyText:
		return "empty-text"
	case WarningImageDecode:
		return "image-decode"
	default:
		return "unknown"
	}
}

// Warning records an element or part that was dropped or defaulted.
// Slide is the 0-indexed slide, or -1 for document-level parts.
type Warning struct {
	Kind    WarningKind
	Slide   int
	Element string
	Message string
}

func (w Warning) String() string {
	var sb strings.Builder
	sb.WriteString(w.Kind.String())
	if w.Slide >= 0 {
		fmt.Fprintf(&sb, " slide %d", w.Slide+1)
	}
	if w.Element != "" {
		fmt.Fprintf(&sb, " %q", w.Element)
	}
	if w.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(w.Message)
	}
	return sb.String()
}
