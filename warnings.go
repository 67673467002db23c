package deckcodec

import (
	"strings"

	"github.com/tsawler/deckcodec/model"
)

// Warning records an element or part that was dropped or defaulted.
type Warning = model.Warning

// FormatWarnings renders warnings one per line.
//
// Example:
//
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", deckcodec.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// CountByKind tallies warnings by kind name.
func CountByKind(warnings []Warning) map[string]int {
	out := make(map[string]int)
	for _, w := range warnings {
		out[w.Kind.String()]++
	}
	return out
}
