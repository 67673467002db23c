package pptx

import (
	"path"
	"strings"
)

// Relationship type suffixes.
const (
	relSlide       = "/slide"
	relSlideLayout = "/slideLayout"
	relSlideMaster = "/slideMaster"
	relNotesSlide  = "/notesSlide"
	relTheme       = "/theme"
	relImage       = "/image"
	relHyperlink   = "/hyperlink"
)

// Relationship is one resolved entry of a .rels part.
type Relationship struct {
	ID       string
	Type     string
	Target   string // Package part path, or the raw URL when External
	External bool
}

// Relationships maps relationship IDs to entries for a single source part.
type Relationships map[string]Relationship

// relsPath returns the .rels part path for a source part.
func relsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget resolves a relationship target against its source part.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// readRelationships loads the relationships of a source part. A missing
// .rels part yields an empty map.
func readRelationships(pkg Package, source string) (Relationships, error) {
	name := relsPath(source)
	if !hasPart(pkg, name) {
		return Relationships{}, nil
	}
	var doc relationshipsXML
	if err := readXML(pkg, name, &doc); err != nil {
		return Relationships{}, err
	}
	rels := make(Relationships, len(doc.Relationship))
	for _, r := range doc.Relationship {
		rel := Relationship{ID: r.ID, Type: r.Type, Target: r.Target}
		if strings.EqualFold(r.TargetMode, "External") {
			rel.External = true
		} else {
			rel.Target = resolveTarget(source, r.Target)
		}
		rels[r.ID] = rel
	}
	return rels, nil
}

// Target returns the relationship with the given ID.
func (r Relationships) Target(id string) (Relationship, bool) {
	if id == "" {
		return Relationship{}, false
	}
	rel, ok := r[id]
	return rel, ok
}

// ByType returns the first relationship whose type ends with suffix,
// preferring the lowest ID for a stable answer.
func (r Relationships) ByType(suffix string) (Relationship, bool) {
	var best Relationship
	found := false
	for _, rel := range r {
		if !strings.HasSuffix(rel.Type, suffix) {
			continue
		}
		if !found || lessID(rel.ID, best.ID) {
			best = rel
			found = true
		}
	}
	return best, found
}

// lessID orders IDs like rId2 before rId10.
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
