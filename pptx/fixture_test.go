package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/tsawler/deckcodec/model"
)

const nsDecls = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const (
	relTypeBase    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	relTypeSlide   = relTypeBase + "/slide"
	relTypeLayout  = relTypeBase + "/slideLayout"
	relTypeMaster  = relTypeBase + "/slideMaster"
	relTypeTheme   = relTypeBase + "/theme"
	relTypeImage   = relTypeBase + "/image"
	relTypeNotes   = relTypeBase + "/notesSlide"
	relTypeLink    = relTypeBase + "/hyperlink"
	xmlHeader      = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	titleShapeTmpl = `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Title %d"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr><a:xfrm><a:off x="457200" y="274638"/><a:ext cx="8229600" cy="1143000"/></a:xfrm></p:spPr>` +
		`<p:txBody><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`
)

// writeZipFile writes a file into a zip archive.
func writeZipFile(t testing.TB, zw *zip.Writer, name, content string) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("Failed to create %s in zip: %v", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

type fixtureRel struct {
	id, typ, target string
	external        bool
}

// fixture assembles a PPTX package in memory.
type fixture struct {
	parts map[string]string
	rels  map[string][]fixtureRel
}

// newFixture creates a package whose presentation lists one slide per
// argument. Each argument is the inner XML of that slide's spTree.
func newFixture(slides ...string) *fixture {
	f := &fixture{parts: map[string]string{}, rels: map[string][]fixtureRel{}}

	var ids strings.Builder
	for i, shapes := range slides {
		rid := fmt.Sprintf("rId%d", i+1)
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
		f.rel(partPresentation, rid, relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
		f.parts[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = slideXML(shapes)
	}
	f.parts[partPresentation] = xmlHeader + `<p:presentation ` + nsDecls + `>` +
		`<p:sldIdLst>` + ids.String() + `</p:sldIdLst>` +
		`<p:sldSz cx="9144000" cy="6858000"/></p:presentation>`
	f.parts[partContentTypes] = xmlHeader +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
		`</Types>`
	return f
}

func slideXML(shapes string) string {
	return xmlHeader + `<p:sld ` + nsDecls + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes + `</p:spTree></p:cSld></p:sld>`
}

func (f *fixture) rel(source, id, typ, target string) *fixture {
	f.rels[source] = append(f.rels[source], fixtureRel{id: id, typ: typ, target: target})
	return f
}

func (f *fixture) externalRel(source, id, typ, target string) *fixture {
	f.rels[source] = append(f.rels[source], fixtureRel{id: id, typ: typ, target: target, external: true})
	return f
}

func (f *fixture) part(name, content string) *fixture {
	f.parts[name] = content
	return f
}

// withTheme adds a theme linked from the presentation.
func (f *fixture) withTheme(accent2 string) *fixture {
	f.rel(partPresentation, "rIdTheme", relTypeTheme, "theme/theme1.xml")
	f.parts["ppt/theme/theme1.xml"] = themeXMLFixture(accent2)
	return f
}

func themeXMLFixture(accent2 string) string {
	return xmlHeader + `<a:theme ` + nsDecls + ` name="Test Theme"><a:themeElements>` +
		`<a:clrScheme name="Test">` +
		`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
		`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="44546A"/></a:dk2>` +
		`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="4472C4"/></a:accent1>` +
		`<a:accent2><a:srgbClr val="` + accent2 + `"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
		`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
		`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
		`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme>` +
		`<a:fontScheme name="Test"><a:majorFont><a:latin typeface="Georgia"/></a:majorFont>` +
		`<a:minorFont><a:latin typeface="Verdana"/></a:minorFont></a:fontScheme>` +
		`</a:themeElements></a:theme>`
}

// bytes writes the package to an in-memory ZIP archive.
func (f *fixture) bytes(t testing.TB) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := make([]string, 0, len(f.parts))
	for name := range f.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeZipFile(t, zw, name, f.parts[name])
	}

	sources := make([]string, 0, len(f.rels))
	for src := range f.rels {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		var sb strings.Builder
		sb.WriteString(xmlHeader)
		sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
		for _, r := range f.rels[src] {
			mode := ""
			if r.external {
				mode = ` TargetMode="External"`
			}
			fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.id, r.typ, r.target, mode)
		}
		sb.WriteString(`</Relationships>`)
		writeZipFile(t, zw, relsPath(src), sb.String())
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

// file writes the package to a temporary .pptx file.
func (f *fixture) file(t *testing.T) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.pptx")
	if err := os.WriteFile(name, f.bytes(t), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return name
}

// decode runs the decoder with deterministic identities.
func (f *fixture) decode(t *testing.T) (*model.Presentation, []model.Warning) {
	t.Helper()
	pkg, err := PackageFromBytes(f.bytes(t))
	if err != nil {
		t.Fatalf("PackageFromBytes() error = %v", err)
	}
	p, warnings, err := Decode(context.Background(), pkg, Options{Workers: 2, NewID: sequentialIDs()})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return p, warnings
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("id-%d", n.Add(1))
	}
}

func titleShape(id int, text string) string {
	return fmt.Sprintf(titleShapeTmpl, id, id, text)
}

// textBox returns a txBox="1" shape with the given paragraphs XML.
func textBox(id int, x, y, cx, cy int64, paras string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>%s</p:txBody></p:sp>`, id, id, x, y, cx, cy, paras)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func singleSlide(t *testing.T, p *model.Presentation) *model.Slide {
	t.Helper()
	if len(p.Slides) != 1 {
		t.Fatalf("slide count = %d, want 1", len(p.Slides))
	}
	return &p.Slides[0]
}

func hasWarning(warnings []model.Warning, kind model.WarningKind) bool {
	for _, w := range warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
