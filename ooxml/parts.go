package ooxml

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tsawler/deckcodec/colors"
	"github.com/tsawler/deckcodec/model"
)

const partContentTypes = "[Content_Types].xml"

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Namespace declarations shared by PresentationML parts.
const nsPML = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// Relationship types.
const (
	relBase         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	relOfficeDoc    = relBase + "/officeDocument"
	relSlide        = relBase + "/slide"
	relSlideLayout  = relBase + "/slideLayout"
	relSlideMaster  = relBase + "/slideMaster"
	relNotesSlide   = relBase + "/notesSlide"
	relNotesMaster  = relBase + "/notesMaster"
	relTheme        = relBase + "/theme"
	relImage        = relBase + "/image"
	relHyperlink    = relBase + "/hyperlink"
	relPresProps    = relBase + "/presProps"
	relViewProps    = relBase + "/viewProps"
	relTableStyles  = relBase + "/tableStyles"
	relExtendedProp = relBase + "/extended-properties"
	relCoreProps    = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

// Content types.
const (
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctNotesSlide   = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
	ctNotesMaster  = "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctAppProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
)

// esc escapes s for use in XML text or a quoted attribute.
func esc(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

type rel struct {
	id, typ, target string
	external        bool
}

func relsXML(rels []rel) string {
	var sb strings.Builder
	sb.WriteString(xmlDecl)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		mode := ""
		if r.external {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.id, r.typ, esc(r.target), mode)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

var rootRelsXML = relsXML([]rel{
	{id: "rId1", typ: relOfficeDoc, target: "ppt/presentation.xml"},
	{id: "rId2", typ: relCoreProps, target: "docProps/core.xml"},
	{id: "rId3", typ: relExtendedProp, target: "docProps/app.xml"},
})

func (w *Writer) contentTypesXML(hasNotes bool) string {
	var sb strings.Builder
	sb.WriteString(xmlDecl)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	fmt.Fprintf(&sb, `<Default Extension="rels" ContentType="%s"/>`, ctRels)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	exts := map[string]string{}
	for _, m := range w.media {
		exts[m.ext] = m.mime
	}
	keys := make([]string, 0, len(exts))
	for k := range exts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, ext := range keys {
		fmt.Fprintf(&sb, `<Default Extension="%s" ContentType="%s"/>`, ext, exts[ext])
	}

	override := func(name, ct string) {
		fmt.Fprintf(&sb, `<Override PartName="/%s" ContentType="%s"/>`, name, ct)
	}
	override("ppt/presentation.xml", ctPresentation)
	override("ppt/presProps.xml", ctPresProps)
	override("ppt/viewProps.xml", ctViewProps)
	override("ppt/tableStyles.xml", ctTableStyles)
	override("ppt/theme/theme1.xml", ctTheme)
	override("ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	override("ppt/slideLayouts/slideLayout1.xml", ctSlideLayout)
	if hasNotes {
		override("ppt/notesMasters/notesMaster1.xml", ctNotesMaster)
		override("ppt/theme/theme2.xml", ctTheme)
	}
	for _, s := range w.slides {
		override(s.partName(), ctSlide)
		if s.notes != "" {
			override(s.notesPartName(), ctNotesSlide)
		}
	}
	override("docProps/core.xml", ctCoreProps)
	override("docProps/app.xml", ctAppProps)
	sb.WriteString(`</Types>`)
	return sb.String()
}

func w3cdtf(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func (w *Writer) corePropsXML() string {
	m := w.meta
	created, modified := m.Created, m.Modified
	if created.IsZero() {
		created = w.now()
	}
	if modified.IsZero() {
		modified = created
	}

	var sb strings.Builder
	sb.WriteString(xmlDecl)
	sb.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	if m.Title != "" {
		fmt.Fprintf(&sb, `<dc:title>%s</dc:title>`, esc(m.Title))
	}
	if m.Subject != "" {
		fmt.Fprintf(&sb, `<dc:subject>%s</dc:subject>`, esc(m.Subject))
	}
	fmt.Fprintf(&sb, `<dc:creator>%s</dc:creator>`, esc(m.Author))
	if len(m.Keywords) > 0 {
		fmt.Fprintf(&sb, `<cp:keywords>%s</cp:keywords>`, esc(strings.Join(m.Keywords, "; ")))
	}
	lastBy := m.LastModifiedBy
	if lastBy == "" {
		lastBy = m.Author
	}
	fmt.Fprintf(&sb, `<cp:lastModifiedBy>%s</cp:lastModifiedBy>`, esc(lastBy))
	sb.WriteString(`<cp:revision>1</cp:revision>`)
	fmt.Fprintf(&sb, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, w3cdtf(created))
	fmt.Fprintf(&sb, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, w3cdtf(modified))
	sb.WriteString(`</cp:coreProperties>`)
	return sb.String()
}

func (w *Writer) appPropsXML() string {
	notes := 0
	for _, s := range w.slides {
		if s.notes != "" {
			notes++
		}
	}
	return xmlDecl + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" ` +
		`xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
		`<TotalTime>0</TotalTime><Application>deckcodec</Application>` +
		`<PresentationFormat>Custom</PresentationFormat>` +
		fmt.Sprintf(`<Slides>%d</Slides><Notes>%d</Notes><HiddenSlides>0</HiddenSlides>`, len(w.slides), notes) +
		`<AppVersion>16.0000</AppVersion></Properties>`
}

// Presentation relationship IDs: rId1 is the master, slides follow, then
// the fixed parts.
func (w *Writer) presentationRels(hasNotes bool) []rel {
	rels := []rel{{id: "rId1", typ: relSlideMaster, target: "slideMasters/slideMaster1.xml"}}
	for i, s := range w.slides {
		rels = append(rels, rel{id: fmt.Sprintf("rId%d", i+2), typ: relSlide, target: fmt.Sprintf("slides/slide%d.xml", s.number)})
	}
	next := len(w.slides) + 2
	add := func(typ, target string) {
		rels = append(rels, rel{id: fmt.Sprintf("rId%d", next), typ: typ, target: target})
		next++
	}
	if hasNotes {
		add(relNotesMaster, "notesMasters/notesMaster1.xml")
	}
	add(relPresProps, "presProps.xml")
	add(relViewProps, "viewProps.xml")
	add(relTheme, "theme/theme1.xml")
	add(relTableStyles, "tableStyles.xml")
	return rels
}

func (w *Writer) presentationRelsXML(hasNotes bool) string {
	return relsXML(w.presentationRels(hasNotes))
}

func (w *Writer) presentationXML(hasNotes bool) string {
	var sb strings.Builder
	sb.WriteString(xmlDecl)
	sb.WriteString(`<p:presentation ` + nsPML + ` saveSubsetFonts="1">`)
	sb.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if hasNotes {
		fmt.Fprintf(&sb, `<p:notesMasterIdLst><p:notesMasterId r:id="rId%d"/></p:notesMasterIdLst>`, len(w.slides)+2)
	}
	if len(w.slides) > 0 {
		sb.WriteString(`<p:sldIdLst>`)
		for i := range w.slides {
			fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
		}
		sb.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&sb, `<p:sldSz cx="%d" cy="%d"/>`, w.cx, w.cy)
	sb.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	sb.WriteString(`<p:defaultTextStyle><a:defPPr><a:defRPr lang="en-US"/></a:defPPr></p:defaultTextStyle>`)
	sb.WriteString(`</p:presentation>`)
	return sb.String()
}

const presPropsXML = xmlDecl + `<p:presentationPr ` + nsPML + `/>`

const viewPropsXML = xmlDecl + `<p:viewPr ` + nsPML + `>` +
	`<p:normalViewPr><p:restoredLeft sz="15620"/><p:restoredTop sz="94660"/></p:normalViewPr>` +
	`<p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`

const tableStylesXML = xmlDecl + `<a:tblStyleLst xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

const emptyTree = `<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr></p:spTree>`

const clrMap = `bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
	`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"`

const slideMasterXML = xmlDecl + `<p:sldMaster ` + nsPML + `><p:cSld>` +
	`<p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>` + emptyTree + `</p:cSld>` +
	`<p:clrMap ` + clrMap + `/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`<p:txStyles><p:titleStyle/><p:bodyStyle/><p:otherStyle/></p:txStyles></p:sldMaster>`

var slideMasterRelsXML = relsXML([]rel{
	{id: "rId1", typ: relSlideLayout, target: "../slideLayouts/slideLayout1.xml"},
	{id: "rId2", typ: relTheme, target: "../theme/theme1.xml"},
})

const slideLayoutXML = xmlDecl + `<p:sldLayout ` + nsPML + ` type="blank" preserve="1">` +
	`<p:cSld name="Blank">` + emptyTree + `</p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

var slideLayoutRelsXML = relsXML([]rel{
	{id: "rId1", typ: relSlideMaster, target: "../slideMasters/slideMaster1.xml"},
})

const notesMasterXML = xmlDecl + `<p:notesMaster ` + nsPML + `><p:cSld>` + emptyTree + `</p:cSld>` +
	`<p:clrMap ` + clrMap + `/></p:notesMaster>`

var notesMasterRelsXML = relsXML([]rel{
	{id: "rId1", typ: relTheme, target: "../theme/theme2.xml"},
})

// themeXML renders a theme part. Empty slots take the default palette.
func themeXML(t model.Theme) string {
	def := model.DefaultTheme()
	slot := func(name string) string {
		fallback, _ := def.Colors.Lookup(name)
		v, _ := t.Colors.Lookup(name)
		return colors.Sanitize(v, colors.Sanitize(fallback, colors.HexBlack))
	}
	name := t.Name
	if name == "" {
		name = def.Name
	}
	major, minor := t.MajorFont, t.MinorFont
	if major == "" {
		major = def.MajorFont
	}
	if minor == "" {
		minor = def.MinorFont
	}

	var sb strings.Builder
	sb.WriteString(xmlDecl)
	fmt.Fprintf(&sb, `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="%s"><a:themeElements>`, esc(name))
	fmt.Fprintf(&sb, `<a:clrScheme name="%s">`, esc(name))
	for _, s := range model.SchemeSlots {
		fmt.Fprintf(&sb, `<a:%s><a:srgbClr val="%s"/></a:%s>`, s, slot(s), s)
	}
	sb.WriteString(`</a:clrScheme>`)
	fmt.Fprintf(&sb, `<a:fontScheme name="%s">`, esc(name))
	fmt.Fprintf(&sb, `<a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`, esc(major))
	fmt.Fprintf(&sb, `<a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`, esc(minor))
	sb.WriteString(`</a:fontScheme>`)
	sb.WriteString(fmtScheme)
	sb.WriteString(`</a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`)
	return sb.String()
}

// fmtScheme is the minimal format scheme: three entries per list, as the
// schema requires.
const fmtScheme = `<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:bgFillStyleLst></a:fmtScheme>`
