// Package pptx decodes PPTX (Office Open XML Presentation) packages into the
// presentation model.
package pptx

import "encoding/xml"

// XML namespaces used in PPTX files.
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// ZOrderExtURI identifies the cNvPr extension carrying an explicit z-index.
const ZOrderExtURI = "{C5E0F1B4-8D1A-4A35-9E39-7E3C7C1E2D40}"

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
	SlideSz     *slideSzXML     `xml:"sldSz"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type slideSzXML struct {
	Cx int64 `xml:"cx,attr"` // Width in EMUs
	Cy int64 `xml:"cy,attr"` // Height in EMUs
}

// partXML represents any part built around a common slide data block:
// slides, slide layouts, slide masters and notes slides.
type partXML struct {
	CSld cSldXML `xml:"cSld"`
}

type cSldXML struct {
	Name   string       `xml:"name,attr"`
	Bg     *bgXML       `xml:"bg"`
	SpTree shapeTreeXML `xml:"spTree"`
}

type bgXML struct {
	BgPr  *bgPrXML  `xml:"bgPr"`
	BgRef *bgRefXML `xml:"bgRef"`
}

type bgPrXML struct {
	fillPropsXML
}

type bgRefXML struct {
	Idx int `xml:"idx,attr"`
	colorChoiceXML
}

// shapeTreeXML is a p:spTree or p:grpSp. Children are kept in document
// order, which is the draw order.
type shapeTreeXML struct {
	NvGrpSpPr nvGrpSpPrXML
	GrpSpPr   grpSpPrXML
	Nodes     []shapeNode
}

// shapeNode holds exactly one child of a shape tree.
type shapeNode struct {
	Sp    *spXML
	Pic   *picXML
	Frame *graphicFrameXML
	Cxn   *cxnSpXML
	Group *shapeTreeXML
}

// altContentXML is mc:AlternateContent; Fallback is preferred because
// Choice usually requires extensions.
type altContentXML struct {
	Choice   *shapeTreeXML `xml:"Choice"`
	Fallback *shapeTreeXML `xml:"Fallback"`
}

// UnmarshalXML decodes tree children in document order.
func (t *shapeTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if err := t.decodeChild(d, el); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (t *shapeTreeXML) decodeChild(d *xml.Decoder, el xml.StartElement) error {
	switch el.Name.Local {
	case "nvGrpSpPr":
		return d.DecodeElement(&t.NvGrpSpPr, &el)
	case "grpSpPr":
		return d.DecodeElement(&t.GrpSpPr, &el)
	case "sp":
		var sp spXML
		if err := d.DecodeElement(&sp, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Sp: &sp})
	case "pic":
		var pic picXML
		if err := d.DecodeElement(&pic, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Pic: &pic})
	case "graphicFrame":
		var gf graphicFrameXML
		if err := d.DecodeElement(&gf, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Frame: &gf})
	case "cxnSp":
		var cxn cxnSpXML
		if err := d.DecodeElement(&cxn, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Cxn: &cxn})
	case "grpSp":
		var grp shapeTreeXML
		if err := d.DecodeElement(&grp, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Group: &grp})
	case "AlternateContent":
		var alt altContentXML
		if err := d.DecodeElement(&alt, &el); err != nil {
			return err
		}
		branch := alt.Fallback
		if branch == nil || len(branch.Nodes) == 0 {
			branch = alt.Choice
		}
		if branch != nil {
			t.Nodes = append(t.Nodes, branch.Nodes...)
		}
	default:
		return d.Skip()
	}
	return nil
}

type nvGrpSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type grpSpPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

type cNvPrXML struct {
	ID     string     `xml:"id,attr"`
	Name   string     `xml:"name,attr"`
	Descr  string     `xml:"descr,attr"`
	Hidden string     `xml:"hidden,attr"`
	ExtLst *extLstXML `xml:"extLst"`
}

type extLstXML struct {
	Ext []extXML `xml:"ext"`
}

type extXML struct {
	URI    string  `xml:"uri,attr"`
	ZIndex *valXML `xml:"zIndex"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	Style  *styleXML  `xml:"style"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr   cNvPrXML   `xml:"cNvPr"`
	CNvSpPr cNvSpPrXML `xml:"cNvSpPr"`
	NvPr    nvPrXML    `xml:"nvPr"`
}

type cNvSpPrXML struct {
	TxBox   string    `xml:"txBox,attr"`
	SpLocks *locksXML `xml:"spLocks"`
}

type locksXML struct {
	NoMove   string `xml:"noMove,attr"`
	NoResize string `xml:"noResize,attr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"` // Placeholder info
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, etc.
	Idx  string `xml:"idx,attr"`
}

// spPrXML holds shape properties: transform, geometry, fill and line.
type spPrXML struct {
	Xfrm     *xfrmXML     `xml:"xfrm"`
	PrstGeom *prstGeomXML `xml:"prstGeom"`
	CustGeom *struct{}    `xml:"custGeom"`
	fillPropsXML
	Ln *lnXML `xml:"ln"`
}

// fillPropsXML is the DrawingML fill choice shared by shapes and backgrounds.
type fillPropsXML struct {
	NoFill    *struct{}       `xml:"noFill"`
	SolidFill *colorChoiceXML `xml:"solidFill"`
	GradFill  *gradFillXML    `xml:"gradFill"`
	PattFill  *pattFillXML    `xml:"pattFill"`
	BlipFill  *blipFillXML    `xml:"blipFill"`
}

type xfrmXML struct {
	Rot   string     `xml:"rot,attr"`
	FlipH string     `xml:"flipH,attr"`
	FlipV string     `xml:"flipV,attr"`
	Off   *ptXML     `xml:"off"`
	Ext   *extentXML `xml:"ext"`
	ChOff *ptXML     `xml:"chOff"`
	ChExt *extentXML `xml:"chExt"`
}

type ptXML struct {
	X int64 `xml:"x,attr"` // EMUs
	Y int64 `xml:"y,attr"` // EMUs
}

type extentXML struct {
	Cx int64 `xml:"cx,attr"` // Width in EMUs
	Cy int64 `xml:"cy,attr"` // Height in EMUs
}

type prstGeomXML struct {
	Prst string `xml:"prst,attr"`
}

// colorChoiceXML is the EG_ColorChoice group: one of four color nodes.
type colorChoiceXML struct {
	SrgbClr   *colorValXML `xml:"srgbClr"`
	SchemeClr *colorValXML `xml:"schemeClr"`
	SysClr    *colorValXML `xml:"sysClr"`
	PrstClr   *colorValXML `xml:"prstClr"`
}

type colorValXML struct {
	Val     string  `xml:"val,attr"`
	LastClr string  `xml:"lastClr,attr"`
	Alpha   *valXML `xml:"alpha"`
}

type gradFillXML struct {
	GsLst *gsLstXML `xml:"gsLst"`
	Lin   *linXML   `xml:"lin"`
}

type gsLstXML struct {
	Gs []gsXML `xml:"gs"`
}

type gsXML struct {
	Pos int `xml:"pos,attr"` // 0-100000
	colorChoiceXML
}

type linXML struct {
	Ang int64 `xml:"ang,attr"`
}

type pattFillXML struct {
	Prst  string          `xml:"prst,attr"`
	FgClr *colorChoiceXML `xml:"fgClr"`
	BgClr *colorChoiceXML `xml:"bgClr"`
}

type lnXML struct {
	W         string          `xml:"w,attr"` // EMUs
	NoFill    *struct{}       `xml:"noFill"`
	SolidFill *colorChoiceXML `xml:"solidFill"`
	PrstDash  *valXML         `xml:"prstDash"`
}

// styleXML is p:style, the theme style references of a shape.
type styleXML struct {
	LnRef   *styleRefXML `xml:"lnRef"`
	FillRef *styleRefXML `xml:"fillRef"`
	FontRef *styleRefXML `xml:"fontRef"`
}

type styleRefXML struct {
	Idx string `xml:"idx,attr"`
	colorChoiceXML
}

// txBodyXML represents text body content.
type txBodyXML struct {
	BodyPr bodyPrXML `xml:"bodyPr"`
	P      []pXML    `xml:"p"` // Paragraphs
}

type bodyPrXML struct {
	Anchor      string    `xml:"anchor,attr"` // t, ctr, b (top, center, bottom)
	LIns        *int64    `xml:"lIns,attr"`
	TIns        *int64    `xml:"tIns,attr"`
	RIns        *int64    `xml:"rIns,attr"`
	BIns        *int64    `xml:"bIns,attr"`
	Wrap        string    `xml:"wrap,attr"`
	NumCol      int       `xml:"numCol,attr"`
	NormAutofit *struct{} `xml:"normAutofit"`
	SpAutoFit   *struct{} `xml:"spAutoFit"`
	NoAutofit   *struct{} `xml:"noAutofit"`
}

// pXML represents a paragraph. Runs, breaks and fields are kept in
// document order.
type pXML struct {
	PPr        *pPrXML
	Items      []pItem
	EndParaRPr *rPrXML
}

// pItem holds exactly one inline child of a paragraph.
type pItem struct {
	R   *rXML
	Fld *fldXML
	Br  *brXML
}

// UnmarshalXML decodes paragraph children in document order.
func (p *pXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			var err error
			switch el.Name.Local {
			case "pPr":
				p.PPr = &pPrXML{}
				err = d.DecodeElement(p.PPr, &el)
			case "r":
				r := &rXML{}
				err = d.DecodeElement(r, &el)
				p.Items = append(p.Items, pItem{R: r})
			case "fld":
				f := &fldXML{}
				err = d.DecodeElement(f, &el)
				p.Items = append(p.Items, pItem{Fld: f})
			case "br":
				b := &brXML{}
				err = d.DecodeElement(b, &el)
				p.Items = append(p.Items, pItem{Br: b})
			case "endParaRPr":
				p.EndParaRPr = &rPrXML{}
				err = d.DecodeElement(p.EndParaRPr, &el)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

type pPrXML struct {
	Lvl       int           `xml:"lvl,attr"`  // Bullet level (0-8)
	Algn      string        `xml:"algn,attr"` // Alignment: l, ctr, r, just
	LnSpc     *spacingXML   `xml:"lnSpc"`
	SpcBef    *spacingXML   `xml:"spcBef"`
	SpcAft    *spacingXML   `xml:"spcAft"`
	BuNone    *struct{}     `xml:"buNone"`    // No bullet
	BuChar    *buCharXML    `xml:"buChar"`    // Character bullet
	BuAutoNum *buAutoNumXML `xml:"buAutoNum"` // Numbered list
}

type spacingXML struct {
	SpcPct *valXML `xml:"spcPct"` // 100000 = 100%
	SpcPts *valXML `xml:"spcPts"` // Hundredths of a point
}

type buCharXML struct {
	Char string `xml:"char,attr"` // Bullet character
}

type buAutoNumXML struct {
	Type string `xml:"type,attr"` // arabicPeriod, alphaLcParenR, etc.
}

// rXML represents a text run. Text normally sits in a:t; Inline catches
// producers that put character data directly inside the run.
type rXML struct {
	RPr    *rPrXML `xml:"rPr"`
	T      *string `xml:"t"`
	Inline string  `xml:",chardata"`
}

type rPrXML struct {
	Lang       string          `xml:"lang,attr"`
	Sz         string          `xml:"sz,attr"` // Font size in hundredths of a point
	B          string          `xml:"b,attr"`
	I          string          `xml:"i,attr"`
	U          string          `xml:"u,attr"`      // Underline type
	Strike     string          `xml:"strike,attr"` // noStrike, sngStrike, dblStrike
	SolidFill  *colorChoiceXML `xml:"solidFill"`
	Latin      *fontXML        `xml:"latin"`
	HlinkClick *hlinkXML       `xml:"hlinkClick"`
}

type fontXML struct {
	Typeface string `xml:"typeface,attr"`
}

type hlinkXML struct {
	RID    string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Action string `xml:"action,attr"`
}

type brXML struct {
	RPr *rPrXML `xml:"rPr"`
}

type fldXML struct {
	Type string  `xml:"type,attr"` // slidenum, datetime, etc.
	RPr  *rPrXML `xml:"rPr"`
	T    string  `xml:"t"` // Field value
}

// picXML represents a picture element.
type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"nvPicPr"`
	BlipFill blipFillXML `xml:"blipFill"`
	SpPr     spPrXML     `xml:"spPr"`
}

type nvPicPrXML struct {
	CNvPr    cNvPrXML    `xml:"cNvPr"`
	CNvPicPr cNvPicPrXML `xml:"cNvPicPr"`
	NvPr     nvPrXML     `xml:"nvPr"`
}

type cNvPicPrXML struct {
	PicLocks *locksXML `xml:"picLocks"`
}

type blipFillXML struct {
	Blip *blipXML `xml:"blip"`
}

type blipXML struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
	Link  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships link,attr"`
}

// cxnSpXML represents a connector shape.
type cxnSpXML struct {
	NvCxnSpPr nvCxnSpPrXML `xml:"nvCxnSpPr"`
	SpPr      spPrXML      `xml:"spPr"`
	Style     *styleXML    `xml:"style"`
}

type nvCxnSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

// graphicFrameXML represents a graphic frame (tables, charts).
type graphicFrameXML struct {
	NvGraphicFramePr nvGraphicFramePrXML `xml:"nvGraphicFramePr"`
	Xfrm             *xfrmXML            `xml:"xfrm"`
	Graphic          graphicXML          `xml:"graphic"`
}

type nvGraphicFramePrXML struct {
	CNvPr             cNvPrXML             `xml:"cNvPr"`
	CNvGraphicFramePr cNvGraphicFramePrXML `xml:"cNvGraphicFramePr"`
}

type cNvGraphicFramePrXML struct {
	GraphicFrameLocks *locksXML `xml:"graphicFrameLocks"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI string  `xml:"uri,attr"`
	Tbl *tblXML `xml:"tbl"` // Table
}

// tblXML represents a table.
type tblXML struct {
	TblGrid tblGridXML `xml:"tblGrid"`
	Tr      []trXML    `xml:"tr"` // Table rows
}

type tblGridXML struct {
	GridCol []gridColXML `xml:"gridCol"`
}

type gridColXML struct {
	W int64 `xml:"w,attr"` // Width in EMUs
}

type trXML struct {
	H  int64   `xml:"h,attr"` // Row height in EMUs
	Tc []tcXML `xml:"tc"`     // Table cells
}

type tcXML struct {
	TxBody   *txBodyXML `xml:"txBody"`
	RowSpan  int        `xml:"rowSpan,attr"`
	GridSpan int        `xml:"gridSpan,attr"`
	VMerge   string     `xml:"vMerge,attr"` // Vertical merge continuation
	HMerge   string     `xml:"hMerge,attr"` // Horizontal merge continuation
}

// themeXML represents ppt/theme/theme*.xml.
type themeXML struct {
	XMLName       xml.Name         `xml:"theme"`
	Name          string           `xml:"name,attr"`
	ThemeElements themeElementsXML `xml:"themeElements"`
}

type themeElementsXML struct {
	ClrScheme  clrSchemeXML  `xml:"clrScheme"`
	FontScheme fontSchemeXML `xml:"fontScheme"`
}

type clrSchemeXML struct {
	Name     string          `xml:"name,attr"`
	Dk1      *colorChoiceXML `xml:"dk1"`
	Lt1      *colorChoiceXML `xml:"lt1"`
	Dk2      *colorChoiceXML `xml:"dk2"`
	Lt2      *colorChoiceXML `xml:"lt2"`
	Accent1  *colorChoiceXML `xml:"accent1"`
	Accent2  *colorChoiceXML `xml:"accent2"`
	Accent3  *colorChoiceXML `xml:"accent3"`
	Accent4  *colorChoiceXML `xml:"accent4"`
	Accent5  *colorChoiceXML `xml:"accent5"`
	Accent6  *colorChoiceXML `xml:"accent6"`
	Hlink    *colorChoiceXML `xml:"hlink"`
	FolHlink *colorChoiceXML `xml:"folHlink"`
}

type fontSchemeXML struct {
	MajorFont fontCollectionXML `xml:"majorFont"`
	MinorFont fontCollectionXML `xml:"minorFont"`
}

type fontCollectionXML struct {
	Latin fontXML `xml:"latin"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Subject     string   `xml:"subject"`
	Creator     string   `xml:"creator"`
	Keywords    string   `xml:"keywords"`
	Description string   `xml:"description"`
	LastModBy   string   `xml:"lastModifiedBy"`
	Created     string   `xml:"created"`
	Modified    string   `xml:"modified"`
}
