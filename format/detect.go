// Package format detects presentation container formats.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a presentation container format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PPTX indicates a PowerPoint presentation (.pptx).
	PPTX
	// PPTM indicates a macro-enabled presentation (.pptm).
	PPTM
	// PPSX indicates a PowerPoint show (.ppsx).
	PPSX
	// POTX indicates a PowerPoint template (.potx).
	POTX
	// PPT indicates a legacy binary presentation (.ppt).
	PPT
	// OOXML indicates an Office Open XML package that is not a presentation.
	OOXML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PPTX:
		return "PPTX"
	case PPTM:
		return "PPTM"
	case PPSX:
		return "PPSX"
	case POTX:
		return "POTX"
	case PPT:
		return "PPT"
	case OOXML:
		return "OOXML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PPTX:
		return ".pptx"
	case PPTM:
		return ".pptm"
	case PPSX:
		return ".ppsx"
	case POTX:
		return ".potx"
	case PPT:
		return ".ppt"
	default:
		return ""
	}
}

// IsPresentationML reports whether the format is a PresentationML package
// the codec can read. All four share the same part layout.
func (f Format) IsPresentationML() bool {
	switch f {
	case PPTX, PPTM, PPSX, POTX:
		return true
	}
	return false
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pptx":
		return PPTX
	case ".pptm":
		return PPTM
	case ".ppsx":
		return PPSX
	case ".potx":
		return POTX
	case ".ppt":
		return PPT
	case ".docx", ".xlsx":
		return OOXML
	default:
		return Unknown
	}
}

var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	// Compound File Binary header used by legacy Office documents.
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFromMagic checks leading bytes. ZIP archives return Unknown
// because telling OOXML packages apart needs DetectFromReader.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, cfbMagic) {
		return PPT
	}
	return Unknown
}

// Main-part content types that identify a PresentationML package.
var mainContentTypes = map[string]Format{
	"application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml": PPTX,
	"application/vnd.ms-powerpoint.presentation.macroEnabled.main+xml":                   PPTM,
	"application/vnd.openxmlformats-officedocument.presentationml.slideshow.main+xml":    PPSX,
	"application/vnd.openxmlformats-officedocument.presentationml.template.main+xml":     POTX,
}

// DetectFromReader inspects the content to determine format. ZIP archives
// are opened and classified by the content type of ppt/presentation.xml.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, cfbMagic):
		return PPT, nil
	case bytes.HasPrefix(magic, zipMagic):
		return detectZIPFormat(r, size)
	}
	return Unknown, nil
}

// DetectFromBytes is DetectFromReader over an in-memory file.
func DetectFromBytes(data []byte) (Format, error) {
	return DetectFromReader(bytes.NewReader(data), int64(len(data)))
}

// detectZIPFormat distinguishes PresentationML variants from other OOXML
// packages and plain ZIP files.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	hasPresentation, hasContentTypes := false, false
	var contentTypes *zip.File
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			hasContentTypes = true
			contentTypes = f
		case f.Name == "ppt/presentation.xml":
			hasPresentation = true
		}
	}

	if !hasContentTypes {
		return Unknown, nil
	}
	if !hasPresentation {
		return OOXML, nil
	}

	rc, err := contentTypes.Open()
	if err != nil {
		return PPTX, nil
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, 1<<20))
	if err != nil {
		return PPTX, nil
	}
	types := string(data)
	for ct, f := range mainContentTypes {
		if f != PPTX && strings.Contains(types, ct) {
			return f, nil
		}
	}
	return PPTX, nil
}
