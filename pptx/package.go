package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
)

// Catastrophic load failures. Everything else becomes a model.Warning.
var (
	ErrNotPackage          = errors.New("not a valid PPTX package")
	ErrMissingPresentation = errors.New("missing ppt/presentation.xml")
	ErrNoSlides            = errors.New("presentation has no slides")
)

// Well-known part names.
const (
	partContentTypes  = "[Content_Types].xml"
	partPresentation  = "ppt/presentation.xml"
	partPresRels      = "ppt/_rels/presentation.xml.rels"
	partCoreProps     = "docProps/core.xml"
	mediaPrefix       = "ppt/media/"
	slidePrefix       = "ppt/slides/slide"
	slideLayoutPrefix = "ppt/slideLayouts/"
	slideMasterPrefix = "ppt/slideMasters/"
	themePrefix       = "ppt/theme/"
)

// Package is a read-only view of the parts in a PPTX container.
// Implementations must allow concurrent ReadPart calls.
type Package interface {
	// Parts returns all part names, sorted.
	Parts() []string
	// ReadPart returns the bytes of the named part.
	ReadPart(name string) ([]byte, error)
}

// ZipPackage is a Package backed by a ZIP archive.
type ZipPackage struct {
	files  map[string]*zip.File
	names  []string
	closer io.Closer
}

// OpenPackage opens a PPTX file on disk.
func OpenPackage(filename string) (*ZipPackage, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w: %v", ErrNotPackage, err)
	}
	p := newZipPackage(&zr.Reader)
	p.closer = zr
	return p, nil
}

// NewPackage reads a PPTX archive from r.
func NewPackage(r io.ReaderAt, size int64) (*ZipPackage, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w: %v", ErrNotPackage, err)
	}
	return newZipPackage(zr), nil
}

// PackageFromBytes reads a PPTX archive held in memory.
func PackageFromBytes(data []byte) (*ZipPackage, error) {
	return NewPackage(bytes.NewReader(data), int64(len(data)))
}

func newZipPackage(zr *zip.Reader) *ZipPackage {
	p := &ZipPackage{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		name := strings.TrimPrefix(f.Name, "/")
		p.files[name] = f
		p.names = append(p.names, name)
	}
	sort.Strings(p.names)
	return p
}

// Parts returns all part names, sorted.
func (p *ZipPackage) Parts() []string {
	return p.names
}

// ReadPart returns the content of a part from the archive.
func (p *ZipPackage) ReadPart(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Has reports whether the named part exists.
func (p *ZipPackage) Has(name string) bool {
	_, ok := p.files[name]
	return ok
}

// Close releases the underlying file, if any.
func (p *ZipPackage) Close() error {
	if p.closer != nil {
		err := p.closer.Close()
		p.closer = nil
		return err
	}
	return nil
}

func hasPart(pkg Package, name string) bool {
	if z, ok := pkg.(*ZipPackage); ok {
		return z.Has(name)
	}
	for _, n := range pkg.Parts() {
		if n == name {
			return true
		}
	}
	return false
}

// decodeXML unmarshals a part, honoring non-UTF-8 encoding declarations.
func decodeXML(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}

// readXML reads and decodes a part.
func readXML(pkg Package, name string, v any) error {
	data, err := pkg.ReadPart(name)
	if err != nil {
		return err
	}
	if err := decodeXML(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
