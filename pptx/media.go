package pptx

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// mimeTypes maps media file extensions to MIME types.
var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"ico":  "image/x-icon",
}

// MIMEType returns the MIME type for a media filename. Unknown extensions
// map to image/png.
func MIMEType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if m, ok := mimeTypes[ext]; ok {
		return m
	}
	return "image/png"
}

// Media is an embedded media file, base64-encoded.
type Media struct {
	Name   string // File name within ppt/media/
	Part   string // Full part path
	MIME   string
	Data   string // Base64 payload
	Width  int    // Intrinsic pixel size, 0 when the format is not decodable
	Height int
}

// DataURI returns the media as a data URI.
func (m Media) DataURI() string {
	return "data:" + m.MIME + ";base64," + m.Data
}

// MediaMap holds extracted media keyed by file name.
type MediaMap map[string]Media

// Lookup finds media by its full part path.
func (m MediaMap) Lookup(part string) (Media, bool) {
	if !strings.HasPrefix(part, mediaPrefix) {
		return Media{}, false
	}
	media, ok := m[strings.TrimPrefix(part, mediaPrefix)]
	return media, ok
}

// extractMedia reads every ppt/media/ part concurrently. Parts that cannot
// be read are left out; ResolveImage reports the gap per element.
func extractMedia(ctx context.Context, pkg Package, workers int) MediaMap {
	var names []string
	for _, name := range pkg.Parts() {
		if strings.HasPrefix(name, mediaPrefix) && !strings.HasSuffix(name, "/") {
			names = append(names, name)
		}
	}

	var (
		mu  sync.Mutex
		out = make(MediaMap, len(names))
	)
	g, _ := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, name := range names {
		g.Go(func() error {
			data, err := pkg.ReadPart(name)
			if err != nil {
				return nil
			}
			m := newMedia(name, data)
			mu.Lock()
			out[m.Name] = m
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func newMedia(part string, data []byte) Media {
	m := Media{
		Name: strings.TrimPrefix(part, mediaPrefix),
		Part: part,
		MIME: MIMEType(part),
		Data: base64.StdEncoding.EncodeToString(data),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		m.Width, m.Height = cfg.Width, cfg.Height
	}
	return m
}

// ResolveImage follows an image relationship to its media. It returns
// false when the relationship is unknown or the target was not extracted.
func ResolveImage(relID string, rels Relationships, media MediaMap) (Media, bool) {
	rel, ok := rels.Target(relID)
	if !ok || rel.External {
		return Media{}, false
	}
	return media.Lookup(rel.Target)
}
