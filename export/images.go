package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"regexp"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

var (
	dataURIPattern = regexp.MustCompile(`^data:image/(png|jpe?g|gif|bmp|webp|svg\+xml|tiff?);base64,[A-Za-z0-9+/]+=*$`)
	httpPattern    = regexp.MustCompile(`^https?://`)
)

// errInvalidSource marks sources that are neither a base64 image data URI
// nor an http(s) URL.
var errInvalidSource = errors.New("unsupported image source")

// placeholderPNG is a transparent 1x1 PNG used when embedded image data
// cannot be decoded.
var placeholderPNG = func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// ValidImageSource reports whether src is an acceptable image source.
func ValidImageSource(src string) bool {
	return dataURIPattern.MatchString(src) || httpPattern.MatchString(src)
}

// preparedImage is the outcome of validating and decoding one source.
type preparedImage struct {
	data ImageData
	err  error // errInvalidSource: skip the element
	// decodeErr is set when the payload was replaced by the placeholder.
	decodeErr error
}

// prepareImage validates src and, for data URIs, decodes the payload far
// enough to learn its pixel size. Vector formats are passed through.
func prepareImage(src string) preparedImage {
	src = strings.TrimSpace(src)
	if httpPattern.MatchString(src) {
		return preparedImage{data: ImageData{URL: src}}
	}
	if !dataURIPattern.MatchString(src) {
		return preparedImage{err: errInvalidSource}
	}

	header, payload, _ := strings.Cut(src, ",")
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mime == "image/jpg" {
		mime = "image/jpeg"
	}
	if mime == "image/tif" {
		mime = "image/tiff"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return placeholder(fmt.Errorf("decoding base64: %w", err))
	}
	if mime == "image/svg+xml" {
		return preparedImage{data: ImageData{Data: data, MIME: mime}}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return placeholder(fmt.Errorf("decoding %s: %w", mime, err))
	}
	return preparedImage{data: ImageData{Data: data, MIME: mime, Width: cfg.Width, Height: cfg.Height}}
}

func placeholder(err error) preparedImage {
	return preparedImage{
		data:      ImageData{Data: placeholderPNG, MIME: "image/png", Width: 1, Height: 1},
		decodeErr: err,
	}
}

// prepareImages validates and decodes every distinct source concurrently.
// The returned map is complete before any writer call is made.
func prepareImages(ctx context.Context, sources []string, workers int) (map[string]preparedImage, error) {
	unique := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		unique[s] = struct{}{}
	}

	keys := make([]string, 0, len(unique))
	for s := range unique {
		keys = append(keys, s)
	}
	results := make([]preparedImage, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, src := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = prepareImage(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]preparedImage, len(keys))
	for i, src := range keys {
		out[src] = results[i]
	}
	return out, nil
}
