package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"
)

func TestValidImageSource(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"data:image/png;base64,iVBORw0KGgo=", true},
		{"data:image/jpeg;base64,/9j/4AAQ", true},
		{"data:image/jpg;base64,/9j/4AAQ", true},
		{"data:image/svg+xml;base64,PHN2Zz4=", true},
		{"data:image/tif;base64,SUkqAA==", true},
		{"https://example.com/a.png", true},
		{"http://example.com/a.png", true},
		{"data:image/png;base64,", false},
		{"data:image/png;base64,abc def", false},
		{"data:image/x-emf;base64,AAAA", false},
		{"data:text/plain;base64,AAAA", false},
		{"ftp://example.com/a.png", false},
		{"image1.png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidImageSource(tt.src); got != tt.want {
			t.Errorf("ValidImageSource(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestPrepareImage(t *testing.T) {
	good := prepareImage(pngDataURI(t, 5, 7))
	if good.err != nil || good.decodeErr != nil {
		t.Fatalf("prepareImage(png) = %+v", good)
	}
	if good.data.Width != 5 || good.data.Height != 7 || len(good.data.Data) == 0 {
		t.Errorf("data = %+v", good.data)
	}

	svg := prepareImage("data:image/svg+xml;base64,PHN2Zy8+")
	if svg.decodeErr != nil || svg.data.MIME != "image/svg+xml" || string(svg.data.Data) != "<svg/>" {
		t.Errorf("svg = %+v", svg)
	}

	jpg := prepareImage("data:image/jpg;base64,AAAA")
	if jpg.decodeErr == nil || jpg.data.MIME != "image/png" {
		t.Errorf("undecodable jpg = %+v", jpg)
	}

	if bad := prepareImage("javascript:alert(1)"); !errors.Is(bad.err, errInvalidSource) {
		t.Errorf("bad source err = %v", bad.err)
	}
}

func TestPlaceholderPNG(t *testing.T) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(placeholderPNG))
	if err != nil {
		t.Fatalf("placeholder does not decode: %v", err)
	}
	if format != "png" || cfg.Width != 1 || cfg.Height != 1 {
		t.Errorf("placeholder = %s %dx%d", format, cfg.Width, cfg.Height)
	}
}

func TestPrepareImages(t *testing.T) {
	a := pngDataURI(t, 1, 2)
	out, err := prepareImages(context.Background(), []string{a, a, "https://example.com/x.png", "junk"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Errorf("prepared %d sources, want 3 distinct", len(out))
	}
	if out["junk"].err == nil {
		t.Error("junk source accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := prepareImages(ctx, []string{a}, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled prepareImages() error = %v", err)
	}
}
