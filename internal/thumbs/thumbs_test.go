package thumbs

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newImageServer(t *testing.T, width, height int, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	img := buf.Bytes()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(img) //nolint:errcheck
	}))
}

func TestThumbnailGeneratesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := newImageServer(t, 800, 600, &hits)
	defer srv.Close()

	g := NewGenerator(t.TempDir(), srv.URL, nil)

	data, err := g.Thumbnail("work/expo/01.png")
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not a JPEG: %v", err)
	}
	if cfg.Width > 200 || cfg.Height > 200 {
		t.Errorf("thumbnail is %dx%d, want fit within 200x200", cfg.Width, cfg.Height)
	}

	again, err := g.Thumbnail("work/expo/01.png")
	if err != nil {
		t.Fatalf("cached Thumbnail: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("cached thumbnail differs from generated one")
	}
	if hits.Load() != 1 {
		t.Errorf("source fetched %d times, want 1 (cache hit on repeat)", hits.Load())
	}
}

func TestThumbnailRejectsUnknownHost(t *testing.T) {
	g := NewGenerator(t.TempDir(), "http://assets.local", nil)
	if _, err := g.Thumbnail("https://evil.example/secret.png"); err == nil {
		t.Error("Thumbnail fetched from a disallowed host")
	}
}

func TestThumbnailNonImageSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not an image")) //nolint:errcheck
	}))
	defer srv.Close()

	g := NewGenerator(t.TempDir(), srv.URL, nil)
	if _, err := g.Thumbnail("g/01.png"); err == nil {
		t.Error("Thumbnail accepted a non-image source")
	}
}

func TestThumbnailMissingSource(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	g := NewGenerator(t.TempDir(), srv.URL, nil)
	if _, err := g.Thumbnail("g/01.png"); err == nil {
		t.Error("Thumbnail succeeded for a 404 source")
	}
}

func TestDisabledGenerator(t *testing.T) {
	g := NewGenerator("", "http://assets.local", nil)
	if g.IsEnabled() {
		t.Error("IsEnabled = true with no cache dir")
	}
	if _, err := g.Thumbnail("g/01.png"); err == nil {
		t.Error("disabled generator returned a thumbnail")
	}
}
