package thumbs

import (
	"bytes"
	"crypto/md5" //nolint:gosec // cache key, not security
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/metrics"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	thumbSize    = 200
	jpegQuality  = 80
	maxFetchSize = 32 * 1024 * 1024
)

// allowedHosts are the absolute-URL hosts thumbnails may be fetched from;
// everything else must be a relative path into the asset tree. Keeps the
// proxy from being an open fetcher.
var allowedHosts = map[string]bool{
	"img.youtube.com": true,
}

// Generator produces downscaled JPEG thumbnails of remote images, cached
// on disk keyed by source URL.
type Generator struct {
	cacheDir string
	baseURL  string
	enabled  bool
	client   *http.Client
	mu       sync.Mutex
}

// NewGenerator creates a Generator. With an empty cacheDir thumbnails are
// disabled and Thumbnail returns an error for every request.
func NewGenerator(cacheDir, baseURL string, client *http.Client) *Generator {
	enabled := cacheDir != ""
	if enabled {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			logging.Warn("Thumbnail cache dir %s: %v, disabling thumbnails", cacheDir, err)
			enabled = false
		}
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Generator{
		cacheDir: cacheDir,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		enabled:  enabled,
		client:   client,
	}
}

// IsEnabled reports whether thumbnail generation is available.
func (g *Generator) IsEnabled() bool {
	return g.enabled
}

// Thumbnail returns the cached or freshly generated thumbnail for a source
// URL as JPEG bytes.
func (g *Generator) Thumbnail(rawURL string) ([]byte, error) {
	if !g.enabled {
		return nil, fmt.Errorf("thumbnails disabled")
	}

	target, err := g.resolve(rawURL)
	if err != nil {
		metrics.ThumbnailRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	hash := md5.Sum([]byte(rawURL)) //nolint:gosec // cache key, not security
	cachePath := filepath.Join(g.cacheDir, fmt.Sprintf("%x.jpg", hash))

	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailRequestsTotal.WithLabelValues("cached").Inc()
		return data, nil
	}

	// One generation at a time; sources are small portfolio images.
	g.mu.Lock()
	defer g.mu.Unlock()

	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailRequestsTotal.WithLabelValues("cached").Inc()
		return data, nil
	}

	data, err := g.generate(target)
	if err != nil {
		metrics.ThumbnailRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	}

	metrics.ThumbnailRequestsTotal.WithLabelValues("generated").Inc()
	return data, nil
}

// resolve validates the source URL: relative paths join the asset base,
// absolute URLs must point at an allowed host.
func (g *Generator) resolve(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("bad thumbnail source: %w", err)
	}

	if u.IsAbs() {
		if !allowedHosts[u.Host] {
			return "", fmt.Errorf("thumbnail host %q not allowed", u.Host)
		}
		return rawURL, nil
	}

	if g.baseURL == "" {
		return "", fmt.Errorf("no asset base URL configured")
	}
	return g.baseURL + "/" + strings.TrimPrefix(rawURL, "/"), nil
}

func (g *Generator) generate(target string) ([]byte, error) {
	resp, err := g.client.Get(target)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}

	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
