package probe

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/metrics"
	"gallery-viewer/internal/workers"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// maxHeaderBytes bounds how much of a response body is read to verify that
// it decodes as an image. Image headers fit comfortably in this window.
const maxHeaderBytes = 64 * 1024

// Result is the outcome of a single probe. A probe never fails: a candidate
// that does not exist is a normal outcome, not an error.
type Result struct {
	URL    string `json:"url"`
	Exists bool   `json:"exists"`
}

// Options configures a Prober.
type Options struct {
	// BaseURL is prepended to relative candidate URLs. Absolute URLs are
	// probed as-is.
	BaseURL string

	// Timeout bounds each probe. A probe that has not completed when the
	// timeout expires counts as non-existence; directory contents are
	// assumed static for the process lifetime so there is no retry.
	Timeout time.Duration

	// RateLimit caps probes per second against the asset server. Zero
	// means unlimited.
	RateLimit rate.Limit
	Burst     int

	// BypassCache appends a cache-busting query parameter to each request.
	BypassCache bool

	// MaxConcurrent caps AllExisting fan-out. Zero picks an I/O-bound
	// worker count from the available CPUs.
	MaxConcurrent int

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Prober tests whether candidate asset URLs resolve to loadable images.
// There is no directory-listing API; probing is the only discovery
// mechanism. All methods are safe for concurrent use.
type Prober struct {
	baseURL       string
	client        *http.Client
	limiter       *rate.Limiter
	group         singleflight.Group
	bypassCache   bool
	maxConcurrent int
}

// New creates a Prober.
func New(opts Options) *Prober {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = int(opts.RateLimit)
			if burst < 1 {
				burst = 1
			}
		}
		limiter = rate.NewLimiter(opts.RateLimit, burst)
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = workers.ForIO(16)
	}

	return &Prober{
		baseURL:       strings.TrimSuffix(opts.BaseURL, "/"),
		client:        client,
		limiter:       limiter,
		bypassCache:   opts.BypassCache,
		maxConcurrent: maxConcurrent,
	}
}

// Probe tests a single candidate URL. Concurrent probes for the same URL are
// collapsed into one request.
func (p *Prober) Probe(ctx context.Context, rawURL string) Result {
	v, _, _ := p.group.Do(rawURL, func() (interface{}, error) {
		return p.probeOnce(ctx, rawURL), nil
	})
	return v.(Result)
}

func (p *Prober) probeOnce(ctx context.Context, rawURL string) Result {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return Result{URL: rawURL}
		}
	}

	metrics.ProbesInFlight.Inc()
	defer metrics.ProbesInFlight.Dec()

	start := time.Now()
	exists := p.load(ctx, rawURL)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())

	if exists {
		metrics.ProbesTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.ProbesTotal.WithLabelValues("miss").Inc()
	}

	logging.Debug("probe %s: exists=%v (%v)", rawURL, exists, time.Since(start))
	return Result{URL: rawURL, Exists: exists}
}

// load issues the request and verifies the response is a loadable image.
func (p *Prober) load(ctx context.Context, rawURL string) bool {
	target := p.resolveURL(rawURL)
	if target == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	if p.bypassCache {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxHeaderBytes)) //nolint:errcheck
		return false
	}

	header, err := io.ReadAll(io.LimitReader(resp.Body, maxHeaderBytes))
	if err != nil {
		return false
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(header)); err == nil {
		return true
	}

	// Formats without a registered Go decoder (e.g. AVIF) still count as
	// loadable when the server declares an image content type.
	contentType := resp.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "image/")
}

// resolveURL joins a relative candidate with the configured base URL and
// applies cache busting.
func (p *Prober) resolveURL(rawURL string) string {
	target := rawURL
	if !strings.Contains(rawURL, "://") {
		if p.baseURL == "" {
			return ""
		}
		target = p.baseURL + "/" + strings.TrimPrefix(rawURL, "/")
	}

	if !p.bypassCache {
		return target
	}

	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("nocache", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// FirstExisting evaluates candidates in order and returns the first that
// exists. The candidates are mutually-exclusive alternatives for one slot,
// so this is a sequential race: probing stops at the first hit to save
// requests. Returns false when no candidate exists.
func (p *Prober) FirstExisting(ctx context.Context, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return "", false
		default:
		}
		if p.Probe(ctx, candidate).Exists {
			return candidate, true
		}
	}
	return "", false
}

// AllExisting probes independent candidates concurrently and returns those
// that exist, preserving input order regardless of completion order.
func (p *Prober) AllExisting(ctx context.Context, urls []string) []string {
	results := make([]Result, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i] = p.Probe(ctx, u)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // probes never return errors

	existing := make([]string, 0, len(urls))
	for _, r := range results {
		if r.Exists {
			existing = append(existing, r.URL)
		}
	}
	return existing
}
