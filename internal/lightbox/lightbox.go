package lightbox

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gallery-viewer/internal/candidates"
	"gallery-viewer/internal/gallery"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/mediatypes"
	"gallery-viewer/internal/metrics"
)

// headPreloadWindow is how many leading items are preloaded when a session
// opens.
const headPreloadWindow = 3

var (
	// ErrEmptyGallery is returned when OpenWith is called with an empty
	// gallery; the lightbox stays closed.
	ErrEmptyGallery = errors.New("lightbox: gallery has no items")
	// ErrClosed is returned by navigation calls while no session is open.
	ErrClosed = errors.New("lightbox: not open")
)

// Prober is the probe surface the controller needs for preloading and lazy
// expansion. Satisfied by *probe.Prober.
type Prober interface {
	FirstExisting(ctx context.Context, candidates []string) (string, bool)
	AllExisting(ctx context.Context, urls []string) []string
}

// Thumbnail is one entry of the rendered thumbnail strip.
type Thumbnail struct {
	URL   string `json:"url"`
	Video bool   `json:"video"`
}

// Renderer is the presentation layer the controller drives. Implementations
// own the actual rendered surface; the controller only decides what to show.
type Renderer interface {
	// OpenGallery renders the session chrome: title, description and the
	// initial thumbnail strip. Implementations lock page scroll here.
	OpenGallery(title, description string, thumbs []Thumbnail)
	// ShowImage renders an image in the media pane.
	ShowImage(url, alt string)
	// ShowVideo renders an embedded video player. Implementations must
	// detach any previous embed so playback stops when switching away.
	ShowVideo(embedURL string)
	// SetCounter updates the 1-based position counter and total count.
	SetCounter(current, total int)
	// MarkActive marks exactly one thumbnail as active.
	MarkActive(index int)
	// AppendThumbnail appends one strip entry after lazy expansion.
	AppendThumbnail(t Thumbnail)
	// Close clears the rendered media (stopping any embedded playback)
	// and unlocks page scroll.
	Close()
}

// Controller owns the single lightbox session: the resolved gallery, the
// current index and the open flag. Only one session exists per process;
// construct exactly one Controller.
//
// The original surface runs on a single event-driven thread. Here discrete
// events arrive on arbitrary goroutines, so a mutex serializes them; probe
// completions that arrive after the session changed are discarded rather
// than applied.
type Controller struct {
	mu       sync.Mutex
	renderer Renderer
	prober   Prober

	open       bool
	gal        gallery.Resolved
	index      int
	generation uint64
	expanding  bool
}

// State is a point-in-time snapshot of the session for the rendered
// surface.
type State struct {
	Open        bool                `json:"open"`
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Index       int                 `json:"index"`
	Current     int                 `json:"current"`
	Total       int                 `json:"total"`
	Items       []mediatypes.Item   `json:"items,omitempty"`
	Pattern     *candidates.Pattern `json:"-"`
	Expandable  bool                `json:"expandable"`
}

// NewController creates the lightbox controller in the Closed state.
func NewController(renderer Renderer, prober Prober) *Controller {
	return &Controller{renderer: renderer, prober: prober}
}

// OpenWith enters the Open state with the given gallery. An empty gallery
// is rejected and the controller stays Closed. The start index is clamped
// into range. The head of the list is preloaded in the background.
func (c *Controller) OpenWith(ctx context.Context, gal gallery.Resolved, startIndex int) error {
	if gal.Empty() {
		return ErrEmptyGallery
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = true
	c.gal = gal
	c.generation++

	n := len(gal.Items)
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= n {
		startIndex = n - 1
	}

	c.renderer.OpenGallery(gal.Title, gal.Description, thumbnails(gal.Items))
	c.show(ctx, startIndex)

	head := headPreloadWindow
	if head > n {
		head = n
	}
	var headURLs []string
	for _, item := range gal.Items[:head] {
		if item.Kind == mediatypes.KindImage {
			headURLs = append(headURLs, item.URL)
		}
	}
	if len(headURLs) > 0 {
		go c.prober.AllExisting(context.Background(), headURLs)
	}

	metrics.LightboxOpensTotal.Inc()
	logging.Debug("lightbox opened: %q, %d items, start %d", gal.Title, n, startIndex)
	return nil
}

// Show navigates to an index. Out-of-range indices wrap modulo the list
// length in both directions.
func (c *Controller) Show(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return ErrClosed
	}
	c.show(ctx, index)
	metrics.LightboxNavigationsTotal.Inc()
	return nil
}

// Next advances one item, wrapping at the end.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	index := c.index + 1
	c.mu.Unlock()
	return c.Show(ctx, index)
}

// Prev goes back one item, wrapping at the start. Backward navigation never
// expands the list.
func (c *Controller) Prev(ctx context.Context) error {
	c.mu.Lock()
	index := c.index - 1
	c.mu.Unlock()
	return c.Show(ctx, index)
}

// show renders the item at index and schedules neighbor handling. The
// caller holds the mutex.
func (c *Controller) show(ctx context.Context, index int) {
	n := len(c.gal.Items)
	eff := ((index % n) + n) % n
	c.index = eff

	item := c.gal.Items[eff]
	if item.Kind == mediatypes.KindVideo {
		c.renderer.ShowVideo(mediatypes.EmbedURL(item.VideoID))
	} else {
		c.renderer.ShowImage(item.URL, fmt.Sprintf("%s - %d", c.gal.Title, eff+1))
	}
	c.renderer.MarkActive(eff)
	c.renderer.SetCounter(eff+1, n)

	c.ensureNeighbors(ctx, eff)
}

// ensureNeighbors preloads the already-resolved neighbors of eff and, when
// forward navigation has reached the end of a still-expandable list, starts
// lazy expansion for the next slot.
func (c *Controller) ensureNeighbors(_ context.Context, eff int) {
	n := len(c.gal.Items)

	if eff+1 == n && c.gal.Pattern != nil {
		c.expandTail()
	}

	var neighbors []string
	for _, i := range []int{eff - 1, eff + 1} {
		if i >= 0 && i < n && c.gal.Items[i].Kind == mediatypes.KindImage {
			neighbors = append(neighbors, c.gal.Items[i].URL)
		}
	}
	if len(neighbors) > 0 {
		// Advisory warm-up; completions need no session state.
		go c.prober.AllExisting(context.Background(), neighbors)
	}
}

// expandTail probes the next slot of the attached pattern in the
// background. On a hit the item and its thumbnail are appended and the
// counter updated; on a miss the list simply does not grow and the next
// forward navigation retries the same slot. Completions that arrive after
// the session closed or was replaced are discarded. The caller holds the
// mutex.
func (c *Controller) expandTail() {
	if c.expanding {
		return
	}

	slot := len(c.gal.Items)
	if slot >= c.gal.Pattern.MaxCount {
		return
	}
	cands := candidates.Expand(*c.gal.Pattern, slot)
	gen := c.generation
	c.expanding = true

	go func() {
		url, ok := c.prober.FirstExisting(context.Background(), cands)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.expanding = false

		// There is no cancellation primitive for in-flight probes, so a
		// completion may outlive the session it was issued for.
		if !c.open || c.generation != gen || len(c.gal.Items) != slot {
			metrics.LazyExpansionsTotal.WithLabelValues("stale").Inc()
			return
		}
		if !ok {
			metrics.LazyExpansionsTotal.WithLabelValues("miss").Inc()
			return
		}

		item := mediatypes.Image(url)
		c.gal.Items = append(c.gal.Items, item)
		c.renderer.AppendThumbnail(Thumbnail{URL: item.ThumbURL()})
		c.renderer.SetCounter(c.index+1, len(c.gal.Items))
		metrics.LazyExpansionsTotal.WithLabelValues("grown").Inc()
		logging.Debug("lightbox expanded: slot %d -> %s", slot, url)
	}()
}

// Close leaves the Open state, discarding the session. Idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return
	}
	c.open = false
	c.generation++
	c.gal = gallery.Resolved{}
	c.index = 0
	c.renderer.Close()
	logging.Debug("lightbox closed")
}

// IsOpen reports whether a session is active.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Snapshot returns the current session state for the rendered surface.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return State{}
	}
	return State{
		Open:        true,
		Title:       c.gal.Title,
		Description: c.gal.Description,
		Index:       c.index,
		Current:     c.index + 1,
		Total:       len(c.gal.Items),
		Items:       append([]mediatypes.Item(nil), c.gal.Items...),
		Pattern:     c.gal.Pattern,
		Expandable:  c.gal.Pattern != nil,
	}
}

func thumbnails(items []mediatypes.Item) []Thumbnail {
	thumbs := make([]Thumbnail, 0, len(items))
	for _, item := range items {
		thumbs = append(thumbs, Thumbnail{
			URL:   item.ThumbURL(),
			Video: item.Kind == mediatypes.KindVideo,
		})
	}
	return thumbs
}
