package gallery

import (
	"context"
	"sync"
	"time"

	"gallery-viewer/internal/candidates"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/mediatypes"
	"gallery-viewer/internal/metrics"
)

// folderMaxCount is the generous slot cap attached to patterns inferred
// from the folder convention; discovery past the first slot is lazy, so the
// cap only bounds how far forward navigation can grow the list.
const folderMaxCount = 200

// Prober is the probe surface the resolver needs. Satisfied by
// *probe.Prober.
type Prober interface {
	FirstExisting(ctx context.Context, candidates []string) (string, bool)
}

// Lookup is the manual mapping table collaborator: a read-only, hand-
// authored key to URL-list table. Satisfied by *mapping.Table.
type Lookup interface {
	Lookup(key string) ([]string, bool)
}

// Resolver derives the ordered media list for a card from its declarative
// metadata, probing the asset tree where the metadata leaves contents
// implicit.
type Resolver struct {
	prober Prober
	table  Lookup
}

// NewResolver creates a Resolver backed by the given prober and mapping
// table.
func NewResolver(prober Prober, table Lookup) *Resolver {
	return &Resolver{prober: prober, table: table}
}

// Resolve produces the media list for a card. Sources are tried in priority
// order and the first that yields at least one item wins: explicit image
// list, declared pattern, manual mapping, folder convention. A video URL on
// the card appends exactly one trailing video item.
//
// Resolution has no fatal outcome. Every malformed or missing source simply
// falls through, and a card nothing applies to resolves to an empty gallery
// the caller must not open.
func (r *Resolver) Resolve(ctx context.Context, meta CardMetadata) Resolved {
	start := time.Now()

	resolved := Resolved{Title: meta.Title, Description: meta.Description}
	strategy := "empty"

	switch {
	case len(meta.ExplicitImages) > 0:
		resolved.Items = imageItems(meta.ExplicitImages)
		strategy = "explicit"

	case meta.Pattern != nil && meta.Pattern.Valid():
		if items := r.resolvePattern(ctx, *meta.Pattern); len(items) > 0 {
			resolved.Items = items
			strategy = "pattern"
			break
		}
		fallthrough

	default:
		if meta.GalleryKey != "" {
			if urls, ok := r.table.Lookup(meta.GalleryKey); ok {
				resolved.Items = imageItems(urls)
				strategy = "mapping"
				break
			}
			if item, pattern, ok := r.resolveFolder(ctx, meta.GalleryKey); ok {
				resolved.Items = []mediatypes.Item{item}
				resolved.Pattern = pattern
				strategy = "folder"
			}
		}
	}

	if id, ok := mediatypes.ExtractVideoID(meta.YouTubeURL); ok {
		resolved.Items = append(resolved.Items, mediatypes.Video(id))
		// Expansion past a trailing video would break the video-last
		// invariant, so video-bearing galleries do not grow.
		resolved.Pattern = nil
		if strategy == "empty" {
			strategy = "video"
		}
	}

	metrics.ResolutionsTotal.WithLabelValues(strategy).Inc()
	metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
	if !resolved.Empty() {
		metrics.ResolvedItems.Observe(float64(len(resolved.Items)))
	}

	logging.Debug("resolved %q via %s: %d items in %v",
		meta.Title, strategy, len(resolved.Items), time.Since(start))
	return resolved
}

// resolvePattern probes the first MaxCount slots of a declared pattern.
// Slot 0 is awaited alone to fail fast on an empty folder; the remaining
// slots are probed concurrently and reassembled in slot order. A slot with
// no existing extension match is omitted without truncating the list.
func (r *Resolver) resolvePattern(ctx context.Context, pattern candidates.Pattern) []mediatypes.Item {
	slots := candidates.ExpandAll(pattern, pattern.MaxCount)

	first, ok := r.prober.FirstExisting(ctx, slots[0])
	if !ok {
		return nil
	}

	hits := make([]string, len(slots))
	hits[0] = first

	var wg sync.WaitGroup
	for i := 1; i < len(slots); i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			if url, ok := r.prober.FirstExisting(ctx, slots[slot]); ok {
				hits[slot] = url
			}
		}(i)
	}
	wg.Wait()

	var items []mediatypes.Item
	for _, url := range hits {
		if url != "" {
			items = append(items, mediatypes.Image(url))
		}
	}
	return items
}

// resolveFolder probes only the first slot of the standard folder
// convention (<folder>/01.<ext>). On a hit it returns a single-item list
// plus the inferred pattern, so later slots are discovered lazily while
// browsing instead of probing the whole folder eagerly.
func (r *Resolver) resolveFolder(ctx context.Context, folder string) (mediatypes.Item, *candidates.Pattern, bool) {
	pattern := candidates.Pattern{
		BasePath:   folder,
		IndexPad:   2,
		StartIndex: 1,
		Extensions: mediatypes.ExtensionPriority,
		MaxCount:   folderMaxCount,
	}

	url, ok := r.prober.FirstExisting(ctx, candidates.Expand(pattern, 0))
	if !ok {
		return mediatypes.Item{}, nil, false
	}
	return mediatypes.Image(url), &pattern, true
}

// ResolveThumb resolves a card's list-view thumbnail: the explicit override
// wins, then the first image of whichever gallery source applies, then the
// video poster.
func (r *Resolver) ResolveThumb(ctx context.Context, meta CardMetadata) (string, bool) {
	if meta.ThumbOverride != "" {
		return meta.ThumbOverride, true
	}
	if len(meta.ExplicitImages) > 0 {
		return meta.ExplicitImages[0], true
	}
	if meta.GalleryKey != "" {
		if urls, ok := r.table.Lookup(meta.GalleryKey); ok {
			return urls[0], true
		}
		if item, _, ok := r.resolveFolder(ctx, meta.GalleryKey); ok {
			return item.URL, true
		}
	}
	if id, ok := mediatypes.ExtractVideoID(meta.YouTubeURL); ok {
		return mediatypes.Video(id).PosterURL, true
	}
	return "", false
}

func imageItems(urls []string) []mediatypes.Item {
	items := make([]mediatypes.Item, 0, len(urls))
	for _, u := range urls {
		items = append(items, mediatypes.Image(u))
	}
	return items
}
