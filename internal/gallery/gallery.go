package gallery

import (
	"gallery-viewer/internal/candidates"
	"gallery-viewer/internal/mediatypes"
)

// CardMetadata is the declarative metadata of one project card, produced by
// the markup layer. The resolver only reads it.
type CardMetadata struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	ExplicitImages []string            `json:"explicitImages,omitempty"`
	Pattern        *candidates.Pattern `json:"pattern,omitempty"`
	GalleryKey     string              `json:"galleryKey,omitempty"`
	ThumbOverride  string              `json:"thumbOverride,omitempty"`
	YouTubeURL     string              `json:"youtubeUrl,omitempty"`
	Category       string              `json:"category,omitempty"`
}

// Resolved is the outcome of resolving a card: the ordered media list the
// lightbox will display. A non-nil Pattern marks the gallery as lazily
// expandable: the list was discovered by convention and further slots may
// exist beyond what was probed.
//
// Resolved galleries are never cached; reopening a card re-resolves from
// scratch.
type Resolved struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Items       []mediatypes.Item   `json:"items"`
	Pattern     *candidates.Pattern `json:"pattern,omitempty"`
}

// Empty reports whether resolution yielded nothing. An empty gallery must
// not open the lightbox.
func (r Resolved) Empty() bool {
	return len(r.Items) == 0
}

// HasVideo reports whether the gallery carries a trailing video item.
func (r Resolved) HasVideo() bool {
	n := len(r.Items)
	return n > 0 && r.Items[n-1].Kind == mediatypes.KindVideo
}
