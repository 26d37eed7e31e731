package mediatypes

import "regexp"

// Kind represents the kind of a gallery media item.
type Kind string

const (
	// KindImage represents a plain image item.
	KindImage Kind = "image"
	// KindVideo represents an embedded platform video item.
	KindVideo Kind = "video"
)

// Item is one entry in a resolved gallery. Items are immutable once created:
// an image carries only URL, a video carries VideoID and PosterURL.
type Item struct {
	Kind      Kind   `json:"kind"`
	URL       string `json:"url,omitempty"`
	VideoID   string `json:"videoId,omitempty"`
	PosterURL string `json:"posterUrl,omitempty"`
}

// Image returns an image item for the given URL.
func Image(url string) Item {
	return Item{Kind: KindImage, URL: url}
}

// Video returns a video item for the given YouTube video ID, with the
// platform's standard thumbnail endpoint as poster.
func Video(id string) Item {
	return Item{
		Kind:      KindVideo,
		VideoID:   id,
		PosterURL: "https://img.youtube.com/vi/" + id + "/hqdefault.jpg",
	}
}

// ThumbURL returns the URL to use for an item's thumbnail-strip entry.
func (i Item) ThumbURL() string {
	if i.Kind == KindVideo {
		return i.PosterURL
	}
	return i.URL
}

// EmbedURL returns the embedded-player URL for a video ID. Autoplay is
// requested because embeds are only rendered on explicit navigation.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id + "?autoplay=1&rel=0"
}

// ExtensionPriority is the fixed extension probe order for the folder
// convention, newer formats first.
var ExtensionPriority = []string{"webp", "png", "jpg"}

// videoIDPattern matches the 11-character video identifier in the URL forms
// youtu.be/<id>, v=<id> and embed/<id>.
var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|v=|embed/)([A-Za-z0-9_-]{11})`)

// ExtractVideoID extracts a YouTube video identifier from a URL. Returns
// false when no identifier matches; callers omit the video in that case.
func ExtractVideoID(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}
