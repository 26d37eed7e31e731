// Package cards parses the portfolio page's declarative project-card
// markup into the metadata the gallery resolver consumes. Gallery contents
// are declared as data attributes on each card: an explicit image list, a
// numbered-sequence pattern, a gallery key or folder, a thumbnail override
// and a video URL.
package cards
