package cards

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gallery-viewer/internal/candidates"
	"gallery-viewer/internal/gallery"
	"gallery-viewer/internal/logging"

	"github.com/PuerkitoBio/goquery"
)

// cardSelector matches one project card in the portfolio markup.
const cardSelector = ".project-item"

// Card is one parsed project card: its position in document order plus the
// declarative metadata the resolver consumes.
type Card struct {
	ID int `json:"id"`
	gallery.CardMetadata
}

// LoadFile parses the portfolio page at path.
func LoadFile(path string) ([]Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open portfolio page: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse extracts the project cards from portfolio page markup. Cards keep
// document order; malformed per-card attributes are dropped individually
// so one broken card never hides the rest.
func Parse(r io.Reader) ([]Card, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse portfolio page: %w", err)
	}

	var cards []Card
	doc.Find(cardSelector).Each(func(i int, s *goquery.Selection) {
		cards = append(cards, Card{ID: i, CardMetadata: metadataFrom(s)})
	})

	logging.Info("Parsed %d project cards", len(cards))
	return cards, nil
}

// metadataFrom reads one card's data attributes, falling back to nearby
// heading and paragraph text for title and description.
func metadataFrom(s *goquery.Selection) gallery.CardMetadata {
	meta := gallery.CardMetadata{
		Title:         strings.TrimSpace(s.AttrOr("data-title", "")),
		Description:   strings.TrimSpace(s.AttrOr("data-desc", "")),
		GalleryKey:    strings.TrimSpace(s.AttrOr("data-gallery", "")),
		ThumbOverride: strings.TrimSpace(s.AttrOr("data-thumb", "")),
		YouTubeURL:    strings.TrimSpace(s.AttrOr("data-youtube", "")),
		Category:      strings.ToLower(strings.TrimSpace(s.AttrOr("data-category", ""))),
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(s.Find("h3").First().Text())
	}
	if meta.Description == "" {
		meta.Description = strings.TrimSpace(s.Find("p").First().Text())
	}

	if raw := s.AttrOr("data-images", ""); raw != "" {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			// Unparsable explicit list: ignored, resolution falls
			// through to the next source.
			logging.Debug("card %q: bad data-images: %v", meta.Title, err)
		} else {
			meta.ExplicitImages = urls
		}
	}

	if raw := s.AttrOr("data-pattern", ""); raw != "" {
		var pattern candidates.Pattern
		if err := json.Unmarshal([]byte(raw), &pattern); err != nil {
			logging.Debug("card %q: bad data-pattern: %v", meta.Title, err)
		} else if pattern.Valid() {
			meta.Pattern = &pattern
		} else {
			logging.Debug("card %q: incomplete data-pattern, ignoring", meta.Title)
		}
	}

	return meta
}
