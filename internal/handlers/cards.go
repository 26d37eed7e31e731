package handlers

import (
	"net/http"
	"strconv"
	"time"

	"gallery-viewer/internal/logging"

	"github.com/gorilla/mux"
)

// CardSummary is one entry in the card list response.
type CardSummary struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Thumb       string `json:"thumb,omitempty"`
	Video       bool   `json:"video"`
}

// ListCards returns the parsed project cards with their resolved list-view
// thumbnails. An optional ?category= filter narrows the list.
func (h *Handlers) ListCards(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	summaries := make([]CardSummary, 0, len(h.cards))
	for _, c := range h.cards {
		if category != "" && category != "all" && c.Category != category {
			continue
		}

		summary := CardSummary{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Category:    c.Category,
			Video:       c.YouTubeURL != "",
		}
		if thumb, ok := h.resolver.ResolveThumb(r.Context(), c.CardMetadata); ok {
			summary.Thumb = thumb
		}
		summaries = append(summaries, summary)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, summaries)
}

// GetCardGallery resolves a card's gallery and returns the ordered media
// list. Resolution always runs from scratch; nothing is cached between
// requests.
func (h *Handlers) GetCardGallery(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, "invalid card id", http.StatusBadRequest)
		return
	}

	card, ok := h.findCard(id)
	if !ok {
		writeJSONError(w, "card not found", http.StatusNotFound)
		return
	}

	start := time.Now()
	resolved := h.resolver.Resolve(r.Context(), card.CardMetadata)
	logging.Debug("resolved card %d (%q): %d items in %v", id, card.Title, len(resolved.Items), time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resolved)
}
