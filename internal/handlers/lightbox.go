package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gallery-viewer/internal/lightbox"
)

// openRequest is the body of POST /api/lightbox/open.
type openRequest struct {
	CardID int `json:"cardId"`
	Index  int `json:"index"`
}

// showRequest is the body of POST /api/lightbox/show.
type showRequest struct {
	Index int `json:"index"`
}

// lightboxResponse pairs the session state with the rendered surface view.
type lightboxResponse struct {
	State lightbox.State `json:"state"`
	View  View           `json:"view"`
}

// OpenLightbox resolves a card's gallery and opens the lightbox on it. A
// card whose gallery resolves empty leaves the lightbox closed.
func (h *Handlers) OpenLightbox(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	card, ok := h.findCard(req.CardID)
	if !ok {
		writeJSONError(w, "card not found", http.StatusNotFound)
		return
	}

	resolved := h.resolver.Resolve(r.Context(), card.CardMetadata)
	if err := h.controller.OpenWith(r.Context(), resolved, req.Index); err != nil {
		if errors.Is(err, lightbox.ErrEmptyGallery) {
			writeJSONError(w, "gallery is empty", http.StatusConflict)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeLightbox(w)
}

// ShowLightbox jumps to an arbitrary index. Out-of-range indices wrap.
func (h *Handlers) ShowLightbox(w http.ResponseWriter, r *http.Request) {
	var req showRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.navigate(w, func() error {
		return h.controller.Show(r.Context(), req.Index)
	})
}

// NextLightbox advances one position, wrapping at the end.
func (h *Handlers) NextLightbox(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, func() error {
		return h.controller.Next(r.Context())
	})
}

// PrevLightbox steps back one position, wrapping at the start.
func (h *Handlers) PrevLightbox(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, func() error {
		return h.controller.Prev(r.Context())
	})
}

// CloseLightbox closes the session. Closing an already-closed lightbox is a
// no-op, not an error.
func (h *Handlers) CloseLightbox(w http.ResponseWriter, _ *http.Request) {
	h.controller.Close()
	h.writeLightbox(w)
}

// GetLightbox returns the current session state and rendered view.
func (h *Handlers) GetLightbox(w http.ResponseWriter, _ *http.Request) {
	h.writeLightbox(w)
}

func (h *Handlers) navigate(w http.ResponseWriter, op func() error) {
	if err := op(); err != nil {
		if errors.Is(err, lightbox.ErrClosed) {
			writeJSONError(w, "lightbox is not open", http.StatusConflict)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeLightbox(w)
}

func (h *Handlers) writeLightbox(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, lightboxResponse{
		State: h.controller.Snapshot(),
		View:  h.surface.View(),
	})
}
