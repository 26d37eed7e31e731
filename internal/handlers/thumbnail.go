package handlers

import (
	"net/http"

	"gallery-viewer/internal/logging"
)

// GetThumbnail serves a downscaled JPEG of the image named by ?url=. The
// source must be a relative asset path or an allowed remote host.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("url")
	if src == "" {
		writeJSONError(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	if !h.thumbGen.IsEnabled() {
		writeJSONError(w, "thumbnails disabled", http.StatusNotFound)
		return
	}

	data, err := h.thumbGen.Thumbnail(src)
	if err != nil {
		logging.Debug("thumbnail %s: %v", src, err)
		writeJSONError(w, "thumbnail unavailable", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		logging.Debug("write thumbnail response: %v", err)
	}
}
