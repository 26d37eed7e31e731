package handlers

import (
	"sync"

	"gallery-viewer/internal/lightbox"
)

// Media pane kinds mirrored into View.MediaKind.
const (
	mediaImage = "image"
	mediaVideo = "video"
)

// View is the rendered lightbox surface as the browser should display it.
// Clients fetch it from GET /api/lightbox and mirror it into the DOM.
type View struct {
	Open        bool                  `json:"open"`
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description,omitempty"`
	Thumbnails  []lightbox.Thumbnail  `json:"thumbnails,omitempty"`
	MediaKind   string                `json:"mediaKind,omitempty"`
	MediaURL    string                `json:"mediaUrl,omitempty"`
	MediaAlt    string                `json:"mediaAlt,omitempty"`
	Current     int                   `json:"current"`
	Total       int                   `json:"total"`
	ActiveIndex int                   `json:"activeIndex"`
	ScrollLock  bool                  `json:"scrollLock"`
}

// Surface is the server-side lightbox.Renderer. It keeps the last rendered
// view under a mutex; render calls arrive from the controller on arbitrary
// goroutines.
type Surface struct {
	mu   sync.Mutex
	view View
}

func NewSurface() *Surface {
	return &Surface{}
}

// View returns a copy of the current rendered view.
func (s *Surface) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.view
	view.Thumbnails = append([]lightbox.Thumbnail(nil), s.view.Thumbnails...)
	return view
}

func (s *Surface) OpenGallery(title, description string, thumbs []lightbox.Thumbnail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = View{
		Open:        true,
		Title:       title,
		Description: description,
		Thumbnails:  append([]lightbox.Thumbnail(nil), thumbs...),
		ScrollLock:  true,
	}
}

func (s *Surface) ShowImage(url, alt string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.MediaKind = mediaImage
	s.view.MediaURL = url
	s.view.MediaAlt = alt
}

func (s *Surface) ShowVideo(embedURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.MediaKind = mediaVideo
	s.view.MediaURL = embedURL
	s.view.MediaAlt = ""
}

func (s *Surface) SetCounter(current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Current = current
	s.view.Total = total
}

func (s *Surface) MarkActive(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.ActiveIndex = index
}

func (s *Surface) AppendThumbnail(t lightbox.Thumbnail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Thumbnails = append(s.view.Thumbnails, t)
}

// Close clears the whole view. Dropping the media pane stops any embedded
// playback on the client; the scroll lock is released with it.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = View{}
}
