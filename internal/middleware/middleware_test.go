package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShouldSkip(t *testing.T) {
	config := DefaultLoggingConfig()
	config.LogHealthChecks = false
	config.SkipPaths = []string{"/internal"}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "api path logged", path: "/api/cards", want: false},
		{name: "static image skipped", path: "/work/expo/01.png", want: true},
		{name: "stylesheet skipped", path: "/site.css", want: true},
		{name: "health check skipped when disabled", path: "/healthz", want: true},
		{name: "configured prefix skipped", path: "/internal/debug", want: true},
		{name: "root logged", path: "/", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSkip(tt.path, config); got != tt.want {
				t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestStaticFilesLoggedWhenEnabled(t *testing.T) {
	config := DefaultLoggingConfig()
	config.LogStaticFiles = true
	if shouldSkip("/work/expo/01.png", config) {
		t.Error("static file skipped despite LogStaticFiles=true")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:   "remote addr",
			remote: "10.0.0.1:54321",
			want:   "10.0.0.1",
		},
		{
			name:    "x-forwarded-for first hop",
			remote:  "10.0.0.1:54321",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			want:    "203.0.113.9",
		},
		{
			name:    "x-real-ip",
			remote:  "10.0.0.1:54321",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			want:    "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("GET\n/evil\r\x1b[31m"); got != "GET /evil [31m" {
		t.Errorf("sanitize = %q", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/api/cards", want: "/api/cards"},
		{path: "/api/cards/7/gallery", want: "/api/cards/{id}"},
		{path: "/api/lightbox", want: "/api/lightbox"},
		{path: "/work/expo/01.png", want: "/{static}"},
		{path: "/", want: "/"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK) // second call ignored
	rw.Write([]byte("short and stout")) //nolint:errcheck

	if rw.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusTeapot)
	}
	if rw.bytesWritten != int64(len("short and stout")) {
		t.Errorf("bytesWritten = %d", rw.bytesWritten)
	}
}
