package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
			setEnv:       false,
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
		setEnv       bool
	}{
		{name: "unset returns default", defaultValue: true, want: true},
		{name: "true", envValue: "true", want: true, setEnv: true},
		{name: "false", envValue: "false", defaultValue: true, want: false, setEnv: true},
		{name: "numeric one", envValue: "1", want: true, setEnv: true},
		{name: "garbage returns default", envValue: "yes please", defaultValue: true, want: true, setEnv: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.setEnv {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvBool(key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool(%q) = %v, want %v", tt.envValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT_VAR", "2.5")
	if got := getEnvFloat("TEST_FLOAT_VAR", 0); got != 2.5 {
		t.Errorf("getEnvFloat = %v, want 2.5", got)
	}

	t.Setenv("TEST_FLOAT_VAR", "fast")
	if got := getEnvFloat("TEST_FLOAT_VAR", 1.5); got != 1.5 {
		t.Errorf("getEnvFloat with invalid value = %v, want default 1.5", got)
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/api/cards", want: "api/cards"},
		{path: "/api/cards/{id}/gallery", want: "api/cards"},
		{path: "/api/lightbox/next", want: "api/lightbox"},
		{path: "/healthz", want: "healthz"},
		{path: "/", want: ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	staticDir := t.TempDir()
	cacheDir := t.TempDir()

	t.Setenv("STATIC_DIR", staticDir)
	t.Setenv("CACHE_DIR", cacheDir)
	t.Setenv("PAGE_FILE", "")
	t.Setenv("MAPPING_FILE", "")
	t.Setenv("ASSET_BASE_URL", "https://cdn.example.com/")
	t.Setenv("PORT", "9000")
	t.Setenv("PROBE_TIMEOUT", "2s")
	t.Setenv("PROBE_RATE", "10")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Port != "9000" {
		t.Errorf("Port = %q, want 9000", config.Port)
	}
	if config.ProbeTimeout != 2*time.Second {
		t.Errorf("ProbeTimeout = %v, want 2s", config.ProbeTimeout)
	}
	if config.ProbeRate != 10 {
		t.Errorf("ProbeRate = %v, want 10", config.ProbeRate)
	}
	if config.AssetBaseURL != "https://cdn.example.com" {
		t.Errorf("AssetBaseURL = %q, want trailing slash trimmed", config.AssetBaseURL)
	}
	if want := filepath.Join(staticDir, "index.html"); config.PageFile != want {
		t.Errorf("PageFile = %q, want %q", config.PageFile, want)
	}
	if want := filepath.Join(cacheDir, "thumbnails"); config.ThumbnailDir != want {
		t.Errorf("ThumbnailDir = %q, want %q", config.ThumbnailDir, want)
	}
	if !config.ThumbnailsEnabled {
		t.Error("ThumbnailsEnabled = false for a writable cache dir")
	}
}

func TestLoadConfigInvalidDurations(t *testing.T) {
	t.Setenv("STATIC_DIR", t.TempDir())
	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("PROBE_TIMEOUT", "soonish")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.ProbeTimeout != 5*time.Second {
		t.Errorf("ProbeTimeout = %v, want 5s default", config.ProbeTimeout)
	}
}
