package memory

import (
	"math"
	"runtime/debug"
	"testing"
)

func resetLimit(t *testing.T) {
	t.Helper()
	prev := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(prev) })
	debug.SetMemoryLimit(math.MaxInt64)
}

func TestConfigureUnset(t *testing.T) {
	resetLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "")

	result := Configure()
	if result.Configured {
		t.Error("Configured = true with no environment")
	}
	if result.Source != "none" {
		t.Errorf("Source = %q, want none", result.Source)
	}
}

func TestConfigureFromContainerLimit(t *testing.T) {
	resetLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "1073741824") // 1 GiB
	t.Setenv("MEMORY_RATIO", "")

	result := Configure()
	if !result.Configured {
		t.Fatal("Configured = false")
	}
	if result.Source != "MEMORY_LIMIT" {
		t.Errorf("Source = %q", result.Source)
	}

	containerLimit := int64(1073741824)
	want := int64(float64(containerLimit) * DefaultRatio)
	if result.Limit != want {
		t.Errorf("Limit = %d, want %d", result.Limit, want)
	}
	if got := debug.SetMemoryLimit(-1); got != want {
		t.Errorf("effective GOMEMLIMIT = %d, want %d", got, want)
	}
}

func TestConfigureCustomRatio(t *testing.T) {
	resetLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "1000000")
	t.Setenv("MEMORY_RATIO", "0.5")

	result := Configure()
	if result.Limit != 500000 {
		t.Errorf("Limit = %d, want 500000", result.Limit)
	}
}

func TestConfigureBadValues(t *testing.T) {
	resetLimit(t)
	t.Setenv("GOMEMLIMIT", "")

	t.Setenv("MEMORY_LIMIT", "lots")
	if result := Configure(); result.Configured {
		t.Error("Configured = true for unparseable MEMORY_LIMIT")
	}

	t.Setenv("MEMORY_LIMIT", "1000000")
	t.Setenv("MEMORY_RATIO", "7")
	result := Configure()
	if result.Ratio != DefaultRatio {
		t.Errorf("Ratio = %v, want default for out-of-range MEMORY_RATIO", result.Ratio)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{in: 512, want: "512 B"},
		{in: 2048, want: "2.0 KiB"},
		{in: 1073741824, want: "1.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
