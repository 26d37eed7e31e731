package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"gallery-viewer/internal/logging"
)

// DefaultRatio is the share of the container memory limit given to the Go
// heap. The rest covers image decode buffers and goroutine stacks.
const DefaultRatio = 0.85

// Result describes how the heap limit was configured.
type Result struct {
	Configured bool
	Source     string // "GOMEMLIMIT", "MEMORY_LIMIT", or "none"
	Limit      int64
	Ratio      float64
}

// Configure sets GOMEMLIMIT from the environment. Call early in main,
// before significant allocations.
//
// GOMEMLIMIT takes precedence when set. Otherwise MEMORY_LIMIT (the
// container limit in bytes, e.g. from the Kubernetes Downward API) scaled
// by MEMORY_RATIO is applied.
func Configure() Result {
	result := Result{}

	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.Source = "GOMEMLIMIT"
			result.Limit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return result
	}

	limitStr := os.Getenv("MEMORY_LIMIT")
	if limitStr == "" {
		logging.Debug("MEMORY_LIMIT not set, leaving GOMEMLIMIT unconfigured")
		result.Source = "none"
		return result
	}

	containerLimit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		logging.Warn("Failed to parse MEMORY_LIMIT %q: %v", limitStr, err)
		result.Source = "none"
		return result
	}

	ratio := DefaultRatio
	if ratioStr := os.Getenv("MEMORY_RATIO"); ratioStr != "" {
		parsed, err := strconv.ParseFloat(ratioStr, 64)
		switch {
		case err != nil:
			logging.Warn("Failed to parse MEMORY_RATIO %q: %v, using default %.2f", ratioStr, err, DefaultRatio)
		case parsed <= 0 || parsed > 1.0:
			logging.Warn("MEMORY_RATIO %q out of range (0.0-1.0], using default %.2f", ratioStr, DefaultRatio)
		default:
			ratio = parsed
		}
	}

	limit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(limit)

	result.Configured = true
	result.Source = "MEMORY_LIMIT"
	result.Limit = limit
	result.Ratio = ratio

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		formatBytes(limit), ratio*100, formatBytes(containerLimit))

	return result
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
