package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns a worker count for a task type, based on GOMAXPROCS so that
// container CPU limits are respected (Go 1.19+).
//
// The multiplier adjusts for task characteristics: 1.0 for CPU-bound work,
// 2.0 for I/O-bound work. The limit caps the result; use 0 for no cap.
//
// PROBE_WORKERS overrides the calculation entirely.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("PROBE_WORKERS"); override != "" {
		if n, err := strconv.Atoi(override); err == nil && n > 0 {
			if limit > 0 && n > limit {
				return limit
			}
			return n
		}
	}

	available := runtime.GOMAXPROCS(0)

	n := int(float64(available) * multiplier)
	if n < 1 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// ForCPU returns a worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns a worker count for I/O-bound tasks (2 per CPU). Probe
// fan-out is I/O-bound: workers spend nearly all their time waiting on the
// asset server.
func ForIO(limit int) int {
	return Count(2.0, limit)
}
