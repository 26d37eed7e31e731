// Package workers sizes worker pools for concurrent probe fan-out.
//
// Counts are derived from runtime.GOMAXPROCS(0) rather than
// runtime.NumCPU(), so container CPU limits are respected on Go 1.19+.
// The PROBE_WORKERS environment variable overrides the calculation.
package workers
