// Package memory configures the Go heap limit for containerized
// deployments. Image decoding during probes and thumbnail generation is
// the main allocation source; capping the heap below the container limit
// keeps the process from being OOM-killed under load.
package memory
