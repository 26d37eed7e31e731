// Package metrics defines the Prometheus metrics exported by the service:
// HTTP request metrics, asset probe counts and latencies, gallery resolution
// outcomes, lightbox session activity and thumbnail cache effectiveness.
package metrics
