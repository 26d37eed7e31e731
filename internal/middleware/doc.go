// Package middleware provides the HTTP middleware chain: access logging
// with static-file and health-check suppression, and Prometheus request
// metrics with bounded label cardinality.
package middleware
