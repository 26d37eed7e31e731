// Package handlers implements the HTTP API: card listing, gallery
// resolution, the lightbox session endpoints, the thumbnail proxy and the
// health and version endpoints. It also hosts the server-side Surface that
// the lightbox controller renders into.
package handlers
