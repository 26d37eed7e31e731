// Package thumbs generates downscaled thumbnails for the card grid and the
// lightbox thumbnail strip, fetching sources from the asset tree and
// caching the results on disk.
package thumbs
