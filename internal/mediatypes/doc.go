// Package mediatypes defines the media item types shared by the gallery
// resolver and the lightbox, plus YouTube identifier handling.
//
// A gallery is an ordered sequence of items. Images carry a single URL;
// videos carry a platform identifier and a poster URL and only ever appear
// as the trailing item of a gallery.
package mediatypes
