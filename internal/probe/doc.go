// Package probe tests whether candidate asset URLs resolve to loadable
// images.
//
// The asset tree exposes no directory listing, so gallery contents are
// discovered by requesting candidate URLs and checking that the response
// decodes as an image. A miss is a normal outcome, never an error, and a
// single miss is conclusive for the lifetime of the process.
//
// FirstExisting races mutually-exclusive candidates for one slot
// sequentially, short-circuiting on the first hit. AllExisting probes
// independent slots concurrently and reassembles results in input order.
// Identical concurrent probes are collapsed, and an optional rate limit
// keeps the fan-out polite towards the asset server.
package probe
