// Package lightbox implements the modal gallery state machine: open,
// navigate with wraparound, close.
//
// The controller owns the single live session. While browsing a gallery
// that was resolved by folder convention, reaching the end of the list
// triggers lazy expansion: the next slot's candidates are probed in the
// background and, on a hit, the list grows by one item. The list only ever
// grows while a session is open, and a trailing video item is always last.
//
// Rendering goes through the Renderer interface; the controller never
// touches the presentation surface directly.
package lightbox
