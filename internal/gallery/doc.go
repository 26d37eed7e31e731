// Package gallery resolves a project card's declarative metadata into the
// ordered media list its lightbox gallery will display.
//
// Four sources are tried in strict priority order: an explicit image list,
// a declared numbered-sequence pattern, the manual mapping table, and the
// standard folder convention. The first source that yields at least one
// item wins. A video URL on the card appends one trailing video item.
//
// Resolution is deliberately forgiving: malformed metadata falls through
// to the next source, a missing video identifier omits the video, and a
// card no source applies to resolves to an empty gallery rather than an
// error.
package gallery
