// Package candidates generates candidate asset URLs from a declarative
// numbered-sequence pattern.
//
// A slot is one logical position in the sequence; its candidates are the
// concrete URL guesses for that slot, one per extension in priority order.
// Expansion is pure: which candidate actually exists is decided elsewhere
// by probing.
package candidates
