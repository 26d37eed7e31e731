// Package mapping loads the manual gallery mapping table: a hand-authored
// YAML file of gallery key to explicit image URL lists. The resolver
// consults it before falling back to folder-convention probing.
package mapping
