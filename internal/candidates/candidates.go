package candidates

import (
	"fmt"
	"strings"
)

// Pattern describes a numbered file sequence convention. It is purely
// descriptive; expansion produces candidate URLs without any I/O.
type Pattern struct {
	BasePath       string   `json:"basePath"`
	FilenamePrefix string   `json:"filenamePrefix"`
	IndexPad       int      `json:"indexPad"`
	StartIndex     int      `json:"startIndex"`
	Extensions     []string `json:"extensions"`
	MaxCount       int      `json:"maxCount"`
}

// Valid reports whether the pattern carries the fields expansion requires.
// An invalid pattern is treated as "no pattern" by the resolver.
func (p Pattern) Valid() bool {
	return p.BasePath != "" && len(p.Extensions) > 0 && p.MaxCount > 0
}

// Expand produces the ordered candidate URLs for one slot. The slot is a
// 0-based offset from StartIndex; each extension is tried in priority order.
// An IndexPad of 0 renders the slot number unpadded.
func Expand(p Pattern, slot int) []string {
	number := p.StartIndex + slot

	var rendered string
	if p.IndexPad > 0 {
		rendered = fmt.Sprintf("%0*d", p.IndexPad, number)
	} else {
		rendered = fmt.Sprintf("%d", number)
	}

	base := strings.TrimSuffix(p.BasePath, "/")
	urls := make([]string, 0, len(p.Extensions))
	for _, ext := range p.Extensions {
		urls = append(urls, base+"/"+p.FilenamePrefix+rendered+"."+ext)
	}
	return urls
}

// ExpandAll produces one candidate list per slot from 0 to count-1. Used for
// bulk initial resolution; Expand alone serves single-slot lazy growth.
func ExpandAll(p Pattern, count int) [][]string {
	slots := make([][]string, 0, count)
	for slot := 0; slot < count; slot++ {
		slots = append(slots, Expand(p, slot))
	}
	return slots
}
