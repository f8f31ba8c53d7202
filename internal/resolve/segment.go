package resolve

import (
	"strings"

	"ferro/internal/source"
)

// Segment is one component of a source path, e.g. `a` in `a::b::C`.
type Segment struct {
	Name string
	// HasGenericArgs is set when the segment carried explicit generic
	// arguments in source.
	HasGenericArgs bool
	Span           source.Span
}

// NamesToString renders a path the way it appears in diagnostics.
func NamesToString(segs []Segment) string {
	var sb strings.Builder
	for i, s := range segs {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(s.Name)
	}
	return sb.String()
}
