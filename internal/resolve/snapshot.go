package resolve

import (
	"sort"

	"ferro/internal/source"
)

// Features records the language feature switches the diagnosis engine
// consults before proposing gated syntax.
type Features struct {
	TraitAlias      bool
	InBandLifetimes bool
}

// CtorInfo describes a struct's constructor for the accessibility check in
// struct-literal help.
type CtorInfo struct {
	Res      Res
	Vis      Visibility
	External bool
}

// Snapshot is the read-only view of the resolver's world that the diagnosis
// engine works against. The resolver populates it once per crate; the engine
// never mutates it.
type Snapshot struct {
	// Root is the crate root module.
	Root *Module
	// Prelude is the module whose children are implicitly in scope, or nil.
	Prelude *Module
	// ExternPrelude maps crate names visible at the root to their root
	// modules.
	ExternPrelude map[string]*Module
	// Primitives are the built-in type names, e.g. "u32".
	Primitives []string

	// StructCtors maps a struct definition to its constructor, when it has
	// one. Structs with named fields have no entry.
	StructCtors map[DefID]CtorInfo
	// FieldNames maps struct and union definitions to their field names in
	// declaration order.
	FieldNames map[DefID][]string
	// HasSelf marks associated functions that declare a receiver.
	HasSelf map[DefID]bool
	// DefSpans maps definitions to their declaration spans for "defined
	// here" notes.
	DefSpans map[DefID]source.Span
	// FnTraits marks the callable traits whose bounds admit a
	// lifetime-generic binder.
	FnTraits map[DefID]bool

	// Nightly enables suggestions that mention feature gates.
	Nightly  bool
	Features Features
}

// IsAccessibleFrom reports whether a definition with the given visibility
// can be named from the failing path's position. Everything defined in the
// current crate is; external definitions must be public.
func (s *Snapshot) IsAccessibleFrom(vis Visibility, external bool) bool {
	return vis == VisPublic || !external
}

// ExternPreludeNames returns the extern prelude crate names in sorted order.
func (s *Snapshot) ExternPreludeNames() []string {
	names := make([]string, 0, len(s.ExternPrelude))
	for name := range s.ExternPrelude {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePathPrefix resolves a path prefix to a module, starting from the
// crate root or the extern prelude. It returns the module, the resolution of
// the final segment, and whether resolution succeeded. Used to phrase
// "cannot find X in module `a::b`" and to scope multi-segment typo lookups.
func (s *Snapshot) ResolvePathPrefix(segs []Segment) (*Module, Res, bool) {
	if len(segs) == 0 || s.Root == nil {
		return nil, Res{}, false
	}
	cur := s.Root
	curRes := s.Root.OwnRes()
	start := 0
	if segs[0].Name == "crate" {
		start = 1
	}
	for i := start; i < len(segs); i++ {
		b := cur.Child(segs[i].Name, NSType)
		if b == nil {
			if i == start && !cur.NoImplicitPrelude {
				if m, ok := s.ExternPrelude[segs[i].Name]; ok {
					cur, curRes = m, m.OwnRes()
					continue
				}
			}
			return nil, Res{}, false
		}
		if b.Module == nil {
			return nil, Res{}, false
		}
		cur, curRes = b.Module, b.Res
	}
	return cur, curRes, true
}
