package resolve

import (
	"sort"

	"ferro/internal/source"
)

// Visibility is the declared visibility of a binding.
type Visibility uint8

const (
	VisPublic Visibility = iota
	VisCrate
	VisPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisCrate:
		return "crate"
	case VisPrivate:
		return "private"
	}
	return "unknown"
}

// BindingKey addresses one child of a module. The same name may exist once
// per namespace.
type BindingKey struct {
	Name string
	NS   Namespace
}

// Binding is a name defined in (or re-exported into) a module.
type Binding struct {
	Name string
	NS   Namespace
	Vis  Visibility
	// External is set for bindings that originate in another crate.
	External bool
	Res      Res
	// Module is non-nil when the binding names a module or an enum; it
	// points at the child subtree, which may be shared with re-exports.
	Module *Module
	Span   source.Span
}

// VisibleLocally reports whether suggestion machinery may mention the
// binding. Private items of foreign crates are never suggested.
func (b *Binding) VisibleLocally() bool {
	return !b.External || b.Vis == VisPublic
}

// Module is a node of the definition tree: a source module, a crate root,
// an enum (whose children are its variants), or an anonymous block scope.
type Module struct {
	Name string
	// Kind is DefMod for ordinary modules and DefEnum for enum modules.
	Kind DefKind
	Def  DefID
	// Block marks anonymous block modules, which are transparent to
	// scope-candidate collection.
	Block bool
	// NoImplicitPrelude suppresses prelude and extern-prelude names when
	// candidate collection reaches this module.
	NoImplicitPrelude bool

	children map[BindingKey]*Binding
}

// NewModule returns an empty module tree node.
func NewModule(name string, kind DefKind, def DefID) *Module {
	return &Module{
		Name:     name,
		Kind:     kind,
		Def:      def,
		children: make(map[BindingKey]*Binding),
	}
}

// OwnRes returns the module's resolution as seen by path prefixes.
func (m *Module) OwnRes() Res {
	return Res{Kind: m.Kind, Def: m.Def}
}

// Define inserts or replaces a child binding.
func (m *Module) Define(b *Binding) {
	m.children[BindingKey{Name: b.Name, NS: b.NS}] = b
}

// Child returns the binding for name in the given namespace, or nil.
func (m *Module) Child(name string, ns Namespace) *Binding {
	return m.children[BindingKey{Name: name, NS: ns}]
}

// ForEachChild visits children ordered by (name, namespace) so that every
// traversal over the tree is deterministic.
func (m *Module) ForEachChild(fn func(*Binding)) {
	keys := make([]BindingKey, 0, len(m.children))
	for k := range m.children {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].NS < keys[j].NS
	})
	for _, k := range keys {
		fn(m.children[k])
	}
}
