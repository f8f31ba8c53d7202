package resolve

// RibKind describes why a rib exists. The diagnosis engine uses it to decide
// where module candidates and prelude names become visible, and where label
// lookups must stop.
type RibKind uint8

const (
	// RibNormal is a plain lexical scope (block, match arm, loop body).
	RibNormal RibKind = iota
	// RibModule carries a module's own names. Rib.Module is non-nil.
	RibModule
	// RibFnItem marks a function or item boundary. Labels and local
	// variables from outer ribs are not reachable across it.
	RibFnItem
	// RibGenericParam holds type and const parameters of the current item.
	RibGenericParam
	// RibLabel holds loop labels.
	RibLabel
)

// Rib is one layer of the resolver's scope stack. The resolver stores ribs
// outermost-first; consumers walk them in reverse for innermost-out order.
type Rib struct {
	Kind RibKind
	// Module is set for RibModule ribs.
	Module *Module
	// Bindings maps visible names to their resolutions.
	Bindings map[string]Res
}

// NewRib returns an empty rib of the given kind.
func NewRib(kind RibKind) Rib {
	return Rib{Kind: kind, Bindings: make(map[string]Res)}
}

// NewModuleRib returns a module rib bound to m.
func NewModuleRib(m *Module) Rib {
	return Rib{Kind: RibModule, Module: m, Bindings: make(map[string]Res)}
}
