package resolve

// DefID identifies a definition inside a resolver snapshot.
type DefID uint32

// NoDefID marks resolutions that carry no definition (locals, primitives,
// unresolved paths).
const NoDefID DefID = 0

// DefKind classifies what a path resolved to.
type DefKind uint8

const (
	DefInvalid DefKind = iota
	DefMod
	DefStruct
	DefUnion
	DefEnum
	DefVariant
	DefTrait
	DefTyAlias
	DefAssocTy
	DefPrim
	DefFn
	DefAssocFn
	DefConst
	DefAssocConst
	DefCtor
	DefLocal
	DefSelfTy
	DefSelfCtor
	DefMacro
	DefLabel
)

// CtorKind refines DefCtor and DefSelfCtor resolutions.
type CtorKind uint8

const (
	// CtorFn is a tuple constructor callable as a function.
	CtorFn CtorKind = iota
	// CtorConst is a unit constructor usable as a value directly.
	CtorConst
	// CtorFictive stands in for braced types that have no real constructor.
	CtorFictive
)

// Res is the outcome of resolving a path. A zero Res means the path did not
// resolve at all.
type Res struct {
	Kind DefKind
	Def  DefID
	// Ctor is meaningful only when Kind is DefCtor or DefSelfCtor.
	Ctor CtorKind
}

func (r Res) IsUnresolved() bool { return r.Kind == DefInvalid }

// Descr returns the human-readable noun used in diagnostic messages.
func (r Res) Descr() string {
	switch r.Kind {
	case DefMod:
		return "module"
	case DefStruct:
		return "struct"
	case DefUnion:
		return "union"
	case DefEnum:
		return "enum"
	case DefVariant:
		return "variant"
	case DefTrait:
		return "trait"
	case DefTyAlias:
		return "type alias"
	case DefAssocTy:
		return "associated type"
	case DefPrim:
		return "primitive type"
	case DefFn:
		return "function"
	case DefAssocFn:
		return "associated function"
	case DefConst:
		return "constant"
	case DefAssocConst:
		return "associated constant"
	case DefCtor:
		if r.Ctor == CtorFn {
			return "tuple constructor"
		}
		return "constructor"
	case DefLocal:
		return "local variable"
	case DefSelfTy:
		return "self type"
	case DefSelfCtor:
		return "self constructor"
	case DefMacro:
		return "macro"
	case DefLabel:
		return "label"
	}
	return "unresolved item"
}
