package resolve

import "ferro/internal/diag"

// PathSourceKind records the syntactic position a path was resolved in.
type PathSourceKind uint8

const (
	// PathSourceType is a path in type position.
	PathSourceType PathSourceKind = iota
	// PathSourceTrait is a path used as a trait reference or bound.
	PathSourceTrait
	// PathSourceExpr is a path in expression position.
	PathSourceExpr
	// PathSourcePat is a path pattern.
	PathSourcePat
	// PathSourceStruct is the type path of a struct literal.
	PathSourceStruct
	// PathSourceTupleStruct is the callee of a tuple struct or variant
	// pattern/expression.
	PathSourceTupleStruct
)

// PathSource pairs the syntactic position with the enclosing expression,
// when there is one. Parent is only populated for PathSourceExpr.
type PathSource struct {
	Kind   PathSourceKind
	Parent *Expr
}

// Namespace returns the namespace the position resolves in.
func (p PathSource) Namespace() Namespace {
	switch p.Kind {
	case PathSourceType, PathSourceTrait, PathSourceStruct:
		return NSType
	default:
		return NSValue
	}
}

// DescrExpected names the kind of definition the position expects. Used
// verbatim in "expected X, found Y" messages.
func (p PathSource) DescrExpected() string {
	switch p.Kind {
	case PathSourceType:
		return "type"
	case PathSourceTrait:
		return "trait"
	case PathSourceExpr:
		return "value"
	case PathSourcePat:
		return "unit struct, unit variant or constant"
	case PathSourceStruct:
		return "struct, variant or union type"
	case PathSourceTupleStruct:
		return "tuple struct or tuple variant"
	}
	return "item"
}

// IsExpected reports whether a resolution satisfies the position. The same
// predicate doubles as the candidate filter for typo and import lookups.
func (p PathSource) IsExpected(r Res) bool {
	switch p.Kind {
	case PathSourceType:
		switch r.Kind {
		case DefStruct, DefUnion, DefEnum, DefTrait,
			DefTyAlias, DefAssocTy, DefPrim, DefSelfTy:
			return true
		}
	case PathSourceTrait:
		return r.Kind == DefTrait
	case PathSourceExpr:
		switch r.Kind {
		case DefFn, DefAssocFn, DefConst, DefAssocConst, DefLocal, DefSelfCtor:
			return true
		case DefCtor:
			return r.Ctor == CtorFn || r.Ctor == CtorConst
		}
	case PathSourcePat:
		switch r.Kind {
		case DefConst, DefAssocConst, DefSelfCtor:
			return true
		case DefCtor:
			return r.Ctor == CtorConst
		}
	case PathSourceStruct:
		switch r.Kind {
		case DefStruct, DefUnion, DefVariant, DefTyAlias, DefAssocTy, DefSelfTy:
			return true
		}
	case PathSourceTupleStruct:
		switch r.Kind {
		case DefSelfCtor:
			return true
		case DefCtor:
			return r.Ctor == CtorFn
		}
	}
	return false
}

// ErrorCode picks the diagnostic code for the position, depending on whether
// the path resolved to the wrong kind of definition or not at all.
func (p PathSource) ErrorCode(resolved bool) diag.Code {
	if resolved {
		switch p.Kind {
		case PathSourceType:
			return diag.ResExpectedType
		case PathSourceTrait:
			return diag.ResExpectedTrait
		case PathSourceExpr:
			return diag.ResExpectedValue
		case PathSourcePat:
			return diag.ResExpectedPattern
		case PathSourceStruct:
			return diag.ResExpectedStruct
		case PathSourceTupleStruct:
			return diag.ResExpectedTupleStruct
		}
		return diag.ResInfo
	}
	switch p.Kind {
	case PathSourceType:
		return diag.ResUnresolvedType
	case PathSourceTrait:
		return diag.ResUnresolvedTrait
	case PathSourceExpr:
		return diag.ResUnresolvedValue
	case PathSourcePat:
		return diag.ResUnresolvedPattern
	case PathSourceStruct:
		return diag.ResUnresolvedStruct
	case PathSourceTupleStruct:
		return diag.ResUnresolvedTupleStruct
	}
	return diag.ResInfo
}
