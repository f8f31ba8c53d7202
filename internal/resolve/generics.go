package resolve

import "ferro/internal/source"

// GenericParamKind distinguishes the three parameter flavors.
type GenericParamKind uint8

const (
	GenericParamType GenericParamKind = iota
	GenericParamLifetime
	GenericParamConst
)

// GenericParam is one declared parameter of a generic item.
type GenericParam struct {
	Name string
	Kind GenericParamKind
	Span source.Span
	// Synthetic parameters were introduced by desugaring and have no
	// usable source position for insertions.
	Synthetic bool
	// BoundSpans are the spans of the parameter's declared bounds, in
	// source order.
	BoundSpans []source.Span
}

// GenericsInfo describes an item's generic parameter list. Span covers the
// angle-bracketed list, or the insertion point after the item name when the
// list is empty.
type GenericsInfo struct {
	Span   source.Span
	Params []GenericParam
}

// FirstNonSynthetic returns the first parameter usable as an insertion
// anchor.
func (g *GenericsInfo) FirstNonSynthetic() (GenericParam, bool) {
	for _, p := range g.Params {
		if !p.Synthetic {
			return p, true
		}
	}
	return GenericParam{}, false
}

// TraitRef is a trait bound as written in source, e.g. `Fn(u32) -> bool`.
type TraitRef struct {
	Res  Res
	Span source.Span
	// BoundGenericParams are the binder's `for<...>` parameters, empty
	// when the bound has no binder.
	BoundGenericParams []GenericParam
}
