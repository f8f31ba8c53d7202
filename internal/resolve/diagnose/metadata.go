package diagnose

import (
	"ferro/internal/resolve"
	"ferro/internal/source"
)

// ItemKind is the coarse kind of the item the resolver is currently inside.
type ItemKind uint8

const (
	ItemOther ItemKind = iota
	ItemFn
	ItemStruct
	ItemUnion
	ItemEnum
	ItemTrait
	ItemTyAlias
)

// ItemInfo describes the enclosing item for type-parameter suggestions.
type ItemInfo struct {
	Name     string
	Kind     ItemKind
	Generics *resolve.GenericsInfo
}

// FunctionInfo describes the enclosing function for `self` guidance.
type FunctionInfo struct {
	Span         source.Span
	HasSelfParam bool
}

// SelfTypeInfo identifies the current `Self` type when it is a plain
// (possibly referenced) path to a struct or union.
type SelfTypeInfo struct {
	Def  resolve.DefID
	Kind resolve.DefKind
}

// LetBinding records the let statement currently being resolved, if any.
// TypeSpan and InitSpan are nil when the binding has no annotation or no
// initializer.
type LetBinding struct {
	PatSpan  source.Span
	TypeSpan *source.Span
	InitSpan *source.Span
}

// Metadata is the per-traversal state the resolver carries while walking a
// function body. The engine consumes it; it never mutates it.
type Metadata struct {
	CurrentFunction *FunctionInfo
	CurrentSelfType *SelfTypeInfo
	// CurrentTraitAssocTypes are the associated type names declared by the
	// trait currently being resolved.
	CurrentTraitAssocTypes []string
	// CurrentTraitModule holds the trait's members when resolving inside a
	// trait impl or definition.
	CurrentTraitModule *resolve.Module
	CurrentItem        *ItemInfo
	// CurrentlyProcessingGenerics is set while the resolver walks a where
	// clause or bound position.
	CurrentlyProcessingGenerics bool
	// CurrentTypeAscription stacks the colon spans of type ascriptions the
	// resolver has entered, innermost last.
	CurrentTypeAscription []source.Span
	CurrentLetBinding     *LetBinding
	// SelfTypeAvailable and SelfValueAvailable report whether `Self` and
	// `self` resolve at the failing path's position.
	SelfTypeAvailable  bool
	SelfValueAvailable bool
}
