package diagnose

import (
	"unicode"
	"unicode/utf8"

	"ferro/internal/resolve"
	"ferro/internal/source"
)

// missingTypeParam decides whether an unresolved single-segment type name
// looks like a missing generic parameter and, if so, where to declare it.
// The heuristic fires for single uppercase letters on type-shaped items, or
// for any name while the resolver is inside a generic bound. `fn main` never
// gets the suggestion.
func (e *Engine) missingTypeParam(path []resolve.Segment) (source.Span, string, string, bool) {
	if len(path) != 1 || path[0].HasGenericArgs {
		return source.Span{}, "", "", false
	}
	ident := path[0].Name
	r, size := utf8.DecodeRuneInString(ident)
	singleUpper := size == len(ident) && unicode.IsUpper(r)
	if !singleUpper && !e.meta.CurrentlyProcessingGenerics {
		return source.Span{}, "", "", false
	}

	item := e.meta.CurrentItem
	if item == nil || item.Generics == nil {
		return source.Span{}, "", "", false
	}
	if item.Kind == ItemFn && item.Name == "main" {
		return source.Span{}, "", "", false
	}
	if singleUpper && !e.meta.CurrentlyProcessingGenerics {
		switch item.Kind {
		case ItemFn, ItemEnum, ItemStruct, ItemUnion:
		default:
			return source.Span{}, "", "", false
		}
	}
	// A name that is itself part of the parameter list is not missing.
	if path[0].Span.Overlaps(item.Generics.Span) {
		return source.Span{}, "", "", false
	}

	msg := "you might be missing a type parameter"
	var at source.Span
	var sugg string
	if len(item.Generics.Params) > 0 {
		last := item.Generics.Params[len(item.Generics.Params)-1]
		at = last.Span
		if n := len(last.BoundSpans); n > 0 {
			at = last.BoundSpans[n-1]
		}
		at = at.ShrinkToHi()
		sugg = ", " + ident
	} else {
		at = item.Generics.Span.ShrinkToHi()
		sugg = "<" + ident + ">"
	}
	if e.files.IsSynthetic(at) {
		return source.Span{}, "", "", false
	}
	return at, msg, sugg, true
}
