package diagnose

import (
	"fmt"

	"ferro/internal/diag"
	"ferro/internal/fix"
	"ferro/internal/resolve"
	"ferro/internal/source"
)

// assocKind classifies what kind of associated item a bare name matched.
type assocKind uint8

const (
	// assocField is a field of the current `Self` type.
	assocField assocKind = iota
	// assocMethodWithSelf is a trait method that declares a receiver.
	assocMethodWithSelf
	// assocItem is any other member of the current trait.
	assocItem
)

// lookupAssocCandidate checks whether a bare unresolved name exists as a
// member of the current `Self` type or trait.
func (e *Engine) lookupAssocCandidate(name string, ns resolve.Namespace, filter func(resolve.Res) bool) (assocKind, bool) {
	// Fields only make sense where a local variable would.
	if filter(resolve.Res{Kind: resolve.DefLocal}) {
		if st := e.meta.CurrentSelfType; st != nil {
			for _, field := range e.snap.FieldNames[st.Def] {
				if field == name {
					return assocField, true
				}
			}
		}
	}

	for _, assocTy := range e.meta.CurrentTraitAssocTypes {
		if assocTy == name {
			return assocItem, true
		}
	}

	if tm := e.meta.CurrentTraitModule; tm != nil {
		if b := tm.Child(name, ns); b != nil && filter(b.Res) {
			if e.snap.HasSelf[b.Res.Def] {
				return assocMethodWithSelf, true
			}
			return assocItem, true
		}
	}
	return 0, false
}

// assocSuggestion attaches the `self.name` / `Self::name` rewrite for a
// name that exists as an associated item.
func (e *Engine) assocSuggestion(d diag.Diagnostic, kind assocKind, pathStr string, span source.Span) diag.Diagnostic {
	switch kind {
	case assocField:
		if e.meta.SelfValueAvailable {
			return d.WithFixSuggestion(fix.ReplaceSpan(
				"you might have meant to use the available field",
				span, fmt.Sprintf("self.%s", pathStr), "",
			))
		}
		return d.WithNote(span, "a field by this name exists in `Self`")
	case assocMethodWithSelf:
		if e.meta.SelfValueAvailable {
			return d.WithFixSuggestion(fix.ReplaceSpan(
				"try",
				span, fmt.Sprintf("self.%s", pathStr), "",
			))
		}
	}
	return d.WithFixSuggestion(fix.ReplaceSpan(
		"try",
		span, fmt.Sprintf("Self::%s", pathStr), "",
	))
}

// callHasSelfArg detects `name(self, ...)` calls, unwrapping reference
// expressions around the first argument. It returns the call span and the
// snippet of the remaining arguments, ready for the `self.name(...)`
// rewrite.
func (e *Engine) callHasSelfArg(src resolve.PathSource) (source.Span, string, bool) {
	if src.Kind != resolve.PathSourceExpr || src.Parent == nil ||
		src.Parent.Kind != resolve.ExprCall || len(src.Parent.Args) == 0 {
		return source.Span{}, "", false
	}
	arg := src.Parent.Args[0]
	for arg != nil {
		if arg.Kind == resolve.ExprPath {
			if len(arg.Path) != 1 || arg.Path[0].Name != "self" {
				return source.Span{}, "", false
			}
			args := ""
			rest := src.Parent.Args[1:]
			if len(rest) > 0 {
				argsSpan := rest[0].Span.Cover(rest[len(rest)-1].Span)
				if snippet, ok := e.files.Snippet(argsSpan); ok {
					args = snippet
				}
			}
			return src.Parent.Span, args, true
		}
		if arg.Kind == resolve.ExprRef {
			arg = arg.Inner
			continue
		}
		return source.Span{}, "", false
	}
	return source.Span{}, "", false
}
