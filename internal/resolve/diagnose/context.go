package diagnose

import (
	"fmt"

	"ferro/internal/diag"
	"ferro/internal/fix"
	"ferro/internal/resolve"
)

// contextDependentHelp dispatches on what the path actually resolved to and
// where it was used, and attaches the most specific recovery it can. It
// returns false when no rule matches, letting the caller fall through to the
// typo engine and fallback label.
func (e *Engine) contextDependentHelp(d *diag.Diagnostic, req Request, pathStr, fallbackLabel string) bool {
	ns := req.Source.Namespace()

	switch {
	case req.Res.Kind == resolve.DefMacro:
		d.Fixes = append(d.Fixes, fix.InsertText(
			fmt.Sprintf("use `!` to invoke the macro `%s`", pathStr),
			req.Span.ShrinkToHi(), "!", "",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
		return true

	case req.Res.Kind == resolve.DefTyAlias && req.Source.Kind == resolve.PathSourceTrait:
		*d = d.WithNote(req.Span, "type aliases cannot be used as traits")
		if e.snap.Nightly {
			*d = d.WithNote(req.Span, "you might have intended to use a trait alias, which requires the `trait_alias` feature")
		}
		return true

	case req.Res.Kind == resolve.DefMod && req.Source.Kind == resolve.PathSourceExpr && req.Source.Parent != nil:
		return e.pathSepSuggestion(d, req.Source.Parent, pathStr)

	case req.Res.Kind == resolve.DefEnum &&
		(req.Source.Kind == resolve.PathSourceTupleStruct || req.Source.Kind == resolve.PathSourceExpr):
		e.enumVariantHelp(d, req, pathStr)
		return true

	case req.Res.Kind == resolve.DefStruct && ns == resolve.NSValue:
		if ctor, ok := e.snap.StructCtors[req.Res.Def]; ok {
			if !e.snap.IsAccessibleFrom(ctor.Vis, ctor.External) {
				*d = d.WithNote(req.Span, "constructor is not visible here due to private fields")
				return true
			}
		}
		e.badStructSyntax(d, req, req.Res.Def, pathStr)
		return true

	case (req.Res.Kind == resolve.DefUnion || req.Res.Kind == resolve.DefVariant ||
		(req.Res.Kind == resolve.DefCtor && req.Res.Ctor == resolve.CtorFictive)) && ns == resolve.NSValue:
		e.badStructSyntax(d, req, req.Res.Def, pathStr)
		return true

	case req.Res.Kind == resolve.DefCtor && req.Res.Ctor == resolve.CtorFn && ns == resolve.NSValue:
		if defSpan, ok := e.snap.DefSpans[req.Res.Def]; ok {
			*d = d.WithNote(defSpan, fmt.Sprintf("`%s` defined here", pathStr))
		}
		*d = d.WithNote(req.Span, fmt.Sprintf("did you mean `%s( /* fields */ )`?", pathStr))
		return true

	case req.Res.Kind == resolve.DefSelfTy && ns == resolve.NSValue:
		*d = d.WithNote(req.Span, fallbackLabel)
		*d = d.WithNote(req.Span, "can't use `Self` as a constructor, you must use the implemented struct")
		return true

	case (req.Res.Kind == resolve.DefTyAlias || req.Res.Kind == resolve.DefAssocTy) && ns == resolve.NSValue:
		*d = d.WithNote(req.Span, "can't use a type alias as a constructor")
		return true
	}
	return false
}

// pathSepSuggestion rewrites `module.member` into `module::member` when the
// failing module path is the receiver of a field access or method call.
func (e *Engine) pathSepSuggestion(d *diag.Diagnostic, parent *resolve.Expr, pathStr string) bool {
	switch parent.Kind {
	case resolve.ExprField:
		d.Fixes = append(d.Fixes, fix.ReplaceSpan(
			"use the path separator to refer to an item",
			parent.Span,
			fmt.Sprintf("%s::%s", pathStr, parent.Member),
			"",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
		return true
	case resolve.ExprMethodCall:
		// Stop at the method name so the argument list survives.
		span := parent.Span
		span.End = parent.MemberSpan.End
		d.Fixes = append(d.Fixes, fix.ReplaceSpan(
			"use the path separator to refer to an item",
			span,
			fmt.Sprintf("%s::%s", pathStr, parent.Member),
			"",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
		return true
	}
	return false
}

// enumVariantHelp lists an enum's variants when the enum itself was used as
// a value. Each rewrite picks one variant for the user, so none of them is
// machine-applicable.
func (e *Engine) enumVariantHelp(d *diag.Diagnostic, req Request, pathStr string) {
	variants, ok := e.collectEnumVariants(req.Res.Def)
	if ok && len(variants) > 0 {
		msg := "try using one of the enum's variants"
		if len(variants) == 1 {
			msg = "try using the enum's variant"
		}
		for _, v := range variants {
			d.Fixes = append(d.Fixes, fix.ReplaceSpan(msg, req.Span, joinPath(v), "",
				fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics)))
		}
		return
	}
	*d = d.WithNote(req.Span, fmt.Sprintf("the enum `%s` cannot be used as a value; its variants can", pathStr))
}

func joinPath(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "::"
		}
		out += s
	}
	return out
}
