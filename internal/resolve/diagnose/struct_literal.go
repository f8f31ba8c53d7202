package diagnose

import (
	"fmt"
	"strings"

	"ferro/internal/diag"
	"ferro/internal/fix"
	"ferro/internal/resolve"
	"ferro/internal/source"
)

// followedByBrace reports whether the next non-whitespace character after
// span is `{`. When it is, the second span covers the path through the first
// `}` found within braceLookaheadLimit characters, for wrapping the whole
// literal in parentheses.
func (e *Engine) followedByBrace(span source.Span) (followed bool, closing source.Span, hasClosing bool) {
	sp := span
	for {
		sp = e.files.NextPoint(sp)
		snippet, ok := e.files.Snippet(sp)
		if !ok || strings.TrimSpace(snippet) != "" {
			break
		}
	}
	snippet, ok := e.files.Snippet(sp)
	if !ok || snippet != "{" {
		return false, source.Span{}, false
	}

	cur := sp
	for i := 0; i < braceLookaheadLimit; i++ {
		cur = e.files.NextPoint(cur)
		s, ok := e.files.Snippet(cur)
		if !ok {
			break
		}
		if s == "}" {
			return true, span.To(cur), true
		}
	}
	return true, source.Span{}, false
}

// badStructSyntax handles braced types used as values, e.g. a struct name
// in call position or a struct literal inside an expression that cannot
// hold one.
func (e *Engine) badStructSyntax(d *diag.Diagnostic, req Request, def resolve.DefID, pathStr string) {
	suggested := false
	switch {
	case req.Source.Kind == resolve.PathSourceExpr && req.Source.Parent != nil:
		suggested = e.pathSepSuggestion(d, req.Source.Parent, pathStr)
	case req.Source.Kind == resolve.PathSourceExpr:
		followed, closing, hasClosing := e.followedByBrace(req.Span)
		if followed {
			if hasClosing {
				d.Fixes = append(d.Fixes, fix.WrapWith(
					"surround the struct literal with parentheses",
					closing, "(", ")",
				))
			} else {
				*d = d.WithNote(req.Span, fmt.Sprintf(
					"you might want to surround a struct literal with parentheses: `(%s { /* fields */ })`?", pathStr))
			}
			suggested = true
		}
	}
	if !suggested {
		if defSpan, ok := e.snap.DefSpans[def]; ok {
			*d = d.WithNote(defSpan, fmt.Sprintf("`%s` defined here", pathStr))
		}
		*d = d.WithNote(req.Span, fmt.Sprintf("did you mean `%s { /* fields */ }`?", pathStr))
	}
}
