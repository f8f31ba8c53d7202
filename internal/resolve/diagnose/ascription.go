package diagnose

import (
	"strings"

	"ferro/internal/diag"
	"ferro/internal/fix"
	"ferro/internal/source"
)

// typeAscriptionSuggestion recovers from type ascriptions that were almost
// certainly meant to be something else. Starting at the recorded colon it
// scans forward over whitespace; once the colon is confirmed it proposes
// `;` for a statement split on another line, `::` for a mistyped path
// separator, or `let` when an `=` follows on the same line. When none of
// those hold, a plain "expecting a type here" label explains the position.
func (e *Engine) typeAscriptionSuggestion(d *diag.Diagnostic, baseSpan source.Span) {
	asc := e.meta.CurrentTypeAscription
	if len(asc) == 0 {
		return
	}
	sp := asc[len(asc)-1]
	baseSnippet, baseOk := e.files.Snippet(baseSpan)

	for {
		sp = e.files.NextPoint(sp)
		snippet, ok := e.files.Snippet(sp)
		if !ok {
			return
		}
		if snippet == ":" {
			break
		}
		if strings.TrimSpace(snippet) != "" {
			return
		}
	}

	showLabel := true
	if e.files.LineOf(sp.File, sp.Start) != e.files.LineOf(baseSpan.File, baseSpan.Start) {
		d.Fixes = append(d.Fixes, fix.ReplaceSpan(
			"did you mean to use `;` here instead?",
			sp, ";", ":",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
		*d = d.WithNote(baseSpan, "expecting a type here because of type ascription")
		return
	}

	afterColon := e.files.NextPoint(sp)
	if s, ok := e.files.Snippet(afterColon); !ok || s != " " {
		d.Fixes = append(d.Fixes, fix.ReplaceSpan(
			"maybe you meant to write a path separator here",
			sp, "::", ":",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
		showLabel = false
	}
	if baseOk {
		cur := afterColon
		for i := 0; i < assignScanLimit; i++ {
			s, ok := e.files.Snippet(cur)
			if !ok || s == "\n" {
				break
			}
			if s == "=" {
				d.Fixes = append(d.Fixes, fix.ReplaceSpan(
					"maybe you meant to write an assignment here",
					baseSpan, "let "+baseSnippet, "",
					fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
				))
				showLabel = false
				break
			}
			cur = e.files.NextPoint(cur)
		}
	}
	if showLabel {
		*d = d.WithNote(baseSpan, "expecting a type here because of type ascription")
	}
}
