package diagnose

import (
	"fmt"
	"sort"

	"ferro/internal/diag"
	"ferro/internal/fix"
	"ferro/internal/resolve"
	"ferro/internal/source"
)

// LabelSuggestion is a similarly named label found in a label rib.
type LabelSuggestion struct {
	Name string
	Span source.Span
	// WithinScope is false when a function or closure boundary sits
	// between the rib and the failing use.
	WithinScope bool
}

// SuggestionForLabelInRib looks for a label similar to name in one rib of
// the label stack.
func (e *Engine) SuggestionForLabelInRib(ribIndex int, name string) (LabelSuggestion, bool) {
	if ribIndex < 0 || ribIndex >= len(e.labelRibs) {
		return LabelSuggestion{}, false
	}
	rib := e.labelRibs[ribIndex]
	names := make([]string, 0, len(rib.Bindings))
	for n := range rib.Bindings {
		names = append(names, n)
	}
	sort.Strings(names)

	best, ok := findBestMatch(names, name)
	if !ok || best == name {
		return LabelSuggestion{}, false
	}
	sugg := LabelSuggestion{Name: best, WithinScope: e.labelReachableFrom(ribIndex)}
	if sp, ok := e.snap.DefSpans[rib.Bindings[best].Def]; ok {
		sugg.Span = sp
	}
	return sugg, true
}

// labelReachableFrom reports whether labels in rib i are usable at the
// innermost position. Any item boundary above the rib cuts them off.
func (e *Engine) labelReachableFrom(i int) bool {
	for _, rib := range e.labelRibs[i+1:] {
		if rib.Kind == resolve.RibFnItem {
			return false
		}
	}
	return true
}

// DiagnoseLabel builds the diagnostic for an undeclared loop label, with a
// rename suggestion when a similarly named label is in scope.
func (e *Engine) DiagnoseLabel(name string, span source.Span) diag.Diagnostic {
	d := diag.NewError(diag.ResUnresolvedLabel, span,
		fmt.Sprintf("use of undeclared label `%s`", name))
	d = d.WithNote(span, "undeclared label")

	for i := len(e.labelRibs) - 1; i >= 0; i-- {
		sugg, ok := e.SuggestionForLabelInRib(i, name)
		if !ok {
			continue
		}
		if sugg.WithinScope {
			d = d.WithFixSuggestion(fix.ReplaceSpan(
				"try using similarly named label",
				span, sugg.Name, "",
				fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
			))
			if !sugg.Span.Empty() {
				d = d.WithNote(sugg.Span, fmt.Sprintf("a label with a similar name is reachable: `%s`", sugg.Name))
			}
		} else {
			noteSpan := sugg.Span
			if noteSpan.Empty() {
				noteSpan = span
			}
			d = d.WithNote(noteSpan, fmt.Sprintf("a label with a similar name exists but is unreachable: `%s`", sugg.Name))
		}
		break
	}
	return d
}
