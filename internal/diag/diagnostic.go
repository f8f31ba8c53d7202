package diag

import (
	"fmt"

	"ferro/internal/source"
)

// Note attaches extra context to a diagnostic at a secondary span.
type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces the text covered by Span with NewText. OldText is an
// optional guard: the fix engine refuses to apply the edit when the current
// text does not match it.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixKind is a coarse classification used by UI listings.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactorRewrite:
		return "refactor"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability classifies how confident the producer is in a fix.
// Only FixApplicabilityAlwaysSafe fixes may be applied without review;
// producers must not use it unless the rewrite is unambiguous given only
// syntactic information.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// FixBuildContext carries what a lazy fix needs to materialize its edits.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk lazily builds edits when they are expensive to construct upfront.
type FixThunk func(FixBuildContext) ([]TextEdit, error)

// Fix represents a possible automated correction. Fixes are data only: the
// engine and formatters decide whether and how to apply them.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	RequiresAll   bool
	Edits         []TextEdit
	Thunk         FixThunk
}

// Diagnostic is the central record shared by all pipeline phases.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// MaterializeFixes expands lazy fixes into concrete edits. Fixes that
// already carry edits pass through unchanged.
func MaterializeFixes(ctx FixBuildContext, fixes []Fix) ([]Fix, error) {
	out := make([]Fix, 0, len(fixes))
	for _, f := range fixes {
		if f.Thunk != nil && len(f.Edits) == 0 {
			edits, err := f.Thunk(ctx)
			if err != nil {
				return nil, fmt.Errorf("materialize fix %q: %w", f.Title, err)
			}
			f.Edits = edits
			f.Thunk = nil
		}
		out = append(out, f)
	}
	return out, nil
}
