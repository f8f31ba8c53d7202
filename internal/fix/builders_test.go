package fix

import (
	"testing"

	"ferro/internal/diag"
	"ferro/internal/source"
)

func TestInsertText(t *testing.T) {
	at := source.Span{File: 1, Start: 4, End: 4}
	f := InsertText("add bang", at, "!", "")
	if f.Title != "add bang" || f.Kind != diag.FixKindQuickFix {
		t.Errorf("fix = %+v", f)
	}
	if f.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Errorf("default applicability = %v", f.Applicability)
	}
	if len(f.Edits) != 1 || f.Edits[0].NewText != "!" || f.Edits[0].Span != at {
		t.Errorf("edits = %+v", f.Edits)
	}
}

func TestReplaceSpanCarriesGuard(t *testing.T) {
	span := source.Span{File: 1, Start: 2, End: 5}
	f := ReplaceSpan("swap", span, "new", "old")
	if f.Edits[0].OldText != "old" || f.Edits[0].NewText != "new" {
		t.Errorf("edit = %+v", f.Edits[0])
	}
}

func TestDeleteSpan(t *testing.T) {
	f := DeleteSpan("drop", source.Span{File: 1, Start: 0, End: 3}, "foo")
	if f.Edits[0].NewText != "" || f.Edits[0].OldText != "foo" {
		t.Errorf("edit = %+v", f.Edits[0])
	}
}

func TestWrapWith(t *testing.T) {
	span := source.Span{File: 1, Start: 3, End: 9}
	f := WrapWith("parenthesize", span, "(", ")")
	if f.Kind != diag.FixKindRefactorRewrite {
		t.Errorf("kind = %v", f.Kind)
	}
	if f.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Errorf("applicability = %v", f.Applicability)
	}
	if len(f.Edits) != 2 {
		t.Fatalf("edits = %+v", f.Edits)
	}
	if f.Edits[0].Span.Start != 3 || f.Edits[0].Span.End != 3 || f.Edits[0].NewText != "(" {
		t.Errorf("prefix edit = %+v", f.Edits[0])
	}
	if f.Edits[1].Span.Start != 9 || f.Edits[1].Span.End != 9 || f.Edits[1].NewText != ")" {
		t.Errorf("suffix edit = %+v", f.Edits[1])
	}
}

func TestMultiEdit(t *testing.T) {
	edits := []diag.TextEdit{
		{Span: source.Span{File: 1, Start: 0, End: 0}, NewText: "'a, "},
		{Span: source.Span{File: 1, Start: 8, End: 11}, NewText: "&'a u8", OldText: "&u8"},
	}
	f := MultiEdit("introduce lifetime", edits)
	if len(f.Edits) != 2 || f.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Errorf("fix = %+v", f)
	}
}

func TestBuilderOptions(t *testing.T) {
	f := InsertText("opt", source.Span{File: 1}, "x", "",
		WithID("fix-1"),
		WithKind(diag.FixKindSourceAction),
		WithApplicability(diag.FixApplicabilityManualReview),
		Preferred(),
		nil,
	)
	if f.ID != "fix-1" {
		t.Errorf("ID = %q", f.ID)
	}
	if f.Kind != diag.FixKindSourceAction {
		t.Errorf("Kind = %v", f.Kind)
	}
	if f.Applicability != diag.FixApplicabilityManualReview {
		t.Errorf("Applicability = %v", f.Applicability)
	}
	if !f.IsPreferred {
		t.Error("Preferred() must set IsPreferred")
	}
}

func TestWithThunk(t *testing.T) {
	f := InsertText("lazy", source.Span{File: 1}, "x", "",
		WithThunk(func(diag.FixBuildContext) ([]diag.TextEdit, error) {
			return nil, nil
		}),
	)
	if f.Thunk == nil {
		t.Error("thunk must be attached")
	}
}
