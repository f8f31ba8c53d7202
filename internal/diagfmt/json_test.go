package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ferro/internal/diag"
	"ferro/internal/fix"
	"ferro/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("scenario.fe", []byte("let x = nuber;\nlet y = 2;\n"))

	span := source.Span{File: id, Start: 8, End: 13}
	d := diag.NewError(diag.ResUnresolvedValue, span, "cannot find value `nuber` in this scope").
		WithNote(span, "not found in this scope").
		WithFixSuggestion(fix.ReplaceSpan(
			"a local variable with a similar name exists",
			span, "number", "nuber",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))

	bag := diag.NewBag(8)
	bag.Add(d)
	return bag, fs, id
}

func TestBuildDiagnosticsOutput(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("output = %+v", out)
	}

	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "RES3003" {
		t.Errorf("header = %q %q", d.Severity, d.Code)
	}
	if d.Location.File != "scenario.fe" {
		t.Errorf("file = %q", d.Location.File)
	}
	if d.Location.StartByte != 8 || d.Location.EndByte != 13 {
		t.Errorf("bytes = %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 9 {
		t.Errorf("position = %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "not found in this scope" {
		t.Errorf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	f := d.Fixes[0]
	if f.Applicability != "safe-with-heuristics" || f.Kind != "quickfix" {
		t.Errorf("fix meta = %+v", f)
	}
	if len(f.Edits) != 1 || f.Edits[0].NewText != "number" || f.Edits[0].OldText != "nuber" {
		t.Errorf("edits = %+v", f.Edits)
	}
}

func TestBuildDiagnosticsOutputOmissions(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	d := out.Diagnostics[0]
	if d.Notes != nil || d.Fixes != nil {
		t.Errorf("notes and fixes must be off by default: %+v", d)
	}
	if d.Location.StartLine != 0 {
		t.Errorf("positions must be off by default: %+v", d.Location)
	}
}

func TestBuildDiagnosticsOutputMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.fe", []byte("abc"))
	bag := diag.NewBag(8)
	for i := uint32(0); i < 3; i++ {
		bag.Add(diag.NewError(diag.ResUnresolvedValue, source.Span{File: id, Start: i, End: i + 1}, "x"))
	}
	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Errorf("truncated output = %+v", out)
	}
}

func TestBuildDiagnosticsOutputFixOrder(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("o.fe", []byte("abc"))
	span := source.Span{File: id, Start: 0, End: 1}
	d := diag.NewError(diag.ResUnresolvedValue, span, "x").
		WithFixSuggestion(fix.ReplaceSpan("review me", span, "r", "",
			fix.WithApplicability(diag.FixApplicabilityManualReview))).
		WithFixSuggestion(fix.ReplaceSpan("preferred", span, "p", "",
			fix.WithApplicability(diag.FixApplicabilityManualReview), fix.Preferred())).
		WithFixSuggestion(fix.ReplaceSpan("safe", span, "s", ""))
	bag := diag.NewBag(2)
	bag.Add(d)

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	titles := make([]string, 0, 3)
	for _, f := range out.Diagnostics[0].Fixes {
		titles = append(titles, f.Title)
	}
	// Preferred first, then ascending applicability.
	want := []string{"preferred", "safe", "review me"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("fix order = %v, want %v", titles, want)
		}
	}
}

func TestJSONEncodes(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludeFixes: true}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var round DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &round); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if round.Count != 1 {
		t.Errorf("count = %d", round.Count)
	}
}

func TestBuildFixEditPreview(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.fe", []byte("let x = 1;\nlet nuber = 2;\nlet z = 3;\n"))
	edit := diag.TextEdit{
		Span:    source.Span{File: id, Start: 15, End: 20},
		NewText: "number",
	}
	preview, err := buildFixEditPreview(fs, edit)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(preview.before) != 1 || preview.before[0] != "let nuber = 2;" {
		t.Errorf("before = %v", preview.before)
	}
	if len(preview.after) != 1 || preview.after[0] != "let number = 2;" {
		t.Errorf("after = %v", preview.after)
	}
}

func TestPretty(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:  PathModeBasename,
		ShowNotes: true,
		ShowFixes: true,
	})
	got := buf.String()

	for _, want := range []string{
		"scenario.fe:1:9",
		"ERROR[RES3003]",
		"cannot find value `nuber` in this scope",
		"let x = nuber;",
		"^~~~~",
		"not found in this scope",
		"help: a local variable with a similar name exists: `number`",
		"(safe-with-heuristics)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrettySyntheticFallsBackToNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddSynthetic("expansion")
	span := source.Span{File: id}
	bag := diag.NewBag(2)
	bag.Add(diag.NewError(diag.ResUnresolvedValue, span, "cannot find value `x`").
		WithNote(span, "generated code has no snippet"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	got := buf.String()
	if !strings.Contains(got, "note: generated code has no snippet") {
		t.Errorf("output = %s", got)
	}
	if strings.Contains(got, "|") {
		t.Errorf("no gutter for synthetic files:\n%s", got)
	}
}
