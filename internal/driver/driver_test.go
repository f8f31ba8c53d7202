package driver

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ferro/internal/diag"
	"ferro/internal/diagfmt"
	"ferro/internal/fixture"
	"ferro/internal/resolve/diagnose"
	"ferro/internal/source"
)

const passingScenario = `
[source]
text = "let x = nuber;"

[[scopes]]
ns = "value"
bindings = { number = "local" }

[request]
path = ["nuber"]
span = [8, 13]
source = "expr"

[[expect]]
code = "RES3003"
message = "cannot find value"
`

const failingScenario = `
[source]
text = "let x = nuber;"

[request]
path = ["nuber"]
span = [8, 13]
source = "expr"

[[expect]]
code = "RES3003"
message = "this message never appears"
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiagnoseScenarios(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	pass := writeScenario(t, dir, "pass.toml", passingScenario)
	fail := writeScenario(t, dir, "fail.toml", failingScenario)

	results, err := DiagnoseScenarios(context.Background(), []string{pass, fail}, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	// Result order follows input order, not completion order.
	if results[0].Path != pass || results[1].Path != fail {
		t.Fatalf("order = %q, %q", results[0].Path, results[1].Path)
	}

	if len(results[0].Mismatches) != 0 {
		t.Errorf("pass scenario mismatches = %v", results[0].Mismatches)
	}
	if results[0].FromCache || results[0].Bag == nil || results[0].Files == nil {
		t.Errorf("fresh result = %+v", results[0])
	}
	if results[0].Output.Count != 1 {
		t.Errorf("output count = %d", results[0].Output.Count)
	}

	if len(results[1].Mismatches) != 1 ||
		!strings.Contains(results[1].Mismatches[0], "this message never appears") {
		t.Errorf("fail scenario mismatches = %v", results[1].Mismatches)
	}

	// A second run is served from the disk cache.
	results, err = DiagnoseScenarios(context.Background(), []string{pass}, Options{})
	if err != nil {
		t.Fatalf("cached run: %v", err)
	}
	if !results[0].FromCache {
		t.Error("second run must hit the cache")
	}
	if results[0].Bag != nil {
		t.Error("cached results carry no bag")
	}
	if results[0].Output.Count != 1 {
		t.Errorf("cached output count = %d", results[0].Output.Count)
	}
}

func TestDiagnoseScenariosNoCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	path := writeScenario(t, dir, "s.toml", passingScenario)

	for i := 0; i < 2; i++ {
		results, err := DiagnoseScenarios(context.Background(), []string{path}, Options{NoCache: true})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if results[0].FromCache {
			t.Error("NoCache runs must never hit the cache")
		}
	}
}

func TestDiagnoseScenariosEmptyInput(t *testing.T) {
	results, err := DiagnoseScenarios(context.Background(), nil, Options{})
	if err != nil || results != nil {
		t.Errorf("empty input = %v, %v", results, err)
	}
}

func TestDiagnoseScenariosBadFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	bad := writeScenario(t, dir, "bad.toml", "[[broken")
	if _, err := DiagnoseScenarios(context.Background(), []string{bad}, Options{}); err == nil {
		t.Error("malformed scenario must fail the run")
	}
}

func TestListScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.toml", "")
	writeScenario(t, dir, "a.toml", "")
	writeScenario(t, dir, "notes.md", "")
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScenario(t, sub, "c.toml", "")

	files, err := ListScenarioFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] > files[i] {
			t.Errorf("files must be sorted: %v", files)
		}
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("ferro-test")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	key := Digest(sha256.Sum256([]byte("scenario body")))
	in := Payload{
		Schema:      diskCacheSchemaVersion,
		FixtureHash: key,
		Output: diagfmt.DiagnosticsOutput{
			Diagnostics: []diagfmt.DiagnosticJSON{{Code: "RES3003", Message: "cannot find value"}},
			Count:       1,
		},
		Mismatches: []string{"one"},
	}
	if err := cache.Put(key, &in); err != nil {
		t.Fatalf("put: %v", err)
	}

	var out Payload
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("get = %v, %v", ok, err)
	}
	if out.Output.Count != 1 || out.Output.Diagnostics[0].Code != "RES3003" {
		t.Errorf("payload = %+v", out)
	}
	if len(out.Mismatches) != 1 || out.Mismatches[0] != "one" {
		t.Errorf("mismatches = %v", out.Mismatches)
	}

	var miss Payload
	if ok, err := cache.Get(Digest(sha256.Sum256([]byte("other"))), &miss); err != nil || ok {
		t.Errorf("unknown key = %v, %v, want clean miss", ok, err)
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("ferro-test")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := Digest(sha256.Sum256([]byte("stale")))
	stale := Payload{Schema: diskCacheSchemaVersion + 1, FixtureHash: key}
	if err := cache.Put(key, &stale); err != nil {
		t.Fatalf("put: %v", err)
	}
	var out Payload
	if ok, err := cache.Get(key, &out); err != nil || ok {
		t.Errorf("stale schema = %v, %v, want miss", ok, err)
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("ferro-test")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := Digest(sha256.Sum256([]byte("doomed")))
	if err := cache.Put(key, &Payload{Schema: diskCacheSchemaVersion, FixtureHash: key}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	var out Payload
	if ok, _ := cache.Get(key, &out); ok {
		t.Error("dropped cache must miss")
	}
}

func TestAttachImportHelp(t *testing.T) {
	span := source.Span{File: 0, Start: 0, End: 3}
	d := diag.NewError(diag.ResUnresolvedType, span, "cannot find type `Map`")
	req := diagnose.Request{Span: span}
	suggestions := []diagnose.Suggestion{
		{Name: "Map", Descr: "struct", Path: []string{"collections", "Map"}, Accessible: true},
		{Name: "Map", Descr: "struct", Path: []string{"hidden", "Map"}, Accessible: false},
	}

	d = attachImportHelp(d, req, suggestions)
	if len(d.Notes) != 1 {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if d.Notes[0].Msg != "consider importing this struct: `collections::Map`" {
		t.Errorf("note = %q", d.Notes[0].Msg)
	}
}

func TestMatchExpect(t *testing.T) {
	bag := diag.NewBag(4)
	d := diag.NewError(diag.ResUnresolvedValue, source.Span{}, "cannot find value `x` in this scope").
		WithFix("a local variable with a similar name exists")
	bag.Add(d)

	tests := []struct {
		name string
		exp  fixture.ExpectDoc
		want bool
	}{
		{"code and message", fixture.ExpectDoc{Code: "RES3003", Message: "cannot find value"}, true},
		{"message only", fixture.ExpectDoc{Message: "in this scope"}, true},
		{"wrong code", fixture.ExpectDoc{Code: "RES3001", Message: "cannot find value"}, false},
		{"wrong message", fixture.ExpectDoc{Code: "RES3003", Message: "nope"}, false},
		{"fix title substring", fixture.ExpectDoc{Code: "RES3003", Fixes: []string{"similar name"}}, true},
		{"missing fix title", fixture.ExpectDoc{Code: "RES3003", Fixes: []string{"no such fix"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchExpect(bag, tt.exp); got != tt.want {
				t.Errorf("matchExpect = %v, want %v", got, tt.want)
			}
		})
	}
}
