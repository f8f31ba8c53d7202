package fixture

import (
	"strings"
	"testing"

	"ferro/internal/resolve"
	"ferro/internal/resolve/diagnose"
)

const typoScenario = `
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

func TestScenarioEndToEnd(t *testing.T) {
	sc, err := Parse(typoScenario)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	built, err := sc.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	d, _ := diagnose.New(built.Config).Diagnose(built.Request)
	if d.Message != "cannot find value `nuber` in this scope" {
		t.Errorf("message = %q", d.Message)
	}
	found := false
	for _, f := range d.Fixes {
		if strings.Contains(f.Title, "a local variable with a similar name exists") {
			found = true
			if f.Edits[0].NewText != "number" {
				t.Errorf("rewrite = %q", f.Edits[0].NewText)
			}
		}
	}
	if !found {
		t.Error("expected the typo fix")
	}
	if len(built.Expect) != 1 || built.Expect[0].Code != "RES3003" {
		t.Errorf("expectations = %+v", built.Expect)
	}
}

const importScenario = `
[source]
text = "fn main() { let m: HashMap = make(); }"

[[items]]
path = "collections::HashMap"
kind = "struct"
span = [0, 7]

[[scopes]]
ns = "type"
module = "collections"

[request]
path = ["HashMap"]
span = [19, 26]
source = "type"
`

func TestScenarioImportCandidates(t *testing.T) {
	sc, err := Parse(importScenario)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	built, err := sc.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	_, candidates := diagnose.New(built.Config).Diagnose(built.Request)
	if len(candidates) != 1 {
		t.Fatalf("candidates = %+v", candidates)
	}
	c := candidates[0]
	if c.Name != "HashMap" || c.Descr != "struct" || !c.Accessible {
		t.Errorf("candidate = %+v", c)
	}
	if strings.Join(c.Path, "::") != "collections::HashMap" {
		t.Errorf("path = %v", c.Path)
	}
}

const labelScenario = `
[source]
text = "'outer: loop { break 'oter; }"

[[scopes]]
kind = "label"
bindings = { "'outer" = "label" }

[request]
kind = "label"
label = "'oter"
span = [21, 26]
`

func TestScenarioLabelRequest(t *testing.T) {
	sc, err := Parse(labelScenario)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	built, err := sc.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !built.IsLabel || built.LabelName != "'oter" {
		t.Fatalf("built = %+v", built)
	}
	if built.LabelSpan.Start != 21 || built.LabelSpan.End != 26 {
		t.Errorf("label span = %v", built.LabelSpan)
	}
	if len(built.Config.LabelRibs) != 1 {
		t.Fatalf("label ribs = %d", len(built.Config.LabelRibs))
	}

	d := diagnose.New(built.Config).DiagnoseLabel(built.LabelName, built.LabelSpan)
	if d.Message != "use of undeclared label `'oter`" {
		t.Errorf("message = %q", d.Message)
	}
}

func TestScenarioSnapshotSwitches(t *testing.T) {
	sc, err := Parse(`
[source]
text = "x"

[snapshot]
nightly = true
trait_alias = true
primitives = ["u8", "u32"]
extern_crates = ["std"]

[request]
path = ["x"]
span = [0, 1]
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	built, err := sc.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	snap := built.Config.Snapshot
	if !snap.Nightly || !snap.Features.TraitAlias || snap.Features.InBandLifetimes {
		t.Errorf("switches = nightly %v, features %+v", snap.Nightly, snap.Features)
	}
	if len(snap.Primitives) != 2 {
		t.Errorf("primitives = %v", snap.Primitives)
	}
	if snap.ExternPrelude["std"] == nil {
		t.Error("extern crate missing")
	}
}

func TestScenarioVariantAlsoInValueNamespace(t *testing.T) {
	sc, err := Parse(`
[source]
text = "Fruit::Apple"

[[items]]
path = "Fruit"
kind = "enum"

[[items]]
path = "Fruit::Apple"
kind = "variant"

[request]
path = ["Apple"]
span = [7, 12]
source = "expr"
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	built, err := sc.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	fruit := built.Config.Snapshot.Root.Child("Fruit", resolve.NSType)
	if fruit == nil || fruit.Module == nil {
		t.Fatal("enum must own a module node")
	}
	if fruit.Module.Child("Apple", resolve.NSValue) == nil {
		t.Error("variants must be visible in the value namespace")
	}
	if fruit.Module.Child("Apple", resolve.NSType) == nil {
		t.Error("variants must be visible in the type namespace")
	}
}

func TestScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown item kind",
			doc: `
[[items]]
path = "X"
kind = "gadget"

[request]
path = ["X"]
`,
			want: "unknown definition kind",
		},
		{
			name: "undeclared scope module",
			doc: `
[[scopes]]
module = "ghost"

[request]
path = ["x"]
`,
			want: "not declared",
		},
		{
			name: "request without path",
			doc: `
[source]
text = "x"
`,
			want: "request has no path",
		},
		{
			name: "unknown path source",
			doc: `
[request]
path = ["x"]
source = "weird"
`,
			want: "unknown path source",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Parse(tt.doc)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = sc.Build()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestParseRejectsBadTOML(t *testing.T) {
	if _, err := Parse("[[broken"); err == nil {
		t.Error("malformed TOML must fail")
	}
}
