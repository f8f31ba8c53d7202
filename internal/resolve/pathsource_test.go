package resolve

import (
	"testing"

	"ferro/internal/diag"
)

func TestPathSourceNamespace(t *testing.T) {
	tests := []struct {
		kind PathSourceKind
		want Namespace
	}{
		{PathSourceType, NSType},
		{PathSourceTrait, NSType},
		{PathSourceStruct, NSType},
		{PathSourceExpr, NSValue},
		{PathSourcePat, NSValue},
		{PathSourceTupleStruct, NSValue},
	}
	for _, tt := range tests {
		p := PathSource{Kind: tt.kind}
		if got := p.Namespace(); got != tt.want {
			t.Errorf("Namespace(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestPathSourceDescrExpected(t *testing.T) {
	tests := []struct {
		kind PathSourceKind
		want string
	}{
		{PathSourceType, "type"},
		{PathSourceTrait, "trait"},
		{PathSourceExpr, "value"},
		{PathSourcePat, "unit struct, unit variant or constant"},
		{PathSourceStruct, "struct, variant or union type"},
		{PathSourceTupleStruct, "tuple struct or tuple variant"},
	}
	for _, tt := range tests {
		p := PathSource{Kind: tt.kind}
		if got := p.DescrExpected(); got != tt.want {
			t.Errorf("DescrExpected(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPathSourceIsExpected(t *testing.T) {
	res := func(k DefKind) Res { return Res{Kind: k, Def: 1} }
	ctor := func(c CtorKind) Res { return Res{Kind: DefCtor, Def: 1, Ctor: c} }

	tests := []struct {
		name string
		kind PathSourceKind
		res  Res
		want bool
	}{
		{"type accepts struct", PathSourceType, res(DefStruct), true},
		{"type accepts primitive", PathSourceType, res(DefPrim), true},
		{"type accepts Self", PathSourceType, res(DefSelfTy), true},
		{"type rejects variant", PathSourceType, res(DefVariant), false},
		{"type rejects function", PathSourceType, res(DefFn), false},
		{"trait accepts trait only", PathSourceTrait, res(DefTrait), true},
		{"trait rejects type alias", PathSourceTrait, res(DefTyAlias), false},
		{"expr accepts local", PathSourceExpr, res(DefLocal), true},
		{"expr accepts function", PathSourceExpr, res(DefFn), true},
		{"expr accepts tuple ctor", PathSourceExpr, ctor(CtorFn), true},
		{"expr accepts unit ctor", PathSourceExpr, ctor(CtorConst), true},
		{"expr rejects fictive ctor", PathSourceExpr, ctor(CtorFictive), false},
		{"expr rejects struct", PathSourceExpr, res(DefStruct), false},
		{"pat accepts const", PathSourcePat, res(DefConst), true},
		{"pat accepts unit ctor", PathSourcePat, ctor(CtorConst), true},
		{"pat rejects tuple ctor", PathSourcePat, ctor(CtorFn), false},
		{"struct literal accepts variant", PathSourceStruct, res(DefVariant), true},
		{"struct literal accepts union", PathSourceStruct, res(DefUnion), true},
		{"struct literal rejects enum", PathSourceStruct, res(DefEnum), false},
		{"tuple struct accepts tuple ctor", PathSourceTupleStruct, ctor(CtorFn), true},
		{"tuple struct rejects unit ctor", PathSourceTupleStruct, ctor(CtorConst), false},
		{"tuple struct accepts self ctor", PathSourceTupleStruct, res(DefSelfCtor), true},
		{"nothing accepts unresolved", PathSourceType, Res{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PathSource{Kind: tt.kind}
			if got := p.IsExpected(tt.res); got != tt.want {
				t.Errorf("IsExpected(%v, %v) = %v, want %v", tt.kind, tt.res, got, tt.want)
			}
		})
	}
}

func TestPathSourceErrorCode(t *testing.T) {
	tests := []struct {
		kind       PathSourceKind
		resolved   diag.Code
		unresolved diag.Code
	}{
		{PathSourceType, diag.ResExpectedType, diag.ResUnresolvedType},
		{PathSourceTrait, diag.ResExpectedTrait, diag.ResUnresolvedTrait},
		{PathSourceExpr, diag.ResExpectedValue, diag.ResUnresolvedValue},
		{PathSourcePat, diag.ResExpectedPattern, diag.ResUnresolvedPattern},
		{PathSourceStruct, diag.ResExpectedStruct, diag.ResUnresolvedStruct},
		{PathSourceTupleStruct, diag.ResExpectedTupleStruct, diag.ResUnresolvedTupleStruct},
	}
	for _, tt := range tests {
		p := PathSource{Kind: tt.kind}
		if got := p.ErrorCode(true); got != tt.resolved {
			t.Errorf("ErrorCode(%v, resolved) = %v, want %v", tt.kind, got, tt.resolved)
		}
		if got := p.ErrorCode(false); got != tt.unresolved {
			t.Errorf("ErrorCode(%v, unresolved) = %v, want %v", tt.kind, got, tt.unresolved)
		}
	}
}

func TestResDescr(t *testing.T) {
	tests := []struct {
		res  Res
		want string
	}{
		{Res{Kind: DefMod}, "module"},
		{Res{Kind: DefStruct}, "struct"},
		{Res{Kind: DefCtor, Ctor: CtorFn}, "tuple constructor"},
		{Res{Kind: DefCtor, Ctor: CtorConst}, "constructor"},
		{Res{Kind: DefLocal}, "local variable"},
		{Res{}, "unresolved item"},
	}
	for _, tt := range tests {
		if got := tt.res.Descr(); got != tt.want {
			t.Errorf("Descr(%+v) = %q, want %q", tt.res, got, tt.want)
		}
	}
}
