package diagnose

import (
	"testing"

	"ferro/internal/resolve"
	"ferro/internal/source"
)

func typeParamFix(t *testing.T, w *world, name string, sp source.Span) (source.Span, string, bool) {
	t.Helper()
	d, _ := w.engine().Diagnose(Request{
		Path:   path1(name, sp),
		Span:   sp,
		Source: resolve.PathSource{Kind: resolve.PathSourceType},
	})
	for _, f := range d.Fixes {
		if f.Title == "you might be missing a type parameter" {
			return f.Edits[0].Span, f.Edits[0].NewText, true
		}
	}
	return source.Span{}, "", false
}

func TestMissingTypeParamAppendsToList(t *testing.T) {
	w := newWorld("fn foo<T>(x: U) {}")
	w.meta.CurrentItem = &ItemInfo{
		Name: "foo",
		Kind: ItemFn,
		Generics: &resolve.GenericsInfo{
			Span:   w.sp(6, 9),
			Params: []resolve.GenericParam{{Name: "T", Span: w.sp(7, 8)}},
		},
	}
	at, text, ok := typeParamFix(t, w, "U", w.sp(13, 14))
	if !ok {
		t.Fatal("expected a type parameter suggestion")
	}
	if text != ", U" {
		t.Errorf("text = %q, want %q", text, ", U")
	}
	if at.Start != 8 || at.End != 8 {
		t.Errorf("insertion at %v, want after `T` (8..8)", at)
	}
}

func TestMissingTypeParamAfterLastBound(t *testing.T) {
	w := newWorld("fn foo<T: Clone>(x: U) {}")
	w.meta.CurrentItem = &ItemInfo{
		Name: "foo",
		Kind: ItemFn,
		Generics: &resolve.GenericsInfo{
			Span: w.sp(6, 16),
			Params: []resolve.GenericParam{{
				Name:       "T",
				Span:       w.sp(7, 8),
				BoundSpans: []source.Span{{File: w.file, Start: 10, End: 15}},
			}},
		},
	}
	at, _, ok := typeParamFix(t, w, "U", w.sp(20, 21))
	if !ok {
		t.Fatal("expected a type parameter suggestion")
	}
	if at.Start != 15 {
		t.Errorf("insertion at %v, want after the bound (15)", at)
	}
}

func TestMissingTypeParamEmptyGenerics(t *testing.T) {
	w := newWorld("fn foo(x: U) {}")
	w.meta.CurrentItem = &ItemInfo{
		Name:     "foo",
		Kind:     ItemFn,
		Generics: &resolve.GenericsInfo{Span: w.sp(6, 6)},
	}
	_, text, ok := typeParamFix(t, w, "U", w.sp(10, 11))
	if !ok {
		t.Fatal("expected a type parameter suggestion")
	}
	if text != "<U>" {
		t.Errorf("text = %q, want %q", text, "<U>")
	}
}

func TestMissingTypeParamSkipsMain(t *testing.T) {
	w := newWorld("fn main(x: U) {}")
	w.meta.CurrentItem = &ItemInfo{
		Name:     "main",
		Kind:     ItemFn,
		Generics: &resolve.GenericsInfo{Span: w.sp(7, 7)},
	}
	if _, _, ok := typeParamFix(t, w, "U", w.sp(11, 12)); ok {
		t.Error("fn main must not get a type parameter suggestion")
	}
}

func TestMissingTypeParamSkipsMultiCharName(t *testing.T) {
	w := newWorld("fn foo(x: Unknown) {}")
	w.meta.CurrentItem = &ItemInfo{
		Name:     "foo",
		Kind:     ItemFn,
		Generics: &resolve.GenericsInfo{Span: w.sp(6, 6)},
	}
	if _, _, ok := typeParamFix(t, w, "Unknown", w.sp(10, 17)); ok {
		t.Error("multi-character names only qualify inside generic bounds")
	}
}

func TestMissingTypeParamInsideBounds(t *testing.T) {
	// Any name qualifies while the resolver is walking a bound position.
	w := newWorld("fn foo(x: Unknown) {}")
	w.meta.CurrentlyProcessingGenerics = true
	w.meta.CurrentItem = &ItemInfo{
		Name:     "foo",
		Kind:     ItemTrait,
		Generics: &resolve.GenericsInfo{Span: w.sp(6, 6)},
	}
	if _, _, ok := typeParamFix(t, w, "Unknown", w.sp(10, 17)); !ok {
		t.Error("expected a suggestion while processing generics")
	}
}

func TestMissingTypeParamSkipsTraitItem(t *testing.T) {
	// Single-uppercase heuristic only fires on fn/struct/enum/union items.
	w := newWorld("trait Foo { fn f(x: U); }")
	w.meta.CurrentItem = &ItemInfo{
		Name:     "Foo",
		Kind:     ItemTrait,
		Generics: &resolve.GenericsInfo{Span: w.sp(9, 9)},
	}
	if _, _, ok := typeParamFix(t, w, "U", w.sp(20, 21)); ok {
		t.Error("trait items must not get the single-letter suggestion")
	}
}

func TestMissingTypeParamRejectsOverlapWithGenerics(t *testing.T) {
	w := newWorld("fn foo<U>(x: U) {}")
	w.meta.CurrentItem = &ItemInfo{
		Name: "foo",
		Kind: ItemFn,
		Generics: &resolve.GenericsInfo{
			Span:   w.sp(6, 9),
			Params: []resolve.GenericParam{{Name: "U", Span: w.sp(7, 8)}},
		},
	}
	// The failing name is the parameter declaration itself.
	if _, _, ok := typeParamFix(t, w, "U", w.sp(7, 8)); ok {
		t.Error("a name inside the parameter list is not missing")
	}
}

func TestMissingTypeParamSkipsGenericArgs(t *testing.T) {
	w := newWorld("fn foo(x: U<i32>) {}")
	w.meta.CurrentItem = &ItemInfo{
		Name:     "foo",
		Kind:     ItemFn,
		Generics: &resolve.GenericsInfo{Span: w.sp(6, 6)},
	}
	sp := w.sp(10, 11)
	d, _ := w.engine().Diagnose(Request{
		Path:   []resolve.Segment{{Name: "U", HasGenericArgs: true, Span: sp}},
		Span:   sp,
		Source: resolve.PathSource{Kind: resolve.PathSourceType},
	})
	for _, f := range d.Fixes {
		if f.Title == "you might be missing a type parameter" {
			t.Error("a segment with generic arguments is not a missing parameter")
		}
	}
}
