package diagnose

import (
	"fmt"
	"strings"

	"ferro/internal/diag"
	"ferro/internal/fix"
	"ferro/internal/resolve"
	"ferro/internal/source"
)

// ForLifetimeSpanType says where a `for<...>` binder can be introduced on a
// higher-ranked position, and whether a binder is already present.
type ForLifetimeSpanType uint8

const (
	// ForSpanBoundEmpty is a trait bound with no binder yet.
	ForSpanBoundEmpty ForLifetimeSpanType = iota
	// ForSpanBoundTail is a trait bound whose binder already has params.
	ForSpanBoundTail
	// ForSpanTypeEmpty is a function pointer type with no binder yet.
	ForSpanTypeEmpty
	// ForSpanTypeTail is a function pointer type with binder params.
	ForSpanTypeTail
)

// Descr names the position for suggestion titles.
func (t ForLifetimeSpanType) Descr() string {
	switch t {
	case ForSpanBoundEmpty, ForSpanBoundTail:
		return "bound"
	default:
		return "type"
	}
}

// Suggestion renders the insertion text for introducing name at the spot.
func (t ForLifetimeSpanType) Suggestion(name string) string {
	switch t {
	case ForSpanBoundEmpty, ForSpanTypeEmpty:
		return fmt.Sprintf("for<%s> ", name)
	default:
		return fmt.Sprintf(", %s", name)
	}
}

// MissingLifetimeSpot is a place where a new lifetime parameter could be
// declared: either an item's generics, or a higher-ranked binder position.
// Generics is nil for the higher-ranked flavor.
type MissingLifetimeSpot struct {
	Generics *resolve.GenericsInfo
	Span     source.Span
	SpanType ForLifetimeSpanType
}

// GenericsSpot wraps an item's generic parameter list as a declaration spot.
func GenericsSpot(g *resolve.GenericsInfo) MissingLifetimeSpot {
	return MissingLifetimeSpot{Generics: g}
}

// HigherRankedSpot marks a binder position on a bound or fn pointer type.
func HigherRankedSpot(span source.Span, t ForLifetimeSpanType) MissingLifetimeSpot {
	return MissingLifetimeSpot{Span: span, SpanType: t}
}

// LifetimeRef is a lifetime name as written at a use site.
type LifetimeRef struct {
	Name string
	Span source.Span
}

// ElisionFailureInfo points at a function parameter whose elided lifetime
// took part in a failed elision, for the multi-edit rewrite.
type ElisionFailureInfo struct {
	Span source.Span
}

// LifetimeContext tracks, during the resolver's walk, the stack of places
// where a missing lifetime could be introduced, and phrases the lifetime
// diagnostics against it.
type LifetimeContext struct {
	files *source.FileSet
	snap  *resolve.Snapshot
	spots []MissingLifetimeSpot
}

// NewLifetimeContext builds an empty context over the snapshot.
func NewLifetimeContext(files *source.FileSet, snap *resolve.Snapshot) *LifetimeContext {
	return &LifetimeContext{files: files, snap: snap}
}

// PushSpot records a declaration spot on entry to an item or binder.
func (c *LifetimeContext) PushSpot(spot MissingLifetimeSpot) {
	c.spots = append(c.spots, spot)
}

// PopSpot removes the innermost spot on exit.
func (c *LifetimeContext) PopSpot() {
	if len(c.spots) > 0 {
		c.spots = c.spots[:len(c.spots)-1]
	}
}

// Spots exposes the current stack, innermost last.
func (c *LifetimeContext) Spots() []MissingLifetimeSpot {
	return c.spots
}

// IsTraitRefFnScope reports whether a trait bound refers to one of the
// callable traits. When it does, the bound's binder position is pushed as a
// declaration spot so undeclared lifetimes inside the bound get the
// `for<...>` suggestion.
func (c *LifetimeContext) IsTraitRefFnScope(tr resolve.TraitRef) bool {
	if !c.snap.FnTraits[tr.Res.Def] {
		return false
	}
	if n := len(tr.BoundGenericParams); n > 0 {
		c.PushSpot(HigherRankedSpot(tr.BoundGenericParams[n-1].Span.ShrinkToHi(), ForSpanBoundTail))
	} else {
		c.PushSpot(HigherRankedSpot(tr.Span.ShrinkToLo(), ForSpanBoundEmpty))
	}
	return true
}

// EmitUndeclaredLifetime builds the error for a lifetime name with no
// declaration, proposing one introduction per recorded spot.
func (c *LifetimeContext) EmitUndeclaredLifetime(ref LifetimeRef) diag.Diagnostic {
	d := diag.NewError(diag.LifUndeclaredName, ref.Span,
		fmt.Sprintf("use of undeclared lifetime name `%s`", ref.Name))
	d = d.WithNote(ref.Span, "undeclared lifetime")

	suggestsInBand := false
	for _, spot := range c.spots {
		if spot.Generics != nil {
			if p, ok := spot.Generics.FirstNonSynthetic(); ok {
				d = d.WithFixSuggestion(fix.InsertText(
					fmt.Sprintf("consider introducing lifetime `%s` here", ref.Name),
					p.Span.ShrinkToLo(), ref.Name+", ", "",
					fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
				))
			} else {
				suggestsInBand = true
				d = d.WithFixSuggestion(fix.ReplaceSpan(
					fmt.Sprintf("consider introducing lifetime `%s` here", ref.Name),
					spot.Generics.Span, fmt.Sprintf("<%s>", ref.Name), "",
					fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
				))
			}
			continue
		}
		d = d.WithFixSuggestion(fix.InsertText(
			fmt.Sprintf("consider making the %s lifetime-generic with a new `%s` lifetime",
				spot.SpanType.Descr(), ref.Name),
			spot.Span, spot.SpanType.Suggestion(ref.Name), "",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
		d = d.WithNote(ref.Span, "for more information on higher-ranked polymorphism, see the language reference")
	}

	if suggestsInBand && c.snap.Nightly && !c.snap.Features.InBandLifetimes {
		d = d.WithNote(ref.Span, "if you want to experiment with in-band lifetime bindings, enable the `in_band_lifetimes` feature")
	}
	return d
}

// ReportMissingLifetimeSpecifiers starts the error for a position that
// needs count lifetime arguments but got none.
func (c *LifetimeContext) ReportMissingLifetimeSpecifiers(span source.Span, count int) diag.Diagnostic {
	msg := "missing lifetime specifier"
	if count > 1 {
		msg = "missing lifetime specifiers"
	}
	return diag.NewError(diag.LifMissingSpecifier, span, msg)
}

// AddMissingLifetimeSpecifiersLabel attaches the "expected N lifetime
// parameters" label and the best available rewrite. With exactly one named
// lifetime in scope the rewrite reuses it; with none it introduces `'a`,
// walking the spot stack outward (stopping at the first generics spot,
// continuing through higher-ranked ones) and folding the elision-failure
// params into the same multi-edit fix. Several in-scope names only produce
// placeholder help, which always needs manual review.
func (c *LifetimeContext) AddMissingLifetimeSpecifiersLabel(
	d diag.Diagnostic,
	span source.Span,
	count int,
	names []LifetimeRef,
	params []ElisionFailureInfo,
) diag.Diagnostic {
	if count == 1 {
		d = d.WithNote(span, "expected named lifetime parameter")
	} else {
		d = d.WithNote(span, fmt.Sprintf("expected %d lifetime parameters", count))
	}

	snippet, snippetOk := c.files.Snippet(span)
	distinct := distinctLifetimes(names)

	suggestExisting := func(sugg string) {
		d = d.WithFixSuggestion(fix.ReplaceSpan(
			fmt.Sprintf("consider using the `%s` lifetime", distinct[0].Name),
			span, sugg, "",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
	}

	suggestNew := func(sugg string) {
		for i := len(c.spots) - 1; i >= 0; i-- {
			spot := c.spots[i]
			var edits []diag.TextEdit
			var msg string
			stop := false
			if spot.Generics != nil {
				msg = "consider introducing a named lifetime parameter"
				stop = true
				if p, ok := spot.Generics.FirstNonSynthetic(); ok {
					edits = append(edits, diag.TextEdit{Span: p.Span.ShrinkToLo(), NewText: "'a, "})
				} else {
					edits = append(edits, diag.TextEdit{Span: spot.Generics.Span, NewText: "<'a>"})
				}
			} else {
				msg = fmt.Sprintf("consider making the %s lifetime-generic with a new `'a` lifetime",
					spot.SpanType.Descr())
				d = d.WithNote(span, "for more information on higher-ranked polymorphism, see the language reference")
				edits = append(edits, diag.TextEdit{Span: spot.Span, NewText: spot.SpanType.Suggestion("'a")})
			}
			for _, p := range params {
				s, ok := c.files.Snippet(p.Span)
				if !ok {
					continue
				}
				switch {
				case strings.HasPrefix(s, "&'_ "):
					edits = append(edits, diag.TextEdit{Span: p.Span, NewText: "&'a " + s[len("&'_ "):], OldText: s})
				case strings.HasPrefix(s, "&") && !strings.HasPrefix(s, "&'"):
					edits = append(edits, diag.TextEdit{Span: p.Span, NewText: "&'a " + strings.TrimLeft(s[1:], " "), OldText: s})
				}
			}
			edits = append(edits, diag.TextEdit{Span: span, NewText: sugg})
			d = d.WithFixSuggestion(fix.MultiEdit(msg, edits,
				fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics)))
			if stop {
				break
			}
		}
	}

	switch {
	case len(distinct) == 1 && snippetOk && snippet == "&":
		suggestExisting(fmt.Sprintf("&%s ", distinct[0].Name))
	case len(distinct) == 1 && snippetOk && snippet == "'_":
		suggestExisting(distinct[0].Name)
	case len(distinct) == 1 && snippetOk && snippet == "":
		suggestExisting(strings.Repeat(distinct[0].Name+", ", count))
	case len(distinct) == 1 && snippetOk && !strings.HasSuffix(snippet, ">"):
		args := make([]string, count)
		for i := range args {
			args[i] = distinct[0].Name
		}
		suggestExisting(fmt.Sprintf("%s<%s>", snippet, strings.Join(args, ", ")))
	case len(distinct) == 0 && snippetOk && snippet == "&" && count == 1:
		suggestNew("&'a ")
	case len(distinct) == 0 && snippetOk && snippet == "'_" && count == 1:
		suggestNew("'a")
	case len(distinct) == 0 && snippetOk && !strings.HasSuffix(snippet, ">") && count == 1:
		suggestNew(snippet + "<'a>")
	case len(distinct) > 1:
		listed := make([]string, len(distinct))
		for i, n := range distinct {
			listed[i] = fmt.Sprintf("`%s`", n.Name)
		}
		d = d.WithNote(distinct[0].Span,
			fmt.Sprintf("these named lifetimes are available to use: %s", strings.Join(listed, ", ")))
		if snippetOk && snippet == "" {
			d = d.WithFixSuggestion(fix.InsertText(
				"consider using one of the available lifetimes here",
				span, strings.Repeat("'lifetime, ", count), "",
				fix.WithApplicability(diag.FixApplicabilityManualReview),
			))
		}
	}
	return d
}

// distinctLifetimes drops repeated names, keeping first occurrences in
// order so output never depends on map iteration.
func distinctLifetimes(names []LifetimeRef) []LifetimeRef {
	seen := make(map[string]bool, len(names))
	out := make([]LifetimeRef, 0, len(names))
	for _, n := range names {
		if seen[n.Name] {
			continue
		}
		seen[n.Name] = true
		out = append(out, n)
	}
	return out
}
