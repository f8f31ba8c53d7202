package diagnose

import (
	"fmt"
	"strings"

	"ferro/internal/diag"
	"ferro/internal/fix"
	"ferro/internal/resolve"
	"ferro/internal/source"
)

const (
	// braceLookaheadLimit bounds the forward scan for a struct literal's
	// closing brace.
	braceLookaheadLimit = 100
	// assignScanLimit bounds the forward scan for `=` after a stray
	// ascription colon.
	assignScanLimit = 100
)

// Config bundles the resolver state the engine borrows. All of it is
// read-only from the engine's point of view.
type Config struct {
	Snapshot *resolve.Snapshot
	Files    *source.FileSet
	// Ribs holds the per-namespace scope stacks, outermost-first.
	Ribs map[resolve.Namespace][]resolve.Rib
	// LabelRibs is the label scope stack, outermost-first.
	LabelRibs []resolve.Rib
	Meta      Metadata
}

// Engine produces diagnostics for paths the resolver could not resolve, or
// resolved to a definition the syntactic position cannot accept.
type Engine struct {
	snap      *resolve.Snapshot
	files     *source.FileSet
	ribs      map[resolve.Namespace][]resolve.Rib
	labelRibs []resolve.Rib
	meta      Metadata
}

// New builds an engine over a resolver snapshot.
func New(cfg Config) *Engine {
	return &Engine{
		snap:      cfg.Snapshot,
		files:     cfg.Files,
		ribs:      cfg.Ribs,
		labelRibs: cfg.LabelRibs,
		meta:      cfg.Meta,
	}
}

// Request describes one failed (or mis-kinded) path resolution.
type Request struct {
	Path []resolve.Segment
	// Span covers the whole failing path.
	Span   source.Span
	Source resolve.PathSource
	// Res is the resolution the path did reach, zero when it reached none.
	Res resolve.Res
}

// Suggestion is an importable candidate found in the module tree. The caller
// renders these as "consider importing ..." help after the diagnostic.
type Suggestion struct {
	Name       string
	Def        resolve.DefID
	Descr      string
	Path       []string
	Accessible bool
}

// Diagnose builds the diagnostic for a failed resolution, together with any
// import candidates for the missing name.
func (e *Engine) Diagnose(req Request) (diag.Diagnostic, []Suggestion) {
	ns := req.Source.Namespace()
	isExpected := req.Source.IsExpected
	expected := req.Source.DescrExpected()
	pathStr := resolve.NamesToString(req.Path)
	itemStr := ""
	identSpan := req.Span
	if n := len(req.Path); n > 0 {
		itemStr = req.Path[n-1].Name
		identSpan = req.Path[n-1].Span
	}
	resolved := !req.Res.IsUnresolved()

	baseMsg, fallbackLabel, baseSpan, couldBeExpr := e.baseError(req, expected, pathStr, itemStr)
	d := diag.NewError(req.Source.ErrorCode(resolved), baseSpan, baseMsg)

	// Common receiver spellings from other languages.
	if (itemStr == "this" || itemStr == "my") && e.meta.SelfValueAvailable {
		d = d.WithFixSuggestion(fix.ReplaceSpan(
			"you might have meant to use `self` here instead",
			identSpan, "self", "",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
	}

	if isSelfType(req.Path, ns) {
		d.Code = diag.ResSelfTypeOutsideItem
		d = d.WithNote(baseSpan, "`Self` is only available in impls, traits, and type definitions")
		return d, nil
	}
	if isSelfValue(req.Path, ns) {
		return e.selfValueError(d, req, baseSpan), nil
	}

	candidates := e.lookupImportCandidates(itemStr, ns, isExpected, req.Res)
	if len(candidates) == 0 && isExpected(resolve.Res{Kind: resolve.DefEnum}) {
		d = e.suggestVariantEnums(d, req, itemStr, resolved)
	}

	if len(req.Path) == 1 && e.meta.SelfTypeAvailable {
		if kind, ok := e.lookupAssocCandidate(itemStr, ns, isExpected); ok {
			return e.assocSuggestion(d, kind, pathStr, baseSpan), candidates
		}
		if callSpan, argsSnippet, ok := e.callHasSelfArg(req.Source); ok {
			d = d.WithFixSuggestion(fix.ReplaceSpan(
				fmt.Sprintf("try calling `%s` as a method", itemStr),
				callSpan,
				fmt.Sprintf("self.%s(%s)", pathStr, argsSnippet),
				"",
			))
			return d, candidates
		}
	}

	if resolved && e.contextDependentHelp(&d, req, pathStr, fallbackLabel) {
		return d, candidates
	}

	if cand, ok := e.lookupTypoCandidate(req.Path, ns, isExpected); ok {
		d = d.WithFixSuggestion(fix.ReplaceSpan(
			fmt.Sprintf("a %s with a similar name exists", cand.Res.Descr()),
			identSpan, cand.Name, "",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
		if defSpan, ok := e.snap.DefSpans[cand.Res.Def]; ok {
			d = d.WithNote(defSpan, fmt.Sprintf("similarly named %s `%s` defined here", cand.Res.Descr(), cand.Name))
		}
		return d, candidates
	}

	// No better story: attach the fallback label and the last-resort
	// syntactic recoveries.
	d = d.WithNote(baseSpan, fallbackLabel)

	e.typeAscriptionSuggestion(&d, baseSpan)

	if lb := e.meta.CurrentLetBinding; lb != nil && couldBeExpr &&
		lb.TypeSpan != nil && lb.InitSpan == nil && lb.TypeSpan.Contains(baseSpan) {
		eqSpan := source.Span{File: lb.PatSpan.File, Start: lb.PatSpan.End, End: lb.TypeSpan.Start}
		d = d.WithFixSuggestion(fix.ReplaceSpan(
			"maybe you meant to write an assignment here",
			eqSpan, " = ", "",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
	}

	if at, msg, sugg, ok := e.missingTypeParam(req.Path); ok {
		d = d.WithFixSuggestion(fix.InsertText(
			msg, at, sugg, "",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		))
	}

	return d, candidates
}

// baseError phrases the headline message. For mis-kinded resolutions it also
// decides whether the found definition could still stand as an expression,
// which gates the let-assignment recovery.
func (e *Engine) baseError(req Request, expected, pathStr, itemStr string) (msg, fallback string, span source.Span, couldBeExpr bool) {
	if !req.Res.IsUnresolved() {
		msg = fmt.Sprintf("expected %s, found %s `%s`", expected, req.Res.Descr(), pathStr)
		fallback = "not a " + expected
		switch req.Res.Kind {
		case resolve.DefFn:
			// A bare function name is not an expression statement, but
			// a call to it is.
			if snippet, ok := e.files.Snippet(req.Span); ok {
				couldBeExpr = strings.HasSuffix(snippet, ")")
			}
		case resolve.DefCtor, resolve.DefAssocFn, resolve.DefConst,
			resolve.DefAssocConst, resolve.DefSelfCtor,
			resolve.DefPrim, resolve.DefLocal:
			couldBeExpr = true
		}
		return msg, fallback, req.Span, couldBeExpr
	}

	span = req.Span
	if n := len(req.Path); n > 0 {
		span = req.Path[n-1].Span
	}
	var modPrefix, modStr string
	switch {
	case len(req.Path) <= 1:
		modStr = "this scope"
	case len(req.Path) == 2 && req.Path[0].Name == "crate":
		modStr = "the crate root"
	default:
		prefix := req.Path[:len(req.Path)-1]
		if _, res, ok := e.snap.ResolvePathPrefix(prefix); ok {
			modPrefix = res.Descr() + " "
		}
		modStr = fmt.Sprintf("`%s`", resolve.NamesToString(prefix))
	}
	msg = fmt.Sprintf("cannot find %s `%s` in %s%s", expected, itemStr, modPrefix, modStr)
	fallback = "not found in " + modStr
	return msg, fallback, span, false
}

func isSelfType(path []resolve.Segment, ns resolve.Namespace) bool {
	return ns == resolve.NSType && len(path) == 1 && path[0].Name == "Self"
}

func isSelfValue(path []resolve.Segment, ns resolve.Namespace) bool {
	return ns == resolve.NSValue && len(path) == 1 && path[0].Name == "self"
}

func (e *Engine) selfValueError(d diag.Diagnostic, req Request, baseSpan source.Span) diag.Diagnostic {
	d.Code = diag.ResSelfValueOutsideMethod
	label := "`self` value is a keyword only available in methods with a `self` parameter"
	if req.Source.Kind == resolve.PathSourcePat {
		label = "`self` value is a keyword and may not be bound to variables or shadowed"
	}
	d = d.WithNote(baseSpan, label)
	if fn := e.meta.CurrentFunction; fn != nil {
		if fn.HasSelfParam {
			d = d.WithNote(fn.Span, "this function has a `self` parameter, but a macro invocation can only access identifiers it receives from parameters")
		} else {
			d = d.WithNote(fn.Span, "this function doesn't have a `self` parameter")
		}
	}
	return d
}

// suggestVariantEnums proposes replacing a path that matched an enum variant
// name with the variant's enum. The rewrite is exact, so it is always safe.
func (e *Engine) suggestVariantEnums(d diag.Diagnostic, req Request, itemStr string, resolved bool) diag.Diagnostic {
	isVariant := func(r resolve.Res) bool { return r.Kind == resolve.DefVariant }
	found := e.lookupImportCandidates(itemStr, resolve.NSType, isVariant, resolve.Res{})

	type pair struct{ variant, enum string }
	pairs := make([]pair, 0, len(found))
	for _, s := range found {
		if len(s.Path) < 2 {
			continue
		}
		pairs = append(pairs, pair{
			variant: strings.Join(s.Path, "::"),
			enum:    strings.Join(s.Path[:len(s.Path)-1], "::"),
		})
	}
	if len(pairs) == 0 {
		return d
	}

	msg := "try using the variant's enum"
	if !resolved {
		others := ""
		switch len(pairs) {
		case 1:
		case 2:
			others = " and 1 other"
		default:
			others = fmt.Sprintf(" and %d others", len(pairs))
		}
		msg = fmt.Sprintf("there is an enum variant `%s`%s; try using the variant's enum", pairs[0].variant, others)
	}
	for _, p := range pairs {
		if p.enum == "std::prelude" {
			continue
		}
		enumPath := strings.TrimPrefix(p.enum, "std::prelude::")
		d = d.WithFixSuggestion(fix.ReplaceSpan(msg, req.Span, enumPath, ""))
	}
	return d
}
