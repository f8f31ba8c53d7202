package diagnose

import (
	"ferro/internal/resolve"
)

// typoCandidate is one name visible from the failing path's position,
// paired with what it resolves to.
type typoCandidate struct {
	Name string
	Res  resolve.Res
}

// typoCandidates collects every name the failing segment could plausibly
// have meant. Single-segment paths walk the scope stack innermost-out;
// multi-segment paths only consider the prefix module's children.
func (e *Engine) typoCandidates(path []resolve.Segment, ns resolve.Namespace, filter func(resolve.Res) bool) []typoCandidate {
	var names []typoCandidate

	if len(path) == 1 {
		ribs := e.ribs[ns]
		for i := len(ribs) - 1; i >= 0; i-- {
			rib := ribs[i]
			for name, res := range rib.Bindings {
				if filter(res) {
					names = append(names, typoCandidate{Name: name, Res: res})
				}
			}
			if rib.Kind != resolve.RibModule || rib.Module == nil {
				continue
			}
			names = e.appendModuleCandidates(rib.Module, names, filter)
			if rib.Module.Block {
				// Block modules are transparent: keep walking out.
				continue
			}
			if !rib.Module.NoImplicitPrelude {
				crateRes := func(m *resolve.Module) resolve.Res { return m.OwnRes() }
				for _, crate := range e.snap.ExternPreludeNames() {
					res := crateRes(e.snap.ExternPrelude[crate])
					if filter(res) {
						names = append(names, typoCandidate{Name: crate, Res: res})
					}
				}
				if e.snap.Prelude != nil {
					names = e.appendModuleCandidates(e.snap.Prelude, names, filter)
				}
			}
			break
		}
		if ns == resolve.NSType && filter(resolve.Res{Kind: resolve.DefPrim}) {
			for _, prim := range e.snap.Primitives {
				names = append(names, typoCandidate{Name: prim, Res: resolve.Res{Kind: resolve.DefPrim}})
			}
		}
	} else if mod, _, ok := e.snap.ResolvePathPrefix(path[:len(path)-1]); ok {
		names = e.appendModuleCandidates(mod, names, filter)
	}

	return names
}

func (e *Engine) appendModuleCandidates(m *resolve.Module, names []typoCandidate, filter func(resolve.Res) bool) []typoCandidate {
	m.ForEachChild(func(b *resolve.Binding) {
		if b.VisibleLocally() && filter(b.Res) {
			names = append(names, typoCandidate{Name: b.Name, Res: b.Res})
		}
	})
	return names
}

// findModule locates the first module in the definition tree whose
// definition matches def, returning it together with an import suggestion
// for the path it was found under. The seen set keeps re-export cycles from
// looping; the returned path is the first one found, not necessarily the
// shortest.
func (e *Engine) findModule(def resolve.DefID) (*resolve.Module, Suggestion, bool) {
	if e.snap.Root == nil {
		return nil, Suggestion{}, false
	}
	type qitem struct {
		mod  *resolve.Module
		path []string
	}
	seen := map[*resolve.Module]bool{e.snap.Root: true}
	queue := []qitem{{mod: e.snap.Root}}

	var (
		foundMod  *resolve.Module
		foundSugg Suggestion
		found     bool
	)
	for len(queue) > 0 && !found {
		it := queue[0]
		queue = queue[1:]
		it.mod.ForEachChild(func(b *resolve.Binding) {
			if found || b.Module == nil || !b.VisibleLocally() {
				return
			}
			segs := appendPath(it.path, b.Name)
			if b.Module.Def == def {
				foundMod = b.Module
				foundSugg = Suggestion{
					Name:       b.Name,
					Def:        def,
					Descr:      "module",
					Path:       segs,
					Accessible: true,
				}
				found = true
				return
			}
			if !seen[b.Module] {
				seen[b.Module] = true
				queue = append(queue, qitem{mod: b.Module, path: segs})
			}
		})
	}
	return foundMod, foundSugg, found
}

// collectEnumVariants returns the full paths of an enum's variants, using
// the first path the enum is reachable under.
func (e *Engine) collectEnumVariants(def resolve.DefID) ([][]string, bool) {
	mod, sugg, ok := e.findModule(def)
	if !ok {
		return nil, false
	}
	var variants [][]string
	mod.ForEachChild(func(b *resolve.Binding) {
		if b.NS == resolve.NSType && b.Res.Kind == resolve.DefVariant {
			variants = append(variants, appendPath(sugg.Path, b.Name))
		}
	})
	return variants, true
}

// lookupImportCandidates walks the whole definition tree for bindings named
// name in the given namespace that satisfy filter, skipping the definition
// the failing path already reached.
func (e *Engine) lookupImportCandidates(name string, ns resolve.Namespace, filter func(resolve.Res) bool, exclude resolve.Res) []Suggestion {
	if e.snap.Root == nil || name == "" {
		return nil
	}
	type qitem struct {
		mod  *resolve.Module
		path []string
	}
	seen := map[*resolve.Module]bool{e.snap.Root: true}
	queue := []qitem{{mod: e.snap.Root}}

	var out []Suggestion
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		it.mod.ForEachChild(func(b *resolve.Binding) {
			if !b.VisibleLocally() {
				return
			}
			if b.Name == name && b.NS == ns && filter(b.Res) {
				excluded := exclude.Def != resolve.NoDefID && b.Res.Def == exclude.Def
				if !excluded {
					out = append(out, Suggestion{
						Name:       b.Name,
						Def:        b.Res.Def,
						Descr:      b.Res.Descr(),
						Path:       appendPath(it.path, b.Name),
						Accessible: e.snap.IsAccessibleFrom(b.Vis, b.External),
					})
				}
			}
			if b.Module != nil && !seen[b.Module] {
				seen[b.Module] = true
				queue = append(queue, qitem{mod: b.Module, path: appendPath(it.path, b.Name)})
			}
		})
	}
	return out
}

func appendPath(path []string, name string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, name)
}
