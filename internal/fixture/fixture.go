// Package fixture loads TOML scenario files describing a resolver snapshot,
// a scope stack and one failing resolution, and builds the engine inputs
// from them. The driver and the test suites share this format, so a
// diagnosis can be reproduced from a single self-contained file.
package fixture

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ferro/internal/resolve"
	"ferro/internal/resolve/diagnose"
	"ferro/internal/source"
)

// Doc is the raw TOML shape of a scenario.
type Doc struct {
	Source   SourceDoc   `toml:"source"`
	Snapshot SnapDoc     `toml:"snapshot"`
	Items    []ItemDoc   `toml:"items"`
	Scopes   []ScopeDoc  `toml:"scopes"`
	Meta     MetaDoc     `toml:"meta"`
	Request  RequestDoc  `toml:"request"`
	Expect   []ExpectDoc `toml:"expect"`
}

// SourceDoc provides the scenario's source text, either inline or from a
// file next to the scenario.
type SourceDoc struct {
	Name string `toml:"name"`
	Text string `toml:"text"`
	File string `toml:"file"`
}

// SnapDoc sets snapshot-wide switches.
type SnapDoc struct {
	Nightly         bool     `toml:"nightly"`
	TraitAlias      bool     `toml:"trait_alias"`
	InBandLifetimes bool     `toml:"in_band_lifetimes"`
	Primitives      []string `toml:"primitives"`
	// Prelude names the module whose children are implicitly in scope.
	Prelude string `toml:"prelude"`
	// ExternCrates lists crate names visible in the extern prelude.
	ExternCrates []string `toml:"extern_crates"`
}

// ItemDoc declares one definition. Path prefixes become modules on demand.
type ItemDoc struct {
	Path              string   `toml:"path"`
	Kind              string   `toml:"kind"`
	Vis               string   `toml:"vis"`
	External          bool     `toml:"external"`
	Span              []uint32 `toml:"span"`
	Fields            []string `toml:"fields"`
	HasSelf           bool     `toml:"has_self"`
	Ctor              string   `toml:"ctor"`
	Block             bool     `toml:"block"`
	NoImplicitPrelude bool     `toml:"no_implicit_prelude"`
	FnTrait           bool     `toml:"fn_trait"`
}

// ScopeDoc is one rib of a scope stack, outermost first in the file.
type ScopeDoc struct {
	NS     string `toml:"ns"`
	Kind   string `toml:"kind"`
	Module string `toml:"module"`
	// Bindings map names to either a bare definition kind ("local") or a
	// reference to a declared item ("=one::two::Thing").
	Bindings map[string]string `toml:"bindings"`
}

// MetaDoc covers the per-traversal resolver state a scenario may need.
type MetaDoc struct {
	SelfTypeAvailable  bool     `toml:"self_type_available"`
	SelfValueAvailable bool     `toml:"self_value_available"`
	SelfType           string   `toml:"self_type"`
	TraitModule        string   `toml:"trait_module"`
	AssocTypes         []string `toml:"assoc_types"`
}

// RequestDoc describes the failing lookup.
type RequestDoc struct {
	// Kind is "path" (default) or "label".
	Kind   string     `toml:"kind"`
	Path   []string   `toml:"path"`
	Label  string     `toml:"label"`
	Span   []uint32   `toml:"span"`
	Spans  [][]uint32 `toml:"spans"`
	Source string     `toml:"source"`
	Res    string     `toml:"res"`
}

// ExpectDoc is one expected diagnostic, matched by code and message
// substring; fix titles are matched as substrings too.
type ExpectDoc struct {
	Code    string   `toml:"code"`
	Message string   `toml:"message"`
	Fixes   []string `toml:"fixes"`
}

// Scenario is a parsed fixture plus the directory it was loaded from.
type Scenario struct {
	Doc Doc
	Dir string
}

// Built holds everything needed to run the diagnosis described by a
// scenario.
type Built struct {
	Files     *source.FileSet
	FileID    source.FileID
	Config    diagnose.Config
	Request   diagnose.Request
	IsLabel   bool
	LabelName string
	LabelSpan source.Span
	Expect    []ExpectDoc
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	var doc Doc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &Scenario{Doc: doc, Dir: filepath.Dir(path)}, nil
}

// Parse decodes a scenario from memory, for tests.
func Parse(data string) (*Scenario, error) {
	var doc Doc
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, err
	}
	return &Scenario{Doc: doc}, nil
}

type builder struct {
	sc      *Scenario
	nextDef resolve.DefID
	snap    *resolve.Snapshot
	fileID  source.FileID
	// itemRes and itemMod index declared items by their full path.
	itemRes map[string]resolve.Res
	itemMod map[string]*resolve.Module
}

// Build materialises the scenario into engine inputs.
func (sc *Scenario) Build() (*Built, error) {
	files := source.NewFileSet()
	var fileID source.FileID
	switch {
	case sc.Doc.Source.File != "":
		var err error
		fileID, err = files.Load(filepath.Join(sc.Dir, sc.Doc.Source.File))
		if err != nil {
			return nil, err
		}
	default:
		name := sc.Doc.Source.Name
		if name == "" {
			name = "fixture.fe"
		}
		fileID = files.AddVirtual(name, []byte(sc.Doc.Source.Text))
	}

	b := &builder{
		sc:      sc,
		nextDef: 1,
		fileID:  fileID,
		itemRes: make(map[string]resolve.Res),
		itemMod: make(map[string]*resolve.Module),
	}
	b.snap = &resolve.Snapshot{
		ExternPrelude: make(map[string]*resolve.Module),
		Primitives:    sc.Doc.Snapshot.Primitives,
		StructCtors:   make(map[resolve.DefID]resolve.CtorInfo),
		FieldNames:    make(map[resolve.DefID][]string),
		HasSelf:       make(map[resolve.DefID]bool),
		DefSpans:      make(map[resolve.DefID]source.Span),
		FnTraits:      make(map[resolve.DefID]bool),
		Nightly:       sc.Doc.Snapshot.Nightly,
		Features: resolve.Features{
			TraitAlias:      sc.Doc.Snapshot.TraitAlias,
			InBandLifetimes: sc.Doc.Snapshot.InBandLifetimes,
		},
	}
	b.snap.Root = resolve.NewModule("crate", resolve.DefMod, b.allocDef())

	for _, crate := range sc.Doc.Snapshot.ExternCrates {
		b.snap.ExternPrelude[crate] = resolve.NewModule(crate, resolve.DefMod, b.allocDef())
		b.itemMod[crate] = b.snap.ExternPrelude[crate]
	}

	for _, item := range sc.Doc.Items {
		if err := b.declare(item); err != nil {
			return nil, err
		}
	}

	if p := sc.Doc.Snapshot.Prelude; p != "" {
		mod, ok := b.itemMod[p]
		if !ok {
			return nil, fmt.Errorf("prelude module %q not declared", p)
		}
		b.snap.Prelude = mod
	}

	ribs := map[resolve.Namespace][]resolve.Rib{}
	var labelRibs []resolve.Rib
	for _, scope := range sc.Doc.Scopes {
		rib, ns, isLabel, err := b.buildRib(scope)
		if err != nil {
			return nil, err
		}
		if isLabel {
			labelRibs = append(labelRibs, rib)
			continue
		}
		ribs[ns] = append(ribs[ns], rib)
	}

	meta, err := b.buildMeta(sc.Doc.Meta)
	if err != nil {
		return nil, err
	}

	built := &Built{
		Files:  files,
		FileID: fileID,
		Config: diagnose.Config{
			Snapshot:  b.snap,
			Files:     files,
			Ribs:      ribs,
			LabelRibs: labelRibs,
			Meta:      meta,
		},
		Expect: sc.Doc.Expect,
	}

	if sc.Doc.Request.Kind == "label" {
		built.IsLabel = true
		built.LabelName = sc.Doc.Request.Label
		built.LabelSpan = b.span(sc.Doc.Request.Span)
		return built, nil
	}

	req, err := b.buildRequest(sc.Doc.Request)
	if err != nil {
		return nil, err
	}
	built.Request = req
	return built, nil
}

func (b *builder) allocDef() resolve.DefID {
	id := b.nextDef
	b.nextDef++
	return id
}

func (b *builder) span(raw []uint32) source.Span {
	if len(raw) != 2 {
		return source.Span{File: b.fileID}
	}
	return source.Span{File: b.fileID, Start: raw[0], End: raw[1]}
}

// ensureModule walks a path of module names from the root, creating public
// module nodes as needed.
func (b *builder) ensureModule(segs []string) *resolve.Module {
	cur := b.snap.Root
	for i, seg := range segs {
		key := strings.Join(segs[:i+1], "::")
		if m, ok := b.itemMod[key]; ok {
			cur = m
			continue
		}
		m := resolve.NewModule(seg, resolve.DefMod, b.allocDef())
		cur.Define(&resolve.Binding{
			Name:   seg,
			NS:     resolve.NSType,
			Vis:    resolve.VisPublic,
			Res:    m.OwnRes(),
			Module: m,
		})
		b.itemMod[key] = m
		b.itemRes[key] = m.OwnRes()
		cur = m
	}
	return cur
}

func (b *builder) declare(item ItemDoc) error {
	segs := strings.Split(item.Path, "::")
	name := segs[len(segs)-1]
	parent := b.ensureModule(segs[:len(segs)-1])

	kind, ctorKind, err := parseKind(item.Kind, item.Ctor)
	if err != nil {
		return fmt.Errorf("item %s: %w", item.Path, err)
	}
	def := b.allocDef()
	res := resolve.Res{Kind: kind, Def: def, Ctor: ctorKind}
	vis := parseVis(item.Vis)

	binding := &resolve.Binding{
		Name:     name,
		NS:       namespaceFor(kind),
		Vis:      vis,
		External: item.External,
		Res:      res,
		Span:     b.span(item.Span),
	}
	if kind == resolve.DefMod || kind == resolve.DefEnum {
		m := resolve.NewModule(name, kind, def)
		m.Block = item.Block
		m.NoImplicitPrelude = item.NoImplicitPrelude
		binding.Module = m
		b.itemMod[item.Path] = m
	}
	parent.Define(binding)

	// Values double into the value namespace where the resolver would put
	// them.
	if ns := namespaceFor(kind); ns == resolve.NSType && valueAlso(kind) {
		dup := *binding
		dup.NS = resolve.NSValue
		parent.Define(&dup)
	}

	b.itemRes[item.Path] = res
	if len(item.Span) == 2 {
		b.snap.DefSpans[def] = b.span(item.Span)
	}
	if len(item.Fields) > 0 {
		b.snap.FieldNames[def] = item.Fields
	}
	if item.HasSelf {
		b.snap.HasSelf[def] = true
	}
	if item.FnTrait {
		b.snap.FnTraits[def] = true
	}
	if kind == resolve.DefStruct && item.Ctor != "" {
		ctorRes := resolve.Res{Kind: resolve.DefCtor, Def: def, Ctor: ctorKind}
		b.snap.StructCtors[def] = resolve.CtorInfo{Res: ctorRes, Vis: vis, External: item.External}
	}
	return nil
}

func (b *builder) buildRib(scope ScopeDoc) (resolve.Rib, resolve.Namespace, bool, error) {
	kind, isLabel, err := parseRibKind(scope.Kind)
	if err != nil {
		return resolve.Rib{}, 0, false, err
	}
	rib := resolve.NewRib(kind)
	if scope.Module != "" {
		m, ok := b.itemMod[scope.Module]
		if !ok {
			return resolve.Rib{}, 0, false, fmt.Errorf("scope module %q not declared", scope.Module)
		}
		rib.Module = m
		rib.Kind = resolve.RibModule
	}
	for name, spec := range scope.Bindings {
		res, err := b.resFor(spec)
		if err != nil {
			return resolve.Rib{}, 0, false, fmt.Errorf("binding %s: %w", name, err)
		}
		rib.Bindings[name] = res
	}
	ns := resolve.NSValue
	if scope.NS == "type" {
		ns = resolve.NSType
	}
	return rib, ns, isLabel, nil
}

// resFor resolves a binding spec: "=path" references a declared item, a
// bare word is a definition kind with no item behind it.
func (b *builder) resFor(spec string) (resolve.Res, error) {
	if strings.HasPrefix(spec, "=") {
		res, ok := b.itemRes[spec[1:]]
		if !ok {
			return resolve.Res{}, fmt.Errorf("item %q not declared", spec[1:])
		}
		return res, nil
	}
	kind, ctor, err := parseKind(spec, "")
	if err != nil {
		return resolve.Res{}, err
	}
	res := resolve.Res{Kind: kind, Ctor: ctor}
	if kind == resolve.DefLabel || kind == resolve.DefLocal {
		res.Def = b.allocDef()
	}
	return res, nil
}

func (b *builder) buildMeta(m MetaDoc) (diagnose.Metadata, error) {
	meta := diagnose.Metadata{
		SelfTypeAvailable:      m.SelfTypeAvailable,
		SelfValueAvailable:     m.SelfValueAvailable,
		CurrentTraitAssocTypes: m.AssocTypes,
	}
	if m.SelfType != "" {
		res, ok := b.itemRes[m.SelfType]
		if !ok {
			return meta, fmt.Errorf("self type %q not declared", m.SelfType)
		}
		meta.CurrentSelfType = &diagnose.SelfTypeInfo{Def: res.Def, Kind: res.Kind}
	}
	if m.TraitModule != "" {
		mod, ok := b.itemMod[m.TraitModule]
		if !ok {
			return meta, fmt.Errorf("trait module %q not declared", m.TraitModule)
		}
		meta.CurrentTraitModule = mod
	}
	return meta, nil
}

func (b *builder) buildRequest(r RequestDoc) (diagnose.Request, error) {
	if len(r.Path) == 0 {
		return diagnose.Request{}, fmt.Errorf("request has no path")
	}
	req := diagnose.Request{Span: b.span(r.Span)}
	for i, name := range r.Path {
		seg := resolve.Segment{Name: name, Span: req.Span}
		if i < len(r.Spans) {
			seg.Span = b.span(r.Spans[i])
		} else if len(r.Path) == 1 {
			seg.Span = req.Span
		}
		req.Path = append(req.Path, seg)
	}
	srcKind, err := parseSourceKind(r.Source)
	if err != nil {
		return diagnose.Request{}, err
	}
	req.Source = resolve.PathSource{Kind: srcKind}
	if r.Res != "" {
		res, err := b.resFor(r.Res)
		if err != nil {
			return diagnose.Request{}, fmt.Errorf("request res: %w", err)
		}
		req.Res = res
	}
	return req, nil
}

func parseKind(kind, ctor string) (resolve.DefKind, resolve.CtorKind, error) {
	var ck resolve.CtorKind
	switch ctor {
	case "", "fn":
		ck = resolve.CtorFn
	case "const":
		ck = resolve.CtorConst
	case "fictive":
		ck = resolve.CtorFictive
	default:
		return 0, 0, fmt.Errorf("unknown ctor kind %q", ctor)
	}
	kinds := map[string]resolve.DefKind{
		"mod":        resolve.DefMod,
		"struct":     resolve.DefStruct,
		"union":      resolve.DefUnion,
		"enum":       resolve.DefEnum,
		"variant":    resolve.DefVariant,
		"trait":      resolve.DefTrait,
		"tyalias":    resolve.DefTyAlias,
		"assocty":    resolve.DefAssocTy,
		"prim":       resolve.DefPrim,
		"fn":         resolve.DefFn,
		"assocfn":    resolve.DefAssocFn,
		"const":      resolve.DefConst,
		"assocconst": resolve.DefAssocConst,
		"ctor":       resolve.DefCtor,
		"local":      resolve.DefLocal,
		"selfty":     resolve.DefSelfTy,
		"selfctor":   resolve.DefSelfCtor,
		"macro":      resolve.DefMacro,
		"label":      resolve.DefLabel,
	}
	k, ok := kinds[kind]
	if !ok {
		return 0, 0, fmt.Errorf("unknown definition kind %q", kind)
	}
	return k, ck, nil
}

func parseVis(vis string) resolve.Visibility {
	switch vis {
	case "crate":
		return resolve.VisCrate
	case "private":
		return resolve.VisPrivate
	default:
		return resolve.VisPublic
	}
}

func parseRibKind(kind string) (resolve.RibKind, bool, error) {
	switch kind {
	case "", "normal":
		return resolve.RibNormal, false, nil
	case "module":
		return resolve.RibModule, false, nil
	case "fn_item":
		return resolve.RibFnItem, false, nil
	case "generic":
		return resolve.RibGenericParam, false, nil
	case "label":
		return resolve.RibLabel, true, nil
	}
	return 0, false, fmt.Errorf("unknown rib kind %q", kind)
}

func parseSourceKind(kind string) (resolve.PathSourceKind, error) {
	switch kind {
	case "type":
		return resolve.PathSourceType, nil
	case "trait":
		return resolve.PathSourceTrait, nil
	case "", "expr":
		return resolve.PathSourceExpr, nil
	case "pat":
		return resolve.PathSourcePat, nil
	case "struct":
		return resolve.PathSourceStruct, nil
	case "tuple_struct":
		return resolve.PathSourceTupleStruct, nil
	}
	return 0, fmt.Errorf("unknown path source %q", kind)
}

// namespaceFor places a definition kind in its namespace.
func namespaceFor(kind resolve.DefKind) resolve.Namespace {
	switch kind {
	case resolve.DefFn, resolve.DefAssocFn, resolve.DefConst, resolve.DefAssocConst,
		resolve.DefCtor, resolve.DefLocal, resolve.DefSelfCtor:
		return resolve.NSValue
	case resolve.DefMacro:
		return resolve.NSMacro
	default:
		return resolve.NSType
	}
}

// valueAlso marks type-namespace kinds that also own a value-namespace
// binding (unit variants and the like), so lookups in either namespace see
// them the way the resolver defines them.
func valueAlso(kind resolve.DefKind) bool {
	return kind == resolve.DefVariant
}
