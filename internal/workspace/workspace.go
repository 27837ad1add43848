// Package workspace assembles the symbol tables of a project from its
// manifest: one table per assembly bundle plus a project table built from
// source units. The current state is published as an immutable Snapshot.
package workspace

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"codedom/internal/assembly"
	"codedom/internal/diag"
	"codedom/internal/observ"
	"codedom/internal/reflection"
	"codedom/internal/resolve"
	"codedom/internal/symbols"
	"codedom/internal/trace"
	"codedom/internal/types"
)

// Options configure Load.
type Options struct {
	// Jobs bounds parallel bundle loading and import. Zero means GOMAXPROCS.
	Jobs int
	// Cache stores decoded TOML bundles between runs.
	Cache *assembly.Cache
	// MaxDiagnostics bounds the snapshot's bag. Zero means no limit.
	MaxDiagnostics int
}

// Workspace owns the tables built from one manifest. Snapshot may be called
// from any goroutine; rebuilds are serialized.
type Workspace struct {
	path  string
	opts  Options
	prims *types.Primitives

	mu       sync.Mutex // serializes builds
	imported *importedSet
	current  atomic.Pointer[Snapshot]
	version  atomic.Uint64
}

// importedSet remembers the assembly tables of the last build so an
// unchanged set of bundles is not imported again.
type importedSet struct {
	key    [sha256.Size]byte
	tables []*symbols.Table
	diags  []diag.Diagnostic
}

// Load reads the manifest at path (a file or a directory to search from)
// and builds the first snapshot.
func Load(ctx context.Context, path string, opts Options) (*Workspace, error) {
	w := &Workspace{path: path, opts: opts, prims: types.NewPrimitives()}
	if _, err := w.Rebuild(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Snapshot returns the last successfully built state.
func (w *Workspace) Snapshot() *Snapshot {
	return w.current.Load()
}

// Primitives returns the registry shared by every table of the workspace.
func (w *Workspace) Primitives() *types.Primitives { return w.prims }

// Rebuild re-reads every input and publishes a new snapshot. On error the
// previous snapshot stays current. Readers holding an older snapshot keep a
// consistent view; tables are never mutated after publication.
func (w *Workspace) Rebuild(ctx context.Context) (*Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.build(ctx)
	if err != nil {
		return nil, err
	}
	snap.Version = w.version.Add(1)
	// Later rebuilds read the manifest found by this one.
	w.path = snap.Manifest.Path
	w.current.Store(snap)
	return snap, nil
}

func (w *Workspace) build(ctx context.Context) (snap *Snapshot, err error) {
	ctx, span := trace.Start(ctx, trace.ScopePhase, "workspace:build")
	defer func() { span.Fail(err) }()
	timer := observ.NewTimer()

	phase := timer.Begin("manifest")
	m, err := LoadManifest(w.path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(w.opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	for _, key := range m.Unknown {
		diag.ReportWarning(reporter, diag.WorkspaceManifest, diag.Location{File: m.Path, Subject: key},
			"unknown manifest key "+key).Emit()
	}
	lang, err := types.ParseLanguage(m.Config.Project.Language)
	if err != nil {
		diag.ReportWarning(reporter, diag.WorkspaceUnknownLanguage, diag.Location{File: m.Path, Subject: "project.language"},
			err.Error()+"; using csharp").Emit()
		lang = types.CSharp
	}
	timer.End(phase, m.Config.Project.Name)

	phase = timer.Begin("bundles")
	bundlePaths := m.AssemblyPaths()
	loaded, err := assembly.LoadAll(ctx, bundlePaths, assembly.LoadOptions{
		Jobs:           w.opts.Jobs,
		Cache:          w.opts.Cache,
		MaxDiagnostics: w.opts.MaxDiagnostics,
	})
	if err != nil {
		return nil, err
	}
	assembly.Merge(loaded, bag)
	timer.End(phase, strconv.Itoa(len(loaded))+" bundles")

	phase = timer.Begin("import")
	tables, reused, err := w.importAssemblies(ctx, loaded, bag)
	if err != nil {
		return nil, err
	}
	note := strconv.Itoa(len(tables)) + " tables"
	if reused {
		note += " (reused)"
	}
	timer.End(phase, note)

	phase = timer.Begin("project")
	project := symbols.NewTable(m.Config.Project.Name, symbols.Options{Language: lang, Primitives: w.prims})
	for _, t := range tables {
		project.AddReference(t)
	}
	builder := newProjectBuilder(project, reporter)
	inputs := append([]string{m.Path}, bundlePaths...)
	for _, path := range m.SourcePaths() {
		inputs = append(inputs, path)
		builder.declare(path, m.Root)
	}
	builder.complete()
	timer.End(phase, strconv.Itoa(project.Len())+" types")

	phase = timer.Begin("check")
	for _, c := range project.Conflicts() {
		diag.ReportWarning(reporter, diag.TableNameCollision, diag.Location{Subject: c.Name}, c.String()).Emit()
	}
	timer.End(phase, "")

	bag.Sort()
	return &Snapshot{
		Manifest:    m,
		Language:    lang,
		Project:     project,
		Assemblies:  tables,
		Diagnostics: bag,
		Timings:     timer.Report(),
		Inputs:      inputs,
		Reused:      reused,
		scopes:      builder.scopes,
		locals:      builder.locals,
	}, nil
}

// importAssemblies turns loaded bundles into tables, in parallel. When the
// bundle set is unchanged since the last build the previous tables are
// returned as they are.
func (w *Workspace) importAssemblies(ctx context.Context, loaded []assembly.Loaded, bag *diag.Bag) ([]*symbols.Table, bool, error) {
	key := bundleSetKey(loaded)
	if prev := w.imported; prev != nil && prev.key == key {
		for _, d := range prev.diags {
			bag.Add(d)
		}
		return prev.tables, true, nil
	}

	var asms []*reflection.AssemblyDescriptor
	var paths []string
	for _, l := range loaded {
		if l.Assembly != nil {
			asms = append(asms, l.Assembly)
			paths = append(paths, l.Path)
		}
	}
	local := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: local}
	tables := make([]*symbols.Table, len(asms))

	jobs := w.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(asms))))
	for i, asm := range asms {
		g.Go(func() error {
			table := symbols.NewTable(asm.Name, symbols.Options{
				Primitives: w.prims,
				Hints:      symbols.Hints{Types: uint(len(asm.Classes))},
			})
			if _, err := reflection.Import(gctx, asm, table, reflection.ImportOptions{Reporter: reporter}); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				diag.ReportError(reporter, diag.BundleDecodeFailed, diag.Location{File: paths[i]}, err.Error()).Emit()
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	wireReferences(asms, tables, reporter)
	for _, t := range tables {
		checkBases(t, reporter)
	}

	w.imported = &importedSet{key: key, tables: tables, diags: local.Items()}
	bag.Merge(local)
	return tables, false, nil
}

// wireReferences links each assembly table to the tables of the assemblies
// it names, in declaration order. Every assembly implicitly sees the core
// library when one is loaded.
func wireReferences(asms []*reflection.AssemblyDescriptor, tables []*symbols.Table, reporter diag.Reporter) {
	byName := make(map[string]*symbols.Table, len(tables))
	for _, t := range tables {
		if _, dup := byName[t.Name()]; dup {
			diag.ReportWarning(reporter, diag.TableNameCollision, diag.Location{Subject: t.Name()},
				"assembly "+t.Name()+" loaded twice; the first bundle wins").Emit()
			continue
		}
		byName[t.Name()] = t
	}
	var core *symbols.Table
	for _, name := range coreLibraries {
		if t, ok := byName[name]; ok {
			core = t
			break
		}
	}
	for i, asm := range asms {
		t := tables[i]
		for _, ref := range asm.References {
			if target, ok := byName[ref]; ok {
				t.AddReference(target)
			}
		}
		if core != nil {
			t.AddReference(core)
		}
	}
}

var coreLibraries = []string{"mscorlib", "System.Private.CoreLib", "netstandard"}

// checkBases reports base types of an assembly's declarations that resolve
// nowhere. Source units report unknown names while they are built.
func checkBases(table *symbols.Table, reporter diag.Reporter) {
	for _, decl := range table.Types() {
		for _, base := range decl.Bases {
			if _, ok := types.Resolve(base, table); ok {
				continue
			}
			diag.ReportWarning(reporter, diag.BridgeUnresolvedBase, diag.Location{File: table.Name(), Subject: decl.FullName},
				fmt.Sprintf("base %s of %s not found", types.Label(base), decl.FullName)).Emit()
		}
	}
}

func bundleSetKey(loaded []assembly.Loaded) [sha256.Size]byte {
	h := sha256.New()
	for _, l := range loaded {
		h.Write([]byte(l.Path))
		h.Write([]byte{0})
		h.Write(l.Digest[:])
	}
	var key [sha256.Size]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Snapshot is one consistent build of the workspace.
type Snapshot struct {
	Version     uint64
	Manifest    *Manifest
	Language    types.Language
	Project     *symbols.Table
	Assemblies  []*symbols.Table
	Diagnostics *diag.Bag
	Timings     observ.Report
	// Inputs lists the manifest, bundle and source unit paths.
	Inputs []string
	// Reused is set when the assembly tables were carried over unchanged.
	Reused bool

	scopes map[*types.TypeDecl]*unitScope
	locals map[*types.Member][]*types.Member
}

// Resolver returns a resolver over the project table.
func (s *Snapshot) Resolver(reporter diag.Reporter) *resolve.Resolver {
	return resolve.NewResolver(s.Project, resolve.Options{Reporter: reporter})
}

// Context builds the resolver context for a position inside member of the
// class named className. An empty member yields a class-level context.
func (s *Snapshot) Context(className, member string) (resolve.Context, error) {
	class, ok := s.Project.GetType(className)
	if !ok {
		return resolve.Context{}, fmt.Errorf("type %q not found", className)
	}
	c := resolve.Context{Class: class}
	for t := class; t != nil; t = t.Outer() {
		if scope, ok := s.scopes[t]; ok {
			c.Usings = scope.usings
			c.Aliases = scope.aliases
			break
		}
	}
	if member == "" {
		return c, nil
	}
	candidates := class.MembersNamed(member, s.Language.FoldCase())
	if len(candidates) == 0 {
		return resolve.Context{}, fmt.Errorf("%s has no member %q", class.FullName, member)
	}
	c.Member = candidates[0]
	for _, m := range candidates {
		if m.Kind == types.MemberMethod {
			c.Member = m
			break
		}
	}
	c.Locals = s.locals[c.Member]
	return c, nil
}

// Types lists the declarations of every table matching pred, sorted by
// qualified name.
func (s *Snapshot) Types(pred func(*types.TypeDecl) bool) []*types.TypeDecl {
	var out []*types.TypeDecl
	for _, t := range append([]*symbols.Table{s.Project}, s.Assemblies...) {
		for _, decl := range t.Types() {
			if pred == nil || pred(decl) {
				out = append(out, decl)
			}
		}
	}
	sortDecls(out)
	return out
}

func sortDecls(decls []*types.TypeDecl) {
	slices.SortFunc(decls, func(a, b *types.TypeDecl) int {
		if c := strings.Compare(a.FullName, b.FullName); c != 0 {
			return c
		}
		return strings.Compare(a.Scope, b.Scope)
	})
}
