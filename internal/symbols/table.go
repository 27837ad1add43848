package symbols

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"

	"codedom/internal/types"
)

// ErrDuplicateType is returned by Declare when the qualified name is taken.
var ErrDuplicateType = errors.New("duplicate type declaration")

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Types, Namespaces uint }

// Options configure a new Table.
type Options struct {
	// Scope is the owning assembly or project name used by internal
	// accessibility. Defaults to the table name.
	Scope string
	// Language defaults to C#.
	Language types.Language
	// Primitives is shared between the tables of one workspace. A fresh
	// registry is allocated when nil.
	Primitives *types.Primitives
	Hints      Hints
}

// Table is the type index of one project or one referenced assembly. Lookups
// consult the table's own declarations first, then each referenced table's
// own declarations in registration order. Tables only grow; every mutation
// bumps the generation so memoized lookups are discarded.
type Table struct {
	name  string
	scope string
	lang  types.Language
	prims *types.Primitives

	mu         sync.RWMutex
	decls      *Decls
	byName     map[string]TypeID
	byFold     map[string]TypeID
	namespaces *Namespaces
	nsByName   map[string]NamespaceID
	nsByFold   map[string]NamespaceID
	refs       []*Table

	gen atomic.Uint64
}

var _ types.Lookup = (*Table)(nil)

// NewTable builds an empty table.
func NewTable(name string, opts Options) *Table {
	typeCap, err := safecast.Conv[uint32](opts.Hints.Types)
	if err != nil {
		panic(fmt.Errorf("type capacity overflow: %w", err))
	}
	nsCap, err := safecast.Conv[uint32](opts.Hints.Namespaces)
	if err != nil {
		panic(fmt.Errorf("namespace capacity overflow: %w", err))
	}
	if opts.Scope == "" {
		opts.Scope = name
	}
	if opts.Language == nil {
		opts.Language = types.CSharp
	}
	if opts.Primitives == nil {
		opts.Primitives = types.NewPrimitives()
	}
	return &Table{
		name:       name,
		scope:      opts.Scope,
		lang:       opts.Language,
		prims:      opts.Primitives,
		decls:      NewDecls(typeCap),
		byName:     make(map[string]TypeID),
		byFold:     make(map[string]TypeID),
		namespaces: NewNamespaces(nsCap),
		nsByName:   map[string]NamespaceID{"": RootNamespaceID},
		nsByFold:   map[string]NamespaceID{"": RootNamespaceID},
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Scope returns the accessibility scope of declarations made in this table.
func (t *Table) Scope() string { return t.scope }

// Language returns the source language rules of the table.
func (t *Table) Language() types.Language { return t.lang }

// Primitives returns the primitive registry shared by the table.
func (t *Table) Primitives() *types.Primitives { return t.prims }

// Generation changes whenever GetType may return a different answer: on
// any declaration in this table or in a directly referenced table, and on
// AddReference.
func (t *Table) Generation() uint64 {
	t.mu.RLock()
	refs := t.refs
	t.mu.RUnlock()
	gen := t.gen.Load()
	for _, ref := range refs {
		gen += ref.gen.Load()
	}
	return gen
}

// Declare registers decl and all of its nested types. The declaration's
// scope is set to the table scope when empty.
func (t *Table) Declare(decl *types.TypeDecl) (TypeID, error) {
	if decl == nil {
		panic("symbols.Declare: nil declaration")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkFreeLocked(decl); err != nil {
		return NoTypeID, err
	}
	id := t.declareLocked(decl)
	t.gen.Add(1)
	return id, nil
}

func (t *Table) checkFreeLocked(decl *types.TypeDecl) error {
	if _, taken := t.byName[decl.FullName]; taken {
		return fmt.Errorf("%s: %w: %s", t.name, ErrDuplicateType, decl.FullName)
	}
	for _, inner := range decl.Nested {
		if err := t.checkFreeLocked(inner); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) declareLocked(decl *types.TypeDecl) TypeID {
	if decl.Scope == "" {
		decl.Scope = t.scope
	}
	id := t.decls.New(decl)
	t.byName[decl.FullName] = id
	fold := strings.ToLower(decl.FullName)
	if _, taken := t.byFold[fold]; !taken {
		t.byFold[fold] = id
	}
	if decl.Outer() == nil {
		ns := t.ensureNamespaceLocked(decl.Namespace)
		node := t.namespaces.Get(ns)
		node.Types = append(node.Types, id)
	}
	for _, inner := range decl.Nested {
		t.declareLocked(inner)
	}
	return id
}

func (t *Table) ensureNamespaceLocked(name string) NamespaceID {
	if id, ok := t.nsByName[name]; ok {
		return id
	}
	parentName, short := types.SplitName(name)
	parent := t.ensureNamespaceLocked(parentName)
	id := t.namespaces.New(name, short, parent)
	t.nsByName[name] = id
	fold := strings.ToLower(name)
	if _, taken := t.nsByFold[fold]; !taken {
		t.nsByFold[fold] = id
	}
	return id
}

// AddReference appends ref to the ordered list of referenced tables.
// Adding a table twice or adding the table to itself is a no-op.
func (t *Table) AddReference(ref *Table) {
	if ref == nil || ref == t {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if slices.Contains(t.refs, ref) {
		return
	}
	t.refs = append(t.refs, ref)
	t.gen.Add(1)
}

// References returns the referenced tables in lookup order.
func (t *Table) References() []*Table {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.refs)
}

// GetType returns the declaration with the given qualified name. Nested
// types use dots ("Outer.Inner"). Own declarations shadow referenced ones;
// among referenced tables the first registered wins. Case-insensitive
// languages fall back to a folded match.
func (t *Table) GetType(fullName string) (*types.TypeDecl, bool) {
	fold := t.lang.FoldCase()
	if decl, ok := t.localType(fullName, fold); ok {
		return decl, true
	}
	for _, ref := range t.References() {
		if decl, ok := ref.localType(fullName, fold); ok {
			return decl, true
		}
	}
	return nil, false
}

func (t *Table) localType(fullName string, fold bool) (*types.TypeDecl, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[fullName]
	if !ok && fold {
		id, ok = t.byFold[strings.ToLower(fullName)]
	}
	if !ok {
		return nil, false
	}
	return t.decls.Get(id), true
}

// Types returns the table's own declarations, nested ones included, in
// declaration order.
func (t *Table) Types() []*types.TypeDecl {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.decls.Data())
}

// Len reports the number of own declarations.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.decls.Len()
}

// NamespaceExists reports whether name is the root namespace or a namespace
// declared in this table or a referenced one.
func (t *Table) NamespaceExists(name string) bool {
	fold := t.lang.FoldCase()
	if _, ok := t.localNamespace(name, fold); ok {
		return true
	}
	for _, ref := range t.References() {
		if _, ok := ref.localNamespace(name, fold); ok {
			return true
		}
	}
	return false
}

// localNamespace returns a copy of the namespace node with its child names
// and types materialized, so callers need no lock.
func (t *Table) localNamespace(name string, fold bool) (namespaceView, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.nsByName[name]
	if !ok && fold {
		id, ok = t.nsByFold[strings.ToLower(name)]
	}
	if !ok {
		return namespaceView{}, false
	}
	node := t.namespaces.Get(id)
	view := namespaceView{
		children: make([]string, 0, len(node.Children)),
		types:    make([]*types.TypeDecl, 0, len(node.Types)),
	}
	for _, child := range node.Children {
		view.children = append(view.children, t.namespaces.Get(child).Name)
	}
	for _, tid := range node.Types {
		view.types = append(view.types, t.decls.Get(tid))
	}
	return view, true
}

type namespaceView struct {
	children []string
	types    []*types.TypeDecl
}

// NamespaceMembers lists the direct sub-namespaces of name followed by its
// top-level types, merged across this table and its references. A
// sub-namespace appears once; for types the first table declaring a name
// wins, matching GetType.
func (t *Table) NamespaceMembers(name string) []Entry {
	fold := t.lang.FoldCase()
	key := func(s string) string {
		if fold {
			return strings.ToLower(s)
		}
		return s
	}
	tables := append([]*Table{t}, t.References()...)

	var namespaces, decls []Entry
	seenNS := make(map[string]struct{})
	seenType := make(map[string]struct{})
	for _, table := range tables {
		view, ok := table.localNamespace(name, fold)
		if !ok {
			continue
		}
		for _, child := range view.children {
			if _, dup := seenNS[key(child)]; dup {
				continue
			}
			seenNS[key(child)] = struct{}{}
			namespaces = append(namespaces, NamespaceEntry(child))
		}
		for _, decl := range view.types {
			if _, dup := seenType[key(decl.FullName)]; dup {
				continue
			}
			seenType[key(decl.FullName)] = struct{}{}
			decls = append(decls, TypeEntry(decl))
		}
	}
	return append(namespaces, decls...)
}

// Conflict records a qualified name declared by more than one table
// reachable from a lookup. Tables lists the declaring tables in lookup
// order; the first one wins.
type Conflict struct {
	Name   string
	Tables []string
}

// String renders "Name declared by a, b" in lookup order.
func (c Conflict) String() string {
	return c.Name + " declared by " + strings.Join(c.Tables, ", ")
}

// Conflicts lists names that GetType resolves ambiguously, sorted by name.
func (t *Table) Conflicts() []Conflict {
	tables := append([]*Table{t}, t.References()...)
	owners := make(map[string][]string)
	for _, table := range tables {
		for _, decl := range table.Types() {
			owners[decl.FullName] = append(owners[decl.FullName], table.name)
		}
	}
	var out []Conflict
	for name, tablesFor := range owners {
		if len(tablesFor) > 1 {
			out = append(out, Conflict{Name: name, Tables: tablesFor})
		}
	}
	slices.SortFunc(out, func(a, b Conflict) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (t *Table) String() string {
	return fmt.Sprintf("table %s (%d types, %d references)", t.name, t.Len(), len(t.References()))
}
