package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codedom/internal/ast"
	"codedom/internal/diag"
	"codedom/internal/symbols"
	"codedom/internal/types"
)

// unitScope is the lexical context shared by the types of one source unit.
type unitScope struct {
	unit    *types.CompilationUnit
	usings  []string
	aliases map[string]string
}

type pendingType struct {
	spec  *typeSpec
	decl  *types.TypeDecl
	scope *unitScope
}

// projectBuilder turns source units into declarations on the project table.
// Declarations are created for every unit before any member or base type is
// converted, so type names may refer forward across units.
type projectBuilder struct {
	table    *symbols.Table
	reporter diag.Reporter
	fold     bool

	work   []pendingType
	scopes map[*types.TypeDecl]*unitScope
	locals map[*types.Member][]*types.Member
}

func newProjectBuilder(table *symbols.Table, reporter diag.Reporter) *projectBuilder {
	return &projectBuilder{
		table:    table,
		reporter: reporter,
		fold:     table.Language().FoldCase(),
		scopes:   make(map[*types.TypeDecl]*unitScope),
		locals:   make(map[*types.Member][]*types.Member),
	}
}

// declare reads the unit at path and declares its types. The returned path
// of the described source file is empty when the unit was skipped.
func (b *projectBuilder) declare(path, root string) string {
	u, err := decodeUnit(path)
	if err != nil {
		code := diag.WorkspaceInvalidUnit
		if errors.Is(err, os.ErrNotExist) {
			code = diag.WorkspaceMissingFile
		}
		diag.ReportError(b.reporter, code, diag.Location{File: path}, err.Error()).Emit()
		return ""
	}
	file := filepath.FromSlash(u.File)
	if !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}
	scope := &unitScope{
		unit:    &types.CompilationUnit{FileName: file},
		usings:  u.Usings,
		aliases: u.Aliases,
	}
	for i := range u.Types {
		decl := b.buildType(&u.Types[i], nil, scope)
		if decl == nil {
			continue
		}
		if _, err := b.table.Declare(decl); err != nil {
			diag.ReportError(b.reporter, diag.TableDuplicateDecl, b.locate(decl.Unit, decl.Region, decl.FullName),
				fmt.Sprintf("%s: %v", decl.FullName, err)).Emit()
			b.forget(decl)
		}
	}
	return file
}

func (b *projectBuilder) buildType(spec *typeSpec, outer *types.TypeDecl, scope *unitScope) *types.TypeDecl {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		diag.ReportWarning(b.reporter, diag.WorkspaceInvalidUnit, diag.Location{File: scope.unit.FileName},
			"type without a name skipped").Emit()
		return nil
	}
	if outer != nil {
		_, short := types.SplitName(name)
		name = outer.FullName + "." + short
	}
	kind, err := types.ParseClassKind(spec.Kind)
	if err != nil {
		b.warn(scope, spec.Region, name, err)
	}
	region, err := parseRegion(spec.Region)
	if err != nil {
		b.warn(scope, nil, name, err)
	}

	decl := types.NewType(kind, name, b.table.Scope())
	decl.Unit = scope.unit
	decl.Region = region
	decl.Modifiers = b.modifiers(spec.Modifiers, defaultTypeModifiers(outer != nil, b.fold), scope, spec.Region, name)
	for _, tp := range spec.TypeParams {
		decl.AddTypeParam(tp)
	}
	if outer != nil {
		outer.AddNested(decl)
	}
	b.scopes[decl] = scope
	b.work = append(b.work, pendingType{spec: spec, decl: decl, scope: scope})
	for i := range spec.Nested {
		b.buildType(&spec.Nested[i], decl, scope)
	}
	return decl
}

// forget drops decl and its nested types from the pending work after a
// failed declaration.
func (b *projectBuilder) forget(decl *types.TypeDecl) {
	drop := make(map[*types.TypeDecl]bool)
	var mark func(*types.TypeDecl)
	mark = func(t *types.TypeDecl) {
		drop[t] = true
		for _, n := range t.Nested {
			mark(n)
		}
	}
	mark(decl)
	kept := b.work[:0]
	for _, p := range b.work {
		if !drop[p.decl] {
			kept = append(kept, p)
		}
	}
	b.work = kept
	for t := range drop {
		delete(b.scopes, t)
	}
}

// complete converts bases and members once every table is wired.
func (b *projectBuilder) complete() {
	for _, p := range b.work {
		for _, base := range p.spec.Bases {
			if ref := b.typeRef(base, p.decl, nil, p.scope, p.spec.Region); ref != nil {
				p.decl.AddBase(ref)
			}
		}
		for i := range p.spec.Members {
			b.addMember(p.decl, &p.spec.Members[i], p.scope)
		}
	}
	b.work = nil
}

func (b *projectBuilder) addMember(decl *types.TypeDecl, spec *memberSpec, scope *unitScope) {
	subject := decl.FullName + "." + spec.Name
	if strings.TrimSpace(spec.Name) == "" {
		b.warn(scope, spec.Region, decl.FullName, errors.New("member without a name skipped"))
		return
	}
	kind, err := types.ParseMemberKind(spec.Kind)
	if err != nil {
		b.warn(scope, spec.Region, subject, err)
		return
	}
	mods := b.modifiers(spec.Modifiers, defaultMemberModifiers(kind, b.fold), scope, spec.Region, subject)
	if strings.EqualFold(spec.Kind, "const") {
		mods |= types.ModConst
	}
	region, err := parseRegion(spec.Region)
	if err != nil {
		b.warn(scope, nil, subject, err)
	}

	m := types.NewMember(kind, spec.Name, mods, nil)
	m.Region = region
	decl.AddMember(m)
	if kind == types.MemberMethod {
		for _, tp := range spec.TypeParams {
			m.AddTypeParam(tp)
		}
	}
	m.Type = b.typeRef(spec.Type, decl, m, scope, spec.Region)
	if m.Type == nil {
		if kind == types.MemberMethod {
			m.Type = b.table.Primitives().VoidRef()
		} else {
			m.Type = b.table.Primitives().ObjectRef()
		}
	}
	if kind == types.MemberMethod {
		for _, p := range spec.Params {
			m.AddParam(p.Name, b.varType(p, decl, m, scope))
			if r, err := parseRegion(p.Region); err == nil {
				m.Signature.Params[len(m.Signature.Params)-1].Region = r
			}
		}
	}
	for _, l := range spec.Locals {
		r, err := parseRegion(l.Region)
		if err != nil {
			b.warn(scope, nil, subject+"."+l.Name, err)
		}
		b.locals[m] = append(b.locals[m], types.NewLocal(l.Name, b.varType(l, decl, m, scope), r))
	}
}

func (b *projectBuilder) varType(v varSpec, decl *types.TypeDecl, m *types.Member, scope *unitScope) types.Ref {
	if ref := b.typeRef(v.Type, decl, m, scope, v.Region); ref != nil {
		return ref
	}
	return b.table.Primitives().ObjectRef()
}

// typeRef converts a type expression written in a source unit. Unknown names
// stay lazy so a later rebuild with more assemblies can still find them.
func (b *projectBuilder) typeRef(text string, owner *types.TypeDecl, method *types.Member, scope *unitScope, region []int) types.Ref {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	tn, err := ast.ParseTypeName(text)
	if err != nil {
		b.warn(scope, region, owner.FullName, fmt.Errorf("type %q: %w", text, err))
		return types.NewNamed(text)
	}
	return b.convert(tn, owner, method, scope, region)
}

func (b *projectBuilder) convert(tn *ast.TypeName, owner *types.TypeDecl, method *types.Member, scope *unitScope, region []int) types.Ref {
	ref := b.named(tn, owner, method, scope, region)
	for _, rank := range tn.Ranks {
		ref = types.NewArray(ref, rank)
	}
	return ref
}

func (b *projectBuilder) named(tn *ast.TypeName, owner *types.TypeDecl, method *types.Member, scope *unitScope, region []int) types.Ref {
	if len(tn.Args) == 0 {
		if !strings.Contains(tn.Name, ".") {
			if tp := b.typeParam(tn.Name, owner, method); tp != nil {
				return types.ParamRef(tp)
			}
		}
		if prim, ok := types.ParsePrimitive(tn.Name); ok {
			return b.table.Primitives().Get(prim)
		}
	}
	var def types.Ref
	if decl, ok := b.lookup(tn.Name, owner, scope); ok {
		def = types.RefTo(decl)
	} else {
		diag.ReportWarning(b.reporter, diag.WorkspaceUnresolvedType, b.locateSpec(scope, region, owner.FullName),
			fmt.Sprintf("type %q not found", tn.Name)).Emit()
		def = types.NewNamed(tn.Name)
	}
	if len(tn.Args) == 0 {
		return def
	}
	args := make([]types.Ref, 0, len(tn.Args))
	for _, a := range tn.Args {
		args = append(args, b.convert(a, owner, method, scope, region))
	}
	return types.NewInstance(def, args...)
}

func (b *projectBuilder) typeParam(name string, owner *types.TypeDecl, method *types.Member) *types.TypeParam {
	same := func(a string) bool {
		if b.fold {
			return strings.EqualFold(a, name)
		}
		return a == name
	}
	if method != nil && method.Signature != nil {
		for _, tp := range method.Signature.TypeParams {
			if same(tp.Name) {
				return tp
			}
		}
	}
	for t := owner; t != nil; t = t.Outer() {
		for _, tp := range t.TypeParams {
			if same(tp.Name) {
				return tp
			}
		}
	}
	return nil
}

// lookup finds a type name the way a compiler would inside owner: aliases,
// nested types of the enclosing types, the enclosing namespaces from the
// innermost outwards, using directives, then the name as written.
func (b *projectBuilder) lookup(name string, owner *types.TypeDecl, scope *unitScope) (*types.TypeDecl, bool) {
	if scope != nil && len(scope.aliases) > 0 {
		head, rest, _ := strings.Cut(name, ".")
		if target, ok := scope.aliases[head]; ok {
			full := target
			if rest != "" {
				full += "." + rest
			}
			if decl, ok := b.table.GetType(full); ok {
				return decl, true
			}
		}
	}
	for t := owner; t != nil; t = t.Outer() {
		if decl, ok := b.table.GetType(t.FullName + "." + name); ok {
			return decl, true
		}
	}
	if owner != nil {
		for ns := owner.Namespace; ns != ""; ns, _ = types.SplitName(ns) {
			if decl, ok := b.table.GetType(ns + "." + name); ok {
				return decl, true
			}
		}
	}
	if scope != nil {
		for _, u := range scope.usings {
			if decl, ok := b.table.GetType(u + "." + name); ok {
				return decl, true
			}
		}
	}
	return b.table.GetType(name)
}

func (b *projectBuilder) modifiers(text string, def types.Modifiers, scope *unitScope, region []int, subject string) types.Modifiers {
	if strings.TrimSpace(text) == "" {
		return def
	}
	mods, err := types.ParseModifiers(text)
	if err != nil {
		b.warn(scope, region, subject, err)
		return def
	}
	if mods.Visibility() == 0 {
		mods |= def.Visibility()
	}
	return mods
}

func (b *projectBuilder) warn(scope *unitScope, region []int, subject string, err error) {
	diag.ReportWarning(b.reporter, diag.WorkspaceInvalidUnit, b.locateSpec(scope, region, subject), err.Error()).Emit()
}

func (b *projectBuilder) locateSpec(scope *unitScope, region []int, subject string) diag.Location {
	r, _ := parseRegion(region)
	var unit *types.CompilationUnit
	if scope != nil {
		unit = scope.unit
	}
	return b.locate(unit, r, subject)
}

func (b *projectBuilder) locate(unit *types.CompilationUnit, r types.Region, subject string) diag.Location {
	loc := diag.Location{Subject: subject, Line: r.BeginLine, Column: r.BeginColumn}
	if unit != nil {
		loc.File = unit.FileName
	}
	return loc
}

// defaultTypeModifiers follows the language defaults: top-level types are
// internal, nested types are private in C# and public in VB.
func defaultTypeModifiers(nested, vb bool) types.Modifiers {
	switch {
	case !nested:
		return types.ModInternal
	case vb:
		return types.ModPublic
	default:
		return types.ModPrivate
	}
}

// defaultMemberModifiers: C# members are private; VB fields are private and
// everything else public.
func defaultMemberModifiers(kind types.MemberKind, vb bool) types.Modifiers {
	if vb && kind != types.MemberField {
		return types.ModPublic
	}
	return types.ModPrivate
}
