package resolve

import (
	"context"
	"slices"
	"strings"

	"codedom/internal/ast"
	"codedom/internal/diag"
	"codedom/internal/symbols"
	"codedom/internal/trace"
	"codedom/internal/types"
)

// Context is the lexical position an expression is resolved at.
type Context struct {
	Class  *types.TypeDecl
	Member *types.Member
	// Locals in scope, innermost last. Parameters of Member are found
	// through its signature and need not be listed.
	Locals []*types.Member
	// Usings are imported namespaces in source order.
	Usings []string
	// Aliases map "using Alias = Target" names to a namespace or type.
	Aliases map[string]string
}

// Options tune a Resolver.
type Options struct {
	// Reporter receives info diagnostics for unresolved identifiers.
	Reporter diag.Reporter
}

// Resolver resolves expressions against one table and its references.
// It holds no per-request state and may be shared between goroutines.
type Resolver struct {
	table    *symbols.Table
	reporter diag.Reporter
}

// NewResolver returns a resolver for table.
func NewResolver(table *symbols.Table, opts Options) *Resolver {
	if table == nil {
		panic("resolve.NewResolver: nil table")
	}
	return &Resolver{table: table, reporter: opts.Reporter}
}

// Table returns the table the resolver reads.
func (r *Resolver) Table() *symbols.Table { return r.table }

// Resolve determines what expr denotes at c. It returns false when the
// expression does not resolve; that is a normal outcome, not an error.
func (r *Resolver) Resolve(ctx context.Context, expr *ast.Expr, c Context) (Result, bool) {
	if expr == nil {
		return nil, false
	}
	ctx, span := trace.Start(ctx, trace.ScopeResolve, "resolve")
	res, ok := r.expr(ctx, expr, c)
	detail := "unresolved"
	if ok {
		detail = res.String()
	}
	span.Attr("expr", expr.String()).End(detail)
	return res, ok
}

func (r *Resolver) expr(ctx context.Context, expr *ast.Expr, c Context) (Result, bool) {
	if err := ctx.Err(); err != nil {
		return nil, false
	}
	switch expr.Kind {
	case ast.ExprIdent:
		return r.ident(ctx, expr, c)
	case ast.ExprThis:
		if c.Class == nil || c.Member == nil {
			return nil, false
		}
		return NewLocal(c.Member, types.NewLocal("this", c.Class.DefaultRef(), types.Region{}), true), true
	case ast.ExprBase:
		if c.Class == nil || c.Member == nil {
			return nil, false
		}
		return NewLocal(c.Member, types.NewLocal("base", r.baseClass(c.Class), types.Region{}), true), true
	case ast.ExprMember:
		target, ok := r.expr(ctx, expr.Target, c)
		if !ok {
			return nil, false
		}
		return r.member(target, expr.Name, c)
	case ast.ExprCall:
		target, ok := r.expr(ctx, expr.Target, c)
		if !ok {
			return nil, false
		}
		return r.call(target, len(expr.Args), c)
	default:
		return nil, false
	}
}

func (r *Resolver) ident(ctx context.Context, expr *ast.Expr, c Context) (Result, bool) {
	name := expr.Name
	fold := r.fold()

	if c.Member != nil {
		for _, local := range slices.Backward(c.Locals) {
			if sameName(local.Name, name, fold) {
				return NewLocal(c.Member, local, false), true
			}
		}
		if sig := c.Member.Signature; sig != nil {
			for _, p := range sig.Params {
				if sameName(p.Name, name, fold) {
					return NewLocal(c.Member, types.NewLocal(p.Name, p.Type, p.Region), true), true
				}
			}
		}
	}

	var member Result
	for cls := c.Class; cls != nil && member == nil; cls = cls.Outer() {
		member = r.memberOf(cls, cls.DefaultRef(), name, c)
	}
	typ, hasType := r.lookupType(name, c)

	switch {
	case member != nil && hasType:
		return NewMixed(member, typ), true
	case member != nil:
		return member, true
	case hasType:
		return typ, true
	}

	if target, ok := c.Aliases[name]; ok && r.table.NamespaceExists(target) {
		return NewNamespace(c.Class, c.Member, target), true
	}
	if r.table.NamespaceExists(name) {
		return NewNamespace(c.Class, c.Member, name), true
	}

	loc := diag.Location{Subject: expr.String(), Column: expr.Span.Start + 1}
	if c.Class != nil && c.Class.Unit != nil {
		loc.File = c.Class.Unit.FileName
	}
	diag.ReportInfo(r.reporter, diag.ResolveUnknownIdentifier, loc, "cannot resolve "+name).Emit()
	trace.Point(trace.FromContext(ctx), trace.ScopeResolve, "unknown:"+name, "", trace.ParentID(ctx))
	return nil, false
}

// lookupType finds a type by simple name: aliases, nested types of the
// enclosing classes and their bases, the enclosing namespaces from the
// innermost out, using directives, then language keywords.
func (r *Resolver) lookupType(name string, c Context) (*TypeResult, bool) {
	found := func(decl *types.TypeDecl) (*TypeResult, bool) {
		return NewType(c.Class, c.Member, decl, nil), true
	}
	if target, ok := c.Aliases[name]; ok {
		if decl, ok := r.table.GetType(target); ok {
			return found(decl)
		}
	}
	fold := r.fold()
	for cls := c.Class; cls != nil; cls = cls.Outer() {
		for _, decl := range cls.Lineage(r.table) {
			if inner, ok := decl.NestedNamed(name, fold); ok {
				return found(inner)
			}
		}
	}
	ns := ""
	if c.Class != nil {
		ns = c.Class.Namespace
	}
	for {
		if decl, ok := r.table.GetType(joinName(ns, name)); ok {
			return found(decl)
		}
		if ns == "" {
			break
		}
		ns, _ = types.SplitName(ns)
	}
	for _, using := range c.Usings {
		if decl, ok := r.table.GetType(joinName(using, name)); ok {
			return found(decl)
		}
	}
	if prim, ok := types.ParsePrimitive(name); ok {
		ref := r.table.Primitives().Get(prim)
		if types.Label(ref) == name {
			decl, _ := types.Resolve(ref, r.table)
			return NewType(c.Class, c.Member, decl, ref), true
		}
	}
	return nil, false
}

func (r *Resolver) member(target Result, name string, c Context) (Result, bool) {
	switch t := target.(type) {
	case *NamespaceResult:
		full := joinName(t.Name, name)
		if decl, ok := r.table.GetType(full); ok {
			return NewType(c.Class, c.Member, decl, nil), true
		}
		if r.table.NamespaceExists(full) {
			return NewNamespace(c.Class, c.Member, full), true
		}
		return nil, false
	case *TypeResult:
		decl := t.Decl
		if decl == nil {
			var ok bool
			if decl, ok = types.Resolve(t.Type, r.table); !ok {
				return nil, false
			}
		}
		member := r.memberOf(decl, t.Type, name, c)
		var nested Result
		if inner, ok := decl.NestedNamed(name, r.fold()); ok {
			nested = NewType(c.Class, c.Member, inner, nil)
		}
		switch {
		case member != nil && nested != nil:
			return NewMixed(member, nested), true
		case member != nil:
			return member, true
		case nested != nil:
			return nested, true
		}
		return nil, false
	case *MemberResult, *LocalResult:
		typ, ok := EffectiveType(t, r.table)
		if !ok {
			return nil, false
		}
		decl, ok := types.MemberSource(typ, r.table)
		if !ok {
			return nil, false
		}
		if res := r.memberOf(decl, typ, name, c); res != nil {
			return res, true
		}
		return nil, false
	case *MixedResult:
		if res, ok := r.member(t.Primary, name, c); ok {
			return res, true
		}
		return r.member(t.Secondary, name, c)
	default:
		return nil, false
	}
}

// memberOf finds name among the members of decl and its bases. The most
// derived type declaring an accessible member of that name shadows the
// others; inaccessible declarations are skipped. When no declaration is
// accessible the most derived one is used. Methods yield a method group
// since no overload is chosen yet.
func (r *Resolver) memberOf(decl *types.TypeDecl, through types.Ref, name string, c Context) Result {
	fold := r.fold()
	inTree := c.Class != nil && c.Class.IsInHierarchyOf(decl, r.table)
	var fallback *types.Member
	for _, owner := range decl.Lineage(r.table) {
		for _, m := range owner.MembersNamed(name, fold) {
			if fallback == nil {
				fallback = m
			}
			if m.IsAccessible(c.Class, inTree) {
				return r.memberResult(m, through, c)
			}
		}
	}
	if fallback == nil {
		return nil
	}
	return r.memberResult(fallback, through, c)
}

func (r *Resolver) memberResult(m *types.Member, through types.Ref, c Context) Result {
	if m.Kind == types.MemberMethod {
		return NewMethodGroup(c.Class, c.Member, through, m.Name)
	}
	return NewMember(c.Class, c.Member, m, through)
}

// call picks the overload of a method group by argument count. When no
// overload has a matching count the first declared one is used.
func (r *Resolver) call(target Result, argc int, c Context) (Result, bool) {
	switch t := target.(type) {
	case *MethodGroupResult:
		decl, ok := types.MemberSource(t.Containing, r.table)
		if !ok {
			return nil, false
		}
		var first *types.Member
		for _, owner := range decl.Lineage(r.table) {
			for _, m := range owner.MembersNamed(t.Name, r.fold()) {
				if m.Kind != types.MemberMethod {
					continue
				}
				if m.ParamCount() == argc {
					return NewMember(c.Class, c.Member, m, t.Containing), true
				}
				if first == nil {
					first = m
				}
			}
		}
		if first == nil {
			return nil, false
		}
		return NewMember(c.Class, c.Member, first, t.Containing), true
	case *MixedResult:
		if res, ok := r.call(t.Primary, argc, c); ok {
			return res, true
		}
		return r.call(t.Secondary, argc, c)
	default:
		return nil, false
	}
}

// baseClass returns the first base that is not an interface, or object.
func (r *Resolver) baseClass(cls *types.TypeDecl) types.Ref {
	for _, base := range cls.Bases {
		if decl, ok := types.Resolve(base, r.table); ok && decl.Kind != types.KindInterface {
			return base
		}
	}
	return r.table.Primitives().ObjectRef()
}

func (r *Resolver) fold() bool { return r.table.Language().FoldCase() }

func sameName(a, b string, fold bool) bool {
	if fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func joinName(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
