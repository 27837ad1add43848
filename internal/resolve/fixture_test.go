package resolve

import (
	"context"
	"testing"

	"codedom/internal/reflection"
	"codedom/internal/symbols"
	"codedom/internal/testkit"
	"codedom/internal/types"
)

// fixture is a project table referencing the test corlib:
//
//	namespace Acme
//	class Base { protected int guarded; private int secret; internal int shared;
//	             public void Run(); public static Base Create(); }
//	class Derived : Base { public List<string> names; public Size Size { get; }
//	                       public void Work(string input) { int count; } }
//	class Size { public int Width { get; } public static readonly Size Empty; }
//	class Stranger { void Peek(); }
type fixture struct {
	corlib, project *symbols.Table
	resolver        *Resolver

	base, derived, size, stranger *types.TypeDecl
	guarded, secret, shared       *types.Member
	names, sizeProp, work, peek   *types.Member
	count                         *types.Member
}

func newFixture(t *testing.T, lang types.Language) *fixture {
	t.Helper()
	prims := types.NewPrimitives()
	corlib := symbols.NewTable("mscorlib", symbols.Options{Primitives: prims})
	if _, err := reflection.Import(context.Background(), testkit.Corlib(), corlib, reflection.ImportOptions{}); err != nil {
		t.Fatalf("import corlib: %v", err)
	}
	project := symbols.NewTable("acme", symbols.Options{Language: lang, Primitives: prims})
	project.AddReference(corlib)

	f := &fixture{corlib: corlib, project: project}
	object := types.NewNamed("System.Object")

	f.base = types.NewType(types.KindClass, "Acme.Base", "")
	f.base.Unit = &types.CompilationUnit{FileName: "Base.cs"}
	f.base.Region = types.Region{BeginLine: 3, BeginColumn: 1, EndLine: 20, EndColumn: 2}
	f.base.AddBase(object)
	f.guarded = f.base.AddMember(types.NewMember(types.MemberField, "guarded", types.ModProtected, prims.Int32Ref()))
	f.guarded.Region = types.Region{BeginLine: 5, BeginColumn: 5}
	f.secret = f.base.AddMember(types.NewMember(types.MemberField, "secret", types.ModPrivate, prims.Int32Ref()))
	f.shared = f.base.AddMember(types.NewMember(types.MemberField, "shared", types.ModInternal, prims.Int32Ref()))
	f.base.AddMember(types.NewMember(types.MemberMethod, "Run", types.ModPublic, prims.VoidRef()))
	f.base.AddMember(types.NewMember(types.MemberMethod, "Create", types.ModPublic|types.ModStatic, f.base.DefaultRef()))

	f.size = types.NewType(types.KindClass, "Acme.Size", "")
	f.size.Unit = &types.CompilationUnit{FileName: "Size.cs"}
	f.size.AddBase(object)
	f.size.AddMember(types.NewMember(types.MemberProperty, "Width", types.ModPublic, prims.Int32Ref()))
	f.size.AddMember(types.NewMember(types.MemberField, "Empty", types.ModPublic|types.ModStatic|types.ModReadonly, f.size.DefaultRef()))

	f.derived = types.NewType(types.KindClass, "Acme.Derived", "")
	f.derived.Unit = &types.CompilationUnit{FileName: "Derived.cs"}
	f.derived.Region = types.Region{BeginLine: 1, BeginColumn: 1}
	f.derived.AddBase(types.NewNamed("Acme.Base"))
	listOfString := reflection.FromExternal(
		reflection.Generic("System.Collections.Generic.List`1", reflection.Simple("System.String")), project, false)
	f.names = f.derived.AddMember(types.NewMember(types.MemberField, "names", types.ModPublic, listOfString))
	f.sizeProp = f.derived.AddMember(types.NewMember(types.MemberProperty, "Size", types.ModPublic, types.NewNamed("Acme.Size")))
	f.work = f.derived.AddMember(types.NewMember(types.MemberMethod, "Work", types.ModPublic, prims.VoidRef()))
	f.work.AddParam("input", prims.StringRef())
	f.count = types.NewLocal("count", prims.Int32Ref(), types.Region{BeginLine: 12, BeginColumn: 9})

	f.stranger = types.NewType(types.KindClass, "Other.Stranger", "")
	f.stranger.AddBase(object)
	f.peek = f.stranger.AddMember(types.NewMember(types.MemberMethod, "Peek", types.ModPrivate, prims.VoidRef()))

	for _, decl := range []*types.TypeDecl{f.base, f.size, f.derived, f.stranger} {
		if _, err := project.Declare(decl); err != nil {
			t.Fatalf("declare %s: %v", decl.FullName, err)
		}
	}
	if err := testkit.CheckTableInvariants(project); err != nil {
		t.Fatalf("project invariants: %v", err)
	}
	f.resolver = NewResolver(project, Options{})
	return f
}

// inWork is the context inside Derived.Work.
func (f *fixture) inWork() Context {
	return Context{
		Class:  f.derived,
		Member: f.work,
		Locals: []*types.Member{f.count},
		Usings: []string{"System.Collections.Generic"},
	}
}

func entryNames(entries []symbols.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}
