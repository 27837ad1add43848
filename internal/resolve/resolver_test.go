package resolve

import (
	"context"
	"testing"

	"codedom/internal/ast"
	"codedom/internal/diag"
	"codedom/internal/trace"
	"codedom/internal/types"
)

func mustResolve(t *testing.T, f *fixture, src string, c Context) Result {
	t.Helper()
	expr, err := ast.ParseExpr(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	res, ok := f.resolver.Resolve(context.Background(), expr, c)
	if !ok {
		t.Fatalf("%q did not resolve", src)
	}
	return res
}

func TestResolveIdentifiers(t *testing.T) {
	f := newFixture(t, types.CSharp)
	c := f.inWork()

	local, ok := mustResolve(t, f, "count", c).(*LocalResult)
	if !ok || local.Field != f.count || local.IsParameter {
		t.Fatalf("count should be a local")
	}
	param, ok := mustResolve(t, f, "input", c).(*LocalResult)
	if !ok || !param.IsParameter || !types.Equal(param.Type(), f.project.Primitives().StringRef()) {
		t.Fatalf("input should be a string parameter")
	}
	member, ok := mustResolve(t, f, "guarded", c).(*MemberResult)
	if !ok || member.Member != f.guarded {
		t.Fatalf("guarded should be an inherited field")
	}
	group, ok := mustResolve(t, f, "Run", c).(*MethodGroupResult)
	if !ok || group.Name != "Run" {
		t.Fatalf("Run should be a method group")
	}
	typ, ok := mustResolve(t, f, "List", c).(*TypeResult)
	if !ok || typ.Decl == nil || typ.Decl.FullName != "System.Collections.Generic.List" {
		t.Fatalf("List should resolve through the using directive")
	}
	ns, ok := mustResolve(t, f, "System.Collections", c).(*NamespaceResult)
	if !ok || ns.Name != "System.Collections" {
		t.Fatalf("System.Collections should be a namespace")
	}
	if _, ok := mustResolve(t, f, "System.Collections.Generic.List", c).(*TypeResult); !ok {
		t.Fatalf("qualified type name should be a type")
	}
}

func TestResolveMixedMemberAndType(t *testing.T) {
	f := newFixture(t, types.CSharp)
	c := f.inWork()

	mixed, ok := mustResolve(t, f, "Size", c).(*MixedResult)
	if !ok {
		t.Fatalf("Size should be mixed")
	}
	if m, ok := mixed.Primary.(*MemberResult); !ok || m.Member != f.sizeProp {
		t.Fatalf("primary reading should be the property")
	}
	if ty, ok := mixed.Secondary.(*TypeResult); !ok || ty.Decl != f.size {
		t.Fatalf("secondary reading should be the type")
	}
	if mixed.CallingClass() != f.derived {
		t.Fatalf("mixed result takes the calling context of its primary")
	}

	width, ok := mustResolve(t, f, "Size.Width", c).(*MemberResult)
	if !ok || width.Member.Name != "Width" {
		t.Fatalf("Size.Width should continue from the property")
	}
	got := entryNames(DefaultCompletion(mixed, f.project))
	if len(got) == 0 || got[0] != "ToString" {
		t.Fatalf("mixed default completion should start with the property's instance members, got %v", got)
	}
	hasEmpty := false
	for _, name := range got {
		hasEmpty = hasEmpty || name == "Empty"
	}
	if !hasEmpty {
		t.Fatalf("mixed default completion should include the type's static members, got %v", got)
	}
}

func TestResolveGenericMemberAccess(t *testing.T) {
	f := newFixture(t, types.CSharp)
	c := f.inWork()
	prims := f.project.Primitives()

	item, ok := mustResolve(t, f, "names.Item", c).(*MemberResult)
	if !ok || item.Member.Name != "Item" {
		t.Fatalf("names.Item should be a property")
	}
	if _, isParam := item.Type().(*types.Param); !isParam {
		t.Fatalf("resolved type must stay the declared T, got %v", item.Type())
	}
	if eff, ok := EffectiveType(item, f.project); !ok || !types.Equal(eff, prims.StringRef()) {
		t.Fatalf("effective type should be string, got %v", eff)
	}

	length, ok := mustResolve(t, f, "names.Item.Length", c).(*MemberResult)
	if !ok || length.Member.DeclaringType().FullName != "System.String" {
		t.Fatalf("names.Item.Length should be String.Length")
	}

	contains, ok := mustResolve(t, f, "names.Contains(input)", c).(*MemberResult)
	if !ok || contains.Member.Name != "Contains" || contains.Member.ParamCount() != 1 {
		t.Fatalf("call should pick Contains")
	}
	arr, ok := mustResolve(t, f, "names.ToArray()", c).(*MemberResult)
	if !ok {
		t.Fatalf("ToArray() should resolve")
	}
	if eff, _ := EffectiveType(arr, f.project); !types.Equal(eff, types.NewArray(prims.StringRef(), 1)) {
		t.Fatalf("ToArray() should yield string[], got %v", types.Label(eff))
	}
	if _, ok := mustResolve(t, f, "names.ToArray().Length", c).(*MemberResult); !ok {
		t.Fatalf("array members come from System.Array")
	}
}

func TestResolveThisBaseAndKeywords(t *testing.T) {
	f := newFixture(t, types.CSharp)
	c := f.inWork()

	if m, ok := mustResolve(t, f, "this.secret", c).(*MemberResult); !ok || m.Member != f.secret {
		t.Fatalf("this.secret should resolve to the base field")
	}
	if g, ok := mustResolve(t, f, "base.Run", c).(*MethodGroupResult); !ok || g.Name != "Run" {
		t.Fatalf("base.Run should be a method group")
	}
	if m, ok := mustResolve(t, f, "int.MaxValue", c).(*MemberResult); !ok || m.Member.Name != "MaxValue" {
		t.Fatalf("int.MaxValue should resolve through the keyword")
	}
	if m, ok := mustResolve(t, f, "Create().guarded", c).(*MemberResult); !ok || m.Member != f.guarded {
		t.Fatalf("Create().guarded should continue from the return type")
	}
}

func TestResolveUnknownReportsAndTraces(t *testing.T) {
	f := newFixture(t, types.CSharp)
	bag := diag.NewBag(0)
	resolver := NewResolver(f.project, Options{Reporter: diag.BagReporter{Bag: bag}})
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	if _, ok := resolver.Resolve(ctx, ast.Path("Nope.Deeper"), f.inWork()); ok {
		t.Fatalf("Nope should not resolve")
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.ResolveUnknownIdentifier || items[0].Severity != diag.SevInfo {
		t.Fatalf("expected one unknown-identifier info, got %v", items)
	}

	events := ring.Snapshot()
	var begin, end, point bool
	for _, ev := range events {
		switch {
		case ev.Kind == trace.KindSpanBegin && ev.Name == "resolve":
			begin = true
		case ev.Kind == trace.KindSpanEnd && ev.Name == "resolve" && ev.Detail == "unresolved":
			end = true
		case ev.Kind == trace.KindPoint && ev.Name == "unknown:Nope":
			point = true
		}
	}
	if !begin || !end || !point {
		t.Fatalf("missing trace events: begin=%v end=%v point=%v (%d events)", begin, end, point, len(events))
	}

	if _, ok := resolver.Resolve(context.Background(), ast.This(), Context{}); ok {
		t.Fatalf("this without a calling member must not resolve")
	}
}

func TestResolveCaseInsensitiveForVB(t *testing.T) {
	f := newFixture(t, types.VBNet)
	c := f.inWork()
	if m, ok := mustResolve(t, f, "NAMES.count", c).(*MemberResult); !ok || m.Member.Name != "Count" {
		t.Fatalf("VB member lookup should fold case")
	}
	if _, ok := mustResolve(t, f, "system.collections.generic.list", c).(*TypeResult); !ok {
		t.Fatalf("VB type lookup should fold case")
	}
}

func TestResolveSkipsInaccessibleShadowingMember(t *testing.T) {
	f := newFixture(t, types.CSharp)
	prims := f.project.Primitives()
	baseLabel := f.base.AddMember(types.NewMember(types.MemberField, "label", types.ModPublic, prims.StringRef()))
	derivedLabel := f.derived.AddMember(types.NewMember(types.MemberField, "label", types.ModPrivate, prims.Int32Ref()))
	d := types.NewLocal("d", f.derived.DefaultRef(), types.Region{})

	outside := Context{Class: f.stranger, Member: f.peek, Locals: []*types.Member{d}}
	if m, ok := mustResolve(t, f, "d.label", outside).(*MemberResult); !ok || m.Member != baseLabel {
		t.Fatalf("from an unrelated class d.label should be the public base field")
	}
	inside := f.inWork()
	inside.Locals = append(inside.Locals, d)
	if m, ok := mustResolve(t, f, "d.label", inside).(*MemberResult); !ok || m.Member != derivedLabel {
		t.Fatalf("inside Derived d.label should be its own private field")
	}

	f.derived.AddMember(types.NewMember(types.MemberField, "hidden", types.ModPrivate, prims.Int32Ref()))
	if _, ok := mustResolve(t, f, "d.hidden", outside).(*MemberResult); !ok {
		t.Fatalf("an inaccessible member still resolves when nothing else matches")
	}
}
