package resolve

import (
	"context"
	"slices"
	"testing"

	"codedom/internal/symbols"
	"codedom/internal/types"
)

func TestListRoundTripInstanceCompletion(t *testing.T) {
	f := newFixture(t, types.CSharp)
	res := NewMember(f.derived, f.work, f.names, nil)

	got := entryNames(Completion(res, f.project, false))
	want := []string{
		"Add", "Contains", "ToArray", "ConvertAll",
		"ToString", "Equals", "GetHashCode",
		"GetEnumerator",
		"Count", "Item",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("completion on List<string>:\n got %v\nwant %v", got, want)
	}
	if got := entryNames(DefaultCompletion(res, f.project)); !slices.Equal(got, want) {
		t.Fatalf("default completion on a member should list instance members, got %v", got)
	}
}

func TestTypeCompletionListsStaticMembersAndNestedTypes(t *testing.T) {
	f := newFixture(t, types.CSharp)
	list, ok := f.project.GetType("System.Collections.Generic.List")
	if !ok {
		t.Fatalf("List not visible from the project")
	}
	res := NewType(f.derived, f.work, list, nil)
	if got := entryNames(DefaultCompletion(res, f.project)); !slices.Equal(got, []string{"ReferenceEquals", "Enumerator"}) {
		t.Fatalf("static completion on List = %v", got)
	}
	if got := entryNames(Completion(res, f.project, false)); slices.Contains(got, "Enumerator") {
		t.Fatalf("nested types are listed only for static completion, got %v", got)
	}
}

func TestArrayCompletesAgainstSystemArray(t *testing.T) {
	f := newFixture(t, types.CSharp)
	arr := types.NewLocal("items", types.NewArray(f.project.Primitives().StringRef(), 1), types.Region{})
	got := entryNames(Completion(NewLocal(f.work, arr, false), f.project, false))
	want := []string{"ToString", "Equals", "GetHashCode", "Length", "Rank"}
	if !slices.Equal(got, want) {
		t.Fatalf("array completion = %v, want %v", got, want)
	}
}

func TestProtectedAccessibility(t *testing.T) {
	f := newFixture(t, types.CSharp)
	value := types.NewLocal("b", f.base.DefaultRef(), types.Region{})

	fromDerived := entryNames(Completion(NewLocal(f.work, value, false), f.project, false))
	if !slices.Contains(fromDerived, "guarded") {
		t.Fatalf("protected member must be visible from a derived class, got %v", fromDerived)
	}
	if slices.Contains(fromDerived, "secret") {
		t.Fatalf("private member must be hidden from a derived class")
	}
	if !slices.Contains(fromDerived, "MemberwiseClone") {
		t.Fatalf("inherited protected member must be visible from a derived class")
	}

	fromStranger := entryNames(Completion(NewLocal(f.peek, value, false), f.project, false))
	if slices.Contains(fromStranger, "guarded") || slices.Contains(fromStranger, "MemberwiseClone") {
		t.Fatalf("protected members must be hidden from an unrelated class, got %v", fromStranger)
	}
	if !slices.Contains(fromStranger, "shared") {
		t.Fatalf("internal member must be visible within the project")
	}

	if !f.guarded.IsAccessible(f.derived, f.derived.IsInHierarchyOf(f.base, f.project)) {
		t.Fatalf("IsAccessible(Derived) should hold for protected")
	}
	if f.guarded.IsAccessible(f.stranger, f.stranger.IsInHierarchyOf(f.base, f.project)) {
		t.Fatalf("IsAccessible(Stranger) should fail for protected")
	}
}

func TestMixedCompletionDedup(t *testing.T) {
	f := newFixture(t, types.CSharp)
	prims := f.project.Primitives()
	a := types.NewType(types.KindClass, "Mix.A", "")
	m1 := a.AddMember(types.NewMember(types.MemberProperty, "M1", types.ModPublic, prims.Int32Ref()))
	m2 := a.AddMember(types.NewMember(types.MemberProperty, "M2", types.ModPublic, prims.Int32Ref()))
	b := types.NewType(types.KindClass, "Mix.B", "")
	b.AddBase(a.DefaultRef())
	m3 := b.AddMember(types.NewMember(types.MemberProperty, "M3", types.ModPublic, prims.Int32Ref()))
	for _, decl := range []*types.TypeDecl{a, b} {
		if _, err := f.project.Declare(decl); err != nil {
			t.Fatalf("declare: %v", err)
		}
	}

	primary := NewLocal(f.work, types.NewLocal("x", a.DefaultRef(), types.Region{}), false)
	secondary := NewLocal(f.work, types.NewLocal("y", b.DefaultRef(), types.Region{}), false)
	got := Completion(NewMixed(primary, secondary), f.project, false)
	want := []*types.Member{m1, m2, m3}
	if len(got) != len(want) {
		t.Fatalf("mixed completion = %v", entryNames(got))
	}
	for i, e := range got {
		if e.Member != want[i] {
			t.Fatalf("entry %d = %v, want %v", i, e, want[i])
		}
	}
}

func TestNamespaceCompletionBypassesAccessibility(t *testing.T) {
	f := newFixture(t, types.CSharp)
	res := NewNamespace(f.stranger, nil, "System.Collections.Generic")
	got := entryNames(Completion(res, f.project, false))
	want := []string{"IEnumerable", "IEnumerator", "List"}
	if !slices.Equal(got, want) {
		t.Fatalf("namespace completion = %v, want %v", got, want)
	}
	if got := entryNames(Completion(NewNamespace(nil, nil, ""), f.project, false)); !slices.Equal(got, []string{"Acme", "Other", "System"}) {
		t.Fatalf("root namespace completion = %v", got)
	}
}

func TestMethodGroupCompletesToNothing(t *testing.T) {
	f := newFixture(t, types.CSharp)
	if got := Completion(NewMethodGroup(f.derived, f.work, f.derived.DefaultRef(), "Run"), f.project, false); got != nil {
		t.Fatalf("method group completion = %v", got)
	}
}

func TestVBShowsSharedMembersOnInstances(t *testing.T) {
	f := newFixture(t, types.VBNet)
	process := types.NewLocal("p", types.NewNamed("System.Diagnostics.Process"), types.Region{})
	got := entryNames(Completion(NewLocal(f.work, process, false), f.project, false))
	if !slices.Contains(got, "Start") || !slices.Contains(got, "Kill") {
		t.Fatalf("VB instance completion should include shared and instance members, got %v", got)
	}
	cs := newFixture(t, types.CSharp)
	got = entryNames(Completion(NewLocal(cs.work, process, false), cs.project, false))
	if slices.Contains(got, "Start") {
		t.Fatalf("C# instance completion must hide static members, got %v", got)
	}
}

func TestDefinitionPosition(t *testing.T) {
	f := newFixture(t, types.CSharp)
	ctx := context.Background()

	list, _ := f.project.GetType("System.Collections.Generic.List")
	add := list.Methods[1]
	if _, ok := DefinitionPosition(ctx, NewMember(f.derived, f.work, add, nil)); ok {
		t.Fatalf("reflected member must have no definition position")
	}
	if _, ok := DefinitionPosition(ctx, NewType(f.derived, f.work, list, nil)); ok {
		t.Fatalf("reflected type must have no definition position")
	}

	pos, ok := DefinitionPosition(ctx, NewMember(f.derived, f.work, f.guarded, nil))
	if !ok || pos != (Position{File: "Base.cs", Line: 5, Column: 5}) {
		t.Fatalf("guarded position = %v, %v", pos, ok)
	}
	pos, ok = DefinitionPosition(ctx, NewLocal(f.work, f.count, false))
	if !ok || pos != (Position{File: "Derived.cs", Line: 12, Column: 9}) {
		t.Fatalf("local position = %v, %v", pos, ok)
	}
	pos, ok = DefinitionPosition(ctx, NewType(nil, nil, f.size, nil))
	if !ok || pos != (Position{File: "Size.cs"}) {
		t.Fatalf("type without region should report the file only, got %v, %v", pos, ok)
	}
	if _, ok := DefinitionPosition(ctx, NewNamespace(nil, nil, "Acme")); ok {
		t.Fatalf("namespaces have no definition position")
	}
}

func TestResultInvariants(t *testing.T) {
	f := newFixture(t, types.CSharp)
	member := NewMember(f.derived, f.work, f.names, nil)
	if typ, ok := ResolvedType(member); !ok || typ != f.names.Type {
		t.Fatalf("member result type must be the declared type")
	}
	local := NewLocal(f.work, f.count, false)
	if local.CallingClass() != f.derived || local.CallingMember() != f.work {
		t.Fatalf("local result calling context should come from the calling member")
	}
	if _, ok := ResolvedType(NewNamespace(nil, nil, "System")); ok {
		t.Fatalf("namespace results carry no type")
	}
	if _, ok := ResolvedType(NewMethodGroup(nil, nil, f.derived.DefaultRef(), "Run")); ok {
		t.Fatalf("method group results carry no type")
	}

	mustPanic(t, "nested mixed", func() {
		NewMixed(NewMixed(member, local), local)
	})
	mustPanic(t, "nil calling member", func() {
		NewLocal(nil, f.count, false)
	})
	mustPanic(t, "nil field", func() {
		NewLocal(f.work, nil, false)
	})
	mustPanic(t, "nil member", func() {
		NewMember(nil, nil, nil, nil)
	})
	mustPanic(t, "nil containing type", func() {
		NewMethodGroup(nil, nil, nil, "Run")
	})
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestHiddenDerivedMembersDoNotShadowBaseMembers(t *testing.T) {
	f := newFixture(t, types.CSharp)
	prims := f.project.Primitives()
	baseRun := f.base.Methods[0]
	baseLog := f.base.AddMember(types.NewMember(types.MemberMethod, "Log", types.ModPublic, prims.VoidRef()))
	baseLog.AddParam("x", prims.Int32Ref())
	f.derived.AddMember(types.NewMember(types.MemberMethod, "Run", types.ModPrivate, prims.VoidRef()))
	derivedLog := f.derived.AddMember(types.NewMember(types.MemberMethod, "Log", types.ModPublic, prims.VoidRef()))
	derivedLog.AddParam("s", prims.StringRef())

	value := types.NewLocal("d", f.derived.DefaultRef(), types.Region{})
	got := Completion(NewLocal(f.peek, value, false), f.project, false)
	for _, want := range []*types.Member{baseRun, baseLog, derivedLog} {
		if !slices.ContainsFunc(got, func(e symbols.Entry) bool { return e.Member == want }) {
			t.Fatalf("%s missing from completion %v", types.MemberLabel(want), entryNames(got))
		}
	}
	if n := len(slices.DeleteFunc(entryNames(got), func(s string) bool { return s != "Run" })); n != 1 {
		t.Fatalf("Run listed %d times", n)
	}
}

func TestOverrideListedOnceFromMostDerived(t *testing.T) {
	f := newFixture(t, types.CSharp)
	prims := f.project.Primitives()
	virt := types.NewMember(types.MemberMethod, "Describe", types.ModPublic|types.ModVirtual, prims.StringRef())
	virt.AddParam("depth", prims.Int32Ref())
	f.base.AddMember(virt)
	override := types.NewMember(types.MemberMethod, "Describe", types.ModPublic|types.ModOverride, prims.StringRef())
	override.AddParam("level", prims.Int32Ref())
	f.derived.AddMember(override)

	value := types.NewLocal("d", f.derived.DefaultRef(), types.Region{})
	var describe []*types.Member
	for _, e := range Completion(NewLocal(f.peek, value, false), f.project, false) {
		if e.Name() == "Describe" {
			describe = append(describe, e.Member)
		}
	}
	if len(describe) != 1 || describe[0] != override {
		t.Fatalf("Describe entries = %v, want only the override", describe)
	}
}

func TestMergeEntriesLeavesInputsAlone(t *testing.T) {
	f := newFixture(t, types.CSharp)
	backing := make([]symbols.Entry, 1, 4)
	backing[0] = symbols.MemberEntry(f.guarded)
	secondary := []symbols.Entry{symbols.MemberEntry(f.secret), symbols.MemberEntry(f.shared)}

	got := mergeEntries(backing, secondary)
	if len(got) != 3 {
		t.Fatalf("merged %d entries", len(got))
	}
	if spare := backing[:2]; spare[1].Member != nil {
		t.Fatalf("merge wrote into the primary slice's spare capacity")
	}
}
