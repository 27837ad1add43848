package symbols

import (
	"errors"
	"testing"

	"codedom/internal/types"
)

func declare(t *testing.T, table *Table, kind types.ClassKind, fullName string) *types.TypeDecl {
	t.Helper()
	decl := types.NewType(kind, fullName, "")
	if _, err := table.Declare(decl); err != nil {
		t.Fatalf("declare %s: %v", fullName, err)
	}
	return decl
}

func TestGetTypeLocalFirst(t *testing.T) {
	first := NewTable("first", Options{})
	second := NewTable("second", Options{})
	project := NewTable("project", Options{})
	project.AddReference(first)
	project.AddReference(second)

	fromSecond := declare(t, second, types.KindClass, "Acme.Widget")
	fromFirst := declare(t, first, types.KindClass, "Acme.Widget")

	got, ok := project.GetType("Acme.Widget")
	if !ok || got != fromFirst {
		t.Fatalf("expected first reference to win, got %v", got)
	}

	local := declare(t, project, types.KindClass, "Acme.Widget")
	got, ok = project.GetType("Acme.Widget")
	if !ok || got != local {
		t.Fatalf("expected local declaration to shadow references, got %v", got)
	}
	if got, _ := second.GetType("Acme.Widget"); got != fromSecond {
		t.Fatalf("second table must see its own declaration")
	}

	conflicts := project.Conflicts()
	if len(conflicts) != 1 || conflicts[0].Name != "Acme.Widget" || len(conflicts[0].Tables) != 3 {
		t.Fatalf("unexpected conflicts %+v", conflicts)
	}
	if conflicts[0].Tables[0] != "project" || conflicts[0].Tables[1] != "first" {
		t.Fatalf("conflict tables out of lookup order: %v", conflicts[0].Tables)
	}
}

func TestReferencesAreNotTransitive(t *testing.T) {
	core := NewTable("core", Options{})
	lib := NewTable("lib", Options{})
	project := NewTable("project", Options{})
	lib.AddReference(core)
	project.AddReference(lib)
	declare(t, core, types.KindClass, "Core.Thing")

	if _, ok := lib.GetType("Core.Thing"); !ok {
		t.Fatalf("lib should see its direct reference")
	}
	if _, ok := project.GetType("Core.Thing"); ok {
		t.Fatalf("project must not see references of references")
	}
}

func TestGenerationTracksReferences(t *testing.T) {
	lib := NewTable("lib", Options{})
	project := NewTable("project", Options{})
	g0 := project.Generation()
	project.AddReference(lib)
	g1 := project.Generation()
	if g1 <= g0 {
		t.Fatalf("AddReference must bump generation")
	}
	declare(t, lib, types.KindClass, "Lib.A")
	if project.Generation() <= g1 {
		t.Fatalf("declaration in a reference must bump generation")
	}

	ref := types.NewNamed("Lib.B")
	if _, ok := types.Resolve(ref, project); ok {
		t.Fatalf("Lib.B does not exist yet")
	}
	b := declare(t, lib, types.KindClass, "Lib.B")
	if got, ok := types.Resolve(ref, project); !ok || got != b {
		t.Fatalf("memo must be refreshed after the reference grew")
	}
}

func TestDeclareRegistersNestedTypes(t *testing.T) {
	table := NewTable("asm", Options{})
	outer := types.NewType(types.KindClass, "Acme.Outer", "")
	outer.AddNested(types.NewType(types.KindClass, "Acme.Outer.Inner", ""))
	if _, err := table.Declare(outer); err != nil {
		t.Fatalf("declare: %v", err)
	}
	inner, ok := table.GetType("Acme.Outer.Inner")
	if !ok || inner.Outer() != outer {
		t.Fatalf("nested type not registered")
	}
	if inner.Scope != "asm" {
		t.Fatalf("nested scope = %q", inner.Scope)
	}
	members := table.NamespaceMembers("Acme")
	if len(members) != 1 || members[0].Type != outer {
		t.Fatalf("namespace should list only the top-level type, got %v", members)
	}

	_, err := table.Declare(types.NewType(types.KindClass, "Acme.Outer", ""))
	if !errors.Is(err, ErrDuplicateType) {
		t.Fatalf("expected ErrDuplicateType, got %v", err)
	}
}

func TestNamespaceMembersMerge(t *testing.T) {
	lib := NewTable("lib", Options{})
	project := NewTable("project", Options{})
	project.AddReference(lib)
	declare(t, project, types.KindClass, "System.Widget")
	declare(t, lib, types.KindClass, "System.Collections.Generic.List")
	declare(t, lib, types.KindClass, "System.Object")
	declare(t, lib, types.KindClass, "System.Widget")
	declare(t, project, types.KindClass, "System.Collections.Stack")

	if !project.NamespaceExists("") || !project.NamespaceExists("System.Collections.Generic") {
		t.Fatalf("expected namespaces to exist")
	}
	if project.NamespaceExists("System.Coll") {
		t.Fatalf("partial namespace must not exist")
	}

	got := project.NamespaceMembers("System")
	want := []string{"Collections", "Widget", "Object"}
	if len(got) != len(want) {
		t.Fatalf("NamespaceMembers = %v", got)
	}
	for i, e := range got {
		if e.Name() != want[i] {
			t.Fatalf("entry %d = %s, want %s", i, e.Name(), want[i])
		}
	}
	if got[0].Kind != EntryNamespace || got[0].Namespace != "System.Collections" {
		t.Fatalf("expected namespace entry first, got %v", got[0])
	}
	if got[1].Type.Scope != "project" {
		t.Fatalf("local Widget must win over the referenced one")
	}
}

func TestCaseInsensitiveLookup(t *testing.T) {
	vb := NewTable("vbproj", Options{Language: types.VBNet})
	cs := NewTable("csproj", Options{})
	decl := declare(t, vb, types.KindClass, "Acme.Widget")
	declare(t, cs, types.KindClass, "Acme.Widget")

	if got, ok := vb.GetType("acme.widget"); !ok || got != decl {
		t.Fatalf("VB lookup should fold case")
	}
	if _, ok := cs.GetType("acme.widget"); ok {
		t.Fatalf("C# lookup must be case-sensitive")
	}
	if !vb.NamespaceExists("ACME") {
		t.Fatalf("VB namespace lookup should fold case")
	}
}

func TestEntrySame(t *testing.T) {
	a := types.NewType(types.KindClass, "A", "")
	b := types.NewType(types.KindClass, "A", "")
	if !TypeEntry(a).Same(TypeEntry(a)) || TypeEntry(a).Same(TypeEntry(b)) {
		t.Fatalf("type entries compare by identity")
	}
	if !NamespaceEntry("System").Same(NamespaceEntry("System")) {
		t.Fatalf("namespace entries compare by name")
	}
	if NamespaceEntry("System.IO").Name() != "IO" {
		t.Fatalf("namespace entry name should be the last segment")
	}
}
