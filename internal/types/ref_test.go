package types

import (
	"sync"
	"testing"
)

func TestPrimitivesConcurrentIdentity(t *testing.T) {
	reg := NewPrimitives()
	const n = 64
	got := make([]*Primitive, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			got[i] = reg.Get(PrimInt32)
		}()
	}
	close(start)
	wg.Wait()
	for i, p := range got {
		if p != got[0] {
			t.Fatalf("caller %d observed a different instance", i)
		}
		if p.Name() != PrimInt32 || p.String() != "System.Int32" {
			t.Fatalf("caller %d observed %v", i, p)
		}
	}
}

func TestParsePrimitive(t *testing.T) {
	cases := map[string]PrimitiveName{
		"int32":         PrimInt32,
		"int":           PrimInt32,
		"System.String": PrimString,
		"bool":          PrimBoolean,
		"void":          PrimVoid,
		"array":         PrimArray,
	}
	for in, want := range cases {
		got, ok := ParsePrimitive(in)
		if !ok || got != want {
			t.Fatalf("ParsePrimitive(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParsePrimitive("System.Int64"); ok {
		t.Fatalf("System.Int64 is not a canonical primitive")
	}
}

func TestNamedResolvesLazilyAndTracksGeneration(t *testing.T) {
	lookup := newMapLookup()
	ref := NewNamed("Acme.Widget")
	if lookup.calls.Load() != 0 {
		t.Fatalf("construction must not touch the lookup")
	}

	if _, ok := Resolve(ref, lookup); ok {
		t.Fatalf("expected miss before declaration")
	}
	if _, ok := Resolve(ref, lookup); ok {
		t.Fatalf("expected memoized miss")
	}
	if calls := lookup.calls.Load(); calls != 1 {
		t.Fatalf("expected 1 lookup call, got %d", calls)
	}

	widget := NewType(KindClass, "Acme.Widget", "acme")
	lookup.add(widget)
	decl, ok := Resolve(ref, lookup)
	if !ok || decl != widget {
		t.Fatalf("expected widget after generation bump, got %v %v", decl, ok)
	}
}

func TestPinnedNamedSkipsLookup(t *testing.T) {
	widget := NewType(KindClass, "Acme.Widget", "acme")
	lookup := newMapLookup()
	decl, ok := Resolve(widget.DefaultRef(), lookup)
	if !ok || decl != widget || lookup.calls.Load() != 0 {
		t.Fatalf("pinned ref must resolve without lookup")
	}
}

func TestArrayAndInstanceResolveThroughInnerRef(t *testing.T) {
	reg := NewPrimitives()
	int32Decl := NewType(KindStruct, "System.Int32", "mscorlib")
	list := NewType(KindClass, "System.Collections.Generic.List", "mscorlib")
	list.AddTypeParam("T")
	lookup := newMapLookup(int32Decl, list)

	arr := NewArray(reg.Int32Ref(), 1)
	if decl, ok := Resolve(arr, lookup); !ok || decl != int32Decl {
		t.Fatalf("array should resolve through element, got %v", decl)
	}
	inst := NewInstance(NewNamed(list.FullName), reg.StringRef())
	if decl, ok := Resolve(inst, lookup); !ok || decl != list {
		t.Fatalf("instance should resolve to its definition, got %v", decl)
	}
}

func TestParamResolution(t *testing.T) {
	object := NewType(KindClass, "System.Object", "mscorlib")
	comparable := NewType(KindInterface, "System.IComparable", "mscorlib")
	box := NewType(KindClass, "Acme.Box", "acme")
	plain := box.AddTypeParam("T")
	bounded := box.AddTypeParam("U")
	bounded.Constraints = append(bounded.Constraints, comparable.DefaultRef())
	lookup := newMapLookup(object, comparable, box)

	if decl, ok := Resolve(ParamRef(plain), lookup); !ok || decl != object {
		t.Fatalf("unconstrained parameter should resolve to object, got %v", decl)
	}
	if decl, ok := Resolve(ParamRef(bounded), lookup); !ok || decl != comparable {
		t.Fatalf("constrained parameter should resolve to constraint, got %v", decl)
	}
	if _, ok := Resolve(Placeholder(OwnerType, 0, "T"), lookup); ok {
		t.Fatalf("placeholder must not resolve")
	}
}

func TestTypeParamAtChecksName(t *testing.T) {
	list := NewType(KindClass, "System.Collections.Generic.List", "mscorlib")
	list.AddTypeParam("T")
	if _, ok := list.TypeParamAt(0, "T"); !ok {
		t.Fatalf("expected T at position 0")
	}
	if _, ok := list.TypeParamAt(0, "TItem"); ok {
		t.Fatalf("name mismatch must not match")
	}
	if _, ok := list.TypeParamAt(1, "T"); ok {
		t.Fatalf("out of range position must not match")
	}
}

func TestEqual(t *testing.T) {
	reg := NewPrimitives()
	cases := []struct {
		name string
		a, b Ref
		want bool
	}{
		{"primitive vs named", reg.Int32Ref(), NewNamed("System.Int32"), true},
		{"array rank", NewArray(reg.Int32Ref(), 1), NewArray(NewNamed("System.Int32"), 1), true},
		{"array rank differs", NewArray(reg.Int32Ref(), 1), NewArray(reg.Int32Ref(), 2), false},
		{"instance args", NewInstance(NewNamed("L"), reg.StringRef()), NewInstance(NewNamed("L"), reg.StringRef()), true},
		{"instance arg differs", NewInstance(NewNamed("L"), reg.StringRef()), NewInstance(NewNamed("L"), reg.Int32Ref()), false},
		{"param", Placeholder(OwnerType, 0, "T"), Placeholder(OwnerType, 0, "T"), true},
		{"param owner", Placeholder(OwnerType, 0, "T"), Placeholder(OwnerMethod, 0, "T"), false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: Equal = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSubstitute(t *testing.T) {
	reg := NewPrimitives()
	list := NewType(KindClass, "System.Collections.Generic.List", "mscorlib")
	tp := list.AddTypeParam("T")
	other := NewType(KindClass, "Acme.Other", "acme")
	otherT := other.AddTypeParam("T")

	args := []Ref{reg.StringRef()}
	if got := Substitute(ParamRef(tp), list, args); !Equal(got, reg.StringRef()) {
		t.Fatalf("T should become string, got %v", got)
	}
	arr := Substitute(NewArray(ParamRef(tp), 1), list, args)
	if !Equal(arr, NewArray(reg.StringRef(), 1)) {
		t.Fatalf("T[] should become string[], got %v", Label(arr))
	}
	if got := Substitute(ParamRef(otherT), list, args); got.Kind() != RefParam {
		t.Fatalf("parameters of other types must stay, got %v", got)
	}
}

func TestLabel(t *testing.T) {
	reg := NewPrimitives()
	dict := NewInstance(NewNamed("System.Collections.Generic.Dictionary"),
		reg.StringRef(), NewArray(reg.Int32Ref(), 2))
	if got, want := Label(dict), "System.Collections.Generic.Dictionary<string, int[,]>"; got != want {
		t.Fatalf("Label = %q, want %q", got, want)
	}
	if got := Label(NewNamed("System.Boolean")); got != "bool" {
		t.Fatalf("Label(System.Boolean) = %q", got)
	}
}
