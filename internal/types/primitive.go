package types

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// PrimitiveName enumerates the canonical primitive types.
type PrimitiveName uint8

const (
	PrimObject PrimitiveName = iota
	PrimInt32
	PrimString
	PrimBoolean
	PrimType
	PrimVoid
	PrimArray

	numPrimitives
)

var primitiveInfo = [numPrimitives]struct {
	canonical string
	fullName  string
	keyword   string
}{
	PrimObject:  {"object", "System.Object", "object"},
	PrimInt32:   {"int32", "System.Int32", "int"},
	PrimString:  {"string", "System.String", "string"},
	PrimBoolean: {"boolean", "System.Boolean", "bool"},
	PrimType:    {"type", "System.Type", "Type"},
	PrimVoid:    {"void", "System.Void", "void"},
	PrimArray:   {"array", "System.Array", "Array"},
}

func (p PrimitiveName) String() string {
	if p >= numPrimitives {
		return fmt.Sprintf("PrimitiveName(%d)", p)
	}
	return primitiveInfo[p].canonical
}

// FullName returns the qualified name of the declaration backing p.
func (p PrimitiveName) FullName() string {
	if p >= numPrimitives {
		return ""
	}
	return primitiveInfo[p].fullName
}

// ParsePrimitive accepts canonical names ("int32"), keywords ("int",
// "bool") and qualified names ("System.Int32").
func ParsePrimitive(s string) (PrimitiveName, bool) {
	for i := range numPrimitives {
		info := primitiveInfo[i]
		if s == info.canonical || s == info.fullName || strings.EqualFold(s, info.keyword) {
			return i, true
		}
	}
	return 0, false
}

// Primitive is a reference to one of the canonical primitive types.
// Identity is name based: two Primitives with the same name are the same
// type even if they came from different registries.
type Primitive struct {
	name PrimitiveName
}

func (*Primitive) Kind() RefKind    { return RefPrimitive }
func (p *Primitive) String() string { return p.name.FullName() }
func (*Primitive) isRef()           {}

// Name returns the canonical primitive name.
func (p *Primitive) Name() PrimitiveName { return p.name }

// Primitives is a memoizing registry with one cell per primitive. Cells are
// filled on first use by compare-and-swap, so concurrent first calls agree on
// one instance without locking.
type Primitives struct {
	cells [numPrimitives]atomic.Pointer[Primitive]
}

// NewPrimitives returns an empty registry.
func NewPrimitives() *Primitives {
	return &Primitives{}
}

// Get returns the registry's instance for name.
func (r *Primitives) Get(name PrimitiveName) *Primitive {
	if name >= numPrimitives {
		panic(fmt.Sprintf("types.Primitives.Get: unknown primitive %d", name))
	}
	cell := &r.cells[name]
	if p := cell.Load(); p != nil {
		return p
	}
	fresh := &Primitive{name: name}
	if cell.CompareAndSwap(nil, fresh) {
		return fresh
	}
	return cell.Load()
}

// Lookup returns the registry's instance for a primitive spelled as accepted
// by ParsePrimitive.
func (r *Primitives) Lookup(s string) (*Primitive, bool) {
	name, ok := ParsePrimitive(s)
	if !ok {
		return nil, false
	}
	return r.Get(name), true
}

func (r *Primitives) ObjectRef() *Primitive  { return r.Get(PrimObject) }
func (r *Primitives) Int32Ref() *Primitive   { return r.Get(PrimInt32) }
func (r *Primitives) StringRef() *Primitive  { return r.Get(PrimString) }
func (r *Primitives) BooleanRef() *Primitive { return r.Get(PrimBoolean) }
func (r *Primitives) TypeRef() *Primitive    { return r.Get(PrimType) }
func (r *Primitives) VoidRef() *Primitive    { return r.Get(PrimVoid) }
func (r *Primitives) ArrayRef() *Primitive   { return r.Get(PrimArray) }
