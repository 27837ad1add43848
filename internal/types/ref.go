package types

import (
	"fmt"
	"sync/atomic"
)

// RefKind tags the variant of a Ref.
type RefKind uint8

const (
	RefPrimitive RefKind = iota + 1
	RefNamed
	RefArray
	RefInstance
	RefParam
)

func (k RefKind) String() string {
	switch k {
	case RefPrimitive:
		return "primitive"
	case RefNamed:
		return "named"
	case RefArray:
		return "array"
	case RefInstance:
		return "instance"
	case RefParam:
		return "param"
	default:
		return fmt.Sprintf("RefKind(%d)", k)
	}
}

// Ref is a reference to a type. The set of implementations is closed:
// *Primitive, *Named, *Array, *Instance and *Param.
type Ref interface {
	Kind() RefKind
	String() string
	isRef()
}

// Named refers to a type by qualified name. It is resolved on demand, never
// at construction. A Named built by RefTo is pinned to its declaration.
type Named struct {
	name   string
	pinned *TypeDecl
	memo   atomic.Pointer[namedMemo]
}

// namedMemo caches a lookup result for one table generation.
type namedMemo struct {
	lookup Lookup
	gen    uint64
	decl   *TypeDecl
}

// NewNamed returns a lazy reference to fullName.
func NewNamed(fullName string) *Named {
	if fullName == "" {
		panic("types.NewNamed: empty name")
	}
	return &Named{name: fullName}
}

// RefTo returns a reference pinned to decl.
func RefTo(decl *TypeDecl) *Named {
	if decl == nil {
		panic("types.RefTo: nil declaration")
	}
	return &Named{name: decl.FullName, pinned: decl}
}

func (*Named) Kind() RefKind    { return RefNamed }
func (n *Named) String() string { return n.name }
func (*Named) isRef()           {}

// Name returns the qualified name.
func (n *Named) Name() string { return n.name }

// Pinned returns the declaration the reference was bound to at creation.
func (n *Named) Pinned() (*TypeDecl, bool) { return n.pinned, n.pinned != nil }

func (n *Named) resolve(lookup Lookup) (*TypeDecl, bool) {
	if n.pinned != nil {
		return n.pinned, true
	}
	if lookup == nil {
		return nil, false
	}
	gen := lookup.Generation()
	if m := n.memo.Load(); m != nil && m.lookup == lookup && m.gen == gen {
		return m.decl, m.decl != nil
	}
	decl, ok := lookup.GetType(n.name)
	if !ok {
		decl = nil
	}
	n.memo.Store(&namedMemo{lookup: lookup, gen: gen, decl: decl})
	return decl, ok
}

// Array is an array of Elem with the given rank (1 for T[], 2 for T[,]).
type Array struct {
	Elem Ref
	Rank int
}

// NewArray creates an array reference. A rank below 1 is treated as 1.
func NewArray(elem Ref, rank int) *Array {
	if elem == nil {
		panic("types.NewArray: nil element")
	}
	if rank < 1 {
		rank = 1
	}
	return &Array{Elem: elem, Rank: rank}
}

func (*Array) Kind() RefKind    { return RefArray }
func (a *Array) String() string { return Label(a) }
func (*Array) isRef()           {}

// Instance is a closed generic type: Def applied to Args.
type Instance struct {
	Def  Ref
	Args []Ref
}

// NewInstance creates a generic instantiation. The argument count is not
// checked against the definition's arity.
func NewInstance(def Ref, args ...Ref) *Instance {
	if def == nil {
		panic("types.NewInstance: nil definition")
	}
	return &Instance{Def: def, Args: args}
}

func (*Instance) Kind() RefKind    { return RefInstance }
func (i *Instance) String() string { return Label(i) }
func (*Instance) isRef()           {}

// Param refers to a generic parameter. Bound params carry the declared
// TypeParam; placeholders (stale or undeclared parameters) only carry
// owner kind, position and name.
type Param struct {
	OwnerKind OwnerKind
	Position  int
	Name      string
	param     *TypeParam
}

// ParamRef returns a reference to a declared type parameter.
func ParamRef(tp *TypeParam) *Param {
	if tp == nil {
		panic("types.ParamRef: nil type parameter")
	}
	return &Param{
		OwnerKind: tp.OwnerKind,
		Position:  tp.Position,
		Name:      tp.Name,
		param:     tp,
	}
}

// Placeholder returns an unbound parameter reference.
func Placeholder(owner OwnerKind, position int, name string) *Param {
	return &Param{OwnerKind: owner, Position: position, Name: name}
}

func (*Param) Kind() RefKind    { return RefParam }
func (p *Param) String() string { return p.Name }
func (*Param) isRef()           {}

// TypeParam returns the declared parameter, if bound.
func (p *Param) TypeParam() (*TypeParam, bool) { return p.param, p.param != nil }

// IsPlaceholder reports whether the parameter is unbound.
func (p *Param) IsPlaceholder() bool { return p.param == nil }
