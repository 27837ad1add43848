package types

// Lookup is the view of a symbol table that references resolve against.
// Implementations must be comparable (pointer types) because Named memoizes
// per Lookup.
type Lookup interface {
	// GetType returns the declaration of a fully qualified name.
	GetType(fullName string) (*TypeDecl, bool)
	// Generation changes whenever a lookup result may change.
	Generation() uint64
}

// Resolve returns the declaration ref points to. Arrays resolve through
// their element; instances through their generic definition; bound generic
// parameters to their first constraint, or System.Object without one.
// Placeholders and names missing from lookup resolve to nothing.
func Resolve(ref Ref, lookup Lookup) (*TypeDecl, bool) {
	switch r := ref.(type) {
	case nil:
		return nil, false
	case *Primitive:
		if lookup == nil {
			return nil, false
		}
		return lookup.GetType(r.name.FullName())
	case *Named:
		return r.resolve(lookup)
	case *Array:
		return Resolve(r.Elem, lookup)
	case *Instance:
		return Resolve(r.Def, lookup)
	case *Param:
		if r.param == nil {
			return nil, false
		}
		if len(r.param.Constraints) > 0 {
			return Resolve(r.param.Constraints[0], lookup)
		}
		if lookup == nil {
			return nil, false
		}
		return lookup.GetType(PrimObject.FullName())
	default:
		return nil, false
	}
}

// MemberSource returns the declaration whose members are visible on a value
// of type ref. It differs from Resolve only for arrays, whose members come
// from System.Array rather than from the element type.
func MemberSource(ref Ref, lookup Lookup) (*TypeDecl, bool) {
	if _, ok := ref.(*Array); ok {
		if lookup == nil {
			return nil, false
		}
		return lookup.GetType(PrimArray.FullName())
	}
	return Resolve(ref, lookup)
}

// QualifiedName returns the type name a reference denotes without resolving
// it: primitives and named refs map to their qualified name, instances to
// their definition's name. Arrays and parameters have none.
func QualifiedName(ref Ref) (string, bool) {
	switch r := ref.(type) {
	case *Primitive:
		return r.name.FullName(), true
	case *Named:
		return r.name, true
	case *Instance:
		return QualifiedName(r.Def)
	default:
		return "", false
	}
}

// Equal reports whether a and b describe the same type. Primitives and named
// references are equal when their qualified names match, so
// Primitive(int32) equals Named("System.Int32").
func Equal(a, b Ref) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Primitive, *Named:
		switch b.(type) {
		case *Primitive, *Named:
			an, _ := QualifiedName(a)
			bn, _ := QualifiedName(b)
			return an == bn
		}
		return false
	case *Array:
		y, ok := b.(*Array)
		return ok && x.Rank == y.Rank && Equal(x.Elem, y.Elem)
	case *Instance:
		y, ok := b.(*Instance)
		if !ok || len(x.Args) != len(y.Args) || !Equal(x.Def, y.Def) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Param:
		y, ok := b.(*Param)
		return ok && x.OwnerKind == y.OwnerKind && x.Position == y.Position && x.Name == y.Name
	}
	return false
}

// Substitute replaces type parameters owned by owner with the matching
// entry of args. It is used to type members accessed through an instance,
// e.g. List<string>.Item yields string instead of T.
func Substitute(ref Ref, owner *TypeDecl, args []Ref) Ref {
	if owner == nil || len(args) == 0 {
		return ref
	}
	switch r := ref.(type) {
	case *Param:
		if r.OwnerKind != OwnerType || r.Position >= len(args) {
			return r
		}
		if tp, ok := r.TypeParam(); ok {
			if declaring := tp.OwnerType(); declaring != nil && !declaring.IsSame(owner) {
				return r
			}
		}
		return args[r.Position]
	case *Array:
		elem := Substitute(r.Elem, owner, args)
		if elem == r.Elem {
			return r
		}
		return NewArray(elem, r.Rank)
	case *Instance:
		changed := false
		out := make([]Ref, len(r.Args))
		for i, arg := range r.Args {
			out[i] = Substitute(arg, owner, args)
			changed = changed || out[i] != arg
		}
		if !changed {
			return r
		}
		return NewInstance(r.Def, out...)
	default:
		return ref
	}
}
