package types

import "weak"

// OwnerKind tells whether a generic parameter belongs to a type or a method.
type OwnerKind uint8

const (
	OwnerType OwnerKind = iota + 1
	OwnerMethod
)

func (k OwnerKind) String() string {
	if k == OwnerMethod {
		return "method"
	}
	return "type"
}

// TypeParam is a declared generic parameter.
type TypeParam struct {
	Name        string
	Position    int
	OwnerKind   OwnerKind
	Constraints []Ref

	ownerType   weak.Pointer[TypeDecl]
	ownerMethod weak.Pointer[Member]
}

// OwnerType returns the declaring type for type-owned parameters.
func (tp *TypeParam) OwnerType() *TypeDecl { return tp.ownerType.Value() }

// OwnerMethod returns the declaring method for method-owned parameters.
func (tp *TypeParam) OwnerMethod() *Member { return tp.ownerMethod.Value() }

// NewMethodTypeParam creates the ephemeral placeholder used when a reflected
// method's generic parameter is referenced before (or without) the method
// declaring it in the symbol table.
func NewMethodTypeParam(method *Member, position int, name string) *TypeParam {
	tp := &TypeParam{
		Name:      name,
		Position:  position,
		OwnerKind: OwnerMethod,
	}
	if method != nil {
		tp.ownerMethod = weak.Make(method)
	}
	return tp
}
