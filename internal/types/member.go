package types

import (
	"fmt"
	"strings"
	"weak"
)

// MemberKind classifies a Member.
type MemberKind uint8

const (
	MemberField MemberKind = iota + 1
	MemberProperty
	MemberMethod
	MemberEvent
	// MemberLocal is a local variable or parameter of a method body.
	MemberLocal
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberProperty:
		return "property"
	case MemberMethod:
		return "method"
	case MemberEvent:
		return "event"
	case MemberLocal:
		return "local"
	default:
		return fmt.Sprintf("MemberKind(%d)", k)
	}
}

// ParseMemberKind parses the lower-case kind keyword of a declared member.
func ParseMemberKind(s string) (MemberKind, error) {
	switch strings.ToLower(s) {
	case "field", "const":
		return MemberField, nil
	case "property":
		return MemberProperty, nil
	case "method", "sub", "function":
		return MemberMethod, nil
	case "event":
		return MemberEvent, nil
	default:
		return 0, fmt.Errorf("unknown member kind %q", s)
	}
}

// Parameter is one formal parameter of a method.
type Parameter struct {
	Name   string
	Type   Ref
	Region Region
}

// Signature holds the method-only parts of a Member.
type Signature struct {
	Params     []Parameter
	TypeParams []*TypeParam
}

// Member is a field, property, method, event or local variable.
type Member struct {
	Kind      MemberKind
	Name      string
	Modifiers Modifiers
	Type      Ref // value type, or return type for methods
	Region    Region
	Signature *Signature // methods only

	declaring weak.Pointer[TypeDecl]
}

// NewMember creates a member of the given kind. Methods get an empty
// signature.
func NewMember(kind MemberKind, name string, mods Modifiers, typ Ref) *Member {
	m := &Member{
		Kind:      kind,
		Name:      name,
		Modifiers: mods,
		Type:      typ,
	}
	if kind == MemberMethod {
		m.Signature = &Signature{}
	}
	return m
}

// NewLocal creates a local variable or parameter for a method body.
func NewLocal(name string, typ Ref, region Region) *Member {
	return &Member{
		Kind:   MemberLocal,
		Name:   name,
		Type:   typ,
		Region: region,
	}
}

// DeclaringType returns the type that declares m, or nil for locals and for
// members whose table has been dropped.
func (m *Member) DeclaringType() *TypeDecl {
	return m.declaring.Value()
}

// IsStatic reports whether the member is static. Constants count as static.
func (m *Member) IsStatic() bool {
	return m.Modifiers&(ModStatic|ModConst) != 0
}

// IsConstructor reports whether m is an instance or type constructor.
func (m *Member) IsConstructor() bool {
	return m.Kind == MemberMethod && (m.Name == ".ctor" || m.Name == ".cctor" || m.Name == "#ctor")
}

// AddParam appends a parameter. Only valid on methods.
func (m *Member) AddParam(name string, typ Ref) {
	m.mustBeMethod("AddParam")
	m.Signature.Params = append(m.Signature.Params, Parameter{Name: name, Type: typ})
}

// AddTypeParam appends a method generic parameter.
func (m *Member) AddTypeParam(name string) *TypeParam {
	m.mustBeMethod("AddTypeParam")
	tp := &TypeParam{
		Name:        name,
		Position:    len(m.Signature.TypeParams),
		OwnerKind:   OwnerMethod,
		ownerMethod: weak.Make(m),
	}
	m.Signature.TypeParams = append(m.Signature.TypeParams, tp)
	return tp
}

// ParamCount returns the number of formal parameters (0 for non-methods).
func (m *Member) ParamCount() int {
	if m.Signature == nil {
		return 0
	}
	return len(m.Signature.Params)
}

func (m *Member) mustBeMethod(op string) {
	if m.Kind != MemberMethod {
		panic(fmt.Sprintf("types.%s: %s %q is not a method", op, m.Kind, m.Name))
	}
	if m.Signature == nil {
		m.Signature = &Signature{}
	}
}

func (m *Member) String() string {
	owner := ""
	if decl := m.DeclaringType(); decl != nil {
		owner = decl.FullName + "."
	}
	return fmt.Sprintf("%s %s%s", m.Kind, owner, m.Name)
}
