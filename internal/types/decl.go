package types

import (
	"fmt"
	"strings"
	"weak"
)

// ClassKind classifies a type declaration.
type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
	KindStruct
	KindEnum
	KindDelegate
)

func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindDelegate:
		return "delegate"
	default:
		return fmt.Sprintf("ClassKind(%d)", k)
	}
}

// ParseClassKind parses the lower-case kind keyword.
func ParseClassKind(s string) (ClassKind, error) {
	switch strings.ToLower(s) {
	case "", "class":
		return KindClass, nil
	case "interface":
		return KindInterface, nil
	case "struct", "structure":
		return KindStruct, nil
	case "enum":
		return KindEnum, nil
	case "delegate":
		return KindDelegate, nil
	default:
		return KindClass, fmt.Errorf("unknown type kind %q", s)
	}
}

// Region is a source range with 1-based lines and columns.
// The zero Region means "no source region".
type Region struct {
	BeginLine, BeginColumn int
	EndLine, EndColumn     int
}

// IsEmpty reports whether the region carries no position.
func (r Region) IsEmpty() bool { return r.BeginLine <= 0 }

// CompilationUnit identifies the parsed file a declaration came from.
type CompilationUnit struct {
	FileName string
}

// TypeDecl is a named type: a class, interface, struct, enum or delegate.
//
// Declarations are built once by a table builder (source unit loader or the
// reflection bridge) and are not modified after the owning table is
// published.
type TypeDecl struct {
	Name      string // short name without arity
	Namespace string
	FullName  string // Namespace[.Outer].Name
	Kind      ClassKind
	Modifiers Modifiers
	// Scope names the assembly or project that owns the declaration; two
	// declarations with the same Scope see each other's internal members.
	Scope string

	Bases      []Ref // classes first, then interfaces
	TypeParams []*TypeParam

	Methods    []*Member
	Events     []*Member
	Fields     []*Member
	Properties []*Member
	Nested     []*TypeDecl

	Unit   *CompilationUnit // nil for reflected declarations
	Region Region

	outer weak.Pointer[TypeDecl]
	self  *Named
}

// NewType creates a declaration from its full dotted name. The namespace is
// everything before the last dot.
func NewType(kind ClassKind, fullName, scope string) *TypeDecl {
	if fullName == "" {
		panic("types.NewType: empty name")
	}
	ns, name := SplitName(fullName)
	t := &TypeDecl{
		Name:      name,
		Namespace: ns,
		FullName:  fullName,
		Kind:      kind,
		Scope:     scope,
	}
	t.self = RefTo(t)
	return t
}

// SplitName splits "A.B.C" into ("A.B", "C").
func SplitName(fullName string) (string, string) {
	if i := strings.LastIndexByte(fullName, '.'); i >= 0 {
		return fullName[:i], fullName[i+1:]
	}
	return "", fullName
}

// AddMember attaches m to t and records t as its declaring type.
// Locals cannot be attached to a type.
func (t *TypeDecl) AddMember(m *Member) *Member {
	if m == nil {
		panic("types.AddMember: nil member")
	}
	m.declaring = weak.Make(t)
	switch m.Kind {
	case MemberMethod:
		t.Methods = append(t.Methods, m)
	case MemberEvent:
		t.Events = append(t.Events, m)
	case MemberField:
		t.Fields = append(t.Fields, m)
	case MemberProperty:
		t.Properties = append(t.Properties, m)
	default:
		panic(fmt.Sprintf("types.AddMember: %s cannot be a type member", m.Kind))
	}
	return m
}

// AddNested attaches inner as a nested type of t. The nested type's
// namespace stays the namespace of the outermost type.
func (t *TypeDecl) AddNested(inner *TypeDecl) *TypeDecl {
	if inner == nil {
		panic("types.AddNested: nil type")
	}
	inner.outer = weak.Make(t)
	inner.Namespace = t.Namespace
	t.Nested = append(t.Nested, inner)
	return inner
}

// AddTypeParam appends a generic parameter at the next position.
func (t *TypeDecl) AddTypeParam(name string) *TypeParam {
	tp := &TypeParam{
		Name:      name,
		Position:  len(t.TypeParams),
		OwnerKind: OwnerType,
		ownerType: weak.Make(t),
	}
	t.TypeParams = append(t.TypeParams, tp)
	return tp
}

// AddBase appends a base type reference.
func (t *TypeDecl) AddBase(ref Ref) {
	if ref == nil {
		panic("types.AddBase: nil ref")
	}
	t.Bases = append(t.Bases, ref)
}

// Outer returns the enclosing type of a nested declaration.
func (t *TypeDecl) Outer() *TypeDecl {
	return t.outer.Value()
}

// TypeParamAt returns the generic parameter at position when its name
// matches. A mismatch means the caller's view of the declaration is stale.
func (t *TypeDecl) TypeParamAt(position int, name string) (*TypeParam, bool) {
	if position < 0 || position >= len(t.TypeParams) {
		return nil, false
	}
	tp := t.TypeParams[position]
	if tp.Name != name {
		return nil, false
	}
	return tp, true
}

// DefaultRef returns the reference that denotes t itself.
func (t *TypeDecl) DefaultRef() Ref {
	if t.self == nil {
		return RefTo(t)
	}
	return t.self
}

// Members returns every member in completion order: methods, events,
// fields, then properties.
func (t *TypeDecl) Members() []*Member {
	out := make([]*Member, 0, len(t.Methods)+len(t.Events)+len(t.Fields)+len(t.Properties))
	out = append(out, t.Methods...)
	out = append(out, t.Events...)
	out = append(out, t.Fields...)
	out = append(out, t.Properties...)
	return out
}

// MembersNamed returns members with the given name in completion order.
func (t *TypeDecl) MembersNamed(name string, fold bool) []*Member {
	var out []*Member
	for _, m := range t.Members() {
		if sameName(m.Name, name, fold) {
			out = append(out, m)
		}
	}
	return out
}

// NestedNamed returns the nested type with the given short name.
func (t *TypeDecl) NestedNamed(name string, fold bool) (*TypeDecl, bool) {
	for _, inner := range t.Nested {
		if sameName(inner.Name, name, fold) {
			return inner, true
		}
	}
	return nil, false
}

// IsSame reports whether both declarations denote the same type. Identity is
// name based so declarations from different table generations compare equal.
func (t *TypeDecl) IsSame(other *TypeDecl) bool {
	if t == nil || other == nil {
		return false
	}
	return t == other || t.FullName == other.FullName
}

func (t *TypeDecl) String() string {
	return t.Kind.String() + " " + t.FullName
}

func sameName(a, b string, fold bool) bool {
	if fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}
