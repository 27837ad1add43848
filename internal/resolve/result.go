// Package resolve describes what an expression denotes and answers
// completion and go-to-definition requests for it.
package resolve

import (
	"fmt"
	"weak"

	"codedom/internal/types"
)

// Result is the outcome of resolving one expression. The set of
// implementations is closed: *NamespaceResult, *TypeResult, *MemberResult,
// *LocalResult, *MethodGroupResult and *MixedResult.
//
// Every result remembers the lexical context it was resolved in. The
// references are weak: a result never keeps a dropped table alive.
type Result interface {
	CallingClass() *types.TypeDecl
	CallingMember() *types.Member
	String() string
	isResult()
}

type calling struct {
	class  weak.Pointer[types.TypeDecl]
	member weak.Pointer[types.Member]
}

func newCalling(class *types.TypeDecl, member *types.Member) calling {
	var c calling
	if class != nil {
		c.class = weak.Make(class)
	}
	if member != nil {
		c.member = weak.Make(member)
	}
	return c
}

// CallingClass returns the type enclosing the expression, or nil.
func (c calling) CallingClass() *types.TypeDecl { return c.class.Value() }

// CallingMember returns the member enclosing the expression, or nil.
func (c calling) CallingMember() *types.Member { return c.member.Value() }

func (calling) isResult() {}

// NamespaceResult is a namespace name such as "System.Collections".
type NamespaceResult struct {
	calling
	Name string
}

// NewNamespace returns a namespace result.
func NewNamespace(class *types.TypeDecl, member *types.Member, name string) *NamespaceResult {
	return &NamespaceResult{calling: newCalling(class, member), Name: name}
}

func (r *NamespaceResult) String() string { return "namespace " + r.Name }

// TypeResult is the name of a type. Completion on it lists static members.
type TypeResult struct {
	calling
	Decl *types.TypeDecl // nil when the type is not declared anywhere
	Type types.Ref
}

// NewType returns a type result. typ defaults to the declaration's own
// reference; at least one of decl and typ is required.
func NewType(class *types.TypeDecl, member *types.Member, decl *types.TypeDecl, typ types.Ref) *TypeResult {
	if typ == nil {
		if decl == nil {
			panic("resolve.NewType: neither declaration nor type given")
		}
		typ = decl.DefaultRef()
	}
	return &TypeResult{calling: newCalling(class, member), Decl: decl, Type: typ}
}

func (r *TypeResult) String() string { return "type " + types.Label(r.Type) }

// MemberResult is a field, property, event or method of some type.
type MemberResult struct {
	calling
	Member *types.Member
	// Through is the type the member was accessed through, e.g.
	// List<string> for list.Item. Nil when accessed without a receiver.
	Through types.Ref
}

// NewMember returns a member result.
func NewMember(class *types.TypeDecl, member *types.Member, resolved *types.Member, through types.Ref) *MemberResult {
	if resolved == nil {
		panic("resolve.NewMember: nil member")
	}
	return &MemberResult{calling: newCalling(class, member), Member: resolved, Through: through}
}

// Type returns the member's declared type.
func (r *MemberResult) Type() types.Ref { return r.Member.Type }

func (r *MemberResult) String() string { return r.Member.Kind.String() + " " + types.MemberLabel(r.Member) }

// LocalResult is a local variable or a parameter of the calling member.
type LocalResult struct {
	calling
	Field       *types.Member
	IsParameter bool
}

// NewLocal returns a local result. The calling class is the declaring type
// of callingMember.
func NewLocal(callingMember *types.Member, field *types.Member, isParameter bool) *LocalResult {
	if callingMember == nil {
		panic("resolve.NewLocal: nil calling member")
	}
	if field == nil {
		panic("resolve.NewLocal: nil field")
	}
	return &LocalResult{
		calling:     newCalling(callingMember.DeclaringType(), callingMember),
		Field:       field,
		IsParameter: isParameter,
	}
}

// Type returns the variable's declared type.
func (r *LocalResult) Type() types.Ref { return r.Field.Type }

func (r *LocalResult) String() string {
	kind := "local"
	if r.IsParameter {
		kind = "parameter"
	}
	return fmt.Sprintf("%s %s : %s", kind, r.Field.Name, types.Label(r.Field.Type))
}

// MethodGroupResult is a method name without arguments, so no overload
// is chosen yet ("Console.WriteLine").
type MethodGroupResult struct {
	calling
	Containing types.Ref
	Name       string
}

// NewMethodGroup returns a method group result.
func NewMethodGroup(class *types.TypeDecl, member *types.Member, containing types.Ref, name string) *MethodGroupResult {
	if containing == nil {
		panic("resolve.NewMethodGroup: nil containing type")
	}
	if name == "" {
		panic("resolve.NewMethodGroup: empty name")
	}
	return &MethodGroupResult{calling: newCalling(class, member), Containing: containing, Name: name}
}

func (r *MethodGroupResult) String() string {
	return "method group " + types.Label(r.Containing) + "." + r.Name
}

// MixedResult is an expression with two readings, e.g. "Size" inside a
// class that has a Size property and can also see a Size type.
type MixedResult struct {
	calling
	Primary   Result
	Secondary Result
}

// NewMixed combines two readings. Neither may be nil or itself mixed. The
// calling context is taken from primary.
func NewMixed(primary, secondary Result) *MixedResult {
	if primary == nil || secondary == nil {
		panic("resolve.NewMixed: nil branch")
	}
	if _, ok := primary.(*MixedResult); ok {
		panic("resolve.NewMixed: nested mixed result")
	}
	if _, ok := secondary.(*MixedResult); ok {
		panic("resolve.NewMixed: nested mixed result")
	}
	return &MixedResult{
		calling:   newCalling(primary.CallingClass(), primary.CallingMember()),
		Primary:   primary,
		Secondary: secondary,
	}
}

func (r *MixedResult) String() string {
	return "mixed(" + r.Primary.String() + " | " + r.Secondary.String() + ")"
}

// ResolvedType returns the type of the expression. Namespace and method
// group results have none; a mixed result has the type of its primary
// reading.
func ResolvedType(r Result) (types.Ref, bool) {
	switch r := r.(type) {
	case *TypeResult:
		return r.Type, true
	case *MemberResult:
		return r.Member.Type, r.Member.Type != nil
	case *LocalResult:
		return r.Field.Type, r.Field.Type != nil
	case *MixedResult:
		return ResolvedType(r.Primary)
	default:
		return nil, false
	}
}
