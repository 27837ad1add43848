// Package testkit holds fixtures and structural checks shared by tests.
package testkit

import (
	r "codedom/internal/reflection"
)

var (
	public        = []r.Accessor{{Access: r.AccessPublic}}
	publicStatic  = []r.Accessor{{Access: r.AccessPublic, Static: true}}
	protected     = []r.Accessor{{Access: r.AccessFamily}}
	private       = []r.Accessor{{Access: r.AccessPrivate}}
	internalOnly  = []r.Accessor{{Access: r.AccessAssembly}}
	tOfList       = r.TypeParam(0, "T")
	stringType    = r.Simple("System.String")
	int32Type     = r.Simple("System.Int32")
	booleanType   = r.Simple("System.Boolean")
	objectType    = r.Simple("System.Object")
	eventHandler  = r.Simple("System.EventHandler")
	enumeratorOfT = r.Generic("System.Collections.Generic.IEnumerator`1", tOfList)
)

// Corlib returns a small core library: System.Object, the primitive
// structs, System.Array, System.EventHandler, System.Collections.Generic
// List`1 (with a nested Enumerator) and IEnumerable`1, plus
// System.Diagnostics.Process with a static member and an event.
func Corlib() *r.AssemblyDescriptor {
	return &r.AssemblyDescriptor{
		Name:    "mscorlib",
		Version: "4.0.0.0",
		Classes: []r.ClassDescriptor{
			{
				Name: "System.Object",
				Methods: []r.MemberDescriptor{
					{Name: ".ctor", Accessors: public},
					{Name: "ToString", Type: stringType, Accessors: public, Virtual: true},
					{Name: "Equals", Type: booleanType, Accessors: public, Virtual: true,
						Params: []r.ParamDescriptor{{Name: "obj", Type: objectType}}},
					{Name: "GetHashCode", Type: int32Type, Accessors: public, Virtual: true},
					{Name: "MemberwiseClone", Type: objectType, Accessors: protected},
					{Name: "ReferenceEquals", Type: booleanType, Accessors: publicStatic,
						Params: []r.ParamDescriptor{{Name: "a", Type: objectType}, {Name: "b", Type: objectType}}},
				},
			},
			{
				Name: "System.String", Sealed: true, Bases: []r.TypeDescriptor{objectType},
				Fields: []r.MemberDescriptor{
					{Name: "Empty", Type: stringType, Accessors: publicStatic, Readonly: true},
				},
				Properties: []r.MemberDescriptor{
					{Name: "Length", Type: int32Type, Accessors: public},
				},
			},
			{
				Name: "System.Int32", Kind: "struct", Bases: []r.TypeDescriptor{objectType},
				Fields: []r.MemberDescriptor{
					{Name: "MaxValue", Type: int32Type, Accessors: publicStatic, Const: true},
				},
			},
			{Name: "System.Boolean", Kind: "struct", Bases: []r.TypeDescriptor{objectType}},
			{Name: "System.Void", Kind: "struct"},
			{Name: "System.Type", Abstract: true, Bases: []r.TypeDescriptor{objectType}},
			{Name: "System.EventHandler", Kind: "delegate", Bases: []r.TypeDescriptor{objectType}},
			{
				Name: "System.Array", Abstract: true, Bases: []r.TypeDescriptor{objectType},
				Properties: []r.MemberDescriptor{
					{Name: "Length", Type: int32Type, Accessors: public},
					{Name: "Rank", Type: int32Type, Accessors: public},
				},
			},
			{
				Name: "System.Collections.Generic.IEnumerable`1", Kind: "interface",
				TypeParams: []string{"T"},
				Methods: []r.MemberDescriptor{
					{Name: "GetEnumerator", Type: enumeratorOfT, Accessors: public, Abstract: true},
				},
			},
			{
				Name: "System.Collections.Generic.IEnumerator`1", Kind: "interface",
				TypeParams: []string{"T"},
				Properties: []r.MemberDescriptor{
					{Name: "Current", Type: tOfList, Accessors: public},
				},
			},
			{
				Name:       "System.Collections.Generic.List`1",
				TypeParams: []string{"T"},
				Bases: []r.TypeDescriptor{
					objectType,
					r.Generic("System.Collections.Generic.IEnumerable`1", tOfList),
				},
				Methods: []r.MemberDescriptor{
					{Name: ".ctor", Accessors: public},
					{Name: "Add", Accessors: public, Params: []r.ParamDescriptor{{Name: "item", Type: tOfList}}},
					{Name: "Contains", Type: booleanType, Accessors: public,
						Params: []r.ParamDescriptor{{Name: "item", Type: tOfList}}},
					{Name: "ToArray", Type: r.ArrayOf(tOfList, 1), Accessors: public},
					{Name: "ConvertAll", Accessors: public, TypeParams: []string{"TOutput"},
						Type: r.Generic("System.Collections.Generic.List`1", r.MethodParam(0, "TOutput"))},
					{Name: "EnsureCapacity", Accessors: private,
						Params: []r.ParamDescriptor{{Name: "min", Type: int32Type}}},
				},
				Fields: []r.MemberDescriptor{
					{Name: "_items", Type: r.ArrayOf(tOfList, 1), Accessors: private},
					{Name: "_version", Type: int32Type, Accessors: internalOnly},
				},
				Properties: []r.MemberDescriptor{
					{Name: "Count", Type: int32Type, Accessors: public},
					{Name: "Item", Type: tOfList, Accessors: public},
				},
				Nested: []r.ClassDescriptor{
					{
						Name: "System.Collections.Generic.List`1+Enumerator", Kind: "struct",
						TypeParams: []string{"T"},
						Properties: []r.MemberDescriptor{
							{Name: "Current", Type: tOfList, Accessors: public},
						},
					},
				},
			},
			{
				Name: "System.Diagnostics.Process", Bases: []r.TypeDescriptor{objectType},
				Methods: []r.MemberDescriptor{
					{Name: "Start", Type: r.Simple("System.Diagnostics.Process"), Accessors: publicStatic,
						Params: []r.ParamDescriptor{{Name: "fileName", Type: stringType}}},
					{Name: "Kill", Accessors: public},
				},
				Events: []r.MemberDescriptor{
					{Name: "Exited", Type: eventHandler,
						Accessors: []r.Accessor{{Access: r.AccessPublic}, {Access: r.AccessPrivate}}},
				},
				Properties: []r.MemberDescriptor{
					{Name: "Id", Type: int32Type, Accessors: public},
				},
			},
		},
	}
}
