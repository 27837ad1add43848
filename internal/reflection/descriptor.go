package reflection

// TypeDescriptor describes one type as seen by the external loader.
//
// Exactly one shape applies, checked in this order: array (Rank > 0, Elem
// set), generic parameter (Param set), closed generic (Args non-empty, Name
// is the definition name), plain named type.
type TypeDescriptor struct {
	Name       string             `toml:"name,omitempty" msgpack:"name,omitempty"`
	Rank       uint32             `toml:"rank,omitempty" msgpack:"rank,omitempty"`
	Elem       *TypeDescriptor    `toml:"elem,omitempty" msgpack:"elem,omitempty"`
	Args       []TypeDescriptor   `toml:"args,omitempty" msgpack:"args,omitempty"`
	Definition bool               `toml:"definition,omitempty" msgpack:"definition,omitempty"`
	Param      *GenericDescriptor `toml:"param,omitempty" msgpack:"param,omitempty"`
	Pointer    bool               `toml:"pointer,omitempty" msgpack:"pointer,omitempty"`
}

func (d TypeDescriptor) isZero() bool {
	return d.Name == "" && d.Rank == 0 && d.Elem == nil && d.Param == nil && len(d.Args) == 0
}

// GenericDescriptor describes a reference to a generic parameter.
type GenericDescriptor struct {
	Position uint32 `toml:"position" msgpack:"position"`
	Name     string `toml:"name" msgpack:"name"`
	// Method is set when the parameter is declared by a method rather than
	// by the enclosing type.
	Method bool `toml:"method,omitempty" msgpack:"method,omitempty"`
}

// Simple describes a plain named type.
func Simple(name string) TypeDescriptor {
	return TypeDescriptor{Name: name}
}

// ArrayOf describes an array of elem.
func ArrayOf(elem TypeDescriptor, rank uint32) TypeDescriptor {
	return TypeDescriptor{Rank: rank, Elem: &elem}
}

// Generic describes the closed generic def<args...>.
func Generic(def string, args ...TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Name: def, Args: args}
}

// TypeParam describes a reference to a type-declared generic parameter.
func TypeParam(position uint32, name string) TypeDescriptor {
	return TypeDescriptor{Param: &GenericDescriptor{Position: position, Name: name}}
}

// MethodParam describes a reference to a method-declared generic parameter.
func MethodParam(position uint32, name string) TypeDescriptor {
	return TypeDescriptor{Param: &GenericDescriptor{Position: position, Name: name, Method: true}}
}

// Access is the visibility recorded on a member or its accessor method.
type Access string

const (
	AccessPrivate     Access = "private"
	AccessFamily      Access = "family"
	AccessAssembly    Access = "assembly"
	AccessPublic      Access = "public"
	AccessFamOrAssem  Access = "famorassem"
	AccessFamAndAssem Access = "famandassem"
)

// Accessor is the attribute set of a member or of one of its accessor
// methods (add/remove, get/set).
type Accessor struct {
	Access Access `toml:"access" msgpack:"access"`
	Static bool   `toml:"static,omitempty" msgpack:"static,omitempty"`
}

// ParamDescriptor is one formal parameter of a method.
type ParamDescriptor struct {
	Name string         `toml:"name" msgpack:"name"`
	Type TypeDescriptor `toml:"type" msgpack:"type"`
}

// MemberDescriptor describes a method, field, property or event. Accessors
// lists the accessor methods in preference order; the first one decides the
// modifiers. A member without accessors is public.
type MemberDescriptor struct {
	Name       string            `toml:"name" msgpack:"name"`
	Type       TypeDescriptor    `toml:"type" msgpack:"type"`
	Accessors  []Accessor        `toml:"accessors,omitempty" msgpack:"accessors,omitempty"`
	Params     []ParamDescriptor `toml:"params,omitempty" msgpack:"params,omitempty"`
	TypeParams []string          `toml:"type_params,omitempty" msgpack:"type_params,omitempty"`
	Const      bool              `toml:"const,omitempty" msgpack:"const,omitempty"`
	Readonly   bool              `toml:"readonly,omitempty" msgpack:"readonly,omitempty"`
	Virtual    bool              `toml:"virtual,omitempty" msgpack:"virtual,omitempty"`
	Abstract   bool              `toml:"abstract,omitempty" msgpack:"abstract,omitempty"`
	Override   bool              `toml:"override,omitempty" msgpack:"override,omitempty"`
}

// ClassDescriptor describes one type of an assembly. Name is the loader's
// full name, e.g. "System.Collections.Generic.List`1" or "Acme.Outer+Inner".
type ClassDescriptor struct {
	Name       string             `toml:"name" msgpack:"name"`
	Kind       string             `toml:"kind,omitempty" msgpack:"kind,omitempty"`
	Access     Access             `toml:"access,omitempty" msgpack:"access,omitempty"`
	Abstract   bool               `toml:"abstract,omitempty" msgpack:"abstract,omitempty"`
	Sealed     bool               `toml:"sealed,omitempty" msgpack:"sealed,omitempty"`
	Static     bool               `toml:"static,omitempty" msgpack:"static,omitempty"`
	TypeParams []string           `toml:"type_params,omitempty" msgpack:"type_params,omitempty"`
	Bases      []TypeDescriptor   `toml:"bases,omitempty" msgpack:"bases,omitempty"`
	Methods    []MemberDescriptor `toml:"methods,omitempty" msgpack:"methods,omitempty"`
	Events     []MemberDescriptor `toml:"events,omitempty" msgpack:"events,omitempty"`
	Fields     []MemberDescriptor `toml:"fields,omitempty" msgpack:"fields,omitempty"`
	Properties []MemberDescriptor `toml:"properties,omitempty" msgpack:"properties,omitempty"`
	Nested     []ClassDescriptor  `toml:"nested,omitempty" msgpack:"nested,omitempty"`
}

// AssemblyDescriptor is the loader's view of one compiled assembly.
type AssemblyDescriptor struct {
	Name       string            `toml:"name" msgpack:"name"`
	Version    string            `toml:"version,omitempty" msgpack:"version,omitempty"`
	References []string          `toml:"references,omitempty" msgpack:"references,omitempty"`
	Classes    []ClassDescriptor `toml:"classes" msgpack:"classes"`
}
