package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"codedom/internal/types"
)

// Decls stores declarations in a compact slice-based arena.
type Decls struct {
	data []*types.TypeDecl
}

// NewDecls creates an arena with optional capacity hint.
func NewDecls(capacity uint32) *Decls {
	if capacity == 0 {
		capacity = 64
	}
	return &Decls{
		data: make([]*types.TypeDecl, 1, capacity+1), // index 0 reserved for NoTypeID
	}
}

// New stores decl and returns its ID.
func (d *Decls) New(decl *types.TypeDecl) TypeID {
	if decl == nil {
		panic("symbols.Decls.New: nil declaration")
	}
	value, err := safecast.Conv[uint32](len(d.data))
	if err != nil {
		panic(fmt.Errorf("declaration arena overflow: %w", err))
	}
	d.data = append(d.data, decl)
	return TypeID(value)
}

// Get returns the declaration or nil for an invalid ID.
func (d *Decls) Get(id TypeID) *types.TypeDecl {
	if !id.IsValid() || int(id) >= len(d.data) {
		return nil
	}
	return d.data[id]
}

// Len reports the number of declarations excluding the sentinel.
func (d *Decls) Len() int { return len(d.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (d *Decls) Data() []*types.TypeDecl {
	if len(d.data) <= 1 {
		return nil
	}
	return d.data[1:]
}

// Namespace is one node of the namespace tree.
type Namespace struct {
	Name     string // fully qualified, "" for the root
	Short    string
	Parent   NamespaceID
	Children []NamespaceID
	Types    []TypeID // top-level types only, in declaration order
}

// Namespaces stores namespace nodes in an arena.
type Namespaces struct {
	data []Namespace
}

// NewNamespaces creates an arena holding only the root namespace.
func NewNamespaces(capacity uint32) *Namespaces {
	if capacity == 0 {
		capacity = 16
	}
	ns := &Namespaces{
		data: make([]Namespace, 1, capacity+2), // index 0 reserved for NoNamespaceID
	}
	ns.data = append(ns.data, Namespace{})
	return ns
}

// New allocates a child of parent and returns its ID.
func (n *Namespaces) New(name, short string, parent NamespaceID) NamespaceID {
	value, err := safecast.Conv[uint32](len(n.data))
	if err != nil {
		panic(fmt.Errorf("namespace arena overflow: %w", err))
	}
	id := NamespaceID(value)
	n.data = append(n.data, Namespace{Name: name, Short: short, Parent: parent})
	if p := n.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Get returns the namespace pointer or nil for an invalid ID.
func (n *Namespaces) Get(id NamespaceID) *Namespace {
	if !id.IsValid() || int(id) >= len(n.data) {
		return nil
	}
	return &n.data[id]
}

// Len reports the number of namespaces including the root.
func (n *Namespaces) Len() int { return len(n.data) - 1 }
