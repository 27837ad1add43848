package symbols

// TypeID identifies a declaration in a table's type arena.
type TypeID uint32

const (
	// NoTypeID marks the absence of a declaration.
	NoTypeID TypeID = 0
)

// IsValid reports whether the ID refers to an allocated declaration.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// NamespaceID identifies a node of a table's namespace tree.
type NamespaceID uint32

const (
	// NoNamespaceID marks the absence of a namespace.
	NoNamespaceID NamespaceID = 0
	// RootNamespaceID is the unnamed global namespace, allocated first.
	RootNamespaceID NamespaceID = 1
)

// IsValid reports whether the ID refers to an allocated namespace.
func (id NamespaceID) IsValid() bool { return id != NoNamespaceID }
