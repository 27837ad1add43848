package testkit

import (
	"fmt"

	"codedom/internal/symbols"
	"codedom/internal/types"
)

// CheckTableInvariants runs a minimal set of structural checks on a table:
// 1) every declaration is found again by its qualified name
// 2) nested types point back to a registered outer type
// 3) every member reports its declaring type
// 4) type parameters sit at their own position and point at their owner
func CheckTableInvariants(table *symbols.Table) error {
	if table == nil {
		return fmt.Errorf("nil table")
	}
	for _, decl := range table.Types() {
		// 1) lookup round trip
		got, ok := table.GetType(decl.FullName)
		if !ok {
			return fmt.Errorf("%s: not found by qualified name", decl.FullName)
		}
		if got != decl {
			return fmt.Errorf("%s: lookup returned a different declaration", decl.FullName)
		}

		// 2) nesting
		for _, inner := range decl.Nested {
			if inner.Outer() != decl {
				return fmt.Errorf("%s: nested %s has outer %v", decl.FullName, inner.FullName, inner.Outer())
			}
			if _, ok := table.GetType(inner.FullName); !ok {
				return fmt.Errorf("%s: nested %s not registered", decl.FullName, inner.FullName)
			}
		}

		// 3) members
		for _, m := range decl.Members() {
			if m.DeclaringType() != decl {
				return fmt.Errorf("%s: member %s has declaring type %v", decl.FullName, m.Name, m.DeclaringType())
			}
			if m.Kind == types.MemberMethod && m.Signature == nil {
				return fmt.Errorf("%s: method %s without signature", decl.FullName, m.Name)
			}
		}

		// 4) type parameters
		for i, tp := range decl.TypeParams {
			if tp.Position != i {
				return fmt.Errorf("%s: type parameter %s at %d reports position %d", decl.FullName, tp.Name, i, tp.Position)
			}
			if tp.OwnerType() != decl {
				return fmt.Errorf("%s: type parameter %s has wrong owner", decl.FullName, tp.Name)
			}
		}
	}
	return nil
}
