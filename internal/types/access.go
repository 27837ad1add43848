package types

// IsAccessible reports whether m can be used from code inside callingClass.
// isInInheritanceTree tells whether callingClass derives from the type the
// member is accessed through; it grants protected access.
//
// Rules, first match wins:
//   - private: only the declaring type itself
//   - protected-or-internal: protected or internal rule
//   - protected-and-internal: protected and internal rule
//   - protected: declaring type or the inheritance tree
//   - internal: same scope (assembly or project)
//   - public: always
//
// Members without a visibility modifier are private. Locals are always
// accessible.
func (m *Member) IsAccessible(callingClass *TypeDecl, isInInheritanceTree bool) bool {
	if m.Kind == MemberLocal {
		return true
	}
	return accessible(m.Modifiers, m.DeclaringType(), callingClass, isInInheritanceTree)
}

// IsAccessible applies the member rules to a nested type, with its outer
// type as the declaring type. Top-level types are visible unless internal
// to another scope.
func (t *TypeDecl) IsAccessible(callingClass *TypeDecl, isInInheritanceTree bool) bool {
	outer := t.Outer()
	if outer == nil {
		if t.Modifiers&ModPublic != 0 {
			return true
		}
		return callingClass != nil && callingClass.Scope == t.Scope
	}
	return accessible(t.Modifiers, outer, callingClass, isInInheritanceTree)
}

func accessible(mods Modifiers, declaring, callingClass *TypeDecl, inTree bool) bool {
	sameType := declaring != nil && declaring.IsSame(callingClass)
	protectedOK := sameType || inTree
	internalOK := declaring != nil && callingClass != nil && declaring.Scope == callingClass.Scope

	switch {
	case mods&ModPrivate != 0:
		return sameType
	case mods&ModProtectedOrInternal != 0:
		return protectedOK || internalOK
	case mods.Has(ModProtectedAndInternal):
		return protectedOK && internalOK
	case mods&ModProtected != 0:
		return protectedOK
	case mods&ModInternal != 0:
		return internalOK
	case mods&ModPublic != 0:
		return true
	default:
		return sameType
	}
}
