package reflection

import "codedom/internal/types"

// AccessorModifiers derives member modifiers from the first accessor. The
// checks run in a fixed order: static, assembly, then one of private,
// family, public, family-or-assembly, family-and-assembly. A member without
// accessors is public.
func AccessorModifiers(accessors []Accessor) types.Modifiers {
	if len(accessors) == 0 {
		return types.ModPublic
	}
	acc := accessors[0]
	var mods types.Modifiers
	if acc.Static {
		mods |= types.ModStatic
	}
	if acc.Access == AccessAssembly {
		mods |= types.ModInternal
	}
	switch acc.Access {
	case AccessPrivate:
		mods |= types.ModPrivate
	case AccessFamily:
		mods |= types.ModProtected
	case AccessPublic:
		mods |= types.ModPublic
	case AccessFamOrAssem:
		mods |= types.ModProtectedOrInternal
	case AccessFamAndAssem:
		mods |= types.ModProtectedAndInternal
	}
	return mods
}

// KnownAccess reports whether a is one of the recognized visibilities.
func KnownAccess(a Access) bool {
	switch a {
	case AccessPrivate, AccessFamily, AccessAssembly, AccessPublic, AccessFamOrAssem, AccessFamAndAssem:
		return true
	}
	return false
}

func classModifiers(c *ClassDescriptor) types.Modifiers {
	access := c.Access
	if access == "" {
		access = AccessPublic
	}
	mods := AccessorModifiers([]Accessor{{Access: access, Static: c.Static}})
	if c.Abstract {
		mods |= types.ModAbstract
	}
	if c.Sealed {
		mods |= types.ModSealed
	}
	return mods
}

func memberModifiers(m *MemberDescriptor) types.Modifiers {
	mods := AccessorModifiers(m.Accessors)
	if m.Const {
		mods |= types.ModConst
	}
	if m.Readonly {
		mods |= types.ModReadonly
	}
	if m.Virtual {
		mods |= types.ModVirtual
	}
	if m.Abstract {
		mods |= types.ModAbstract
	}
	if m.Override {
		mods |= types.ModOverride
	}
	return mods
}
