package types

import (
	"fmt"
	"strings"
)

// Modifiers is the set of declaration modifiers of a type or member.
type Modifiers uint32

const (
	ModPrivate Modifiers = 1 << iota
	ModInternal
	ModProtected
	ModPublic
	// ModProtectedOrInternal is distinct from ModProtected|ModInternal, which
	// means protected-and-internal.
	ModProtectedOrInternal
	ModStatic
	ModAbstract
	ModVirtual
	ModOverride
	ModSealed
	ModReadonly
	ModConst
	ModExtern

	ModNone Modifiers = 0

	ModProtectedAndInternal = ModProtected | ModInternal
	modVisibility           = ModPrivate | ModInternal | ModProtected | ModPublic | ModProtectedOrInternal
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPrivate, "private"},
	{ModInternal, "internal"},
	{ModProtected, "protected"},
	{ModPublic, "public"},
	{ModProtectedOrInternal, "protected-internal"},
	{ModStatic, "static"},
	{ModAbstract, "abstract"},
	{ModVirtual, "virtual"},
	{ModOverride, "override"},
	{ModSealed, "sealed"},
	{ModReadonly, "readonly"},
	{ModConst, "const"},
	{ModExtern, "extern"},
}

// Strings returns the textual labels of the set flags.
func (m Modifiers) Strings() []string {
	if m == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if m.Has(ModProtectedAndInternal) {
		labels = append(labels, "private-protected")
		m &^= ModProtectedAndInternal
	}
	for _, entry := range modifierNames {
		if m&entry.mod != 0 {
			labels = append(labels, entry.name)
		}
	}
	return labels
}

func (m Modifiers) String() string {
	return strings.Join(m.Strings(), " ")
}

// Has reports whether all bits of other are set.
func (m Modifiers) Has(other Modifiers) bool {
	return other != 0 && m&other == other
}

// Visibility returns only the visibility bits.
func (m Modifiers) Visibility() Modifiers {
	return m & modVisibility
}

// ParseModifiers parses space or comma separated modifier keywords, including
// the VB spellings "shared" and "friend".
func ParseModifiers(s string) (Modifiers, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	var mods Modifiers
	for _, f := range fields {
		found := false
		for _, entry := range modifierNames {
			if entry.name == f {
				mods |= entry.mod
				found = true
				break
			}
		}
		if !found {
			switch f {
			case "shared":
				mods |= ModStatic
				found = true
			case "friend":
				mods |= ModInternal
				found = true
			case "private-protected":
				mods |= ModPrivate | ModProtected
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown modifier %q", f)
		}
	}
	switch {
	case mods.Has(ModPrivate | ModProtected):
		// "private protected"
		mods &^= ModPrivate
		mods |= ModProtectedAndInternal
	case mods.Has(ModProtected | ModInternal):
		// "protected internal"
		mods &^= ModProtected | ModInternal
		mods |= ModProtectedOrInternal
	}
	return mods, nil
}
