package reflection

import (
	"testing"

	"codedom/internal/types"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"System.Collections.Generic.List`1":             "System.Collections.Generic.List",
		"System.Collections.Generic.Dictionary`2+Entry": "System.Collections.Generic.Dictionary.Entry",
		"Acme.Outer`1+Inner`12":                         "Acme.Outer.Inner",
		"Acme.Plain":                                    "Acme.Plain",
		"Acme.Tick`":                                    "Acme.Tick`",
		"Cafe\u0301.Menu":                               "Caf\u00e9.Menu",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAccessorModifiers(t *testing.T) {
	cases := []struct {
		name string
		in   []Accessor
		want types.Modifiers
	}{
		{"none", nil, types.ModPublic},
		{"private", []Accessor{{Access: AccessPrivate}}, types.ModPrivate},
		{"family", []Accessor{{Access: AccessFamily}}, types.ModProtected},
		{"assembly", []Accessor{{Access: AccessAssembly}}, types.ModInternal},
		{"static public", []Accessor{{Access: AccessPublic, Static: true}}, types.ModPublic | types.ModStatic},
		{"fam or assem", []Accessor{{Access: AccessFamOrAssem}}, types.ModProtectedOrInternal},
		{"fam and assem", []Accessor{{Access: AccessFamAndAssem}}, types.ModProtectedAndInternal},
		{"first accessor wins", []Accessor{{Access: AccessFamily}, {Access: AccessPublic}}, types.ModProtected},
	}
	for _, tc := range cases {
		if got := AccessorModifiers(tc.in); got != tc.want {
			t.Fatalf("%s: AccessorModifiers = %v, want %v", tc.name, got, tc.want)
		}
	}
}
