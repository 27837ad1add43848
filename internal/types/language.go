package types

import (
	"fmt"
	"strings"
)

// Language captures the source-language rules the completion engine needs.
type Language interface {
	// Name returns the language identifier ("csharp", "vbnet").
	Name() string
	// ShowMember decides whether m is listed when completing on a type
	// (showStatic) or on a value (!showStatic).
	ShowMember(m *Member, showStatic bool) bool
	// FoldCase reports whether identifiers are case-insensitive.
	FoldCase() bool
}

type csharp struct{}

func (csharp) Name() string   { return "csharp" }
func (csharp) FoldCase() bool { return false }

func (csharp) ShowMember(m *Member, showStatic bool) bool {
	if m.IsConstructor() {
		return false
	}
	return m.IsStatic() == showStatic
}

type vbnet struct{}

func (vbnet) Name() string   { return "vbnet" }
func (vbnet) FoldCase() bool { return true }

// ShowMember lists shared members on instances too, since VB allows
// calling them through an instance expression.
func (vbnet) ShowMember(m *Member, showStatic bool) bool {
	if m.IsConstructor() {
		return false
	}
	return m.IsStatic() || !showStatic
}

var (
	CSharp Language = csharp{}
	VBNet  Language = vbnet{}
)

// ParseLanguage maps a manifest language name to a Language.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(s) {
	case "", "c#", "cs", "csharp":
		return CSharp, nil
	case "vb", "vb.net", "vbnet":
		return VBNet, nil
	default:
		return nil, fmt.Errorf("unknown language %q (expected csharp or vbnet)", s)
	}
}
