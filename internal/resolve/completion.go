package resolve

import (
	"slices"
	"strings"

	"codedom/internal/symbols"
	"codedom/internal/types"
)

// Completion lists what may follow "expr." for the resolved expression.
//
// Members come grouped as methods, events, fields, then properties; within
// a group in declaration order with the type's own members before inherited
// ones. A member is listed when the table's language shows it for
// showStatic and it is accessible from the calling class. Namespace results
// list the namespace contents unfiltered. Type results with showStatic also
// list the type's nested types. Method groups complete to nothing.
func Completion(result Result, table *symbols.Table, showStatic bool) []symbols.Entry {
	if result == nil || table == nil {
		return nil
	}
	switch r := result.(type) {
	case *NamespaceResult:
		return table.NamespaceMembers(r.Name)
	case *TypeResult:
		entries := memberEntries(r, r.Type, table, showStatic)
		if showStatic && r.Decl != nil {
			for _, inner := range r.Decl.Nested {
				entries = append(entries, symbols.TypeEntry(inner))
			}
		}
		return entries
	case *MemberResult, *LocalResult:
		typ, ok := EffectiveType(r, table)
		if !ok {
			return nil
		}
		return memberEntries(r, typ, table, showStatic)
	case *MixedResult:
		return mergeEntries(
			Completion(r.Primary, table, showStatic),
			Completion(r.Secondary, table, showStatic),
		)
	default:
		return nil
	}
}

// DefaultCompletion completes with static members for type names and
// instance members otherwise. Each branch of a mixed result uses its own
// default.
func DefaultCompletion(result Result, table *symbols.Table) []symbols.Entry {
	switch r := result.(type) {
	case *TypeResult:
		return Completion(r, table, true)
	case *MixedResult:
		return mergeEntries(DefaultCompletion(r.Primary, table), DefaultCompletion(r.Secondary, table))
	default:
		return Completion(result, table, false)
	}
}

// mergeEntries returns primary followed by the secondary entries that are
// not already present. Duplicates are detected by identity, not by name.
// Neither input is modified.
func mergeEntries(primary, secondary []symbols.Entry) []symbols.Entry {
	if primary == nil {
		return secondary
	}
	out := slices.Clone(primary)
	for _, e := range secondary {
		dup := false
		for _, p := range primary {
			if p.Same(e) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return out
}

var completionGroups = [...]types.MemberKind{
	types.MemberMethod,
	types.MemberEvent,
	types.MemberField,
	types.MemberProperty,
}

func memberEntries(result Result, typ types.Ref, table *symbols.Table, showStatic bool) []symbols.Entry {
	decl, ok := types.MemberSource(typ, table)
	if !ok {
		return nil
	}
	calling := result.CallingClass()
	inTree := calling != nil && calling.IsInHierarchyOf(decl, table)
	lineage := decl.Lineage(table)
	lang := table.Language()

	var out []symbols.Entry
	for _, kind := range completionGroups {
		// A listed member hides inherited members with the same signature,
		// so an override appears once, from the most derived type.
		// Filtered-out members hide nothing.
		seen := make(map[string]struct{})
		for _, owner := range lineage {
			for _, m := range membersOf(owner, kind) {
				if !lang.ShowMember(m, showStatic) || !m.IsAccessible(calling, inTree) {
					continue
				}
				key := overrideKey(m, lang.FoldCase())
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, symbols.MemberEntry(m))
			}
		}
	}
	return out
}

func membersOf(decl *types.TypeDecl, kind types.MemberKind) []*types.Member {
	switch kind {
	case types.MemberMethod:
		return decl.Methods
	case types.MemberEvent:
		return decl.Events
	case types.MemberField:
		return decl.Fields
	case types.MemberProperty:
		return decl.Properties
	default:
		return nil
	}
}

// overrideKey is the member name, plus the parameter type labels for
// methods.
func overrideKey(m *types.Member, fold bool) string {
	name := m.Name
	if fold {
		name = strings.ToLower(name)
	}
	if m.Kind != types.MemberMethod || m.Signature == nil {
		return name
	}
	labels := make([]string, len(m.Signature.Params))
	for i, p := range m.Signature.Params {
		labels[i] = types.Label(p.Type)
	}
	return name + "(" + strings.Join(labels, ",") + ")"
}
