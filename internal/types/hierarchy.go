package types

// Lineage returns t followed by every base type reachable through lookup,
// breadth first, in declaration order (classes before interfaces). Each
// type appears once; unresolvable bases are skipped and cycles are cut.
func (t *TypeDecl) Lineage(lookup Lookup) []*TypeDecl {
	if t == nil {
		return nil
	}
	out := []*TypeDecl{t}
	seen := map[string]struct{}{t.FullName: {}}
	for i := 0; i < len(out); i++ {
		for _, base := range out[i].Bases {
			decl, ok := Resolve(base, lookup)
			if !ok {
				continue
			}
			if _, dup := seen[decl.FullName]; dup {
				continue
			}
			seen[decl.FullName] = struct{}{}
			out = append(out, decl)
		}
	}
	return out
}

// IsInHierarchyOf reports whether t is target or derives from it, directly
// or through any chain of base types.
func (t *TypeDecl) IsInHierarchyOf(target *TypeDecl, lookup Lookup) bool {
	if t == nil || target == nil {
		return false
	}
	for _, decl := range t.Lineage(lookup) {
		if decl.IsSame(target) {
			return true
		}
	}
	return false
}

// BaseArgs returns the type arguments t passes to base when t derives from
// an instantiation of base (class IntList : List<int>). It returns nil when
// base is not an instantiated direct base of t.
func (t *TypeDecl) BaseArgs(base *TypeDecl, lookup Lookup) []Ref {
	for _, ref := range t.Bases {
		inst, ok := ref.(*Instance)
		if !ok {
			continue
		}
		if decl, ok := Resolve(inst.Def, lookup); ok && decl.IsSame(base) {
			return inst.Args
		}
	}
	return nil
}
