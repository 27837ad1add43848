package resolve

import "codedom/internal/types"

// EffectiveType is the type a further member access continues from. For a
// member reached through a generic instance the declaring type's parameters
// are replaced by the instance arguments, so list.Item on List<string>
// yields string. Other results yield their resolved type.
func EffectiveType(r Result, lookup types.Lookup) (types.Ref, bool) {
	switch r := r.(type) {
	case *MemberResult:
		typ := memberType(r.Member, r.Through, lookup)
		return typ, typ != nil
	case *MixedResult:
		return EffectiveType(r.Primary, lookup)
	default:
		return ResolvedType(r)
	}
}

func memberType(m *types.Member, through types.Ref, lookup types.Lookup) types.Ref {
	if m.Type == nil || through == nil {
		return m.Type
	}
	declaring := m.DeclaringType()
	if declaring == nil {
		return m.Type
	}
	args := argsFor(through, declaring, lookup)
	if len(args) == 0 {
		return m.Type
	}
	return types.Substitute(m.Type, declaring, args)
}

// argsFor returns the arguments target's parameters take when a value of
// type through is viewed as target: directly for an instance of target,
// or through the chain of instantiated base types.
func argsFor(through types.Ref, target *types.TypeDecl, lookup types.Lookup) []types.Ref {
	start, ok := types.MemberSource(through, lookup)
	if !ok {
		return nil
	}
	var startArgs []types.Ref
	if inst, ok := through.(*types.Instance); ok {
		startArgs = inst.Args
	}
	type step struct {
		decl *types.TypeDecl
		args []types.Ref
	}
	queue := []step{{start, startArgs}}
	seen := map[string]struct{}{start.FullName: {}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.decl.IsSame(target) {
			return cur.args
		}
		for _, base := range cur.decl.Bases {
			next := step{}
			if inst, ok := base.(*types.Instance); ok {
				decl, ok := types.Resolve(inst.Def, lookup)
				if !ok {
					continue
				}
				next.decl = decl
				next.args = make([]types.Ref, len(inst.Args))
				for i, arg := range inst.Args {
					next.args[i] = types.Substitute(arg, cur.decl, cur.args)
				}
			} else {
				decl, ok := types.Resolve(base, lookup)
				if !ok {
					continue
				}
				next.decl = decl
			}
			if _, dup := seen[next.decl.FullName]; dup {
				continue
			}
			seen[next.decl.FullName] = struct{}{}
			queue = append(queue, next)
		}
	}
	return nil
}
