package reflection

import (
	"fmt"

	"fortio.org/safecast"

	"codedom/internal/diag"
	"codedom/internal/symbols"
	"codedom/internal/types"
)

// Bridge converts descriptors against one table.
//
// Lazy conversion never touches the table; eager conversion pins names that
// the table already knows and falls back to a lazy reference otherwise.
// Inconsistent generic parameters are reported as warnings.
type Bridge struct {
	Table    *symbols.Table
	Lazy     bool
	Reporter diag.Reporter
}

// FromExternal converts desc without member context. It never fails:
// generic parameters become unbound placeholders.
func FromExternal(desc TypeDescriptor, table *symbols.Table, lazy bool) types.Ref {
	return Bridge{Table: table, Lazy: lazy}.FromExternal(desc)
}

// ForMember converts desc in the context of a member declared by owner.
// method is the member itself when it is a method, and may be nil.
func ForMember(desc TypeDescriptor, owner *types.TypeDecl, method *types.Member, table *symbols.Table, lazy bool) types.Ref {
	return Bridge{Table: table, Lazy: lazy}.ForMember(desc, owner, method)
}

// FromExternal converts desc without member context.
func (b Bridge) FromExternal(desc TypeDescriptor) types.Ref {
	return b.convert(desc, nil, nil)
}

// ForMember converts desc in the context of owner and method.
func (b Bridge) ForMember(desc TypeDescriptor, owner *types.TypeDecl, method *types.Member) types.Ref {
	return b.convert(desc, owner, method)
}

func (b Bridge) convert(desc TypeDescriptor, owner *types.TypeDecl, method *types.Member) types.Ref {
	switch {
	case desc.Rank > 0 && desc.Elem != nil:
		rank, err := safecast.Conv[int](desc.Rank)
		if err != nil {
			b.warn(diag.BridgeUnsupportedType, owner, fmt.Sprintf("array rank %d: %v", desc.Rank, err))
			rank = 1
		}
		return types.NewArray(b.convert(*desc.Elem, owner, method), rank)
	case desc.Param != nil:
		return b.param(*desc.Param, owner, method)
	case len(desc.Args) > 0 && !desc.Definition:
		def := b.named(desc.Name, false)
		args := make([]types.Ref, len(desc.Args))
		for i, arg := range desc.Args {
			args[i] = b.convert(arg, owner, method)
		}
		return types.NewInstance(def, args...)
	default:
		return b.named(desc.Name, desc.Pointer)
	}
}

// named maps a loader name to a primitive, a pinned reference or a lazy one.
func (b Bridge) named(raw string, pointer bool) types.Ref {
	name := NormalizeName(raw)
	if name == "" {
		return b.primitives().ObjectRef()
	}
	if pointer {
		// Pointer types are never declared; the reference stays unresolved.
		return types.NewNamed(name + "*")
	}
	if prim, ok := types.ParsePrimitive(name); ok && prim.FullName() == name {
		return b.primitives().Get(prim)
	}
	if !b.Lazy && b.Table != nil {
		if decl, ok := b.Table.GetType(name); ok {
			return decl.DefaultRef()
		}
	}
	return types.NewNamed(name)
}

func (b Bridge) param(p GenericDescriptor, owner *types.TypeDecl, method *types.Member) types.Ref {
	pos, err := safecast.Conv[int](p.Position)
	if err != nil {
		b.warn(diag.BridgeUnsupportedType, owner, fmt.Sprintf("generic position %d: %v", p.Position, err))
		return types.Placeholder(ownerKind(p), 0, p.Name)
	}
	if p.Method {
		if method != nil && method.Kind == types.MemberMethod {
			if sig := method.Signature; sig != nil && pos < len(sig.TypeParams) && sig.TypeParams[pos].Name == p.Name {
				return types.ParamRef(sig.TypeParams[pos])
			}
			return types.ParamRef(types.NewMethodTypeParam(method, pos, p.Name))
		}
	} else if owner != nil {
		if tp, ok := owner.TypeParamAt(pos, p.Name); ok {
			return types.ParamRef(tp)
		}
	}
	if owner != nil || method != nil {
		b.warn(diag.BridgeStaleGenericParam, owner,
			fmt.Sprintf("generic parameter %s at position %d does not match its declaration", p.Name, pos))
	}
	return types.Placeholder(ownerKind(p), pos, p.Name)
}

func (b Bridge) primitives() *types.Primitives {
	if b.Table != nil {
		return b.Table.Primitives()
	}
	// Primitive identity is name based, so a private registry still yields
	// refs equal to table-bound ones.
	return types.NewPrimitives()
}

func (b Bridge) warn(code diag.Code, owner *types.TypeDecl, msg string) {
	loc := diag.Location{}
	if owner != nil {
		loc.Subject = owner.FullName
	}
	diag.ReportWarning(b.Reporter, code, loc, msg).Emit()
}

func ownerKind(p GenericDescriptor) types.OwnerKind {
	if p.Method {
		return types.OwnerMethod
	}
	return types.OwnerType
}
