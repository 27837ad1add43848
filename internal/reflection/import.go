package reflection

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"codedom/internal/diag"
	"codedom/internal/symbols"
	"codedom/internal/trace"
	"codedom/internal/types"
)

// ImportOptions tune Import.
type ImportOptions struct {
	Reporter diag.Reporter
	// EagerBases pins base types already present in the table. Member types
	// are always converted lazily so importing one assembly never forces
	// another to load.
	EagerBases bool
}

type pending struct {
	desc *ClassDescriptor
	decl *types.TypeDecl
}

// Import declares every class of asm on table and returns the number of
// declarations added, nested types included. Problems with single entries
// are reported and the entry is skipped.
func Import(ctx context.Context, asm *AssemblyDescriptor, table *symbols.Table, opts ImportOptions) (int, error) {
	if asm == nil || table == nil {
		return 0, errors.New("reflection.Import: nil assembly or table")
	}
	if strings.TrimSpace(asm.Name) == "" {
		return 0, errors.New("reflection.Import: assembly without a name")
	}
	_, span := trace.Start(ctx, trace.ScopeTable, "import:"+asm.Name)
	imported := 0
	defer func() {
		span.Attr("types", strconv.Itoa(imported)).End("")
	}()

	// Declarations first so member conversion sees every type parameter.
	var work []pending
	for i := range asm.Classes {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		desc := &asm.Classes[i]
		decl, nested := buildDecl(desc, nil, table.Scope(), opts.Reporter)
		if decl == nil {
			continue
		}
		if _, err := table.Declare(decl); err != nil {
			diag.ReportError(opts.Reporter, diag.BundleDuplicateType,
				diag.Location{File: asm.Name, Subject: decl.FullName}, err.Error()).Emit()
			continue
		}
		work = append(work, nested...)
		imported += len(nested)
	}

	members := Bridge{Table: table, Lazy: true, Reporter: opts.Reporter}
	bases := Bridge{Table: table, Lazy: !opts.EagerBases, Reporter: opts.Reporter}
	for _, p := range work {
		for _, base := range p.desc.Bases {
			p.decl.AddBase(bases.ForMember(base, p.decl, nil))
		}
		addMembers(members, p.decl, types.MemberMethod, p.desc.Methods)
		addMembers(members, p.decl, types.MemberEvent, p.desc.Events)
		addMembers(members, p.decl, types.MemberField, p.desc.Fields)
		addMembers(members, p.decl, types.MemberProperty, p.desc.Properties)
	}
	return imported, nil
}

// buildDecl creates the declaration skeleton for desc and its nested
// classes. It returns the declaration and the list of all skeletons built.
func buildDecl(desc *ClassDescriptor, outer *types.TypeDecl, scope string, r diag.Reporter) (*types.TypeDecl, []pending) {
	name := NormalizeName(strings.TrimSpace(desc.Name))
	if name == "" {
		diag.ReportWarning(r, diag.BundleEmptyName, diag.Location{Subject: scope}, "class without a name skipped").Emit()
		return nil, nil
	}
	if outer != nil && !strings.HasPrefix(name, outer.FullName+".") {
		_, short := types.SplitName(name)
		name = outer.FullName + "." + short
	}
	kind := types.KindClass
	if desc.Kind != "" {
		k, err := types.ParseClassKind(desc.Kind)
		if err != nil {
			diag.ReportWarning(r, diag.BridgeUnsupportedType, diag.Location{Subject: name},
				fmt.Sprintf("%v; treated as class", err)).Emit()
		} else {
			kind = k
		}
	}
	if desc.Access != "" && !KnownAccess(desc.Access) {
		diag.ReportWarning(r, diag.BridgeUnsupportedType, diag.Location{Subject: name},
			fmt.Sprintf("unknown access %q", desc.Access)).Emit()
	}

	decl := types.NewType(kind, name, scope)
	decl.Modifiers = classModifiers(desc)
	for _, tp := range desc.TypeParams {
		decl.AddTypeParam(tp)
	}
	if outer != nil {
		outer.AddNested(decl)
	}
	out := []pending{{desc: desc, decl: decl}}
	for i := range desc.Nested {
		if _, nested := buildDecl(&desc.Nested[i], decl, scope, r); nested != nil {
			out = append(out, nested...)
		}
	}
	return decl, out
}

func addMembers(b Bridge, decl *types.TypeDecl, kind types.MemberKind, descs []MemberDescriptor) {
	for i := range descs {
		desc := &descs[i]
		if desc.Name == "" {
			diag.ReportWarning(b.Reporter, diag.BundleEmptyName, diag.Location{Subject: decl.FullName},
				kind.String()+" without a name skipped").Emit()
			continue
		}
		for _, acc := range desc.Accessors {
			if !KnownAccess(acc.Access) {
				diag.ReportWarning(b.Reporter, diag.BridgeUnsupportedType,
					diag.Location{Subject: decl.FullName + "." + desc.Name},
					fmt.Sprintf("unknown access %q", acc.Access)).Emit()
			}
		}
		m := types.NewMember(kind, desc.Name, memberModifiers(desc), nil)
		decl.AddMember(m)
		var method *types.Member
		if kind == types.MemberMethod {
			method = m
			for _, tp := range desc.TypeParams {
				m.AddTypeParam(tp)
			}
			for _, p := range desc.Params {
				m.AddParam(p.Name, b.ForMember(p.Type, decl, method))
			}
		}
		if method != nil && desc.Type.isZero() {
			m.Type = b.primitives().VoidRef()
			continue
		}
		m.Type = b.ForMember(desc.Type, decl, method)
	}
}
