package resolve

import (
	"context"
	"fmt"

	"codedom/internal/trace"
	"codedom/internal/types"
)

// Position is a source location. Line and Column are 1-based; zero means
// the file is known but the declaration has no recorded region.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line <= 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// DefinitionPosition returns where the result was declared. Only type,
// member and local results have a definition; declarations without a
// compilation unit (reflected ones) yield false.
func DefinitionPosition(ctx context.Context, result Result) (Position, bool) {
	var (
		unit   *types.CompilationUnit
		region types.Region
		what   string
	)
	switch r := result.(type) {
	case *TypeResult:
		if r.Decl == nil {
			return Position{}, false
		}
		unit, region, what = r.Decl.Unit, r.Decl.Region, r.Decl.FullName
	case *MemberResult:
		declaring := r.Member.DeclaringType()
		if declaring == nil {
			noDefinition(ctx, r.Member.Name, "declaring type is gone")
			return Position{}, false
		}
		unit, region, what = declaring.Unit, r.Member.Region, declaring.FullName+"."+r.Member.Name
	case *LocalResult:
		class := r.CallingClass()
		if class == nil {
			noDefinition(ctx, r.Field.Name, "calling class is gone")
			return Position{}, false
		}
		unit, region, what = class.Unit, r.Field.Region, r.Field.Name
	default:
		return Position{}, false
	}
	if unit == nil {
		noDefinition(ctx, what, "no compilation unit")
		return Position{}, false
	}
	if unit.FileName == "" {
		noDefinition(ctx, what, "compilation unit has no file name")
		return Position{}, false
	}
	if region.IsEmpty() {
		return Position{File: unit.FileName}, true
	}
	return Position{File: unit.FileName, Line: region.BeginLine, Column: region.BeginColumn}, true
}

func noDefinition(ctx context.Context, what, why string) {
	trace.Point(trace.FromContext(ctx), trace.ScopeResolve, "definition:"+what, why, trace.ParentID(ctx))
}
