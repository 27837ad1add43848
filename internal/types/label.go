package types

import "strings"

// Label renders a reference the way a C# reader would write it:
// int, string[], List<T>, Dictionary<string, int[,]>.
func Label(ref Ref) string {
	var sb strings.Builder
	writeLabel(&sb, ref)
	return sb.String()
}

func writeLabel(sb *strings.Builder, ref Ref) {
	switch r := ref.(type) {
	case nil:
		sb.WriteString("?")
	case *Primitive:
		sb.WriteString(primitiveInfo[r.name].keyword)
	case *Named:
		if prim, ok := ParsePrimitive(r.name); ok && r.name == prim.FullName() {
			sb.WriteString(primitiveInfo[prim].keyword)
			return
		}
		sb.WriteString(r.name)
	case *Array:
		writeLabel(sb, r.Elem)
		sb.WriteByte('[')
		sb.WriteString(strings.Repeat(",", r.Rank-1))
		sb.WriteByte(']')
	case *Instance:
		writeLabel(sb, r.Def)
		sb.WriteByte('<')
		for i, arg := range r.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeLabel(sb, arg)
		}
		sb.WriteByte('>')
	case *Param:
		sb.WriteString(r.Name)
	}
}

// MemberLabel renders a member with its type, e.g. "Add(T item) : void".
func MemberLabel(m *Member) string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	if m.Kind == MemberMethod && m.Signature != nil {
		if len(m.Signature.TypeParams) > 0 {
			sb.WriteByte('<')
			for i, tp := range m.Signature.TypeParams {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(tp.Name)
			}
			sb.WriteByte('>')
		}
		sb.WriteByte('(')
		for i, p := range m.Signature.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeLabel(&sb, p.Type)
			if p.Name != "" {
				sb.WriteByte(' ')
				sb.WriteString(p.Name)
			}
		}
		sb.WriteByte(')')
	}
	if m.Type != nil {
		sb.WriteString(" : ")
		writeLabel(&sb, m.Type)
	}
	return sb.String()
}
