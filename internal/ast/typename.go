package ast

import "strings"

// TypeName is a parsed type expression such as "List<string>[]".
type TypeName struct {
	Name string // dotted, possibly unqualified
	Args []*TypeName
	// Ranks lists array suffixes left to right; each wraps the previous type.
	Ranks []int
}

// ParseTypeName parses a type expression:
//
//	type = ident { "." ident } [ args ] { "[" { "," } "]" }
//	args = "<" type { "," type } ">" | "(" "Of" type { "," type } ")"
func ParseTypeName(src string) (*TypeName, error) {
	p := &parser{lx: newLexer(src)}
	tn, err := p.typeName()
	if err != nil {
		return nil, err
	}
	if tok := p.lx.Next(); tok.Kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s", tok.Kind)
	}
	return tn, nil
}

func (p *parser) typeName() (*TypeName, error) {
	tok := p.lx.Next()
	if tok.Kind != tokIdent {
		return nil, p.errorf(tok, "expected type name, found %s", tok.Kind)
	}
	parts := []string{identName(tok.Text)}
	for p.lx.Peek().Kind == tokDot {
		p.lx.Next()
		seg := p.lx.Next()
		if seg.Kind != tokIdent {
			return nil, p.errorf(seg, "expected identifier, found %s", seg.Kind)
		}
		parts = append(parts, identName(seg.Text))
	}
	tn := &TypeName{Name: strings.Join(parts, ".")}

	switch p.lx.Peek().Kind {
	case tokLAngle:
		p.lx.Next()
		args, err := p.typeArgs(tokRAngle)
		if err != nil {
			return nil, err
		}
		tn.Args = args
	case tokLParen:
		p.lx.Next()
		of := p.lx.Next()
		if of.Kind != tokIdent || !strings.EqualFold(of.Text, "of") {
			return nil, p.errorf(of, "expected Of, found %s", of.Kind)
		}
		args, err := p.typeArgs(tokRParen)
		if err != nil {
			return nil, err
		}
		tn.Args = args
	}

	for p.lx.Peek().Kind == tokLBracket {
		p.lx.Next()
		rank := 1
		for {
			tok := p.lx.Next()
			if tok.Kind == tokComma {
				rank++
				continue
			}
			if tok.Kind != tokRBracket {
				return nil, p.errorf(tok, "expected ']', found %s", tok.Kind)
			}
			break
		}
		tn.Ranks = append(tn.Ranks, rank)
	}
	return tn, nil
}

func (p *parser) typeArgs(closing tokenKind) ([]*TypeName, error) {
	var args []*TypeName
	for {
		arg, err := p.typeName()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch tok := p.lx.Next(); tok.Kind {
		case tokComma:
			continue
		case closing:
			return args, nil
		default:
			return nil, p.errorf(tok, "expected ',' or %s, found %s", closing, tok.Kind)
		}
	}
}

// String renders tn in C# syntax.
func (tn *TypeName) String() string {
	if tn == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(tn.Name)
	if len(tn.Args) > 0 {
		b.WriteByte('<')
		for i, a := range tn.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	for _, r := range tn.Ranks {
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", r-1))
		b.WriteByte(']')
	}
	return b.String()
}
