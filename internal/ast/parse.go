package ast

import (
	"fmt"
	"strings"
)

// SyntaxError reports where ParseExpr gave up.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

// ParseExpr parses a member-access expression:
//
//	expr    = primary { "." ident | "(" [ expr { "," expr } ] ")" }
//	primary = ident | "this" | "base" | literal | "(" expr ")"
//
// A trailing dot ("list.") is accepted and dropped, so the text before the
// caret of a completion request parses as the expression to complete on.
func ParseExpr(src string) (*Expr, error) {
	p := &parser{lx: newLexer(src)}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.lx.Next(); tok.Kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s", tok.Kind)
	}
	return expr, nil
}

type parser struct {
	lx *lexer
}

func (p *parser) expr() (*Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch tok := p.lx.Peek(); tok.Kind {
		case tokDot:
			p.lx.Next()
			name := p.lx.Peek()
			if name.Kind == tokEOF {
				return expr, nil
			}
			if name.Kind != tokIdent {
				return nil, p.errorf(name, "expected member name, found %s", name.Kind)
			}
			p.lx.Next()
			expr = &Expr{
				Kind:   ExprMember,
				Span:   Span{expr.Span.Start, name.Span.End},
				Target: expr,
				Name:   identName(name.Text),
			}
		case tokLParen:
			p.lx.Next()
			args, end, err := p.args()
			if err != nil {
				return nil, err
			}
			expr = &Expr{
				Kind:   ExprCall,
				Span:   Span{expr.Span.Start, end},
				Target: expr,
				Args:   args,
			}
		default:
			return expr, nil
		}
	}
}

func (p *parser) args() ([]*Expr, int, error) {
	var args []*Expr
	if tok := p.lx.Peek(); tok.Kind == tokRParen {
		p.lx.Next()
		return args, tok.Span.End, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, 0, err
		}
		args = append(args, arg)
		switch tok := p.lx.Next(); tok.Kind {
		case tokComma:
			continue
		case tokRParen:
			return args, tok.Span.End, nil
		default:
			return nil, 0, p.errorf(tok, "expected ',' or ')', found %s", tok.Kind)
		}
	}
}

func (p *parser) primary() (*Expr, error) {
	tok := p.lx.Next()
	switch tok.Kind {
	case tokIdent:
		switch tok.Text {
		case "this", "Me":
			return &Expr{Kind: ExprThis, Span: tok.Span}, nil
		case "base", "MyBase":
			return &Expr{Kind: ExprBase, Span: tok.Span}, nil
		case "true", "false", "True", "False":
			return &Expr{Kind: ExprLit, Span: tok.Span, Lit: LitBool, Text: tok.Text}, nil
		case "null", "Nothing":
			return &Expr{Kind: ExprLit, Span: tok.Span, Lit: LitNull, Text: tok.Text}, nil
		}
		return &Expr{Kind: ExprIdent, Span: tok.Span, Name: identName(tok.Text)}, nil
	case tokInt:
		return &Expr{Kind: ExprLit, Span: tok.Span, Lit: LitInt, Text: tok.Text}, nil
	case tokString:
		return &Expr{Kind: ExprLit, Span: tok.Span, Lit: LitString, Text: tok.Text}, nil
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.lx.Next(); closing.Kind != tokRParen {
			return nil, p.errorf(closing, "expected ')', found %s", closing.Kind)
		}
		return inner, nil
	default:
		return nil, p.errorf(tok, "expected expression, found %s", tok.Kind)
	}
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Offset: tok.Span.Start, Msg: fmt.Sprintf(format, args...)}
}

// identName strips the verbatim prefix of "@class".
func identName(text string) string {
	return strings.TrimPrefix(text, "@")
}
