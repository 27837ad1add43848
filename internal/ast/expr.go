// Package ast holds the expression trees handed to the resolver.
//
// The editor-side parser is an external collaborator; ParseExpr covers the
// small dotted/call subset the command-line tools need.
package ast

import (
	"fmt"
	"strings"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent is a simple name.
	ExprIdent ExprKind = iota + 1
	// ExprMember is Target.Name.
	ExprMember
	// ExprCall is Target(Args...).
	ExprCall
	// ExprThis is the current instance.
	ExprThis
	// ExprBase is the current instance viewed as its base class.
	ExprBase
	// ExprLit is a literal; only its kind is kept.
	ExprLit
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprMember:
		return "member"
	case ExprCall:
		return "call"
	case ExprThis:
		return "this"
	case ExprBase:
		return "base"
	case ExprLit:
		return "literal"
	default:
		return fmt.Sprintf("ExprKind(%d)", k)
	}
}

// LitKind classifies literals.
type LitKind uint8

const (
	LitInt LitKind = iota + 1
	LitString
	LitBool
	LitNull
)

// Span is a byte range in the parsed text.
type Span struct {
	Start, End int
}

// Expr is one expression node. Name is set for identifiers and member
// access, Target for member access and calls, Args for calls.
type Expr struct {
	Kind   ExprKind
	Span   Span
	Name   string
	Target *Expr
	Args   []*Expr
	Lit    LitKind
	Text   string // literal source text
}

// Ident builds an identifier node.
func Ident(name string) *Expr {
	return &Expr{Kind: ExprIdent, Name: name}
}

// Member builds target.name.
func Member(target *Expr, name string) *Expr {
	return &Expr{Kind: ExprMember, Target: target, Name: name}
}

// Call builds target(args...).
func Call(target *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Target: target, Args: args}
}

// This builds the current-instance node.
func This() *Expr { return &Expr{Kind: ExprThis} }

// Base builds the base-instance node.
func Base() *Expr { return &Expr{Kind: ExprBase} }

// Path builds a member access chain from a dotted name: "a.b.c".
func Path(dotted string) *Expr {
	parts := strings.Split(dotted, ".")
	expr := Ident(parts[0])
	for _, part := range parts[1:] {
		expr = Member(expr, part)
	}
	return expr
}

// DottedName returns "a.b.c" for a chain of identifiers and member
// accesses, or false when the chain contains anything else.
func (e *Expr) DottedName() (string, bool) {
	switch {
	case e == nil:
		return "", false
	case e.Kind == ExprIdent:
		return e.Name, true
	case e.Kind == ExprMember:
		prefix, ok := e.Target.DottedName()
		if !ok {
			return "", false
		}
		return prefix + "." + e.Name, true
	default:
		return "", false
	}
}

func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	if e == nil {
		sb.WriteString("<nil>")
		return
	}
	switch e.Kind {
	case ExprIdent:
		sb.WriteString(e.Name)
	case ExprMember:
		e.Target.write(sb)
		sb.WriteByte('.')
		sb.WriteString(e.Name)
	case ExprCall:
		e.Target.write(sb)
		sb.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			arg.write(sb)
		}
		sb.WriteByte(')')
	case ExprThis:
		sb.WriteString("this")
	case ExprBase:
		sb.WriteString("base")
	case ExprLit:
		sb.WriteString(e.Text)
	}
}
