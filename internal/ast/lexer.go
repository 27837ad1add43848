package ast

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokDot
	tokComma
	tokLParen
	tokRParen
	tokLAngle
	tokRAngle
	tokLBracket
	tokRBracket
	tokInvalid
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "number"
	case tokString:
		return "string"
	case tokDot:
		return "'.'"
	case tokComma:
		return "','"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLAngle:
		return "'<'"
	case tokRAngle:
		return "'>'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	default:
		return "invalid token"
	}
}

type token struct {
	Kind tokenKind
	Span Span
	Text string
}

type lexer struct {
	src  string
	pos  int
	look *token // one-token lookahead buffer
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// Peek returns the next token without consuming it.
func (lx *lexer) Peek() token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next consumes and returns the next token. After EOF it keeps returning EOF.
func (lx *lexer) Next() token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

func (lx *lexer) scan() token {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		lx.pos += size
	}
	start := lx.pos
	if start >= len(lx.src) {
		return token{Kind: tokEOF, Span: Span{start, start}}
	}
	r, size := utf8.DecodeRuneInString(lx.src[start:])
	switch {
	case r == '_' || unicode.IsLetter(r) || r == '@':
		lx.pos += size
		for lx.pos < len(lx.src) {
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			lx.pos += size
		}
		return lx.emit(tokIdent, start)
	case r >= '0' && r <= '9':
		for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
			lx.pos++
		}
		return lx.emit(tokInt, start)
	case r == '"':
		lx.pos++
		for lx.pos < len(lx.src) {
			switch lx.src[lx.pos] {
			case '\\':
				lx.pos += 2
				continue
			case '"':
				lx.pos++
				return lx.emit(tokString, start)
			}
			lx.pos++
		}
		lx.pos = len(lx.src)
		return lx.emit(tokInvalid, start)
	}
	lx.pos += size
	switch r {
	case '.':
		return lx.emit(tokDot, start)
	case ',':
		return lx.emit(tokComma, start)
	case '(':
		return lx.emit(tokLParen, start)
	case ')':
		return lx.emit(tokRParen, start)
	case '<':
		return lx.emit(tokLAngle, start)
	case '>':
		return lx.emit(tokRAngle, start)
	case '[':
		return lx.emit(tokLBracket, start)
	case ']':
		return lx.emit(tokRBracket, start)
	default:
		return lx.emit(tokInvalid, start)
	}
}

func (lx *lexer) emit(kind tokenKind, start int) token {
	end := min(lx.pos, len(lx.src))
	return token{Kind: kind, Span: Span{start, end}, Text: lx.src[start:end]}
}
