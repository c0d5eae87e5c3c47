package parser

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/token"
)

var baseTypeKeywords = map[token.Type]string{
	token.KW_BOOL:       "bool",
	token.KW_INT:        "int",
	token.KW_BIT:        "bit",
	token.KW_VARBIT:     "varbit",
	token.KW_STRING:     "string",
	token.KW_VOID:       "void",
	token.KW_ERROR:      "error",
	token.KW_MATCH_KIND: "match_kind",
}

// parseType parses one type-position production: a base
// type (optionally `<N>`-parameterized), a named reference, a tuple, or a
// trailing `[N]` header-stack suffix applied to either of the above.
func (p *Parser) parseType() ast.Type {
	tok := p.cur
	var base ast.Type

	switch {
	case p.cur.Type == token.IDENT && p.cur.Lexeme == "tuple" && p.peekIs(token.LT):
		base = p.parseTupleType()
	case p.cur.Type == token.IDENT:
		base = &ast.TypeName{Base: ast.NewBase(tok), Name: p.parseIdentifier()}
	case baseTypeKeywords[p.cur.Type] != "":
		name := baseTypeKeywords[p.cur.Type]
		p.advance()
		size := 0
		if p.curIs(token.LT) {
			p.advance()
			if p.curIs(token.INT_LITERAL) {
				size = atoiLexeme(p.cur.Lexeme)
				p.advance()
			}
			p.expect(token.GT)
		}
		base = &ast.BaseType{Base: ast.NewBase(tok), Name: name, Size: size}
	default:
		p.errorf(tok, "expected type, found %s %q", tok.Type, tok.Lexeme)
		p.advance()
		return &ast.BaseType{Base: ast.NewBase(tok), Name: "void"}
	}

	for p.curIs(token.LBRACKET) {
		p.advance()
		size := p.parseExpression(precLowest)
		p.expect(token.RBRACKET)
		base = &ast.HeaderStackType{Base: ast.NewBase(tok), Element: base, Size: size}
	}
	return base
}

// parseTupleType parses `tuple<T1, ..., Tn>`. "tuple" lexes as a plain
// identifier (it is not a reserved word in P4), so this is invoked from
// parseType only once the identifier's lexeme has been checked.
func (p *Parser) parseTupleType() ast.Type {
	tok := p.cur
	p.advance() // "tuple"
	p.expect(token.LT)
	var elems []ast.Type
	for !p.curIs(token.GT) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseType())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return &ast.TupleType{Base: ast.NewBase(tok), Elements: elems}
}

func atoiLexeme(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
