package parser

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/token"
)

// Operator precedence levels, lowest to highest (requires no
// particular grammar but P4's own operator precedence; grounded on
// original_source/parser.cpp's precedence table).
const (
	precLowest  = iota
	precOr          // ||
	precAnd         // &&
	precEquals      // == !=
	precCompare     // < > <= >=
	precBitOr       // |
	precBitXor      // ^
	precBitAnd      // &
	precShift       // << >>
	precSum         // + -
	precProduct     // * / %
	precUnary       // ! - ~ (prefix)
	precCall        // f(...) a.b a[i]
)

var binaryPrec = map[token.Type]int{
	token.OR:      precOr,
	token.AND:     precAnd,
	token.EQ:      precEquals,
	token.NEQ:     precEquals,
	token.LT:      precCompare,
	token.GT:      precCompare,
	token.LE:      precCompare,
	token.GE:      precCompare,
	token.PIPE:    precBitOr,
	token.CARET:   precBitXor,
	token.AMP:     precBitAnd,
	token.SHL:     precShift,
	token.SHR:     precShift,
	token.PLUS:    precSum,
	token.MINUS:   precSum,
	token.STAR:    precProduct,
	token.SLASH:   precProduct,
	token.PERCENT: precProduct,
}

func (p *Parser) peekPrec() int {
	if prec, ok := binaryPrec[p.peek.Type]; ok {
		return prec
	}
	return precLowest
}

// parseExpression is a standard Pratt parser: a prefix production followed
// by zero or more infix productions bound by precedence climbing.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefix()

	for !p.curIs(token.SEMI) {
		prec, ok := binaryPrec[p.cur.Type]
		if !ok || prec <= minPrec {
			break
		}
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur
	switch tok.Type {
	case token.BANG, token.MINUS, token.TILDE:
		p.advance()
		operand := p.parseExpression(precUnary)
		return p.parsePostfix(&ast.UnaryExpression{Base: ast.NewBase(tok), Operator: tok.Lexeme, Operand: operand})
	case token.INT_LITERAL:
		p.advance()
		lit := &ast.IntegerLiteral{
			Base: ast.NewBase(tok), Value: tok.Literal,
			HasWidth: tok.IntHasWidth, Width: tok.IntWidth, Signed: tok.IntSigned,
		}
		return p.parsePostfix(lit)
	case token.BOOL_LITERAL:
		p.advance()
		return p.parsePostfix(&ast.BooleanLiteral{Base: ast.NewBase(tok), Value: tok.Lexeme == "true"})
	case token.STRING_LITERAL:
		p.advance()
		return p.parsePostfix(&ast.StringLiteral{Base: ast.NewBase(tok), Value: tok.Literal})
	case token.KW_DEFAULT:
		p.advance()
		return p.parsePostfix(&ast.DefaultExpression{Base: ast.NewBase(tok)})
	case token.KW_DONTCARE:
		p.advance()
		return p.parsePostfix(&ast.DontCareExpression{Base: ast.NewBase(tok)})
	case token.LPAREN:
		return p.parseParenOrCast()
	case token.IDENT:
		p.advance()
		return p.parsePostfix(&ast.Identifier{Base: ast.NewBase(tok), Value: tok.Lexeme})
	}

	p.errorf(tok, "unexpected token %s %q in expression", tok.Type, tok.Lexeme)
	p.advance()
	return &ast.Identifier{Base: ast.NewBase(tok), Value: tok.Lexeme}
}

// parseParenOrCast disambiguates `(expr)` from a cast `(T) expr`: a cast's
// parenthesized content must itself be a type production followed
// immediately by `)` and then another prefix-starting token.
func (p *Parser) parseParenOrCast() ast.Expression {
	tok := p.cur
	if p.looksLikeCast() {
		p.advance() // (
		target := p.parseType()
		p.expect(token.RPAREN)
		operand := p.parseExpression(precUnary)
		return p.parsePostfix(&ast.CastExpression{Base: ast.NewBase(tok), TargetType: target, Operand: operand})
	}

	p.advance() // (
	inner := p.parseExpression(precLowest)
	p.expect(token.RPAREN)
	return p.parsePostfix(inner)
}

// looksLikeCast peeks past the current "(" to see whether it opens a base
// type keyword immediately followed by ")", the unambiguous cast shape
// ("Cast expression: require ActualType(operand) in
// CastSet(target)"). Named types in parens are treated as grouped
// expressions, matching own lookahead-limited approach to
// parenthesis ambiguity.
func (p *Parser) looksLikeCast() bool {
	switch p.peek.Type {
	case token.KW_BOOL, token.KW_INT, token.KW_BIT, token.KW_VARBIT,
		token.KW_STRING, token.KW_VOID, token.KW_ERROR, token.KW_MATCH_KIND:
		return true
	}
	return false
}

func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch p.cur.Type {
		case token.DOT:
			tok := p.cur
			p.advance()
			member := p.parseMemberName()
			expr = &ast.MemberExpression{Base: ast.NewBase(tok), Object: expr, Member: member}
		case token.LBRACKET:
			tok := p.cur
			p.advance()
			idx := p.parseExpression(precLowest)
			p.expect(token.RBRACKET)
			expr = &ast.IndexExpression{Base: ast.NewBase(tok), Object: expr, Index: idx}
		case token.LPAREN:
			tok := p.cur
			args := p.parseCallArgs()
			expr = &ast.CallExpression{Base: ast.NewBase(tok), Callee: expr, Args: args}
		default:
			return expr
		}
	}
}

// parseMemberName parses the name after `.` in a member access. "apply" is
// a statement keyword only in a control's own body (`apply { ... }`) but is
// also the conventional method name used to invoke a parser/control
// instance (`t.apply()`), so it is accepted here alongside plain
// identifiers.
func (p *Parser) parseMemberName() *ast.Identifier {
	tok := p.cur
	if tok.Type == token.KW_APPLY {
		p.advance()
		return &ast.Identifier{Base: ast.NewBase(tok), Value: tok.Lexeme}
	}
	return p.parseIdentifier()
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.cur
	prec := binaryPrec[tok.Type]
	p.advance()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Base: ast.NewBase(tok), Operator: tok.Lexeme, Left: left, Right: right}
}
