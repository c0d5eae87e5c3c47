package parser

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/token"
)

// parseStatement parses one statement-position production:
// block, assignment, if, return, transition, or a bare expression/local
// declaration statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.KW_IF:
		return p.parseIfStatement()
	case token.KW_RETURN:
		return p.parseReturnStatement()
	case token.KW_CONST:
		return p.parseVariableDecl()
	case token.SEMI:
		tok := p.cur
		p.advance()
		return &ast.BlockStatement{Base: ast.NewBase(tok)}
	}

	if decl := p.tryParseLocalVarOrInstantiation(); decl != nil {
		return decl
	}

	tok := p.cur
	expr := p.parseExpression(precLowest)
	if p.curIs(token.ASSIGN) {
		p.advance()
		rhs := p.parseExpression(precLowest)
		p.expect(token.SEMI)
		return &ast.AssignmentStatement{Base: ast.NewBase(tok), LHS: expr, RHS: rhs}
	}
	p.expect(token.SEMI)
	return &ast.ExpressionStatement{Base: ast.NewBase(tok), Expr: expr}
}

// tryParseLocalVarOrInstantiation recognizes a statement starting with a
// type production followed by a name (`T x;`, `T x = e;`).
// It returns nil without consuming input when the lookahead doesn't confirm
// a declaration, so the caller falls back to parsing an
// expression/assignment statement (needed to disambiguate `x = e;` from
// `T x;` when both start with an identifier). An identifier followed by
// `(` always takes the expression path, so `Type(args) x;` is not
// recognized as an instantiation here.
func (p *Parser) tryParseLocalVarOrInstantiation() ast.Statement {
	if !p.startsType() {
		return nil
	}
	// An identifier alone could be the start of either a type (`T x;`) or an
	// expression statement/assignment (`x = e;`, `x.apply();`). Only commit
	// to the declaration path when the identifier is directly followed by
	// another identifier (the declared name), or by `[` when the type parsed
	// from there is followed by a name (`H[4] h;` but not `h[0];`).
	if p.cur.Type == token.IDENT {
		switch p.peek.Type {
		case token.IDENT:
		case token.LBRACKET:
			lexState, cur, peek, nErrs := *p.l, p.cur, p.peek, len(p.Errors)
			p.parseType()
			isDecl := p.curIs(token.IDENT)
			*p.l, p.cur, p.peek, p.Errors = lexState, cur, peek, p.Errors[:nErrs]
			if !isDecl {
				return nil
			}
		default:
			return nil
		}
	}

	tok := p.cur
	typeRef := p.parseType()
	name := p.parseIdentifier()

	if p.curIs(token.LPAREN) {
		args := p.parseCallArgs()
		instName := p.parseIdentifier()
		p.expect(token.SEMI)
		return &ast.Instantiation{Base: ast.NewBase(tok), TypeRef: typeRef, Args: args, Name: instName}
	}

	var init ast.Expression
	if p.curIs(token.ASSIGN) {
		p.advance()
		init = p.parseExpression(precLowest)
	}
	p.expect(token.SEMI)
	return &ast.VariableDecl{Base: ast.NewBase(tok), Name: name, TypeRef: typeRef, Init: init}
}

func (p *Parser) startsType() bool {
	switch p.cur.Type {
	case token.IDENT, token.KW_BOOL, token.KW_INT, token.KW_BIT, token.KW_VARBIT,
		token.KW_STRING, token.KW_VOID, token.KW_ERROR, token.KW_MATCH_KIND:
		return true
	}
	return false
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.cur
	p.expect(token.LBRACE)
	var stmts []ast.Statement
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return &ast.BlockStatement{Base: ast.NewBase(tok), Statements: stmts}
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	p.advance()
	p.expect(token.LPAREN)
	cond := p.parseExpression(precLowest)
	p.expect(token.RPAREN)
	then := p.parseStatement()
	var elseStmt ast.Statement
	if p.curIs(token.KW_ELSE) {
		p.advance()
		elseStmt = p.parseStatement()
	}
	return &ast.IfStatement{Base: ast.NewBase(tok), Condition: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	p.advance()
	var value ast.Expression
	if !p.curIs(token.SEMI) {
		value = p.parseExpression(precLowest)
	}
	p.expect(token.SEMI)
	return &ast.ReturnStatement{Base: ast.NewBase(tok), Value: value}
}

// parseTransitionStatement parses `transition nextState;` or
// `transition select(exprs) { case... }`.
func (p *Parser) parseTransitionStatement() ast.Statement {
	tok := p.cur
	p.advance()

	if p.curIs(token.KW_SELECT) {
		sel := p.parseSelectStatement()
		return &ast.TransitionStatement{Base: ast.NewBase(tok), Select: sel}
	}

	name := p.parseIdentifier()
	p.expect(token.SEMI)
	return &ast.TransitionStatement{Base: ast.NewBase(tok), NextState: name}
}

func (p *Parser) parseSelectStatement() *ast.SelectStatement {
	tok := p.cur
	p.advance()
	p.expect(token.LPAREN)
	var exprs []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		exprs = append(exprs, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)

	p.expect(token.LBRACE)
	var cases []*ast.SelectCase
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		ctok := p.cur
		var keyset []ast.Expression
		for {
			keyset = append(keyset, p.parseSelectKeysetElement())
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.COLON)
		next := p.parseIdentifier()
		p.expect(token.SEMI)
		cases = append(cases, &ast.SelectCase{Base: ast.NewBase(ctok), Keyset: keyset, NextState: next})
	}
	p.expect(token.RBRACE)
	return &ast.SelectStatement{Base: ast.NewBase(tok), Exprs: exprs, Cases: cases}
}

func (p *Parser) parseSelectKeysetElement() ast.Expression {
	tok := p.cur
	switch p.cur.Type {
	case token.KW_DEFAULT:
		p.advance()
		return &ast.DefaultExpression{Base: ast.NewBase(tok)}
	case token.KW_DONTCARE:
		p.advance()
		return &ast.DontCareExpression{Base: ast.NewBase(tok)}
	}
	return p.parseExpression(precLowest)
}
