// Package parser is a recursive-descent, Pratt-style expression parser that
// turns an internal/lexer token stream into the internal/ast tree.
// Structured as a core Parser struct plus per-concern files for
// expressions, statements and a processor.go Processor adapter, with
// original_source/parser.cpp as the source of the P4 grammar itself.
package parser

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/diag"
	"github.com/p4fc/p4fc/internal/lexer"
	"github.com/p4fc/p4fc/internal/token"
)

// Parser consumes tokens from a lexer.Lexer one at a time, keeping a single
// token of lookahead (cur/peek) in a plain recursive-descent style.
type Parser struct {
	l        *lexer.Lexer
	filePath string

	cur  token.Token
	peek token.Token

	Errors []*diag.Diagnostic
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer, filePath string) *Parser {
	p := &Parser{l: l, filePath: filePath}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(tt token.Type) bool  { return p.cur.Type == tt }
func (p *Parser) peekIs(tt token.Type) bool { return p.peek.Type == tt }

// expect advances past cur if it has type tt, else records a syntax error
// and leaves cur in place so the caller can attempt recovery.
func (p *Parser) expect(tt token.Type) bool {
	if p.curIs(tt) {
		p.advance()
		return true
	}
	p.errorf(p.cur, "expected %s, found %s %q", tt, p.cur.Type, p.cur.Lexeme)
	return false
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	p.Errors = append(p.Errors, diag.New(p.filePath, diag.ErrSyntax, tok, format, args...))
}

// ParseProgram parses an entire source file into an AST rooted at a
// p4program node. Parsing never halts on a malformed top-level declaration:
// it skips to the next recognizable declaration start so a single typo
// doesn't suppress every other diagnostic a human would want to see while
// editing.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{File: p.filePath}
	for !p.curIs(token.EOF) {
		stmt := p.parseTopLevelDecl()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
			continue
		}
		p.synchronize()
	}
	return prog
}

// synchronize skips tokens until a plausible top-level declaration start or
// EOF, after a parse failure.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		switch p.cur.Type {
		case token.KW_HEADER, token.KW_HEADER_UNION, token.KW_STRUCT, token.KW_ENUM,
			token.KW_ERROR, token.KW_MATCH_KIND, token.KW_TYPEDEF, token.KW_EXTERN,
			token.KW_PARSER, token.KW_CONTROL, token.KW_PACKAGE, token.KW_ACTION,
			token.KW_TABLE, token.KW_CONST:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	tok := p.cur
	if !p.curIs(token.IDENT) {
		p.errorf(tok, "expected identifier, found %s %q", tok.Type, tok.Lexeme)
		p.advance()
		return &ast.Identifier{Base: ast.NewBase(tok), Value: tok.Lexeme}
	}
	p.advance()
	return &ast.Identifier{Base: ast.NewBase(tok), Value: tok.Lexeme}
}

