// Package ast defines the closed set of P4 syntactic productions as a
// tagged-variant node model: a Node/Statement/Expression interface split
// with nil-receiver GetToken() guards, and original_source/frontend/ast.h
// for the closed production set itself.
//
// Nodes are created during parsing and are immutable afterward: no pass in
// internal/sema ever mutates a node's shape, only the side tables keyed by
// node identity.
package ast

import "github.com/p4fc/p4fc/internal/token"

// Node is the base interface every AST node satisfies.
type Node interface {
	TokenLiteral() string
	Pos() token.Position
}

// Statement is a Node appearing in a statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node appearing in an expression position.
type Expression interface {
	Node
	expressionNode()
}

// Type is a Node appearing in a type position (names the
// productions: base types, named reference, header stack, tuple).
type Type interface {
	Node
	typeNode()
}

// Declaration is any declaring AST node: a parameter, instantiation,
// package/parser/control type, header/struct/enum/typedef, table, action,
// function, variable, or enum/error/match_kind member.
type Declaration interface {
	Node
	DeclName() *Identifier
}

// Base carries the primary token every node embeds for position and literal
// reporting. Exported so internal/parser can set it directly when building
// nodes.
type Base struct {
	Token token.Token
}

func (b Base) TokenLiteral() string {
	return b.Token.Lexeme
}

func (b Base) Pos() token.Position {
	return b.Token.Pos
}

// Identifier is a bare name occurrence; it may be a reference (looked up via
// scope_map) or, embedded in a Declaration, the declaring spelling itself.
type Identifier struct {
	Base
	Value string
}

func (i *Identifier) expressionNode() {}

// Annotation is a `@name` or `@name(args)` marker preceding a top-level
// declaration (`@protobuf_schema("file.proto")` convention).
// Annotations carry no scope or type of their own; internal/sema reads them
// directly off the declaration they're attached to.
type Annotation struct {
	Base
	Name string
	Args []Expression
}

// Program is the root of every AST the parser produces (:
// "AST rooted at a p4program node").
type Program struct {
	Base
	File       string
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
