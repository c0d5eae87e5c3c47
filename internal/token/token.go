// Package token defines the lexical token vocabulary produced by
// internal/lexer and consumed by internal/parser.
package token

import "fmt"

// Type identifies a token class.
type Type int

const (
	ILLEGAL Type = iota
	SOI // start-of-input
	EOF // end-of-input

	IDENT
	INT_LITERAL
	STRING_LITERAL
	BOOL_LITERAL

	// Punctuation
	ASSIGN    // =
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	BANG      // !
	AMP       // &
	PIPE      // |
	CARET     // ^
	TILDE     // ~
	SHL       // <<
	SHR       // >>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	EQ        // ==
	NEQ       // !=
	AND       // &&
	OR        // ||
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMI      // ;
	COLON     // :
	DOT       // .
	DOTDOTDOT // ...
	QUESTION  // ?
	AT        // @
	PLUSPLUS  // ++

	// Keywords
	KW_ACTION
	KW_APPLY
	KW_BOOL
	KW_BIT
	KW_CONST
	KW_CONTROL
	KW_DEFAULT
	KW_ELSE
	KW_ENUM
	KW_ERROR
	KW_EXTERN
	KW_FALSE
	KW_HEADER
	KW_HEADER_UNION
	KW_IF
	KW_IN
	KW_INOUT
	KW_INT
	KW_MATCH_KIND
	KW_OUT
	KW_PACKAGE
	KW_PARSER
	KW_RETURN
	KW_SELECT
	KW_STATE
	KW_STRING
	KW_STRUCT
	KW_SWITCH
	KW_TABLE
	KW_TRANSITION
	KW_TRUE
	KW_TYPEDEF
	KW_VARBIT
	KW_VOID
	KW_DONTCARE // the literal "_"
)

var keywordStrings = map[Type]string{
	KW_ACTION: "action", KW_APPLY: "apply", KW_BOOL: "bool", KW_BIT: "bit",
	KW_CONST: "const", KW_CONTROL: "control", KW_DEFAULT: "default", KW_ELSE: "else",
	KW_ENUM: "enum", KW_ERROR: "error", KW_EXTERN: "extern", KW_FALSE: "false",
	KW_HEADER: "header", KW_HEADER_UNION: "header_union", KW_IF: "if", KW_IN: "in",
	KW_INOUT: "inout", KW_INT: "int", KW_MATCH_KIND: "match_kind", KW_OUT: "out",
	KW_PACKAGE: "package", KW_PARSER: "parser", KW_RETURN: "return", KW_SELECT: "select",
	KW_STATE: "state", KW_STRING: "string", KW_STRUCT: "struct", KW_SWITCH: "switch",
	KW_TABLE: "table", KW_TRANSITION: "transition", KW_TRUE: "true", KW_TYPEDEF: "typedef",
	KW_VARBIT: "varbit", KW_VOID: "void",
}

// "accept" and "reject" are deliberately absent from this table: the root
// scope preloads them as ordinary Var-namespace identifiers rather than
// reserving them as grammar keywords, so they lex as IDENT like any other
// state name.

// Keywords maps the reserved spelling to its token type; sema.NewRootScope
// binds these into the root scope's Keyword namespace.
var Keywords = func() map[string]Type {
	m := make(map[string]Type, len(keywordStrings))
	for tt, s := range keywordStrings {
		m[s] = tt
	}
	return m
}()

// Position is a source location: file-relative line/column, 1-based.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical unit.
type Token struct {
	Type    Type
	Lexeme  string // exact source text
	Literal string // normalized literal payload (e.g. unescaped string body)
	Pos     Position

	// IntWidth/IntSigned carry the optional Nw/Ns suffix on integer literals
	//; IntHasWidth distinguishes "no suffix" from "width 0".
	IntHasWidth bool
	IntWidth    int
	IntSigned   bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Lexeme, t.Pos)
}

func (tt Type) String() string {
	if s, ok := keywordStrings[tt]; ok {
		return s
	}
	switch tt {
	case ILLEGAL:
		return "ILLEGAL"
	case SOI:
		return "SOI"
	case EOF:
		return "EOF"
	case IDENT:
		return "IDENT"
	case INT_LITERAL:
		return "INT_LITERAL"
	case STRING_LITERAL:
		return "STRING_LITERAL"
	case BOOL_LITERAL:
		return "BOOL_LITERAL"
	case KW_DONTCARE:
		return "_"
	default:
		return "PUNCT"
	}
}
