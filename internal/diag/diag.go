// Package diag implements the compiler's diagnostic interface: a closed
// set of error codes and a Diagnostic error type carrying file/token
// position. It neither prints nor terminates the process: passes return
// Diagnostics and their callers decide how to report them.
// Modeled on the *diagnostics.DiagnosticError calling convention used
// elsewhere in this codebase (diagnostics.NewError(code, token, msg)) and
// the File/Token.Line/Token.Column/Code/Error() surface the language
// server consumes.
package diag

import (
	"fmt"

	"github.com/p4fc/p4fc/internal/token"
)

// Code identifies a diagnostic's category.
type Code string

const (
	ErrUsage   Code = "P4001" // missing/malformed CLI argument
	ErrIO      Code = "P4002" // cannot open source file
	ErrLex     Code = "P4010" // unknown token, unterminated string, bad digit
	ErrSyntax  Code = "P4020" // parser could not match the grammar
	ErrName    Code = "P4030" // reference to an undeclared identifier
	ErrType    Code = "P4040" // unresolved or ambiguous type reference
	ErrMismatch Code = "P4050" // candidate-type set excludes the required type
	ErrAmbiguous Code = "P4051" // candidate-type set has >1 element after constraints
	ErrInternal Code = "P4099" // assertion failure, a programmer error not a user-visible category
)

// Diagnostic is one located or unlocated error.
type Diagnostic struct {
	File    string
	Pos     token.Position
	Lexeme  string
	Code    Code
	Message string
	located bool
}

func (d *Diagnostic) Error() string {
	if !d.located {
		return d.Message
	}
	return fmt.Sprintf("%s:%d:%d: error: %s", d.File, d.Pos.Line, d.Pos.Column, d.Message)
}

// New creates a located diagnostic from a token's position.
func New(file string, code Code, tok token.Token, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		File:    file,
		Pos:     tok.Pos,
		Lexeme:  tok.Lexeme,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		located: true,
	}
}

// NewUnlocated creates a single-sentence diagnostic with no source
// position, used for usage/I-O errors raised before any file is read.
func NewUnlocated(code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}
