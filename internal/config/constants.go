// Package config carries the ambient constants and project settings the
// core pipeline consults: recognized source extension, test/LSP mode
// switches that select fatal-exit vs collect-and-continue diagnostic
// policy, and the fixed spelling of every keyword/built-in name preloaded
// into the root scope.
package config

// Version is the current p4fc version.
var Version = "0.1.0"

const SourceFileExt = ".p4"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".p4"}

// HasSourceExt returns true if the path ends with a recognized source
// extension.
func HasSourceExt(path string) bool {
	ext := SourceFileExt
	return len(path) >= len(ext) && path[len(path)-len(ext):] == ext
}

// IsTestMode indicates the process is running under `go test`; set once at
// startup.
var IsTestMode = false

// IsLSPMode indicates the process is cmd/p4fcls rather than the core
// cmd/p4fc CLI. The pipeline uses it to decide whether a stage that
// produced errors halts the run (core CLI: every error is fatal) or lets
// later stages run on best-effort partial side tables so the language
// server can report diagnostics from multiple stages at once.
var IsLSPMode = false

// Root-scope built-in spellings: the root scope is preloaded before parsing
// with these keywords and a small fixed set of built-in names in the
// Var/Type namespaces.
const (
	BuiltinAccept    = "accept"
	BuiltinReject    = "reject"
	BuiltinVoid      = "void"
	BuiltinBool      = "bool"
	BuiltinInt       = "int"
	BuiltinBit       = "bit"
	BuiltinVarbit    = "varbit"
	BuiltinString    = "string"
	BuiltinError     = "error"
	BuiltinMatchKind = "match_kind"
	BuiltinDontCare  = "_"
)

// BuiltinVarNames and BuiltinTypeNames list the root-scope preload set for
// each namespace.
var BuiltinVarNames = []string{BuiltinAccept, BuiltinReject, BuiltinDontCare}
var BuiltinTypeNames = []string{
	BuiltinVoid, BuiltinBool, BuiltinInt, BuiltinBit, BuiltinVarbit,
	BuiltinString, BuiltinError, BuiltinMatchKind,
}

// Built-in operator spellings predefined in the root scope's Type
// namespace.
var BuiltinOperators = []string{
	"+", "-", "*", "/", "%",
	"==", "!=", "<", "<=", ">", ">=",
	"&&", "||",
	"&", "|", "^", "<<", ">>",
}
