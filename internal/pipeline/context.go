package pipeline

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/container"
	"github.com/p4fc/p4fc/internal/diag"
	"github.com/p4fc/p4fc/internal/scope"
	"github.com/p4fc/p4fc/internal/types"
)

// PipelineContext is threaded through every Processor. Each pass reads the
// side tables earlier passes wrote and writes exactly one new one: tokens
// -> AST -> scope-map -> decl-map -> type-env -> potential-type-map ->
// final per-node type.
type PipelineContext struct {
	FilePath string
	Source   string

	AstRoot *ast.Program

	RootScope        *scope.Scope
	ScopeMap         *container.IDMap[*scope.Scope]
	DeclMap          *container.IDMap[*scope.NameDeclaration]
	TypeArray        *types.Array
	TypeEnv          *container.IDMap[*types.Type]
	PotentialTypeMap *container.IDMap[*types.PotentialType]

	Errors []*diag.Diagnostic
}

// NewContext creates an empty context for a given source file.
func NewContext(filePath, source string) *PipelineContext {
	return &PipelineContext{
		FilePath:         filePath,
		Source:           source,
		ScopeMap:         container.NewIDMap[*scope.Scope](),
		DeclMap:          container.NewIDMap[*scope.NameDeclaration](),
		TypeArray:        types.NewArray(),
		TypeEnv:          container.NewIDMap[*types.Type](),
		PotentialTypeMap: container.NewIDMap[*types.PotentialType](),
	}
}
