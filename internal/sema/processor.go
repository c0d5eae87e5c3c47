package sema

import "github.com/p4fc/p4fc/internal/pipeline"

// ScopeHierarchyProcessor adapts C5 to the pipeline.
type ScopeHierarchyProcessor struct{}

func (p *ScopeHierarchyProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.RootScope = NewRootScope(ctx.TypeArray)
	h := NewScopeHierarchy(ctx.RootScope)
	ctx.ScopeMap = h.Run(ctx.AstRoot)
	return ctx
}

// NameBindingProcessor adapts C6 to the pipeline.
type NameBindingProcessor struct{}

func (p *NameBindingProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	b := NewNameBinding(ctx.ScopeMap)
	ctx.DeclMap = b.Run(ctx.AstRoot, ctx.RootScope)
	return ctx
}

// DeclaredTypesProcessor adapts C7 to the pipeline.
type DeclaredTypesProcessor struct{}

func (p *DeclaredTypesProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	d := NewDeclaredTypes(ctx.FilePath, ctx.RootScope, ctx.ScopeMap, ctx.DeclMap, ctx.TypeArray)
	typeEnv, errs := d.Run(ctx.AstRoot)
	ctx.TypeEnv = typeEnv
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}

// PotentialTypesProcessor adapts C8 to the pipeline.
type PotentialTypesProcessor struct{}

func (p *PotentialTypesProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	c := NewPotentialTypes(ctx.RootScope, ctx.ScopeMap, ctx.TypeEnv)
	ctx.PotentialTypeMap = c.Run(ctx.AstRoot)
	return ctx
}

// SelectTypeProcessor adapts C9 to the pipeline.
type SelectTypeProcessor struct{}

func (p *SelectTypeProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	s := NewSelectType(ctx.FilePath, ctx.RootScope, ctx.PotentialTypeMap, ctx.TypeEnv)
	errs := s.Run(ctx.AstRoot)
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}

// AnnotationsProcessor validates @protobuf_schema annotations. Runs after
// C7 so extern declarations have already resolved, though the check itself
// only consults the AST.
type AnnotationsProcessor struct{}

func (p *AnnotationsProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	a := NewAnnotations(ctx.FilePath)
	errs := a.Run(ctx.AstRoot)
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}
