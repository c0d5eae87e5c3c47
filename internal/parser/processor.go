package parser

import (
	"github.com/p4fc/p4fc/internal/lexer"
	"github.com/p4fc/p4fc/internal/pipeline"
)

// Processor is the pipeline.Processor adapter for the parsing stage,
// grounded on ParserProcessor (internal/parser/processor.go).
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := lexer.New(ctx.Source)
	pr := New(l, ctx.FilePath)
	ctx.AstRoot = pr.ParseProgram()
	ctx.Errors = append(ctx.Errors, pr.Errors...)
	return ctx
}
