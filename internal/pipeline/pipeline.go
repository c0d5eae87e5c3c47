// Package pipeline drives the fixed sequence of stages /§5
// describes: lex -> parse -> C5 -> C6 -> C7 -> C8 -> C9, each completing
// before the next begins, single-threaded and non-reentrant. Ported
// near-verbatim from internal/pipeline (Pipeline/Processor),
// generalized from funxy's single PipelineContext to the five P4 side
// tables.
package pipeline

import "github.com/p4fc/p4fc/internal/config"

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is a sequence of stages run in order.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage. In core-CLI mode (config.IsLSPMode == false) a
// stage that produced errors stops the pipeline, matching // ("every error is fatal ... the first error terminates the compilation").
// In LSP mode the pipeline continues regardless, collecting diagnostics
// from every stage it can still run on best-effort partial side tables,
// matching own "continue on errors to collect diagnostics
// from all stages" LSP behavior.
func (p *Pipeline) Run(initial *PipelineContext) *PipelineContext {
	ctx := initial
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
		if len(ctx.Errors) > 0 && !config.IsLSPMode {
			break
		}
	}
	return ctx
}
