// Package rpcapi exposes the C5-C9 pipeline as a unary gRPC service,
// AnalyzeFile, for cmd/p4fcls serve --grpc. Grounded on
// internal/evaluator/builtins_grpc.go's grpc.NewServer()/registration
// pattern; the service descriptor is registered by hand (no protoc
// invocation) using google.golang.org/protobuf/types/known/structpb, an
// already-compiled proto message, for both the request and response bodies
// so the service needs no generated code to stay within "no fabricated
// proto stubs".
package rpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/p4fc/p4fc/internal/diag"
	"github.com/p4fc/p4fc/internal/lexer"
	"github.com/p4fc/p4fc/internal/parser"
	"github.com/p4fc/p4fc/internal/pipeline"
	"github.com/p4fc/p4fc/internal/sema"
)

// AnalyzeFunc runs the full pipeline over (path, source) and returns the
// fatal diagnostics, if any.
type AnalyzeFunc func(path, source string) []*diag.Diagnostic

// DefaultAnalyze is the AnalyzeFunc wired to the real lex/parse/C5-C9 chain.
func DefaultAnalyze(path, source string) []*diag.Diagnostic {
	l := lexer.New(source)
	p := parser.New(l, path)
	prog := p.ParseProgram()

	ctx := pipeline.NewContext(path, source)
	ctx.AstRoot = prog
	ctx.Errors = append(ctx.Errors, p.Errors...)

	if len(ctx.Errors) == 0 {
		pl := pipeline.New(
			&sema.ScopeHierarchyProcessor{},
			&sema.NameBindingProcessor{},
			&sema.DeclaredTypesProcessor{},
			&sema.PotentialTypesProcessor{},
			&sema.SelectTypeProcessor{},
			&sema.AnnotationsProcessor{},
		)
		ctx = pl.Run(ctx)
	}
	return ctx.Errors
}

// Server implements the AnalyzeFile unary RPC.
type Server struct {
	Analyze AnalyzeFunc
}

func NewServer() *Server {
	return &Server{Analyze: DefaultAnalyze}
}

// analyzeFile is the handler backing the hand-registered service
// descriptor: request.fields["path"]/["source"] in, a response with
// fields["clean"] and fields["diagnostics"] (a list of one-line strings)
// out.
func (s *Server) analyzeFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path := req.Fields["path"].GetStringValue()
	source := req.Fields["source"].GetStringValue()

	errs := s.Analyze(path, source)
	messages := make([]any, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}

	resp, err := structpb.NewStruct(map[string]any{
		"clean":       len(errs) == 0,
		"diagnostics": messages,
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ServiceDesc is the hand-written grpc.ServiceDesc for p4fc.AnalyzerService,
// exposing the single AnalyzeFile method.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "p4fc.AnalyzerService",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AnalyzeFile",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				req := new(structpb.Struct)
				if err := dec(req); err != nil {
					return nil, err
				}
				s := srv.(*Server)
				if interceptor == nil {
					return s.analyzeFile(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/p4fc.AnalyzerService/AnalyzeFile"}
				handler := func(ctx context.Context, req any) (any, error) {
					return s.analyzeFile(ctx, req.(*structpb.Struct))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "p4fc/rpcapi.proto",
}

// Register registers Server on grpcServer using the hand-written
// ServiceDesc.
func Register(grpcServer *grpc.Server, s *Server) {
	grpcServer.RegisterService(&ServiceDesc, s)
}
