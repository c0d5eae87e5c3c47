package rpcapi

import (
	"context"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/p4fc/p4fc/internal/diag"
)

func TestDefaultAnalyzeClean(t *testing.T) {
	errs := DefaultAnalyze("t.p4", "header H { bit<8> x; }")
	if len(errs) != 0 {
		t.Fatalf("expected clean, got %v", errs)
	}
}

func TestDefaultAnalyzeUnresolvedType(t *testing.T) {
	errs := DefaultAnalyze("t.p4", "struct S { nope_t x; }")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", errs)
	}
	if errs[0].Code != "P4040" {
		t.Fatalf("expected P4040, got %s", errs[0].Code)
	}
}

func TestAnalyzeFileHandlerClean(t *testing.T) {
	s := NewServer()
	req, err := structpb.NewStruct(map[string]any{
		"path":   "t.p4",
		"source": "header H { bit<8> x; }",
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	resp, err := s.analyzeFile(context.Background(), req)
	if err != nil {
		t.Fatalf("analyzeFile: %v", err)
	}
	if !resp.Fields["clean"].GetBoolValue() {
		t.Fatalf("expected clean=true, got %v", resp.Fields["clean"])
	}
	if n := len(resp.Fields["diagnostics"].GetListValue().GetValues()); n != 0 {
		t.Fatalf("expected no diagnostics, got %d", n)
	}
}

func TestAnalyzeFileHandlerUnclean(t *testing.T) {
	s := NewServer()
	req, err := structpb.NewStruct(map[string]any{
		"path":   "t.p4",
		"source": "struct S { nope_t x; }",
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	resp, err := s.analyzeFile(context.Background(), req)
	if err != nil {
		t.Fatalf("analyzeFile: %v", err)
	}
	if resp.Fields["clean"].GetBoolValue() {
		t.Fatal("expected clean=false")
	}
	diags := resp.Fields["diagnostics"].GetListValue().GetValues()
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
}

// Server.Analyze is a field, not a hardcoded call, so a handler under test
// can be pointed at a stub instead of the real lexer/parser/pipeline chain.
func TestAnalyzeFileHandlerUsesInjectedAnalyze(t *testing.T) {
	called := false
	s := &Server{Analyze: func(path, source string) []*diag.Diagnostic {
		called = true
		return nil
	}}

	req, err := structpb.NewStruct(map[string]any{"path": "t.p4", "source": ""})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	if _, err := s.analyzeFile(context.Background(), req); err != nil {
		t.Fatalf("analyzeFile: %v", err)
	}
	if !called {
		t.Fatal("expected injected Analyze to be invoked")
	}
}
