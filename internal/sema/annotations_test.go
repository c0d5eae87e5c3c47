package sema

import (
	"testing"

	"github.com/p4fc/p4fc/internal/diag"
	"github.com/p4fc/p4fc/internal/lexer"
	"github.com/p4fc/p4fc/internal/parser"
)

func TestProtobufSchemaAnnotationRejectsWrongArgCount(t *testing.T) {
	l := lexer.New(`@protobuf_schema() extern Counter { Counter(); }`)
	p := parser.New(l, "test.p4")
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors)
	}

	a := NewAnnotations("test.p4")
	errs := a.Run(prog)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(errs))
	}
	if errs[0].Code != diag.ErrType {
		t.Fatalf("expected ErrType, got %s", errs[0].Code)
	}
}

func TestProtobufSchemaAnnotationRejectsNonStringArg(t *testing.T) {
	l := lexer.New(`@protobuf_schema(42) extern Counter { Counter(); }`)
	p := parser.New(l, "test.p4")
	prog := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors)
	}

	a := NewAnnotations("test.p4")
	errs := a.Run(prog)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(errs))
	}
}
