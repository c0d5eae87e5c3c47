// Validates the one annotation this pipeline recognizes:
// `@protobuf_schema("file.proto")` on an extern declaration must name a
// `.proto` file that parses and defines at least one message. Grounded on
// the protoparse.Parser{ImportPaths: [...]}.ParseFiles usage elsewhere in
// this codebase's gRPC tooling.
package sema

import (
	"path/filepath"

	"github.com/jhump/protoreflect/desc/protoparse"

	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/diag"
)

const annotationProtobufSchema = "protobuf_schema"

// Annotations walks every ExternDecl's annotations and validates
// @protobuf_schema references against the filesystem.
type Annotations struct {
	file string
	errs []*diag.Diagnostic
}

func NewAnnotations(file string) *Annotations {
	return &Annotations{file: file}
}

func (a *Annotations) Run(prog *ast.Program) []*diag.Diagnostic {
	for _, stmt := range prog.Statements {
		ext, ok := stmt.(*ast.ExternDecl)
		if !ok {
			continue
		}
		for _, ann := range ext.Annotations {
			if ann.Name == annotationProtobufSchema {
				a.checkProtobufSchema(ann)
			}
		}
	}
	return a.errs
}

func (a *Annotations) checkProtobufSchema(ann *ast.Annotation) {
	if len(ann.Args) != 1 {
		a.errorf(ann, "@protobuf_schema expects exactly one string argument")
		return
	}
	lit, ok := ann.Args[0].(*ast.StringLiteral)
	if !ok {
		a.errorf(ann, "@protobuf_schema argument must be a string literal")
		return
	}

	path := lit.Value
	p := protoparse.Parser{ImportPaths: []string{filepath.Dir(a.file), "."}}
	fds, err := p.ParseFiles(path)
	if err != nil {
		a.errorf(ann, "failed to parse proto schema %q: %v", path, err)
		return
	}
	for _, fd := range fds {
		if len(fd.GetMessageTypes()) > 0 {
			return
		}
	}
	a.errorf(ann, "proto schema %q declares no messages", path)
}

func (a *Annotations) errorf(ann *ast.Annotation, format string, args ...any) {
	a.errs = append(a.errs, diag.New(a.file, diag.ErrType, tokenOf(ann), format, args...))
}
