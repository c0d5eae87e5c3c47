// C6: the name-binding pass. Walks the AST once,
// left-to-right, creating exactly one scope.NameDeclaration per declaring
// site and chaining it into the correct (scope, namespace, spelling) slot
// via scope.Scope.Bind -- which never rejects a duplicate spelling, only
// chains it into an overload set. Every declaring node gets one decl_map
// entry.
//
// C6 reuses the exact *scope.Scope objects C5 created rather than pushing
// fresh ones: scope_map[node] holds, for a scoping construct, the scope
// active for that node's own children. Re-deriving a fresh scope tree here
// instead of reusing C5's would leave the NameDeclarations C6 creates
// unreachable from the very scope_map entries C7/C8 resolve references
// through.
//
// Grounded on original_source/name_bind.cpp's bind_* family (one function
// per declaring construct) and its error/match_kind field-count
// accumulation bug fix named in Open Questions.
package sema

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/container"
	"github.com/p4fc/p4fc/internal/scope"
)

type NameBinding struct {
	scopeMap *container.IDMap[*scope.Scope]
	declMap  *container.IDMap[*scope.NameDeclaration]
}

func NewNameBinding(scopeMap *container.IDMap[*scope.Scope]) *NameBinding {
	return &NameBinding{scopeMap: scopeMap, declMap: container.NewIDMap[*scope.NameDeclaration]()}
}

// Run binds every declaring site in prog and returns decl_map.
func (b *NameBinding) Run(prog *ast.Program, root *scope.Scope) *container.IDMap[*scope.NameDeclaration] {
	for _, stmt := range prog.Statements {
		b.bindStatement(stmt, root)
	}
	return b.declMap
}

// innerOf returns the scope C5 introduced for node, falling back to
// current if node introduced none (a plain statement/expression).
func (b *NameBinding) innerOf(node ast.Node, current *scope.Scope) *scope.Scope {
	if s, ok := b.scopeMap.Lookup(node); ok {
		return s
	}
	return current
}

func (b *NameBinding) bind(s *scope.Scope, decl ast.Declaration, ns scope.Namespace) *scope.NameDeclaration {
	name := decl.DeclName()
	d := s.Bind(name.Value, decl, ns)
	b.declMap.Set(decl, d)
	return d
}

func (b *NameBinding) bindStatement(stmt ast.Statement, current *scope.Scope) {
	if stmt == nil {
		return
	}
	switch n := stmt.(type) {
	case *ast.HeaderDecl:
		b.bind(current, n, scope.TypeNS)
		inner := b.innerOf(n, current)
		for _, f := range n.Fields {
			b.bind(inner, f, scope.Var)
		}
	case *ast.HeaderUnionDecl:
		b.bind(current, n, scope.TypeNS)
		inner := b.innerOf(n, current)
		for _, f := range n.Fields {
			b.bind(inner, f, scope.Var)
		}
	case *ast.StructDecl:
		b.bind(current, n, scope.TypeNS)
		inner := b.innerOf(n, current)
		for _, f := range n.Fields {
			b.bind(inner, f, scope.Var)
		}
	case *ast.EnumDecl:
		b.bind(current, n, scope.TypeNS)
		inner := b.innerOf(n, current)
		for _, m := range n.Members {
			b.bind(inner, m, scope.Var)
		}
	case *ast.ErrorDecl:
		for _, m := range n.Members {
			decl := current.Bind(m.Value, m, scope.Var)
			b.declMap.Set(m, decl)
		}
	case *ast.MatchKindDecl:
		for _, m := range n.Members {
			decl := current.Bind(m.Value, m, scope.Var)
			b.declMap.Set(m, decl)
		}
	case *ast.TypedefDecl:
		b.bind(current, n, scope.TypeNS)

	case *ast.ExternDecl:
		b.bind(current, n, scope.TypeNS)
		inner := b.innerOf(n, current)
		for _, m := range n.Methods {
			for _, p := range m.Params {
				b.bind(inner, p, scope.Var)
			}
		}

	case *ast.ParserTypeDecl:
		b.bind(current, n, scope.TypeNS)
		for _, p := range n.Params {
			b.bind(current, p, scope.Var)
		}
	case *ast.ControlTypeDecl:
		b.bind(current, n, scope.TypeNS)
		for _, p := range n.Params {
			b.bind(current, p, scope.Var)
		}
	case *ast.PackageDecl:
		b.bind(current, n, scope.TypeNS)
		for _, p := range n.Params {
			b.bind(current, p, scope.Var)
		}

	case *ast.ParserDecl:
		b.bind(current, n, scope.TypeNS)
		inner := b.innerOf(n, current)
		for _, p := range n.Params {
			b.bind(inner, p, scope.Var)
		}
		for _, p := range n.CtorParams {
			b.bind(inner, p, scope.Var)
		}
		for _, local := range n.Locals {
			b.bindStatement(local, inner)
		}
		for _, st := range n.States {
			b.bindParserState(st, inner)
		}

	case *ast.ControlDecl:
		b.bind(current, n, scope.TypeNS)
		inner := b.innerOf(n, current)
		for _, p := range n.Params {
			b.bind(inner, p, scope.Var)
		}
		for _, p := range n.CtorParams {
			b.bind(inner, p, scope.Var)
		}
		for _, local := range n.Locals {
			b.bindStatement(local, inner)
		}
		if n.Apply != nil {
			b.bindStatement(n.Apply, inner)
		}

	case *ast.FunctionDecl:
		b.bind(current, n, scope.Var)
		inner := b.innerOf(n, current)
		for _, p := range n.Params {
			b.bind(inner, p, scope.Var)
		}
		if n.Body != nil {
			for _, bstmt := range n.Body.Statements {
				b.bindStatement(bstmt, inner)
			}
		}

	case *ast.ActionDecl:
		b.bind(current, n, scope.Var)
		inner := b.innerOf(n, current)
		for _, p := range n.Params {
			b.bind(inner, p, scope.Var)
		}
		if n.Body != nil {
			for _, bstmt := range n.Body.Statements {
				b.bindStatement(bstmt, inner)
			}
		}

	case *ast.TableDecl:
		b.bind(current, n, scope.Var)

	case *ast.Instantiation:
		b.bind(current, n, scope.Var)

	case *ast.VariableDecl:
		b.bind(current, n, scope.Var)

	case *ast.BlockStatement:
		inner := b.innerOf(n, current)
		for _, bstmt := range n.Statements {
			b.bindStatement(bstmt, inner)
		}

	case *ast.IfStatement:
		b.bindStatement(n.Then, current)
		b.bindStatement(n.Else, current)
	}
}

func (b *NameBinding) bindParserState(st *ast.ParserState, current *scope.Scope) {
	b.bind(current, st, scope.Var)
	inner := b.innerOf(st, current)
	for _, stmt := range st.Statements {
		b.bindStatement(stmt, inner)
	}
}
