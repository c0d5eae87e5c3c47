// C5: the scope-hierarchy pass. Walks the AST once,
// left-to-right in source order, opening a new *scope.Scope at every
// scoping construct and recording a scope into scope_map for every node
// visited (the enclosing scope for ordinary nodes, the scope it opens for
// a scoping construct). Purely structural: C5 cannot fail
//.
//
// Grounded on original_source/scope.h's enter_scope/leave_scope bracketing
// around the same construct list names, restated as an
// explicit recursive walk rather than a push/pop pair threaded through a
// mutable checker struct.
package sema

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/container"
	"github.com/p4fc/p4fc/internal/scope"
)

// ScopeHierarchy runs C5 over prog, returning the populated scope_map.
// Every node visited gets an entry. An ordinary node maps to the scope
// active at that node (the scope it is name-resolved in); a node that
// opens a scope (e.g. a HeaderDecl, whose fields live in their own inner
// scope) maps to the scope it opens, the one active for its children.
type ScopeHierarchy struct {
	root     *scope.Scope
	scopeMap *container.IDMap[*scope.Scope]
}

func NewScopeHierarchy(root *scope.Scope) *ScopeHierarchy {
	return &ScopeHierarchy{root: root, scopeMap: container.NewIDMap[*scope.Scope]()}
}

// Run walks prog and returns the completed scope_map.
func (h *ScopeHierarchy) Run(prog *ast.Program) *container.IDMap[*scope.Scope] {
	h.record(prog, h.root)
	for _, stmt := range prog.Statements {
		h.walkStatement(stmt, h.root)
	}
	return h.scopeMap
}

func (h *ScopeHierarchy) record(node ast.Node, s *scope.Scope) {
	if node == nil {
		return
	}
	h.scopeMap.Set(node, s)
}

func (h *ScopeHierarchy) walkStatement(stmt ast.Statement, s *scope.Scope) {
	if stmt == nil {
		return
	}
	h.record(stmt, s)

	switch n := stmt.(type) {
	case *ast.HeaderDecl:
		inner := s.Push()
		h.record(n, inner)
		for _, f := range n.Fields {
			h.record(f, inner)
		}
	case *ast.HeaderUnionDecl:
		inner := s.Push()
		h.record(n, inner)
		for _, f := range n.Fields {
			h.record(f, inner)
		}
	case *ast.StructDecl:
		inner := s.Push()
		h.record(n, inner)
		for _, f := range n.Fields {
			h.record(f, inner)
		}
	case *ast.EnumDecl:
		inner := s.Push()
		h.record(n, inner)
		for _, m := range n.Members {
			h.record(m, inner)
			h.walkExpression(m.Value, inner)
		}
	case *ast.ErrorDecl:
		for _, m := range n.Members {
			h.record(m, s)
		}
	case *ast.MatchKindDecl:
		for _, m := range n.Members {
			h.record(m, s)
		}
	case *ast.TypedefDecl:
		// nothing further to enter; the aliased type is resolved by C7.

	case *ast.ExternDecl:
		inner := s.Push()
		h.record(n, inner) // the extern's own scope sees its methods
		for _, m := range n.Methods {
			h.record(m, inner)
			for _, p := range m.Params {
				h.record(p, inner)
			}
		}

	case *ast.ParserTypeDecl:
		for _, p := range n.Params {
			h.record(p, s)
		}
	case *ast.ControlTypeDecl:
		for _, p := range n.Params {
			h.record(p, s)
		}
	case *ast.PackageDecl:
		for _, p := range n.Params {
			h.record(p, s)
		}

	case *ast.ParserDecl:
		inner := s.Push()
		h.record(n, inner)
		for _, p := range n.Params {
			h.record(p, inner)
		}
		for _, p := range n.CtorParams {
			h.record(p, inner)
		}
		for _, local := range n.Locals {
			h.walkStatement(local, inner)
		}
		for _, st := range n.States {
			h.walkParserState(st, inner)
		}

	case *ast.ControlDecl:
		inner := s.Push()
		h.record(n, inner)
		for _, p := range n.Params {
			h.record(p, inner)
		}
		for _, p := range n.CtorParams {
			h.record(p, inner)
		}
		for _, local := range n.Locals {
			h.walkStatement(local, inner)
		}
		if n.Apply != nil {
			h.walkStatement(n.Apply, inner)
		}

	case *ast.FunctionDecl:
		inner := s.Push()
		h.record(n, inner)
		for _, p := range n.Params {
			h.record(p, inner)
		}
		if n.Body != nil {
			// The function body shares the parameter scope: its own
			// BlockStatement case would otherwise Push a second scope,
			// which is unnecessary but harmless; to keep parameters and
			// locals in one scope (so a local can't shadow a parameter
			// without diagnosis at reference time) the body's statements
			// are walked directly in inner.
			h.record(n.Body, inner)
			for _, bstmt := range n.Body.Statements {
				h.walkStatement(bstmt, inner)
			}
		}

	case *ast.ActionDecl:
		inner := s.Push()
		h.record(n, inner)
		for _, p := range n.Params {
			h.record(p, inner)
		}
		if n.Body != nil {
			h.record(n.Body, inner)
			for _, bstmt := range n.Body.Statements {
				h.walkStatement(bstmt, inner)
			}
		}

	case *ast.TableDecl:
		for _, prop := range n.Properties {
			h.record(prop, s)
			switch prop.Kind {
			case ast.TablePropKey:
				for _, k := range prop.Keys {
					h.record(k, s)
					h.walkExpression(k.Expr, s)
				}
			case ast.TablePropActions:
				for _, a := range prop.Actions {
					h.record(a, s)
					for _, arg := range a.Args {
						h.walkExpression(arg, s)
					}
				}
			}
		}

	case *ast.Instantiation:
		for _, a := range n.Args {
			h.walkExpression(a, s)
		}

	case *ast.VariableDecl:
		h.walkExpression(n.Init, s)

	case *ast.BlockStatement:
		inner := s.Push()
		h.record(n, inner)
		for _, bstmt := range n.Statements {
			h.walkStatement(bstmt, inner)
		}

	case *ast.AssignmentStatement:
		h.walkExpression(n.LHS, s)
		h.walkExpression(n.RHS, s)

	case *ast.IfStatement:
		h.walkExpression(n.Condition, s)
		h.walkStatement(n.Then, s)
		h.walkStatement(n.Else, s)

	case *ast.ReturnStatement:
		h.walkExpression(n.Value, s)

	case *ast.ExpressionStatement:
		h.walkExpression(n.Expr, s)

	case *ast.TransitionStatement:
		if n.Select != nil {
			h.walkStatement(n.Select, s)
		}

	case *ast.SelectStatement:
		for _, e := range n.Exprs {
			h.walkExpression(e, s)
		}
		for _, c := range n.Cases {
			h.record(c, s)
			for _, k := range c.Keyset {
				h.walkExpression(k, s)
			}
		}
	}
}

func (h *ScopeHierarchy) walkParserState(st *ast.ParserState, s *scope.Scope) {
	inner := s.Push()
	h.record(st, inner)
	for _, stmt := range st.Statements {
		h.walkStatement(stmt, inner)
	}
	if st.Transition != nil {
		h.walkStatement(st.Transition, inner)
	}
}

func (h *ScopeHierarchy) walkExpression(expr ast.Expression, s *scope.Scope) {
	if expr == nil {
		return
	}
	h.record(expr, s)

	switch n := expr.(type) {
	case *ast.BinaryExpression:
		h.walkExpression(n.Left, s)
		h.walkExpression(n.Right, s)
	case *ast.UnaryExpression:
		h.walkExpression(n.Operand, s)
	case *ast.CastExpression:
		h.walkExpression(n.Operand, s)
	case *ast.MemberExpression:
		h.walkExpression(n.Object, s)
	case *ast.IndexExpression:
		h.walkExpression(n.Object, s)
		h.walkExpression(n.Index, s)
	case *ast.CallExpression:
		h.walkExpression(n.Callee, s)
		for _, a := range n.Args {
			h.walkExpression(a, s)
		}
	}
}
