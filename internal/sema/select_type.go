// C9: the select-type pass. Walks the AST top-down; every
// call carries an optional required_ty and, for callee expressions, an
// optional potential_args product. At each node, the candidate set C8 built
// is reduced to those compatible with the context; exactly one survivor
// commits to type_env, zero is a type mismatch, more than one is ambiguous
//. C9 is the last pass: nothing downstream of it is in scope
// here.
//
// Grounded on original_source/select_type.c's top-down required-type
// threading and match_function helper.
package sema

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/config"
	"github.com/p4fc/p4fc/internal/container"
	"github.com/p4fc/p4fc/internal/diag"
	"github.com/p4fc/p4fc/internal/scope"
	"github.com/p4fc/p4fc/internal/types"
)

type SelectType struct {
	root    *scope.Scope
	potMap  *container.IDMap[*types.PotentialType]
	typeEnv *container.IDMap[*types.Type]
	file    string
	errs    []*diag.Diagnostic

	boolType *types.Type
	intType  *types.Type
}

func NewSelectType(file string, root *scope.Scope, potMap *container.IDMap[*types.PotentialType], typeEnv *container.IDMap[*types.Type]) *SelectType {
	return &SelectType{
		file:     file,
		root:     root,
		potMap:   potMap,
		typeEnv:  typeEnv,
		boolType: builtinResolved(root, config.BuiltinBool),
		intType:  builtinResolved(root, config.BuiltinInt),
	}
}

func builtinResolved(root *scope.Scope, name string) *types.Type {
	t, _ := root.LookupBuiltin(name, scope.TypeNS).ResolvedType.(*types.Type)
	return t
}

// Run commits exactly one type per expression node reachable from prog into
// type_env (the same map C7 populated for type-denoting nodes) and returns
// any fatal diagnostics.
func (c *SelectType) Run(prog *ast.Program) []*diag.Diagnostic {
	for _, stmt := range prog.Statements {
		c.stmt(stmt, nil)
	}
	return c.errs
}

// stmt walks a statement, threading the enclosing function's declared
// return type (nil inside an action body, which is always void) so a
// ReturnStatement can require it of its expression.
func (c *SelectType) stmt(stmt ast.Statement, currentReturn *types.Type) {
	if stmt == nil {
		return
	}
	switch n := stmt.(type) {
	case *ast.HeaderDecl:
		for _, f := range n.Fields {
			c.walkType(f.TypeRef)
		}
	case *ast.HeaderUnionDecl:
		for _, f := range n.Fields {
			c.walkType(f.TypeRef)
		}
	case *ast.StructDecl:
		for _, f := range n.Fields {
			c.walkType(f.TypeRef)
		}

	case *ast.EnumDecl:
		for _, m := range n.Members {
			if m.Value != nil {
				c.selectExpr(m.Value, nil)
			}
		}

	case *ast.TypedefDecl:
		c.walkType(n.Aliased)

	case *ast.ExternDecl:
		for _, m := range n.Methods {
			for _, p := range m.Params {
				c.walkType(p.TypeRef)
			}
		}

	case *ast.ParserTypeDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
	case *ast.ControlTypeDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
	case *ast.PackageDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}

	case *ast.ParserDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
		for _, p := range n.CtorParams {
			c.walkType(p.TypeRef)
		}
		for _, local := range n.Locals {
			c.stmt(local, currentReturn)
		}
		for _, st := range n.States {
			c.parserState(st)
		}

	case *ast.ControlDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
		for _, p := range n.CtorParams {
			c.walkType(p.TypeRef)
		}
		for _, local := range n.Locals {
			c.stmt(local, currentReturn)
		}
		if n.Apply != nil {
			c.stmt(n.Apply, currentReturn)
		}

	case *ast.FunctionDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
		ret := c.declaredReturn(n)
		if n.Body != nil {
			for _, bstmt := range n.Body.Statements {
				c.stmt(bstmt, ret)
			}
		}

	case *ast.ActionDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
		if n.Body != nil {
			for _, bstmt := range n.Body.Statements {
				c.stmt(bstmt, nil)
			}
		}

	case *ast.TableDecl:
		for _, prop := range n.Properties {
			switch prop.Kind {
			case ast.TablePropKey:
				for _, k := range prop.Keys {
					c.selectExpr(k.Expr, nil)
				}
			case ast.TablePropActions:
				for _, a := range prop.Actions {
					for _, arg := range a.Args {
						c.selectExpr(arg, nil)
					}
				}
			}
		}

	case *ast.Instantiation:
		c.walkType(n.TypeRef)
		for _, a := range n.Args {
			c.selectExpr(a, nil)
		}

	case *ast.VariableDecl:
		c.walkType(n.TypeRef)
		if n.Init != nil {
			declared, _ := c.typeEnv.Lookup(n)
			c.selectExpr(n.Init, declared)
		}

	case *ast.BlockStatement:
		for _, bstmt := range n.Statements {
			c.stmt(bstmt, currentReturn)
		}

	case *ast.AssignmentStatement:
		lhs := c.selectExpr(n.LHS, nil)
		c.selectExpr(n.RHS, lhs)

	case *ast.IfStatement:
		c.selectExpr(n.Condition, c.boolType)
		c.stmt(n.Then, currentReturn)
		c.stmt(n.Else, currentReturn)

	case *ast.ReturnStatement:
		if n.Value != nil {
			c.selectExpr(n.Value, currentReturn)
		}

	case *ast.ExpressionStatement:
		c.selectExpr(n.Expr, nil)

	case *ast.TransitionStatement:
		if n.Select != nil {
			c.stmt(n.Select, currentReturn)
		}

	case *ast.SelectStatement:
		for _, e := range n.Exprs {
			c.selectExpr(e, nil)
		}
		for _, cs := range n.Cases {
			for _, k := range cs.Keyset {
				switch k.(type) {
				case *ast.DefaultExpression, *ast.DontCareExpression:
					c.selectExpr(k, nil)
				default:
					c.selectExpr(k, c.intType)
				}
			}
		}
	}
}

// walkType descends into the one type production that can embed an
// expression: a header-stack size, which must commit to int.
func (c *SelectType) walkType(t ast.Type) {
	switch n := t.(type) {
	case *ast.HeaderStackType:
		c.walkType(n.Element)
		if n.Size != nil {
			c.selectExpr(n.Size, c.intType)
		}
	case *ast.TupleType:
		for _, e := range n.Elements {
			c.walkType(e)
		}
	}
}

func (c *SelectType) parserState(st *ast.ParserState) {
	for _, stmt := range st.Statements {
		c.stmt(stmt, nil)
	}
	if st.Transition != nil {
		c.stmt(st.Transition, nil)
	}
}

func (c *SelectType) declaredReturn(n *ast.FunctionDecl) *types.Type {
	fn, ok := c.typeEnv.Lookup(n)
	if !ok || fn == nil {
		return nil
	}
	return types.ActualType(fn.Return)
}

// selectExpr reduces e's candidate set (already built by C8) against
// requiredTy, recursing into children first context
// propagation rules, then committing the single survivor to type_env.
func (c *SelectType) selectExpr(e ast.Expression, requiredTy *types.Type) *types.Type {
	if e == nil {
		return nil
	}
	if t, ok := c.typeEnv.Lookup(e); ok {
		return t
	}

	switch n := e.(type) {
	case *ast.CallExpression:
		return c.selectCall(n, requiredTy)

	case *ast.BinaryExpression:
		c.selectExpr(n.Left, nil)
		c.selectExpr(n.Right, nil)
		return c.reduce(e, requiredTy)

	case *ast.UnaryExpression:
		// Unary propagates the operand's own candidate set;
		// the same requiredTy constraint applies identically to both.
		t := c.selectExpr(n.Operand, requiredTy)
		if t != nil {
			c.typeEnv.Set(e, t)
		}
		return t

	case *ast.CastExpression:
		c.selectExpr(n.Operand, nil)
		return c.reduce(e, requiredTy)

	case *ast.MemberExpression:
		c.selectExpr(n.Object, nil)
		return c.reduce(e, requiredTy)

	case *ast.IndexExpression:
		c.selectExpr(n.Object, nil)
		c.selectExpr(n.Index, c.intType)
		return c.reduce(e, requiredTy)

	default:
		return c.reduce(e, requiredTy)
	}
}

// selectCall implements function-call rule: args are driven
// first (their sets are already built; no requiredTy constraint applies to
// them before the callee is chosen), then match_function narrows the
// callee's candidate set by (required_ty, potential_args); once exactly one
// Function survives, each argument is re-driven against its matched
// parameter type.
func (c *SelectType) selectCall(n *ast.CallExpression, requiredTy *types.Type) *types.Type {
	argSets := make([]*types.PotentialType, len(n.Args))
	for i, a := range n.Args {
		pt, ok := c.potMap.Lookup(a)
		if !ok {
			pt = types.NewPotSet()
		}
		argSets[i] = pt
	}
	argsProduct := types.NewPotProduct(argSets)

	calleeSet, ok := c.potMap.Lookup(n.Callee)
	if !ok {
		c.errName(n.Callee)
		return nil
	}

	matched := matchFunction(calleeSet, requiredTy, argsProduct)
	switch len(matched) {
	case 0:
		if calleeSet.Len() == 0 {
			c.errName(n.Callee)
		} else {
			c.errMismatch(n, requiredTy)
		}
		return nil
	case 1:
		fn := matched[0]
		c.typeEnv.Set(n.Callee, fn)
		ret := types.EffectiveType(fn)
		c.typeEnv.Set(n, ret)
		if fn.Params != nil {
			for i, p := range fn.Params.Members {
				if i < len(n.Args) {
					c.selectExpr(n.Args[i], p)
				}
			}
		}
		return ret
	default:
		c.errAmbiguous(n)
		return nil
	}
}

// matchFunction is match_function: keep only Function
// candidates whose return equals requiredReturn (if given) and whose
// parameter product matches args under match_params.
func matchFunction(set *types.PotentialType, requiredReturn *types.Type, args *types.PotentialType) []*types.Type {
	var out []*types.Type
	for _, cand := range set.Candidates() {
		actual := types.ActualType(cand)
		if actual == nil || actual.Kind != types.Function {
			continue
		}
		if requiredReturn != nil && !types.Equivalent(types.ActualType(actual.Return), requiredReturn) {
			continue
		}
		if !matchParams(args, actual.Params) {
			continue
		}
		out = append(out, actual)
	}
	return out
}

// reduce narrows e's already-built candidate set to those equivalent to
// requiredTy (if any) and commits the single survivor. An empty set before
// any filtering means the name never resolved (name-resolution
// error); an empty set only after filtering is a type mismatch.
func (c *SelectType) reduce(e ast.Expression, requiredTy *types.Type) *types.Type {
	pt, ok := c.potMap.Lookup(e)
	if !ok || pt.Kind != types.PotSet {
		c.errName(e)
		return nil
	}
	original := pt.Candidates()
	if len(original) == 0 {
		c.errName(e)
		return nil
	}

	var matched []*types.Type
	for _, cand := range original {
		if requiredTy != nil && !types.Equivalent(cand, requiredTy) {
			continue
		}
		matched = append(matched, cand)
	}

	switch len(matched) {
	case 0:
		c.errMismatch(e, requiredTy)
		return nil
	case 1:
		c.typeEnv.Set(e, matched[0])
		return matched[0]
	default:
		c.errAmbiguous(e)
		return nil
	}
}

func (c *SelectType) errName(e ast.Expression) {
	c.errs = append(c.errs, diag.New(c.file, diag.ErrName, tokenOf(e), "reference to an undeclared identifier"))
}

func (c *SelectType) errMismatch(e ast.Expression, requiredTy *types.Type) {
	if requiredTy != nil {
		c.errs = append(c.errs, diag.New(c.file, diag.ErrMismatch, tokenOf(e), "type mismatch: expected %s", requiredTy.String()))
		return
	}
	c.errs = append(c.errs, diag.New(c.file, diag.ErrMismatch, tokenOf(e), "type mismatch"))
}

func (c *SelectType) errAmbiguous(e ast.Expression) {
	c.errs = append(c.errs, diag.New(c.file, diag.ErrAmbiguous, tokenOf(e), "ambiguous type"))
}
