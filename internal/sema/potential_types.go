// C8: the potential-types pass. Walks the AST bottom-up,
// post-order over expressions, producing for every expression node a
// PotentialType.Set of types the node could have given only local
// information, and for every argument/parameter list a PotentialType.Product
// of the children's sets. C8 never fails: an unresolved name
// simply yields an empty set, left for C9 to diagnose once a required type
// is known.
//
// Grounded on original_source/potential_types.c's per-node-kind dispatch,
// restated as a single recursive function over the closed ast.Expression set
// rather than the original's visitor callbacks.
package sema

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/config"
	"github.com/p4fc/p4fc/internal/container"
	"github.com/p4fc/p4fc/internal/scope"
	"github.com/p4fc/p4fc/internal/types"
)

type PotentialTypes struct {
	root     *scope.Scope
	scopeMap *container.IDMap[*scope.Scope]
	typeEnv  *container.IDMap[*types.Type]
	potMap   *container.IDMap[*types.PotentialType]
}

func NewPotentialTypes(root *scope.Scope, scopeMap *container.IDMap[*scope.Scope], typeEnv *container.IDMap[*types.Type]) *PotentialTypes {
	return &PotentialTypes{
		root:     root,
		scopeMap: scopeMap,
		typeEnv:  typeEnv,
		potMap:   container.NewIDMap[*types.PotentialType](),
	}
}

// Run builds potential_type_map for every expression reachable from prog.
func (c *PotentialTypes) Run(prog *ast.Program) *container.IDMap[*types.PotentialType] {
	for _, stmt := range prog.Statements {
		c.walkStatement(stmt)
	}
	return c.potMap
}

func (c *PotentialTypes) walkStatement(stmt ast.Statement) {
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
				c.expr(m.Value)
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
			c.walkStatement(local)
		}
		for _, st := range n.States {
			c.walkParserState(st)
		}

	case *ast.ControlDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
		for _, p := range n.CtorParams {
			c.walkType(p.TypeRef)
		}
		for _, local := range n.Locals {
			c.walkStatement(local)
		}
		if n.Apply != nil {
			c.walkStatement(n.Apply)
		}

	case *ast.FunctionDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
		if n.Body != nil {
			for _, bstmt := range n.Body.Statements {
				c.walkStatement(bstmt)
			}
		}

	case *ast.ActionDecl:
		for _, p := range n.Params {
			c.walkType(p.TypeRef)
		}
		if n.Body != nil {
			for _, bstmt := range n.Body.Statements {
				c.walkStatement(bstmt)
			}
		}

	case *ast.TableDecl:
		for _, prop := range n.Properties {
			switch prop.Kind {
			case ast.TablePropKey:
				for _, k := range prop.Keys {
					c.expr(k.Expr)
				}
			case ast.TablePropActions:
				for _, a := range prop.Actions {
					for _, arg := range a.Args {
						c.expr(arg)
					}
				}
			}
		}

	case *ast.Instantiation:
		c.walkType(n.TypeRef)
		for _, a := range n.Args {
			c.expr(a)
		}

	case *ast.VariableDecl:
		c.walkType(n.TypeRef)
		if n.Init != nil {
			c.expr(n.Init)
		}

	case *ast.BlockStatement:
		for _, bstmt := range n.Statements {
			c.walkStatement(bstmt)
		}

	case *ast.AssignmentStatement:
		c.expr(n.LHS)
		c.expr(n.RHS)

	case *ast.IfStatement:
		c.expr(n.Condition)
		c.walkStatement(n.Then)
		c.walkStatement(n.Else)

	case *ast.ReturnStatement:
		c.expr(n.Value)

	case *ast.ExpressionStatement:
		c.expr(n.Expr)

	case *ast.TransitionStatement:
		if n.Select != nil {
			c.walkStatement(n.Select)
		}

	case *ast.SelectStatement:
		for _, e := range n.Exprs {
			c.expr(e)
		}
		for _, cs := range n.Cases {
			for _, k := range cs.Keyset {
				c.expr(k)
			}
		}
	}
}

func (c *PotentialTypes) walkParserState(st *ast.ParserState) {
	for _, stmt := range st.Statements {
		c.walkStatement(stmt)
	}
	if st.Transition != nil {
		c.walkStatement(st.Transition)
	}
}

// walkType descends into the one type production that can embed an
// expression: a header-stack size.
func (c *PotentialTypes) walkType(t ast.Type) {
	switch n := t.(type) {
	case *ast.HeaderStackType:
		c.walkType(n.Element)
		if n.Size != nil {
			c.expr(n.Size)
		}
	case *ast.TupleType:
		for _, e := range n.Elements {
			c.walkType(e)
		}
	}
}

// expr computes (and memoizes into potential_type_map) e's PotentialType.Set
// with no call-site hint.
func (c *PotentialTypes) expr(e ast.Expression) *types.PotentialType {
	return c.exprArgs(e, nil)
}

// exprArgs is expr with an optional potential_args product, supplied only
// when e appears in callee position ("name"/"member
// selector" rules).
func (c *PotentialTypes) exprArgs(e ast.Expression, args *types.PotentialType) *types.PotentialType {
	if e == nil {
		return types.NewPotSet()
	}
	if pt, ok := c.potMap.Lookup(e); ok {
		return pt
	}

	var result *types.PotentialType
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		result = c.singleton(c.builtinType(config.BuiltinInt))
	case *ast.BooleanLiteral:
		result = c.singleton(c.builtinType(config.BuiltinBool))
	case *ast.StringLiteral:
		result = c.singleton(c.builtinType(config.BuiltinString))
	case *ast.DefaultExpression:
		result = c.singleton(c.dontCareType())
	case *ast.DontCareExpression:
		result = c.singleton(c.dontCareType())

	case *ast.Identifier:
		result = c.resolveName(n, args)

	case *ast.BinaryExpression:
		left := c.expr(n.Left)
		right := c.expr(n.Right)
		operands := types.NewPotProduct([]*types.PotentialType{left, right})
		result = c.resolveOperator(n.Operator, operands)

	case *ast.UnaryExpression:
		result = c.expr(n.Operand)

	case *ast.CastExpression:
		c.expr(n.Operand)
		target, _ := c.typeEnv.Lookup(n)
		result = c.singleton(target)

	case *ast.MemberExpression:
		result = c.resolveMember(n, args)

	case *ast.IndexExpression:
		base := c.expr(n.Object)
		c.expr(n.Index)
		unwrapped := types.NewPotSet()
		for _, t := range base.Candidates() {
			unwrapped.Add(types.EffectiveType(t))
		}
		result = unwrapped

	case *ast.CallExpression:
		argSets := make([]*types.PotentialType, len(n.Args))
		for i, a := range n.Args {
			argSets[i] = c.expr(a)
		}
		argsProduct := types.NewPotProduct(argSets)
		calleeSet := c.exprArgs(n.Callee, argsProduct)
		c.potMap.Set(n.Callee, calleeSet)

		resultSet := types.NewPotSet()
		for _, cand := range calleeSet.Candidates() {
			resultSet.Add(types.EffectiveType(cand))
		}
		result = resultSet

	default:
		result = types.NewPotSet()
	}

	c.potMap.Set(e, result)
	return result
}

// resolveName implements "name" rule: Var first, then Type,
// through the scope captured for ident by C5; with a call-site hint, only
// candidates whose parameter (or ctor_params/ctors) product matches args
// survive.
func (c *PotentialTypes) resolveName(ident *ast.Identifier, args *types.PotentialType) *types.PotentialType {
	result := types.NewPotSet()

	s, ok := c.scopeMap.Lookup(ident)
	if !ok {
		s = c.root
	}
	head := s.Lookup(ident.Value, scope.Var|scope.TypeNS)
	if scope.IsNull(head) {
		return result
	}

	for _, d := range head.Scope.Declarations(head.Spelling, head.NS) {
		t, ok := d.ResolvedType.(*types.Type)
		if !ok || t == nil {
			continue
		}
		actual := types.ActualType(t)
		if args == nil {
			result.Add(actual)
			continue
		}
		switch actual.Kind {
		case types.Function:
			if matchParams(args, actual.Params) {
				result.Add(actual)
			}
		case types.Parser, types.Control:
			if matchParams(args, actual.CtorParams) {
				result.Add(actual)
			}
		case types.Extern:
			if actual.Ctors == nil {
				continue
			}
			for _, ctor := range actual.Ctors.Members {
				if matchParams(args, types.ActualType(ctor).Params) {
					result.Add(ctor)
				}
			}
		}
	}
	return result
}

// resolveMember implements member-selector rule.
func (c *PotentialTypes) resolveMember(n *ast.MemberExpression, args *types.PotentialType) *types.PotentialType {
	lhsSet := c.expr(n.Object)
	result := types.NewPotSet()

	for _, lhsType := range lhsSet.Candidates() {
		actual := types.ActualType(lhsType)
		if actual == nil {
			continue
		}
		var members *types.Type
		switch actual.Kind {
		case types.Extern:
			members = actual.Methods
		case types.Struct, types.Header, types.HeaderUnion, types.Enum:
			members = actual.Fields
		case types.Table, types.Parser, types.Control:
			members = actual.Methods
		default:
			continue
		}
		if members == nil {
			continue
		}
		for _, m := range members.Members {
			if m.StrName != n.Member.Value {
				continue
			}
			actualM := types.ActualType(m)
			if actualM.Kind == types.Function {
				if args != nil && !matchParams(args, actualM.Params) {
					continue
				}
				result.Add(actualM)
			} else {
				result.Add(types.EffectiveType(actualM))
			}
		}
	}
	return result
}

// resolveOperator implements binary-expression rule: every
// root-scope Function overload under op whose parameter product matches
// operands contributes its return type.
func (c *PotentialTypes) resolveOperator(op string, operands *types.PotentialType) *types.PotentialType {
	result := types.NewPotSet()
	for _, d := range c.root.Declarations(op, scope.TypeNS) {
		fn, ok := d.ResolvedType.(*types.Type)
		if !ok || fn == nil {
			continue
		}
		actual := types.ActualType(fn)
		if actual.Kind != types.Function {
			continue
		}
		if matchParams(operands, actual.Params) {
			result.Add(types.ActualType(actual.Return))
		}
	}
	return result
}

func (c *PotentialTypes) singleton(t *types.Type) *types.PotentialType {
	s := types.NewPotSet()
	s.Add(t)
	return s
}

func (c *PotentialTypes) builtinType(name string) *types.Type {
	t, _ := c.root.LookupBuiltin(name, scope.TypeNS).ResolvedType.(*types.Type)
	return t
}

func (c *PotentialTypes) dontCareType() *types.Type {
	t, _ := c.root.LookupBuiltin(config.BuiltinDontCare, scope.Var).ResolvedType.(*types.Type)
	return t
}

// matchParams reports whether every position of params has at least one
// candidate in the corresponding element of args that is type-equivalent to
// it.
func matchParams(args *types.PotentialType, params *types.Type) bool {
	if args == nil || params == nil || params.Kind != types.ProductK {
		return false
	}
	if len(args.Elements) != len(params.Members) {
		return false
	}
	for i, want := range params.Members {
		if !candidateSetMatches(args.Elements[i], want) {
			return false
		}
	}
	return true
}

func candidateSetMatches(set *types.PotentialType, want *types.Type) bool {
	if set == nil {
		return false
	}
	for _, c := range set.Candidates() {
		if types.Equivalent(c, want) {
			return true
		}
	}
	return false
}
