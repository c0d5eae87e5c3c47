// C7: the declared-types pass. Walks the AST top-down,
// insertion order into type_array ("C7 visits types in
// insertion order... so inner types are fully built before their containing
// declaration is revisited in fix-up"), building one *types.Type per
// type-denoting node and filling in every NameDeclaration's ResolvedType.
// After the top-down walk, three fix-up sweeps resolve NameRef placeholders,
// flatten Typedef chains, and flatten Type{target:...} forwarding chains
//.
//
// Grounded on original_source/declared_types.cpp's later (C++, class-based)
// revision explicit instruction to follow it over the
// earlier free-function copy, including that revision's error/match_kind
// field-count accumulation fix and extern-constructor product assembly.
package sema

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/config"
	"github.com/p4fc/p4fc/internal/container"
	"github.com/p4fc/p4fc/internal/diag"
	"github.com/p4fc/p4fc/internal/scope"
	"github.com/p4fc/p4fc/internal/token"
	"github.com/p4fc/p4fc/internal/types"
)

type DeclaredTypes struct {
	root     *scope.Scope
	scopeMap *container.IDMap[*scope.Scope]
	declMap  *container.IDMap[*scope.NameDeclaration]
	arr      *types.Array
	typeEnv  *container.IDMap[*types.Type]
	file     string
	errs     []*diag.Diagnostic

	voidType *types.Type

	errorEnum     *types.Type
	matchKindEnum *types.Type
}

func NewDeclaredTypes(file string, root *scope.Scope, scopeMap *container.IDMap[*scope.Scope], declMap *container.IDMap[*scope.NameDeclaration], arr *types.Array) *DeclaredTypes {
	return &DeclaredTypes{
		root:     root,
		scopeMap: scopeMap,
		declMap:  declMap,
		arr:      arr,
		typeEnv:  container.NewIDMap[*types.Type](),
		file:     file,
		voidType: root.LookupBuiltin(config.BuiltinVoid, scope.TypeNS).ResolvedType.(*types.Type),
	}
}

// Run builds type_env for prog and returns it along with any fatal
// diagnostics the fix-up sweeps raised.
func (d *DeclaredTypes) Run(prog *ast.Program) (*container.IDMap[*types.Type], []*diag.Diagnostic) {
	d.mergeErrorAndMatchKind(prog)

	for _, stmt := range prog.Statements {
		d.buildStatement(stmt, d.root)
	}

	d.resolveNameRefs()
	if len(d.errs) > 0 {
		return d.typeEnv, d.errs
	}
	d.flattenTypedefs()
	d.flattenForwardChains()
	return d.typeEnv, d.errs
}

// innerOf mirrors the technique internal/sema/name_binding.go uses: reuse
// the *scope.Scope C5 already created for node rather than pushing a fresh
// one.
func (d *DeclaredTypes) innerOf(node ast.Node, current *scope.Scope) *scope.Scope {
	if s, ok := d.scopeMap.Lookup(node); ok {
		return s
	}
	return current
}

// mergeErrorAndMatchKind accumulates every error{} and match_kind{} block in
// the program into one program-wide Enum type each: those enums accumulate
// across declarations rather than shadowing, fixing a field-count
// propagation bug present in an earlier revision of this pass.
func (d *DeclaredTypes) mergeErrorAndMatchKind(prog *ast.Program) {
	var errorMembers, matchKindMembers []*ast.Identifier
	for _, stmt := range prog.Statements {
		switch n := stmt.(type) {
		case *ast.ErrorDecl:
			errorMembers = append(errorMembers, n.Members...)
		case *ast.MatchKindDecl:
			matchKindMembers = append(matchKindMembers, n.Members...)
		}
	}

	d.errorEnum = d.buildMergedEnum(types.Error, config.BuiltinError, errorMembers)
	d.matchKindEnum = d.buildMergedEnum(types.MatchKind, config.BuiltinMatchKind, matchKindMembers)

	// The root scope preload already bound `error`/`match_kind` as base
	// Type placeholders (sema.NewRootScope); rebind ResolvedType to the
	// merged Enum-shaped type now that the member count is known.
	root := d.root.LookupBuiltin(config.BuiltinError, scope.TypeNS)
	root.ResolvedType = d.errorEnum
	mk := d.root.LookupBuiltin(config.BuiltinMatchKind, scope.TypeNS)
	mk.ResolvedType = d.matchKindEnum
}

func (d *DeclaredTypes) buildMergedEnum(kind types.Kind, strName string, members []*ast.Identifier) *types.Type {
	enum := d.arr.New(types.Type{Kind: kind, StrName: strName, Size: len(members)})
	fieldTypes := make([]*types.Type, len(members))
	for i, m := range members {
		fieldTypes[i] = types.Field(d.arr, m.Value, enum)
		if decl, ok := d.declMap.Lookup(m); ok {
			decl.ResolvedType = fieldTypes[i]
		}
	}
	enum.Fields = types.Product(d.arr, fieldTypes)
	return enum
}

func (d *DeclaredTypes) buildStatement(stmt ast.Statement, current *scope.Scope) {
	switch n := stmt.(type) {
	case *ast.HeaderDecl:
		d.buildFieldBearing(types.Header, n, n.Name.Value, n.Fields, current)
	case *ast.HeaderUnionDecl:
		d.buildFieldBearing(types.HeaderUnion, n, n.Name.Value, n.Fields, current)
	case *ast.StructDecl:
		d.buildFieldBearing(types.Struct, n, n.Name.Value, n.Fields, current)

	case *ast.EnumDecl:
		if n.UnderType != nil {
			d.resolveType(n.UnderType, current)
		}
		enum := d.arr.New(types.Type{Kind: types.Enum, StrName: n.Name.Value, Size: len(n.Members), AST: n})
		fieldTypes := make([]*types.Type, len(n.Members))
		for i, m := range n.Members {
			fieldTypes[i] = types.Field(d.arr, m.Name.Value, enum)
			d.setResolved(m, fieldTypes[i])
			if m.Value != nil {
				d.buildExpressionTypesOnly(m.Value, current)
			}
		}
		enum.Fields = types.Product(d.arr, fieldTypes)
		d.typeEnv.Set(n, enum)
		d.setResolved(n, enum)

	case *ast.TypedefDecl:
		ref := d.resolveType(n.Aliased, current)
		td := d.arr.New(types.Type{Kind: types.Typedef, Ref: ref, AST: n})
		d.typeEnv.Set(n, td)
		d.setResolved(n, td)

	case *ast.ExternDecl:
		ext := d.arr.New(types.Type{Kind: types.Extern, StrName: n.Name.Value, AST: n})
		d.typeEnv.Set(n, ext)
		d.setResolved(n, ext)
		inner := d.innerOf(n, current)

		methodTypes := make([]*types.Type, len(n.Methods))
		var ctorTypes []*types.Type
		for i, m := range n.Methods {
			params := d.resolveParams(m.Params, inner)
			var fn *types.Type
			if m.ReturnType == nil && m.Name.Value == n.Name.Value {
				// Constructor prototype: a method whose spelling matches
				// the enclosing extern's name has no explicit return type
				// and returns the extern itself.
				fn = d.arr.New(types.Type{Kind: types.Function, StrName: m.Name.Value, Params: params, Return: ext})
				ctorTypes = append(ctorTypes, fn)
			} else {
				fn = d.arr.New(types.Type{Kind: types.Function, StrName: m.Name.Value, Params: params, Return: d.resolveType(m.ReturnType, inner)})
			}
			methodTypes[i] = fn
		}
		ext.Methods = types.Product(d.arr, methodTypes)
		ext.Ctors = types.Product(d.arr, ctorTypes)

	case *ast.ParserTypeDecl:
		params := d.resolveParams(n.Params, current)
		methods := d.resolveMethodProtos(n.Methods, current)
		pt := d.arr.New(types.Type{Kind: types.Parser, StrName: n.Name.Value, Params: params, Methods: methods, AST: n})
		d.typeEnv.Set(n, pt)
		d.setResolved(n, pt)

	case *ast.ControlTypeDecl:
		params := d.resolveParams(n.Params, current)
		methods := d.resolveMethodProtos(n.Methods, current)
		ct := d.arr.New(types.Type{Kind: types.Control, StrName: n.Name.Value, Params: params, Methods: methods, AST: n})
		d.typeEnv.Set(n, ct)
		d.setResolved(n, ct)

	case *ast.PackageDecl:
		params := d.resolveParams(n.Params, current)
		pk := d.arr.New(types.Type{Kind: types.Package, StrName: n.Name.Value, Params: params, AST: n})
		d.typeEnv.Set(n, pk)
		d.setResolved(n, pk)

	case *ast.ParserDecl:
		inner := d.innerOf(n, current)
		params := d.resolveParams(n.Params, inner)
		ctorParams := d.resolveParams(n.CtorParams, inner)
		pt := d.arr.New(types.Type{Kind: types.Parser, StrName: n.Name.Value, Params: params, CtorParams: ctorParams, Methods: types.Product(d.arr, nil), AST: n})
		d.typeEnv.Set(n, pt)
		d.setResolved(n, pt)
		for _, local := range n.Locals {
			d.buildStatement(local, inner)
		}
		for _, st := range n.States {
			d.setResolved(st, d.arr.New(types.Type{Kind: types.State, AST: st}))
			innerSt := d.innerOf(st, inner)
			for _, bstmt := range st.Statements {
				d.buildStatement(bstmt, innerSt)
			}
			if st.Transition != nil {
				d.buildStatement(st.Transition, innerSt)
			}
		}

	case *ast.ControlDecl:
		inner := d.innerOf(n, current)
		params := d.resolveParams(n.Params, inner)
		ctorParams := d.resolveParams(n.CtorParams, inner)
		ct := d.arr.New(types.Type{Kind: types.Control, StrName: n.Name.Value, Params: params, CtorParams: ctorParams, Methods: types.Product(d.arr, nil), AST: n})
		d.typeEnv.Set(n, ct)
		d.setResolved(n, ct)
		for _, local := range n.Locals {
			d.buildStatement(local, inner)
		}
		if n.Apply != nil {
			d.buildStatement(n.Apply, inner)
		}

	case *ast.FunctionDecl:
		inner := d.innerOf(n, current)
		params := d.resolveParams(n.Params, inner)
		ret := d.resolveType(n.ReturnType, inner)
		fn := d.arr.New(types.Type{Kind: types.Function, StrName: n.Name.Value, Params: params, Return: ret, AST: n})
		d.typeEnv.Set(n, fn)
		d.setResolved(n, fn)
		if n.Body != nil {
			for _, bstmt := range n.Body.Statements {
				d.buildStatement(bstmt, inner)
			}
		}

	case *ast.ActionDecl:
		inner := d.innerOf(n, current)
		params := d.resolveParams(n.Params, inner)
		fn := d.arr.New(types.Type{Kind: types.Function, StrName: n.Name.Value, Params: params, Return: d.voidType, AST: n})
		d.typeEnv.Set(n, fn)
		d.setResolved(n, fn)
		if n.Body != nil {
			for _, bstmt := range n.Body.Statements {
				d.buildStatement(bstmt, inner)
			}
		}

	case *ast.TableDecl:
		tbl := d.arr.New(types.Type{Kind: types.Table, StrName: n.Name.Value, Methods: types.Product(d.arr, nil), AST: n})
		d.typeEnv.Set(n, tbl)
		d.setResolved(n, tbl)
		for _, prop := range n.Properties {
			if prop.Kind == ast.TablePropKey {
				for _, k := range prop.Keys {
					d.buildExpressionTypesOnly(k.Expr, current)
				}
			}
			if prop.Kind == ast.TablePropActions {
				for _, a := range prop.Actions {
					for _, arg := range a.Args {
						d.buildExpressionTypesOnly(arg, current)
					}
				}
			}
		}

	case *ast.Instantiation:
		inst := d.resolveType(n.TypeRef, current)
		d.setResolved(n, inst)
		for _, a := range n.Args {
			d.buildExpressionTypesOnly(a, current)
		}

	case *ast.VariableDecl:
		t := d.resolveType(n.TypeRef, current)
		d.setResolved(n, t)
		if n.Init != nil {
			d.buildExpressionTypesOnly(n.Init, current)
		}

	case *ast.BlockStatement:
		inner := d.innerOf(n, current)
		for _, bstmt := range n.Statements {
			d.buildStatement(bstmt, inner)
		}

	case *ast.AssignmentStatement:
		d.buildExpressionTypesOnly(n.LHS, current)
		d.buildExpressionTypesOnly(n.RHS, current)

	case *ast.IfStatement:
		d.buildExpressionTypesOnly(n.Condition, current)
		d.buildStatement(n.Then, current)
		d.buildStatement(n.Else, current)

	case *ast.ReturnStatement:
		d.buildExpressionTypesOnly(n.Value, current)

	case *ast.ExpressionStatement:
		d.buildExpressionTypesOnly(n.Expr, current)

	case *ast.TransitionStatement:
		if n.Select != nil {
			d.buildStatement(n.Select, current)
		}

	case *ast.SelectStatement:
		for _, e := range n.Exprs {
			d.buildExpressionTypesOnly(e, current)
		}
		for _, c := range n.Cases {
			for _, k := range c.Keyset {
				d.buildExpressionTypesOnly(k, current)
			}
		}
	}
}

// buildExpressionTypesOnly recurses into CastExpression target types (the
// only place an expression subtree denotes a type) so every cast target
// gets a type_array entry; it does not itself assign type_env entries for
// expressions (that's C8/C9's job).
func (d *DeclaredTypes) buildExpressionTypesOnly(expr ast.Expression, current *scope.Scope) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *ast.CastExpression:
		target := d.resolveType(n.TargetType, current)
		d.typeEnv.Set(n, target)
		d.buildExpressionTypesOnly(n.Operand, current)
	case *ast.BinaryExpression:
		d.buildExpressionTypesOnly(n.Left, current)
		d.buildExpressionTypesOnly(n.Right, current)
	case *ast.UnaryExpression:
		d.buildExpressionTypesOnly(n.Operand, current)
	case *ast.MemberExpression:
		d.buildExpressionTypesOnly(n.Object, current)
	case *ast.IndexExpression:
		d.buildExpressionTypesOnly(n.Object, current)
		d.buildExpressionTypesOnly(n.Index, current)
	case *ast.CallExpression:
		d.buildExpressionTypesOnly(n.Callee, current)
		for _, a := range n.Args {
			d.buildExpressionTypesOnly(a, current)
		}
	}
}

func (d *DeclaredTypes) buildFieldBearing(kind types.Kind, declNode ast.Declaration, name string, fields []*ast.FieldDecl, current *scope.Scope) {
	rec := d.arr.New(types.Type{Kind: kind, StrName: name, AST: declNode})
	fieldTypes := make([]*types.Type, len(fields))
	for i, f := range fields {
		ft := d.resolveType(f.TypeRef, current)
		field := types.Field(d.arr, f.Name.Value, ft)
		fieldTypes[i] = field
		d.setResolved(f, field)
	}
	rec.Fields = types.Product(d.arr, fieldTypes)
	d.typeEnv.Set(declNode, rec)
	d.setResolved(declNode, rec)
}

func (d *DeclaredTypes) resolveParams(params []*ast.Parameter, current *scope.Scope) *types.Type {
	ts := make([]*types.Type, len(params))
	for i, p := range params {
		t := d.resolveType(p.TypeRef, current)
		ts[i] = t
		d.setResolved(p, t)
	}
	return types.Product(d.arr, ts)
}

func (d *DeclaredTypes) resolveMethodProtos(methods []*ast.MethodProto, current *scope.Scope) *types.Type {
	ts := make([]*types.Type, len(methods))
	for i, m := range methods {
		params := d.resolveParams(m.Params, current)
		ret := d.voidType
		if m.ReturnType != nil {
			ret = d.resolveType(m.ReturnType, current)
		}
		ts[i] = d.arr.New(types.Type{Kind: types.Function, StrName: m.Name.Value, Params: params, Return: ret})
	}
	return types.Product(d.arr, ts)
}

// setResolved stores t as the ResolvedType of declNode's NameDeclaration
//.
// Looks declNode up in decl_map by AST-node identity rather than by
// re-deriving (scope, namespace, spelling), so that two sibling
// declarations sharing a spelling (scenario 4's ambiguous
// `struct S` pair) each get their own NameDeclaration updated, not
// whichever one happens to be the overload chain's current head.
func (d *DeclaredTypes) setResolved(declNode ast.Declaration, t *types.Type) {
	if decl, ok := d.declMap.Lookup(declNode); ok {
		decl.ResolvedType = t
	}
}

// resolveType builds (or looks up) the Type for a type-denoting AST node,
// recursing per-production rules.
func (d *DeclaredTypes) resolveType(t ast.Type, current *scope.Scope) *types.Type {
	if t == nil {
		return d.voidType
	}
	switch n := t.(type) {
	case *ast.BaseType:
		kind, ok := baseTypeKindByName(n.Name)
		if !ok {
			return d.voidType
		}
		if n.Size == 0 && n.Name != "int" && n.Name != "bit" && n.Name != "varbit" {
			return d.root.LookupBuiltin(n.Name, scope.TypeNS).ResolvedType.(*types.Type)
		}
		return d.arr.New(types.Type{Kind: kind, Size: n.Size, AST: n})

	case *ast.TypeName:
		return d.arr.New(types.Type{Kind: types.NameRef, NameRefNode: n.Name, NameRefScope: current, StrName: n.Name.Value, AST: n})

	case *ast.HeaderStackType:
		elem := d.resolveType(n.Element, current)
		if n.Size != nil {
			d.buildExpressionTypesOnly(n.Size, current)
		}
		return d.arr.New(types.Type{Kind: types.HeaderStack, Element: elem, AST: n})

	case *ast.TupleType:
		members := make([]*types.Type, len(n.Elements))
		for i, e := range n.Elements {
			members[i] = d.resolveType(e, current)
		}
		return types.Product(d.arr, members)

	default:
		return d.voidType
	}
}

func baseTypeKindByName(name string) (types.Kind, bool) {
	switch name {
	case config.BuiltinVoid:
		return types.Void, true
	case config.BuiltinBool:
		return types.Bool, true
	case config.BuiltinInt:
		return types.Int, true
	case config.BuiltinBit:
		return types.Bit, true
	case config.BuiltinVarbit:
		return types.Varbit, true
	case config.BuiltinString:
		return types.String, true
	case config.BuiltinError:
		return types.Error, true
	case config.BuiltinMatchKind:
		return types.MatchKind, true
	}
	return types.Void, false
}

// resolveNameRefs is fix-up sweep 1: replace every NameRef in
// the type array with a Forward(target) once its name resolves uniquely.
func (d *DeclaredTypes) resolveNameRefs() {
	n := d.arr.Len()
	for i := 0; i < n; i++ {
		t := d.arr.At(i)
		if t.Kind != types.NameRef {
			continue
		}
		decl := t.NameRefScope.Lookup(t.StrName, scope.TypeNS)
		if scope.IsNull(decl) {
			d.errs = append(d.errs, diag.New(d.file, diag.ErrType, tokenOf(t.NameRefNode), "unresolved type reference '%s'", t.StrName))
			continue
		}
		if len(decl.Scope.Declarations(t.StrName, scope.TypeNS)) > 1 {
			d.errs = append(d.errs, diag.New(d.file, diag.ErrType, tokenOf(t.NameRefNode), "ambiguous type reference '%s'", t.StrName))
			continue
		}
		resolved, _ := decl.ResolvedType.(*types.Type)
		t.Kind = types.Forward
		t.Target = resolved
	}
}

// flattenTypedefs is fix-up sweep 2: follow a Typedef's Ref chain to its
// first non-typedef and replace the Typedef record with Forward(that).
func (d *DeclaredTypes) flattenTypedefs() {
	n := d.arr.Len()
	for i := 0; i < n; i++ {
		t := d.arr.At(i)
		if t.Kind != types.Typedef {
			continue
		}
		target := t.Ref
		seen := 0
		for target != nil && target.Kind == types.Typedef {
			target = target.Ref
			seen++
			if seen > n {
				d.errs = append(d.errs, diag.NewUnlocated(diag.ErrType, "typedef cycle detected"))
				break
			}
		}
		t.Kind = types.Forward
		t.Target = target
	}
}

// flattenForwardChains is fix-up sweep 3: short-circuit every Forward's
// target chain to its ultimate non-Forward node so actual_type resolves in
// O(1).
func (d *DeclaredTypes) flattenForwardChains() {
	n := d.arr.Len()
	for i := 0; i < n; i++ {
		t := d.arr.At(i)
		if t.Kind != types.Forward {
			continue
		}
		target := t.Target
		seen := 0
		for target != nil && target.Kind == types.Forward {
			target = target.Target
			seen++
			if seen > n {
				d.errs = append(d.errs, diag.NewUnlocated(diag.ErrType, "type forwarding cycle detected"))
				break
			}
		}
		t.Target = target
	}
}

// tokenOf builds a minimal token.Token from any AST node for diag.New,
// which locates a diagnostic by token.Position and lexeme.
func tokenOf(node ast.Node) token.Token {
	if node == nil {
		return token.Token{}
	}
	return token.Token{Lexeme: node.TokenLiteral(), Pos: node.Pos()}
}
