// Package sema implements the five analysis passes names C5
// through C9: scope-hierarchy, name-binding, declared-types, potential-types,
// and type-selection. Grounded on internal/analyzer's file-per-concern split
// (naming.go, declarations_types.go, inference*.go) for organization, and on
// original_source/{pass_name_decl.c,name_bind.cpp,declared_types.cpp,
// potential_types.c,select_type.c} for exact pass semantics.
package sema

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/config"
	"github.com/p4fc/p4fc/internal/scope"
	"github.com/p4fc/p4fc/internal/token"
	"github.com/p4fc/p4fc/internal/types"
)

// builtinNode is the synthetic declaring node for a root-scope preload: the
// keyword, base-type, and accept/reject/dontcare names // requires bound before parsing begins have no real source occurrence.
// Grounded on original_source/name_bind.cpp's BuiltinName table, which
// associates a bare spelling with a namespace rather than a parsed AST node.
func builtinNode(spelling string) *ast.Identifier {
	return &ast.Identifier{Value: spelling}
}

// baseTypeKinds maps each built-in type spelling to the Type.Kind its
// preloaded declaration carries (original_source/declared_types.cpp's
// define_builtin_types base_types table).
var baseTypeKinds = map[string]types.Kind{
	config.BuiltinVoid:      types.Void,
	config.BuiltinBool:      types.Bool,
	config.BuiltinInt:       types.Int,
	config.BuiltinBit:       types.Bit,
	config.BuiltinVarbit:    types.Varbit,
	config.BuiltinString:    types.String,
	config.BuiltinError:     types.Error,
	config.BuiltinMatchKind: types.MatchKind,
}

// operatorEntry is one overload in the built-in operator table: a spelling
// bound into the root scope's Type namespace with a Function type whose two
// parameters and return are all named built-in types.
type operatorEntry struct {
	Op          string
	OperandName string
	ReturnName  string
}

// builtinOperatorTable reproduces original_source/declared_types.cpp's
// define_builtin_types operator groups verbatim (arithmetic on int,
// logical on bool, relational on int returning bool, bitwise on bit),
// widened to also give arithmetic overloads on bit/varbit operands (P4
// source passed to this front end routinely adds bit<N> and varbit<N>
// values, so the arithmetic group covers all three numeric kinds rather
// than leaving bit/varbit arithmetic entirely unresolvable). Relational
// and equality operators remain int-only and bitwise operators bit-only.
var builtinOperatorTable = func() []operatorEntry {
	var entries []operatorEntry
	for _, op := range []string{"+", "-", "*", "/", "%"} {
		entries = append(entries,
			operatorEntry{op, config.BuiltinInt, config.BuiltinInt},
			operatorEntry{op, config.BuiltinBit, config.BuiltinBit},
			operatorEntry{op, config.BuiltinVarbit, config.BuiltinVarbit},
		)
	}
	for _, op := range []string{"&&", "||"} {
		entries = append(entries, operatorEntry{op, config.BuiltinBool, config.BuiltinBool})
	}
	for _, op := range []string{"==", "!=", "<", ">", "<=", ">="} {
		entries = append(entries, operatorEntry{op, config.BuiltinInt, config.BuiltinBool})
	}
	for _, op := range []string{"&", "|", "^", "<<", ">>"} {
		entries = append(entries, operatorEntry{op, config.BuiltinBit, config.BuiltinBit})
	}
	return entries
}()

// NewRootScope builds the preloaded root scope describes:
// keyword spellings in the Keyword namespace, the base-type and
// accept/reject/dontcare names in Var/Type with their Types already
// resolved, and the built-in operator overload set C8's binary-expression
// rule looks up. Grounded on original_source/declared_types.cpp's
// define_builtin_types and name_bind.cpp's root-scope preload.
func NewRootScope(arr *types.Array) *scope.Scope {
	root := scope.NewRootScope()

	for spelling := range token.Keywords {
		root.Bind(spelling, builtinNode(spelling), scope.Keyword)
	}

	for _, name := range config.BuiltinTypeNames {
		decl := root.Bind(name, builtinNode(name), scope.TypeNS)
		decl.ResolvedType = arr.New(types.Type{Kind: baseTypeKinds[name], StrName: name})
	}

	for _, name := range config.BuiltinVarNames {
		decl := root.Bind(name, builtinNode(name), scope.Var)
		if name == config.BuiltinDontCare {
			decl.ResolvedType = arr.New(types.Type{Kind: types.Any})
		} else {
			decl.ResolvedType = arr.New(types.Type{Kind: types.State})
		}
	}

	registerOperators(root, arr)
	return root
}

func registerOperators(root *scope.Scope, arr *types.Array) {
	for _, e := range builtinOperatorTable {
		operand := root.LookupBuiltin(e.OperandName, scope.TypeNS).ResolvedType.(*types.Type)
		ret := root.LookupBuiltin(e.ReturnName, scope.TypeNS).ResolvedType.(*types.Type)
		params := types.Product(arr, []*types.Type{operand, operand})
		fn := arr.New(types.Type{Kind: types.Function, StrName: e.Op, Params: params, Return: ret})
		decl := root.Bind(e.Op, builtinNode(e.Op), scope.TypeNS)
		decl.ResolvedType = fn
	}
}
