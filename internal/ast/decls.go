package ast

import "github.com/p4fc/p4fc/internal/token"

// Parameter is a function/method/constructor/action parameter.
type Parameter struct {
	Base
	Direction string // "", "in", "out", "inout"
	Name      *Identifier
	TypeRef   Type
}

func (p *Parameter) DeclName() *Identifier { return p.Name }
func (p *Parameter) statementNode()        {}

// --- Type nodes ---

// BaseType names one of the built-in scalar productions: bool, int[N],
// bit[N], varbit[N], string, void, error, match_kind.
type BaseType struct {
	Base
	Name string // "bool","int","bit","varbit","string","void","error","match_kind"
	Size int    // bit width for int/bit/varbit; 0 if not applicable
}

func (t *BaseType) typeNode() {}

// TypeName is a named type reference, resolved to a NameRef placeholder by
// C7 and fixed up to Type{target} by pass end.
type TypeName struct {
	Base
	Name *Identifier
}

func (t *TypeName) typeNode() {}

// HeaderStackType is `T[N]`.
type HeaderStackType struct {
	Base
	Element Type
	Size    Expression
}

func (t *HeaderStackType) typeNode() {}

// TupleType is `tuple<T1, ..., Tn>`.
type TupleType struct {
	Base
	Elements []Type
}

func (t *TupleType) typeNode() {}

// --- Field-bearing declarations ---

type FieldDecl struct {
	Base
	Name    *Identifier
	TypeRef Type
}

func (f *FieldDecl) DeclName() *Identifier { return f.Name }

// HeaderDecl: `header H { ...fields... }`
type HeaderDecl struct {
	Base
	Name   *Identifier
	Fields []*FieldDecl
}

func (d *HeaderDecl) DeclName() *Identifier { return d.Name }
func (d *HeaderDecl) statementNode()        {}

// HeaderUnionDecl: `header_union U { ...fields... }`
type HeaderUnionDecl struct {
	Base
	Name   *Identifier
	Fields []*FieldDecl
}

func (d *HeaderUnionDecl) DeclName() *Identifier { return d.Name }
func (d *HeaderUnionDecl) statementNode()        {}

// StructDecl: `struct S { ...fields... }`
type StructDecl struct {
	Base
	Name   *Identifier
	Fields []*FieldDecl
}

func (d *StructDecl) DeclName() *Identifier { return d.Name }
func (d *StructDecl) statementNode()        {}

// EnumMember is one `member` or `member = expr` entry of an enum.
type EnumMember struct {
	Base
	Name  *Identifier
	Value Expression // optional, for `enum bit<8> E { A = 1, ... }`
}

func (m *EnumMember) DeclName() *Identifier { return m.Name }

// EnumDecl: `enum E { A, B, C }` (optionally `enum bit<W> E { ... }`).
type EnumDecl struct {
	Base
	Name      *Identifier
	UnderType Type // optional explicit underlying type
	Members   []*EnumMember
}

func (d *EnumDecl) DeclName() *Identifier { return d.Name }
func (d *EnumDecl) statementNode()        {}

// ErrorDecl: `error { NoError, PacketTooShort, ... }`. Multiple ErrorDecls
// across a program all contribute members to one program-wide error Enum
//.
type ErrorDecl struct {
	Base
	Members []*Identifier
}

func (d *ErrorDecl) statementNode() {}

// MatchKindDecl: `match_kind { exact, ternary, lpm }`. Like ErrorDecl, all
// occurrences accumulate into one program-wide match_kind enum.
type MatchKindDecl struct {
	Base
	Members []*Identifier
}

func (d *MatchKindDecl) statementNode() {}

// TypedefDecl: `typedef <type> Name;`
type TypedefDecl struct {
	Base
	Name    *Identifier
	Aliased Type
}

func (d *TypedefDecl) DeclName() *Identifier { return d.Name }
func (d *TypedefDecl) statementNode()        {}

// MethodProto is a prototype inside an extern/parser/control type: either an
// ordinary method or (when its name matches the enclosing type) a
// constructor.
type MethodProto struct {
	Base
	Name       *Identifier
	Params     []*Parameter
	ReturnType Type // nil for a constructor prototype
}

func (m *MethodProto) DeclName() *Identifier { return m.Name }

// ExternDecl: `extern E { E(params); method(params) -> T; ... }`
type ExternDecl struct {
	Base
	Name        *Identifier
	Methods     []*MethodProto
	Annotations []*Annotation
}

func (d *ExternDecl) DeclName() *Identifier { return d.Name }
func (d *ExternDecl) statementNode()        {}

// ParserTypeDecl: `parser P(params) { states... }` type head, shared shape
// with ControlTypeDecl ("Package/parser/control type
// declaration").
type ParserTypeDecl struct {
	Base
	Name    *Identifier
	Params  []*Parameter
	Methods []*MethodProto // apply-style methods exposed to instantiators, if any
}

func (d *ParserTypeDecl) DeclName() *Identifier { return d.Name }
func (d *ParserTypeDecl) statementNode()        {}

type ControlTypeDecl struct {
	Base
	Name    *Identifier
	Params  []*Parameter
	Methods []*MethodProto
}

func (d *ControlTypeDecl) DeclName() *Identifier { return d.Name }
func (d *ControlTypeDecl) statementNode()        {}

// PackageDecl: `package Pkg(params);`
type PackageDecl struct {
	Base
	Name   *Identifier
	Params []*Parameter
}

func (d *PackageDecl) DeclName() *Identifier { return d.Name }
func (d *PackageDecl) statementNode()        {}

// ParserState: `state name { ...statements... transition ...; }`
type ParserState struct {
	Base
	Name       *Identifier
	Statements []Statement
	Transition Statement // TransitionStatement or SelectExpression-bearing statement
}

func (s *ParserState) DeclName() *Identifier { return s.Name }
func (s *ParserState) statementNode()        {}

// ParserDecl: `parser P(params)(ctor_params) { states }`
type ParserDecl struct {
	Base
	Name       *Identifier
	Params     []*Parameter
	CtorParams []*Parameter
	Locals     []Statement
	States     []*ParserState
}

func (d *ParserDecl) DeclName() *Identifier { return d.Name }
func (d *ParserDecl) statementNode()        {}

// ControlDecl: `control C(params)(ctor_params) { locals; apply { ... } }`
type ControlDecl struct {
	Base
	Name       *Identifier
	Params     []*Parameter
	CtorParams []*Parameter
	Locals     []Statement
	Apply      *BlockStatement
}

func (d *ControlDecl) DeclName() *Identifier { return d.Name }
func (d *ControlDecl) statementNode()        {}

// FunctionDecl: `T name(params) { body }`
type FunctionDecl struct {
	Base
	Name       *Identifier
	Params     []*Parameter
	ReturnType Type
	Body       *BlockStatement
}

func (d *FunctionDecl) DeclName() *Identifier { return d.Name }
func (d *FunctionDecl) statementNode()        {}

// ActionDecl: `action name(params) { body }`. Typed as Function{return:void}
type ActionDecl struct {
	Base
	Name   *Identifier
	Params []*Parameter
	Body   *BlockStatement
}

func (d *ActionDecl) DeclName() *Identifier { return d.Name }
func (d *ActionDecl) statementNode()        {}

// KeyElement is one `expr : match_kind;` entry of a table's `key` property.
type KeyElement struct {
	Base
	Expr      Expression
	MatchKind *Identifier
}

// ActionRef is one entry of a table's `actions` property: a reference to an
// action declaration, optionally with call arguments.
type ActionRef struct {
	Base
	Name *Identifier
	Args []Expression
}

// TableProperty is a generic carrier for a table body entry. Only Key and
// Actions participate in name-binding/typing; Entries/DefaultAction/Size/
// Other are parsed (so real P4 source doesn't fail to parse) but never
// reach decl_map/type_env.
type TableProperty struct {
	Base
	Kind    TablePropertyKind
	Keys    []*KeyElement // when Kind == TablePropKey
	Actions []*ActionRef  // when Kind == TablePropActions
}

type TablePropertyKind int

const (
	TablePropKey TablePropertyKind = iota
	TablePropActions
	TablePropEntries       // gated out of semantic analysis, see doc comment above
	TablePropDefaultAction // gated out
	TablePropSize          // gated out
	TablePropOther         // gated out
)

// TableDecl: `table t { key = {...} actions = {...} }`
type TableDecl struct {
	Base
	Name       *Identifier
	Properties []*TableProperty
}

func (d *TableDecl) DeclName() *Identifier { return d.Name }
func (d *TableDecl) statementNode()        {}

// Instantiation: `Type(args) name;` (parser/control/extern/package
// instantiation) or `Type(args) name = {...}` with no initializer here.
type Instantiation struct {
	Base
	TypeRef Type
	Args    []Expression
	Name    *Identifier
}

func (d *Instantiation) DeclName() *Identifier { return d.Name }
func (d *Instantiation) statementNode()        {}

// VariableDecl: `T name;` or `T name = expr;` (local variable).
type VariableDecl struct {
	Base
	IsConst bool
	Name    *Identifier
	TypeRef Type
	Init    Expression
}

func (d *VariableDecl) DeclName() *Identifier { return d.Name }
func (d *VariableDecl) statementNode()        {}

// NewBase is a small helper internal/parser uses to build the Base{Token}
// field of every node it constructs.
func NewBase(tok token.Token) Base {
	return Base{Token: tok}
}
