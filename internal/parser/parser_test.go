package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/lexer"
	"github.com/p4fc/p4fc/internal/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l, "test.p4")
	prog := p.ParseProgram()
	require.Empty(t, p.Errors, "unexpected parse errors: %v", p.Errors)
	return prog
}

func TestParseHeaderDecl(t *testing.T) {
	prog := parse(t, `
header Ethernet {
    bit<48> dstAddr;
    bit<48> srcAddr;
    bit<16> etherType;
}`)
	require.Len(t, prog.Statements, 1)
	hdr, ok := prog.Statements[0].(*ast.HeaderDecl)
	require.True(t, ok)
	assert.Equal(t, "Ethernet", hdr.Name.Value)
	require.Len(t, hdr.Fields, 3)
	assert.Equal(t, "dstAddr", hdr.Fields[0].Name.Value)
	bt, ok := hdr.Fields[0].TypeRef.(*ast.BaseType)
	require.True(t, ok)
	assert.Equal(t, "bit", bt.Name)
	assert.Equal(t, 48, bt.Size)
}

func TestParseStructAndTypedef(t *testing.T) {
	prog := parse(t, `
struct Headers {
    Ethernet ethernet;
}
typedef bit<32> Ipv4Addr;`)
	require.Len(t, prog.Statements, 2)
	s, ok := prog.Statements[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "Headers", s.Name.Value)
	td, ok := prog.Statements[1].(*ast.TypedefDecl)
	require.True(t, ok)
	assert.Equal(t, "Ipv4Addr", td.Name.Value)
}

func TestParseEnumAndError(t *testing.T) {
	prog := parse(t, `
enum bit<8> Color { RED = 0, GREEN = 1, BLUE = 2 }
error { NoError, PacketTooShort }`)
	require.Len(t, prog.Statements, 2)
	e, ok := prog.Statements[0].(*ast.EnumDecl)
	require.True(t, ok)
	require.Len(t, e.Members, 3)
	assert.Equal(t, "RED", e.Members[0].Name.Value)
	lit, ok := e.Members[1].Value.(*ast.IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, "1", lit.Value)

	errDecl, ok := prog.Statements[1].(*ast.ErrorDecl)
	require.True(t, ok)
	require.Len(t, errDecl.Members, 2)
}

func TestParseActionAndTable(t *testing.T) {
	prog := parse(t, `
action drop() {
    mark = true;
}
table t {
    key = { hdr.ipv4.dstAddr : exact; }
    actions = { drop(); }
}`)
	require.Len(t, prog.Statements, 2)
	act, ok := prog.Statements[0].(*ast.ActionDecl)
	require.True(t, ok)
	assert.Equal(t, "drop", act.Name.Value)
	require.Len(t, act.Body.Statements, 1)

	tbl, ok := prog.Statements[1].(*ast.TableDecl)
	require.True(t, ok)
	require.Len(t, tbl.Properties, 2)
	assert.Equal(t, ast.TablePropKey, tbl.Properties[0].Kind)
	require.Len(t, tbl.Properties[0].Keys, 1)
	assert.Equal(t, ast.TablePropActions, tbl.Properties[1].Kind)
	require.Len(t, tbl.Properties[1].Actions, 1)
	assert.Equal(t, "drop", tbl.Properties[1].Actions[0].Name.Value)
}

func TestParseTableSkipsUnmodeledProperties(t *testing.T) {
	prog := parse(t, `
table t {
    key = { hdr.ipv4.dstAddr : exact; }
    actions = { drop(); }
    size = 1024;
    default_action = drop();
}`)
	tbl := prog.Statements[0].(*ast.TableDecl)
	require.Len(t, tbl.Properties, 4)
	assert.Equal(t, ast.TablePropSize, tbl.Properties[2].Kind)
	assert.Equal(t, ast.TablePropDefaultAction, tbl.Properties[3].Kind)
}

func TestParseParserWithStatesAndSelect(t *testing.T) {
	prog := parse(t, `
parser MyParser(packet_in pkt, out Headers hdr) {
    state start {
        transition select(hdr.ethernet.etherType) {
            0x0800: parse_ipv4;
            default: accept;
        }
    }
    state parse_ipv4 {
        transition accept;
    }
}`)
	require.Len(t, prog.Statements, 1)
	pd, ok := prog.Statements[0].(*ast.ParserDecl)
	require.True(t, ok)
	assert.Equal(t, "MyParser", pd.Name.Value)
	require.Len(t, pd.Params, 2)
	assert.Equal(t, "out", pd.Params[1].Direction)
	require.Len(t, pd.States, 2)

	start := pd.States[0]
	trans, ok := start.Transition.(*ast.TransitionStatement)
	require.True(t, ok)
	require.NotNil(t, trans.Select)
	require.Len(t, trans.Select.Cases, 2)
	assert.Equal(t, "parse_ipv4", trans.Select.Cases[0].NextState.Value)
	_, isDefault := trans.Select.Cases[1].Keyset[0].(*ast.DefaultExpression)
	assert.True(t, isDefault)
}

func TestParseControlWithApplyAndLocals(t *testing.T) {
	prog := parse(t, `
control MyControl(inout Headers hdr) {
    action noop() {
        return;
    }
    table forward {
        key = { hdr.ethernet.dstAddr : exact; }
        actions = { noop(); }
    }
    apply {
        forward.apply();
    }
}`)
	cd, ok := prog.Statements[0].(*ast.ControlDecl)
	require.True(t, ok)
	require.Len(t, cd.Locals, 2)
	require.NotNil(t, cd.Apply)
	require.Len(t, cd.Apply.Statements, 1)
	exprStmt, ok := cd.Apply.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	call, ok := exprStmt.Expr.(*ast.CallExpression)
	require.True(t, ok)
	member, ok := call.Callee.(*ast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, "apply", member.Member.Value)
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog := parse(t, `
action a() {
    x = 1 + 2 * 3;
}`)
	act := prog.Statements[0].(*ast.ActionDecl)
	assign := act.Body.Statements[0].(*ast.AssignmentStatement)
	bin, ok := assign.RHS.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Operator)
	rhs, ok := bin.Right.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Operator)
}

func TestParseCastExpression(t *testing.T) {
	prog := parse(t, `
action a() {
    x = (bit<8>) y;
}`)
	act := prog.Statements[0].(*ast.ActionDecl)
	assign := act.Body.Statements[0].(*ast.AssignmentStatement)
	cast, ok := assign.RHS.(*ast.CastExpression)
	require.True(t, ok)
	bt, ok := cast.TargetType.(*ast.BaseType)
	require.True(t, ok)
	assert.Equal(t, "bit", bt.Name)
	assert.Equal(t, 8, bt.Size)
}

func TestParseExternAndInstantiation(t *testing.T) {
	prog := parse(t, `
extern Checksum16 {
    Checksum16();
    void clear();
    bit<16> get();
}
Checksum16() ck;`)
	ext, ok := prog.Statements[0].(*ast.ExternDecl)
	require.True(t, ok)
	require.Len(t, ext.Methods, 3)
	assert.Nil(t, ext.Methods[0].ReturnType)

	inst, ok := prog.Statements[1].(*ast.Instantiation)
	require.True(t, ok)
	assert.Equal(t, "ck", inst.Name.Value)
}

func TestMissingSemicolonRecoversWithinDecl(t *testing.T) {
	l := lexer.New(`
struct A { bit<8> x }
struct B { bit<8> y; }`)
	p := parser.New(l, "test.p4")
	prog := p.ParseProgram()
	require.NotEmpty(t, p.Errors)
	require.Len(t, prog.Statements, 2)
	a, ok := prog.Statements[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "A", a.Name.Value)
	b, ok := prog.Statements[1].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "B", b.Name.Value)
}
