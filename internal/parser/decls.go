package parser

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/token"
)

// parseAnnotations consumes zero or more `@name` or `@name(args)` markers
// preceding a top-level declaration. Only ExternDecl keeps
// them; every other declaration kind parses and discards them, since
// nothing else currently reads an Annotations field.
func (p *Parser) parseAnnotations() []*ast.Annotation {
	var out []*ast.Annotation
	for p.curIs(token.AT) {
		tok := p.cur
		p.advance()
		name := p.parseIdentifier()
		var args []ast.Expression
		if p.curIs(token.LPAREN) {
			args = p.parseCallArgs()
		}
		out = append(out, &ast.Annotation{Base: ast.NewBase(tok), Name: name.Value, Args: args})
	}
	return out
}

// parseTopLevelDecl dispatches on the keyword that starts a P4 top-level
// declaration.
func (p *Parser) parseTopLevelDecl() ast.Statement {
	annotations := p.parseAnnotations()
	if p.curIs(token.KW_EXTERN) {
		decl := p.parseExternDecl()
		if ext, ok := decl.(*ast.ExternDecl); ok {
			ext.Annotations = annotations
		}
		return decl
	}
	switch p.cur.Type {
	case token.KW_HEADER:
		return p.parseHeaderDecl()
	case token.KW_HEADER_UNION:
		return p.parseHeaderUnionDecl()
	case token.KW_STRUCT:
		return p.parseStructDecl()
	case token.KW_ENUM:
		return p.parseEnumDecl()
	case token.KW_ERROR:
		return p.parseErrorDecl()
	case token.KW_MATCH_KIND:
		return p.parseMatchKindDecl()
	case token.KW_TYPEDEF:
		return p.parseTypedefDecl()
	case token.KW_PARSER:
		return p.parseParserTypeOrDecl()
	case token.KW_CONTROL:
		return p.parseControlTypeOrDecl()
	case token.KW_PACKAGE:
		return p.parsePackageDecl()
	case token.KW_ACTION:
		return p.parseActionDecl()
	case token.KW_TABLE:
		return p.parseTableDecl()
	case token.KW_CONST:
		return p.parseVariableDecl()
	default:
		if decl := p.tryParseInstantiationOrFunction(); decl != nil {
			return decl
		}
		p.errorf(p.cur, "unexpected token %s %q at top level", p.cur.Type, p.cur.Lexeme)
		p.advance()
		return nil
	}
}

func (p *Parser) parseFieldList() []*ast.FieldDecl {
	p.expect(token.LBRACE)
	var fields []*ast.FieldDecl
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		tok := p.cur
		typeRef := p.parseType()
		name := p.parseIdentifier()
		p.expect(token.SEMI)
		fields = append(fields, &ast.FieldDecl{Base: ast.NewBase(tok), Name: name, TypeRef: typeRef})
	}
	p.expect(token.RBRACE)
	return fields
}

func (p *Parser) parseHeaderDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	fields := p.parseFieldList()
	return &ast.HeaderDecl{Base: ast.NewBase(tok), Name: name, Fields: fields}
}

func (p *Parser) parseHeaderUnionDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	fields := p.parseFieldList()
	return &ast.HeaderUnionDecl{Base: ast.NewBase(tok), Name: name, Fields: fields}
}

func (p *Parser) parseStructDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	fields := p.parseFieldList()
	return &ast.StructDecl{Base: ast.NewBase(tok), Name: name, Fields: fields}
}

func (p *Parser) parseEnumDecl() ast.Statement {
	tok := p.cur
	p.advance()

	var underType ast.Type
	if !p.curIs(token.IDENT) {
		underType = p.parseType()
	}
	name := p.parseIdentifier()

	p.expect(token.LBRACE)
	var members []*ast.EnumMember
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		mtok := p.cur
		mname := p.parseIdentifier()
		var value ast.Expression
		if p.curIs(token.ASSIGN) {
			p.advance()
			value = p.parseExpression(precLowest)
		}
		members = append(members, &ast.EnumMember{Base: ast.NewBase(mtok), Name: mname, Value: value})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.EnumDecl{Base: ast.NewBase(tok), Name: name, UnderType: underType, Members: members}
}

func (p *Parser) parseIdentList() []*ast.Identifier {
	var ids []*ast.Identifier
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		ids = append(ids, p.parseIdentifier())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	return ids
}

func (p *Parser) parseErrorDecl() ast.Statement {
	tok := p.cur
	p.advance()
	p.expect(token.LBRACE)
	members := p.parseIdentList()
	p.expect(token.RBRACE)
	return &ast.ErrorDecl{Base: ast.NewBase(tok), Members: members}
}

func (p *Parser) parseMatchKindDecl() ast.Statement {
	tok := p.cur
	p.advance()
	p.expect(token.LBRACE)
	members := p.parseIdentList()
	p.expect(token.RBRACE)
	return &ast.MatchKindDecl{Base: ast.NewBase(tok), Members: members}
}

func (p *Parser) parseTypedefDecl() ast.Statement {
	tok := p.cur
	p.advance()
	aliased := p.parseType()
	name := p.parseIdentifier()
	p.expect(token.SEMI)
	return &ast.TypedefDecl{Base: ast.NewBase(tok), Name: name, Aliased: aliased}
}

func (p *Parser) parseParamList() []*ast.Parameter {
	p.expect(token.LPAREN)
	var params []*ast.Parameter
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		ptok := p.cur
		dir := ""
		switch p.cur.Type {
		case token.KW_IN:
			dir = "in"
			p.advance()
		case token.KW_OUT:
			dir = "out"
			p.advance()
		case token.KW_INOUT:
			dir = "inout"
			p.advance()
		}
		typeRef := p.parseType()
		name := p.parseIdentifier()
		params = append(params, &ast.Parameter{Base: ast.NewBase(ptok), Direction: dir, Name: name, TypeRef: typeRef})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseMethodProtos() []*ast.MethodProto {
	p.expect(token.LBRACE)
	var methods []*ast.MethodProto
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		mtok := p.cur
		// Constructor: `Name(params);` with no return type.
		if p.curIs(token.IDENT) && p.peekIs(token.LPAREN) {
			name := p.parseIdentifier()
			params := p.parseParamList()
			p.expect(token.SEMI)
			methods = append(methods, &ast.MethodProto{Base: ast.NewBase(mtok), Name: name, Params: params})
			continue
		}
		retType := p.parseType()
		name := p.parseIdentifier()
		params := p.parseParamList()
		p.expect(token.SEMI)
		methods = append(methods, &ast.MethodProto{Base: ast.NewBase(mtok), Name: name, Params: params, ReturnType: retType})
	}
	p.expect(token.RBRACE)
	return methods
}

func (p *Parser) parseExternDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	methods := p.parseMethodProtos()
	return &ast.ExternDecl{Base: ast.NewBase(tok), Name: name, Methods: methods}
}

// parseParserTypeOrDecl handles both `parser P(params);` (a bare type) and
// `parser P(params)(ctor_params) { states }` (a full definition).
func (p *Parser) parseParserTypeOrDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	params := p.parseParamList()

	if p.curIs(token.SEMI) {
		p.advance()
		return &ast.ParserTypeDecl{Base: ast.NewBase(tok), Name: name, Params: params}
	}

	var ctorParams []*ast.Parameter
	if p.curIs(token.LPAREN) {
		ctorParams = p.parseParamList()
	}

	p.expect(token.LBRACE)
	var locals []ast.Statement
	var states []*ast.ParserState
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.KW_STATE) {
			states = append(states, p.parseParserState())
			continue
		}
		if stmt := p.parseLocalDecl(); stmt != nil {
			locals = append(locals, stmt)
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.ParserDecl{Base: ast.NewBase(tok), Name: name, Params: params, CtorParams: ctorParams, Locals: locals, States: states}
}

func (p *Parser) parseParserState() *ast.ParserState {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	p.expect(token.LBRACE)
	var stmts []ast.Statement
	for !p.curIs(token.RBRACE) && !p.curIs(token.KW_TRANSITION) && !p.curIs(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	var transition ast.Statement
	if p.curIs(token.KW_TRANSITION) {
		transition = p.parseTransitionStatement()
	}
	p.expect(token.RBRACE)
	return &ast.ParserState{Base: ast.NewBase(tok), Name: name, Statements: stmts, Transition: transition}
}

// parseControlTypeOrDecl handles `control C(params);` and
// `control C(params)(ctor_params) { locals; apply {...} }`.
func (p *Parser) parseControlTypeOrDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	params := p.parseParamList()

	if p.curIs(token.SEMI) {
		p.advance()
		return &ast.ControlTypeDecl{Base: ast.NewBase(tok), Name: name, Params: params}
	}

	var ctorParams []*ast.Parameter
	if p.curIs(token.LPAREN) {
		ctorParams = p.parseParamList()
	}

	p.expect(token.LBRACE)
	var locals []ast.Statement
	var apply *ast.BlockStatement
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.KW_APPLY) {
			p.advance()
			apply = p.parseBlockStatement()
			continue
		}
		if stmt := p.parseLocalDecl(); stmt != nil {
			locals = append(locals, stmt)
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.ControlDecl{Base: ast.NewBase(tok), Name: name, Params: params, CtorParams: ctorParams, Locals: locals, Apply: apply}
}

func (p *Parser) parsePackageDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	params := p.parseParamList()
	p.expect(token.SEMI)
	return &ast.PackageDecl{Base: ast.NewBase(tok), Name: name, Params: params}
}

func (p *Parser) parseActionDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.ActionDecl{Base: ast.NewBase(tok), Name: name, Params: params, Body: body}
}

func (p *Parser) parseTableDecl() ast.Statement {
	tok := p.cur
	p.advance()
	name := p.parseIdentifier()
	p.expect(token.LBRACE)
	var props []*ast.TableProperty
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		props = append(props, p.parseTableProperty())
	}
	p.expect(token.RBRACE)
	return &ast.TableDecl{Base: ast.NewBase(tok), Name: name, Properties: props}
}

// parseTableProperty recognizes `key` and `actions` (the two properties
// that feed name-binding/typing) and otherwise skips a balanced `{...}` or
// `expr;` so the rest of the table body still parses, without reaching the
// sema passes.
func (p *Parser) parseTableProperty() *ast.TableProperty {
	tok := p.cur
	propName := ""
	if p.curIs(token.IDENT) {
		propName = p.cur.Lexeme
	}

	switch propName {
	case "key":
		p.advance()
		p.expect(token.ASSIGN)
		p.expect(token.LBRACE)
		var keys []*ast.KeyElement
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			ktok := p.cur
			expr := p.parseExpression(precLowest)
			p.expect(token.COLON)
			mk := p.parseIdentifier()
			p.expect(token.SEMI)
			keys = append(keys, &ast.KeyElement{Base: ast.NewBase(ktok), Expr: expr, MatchKind: mk})
		}
		p.expect(token.RBRACE)
		return &ast.TableProperty{Base: ast.NewBase(tok), Kind: ast.TablePropKey, Keys: keys}
	case "actions":
		p.advance()
		p.expect(token.ASSIGN)
		p.expect(token.LBRACE)
		var actions []*ast.ActionRef
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			atok := p.cur
			name := p.parseIdentifier()
			var args []ast.Expression
			if p.curIs(token.LPAREN) {
				args = p.parseCallArgs()
			}
			p.expect(token.SEMI)
			actions = append(actions, &ast.ActionRef{Base: ast.NewBase(atok), Name: name, Args: args})
		}
		p.expect(token.RBRACE)
		return &ast.TableProperty{Base: ast.NewBase(tok), Kind: ast.TablePropActions, Actions: actions}
	default:
		kind := ast.TablePropOther
		switch propName {
		case "entries":
			kind = ast.TablePropEntries
		case "default_action":
			kind = ast.TablePropDefaultAction
		case "size":
			kind = ast.TablePropSize
		}
		p.skipBalancedProperty()
		return &ast.TableProperty{Base: ast.NewBase(tok), Kind: kind}
	}
}

// skipBalancedProperty consumes one `name = {...}` or `name = expr;` table
// property body without building an AST for it.
func (p *Parser) skipBalancedProperty() {
	p.advance() // property name
	if p.curIs(token.ASSIGN) {
		p.advance()
	}
	if p.curIs(token.LBRACE) {
		depth := 0
		for {
			if p.curIs(token.LBRACE) {
				depth++
			} else if p.curIs(token.RBRACE) {
				depth--
			} else if p.curIs(token.EOF) {
				return
			}
			p.advance()
			if depth == 0 {
				return
			}
		}
	}
	for !p.curIs(token.SEMI) && !p.curIs(token.EOF) {
		p.advance()
	}
	if p.curIs(token.SEMI) {
		p.advance()
	}
}

// tryParseInstantiationOrFunction covers the two remaining top-level
// productions that share a "Type ident ..." prefix: a function definition
// `T name(params) { body }` and an instantiation `Type(args) name;`
//.
func (p *Parser) tryParseInstantiationOrFunction() ast.Statement {
	tok := p.cur
	typeRef := p.parseType()

	if tn, ok := typeRef.(*ast.TypeName); ok && p.curIs(token.LPAREN) {
		args := p.parseCallArgs()
		name := p.parseIdentifier()
		p.expect(token.SEMI)
		return &ast.Instantiation{Base: ast.NewBase(tok), TypeRef: tn, Args: args, Name: name}
	}

	name := p.parseIdentifier()
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.FunctionDecl{Base: ast.NewBase(tok), Name: name, Params: params, ReturnType: typeRef, Body: body}
}

// parseLocalDecl parses one parser/control-local declaration: an
// instantiation or a variable declaration. Returns nil (without consuming)
// when the current token can't start one, letting the caller fall through
// to `apply`/`state`/`}`.
func (p *Parser) parseLocalDecl() ast.Statement {
	switch p.cur.Type {
	case token.KW_CONST:
		return p.parseVariableDecl()
	case token.KW_ACTION:
		return p.parseActionDecl()
	case token.KW_TABLE:
		return p.parseTableDecl()
	case token.KW_RETURN, token.KW_IF, token.LBRACE:
		return p.parseStatement()
	case token.RBRACE, token.KW_APPLY, token.KW_STATE, token.EOF:
		return nil
	}

	tok := p.cur
	typeRef := p.parseType()

	if p.curIs(token.LPAREN) {
		args := p.parseCallArgs()
		instName := p.parseIdentifier()
		p.expect(token.SEMI)
		return &ast.Instantiation{Base: ast.NewBase(tok), TypeRef: typeRef, Args: args, Name: instName}
	}

	name := p.parseIdentifier()
	var init ast.Expression
	if p.curIs(token.ASSIGN) {
		p.advance()
		init = p.parseExpression(precLowest)
	}
	p.expect(token.SEMI)
	return &ast.VariableDecl{Base: ast.NewBase(tok), Name: name, TypeRef: typeRef, Init: init}
}

func (p *Parser) parseVariableDecl() ast.Statement {
	tok := p.cur
	isConst := false
	if p.curIs(token.KW_CONST) {
		isConst = true
		p.advance()
	}
	typeRef := p.parseType()
	name := p.parseIdentifier()
	var init ast.Expression
	if p.curIs(token.ASSIGN) {
		p.advance()
		init = p.parseExpression(precLowest)
	}
	p.expect(token.SEMI)
	return &ast.VariableDecl{Base: ast.NewBase(tok), IsConst: isConst, Name: name, TypeRef: typeRef, Init: init}
}

func (p *Parser) parseCallArgs() []ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return args
}
