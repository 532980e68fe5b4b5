package parser

import (
	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/lexer"
)

func (p *Parser) parseDecl() (ast.Decl, error) {
	switch p.curToken.Type {
	case lexer.DATA:
		return p.parseDataDecl()
	case lexer.PRIM_TYPE:
		return p.parsePrimTypeDecl()
	case lexer.PRIM_OP:
		return p.parsePrimOpDecl()
	case lexer.IDENT:
		return p.parseTermDecl()
	default:
		return nil, newError(p.pos(), p.curToken,
			[]lexer.TokenType{lexer.DATA, lexer.PRIM_TYPE, lexer.PRIM_OP, lexer.IDENT},
			"expected a declaration")
	}
}

// parseDataDecl parses `data C a1 .. an = C1 F11 .. | C2 .. | ..`
// (spec §4.2).
func (p *Parser) parseDataDecl() (ast.Decl, error) {
	pos := p.pos()
	doc := p.pendingDoc
	if err := p.advance(); err != nil { // consume 'data'
		return nil, err
	}
	if !p.curIs(lexer.CONID) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.CONID}, "expected a type name after data")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	var params []string
	for p.curIs(lexer.IDENT) {
		params = append(params, p.curToken.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}

	var ctors []*ast.ConstructorDecl
	for {
		ctor, err := p.parseConstructorAlt()
		if err != nil {
			return nil, err
		}
		ctors = append(ctors, ctor)
		if p.curIs(lexer.PIPE) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	return &ast.DataDecl{Name: name, Params: params, Constructors: ctors, Doc: doc, Pos: pos}, nil
}

func (p *Parser) parseConstructorAlt() (*ast.ConstructorDecl, error) {
	pos := p.pos()
	if !p.curIs(lexer.CONID) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.CONID}, "expected a constructor name")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}

	ctor := &ast.ConstructorDecl{Name: name, Pos: pos}
	for p.startsTypeAtom() {
		field, err := p.parseTypeAtom()
		if err != nil {
			return nil, err
		}
		ctor.Fields = append(ctor.Fields, field)
		doc := ""
		for p.curIs(lexer.PARAM_DOC) {
			doc = p.curToken.Literal
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		ctor.FieldDocs = append(ctor.FieldDocs, doc)
	}
	return ctor, nil
}

func (p *Parser) parsePrimTypeDecl() (ast.Decl, error) {
	pos := p.pos()
	if err := p.advance(); err != nil { // consume 'prim_type'
		return nil, err
	}
	if !p.curIs(lexer.CONID) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.CONID}, "expected a type name after prim_type")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.PrimTypeDecl{Name: name, Pos: pos}, nil
}

// parsePrimOpDecl parses `prim_op name : T`, with an optional immediately
// preceding `{-# ... #-}` pragma and `-- |` docstring already captured by
// skipDocAndPragma (spec §4.2).
func (p *Parser) parsePrimOpDecl() (ast.Decl, error) {
	pos := p.pos()
	doc := p.pendingDoc
	pragma := p.pendingPragma
	if err := p.advance(); err != nil { // consume 'prim_op'
		return nil, err
	}
	if !p.curIs(lexer.IDENT) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.IDENT}, "expected a name after prim_op")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.PrimOpDecl{Name: name, Type: ty, Doc: doc, Pragma: pragma, Pos: pos}, nil
}

// parseTermDecl parses `name : T = body` (the type annotation is mandatory
// at top level; spec §4.2 — the shorter `name = body` form is only valid
// inside `let`, handled in parser_expr.go).
func (p *Parser) parseTermDecl() (ast.Decl, error) {
	pos := p.pos()
	doc := p.pendingDoc
	pragma := p.pendingPragma
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.COLON); err != nil {
		return nil, &Error{
			Code:    "TC008",
			Message: "top-level term declarations require a type annotation",
			Pos:     pos,
			Got:     p.curToken,
		}
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &ast.TermDecl{Name: name, Type: ty, Body: body, Pragma: pragma, Doc: doc, Pos: pos}, nil
}
