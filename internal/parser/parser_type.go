package parser

import (
	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/lexer"
)

// parseType parses a full type expression: `forall a1 .. an. T` desugars to
// nested foralls; arrows are right-associative; applications are
// left-associative (spec §4.2 Type expressions).
func (p *Parser) parseType() (ast.Type, error) {
	if p.curIs(lexer.FORALL) {
		return p.parseForall()
	}
	return p.parseArrowType()
}

func (p *Parser) parseForall() (ast.Type, error) {
	pos := p.pos()
	if err := p.advance(); err != nil { // consume 'forall'
		return nil, err
	}
	var vars []string
	for p.curIs(lexer.IDENT) {
		vars = append(vars, p.curToken.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if len(vars) == 0 {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.IDENT}, "expected at least one type variable after forall")
	}
	if err := p.expect(lexer.DOT); err != nil {
		return nil, err
	}
	body, err := p.parseType()
	if err != nil {
		return nil, err
	}
	for i := len(vars) - 1; i >= 0; i-- {
		body = &ast.TypeForall{TypeVar: vars[i], Body: body, Pos: pos}
	}
	return body, nil
}

// parseArrowType parses `A -> B`, right-associative, collecting any `-- ^`
// parameter docstrings that followed A in the source so they can be
// attached to this arrow link (spec §4.2 parameter-doc attachment).
func (p *Parser) parseArrowType() (ast.Type, error) {
	pos := p.pos()
	left, err := p.parseTypeApp()
	if err != nil {
		return nil, err
	}

	var docs []string
	for p.curIs(lexer.PARAM_DOC) {
		docs = append(docs, p.curToken.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if !p.curIs(lexer.ARROW) {
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseArrowType()
	if err != nil {
		return nil, err
	}
	return &ast.TypeArrow{Param: left, Return: right, ParamDocs: docs, Pos: pos}, nil
}

// parseTypeApp parses a left-associative type-constructor application,
// e.g. `Either a b`.
func (p *Parser) parseTypeApp() (ast.Type, error) {
	base, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	con, isCon := base.(*ast.TypeCon)
	if !isCon {
		return base, nil
	}
	for p.startsTypeAtom() {
		arg, err := p.parseTypeAtom()
		if err != nil {
			return nil, err
		}
		con.Args = append(con.Args, arg)
	}
	return con, nil
}

func (p *Parser) startsTypeAtom() bool {
	switch p.curToken.Type {
	case lexer.IDENT:
		// `name :` opens the next top-level declaration, not a type argument.
		return !p.peekIs(lexer.COLON)
	case lexer.CONID, lexer.LPAREN:
		return true
	}
	return false
}

func (p *Parser) parseTypeAtom() (ast.Type, error) {
	pos := p.pos()
	switch p.curToken.Type {
	case lexer.CONID:
		name := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.TypeCon{Name: name, Pos: pos}, nil
	case lexer.IDENT:
		name := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.TypeVar{Name: name, Pos: pos}, nil
	case lexer.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, newError(pos, p.curToken, []lexer.TokenType{lexer.IDENT, lexer.CONID, lexer.LPAREN}, "expected a type")
	}
}
