package parser

import (
	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/lexer"
)

// parseExpr is the entry point for term parsing, precedence-climbing over
// the fixed infix operator set `+ - * /` (spec §4.2).
func (p *Parser) parseExpr(prec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		opPrec, isOp := precedences[p.curToken.Type]
		if !isOp || opPrec <= prec {
			return left, nil
		}
		op := p.curToken
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(opPrec)
		if err != nil {
			return nil, err
		}
		left = &ast.OpApp{Left: left, Op: op.Literal, Right: right, Pos: tokenPos(op)}
	}
}

func tokenPos(t lexer.Token) ast.Pos {
	return ast.Pos{Line: t.Line, Column: t.Column, File: t.File}
}

// parseUnary dispatches to the prefix binder forms (lambda, type
// abstraction, let, case) or falls through to an application chain
// (spec §4.2 grammar highlights).
func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.curToken.Type {
	case lexer.LAMBDA:
		return p.parseLambda()
	case lexer.BIGLAM:
		return p.parseTypeAbs()
	case lexer.LET:
		return p.parseLet()
	case lexer.CASE:
		return p.parseCase()
	default:
		return p.parseApplication()
	}
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	pos := p.pos()
	if err := p.advance(); err != nil { // consume '\'
		return nil, err
	}
	if !p.curIs(lexer.IDENT) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.IDENT}, "expected parameter name after lambda")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	var paramType ast.Type
	if p.curIs(lexer.COLON) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		paramType = t
	}
	if err := p.expect(lexer.DOT); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Param: name, ParamType: paramType, Body: body, Pos: pos}, nil
}

func (p *Parser) parseTypeAbs() (ast.Expr, error) {
	pos := p.pos()
	if err := p.advance(); err != nil { // consume '/\'
		return nil, err
	}
	if !p.curIs(lexer.IDENT) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.IDENT}, "expected type variable after Lambda")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.DOT); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &ast.TypeAbs{TypeVar: name, Body: body, Pos: pos}, nil
}

func (p *Parser) parseLet() (ast.Expr, error) {
	pos := p.pos()
	if err := p.advance(); err != nil { // consume 'let'
		return nil, err
	}
	if !p.curIs(lexer.IDENT) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.IDENT}, "expected a name after let")
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	var ty ast.Type
	if p.curIs(lexer.COLON) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ty = t
	}
	if err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name, Type: ty, Value: value, Body: body, Pos: pos}, nil
}

// parseCase parses both accepted surface forms (spec §4.2 "Two forms of
// case"): the canonical braced+barred form `case e of { P -> e | ... }`,
// and an alternate bar-separated form without braces, delimited by the
// enclosing context (EOF, `in`, `)`, `]`, `}`).
func (p *Parser) parseCase() (ast.Expr, error) {
	pos := p.pos()
	if err := p.advance(); err != nil { // consume 'case'
		return nil, err
	}
	scrutinee, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.OF); err != nil {
		return nil, err
	}

	braced := p.curIs(lexer.LBRACE)
	if braced {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var branches []*ast.CaseBranch
	for {
		branch, err := p.parseCaseBranch()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
		if p.curIs(lexer.PIPE) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if braced {
		if err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
	}

	return &ast.Case{Scrutinee: scrutinee, Branches: branches, Pos: pos}, nil
}

func (p *Parser) parseCaseBranch() (*ast.CaseBranch, error) {
	pos := p.pos()
	if !p.curIs(lexer.CONID) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.CONID}, "expected a constructor pattern")
	}
	conName := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	var vars []string
	for p.curIs(lexer.IDENT) {
		vars = append(vars, p.curToken.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	pattern := &ast.CasePattern{Constructor: conName, Vars: vars, Pos: pos}
	return &ast.CaseBranch{Pattern: pattern, Body: body, Pos: pos}, nil
}

// parseApplication parses a left-associative chain of one or more atoms
// (each possibly carrying a type-application suffix).
func (p *Parser) parseApplication() (ast.Expr, error) {
	fn, err := p.parseTypeApplied()
	if err != nil {
		return nil, err
	}
	for p.startsAtom() {
		pos := p.pos()
		arg, err := p.parseTypeApplied()
		if err != nil {
			return nil, err
		}
		fn = &ast.App{Func: fn, Arg: arg, Pos: pos}
	}
	return fn, nil
}

// parseTypeApplied parses an atom followed by zero or more type
// applications `@T` / `[T]`, both accepted (spec §4.2).
func (p *Parser) parseTypeApplied() (ast.Expr, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.AT) || p.curIs(lexer.LBRACKET) {
		pos := p.pos()
		bracket := p.curIs(lexer.LBRACKET)
		if err := p.advance(); err != nil {
			return nil, err
		}
		var ty ast.Type
		if bracket {
			ty, err = p.parseType()
			if err != nil {
				return nil, err
			}
			if err := p.expect(lexer.RBRACKET); err != nil {
				return nil, err
			}
		} else {
			ty, err = p.parseTypeApp()
			if err != nil {
				return nil, err
			}
		}
		atom = &ast.TypeApp{Func: atom, Arg: ty, Pos: pos}
	}
	return atom, nil
}

func (p *Parser) startsAtom() bool {
	switch p.curToken.Type {
	case lexer.IDENT:
		// `name :` opens the next top-level declaration, not an argument.
		return !p.peekIs(lexer.COLON)
	case lexer.CONID, lexer.INT, lexer.STRING, lexer.LPAREN:
		return true
	}
	return false
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	pos := p.pos()
	switch p.curToken.Type {
	case lexer.IDENT, lexer.CONID:
		name := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Var{Name: name, Pos: pos}, nil
	case lexer.INT:
		lit := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := parseInt(lit, pos)
		if err != nil {
			return nil, err
		}
		return &ast.IntLit{Value: v, Pos: pos}, nil
	case lexer.STRING:
		lit := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.StringLit{Value: lit, Pos: pos}, nil
	case lexer.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr(lowest)
		if err != nil {
			return nil, err
		}
		if p.curIs(lexer.COLON) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			expr = &ast.Annot{Expr: expr, Type: ty, Pos: pos}
		}
		if err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, newError(pos, p.curToken, []lexer.TokenType{lexer.IDENT, lexer.CONID, lexer.INT, lexer.STRING, lexer.LPAREN}, "expected an expression")
	}
}
