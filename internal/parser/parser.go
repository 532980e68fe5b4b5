// Package parser turns a lexer.Token stream into a surface ast.Program
// (spec §4.2, C4). Declarations use recursive descent; term and type
// operators use a small Pratt-style precedence table.
package parser

import (
	"fmt"
	"strconv"

	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/lexer"
)

// Precedence levels for infix term operators (spec §4.2: `*` `/` bind
// tighter than `+` `-`, both left-associative).
const (
	lowest int = iota
	sumPrec
	productPrec
)

var precedences = map[lexer.TokenType]int{
	lexer.PLUS:  sumPrec,
	lexer.MINUS: sumPrec,
	lexer.STAR:  productPrec,
	lexer.SLASH: productPrec,
}

// Parser consumes a token stream and produces a surface AST.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errs      []error

	pendingDoc    string            // most recent unattached `-- |` docstring
	pendingParams []paramDocSlot    // `-- ^` docs seen since the last arrow link
	pendingPragma map[string]string // most recent unattached pragma
}

type paramDocSlot struct {
	text string
}

// New creates a Parser over l. It primes curToken/peekToken and returns any
// lexical error encountered while doing so.
func New(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{l: l}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.curToken = p.peekToken
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.peekToken = tok
	return nil
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) pos() ast.Pos {
	return ast.Pos{Line: p.curToken.Line, Column: p.curToken.Column, File: p.curToken.File}
}

// expect asserts the current token's type, consumes it, and advances.
func (p *Parser) expect(t lexer.TokenType) error {
	if !p.curIs(t) {
		return newError(p.pos(), p.curToken, []lexer.TokenType{t}, "expected %s", t)
	}
	return p.advance()
}

// skipDocAndPragma consumes any run of DOCSTRING/PRAGMA tokens
// immediately preceding a declaration, recording their payloads for
// attachment by the declaration parser (spec §4.2 parameter-doc attachment,
// §4.3 primitive/docstring ingestion).
func (p *Parser) skipDocAndPragma() error {
	p.pendingDoc = ""
	p.pendingPragma = nil
	for {
		switch p.curToken.Type {
		case lexer.DOCSTRING:
			p.pendingDoc = p.curToken.Literal
			if err := p.advance(); err != nil {
				return err
			}
		case lexer.PRAGMA:
			p.pendingPragma = p.curToken.Pragma
			if err := p.advance(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// ParseProgram parses a full source file into an ordered list of surface
// declarations.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{Pos: p.pos()}
	for !p.curIs(lexer.EOF) {
		if err := p.skipDocAndPragma(); err != nil {
			return nil, err
		}
		if p.curIs(lexer.EOF) {
			break
		}
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}

// ParseExpression parses a single standalone term, as used by the
// interactive expression-evaluation entry point (spec §6 eval_expression).
func (p *Parser) ParseExpression() (ast.Expr, error) {
	expr, err := p.parseExpr(lowest)
	if err != nil {
		return nil, err
	}
	if !p.curIs(lexer.EOF) {
		return nil, newError(p.pos(), p.curToken, []lexer.TokenType{lexer.EOF}, "unexpected trailing input")
	}
	return expr, nil
}

func parseInt(lit string, pos ast.Pos) (int64, error) {
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return 0, &Error{Code: "PAR001", Message: fmt.Sprintf("invalid integer literal %q", lit), Pos: pos}
	}
	return v, nil
}
