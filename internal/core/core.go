package core

import (
	"fmt"
	"strings"

	"github.com/sunholo/sysf/internal/ast"
)

// Expr is a core term. Every constructor additionally records the surface
// span it was elaborated from, for diagnostics (spec §3.2).
type Expr interface {
	String() string
	Span() ast.Pos
	coreExpr()
}

type node struct {
	Pos ast.Pos
}

func (n node) Span() ast.Pos { return n.Pos }

// Var is a bound local, addressed by de Bruijn index (spec §3.2 invariant).
type Var struct {
	node
	Index int
}

func (v *Var) coreExpr()      {}
func (v *Var) String() string { return fmt.Sprintf("#%d", v.Index) }

// Global is a reference to a named, persistent top-level binding, resolved
// against the module's global tables rather than an index.
type Global struct {
	node
	Name string
}

func (g *Global) coreExpr()      {}
func (g *Global) String() string { return g.Name }

// PrimOp is a reference to a primitive operation, resolved against the
// module's primitive implementation registry at evaluation time and its
// global type table at check time.
type PrimOp struct {
	node
	Name string // without the "$prim." prefix
}

func (p *PrimOp) coreExpr()      {}
func (p *PrimOp) String() string { return "$prim." + p.Name }

// Lambda is a term abstraction with an explicit parameter type.
type Lambda struct {
	node
	ParamType Type
	Body      Expr
}

func (l *Lambda) coreExpr()      {}
func (l *Lambda) String() string { return fmt.Sprintf("(λ:%s. %s)", l.ParamType, l.Body) }

// App is function application.
type App struct {
	node
	Func Expr
	Arg  Expr
}

func (a *App) coreExpr()      {}
func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Func, a.Arg) }

// TypeAbs is a type abstraction `Λa. e`.
type TypeAbs struct {
	node
	TypeVar string
	Body    Expr
}

func (t *TypeAbs) coreExpr()      {}
func (t *TypeAbs) String() string { return fmt.Sprintf("(Λ%s. %s)", t.TypeVar, t.Body) }

// TypeApp is a type application `e [T]`.
type TypeApp struct {
	node
	Func Expr
	Arg  Type
}

func (t *TypeApp) coreExpr()      {}
func (t *TypeApp) String() string { return fmt.Sprintf("(%s [%s])", t.Func, t.Arg) }

// IntLit is a 64-bit signed integer literal.
type IntLit struct {
	node
	Value int64
}

func (l *IntLit) coreExpr()      {}
func (l *IntLit) String() string { return fmt.Sprintf("%d", l.Value) }

// StringLit is a string literal.
type StringLit struct {
	node
	Value string
}

func (l *StringLit) coreExpr()      {}
func (l *StringLit) String() string { return fmt.Sprintf("%q", l.Value) }

// Constructor is a data constructor applied to term arguments (possibly
// none).
type Constructor struct {
	node
	Name string
	Args []Expr
}

func (c *Constructor) coreExpr() {}
func (c *Constructor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}

// Pattern is a shallow constructor pattern: one constructor name and the
// local variables it binds, in order (spec §3.2: no nested patterns).
type Pattern struct {
	Constructor string
	Vars        []string
}

func (p Pattern) String() string {
	if len(p.Vars) == 0 {
		return p.Constructor
	}
	return fmt.Sprintf("%s %s", p.Constructor, strings.Join(p.Vars, " "))
}

// Branch is one arm of a Case.
type Branch struct {
	Pattern Pattern
	Body    Expr
}

// Case is a pattern-match expression; branches are tried top-to-bottom.
type Case struct {
	node
	Scrutinee Expr
	Branches  []Branch
}

func (c *Case) coreExpr() {}
func (c *Case) String() string {
	parts := make([]string, len(c.Branches))
	for i, b := range c.Branches {
		parts[i] = fmt.Sprintf("%s -> %s", b.Pattern, b.Body)
	}
	return fmt.Sprintf("case %s of { %s }", c.Scrutinee, strings.Join(parts, " | "))
}

// Constructors below attach a span; callers should prefer these over bare
// struct literals so every node carries diagnostic position information.

func NewVar(pos ast.Pos, index int) *Var   { return &Var{node{pos}, index} }
func NewGlobal(pos ast.Pos, name string) *Global { return &Global{node{pos}, name} }
func NewPrimOp(pos ast.Pos, name string) *PrimOp { return &PrimOp{node{pos}, name} }
func NewLambda(pos ast.Pos, pt Type, body Expr) *Lambda {
	return &Lambda{node{pos}, pt, body}
}
func NewApp(pos ast.Pos, fn, arg Expr) *App { return &App{node{pos}, fn, arg} }
func NewTypeAbs(pos ast.Pos, tv string, body Expr) *TypeAbs {
	return &TypeAbs{node{pos}, tv, body}
}
func NewTypeApp(pos ast.Pos, fn Expr, arg Type) *TypeApp { return &TypeApp{node{pos}, fn, arg} }
func NewIntLit(pos ast.Pos, v int64) *IntLit             { return &IntLit{node{pos}, v} }
func NewStringLit(pos ast.Pos, v string) *StringLit      { return &StringLit{node{pos}, v} }
func NewConstructor(pos ast.Pos, name string, args []Expr) *Constructor {
	return &Constructor{node{pos}, name, args}
}
func NewCase(pos ast.Pos, scrutinee Expr, branches []Branch) *Case {
	return &Case{node{pos}, scrutinee, branches}
}
