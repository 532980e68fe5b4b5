// Package ast defines the surface syntax tree: a name-based tree mirroring
// concrete syntax, produced by the parser and consumed by the elaborator.
package ast

import (
	"fmt"
	"strings"
)

// Pos is a single point in source.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Span is a range in source, from Start up to (not including) End.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string { return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column) }

// Node is the base interface implemented by every surface tree node.
type Node interface {
	String() string
	Position() Pos
}

// Expr is a surface term.
type Expr interface {
	Node
	exprNode()
}

// Type is a surface type expression.
type Type interface {
	Node
	typeNode()
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// Program is a parsed source file: an ordered sequence of declarations.
type Program struct {
	Decls []Decl
	Pos   Pos
}

func (p *Program) Position() Pos { return p.Pos }
func (p *Program) String() string {
	parts := make([]string, len(p.Decls))
	for i, d := range p.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}

// ---------------------------------------------------------------------
// Terms
// ---------------------------------------------------------------------

// Var is a reference to a name — resolved by the elaborator into a local,
// a global, a primitive op, or a nullary constructor (§4.3).
type Var struct {
	Name string
	Pos  Pos
}

func (v *Var) exprNode()      {}
func (v *Var) Position() Pos  { return v.Pos }
func (v *Var) String() string { return v.Name }

// IntLit is a 64-bit signed integer literal.
type IntLit struct {
	Value int64
	Pos   Pos
}

func (l *IntLit) exprNode()      {}
func (l *IntLit) Position() Pos  { return l.Pos }
func (l *IntLit) String() string { return fmt.Sprintf("%d", l.Value) }

// StringLit is an escape-decoded string literal.
type StringLit struct {
	Value string
	Pos   Pos
}

func (l *StringLit) exprNode()      {}
func (l *StringLit) Position() Pos  { return l.Pos }
func (l *StringLit) String() string { return fmt.Sprintf("%q", l.Value) }

// Lambda is a term-level abstraction `\x:T. e` or `\x. e`.
type Lambda struct {
	Param     string
	ParamType Type // nil if unannotated
	Body      Expr
	Pos       Pos
}

func (l *Lambda) exprNode()     {}
func (l *Lambda) Position() Pos { return l.Pos }
func (l *Lambda) String() string {
	if l.ParamType != nil {
		return fmt.Sprintf("(\\%s:%s. %s)", l.Param, l.ParamType, l.Body)
	}
	return fmt.Sprintf("(\\%s. %s)", l.Param, l.Body)
}

// App is function application `f a`.
type App struct {
	Func Expr
	Arg  Expr
	Pos  Pos
}

func (a *App) exprNode()      {}
func (a *App) Position() Pos  { return a.Pos }
func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Func, a.Arg) }

// Let is `let x [: T] = e1 in e2`.
type Let struct {
	Name  string
	Type  Type // nil if unannotated
	Value Expr
	Body  Expr
	Pos   Pos
}

func (l *Let) exprNode()     {}
func (l *Let) Position() Pos { return l.Pos }
func (l *Let) String() string {
	return fmt.Sprintf("(let %s = %s in %s)", l.Name, l.Value, l.Body)
}

// TypeAbs is a type abstraction `/\a. e` (written `Λa. e`).
type TypeAbs struct {
	TypeVar string
	Body    Expr
	Pos     Pos
}

func (t *TypeAbs) exprNode()      {}
func (t *TypeAbs) Position() Pos  { return t.Pos }
func (t *TypeAbs) String() string { return fmt.Sprintf("(/\\%s. %s)", t.TypeVar, t.Body) }

// TypeApp is a type application `e @T` or `e [T]`.
type TypeApp struct {
	Func Expr
	Arg  Type
	Pos  Pos
}

func (t *TypeApp) exprNode()      {}
func (t *TypeApp) Position() Pos  { return t.Pos }
func (t *TypeApp) String() string { return fmt.Sprintf("(%s @%s)", t.Func, t.Arg) }

// Annot is an explicit type annotation `(e : T)`.
type Annot struct {
	Expr Expr
	Type Type
	Pos  Pos
}

func (a *Annot) exprNode()      {}
func (a *Annot) Position() Pos  { return a.Pos }
func (a *Annot) String() string { return fmt.Sprintf("(%s : %s)", a.Expr, a.Type) }

// Constructor applications are never a distinct surface node: the parser
// emits the same Var/App chain for `Succ Zero` as for any other
// application, and it is the elaborator's name resolution plus
// application-disambiguation rule (§4.3) that recognizes a resolved
// zero-arg constructor at the head of an App chain and folds it into a
// core Constructor node. Keeping a separate surface node here would just
// duplicate what Var+App already express.

// CasePattern is a shallow constructor pattern: one constructor name plus
// the variables it binds (spec §3.2: patterns are never nested).
type CasePattern struct {
	Constructor string
	Vars        []string
	Pos         Pos
}

func (p *CasePattern) Position() Pos { return p.Pos }
func (p *CasePattern) String() string {
	if len(p.Vars) == 0 {
		return p.Constructor
	}
	return fmt.Sprintf("%s %s", p.Constructor, strings.Join(p.Vars, " "))
}

// CaseBranch is one arm of a `case` expression.
type CaseBranch struct {
	Pattern *CasePattern
	Body    Expr
	Pos     Pos
}

func (b *CaseBranch) Position() Pos  { return b.Pos }
func (b *CaseBranch) String() string { return fmt.Sprintf("%s -> %s", b.Pattern, b.Body) }

// Case is a pattern-match expression. Branches are ordered; the evaluator
// tries them top-to-bottom (§4.5).
type Case struct {
	Scrutinee Expr
	Branches  []*CaseBranch
	Pos       Pos
}

func (c *Case) exprNode()     {}
func (c *Case) Position() Pos { return c.Pos }
func (c *Case) String() string {
	parts := make([]string, len(c.Branches))
	for i, b := range c.Branches {
		parts[i] = b.String()
	}
	return fmt.Sprintf("case %s of { %s }", c.Scrutinee, strings.Join(parts, " | "))
}

// OpApp is a surface infix operator application, present only before
// desugaring (§4.3 C10).
type OpApp struct {
	Left  Expr
	Op    string
	Right Expr
	Pos   Pos
}

func (o *OpApp) exprNode()      {}
func (o *OpApp) Position() Pos  { return o.Pos }
func (o *OpApp) String() string { return fmt.Sprintf("(%s %s %s)", o.Left, o.Op, o.Right) }

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

// TypeVar is a type-variable reference.
type TypeVar struct {
	Name string
	Pos  Pos
}

func (t *TypeVar) typeNode()     {}
func (t *TypeVar) Position() Pos { return t.Pos }
func (t *TypeVar) String() string { return t.Name }

// TypeCon is a type constructor applied to zero or more argument types,
// e.g. `Int`, `Maybe a`, `Either a b`.
type TypeCon struct {
	Name string
	Args []Type
	Pos  Pos
}

func (t *TypeCon) typeNode()     {}
func (t *TypeCon) Position() Pos { return t.Pos }
func (t *TypeCon) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", t.Name, strings.Join(parts, " "))
}

// TypeArrow is a function type `A -> B`. ParamDocs carries `-- ^` docstrings
// attached by the parser, aligned to the flattened arrow chain (§4.2).
type TypeArrow struct {
	Param     Type
	Return    Type
	ParamDocs []string // parallel to the flattened chain, may be nil
	Pos       Pos
}

func (t *TypeArrow) typeNode()     {}
func (t *TypeArrow) Position() Pos { return t.Pos }
func (t *TypeArrow) String() string {
	return fmt.Sprintf("(%s -> %s)", t.Param, t.Return)
}

// TypeForall is a universal quantifier `forall a. T`.
type TypeForall struct {
	TypeVar string
	Body    Type
	Pos     Pos
}

func (t *TypeForall) typeNode()     {}
func (t *TypeForall) Position() Pos { return t.Pos }
func (t *TypeForall) String() string {
	return fmt.Sprintf("(forall %s. %s)", t.TypeVar, t.Body)
}

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

// ConstructorDecl is one constructor alternative of a data declaration.
type ConstructorDecl struct {
	Name      string
	Fields    []Type
	FieldDocs []string // parallel to Fields, `-- ^` per field; may be nil
	Pos       Pos
}

// DataDecl declares an algebraic data type:
// `data T a1 .. an = C1 F11 .. | C2 .. | ..`.
type DataDecl struct {
	Name         string
	Params       []string
	Constructors []*ConstructorDecl
	Doc          string // `-- |` above the declaration
	Pos          Pos
}

func (d *DataDecl) declNode()    {}
func (d *DataDecl) Position() Pos { return d.Pos }
func (d *DataDecl) String() string {
	parts := make([]string, len(d.Constructors))
	for i, c := range d.Constructors {
		parts[i] = c.Name
	}
	return fmt.Sprintf("data %s %s = %s", d.Name, strings.Join(d.Params, " "), strings.Join(parts, " | "))
}

// TermDecl declares a top-level term: `name : T = body`. The type
// annotation is mandatory at top level (§4.2); MissingTypeAnnotation is
// raised otherwise.
type TermDecl struct {
	Name   string
	Type   Type
	Body   Expr
	Pragma map[string]string // from an immediately-preceding `{-# ... #-}`
	Doc    string            // `-- |` above the declaration
	Pos    Pos
}

func (d *TermDecl) declNode()    {}
func (d *TermDecl) Position() Pos { return d.Pos }
func (d *TermDecl) String() string {
	return fmt.Sprintf("%s : %s = %s", d.Name, d.Type, d.Body)
}

// PrimTypeDecl introduces an opaque primitive type: `prim_type C`.
type PrimTypeDecl struct {
	Name string
	Pos  Pos
}

func (d *PrimTypeDecl) declNode()    {}
func (d *PrimTypeDecl) Position() Pos { return d.Pos }
func (d *PrimTypeDecl) String() string { return fmt.Sprintf("prim_type %s", d.Name) }

// PrimOpDecl introduces a primitive operation whose implementation is
// supplied by the host: `prim_op name : T`.
type PrimOpDecl struct {
	Name   string
	Type   Type
	Doc    string
	Pragma map[string]string
	Pos    Pos
}

func (d *PrimOpDecl) declNode()    {}
func (d *PrimOpDecl) Position() Pos { return d.Pos }
func (d *PrimOpDecl) String() string { return fmt.Sprintf("prim_op %s : %s", d.Name, d.Type) }

// FlattenArrow decomposes a (possibly forall-wrapped) arrow chain into its
// parameter types in order, paired with any parameter docs recorded on each
// TypeArrow link. Used by the elaborator to key parameter docs `name/argI`.
func FlattenArrow(t Type) (params []Type, docs []string, result Type) {
	for {
		if fa, ok := t.(*TypeForall); ok {
			t = fa.Body
			continue
		}
		arrow, ok := t.(*TypeArrow)
		if !ok {
			return params, docs, t
		}
		params = append(params, arrow.Param)
		if len(arrow.ParamDocs) > 0 {
			docs = append(docs, arrow.ParamDocs[0])
		} else {
			docs = append(docs, "")
		}
		t = arrow.Return
	}
}
