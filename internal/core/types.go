// Package core defines the explicitly-typed core calculus (spec §3.2, C5):
// the elaborator's target, the type checker's input, and the evaluator's
// input. Locals are de Bruijn indices; globals, constructors and primitive
// operations are addressed by name (the two-tier scope invariant of §3.2).
package core

import (
	"fmt"
	"strings"
)

// Type is a core type.
type Type interface {
	String() string
	typeNode()
}

// TVar is a type-variable reference, bound by an enclosing TForall.
type TVar struct{ Name string }

func (t *TVar) typeNode()      {}
func (t *TVar) String() string { return t.Name }

// TArrow is a function type `A -> B`. ParamDocs, when non-empty, carries the
// parameter docstring for this arrow link (propagated from the surface
// TypeArrow, spec §4.2).
type TArrow struct {
	Param     Type
	Return    Type
	ParamDocs string
}

func (t *TArrow) typeNode() {}
func (t *TArrow) String() string {
	return fmt.Sprintf("(%s -> %s)", t.Param, t.Return)
}

// TForall is a universal quantifier `forall a. T`.
type TForall struct {
	TypeVar string
	Body    Type
}

func (t *TForall) typeNode()      {}
func (t *TForall) String() string { return fmt.Sprintf("(forall %s. %s)", t.TypeVar, t.Body) }

// TCon is a (possibly applied) user type constructor, e.g. `Maybe a`.
type TCon struct {
	Name string
	Args []Type
}

func (t *TCon) typeNode() {}
func (t *TCon) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", t.Name, strings.Join(parts, " "))
}

// TPrim is a primitive type (`prim_type C`). It unifies only by name
// identity and is never decomposed (spec §4.4 unification rules).
type TPrim struct{ Name string }

func (t *TPrim) typeNode()      {}
func (t *TPrim) String() string { return t.Name }

// TMeta is a unification (metavariable) placeholder, never produced by the
// parser. The elaborator introduces one for each unannotated lambda or let
// binder, and the type checker introduces fresh ones during instantiation
// and unification (spec §4.4). Placeholders are told apart by identity.
type TMeta struct {
	ID    int
	Name  string // for display only, e.g. "t3"
	Bound Type   // set by substitution once solved; nil while unbound
}

func (t *TMeta) typeNode() {}
func (t *TMeta) String() string {
	if t.Bound != nil {
		return t.Bound.String()
	}
	return "?" + t.Name
}

// ArrowPrefixLen counts the arrow prefixes of t before any residual
// forall, per spec §9's primitive-operation arity rule: "the conservative
// and correct rule is to not count quantifier-hidden arrows".
func ArrowPrefixLen(t Type) int {
	n := 0
	for {
		arrow, ok := t.(*TArrow)
		if !ok {
			return n
		}
		n++
		t = arrow.Return
	}
}
