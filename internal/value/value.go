// Package value defines runtime values produced by the evaluator (spec
// §3.4, C8): integers, strings, closures over a persistent environment,
// type closures, constructor values, and (possibly partially applied)
// primitive operations.
package value

import (
	"fmt"
	"strings"

	"github.com/sunholo/sysf/internal/core"
)

// Value is a closed runtime value.
type Value interface {
	String() string
	valueNode()
}

// Env is a persistent stack of values, indexed by de Bruijn depth: Env[0]
// is the most recently bound value. Extension pushes a new frame; no
// mutation of an existing Env ever happens, so a closure can safely share
// its captured Env with other closures (spec §3.4, §9 "Representation of
// environments").
type Env struct {
	frames []Value
}

// Extend returns a new Env with v bound at depth 0 and every existing
// binding's depth increased by one.
func (e *Env) Extend(v Value) *Env {
	frames := make([]Value, 0, len(e.frames)+1)
	frames = append(frames, v)
	frames = append(frames, e.frames...)
	return &Env{frames: frames}
}

// Lookup retrieves the value bound at de Bruijn index i.
func (e *Env) Lookup(i int) (Value, bool) {
	if i < 0 || i >= len(e.frames) {
		return nil, false
	}
	return e.frames[i], true
}

// Len reports the number of bindings currently in scope.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return len(e.frames)
}

// NewEnv returns the empty environment.
func NewEnv() *Env { return &Env{} }

// Int is a 64-bit signed integer value.
type Int struct{ Value int64 }

func (i Int) valueNode()     {}
func (i Int) String() string { return fmt.Sprintf("%d", i.Value) }

// String is a string value.
type String struct{ Value string }

func (s String) valueNode()     {}
func (s String) String() string { return fmt.Sprintf("%q", s.Value) }

// Closure is a term-level lambda closed over its defining environment.
type Closure struct {
	Env       *Env
	ParamType core.Type // retained for printing only, per spec §3.4
	Body      core.Expr
}

func (c *Closure) valueNode()     {}
func (c *Closure) String() string { return fmt.Sprintf("<closure:%s>", c.ParamType) }

// TypeClosure is a type abstraction closed over its defining environment.
// Type erasure at runtime means applying it is a no-op over the captured
// environment (spec §4.5).
type TypeClosure struct {
	Env  *Env
	Body core.Expr
}

func (t *TypeClosure) valueNode()     {}
func (t *TypeClosure) String() string { return "<type-closure>" }

// Constructor is a fully-applied data constructor value.
type Constructor struct {
	Name string
	Args []Value
}

func (c *Constructor) valueNode() {}
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

// Handler is a host-supplied implementation of a primitive operation: it
// receives fully evaluated arguments in source order and returns a value
// or an error (spec §6: "a handler registry mapping primitive-op names ...
// to functions of type (list of values) -> value").
type Handler func(args []Value) (Value, error)

// PrimOp is a primitive-operation value, possibly partially applied.
// Arity is computed once from the declared signature (spec §4.5): the
// evaluator accumulates arguments until Arity is reached, then invokes
// Impl.
type PrimOp struct {
	Name  string
	Arity int
	Impl  Handler
	Args  []Value // accumulated so far, len(Args) < Arity
}

func (p *PrimOp) valueNode() {}
func (p *PrimOp) String() string {
	return fmt.Sprintf("<prim:%s/%d args>", p.Name, len(p.Args))
}

// Apply returns a new PrimOp with arg accumulated, or invokes Impl if that
// saturates the arity.
func (p *PrimOp) Apply(arg Value) (Value, error) {
	args := make([]Value, len(p.Args), len(p.Args)+1)
	copy(args, p.Args)
	args = append(args, arg)
	if len(args) < p.Arity {
		return &PrimOp{Name: p.Name, Arity: p.Arity, Impl: p.Impl, Args: args}, nil
	}
	return p.Impl(args)
}
