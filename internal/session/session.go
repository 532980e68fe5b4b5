// Package session implements the programmatic interface of spec §6 —
// load, eval_expression, lookup_type, lookup_doc, list_llm_functions —
// as methods on a Session wrapping one *module.Module, driving the
// lexer/parser/elaborate/typecheck/eval pipeline and enforcing the §5
// transactional rule that a failing input leaves the module unchanged.
package session

import (
	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/core"
	"github.com/sunholo/sysf/internal/elaborate"
	"github.com/sunholo/sysf/internal/eval"
	"github.com/sunholo/sysf/internal/lexer"
	"github.com/sunholo/sysf/internal/module"
	"github.com/sunholo/sysf/internal/parser"
	"github.com/sunholo/sysf/internal/types"
	"github.com/sunholo/sysf/internal/value"
)

// Session owns one Module for its entire lifetime and serializes every
// input through it; the module is the only shared state (spec §5 — "the
// pipeline is re-entered for each input with mutable access").
type Session struct {
	mod *module.Module
}

// New returns a Session over an empty Module. Call LoadPrelude before
// accepting user input, or use NewWithPrelude.
func New() *Session {
	return &Session{mod: module.New()}
}

// NewWithPrelude returns a Session whose Module already has the prelude
// (spec §4.6) loaded and its arithmetic primitive handlers registered.
func NewWithPrelude() (*Session, error) {
	s := New()
	if err := s.LoadPrelude(); err != nil {
		return nil, err
	}
	module.RegisterArithmeticHandlers(s.mod)
	return s, nil
}

// LoadPrelude loads module.PreludeSource through the ordinary Load path
// (spec §4.6: "loaded by the same pipeline — there is no special-case
// code path").
func (s *Session) LoadPrelude() error {
	_, err := s.Load(module.PreludeSource)
	return err
}

// RegisterHandler installs a host implementation for a primitive
// operation (the §6 "interface consumed from the collaborator").
func (s *Session) RegisterHandler(name string, h value.Handler) {
	s.mod.RegisterHandler(name, h)
}

// Load implements the §6 load(source) operation: every declaration in
// source is parsed, elaborated, and — for term declarations — type-
// checked and evaluated, with its value memoized into the module. If any
// declaration fails, every registry is restored to its pre-call state
// and the module is left byte-identical (spec §5, §8 property 3).
func (s *Session) Load(source string) ([]string, error) {
	snap := s.mod.Snapshot()
	names, err := s.load(source)
	if err != nil {
		s.mod.Restore(snap)
		return nil, err
	}
	return names, nil
}

func (s *Session) load(source string) ([]string, error) {
	prog, err := s.parseProgram(source)
	if err != nil {
		return nil, err
	}
	priorDecls := len(s.mod.DeclOrder)

	elab := elaborate.New(s.mod)
	pending, err := elab.ElaborateProgram(prog)
	if err != nil {
		return nil, err
	}

	checker := types.New(s.mod)
	evaluator := eval.New(s.mod)
	for _, term := range pending {
		if err := checker.Check(term.Body, term.Type); err != nil {
			return nil, err
		}
		v, err := evaluator.Eval(value.NewEnv(), term.Body)
		if err != nil {
			return nil, err
		}
		s.mod.GlobalTypes[term.Name] = term.Type
		s.mod.GlobalValues[term.Name] = v
	}

	return append([]string(nil), s.mod.DeclOrder[priorDecls:]...), nil
}

// EvalExpression implements the §6 eval_expression(source) operation: a
// single term is parsed, elaborated, type-checked, and evaluated against
// the current module; its value is returned without being bound to any
// name. A failure at any stage leaves the module unchanged.
func (s *Session) EvalExpression(source string) (value.Value, error) {
	snap := s.mod.Snapshot()
	v, err := s.evalExpression(source)
	if err != nil {
		s.mod.Restore(snap)
		return nil, err
	}
	return v, nil
}

func (s *Session) evalExpression(source string) (value.Value, error) {
	l := lexer.New(string(lexer.Normalize([]byte(source))), "<input>")
	p, err := parser.New(l)
	if err != nil {
		return nil, err
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	elab := elaborate.New(s.mod)
	coreExpr, err := elab.ElaborateExpression(expr)
	if err != nil {
		return nil, err
	}
	if _, err := types.New(s.mod).Infer(coreExpr); err != nil {
		return nil, err
	}
	return eval.New(s.mod).Eval(value.NewEnv(), coreExpr)
}

// LookupType implements the §6 lookup_type(name) operation.
func (s *Session) LookupType(name string) (core.Type, bool) {
	return s.mod.LookupType(name)
}

// LookupDoc implements the §6 lookup_doc(name, optional arg index)
// operation. Pass a negative argIdx for the top-level docstring.
func (s *Session) LookupDoc(name string, argIdx int) (string, bool) {
	return s.mod.LookupDoc(name, argIdx)
}

// ListLLMFunctions implements the §6 list_llm_functions() operation.
func (s *Session) ListLLMFunctions() []module.LLMMetadata {
	return s.mod.ListLLMFunctions()
}

func (s *Session) parseProgram(source string) (*ast.Program, error) {
	l := lexer.New(string(lexer.Normalize([]byte(source))), "<input>")
	p, err := parser.New(l)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}
