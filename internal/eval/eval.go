// Package eval implements call-by-value evaluation of the core calculus
// (spec §4.5, C8): environment-based closures, global memoization, and
// shallow constructor pattern matching.
package eval

import (
	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/core"
	"github.com/sunholo/sysf/internal/errors"
	"github.com/sunholo/sysf/internal/module"
	"github.com/sunholo/sysf/internal/value"
)

// Evaluator reduces core expressions against a Module's global tables.
// It holds no mutable state of its own; every global a term references
// is looked up in mod's GlobalValues, which hold already-evaluated values.
type Evaluator struct {
	mod *module.Module
}

// New creates an Evaluator over mod.
func New(mod *module.Module) *Evaluator {
	return &Evaluator{mod: mod}
}

// Eval reduces e to a value under env, the runtime analogue of the
// checker's de Bruijn-indexed local context (spec §4.5 eval(ρ, e)).
func (ev *Evaluator) Eval(env *value.Env, e core.Expr) (value.Value, error) {
	switch ex := e.(type) {
	case *core.Var:
		v, ok := env.Lookup(ex.Index)
		if !ok {
			return nil, errors.Newf(errors.EVA002, spanOf(ex), "unbound local index %d", ex.Index)
		}
		return v, nil

	case *core.Global:
		return ev.resolveGlobal(ex)

	case *core.PrimOp:
		return ev.resolvePrim(ex)

	case *core.IntLit:
		return value.Int{Value: ex.Value}, nil

	case *core.StringLit:
		return value.String{Value: ex.Value}, nil

	case *core.Lambda:
		return &value.Closure{Env: env, ParamType: ex.ParamType, Body: ex.Body}, nil

	case *core.TypeAbs:
		return &value.TypeClosure{Env: env, Body: ex.Body}, nil

	case *core.TypeApp:
		fn, err := ev.Eval(env, ex.Func)
		if err != nil {
			return nil, err
		}
		tc, ok := fn.(*value.TypeClosure)
		if !ok {
			return nil, errors.Newf(errors.EVA006, spanOf(ex), "type application to a non-type-abstraction value %s", fn)
		}
		return ev.Eval(tc.Env, tc.Body)

	case *core.App:
		fn, err := ev.Eval(env, ex.Func)
		if err != nil {
			return nil, err
		}
		arg, err := ev.Eval(env, ex.Arg)
		if err != nil {
			return nil, err
		}
		return ev.apply(ex, fn, arg)

	case *core.Constructor:
		args := make([]value.Value, len(ex.Args))
		for i, a := range ex.Args {
			v, err := ev.Eval(env, a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return &value.Constructor{Name: ex.Name, Args: args}, nil

	case *core.Case:
		return ev.evalCase(env, ex)

	default:
		return nil, errors.Newf(errors.EVA006, spanOf(ex), "no reduction rule for %T", e)
	}
}

func (ev *Evaluator) apply(at core.Expr, fn, arg value.Value) (value.Value, error) {
	switch f := fn.(type) {
	case *value.Closure:
		return ev.Eval(f.Env.Extend(arg), f.Body)
	case *value.PrimOp:
		return f.Apply(arg)
	default:
		return nil, errors.Newf(errors.EVA006, spanOf(at), "cannot apply a non-function value %s", fn)
	}
}

// resolveGlobal returns a global's value from GlobalValues; it computes
// and caches nothing itself, since globals are fully evaluated before
// being committed there (spec §5). On a miss, a nullary constructor's name
// yields its constructor value; any other name is an unbound reference.
func (ev *Evaluator) resolveGlobal(g *core.Global) (value.Value, error) {
	v, ok := ev.mod.GlobalValues[g.Name]
	if !ok {
		if ctorInfo, isCtor := ev.mod.Constructors[g.Name]; isCtor && len(ctorInfo.Fields) == 0 {
			return &value.Constructor{Name: g.Name}, nil
		}
		return nil, errors.Newf(errors.EVA002, spanOf(g), "unbound global %q", g.Name)
	}
	return v, nil
}

func (ev *Evaluator) resolvePrim(p *core.PrimOp) (value.Value, error) {
	impl, ok := ev.mod.PrimImpls[p.Name]
	if !ok {
		return nil, errors.Newf(errors.EVA003, spanOf(p), "no handler registered for primitive %q", p.Name)
	}
	ty, ok := ev.mod.GlobalTypes["$prim."+p.Name]
	if !ok {
		return nil, errors.Newf(errors.EVA003, spanOf(p), "no declared signature for primitive %q", p.Name)
	}
	arity := core.ArrowPrefixLen(ty)
	if arity == 0 {
		return impl(nil)
	}
	return &value.PrimOp{Name: p.Name, Arity: arity, Impl: impl}, nil
}

// evalCase reduces the scrutinee to a Constructor value, finds the first
// branch whose pattern names match, and evaluates its body in an
// environment extended with the pattern's bound fields, last-listed
// variable innermost (mirrors the elaborator's de Bruijn numbering; spec
// §4.5 "Case").
func (ev *Evaluator) evalCase(env *value.Env, c *core.Case) (value.Value, error) {
	scrutinee, err := ev.Eval(env, c.Scrutinee)
	if err != nil {
		return nil, err
	}
	ctor, ok := scrutinee.(*value.Constructor)
	if !ok {
		return nil, errors.Newf(errors.EVA006, spanOf(c), "case scrutinee did not reduce to a constructor value: %s", scrutinee)
	}
	for _, b := range c.Branches {
		if b.Pattern.Constructor != ctor.Name {
			continue
		}
		branchEnv := env
		for i := range b.Pattern.Vars {
			branchEnv = branchEnv.Extend(ctor.Args[i])
		}
		return ev.Eval(branchEnv, b.Body)
	}
	return nil, errors.Newf(errors.EVA001, spanOf(c), "no branch matches constructor %q", ctor.Name)
}

func spanOf(e core.Expr) *ast.Span {
	if e == nil {
		return nil
	}
	p := e.Span()
	return &ast.Span{Start: p, End: p}
}
