// Package types implements the bidirectional type checker (spec §4.4,
// C7): infer/check over the core calculus, Robinson unification with
// occurs check, data constructor instantiation, and the lenient
// structural exhaustiveness rule for case expressions.
package types

import (
	"github.com/sunholo/sysf/internal/core"
	"github.com/sunholo/sysf/internal/errors"
	"github.com/sunholo/sysf/internal/module"
)

// Checker holds the fresh-metavariable counter for one check/infer call
// tree; the Module it reads persists across inputs.
type Checker struct {
	mod       *module.Module
	metaCount int
}

// New creates a Checker over mod.
func New(mod *module.Module) *Checker {
	return &Checker{mod: mod}
}

// ctx is the local typing context, indexed exactly like the elaborator's
// de Bruijn scope stack: ctx[0] is the innermost binder's type.
type ctx []core.Type

func (c ctx) extend(t core.Type) ctx {
	out := make(ctx, 0, len(c)+1)
	out = append(out, t)
	out = append(out, c...)
	return out
}

// Infer derives the most-general type of e under the empty top-level
// context (spec §4.4 infer(Γ, e)).
func (c *Checker) Infer(e core.Expr) (core.Type, error) {
	t, err := c.infer(nil, e)
	if err != nil {
		return nil, err
	}
	return resolve(t), nil
}

// Check verifies that e has type t under the empty top-level context
// (spec §4.4 check(Γ, e, T)).
func (c *Checker) Check(e core.Expr, t core.Type) error {
	return c.check(nil, e, t)
}

func (c *Checker) infer(g ctx, e core.Expr) (core.Type, error) {
	switch ex := e.(type) {
	case *core.Var:
		if ex.Index < 0 || ex.Index >= len(g) {
			return nil, errors.Newf(errors.TC010, spanOf(e), "unbound local index %d", ex.Index)
		}
		return g[ex.Index], nil

	case *core.Global:
		t, ok := c.mod.GlobalTypes[ex.Name]
		if !ok {
			return nil, errors.Newf(errors.TC002, spanOf(e), "unknown global %q", ex.Name)
		}
		return t, nil

	case *core.PrimOp:
		t, ok := c.mod.GlobalTypes["$prim."+ex.Name]
		if !ok {
			return nil, errors.Newf(errors.TC003, spanOf(e), "unknown primitive %q", ex.Name)
		}
		return t, nil

	case *core.IntLit:
		if _, ok := c.mod.PrimitiveTypes["Int"]; !ok {
			return nil, errors.Newf(errors.TC009, spanOf(e), "no primitive type Int registered")
		}
		return &core.TPrim{Name: "Int"}, nil

	case *core.StringLit:
		if _, ok := c.mod.PrimitiveTypes["String"]; !ok {
			return nil, errors.Newf(errors.TC009, spanOf(e), "no primitive type String registered")
		}
		return &core.TPrim{Name: "String"}, nil

	case *core.Lambda:
		bodyT, err := c.infer(g.extend(ex.ParamType), ex.Body)
		if err != nil {
			return nil, err
		}
		return &core.TArrow{Param: ex.ParamType, Return: bodyT}, nil

	case *core.TypeAbs:
		bodyT, err := c.infer(g, ex.Body)
		if err != nil {
			return nil, err
		}
		return &core.TForall{TypeVar: ex.TypeVar, Body: bodyT}, nil

	case *core.App:
		// A let-redex `(\x. b) v`: synthesize v first so the binder's type
		// is known before the body is inferred.
		if lam, ok := ex.Func.(*core.Lambda); ok {
			argT, err := c.infer(g, ex.Arg)
			if err != nil {
				return nil, err
			}
			if err := c.unify(lam.ParamType, argT, ex.Arg); err != nil {
				return nil, err
			}
			return c.infer(g.extend(lam.ParamType), lam.Body)
		}
		fnT, err := c.infer(g, ex.Func)
		if err != nil {
			return nil, err
		}
		fnT = c.instantiateAll(fnT)
		u := c.freshMeta()
		v := c.freshMeta()
		if err := c.unify(fnT, &core.TArrow{Param: u, Return: v}, ex.Func); err != nil {
			return nil, errors.Newf(errors.TC006, spanOf(e), "cannot apply a value of type %s", resolve(fnT))
		}
		if err := c.check(g, ex.Arg, u); err != nil {
			return nil, err
		}
		return v, nil

	case *core.TypeApp:
		fnT, err := c.infer(g, ex.Func)
		if err != nil {
			return nil, err
		}
		forall, ok := resolve(fnT).(*core.TForall)
		if !ok {
			return nil, errors.Newf(errors.TC001, spanOf(e), "type application to a non-polymorphic value of type %s", resolve(fnT))
		}
		return substVar(forall.Body, forall.TypeVar, ex.Arg), nil

	case *core.Constructor:
		return c.inferConstructor(g, ex)

	case *core.Case:
		return c.inferCase(g, ex)

	default:
		return nil, errors.Newf(errors.TC001, spanOf(e), "no synthesis rule for %T", e)
	}
}

func (c *Checker) check(g ctx, e core.Expr, expected core.Type) error {
	expected = resolve(expected)
	switch ex := e.(type) {
	case *core.Lambda:
		arrow, ok := expected.(*core.TArrow)
		if ok {
			if err := c.unify(ex.ParamType, arrow.Param, e); err != nil {
				return err
			}
			return c.check(g.extend(arrow.Param), ex.Body, arrow.Return)
		}
	case *core.TypeAbs:
		forall, ok := expected.(*core.TForall)
		if ok {
			renamedBody := substVar(forall.Body, forall.TypeVar, &core.TVar{Name: ex.TypeVar})
			return c.check(g, ex.Body, renamedBody)
		}
	case *core.Constructor:
		ty, err := c.inferConstructor(g, ex)
		if err != nil {
			return err
		}
		return c.unify(ty, expected, e)
	}
	actual, err := c.infer(g, e)
	if err != nil {
		return err
	}
	return c.unify(actual, expected, e)
}

// inferConstructor instantiates the constructor's declared generic type
// with fresh unification variables, checks each supplied argument
// against its field type, and returns the remaining (possibly
// partially-applied) type (spec §4.4).
func (c *Checker) inferConstructor(g ctx, ex *core.Constructor) (core.Type, error) {
	info, ok := c.mod.Constructors[ex.Name]
	if !ok {
		return nil, errors.Newf(errors.TC009, spanOf(ex), "unknown constructor %q", ex.Name)
	}
	subst := map[string]core.Type{}
	for _, p := range info.DataParams {
		subst[p] = c.freshMeta()
	}
	fields := make([]core.Type, len(info.Fields))
	for i, f := range info.Fields {
		fields[i] = substMany(f, subst)
	}
	if len(ex.Args) > len(fields) {
		return nil, errors.Newf(errors.TC005, spanOf(ex), "constructor %q applied to %d arguments, expects at most %d", ex.Name, len(ex.Args), len(fields))
	}
	for i, a := range ex.Args {
		if err := c.check(g, a, fields[i]); err != nil {
			return nil, err
		}
	}
	// Built after the argument checks so that type arguments they solved
	// appear as their solutions.
	result := core.Type(&core.TCon{Name: info.DataType, Args: argsFor(info.DataParams, subst)})
	for i := len(fields) - 1; i >= len(ex.Args); i-- {
		result = &core.TArrow{Param: fields[i], Return: result}
	}
	return result, nil
}

func argsFor(params []string, subst map[string]core.Type) []core.Type {
	if len(params) == 0 {
		return nil
	}
	out := make([]core.Type, len(params))
	for i, p := range params {
		out[i] = resolve(subst[p])
	}
	return out
}

func substMany(t core.Type, subst map[string]core.Type) core.Type {
	for name, repl := range subst {
		t = substVar(t, name, repl)
	}
	return t
}

// inferCase synthesizes the scrutinee's type, requires it to be a data
// type application, type-checks each branch under its pattern-bound
// locals, unifies the branch result types, and applies the lenient
// exhaustiveness rule (spec §4.4, §8 boundary behaviors).
func (c *Checker) inferCase(g ctx, ex *core.Case) (core.Type, error) {
	scrutT, err := c.infer(g, ex.Scrutinee)
	if err != nil {
		return nil, err
	}
	dataType, ok := resolve(scrutT).(*core.TCon)
	if !ok {
		return nil, errors.Newf(errors.TC001, spanOf(ex), "case scrutinee must be a data type, got %s", resolve(scrutT))
	}

	knownCtors := ctorsOf(c.mod, dataType.Name)
	if len(ex.Branches) == 0 {
		if len(knownCtors) == 0 {
			return c.freshMeta(), nil
		}
		return nil, errors.Newf(errors.TC007, spanOf(ex), "non-exhaustive case over %s: no branches", dataType.Name)
	}

	covered := map[string]bool{}
	result := c.freshMeta()
	for _, b := range ex.Branches {
		info, ok := c.mod.Constructors[b.Pattern.Constructor]
		if !ok {
			return nil, errors.Newf(errors.TC009, spanOf(ex), "unknown constructor %q in pattern", b.Pattern.Constructor)
		}
		covered[b.Pattern.Constructor] = true
		if len(b.Pattern.Vars) != len(info.Fields) {
			return nil, errors.Newf(errors.TC005, spanOf(ex), "pattern %q binds %d variables, constructor has %d fields", b.Pattern.Constructor, len(b.Pattern.Vars), len(info.Fields))
		}
		subst := map[string]core.Type{}
		for i, p := range info.DataParams {
			if i < len(dataType.Args) {
				subst[p] = dataType.Args[i]
			} else {
				subst[p] = c.freshMeta()
			}
		}
		branchCtx := g
		for i := range b.Pattern.Vars {
			ft := substMany(info.Fields[i], subst)
			branchCtx = branchCtx.extend(ft)
		}
		bodyT, err := c.infer(branchCtx, b.Body)
		if err != nil {
			return nil, err
		}
		if err := c.unify(result, bodyT, b.Body); err != nil {
			return nil, err
		}
	}

	for _, name := range knownCtors {
		if !covered[name] {
			return nil, errors.Newf(errors.TC007, spanOf(ex), "non-exhaustive case over %s: missing %q", dataType.Name, name)
		}
	}
	return resolve(result), nil
}

func ctorsOf(mod *module.Module, dataType string) []string {
	var names []string
	for name, info := range mod.Constructors {
		if info.DataType == dataType {
			names = append(names, name)
		}
	}
	return names
}

// instantiateAll peels every leading forall off t, substituting a fresh
// unification variable for each quantified type variable (spec §4.4
// App rule: "instantiate if it is forall a... by introducing a fresh
// unification variable").
func (c *Checker) instantiateAll(t core.Type) core.Type {
	t = resolve(t)
	for {
		forall, ok := t.(*core.TForall)
		if !ok {
			return t
		}
		t = resolve(substVar(forall.Body, forall.TypeVar, c.freshMeta()))
	}
}

func (c *Checker) freshMeta() *core.TMeta {
	c.metaCount++
	return &core.TMeta{ID: c.metaCount}
}
