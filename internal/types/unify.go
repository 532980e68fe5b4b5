package types

import (
	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/core"
	"github.com/sunholo/sysf/internal/errors"
)

// resolve follows a chain of bound TMeta placeholders to the concrete
// type they were unified with, if any (spec §4.4 unification).
func resolve(t core.Type) core.Type {
	for {
		meta, ok := t.(*core.TMeta)
		if !ok || meta.Bound == nil {
			return t
		}
		t = meta.Bound
	}
}

// unify is Robinson-style unification over core types, mutating TMeta
// placeholders in place rather than building an explicit substitution
// (spec §4.4). It fails with OccursCheck or TypeMismatch.
func (c *Checker) unify(a, b core.Type, at core.Expr) error {
	a = resolve(a)
	b = resolve(b)

	if am, ok := a.(*core.TMeta); ok {
		return c.bindMeta(am, b, at)
	}
	if bm, ok := b.(*core.TMeta); ok {
		return c.bindMeta(bm, a, at)
	}

	switch av := a.(type) {
	case *core.TVar:
		if bv, ok := b.(*core.TVar); ok && bv.Name == av.Name {
			return nil
		}
		return c.mismatch(a, b, at)
	case *core.TPrim:
		if bv, ok := b.(*core.TPrim); ok && bv.Name == av.Name {
			return nil
		}
		return c.mismatch(a, b, at)
	case *core.TCon:
		bv, ok := b.(*core.TCon)
		if !ok || bv.Name != av.Name || len(bv.Args) != len(av.Args) {
			return c.mismatch(a, b, at)
		}
		for i := range av.Args {
			if err := c.unify(av.Args[i], bv.Args[i], at); err != nil {
				return err
			}
		}
		return nil
	case *core.TArrow:
		bv, ok := b.(*core.TArrow)
		if !ok {
			return c.mismatch(a, b, at)
		}
		if err := c.unify(av.Param, bv.Param, at); err != nil {
			return err
		}
		return c.unify(av.Return, bv.Return, at)
	case *core.TForall:
		bv, ok := b.(*core.TForall)
		if !ok {
			return c.mismatch(a, b, at)
		}
		// Alpha-rename b's bound variable to a's before comparing bodies.
		renamed := substVar(bv.Body, bv.TypeVar, &core.TVar{Name: av.TypeVar})
		return c.unify(av.Body, renamed, at)
	default:
		return c.mismatch(a, b, at)
	}
}

func (c *Checker) bindMeta(m *core.TMeta, t core.Type, at core.Expr) error {
	if other, ok := t.(*core.TMeta); ok && other == m {
		return nil
	}
	if occurs(m, t) {
		return errors.Newf(errors.TC004, spanOf(at), "occurs check failed: %s occurs in %s", m, t)
	}
	m.Bound = t
	return nil
}

func occurs(m *core.TMeta, t core.Type) bool {
	switch tv := resolve(t).(type) {
	case *core.TMeta:
		return tv == m
	case *core.TArrow:
		return occurs(m, tv.Param) || occurs(m, tv.Return)
	case *core.TForall:
		return occurs(m, tv.Body)
	case *core.TCon:
		for _, a := range tv.Args {
			if occurs(m, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (c *Checker) mismatch(a, b core.Type, at core.Expr) error {
	return errors.Newf(errors.TC001, spanOf(at), "type mismatch: expected %s, got %s", a, b)
}

// substVar replaces every free occurrence of the type variable name with
// replacement, used for instantiation and alpha-renaming during
// unification (spec §4.4).
func substVar(t core.Type, name string, replacement core.Type) core.Type {
	switch tv := t.(type) {
	case *core.TVar:
		if tv.Name == name {
			return replacement
		}
		return tv
	case *core.TArrow:
		return &core.TArrow{
			Param:     substVar(tv.Param, name, replacement),
			Return:    substVar(tv.Return, name, replacement),
			ParamDocs: tv.ParamDocs,
		}
	case *core.TForall:
		if tv.TypeVar == name {
			return tv // shadowed; inner binder wins
		}
		return &core.TForall{TypeVar: tv.TypeVar, Body: substVar(tv.Body, name, replacement)}
	case *core.TCon:
		args := make([]core.Type, len(tv.Args))
		for i, a := range tv.Args {
			args[i] = substVar(a, name, replacement)
		}
		return &core.TCon{Name: tv.Name, Args: args}
	default:
		return t
	}
}

func spanOf(e core.Expr) *ast.Span {
	if e == nil {
		return nil
	}
	p := e.Span()
	return &ast.Span{Start: p, End: p}
}
