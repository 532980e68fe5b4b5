package module

import (
	"github.com/sunholo/sysf/internal/errors"
	"github.com/sunholo/sysf/internal/value"
)

// PreludeSource is the fixed source fragment shipped with the
// implementation (spec §4.6, C11): primitive-type declarations, the
// fixed arithmetic primitive operations the operator table desugars to,
// and a starter data-type library with a handful of combinators. It is
// loaded through the ordinary lex/parse/elaborate/check/eval pipeline —
// there is no special-case bootstrap path; the loader lives in
// internal/session, which is the only collaborator that can drive that
// pipeline without an import cycle back into this package.
const PreludeSource = `
-- | 64-bit signed integer primitive type.
prim_type Int

-- | UTF-8 string primitive type.
prim_type String

-- | Integer addition.
prim_op int_plus : Int -> Int -> Int

-- | Integer subtraction.
prim_op int_minus : Int -> Int -> Int

-- | Integer multiplication.
prim_op int_multiply : Int -> Int -> Int

-- | Integer division. Fails at runtime with DivisionByZero on a zero divisor.
prim_op int_divide : Int -> Int -> Int

data Bool = True | False

data Maybe a = Nothing | Just a

data Either a b = Left a | Right b

data List a = Nil | Cons a (List a)

data Nat = Zero | Succ Nat

data Pair a b = MkPair a b

id : forall a. a -> a
   = /\a. \x:a. x

const : forall a. forall b. a -> b -> a
      = /\a. /\b. \x:a. \y:b. x

compose : forall a. forall b. forall c. (b -> c) -> (a -> b) -> a -> c
        = /\a. /\b. /\c. \f:b -> c. \g:a -> b. \x:a. f (g x)

flip : forall a. forall b. forall c. (a -> b -> c) -> b -> a -> c
     = /\a. /\b. /\c. \f:a -> b -> c. \x:b. \y:a. f y x
`

// RegisterArithmeticHandlers installs the host implementations for the
// prelude's int_plus/int_minus/int_multiply/int_divide primitives.
// Unlike a user-declared (possibly LLM-backed) prim_op, these four are
// part of the language's guaranteed arithmetic rather than something a
// collaborator supplies, so the loader that seeds the prelude wires
// their handlers unconditionally instead of leaving them for the host
// to register (spec §4.6; §8 S1/S2 require `1 + 2` to actually reduce
// to `3`, which needs a handler bound to `int_plus`, not just a
// declared signature).
func RegisterArithmeticHandlers(mod *Module) {
	mod.RegisterHandler("int_plus", intBinOp(func(a, b int64) (int64, error) { return a + b, nil }))
	mod.RegisterHandler("int_minus", intBinOp(func(a, b int64) (int64, error) { return a - b, nil }))
	mod.RegisterHandler("int_multiply", intBinOp(func(a, b int64) (int64, error) { return a * b, nil }))
	mod.RegisterHandler("int_divide", intBinOp(func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errors.New(errors.EVA005, "division by zero", nil)
		}
		return a / b, nil
	}))
}

func intBinOp(op func(a, b int64) (int64, error)) value.Handler {
	return func(args []value.Value) (value.Value, error) {
		a, ok := args[0].(value.Int)
		if !ok {
			return nil, errors.New(errors.EVA004, "primitive expects an Int argument", nil)
		}
		b, ok := args[1].(value.Int)
		if !ok {
			return nil, errors.New(errors.EVA004, "primitive expects an Int argument", nil)
		}
		r, err := op(a.Value, b.Value)
		if err != nil {
			return nil, err
		}
		return value.Int{Value: r}, nil
	}
}
