package elaborate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/core"
	"github.com/sunholo/sysf/internal/lexer"
	"github.com/sunholo/sysf/internal/module"
	"github.com/sunholo/sysf/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(string(lexer.Normalize([]byte(src))), "test.sf")
	p, err := parser.New(l)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	l := lexer.New(string(lexer.Normalize([]byte(src))), "test.sf")
	p, err := parser.New(l)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	expr, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return expr
}

func TestElaborateDataDeclRegistersConstructors(t *testing.T) {
	mod := module.New()
	e := New(mod)
	prog := parseProgram(t, `data Bool = True | False`)
	if _, err := e.ElaborateProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mod.Constructors["True"]; !ok {
		t.Fatal("True not registered as a constructor")
	}
	if _, ok := mod.GlobalTypes["True"]; !ok {
		t.Fatal("True has no registered global type")
	}
}

func TestElaborateNullaryConstructorReference(t *testing.T) {
	mod := module.New()
	e := New(mod)
	prog := parseProgram(t, `data Bool = True | False`)
	if _, err := e.ElaborateProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expr, err := e.ElaborateExpression(parseExpr(t, `True`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctor, ok := expr.(*core.Constructor)
	if !ok || ctor.Name != "True" || len(ctor.Args) != 0 {
		t.Fatalf("got %#v", expr)
	}
}

func TestElaborateConstructorApplicationDisambiguation(t *testing.T) {
	mod := module.New()
	e := New(mod)
	prog := parseProgram(t, `data Maybe a = Nothing | Just a`)
	if _, err := e.ElaborateProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expr, err := e.ElaborateExpression(parseExpr(t, `Just 7`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctor, ok := expr.(*core.Constructor)
	if !ok {
		t.Fatalf("got %T, want *core.Constructor", expr)
	}
	if ctor.Name != "Just" || len(ctor.Args) != 1 {
		t.Fatalf("got %#v", ctor)
	}
	if lit, ok := ctor.Args[0].(*core.IntLit); !ok || lit.Value != 7 {
		t.Errorf("got arg %#v", ctor.Args[0])
	}
}

func TestElaborateUnknownNameFails(t *testing.T) {
	mod := module.New()
	e := New(mod)
	_, err := e.ElaborateExpression(parseExpr(t, `nosuchname`))
	if err == nil {
		t.Fatal("expected an UnknownName error")
	}
	elabErr, ok := err.(*Error)
	if !ok || elabErr.Code != "ELB001" {
		t.Errorf("got %v, want ELB001", err)
	}
}

func TestElaborateLambdaDeBruijnIndex(t *testing.T) {
	mod := module.New()
	e := New(mod)
	expr, err := e.ElaborateExpression(parseExpr(t, `\x. x`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lam, ok := expr.(*core.Lambda)
	if !ok {
		t.Fatalf("got %T, want *core.Lambda", expr)
	}
	v, ok := lam.Body.(*core.Var)
	if !ok || v.Index != 0 {
		t.Fatalf("got body %#v, want Var(0)", lam.Body)
	}
}

func TestElaborateNestedLambdaDeBruijnIndices(t *testing.T) {
	mod := module.New()
	e := New(mod)
	// \x. \y. x should reference the outer binder at index 1 inside the
	// inner lambda's body.
	expr, err := e.ElaborateExpression(parseExpr(t, `\x. \y. x`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer := expr.(*core.Lambda)
	inner := outer.Body.(*core.Lambda)
	v, ok := inner.Body.(*core.Var)
	if !ok || v.Index != 1 {
		t.Fatalf("got inner body %#v, want Var(1)", inner.Body)
	}
}

func TestElaborateOperatorDesugaring(t *testing.T) {
	mod := module.New()
	e := New(mod)
	expr, err := e.ElaborateExpression(parseExpr(t, `1 + 2`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := expr.(*core.App)
	if !ok {
		t.Fatalf("got %T, want *core.App", expr)
	}
	inner, ok := outer.Func.(*core.App)
	if !ok {
		t.Fatalf("got %T, want nested *core.App", outer.Func)
	}
	prim, ok := inner.Func.(*core.PrimOp)
	if !ok || prim.Name != "int_plus" {
		t.Fatalf("got %#v, want PrimOp(int_plus)", inner.Func)
	}
}

func TestElaboratePrimOpLLMPragma(t *testing.T) {
	mod := module.New()
	e := New(mod)
	src := `-- | translate a string
{-# LLM model=gpt-4, temperature=0.2 #-}
prim_op translate : String -> String`
	prog := parseProgram(t, src)
	if _, err := e.ElaborateProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meta, ok := mod.LLMFunctions["translate"]
	if !ok {
		t.Fatal("translate not registered in llm_functions")
	}
	if meta.Model != "gpt-4" || meta.Temperature != "0.2" {
		t.Errorf("got metadata %#v", meta)
	}
	if doc, ok := mod.Docstrings["translate"]; !ok || doc != "translate a string" {
		t.Errorf("got doc %q", doc)
	}
	ty, ok := mod.GlobalTypes["$prim.translate"]
	if !ok {
		t.Fatal("$prim.translate has no registered type")
	}
	if _, ok := ty.(*core.TArrow); !ok {
		t.Errorf("got type %T, want *core.TArrow", ty)
	}
}

func TestElaborateTermDeclMissingTypeFails(t *testing.T) {
	mod := module.New()
	e := New(mod)
	decl := &ast.TermDecl{Name: "x", Body: &ast.IntLit{Value: 1}}
	_, err := e.elaborateDecl(decl)
	if err == nil {
		t.Fatal("expected MissingTypeAnnotation error")
	}
	elabErr, ok := err.(*Error)
	if !ok || elabErr.Code != "TC008" {
		t.Errorf("got %v, want TC008", err)
	}
}

func TestElaborateCasePatternVariableBinding(t *testing.T) {
	mod := module.New()
	e := New(mod)
	prog := parseProgram(t, `data Maybe a = Nothing | Just a`)
	if _, err := e.ElaborateProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expr, err := e.ElaborateExpression(parseExpr(t, `\m. case m of { Just x -> x | Nothing -> 0 }`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lam := expr.(*core.Lambda)
	c, ok := lam.Body.(*core.Case)
	if !ok {
		t.Fatalf("got %T, want *core.Case", lam.Body)
	}
	if len(c.Branches) != 2 {
		t.Fatalf("got %d branches", len(c.Branches))
	}
	justBody, ok := c.Branches[0].Body.(*core.Var)
	if !ok || justBody.Index != 0 {
		t.Fatalf("got branch body %#v, want Var(0) for pattern-bound x", c.Branches[0].Body)
	}
	scrutinee, ok := c.Scrutinee.(*core.Var)
	if !ok || scrutinee.Index != 0 {
		t.Fatalf("got scrutinee %#v, want Var(0) for lambda-bound m", c.Scrutinee)
	}
}

func TestElaborateCaseUnboundScrutineeFails(t *testing.T) {
	mod := module.New()
	e := New(mod)
	prog := parseProgram(t, `data Maybe a = Nothing | Just a`)
	if _, err := e.ElaborateProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := e.ElaborateExpression(parseExpr(t, `case m of { Just x -> x | Nothing -> 0 }`))
	if err == nil {
		t.Fatal("expected an UnknownName error for unbound scrutinee m")
	}
}

func TestElaborateConstructorDeclaredTypeShape(t *testing.T) {
	mod := module.New()
	e := New(mod)
	prog := parseProgram(t, `data Either a b = Left a | Right b`)
	if _, err := e.ElaborateProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := mod.GlobalTypes["Left"]
	want := &core.TForall{
		TypeVar: "a",
		Body: &core.TForall{
			TypeVar: "b",
			Body: &core.TArrow{
				Param:  &core.TVar{Name: "a"},
				Return: &core.TCon{Name: "Either", Args: []core.Type{&core.TVar{Name: "a"}, &core.TVar{Name: "b"}}},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Left's declared type differs (-want +got):\n%s", diff)
	}
}
