// Package elaborate translates the surface AST into the explicitly-typed
// core calculus and the module-registry side effects that accompany it
// (spec §4.3, C6): two-tier name resolution, constructor-application
// disambiguation, operator desugaring, and docstring/pragma ingestion.
package elaborate

import (
	"fmt"
	"strings"

	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/core"
	"github.com/sunholo/sysf/internal/errors"
	"github.com/sunholo/sysf/internal/module"
)

// operatorTable is the fixed desugaring map for surface infix operators
// (spec §4.3 C10). The "$prim." namespace it targets is synthetic: the
// desugarer is its only producer, never the parser.
var operatorTable = map[string]string{
	"+": "int_plus",
	"-": "int_minus",
	"*": "int_multiply",
	"/": "int_divide",
}

// PendingTerm is a term declaration that has been elaborated but not yet
// type-checked or evaluated; the session driver owns that next step and
// commits the result into the module's global tables (spec §5).
type PendingTerm struct {
	Name string
	Type core.Type
	Body core.Expr
	Pos  ast.Pos
}

// Elaborator holds the per-input fresh-metavariable counter; the Module
// it reads and extends persists across inputs (spec §4.3 scope model).
type Elaborator struct {
	mod       *module.Module
	metaCount int
}

// New creates an Elaborator over mod. mod's registries are consulted for
// global name resolution and extended in place as declarations are
// processed.
func New(mod *module.Module) *Elaborator {
	return &Elaborator{mod: mod}
}

// ElaborateProgram processes every declaration in prog in order, in a
// single top-down pass. Data, primitive-type and primitive-op
// declarations take effect on the Module immediately (they have no body
// to check or evaluate); term declarations are returned as PendingTerm
// values for the caller to type-check and evaluate before committing
// their value into GlobalValues (spec §5: the module is never partially
// updated on failure, so the caller must snapshot before calling this).
func (e *Elaborator) ElaborateProgram(prog *ast.Program) ([]PendingTerm, error) {
	var pending []PendingTerm
	for _, decl := range prog.Decls {
		terms, err := e.elaborateDecl(decl)
		if err != nil {
			return nil, err
		}
		pending = append(pending, terms...)
	}
	return pending, nil
}

// ElaborateExpression elaborates a single standalone term against the
// current (empty) local scope, for the §6 eval_expression entry point.
func (e *Elaborator) ElaborateExpression(expr ast.Expr) (core.Expr, error) {
	return e.elaborateExpr(nil, expr)
}

func (e *Elaborator) elaborateDecl(decl ast.Decl) ([]PendingTerm, error) {
	switch d := decl.(type) {
	case *ast.DataDecl:
		return nil, e.elaborateDataDecl(d)
	case *ast.PrimTypeDecl:
		e.mod.PrimitiveTypes[d.Name] = d.Name
		e.mod.DeclOrder = append(e.mod.DeclOrder, d.Name)
		return nil, nil
	case *ast.PrimOpDecl:
		return nil, e.elaboratePrimOpDecl(d)
	case *ast.TermDecl:
		return e.elaborateTermDecl(d)
	default:
		return nil, newErrorf(errors.ELB001, decl.Position(), "unknown declaration form %T", decl)
	}
}

// elaborateDataDecl registers each constructor's fully-generalized type
// `forall a1 .. an. F1 -> .. -> Fk -> T a1 .. an` into global_types, and
// the constructor's shape into the constructors table (spec §3.3).
func (e *Elaborator) elaborateDataDecl(d *ast.DataDecl) error {
	if d.Doc != "" {
		e.mod.Docstrings[d.Name] = d.Doc
	}
	for _, ctor := range d.Constructors {
		fields := make([]core.Type, len(ctor.Fields))
		for i, f := range ctor.Fields {
			fields[i] = e.elaborateType(f)
		}
		e.mod.Constructors[ctor.Name] = module.ConstructorInfo{
			DataType:   d.Name,
			DataParams: append([]string(nil), d.Params...),
			Fields:     fields,
		}

		result := core.Type(&core.TCon{Name: d.Name, Args: typeVarArgs(d.Params)})
		ty := result
		for i := len(fields) - 1; i >= 0; i-- {
			ty = &core.TArrow{Param: fields[i], Return: ty}
		}
		for i := len(d.Params) - 1; i >= 0; i-- {
			ty = &core.TForall{TypeVar: d.Params[i], Body: ty}
		}
		e.mod.GlobalTypes[ctor.Name] = ty
		e.mod.DeclOrder = append(e.mod.DeclOrder, ctor.Name)

		for i, fd := range ctor.FieldDocs {
			if fd != "" {
				e.mod.Docstrings[ctor.Name+"/field"+fmt.Sprint(i)] = fd
			}
		}
	}
	e.mod.DeclOrder = append(e.mod.DeclOrder, d.Name)
	return nil
}

func typeVarArgs(params []string) []core.Type {
	if len(params) == 0 {
		return nil
	}
	args := make([]core.Type, len(params))
	for i, p := range params {
		args[i] = &core.TVar{Name: p}
	}
	return args
}

// elaboratePrimOpDecl registers `$prim.name -> T` into global_types, plus
// per-argument docs and LLM metadata when the pragma's leading tag is
// "LLM" (spec §4.3 Primitive/docstring ingestion).
func (e *Elaborator) elaboratePrimOpDecl(d *ast.PrimOpDecl) error {
	ty := e.elaborateType(d.Type)
	e.mod.GlobalTypes["$prim."+d.Name] = ty
	e.mod.DeclOrder = append(e.mod.DeclOrder, d.Name)

	if d.Doc != "" {
		e.mod.Docstrings[d.Name] = d.Doc
	}

	params, docs, _ := ast.FlattenArrow(d.Type)
	argTypes := make([]core.Type, len(params))
	for i, p := range params {
		argTypes[i] = e.elaborateType(p)
		if i < len(docs) && docs[i] != "" {
			e.mod.Docstrings[d.Name+"/arg"+fmt.Sprint(i)] = docs[i]
		}
	}

	if d.Pragma != nil && d.Pragma["_tag"] == "LLM" {
		meta := module.LLMMetadata{
			Name:     d.Name,
			ArgTypes: argTypes,
			ArgDocs:  docs,
			Extra:    map[string]string{},
		}
		for k, v := range d.Pragma {
			switch k {
			case "_tag":
			case "model":
				meta.Model = v
			case "temperature":
				meta.Temperature = v
			case "provider":
				meta.Provider = v
			default:
				meta.Extra[k] = v
			}
		}
		e.mod.LLMFunctions[d.Name] = meta
	}
	return nil
}

func (e *Elaborator) elaborateTermDecl(d *ast.TermDecl) ([]PendingTerm, error) {
	if d.Type == nil {
		return nil, newErrorf(errors.TC008, d.Pos, "top-level declaration %q requires a type annotation", d.Name)
	}
	ty := e.elaborateType(d.Type)
	body, err := e.elaborateExpr(nil, d.Body)
	if err != nil {
		return nil, err
	}
	if d.Doc != "" {
		e.mod.Docstrings[d.Name] = d.Doc
	}
	e.mod.DeclOrder = append(e.mod.DeclOrder, d.Name)
	return []PendingTerm{{Name: d.Name, Type: ty, Body: body, Pos: d.Pos}}, nil
}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

func (e *Elaborator) elaborateType(t ast.Type) core.Type {
	switch ty := t.(type) {
	case *ast.TypeVar:
		return &core.TVar{Name: ty.Name}
	case *ast.TypeCon:
		if _, isPrim := e.mod.PrimitiveTypes[ty.Name]; isPrim && len(ty.Args) == 0 {
			return &core.TPrim{Name: ty.Name}
		}
		args := make([]core.Type, len(ty.Args))
		for i, a := range ty.Args {
			args[i] = e.elaborateType(a)
		}
		return &core.TCon{Name: ty.Name, Args: args}
	case *ast.TypeArrow:
		var doc string
		if len(ty.ParamDocs) > 0 {
			doc = ty.ParamDocs[0]
		}
		return &core.TArrow{Param: e.elaborateType(ty.Param), Return: e.elaborateType(ty.Return), ParamDocs: doc}
	case *ast.TypeForall:
		return &core.TForall{TypeVar: ty.TypeVar, Body: e.elaborateType(ty.Body)}
	default:
		return &core.TCon{Name: "?"}
	}
}

// ---------------------------------------------------------------------
// Terms
// ---------------------------------------------------------------------

// locals is the de Bruijn scope stack: locals[0] is the innermost (most
// recently bound) name. It is extended by Lambda, Let and Case pattern
// variables (spec §4.3 scope model).
type locals []string

func (l locals) extend(name string) locals {
	out := make(locals, 0, len(l)+1)
	out = append(out, name)
	out = append(out, l...)
	return out
}

func (l locals) index(name string) (int, bool) {
	for i, n := range l {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func (e *Elaborator) elaborateExpr(ls locals, expr ast.Expr) (core.Expr, error) {
	switch ex := expr.(type) {
	case *ast.Var:
		return e.resolve(ls, ex.Name, ex.Pos)
	case *ast.IntLit:
		return core.NewIntLit(ex.Pos, ex.Value), nil
	case *ast.StringLit:
		return core.NewStringLit(ex.Pos, ex.Value), nil
	case *ast.Lambda:
		var paramType core.Type
		if ex.ParamType != nil {
			paramType = e.elaborateType(ex.ParamType)
		} else {
			paramType = e.freshMeta()
		}
		body, err := e.elaborateExpr(ls.extend(ex.Param), ex.Body)
		if err != nil {
			return nil, err
		}
		return core.NewLambda(ex.Pos, paramType, body), nil
	case *ast.App:
		return e.elaborateApp(ls, ex)
	case *ast.Let:
		value, err := e.elaborateExpr(ls, ex.Value)
		if err != nil {
			return nil, err
		}
		if ex.Type != nil {
			value = wrapAnnot(ex.Pos, value, e.elaborateType(ex.Type))
		}
		body, err := e.elaborateExpr(ls.extend(ex.Name), ex.Body)
		if err != nil {
			return nil, err
		}
		// `let x = v in b` elaborates as `(\x. b) v` — one application,
		// reusing Lambda/App rather than a dedicated core Let node.
		return core.NewApp(ex.Pos, core.NewLambda(ex.Pos, e.freshMeta(), body), value), nil
	case *ast.TypeAbs:
		body, err := e.elaborateExpr(ls, ex.Body)
		if err != nil {
			return nil, err
		}
		return core.NewTypeAbs(ex.Pos, ex.TypeVar, body), nil
	case *ast.TypeApp:
		fn, err := e.elaborateExpr(ls, ex.Func)
		if err != nil {
			return nil, err
		}
		// Type-application of a constructor is discarded at the core
		// level; the checker reconstructs the type argument directly
		// from the constructor's declared generic type (spec §4.3).
		if ctor, ok := fn.(*core.Constructor); ok {
			return ctor, nil
		}
		return core.NewTypeApp(ex.Pos, fn, e.elaborateType(ex.Arg)), nil
	case *ast.Annot:
		inner, err := e.elaborateExpr(ls, ex.Expr)
		if err != nil {
			return nil, err
		}
		return wrapAnnot(ex.Pos, inner, e.elaborateType(ex.Type)), nil
	case *ast.Case:
		return e.elaborateCase(ls, ex)
	case *ast.OpApp:
		return e.elaborateOpApp(ls, ex)
	default:
		return nil, newErrorf(errors.ELB001, expr.Position(), "unsupported surface expression %T", expr)
	}
}

// wrapAnnot encodes an explicit type annotation `(e : T)` as the
// application `(\_:T. #0) e` of an identity lambda, forcing e to be checked against T via
// the ordinary App/Lambda checking rules rather than adding a dedicated
// core node (spec §4.4's check rule already covers this for free).
func wrapAnnot(pos ast.Pos, e core.Expr, t core.Type) core.Expr {
	identity := core.NewLambda(pos, t, core.NewVar(pos, 0))
	return core.NewApp(pos, identity, e)
}

// elaborateApp applies the application-disambiguation rule (spec §4.3):
// if the elaborated function is already a Constructor, the argument is
// folded into its argument list instead of producing an App node.
func (e *Elaborator) elaborateApp(ls locals, ex *ast.App) (core.Expr, error) {
	fn, err := e.elaborateExpr(ls, ex.Func)
	if err != nil {
		return nil, err
	}
	arg, err := e.elaborateExpr(ls, ex.Arg)
	if err != nil {
		return nil, err
	}
	if ctor, ok := fn.(*core.Constructor); ok {
		args := append(append([]core.Expr(nil), ctor.Args...), arg)
		return core.NewConstructor(ex.Pos, ctor.Name, args), nil
	}
	return core.NewApp(ex.Pos, fn, arg), nil
}

func (e *Elaborator) elaborateCase(ls locals, ex *ast.Case) (core.Expr, error) {
	scrutinee, err := e.elaborateExpr(ls, ex.Scrutinee)
	if err != nil {
		return nil, err
	}
	branches := make([]core.Branch, len(ex.Branches))
	for i, b := range ex.Branches {
		branchLocals := ls
		for _, v := range b.Pattern.Vars {
			branchLocals = branchLocals.extend(v)
		}
		body, err := e.elaborateExpr(branchLocals, b.Body)
		if err != nil {
			return nil, err
		}
		branches[i] = core.Branch{
			Pattern: core.Pattern{Constructor: b.Pattern.Constructor, Vars: append([]string(nil), b.Pattern.Vars...)},
			Body:    body,
		}
	}
	return core.NewCase(ex.Pos, scrutinee, branches), nil
}

func (e *Elaborator) elaborateOpApp(ls locals, ex *ast.OpApp) (core.Expr, error) {
	prim, ok := operatorTable[ex.Op]
	if !ok {
		return nil, newErrorf(errors.ELB001, ex.Pos, "unknown operator %q", ex.Op)
	}
	left, err := e.elaborateExpr(ls, ex.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.elaborateExpr(ls, ex.Right)
	if err != nil {
		return nil, err
	}
	fn := core.NewPrimOp(ex.Pos, prim)
	return core.NewApp(ex.Pos, core.NewApp(ex.Pos, fn, left), right), nil
}

// resolve implements the two-tier name resolution algorithm (spec §4.3):
// local de Bruijn stack, then zero-arg constructor, then `$prim.`
// namespace, then global, else UnknownName.
func (e *Elaborator) resolve(ls locals, name string, pos ast.Pos) (core.Expr, error) {
	if idx, ok := ls.index(name); ok {
		return core.NewVar(pos, idx), nil
	}
	if _, ok := e.mod.Constructors[name]; ok {
		return core.NewConstructor(pos, name, nil), nil
	}
	if strings.HasPrefix(name, "$prim.") {
		return core.NewPrimOp(pos, strings.TrimPrefix(name, "$prim.")), nil
	}
	if _, ok := e.mod.GlobalTypes[name]; ok {
		return core.NewGlobal(pos, name), nil
	}
	return nil, newErrorf(errors.ELB001, pos, "unknown name %q", name)
}

// freshMeta returns a new unbound unification placeholder, used for an
// unannotated lambda or let binder's type slot. The checker solves it by
// unification: against the expected arrow when the lambda is checked, or
// against the argument's type when the lambda is applied. A lambda that is
// only inferred on its own keeps the placeholder unsolved in its type.
func (e *Elaborator) freshMeta() *core.TMeta {
	e.metaCount++
	return &core.TMeta{ID: e.metaCount, Name: fmt.Sprintf("e%d", e.metaCount)}
}
