package types

import (
	"fmt"

	"github.com/jethrolarson/noolang/internal/ast"
)

func fromASTPos(p ast.Pos) Pos {
	return Pos{Line: p.Line, Column: p.Column, File: p.File}
}

// Infer is the single top-level dispatcher every expression kind passes
// through (spec.md §4.4): it switches on the concrete ast.Expr type, calls
// the matching inferKind helper, then — when s.Recorder is non-nil —
// records the resulting type and effect set against the node's position
// for typedast to answer later (spec.md §6 "decorated output").
func Infer(expr ast.Expr, s State) (Type, EffectSet, State, error) {
	var t Type
	var eff EffectSet
	var err error

	switch e := expr.(type) {
	case *ast.Literal:
		t, eff, s, err = inferLiteral(e, s)
	case *ast.Variable:
		t, eff, s, err = inferVariable(e, s)
	case *ast.Function:
		t, eff, s, err = inferFunction(e, s)
	case *ast.Application:
		t, eff, s, err = inferApplication(e, s)
	case *ast.Definition:
		t, eff, s, err = inferDefinition(e, s)
	case *ast.If:
		t, eff, s, err = inferIf(e, s)
	case *ast.BinaryOp:
		t, eff, s, err = inferBinaryOp(e, s)
	case *ast.Pipeline:
		t, eff, s, err = inferPipeline(e, s)
	case *ast.ListLit:
		t, eff, s, err = inferListLit(e, s)
	case *ast.TupleLit:
		t, eff, s, err = inferTupleLit(e, s)
	case *ast.RecordLit:
		t, eff, s, err = inferRecordLit(e, s)
	case *ast.Accessor:
		t, eff, s, err = inferAccessor(e, s)
	case *ast.Where:
		t, eff, s, err = inferWhere(e, s)
	case *ast.Typed:
		t, eff, s, err = inferTyped(e, s)
	case *ast.Constrained:
		t, eff, s, err = inferConstrainedExpr(e, s)
	case *ast.Match:
		t, eff, s, err = inferMatch(e, s)
	case *ast.TypeDecl:
		t, eff, s, err = inferTypeDecl(e, s)
	case *ast.TraitDecl:
		t, eff, s, err = inferTraitDecl(e, s)
	case *ast.ImplDecl:
		t, eff, s, err = inferImplDecl(e, s)
	case *ast.Import:
		t, eff, s, err = inferImport(e, s)
	default:
		return nil, nil, s, fmt.Errorf("types: unhandled expression node %T", expr)
	}

	if err != nil {
		return nil, nil, s, err
	}
	if s.Recorder != nil {
		s.Recorder.Record(expr, t, eff)
	}
	return t, eff, s, nil
}

func inferLiteral(l *ast.Literal, s State) (Type, EffectSet, State, error) {
	switch l.Kind {
	case ast.FloatLit:
		return TFloat, NewEffectSet(), s, nil
	case ast.StringLit:
		return TString, NewEffectSet(), s, nil
	default:
		return TUnknown, NewEffectSet(), s, nil
	}
}

func inferVariable(v *ast.Variable, s State) (Type, EffectSet, State, error) {
	scheme, ok := s.Env.LookupScheme(v.Name)
	if !ok {
		return nil, nil, s, undefinedVariable(v.Name, fromASTPos(v.Pos))
	}
	t, s2 := Instantiate(scheme, s)
	return t, scheme.Effects, s2, nil
}

// inferFunction types a closure literal (spec.md §4.4 `function`): each
// parameter gets a fresh variable (or the annotated type, lowered via
// lowerTypeExpr), the body is typed in the extended environment, and the
// result's free variables are NOT generalized here — generalization only
// ever happens at a `definition` binding site (spec.md §4.3).
func inferFunction(f *ast.Function, s State) (Type, EffectSet, State, error) {
	origEnv := s.Env
	params := make([]Type, len(f.Params))
	env := s.Env
	for i, p := range f.Params {
		if p.Type != nil {
			t, err := lowerTypeExpr(p.Type, s)
			if err != nil {
				return nil, nil, s, err
			}
			params[i] = t
		} else {
			var v *Variable
			v, s = s.Fresh()
			params[i] = v
		}
		env = env.Extend(p.Name, &Scheme{Type: params[i]})
	}
	bodyState := s
	bodyState.Env = env
	bodyType, eff, bodyState, err := Infer(f.Body, bodyState)
	if err != nil {
		return nil, nil, s, err
	}
	s = bodyState
	// Discard every frame the body pushed (its parameters and any inner
	// `where` definitions alike): the caller must never see bindings local
	// to this closure's body (spec.md §5, persistent-environment model).
	s.Env = origEnv
	return &Function{Params: params, Return: bodyType, Effects: eff}, NewEffectSet(), s, nil
}

// inferApplication types `f a1 a2 ...`, unifying each argument against a
// fresh parameter/return shape and then attempting constraint resolution
// on the result (spec.md §4.4 `application`, §4.6 deferred resolution for
// partial application and trait-dispatched functions).
func inferApplication(app *ast.Application, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(app.Pos)

	if v, ok := app.Func.(*ast.Variable); ok && s.Traits.IsTraitFunction(v.Name) {
		return inferTraitDispatch(v, app.Args, s, loc)
	}

	funcType, funcEff, s, err := Infer(app.Func, s)
	if err != nil {
		return nil, nil, s, err
	}
	eff := funcEff

	argTypes := make([]Type, len(app.Args))
	for i, a := range app.Args {
		var argEff EffectSet
		argTypes[i], argEff, s, err = Infer(a, s)
		if err != nil {
			return nil, nil, s, err
		}
		eff = eff.Union(argEff)
	}

	// Under-saturated call: unify only the supplied prefix of params and
	// return a residual function over what's left, deferring constraint
	// resolution to the eventual saturating call (spec.md §4.4 "application"
	// partial application, §4.6 deferred resolution).
	if fn, ok := Substitute(funcType, s.Subst).(*Function); ok && len(app.Args) < len(fn.Params) {
		for i, pt := range fn.Params[:len(app.Args)] {
			s, err = Unify(pt, argTypes[i], s, loc, "")
			if err != nil {
				return nil, nil, s, err
			}
		}
		residual := &Function{
			Params:      fn.Params[len(app.Args):],
			Return:      fn.Return,
			Effects:     fn.Effects,
			Constraints: fn.Constraints,
		}
		return Substitute(residual, s.Subst), eff, s, nil
	}

	retVar, s := s.Fresh()
	shape := &Function{Params: argTypes, Return: retVar}
	s, err = Unify(funcType, shape, s, loc, "")
	if err != nil {
		return nil, nil, s, err
	}

	resultType := Substitute(retVar, s.Subst)
	if fn, ok := Substitute(funcType, s.Subst).(*Function); ok && len(fn.Constraints) > 0 {
		resolved, s2, _, err := ResolveConstraints(resultType, fn.Constraints, argTypes, s, loc)
		if err != nil {
			return nil, nil, s, err
		}
		resultType, s = resolved, s2
	}

	return resultType, eff, s, nil
}

// inferTraitDispatch handles an application whose head is a bare trait
// function name (e.g. `show x`, as opposed to an already-typed value):
// argument types are inferred first so ResolveTraitFunction can dispatch
// on a concrete argument's type name (spec.md §4.5 "resolveTraitFunction").
func inferTraitDispatch(v *ast.Variable, args []ast.Expr, s State, loc Pos) (Type, EffectSet, State, error) {
	sig, traitName, ok := s.Traits.GetTraitFunctionInfo(v.Name)
	if !ok {
		return nil, nil, s, undefinedVariable(v.Name, loc)
	}
	_ = traitName

	argTypes := make([]Type, len(args))
	eff := NewEffectSet()
	var err error
	for i, a := range args {
		var argEff EffectSet
		argTypes[i], argEff, s, err = Infer(a, s)
		if err != nil {
			return nil, nil, s, err
		}
		eff = eff.Union(argEff)
	}

	mapping := map[string]Type{}
	freshened, s := FreshenTypeVariables(sig, mapping, s)
	fn := freshened.(*Function)

	retVar, s := s.Fresh()
	shape := &Function{Params: argTypes, Return: retVar}
	s, err = Unify(fn, shape, s, loc, "")
	if err != nil {
		return nil, nil, s, err
	}

	result := s.Traits.ResolveTraitFunction(v.Name, argTypes)
	switch result.Status {
	case NoImplementation:
		concreteEnough := true
		for _, at := range argTypes {
			if !IsConcrete(Substitute(at, s.Subst)) {
				concreteEnough = false
			}
		}
		if concreteEnough {
			name, _ := ConcreteTypeName(Substitute(argTypes[0], s.Subst))
			return nil, nil, s, missingImplementation(v.Name, &Variant{Name: name}, loc)
		}
	case Ambiguous:
		return nil, nil, s, ambiguousTraitDispatch(v.Name, result.Candidates, loc)
	}

	return Substitute(retVar, s.Subst), eff, s, nil
}

// inferDefinition types `name = value` (spec.md §4.4 `definition`): value
// is typed in an environment where name is NOT yet bound (so non-recursive
// definitions can't see a stale placeholder), then generalized and bound
// for subsequent statements. Protected-name shadowing is rejected (spec.md
// §8 "No shadowing").
func inferDefinition(d *ast.Definition, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(d.Pos)
	if s.Protected[d.Name] {
		return nil, nil, s, typeShadowing(d.Name, loc)
	}
	if s.Traits.IsTraitFunction(d.Name) {
		return nil, nil, s, traitFunctionShadowing(d.Name, loc)
	}

	valueState := s
	valueState.Env = s.Env.Without(d.Name)
	valueType, eff, valueState, err := Infer(d.Value, valueState)
	if err != nil {
		return nil, nil, s, err
	}
	s = valueState

	scheme := Generalize(Substitute(valueType, s.Subst), s.Env, eff)
	if d.Mutable {
		s.Env = s.Env.ExtendMutable(d.Name, scheme)
	} else {
		s.Env = s.Env.Extend(d.Name, scheme)
	}
	return TUnit, eff, s, nil
}

func inferIf(i *ast.If, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(i.Pos)
	condType, condEff, s, err := Infer(i.Condition, s)
	if err != nil {
		return nil, nil, s, err
	}
	s, err = Unify(condType, TBool, s, loc, "if condition must be Bool")
	if err != nil {
		return nil, nil, s, err
	}
	thenType, thenEff, s, err := Infer(i.Then, s)
	if err != nil {
		return nil, nil, s, err
	}
	elseType, elseEff, s, err := Infer(i.Else, s)
	if err != nil {
		return nil, nil, s, err
	}

	eff := condEff.Union(thenEff).Union(elseEff)
	thenType = Substitute(thenType, s.Subst)
	elseType = Substitute(elseType, s.Subst)
	if thenFn, ok := thenType.(*Function); ok {
		if elseFn, ok := elseType.(*Function); ok {
			merged, s2, err := unifyFunctions(thenFn, elseFn, s, loc, "if branches must have the same type")
			if err != nil {
				return nil, nil, s, err
			}
			return Substitute(merged, s2.Subst), eff, s2, nil
		}
	}

	s, err = Unify(thenType, elseType, s, loc, "if branches must have the same type")
	if err != nil {
		return nil, nil, s, err
	}
	return Substitute(thenType, s.Subst), eff, s, nil
}

// inferWhere types `body where (def1; def2; ...)`: the definitions extend
// the environment for body only (spec.md §4.4 `where`) — the caller's
// environment is restored once the whole expression has been typed, same
// as a function body's parameters.
func inferWhere(w *ast.Where, s State) (Type, EffectSet, State, error) {
	origEnv := s.Env
	eff := NewEffectSet()
	for _, d := range w.Defs {
		var defEff EffectSet
		var err error
		_, defEff, s, err = inferDefinition(d, s)
		if err != nil {
			return nil, nil, s, err
		}
		eff = eff.Union(defEff)
	}
	bodyType, bodyEff, s, err := Infer(w.Body, s)
	if err != nil {
		return nil, nil, s, err
	}
	s.Env = origEnv
	return bodyType, eff.Union(bodyEff), s, nil
}

func inferTyped(t *ast.Typed, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(t.Pos)
	exprType, eff, s, err := Infer(t.Expr, s)
	if err != nil {
		return nil, nil, s, err
	}
	annotated, err := lowerTypeExpr(t.Annotation, s)
	if err != nil {
		return nil, nil, s, err
	}
	s, err = Unify(exprType, annotated, s, loc, "")
	if err != nil {
		return nil, nil, s, annotationMismatch(annotated, Substitute(exprType, s.Subst), loc)
	}
	return Substitute(annotated, s.Subst), eff, s, nil
}

func inferConstrainedExpr(c *ast.Constrained, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(c.Pos)
	exprType, eff, s, err := Infer(c.Expr, s)
	if err != nil {
		return nil, nil, s, err
	}
	annotated, err := lowerTypeExpr(c.Annotation, s)
	if err != nil {
		return nil, nil, s, err
	}
	cs, err := lowerConstraintExprs(c.Constraints, annotated, s)
	if err != nil {
		return nil, nil, s, err
	}
	constrained := &Constrained{Base: annotated, Constraints: cs}
	s, err = Unify(exprType, constrained, s, loc, "")
	if err != nil {
		return nil, nil, s, err
	}
	return Substitute(annotated, s.Subst), eff, s, nil
}

func inferImport(i *ast.Import, s State) (Type, EffectSet, State, error) {
	// The referenced file is not read, parsed or typed: an import always
	// types as a fresh unconstrained variable and never fails the program.
	v, s := s.Fresh()
	return v, NewEffectSet(), s, nil
}
