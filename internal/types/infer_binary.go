package types

import (
	"github.com/jethrolarson/noolang/internal/ast"
)

// inferBinaryOp types every BinaryOp form (spec.md §4.4 `binary`). Most
// operators (`+`, `==`, `and`, ...) are plain two-argument applications of
// the names bound by loadOperators; `;`, `|`, `$`, `|?` and the mutate
// operator `!` get dedicated rules because their typing isn't "look up a
// function and apply it".
func inferBinaryOp(b *ast.BinaryOp, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(b.Pos)

	switch b.Op {
	case ";":
		return inferSequence(b, s, loc)
	case "|":
		return inferThrush(b, s, loc, false)
	case "|?":
		return inferSafeThrush(b, s, loc)
	case "$":
		return inferThrush(b, s, loc, true)
	case "!":
		return inferMutate(b, s, loc)
	default:
		return inferOperatorApplication(b, s)
	}
}

// inferSequence types `a; b`: a's effects are unioned in and its type
// discarded; the expression's type and remaining effects come from b
// (spec.md §4.4 `binary` "sequence").
func inferSequence(b *ast.BinaryOp, s State, loc Pos) (Type, EffectSet, State, error) {
	_, leftEff, s, err := Infer(b.Left, s)
	if err != nil {
		return nil, nil, s, err
	}
	rightType, rightEff, s, err := Infer(b.Right, s)
	if err != nil {
		return nil, nil, s, err
	}
	return rightType, leftEff.Union(rightEff), s, nil
}

// inferThrush types `a | f` (value-first application) and `f $ a`
// (function-first, low-precedence application): both reduce to `f a`, just
// with the operand order swapped (spec.md §4.4 `binary` "thrush"/"dollar").
func inferThrush(b *ast.BinaryOp, s State, loc Pos, dollarForm bool) (Type, EffectSet, State, error) {
	funcSide, argSide := b.Right, b.Left
	if dollarForm {
		funcSide, argSide = b.Left, b.Right
	}
	funcType, funcEff, s, err := Infer(funcSide, s)
	if err != nil {
		return nil, nil, s, err
	}
	argType, argEff, s, err := Infer(argSide, s)
	if err != nil {
		return nil, nil, s, err
	}
	retVar, s := s.Fresh()
	s, err = Unify(funcType, &Function{Params: []Type{argType}, Return: retVar}, s, loc, "")
	if err != nil {
		return nil, nil, s, err
	}
	return Substitute(retVar, s.Subst), funcEff.Union(argEff), s, nil
}

// inferSafeThrush types `a |? f`: a must type as `Option t`; f is applied
// to t and its result rewrapped in `Option` (SPEC_FULL.md §3, spec.md §4.4
// `binary` "safe thrush" edge case).
func inferSafeThrush(b *ast.BinaryOp, s State, loc Pos) (Type, EffectSet, State, error) {
	leftType, leftEff, s, err := Infer(b.Left, s)
	if err != nil {
		return nil, nil, s, err
	}
	funcType, funcEff, s, err := Infer(b.Right, s)
	if err != nil {
		return nil, nil, s, err
	}
	inner, s := s.Fresh()
	s, err = Unify(leftType, &Variant{Name: "Option", Args: []Type{inner}}, s, loc, "left side of |? must be an Option")
	if err != nil {
		return nil, nil, s, err
	}
	retVar, s := s.Fresh()
	s, err = Unify(funcType, &Function{Params: []Type{inner}, Return: retVar}, s, loc, "")
	if err != nil {
		return nil, nil, s, err
	}
	result := &Variant{Name: "Option", Args: []Type{Substitute(retVar, s.Subst)}}
	return result, leftEff.Union(funcEff), s, nil
}

// inferMutate types `name ! value`, the supplemented mutation operator
// (SPEC_FULL.md §4): name must already be bound as a mutable binding, and
// value's type must unify with the binding's (non-generalized) type.
func inferMutate(b *ast.BinaryOp, s State, loc Pos) (Type, EffectSet, State, error) {
	v, ok := b.Left.(*ast.Variable)
	if !ok {
		return nil, nil, s, mutationTargetMissing(b.Left.String(), loc)
	}
	binding, ok := s.Env.Lookup(v.Name)
	if !ok || !binding.Mutable {
		return nil, nil, s, mutationTargetMissing(v.Name, loc)
	}
	valueType, eff, s, err := Infer(b.Right, s)
	if err != nil {
		return nil, nil, s, err
	}
	existing, s2 := Instantiate(binding.Scheme, s)
	s = s2
	s, err = Unify(existing, valueType, s, loc, "")
	if err != nil {
		return nil, nil, s, mutationTypeMismatch(existing, Substitute(valueType, s.Subst), loc)
	}
	return TUnit, eff.Union(NewEffectSet("mutate")), s, nil
}

// inferOperatorApplication types the uniform two-argument operators bound
// by loadOperators: look the operator up as an ordinary variable, then type
// it exactly as a two-argument application.
func inferOperatorApplication(b *ast.BinaryOp, s State) (Type, EffectSet, State, error) {
	app := &ast.Application{
		Func: &ast.Variable{Name: b.Op, Pos: b.Pos},
		Args: []ast.Expr{b.Left, b.Right},
		Pos:  b.Pos,
	}
	return inferApplication(app, s)
}
