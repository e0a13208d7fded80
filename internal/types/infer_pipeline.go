package types

import "github.com/jethrolarson/noolang/internal/ast"

// inferPipeline types a `|>`/`<|` chain as left-to-right (or right-to-left,
// for `<|`) repeated application: each stage after the first must be a
// function whose parameter unifies with the running value's type (spec.md
// §4.4 `pipeline`).
func inferPipeline(p *ast.Pipeline, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(p.Pos)
	stages := p.Stages
	if p.Reverse {
		stages = reverseStages(stages)
	}
	if len(stages) == 0 {
		return TUnit, NewEffectSet(), s, nil
	}

	value, eff, s, err := Infer(stages[0], s)
	if err != nil {
		return nil, nil, s, err
	}

	for _, stage := range stages[1:] {
		stageType, stageEff, s2, err := Infer(stage, s)
		if err != nil {
			return nil, nil, s, err
		}
		s = s2
		eff = eff.Union(stageEff)

		retVar, s2b := s.Fresh()
		s = s2b
		s, err = Unify(stageType, &Function{Params: []Type{value}, Return: retVar}, s, loc, "")
		if err != nil {
			return nil, nil, s, err
		}
		value = Substitute(retVar, s.Subst)
	}

	return value, eff, s, nil
}

func reverseStages(stages []ast.Expr) []ast.Expr {
	out := make([]ast.Expr, len(stages))
	for i, s := range stages {
		out[len(stages)-1-i] = s
	}
	return out
}
