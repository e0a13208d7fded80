package types

import "github.com/jethrolarson/noolang/internal/ast"

// inferMatch types `match scrutinee with (pat1 => body1; ...)` (spec.md
// §4.4 `match`): the scrutinee's type seeds each pattern's typing, and every
// case body must unify to one common result type.
func inferMatch(m *ast.Match, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(m.Pos)
	scrutType, eff, s, err := Infer(m.Scrutinee, s)
	if err != nil {
		return nil, nil, s, err
	}

	resultVar, s := s.Fresh()
	for _, c := range m.Cases {
		origEnv := s.Env
		var caseEff EffectSet
		s, err = inferPattern(c.Pattern, scrutType, s, loc)
		if err != nil {
			return nil, nil, s, err
		}
		var bodyType Type
		bodyType, caseEff, s, err = Infer(c.Body, s)
		if err != nil {
			return nil, nil, s, err
		}
		eff = eff.Union(caseEff)
		s, err = Unify(resultVar, bodyType, s, loc, "match cases must share a type")
		if err != nil {
			return nil, nil, s, err
		}
		s.Env = origEnv
	}

	return Substitute(resultVar, s.Subst), eff, s, nil
}

// inferPattern unifies a pattern's implied shape against scrutType and
// extends s.Env with every variable the pattern binds (spec.md §4.4
// `match` pattern kinds).
func inferPattern(p ast.Pattern, scrutType Type, s State, loc Pos) (State, error) {
	switch pt := p.(type) {
	case *ast.Wildcard:
		return s, nil

	case *ast.Variable:
		s.Env = s.Env.Extend(pt.Name, &Scheme{Type: scrutType})
		return s, nil

	case *ast.Literal:
		var litType Type
		switch pt.Kind {
		case ast.FloatLit:
			litType = TFloat
		case ast.StringLit:
			litType = TString
		default:
			litType = TUnknown
		}
		return Unify(scrutType, litType, s, loc, "")

	case *ast.ConstructorPattern:
		adtName, _, argTypes, ok := s.ADTs.ConstructorADT(pt.Name)
		if !ok {
			return s, undefinedConstructor(pt.Name, loc)
		}
		if len(pt.Args) != len(argTypes) {
			return s, arityMismatchKind("constructor", pt.Name, len(argTypes), len(pt.Args), loc)
		}
		def, _ := s.ADTs.Lookup(adtName)
		mapping := map[string]Type{}
		instArgs := make([]Type, len(argTypes))
		for i, at := range argTypes {
			var inst Type
			inst, s = FreshenTypeVariables(at, mapping, s)
			instArgs[i] = inst
		}
		instArgTypes := make([]Type, len(def.Params))
		for i, param := range def.Params {
			if v, ok := mapping[param]; ok {
				instArgTypes[i] = v
			} else {
				var v *Variable
				v, s = s.Fresh()
				instArgTypes[i] = v
			}
		}
		var err error
		s, err = Unify(scrutType, &Variant{Name: adtName, Args: instArgTypes}, s, loc, "")
		if err != nil {
			return s, err
		}
		for i, argPat := range pt.Args {
			s, err = inferPattern(argPat, instArgs[i], s, loc)
			if err != nil {
				return s, err
			}
		}
		return s, nil

	case *ast.TuplePattern:
		elemVars := make([]Type, len(pt.Elements))
		for i := range pt.Elements {
			var v *Variable
			v, s = s.Fresh()
			elemVars[i] = v
		}
		s, err := Unify(scrutType, &Tuple{Elements: elemVars}, s, loc, "")
		if err != nil {
			return s, err
		}
		for i, elemPat := range pt.Elements {
			s, err = inferPattern(elemPat, elemVars[i], s, loc)
			if err != nil {
				return s, err
			}
		}
		return s, nil

	case *ast.RecordPattern:
		fields := make(map[string]Type, len(pt.Fields))
		fieldVars := make(map[string]Type, len(pt.Fields))
		for _, f := range pt.Fields {
			v, s2 := s.Fresh()
			s = s2
			fields[f.Name] = v
			fieldVars[f.Name] = v
		}
		// Pattern record is the narrower/"expected" side: scrutType may carry
		// fields the pattern never names, and those must stay unconstrained
		// (width-permissive, spec.md §4.4 patterns "record").
		s, err := Unify(&Record{Fields: fields}, scrutType, s, loc, "")
		if err != nil {
			return s, err
		}
		for _, f := range pt.Fields {
			s, err = inferPattern(f.Pattern, fieldVars[f.Name], s, loc)
			if err != nil {
				return s, err
			}
		}
		return s, nil

	default:
		return s, nil
	}
}
