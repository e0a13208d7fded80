package types

import "github.com/jethrolarson/noolang/internal/ast"

// inferTypeDecl registers a `type Name p1 p2 = Ctor1 T1 | Ctor2 | ...`
// declaration (spec.md §4.4 `typeDecl`): rejects shadowing a protected
// builtin name or a previously-declared type (spec.md §7 "duplicate type
// definition", §8 "No shadowing").
func inferTypeDecl(t *ast.TypeDecl, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(t.Pos)
	if s.Protected[t.Name] {
		return nil, nil, s, typeShadowing(t.Name, loc)
	}
	if s.ADTs.Has(t.Name) {
		return nil, nil, s, duplicateTypeDefinition(t.Name, loc)
	}

	_, ok := s.ADTs.Define(t.Name, t.Params)
	if !ok {
		return nil, nil, s, duplicateTypeDefinition(t.Name, loc)
	}

	for _, ctor := range t.Constructors {
		argTypes := make([]Type, len(ctor.Args))
		for i, a := range ctor.Args {
			at, err := lowerTypeExpr(a, s)
			if err != nil {
				return nil, nil, s, err
			}
			argTypes[i] = at
		}
		s.ADTs.AddConstructor(t.Name, ctor.Name, argTypes)

		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = &Variable{Name: p}
		}
		variant := &Variant{Name: t.Name, Args: params}
		var ctorType Type = variant
		if len(argTypes) > 0 {
			ctorType = &Function{Params: argTypes, Return: variant}
		}
		s.Env = s.Env.Extend(ctor.Name, Generalize(ctorType, s.Env, NewEffectSet()))
	}

	return TUnit, NewEffectSet(), s, nil
}

// inferTraitDecl registers a `constraint TraitName a (fn1: T1; ...)`
// declaration (spec.md §4.4 `traitDecl`). Each declared function becomes a
// dispatchable name in the environment so unapplied references (passed as
// a value, not called) still type-check via its generic signature.
func inferTraitDecl(t *ast.TraitDecl, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(t.Pos)
	functions := make(map[string]*Function, len(t.Functions))
	order := make([]string, len(t.Functions))
	for i, sig := range t.Functions {
		ft, err := lowerTypeExpr(sig.Type, s)
		if err != nil {
			return nil, nil, s, err
		}
		fn, ok := ft.(*Function)
		if !ok {
			fn = &Function{Return: ft}
		}
		functions[sig.Name] = fn
		order[i] = sig.Name
	}

	def := &TraitDef{Name: t.Name, TypeParam: t.TypeParam, Functions: functions, FuncOrder: order}
	s.Traits.AddDefinition(def)

	for _, name := range order {
		sig, _, _ := s.Traits.GetTraitFunctionInfo(name)
		s.Env = s.Env.Extend(name, Generalize(sig, s.Env, NewEffectSet()))
	}
	_ = loc
	return TUnit, NewEffectSet(), s, nil
}

// inferImplDecl registers `implement TraitName TypeName (fn1 = expr1; ...)
// [given (...)]` (spec.md §4.4 `implDecl`): each function body is typed
// against the trait's declared signature specialized to TypeName, and the
// optional given-constraint is stored on the TraitImpl without being
// checked; no dispatch path reads it (SPEC_FULL.md §4 "given-constraints").
func inferImplDecl(i *ast.ImplDecl, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(i.Pos)
	def, ok := s.Traits.definitions[i.Trait]
	if !ok {
		return nil, nil, s, undefinedVariable(i.Trait, loc)
	}

	paramCounts := map[string]int{}
	fnValues := map[string]interface{}{}
	for _, fd := range i.Functions {
		paramCounts[fd.Name] = countCurriedParams(fd.Value)
		fnValues[fd.Name] = fd.Value

		sig, ok := def.Functions[fd.Name]
		if !ok {
			continue
		}
		mapping := map[string]Type{def.TypeParam: &Variant{Name: i.TypeName}}
		specialized, s2 := FreshenTypeVariables(sig, mapping, s)
		s = s2
		fnType, _, s2b, err := Infer(fd.Value, s)
		s = s2b
		if err != nil {
			return nil, nil, s, err
		}
		s, err = Unify(specialized, fnType, s, loc, "")
		if err != nil {
			return nil, nil, s, err
		}
	}

	var given *Implements
	if i.GivenConstraint != nil {
		given = &Implements{TVar: def.TypeParam, TraitName: i.GivenConstraint.Trait}
	}

	impl := &TraitImpl{TraitName: i.Trait, TypeName: i.TypeName, Functions: fnValues, GivenConstraint: given}
	if err := s.Traits.AddImplementation(impl, paramCounts, loc); err != nil {
		return nil, nil, s, err
	}
	return TUnit, NewEffectSet(), s, nil
}

// countCurriedParams counts the leading chain of `fn p => ...` parameters
// in an implementation's function-literal body, used to validate arity
// against the trait's declared signature (spec.md §4.5 "arity check").
func countCurriedParams(e ast.Expr) int {
	fn, ok := e.(*ast.Function)
	if !ok {
		return 0
	}
	return len(fn.Params)
}

// lowerTypeExpr converts a surface TypeExpr (parser output) into an
// internal Type (spec.md §4.4, the "annotation lowering" step shared by
// `typed`, `constrained`, function parameters and ADT constructor args).
func lowerTypeExpr(te ast.TypeExpr, s State) (Type, error) {
	switch t := te.(type) {
	case *ast.TypeName:
		switch t.Name {
		case "Float":
			return TFloat, nil
		case "String":
			return TString, nil
		case "Bool":
			return TBool, nil
		case "Unit":
			return TUnit, nil
		}
		if len(t.Args) == 0 {
			if def, ok := s.ADTs.Lookup(t.Name); ok && len(def.Params) == 0 {
				return &Variant{Name: t.Name}, nil
			}
			// Lowercase bare names that aren't a known ADT are treated as
			// rigid type variables (e.g. the `a` in `a -> a`).
			return &Variable{Name: t.Name}, nil
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			at, err := lowerTypeExpr(a, s)
			if err != nil {
				return nil, err
			}
			args[i] = at
		}
		return &Variant{Name: t.Name, Args: args}, nil

	case *ast.FuncTypeExpr:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			pt, err := lowerTypeExpr(p, s)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		ret, err := lowerTypeExpr(t.Return, s)
		if err != nil {
			return nil, err
		}
		return &Function{Params: params, Return: ret}, nil

	case *ast.RecordTypeExpr:
		fields := make(map[string]Type, len(t.Fields))
		for name, ft := range t.Fields {
			lowered, err := lowerTypeExpr(ft, s)
			if err != nil {
				return nil, err
			}
			fields[name] = lowered
		}
		return &Record{Fields: fields}, nil

	default:
		return TUnknown, nil
	}
}

// lowerConstraintExprs converts the surface `given (...)` constraint list
// into internal Constraint values, attaching each to the type variable it
// targets within annotated (spec.md §4.4 `constrained`).
func lowerConstraintExprs(ces []ast.ConstraintExpr, annotated Type, s State) ([]Constraint, error) {
	var out []Constraint
	for _, ce := range ces {
		cs, err := lowerConstraintExpr(ce, annotated, s)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

func lowerConstraintExpr(ce ast.ConstraintExpr, annotated Type, s State) ([]Constraint, error) {
	switch c := ce.(type) {
	case *ast.ImplementsConstraint:
		tvar := firstTypeVar(annotated)
		return []Constraint{&Implements{TVar: tvar, TraitName: c.Trait}}, nil
	case *ast.HasFieldConstraint:
		tvar := firstTypeVar(annotated)
		fields := make(map[string]Type, len(c.Fields))
		for name, ft := range c.Fields {
			lowered, err := lowerTypeExpr(ft, s)
			if err != nil {
				return nil, err
			}
			fields[name] = lowered
		}
		return []Constraint{&Has{TVar: tvar, Fields: fields}}, nil
	case *ast.AndConstraint:
		left, err := lowerConstraintExpr(c.Left, annotated, s)
		if err != nil {
			return nil, err
		}
		right, err := lowerConstraintExpr(c.Right, annotated, s)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case *ast.OrConstraint:
		// `or` constraints aren't separately representable in the Constraint
		// union (spec.md §3.2 only enumerates atomic forms); lower to the
		// left alternative, which is the common case of an `or` used purely
		// for documentation between equivalent traits.
		return lowerConstraintExpr(c.Left, annotated, s)
	default:
		return nil, nil
	}
}

func firstTypeVar(t Type) string {
	for name := range freeTypeVars(t) {
		return name
	}
	return ""
}
