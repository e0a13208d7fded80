package types

import "fmt"

// Unify attempts to unify a and b under state, returning an extended state
// (environment unchanged, substitution extended) or a *TypeCheckError
// (spec.md §4.2). loc is a source position used for error reporting; hint,
// if non-empty, becomes the resulting error's Suggestion.
func Unify(a, b Type, s State, loc Pos, hint string) (State, error) {
	a = Substitute(a, s.Subst)
	b = Substitute(b, s.Subst)

	if a.Equals(b) {
		return s, nil
	}

	// Unknown unifies with anything without binding a substitution entry
	// (spec.md §3.1 "unknown").
	if _, ok := a.(*Unknown); ok {
		return s, nil
	}
	if _, ok := b.(*Unknown); ok {
		return s, nil
	}

	// Constrained lowers to base-type unification, merging its constraints
	// onto the resulting variable bindings (spec.md §4.2 step 7).
	if ca, ok := a.(*Constrained); ok {
		return unifyConstrained(ca, b, s, loc, hint)
	}
	if cb, ok := b.(*Constrained); ok {
		return unifyConstrained(cb, a, s, loc, hint)
	}

	if va, ok := a.(*Variable); ok {
		return bindVariable(va, b, s, loc, hint)
	}
	if vb, ok := b.(*Variable); ok {
		return bindVariable(vb, a, s, loc, hint)
	}

	// Unit / empty-tuple / empty-record interoperate (spec.md §4.2 step 4).
	if isEmptyish(a) && isEmptyish(b) {
		return s, nil
	}

	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		if !ok || at.Name != bt.Name {
			return s, primitiveMismatch(at, b, loc, hint)
		}
		return s, nil

	case *Function:
		bt, ok := b.(*Function)
		if !ok {
			return s, shapeMismatch(at, b, loc, hint)
		}
		_, s, err := unifyFunctions(at, bt, s, loc, hint)
		return s, err

	case *List:
		// List vs variant `List a`: normalize either to the other first
		// (spec.md §4.2 step 6).
		if bv, ok := b.(*Variant); ok && bv.Name == "List" && len(bv.Args) == 1 {
			return Unify(at.Element, bv.Args[0], s, loc, hint)
		}
		bt, ok := b.(*List)
		if !ok {
			return s, shapeMismatch(at, b, loc, hint)
		}
		return Unify(at.Element, bt.Element, s, loc, hint)

	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok {
			return s, shapeMismatch(at, b, loc, hint)
		}
		if len(at.Elements) != len(bt.Elements) {
			return s, arityMismatch("tuple", len(at.Elements), len(bt.Elements), loc)
		}
		var err error
		for i := range at.Elements {
			s, err = Unify(at.Elements[i], bt.Elements[i], s, loc, hint)
			if err != nil {
				return s, err
			}
		}
		return s, nil

	case *Record:
		bt, ok := b.(*Record)
		if !ok {
			return s, shapeMismatch(at, b, loc, hint)
		}
		return unifyRecordsWidthPermissive(at, bt, s, loc, hint)

	case *Variant:
		if at.Name == "List" && len(at.Args) == 1 {
			if bt, ok := b.(*List); ok {
				return Unify(at.Args[0], bt.Element, s, loc, hint)
			}
		}
		bt, ok := b.(*Variant)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return s, shapeMismatch(at, b, loc, hint)
		}
		var err error
		for i := range at.Args {
			s, err = Unify(at.Args[i], bt.Args[i], s, loc, hint)
			if err != nil {
				return s, err
			}
		}
		return s, nil

	case *Union:
		bt, ok := b.(*Union)
		if !ok || len(at.Alternatives) != len(bt.Alternatives) {
			return s, shapeMismatch(at, b, loc, hint)
		}
		var err error
		for i := range at.Alternatives {
			s, err = Unify(at.Alternatives[i], bt.Alternatives[i], s, loc, hint)
			if err != nil {
				return s, err
			}
		}
		return s, nil

	default:
		return s, shapeMismatch(a, b, loc, hint)
	}
}

// unifyFunctions unifies two function types structurally and returns the
// merged function: params/return unified in place, effects unioned, and
// constraints merged from both sides (spec.md §4.2 step 2, "Function types
// additionally unify effect sets by union ... and merge constraint lists").
func unifyFunctions(at, bt *Function, s State, loc Pos, hint string) (*Function, State, error) {
	if len(at.Params) != len(bt.Params) {
		return nil, s, arityMismatch("function", len(at.Params), len(bt.Params), loc)
	}
	var err error
	for i := range at.Params {
		s, err = Unify(at.Params[i], bt.Params[i], s, loc, hint)
		if err != nil {
			return nil, s, err
		}
	}
	s, err = Unify(at.Return, bt.Return, s, loc, hint)
	if err != nil {
		return nil, s, err
	}
	merged := &Function{
		Params:      at.Params,
		Return:      at.Return,
		Effects:     at.Effects.Union(bt.Effects),
		Constraints: mergeConstraintLists(at.Constraints, bt.Constraints),
	}
	return merged, s, nil
}

// unifyRecordsWidthPermissive requires every field of a (the "expected"
// side) to exist in b and recursively unify; extra fields on b are allowed
// (spec.md §4.2 step 3, §8 "Width permissiveness").
func unifyRecordsWidthPermissive(a, b *Record, s State, loc Pos, hint string) (State, error) {
	var err error
	for name, at := range a.Fields {
		bt, ok := b.Fields[name]
		if !ok {
			return s, missingField(name, loc, hint)
		}
		s, err = Unify(at, bt, s, loc, hint)
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func isEmptyish(t Type) bool {
	switch tt := t.(type) {
	case *Unit:
		return true
	case *Tuple:
		return len(tt.Elements) == 0
	case *Record:
		return len(tt.Fields) == 0
	}
	return false
}

// bindVariable handles the variable case of unification (spec.md §4.2 step
// 1): occurs check, constraint propagation/verification, substitution
// extension.
func bindVariable(v *Variable, other Type, s State, loc Pos, hint string) (State, error) {
	if otherVar, ok := other.(*Variable); ok && otherVar.Name == v.Name {
		return s, nil
	}
	if occurs(v.Name, other, s.Subst) {
		return s, occursCheckError(v.Name, other, loc)
	}

	if len(v.Constraints) > 0 {
		if otherVar, ok := other.(*Variable); ok {
			// Propagate constraints onto the other variable rather than
			// losing them (spec.md §4.2 step 1).
			merged := append([]Constraint{}, otherVar.Constraints...)
			merged = append(merged, v.Constraints...)
			other = &Variable{Name: otherVar.Name, Constraints: merged}
		} else {
			var err error
			s, err = verifyConstraints(v.Constraints, other, s, loc)
			if err != nil {
				return s, err
			}
		}
	}

	sub := Substitution{v.Name: other}
	return State{
		Env:       s.Env,
		Subst:     ComposeSubstitutions(s.Subst, sub),
		Counter:   s.Counter,
		ADTs:      s.ADTs,
		Traits:    s.Traits,
		Accessors: s.Accessors,
		Protected: s.Protected,
		Recorder:  s.Recorder,
	}, nil
}

// occurs reports whether varName appears free in t (after substitution),
// other than as t itself (spec.md §4.2 step 1, §8 "Occurs check").
func occurs(varName string, t Type, sub Substitution) bool {
	t = Substitute(t, sub)
	if v, ok := t.(*Variable); ok {
		return v.Name == varName
	}
	return freeTypeVars(t)[varName]
}

// verifyConstraints checks that other (known non-variable) satisfies every
// constraint in cs, extending state's substitution for any `has` structural
// bindings it discharges along the way.
func verifyConstraints(cs []Constraint, other Type, s State, loc Pos) (State, error) {
	for _, c := range cs {
		switch cc := c.(type) {
		case *Implements:
			name, ok := ConcreteTypeName(other)
			if !ok {
				continue // not concrete enough yet; deferred to constraint resolution
			}
			if !s.Traits.HasImplementation(cc.TraitName, name) {
				return s, missingImplementation(cc.TraitName, other, loc)
			}
		case *Has, *HasField:
			var err error
			s, err = verifyHasConstraint(asHas(c), other, s, loc)
			if err != nil {
				return s, err
			}
		}
	}
	return s, nil
}

func asHas(c Constraint) *Has {
	switch cc := c.(type) {
	case *Has:
		return cc
	case *HasField:
		return cc.AsHas()
	}
	return nil
}

func verifyHasConstraint(h *Has, other Type, s State, loc Pos) (State, error) {
	rec, ok := Substitute(other, s.Subst).(*Record)
	if !ok {
		return s, shapeMismatch(h, other, loc, "expected a record")
	}
	var err error
	for name, ft := range h.Fields {
		actual, present := rec.Fields[name]
		if !present {
			return s, missingField(name, loc, "")
		}
		if nested, ok := ft.(*nestedHas); ok {
			s, err = verifyHasConstraint(nested.Has, actual, s, loc)
		} else {
			s, err = Unify(ft, actual, s, loc, "")
		}
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func unifyConstrained(c *Constrained, other Type, s State, loc Pos, hint string) (State, error) {
	if ov, ok := other.(*Variable); ok {
		merged := &Variable{Name: ov.Name, Constraints: append(append([]Constraint{}, ov.Constraints...), c.Constraints...)}
		s, err := Unify(c.Base, merged, s, loc, hint)
		return s, err
	}
	s, err := verifyConstraints(c.Constraints, other, s, loc)
	if err != nil {
		return s, err
	}
	return Unify(c.Base, other, s, loc, hint)
}

func primitiveMismatch(a, b Type, loc Pos, hint string) error {
	return &TypeCheckError{Kind: PrimitiveMismatch, Position: loc, Expected: a, Actual: b,
		Message: fmt.Sprintf("cannot unify %s with %s", a, b), Hint: hint}
}

func shapeMismatch(a, b Type, loc Pos, hint string) error {
	return &TypeCheckError{Kind: ShapeMismatch, Position: loc, Expected: a, Actual: b,
		Message: fmt.Sprintf("cannot unify %s with %s", a, b), Hint: hint}
}

func arityMismatch(kind string, expected, actual int, loc Pos) error {
	return &TypeCheckError{Kind: ArityMismatch, Position: loc,
		Message: fmt.Sprintf("%s arity mismatch: expected %d, got %d", kind, expected, actual)}
}

func missingField(name string, loc Pos, hint string) error {
	return &TypeCheckError{Kind: MissingField, Position: loc,
		Message: fmt.Sprintf("missing field %q", name), Hint: hint}
}

func occursCheckError(varName string, t Type, loc Pos) error {
	return &TypeCheckError{Kind: OccursCheck, Position: loc,
		Message: fmt.Sprintf("infinite type: %s occurs in %s", varName, t)}
}

func missingImplementation(trait string, t Type, loc Pos) error {
	return &TypeCheckError{Kind: MissingTraitImplementation, Position: loc,
		Message: fmt.Sprintf("no implementation of %s for %s", trait, t)}
}
