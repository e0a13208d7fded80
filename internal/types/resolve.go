package types

// ResolveConstraints attempts to discharge every constraint still attached
// to returnType's free variables against the already-substituted argument
// types, for the cases where dispatch could not happen eagerly during
// Unify (spec.md §4.6 "deferred constraint resolution"). It returns the
// possibly-simplified type and state, or ok=false when nothing could be
// resolved yet (the constraint stays attached for a later call site, e.g.
// a later statement in the same REPL session).
func ResolveConstraints(returnType Type, constraints []Constraint, argTypes []Type, s State, loc Pos) (Type, State, bool, error) {
	resolved := returnType
	anyDischarged := false

	for _, c := range constraints {
		switch cc := c.(type) {
		case *Implements:
			t, news, discharged, err := resolveImplements(resolved, cc, argTypes, s, loc)
			if err != nil {
				return returnType, s, false, err
			}
			if discharged {
				resolved, s, anyDischarged = t, news, true
			}

		case *Has, *HasField:
			h := asHas(c)
			t, news, discharged, err := resolveHas(resolved, h, s, loc)
			if err != nil {
				return returnType, s, false, err
			}
			if discharged {
				resolved, s, anyDischarged = t, news, true
			}
		}
	}

	return resolved, s, anyDischarged, nil
}

// resolveImplements looks for a concrete type bound to cc.TVar (either
// directly in returnType or among argTypes) and, if found, verifies an
// implementation exists — built-in numeric traits (Add, Numeric) are
// seeded directly by builtins.go so ordinary arithmetic never needs a
// user-written `implement` block (spec.md §4.6 "built-in seed").
func resolveImplements(returnType Type, cc *Implements, argTypes []Type, s State, loc Pos) (Type, State, bool, error) {
	candidate := Substitute(returnType, s.Subst)
	name, ok := ConcreteTypeName(candidate)
	if !ok {
		for _, at := range argTypes {
			at = Substitute(at, s.Subst)
			if n, ok := ConcreteTypeName(at); ok {
				if v, isVar := candidate.(*Variable); isVar && v.Name == cc.TVar {
					name = n
					ok = true
					break
				}
			}
		}
	}
	if !ok {
		return returnType, s, false, nil
	}
	if !s.Traits.HasImplementation(cc.TraitName, name) {
		return returnType, s, false, missingImplementation(cc.TraitName, candidate, loc)
	}
	return returnType, s, true, nil
}

// resolveHas peels container types (List/Option/etc.) and recurses into
// nested `has` structures, or — when the constrained variable IS the
// return type itself (a bare accessor composition result) — leaves it
// attached for the caller to unify directly against a concrete record
// (spec.md §4.6 "has discharge").
func resolveHas(returnType Type, h *Has, s State, loc Pos) (Type, State, bool, error) {
	candidate := Substitute(returnType, s.Subst)

	switch t := candidate.(type) {
	case *Record:
		s, err := verifyHasConstraint(h, t, s, loc)
		if err != nil {
			return returnType, s, false, err
		}
		return returnType, s, true, nil

	case *List:
		inner, ok := innermostHas(h.Fields)
		if ok {
			_, news, discharged, err := resolveHas(t.Element, inner, s, loc)
			return returnType, news, discharged, err
		}
		return returnType, s, false, nil

	case *Variant:
		if len(t.Args) == 1 {
			inner, ok := innermostHas(h.Fields)
			if ok {
				_, news, discharged, err := resolveHas(t.Args[0], inner, s, loc)
				return returnType, news, discharged, err
			}
		}
		return returnType, s, false, nil

	default:
		// Not concrete enough yet: the constraint stays attached to the
		// variable for a later statement to discharge.
		return returnType, s, false, nil
	}
}

// innermostHas returns the first nested *Has found in fields' values, used
// when peeling a container layer during resolveHas.
func innermostHas(fields map[string]Type) (*Has, bool) {
	for _, v := range fields {
		if n, ok := v.(*nestedHas); ok {
			return n.Has, true
		}
	}
	return nil, false
}
