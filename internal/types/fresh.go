package types

import "fmt"

// freshName formats a fresh type-variable name from a monotonic counter,
// matching the teacher's convention of a short Greek-ish prefix plus an
// incrementing integer (e.g. "t17").
func freshName(counter int) string {
	return fmt.Sprintf("t%d", counter)
}

// Fresh allocates a new unconstrained type variable and returns it together
// with the incremented state (spec.md §4.3 "fresh").
func (s State) Fresh() (*Variable, State) {
	v := &Variable{Name: freshName(s.Counter)}
	s.Counter++
	return v, s
}

// FreshN allocates n fresh type variables.
func (s State) FreshN(n int) ([]Type, State) {
	out := make([]Type, n)
	for i := 0; i < n; i++ {
		var v *Variable
		v, s = s.Fresh()
		out[i] = v
	}
	return out, s
}

// freeTypeVars collects the set of free type-variable names occurring
// anywhere in t, including inside constraint field-types and function
// constraint lists.
func freeTypeVars(t Type) map[string]bool {
	out := map[string]bool{}
	collectFreeTypeVars(t, out)
	return out
}

func collectFreeTypeVars(t Type, out map[string]bool) {
	switch tt := t.(type) {
	case *Variable:
		out[tt.Name] = true
		for _, c := range tt.Constraints {
			collectConstraintFreeVars(c, out)
		}
	case *Function:
		for _, p := range tt.Params {
			collectFreeTypeVars(p, out)
		}
		collectFreeTypeVars(tt.Return, out)
		for _, c := range tt.Constraints {
			collectConstraintFreeVars(c, out)
		}
	case *List:
		collectFreeTypeVars(tt.Element, out)
	case *Tuple:
		for _, e := range tt.Elements {
			collectFreeTypeVars(e, out)
		}
	case *Record:
		for _, ft := range tt.Fields {
			collectFreeTypeVars(ft, out)
		}
	case *Variant:
		for _, a := range tt.Args {
			collectFreeTypeVars(a, out)
		}
	case *Union:
		for _, a := range tt.Alternatives {
			collectFreeTypeVars(a, out)
		}
	case *Constrained:
		collectFreeTypeVars(tt.Base, out)
		for _, c := range tt.Constraints {
			collectConstraintFreeVars(c, out)
		}
	case *nestedHas:
		for _, ft := range tt.Fields {
			collectFreeTypeVars(ft, out)
		}
	}
}

func collectConstraintFreeVars(c Constraint, out map[string]bool) {
	out[c.Var()] = true
	switch cc := c.(type) {
	case *Has:
		for _, ft := range cc.Fields {
			collectFreeTypeVars(ft, out)
		}
	case *HasField:
		collectFreeTypeVars(cc.Type, out)
	case *Custom:
		for _, a := range cc.Args {
			collectFreeTypeVars(a, out)
		}
	}
}

// Generalize computes a Scheme for t by quantifying every free variable of
// σ(t) that is not also free in σ(env) (spec.md §4.3 "generalize"). The
// caller is responsible for having already applied the substitution to t;
// generalize only needs the environment's current substituted free set.
func Generalize(t Type, env *Environment, effects EffectSet) *Scheme {
	envFree := env.FreeVars()
	typeFree := freeTypeVars(t)
	var quantified []string
	for v := range typeFree {
		if !envFree[v] {
			quantified = append(quantified, v)
		}
	}
	return &Scheme{Quantified: quantified, Effects: effects, Type: t}
}

// Instantiate freshens exactly the quantified names of scheme, replacing
// every occurrence (including inside constraints, recursively) with a newly
// allocated variable. Non-quantified ("rigid") variables are left untouched
// (spec.md §4.3 "instantiate").
func Instantiate(scheme *Scheme, s State) (Type, State) {
	mapping := map[string]Type{}
	for _, q := range scheme.Quantified {
		var v *Variable
		v, s = s.Fresh()
		mapping[q] = v
	}
	return applyRenaming(scheme.Type, mapping), s
}

// FreshenTypeVariables selectively renames the free variables of t that
// appear as keys of mapping, extending mapping with newly allocated
// variables for any it doesn't already cover. Used when inlining a trait
// implementation's body so its internal type variables never alias the
// call site's variables (spec.md §4.3 "freshenTypeVariables").
func FreshenTypeVariables(t Type, mapping map[string]Type, s State) (Type, State) {
	for v := range freeTypeVars(t) {
		if _, ok := mapping[v]; !ok {
			var fresh *Variable
			fresh, s = s.Fresh()
			mapping[v] = fresh
		}
	}
	return applyRenaming(t, mapping), s
}

// applyRenaming substitutes names found in mapping; unlike Substitute it is
// total (renames every occurrence, including inside constraint field-types)
// and does not need a visited-set cycle guard because mapping only ever
// introduces brand-new, never-yet-referenced variable names.
func applyRenaming(t Type, mapping map[string]Type) Type {
	switch tt := t.(type) {
	case *Variable:
		if r, ok := mapping[tt.Name]; ok {
			if len(tt.Constraints) == 0 {
				return r
			}
			if rv, ok := r.(*Variable); ok {
				renamed := &Variable{Name: rv.Name}
				for _, c := range tt.Constraints {
					renamed.Constraints = append(renamed.Constraints, renameConstraint(c, mapping))
				}
				return renamed
			}
			return r
		}
		return tt
	case *Function:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = applyRenaming(p, mapping)
		}
		cs := make([]Constraint, len(tt.Constraints))
		for i, c := range tt.Constraints {
			cs[i] = renameConstraint(c, mapping)
		}
		return &Function{Params: params, Return: applyRenaming(tt.Return, mapping), Effects: tt.Effects, Constraints: cs}
	case *List:
		return &List{Element: applyRenaming(tt.Element, mapping)}
	case *Tuple:
		elems := make([]Type, len(tt.Elements))
		for i, e := range tt.Elements {
			elems[i] = applyRenaming(e, mapping)
		}
		return &Tuple{Elements: elems}
	case *Record:
		fields := make(map[string]Type, len(tt.Fields))
		for n, ft := range tt.Fields {
			fields[n] = applyRenaming(ft, mapping)
		}
		return &Record{Fields: fields}
	case *Variant:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = applyRenaming(a, mapping)
		}
		return &Variant{Name: tt.Name, Args: args}
	case *Union:
		alts := make([]Type, len(tt.Alternatives))
		for i, a := range tt.Alternatives {
			alts[i] = applyRenaming(a, mapping)
		}
		return &Union{Alternatives: alts}
	case *Constrained:
		cs := make([]Constraint, len(tt.Constraints))
		for i, c := range tt.Constraints {
			cs[i] = renameConstraint(c, mapping)
		}
		return &Constrained{Base: applyRenaming(tt.Base, mapping), Constraints: cs}
	default:
		return t
	}
}

func renameConstraint(c Constraint, mapping map[string]Type) Constraint {
	varName := c.Var()
	if r, ok := mapping[varName]; ok {
		if rv, ok := r.(*Variable); ok {
			varName = rv.Name
		}
	}
	switch cc := c.(type) {
	case *Implements:
		return &Implements{TVar: varName, TraitName: cc.TraitName}
	case *Has:
		fields := make(map[string]Type, len(cc.Fields))
		for n, ft := range cc.Fields {
			fields[n] = applyRenaming(ft, mapping)
		}
		return &Has{TVar: varName, Fields: fields}
	case *HasField:
		return &HasField{TVar: varName, Field: cc.Field, Type: applyRenaming(cc.Type, mapping)}
	case *Is:
		return &Is{TVar: varName, Name: cc.Name}
	case *Custom:
		args := make([]Type, len(cc.Args))
		for i, a := range cc.Args {
			args[i] = applyRenaming(a, mapping)
		}
		return &Custom{TVar: varName, Name: cc.Name, Args: args}
	default:
		return c
	}
}
