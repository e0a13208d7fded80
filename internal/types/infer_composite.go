package types

import "github.com/jethrolarson/noolang/internal/ast"

// inferListLit types `[e1, e2, ...]`: every element must unify to one
// common element type (spec.md §4.4 `listLit`); an empty list gets a fresh,
// unconstrained element type.
func inferListLit(l *ast.ListLit, s State) (Type, EffectSet, State, error) {
	loc := fromASTPos(l.Pos)
	elemVar, s := s.Fresh()
	eff := NewEffectSet()
	for _, e := range l.Elements {
		elemType, elemEff, s2, err := Infer(e, s)
		if err != nil {
			return nil, nil, s, err
		}
		s = s2
		eff = eff.Union(elemEff)
		s, err = Unify(elemVar, elemType, s, loc, "list elements must share a type")
		if err != nil {
			return nil, nil, s, err
		}
	}
	return &List{Element: Substitute(elemVar, s.Subst)}, eff, s, nil
}

// inferTupleLit types `(e1, e2, ...)` as a fixed-arity product (spec.md
// §4.4 `tupleLit`).
func inferTupleLit(tl *ast.TupleLit, s State) (Type, EffectSet, State, error) {
	elems := make([]Type, len(tl.Elements))
	eff := NewEffectSet()
	for i, e := range tl.Elements {
		t, elemEff, s2, err := Infer(e, s)
		if err != nil {
			return nil, nil, s, err
		}
		s = s2
		elems[i] = t
		eff = eff.Union(elemEff)
	}
	return &Tuple{Elements: elems}, eff, s, nil
}

// inferRecordLit types `{@f1 v1, @f2 v2, ...}` (spec.md §4.4 `recordLit`).
func inferRecordLit(rl *ast.RecordLit, s State) (Type, EffectSet, State, error) {
	fields := make(map[string]Type, len(rl.Fields))
	eff := NewEffectSet()
	for _, f := range rl.Fields {
		t, fieldEff, s2, err := Infer(f.Value, s)
		if err != nil {
			return nil, nil, s, err
		}
		s = s2
		fields[f.Name] = t
		eff = eff.Union(fieldEff)
	}
	return &Record{Fields: fields}, eff, s, nil
}

// inferAccessor types a bare `@field` / `@field?` expression value (as
// opposed to one immediately applied, which inferApplication still routes
// through here): it synthesizes the cached polymorphic accessor function
// type (spec.md §4.4 `accessor`).
func inferAccessor(a *ast.Accessor, s State) (Type, EffectSet, State, error) {
	fn, s := s.Accessors.AccessorType(a.Field, a.Optional, s)
	return fn, NewEffectSet(), s, nil
}
