package types

import "fmt"

// AccessorCache memoizes the function type synthesized for a field
// accessor (`@field`) by field name, so repeated uses of the same
// accessor in a program share one fresh-variable shape family rather
// than growing the substitution with duplicate structure every time
// (spec.md §3.2 "accessors", §9 "Caches").
type AccessorCache struct {
	byField map[string]*accessorEntry
}

type accessorEntry struct {
	carrier *Variable
	field   Type
}

// NewAccessorCache returns an empty cache.
func NewAccessorCache() *AccessorCache {
	return &AccessorCache{byField: map[string]*accessorEntry{}}
}

// AccessorType synthesizes (and caches by field name) the polymorphic type
// of the accessor `@field`: a function `{field: a | ...} -> a` carrying a
// `has` constraint on its parameter (spec.md §3.2). When optional is true
// (the `@field?` form) the return type is wrapped as the `Option a` variant
// instead (SPEC_FULL.md §3 supplement of spec.md's optional-accessor edge
// case).
//
// Each call freshens the carrier and field variables against s so distinct
// uses of `@field` in the same inference never alias the same type
// variable (spec.md §4.4 "every occurrence of an accessor gets its own
// fresh instantiation").
func (a *AccessorCache) AccessorType(field string, optional bool, s State) (*Function, State) {
	entry, ok := a.byField[field]
	if !ok {
		carrier, s1 := s.Fresh()
		fieldVar, s2 := s1.Fresh()
		entry = &accessorEntry{carrier: carrier, field: fieldVar}
		a.byField[field] = entry
		s = s2
	}

	mapping := map[string]Type{}
	fresh, s := FreshenTypeVariables(entry.carrier, mapping, s)
	freshField, s := FreshenTypeVariables(entry.field, mapping, s)

	carrierVar, ok := fresh.(*Variable)
	if !ok {
		// Defensive: entry.carrier is always constructed as a *Variable above.
		panic(fmt.Sprintf("accessor carrier for %q is not a variable", field))
	}
	carrierVar.Constraints = append(carrierVar.Constraints, &Has{
		TVar:   carrierVar.Name,
		Fields: map[string]Type{field: freshField},
	})

	ret := freshField
	if optional {
		ret = &Variant{Name: "Option", Args: []Type{freshField}}
	}

	return &Function{Params: []Type{carrierVar}, Return: ret}, s
}

// ComposeAccessors builds the type of a chained accessor composition such
// as `@a.@b.@c` in a single pass, nesting `has` constraints rather than
// unifying one accessor's result against the next's carrier one field at a
// time (SPEC_FULL.md §4 "generalized accessor composition", spec.md §9
// performance guidance).
func (a *AccessorCache) ComposeAccessors(fields []string, s State) (*Function, State) {
	if len(fields) == 0 {
		panic("ComposeAccessors called with no fields")
	}
	if len(fields) == 1 {
		return a.AccessorType(fields[0], false, s)
	}

	leaf, s := s.Fresh()
	var buildNested func(idx int) Type
	var leafType Type = leaf
	buildNested = func(idx int) Type {
		if idx == len(fields)-1 {
			return leafType
		}
		return &nestedHas{Has: &Has{
			TVar:   fmt.Sprintf("%%accessor%d", idx),
			Fields: map[string]Type{fields[idx+1]: buildNested(idx + 1)},
		}}
	}

	carrier, s := s.Fresh()
	carrier.Constraints = append(carrier.Constraints, &Has{
		TVar:   carrier.Name,
		Fields: map[string]Type{fields[0]: buildNested(0)},
	})

	return &Function{Params: []Type{carrier}, Return: leafType}, s
}
