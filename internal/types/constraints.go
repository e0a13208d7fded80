package types

import (
	"fmt"
	"sort"
	"strings"
)

// Constraint is the tagged union of atomic constraint forms (spec.md §3.2).
// Compound source forms (`and`, `or`, `paren`) are flattened into a []Constraint
// by lowerConstraintExprs in infer_decl.go before being attached to a
// type; there is no Constraint variant for them.
type Constraint interface {
	String() string
	// Var returns the name of the type variable this constraint is attached
	// to, so propagation/verification can find it during unification.
	Var() string
	constraintNode()
}

// Implements requires the type eventually bound to Var to have a trait
// implementation for TraitName.
type Implements struct {
	TVar      string
	TraitName string
}

func (i *Implements) Var() string    { return i.TVar }
func (i *Implements) String() string { return fmt.Sprintf("implements %s", i.TraitName) }
func (i *Implements) constraintNode() {}

// Has requires the type bound to Var to be a record containing (at least)
// the enumerated fields, each unifying against the stated field-type. A
// field-type may itself be a *Variable or a nested *Has (multi-level
// accessor composition, spec.md §3.2).
type Has struct {
	TVar   string
	Fields map[string]Type
}

func (h *Has) Var() string { return h.TVar }
func (h *Has) String() string {
	names := make([]string, 0, len(h.Fields))
	for n := range h.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s: %s", n, h.Fields[n])
	}
	return fmt.Sprintf("has {%s}", strings.Join(parts, ", "))
}
func (h *Has) constraintNode() {}

// HasField is a single-field specialization of Has (spec.md §3.2).
// Accessor inference produces Has; a HasField is handled as its AsHas form.
type HasField struct {
	TVar  string
	Field string
	Type  Type
}

func (h *HasField) Var() string    { return h.TVar }
func (h *HasField) String() string { return fmt.Sprintf("has {%s: %s}", h.Field, h.Type) }
func (h *HasField) constraintNode() {}

// AsHas converts a HasField to the general Has shape, for code that merges
// structural constraints uniformly.
func (h *HasField) AsHas() *Has {
	return &Has{TVar: h.TVar, Fields: map[string]Type{h.Field: h.Type}}
}

// Is is the legacy named built-in predicate (spec.md §3.2, §9 open
// question). No inference path constructs one; the built-in operators use
// Implements.
type Is struct {
	TVar string
	Name string
}

func (i *Is) Var() string    { return i.TVar }
func (i *Is) String() string { return fmt.Sprintf("is %s", i.Name) }
func (i *Is) constraintNode() {}

// Custom is a user-named constraint applied to a list of types.
type Custom struct {
	TVar string
	Name string
	Args []Type
}

func (c *Custom) Var() string { return c.TVar }
func (c *Custom) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}
func (c *Custom) constraintNode() {}

// mergeConstraintLists unions two constraint lists, skipping entries from b
// that already appear (by String() form) in a. Used to combine a Function's
// constraints with another's during unification (spec.md §4.2 step 2).
func mergeConstraintLists(a, b []Constraint) []Constraint {
	out := append([]Constraint{}, a...)
	seen := make(map[string]bool, len(out))
	for _, c := range out {
		seen[c.String()] = true
	}
	for _, c := range b {
		if !seen[c.String()] {
			out = append(out, c)
			seen[c.String()] = true
		}
	}
	return out
}

// mergeHas merges b's fields into a (a is mutated and returned), recursing
// into nested Has field-types that target the same field name. Used when
// two `has` constraints on the same variable need to be combined, e.g. when
// a parameter is both pattern-matched and accessor-composed.
func mergeHas(a, b *Has) *Has {
	if a.Fields == nil {
		a.Fields = map[string]Type{}
	}
	for name, bt := range b.Fields {
		at, exists := a.Fields[name]
		if !exists {
			a.Fields[name] = bt
			continue
		}
		aNested, aOK := at.(*nestedHas)
		bNested, bOK := bt.(*nestedHas)
		if aOK && bOK {
			a.Fields[name] = &nestedHas{Has: mergeHas(aNested.Has, bNested.Has)}
		}
	}
	return a
}

// nestedHas wraps a *Has so it can be used as a field-type value inside
// another Has's Fields map (spec.md §3.2: "nested has-shaped structure").
type nestedHas struct {
	*Has
}

func (n *nestedHas) String() string       { return n.Has.String() }
func (n *nestedHas) typeNode()            {}
func (n *nestedHas) Equals(o Type) bool {
	on, ok := o.(*nestedHas)
	return ok && n.Has.String() == on.Has.String()
}
