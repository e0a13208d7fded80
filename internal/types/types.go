// Package types is the Noolang type inference engine: a Hindley-Milner
// inferencer extended with let-polymorphism, effect tracking, algebraic
// data types, row-like structural constraints for record field accessors,
// and a user-definable trait (type-class) system.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the tagged union of every type form the inferencer manipulates.
// Every variant is a *-receiver so identity comparison via == never applies;
// use Equals for structural comparison.
type Type interface {
	String() string
	Equals(Type) bool
	typeNode()
}

// Primitive is a named atomic type: Float, String, Bool.
type Primitive struct {
	Name string
}

func (p *Primitive) String() string { return p.Name }
func (p *Primitive) typeNode()      {}
func (p *Primitive) Equals(o Type) bool {
	op, ok := o.(*Primitive)
	return ok && op.Name == p.Name
}

var (
	TFloat  = &Primitive{Name: "Float"}
	TString = &Primitive{Name: "String"}
	TBool   = &Primitive{Name: "Bool"}
)

// Variable is a named type variable. It may carry attached constraints,
// populated when the variable denotes an accessor carrier or an operator
// operand (spec.md §3.2); propagated during unification.
type Variable struct {
	Name        string
	Constraints []Constraint
}

func (v *Variable) String() string { return v.Name }
func (v *Variable) typeNode()      {}
func (v *Variable) Equals(o Type) bool {
	ov, ok := o.(*Variable)
	return ok && ov.Name == v.Name
}

// Function is a (possibly curried at the caller's discretion, but stored
// right-nested here) function type: parameters, return type, an effect set,
// and an optional constraint list carried from operator/accessor inference.
type Function struct {
	Params      []Type
	Return      Type
	Effects     EffectSet
	Constraints []Constraint
}

func (f *Function) typeNode() {}
func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	body := fmt.Sprintf("%s -> %s", strings.Join(params, " -> "), f.Return)
	if len(f.Constraints) > 0 {
		names := make([]string, len(f.Constraints))
		for i, c := range f.Constraints {
			names[i] = c.String()
		}
		body = fmt.Sprintf("%s (%s)", body, strings.Join(names, ", "))
	}
	return body
}
func (f *Function) Equals(o Type) bool {
	of, ok := o.(*Function)
	if !ok || len(f.Params) != len(of.Params) || !f.Return.Equals(of.Return) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equals(of.Params[i]) {
			return false
		}
	}
	return f.Effects.Equals(of.Effects)
}

// List is a homogeneous list type.
type List struct {
	Element Type
}

func (l *List) typeNode()      {}
func (l *List) String() string { return fmt.Sprintf("[%s]", l.Element) }
func (l *List) Equals(o Type) bool {
	ol, ok := o.(*List)
	return ok && l.Element.Equals(ol.Element)
}

// Tuple is an ordered, fixed-arity product type.
type Tuple struct {
	Elements []Type
}

func (t *Tuple) typeNode() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
func (t *Tuple) Equals(o Type) bool {
	ot, ok := o.(*Tuple)
	if !ok || len(t.Elements) != len(ot.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Equals(ot.Elements[i]) {
			return false
		}
	}
	return true
}

// Record is a finite field-name -> type mapping. Unification of records is
// width-permissive (spec.md §4.2 case 3): the "expected" side's fields must
// all exist on the other side, which may carry additional fields.
type Record struct {
	Fields map[string]Type
}

func (r *Record) typeNode() {}
func (r *Record) String() string {
	names := make([]string, 0, len(r.Fields))
	for n := range r.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("@%s %s", n, r.Fields[n])
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
func (r *Record) Equals(o Type) bool {
	or, ok := o.(*Record)
	if !ok || len(r.Fields) != len(or.Fields) {
		return false
	}
	for n, t := range r.Fields {
		ot, ok := or.Fields[n]
		if !ok || !t.Equals(ot) {
			return false
		}
	}
	return true
}

// Variant is a named constructor application representing an ADT
// instantiation, e.g. `Option Float`, or a zero-arg ADT type constructor
// used as a trait container type, e.g. `Option` with no Args.
type Variant struct {
	Name string
	Args []Type
}

func (v *Variant) typeNode() {}
func (v *Variant) String() string {
	if len(v.Args) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Args))
	for i, a := range v.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", v.Name, strings.Join(parts, " "))
}
func (v *Variant) Equals(o Type) bool {
	ov, ok := o.(*Variant)
	if !ok || v.Name != ov.Name || len(v.Args) != len(ov.Args) {
		return false
	}
	for i := range v.Args {
		if !v.Args[i].Equals(ov.Args[i]) {
			return false
		}
	}
	return true
}

// Union is a disjoint-alternative type alias, `A | B`.
type Union struct {
	Alternatives []Type
}

func (u *Union) typeNode() {}
func (u *Union) String() string {
	parts := make([]string, len(u.Alternatives))
	for i, a := range u.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}
func (u *Union) Equals(o Type) bool {
	ou, ok := o.(*Union)
	if !ok || len(u.Alternatives) != len(ou.Alternatives) {
		return false
	}
	for i := range u.Alternatives {
		if !u.Alternatives[i].Equals(ou.Alternatives[i]) {
			return false
		}
	}
	return true
}

// Unit is the zero-information type; unifies with `{}`/`[]`-shaped empties.
type Unit struct{}

func (u *Unit) typeNode()      {}
func (u *Unit) String() string { return "()" }
func (u *Unit) Equals(o Type) bool {
	_, ok := o.(*Unit)
	return ok
}

var TUnit = &Unit{}

// Unknown is the literal-inference-failure placeholder; it unifies with
// anything without binding a substitution entry.
type Unknown struct{}

func (u *Unknown) typeNode()      {}
func (u *Unknown) String() string { return "?" }
func (u *Unknown) Equals(o Type) bool {
	_, ok := o.(*Unknown)
	return ok
}

var TUnknown = &Unknown{}

// Constrained wraps a base type with a per-variable constraint table. It
// exists only as the result of typing a surface `constrained` annotation
// node and is lowered to its Base (with constraints attached to the
// relevant Variable) the moment it participates in unification or
// application (spec.md §3.1, §4.4 `constrained`).
type Constrained struct {
	Base        Type
	Constraints []Constraint
}

func (c *Constrained) typeNode() {}
func (c *Constrained) String() string {
	names := make([]string, len(c.Constraints))
	for i, con := range c.Constraints {
		names[i] = con.String()
	}
	return fmt.Sprintf("%s (%s)", c.Base, strings.Join(names, ", "))
}
func (c *Constrained) Equals(o Type) bool {
	oc, ok := o.(*Constrained)
	return ok && c.Base.Equals(oc.Base)
}

// EffectSet is a finite set of named observable side effects attached to a
// function type, unioned by sequencing (spec.md §3.2, GLOSSARY).
type EffectSet map[string]struct{}

// NewEffectSet builds an EffectSet from the given names.
func NewEffectSet(names ...string) EffectSet {
	s := make(EffectSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Union returns the set union of e and o; effects never conflict, so union
// is the only combinator needed (spec.md §4.2 step 2).
func (e EffectSet) Union(o EffectSet) EffectSet {
	out := make(EffectSet, len(e)+len(o))
	for k := range e {
		out[k] = struct{}{}
	}
	for k := range o {
		out[k] = struct{}{}
	}
	return out
}

func (e EffectSet) Equals(o EffectSet) bool {
	if len(e) != len(o) {
		return false
	}
	for k := range e {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

func (e EffectSet) String() string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("{%s}", strings.Join(names, ", "))
}

func (e EffectSet) Has(name string) bool {
	_, ok := e[name]
	return ok
}

// Scheme is a type generalized over a set of universally quantified
// variable names, plus the effect set recorded at generalization time
// (spec.md §3.3).
type Scheme struct {
	Quantified []string
	Effects    EffectSet
	Type       Type
}

func (s *Scheme) String() string {
	if len(s.Quantified) == 0 {
		return s.Type.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(s.Quantified, " "), s.Type)
}
