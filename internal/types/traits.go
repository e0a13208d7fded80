package types

import (
	"fmt"
	"sort"
)

// TraitDef is one registered trait (type-class) definition: the name of its
// single type parameter and the signature of every function it declares
// (spec.md §4.5 "definitions").
type TraitDef struct {
	Name      string
	TypeParam string
	Functions map[string]*Function
	// FuncOrder preserves declaration order for deterministic error text.
	FuncOrder []string
}

// TraitImpl is one registered implementation of a trait for a concrete
// type name (spec.md §4.5 "implementations"). Functions holds the
// implementation expression for each trait function, typed as
// interface{} (an ast.Expr in practice) so this package needn't import ast.
type TraitImpl struct {
	TraitName       string
	TypeName        string
	Functions       map[string]interface{}
	GivenConstraint *Implements // SPEC_FULL.md §4 "given-constraints"
}

// TraitRegistry stores trait definitions, their implementations per
// concrete type, and the function-name -> defining-traits reverse index
// (spec.md §4.5).
type TraitRegistry struct {
	definitions     map[string]*TraitDef
	implementations map[string]map[string]*TraitImpl // trait -> typeName -> impl
	functionTraits  map[string][]string               // function name -> trait names
}

// NewTraitRegistry returns an empty registry.
func NewTraitRegistry() *TraitRegistry {
	return &TraitRegistry{
		definitions:     map[string]*TraitDef{},
		implementations: map[string]map[string]*TraitImpl{},
		functionTraits:  map[string][]string{},
	}
}

// AddDefinition inserts a trait definition and updates the reverse index
// (spec.md §4.5 "addTraitDefinition").
func (r *TraitRegistry) AddDefinition(def *TraitDef) {
	r.definitions[def.Name] = def
	for _, fn := range def.FuncOrder {
		r.functionTraits[fn] = append(r.functionTraits[fn], def.Name)
	}
}

// IsTraitFunction reports whether name is declared by any trait.
func (r *TraitRegistry) IsTraitFunction(name string) bool {
	return len(r.functionTraits[name]) > 0
}

// AddImplementation inserts an implementation, rejecting duplicates and
// functions not declared by the trait, and validating that a function
// expression implementation's curried parameter count matches the
// declared signature (spec.md §4.5 "addTraitImplementation").
func (r *TraitRegistry) AddImplementation(impl *TraitImpl, paramCounts map[string]int, loc Pos) error {
	def, ok := r.definitions[impl.TraitName]
	if !ok {
		return &TypeCheckError{Kind: UndefinedVariable, Position: loc,
			Message: fmt.Sprintf("unknown trait %q", impl.TraitName)}
	}
	if r.implementations[impl.TraitName] == nil {
		r.implementations[impl.TraitName] = map[string]*TraitImpl{}
	}
	if _, exists := r.implementations[impl.TraitName][impl.TypeName]; exists {
		return duplicateTraitImpl(impl.TraitName, impl.TypeName, loc)
	}
	for fnName := range impl.Functions {
		sig, declared := def.Functions[fnName]
		if !declared {
			return &TypeCheckError{Kind: SignatureMismatch, Position: loc,
				Message: fmt.Sprintf("%s is not a function of trait %s", fnName, impl.TraitName)}
		}
		if want, ok := paramCounts[fnName]; ok {
			if want != len(sig.Params) {
				return signatureMismatch(impl.TraitName, fnName, len(sig.Params), want, loc)
			}
		}
	}
	r.implementations[impl.TraitName][impl.TypeName] = impl
	return nil
}

// HasImplementation reports whether trait has a registered implementation
// for the concrete type name typeName (including the built-in seed
// implementations loaded by builtins.go).
func (r *TraitRegistry) HasImplementation(trait, typeName string) bool {
	_, ok := r.implementations[trait][typeName]
	return ok
}

// Implementation returns the implementation, if any.
func (r *TraitRegistry) Implementation(trait, typeName string) (*TraitImpl, bool) {
	impl, ok := r.implementations[trait][typeName]
	return impl, ok
}

// DispatchParamIndex scans a trait function's declared signature for the
// parameter position whose type mentions the trait's type parameter,
// rather than hard-coding "first argument" (spec.md §9 REDESIGN guidance,
// needed for signatures like `pure: a -> m a` where the container only
// appears in the return type). Returns -1 if the type parameter appears
// only in the return type (resolution must then be deferred to the
// caller).
func DispatchParamIndex(def *TraitDef, fnName string) int {
	sig, ok := def.Functions[fnName]
	if !ok {
		return -1
	}
	for i, p := range sig.Params {
		if mentionsTypeParam(p, def.TypeParam) {
			return i
		}
	}
	return -1
}

func mentionsTypeParam(t Type, name string) bool {
	switch tt := t.(type) {
	case *Variable:
		return tt.Name == name
	case *Variant:
		if tt.Name == name {
			return true
		}
		for _, a := range tt.Args {
			if mentionsTypeParam(a, name) {
				return true
			}
		}
		return false
	case *List:
		return mentionsTypeParam(tt.Element, name)
	case *Tuple:
		for _, e := range tt.Elements {
			if mentionsTypeParam(e, name) {
				return true
			}
		}
		return false
	case *Function:
		return mentionsTypeParam(tt.Return, name)
	}
	return false
}

// DispatchStatus is the outcome of ResolveTraitFunction.
type DispatchStatus int

const (
	Resolved DispatchStatus = iota
	NeedConstraint
	NoImplementation
	Ambiguous
)

// ResolveResult carries the outcome of dispatch, and on Ambiguous the
// conflicting trait names for error reporting.
type ResolveResult struct {
	Status     DispatchStatus
	Trait      *TraitDef
	Impl       *TraitImpl
	Candidates []string
}

// ResolveTraitFunction searches every trait that declares a function named
// name, derives a concrete type name from the argument carrying that
// trait's type parameter, and returns at most one matching implementation
// (spec.md §4.5 "resolveTraitFunction", §8 "Trait registry" invariant).
func (r *TraitRegistry) ResolveTraitFunction(name string, argTypes []Type) ResolveResult {
	traitNames := append([]string{}, r.functionTraits[name]...)
	sort.Strings(traitNames)

	var matches []ResolveResult
	deferredAny := false

	for _, traitName := range traitNames {
		def := r.definitions[traitName]
		idx := DispatchParamIndex(def, name)
		if idx < 0 || idx >= len(argTypes) {
			deferredAny = true
			continue
		}
		concrete, ok := ConcreteTypeName(argTypes[idx])
		if !ok {
			deferredAny = true
			continue
		}
		if impl, ok := r.implementations[traitName][concrete]; ok {
			matches = append(matches, ResolveResult{Status: Resolved, Trait: def, Impl: impl})
		}
	}

	switch {
	case len(matches) > 1:
		candidates := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = m.Trait.Name
		}
		return ResolveResult{Status: Ambiguous, Candidates: candidates}
	case len(matches) == 1:
		return matches[0]
	case deferredAny:
		return ResolveResult{Status: NeedConstraint}
	default:
		return ResolveResult{Status: NoImplementation}
	}
}

// GetTraitFunctionInfo returns the signature of the first trait declaring
// name, with an `implements` constraint attached to the parameter (or
// return-type variable, for container-in-return signatures) that carries
// the trait's type parameter (spec.md §4.5 "getTraitFunctionInfo").
func (r *TraitRegistry) GetTraitFunctionInfo(name string) (*Function, string, bool) {
	traitNames := r.functionTraits[name]
	if len(traitNames) == 0 {
		return nil, "", false
	}
	traitName := traitNames[0]
	def := r.definitions[traitName]
	sig := def.Functions[name]

	fn := &Function{Params: append([]Type{}, sig.Params...), Return: sig.Return, Effects: sig.Effects}
	idx := DispatchParamIndex(def, name)
	attach := func(t Type) Type {
		if v, ok := t.(*Variable); ok && v.Name == def.TypeParam {
			return &Variable{Name: v.Name, Constraints: append(append([]Constraint{}, v.Constraints...),
				&Implements{TVar: v.Name, TraitName: traitName})}
		}
		return t
	}
	if idx >= 0 {
		fn.Params[idx] = attach(fn.Params[idx])
	} else {
		fn.Return = attach(fn.Return)
	}
	return fn, traitName, true
}
