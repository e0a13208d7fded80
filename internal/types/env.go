package types

// Binding is a single environment entry. Mutable bindings are produced by
// `mutable x = e` (the supplemented mutation feature, SPEC_FULL.md §4)
// and are the only bindings the `!` mutate operator may target.
type Binding struct {
	Scheme  *Scheme
	Mutable bool
}

// Environment maps names to type schemes (spec.md §3.4). It is persistent:
// Extend/ExtendMutable return a new Environment sharing the parent's map,
// copy-on-write, so a failed statement can simply discard the State it
// produced without corrupting the caller's environment (spec.md §5).
type Environment struct {
	bindings map[string]*Binding
	parent   *Environment
}

// NewEnvironment returns an empty root environment.
func NewEnvironment() *Environment {
	return &Environment{bindings: map[string]*Binding{}}
}

// Extend returns a child environment with name bound to scheme.
func (e *Environment) Extend(name string, scheme *Scheme) *Environment {
	return &Environment{
		bindings: map[string]*Binding{name: {Scheme: scheme}},
		parent:   e,
	}
}

// ExtendMutable is like Extend but marks the binding mutable.
func (e *Environment) ExtendMutable(name string, scheme *Scheme) *Environment {
	return &Environment{
		bindings: map[string]*Binding{name: {Scheme: scheme, Mutable: true}},
		parent:   e,
	}
}

// Lookup finds a binding by name, searching outward through parents.
func (e *Environment) Lookup(name string) (*Binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// LookupScheme is a convenience wrapper around Lookup for the common case.
func (e *Environment) LookupScheme(name string) (*Scheme, bool) {
	b, ok := e.Lookup(name)
	if !ok {
		return nil, false
	}
	return b.Scheme, true
}

// FreeVars returns the set of type-variable names free in the environment's
// bindings (i.e. not quantified by their own scheme) — used by generalize
// to avoid over-generalizing (spec.md §4.3).
func (e *Environment) FreeVars() map[string]bool {
	free := map[string]bool{}
	for env := e; env != nil; env = env.parent {
		for _, b := range env.bindings {
			quantified := map[string]bool{}
			for _, q := range b.Scheme.Quantified {
				quantified[q] = true
			}
			for v := range freeTypeVars(b.Scheme.Type) {
				if !quantified[v] {
					free[v] = true
				}
			}
		}
	}
	return free
}

// Without returns a view of e with name removed from the *immediate* frame
// only — used by `definition` inference so a non-recursive binding doesn't
// see its own placeholder while generalizing (spec.md §4.4 `definition`).
func (e *Environment) Without(name string) *Environment {
	if _, ok := e.bindings[name]; !ok {
		return e
	}
	cp := &Environment{bindings: map[string]*Binding{}, parent: e.parent}
	for k, v := range e.bindings {
		if k != name {
			cp.bindings[k] = v
		}
	}
	return cp
}
