package types

// ADTDef is one registered algebraic data type: its type parameters and the
// argument-type list for each of its constructors (spec.md §3.4 "adt
// registry").
type ADTDef struct {
	Params       []string
	Constructors map[string][]Type
	// CtorOrder preserves declaration order for deterministic error
	// messages and match-exhaustiveness reporting.
	CtorOrder []string
}

// ADTRegistry maps ADT name to its definition.
type ADTRegistry struct {
	defs map[string]*ADTDef
	// ctorOwner maps constructor name -> owning ADT name, so pattern typing
	// can find an ADT from a bare constructor reference.
	ctorOwner map[string]string
}

// NewADTRegistry returns an empty registry.
func NewADTRegistry() *ADTRegistry {
	return &ADTRegistry{defs: map[string]*ADTDef{}, ctorOwner: map[string]string{}}
}

// Define registers a new ADT. Returns false if the name is already defined
// (duplicate type definition, spec.md §7).
func (r *ADTRegistry) Define(name string, params []string) (*ADTDef, bool) {
	if _, exists := r.defs[name]; exists {
		return nil, false
	}
	def := &ADTDef{Params: params, Constructors: map[string][]Type{}}
	r.defs[name] = def
	return def, true
}

// AddConstructor records a constructor's argument types under the given
// ADT, also populating the constructor -> ADT reverse index.
func (r *ADTRegistry) AddConstructor(adtName, ctorName string, argTypes []Type) {
	def := r.defs[adtName]
	def.Constructors[ctorName] = argTypes
	def.CtorOrder = append(def.CtorOrder, ctorName)
	r.ctorOwner[ctorName] = adtName
}

// Lookup returns the ADT definition by name.
func (r *ADTRegistry) Lookup(name string) (*ADTDef, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// ConstructorADT returns the ADT owning a constructor name, and the
// constructor's declared argument types.
func (r *ADTRegistry) ConstructorADT(ctorName string) (adtName string, def *ADTDef, argTypes []Type, ok bool) {
	adtName, ok = r.ctorOwner[ctorName]
	if !ok {
		return "", nil, nil, false
	}
	def = r.defs[adtName]
	return adtName, def, def.Constructors[ctorName], true
}

// Has reports whether name is already a registered ADT.
func (r *ADTRegistry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}
