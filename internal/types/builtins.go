package types

// LoadBuiltins seeds a fresh State's environment, ADT registry and trait
// registry with the standard library surface every Noolang program is
// typed against (spec.md §3.4 "built-ins", §4.5 "built-in seed"). It is
// called once by typeProgram before the first user statement is typed.
func LoadBuiltins(s State) State {
	s = loadOperators(s)
	s = loadPrelude(s)
	s = loadBoolADT(s)
	s = loadOptionADT(s)
	s = loadResultADT(s)
	s = loadCoreTraits(s)
	s.Protect(
		"True", "False", "Bool",
		"Some", "None", "Option",
		"Ok", "Err", "Result",
		"Add", "Numeric", "Show", "Functor",
	)
	return s
}

func bind(s State, name string, t Type) State {
	scheme := Generalize(t, s.Env, NewEffectSet())
	s.Env = s.Env.Extend(name, scheme)
	return s
}

// loadOperators seeds the arithmetic, comparison, boolean and control
// operators spec.md models as ordinary (if specially-parsed) two-argument
// functions (spec.md §4.4 `binary`).
func loadOperators(s State) State {
	var a, b *Variable
	a, s = s.Fresh()
	arith := &Function{
		Params: []Type{
			&Variable{Name: a.Name, Constraints: []Constraint{&Implements{TVar: a.Name, TraitName: "Numeric"}}},
			&Variable{Name: a.Name},
		},
		Return: &Variable{Name: a.Name},
	}
	for _, op := range []string{"+", "-", "*", "/"} {
		s = bind(s, op, arith)
	}

	a, s = s.Fresh()
	cmp := &Function{
		Params: []Type{
			&Variable{Name: a.Name, Constraints: []Constraint{&Implements{TVar: a.Name, TraitName: "Numeric"}}},
			&Variable{Name: a.Name},
		},
		Return: TBool,
	}
	for _, op := range []string{"<", ">", "<=", ">="} {
		s = bind(s, op, cmp)
	}

	a, s = s.Fresh()
	eq := &Function{Params: []Type{&Variable{Name: a.Name}, &Variable{Name: a.Name}}, Return: TBool}
	s = bind(s, "==", eq)
	s = bind(s, "!=", eq)

	s = bind(s, "and", &Function{Params: []Type{TBool, TBool}, Return: TBool})
	s = bind(s, "or", &Function{Params: []Type{TBool, TBool}, Return: TBool})

	// Sequence `;`, thrush `|`, dollar `$`, safe-thrush `|?` are modeled at
	// the call site in infer_binary.go directly rather than as bound names,
	// since their typing rule does not fit a uniform two-argument scheme
	// (sequence discards its left operand's type, thrush/dollar are plain
	// application in disguise, safe-thrush needs Option-aware short circuit).
	a, s = s.Fresh()
	b, s = s.Fresh()
	s = bind(s, "compose", &Function{
		Params: []Type{
			&Function{Params: []Type{b}, Return: a},
			&Function{Params: []Type{a}, Return: b},
		},
		Return: &Function{Params: []Type{a}, Return: a},
	})

	return s
}

// loadPrelude seeds the non-operator primitives: print and the list
// functions. No record or tuple helpers are bound.
func loadPrelude(s State) State {
	a, s := s.Fresh()
	s = bind(s, "print", &Function{
		Params:  []Type{a},
		Return:  TUnit,
		Effects: NewEffectSet("log"),
	})

	a, s = s.Fresh()
	s = bind(s, "head", &Function{Params: []Type{&List{Element: a}}, Return: &Variant{Name: "Option", Args: []Type{a}}})

	a, s = s.Fresh()
	s = bind(s, "tail", &Function{Params: []Type{&List{Element: a}}, Return: &List{Element: a}})

	a, s = s.Fresh()
	s = bind(s, "length", &Function{Params: []Type{&List{Element: a}}, Return: TFloat})

	a, s = s.Fresh()
	var b *Variable
	b, s = s.Fresh()
	s = bind(s, "map", &Function{
		Params: []Type{
			&Function{Params: []Type{a}, Return: b},
			&List{Element: a},
		},
		Return: &List{Element: b},
	})

	a, s = s.Fresh()
	s = bind(s, "filter", &Function{
		Params: []Type{
			&Function{Params: []Type{a}, Return: TBool},
			&List{Element: a},
		},
		Return: &List{Element: a},
	})

	a, s = s.Fresh()
	b, s = s.Fresh()
	s = bind(s, "fold", &Function{
		Params: []Type{
			&Function{Params: []Type{b, a}, Return: b},
			b,
			&List{Element: a},
		},
		Return: b,
	})

	return s
}

func loadBoolADT(s State) State {
	def, ok := s.ADTs.Define("Bool", nil)
	if !ok {
		return s
	}
	s.ADTs.AddConstructor("Bool", "True", nil)
	s.ADTs.AddConstructor("Bool", "False", nil)
	_ = def
	s = bind(s, "True", TBool)
	s = bind(s, "False", TBool)
	return s
}

func loadOptionADT(s State) State {
	_, ok := s.ADTs.Define("Option", []string{"a"})
	if !ok {
		return s
	}
	s.ADTs.AddConstructor("Option", "Some", []Type{&Variable{Name: "a"}})
	s.ADTs.AddConstructor("Option", "None", nil)

	a, s2 := s.Fresh()
	s = s2
	s = bind(s, "Some", &Function{Params: []Type{a}, Return: &Variant{Name: "Option", Args: []Type{a}}})
	a, s = s.Fresh()
	s = bind(s, "None", &Variant{Name: "Option", Args: []Type{a}})
	return s
}

func loadResultADT(s State) State {
	_, ok := s.ADTs.Define("Result", []string{"e", "a"})
	if !ok {
		return s
	}
	s.ADTs.AddConstructor("Result", "Ok", []Type{&Variable{Name: "a"}})
	s.ADTs.AddConstructor("Result", "Err", []Type{&Variable{Name: "e"}})

	a, s2 := s.Fresh()
	s = s2
	var e *Variable
	e, s = s.Fresh()
	s = bind(s, "Ok", &Function{Params: []Type{a}, Return: &Variant{Name: "Result", Args: []Type{e, a}}})
	a, s = s.Fresh()
	e, s = s.Fresh()
	s = bind(s, "Err", &Function{Params: []Type{e}, Return: &Variant{Name: "Result", Args: []Type{e, a}}})
	return s
}

// loadCoreTraits registers the four stdlib traits used by operator sugar
// and generic container code (spec.md §4.5), with built-in implementations
// for the primitive/container types every program can use without writing
// an `implement` block itself (spec.md §4.6 "built-in seed").
func loadCoreTraits(s State) State {
	numericParam := "n"
	numeric := &TraitDef{
		Name:      "Numeric",
		TypeParam: numericParam,
		FuncOrder: []string{"add", "sub", "mul", "div"},
		Functions: map[string]*Function{
			"add": {Params: []Type{&Variable{Name: numericParam}, &Variable{Name: numericParam}}, Return: &Variable{Name: numericParam}},
			"sub": {Params: []Type{&Variable{Name: numericParam}, &Variable{Name: numericParam}}, Return: &Variable{Name: numericParam}},
			"mul": {Params: []Type{&Variable{Name: numericParam}, &Variable{Name: numericParam}}, Return: &Variable{Name: numericParam}},
			"div": {Params: []Type{&Variable{Name: numericParam}, &Variable{Name: numericParam}}, Return: &Variable{Name: numericParam}},
		},
	}
	s.Traits.AddDefinition(numeric)
	_ = s.Traits.AddImplementation(&TraitImpl{TraitName: "Numeric", TypeName: "Float", Functions: map[string]interface{}{}}, nil, Pos{})

	addParam := "n"
	add := &TraitDef{
		Name:      "Add",
		TypeParam: addParam,
		FuncOrder: []string{"plus"},
		Functions: map[string]*Function{
			"plus": {Params: []Type{&Variable{Name: addParam}, &Variable{Name: addParam}}, Return: &Variable{Name: addParam}},
		},
	}
	s.Traits.AddDefinition(add)
	_ = s.Traits.AddImplementation(&TraitImpl{TraitName: "Add", TypeName: "Float", Functions: map[string]interface{}{}}, nil, Pos{})
	_ = s.Traits.AddImplementation(&TraitImpl{TraitName: "Add", TypeName: "String", Functions: map[string]interface{}{}}, nil, Pos{})

	showParam := "s"
	show := &TraitDef{
		Name:      "Show",
		TypeParam: showParam,
		FuncOrder: []string{"show"},
		Functions: map[string]*Function{
			"show": {Params: []Type{&Variable{Name: showParam}}, Return: TString},
		},
	}
	s.Traits.AddDefinition(show)
	for _, t := range []string{"Float", "String", "Bool", "List", "Tuple", "Record", "Unit"} {
		_ = s.Traits.AddImplementation(&TraitImpl{TraitName: "Show", TypeName: t, Functions: map[string]interface{}{}}, nil, Pos{})
	}

	functorParam := "f"
	a, s2 := s.Fresh()
	s = s2
	var b *Variable
	b, s = s.Fresh()
	functor := &TraitDef{
		Name:      "Functor",
		TypeParam: functorParam,
		FuncOrder: []string{"fmap"},
		Functions: map[string]*Function{
			"fmap": {
				Params: []Type{
					&Function{Params: []Type{a}, Return: b},
					&Variant{Name: functorParam, Args: []Type{a}},
				},
				Return: &Variant{Name: functorParam, Args: []Type{b}},
			},
		},
	}
	s.Traits.AddDefinition(functor)
	for _, t := range []string{"List", "Option", "Result"} {
		_ = s.Traits.AddImplementation(&TraitImpl{TraitName: "Functor", TypeName: t, Functions: map[string]interface{}{}}, nil, Pos{})
	}

	return s
}
