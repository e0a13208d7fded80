package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func showTraitDef() *TraitDef {
	return &TraitDef{
		Name:      "Show",
		TypeParam: "a",
		Functions: map[string]*Function{
			"show": {Params: []Type{&Variable{Name: "a"}}, Return: TString},
		},
		FuncOrder: []string{"show"},
	}
}

func TestAddImplementationRejectsUnknownTrait(t *testing.T) {
	r := NewTraitRegistry()
	err := r.AddImplementation(&TraitImpl{TraitName: "Nope", TypeName: "Float"}, nil, Pos{})
	require.Error(t, err)
}

func TestAddImplementationRejectsDuplicate(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(showTraitDef())
	impl := &TraitImpl{TraitName: "Show", TypeName: "Float", Functions: map[string]interface{}{"show": struct{}{}}}
	require.NoError(t, r.AddImplementation(impl, map[string]int{"show": 1}, Pos{}))
	err := r.AddImplementation(impl, map[string]int{"show": 1}, Pos{})
	require.Error(t, err)
}

func TestAddImplementationRejectsUndeclaredFunction(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(showTraitDef())
	impl := &TraitImpl{TraitName: "Show", TypeName: "Float", Functions: map[string]interface{}{"bogus": struct{}{}}}
	err := r.AddImplementation(impl, nil, Pos{})
	require.Error(t, err)
}

func TestAddImplementationRejectsParamCountMismatch(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(showTraitDef())
	impl := &TraitImpl{TraitName: "Show", TypeName: "Float", Functions: map[string]interface{}{"show": struct{}{}}}
	err := r.AddImplementation(impl, map[string]int{"show": 2}, Pos{})
	require.Error(t, err)
}

func TestDispatchParamIndexFindsParameterCarryingTypeParam(t *testing.T) {
	def := showTraitDef()
	assert.Equal(t, 0, DispatchParamIndex(def, "show"))
}

func TestDispatchParamIndexReturnsNegativeOneWhenOnlyInReturnType(t *testing.T) {
	def := &TraitDef{
		Name:      "Default",
		TypeParam: "a",
		Functions: map[string]*Function{
			"default": {Params: nil, Return: &Variable{Name: "a"}},
		},
		FuncOrder: []string{"default"},
	}
	assert.Equal(t, -1, DispatchParamIndex(def, "default"))
}

func TestResolveTraitFunctionResolvesUniqueImplementation(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(showTraitDef())
	require.NoError(t, r.AddImplementation(&TraitImpl{
		TraitName: "Show", TypeName: "Float", Functions: map[string]interface{}{"show": struct{}{}},
	}, map[string]int{"show": 1}, Pos{}))

	result := r.ResolveTraitFunction("show", []Type{TFloat})
	assert.Equal(t, Resolved, result.Status)
	assert.Equal(t, "Show", result.Trait.Name)
}

func TestResolveTraitFunctionNoImplementationForUnregisteredType(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(showTraitDef())
	require.NoError(t, r.AddImplementation(&TraitImpl{
		TraitName: "Show", TypeName: "Float", Functions: map[string]interface{}{"show": struct{}{}},
	}, map[string]int{"show": 1}, Pos{}))

	result := r.ResolveTraitFunction("show", []Type{TBool})
	assert.Equal(t, NoImplementation, result.Status)
}

func TestResolveTraitFunctionNeedsConstraintWhenArgNotYetConcrete(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(showTraitDef())
	require.NoError(t, r.AddImplementation(&TraitImpl{
		TraitName: "Show", TypeName: "Float", Functions: map[string]interface{}{"show": struct{}{}},
	}, map[string]int{"show": 1}, Pos{}))

	result := r.ResolveTraitFunction("show", []Type{&Variable{Name: "t0"}})
	assert.Equal(t, NeedConstraint, result.Status)
}

func TestResolveTraitFunctionAmbiguousWhenTwoTraitsImplementSameNameForSameType(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(showTraitDef())
	r.AddDefinition(&TraitDef{
		Name:      "Debug",
		TypeParam: "a",
		Functions: map[string]*Function{
			"show": {Params: []Type{&Variable{Name: "a"}}, Return: TString},
		},
		FuncOrder: []string{"show"},
	})
	require.NoError(t, r.AddImplementation(&TraitImpl{
		TraitName: "Show", TypeName: "Float", Functions: map[string]interface{}{"show": struct{}{}},
	}, map[string]int{"show": 1}, Pos{}))
	require.NoError(t, r.AddImplementation(&TraitImpl{
		TraitName: "Debug", TypeName: "Float", Functions: map[string]interface{}{"show": struct{}{}},
	}, map[string]int{"show": 1}, Pos{}))

	result := r.ResolveTraitFunction("show", []Type{TFloat})
	assert.Equal(t, Ambiguous, result.Status)
	assert.Len(t, result.Candidates, 2)
}

func TestGetTraitFunctionInfoAttachesImplementsConstraintToDispatchParam(t *testing.T) {
	r := NewTraitRegistry()
	r.AddDefinition(showTraitDef())

	fn, traitName, ok := r.GetTraitFunctionInfo("show")
	require.True(t, ok)
	assert.Equal(t, "Show", traitName)
	param := fn.Params[0].(*Variable)
	require.Len(t, param.Constraints, 1)
	impl, ok := param.Constraints[0].(*Implements)
	require.True(t, ok)
	assert.Equal(t, "Show", impl.TraitName)
}
