package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshProducesDistinctNames(t *testing.T) {
	s := NewState()
	v1, s := s.Fresh()
	v2, _ := s.Fresh()
	assert.NotEqual(t, v1.Name, v2.Name)
}

func TestFreshNAllocatesRequestedCount(t *testing.T) {
	s := NewState()
	vars, _ := s.FreshN(3)
	require.Len(t, vars, 3)
	seen := map[string]bool{}
	for _, v := range vars {
		name := v.(*Variable).Name
		assert.False(t, seen[name], "expected distinct fresh variable names")
		seen[name] = true
	}
}

func TestGeneralizeQuantifiesOnlyVariablesFreeOfEnvironment(t *testing.T) {
	s := NewState()
	env := NewEnvironment()
	env = env.Extend("bound", &Scheme{Type: &Variable{Name: "t0"}})

	t1, s := s.Fresh()
	fn := &Function{Params: []Type{&Variable{Name: "t0"}}, Return: t1}
	scheme := Generalize(fn, env, NewEffectSet())

	require.Len(t, scheme.Quantified, 1)
	assert.Equal(t, t1.Name, scheme.Quantified[0])
}

func TestInstantiateFreshensOnlyQuantifiedVariables(t *testing.T) {
	s := NewState()
	scheme := &Scheme{
		Quantified: []string{"a"},
		Type: &Function{
			Params: []Type{&Variable{Name: "a"}},
			Return: &Variable{Name: "rigid"},
		},
	}
	inst, _ := Instantiate(scheme, s)
	fn := inst.(*Function)

	param := fn.Params[0].(*Variable)
	assert.NotEqual(t, "a", param.Name)
	ret := fn.Return.(*Variable)
	assert.Equal(t, "rigid", ret.Name)
}

func TestInstantiateTwiceProducesIndependentVariables(t *testing.T) {
	s := NewState()
	scheme := &Scheme{Quantified: []string{"a"}, Type: &Variable{Name: "a"}}
	first, s := Instantiate(scheme, s)
	second, _ := Instantiate(scheme, s)
	assert.False(t, first.Equals(second))
}

func TestFreshenTypeVariablesReusesMappingAcrossCalls(t *testing.T) {
	s := NewState()
	mapping := map[string]Type{}
	first, s := FreshenTypeVariables(&Variable{Name: "a"}, mapping, s)
	second, _ := FreshenTypeVariables(&Variable{Name: "a"}, mapping, s)
	assert.True(t, first.Equals(second), "the same source variable must map to the same fresh variable within one mapping")
}
