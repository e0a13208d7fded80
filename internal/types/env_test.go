package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentExtendAndLookup(t *testing.T) {
	env := NewEnvironment()
	env = env.Extend("x", &Scheme{Type: TFloat})
	scheme, ok := env.LookupScheme("x")
	require.True(t, ok)
	assert.True(t, scheme.Type.Equals(TFloat))
}

func TestEnvironmentLookupSearchesParent(t *testing.T) {
	parent := NewEnvironment().Extend("x", &Scheme{Type: TFloat})
	child := parent.Extend("y", &Scheme{Type: TString})

	_, ok := child.LookupScheme("x")
	assert.True(t, ok, "child should see parent bindings")
	_, ok = parent.LookupScheme("y")
	assert.False(t, ok, "parent must not see child bindings")
}

func TestEnvironmentExtendShadowsWithoutMutatingParent(t *testing.T) {
	parent := NewEnvironment().Extend("x", &Scheme{Type: TFloat})
	child := parent.Extend("x", &Scheme{Type: TString})

	parentScheme, _ := parent.LookupScheme("x")
	childScheme, _ := child.LookupScheme("x")
	assert.True(t, parentScheme.Type.Equals(TFloat))
	assert.True(t, childScheme.Type.Equals(TString))
}

func TestEnvironmentExtendMutableMarksBindingMutable(t *testing.T) {
	env := NewEnvironment().ExtendMutable("counter", &Scheme{Type: TFloat})
	b, ok := env.Lookup("counter")
	require.True(t, ok)
	assert.True(t, b.Mutable)
}

func TestEnvironmentWithoutRemovesOnlyImmediateFrame(t *testing.T) {
	parent := NewEnvironment().Extend("x", &Scheme{Type: TFloat})
	child := parent.Extend("x", &Scheme{Type: TString})

	stripped := child.Without("x")
	scheme, ok := stripped.LookupScheme("x")
	require.True(t, ok, "should fall through to parent's binding")
	assert.True(t, scheme.Type.Equals(TFloat))
}

func TestEnvironmentFreeVarsExcludesQuantifiedVariables(t *testing.T) {
	env := NewEnvironment().Extend("id", &Scheme{
		Quantified: []string{"a"},
		Type:       &Function{Params: []Type{&Variable{Name: "a"}}, Return: &Variable{Name: "a"}},
	})
	env = env.Extend("leaked", &Scheme{Type: &Variable{Name: "t0"}})

	free := env.FreeVars()
	assert.False(t, free["a"], "quantified variable must not be free")
	assert.True(t, free["t0"], "non-quantified variable must be free")
}
