package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessorTypeAttachesHasConstraintToCarrier(t *testing.T) {
	s := NewState()
	fn, _ := s.Accessors.AccessorType("name", false, s)
	require.Len(t, fn.Params, 1)
	carrier := fn.Params[0].(*Variable)
	require.Len(t, carrier.Constraints, 1)
	has, ok := carrier.Constraints[0].(*Has)
	require.True(t, ok)
	_, hasField := has.Fields["name"]
	assert.True(t, hasField)
}

func TestAccessorTypeWrapsOptionalReturnInOption(t *testing.T) {
	s := NewState()
	fn, _ := s.Accessors.AccessorType("name", true, s)
	variant, ok := fn.Return.(*Variant)
	require.True(t, ok)
	assert.Equal(t, "Option", variant.Name)
}

func TestAccessorTypeFreshensCarrierOnEveryCall(t *testing.T) {
	s := NewState()
	fn1, s := s.Accessors.AccessorType("name", false, s)
	fn2, _ := s.Accessors.AccessorType("name", false, s)
	c1 := fn1.Params[0].(*Variable)
	c2 := fn2.Params[0].(*Variable)
	assert.NotEqual(t, c1.Name, c2.Name, "distinct uses of @field must not alias the same type variable")
}

func TestComposeAccessorsNestsHasConstraintsForEachField(t *testing.T) {
	s := NewState()
	fn, _ := s.Accessors.ComposeAccessors([]string{"a", "b"}, s)
	carrier := fn.Params[0].(*Variable)
	require.Len(t, carrier.Constraints, 1)
	has := carrier.Constraints[0].(*Has)
	inner, ok := has.Fields["a"].(*nestedHas)
	require.True(t, ok, "composing @a.@b must nest a has-constraint under field a")
	_, ok = inner.Fields["b"]
	assert.True(t, ok)
}
