package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSubstituteBareVariable(t *testing.T) {
	sub := Substitution{"t0": TFloat}
	got := Substitute(&Variable{Name: "t0"}, sub)
	require.True(t, got.Equals(TFloat))
}

func TestSubstituteLeavesUnboundVariableUnchanged(t *testing.T) {
	sub := Substitution{"t0": TFloat}
	got := Substitute(&Variable{Name: "t1"}, sub)
	require.True(t, got.Equals(&Variable{Name: "t1"}))
}

func TestSubstituteIsTransitiveThroughChainedBindings(t *testing.T) {
	sub := Substitution{"t0": &Variable{Name: "t1"}, "t1": TString}
	got := Substitute(&Variable{Name: "t0"}, sub)
	require.True(t, got.Equals(TString))
}

func TestSubstituteRecursesIntoCompoundTypes(t *testing.T) {
	sub := Substitution{"t0": TFloat, "t1": TString}
	fn := &Function{
		Params: []Type{&Variable{Name: "t0"}},
		Return: &List{Element: &Variable{Name: "t1"}},
	}
	got := Substitute(fn, sub).(*Function)
	require.True(t, got.Params[0].Equals(TFloat))
	require.True(t, got.Return.Equals(&List{Element: TString}))
}

func TestSubstituteIsIdempotent(t *testing.T) {
	sub := Substitution{"t0": &Variable{Name: "t1"}, "t1": TFloat}
	tuple := &Tuple{Elements: []Type{&Variable{Name: "t0"}, &Variable{Name: "t1"}}}
	require.NoError(t, checkIdempotent(tuple, sub))
}

func TestSubstituteGuardsAgainstCycles(t *testing.T) {
	// A malformed substitution (never produced by Unify's occurs check, but
	// Substitute must not hang on one).
	sub := Substitution{"t0": &Variable{Name: "t1"}, "t1": &Variable{Name: "t0"}}
	got := Substitute(&Variable{Name: "t0"}, sub)
	if _, ok := got.(*Variable); !ok {
		t.Fatalf("expected a Variable result from a cyclic substitution, got %T", got)
	}
}

func TestSubstituteRecordDiffersOnlyInSubstitutedFieldType(t *testing.T) {
	sub := Substitution{"t0": TFloat}
	got := Substitute(&Record{Fields: map[string]Type{"x": &Variable{Name: "t0"}}}, sub)
	want := &Record{Fields: map[string]Type{"x": TFloat}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected record after substitution (-want +got):\n%s", diff)
	}
}

func TestComposeSubstitutionsAppliesBaseToExtraImages(t *testing.T) {
	base := Substitution{"t0": TFloat}
	extra := Substitution{"t1": &Variable{Name: "t0"}}
	composed := ComposeSubstitutions(base, extra)
	require.True(t, composed["t1"].Equals(TFloat))
	require.True(t, composed["t0"].Equals(TFloat))
}
