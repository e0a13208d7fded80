package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang/internal/lexer"
	"github.com/jethrolarson/noolang/internal/parser"
)

func typeSource(t *testing.T, src string) (ProgramResult, error) {
	t.Helper()
	l := lexer.New(src, "<test>")
	p := parser.New(l)
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors for %q", src)
	return TypeProgram(prog)
}

func TestProgramCurriedApplicationOfArithmetic(t *testing.T) {
	result, err := typeSource(t, `(fn x y => x + y) 1.0 2.0`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TFloat))
	assert.Empty(t, result.Effects)
}

func TestProgramMapOverListPreservesElementType(t *testing.T) {
	result, err := typeSource(t, `map (fn x => x + 1.0) [1.0, 2.0, 3.0]`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(&List{Element: TFloat}))
}

func TestProgramArithmeticOperandTypeMismatchFails(t *testing.T) {
	_, err := typeSource(t, `1.0 + "hello"`)
	require.Error(t, err)
	tcErr, ok := err.(*TypeCheckError)
	require.True(t, ok)
	assert.Equal(t, PrimitiveMismatch, tcErr.Kind)
}

func TestProgramBuiltinShowTraitDispatchesOnFloat(t *testing.T) {
	result, err := typeSource(t, `show 42.0`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TString))
}

func TestProgramUserDefinedTraitDispatchesOnImplementingType(t *testing.T) {
	result, err := typeSource(t, `
		constraint Loud a (yell: a -> String);
		implement Loud Bool (yell = fn x => "LOUD");
		yell True
	`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TString))
}

func TestProgramTraitDispatchWithNoImplementationFails(t *testing.T) {
	_, err := typeSource(t, `
		constraint Loud a (yell: a -> String);
		implement Loud Bool (yell = fn x => "LOUD");
		yell "not bool"
	`)
	require.Error(t, err)
}

func TestProgramAccessorReadsRecordField(t *testing.T) {
	result, err := typeSource(t, `@name { @name "Alice", @age 30.0 }`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TString))
}

func TestProgramAccessorMissingFieldFails(t *testing.T) {
	_, err := typeSource(t, `@name { @age 30.0 }`)
	require.Error(t, err)
	tcErr, ok := err.(*TypeCheckError)
	require.True(t, ok)
	assert.Equal(t, MissingField, tcErr.Kind)
}

func TestProgramMatchOverUserDefinedADT(t *testing.T) {
	result, err := typeSource(t, `
		type Maybe a = Just a | Nothing;
		match (Just 1.0) with (Just x => x; Nothing => 0.0)
	`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TFloat))
}

func TestProgramPartialApplicationReturnsResidualFunction(t *testing.T) {
	result, err := typeSource(t, `addXY = fn x y => x + y; inc = addXY 1.0; inc 2.0`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TFloat))
}

func TestProgramIfBranchesMergeFunctionEffects(t *testing.T) {
	result, err := typeSource(t, `if True then (fn x => (mutable y = x; y ! x)) else (fn x => x)`)
	require.NoError(t, err)
	fn, ok := result.Type.(*Function)
	require.True(t, ok, "expected a Function, got %T", result.Type)
	assert.True(t, fn.Effects.Has("mutate"))
}

func TestProgramMatchRecordPatternWidthPermissiveAgainstConcreteScrutinee(t *testing.T) {
	result, err := typeSource(t, `
		r : {age: Float, name: String} = {@name "Alice", @age 30.0};
		match r with ({@name n} => n)
	`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TString))
}

func TestProgramRoundTripThroughAnnotatedDefinition(t *testing.T) {
	result, err := typeSource(t, `x : Float = 1.0; y = x`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TFloat))
}

func TestProgramWhereBindingsScopedToBody(t *testing.T) {
	result, err := typeSource(t, `x + y where (x = 1.0; y = 2.0)`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TFloat))
}

func TestProgramMutationOfMutableBinding(t *testing.T) {
	result, err := typeSource(t, `mutable counter = 0.0; counter ! 1.0`)
	require.NoError(t, err)
	assert.True(t, result.Type.Equals(TUnit))
	assert.True(t, result.Effects.Has("mutate"))
}

func TestProgramMutationOfImmutableBindingFails(t *testing.T) {
	_, err := typeSource(t, `x = 0.0; x ! 1.0`)
	require.Error(t, err)
}

func TestProgramUndefinedVariableFails(t *testing.T) {
	_, err := typeSource(t, `doesNotExist`)
	require.Error(t, err)
	tcErr, ok := err.(*TypeCheckError)
	require.True(t, ok)
	assert.Equal(t, UndefinedVariable, tcErr.Kind)
}

func TestProgramShadowingProtectedBuiltinNameFails(t *testing.T) {
	_, err := typeSource(t, `True = 1.0`)
	require.Error(t, err)
}

func TestTypeProgramWithThreadsStateAcrossCalls(t *testing.T) {
	l := lexer.New(`x = 1.0`, "<repl:1>")
	p := parser.New(l)
	prog := p.ParseProgram()
	require.Empty(t, p.Errors())
	first, err := TypeProgramWith(prog, nil)
	require.NoError(t, err)

	l2 := lexer.New(`x + 1.0`, "<repl:2>")
	p2 := parser.New(l2)
	prog2 := p2.ParseProgram()
	require.Empty(t, p2.Errors())
	state := first.State
	second, err := TypeProgramWith(prog2, &state)
	require.NoError(t, err)
	assert.True(t, second.Type.Equals(TFloat))
}
