package types

import (
	"github.com/jethrolarson/noolang/internal/ast"
	"github.com/jethrolarson/noolang/internal/typedast"
)

// ProgramResult is the outcome of typing a whole program (spec.md §4.4
// `program`): the final statement's type and effects plus the state
// threaded through every statement, so a REPL can feed it back in as the
// next input's initial state (spec.md §6 "Error output").
type ProgramResult struct {
	Type    Type
	Effects EffectSet
	State   State
}

// TypeProgram types every statement of program in source order against a
// freshly seeded (built-ins loaded) state, threading State from one
// statement to the next (spec.md §4.4 `program`). On the first error, it
// returns immediately with that statement's partial state discarded, per
// the REPL's "drop the failed statement" behavior (spec.md §5).
func TypeProgram(program *ast.Program) (ProgramResult, error) {
	return TypeProgramWith(program, nil)
}

// TypeProgramWith is TypeProgram but continuing from an existing state
// (e.g. a REPL session's accumulated bindings) instead of a fresh one.
// initial may be nil, in which case a fresh built-ins-loaded state is used.
func TypeProgramWith(program *ast.Program, initial *State) (ProgramResult, error) {
	var s State
	if initial != nil {
		s = *initial
	} else {
		s = LoadBuiltins(NewState())
	}

	var lastType Type = TUnit
	lastEff := NewEffectSet()

	for _, stmt := range program.Statements {
		expr, ok := stmt.(ast.Expr)
		if !ok {
			continue
		}
		t, eff, s2, err := Infer(expr, s)
		if err != nil {
			return ProgramResult{State: s}, err
		}
		s = s2
		lastType = t
		lastEff = eff
	}

	return ProgramResult{Type: Substitute(lastType, s.Subst), Effects: lastEff, State: s}, nil
}

// TypeAndDecorate is TypeProgram but also records every node's inferred
// type into a typedast.Recorder, returning a typedast.Program a caller can
// query by source position (spec.md §6 "decorated output").
func TypeAndDecorate(program *ast.Program, initial *State) (*typedast.Program, ProgramResult, error) {
	var s State
	if initial != nil {
		s = *initial
	} else {
		s = LoadBuiltins(NewState())
	}
	s.Recorder = typedast.NewRecorder()

	var lastType Type = TUnit
	lastEff := NewEffectSet()
	var firstErr error

	for _, stmt := range program.Statements {
		expr, ok := stmt.(ast.Expr)
		if !ok {
			continue
		}
		t, eff, s2, err := Infer(expr, s)
		if err != nil {
			firstErr = err
			break
		}
		s = s2
		lastType = t
		lastEff = eff
	}

	decorated := &typedast.Program{Source: program, Annotations: s.Recorder.Annotations()}
	if firstErr != nil {
		return decorated, ProgramResult{State: s}, firstErr
	}
	return decorated, ProgramResult{Type: Substitute(lastType, s.Subst), Effects: lastEff, State: s}, nil
}
