package types

import (
	"fmt"

	"github.com/jethrolarson/noolang/internal/typedast"
)

// Pos is a source position; a local copy of ast.Pos's shape so types.go and
// friends don't need to import ast for plain error reporting. Constructed
// from ast.Pos at the call sites in infer.go via fromASTPos.
type Pos struct {
	Line   int
	Column int
	File   string
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// State is the tuple threaded through every inference operation (spec.md
// §3.4). It is passed by value: every inferrer receives a State and
// returns a new one, so a failed statement's state is simply dropped by the
// caller rather than needing explicit rollback (spec.md §5).
type State struct {
	Env       *Environment
	Subst     Substitution
	Counter   int
	ADTs      *ADTRegistry
	Traits    *TraitRegistry
	Accessors *AccessorCache
	Protected map[string]bool
	// Recorder is non-nil only during typeAndDecorate; every inferrer calls
	// Recorder.Record after computing a node's type so the decorated
	// output (internal/typedast) can answer position queries.
	Recorder *typedast.Recorder
}

// NewState creates the state typeProgram seeds before loading built-ins: an
// empty environment, empty substitution, a zeroed fresh-variable counter,
// and empty registries/caches.
func NewState() State {
	return State{
		Env:       NewEnvironment(),
		Subst:     Substitution{},
		Counter:   0,
		ADTs:      NewADTRegistry(),
		Traits:    NewTraitRegistry(),
		Accessors: NewAccessorCache(),
		Protected: map[string]bool{},
	}
}

// Protect marks a set of names as protected (spec.md §3.4 "protected type
// names"): once stdlib is loaded, these may not be shadowed by a later
// `type` declaration (spec.md §8 "No shadowing").
func (s State) Protect(names ...string) {
	for _, n := range names {
		s.Protected[n] = true
	}
}

func (s State) withEnv(env *Environment) State {
	s.Env = env
	return s
}

func (s State) withSubst(sub Substitution) State {
	s.Subst = sub
	return s
}
