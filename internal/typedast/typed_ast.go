// Package typedast holds the decorated output of type inference: the
// original AST paired with the type (and effect set) the checker computed
// for every node it visited. types.TypeAndDecorate returns it so a caller
// can answer "what is the type at this position" without re-running
// inference.
//
// Type and Effects are declared as interface{} here (rather than importing
// internal/types) purely to keep this package a leaf with no dependency on
// the checker that populates it — internal/types imports typedast, not the
// other way around.
package typedast

import "github.com/jethrolarson/noolang/internal/ast"

// Annotation records the inferred type of a single AST node.
type Annotation struct {
	Node    ast.Node
	Type    interface{} // *types.Type implementations
	Effects interface{} // types.EffectSet
}

// Program is the fully decorated result of typeAndDecorate: every statement
// and subexpression the inferencer visited, in the order it visited them.
type Program struct {
	Source      *ast.Program
	Annotations []Annotation
}

// TypeAt returns the most specific (last-recorded, i.e. innermost) type
// annotation whose node position matches pos, or false if none was recorded.
func (p *Program) TypeAt(pos ast.Pos) (Annotation, bool) {
	var best Annotation
	found := false
	for _, a := range p.Annotations {
		if a.Node.Position() == pos {
			best = a
			found = true
		}
	}
	return best, found
}

// Recorder accumulates annotations during a single typeAndDecorate pass.
// It is nil-safe: a nil *Recorder silently drops Record calls, so plain
// typeProgram (no decoration requested) pays no bookkeeping cost.
type Recorder struct {
	annotations []Annotation
}

// NewRecorder creates an empty annotation recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends an annotation. Safe to call on a nil receiver.
func (r *Recorder) Record(node ast.Node, typ interface{}, effects interface{}) {
	if r == nil {
		return
	}
	r.annotations = append(r.annotations, Annotation{Node: node, Type: typ, Effects: effects})
}

// Annotations returns the accumulated annotations. Safe to call on a nil
// receiver (returns nil).
func (r *Recorder) Annotations() []Annotation {
	if r == nil {
		return nil
	}
	return r.annotations
}
