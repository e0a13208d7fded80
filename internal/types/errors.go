package types

import "fmt"

// ErrorKind distinguishes the taxonomy enumerated in spec.md §7.
type ErrorKind string

const (
	UndefinedVariable          ErrorKind = "undefined_variable"
	UndefinedConstructor       ErrorKind = "undefined_constructor"
	ArityMismatch              ErrorKind = "arity_mismatch"
	KindMismatch               ErrorKind = "kind_mismatch"
	ShapeMismatch              ErrorKind = "shape_mismatch"
	PrimitiveMismatch          ErrorKind = "primitive_mismatch"
	OccursCheck                ErrorKind = "occurs_check"
	MissingField               ErrorKind = "missing_field"
	MissingTraitImplementation ErrorKind = "missing_trait_implementation"
	AmbiguousTraitDispatch     ErrorKind = "ambiguous_trait_dispatch"
	DuplicateTraitImpl         ErrorKind = "duplicate_trait_implementation"
	SignatureMismatch          ErrorKind = "signature_mismatch"
	TraitFunctionShadowing     ErrorKind = "trait_function_shadowing"
	AnnotationMismatch         ErrorKind = "annotation_mismatch"
	MutationTargetMissing      ErrorKind = "mutation_target_missing"
	MutationTypeMismatch       ErrorKind = "mutation_type_mismatch"
	TypeShadowing              ErrorKind = "type_shadowing"
	DuplicateTypeDefinition    ErrorKind = "duplicate_type_definition"
)

// TypeCheckError is the structured failure value every core operation
// returns (spec.md §6 "Error output", §7). The CLI serializes it with a
// `TypeError:` prefix for the LSP bridge's regex-based scraping.
type TypeCheckError struct {
	Kind     ErrorKind
	Position Pos
	Message  string
	Hint     string
	Expected Type
	Actual   Type
}

func (e *TypeCheckError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Position, e.Message)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func undefinedVariable(name string, loc Pos) error {
	return &TypeCheckError{Kind: UndefinedVariable, Position: loc,
		Message: fmt.Sprintf("undefined variable %q", name)}
}

func undefinedConstructor(name string, loc Pos) error {
	return &TypeCheckError{Kind: UndefinedConstructor, Position: loc,
		Message: fmt.Sprintf("undefined constructor %q", name)}
}

func ambiguousTraitDispatch(fn string, candidates []string, loc Pos) error {
	return &TypeCheckError{Kind: AmbiguousTraitDispatch, Position: loc,
		Message: fmt.Sprintf("ambiguous dispatch for %q: candidates %v", fn, candidates)}
}

func duplicateTraitImpl(trait, typeName string, loc Pos) error {
	return &TypeCheckError{Kind: DuplicateTraitImpl, Position: loc,
		Message: fmt.Sprintf("duplicate implementation of %s for %s", trait, typeName)}
}

func signatureMismatch(trait, fn string, expected, actual int, loc Pos) error {
	return &TypeCheckError{Kind: SignatureMismatch, Position: loc,
		Message: fmt.Sprintf("%s.%s: expected %d parameter(s), got %d", trait, fn, expected, actual)}
}

func traitFunctionShadowing(name string, loc Pos) error {
	return &TypeCheckError{Kind: TraitFunctionShadowing, Position: loc,
		Message: fmt.Sprintf("%q is already a trait function and cannot be redefined", name)}
}

func annotationMismatch(expected, actual Type, loc Pos) error {
	return &TypeCheckError{Kind: AnnotationMismatch, Position: loc, Expected: expected, Actual: actual,
		Message: fmt.Sprintf("annotation %s does not match inferred type %s", expected, actual)}
}

func mutationTargetMissing(name string, loc Pos) error {
	return &TypeCheckError{Kind: MutationTargetMissing, Position: loc,
		Message: fmt.Sprintf("%q is not a mutable binding", name)}
}

func mutationTypeMismatch(expected, actual Type, loc Pos) error {
	return &TypeCheckError{Kind: MutationTypeMismatch, Position: loc, Expected: expected, Actual: actual,
		Message: fmt.Sprintf("cannot assign %s to mutable binding of type %s", actual, expected)}
}

func typeShadowing(name string, loc Pos) error {
	return &TypeCheckError{Kind: TypeShadowing, Position: loc,
		Message: fmt.Sprintf("%q is a protected name and cannot be redefined", name)}
}

func duplicateTypeDefinition(name string, loc Pos) error {
	return &TypeCheckError{Kind: DuplicateTypeDefinition, Position: loc,
		Message: fmt.Sprintf("type %q is already defined", name)}
}

func arityMismatchKind(kind string, name string, expected, actual int, loc Pos) error {
	return &TypeCheckError{Kind: ArityMismatch, Position: loc,
		Message: fmt.Sprintf("%s %q expects %d argument(s), got %d", kind, name, expected, actual)}
}
