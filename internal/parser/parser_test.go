package parser

import (
	"testing"

	"github.com/jethrolarson/noolang/internal/ast"
	"github.com/jethrolarson/noolang/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input, "<test>"))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parser errors for %q: %v", input, p.Errors())
	}
	return prog
}

func TestParseDefinitionAndApplication(t *testing.T) {
	prog := parseProgram(t, `add = fn a b => a + b; add 1 2`)
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}

	def, ok := prog.Statements[0].(*ast.Definition)
	if !ok {
		t.Fatalf("expected *ast.Definition, got %T", prog.Statements[0])
	}
	if def.Name != "add" {
		t.Errorf("expected name 'add', got %q", def.Name)
	}
	fn, ok := def.Value.(*ast.Function)
	if !ok {
		t.Fatalf("expected *ast.Function, got %T", def.Value)
	}
	if len(fn.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(fn.Params))
	}

	app, ok := prog.Statements[1].(*ast.Application)
	if !ok {
		t.Fatalf("expected *ast.Application, got %T", prog.Statements[1])
	}
	if len(app.Args) != 2 {
		t.Errorf("expected 2 args, got %d", len(app.Args))
	}
}

func TestParseApplicationBindsTighterThanOperators(t *testing.T) {
	prog := parseProgram(t, `f x + g y`)
	bin, ok := prog.Statements[0].(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected *ast.BinaryOp, got %T", prog.Statements[0])
	}
	if bin.Op != "+" {
		t.Errorf("expected '+', got %q", bin.Op)
	}
	if _, ok := bin.Left.(*ast.Application); !ok {
		t.Errorf("expected left operand to be an application, got %T", bin.Left)
	}
	if _, ok := bin.Right.(*ast.Application); !ok {
		t.Errorf("expected right operand to be an application, got %T", bin.Right)
	}
}

func TestParseIfThenElse(t *testing.T) {
	prog := parseProgram(t, `if x > 0 then "pos" else "neg"`)
	ifExpr, ok := prog.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Statements[0])
	}
	if _, ok := ifExpr.Condition.(*ast.BinaryOp); !ok {
		t.Errorf("expected condition to be a binary op, got %T", ifExpr.Condition)
	}
}

func TestParseMatchWithConstructorPatterns(t *testing.T) {
	prog := parseProgram(t, `match opt with (Some x => x; None => 0)`)
	m, ok := prog.Statements[0].(*ast.Match)
	if !ok {
		t.Fatalf("expected *ast.Match, got %T", prog.Statements[0])
	}
	if len(m.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(m.Cases))
	}
	ctor, ok := m.Cases[0].Pattern.(*ast.ConstructorPattern)
	if !ok {
		t.Fatalf("expected *ast.ConstructorPattern, got %T", m.Cases[0].Pattern)
	}
	if ctor.Name != "Some" || len(ctor.Args) != 1 {
		t.Errorf("expected Some with 1 arg, got %s/%d", ctor.Name, len(ctor.Args))
	}
	if _, ok := m.Cases[1].Pattern.(*ast.Variable); ok {
		t.Errorf("None should not parse as a variable pattern")
	}
}

func TestParseRecordAndAccessor(t *testing.T) {
	prog := parseProgram(t, `{ @name "Alice", @age 30 }`)
	rec, ok := prog.Statements[0].(*ast.RecordLit)
	if !ok {
		t.Fatalf("expected *ast.RecordLit, got %T", prog.Statements[0])
	}
	if len(rec.Fields) != 2 || rec.Fields[0].Name != "name" || rec.Fields[1].Name != "age" {
		t.Errorf("unexpected fields: %+v", rec.Fields)
	}

	prog2 := parseProgram(t, `@name? person`)
	app, ok := prog2.Statements[0].(*ast.Application)
	if !ok {
		t.Fatalf("expected *ast.Application, got %T", prog2.Statements[0])
	}
	acc, ok := app.Func.(*ast.Accessor)
	if !ok || !acc.Optional || acc.Field != "name" {
		t.Errorf("expected optional accessor @name?, got %+v", app.Func)
	}
}

func TestParseWhere(t *testing.T) {
	prog := parseProgram(t, `x + y where (x = 1; y = 2)`)
	w, ok := prog.Statements[0].(*ast.Where)
	if !ok {
		t.Fatalf("expected *ast.Where, got %T", prog.Statements[0])
	}
	if len(w.Defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(w.Defs))
	}
}

func TestParsePipelineFoldsIntoOneNode(t *testing.T) {
	prog := parseProgram(t, `x |> f |> g`)
	pipe, ok := prog.Statements[0].(*ast.Pipeline)
	if !ok {
		t.Fatalf("expected *ast.Pipeline, got %T", prog.Statements[0])
	}
	if pipe.Reverse {
		t.Errorf("expected Reverse=false for |>")
	}
	if len(pipe.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(pipe.Stages))
	}
}

func TestParseThrushAndMutate(t *testing.T) {
	prog := parseProgram(t, `5 | double`)
	bin, ok := prog.Statements[0].(*ast.BinaryOp)
	if !ok || bin.Op != "|" {
		t.Fatalf("expected thrush BinaryOp, got %+v", prog.Statements[0])
	}

	prog2 := parseProgram(t, `mutable counter = 0; counter ! 1`)
	def, ok := prog2.Statements[0].(*ast.Definition)
	if !ok || !def.Mutable {
		t.Fatalf("expected mutable definition, got %+v", prog2.Statements[0])
	}
	mutate, ok := prog2.Statements[1].(*ast.BinaryOp)
	if !ok || mutate.Op != "!" {
		t.Fatalf("expected '!' BinaryOp, got %+v", prog2.Statements[1])
	}
}

func TestParseTypedAndConstrained(t *testing.T) {
	prog := parseProgram(t, `x : Float`)
	typed, ok := prog.Statements[0].(*ast.Typed)
	if !ok {
		t.Fatalf("expected *ast.Typed, got %T", prog.Statements[0])
	}
	name, ok := typed.Annotation.(*ast.TypeName)
	if !ok || name.Name != "Float" {
		t.Errorf("expected TypeName Float, got %+v", typed.Annotation)
	}

	prog2 := parseProgram(t, `show x : a -> String given (implements Show)`)
	constrained, ok := prog2.Statements[0].(*ast.Constrained)
	if !ok {
		t.Fatalf("expected *ast.Constrained, got %T", prog2.Statements[0])
	}
	if len(constrained.Constraints) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(constrained.Constraints))
	}
	if _, ok := constrained.Constraints[0].(*ast.ImplementsConstraint); !ok {
		t.Errorf("expected ImplementsConstraint, got %T", constrained.Constraints[0])
	}
}

func TestParseTypeDecl(t *testing.T) {
	prog := parseProgram(t, `type Option a = Some a | None`)
	decl, ok := prog.Statements[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("expected *ast.TypeDecl, got %T", prog.Statements[0])
	}
	if decl.Name != "Option" || len(decl.Params) != 1 || decl.Params[0] != "a" {
		t.Errorf("unexpected decl header: %+v", decl)
	}
	if len(decl.Constructors) != 2 {
		t.Fatalf("expected 2 constructors, got %d", len(decl.Constructors))
	}
	if decl.Constructors[0].Name != "Some" || len(decl.Constructors[0].Args) != 1 {
		t.Errorf("unexpected Some constructor: %+v", decl.Constructors[0])
	}
	if decl.Constructors[1].Name != "None" || len(decl.Constructors[1].Args) != 0 {
		t.Errorf("unexpected None constructor: %+v", decl.Constructors[1])
	}
}

func TestParseTraitAndImplDecl(t *testing.T) {
	prog := parseProgram(t, `constraint Show a (show: a -> String)`)
	trait, ok := prog.Statements[0].(*ast.TraitDecl)
	if !ok {
		t.Fatalf("expected *ast.TraitDecl, got %T", prog.Statements[0])
	}
	if trait.Name != "Show" || trait.TypeParam != "a" || len(trait.Functions) != 1 {
		t.Errorf("unexpected trait decl: %+v", trait)
	}

	prog2 := parseProgram(t, `implement Show Float (show = fn x => toString x)`)
	impl, ok := prog2.Statements[0].(*ast.ImplDecl)
	if !ok {
		t.Fatalf("expected *ast.ImplDecl, got %T", prog2.Statements[0])
	}
	if impl.Trait != "Show" || impl.TypeName != "Float" || len(impl.Functions) != 1 {
		t.Errorf("unexpected impl decl: %+v", impl)
	}
}

func TestParseImport(t *testing.T) {
	prog := parseProgram(t, `import "list.noo"`)
	imp, ok := prog.Statements[0].(*ast.Import)
	if !ok {
		t.Fatalf("expected *ast.Import, got %T", prog.Statements[0])
	}
	if imp.Path != "list.noo" {
		t.Errorf("expected path 'list.noo', got %q", imp.Path)
	}
}

func TestParseListAndTuple(t *testing.T) {
	prog := parseProgram(t, `[1, 2, 3]`)
	list, ok := prog.Statements[0].(*ast.ListLit)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected 3-element list, got %+v", prog.Statements[0])
	}

	prog2 := parseProgram(t, `(1, "two")`)
	tup, ok := prog2.Statements[0].(*ast.TupleLit)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("expected 2-element tuple, got %+v", prog2.Statements[0])
	}
}

func TestParseUnexpectedTokenReportsError(t *testing.T) {
	p := New(lexer.New(`if then`, "<test>"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one parser error for malformed 'if'")
	}
}
