package parser

import (
	"testing"

	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if p.Failed() {
		t.Fatalf("parse failed, diagnostics: %v", p.Diagnostics())
	}
	return prog
}

func TestParseSimpleAssignmentAndArithmetic(t *testing.T) {
	prog := parseProgram(t, `
program Sum;
var
  a, b, total: integer;
begin
  a := 1;
  b := 2;
  total := a + b
end.
`)
	if prog.Name != "Sum" {
		t.Fatalf("got program name %q, want Sum", prog.Name)
	}
	if len(prog.Block.Variables) != 3 {
		t.Fatalf("got %d variables, want 3", len(prog.Block.Variables))
	}
}

func TestParseZeroParameterProcedureIsNotBuiltin(t *testing.T) {
	prog := parseProgram(t, `
program P;

procedure Greet;
begin
  writeln(1)
end;

begin
  Greet
end.
`)
	if len(prog.Block.Callables) != 1 {
		t.Fatalf("got %d callables, want 1", len(prog.Block.Callables))
	}
	greet := prog.Block.Callables[0]
	if greet.IsBuiltin() {
		t.Fatalf("a user-declared zero-parameter procedure must not report IsBuiltin() == true")
	}

	call, ok := prog.Block.Body.Stmts[0].(*ast.CallStmt)
	if !ok {
		t.Fatalf("expected the body's only statement to be a call, got %T", prog.Block.Body.Stmts[0])
	}
	if call.Call.Def != greet {
		t.Fatalf("call site should resolve to the declared procedure, not a builtin")
	}
}

func TestParseEmptyParenProcedureIsNotBuiltin(t *testing.T) {
	prog := parseProgram(t, `
program P;

procedure Greet();
begin
  writeln(1)
end;

begin
  Greet
end.
`)
	if prog.Block.Callables[0].IsBuiltin() {
		t.Fatalf("a user-declared procedure with empty parens must not report IsBuiltin() == true")
	}
}

func TestParseArrayDeclarationAndIndexing(t *testing.T) {
	prog := parseProgram(t, `
program A;
var
  x: array[1..3] of integer;
begin
  x[1] := 10
end.
`)
	as, ok := prog.Block.Body.Stmts[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected an assignment, got %T", prog.Block.Body.Stmts[0])
	}
	if len(as.Target.Indices) != 1 {
		t.Fatalf("expected one index expression, got %d", len(as.Target.Indices))
	}
}

func TestParseForLoopWithSingleStatementBody(t *testing.T) {
	prog := parseProgram(t, `
program F;
var
  i, total: integer;
begin
  total := 0;
  for i := 1 to 10 do
    total := total + i
end.
`)
	fs, ok := prog.Block.Body.Stmts[1].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected a for statement, got %T", prog.Block.Body.Stmts[1])
	}
	if fs.Down {
		t.Fatalf("expected an ascending (to) loop")
	}
	if _, ok := fs.Body.(*ast.AssignStmt); !ok {
		t.Fatalf("expected the loop body to be a single assignment statement, got %T", fs.Body)
	}
}

func TestUndeclaredVariableIsReportedAndParsingContinues(t *testing.T) {
	p := New(lexer.New(`
program P;
begin
  y := 1
end.
`))
	p.ParseProgram()
	if !p.Failed() {
		t.Fatalf("expected parsing to fail on an undeclared variable")
	}
	if len(p.Diagnostics()) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
}

func TestRedeclaredVariableInSameScopeIsReported(t *testing.T) {
	p := New(lexer.New(`
program P;
var
  a: integer;
  a: real;
begin
end.
`))
	p.ParseProgram()
	if !p.Failed() {
		t.Fatalf("expected parsing to fail on a redeclared variable")
	}
}
