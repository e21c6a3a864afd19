package compiler

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// Golden-output tests for the full lex -> parse -> codegen -> peephole
// pipeline, matching the teacher's fixture-test pattern of pinning
// end-to-end output with go-snaps rather than re-deriving it by hand.

func TestGoldenArithmeticProgram(t *testing.T) {
	src := `
program Sum;
var
  a, b, total: integer;
begin
  a := 1;
  b := 2;
  total := a + b;
  writeln(total)
end.
`
	result, diags, err := Compile(src, Options{})
	if err != nil {
		t.Fatalf("compile failed: %v, diagnostics: %v", err, diags)
	}
	snaps.MatchSnapshot(t, "arithmetic_unoptimized", result.Listing)
}

func TestGoldenOptimizedArrayProgram(t *testing.T) {
	src := `
program Zero;
var
  x: array[1..5] of integer;
  i: integer;
begin
  for i := 1 to 5 do
    x[i] := 0
end.
`
	result, diags, err := Compile(src, Options{Optimize: true})
	if err != nil {
		t.Fatalf("compile failed: %v, diagnostics: %v", err, diags)
	}
	snaps.MatchSnapshot(t, "array_loop_optimized", result.Listing)
}

func TestGoldenCallableProgram(t *testing.T) {
	src := `
program Squares;

function Square(n: integer): integer;
begin
  Square := n * n
end;

var
  i: integer;
begin
  for i := 1 to 3 do
    writeln(Square(i))
end.
`
	result, diags, err := Compile(src, Options{})
	if err != nil {
		t.Fatalf("compile failed: %v, diagnostics: %v", err, diags)
	}
	snaps.MatchSnapshot(t, "callable_program", result.Listing)
}
