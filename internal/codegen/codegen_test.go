package codegen

import (
	"testing"

	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/ewvm"
	"github.com/voidbert/plpc/internal/pltypes"
)

func emptyCompound() *ast.CompoundStmt { return &ast.CompoundStmt{} }

func TestGlobalScalarVariableInitialization(t *testing.T) {
	x := &ast.VariableDefinition{Name: "x", Type: pltypes.IntegerType}
	prog := &ast.Program{
		Name: "P",
		Block: &ast.Block{
			Variables: []*ast.VariableDefinition{x},
			Body:      emptyCompound(),
		},
	}

	chunk := Generate(prog)
	out, _ := chunk.Print()

	want := "START\n  // x initialization\n  PUSHI 0\n  STOP\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
	if x.ScopeOffset != 0 || x.IsInCallable {
		t.Fatalf("x should be global offset 0, got offset=%d inCallable=%v", x.ScopeOffset, x.IsInCallable)
	}
}

func TestCallableParameterAndLocalOffsets(t *testing.T) {
	ret := &ast.VariableDefinition{Name: "f", Type: pltypes.IntegerType}
	p1 := &ast.VariableDefinition{Name: "a", Type: pltypes.IntegerType}
	p2 := &ast.VariableDefinition{Name: "b", Type: pltypes.IntegerType}
	local := &ast.VariableDefinition{Name: "t", Type: pltypes.IntegerType}

	call := &ast.CallableDefinition{
		Name:       "f",
		ReturnVar:  ret,
		Parameters: []*ast.VariableDefinition{p1, p2},
		Body: &ast.Block{
			Variables: []*ast.VariableDefinition{local},
			Body:      emptyCompound(),
		},
	}

	prog := &ast.Program{
		Name: "P",
		Block: &ast.Block{
			Body:      emptyCompound(),
			Callables: []*ast.CallableDefinition{call},
		},
	}

	Generate(prog)

	if ret.ScopeOffset != -3 || !ret.IsInCallable {
		t.Fatalf("return var offset = %d, want -3", ret.ScopeOffset)
	}
	if p1.ScopeOffset != -2 {
		t.Fatalf("param a offset = %d, want -2", p1.ScopeOffset)
	}
	if p2.ScopeOffset != -1 {
		t.Fatalf("param b offset = %d, want -1", p2.ScopeOffset)
	}
	if local.ScopeOffset != 0 || !local.IsInCallable {
		t.Fatalf("local t offset = %d inCallable=%v, want 0 true", local.ScopeOffset, local.IsInCallable)
	}
}

func TestCallableFraming(t *testing.T) {
	call := &ast.CallableDefinition{
		Name: "proc",
		Body: &ast.Block{Body: emptyCompound()},
	}
	prog := &ast.Program{
		Name:  "P",
		Block: &ast.Block{Body: emptyCompound(), Callables: []*ast.CallableDefinition{call}},
	}

	out, _ := Generate(prog).Print()
	want := "START\n  STOP\nFNproc:\n  RETURN\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
}

func TestBinaryArithmeticEmitsAddForIntegers(t *testing.T) {
	g := &Generator{chunk: &ewvm.Chunk{}}
	bin := &ast.BinaryExpr{
		L:   &ast.ConstExpr{Value: &pltypes.IntConstant{Value: 1}, Typ: pltypes.IntegerType},
		R:   &ast.ConstExpr{Value: &pltypes.IntConstant{Value: 2}, Typ: pltypes.IntegerType},
		Op:  "+",
		Typ: pltypes.IntegerType,
	}
	g.genExpr(bin)

	out, _ := g.chunk.Print()
	want := "  PUSHI 1\n  PUSHI 2\n  ADD\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
}

func TestGreaterThanOnRealsUsesFSUP(t *testing.T) {
	g := &Generator{chunk: &ewvm.Chunk{}}
	bin := &ast.BinaryExpr{
		L:   &ast.ConstExpr{Value: &pltypes.RealConstant{Value: 1}, Typ: pltypes.RealType},
		R:   &ast.ConstExpr{Value: &pltypes.RealConstant{Value: 2}, Typ: pltypes.RealType},
		Op:  ">",
		Typ: pltypes.BooleanType,
	}
	g.genExpr(bin)

	out, _ := g.chunk.Print()
	want := "  PUSHF 1.0000000000\n  PUSHF 2.0000000000\n  FSUP\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
}

func TestUnaryPlusIsIdentity(t *testing.T) {
	g := &Generator{chunk: &ewvm.Chunk{}}
	u := &ast.UnaryExpr{
		X:   &ast.ConstExpr{Value: &pltypes.IntConstant{Value: 5}, Typ: pltypes.IntegerType},
		Op:  "+",
		Typ: pltypes.IntegerType,
	}
	g.genExpr(u)

	out, _ := g.chunk.Print()
	want := "  PUSHI 5\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q (unary + must be a no-op identity, one push)", out, want)
	}
}

func TestUnaryMinusOnIntegerPushesZeroThenSubtracts(t *testing.T) {
	g := &Generator{chunk: &ewvm.Chunk{}}
	u := &ast.UnaryExpr{
		X:   &ast.ConstExpr{Value: &pltypes.IntConstant{Value: 5}, Typ: pltypes.IntegerType},
		Op:  "-",
		Typ: pltypes.IntegerType,
	}
	g.genExpr(u)

	out, _ := g.chunk.Print()
	want := "  PUSHI 0\n  PUSHI 5\n  SUB\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
}

func TestArrayAllocSizeIsProductOfDimensionSpans(t *testing.T) {
	x := &ast.VariableDefinition{
		Name: "arr",
		Type: &pltypes.Array{
			Element: pltypes.IntegerType,
			Dims: []*pltypes.Range{
				{Element: pltypes.IntegerType, Lower: &pltypes.IntConstant{Value: 1}, Upper: &pltypes.IntConstant{Value: 3}},
				{Element: pltypes.IntegerType, Lower: &pltypes.IntConstant{Value: 1}, Upper: &pltypes.IntConstant{Value: 4}},
			},
		},
	}
	prog := &ast.Program{
		Name:  "P",
		Block: &ast.Block{Variables: []*ast.VariableDefinition{x}, Body: emptyCompound()},
	}

	out, _ := Generate(prog).Print()
	if !containsLine(out, "  ALLOC 12") {
		t.Fatalf("expected ALLOC 12 (3*4), got:\n%s", out)
	}
	if !containsLine(out, "  POPST") {
		t.Fatalf("expected array finalization POPST, got:\n%s", out)
	}
}

func TestWriteArgEnumOrdersNamesByDescendingOrdinal(t *testing.T) {
	e := &pltypes.Enum{TypeName: "Color"}
	red := e.AddConstant("Red")   // ordinal 0
	e.AddConstant("Green")        // ordinal 1
	blue := e.AddConstant("Blue") // ordinal 2

	g := &Generator{chunk: &ewvm.Chunk{}}
	g.genWriteArg(&ast.ConstExpr{Value: &pltypes.EnumConstantValue{Member: red}, Typ: e})

	out, _ := g.chunk.Print()
	// genIndexedStringDispatch pushes names in order, so the first name
	// ends up lowest on the stack; the highest ordinal (Blue) must be
	// pushed first for PUSHSP-relative indexing to resolve Red (ordinal 0)
	// to the name pushed last.
	want := `  PUSHS "` + blue.Name + `"` + "\n" +
		`  PUSHS "Green"` + "\n" +
		`  PUSHS "` + red.Name + `"` + "\n" +
		"  PUSHSP\n  PUSHI 0\n  PUSHI 0\n  SUB\n  LOADN\n  WRITES\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
}

func containsLine(s, line string) bool {
	for _, l := range splitLines(s) {
		if l == line {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
