package symtab

import (
	"testing"

	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/pltypes"
)

func TestRedefinitionInSameScopeRejectedAndRetainsFirst(t *testing.T) {
	tbl := New()
	tbl.PushScope()

	_, err := tbl.Add(TypeDef(&ast.TypeDefinition{Name: "MyType", Value: pltypes.IntegerType}))
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	_, err = tbl.Add(TypeDef(&ast.TypeDefinition{Name: "MyType", Value: pltypes.RealType}))
	if err == nil {
		t.Fatalf("expected redefinition error, got nil")
	}

	got, err := tbl.QueryType("MyType")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got.Value != pltypes.IntegerType {
		t.Fatalf("table retains the second definition, want the first")
	}
}

func TestShadowingDoesNotChangeOuterResolution(t *testing.T) {
	tbl := New()
	tbl.PushScope()
	outer := &ast.VariableDefinition{Name: "x", Type: pltypes.IntegerType}
	if _, err := tbl.Add(VariableDef(outer)); err != nil {
		t.Fatalf("add outer: %v", err)
	}

	tbl.PushScope()
	inner := &ast.VariableDefinition{Name: "x", Type: pltypes.RealType}
	warn, err := tbl.Add(VariableDef(inner))
	if err != nil {
		t.Fatalf("add inner: %v", err)
	}
	if warn == "" {
		t.Fatalf("expected a shadow warning")
	}

	got, _, err := tbl.Query("x")
	if err != nil || got.Variable != inner {
		t.Fatalf("inner scope should resolve to the inner definition")
	}

	tbl.PopScope()
	got, _, err = tbl.Query("x")
	if err != nil || got.Variable != outer {
		t.Fatalf("after popping the inner scope, resolution should revert to the outer definition")
	}
}

func TestQueryWrongKindFails(t *testing.T) {
	tbl := New()
	tbl.PushScope()
	if _, err := tbl.Add(VariableDef(&ast.VariableDefinition{Name: "v", Type: pltypes.IntegerType})); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := tbl.QueryCallable("v")
	if err == nil {
		t.Fatalf("expected wrong-kind error looking up a variable as a callable")
	}
	if want := "Object with name 'v' is not a Callable"; err.Error() != want {
		t.Fatalf("got error %q, want %q", err.Error(), want)
	}
}

func TestQueryNotFoundFails(t *testing.T) {
	tbl := New()
	tbl.PushScope()
	_, err := tbl.QueryVariable("missing")
	if err == nil {
		t.Fatalf("expected not-found error for an undeclared name")
	}
	if want := "Variable 'missing' not found"; err.Error() != want {
		t.Fatalf("got error %q, want %q", err.Error(), want)
	}
}

func TestQueryLabelRequiresTopScope(t *testing.T) {
	tbl := New()
	tbl.PushScope()
	lbl := &ast.LabelDefinition{Name: 10}
	if _, err := tbl.Add(LabelDef(lbl)); err != nil {
		t.Fatalf("add: %v", err)
	}

	tbl.PushScope()
	if _, err := tbl.QueryLabel("10"); err == nil {
		t.Fatalf("expected label lookup across a scope boundary to fail")
	}
}

func TestBuiltinsPreInstalled(t *testing.T) {
	tbl := New()
	for _, name := range []string{"integer", "real", "boolean", "char", "string"} {
		if _, err := tbl.QueryType(name); err != nil {
			t.Fatalf("builtin type %q missing: %v", name, err)
		}
	}
	for _, name := range []string{"write", "writeln", "read", "readln", "length"} {
		if _, err := tbl.QueryCallable(name); err != nil {
			t.Fatalf("builtin callable %q missing: %v", name, err)
		}
	}
	c, err := tbl.QueryConstant("maxint")
	if err != nil {
		t.Fatalf("maxint missing: %v", err)
	}
	iv, ok := c.Value.(*pltypes.IntConstant)
	if !ok || iv.Value != 1<<15 {
		t.Fatalf("maxint = %v, want %d", c.Value, 1<<15)
	}
}
