package typecheck

import (
	"testing"

	"github.com/voidbert/plpc/internal/pltypes"
)

func TestBinaryTypeArithmeticPromotesToReal(t *testing.T) {
	got, err := BinaryType("+", pltypes.IntegerType, pltypes.RealType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pltypes.Equal(got, pltypes.RealType) {
		t.Fatalf("got %s, want REAL", got)
	}
}

func TestBinaryTypeDivModRequireInteger(t *testing.T) {
	got, err := BinaryType("div", pltypes.IntegerType, pltypes.IntegerType)
	if err != nil || !pltypes.Equal(got, pltypes.IntegerType) {
		t.Fatalf("got %v, %v, want INTEGER, nil", got, err)
	}
}

func TestBinaryTypeMismatchFails(t *testing.T) {
	if _, err := BinaryType("+", pltypes.IntegerType, pltypes.BooleanType); err == nil {
		t.Fatalf("expected an error mixing INTEGER and BOOLEAN under +")
	}
}

func TestCanAssignReflexive(t *testing.T) {
	for _, typ := range []pltypes.Type{pltypes.IntegerType, pltypes.RealType, pltypes.BooleanType, pltypes.CharType, pltypes.StringType} {
		if !CanAssign(typ, typ) {
			t.Fatalf("CanAssign(%s, %s) should hold reflexively", typ, typ)
		}
	}
}

func TestCanAssignWidening(t *testing.T) {
	if !CanAssign(pltypes.RealType, pltypes.IntegerType) {
		t.Fatalf("REAL <- INTEGER should be allowed")
	}
	if !CanAssign(pltypes.StringType, pltypes.CharType) {
		t.Fatalf("STRING <- CHAR should be allowed")
	}
}

func TestCanAssignRejectsOtherMixedPairs(t *testing.T) {
	pairs := [][2]pltypes.Type{
		{pltypes.IntegerType, pltypes.RealType},
		{pltypes.CharType, pltypes.StringType},
		{pltypes.IntegerType, pltypes.BooleanType},
		{pltypes.BooleanType, pltypes.IntegerType},
	}
	for _, p := range pairs {
		if CanAssign(p[0], p[1]) {
			t.Fatalf("CanAssign(%s, %s) should be rejected", p[0], p[1])
		}
	}
}

func TestTypeAfterIndexationArray(t *testing.T) {
	arr := &pltypes.Array{
		Element: pltypes.RealType,
		Dims: []*pltypes.Range{
			{Element: pltypes.IntegerType, Lower: &pltypes.IntConstant{Value: 1}, Upper: &pltypes.IntConstant{Value: 5}},
			{Element: pltypes.IntegerType, Lower: &pltypes.IntConstant{Value: 1}, Upper: &pltypes.IntConstant{Value: 5}},
		},
	}

	got, err := TypeAfterIndexation(arr, pltypes.IntegerType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &pltypes.Array{
		Element: pltypes.RealType,
		Dims:    []*pltypes.Range{arr.Dims[1]},
	}
	if !pltypes.Equal(got, want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestTypeAfterIndexationString(t *testing.T) {
	got, err := TypeAfterIndexation(pltypes.StringType, pltypes.IntegerType)
	if err != nil || !pltypes.Equal(got, pltypes.CharType) {
		t.Fatalf("got %v, %v, want CHAR, nil", got, err)
	}
}

func TestFailOnStringIndexationRejectsCharacterWrite(t *testing.T) {
	if err := FailOnStringIndexation(pltypes.StringType, 1); err == nil {
		t.Fatalf("expected an error writing to an individual string character")
	}
}

func TestFailOnStringIndexationAllowsArrayWrite(t *testing.T) {
	arr := &pltypes.Array{
		Element: pltypes.IntegerType,
		Dims:    []*pltypes.Range{{Element: pltypes.IntegerType, Lower: &pltypes.IntConstant{Value: 1}, Upper: &pltypes.IntConstant{Value: 5}}},
	}
	if err := FailOnStringIndexation(arr, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
