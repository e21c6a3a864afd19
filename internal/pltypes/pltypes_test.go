package pltypes

import "testing"

func TestOrdinalValue(t *testing.T) {
	cases := []struct {
		c    Constant
		want int64
	}{
		{&BoolConstant{Value: true}, 1},
		{&BoolConstant{Value: false}, 0},
		{&IntConstant{Value: 42}, 42},
		{&StringConstant{Value: "a"}, int64('a')},
	}
	for _, c := range cases {
		got, ok := OrdinalValue(c.c)
		if !ok || got != c.want {
			t.Errorf("OrdinalValue(%v) = %d, %v, want %d, true", c.c, got, ok, c.want)
		}
	}

	if _, ok := OrdinalValue(&RealConstant{Value: 1.5}); ok {
		t.Errorf("REAL should not have an ordinal value")
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric(IntegerType) || !IsNumeric(RealType) {
		t.Errorf("INTEGER and REAL should be numeric")
	}
	if IsNumeric(BooleanType) || IsNumeric(CharType) || IsNumeric(StringType) {
		t.Errorf("BOOLEAN/CHAR/STRING should not be numeric")
	}
}

func TestIsOrdinal(t *testing.T) {
	if !IsOrdinal(BooleanType) || !IsOrdinal(IntegerType) || !IsOrdinal(CharType) {
		t.Errorf("BOOLEAN/INTEGER/CHAR should be ordinal")
	}
	if IsOrdinal(RealType) || IsOrdinal(StringType) {
		t.Errorf("REAL/STRING should not be ordinal")
	}
}

func TestEqualBasic(t *testing.T) {
	if !Equal(IntegerType, IntegerType) {
		t.Errorf("INTEGER should equal itself")
	}
	if Equal(IntegerType, RealType) {
		t.Errorf("INTEGER should not equal REAL")
	}
}

func TestEqualArrayComparesDimsAndElement(t *testing.T) {
	a := &Array{Element: IntegerType, Dims: []*Range{DefaultRange()}}
	b := &Array{Element: IntegerType, Dims: []*Range{DefaultRange()}}
	if !Equal(a, b) {
		t.Errorf("arrays with identical shape should be Equal")
	}

	c := &Array{Element: RealType, Dims: []*Range{DefaultRange()}}
	if Equal(a, c) {
		t.Errorf("arrays with a different element type should not be Equal")
	}
}
