package peephole

import (
	"testing"

	"github.com/voidbert/plpc/internal/ewvm"
)

func items(is ...ewvm.Item) []ewvm.Item { return is }

func TestMultiplePushMultipleIntegersNoEnd(t *testing.T) {
	in := items(
		ewvm.Inst("PUSHI", ewvm.IntArg(0)),
		ewvm.Inst("PUSHI", ewvm.IntArg(0)),
		ewvm.Inst("PUSHI", ewvm.IntArg(0)),
	)
	want := items(ewvm.Inst("PUSHN", ewvm.IntArg(3)))

	got := Optimize(in)
	if !ewvm.Equal(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestMultiplePushMultipleFloatsEnd(t *testing.T) {
	in := items(
		ewvm.Inst("PUSHF", ewvm.RealArg(0)),
		ewvm.Inst("PUSHF", ewvm.RealArg(0)),
		ewvm.Inst("PUSHF", ewvm.RealArg(0)),
		ewvm.Inst("ADD"),
	)
	want := items(ewvm.Inst("PUSHN", ewvm.IntArg(3)), ewvm.Inst("ADD"))

	got := Optimize(in)
	if !ewvm.Equal(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestStorePush1(t *testing.T) {
	in := items(ewvm.Inst("STOREL", ewvm.IntArg(100)), ewvm.Inst("PUSHL", ewvm.IntArg(100)))
	want := items(ewvm.Inst("DUP", ewvm.IntArg(1)), ewvm.Inst("STOREL", ewvm.IntArg(100)))

	got := Optimize(in)
	if !ewvm.Equal(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestStorePush2Unchanged(t *testing.T) {
	in := items(ewvm.Inst("STOREL", ewvm.IntArg(100)), ewvm.Inst("PUSHL", ewvm.IntArg(101)))

	got := Optimize(in)
	if !ewvm.Equal(got, in) {
		t.Fatalf("got %#v, want input unchanged", got)
	}
}

func TestMultiplicationInteger2(t *testing.T) {
	in := items(
		ewvm.Inst("PUSHI", ewvm.IntArg(3)),
		ewvm.Inst("PUSHI", ewvm.IntArg(2)),
		ewvm.Inst("MUL"),
	)
	want := items(
		ewvm.Inst("PUSHI", ewvm.IntArg(3)),
		ewvm.Inst("DUP", ewvm.IntArg(1)),
		ewvm.Inst("ADD"),
	)

	got := Optimize(in)
	if !ewvm.Equal(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSinglePushZeroUnchanged(t *testing.T) {
	in := items(ewvm.Inst("PUSHI", ewvm.IntArg(0)))
	want := items(ewvm.Inst("PUSHI", ewvm.IntArg(0)))

	got := Optimize(in)
	if !ewvm.Equal(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestFixedPoint(t *testing.T) {
	in := items(
		ewvm.Inst("PUSHI", ewvm.IntArg(0)),
		ewvm.Inst("PUSHI", ewvm.IntArg(0)),
		ewvm.Inst("PUSHI", ewvm.IntArg(3)),
		ewvm.Inst("PUSHI", ewvm.IntArg(2)),
		ewvm.Inst("MUL"),
	)

	once := Optimize(in)
	twice := Optimize(once)
	if !ewvm.Equal(once, twice) {
		t.Fatalf("a second pass over optimized output changed it: %#v -> %#v", once, twice)
	}
}

func TestPatternDoesNotCrossLabelBoundary(t *testing.T) {
	in := items(
		ewvm.Inst("STOREL", ewvm.IntArg(100)),
		ewvm.Label{Name: "L1"},
		ewvm.Inst("PUSHL", ewvm.IntArg(100)),
	)

	got := Optimize(in)
	if !ewvm.Equal(got, in) {
		t.Fatalf("a label between the two instructions should block the rewrite, got %#v", got)
	}
}
