package diag

import (
	"strings"
	"testing"

	"github.com/voidbert/plpc/internal/token"
)

func TestUnlocalizedOmitsPosition(t *testing.T) {
	d := Unlocalized(Error, "symbol %q not found", "x")
	out := d.Format("file.pas", "", false)
	if strings.Contains(out, ":") && !strings.HasPrefix(out, "error:") {
		t.Fatalf("unlocalized diagnostic should not carry a file:line:col prefix, got %q", out)
	}
	if !strings.HasPrefix(out, "error: ") {
		t.Fatalf("got %q, want it to start with \"error: \"", out)
	}
}

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	source := "begin\n  x := 1;\nend."
	d := New(Error, token.Position{Line: 2, Column: 3, Offset: 0}, 1, "undeclared variable %q", "x")
	out := d.Format("p.pas", source, false)

	if !strings.Contains(out, "p.pas:2:3: error: undeclared variable \"x\"") {
		t.Fatalf("got:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 3 || lines[1] != "  x := 1;" {
		t.Fatalf("expected the offending source line to be echoed, got: %#v", lines)
	}
	if !strings.Contains(lines[2], "^") {
		t.Fatalf("expected a caret underline, got: %q", lines[2])
	}
}

func TestHasErrors(t *testing.T) {
	warnOnly := []*Diagnostic{Unlocalized(Warning, "shadowing")}
	if HasErrors(warnOnly) {
		t.Fatalf("warnings alone should not count as failure")
	}
	withErr := append(warnOnly, Unlocalized(Error, "boom"))
	if !HasErrors(withErr) {
		t.Fatalf("an Error severity entry should count as failure")
	}
}

func TestSeverityString(t *testing.T) {
	if Error.String() != "error" || Warning.String() != "warning" {
		t.Fatalf("unexpected severity strings: %q, %q", Error.String(), Warning.String())
	}
}
