package lexer

import (
	"testing"

	"github.com/voidbert/plpc/internal/token"
)

func TestCompoundSymbols(t *testing.T) {
	l := New("<> <= >= := ..")

	want := []struct {
		typ token.Type
		lit string
	}{
		{token.DIFFERENT, "<>"},
		{token.LE, "<="},
		{token.GE, ">="},
		{token.ASSIGN, ":="},
		{token.RANGE, ".."},
		{token.EOF, ""},
	}

	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ || tok.Literal != w.lit {
			t.Fatalf("token %d: got %s %q, want %s %q", i, tok.Type, tok.Literal, w.typ, w.lit)
		}
	}
}

func TestLexicalAlternatives(t *testing.T) {
	l := New("@ (. .)")

	want := []token.Type{token.CARET, token.LBRACK, token.RBRACK, token.EOF}
	for i, typ := range want {
		if tok := l.NextToken(); tok.Type != typ {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, typ)
		}
	}
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	l := New("BEGIN begin Begin")
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != token.BEGIN {
			t.Fatalf("token %d: got %s, want BEGIN", i, tok.Type)
		}
	}
}

func TestCommentForms(t *testing.T) {
	l := New("x { a comment } := (* another *) 1")

	want := []token.Type{token.IDENT, token.ASSIGN, token.INT, token.EOF}
	for i, typ := range want {
		if tok := l.NextToken(); tok.Type != typ {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, typ)
		}
	}
}

func TestUnrecognizedCharactersCoalesceOnOneLine(t *testing.T) {
	l := New("x #$%\ny")

	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}

	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d error spans, want 1: %+v", len(errs), errs)
	}
	if errs[0].Text != "#$%" {
		t.Fatalf("got error text %q, want %q", errs[0].Text, "#$%")
	}
}

func TestStringLiteral(t *testing.T) {
	l := New("'hello'")
	tok := l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "hello" {
		t.Fatalf("got %s %q, want STRING %q", tok.Type, tok.Literal, "hello")
	}
}
