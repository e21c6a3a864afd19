// Package parser builds a typed AST from a token stream, consulting the
// symbol table and type checker at each production and emitting
// diagnostics while trying to continue (spec.md §4.4).
//
// The parser is a classic curToken/peekToken recursive-descent parser for
// statements and declarations, with one recursive-descent function per
// precedence tier for expressions — the same cursor shape as the teacher's
// internal/parser, with
// the cursor collapsed back to two fields since this grammar never needs
// the teacher's deep speculative backtracking.
package parser

import (
	"strconv"
	"strings"

	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/diag"
	lexpkg "github.com/voidbert/plpc/internal/lexer"
	"github.com/voidbert/plpc/internal/symtab"
	"github.com/voidbert/plpc/internal/token"
)

// Parser consumes tokens from a Lexer and builds a Program.
type Parser struct {
	lex       *lexpkg.Lexer
	syms      *symtab.Table
	diags     []*diag.Diagnostic
	labelCounter int

	cur  token.Token
	peek token.Token
}

// New creates a Parser reading from l.
func New(l *lexpkg.Lexer) *Parser {
	p := &Parser{lex: l, syms: symtab.New()}
	p.next()
	p.next()
	return p
}

// Diagnostics returns every diagnostic accumulated while parsing.
func (p *Parser) Diagnostics() []*diag.Diagnostic { return p.diags }

// Failed reports whether parsing should be considered a failure overall
// (spec.md §4.4 "at program end, if any diagnostic was an error").
func (p *Parser) Failed() bool {
	for _, e := range p.lex.Errors() {
		_ = e
		return true
	}
	return diag.HasErrors(p.diags)
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) errorf(pos token.Position, span int, format string, args ...any) {
	p.diags = append(p.diags, diag.New(diag.Error, pos, span, format, args...))
}

func (p *Parser) warnf(pos token.Position, span int, format string, args ...any) {
	p.diags = append(p.diags, diag.New(diag.Warning, pos, span, format, args...))
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

// expect advances past cur if it matches t, otherwise records an
// "unexpected token" diagnostic naming the accepted token set
// (spec.md §7 "Parse" errors) and does not advance.
func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errorf(p.cur.Pos, len(p.cur.Literal), "unexpected token %s %q, expected %s", p.cur.Type, p.cur.Literal, t)
	return false
}

// synchronize skips tokens until a semicolon or END, for panic-mode
// recovery (spec.md §4.4 "Error recovery").
func (p *Parser) synchronize() {
	for !p.curIs(token.SEMICOLON) && !p.curIs(token.END) && !p.curIs(token.EOF) {
		p.next()
	}
}

// ParseProgram parses `program Name; Block.` and returns the resulting
// Program (possibly with errors recorded; parsing always returns a
// best-effort tree, per spec.md §9 "a parsing error inside a production
// should still produce a best-effort AST node").
func (p *Parser) ParseProgram() *ast.Program {
	pos := p.cur.Pos
	name := ""
	if p.expect(token.PROGRAM) {
		if p.curIs(token.IDENT) {
			name = p.cur.Literal
			p.next()
		} else {
			p.errorf(p.cur.Pos, len(p.cur.Literal), "expected program name, got %s", p.cur.Type)
		}
		p.expect(token.SEMICOLON)
	}

	block := p.parseBlock(true)
	p.expect(token.DOT)

	return &ast.Program{Name: name, Block: block, P: pos}
}

// parseBlock parses the section*/BEGIN...END grammar of spec.md §4.4.
// Sections may be omitted; duplicates and out-of-canonical-order sections
// are localized errors but parsing continues.
func (p *Parser) parseBlock(isGlobal bool) *ast.Block {
	b := &ast.Block{}

	const (
		secLabel = iota
		secConst
		secType
		secVar
		secCallable
	)
	lastSection := -1
	seen := map[int]bool{}

	checkOrder := func(sec int, name string, pos token.Position) bool {
		if seen[sec] {
			p.errorf(pos, len(name), "%s section is duplicated in this block", name)
			return false
		}
		if sec < lastSection {
			p.errorf(pos, len(name), "%s section is out of order", name)
		}
		seen[sec] = true
		lastSection = sec
		return true
	}

loop:
	for {
		switch p.cur.Type {
		case token.LABEL:
			pos := p.cur.Pos
			checkOrder(secLabel, "label", pos)
			p.parseLabelSection(b)
		case token.CONST:
			pos := p.cur.Pos
			checkOrder(secConst, "const", pos)
			p.parseConstSection(b)
		case token.TYPE:
			pos := p.cur.Pos
			checkOrder(secType, "type", pos)
			p.parseTypeSection(b)
		case token.VAR:
			pos := p.cur.Pos
			checkOrder(secVar, "var", pos)
			p.parseVarSection(b, isGlobal)
		case token.FUNCTION, token.PROCEDURE:
			checkOrder(secCallable, "procedure/function", p.cur.Pos)
			p.parseCallableDecl(b)
		case token.BEGIN:
			break loop
		case token.EOF:
			p.errorf(p.cur.Pos, 0, "unexpected end of file, expected BEGIN")
			break loop
		default:
			p.errorf(p.cur.Pos, len(p.cur.Literal), "unexpected token %s %q in block", p.cur.Type, p.cur.Literal)
			p.next()
		}
	}

	b.Body = p.parseCompoundStatement()
	return b
}

func isSignOp(t token.Type) bool { return t == token.PLUS || t == token.MINUS }

func parseIntLiteral(lit string) int64 {
	v, _ := strconv.ParseInt(lit, 10, 64)
	return v
}

func parseRealLiteral(lit string) float64 {
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}

func lower(s string) string { return strings.ToLower(s) }
