// Package compiler wires the pipeline stages — lexer, parser (itself
// driving the symbol table and type checker), optional AST optimizer,
// code generator, and optional peephole optimizer — into the single
// entry point used by cmd/plpc and by package tests (spec.md §1, §7).
package compiler

import (
	"errors"
	"sort"

	"github.com/voidbert/plpc/internal/astopt"
	"github.com/voidbert/plpc/internal/codegen"
	"github.com/voidbert/plpc/internal/diag"
	"github.com/voidbert/plpc/internal/lexer"
	"github.com/voidbert/plpc/internal/parser"
	"github.com/voidbert/plpc/internal/peephole"
)

// ErrFailed is returned by Compile when the lex/parse phase recorded an
// error diagnostic. Per spec.md §7, the pipeline stops after that phase
// rather than attempting code generation on a broken tree.
var ErrFailed = errors.New("lexer/parser failed")

// Options controls the optional later stages, matching the `-O`/`-g`
// flags of spec.md §6.
type Options struct {
	// Optimize runs the AST optimizer before code generation and the
	// peephole optimizer after it (`-O`).
	Optimize bool
	// DebugSymbols retains source-annotation comments in the emitted
	// listing instead of stripping them (`-g`).
	DebugSymbols bool
}

// Result is the outcome of a successful compilation.
type Result struct {
	// Listing is the rendered EWVM assembly text.
	Listing string
	// Diagnostics holds every warning (and, on success, there are never
	// any errors) accumulated across the lex/parse phase, sorted by
	// source position.
	Diagnostics []*diag.Diagnostic
	// ArgWarnings holds argument-encoding warnings from rendering the
	// listing (spec.md §6, e.g. a string literal losing an embedded
	// quote character).
	ArgWarnings []string
}

// Compile runs the full pipeline over source. On a lex/parse failure it
// returns ErrFailed alongside every diagnostic recorded so far; the
// caller is expected to format and print them (spec.md §7's "human
// readable, colored, line-anchored diagnostic" is cmd/plpc's job, not
// this package's).
func Compile(source string, opts Options) (*Result, []*diag.Diagnostic, error) {
	lex := lexer.New(source)
	p := parser.New(lex)
	prog := p.ParseProgram()

	diags := mergeDiagnostics(lex, p)

	if p.Failed() {
		return nil, diags, ErrFailed
	}

	if opts.Optimize {
		astopt.OptimizeProgram(prog)
	}

	chunk := codegen.Generate(prog)

	if !opts.DebugSymbols {
		chunk.RemoveComments()
	}

	if opts.Optimize {
		chunk.Items = peephole.Optimize(chunk.Items)
	}

	listing, argWarnings := chunk.Print()

	return &Result{
		Listing:     listing,
		Diagnostics: diags,
		ArgWarnings: argWarnings,
	}, diags, nil
}

// mergeDiagnostics folds the lexer's coalesced unrecognized-character
// spans into the parser's own diagnostic list and sorts the result by
// source position, so lex and parse errors interleave the way a reader
// scanning top-to-bottom through the source would encounter them.
func mergeDiagnostics(lex *lexer.Lexer, p *parser.Parser) []*diag.Diagnostic {
	all := append([]*diag.Diagnostic{}, p.Diagnostics()...)
	for _, e := range lex.Errors() {
		all = append(all, diag.New(diag.Error, e.Pos, len([]rune(e.Text)),
			"Lexer failed to recognize the following characters"))
	}

	sort.SliceStable(all, func(i, j int) bool {
		pi, pj := all[i].Pos, all[j].Pos
		if !pi.IsValid() || !pj.IsValid() {
			return pi.IsValid() && !pj.IsValid()
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})

	return all
}
