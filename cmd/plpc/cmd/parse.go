package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/voidbert/plpc/internal/ast"
	"github.com/voidbert/plpc/internal/diag"
	"github.com/voidbert/plpc/internal/lexer"
	"github.com/voidbert/plpc/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse source and dump the resulting AST",
	Long: `Parse a source file (or stdin, with no argument or "-") and print the
AST's statement tree. This is a debugging aid over the parser; it is not
part of the compile pipeline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	filename := "<stdin>"
	if len(args) == 1 && args[0] != "-" {
		filename = args[0]
	}

	l := lexer.New(input)
	p := parser.New(l)
	prog := p.ParseProgram()

	diags := append([]*diag.Diagnostic{}, p.Diagnostics()...)
	for _, e := range l.Errors() {
		diags = append(diags, diag.New(diag.Error, e.Pos, len([]rune(e.Text)),
			"Lexer failed to recognize the following characters"))
	}
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diag.FormatAll(diags, filename, input, true))
	}
	if p.Failed() {
		return fmt.Errorf("parsing failed")
	}

	fmt.Printf("program %s\n", prog.Name)
	dumpBlock(prog.Block, 1)
	return nil
}

func indent(level int) string { return strings.Repeat("  ", level) }

func dumpBlock(b *ast.Block, level int) {
	for _, c := range b.Callables {
		kind := "procedure"
		if c.ReturnVar != nil {
			kind = "function"
		}
		fmt.Printf("%s%s %s\n", indent(level), kind, c.Name)
		if c.Body != nil {
			dumpBlock(c.Body, level+1)
		}
	}
	dumpStmt(b.Body, level)
}

func dumpStmt(s ast.Statement, level int) {
	if s == nil {
		return
	}
	pad := indent(level)
	switch v := s.(type) {
	case *ast.CompoundStmt:
		fmt.Printf("%sbegin\n", pad)
		for _, st := range v.Stmts {
			dumpStmt(st, level+1)
		}
		fmt.Printf("%send\n", pad)
	case *ast.AssignStmt:
		fmt.Printf("%sassign %s := %s\n", pad, v.Target.Def.Name, dumpExpr(v.Value))
	case *ast.IfStmt:
		fmt.Printf("%sif %s\n", pad, dumpExpr(v.Cond))
		dumpStmt(v.Then, level+1)
		if v.Else != nil {
			fmt.Printf("%selse\n", pad)
			dumpStmt(v.Else, level+1)
		}
	case *ast.WhileStmt:
		fmt.Printf("%swhile %s\n", pad, dumpExpr(v.Cond))
		dumpStmt(v.Body, level+1)
	case *ast.RepeatStmt:
		fmt.Printf("%srepeat\n", pad)
		for _, st := range v.Body {
			dumpStmt(st, level+1)
		}
		fmt.Printf("%suntil %s\n", pad, dumpExpr(v.Cond))
	case *ast.ForStmt:
		fmt.Printf("%sfor %s := %s .. %s\n", pad, v.Control.Name, dumpExpr(v.Initial), dumpExpr(v.Final))
		dumpStmt(v.Body, level+1)
	case *ast.CaseStmt:
		fmt.Printf("%scase %s of\n", pad, dumpExpr(v.Selector))
		for _, arm := range v.Arms {
			dumpStmt(arm.Body, level+1)
		}
	case *ast.CallStmt:
		fmt.Printf("%scall %s\n", pad, dumpExpr(v.Call))
	case *ast.GotoStmt:
		fmt.Printf("%sgoto %d\n", pad, v.Target.Name)
	default:
		fmt.Printf("%s%T\n", pad, v)
	}
}

func dumpExpr(e ast.Expression) string {
	switch v := e.(type) {
	case nil:
		return "<nil>"
	case *ast.ConstExpr:
		return fmt.Sprintf("%v", v.Value)
	case *ast.VarUsage:
		return v.Def.Name
	case *ast.CallExpr:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = dumpExpr(a)
		}
		return fmt.Sprintf("%s(%s)", v.Def.Name, strings.Join(parts, ", "))
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s %s)", v.Op, dumpExpr(v.X))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", dumpExpr(v.L), v.Op, dumpExpr(v.R))
	default:
		return fmt.Sprintf("%T", v)
	}
}
