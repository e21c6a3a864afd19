package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/voidbert/plpc/internal/compiler"
	"github.com/voidbert/plpc/internal/diag"
)

var (
	outputFile    string
	optimize      bool
	debugSymbols  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile source to an EWVM assembly listing",
	Long: `Compile a source file (or stdin, with no argument or "-") to EWVM
assembly text.

Examples:
  plpc compile prog.pas -o prog.evm
  plpc compile -O -g prog.pas
  cat prog.pas | plpc compile - -o prog.evm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	compileCmd.Flags().BoolVarP(&optimize, "optimize", "O", false, "run the AST and peephole optimizers")
	compileCmd.Flags().BoolVarP(&debugSymbols, "debug", "g", false, "retain comments / debug symbols in the listing")
}

func runCompile(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	filename := "<stdin>"
	if len(args) == 1 && args[0] != "-" {
		filename = args[0]
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	result, diags, err := compiler.Compile(input, compiler.Options{
		Optimize:     optimize,
		DebugSymbols: debugSymbols,
	})

	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diag.FormatAll(diags, filename, input, true))
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Lexer/Parser failed. Aborting compilation.")
		return fmt.Errorf("compilation failed")
	}

	for _, w := range result.ArgWarnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if outputFile == "" {
		fmt.Print(result.Listing)
		return nil
	}

	if err := os.WriteFile(outputFile, []byte(result.Listing), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", outputFile, len(result.Listing))
	} else if !strings.HasPrefix(filename, "<") {
		fmt.Printf("Compiled %s -> %s\n", filename, outputFile)
	}

	return nil
}
