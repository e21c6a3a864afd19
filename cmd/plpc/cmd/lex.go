package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/voidbert/plpc/internal/lexer"
	"github.com/voidbert/plpc/internal/token"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize source and print the resulting tokens",
	Long: `Tokenize a source file (or stdin, with no argument or "-") and print
one line per token: its type, literal text, and position.

This is a debugging aid over the lexer; it is not part of the compile
pipeline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(_ *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		fmt.Printf("%-12s %-20q %s\n", tok.Type, tok.Literal, tok.Pos)
		if tok.Type == token.EOF {
			break
		}
	}

	for _, e := range l.Errors() {
		fmt.Fprintf(os.Stderr, "%s: Lexer failed to recognize the following characters: %q\n", e.Pos, e.Text)
	}

	return nil
}

// readInput reads from args[0] (or stdin if args is empty or "-").
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}
