// Command plpc is the command-line front end for the Pascal-subset to
// EWVM compiler.
package main

import (
	"fmt"
	"os"

	"github.com/voidbert/plpc/cmd/plpc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
