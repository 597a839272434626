// Command aslc is the command-line front end over the semantic-analysis
// and code-generation core: it reads a JSON-encoded AST (lexing and
// parsing sit outside this module) and runs it through the Symbols,
// Type-Check, and Code-Gen passes.
package main

import (
	"fmt"
	"os"

	"github.com/mgv99/aslcore/cmd/aslc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
