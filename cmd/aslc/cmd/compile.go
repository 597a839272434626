package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgv99/aslcore/internal/astjson"
	"github.com/mgv99/aslcore/internal/compiler"
	"github.com/mgv99/aslcore/internal/config"
)

var (
	configFile    string
	irOutputFile  string
	compileVerbose bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [ast.json]",
	Short: "Run the Symbols, Type-Check, and Code-Gen passes over a JSON AST",
	Long: `Compile reads a JSON-encoded AST (see internal/astjson for the wire
format), runs it through the Symbols Pass, the Type-Check Pass, and the
Code-Gen Pass, and prints the generated three-address IR.

If analysis reports any diagnostic, no IR is generated; every
diagnostic found is printed and the command exits non-zero.

Examples:
  # Compile a JSON AST and print its IR to stdout
  aslc compile program.ast.json

  # Write the IR to a file instead
  aslc compile program.ast.json -o program.ir

  # Apply a YAML configuration file
  aslc compile program.ast.json --config aslc.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&irOutputFile, "output", "o", "", "output file for the generated IR (default: stdout)")
	compileCmd.Flags().StringVar(&configFile, "config", "", "path to a YAML configuration file")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	cfg := config.Default()
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", configFile, err)
		}
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Decoding AST from %s...\n", filename)
	}

	prog, err := astjson.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode AST: %w", err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Running Symbols, Type-Check, and Code-Gen passes...\n")
	}

	result := compiler.Compile(prog, cfg)

	if len(result.Diagnostics) > 0 {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		return fmt.Errorf("compilation failed with %d diagnostic(s)", len(result.Diagnostics))
	}

	out := result.Module.Text()
	if irOutputFile == "" {
		fmt.Print(out)
		return nil
	}

	if err := os.WriteFile(irOutputFile, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", irOutputFile, err)
	}
	if compileVerbose {
		fmt.Fprintf(os.Stderr, "IR written to %s\n", irOutputFile)
	}
	return nil
}
