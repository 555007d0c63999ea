// ==============================================================================================
// FILE: cmd/deltascript/cmd/run.go
// ==============================================================================================
// PACKAGE: cmd
// PURPOSE: "deltascript run [file]" -- reads a script (or an inline -e expression), constructs a
//          Context, and wraps Context.Execute. Mirrors the teacher's own run subcommand's
//          file-vs-inline handling, without the AST-dump/unit/type-check flags that don't apply
//          to a single-pass interpreter with no separate compile phase.
// ==============================================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/d0si/deltascript/deltascript"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a DeltaScript file or expression",
	Long: `Execute a DeltaScript program from a file or inline expression.

Examples:
  # Run a script file
  deltascript run script.ds

  # Evaluate an inline expression
  deltascript run -e "print(\"hello\");"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func runScript(_ *cobra.Command, args []string) error {
	var source string

	switch {
	case evalExpr != "":
		source = evalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	ctx, err := deltascript.New()
	if err != nil {
		return fmt.Errorf("failed to initialize interpreter: %w", err)
	}

	if err := ctx.Execute(source); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return fmt.Errorf("execution failed")
	}
	return nil
}
