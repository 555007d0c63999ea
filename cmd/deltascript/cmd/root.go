// ==============================================================================================
// FILE: cmd/deltascript/cmd/root.go
// ==============================================================================================
// PACKAGE: cmd
// PURPOSE: The cobra root command. Much smaller than the teacher's cmd/dwscript (run/lex/version
//          subcommands there) -- deltascript's host exists to exercise the library end to end, not
//          to be a developer toolchain, so it carries only run and version.
// ==============================================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set by -ldflags at build time; left at its default for plain
// `go build`, matching the teacher's own unset-by-default convention.
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "deltascript",
	Short: "DeltaScript interpreter",
	Long: `deltascript runs DeltaScript programs: a small, dynamically typed,
ECMAScript-flavored scripting language embedded via the deltascript package.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
