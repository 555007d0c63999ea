// ==============================================================================================
// FILE: cmd/deltascript/main.go
// ==============================================================================================

package main

import (
	"fmt"
	"os"

	"github.com/d0si/deltascript/cmd/deltascript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
