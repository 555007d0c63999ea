// ==============================================================================================
// FILE: main_benchmark_test.go
// ==============================================================================================
// PURPOSE: System-wide benchmarks. Measures the performance of the full Context.Execute pipeline
//          (re-lexing + interleaved parse/evaluate) under sustained loop and recursion load.
// ==============================================================================================

package tests

import (
	"strings"
	"testing"

	"github.com/d0si/deltascript/deltascript"
)

// BenchmarkSystem_HeavyLoop measures the cost of the for-loop sub-lexer
// capture-and-replay mechanism under sustained iteration.
func BenchmarkSystem_HeavyLoop(b *testing.B) {
	source := `
		var sum = 0;
		for (var counter = 0; counter < 1000; counter = counter + 1) {
			sum = sum + 1;
		}
	`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, err := deltascript.New(deltascript.WithBuiltins(false))
		if err != nil {
			b.Fatalf("New: %v", err)
		}
		if err := ctx.Execute(source); err != nil {
			b.Fatalf("Execute: %v", err)
		}
	}
}

// BenchmarkSystem_DeepRecursion measures the overhead of call-frame
// allocation and scope-stack push/pop per recursive call.
func BenchmarkSystem_DeepRecursion(b *testing.B) {
	source := `
		function dive(n) {
			if (n == 0) {
				return 0;
			}
			return dive(n - 1);
		}
		dive(200);
	`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, err := deltascript.New(deltascript.WithBuiltins(false))
		if err != nil {
			b.Fatalf("New: %v", err)
		}
		if err := ctx.Execute(source); err != nil {
			b.Fatalf("Execute: %v", err)
		}
	}
}

// BenchmarkSystem_StringConcatenation measures allocation overhead of
// repeated string-valued assignment (each "+=" produces a fresh Value).
func BenchmarkSystem_StringConcatenation(b *testing.B) {
	var sb strings.Builder
	sb.WriteString(`var str = "";`)
	for i := 0; i < 100; i++ {
		sb.WriteString(`str += "a";`)
	}
	source := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, err := deltascript.New(deltascript.WithBuiltins(false))
		if err != nil {
			b.Fatalf("New: %v", err)
		}
		if err := ctx.Execute(source); err != nil {
			b.Fatalf("Execute: %v", err)
		}
	}
}
