// ==============================================================================================
// FILE: token/token_benchmark_test.go
// ==============================================================================================
// PURPOSE: Benchmarks the LookupIdent function. Since this is called for every identifier in the
//          source code, it must be extremely fast (zero allocation if possible).
// ==============================================================================================

package token

import "testing"

// BenchmarkLookupIdent measures the performance of keyword lookups.
// Running: go test -bench=.
func BenchmarkLookupIdent(b *testing.B) {
	words := []string{
		"if", "else", "while", "for",
		"function", "return", "var",
		"unknown_var", "myFunction", "total",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			_ = LookupIdent(w)
		}
	}
}
