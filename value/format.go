// ==============================================================================================
// FILE: value/format.go
// ==============================================================================================
// PACKAGE: value
// PURPOSE: Numeric-to-string formatting shared by AsString and Dump.
// ==============================================================================================

package value

import "strconv"

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
