// ==============================================================================================
// FILE: value/dump.go
// ==============================================================================================
// PACKAGE: value
// PURPOSE: Dump renders an Object/Array Value as a JSON-like string for AsString(). This is
//          display formatting only, not a wire format — no encoding/json round-trips through it
//          — so it is hand-written rather than reaching for a serialization library.
// ==============================================================================================

package value

import "strings"

// Dump renders v as a JSON-like string. Arrays render as "[v0, v1, ...]"
// and Objects as "{"name": value, ...}", both over their insertion-ordered
// children, with nested Objects/Arrays rendered the same way. Strings are
// quoted, Functions render as "function", and other scalars use AsString.
func (v *Value) Dump() string {
	var sb strings.Builder
	v.dumpInto(&sb)
	return sb.String()
}

func (v *Value) dumpInto(sb *strings.Builder) {
	switch v.kind {
	case Array:
		sb.WriteByte('[')
		for i, ref := range v.Children() {
			if i > 0 {
				sb.WriteString(", ")
			}
			ref.Value().dumpScalarOrNested(sb)
		}
		sb.WriteByte(']')
	case String:
		sb.WriteByte('"')
		sb.WriteString(v.stringData)
		sb.WriteByte('"')
	case Function:
		sb.WriteString("function")
	case Object:
		children := v.Children()
		sb.WriteByte('{')
		for i, ref := range children {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('"')
			sb.WriteString(ref.Name)
			sb.WriteString(`": `)
			ref.Value().dumpScalarOrNested(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(v.AsString())
	}
}

func (v *Value) dumpScalarOrNested(sb *strings.Builder) {
	if v.kind == Object || v.kind == Array {
		v.dumpInto(sb)
		return
	}
	if v.kind == String {
		sb.WriteByte('"')
		sb.WriteString(v.stringData)
		sb.WriteByte('"')
		return
	}
	sb.WriteString(v.AsString())
}
