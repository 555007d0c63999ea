// ==============================================================================================
// FILE: value/value_unit_test.go
// ==============================================================================================
// PURPOSE: Validates Value construction, kind predicates, and coercions.
// ==============================================================================================

package value

import "testing"

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		kind Kind
	}{
		{"undefined", NewUndefined(), Undefined},
		{"null", NewNull(), Null},
		{"int", NewInt(5), Integer},
		{"double", NewDouble(5.5), Double},
		{"string", NewString("hi"), String},
		{"object", NewObject(), Object},
		{"array", NewArray(), Array},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("FAIL: Kind() = %v, want %v", tt.v.Kind(), tt.kind)
			}
		})
	}
}

func TestAsIntCoercion(t *testing.T) {
	tests := []struct {
		v    *Value
		want int
	}{
		{NewInt(42), 42},
		{NewDouble(3.9), 3},
		{NewNull(), 0},
		{NewUndefined(), 0},
		{NewString("ignored"), 0},
	}
	for _, tt := range tests {
		if got := tt.v.AsInt(); got != tt.want {
			t.Errorf("FAIL: AsInt() = %d, want %d", got, tt.want)
		}
	}
}

func TestAsBoolCoercion(t *testing.T) {
	if !NewInt(1).AsBool() {
		t.Error("FAIL: AsBool() on Integer(1) should be true")
	}
	if NewInt(0).AsBool() {
		t.Error("FAIL: AsBool() on Integer(0) should be false")
	}
}

func TestAsStringCoercion(t *testing.T) {
	tests := []struct {
		v    *Value
		want string
	}{
		{NewInt(7), "7"},
		{NewDouble(2.5), "2.5"},
		{NewNull(), "null"},
		{NewUndefined(), "undefined"},
		{NewString("hello"), "hello"},
	}
	for _, tt := range tests {
		if got := tt.v.AsString(); got != tt.want {
			t.Errorf("FAIL: AsString() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewBool(t *testing.T) {
	if NewBool(true).AsInt() != 1 {
		t.Error("FAIL: NewBool(true) should coerce to 1")
	}
	if NewBool(false).AsInt() != 0 {
		t.Error("FAIL: NewBool(false) should coerce to 0")
	}
}
