// ==============================================================================================
// FILE: value/math_unit_test.go
// ==============================================================================================
// PURPOSE: Validates MathOp's type-pair dispatch, including the documented quirks: string
//          relational operators reducing to equality, and strict (in)equality never throwing.
// ==============================================================================================

package value

import (
	"testing"

	"github.com/d0si/deltascript/token"
)

func mustMathOp(t *testing.T, a, b *Value, op token.Kind) *Value {
	t.Helper()
	result, err := a.MathOp(b, op)
	if err != nil {
		t.Fatalf("MathOp(%v): %v", op, err)
	}
	return result
}

func TestMathOpIntegerArithmetic(t *testing.T) {
	a, b := NewInt(7), NewInt(3)

	if got := mustMathOp(t, a, b, token.PLUS).AsInt(); got != 10 {
		t.Errorf("FAIL: 7+3 = %d, want 10", got)
	}
	if got := mustMathOp(t, a, b, token.MOD).AsInt(); got != 1 {
		t.Errorf("FAIL: 7%%3 = %d, want 1", got)
	}
	if got := mustMathOp(t, a, b, token.BIT_AND).AsInt(); got != (7 & 3) {
		t.Errorf("FAIL: 7&3 = %d, want %d", got, 7&3)
	}
}

func TestMathOpPromotesToDoubleWhenEitherOperandIsDouble(t *testing.T) {
	result := mustMathOp(t, NewInt(1), NewDouble(0.5), token.PLUS)
	if result.Kind() != Double {
		t.Fatalf("FAIL: mixed int/double arithmetic should produce a Double, got %v", result.Kind())
	}
	if result.AsDouble() != 1.5 {
		t.Errorf("FAIL: 1+0.5 = %v, want 1.5", result.AsDouble())
	}
}

func TestMathOpNullAndUndefinedCoerceToZero(t *testing.T) {
	result := mustMathOp(t, NewNull(), NewInt(5), token.PLUS)
	if result.AsInt() != 5 {
		t.Errorf("FAIL: null+5 = %d, want 5", result.AsInt())
	}
	result = mustMathOp(t, NewUndefined(), NewInt(5), token.PLUS)
	if result.AsInt() != 5 {
		t.Errorf("FAIL: undefined+5 = %d, want 5", result.AsInt())
	}
}

func TestMathOpBothUndefined(t *testing.T) {
	if !mustMathOp(t, NewUndefined(), NewUndefined(), token.EQUAL).AsBool() {
		t.Error("FAIL: undefined == undefined should be true")
	}
	if mustMathOp(t, NewUndefined(), NewUndefined(), token.NEQUAL).AsBool() {
		t.Error("FAIL: undefined != undefined should be false")
	}
	if !mustMathOp(t, NewUndefined(), NewUndefined(), token.PLUS).IsUndefined() {
		t.Error("FAIL: undefined + undefined should be Undefined")
	}
}

func TestMathOpStringConcatenation(t *testing.T) {
	result := mustMathOp(t, NewString("foo"), NewString("bar"), token.PLUS)
	if result.AsString() != "foobar" {
		t.Errorf("FAIL: got %q, want %q", result.AsString(), "foobar")
	}
}

// TestMathOpStringRelationalIsEquality documents and locks in the carried-
// over quirk: <, <=, >, and >= on strings are string equality, not
// lexicographic comparison.
func TestMathOpStringRelationalIsEquality(t *testing.T) {
	a, z := NewString("a"), NewString("z")

	if mustMathOp(t, a, z, token.LT).AsBool() {
		t.Error("FAIL: \"a\" < \"z\" should be false (equality semantics, not lexicographic)")
	}
	if !mustMathOp(t, a, a, token.LT).AsBool() {
		t.Error("FAIL: \"a\" < \"a\" should be true under equality semantics")
	}
	if !mustMathOp(t, a, a, token.GTE).AsBool() {
		t.Error("FAIL: \"a\" >= \"a\" should be true under equality semantics")
	}
}

func TestMathOpArrayAndObjectIdentityOnly(t *testing.T) {
	o1, o2 := NewObject(), NewObject()

	if !mustMathOp(t, o1, o1, token.EQUAL).AsBool() {
		t.Error("FAIL: an Object should equal itself")
	}
	if mustMathOp(t, o1, o2, token.EQUAL).AsBool() {
		t.Error("FAIL: two distinct Objects should not be equal")
	}

	if _, err := o1.MathOp(o2, token.PLUS); err == nil {
		t.Error("FAIL: + should be undefined on Object operands")
	}
}

func TestMathOpStrictEqualityComparesKindToo(t *testing.T) {
	if !mustMathOp(t, NewInt(1), NewInt(1), token.STRICT_EQUAL).AsBool() {
		t.Error("FAIL: Integer(1) === Integer(1) should be true")
	}
	if mustMathOp(t, NewInt(1), NewDouble(1), token.STRICT_EQUAL).AsBool() {
		t.Error("FAIL: Integer(1) === Double(1) should be false (different kind tags)")
	}
}

func TestMathOpUnsupportedOperatorFails(t *testing.T) {
	if _, err := NewString("a").MathOp(NewString("b"), token.MUL); err == nil {
		t.Error("FAIL: '*' should not be defined on String operands")
	}
}
