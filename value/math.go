// ==============================================================================================
// FILE: value/math.go
// ==============================================================================================
// PACKAGE: value
// PURPOSE: Implements MathOp, the type-pair dispatch behind every binary operator except the
//          shift family (applied directly by the evaluator, which needs the unsigned >>> variant).
// ==============================================================================================

package value

import (
	"fmt"

	"github.com/d0si/deltascript/token"
)

// MathOp applies operation to (v, other) and returns a fresh result Value.
// Dispatch follows the type pair, not the operation: both-Undefined, both-
// numeric (Integer/Double; Null/Undefined coerce to 0), Array/Object
// (identity only), and otherwise string.
func (v *Value) MathOp(other *Value, operation token.Kind) (*Value, error) {
	if operation == token.STRICT_EQUAL || operation == token.STRICT_NEQUAL {
		equal := v.kind == other.kind
		if equal {
			contents, err := v.MathOp(other, token.EQUAL)
			if err != nil {
				return nil, err
			}
			equal = contents.AsBool()
		}
		if operation == token.STRICT_EQUAL {
			return NewBool(equal), nil
		}
		return NewBool(!equal), nil
	}

	if v.IsUndefined() && other.IsUndefined() {
		switch operation {
		case token.EQUAL:
			return NewBool(true), nil
		case token.NEQUAL:
			return NewBool(false), nil
		default:
			return NewUndefined(), nil
		}
	}

	vNumericish := v.IsNumeric() || v.IsUndefined() || v.kind == Null
	otherNumericish := other.IsNumeric() || other.IsUndefined() || other.kind == Null
	if vNumericish && otherNumericish {
		if v.kind != Double && other.kind != Double {
			return intMathOp(v.AsInt(), other.AsInt(), operation)
		}
		return doubleMathOp(v.AsDouble(), other.AsDouble(), operation)
	}

	if v.IsArray() {
		return identityMathOp(v, other, operation, "Array")
	}
	if v.IsObject() {
		return identityMathOp(v, other, operation, "Object")
	}

	return stringMathOp(v.AsString(), other.AsString(), operation)
}

func intMathOp(a, b int, operation token.Kind) (*Value, error) {
	switch operation {
	case token.PLUS:
		return NewInt(a + b), nil
	case token.MINUS:
		return NewInt(a - b), nil
	case token.MUL:
		return NewInt(a * b), nil
	case token.DIV:
		return NewInt(a / b), nil
	case token.MOD:
		return NewInt(a % b), nil
	case token.BIT_AND:
		return NewInt(a & b), nil
	case token.BIT_OR:
		return NewInt(a | b), nil
	case token.BIT_XOR:
		return NewInt(a ^ b), nil
	case token.EQUAL:
		return NewBool(a == b), nil
	case token.NEQUAL:
		return NewBool(a != b), nil
	case token.LT:
		return NewBool(a < b), nil
	case token.LTE:
		return NewBool(a <= b), nil
	case token.GT:
		return NewBool(a > b), nil
	case token.GTE:
		return NewBool(a >= b), nil
	default:
		return nil, fmt.Errorf("operation %s is not defined on the Integer type", operation)
	}
}

func doubleMathOp(a, b float64, operation token.Kind) (*Value, error) {
	switch operation {
	case token.PLUS:
		return NewDouble(a + b), nil
	case token.MINUS:
		return NewDouble(a - b), nil
	case token.MUL:
		return NewDouble(a * b), nil
	case token.DIV:
		return NewDouble(a / b), nil
	case token.EQUAL:
		return NewBool(a == b), nil
	case token.NEQUAL:
		return NewBool(a != b), nil
	case token.LT:
		return NewBool(a < b), nil
	case token.LTE:
		return NewBool(a <= b), nil
	case token.GT:
		return NewBool(a > b), nil
	case token.GTE:
		return NewBool(a >= b), nil
	default:
		return nil, fmt.Errorf("operation %s is not defined on the Double type", operation)
	}
}

func identityMathOp(v, other *Value, operation token.Kind, typeName string) (*Value, error) {
	switch operation {
	case token.EQUAL:
		return NewBool(v == other), nil
	case token.NEQUAL:
		return NewBool(v != other), nil
	default:
		return nil, fmt.Errorf("operation %s is not defined on the %s type", operation, typeName)
	}
}

// stringMathOp implements the string type-pair operations, including the
// relational quirk carried over unchanged: <, <=, >, and >= all reduce to
// plain string equality rather than lexicographic comparison. This mirrors
// the source engine's execute_math_operation exactly (its default branch
// maps LT_P/LTE_P/GT_P/GTE_P to the same `first_s == second_s` expression as
// EQUAL_P) and is very likely a bug in the source rather than an intended
// semantics — flagged, not silently corrected, since fixing it would be
// guessing at behavior no caller has specified.
func stringMathOp(a, b string, operation token.Kind) (*Value, error) {
	switch operation {
	case token.PLUS:
		return NewString(a + b), nil
	case token.EQUAL, token.LT, token.LTE, token.GT, token.GTE:
		return NewBool(a == b), nil
	case token.NEQUAL:
		return NewBool(a != b), nil
	default:
		return nil, fmt.Errorf("operation %s is not defined on the String type", operation)
	}
}
