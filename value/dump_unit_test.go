// ==============================================================================================
// FILE: value/dump_unit_test.go
// ==============================================================================================
// PURPOSE: Validates Dump()/AsString() rendering for Object and Array values.
// ==============================================================================================

package value

import "testing"

func TestDumpArray(t *testing.T) {
	arr := NewArray()
	arr.AddChild("0", NewInt(1))
	arr.AddChild("1", NewString("two"))

	want := `[1, "two"]`
	if got := arr.Dump(); got != want {
		t.Errorf("FAIL: Dump() = %q, want %q", got, want)
	}
}

func TestDumpObject(t *testing.T) {
	obj := NewObject()
	obj.AddChild("name", NewString("Ada"))
	obj.AddChild("age", NewInt(30))

	want := `{"name": "Ada", "age": 30}`
	if got := obj.Dump(); got != want {
		t.Errorf("FAIL: Dump() = %q, want %q", got, want)
	}
}

func TestDumpNested(t *testing.T) {
	inner := NewArray()
	inner.AddChild("0", NewInt(1))

	outer := NewObject()
	outer.AddChild("items", inner)

	want := `{"items": [1]}`
	if got := outer.Dump(); got != want {
		t.Errorf("FAIL: Dump() = %q, want %q", got, want)
	}
}

func TestAsStringDelegatesToDumpForCompoundKinds(t *testing.T) {
	obj := NewObject()
	obj.AddChild("x", NewInt(1))

	if obj.AsString() != obj.Dump() {
		t.Error("FAIL: AsString() on an Object should match Dump()")
	}
}

// TestDumpEmptyObjectDoesNotRecurse guards against dumpInto's default
// branch falling back to AsString() for a childless Object, which used
// to recurse into Dump() forever (AsString() on kind Object calls Dump()).
func TestDumpEmptyObjectDoesNotRecurse(t *testing.T) {
	obj := NewObject()

	want := `{}`
	if got := obj.Dump(); got != want {
		t.Errorf("FAIL: Dump() = %q, want %q", got, want)
	}
	if got := obj.AsString(); got != want {
		t.Errorf("FAIL: AsString() = %q, want %q", got, want)
	}
}

// TestDumpObjectContainingEmptyObject exercises the same path one level
// nested, where the inner empty Object is reached via dumpScalarOrNested.
func TestDumpObjectContainingEmptyObject(t *testing.T) {
	inner := NewObject()
	outer := NewObject()
	outer.AddChild("inner", inner)

	want := `{"inner": {}}`
	if got := outer.Dump(); got != want {
		t.Errorf("FAIL: Dump() = %q, want %q", got, want)
	}
}
