// ==============================================================================================
// FILE: value/children_unit_test.go
// ==============================================================================================
// PURPOSE: Validates child insertion, lookup, removal, and ordering on Value.
// ==============================================================================================

package value

import "testing"

func TestAddChildPromotesUndefinedToObject(t *testing.T) {
	v := NewUndefined()
	v.AddChild("x", NewInt(1))
	if v.Kind() != Object {
		t.Errorf("FAIL: adding a child should promote Undefined to Object, got %v", v.Kind())
	}
}

func TestFindChildMiss(t *testing.T) {
	v := NewObject()
	if ref := v.FindChild("missing"); ref != nil {
		t.Errorf("FAIL: FindChild on a miss should return nil, got %v", ref)
	}
}

func TestAddChildReplacesInPlace(t *testing.T) {
	v := NewObject()
	first := v.AddChild("x", NewInt(1))
	v.AddChild("x", NewInt(2))

	if first.Value().AsInt() != 2 {
		t.Errorf("FAIL: re-adding 'x' should update the existing Reference's Value, got %d", first.Value().AsInt())
	}
	if v.ChildrenCount() != 1 {
		t.Errorf("FAIL: replacing a child should not grow the child count, got %d", v.ChildrenCount())
	}
}

func TestChildrenPreservesInsertionOrder(t *testing.T) {
	v := NewObject()
	v.AddChild("c", NewInt(3))
	v.AddChild("a", NewInt(1))
	v.AddChild("b", NewInt(2))

	got := v.Children()
	wantNames := []string{"c", "a", "b"}
	if len(got) != len(wantNames) {
		t.Fatalf("FAIL: got %d children, want %d", len(got), len(wantNames))
	}
	for i, ref := range got {
		if ref.Name != wantNames[i] {
			t.Errorf("FAIL: children[%d].Name = %q, want %q", i, ref.Name, wantNames[i])
		}
	}
}

func TestRemoveChildUnlinksFromSiblingList(t *testing.T) {
	v := NewObject()
	v.AddChild("a", NewInt(1))
	v.AddChild("b", NewInt(2))
	v.AddChild("c", NewInt(3))

	if err := v.RemoveChild("b"); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}

	got := v.Children()
	wantNames := []string{"a", "c"}
	if len(got) != len(wantNames) {
		t.Fatalf("FAIL: got %d children after removal, want %d", len(got), len(wantNames))
	}
	for i, ref := range got {
		if ref.Name != wantNames[i] {
			t.Errorf("FAIL: children[%d].Name = %q, want %q", i, ref.Name, wantNames[i])
		}
	}
}

func TestRemoveNonExistentChildFails(t *testing.T) {
	v := NewObject()
	if err := v.RemoveChild("nope"); err == nil {
		t.Error("FAIL: removing a non-existent child should fail")
	}
}

func TestFindOrCreateChildByPath(t *testing.T) {
	root := NewObject()
	ref := root.FindOrCreateChildByPath("a.b.c")
	ref.Value().CopyFrom(NewInt(42))

	again := root.FindOrCreateChildByPath("a.b.c")
	if again.Value().AsInt() != 42 {
		t.Errorf("FAIL: FindOrCreateChildByPath should find the same node on a second call, got %d", again.Value().AsInt())
	}

	aRef := root.FindChild("a")
	if aRef == nil || aRef.Value().Kind() != Object {
		t.Error("FAIL: intermediate path segments should be created as Object values")
	}
}

func TestArrayLengthSynthesized(t *testing.T) {
	arr := NewArray()
	arr.AddChild("0", NewInt(10))
	arr.AddChild("1", NewInt(20))

	lenRef := arr.FindChild("length")
	if lenRef == nil {
		t.Fatal("FAIL: FindChild(\"length\") on an Array should synthesize a Reference")
	}
	if lenRef.Value().AsInt() != 2 {
		t.Errorf("FAIL: array length = %d, want 2", lenRef.Value().AsInt())
	}
}

func TestStringLengthSynthesized(t *testing.T) {
	s := NewString("hello")
	lenRef := s.FindChild("length")
	if lenRef == nil {
		t.Fatal("FAIL: FindChild(\"length\") on a String should synthesize a Reference")
	}
	if lenRef.Value().AsInt() != 5 {
		t.Errorf("FAIL: string length = %d, want 5", lenRef.Value().AsInt())
	}
}

func TestDeepCopySharesPrototypeOnly(t *testing.T) {
	proto := NewObject()
	proto.AddChild("greet", NewString("hi"))

	v := NewObject()
	v.AddChild("prototype", proto)
	v.AddChild("name", NewString("original"))

	clone := v.DeepCopy()

	nameRef := clone.FindChild("name")
	nameRef.Value().CopyFrom(NewString("changed"))
	if v.FindChild("name").Value().AsString() != "original" {
		t.Error("FAIL: DeepCopy should not alias non-prototype children")
	}

	if clone.FindChild("prototype").Value() != v.FindChild("prototype").Value() {
		t.Error("FAIL: DeepCopy should share the prototype child by identity")
	}
}
