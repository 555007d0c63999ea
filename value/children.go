// ==============================================================================================
// FILE: value/children.go
// ==============================================================================================
// PACKAGE: value
// PURPOSE: Named-child operations on Value: lookup, insertion, removal, and the deep/shallow
//          copy operations the evaluator uses for by-value argument passing and var declarations.
// ==============================================================================================

package value

import (
	"strconv"
	"strings"

	"github.com/d0si/deltascript/errors"
)

// FindChild returns the owning Reference named name, or nil if there is
// none. The synthetic "length" child is computed on demand for String and
// Array Values and returned as a fresh transient Reference rather than a
// stored child.
func (v *Value) FindChild(name string) *Reference {
	if ref, ok := v.children[name]; ok {
		return ref
	}
	if name == "length" {
		switch v.kind {
		case Array:
			return NewReference(NewInt(v.arraySize()), "length")
		case String:
			return NewReference(NewInt(len(v.stringData)), "length")
		}
	}
	return nil
}

func (v *Value) arraySize() int {
	highest := -1
	for name := range v.children {
		n, err := strconv.Atoi(name)
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// FindOrCreateChild returns the existing child named name, or adds and
// returns a fresh Value of kind on miss.
func (v *Value) FindOrCreateChild(name string, kind Kind) *Reference {
	if ref := v.FindChild(name); ref != nil {
		return ref
	}
	child := &Value{kind: kind}
	return v.AddChild(name, child)
}

// FindOrCreateChildByPath walks a dotted path ("a.b.c"), creating Object
// children along the way as needed, and returns the Reference for the
// final segment.
func (v *Value) FindOrCreateChildByPath(path string) *Reference {
	dot := strings.IndexByte(path, '.')
	if dot < 0 {
		return v.FindOrCreateChild(path, Undefined)
	}
	head, rest := path[:dot], path[dot+1:]
	ref := v.FindOrCreateChild(head, Object)
	return ref.Value().FindOrCreateChildByPath(rest)
}

// AddChild inserts child under name. If a child of that name already
// exists, its Value payload is replaced in place via ReplaceWith (the
// existing Reference's identity — and anything else already holding it —
// survives); otherwise a new owning Reference is appended to the sibling
// list. Adding a child to an Undefined Value promotes it to Object.
func (v *Value) AddChild(name string, child *Value) *Reference {
	if v.kind == Undefined {
		v.kind = Object
	}
	if child == nil {
		child = NewUndefined()
	}

	if existing, ok := v.children[name]; ok {
		// ReplaceWith rebinds existing to child first and only fails if
		// releasing the prior Value finds its refcount already at zero;
		// AddChild has no error return of its own, so that error is dropped
		// and existing stays bound to child.
		_ = existing.ReplaceWith(child)
		return existing
	}

	ref := NewReference(child, name)
	ref.owner = true

	if v.children == nil {
		v.children = make(map[string]*Reference)
	}
	if v.lastChild == nil {
		v.firstChild, v.lastChild = ref, ref
	} else {
		v.lastChild.nextSibling = ref
		ref.prevSibling = v.lastChild
		v.lastChild = ref
	}
	v.children[name] = ref
	return ref
}

// RemoveChild unlinks the child named name from this Value, releasing its
// Value. It fails with a ReferenceError if no such child exists.
func (v *Value) RemoveChild(name string) error {
	ref, ok := v.children[name]
	if !ok {
		return errors.NewReferenceError("removing non-existent child '" + name + "'")
	}
	return v.RemoveReference(ref)
}

// RemoveReference unlinks ref from both the child map and the sibling
// list and releases its Value.
func (v *Value) RemoveReference(ref *Reference) error {
	if ref == nil {
		return nil
	}
	if _, ok := v.children[ref.Name]; !ok {
		return errors.NewReferenceError("cannot remove a reference that does not exist on this value")
	}
	delete(v.children, ref.Name)

	if ref.nextSibling != nil {
		ref.nextSibling.prevSibling = ref.prevSibling
	}
	if ref.prevSibling != nil {
		ref.prevSibling.nextSibling = ref.nextSibling
	}
	if v.firstChild == ref {
		v.firstChild = ref.nextSibling
	}
	if v.lastChild == ref {
		v.lastChild = ref.prevSibling
	}
	ref.nextSibling, ref.prevSibling = nil, nil

	return ref.Release()
}

// Detach unlinks the child named name from v without releasing it:
// ownership transfers to the caller, who now holds the sole reference.
// Used to extract a call frame's "return" child before the frame itself
// is torn down, so the result survives the frame's destruction.
func (v *Value) Detach(name string) *Reference {
	ref, ok := v.children[name]
	if !ok {
		return nil
	}
	delete(v.children, name)

	if ref.nextSibling != nil {
		ref.nextSibling.prevSibling = ref.prevSibling
	}
	if ref.prevSibling != nil {
		ref.prevSibling.nextSibling = ref.nextSibling
	}
	if v.firstChild == ref {
		v.firstChild = ref.nextSibling
	}
	if v.lastChild == ref {
		v.lastChild = ref.prevSibling
	}
	ref.nextSibling, ref.prevSibling = nil, nil
	ref.owner = false
	return ref
}

// Children returns the owning References of v in insertion order, walking
// the sibling list rather than the (unordered) map.
func (v *Value) Children() []*Reference {
	var out []*Reference
	for ref := v.firstChild; ref != nil; ref = ref.nextSibling {
		out = append(out, ref)
	}
	return out
}

// ChildrenCount reports the number of named children.
func (v *Value) ChildrenCount() int { return len(v.children) }

// copySimpleDataFrom copies only the scalar payload from other, matching
// its kind, leaving children untouched.
func (v *Value) copySimpleDataFrom(other *Value) {
	v.kind = other.kind
	v.native = other.native
	v.intData = other.intData
	v.doubleData = other.doubleData
	v.stringData = other.stringData
	v.params = other.params
	v.body = other.body
	v.nativeCallback = other.nativeCallback
	v.nativeUserdata = other.nativeUserdata
}

// DeepCopy clones v's scalar payload and every non-"prototype" child,
// recursively. The "prototype" child, if present, is shared rather than
// cloned — by design the sole cycle hazard in the value graph.
func (v *Value) DeepCopy() *Value {
	out := &Value{}
	out.copySimpleDataFrom(v)

	for _, ref := range v.Children() {
		var childCopy *Value
		if ref.Name == "prototype" {
			childCopy = ref.Value()
		} else {
			childCopy = ref.Value().DeepCopy()
		}
		out.AddChild(ref.Name, childCopy)
	}
	return out
}

// CopyFrom overwrites v's payload and children with a deep copy of other's
// (or resets v to Undefined if other is nil).
func (v *Value) CopyFrom(other *Value) {
	if other == nil {
		v.SetUndefined()
		return
	}
	v.copySimpleDataFrom(other)
	v.removeAllChildren()

	for _, ref := range other.Children() {
		var childCopy *Value
		if ref.Name == "prototype" {
			childCopy = ref.Value()
		} else {
			childCopy = ref.Value().DeepCopy()
		}
		v.AddChild(ref.Name, childCopy)
	}
}

// SetUndefined resets v to a childless Undefined Value.
func (v *Value) SetUndefined() {
	v.kind = Undefined
	v.native = false
	v.intData, v.doubleData, v.stringData = 0, 0, ""
	v.params, v.body = nil, ""
	v.nativeCallback, v.nativeUserdata = nil, nil
	v.removeAllChildren()
}

func (v *Value) removeAllChildren() {
	v.children = nil
	v.firstChild, v.lastChild = nil, nil
}
