// ==============================================================================================
// FILE: value/reference.go
// ==============================================================================================
// PACKAGE: value
// PURPOSE: Reference is a named, refcounted pointer to a Value. Owning References are threaded
//          into their parent's doubly-linked sibling list (for insertion-ordered iteration) and
//          are released together with the parent; transient References are returned from
//          expression evaluation and released by whoever receives them.
// ==============================================================================================

package value

import "github.com/d0si/deltascript/errors"

// Reference names a Value. owner marks a Reference that is one of a
// parent Value's children (linked into that parent's sibling list); a
// non-owning Reference is transient — e.g. the result of evaluating an
// expression, or a lookup that found nothing and carries only a name.
type Reference struct {
	Name  string
	owner bool
	val   *Value

	nextSibling *Reference
	prevSibling *Reference
}

// NewReference wraps val in a new, non-owning Reference and increments
// val's refcount. val may be nil, producing an unnamed reference with no
// backing value (used for failed scope lookups prior to auto-promotion).
func NewReference(val *Value, name string) *Reference {
	ref := &Reference{Name: name}
	if val != nil {
		val.refCount++
	}
	ref.val = val
	return ref
}

// Value returns the Value this Reference points to, or nil if the
// reference is a bare name with no backing Value.
func (r *Reference) Value() *Value { return r.val }

// IsOwner reports whether this Reference is linked into its Value's
// parent as a named child (as opposed to a transient result Reference).
func (r *Reference) IsOwner() bool { return r.owner }

// ReplaceWith rebinds this Reference to point at newValue instead of its
// current Value, releasing the old Value and adopting the new one.
//
// newValue may already be owned by any number of other References:
// compound (Object/Array/Function) values are shared by reference across
// assignment, var initializers, returns and call arguments alike (see
// eval.valueForBinding and the call-argument binding in eval/function.go),
// so a Value legitimately picks up owners one at a time as more variables
// come to name it. ReplaceWith only manages newValue's refcount and the
// old Value's teardown; it does not gate on how many owners newValue
// already has.
//
// (An earlier version of this check rejected any newValue with more than
// one owner, modeled on the original engine's `new_value->get_ref_count()`
// guard. That rejected a third or later alias of the same scalar or object
// — e.g. `var a = 1; var b = a; var c = a;` — which is valid: a and b
// already own the Integer or Object referenced by initRef before c's
// declaration even runs. The guard was removed rather than special-cased
// further, since legitimate aliasing has no fixed owner-count ceiling.)
func (r *Reference) ReplaceWith(newValue *Value) error {
	old := r.val
	if newValue != nil {
		newValue.refCount++
	}
	r.val = newValue
	if old != nil {
		return releaseValue(old)
	}
	return nil
}

// ReplaceWithReference is ReplaceWith taking its new value from another
// Reference (or a fresh Undefined if ref is nil).
func (r *Reference) ReplaceWithReference(ref *Reference) error {
	if ref != nil {
		return r.ReplaceWith(ref.Value())
	}
	return r.ReplaceWith(NewUndefined())
}

// Release decrements the refcount of the Value this Reference points to,
// destroying it (and recursively releasing its owned children) if the
// count reaches zero. Release is a no-op on a Reference with no backing
// Value.
func (r *Reference) Release() error {
	if r.val == nil {
		return nil
	}
	err := releaseValue(r.val)
	r.val = nil
	return err
}

// releaseValue decrements val's refcount and, if it reaches zero,
// recursively releases every owned child reference before the Value
// itself is discarded.
func releaseValue(val *Value) error {
	if val.refCount <= 0 {
		return errors.NewReferenceError("refcount decremented below zero for a value of kind " + val.kind.String())
	}
	val.refCount--
	if val.refCount > 0 {
		return nil
	}
	for child := val.firstChild; child != nil; {
		next := child.nextSibling
		if err := child.Release(); err != nil {
			return err
		}
		child = next
	}
	return nil
}
