// ==============================================================================================
// FILE: eval/eval.go
// ==============================================================================================
// PACKAGE: eval
// PURPOSE: The interleaved recursive-descent parser/evaluator: a single pass over the token
//          stream that builds and mutates the value tree directly, with no intermediate AST. An
//          "executing" flag threads through every recursive call so dead branches (the untaken
//          arm of an if, a short-circuited logic operand, a skipped loop body) are still parsed
//          for structural correctness but produce no side effects on Values.
// ==============================================================================================

package eval

import (
	"github.com/d0si/deltascript/errors"
	"github.com/d0si/deltascript/lexer"
	"github.com/d0si/deltascript/token"
	"github.com/d0si/deltascript/value"
)

// Evaluator holds the mutable state threaded through a parse-and-evaluate
// pass: the current lexer cursor and the scope stack. A scope is just an
// Object Value; the bottom entry is always the root (global) scope, and
// call frames are pushed/popped on top of it in balanced pairs.
type Evaluator struct {
	lex    *lexer.Lexer
	scopes []*value.Value
}

// NewEvaluator returns an Evaluator reading from lex, with root as the
// sole (global) scope.
func NewEvaluator(lex *lexer.Lexer, root *value.Value) *Evaluator {
	return &Evaluator{lex: lex, scopes: []*value.Value{root}}
}

// Lexer returns the evaluator's current lexer cursor.
func (e *Evaluator) Lexer() *lexer.Lexer { return e.lex }

// SwapLexer installs lex as the current cursor and returns the previous
// one, so a caller (the embedding Context) can save and restore it around
// a nested execute call.
func (e *Evaluator) SwapLexer(lex *lexer.Lexer) *lexer.Lexer {
	old := e.lex
	e.lex = lex
	return old
}

// RootScope returns the bottom-most (global) scope.
func (e *Evaluator) RootScope() *value.Value { return e.rootScope() }

// ScopeDepth reports the current height of the scope stack. Used by
// processReturn to detect a return with no enclosing call frame.
func (e *Evaluator) ScopeDepth() int { return len(e.scopes) }

// SwapScopes installs scopes as the current scope stack and returns the
// previous one. The embedding Context uses this to run a fresh top-level
// statement stream against just the root scope -- even when called
// re-entrantly from a native callback mid-call, where the "current" stack
// would otherwise still have that call's frame on top -- and to restore
// the caller's stack afterward.
func (e *Evaluator) SwapScopes(scopes []*value.Value) []*value.Value {
	old := e.scopes
	e.scopes = scopes
	return old
}

// Run executes statements from the current lexer position through end of
// stream.
func (e *Evaluator) Run() error {
	executing := true
	for e.lex.CurrentKind != token.EOS {
		if err := e.processStatement(&executing); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) pushScope(scope *value.Value) {
	e.scopes = append(e.scopes, scope)
}

func (e *Evaluator) popScope() *value.Value {
	n := len(e.scopes) - 1
	scope := e.scopes[n]
	e.scopes = e.scopes[:n]
	return scope
}

func (e *Evaluator) currentScope() *value.Value { return e.scopes[len(e.scopes)-1] }
func (e *Evaluator) rootScope() *value.Value    { return e.scopes[0] }

// lookup scans the scope stack top to bottom for name and returns the
// first hit -- the real owning Reference, not a copy. A miss returns a
// transient, unowned Reference carrying only the name; assigning to it
// auto-promotes the name to a root-scope global (see parseBase).
func (e *Evaluator) lookup(name string) *value.Reference {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if ref := e.scopes[i].FindChild(name); ref != nil {
			return ref
		}
	}
	return value.NewReference(nil, name)
}

// releaseIfTransient releases ref unless it is an owning Reference linked
// into some Value's sibling list. Expression evaluation routinely returns
// the real scope- or object-owned Reference for a plain identifier or
// member read (not a disposable copy of it, since Value.FindChild hands
// back the stored Reference itself); releasing that unconditionally would
// unlink and destroy a live variable binding out from under its parent.
// Every release site in this package goes through this guard instead of
// calling Reference.Release directly.
func releaseIfTransient(ref *value.Reference) error {
	if ref == nil || ref.IsOwner() {
		return nil
	}
	return ref.Release()
}

// isCompoundKind reports whether v is passed by reference (Object, Array,
// Function) rather than by value (the scalar kinds) across a function
// call boundary.
func isCompoundKind(v *value.Value) bool {
	switch v.Kind() {
	case value.Object, value.Array, value.Function:
		return true
	default:
		return false
	}
}

// valueForBinding returns the Value to bind into a new owning slot
// (assignment, var initializer, return): compound values are shared by
// reference, the same as across a call boundary, while scalar values are
// deep-copied so that each variable naming a scalar holds its own Value
// rather than sharing one with the variable it was read from.
func valueForBinding(v *value.Value) *value.Value {
	if v == nil || isCompoundKind(v) {
		return v
	}
	return v.DeepCopy()
}

func (e *Evaluator) syntaxErr(expected string) error {
	return errors.NewSyntaxError(
		"unexpected token",
		e.lex.Source(),
		errors.Locate(e.lex.Source(), e.lex.CurrentTokenStart),
		expected,
		e.lex.CurrentKind.String(),
	)
}

func (e *Evaluator) semanticErr(message string) error {
	return errors.NewSemanticError(message, e.lex.Source(), errors.Locate(e.lex.Source(), e.lex.CurrentTokenStart))
}
