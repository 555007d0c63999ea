// ==============================================================================================
// FILE: deltascript/context.go
// ==============================================================================================
// PACKAGE: deltascript
// PURPOSE: The embedding surface. A Context owns the root Value (global scope) and the single
//          Evaluator that reads against it; Execute re-enters that Evaluator with a fresh lexer
//          for each call, saving and restoring the outer lexer and scope stack so a native
//          callback can itself call back into Execute safely.
// ==============================================================================================

package deltascript

import (
	"fmt"
	"strings"

	"github.com/d0si/deltascript/eval"
	"github.com/d0si/deltascript/lexer"
	"github.com/d0si/deltascript/value"
)

// Context is a single instance of the scripting runtime: one root scope,
// one evaluator, any number of sequential Execute calls and native
// function registrations against it.
type Context struct {
	root *value.Value
	ev   *eval.Evaluator
}

// config accumulates Option settings before a Context is built. It exists
// so an Option can turn a default off (e.g. WithBuiltins(false)) instead
// of only being able to add behavior after the fact.
type config struct {
	builtins bool
}

// Option configures a Context at construction time.
type Option func(*config)

// WithBuiltins controls whether the standard library of native functions
// (print, len, append, readLine, upper, lower, split, join, str) is registered on a
// new Context. Enabled by default; pass WithBuiltins(false) for a bare
// interpreter with no preregistered globals.
func WithBuiltins(enabled bool) Option {
	return func(cfg *config) {
		cfg.builtins = enabled
	}
}

// New constructs a Context with an empty global scope and applies opts in
// order. Builtins are registered by default.
func New(opts ...Option) (*Context, error) {
	cfg := config{builtins: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	root := value.NewObject()
	emptyLex, err := lexer.New("")
	if err != nil {
		return nil, fmt.Errorf("deltascript: failed to initialize: %w", err)
	}

	c := &Context{
		root: root,
		ev:   eval.NewEvaluator(emptyLex, root),
	}

	if cfg.builtins {
		registerBuiltins(c)
	}
	return c, nil
}

// Root returns the Context's global scope, for callers that want to
// inspect or pre-populate globals directly.
func (c *Context) Root() *value.Value { return c.root }

// Execute runs source as a top-level statement stream through end of
// input, against the root scope. The Evaluator's current lexer and scope
// stack are both saved before running and restored afterward, so a native
// callback can call Execute again mid-script (when the evaluator's "real"
// current scope is that call's own frame, not root) without either
// corrupting the outer call's in-flight state or leaking the reentrant
// run's declarations into the suspended call frame.
func (c *Context) Execute(source string) error {
	lex, err := lexer.New(source)
	if err != nil {
		return err
	}

	savedLex := c.ev.SwapLexer(lex)
	savedScopes := c.ev.SwapScopes([]*value.Value{c.root})
	defer func() {
		c.ev.SwapScopes(savedScopes)
		c.ev.SwapLexer(savedLex)
	}()

	return c.ev.Run()
}

// RegisterNative parses signature against the grammar
// "function [path.]name(arg1, arg2, ...)", walking or creating
// intermediate Object children for a dotted path, and installs a Native
// Function Value under that name with the given callback and userdata.
func (c *Context) RegisterNative(signature string, callback value.NativeCallback, userdata any) error {
	path, params, err := parseNativeSignature(signature)
	if err != nil {
		return err
	}
	fn := value.NewNativeFunction(params, callback, userdata)
	target := c.root.FindOrCreateChildByPath(path)
	return target.ReplaceWith(fn)
}

// parseNativeSignature parses "function [path.]name(arg1, arg2)" into a
// dotted child path ("path.name") and an ordered parameter name list.
func parseNativeSignature(signature string) (path string, params []string, err error) {
	s := strings.TrimSpace(signature)
	s = strings.TrimPrefix(s, "function")
	s = strings.TrimSpace(s)

	open := strings.IndexByte(s, '(')
	closeParen := strings.LastIndexByte(s, ')')
	if open < 0 || closeParen < open {
		return "", nil, fmt.Errorf("deltascript: malformed native signature %q: missing arg list", signature)
	}

	path = strings.TrimSpace(s[:open])
	if path == "" {
		return "", nil, fmt.Errorf("deltascript: malformed native signature %q: missing name", signature)
	}

	argList := strings.TrimSpace(s[open+1 : closeParen])
	if argList != "" {
		for _, part := range strings.Split(argList, ",") {
			name := strings.TrimSpace(part)
			if name == "" {
				return "", nil, fmt.Errorf("deltascript: malformed native signature %q: empty argument name", signature)
			}
			params = append(params, name)
		}
	}
	return path, params, nil
}
