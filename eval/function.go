// ==============================================================================================
// FILE: eval/function.go
// ==============================================================================================
// PACKAGE: eval
// PURPOSE: Function literal/declaration parsing (capturing a script body's source verbatim for
//          later re-lexing) and call-site handling: frame construction, this-binding, argument
//          passing, and dispatch to native or script bodies.
// ==============================================================================================

package eval

import (
	"github.com/d0si/deltascript/lexer"
	"github.com/d0si/deltascript/token"
	"github.com/d0si/deltascript/value"
)

// parseFunctionDefinition parses "function [name](params...) { body }" and
// always structurally validates the body (as a non-executing pass), since
// a script function's body is only actually run when it is later called.
// It returns the declared name, or "" for an anonymous function literal.
func (e *Evaluator) parseFunctionDefinition() (string, *value.Value, error) {
	if err := e.lex.Expect(token.FUNCTION_K); err != nil {
		return "", nil, err
	}

	name := ""
	if e.lex.CurrentKind == token.IDENT {
		name = e.lex.CurrentValue
		if err := e.lex.Advance(); err != nil {
			return "", nil, err
		}
	}

	if err := e.lex.Expect(token.LPAREN); err != nil {
		return "", nil, err
	}
	var params []string
	for e.lex.CurrentKind != token.RPAREN {
		if e.lex.CurrentKind != token.IDENT {
			return "", nil, e.syntaxErr("parameter name")
		}
		params = append(params, e.lex.CurrentValue)
		if err := e.lex.Advance(); err != nil {
			return "", nil, err
		}
		if e.lex.CurrentKind == token.COMMA {
			if err := e.lex.Advance(); err != nil {
				return "", nil, err
			}
		}
	}
	if err := e.lex.Expect(token.RPAREN); err != nil {
		return "", nil, err
	}

	if e.lex.CurrentKind != token.LBRACE {
		return "", nil, e.syntaxErr("{")
	}
	bodyStart := e.lex.CurrentTokenStart
	noExecute := false
	if err := e.processBlock(&noExecute); err != nil {
		return "", nil, err
	}
	body := e.lex.SubString(bodyStart)

	return name, value.NewScriptFunction(params, body), nil
}

// parseCall parses a "(...)" argument list and invokes fnRef as a
// function, with thisVal bound as the call's receiver if the callee was
// reached through a member/index access. Scalar arguments are deep-copied
// into the frame (independent of the caller's variable); compound
// arguments (Object/Array/Function) are shared by reference.
func (e *Evaluator) parseCall(fnRef *value.Reference, thisVal *value.Value, executing bool) (*value.Reference, error) {
	if err := e.lex.Expect(token.LPAREN); err != nil {
		return nil, err
	}

	var argRefs []*value.Reference
	for e.lex.CurrentKind != token.RPAREN {
		argRef, err := e.parseBase(executing)
		if err != nil {
			return nil, err
		}
		argRefs = append(argRefs, argRef)
		if e.lex.CurrentKind == token.COMMA {
			if err := e.lex.Advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := e.lex.Expect(token.RPAREN); err != nil {
		return nil, err
	}

	if !executing {
		for _, a := range argRefs {
			if err := releaseIfTransient(a); err != nil {
				return nil, err
			}
		}
		if err := releaseIfTransient(fnRef); err != nil {
			return nil, err
		}
		return value.NewReference(value.NewUndefined(), ""), nil
	}

	fn := fnRef.Value()
	if fn == nil || !fn.IsFunction() {
		return nil, e.semanticErr("cannot call a non-function value '" + fnRef.Name + "'")
	}

	frame := value.NewObject()
	if thisVal != nil {
		frame.AddChild("this", thisVal)
	}

	params := fn.Params()
	for i, paramName := range params {
		var argVal *value.Value
		switch {
		case i < len(argRefs) && isCompoundKind(argRefs[i].Value()):
			argVal = argRefs[i].Value()
		case i < len(argRefs):
			argVal = argRefs[i].Value().DeepCopy()
		default:
			argVal = value.NewUndefined()
		}
		frame.AddChild(paramName, argVal)
	}
	for _, a := range argRefs {
		if err := releaseIfTransient(a); err != nil {
			return nil, err
		}
	}
	frame.AddChild("return", value.NewUndefined())

	if err := releaseIfTransient(fnRef); err != nil {
		return nil, err
	}

	frameRef := value.NewReference(frame, "")
	e.pushScope(frame)
	fn.IncrementExecutionCount()

	var callErr error
	if fn.IsNative() {
		callback, userdata := fn.Native()
		callErr = callback(frame, userdata)
	} else {
		bodyLex, lerr := lexer.New(fn.Body())
		if lerr != nil {
			callErr = lerr
		} else {
			outer := e.SwapLexer(bodyLex)
			bodyExecuting := true
			callErr = e.processBlock(&bodyExecuting)
			e.SwapLexer(outer)
		}
	}

	e.popScope()

	if callErr != nil {
		if err := releaseIfTransient(frameRef); err != nil {
			return nil, err
		}
		return nil, callErr
	}

	resultRef := frame.Detach("return")
	if err := releaseIfTransient(frameRef); err != nil {
		return nil, err
	}
	return resultRef, nil
}
