// ==============================================================================================
// FILE: eval/statement.go
// ==============================================================================================
// PACKAGE: eval
// PURPOSE: Statement-level dispatch and the compound statements (blocks, var declarations, if,
//          while, for, return, function declarations). While/for loops capture their condition,
//          step, and body spans as sub-lexers after running the first pass inline, then replay
//          those spans on every subsequent iteration by swapping them into the evaluator's cursor.
// ==============================================================================================

package eval

import (
	"github.com/d0si/deltascript/token"
	"github.com/d0si/deltascript/value"
)

// processStatement dispatches on the current token's kind to the
// statement form it starts, or to a bare expression statement for the
// token kinds that can open one.
func (e *Evaluator) processStatement(executing *bool) error {
	switch e.lex.CurrentKind {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.MINUS:
		ref, err := e.parseBase(*executing)
		if err != nil {
			return err
		}
		if err := releaseIfTransient(ref); err != nil {
			return err
		}
		return e.lex.Expect(token.SEMI)

	case token.LBRACE:
		return e.processBlock(executing)

	case token.SEMI:
		return e.lex.Advance()

	case token.VAR_K:
		return e.processVarDecl(*executing)

	case token.IF_K:
		return e.processIf(executing)

	case token.WHILE_K:
		return e.processWhile(executing)

	case token.FOR_K:
		return e.processFor(executing)

	case token.RETURN_K:
		return e.processReturn(executing)

	case token.FUNCTION_K:
		return e.processFunctionDeclStatement(*executing)

	default:
		return e.lex.Expect(token.EOS)
	}
}

// processBlock parses a brace-delimited statement list.
func (e *Evaluator) processBlock(executing *bool) error {
	if err := e.lex.Expect(token.LBRACE); err != nil {
		return err
	}
	for e.lex.CurrentKind != token.RBRACE {
		if e.lex.CurrentKind == token.EOS {
			return e.syntaxErr("}")
		}
		if err := e.processStatement(executing); err != nil {
			return err
		}
	}
	return e.lex.Expect(token.RBRACE)
}

// processVarDecl parses "var path[.path...] [= expr][, ...];". A dotted
// path creates intermediate Object children as needed, via the same
// FindOrCreateChildByPath that Context.RegisterNative uses for dotted names.
func (e *Evaluator) processVarDecl(executing bool) error {
	if err := e.lex.Expect(token.VAR_K); err != nil {
		return err
	}
	for {
		if e.lex.CurrentKind != token.IDENT {
			return e.syntaxErr("identifier")
		}
		path := e.lex.CurrentValue
		if err := e.lex.Advance(); err != nil {
			return err
		}
		for e.lex.CurrentKind == token.DOT {
			if err := e.lex.Advance(); err != nil {
				return err
			}
			if e.lex.CurrentKind != token.IDENT {
				return e.syntaxErr("identifier")
			}
			path += "." + e.lex.CurrentValue
			if err := e.lex.Advance(); err != nil {
				return err
			}
		}

		var target *value.Reference
		if executing {
			target = e.currentScope().FindOrCreateChildByPath(path)
		}

		if e.lex.CurrentKind == token.ASSIGN {
			if err := e.lex.Advance(); err != nil {
				return err
			}
			initRef, err := e.parseBase(executing)
			if err != nil {
				return err
			}
			if executing {
				if err := target.ReplaceWith(valueForBinding(initRef.Value())); err != nil {
					return err
				}
			}
			if err := releaseIfTransient(initRef); err != nil {
				return err
			}
		}

		if e.lex.CurrentKind != token.COMMA {
			break
		}
		if err := e.lex.Advance(); err != nil {
			return err
		}
	}
	return e.lex.Expect(token.SEMI)
}

// processIf parses "if (cond) then [else else_]". The untaken branch is
// parsed with a throwaway, always-false executing flag -- a return inside
// it must not be able to flip the outer flag.
func (e *Evaluator) processIf(executing *bool) error {
	if err := e.lex.Expect(token.IF_K); err != nil {
		return err
	}
	if err := e.lex.Expect(token.LPAREN); err != nil {
		return err
	}
	condRef, err := e.parseBase(*executing)
	if err != nil {
		return err
	}
	condTrue := *executing && condRef.Value().AsBool()
	if err := releaseIfTransient(condRef); err != nil {
		return err
	}
	if err := e.lex.Expect(token.RPAREN); err != nil {
		return err
	}

	thenFlag := new(bool)
	if condTrue {
		thenFlag = executing
	}
	if err := e.processStatement(thenFlag); err != nil {
		return err
	}

	if e.lex.CurrentKind == token.ELSE_K {
		if err := e.lex.Advance(); err != nil {
			return err
		}
		elseFlag := new(bool)
		if *executing && !condTrue {
			elseFlag = executing
		}
		if err := e.processStatement(elseFlag); err != nil {
			return err
		}
	}
	return nil
}

// processWhile parses "while (cond) body". The first condition evaluation
// and (if true) the first body execution happen inline, during which
// their source spans are captured via sub-lexers; every subsequent
// iteration replays those spans by swapping them into e.lex and resetting.
func (e *Evaluator) processWhile(executing *bool) error {
	if err := e.lex.Expect(token.WHILE_K); err != nil {
		return err
	}
	if err := e.lex.Expect(token.LPAREN); err != nil {
		return err
	}

	condStart := e.lex.CurrentTokenStart
	condRef, err := e.parseBase(*executing)
	if err != nil {
		return err
	}
	condTrue := *executing && condRef.Value().AsBool()
	if err := releaseIfTransient(condRef); err != nil {
		return err
	}
	condLex, err := e.lex.SubLexer(condStart)
	if err != nil {
		return err
	}
	if err := e.lex.Expect(token.RPAREN); err != nil {
		return err
	}

	bodyStart := e.lex.CurrentTokenStart
	bodyFlag := new(bool)
	if condTrue {
		bodyFlag = executing
	}
	if err := e.processStatement(bodyFlag); err != nil {
		return err
	}
	bodyLex, err := e.lex.SubLexer(bodyStart)
	if err != nil {
		return err
	}

	outerLex := e.lex
	defer func() { e.lex = outerLex }()

	// The inline body pass above already ran iteration 1 when condTrue;
	// this replay loop only re-checks before iteration 2 onward. Gating
	// entry on condTrue (rather than letting *executing alone admit the
	// loop) avoids a condition re-evaluation that the zero-iteration case
	// would otherwise pay with nothing having run in between -- matching
	// a condition that only ever evaluates once per attempted iteration.
	for condTrue && *executing {
		if err := condLex.Reset(); err != nil {
			return err
		}
		e.lex = condLex
		cRef, err := e.parseBase(true)
		if err != nil {
			return err
		}
		again := cRef.Value().AsBool()
		if err := releaseIfTransient(cRef); err != nil {
			return err
		}
		if !again {
			break
		}

		if err := bodyLex.Reset(); err != nil {
			return err
		}
		e.lex = bodyLex
		if err := e.processStatement(executing); err != nil {
			return err
		}
	}

	e.lex = outerLex
	return nil
}

// processFor parses "for (init; cond; step) body", following the same
// capture-then-replay pattern as processWhile for the condition, step,
// and body spans. The step span is captured with a non-executing dry
// parse (it cannot run before the loop's first iteration); if that first
// iteration did run (via the inline body execution below), the step runs
// once before the main replay loop begins.
func (e *Evaluator) processFor(executing *bool) error {
	if err := e.lex.Expect(token.FOR_K); err != nil {
		return err
	}
	if err := e.lex.Expect(token.LPAREN); err != nil {
		return err
	}

	initExecuting := *executing
	if err := e.processStatement(&initExecuting); err != nil {
		return err
	}

	condStart := e.lex.CurrentTokenStart
	condRef, err := e.parseBase(*executing)
	if err != nil {
		return err
	}
	condTrue := *executing && condRef.Value().AsBool()
	if err := releaseIfTransient(condRef); err != nil {
		return err
	}
	condLex, err := e.lex.SubLexer(condStart)
	if err != nil {
		return err
	}
	if err := e.lex.Expect(token.SEMI); err != nil {
		return err
	}

	stepStart := e.lex.CurrentTokenStart
	if err := e.parseBaseDiscard(false); err != nil {
		return err
	}
	stepLex, err := e.lex.SubLexer(stepStart)
	if err != nil {
		return err
	}
	if err := e.lex.Expect(token.RPAREN); err != nil {
		return err
	}

	bodyStart := e.lex.CurrentTokenStart
	bodyFlag := new(bool)
	if condTrue {
		bodyFlag = executing
	}
	if err := e.processStatement(bodyFlag); err != nil {
		return err
	}
	bodyLex, err := e.lex.SubLexer(bodyStart)
	if err != nil {
		return err
	}

	outerLex := e.lex
	defer func() { e.lex = outerLex }()

	if condTrue {
		if err := stepLex.Reset(); err != nil {
			return err
		}
		e.lex = stepLex
		if err := e.parseBaseDiscard(*executing); err != nil {
			return err
		}
	}

	// As in processWhile, gating on condTrue (rather than *executing
	// alone) skips a redundant condition re-evaluation when the loop
	// already ran zero iterations.
	for condTrue && *executing {
		if err := condLex.Reset(); err != nil {
			return err
		}
		e.lex = condLex
		cRef, err := e.parseBase(true)
		if err != nil {
			return err
		}
		again := cRef.Value().AsBool()
		if err := releaseIfTransient(cRef); err != nil {
			return err
		}
		if !again {
			break
		}

		if err := bodyLex.Reset(); err != nil {
			return err
		}
		e.lex = bodyLex
		if err := e.processStatement(executing); err != nil {
			return err
		}
		if !*executing {
			break
		}

		if err := stepLex.Reset(); err != nil {
			return err
		}
		e.lex = stepLex
		if err := e.parseBaseDiscard(true); err != nil {
			return err
		}
	}

	e.lex = outerLex
	return nil
}

// parseBaseDiscard parses one assignment-level expression and releases its
// result without returning it -- used for the for-loop step, whose value
// is never consumed by anything.
func (e *Evaluator) parseBaseDiscard(executing bool) error {
	ref, err := e.parseBase(executing)
	if err != nil {
		return err
	}
	return releaseIfTransient(ref)
}

// processReturn parses "return [expr];", binding expr's value (if any)
// into the current call frame's "return" child and clearing *executing so
// the enclosing block(s) stop running further statements.
func (e *Evaluator) processReturn(executing *bool) error {
	if err := e.lex.Expect(token.RETURN_K); err != nil {
		return err
	}

	var resultRef *value.Reference
	if e.lex.CurrentKind != token.SEMI {
		var err error
		resultRef, err = e.parseBase(*executing)
		if err != nil {
			return err
		}
	}

	if *executing {
		target := e.currentScope().FindChild("return")
		if e.ScopeDepth() < 2 || target == nil {
			return e.semanticErr("return used outside of a function call")
		}
		if resultRef != nil {
			if err := target.ReplaceWith(valueForBinding(resultRef.Value())); err != nil {
				return err
			}
		}
		*executing = false
	}

	if resultRef != nil {
		if err := releaseIfTransient(resultRef); err != nil {
			return err
		}
	}

	return e.lex.Expect(token.SEMI)
}

// processFunctionDeclStatement parses a named function declaration and
// adds it to the current scope.
func (e *Evaluator) processFunctionDeclStatement(executing bool) error {
	name, fn, err := e.parseFunctionDefinition()
	if err != nil {
		return err
	}
	if !executing {
		return nil
	}
	if name == "" {
		return e.semanticErr("function declaration requires a name")
	}
	e.currentScope().AddChild(name, fn)
	return nil
}
