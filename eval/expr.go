// ==============================================================================================
// FILE: eval/expr.go
// ==============================================================================================
// PACKAGE: eval
// PURPOSE: The nine-level expression precedence cascade: assignment, ternary, logic, comparison,
//          shift, additive (with unary minus and postfix ++/--), multiplicative, unary not, and
//          factor (literals, identifiers, parenthesized expressions, member/index/call suffixes).
// ==============================================================================================

package eval

import (
	"strconv"
	"strings"

	"github.com/d0si/deltascript/token"
	"github.com/d0si/deltascript/value"
)

// parseBase is the entry point of the cascade: assignment. The left-hand
// side is parsed one level down so that plain reads flow straight through
// when no assignment operator follows; RHS recurses back into parseBase so
// chained assignment (a = b = 1) associates right to left.
func (e *Evaluator) parseBase(executing bool) (*value.Reference, error) {
	lhs, err := e.parseTernary(executing)
	if err != nil {
		return nil, err
	}

	switch e.lex.CurrentKind {
	case token.ASSIGN, token.PLUSEQ, token.MINUSEQ:
		op := e.lex.CurrentKind
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}
		rhs, err := e.parseBase(executing)
		if err != nil {
			return nil, err
		}
		if !executing {
			if err := releaseIfTransient(rhs); err != nil {
				return nil, err
			}
			return lhs, nil
		}

		target := lhs
		if lhs.Value() == nil {
			if lhs.Name == "" {
				return nil, e.semanticErr("invalid assignment target")
			}
			target = e.rootScope().FindOrCreateChild(lhs.Name, value.Undefined)
		} else if !lhs.IsOwner() {
			return nil, e.semanticErr("invalid assignment target")
		}

		switch op {
		case token.ASSIGN:
			if err := target.ReplaceWith(valueForBinding(rhs.Value())); err != nil {
				return nil, err
			}
		case token.PLUSEQ:
			sum, merr := target.Value().MathOp(rhs.Value(), token.PLUS)
			if merr != nil {
				return nil, e.semanticErr(merr.Error())
			}
			if err := target.ReplaceWith(sum); err != nil {
				return nil, err
			}
		case token.MINUSEQ:
			diff, merr := target.Value().MathOp(rhs.Value(), token.MINUS)
			if merr != nil {
				return nil, e.semanticErr(merr.Error())
			}
			if err := target.ReplaceWith(diff); err != nil {
				return nil, err
			}
		}

		if err := releaseIfTransient(rhs); err != nil {
			return nil, err
		}
		return target, nil
	}

	return lhs, nil
}

// parseTernary handles cond ? a : b. Both arms are always structurally
// parsed regardless of which one is taken, but the untaken arm is parsed
// with executing forced false so it has no side effects.
func (e *Evaluator) parseTernary(executing bool) (*value.Reference, error) {
	cond, err := e.parseLogic(executing)
	if err != nil {
		return nil, err
	}
	if e.lex.CurrentKind != token.COND {
		return cond, nil
	}
	condTrue := executing && cond.Value().AsBool()
	if err := releaseIfTransient(cond); err != nil {
		return nil, err
	}
	if err := e.lex.Expect(token.COND); err != nil {
		return nil, err
	}

	thenVal, err := e.parseBase(executing && condTrue)
	if err != nil {
		return nil, err
	}
	if err := e.lex.Expect(token.COLON); err != nil {
		return nil, err
	}
	elseVal, err := e.parseBase(executing && !condTrue)
	if err != nil {
		return nil, err
	}

	if !executing {
		if err := releaseIfTransient(thenVal); err != nil {
			return nil, err
		}
		if err := releaseIfTransient(elseVal); err != nil {
			return nil, err
		}
		return value.NewReference(value.NewUndefined(), ""), nil
	}
	if condTrue {
		if err := releaseIfTransient(elseVal); err != nil {
			return nil, err
		}
		return thenVal, nil
	}
	if err := releaseIfTransient(thenVal); err != nil {
		return nil, err
	}
	return elseVal, nil
}

// parseLogic handles the bitwise (&, |) and short-circuiting boolean (&&,
// ||) operators at a single precedence level.
func (e *Evaluator) parseLogic(executing bool) (*value.Reference, error) {
	lhs, err := e.parseCondition(executing)
	if err != nil {
		return nil, err
	}

	for e.lex.CurrentKind == token.BIT_AND || e.lex.CurrentKind == token.BIT_OR ||
		e.lex.CurrentKind == token.AND || e.lex.CurrentKind == token.OR {
		op := e.lex.CurrentKind
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}

		switch op {
		case token.BIT_AND, token.BIT_OR:
			rhs, err := e.parseCondition(executing)
			if err != nil {
				return nil, err
			}
			if !executing {
				if err := releaseIfTransient(rhs); err != nil {
					return nil, err
				}
				if err := releaseIfTransient(lhs); err != nil {
					return nil, err
				}
				lhs = value.NewReference(value.NewUndefined(), "")
				continue
			}
			result, merr := lhs.Value().MathOp(rhs.Value(), op)
			if merr != nil {
				return nil, e.semanticErr(merr.Error())
			}
			if err := releaseIfTransient(rhs); err != nil {
				return nil, err
			}
			if err := releaseIfTransient(lhs); err != nil {
				return nil, err
			}
			lhs = value.NewReference(result, "")

		case token.AND, token.OR:
			lhsTrue := executing && lhs.Value().AsBool()
			shortCircuit := (op == token.AND && !lhsTrue) || (op == token.OR && lhsTrue)
			rhs, err := e.parseCondition(executing && !shortCircuit)
			if err != nil {
				return nil, err
			}
			if !executing {
				if err := releaseIfTransient(rhs); err != nil {
					return nil, err
				}
				if err := releaseIfTransient(lhs); err != nil {
					return nil, err
				}
				lhs = value.NewReference(value.NewUndefined(), "")
				continue
			}
			var result bool
			switch {
			case shortCircuit:
				result = lhsTrue
			case op == token.AND:
				result = lhsTrue && rhs.Value().AsBool()
			default:
				result = lhsTrue || rhs.Value().AsBool()
			}
			if err := releaseIfTransient(rhs); err != nil {
				return nil, err
			}
			if err := releaseIfTransient(lhs); err != nil {
				return nil, err
			}
			lhs = value.NewReference(value.NewBool(result), "")
		}
	}
	return lhs, nil
}

func isConditionOp(k token.Kind) bool {
	switch k {
	case token.EQUAL, token.NEQUAL, token.STRICT_EQUAL, token.STRICT_NEQUAL,
		token.LT, token.LTE, token.GT, token.GTE:
		return true
	default:
		return false
	}
}

// parseCondition handles the equality and relational operators.
func (e *Evaluator) parseCondition(executing bool) (*value.Reference, error) {
	lhs, err := e.parseShift(executing)
	if err != nil {
		return nil, err
	}

	for isConditionOp(e.lex.CurrentKind) {
		op := e.lex.CurrentKind
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}
		rhs, err := e.parseShift(executing)
		if err != nil {
			return nil, err
		}
		if !executing {
			if err := releaseIfTransient(rhs); err != nil {
				return nil, err
			}
			if err := releaseIfTransient(lhs); err != nil {
				return nil, err
			}
			lhs = value.NewReference(value.NewUndefined(), "")
			continue
		}
		result, merr := lhs.Value().MathOp(rhs.Value(), op)
		if merr != nil {
			return nil, e.semanticErr(merr.Error())
		}
		if err := releaseIfTransient(rhs); err != nil {
			return nil, err
		}
		if err := releaseIfTransient(lhs); err != nil {
			return nil, err
		}
		lhs = value.NewReference(result, "")
	}
	return lhs, nil
}

// parseShift handles <<, >>, and the unsigned >>>, applied directly here
// (rather than through value.MathOp) since >>> needs the uint32 variant.
func (e *Evaluator) parseShift(executing bool) (*value.Reference, error) {
	lhs, err := e.parseExpression(executing)
	if err != nil {
		return nil, err
	}

	for e.lex.CurrentKind == token.SHL || e.lex.CurrentKind == token.SHR || e.lex.CurrentKind == token.USHR {
		op := e.lex.CurrentKind
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}
		rhs, err := e.parseExpression(executing)
		if err != nil {
			return nil, err
		}
		if !executing {
			if err := releaseIfTransient(rhs); err != nil {
				return nil, err
			}
			if err := releaseIfTransient(lhs); err != nil {
				return nil, err
			}
			lhs = value.NewReference(value.NewUndefined(), "")
			continue
		}
		left := lhs.Value().AsInt()
		right := uint(rhs.Value().AsInt())
		var result int
		switch op {
		case token.SHL:
			result = left << right
		case token.SHR:
			result = left >> right
		case token.USHR:
			result = int(uint32(left) >> right)
		}
		if err := releaseIfTransient(rhs); err != nil {
			return nil, err
		}
		if err := releaseIfTransient(lhs); err != nil {
			return nil, err
		}
		lhs = value.NewReference(value.NewInt(result), "")
	}
	return lhs, nil
}

// applyPostfix consumes a trailing ++ or -- on ref, in place, returning a
// fresh snapshot of the pre-increment/decrement value. ref must be an
// owning reference when executing, since the operand is rebound in place.
func (e *Evaluator) applyPostfix(ref *value.Reference, executing bool) (*value.Reference, error) {
	if e.lex.CurrentKind != token.PLUSPLUS && e.lex.CurrentKind != token.MINUSMIN {
		return ref, nil
	}
	op := e.lex.CurrentKind
	if err := e.lex.Advance(); err != nil {
		return nil, err
	}
	if !executing {
		return ref, nil
	}
	if !ref.IsOwner() {
		return nil, e.semanticErr("invalid increment/decrement target")
	}
	old := ref.Value().DeepCopy()
	delta := token.PLUS
	if op == token.MINUSMIN {
		delta = token.MINUS
	}
	updated, err := ref.Value().MathOp(value.NewInt(1), delta)
	if err != nil {
		return nil, e.semanticErr(err.Error())
	}
	if err := ref.ReplaceWith(updated); err != nil {
		return nil, err
	}
	return value.NewReference(old, ""), nil
}

// parseExpression handles a leading unary minus, the additive +/-
// operators, and postfix ++/-- on each operand.
func (e *Evaluator) parseExpression(executing bool) (*value.Reference, error) {
	var lhs *value.Reference

	if e.lex.CurrentKind == token.MINUS {
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}
		operand, err := e.parseTerm(executing)
		if err != nil {
			return nil, err
		}
		operand, err = e.applyPostfix(operand, executing)
		if err != nil {
			return nil, err
		}
		if !executing {
			if err := releaseIfTransient(operand); err != nil {
				return nil, err
			}
			lhs = value.NewReference(value.NewUndefined(), "")
		} else {
			result, merr := value.NewInt(0).MathOp(operand.Value(), token.MINUS)
			if merr != nil {
				return nil, e.semanticErr(merr.Error())
			}
			if err := releaseIfTransient(operand); err != nil {
				return nil, err
			}
			lhs = value.NewReference(result, "")
		}
	} else {
		var err error
		lhs, err = e.parseTerm(executing)
		if err != nil {
			return nil, err
		}
		lhs, err = e.applyPostfix(lhs, executing)
		if err != nil {
			return nil, err
		}
	}

	for e.lex.CurrentKind == token.PLUS || e.lex.CurrentKind == token.MINUS {
		op := e.lex.CurrentKind
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}
		rhs, err := e.parseTerm(executing)
		if err != nil {
			return nil, err
		}
		rhs, err = e.applyPostfix(rhs, executing)
		if err != nil {
			return nil, err
		}
		if !executing {
			if err := releaseIfTransient(rhs); err != nil {
				return nil, err
			}
			if err := releaseIfTransient(lhs); err != nil {
				return nil, err
			}
			lhs = value.NewReference(value.NewUndefined(), "")
			continue
		}
		result, merr := lhs.Value().MathOp(rhs.Value(), op)
		if merr != nil {
			return nil, e.semanticErr(merr.Error())
		}
		if err := releaseIfTransient(rhs); err != nil {
			return nil, err
		}
		if err := releaseIfTransient(lhs); err != nil {
			return nil, err
		}
		lhs = value.NewReference(result, "")
	}
	return lhs, nil
}

// parseTerm handles *, /, and %.
func (e *Evaluator) parseTerm(executing bool) (*value.Reference, error) {
	lhs, err := e.parseUnary(executing)
	if err != nil {
		return nil, err
	}

	for e.lex.CurrentKind == token.MUL || e.lex.CurrentKind == token.DIV || e.lex.CurrentKind == token.MOD {
		op := e.lex.CurrentKind
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}
		rhs, err := e.parseUnary(executing)
		if err != nil {
			return nil, err
		}
		if !executing {
			if err := releaseIfTransient(rhs); err != nil {
				return nil, err
			}
			if err := releaseIfTransient(lhs); err != nil {
				return nil, err
			}
			lhs = value.NewReference(value.NewUndefined(), "")
			continue
		}
		result, merr := lhs.Value().MathOp(rhs.Value(), op)
		if merr != nil {
			return nil, e.semanticErr(merr.Error())
		}
		if err := releaseIfTransient(rhs); err != nil {
			return nil, err
		}
		if err := releaseIfTransient(lhs); err != nil {
			return nil, err
		}
		lhs = value.NewReference(result, "")
	}
	return lhs, nil
}

// parseUnary handles the prefix logical-not operator.
func (e *Evaluator) parseUnary(executing bool) (*value.Reference, error) {
	if e.lex.CurrentKind != token.NOT {
		return e.parseFactor(executing)
	}
	if err := e.lex.Advance(); err != nil {
		return nil, err
	}
	operand, err := e.parseUnary(executing)
	if err != nil {
		return nil, err
	}
	if !executing {
		if err := releaseIfTransient(operand); err != nil {
			return nil, err
		}
		return value.NewReference(value.NewUndefined(), ""), nil
	}
	result := value.NewBool(!operand.Value().AsBool())
	if err := releaseIfTransient(operand); err != nil {
		return nil, err
	}
	return value.NewReference(result, ""), nil
}

// parseFactor handles the primary expressions: literals, identifiers,
// parenthesized expressions, object/array literal placeholders, and
// function literals -- each followed by its chain of member/index/call
// suffixes.
func (e *Evaluator) parseFactor(executing bool) (*value.Reference, error) {
	var ref *value.Reference

	switch e.lex.CurrentKind {
	case token.LPAREN:
		if err := e.lex.Expect(token.LPAREN); err != nil {
			return nil, err
		}
		inner, err := e.parseBase(executing)
		if err != nil {
			return nil, err
		}
		if err := e.lex.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		ref = inner

	case token.TRUE_K:
		ref = value.NewReference(value.NewBool(true), "")
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}

	case token.FALSE_K:
		ref = value.NewReference(value.NewBool(false), "")
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}

	case token.NULL_K:
		ref = value.NewReference(value.NewNull(), "")
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}

	case token.UNDEFINED_K:
		ref = value.NewReference(value.NewUndefined(), "")
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}

	case token.INT:
		n, perr := parseIntLiteral(e.lex.CurrentValue)
		if perr != nil {
			return nil, e.semanticErr(perr.Error())
		}
		ref = value.NewReference(value.NewInt(n), "")
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}

	case token.FLOAT:
		f, perr := strconv.ParseFloat(e.lex.CurrentValue, 64)
		if perr != nil {
			return nil, e.semanticErr("invalid float literal")
		}
		ref = value.NewReference(value.NewDouble(f), "")
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}

	case token.STRING:
		ref = value.NewReference(value.NewString(e.lex.CurrentValue), "")
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}

	case token.IDENT:
		name := e.lex.CurrentValue
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}
		if executing {
			ref = e.lookup(name)
		} else {
			ref = value.NewReference(nil, name)
		}

	case token.THIS_K:
		// "this" is bound as an ordinary child of the call frame (see
		// parseCall), so it resolves through the same scope-stack lookup
		// as any other identifier.
		if err := e.lex.Advance(); err != nil {
			return nil, err
		}
		if executing {
			ref = e.lookup("this")
		} else {
			ref = value.NewReference(nil, "this")
		}

	case token.LBRACE:
		if err := e.skipBalanced(token.LBRACE, token.RBRACE); err != nil {
			return nil, err
		}
		ref = value.NewReference(value.NewObject(), "")

	case token.LBRACK:
		if err := e.skipBalanced(token.LBRACK, token.RBRACK); err != nil {
			return nil, err
		}
		ref = value.NewReference(value.NewArray(), "")

	case token.FUNCTION_K:
		name, fn, err := e.parseFunctionDefinition()
		if err != nil {
			return nil, err
		}
		if name != "" {
			return nil, e.semanticErr("function declaration not allowed in expression position")
		}
		ref = value.NewReference(fn, "")

	default:
		return nil, e.syntaxErr("expression")
	}

	return e.parseSuffixes(ref, executing)
}

// parseSuffixes chains zero or more ., [...], and (...) suffixes onto cur,
// tracking the most recently accessed parent object so a subsequent call
// suffix can bind it as "this".
func (e *Evaluator) parseSuffixes(cur *value.Reference, executing bool) (*value.Reference, error) {
	var thisVal *value.Value
	for {
		switch e.lex.CurrentKind {
		case token.DOT:
			if err := e.lex.Expect(token.DOT); err != nil {
				return nil, err
			}
			if e.lex.CurrentKind != token.IDENT {
				return nil, e.syntaxErr("identifier")
			}
			name := e.lex.CurrentValue
			if err := e.lex.Advance(); err != nil {
				return nil, err
			}
			if executing {
				base := cur.Value()
				next := e.resolveMember(base, name)
				if err := releaseIfTransient(cur); err != nil {
					return nil, err
				}
				thisVal, cur = base, next
			} else {
				if err := releaseIfTransient(cur); err != nil {
					return nil, err
				}
				thisVal, cur = nil, value.NewReference(nil, name)
			}

		case token.LBRACK:
			if err := e.lex.Expect(token.LBRACK); err != nil {
				return nil, err
			}
			idxRef, err := e.parseBase(executing)
			if err != nil {
				return nil, err
			}
			if err := e.lex.Expect(token.RBRACK); err != nil {
				return nil, err
			}
			if executing {
				base := cur.Value()
				name := idxRef.Value().AsString()
				next := e.resolveMember(base, name)
				if err := releaseIfTransient(idxRef); err != nil {
					return nil, err
				}
				if err := releaseIfTransient(cur); err != nil {
					return nil, err
				}
				thisVal, cur = base, next
			} else {
				if err := releaseIfTransient(idxRef); err != nil {
					return nil, err
				}
				if err := releaseIfTransient(cur); err != nil {
					return nil, err
				}
				thisVal, cur = nil, value.NewReference(nil, "")
			}

		case token.LPAREN:
			result, err := e.parseCall(cur, thisVal, executing)
			if err != nil {
				return nil, err
			}
			cur, thisVal = result, nil

		default:
			return cur, nil
		}
	}
}

// resolveMember looks up name on base, falling back to base's prototype
// chain, and auto-vivifies an Undefined child on a total miss -- member
// access doubles as the heap's allocation path, matching the way plain
// identifier misses are left to the scope-stack lookup to handle
// differently (auto-promotion to a root global only on assignment).
func (e *Evaluator) resolveMember(base *value.Value, name string) *value.Reference {
	if base == nil {
		return value.NewReference(nil, name)
	}
	seen := map[*value.Value]bool{}
	for cur := base; cur != nil && !seen[cur]; {
		seen[cur] = true
		if ref := cur.FindChild(name); ref != nil {
			return ref
		}
		protoRef := cur.FindChild("prototype")
		if protoRef == nil {
			break
		}
		cur = protoRef.Value()
	}
	return base.FindOrCreateChild(name, value.Undefined)
}

// skipBalanced consumes a balanced open/close token pair, counting nesting
// depth, without interpreting its contents. Used for the object/array
// literal placeholders.
func (e *Evaluator) skipBalanced(open, close token.Kind) error {
	if err := e.lex.Expect(open); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		switch e.lex.CurrentKind {
		case open:
			depth++
		case close:
			depth--
		case token.EOS:
			return e.syntaxErr(close.String())
		}
		if err := e.lex.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// parseIntLiteral parses a decimal or 0x-prefixed hexadecimal integer
// literal's lexeme.
func parseIntLiteral(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseInt(s[2:], 16, 64)
		return int(n), err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return int(n), err
}
