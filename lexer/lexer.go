// ==============================================================================================
// FILE: lexer/lexer.go
// ==============================================================================================
// PACKAGE: lexer
// PURPOSE: Scans a sub-range of a shared source buffer into a stream of tokens. Supports cloning
//          a cursor over a narrower sub-range (a "sub-lexer"), which the evaluator uses to snapshot
//          and re-execute loop condition/step/body spans and to capture function body text.
// ==============================================================================================

package lexer

import (
	"strconv"
	"strings"

	"github.com/d0si/deltascript/errors"
	"github.com/d0si/deltascript/token"
)

// Lexer scans source[start:end) one token at a time. It never scans a token
// past end, so a sub-lexer over a loop span cannot run on into the
// statements that follow it (only the fixed-width \x and octal escape
// reads in takeN may look beyond end).
type Lexer struct {
	source string
	start  int
	end    int
	pos    int // byte offset of the next unread character

	CurrentKind       token.Kind
	CurrentValue      string
	CurrentTokenStart int

	prevTokenEnd int // end offset of the token before Current*, for SubLexer/SubString
}

// New returns a lexer over the whole of source and reads its first token.
func New(source string) (*Lexer, error) {
	return newRange(source, 0, len(source))
}

func newRange(source string, start, end int) (*Lexer, error) {
	l := &Lexer{source: source, start: start, end: end, pos: start, prevTokenEnd: start}
	if err := l.Advance(); err != nil {
		return nil, err
	}
	return l, nil
}

// Source returns the full underlying buffer this lexer (or any of its
// sub-lexers) was constructed over; CurrentTokenStart and other offsets
// are relative to it.
func (l *Lexer) Source() string { return l.source }

// Reset rewinds the lexer to the start of its own range and reads its
// first token again. This is how the evaluator replays a loop's captured
// condition, step, and body spans on every iteration.
func (l *Lexer) Reset() error {
	l.pos = l.start
	l.prevTokenEnd = l.start
	return l.Advance()
}

// SubLexer returns a new lexer over the same underlying buffer, spanning
// from fromOffset up to the end of the previously consumed token (the one
// before the current token, which is not included). This is how
// the evaluator snapshots a loop's condition, step, and body spans before
// executing them.
func (l *Lexer) SubLexer(fromOffset int) (*Lexer, error) {
	return newRange(l.source, fromOffset, l.prevTokenEnd)
}

// SubString returns the raw text from fromOffset through the end of the
// previously consumed token, used to capture a function body's source.
func (l *Lexer) SubString(fromOffset int) string {
	if fromOffset > l.prevTokenEnd {
		return ""
	}
	return l.source[fromOffset:l.prevTokenEnd]
}

// Advance consumes the current token and scans the next one into
// CurrentKind/CurrentValue/CurrentTokenStart.
func (l *Lexer) Advance() error {
	l.prevTokenEnd = l.pos

	if err := l.skipTrivia(); err != nil {
		return err
	}

	start := l.pos
	if l.pos >= l.end {
		l.CurrentKind = token.EOS
		l.CurrentValue = ""
		l.CurrentTokenStart = start
		return nil
	}

	ch := l.source[l.pos]

	switch {
	case isIdentStart(ch):
		l.scanIdentifier(start)
	case isDigit(ch):
		l.scanNumber(start)
	case ch == '"':
		return l.scanString(start, '"')
	case ch == '\'':
		return l.scanString(start, '\'')
	default:
		if !l.scanPunctuator(start) {
			return errors.NewLexError(
				"unrecognized character '"+string(ch)+"'",
				l.source,
				errors.Locate(l.source, start),
			)
		}
	}
	return nil
}

// Expect fails with a syntax error unless the current token has kind;
// on success it advances past it.
func (l *Lexer) Expect(kind token.Kind) error {
	if l.CurrentKind != kind {
		return errors.NewSyntaxError(
			"unexpected token",
			l.source,
			errors.Locate(l.source, l.CurrentTokenStart),
			kind.String(),
			l.CurrentKind.String(),
		)
	}
	return l.Advance()
}

// --- trivia -----------------------------------------------------------------

func (l *Lexer) skipTrivia() error {
	for l.pos < l.end {
		ch := l.source[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.pos++
		case ch == '/' && l.peek(1) == '/':
			for l.pos < l.end && l.source[l.pos] != '\n' {
				l.pos++
			}
		case ch == '/' && l.peek(1) == '*':
			start := l.pos
			l.pos += 2
			closed := false
			for l.pos < l.end {
				if l.source[l.pos] == '*' && l.peek(1) == '/' {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				return errors.NewLexError("unterminated comment", l.source, errors.Locate(l.source, start))
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) peek(offset int) byte {
	if l.pos+offset >= l.end {
		return 0
	}
	return l.source[l.pos+offset]
}

// --- identifiers -------------------------------------------------------------

func (l *Lexer) scanIdentifier(start int) {
	l.pos++
	for l.pos < l.end && isIdentPart(l.source[l.pos]) {
		l.pos++
	}
	lexeme := l.source[start:l.pos]
	l.CurrentKind = token.LookupIdent(lexeme)
	l.CurrentValue = lexeme
	l.CurrentTokenStart = start
}

// --- numbers ------------------------------------------------------------------

func (l *Lexer) scanNumber(start int) {
	if l.source[l.pos] == '0' && l.peek(1) == 'x' {
		l.pos += 2
		for l.pos < l.end && isHexDigit(l.source[l.pos]) {
			l.pos++
		}
		l.CurrentKind = token.INT
		l.CurrentValue = l.source[start:l.pos]
		l.CurrentTokenStart = start
		return
	}

	isFloat := false
	for l.pos < l.end && isDigit(l.source[l.pos]) {
		l.pos++
	}
	if l.pos < l.end && l.source[l.pos] == '.' {
		isFloat = true
		l.pos++
		for l.pos < l.end && isDigit(l.source[l.pos]) {
			l.pos++
		}
	}
	if l.pos < l.end && (l.source[l.pos] == 'e' || l.source[l.pos] == 'E') {
		isFloat = true
		l.pos++
		if l.pos < l.end && (l.source[l.pos] == '+' || l.source[l.pos] == '-') {
			l.pos++
		}
		for l.pos < l.end && isDigit(l.source[l.pos]) {
			l.pos++
		}
	}

	l.CurrentValue = l.source[start:l.pos]
	l.CurrentTokenStart = start
	if isFloat {
		l.CurrentKind = token.FLOAT
	} else {
		l.CurrentKind = token.INT
	}
}

// --- strings --------------------------------------------------------------
//
// Double-quoted strings support only \n, \", and \\; any other escape passes
// the following character through literally. Single-quoted strings support a
// richer set -- \n \r \t \a \\ \' plus \xHH hex and \OOO (three-digit) octal
// byte escapes -- an asymmetry carried over unchanged.

func (l *Lexer) scanString(start int, quote byte) error {
	l.pos++ // opening quote
	var out strings.Builder

	for l.pos < l.end && l.source[l.pos] != quote {
		ch := l.source[l.pos]
		if ch != '\\' {
			out.WriteByte(ch)
			l.pos++
			continue
		}

		l.pos++
		if l.pos >= l.end {
			break
		}
		esc := l.source[l.pos]

		if quote == '"' {
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case '"':
				out.WriteByte('"')
			case '\\':
				out.WriteByte('\\')
			default:
				out.WriteByte(esc)
			}
			l.pos++
			continue
		}

		switch {
		case esc == 'n':
			out.WriteByte('\n')
			l.pos++
		case esc == 'a':
			out.WriteByte('\a')
			l.pos++
		case esc == 'r':
			out.WriteByte('\r')
			l.pos++
		case esc == 't':
			out.WriteByte('\t')
			l.pos++
		case esc == '\'':
			out.WriteByte('\'')
			l.pos++
		case esc == '\\':
			out.WriteByte('\\')
			l.pos++
		case esc == 'x':
			l.pos++
			hex := l.takeN(2)
			v, err := strconv.ParseUint(hex, 16, 8)
			if err != nil {
				return errors.NewLexError("invalid \\x escape", l.source, errors.Locate(l.source, start))
			}
			out.WriteByte(byte(v))
		case esc >= '0' && esc <= '7':
			oct := l.takeN(3)
			v, err := strconv.ParseUint(oct, 8, 8)
			if err != nil {
				return errors.NewLexError("invalid octal escape", l.source, errors.Locate(l.source, start))
			}
			out.WriteByte(byte(v))
		default:
			out.WriteByte(esc)
			l.pos++
		}
	}

	if l.pos >= l.end {
		return errors.NewLexError("unterminated string literal", l.source, errors.Locate(l.source, start))
	}
	l.pos++ // closing quote

	l.CurrentKind = token.STRING
	l.CurrentValue = out.String()
	l.CurrentTokenStart = start
	return nil
}

// takeN consumes up to n characters from the current position (without
// bounds-checking against end, matching the fixed-width reads of the
// original escape handling) and returns them.
func (l *Lexer) takeN(n int) string {
	s := l.pos
	e := s + n
	if e > len(l.source) {
		e = len(l.source)
	}
	l.pos = e
	return l.source[s:e]
}

// --- punctuators ------------------------------------------------------------
//
// Recognized greedily to the longest match; longer candidates are tried
// before shorter ones so "===" is never split into "==" + "=".

var punctuatorsByLength = [][]struct {
	lit  string
	kind token.Kind
}{
	4: {
		{">>>=", token.USHREQ},
	},
	3: {
		{"===", token.STRICT_EQUAL},
		{"!==", token.STRICT_NEQUAL},
		{"...", token.ELLIPSIS},
		{"<<=", token.SHLEQ},
		{">>=", token.SHREQ},
		{"**=", token.POWEQ},
		{">>>", token.USHR},
	},
	2: {
		{"==", token.EQUAL},
		{"!=", token.NEQUAL},
		{"<=", token.LTE},
		{">=", token.GTE},
		{"=>", token.ARROW},
		{"++", token.PLUSPLUS},
		{"+=", token.PLUSEQ},
		{"--", token.MINUSMIN},
		{"-=", token.MINUSEQ},
		{"**", token.POW},
		{"*=", token.MULEQ},
		{"/=", token.DIVEQ},
		{"%=", token.MODEQ},
		{"<<", token.SHL},
		{">>", token.SHR},
		{"&&", token.AND},
		{"&=", token.ANDEQ},
		{"||", token.OR},
		{"|=", token.OREQ},
		{"^=", token.XOREQ},
	},
	1: {
		{"[", token.LBRACK}, {"(", token.LPAREN}, {"{", token.LBRACE},
		{"]", token.RBRACK}, {")", token.RPAREN}, {"}", token.RBRACE},
		{".", token.DOT}, {":", token.COLON}, {";", token.SEMI}, {",", token.COMMA},
		{"<", token.LT}, {">", token.GT}, {"=", token.ASSIGN},
		{"+", token.PLUS}, {"-", token.MINUS}, {"*", token.MUL}, {"/", token.DIV}, {"%", token.MOD},
		{"&", token.BIT_AND}, {"|", token.BIT_OR}, {"^", token.BIT_XOR}, {"~", token.BIT_NOT},
		{"!", token.NOT}, {"?", token.COND},
	},
}

func (l *Lexer) scanPunctuator(start int) bool {
	for n := 4; n >= 1; n-- {
		if l.pos+n > l.end {
			continue
		}
		candidate := l.source[l.pos : l.pos+n]
		for _, p := range punctuatorsByLength[n] {
			if p.lit == candidate {
				l.pos += n
				l.CurrentKind = p.kind
				l.CurrentValue = candidate
				l.CurrentTokenStart = start
				return true
			}
		}
	}
	return false
}

// --- character classification ------------------------------------------------

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
