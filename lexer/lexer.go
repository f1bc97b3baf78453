// Package lexer turns UTF-8 assembly source into a sequence of typed
// Tokens with precise source ranges (spec.md §4.1). It is a thin,
// allocation-light scanner: no lookahead beyond one rune, no semantic
// interpretation of symbol text (that is the parser's job).
package lexer

import (
	"unicode/utf8"

	"github.com/viant/rvlint/token"
)

// Kind tags the lexical category of a Token.
type Kind int

const (
	KindSymbol Kind = iota
	KindLabel
	KindDirective
	KindNumber
	KindString
	KindChar
	KindLParen
	KindRParen
	KindNewline
	KindComment
	KindEOF
)

// Token is one lexical unit: its kind, literal text, and source range.
type Token struct {
	Kind Kind
	Text string
	token.Range
}

// InvalidStringKind classifies why a string/char literal failed to lex.
type InvalidStringKind int

const (
	Unclosed InvalidStringKind = iota
	Newline
	InvalidEscapeSequence
)

// InvalidString is returned (and recorded; the lexer itself recovers by
// resynchronizing at the next newline) when a string or char literal is
// malformed.
type InvalidString struct {
	Kind  InvalidStringKind
	Range token.Range
}

func (e *InvalidString) Error() string {
	switch e.Kind {
	case Unclosed:
		return "unclosed string literal"
	case Newline:
		return "newline inside string literal"
	case InvalidEscapeSequence:
		return "invalid escape sequence"
	default:
		return "invalid string"
	}
}

// Lexer scans one file's source text into a Token sequence.
type Lexer struct {
	file   token.FileID
	src    []byte
	pos    int // byte offset
	line   int
	col    int
	errors []*InvalidString
}

// New creates a Lexer over src. file is kept on the Lexer but not copied
// into Tokens, which carry only their ranges.
func New(file token.FileID, src string) *Lexer {
	return &Lexer{file: file, src: []byte(src), line: 0, col: 0}
}

// Errors returns the InvalidString errors accumulated during Tokenize,
// in encounter order.
func (l *Lexer) Errors() []*InvalidString { return l.errors }

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) here() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// advance consumes one byte, tracking line/column. Assumes ASCII for
// control characters (newline); multi-byte runes only occur inside
// string/char literal bodies and are advanced with advanceRune.
func (l *Lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return b
}

func (l *Lexer) advanceRune() rune {
	r, size := utf8.DecodeRune(l.src[l.pos:])
	for i := 0; i < size; i++ {
		l.advance()
	}
	return r
}

func isSymbolStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '-'
}

func isSymbolCont(b byte) bool {
	return isSymbolStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpaceOrComma(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == ','
}

// Tokenize scans the whole source into a Token slice terminated by a
// KindEOF token. Malformed string/char literals are recorded in Errors
// and the lexer resynchronizes at the next newline, matching spec.md's
// per-literal recovery rule.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok, ok := l.next()
		if ok {
			toks = append(toks, tok)
		}
		if tok.Kind == KindEOF {
			break
		}
	}
	return toks
}

// next skips whitespace and commas, then scans one token. ok is false
// only for a malformed string or char literal, which is recorded in
// Errors and not surfaced; the caller keeps calling next.
func (l *Lexer) next() (Token, bool) {
	for !l.eof() && isSpaceOrComma(l.peek()) {
		l.advance()
	}
	if l.eof() {
		return l.make(KindEOF, l.here(), l.here()), true
	}
	start := l.here()
	b := l.peek()
	switch {
	case b == '\n':
		l.advance()
		return l.make(KindNewline, start, l.here()), true
	case b == '#':
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}
		return l.make(KindComment, start, l.here()), true
	case b == '(':
		l.advance()
		return l.make(KindLParen, start, l.here()), true
	case b == ')':
		l.advance()
		return l.make(KindRParen, start, l.here()), true
	case b == '"':
		return l.lexString(start)
	case b == '\'':
		return l.lexChar(start)
	case b == '.':
		return l.lexDirective(start)
	case isDigit(b):
		return l.lexNumber(start)
	case (b == '-' || b == '+') && isDigit(l.peekAt(1)):
		return l.lexNumber(start)
	case isSymbolStart(b):
		return l.lexSymbolOrLabel(start)
	default:
		// Unrecognized byte: consume it as a one-rune symbol so the parser
		// can report an UnexpectedToken rather than the lexer stalling.
		l.advanceRune()
		return l.make(KindSymbol, start, l.here()), true
	}
}

func (l *Lexer) make(kind Kind, start, end token.Position) Token {
	text := string(l.src[start.Offset:end.Offset])
	return Token{Kind: kind, Text: text, Range: token.Range{Start: start, End: end}}
}

func (l *Lexer) lexSymbolOrLabel(start token.Position) (Token, bool) {
	l.advance()
	for !l.eof() && isSymbolCont(l.peek()) {
		l.advance()
	}
	end := l.here()
	if !l.eof() && l.peek() == ':' {
		name := string(l.src[start.Offset:end.Offset])
		l.advance() // consume ':'
		return Token{Kind: KindLabel, Text: name, Range: token.Range{Start: start, End: l.here()}}, true
	}
	return l.make(KindSymbol, start, end), true
}

func (l *Lexer) lexDirective(start token.Position) (Token, bool) {
	l.advance() // consume '.'
	for !l.eof() && isSymbolCont(l.peek()) {
		l.advance()
	}
	return l.make(KindDirective, start, l.here()), true
}

func (l *Lexer) lexNumber(start token.Position) (Token, bool) {
	if l.peek() == '-' || l.peek() == '+' {
		l.advance()
	}
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()
		for !l.eof() && isHex(l.peek()) {
			l.advance()
		}
		return l.make(KindNumber, start, l.here()), true
	}
	if l.peek() == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.advance()
		l.advance()
		for !l.eof() && (l.peek() == '0' || l.peek() == '1') {
			l.advance()
		}
		return l.make(KindNumber, start, l.here()), true
	}
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}
	return l.make(KindNumber, start, l.here()), true
}

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *Lexer) lexString(start token.Position) (Token, bool) {
	l.advance() // opening quote
	for {
		if l.eof() {
			err := &InvalidString{Kind: Unclosed, Range: token.Range{Start: start, End: l.here()}}
			l.errors = append(l.errors, err)
			return l.make(KindString, start, l.here()), false
		}
		if l.peek() == '\n' {
			err := &InvalidString{Kind: Newline, Range: token.Range{Start: start, End: l.here()}}
			l.errors = append(l.errors, err)
			l.resync()
			return l.make(KindString, start, l.here()), false
		}
		if l.peek() == '"' {
			l.advance()
			return l.make(KindString, start, l.here()), true
		}
		if l.peek() == '\\' {
			if !l.consumeEscape(start) {
				return l.make(KindString, start, l.here()), false
			}
			continue
		}
		l.advanceRune()
	}
}

func (l *Lexer) lexChar(start token.Position) (Token, bool) {
	l.advance() // opening quote
	if l.eof() || l.peek() == '\n' {
		kind := Unclosed
		if !l.eof() {
			kind = Newline
		}
		l.errors = append(l.errors, &InvalidString{Kind: kind, Range: token.Range{Start: start, End: l.here()}})
		l.resync()
		return l.make(KindChar, start, l.here()), false
	}
	if l.peek() == '\\' {
		if !l.consumeEscape(start) {
			return l.make(KindChar, start, l.here()), false
		}
	} else {
		l.advanceRune()
	}
	if l.eof() || l.peek() != '\'' {
		l.errors = append(l.errors, &InvalidString{Kind: Unclosed, Range: token.Range{Start: start, End: l.here()}})
		l.resync()
		return l.make(KindChar, start, l.here()), false
	}
	l.advance()
	return l.make(KindChar, start, l.here()), true
}

// consumeEscape consumes a backslash escape sequence, reporting
// InvalidEscapeSequence and resynchronizing on failure. Returns false on
// failure (caller should stop scanning the literal).
func (l *Lexer) consumeEscape(litStart token.Position) bool {
	start := l.here()
	l.advance() // backslash
	if l.eof() {
		l.errors = append(l.errors, &InvalidString{Kind: Unclosed, Range: token.Range{Start: litStart, End: l.here()}})
		return false
	}
	switch l.peek() {
	case '\\', '\'', '"', 'n', 't', 'r', 'b', 'f', '0':
		l.advance()
		return true
	case 'u':
		l.advance()
		for i := 0; i < 4; i++ {
			if l.eof() || !isHex(l.peek()) {
				l.errors = append(l.errors, &InvalidString{Kind: InvalidEscapeSequence, Range: token.Range{Start: start, End: l.here()}})
				l.resync()
				return false
			}
			l.advance()
		}
		return true
	default:
		l.errors = append(l.errors, &InvalidString{Kind: InvalidEscapeSequence, Range: token.Range{Start: start, End: l.here()}})
		l.resync()
		return false
	}
}

// resync advances to just past the next newline (or EOF), the recovery
// strategy spec.md prescribes for a malformed literal.
func (l *Lexer) resync() {
	for !l.eof() && l.peek() != '\n' {
		l.advance()
	}
	if !l.eof() {
		l.advance()
	}
}
