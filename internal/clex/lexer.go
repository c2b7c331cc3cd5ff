package clex

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kendall/compix/internal/cdiag"
)

// Lex scans source into an ordered token sequence. It never halts on a
// recoverable problem (unknown character, malformed number): it reports a
// Diagnostic and continues, matching the "skip one character" and
// "unterminated string halts" rules of the lexical design. The returned
// slice always ends with the synthetic EndOfInput token.
func Lex(source string) ([]Token, cdiag.List) {
	// Normalize to NFC first so visually identical identifiers typed through
	// different input methods compare equal once interned.
	source = norm.NFC.String(source)

	l := &lexer{
		src:  []rune(source),
		line: 1,
		col:  1,
	}
	l.splitLines()

	for !l.atEnd() {
		l.skipWhitespaceAndComments()
		if l.atEnd() {
			break
		}
		l.scanOne()
		if l.halted {
			break
		}
	}

	l.tokens = append(l.tokens, EndOfInput)

	return l.tokens, l.diags
}

type lexer struct {
	src    []rune
	pos    int
	line   int
	col    int
	tokens []Token
	diags  cdiag.List
	halted bool

	lines []string
}

func (l *lexer) splitLines() {
	l.lines = strings.Split(string(l.src), "\n")
}

func (l *lexer) curLine() string {
	idx := l.line - 1
	if idx < 0 || idx >= len(l.lines) {
		return ""
	}
	return l.lines[idx]
}

func (l *lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		r := l.peek()
		if unicode.IsSpace(r) {
			l.advance()
			continue
		}
		if r == '/' && l.peekAt(1) == '/' {
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		if r == '/' && l.peekAt(1) == '*' {
			l.advance()
			l.advance()
			for !l.atEnd() && !(l.peek() == '*' && l.peekAt(1) == '/') {
				l.advance()
			}
			if l.atEnd() {
				l.errorf("unterminated block comment")
				l.halted = true
				return
			}
			l.advance()
			l.advance()
			continue
		}
		break
	}
}

func (l *lexer) errorf(format string, args ...interface{}) {
	l.diags = append(l.diags, cdiag.New(cdiag.Lexical, l.line, l.col, l.curLine(), format, args...))
}

// errorfAt reports a diagnostic at an explicit line/col rather than the
// lexer's current cursor position, for errors whose natural position (e.g.
// an unterminated token's opening delimiter) was already left behind by the
// time the error is detected.
func (l *lexer) errorfAt(line, col int, format string, args ...interface{}) {
	l.diags = append(l.diags, cdiag.New(cdiag.Lexical, line, col, l.lineAt(line), format, args...))
}

func (l *lexer) scanOne() {
	startLine, startCol := l.line, l.col
	r := l.peek()

	switch {
	case r == '"':
		l.scanString(startLine, startCol)
	case unicode.IsDigit(r):
		l.scanNumber(startLine, startCol)
	case unicode.IsLetter(r) || r == '_':
		l.scanIdentOrKeyword(startLine, startCol)
	default:
		if l.scanTwoCharOp(startLine, startCol) {
			return
		}
		if l.scanOneCharOpOrPunct(startLine, startCol) {
			return
		}
		l.errorf("unrecognized character %q", string(r))
		l.advance()
	}
}

func (l *lexer) scanString(startLine, startCol int) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.atEnd() {
			l.errorfAt(startLine, startCol, "unterminated string literal")
			l.halted = true
			return
		}
		r := l.peek()
		if r == '"' {
			l.advance()
			break
		}
		sb.WriteRune(l.advance())
	}
	l.emit(Token{
		Class: "strlit", Kind: KindStringLit, Lexeme: sb.String(), Value: sb.String(),
		Line: startLine, Col: startCol, FullLine: l.lineAt(startLine),
	})
}

func (l *lexer) scanNumber(startLine, startCol int) {
	var sb strings.Builder
	for !l.atEnd() && unicode.IsDigit(l.peek()) {
		sb.WriteRune(l.advance())
	}
	isFloat := false
	if !l.atEnd() && l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		isFloat = true
		sb.WriteRune(l.advance())
		for !l.atEnd() && unicode.IsDigit(l.peek()) {
			sb.WriteRune(l.advance())
		}
	}
	lexeme := sb.String()
	if isFloat {
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			l.errorf("malformed float literal %q", lexeme)
			return
		}
		l.emit(Token{Class: "floatlit", Kind: KindFloatLit, Lexeme: lexeme, Value: v,
			Line: startLine, Col: startCol, FullLine: l.lineAt(startLine)})
		return
	}
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		l.errorf("malformed integer literal %q", lexeme)
		return
	}
	l.emit(Token{Class: "intlit", Kind: KindIntLit, Lexeme: lexeme, Value: v,
		Line: startLine, Col: startCol, FullLine: l.lineAt(startLine)})
}

func (l *lexer) scanIdentOrKeyword(startLine, startCol int) {
	var sb strings.Builder
	for !l.atEnd() && (unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_') {
		sb.WriteRune(l.advance())
	}
	lexeme := sb.String()
	if cls, ok := keywords[lexeme]; ok {
		if lexeme == "true" || lexeme == "false" {
			l.emit(Token{Class: cls, Kind: KindBoolLit, Lexeme: lexeme, Value: lexeme == "true",
				Line: startLine, Col: startCol, FullLine: l.lineAt(startLine)})
			return
		}
		l.emit(Token{Class: cls, Kind: KindKeyword, Lexeme: lexeme,
			Line: startLine, Col: startCol, FullLine: l.lineAt(startLine)})
		return
	}
	l.emit(Token{Class: "id", Kind: KindIdent, Lexeme: lexeme, Value: lexeme,
		Line: startLine, Col: startCol, FullLine: l.lineAt(startLine)})
}

func (l *lexer) scanTwoCharOp(startLine, startCol int) bool {
	if l.pos+1 >= len(l.src) {
		return false
	}
	two := string(l.src[l.pos : l.pos+2])
	cls, ok := twoCharOps[two]
	if !ok {
		return false
	}
	l.advance()
	l.advance()
	l.emit(Token{Class: cls, Kind: KindOperator, Lexeme: two,
		Line: startLine, Col: startCol, FullLine: l.lineAt(startLine)})
	return true
}

func (l *lexer) scanOneCharOpOrPunct(startLine, startCol int) bool {
	r := l.peek()
	if cls, ok := oneCharOps[r]; ok {
		l.advance()
		l.emit(Token{Class: cls, Kind: KindOperator, Lexeme: string(r),
			Line: startLine, Col: startCol, FullLine: l.lineAt(startLine)})
		return true
	}
	if cls, ok := punct[r]; ok {
		l.advance()
		l.emit(Token{Class: cls, Kind: KindPunct, Lexeme: string(r),
			Line: startLine, Col: startCol, FullLine: l.lineAt(startLine)})
		return true
	}
	return false
}

func (l *lexer) lineAt(line int) string {
	idx := line - 1
	if idx < 0 || idx >= len(l.lines) {
		return ""
	}
	return l.lines[idx]
}

func (l *lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}
