package parser

import (
	"strings"

	"github.com/sqlint-dev/sqlint/pkg/token"
)

// tokKind classifies raw lexemes before tree construction.
type tokKind int

const (
	tokEOF tokKind = iota
	tokWhitespace
	tokNewline
	tokWord
	tokNumber
	tokString
	tokComma
	tokDot
	tokStar
	tokOperator   // + - / % ||
	tokComparison // = != <> < > <= >=
	tokLParen
	tokRParen
	tokSymbol // anything else
	tokComment
)

type tok struct {
	kind    tokKind
	literal string
	pos     token.Position
}

func (t tok) end() token.Position {
	return t.pos.Advance(t.literal)
}

// Lexer splits SQL input into raw tokens while tracking line, column and
// byte offset. It never fails: unrecognized bytes become symbol tokens.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance(n int) string {
	lit := l.input[l.pos : l.pos+n]
	for i := 0; i < n; i++ {
		if l.input[l.pos+i] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	l.pos += n
	return lit
}

// Next returns the next token. At end of input it returns a tokEOF token.
func (l *Lexer) Next() tok {
	pos := l.currentPos()
	ch := l.peek()

	switch {
	case ch == 0:
		return tok{kind: tokEOF, pos: pos}
	case ch == '\n':
		return tok{kind: tokNewline, literal: l.advance(1), pos: pos}
	case ch == '\r':
		n := 1
		if l.peekAt(1) == '\n' {
			n = 2
		}
		return tok{kind: tokNewline, literal: l.advance(n), pos: pos}
	case ch == ' ' || ch == '\t':
		n := 0
		for l.peekAt(n) == ' ' || l.peekAt(n) == '\t' {
			n++
		}
		return tok{kind: tokWhitespace, literal: l.advance(n), pos: pos}
	case ch == '-' && l.peekAt(1) == '-':
		n := 0
		for l.peekAt(n) != '\n' && l.peekAt(n) != 0 {
			n++
		}
		return tok{kind: tokComment, literal: l.advance(n), pos: pos}
	case isDigit(ch):
		n := 0
		for isDigit(l.peekAt(n)) || l.peekAt(n) == '.' {
			n++
		}
		return tok{kind: tokNumber, literal: l.advance(n), pos: pos}
	case ch == '\'':
		n := 1
		for l.peekAt(n) != '\'' && l.peekAt(n) != 0 {
			n++
		}
		if l.peekAt(n) == '\'' {
			n++
		}
		return tok{kind: tokString, literal: l.advance(n), pos: pos}
	case isWordStart(ch):
		n := 0
		for isWordPart(l.peekAt(n)) {
			n++
		}
		return tok{kind: tokWord, literal: l.advance(n), pos: pos}
	}

	switch ch {
	case ',':
		return tok{kind: tokComma, literal: l.advance(1), pos: pos}
	case '.':
		return tok{kind: tokDot, literal: l.advance(1), pos: pos}
	case '*':
		return tok{kind: tokStar, literal: l.advance(1), pos: pos}
	case '(':
		return tok{kind: tokLParen, literal: l.advance(1), pos: pos}
	case ')':
		return tok{kind: tokRParen, literal: l.advance(1), pos: pos}
	case '+', '-', '/', '%':
		return tok{kind: tokOperator, literal: l.advance(1), pos: pos}
	case '|':
		if l.peekAt(1) == '|' {
			return tok{kind: tokOperator, literal: l.advance(2), pos: pos}
		}
	case '=':
		return tok{kind: tokComparison, literal: l.advance(1), pos: pos}
	case '<':
		if l.peekAt(1) == '=' || l.peekAt(1) == '>' {
			return tok{kind: tokComparison, literal: l.advance(2), pos: pos}
		}
		return tok{kind: tokComparison, literal: l.advance(1), pos: pos}
	case '>':
		if l.peekAt(1) == '=' {
			return tok{kind: tokComparison, literal: l.advance(2), pos: pos}
		}
		return tok{kind: tokComparison, literal: l.advance(1), pos: pos}
	case '!':
		if l.peekAt(1) == '=' {
			return tok{kind: tokComparison, literal: l.advance(2), pos: pos}
		}
	}

	return tok{kind: tokSymbol, literal: l.advance(1), pos: pos}
}

// lex consumes the whole input.
func lex(input string) []tok {
	l := NewLexer(input)
	var toks []tok
	for {
		t := l.Next()
		if t.kind == tokEOF {
			return toks
		}
		toks = append(toks, t)
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isWordStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isWordPart(ch byte) bool {
	return isWordStart(ch) || isDigit(ch)
}

// keywords recognized by the loose statement builder.
var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "BY": true,
	"ORDER": true, "HAVING": true, "LIMIT": true, "OFFSET": true, "AS": true,
	"AND": true, "OR": true, "NOT": true, "ON": true, "JOIN": true,
	"LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true, "FULL": true,
	"CROSS": true, "UNION": true, "ALL": true, "DISTINCT": true,
	"CASE": true, "WHEN": true, "THEN": true, "ELSE": true, "END": true,
	"IN": true, "IS": true, "NULL": true, "BETWEEN": true, "LIKE": true,
	"ASC": true, "DESC": true, "CAST": true,
}

// dataTypes are word tokens tagged as data type identifiers.
var dataTypes = map[string]bool{
	"INT": true, "INTEGER": true, "BIGINT": true, "SMALLINT": true,
	"VARCHAR": true, "CHAR": true, "TEXT": true, "DATE": true,
	"TIMESTAMP": true, "BOOLEAN": true, "NUMERIC": true, "DECIMAL": true,
	"FLOAT": true, "DOUBLE": true, "REAL": true,
}

func upper(s string) string { return strings.ToUpper(s) }

func isKeyword(lit string) bool  { return keywords[upper(lit)] }
func isDataType(lit string) bool { return dataTypes[upper(lit)] }

func isKeywordNamed(t tok, name string) bool {
	return t.kind == tokWord && strings.EqualFold(t.literal, name)
}
