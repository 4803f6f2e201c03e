// Package lexer provides a scanner that converts wisp source code into a
// stream of tokens for the parser.
package lexer

import (
	"fmt"

	"github.com/deepnoodle-ai/wisp/internal/token"
)

// Lexer scans an input string and produces tokens one at a time.
type Lexer struct {
	// input is the source code being scanned
	input string

	// position is the byte offset of ch within the input
	position int

	// readPosition is the byte offset of the next unread byte
	readPosition int

	// ch is the byte under examination (0 at EOF)
	ch byte

	// line is the current 0-indexed line number
	line int

	// lineStart is the byte offset of the start of the current line
	lineStart int

	// file is an optional filename used in token positions
	file string
}

// New returns a Lexer for the given input string.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// SetFilename sets the filename associated with the input.
func (l *Lexer) SetFilename(filename string) {
	l.file = filename
}

// Next returns the next token from the input. Once EOF is reached, Next
// continues to return EOF tokens.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	start := l.currentPosition()

	switch l.ch {
	case 0:
		return l.newToken(token.EOF, "", start), nil
	case '\n':
		l.readChar()
		l.line++
		l.lineStart = l.position
		return l.newToken(token.NEWLINE, "\n", start), nil
	case ';':
		l.readChar()
		return l.newToken(token.SEMICOLON, ";", start), nil
	case ',':
		l.readChar()
		return l.newToken(token.COMMA, ",", start), nil
	case '(':
		l.readChar()
		return l.newToken(token.LPAREN, "(", start), nil
	case ')':
		l.readChar()
		return l.newToken(token.RPAREN, ")", start), nil
	case '{':
		l.readChar()
		return l.newToken(token.LBRACE, "{", start), nil
	case '}':
		l.readChar()
		return l.newToken(token.RBRACE, "}", start), nil
	case '+':
		l.readChar()
		return l.newToken(token.PLUS, "+", start), nil
	case '-':
		l.readChar()
		return l.newToken(token.MINUS, "-", start), nil
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.EQ, "==", start), nil
		}
		l.readChar()
		return l.newToken(token.ASSIGN, "=", start), nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.NOT_EQ, "!=", start), nil
		}
		return l.illegal(start)
	case ':':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.DECLARE, ":=", start), nil
		}
		return l.illegal(start)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.LT_EQUALS, "<=", start), nil
		}
		l.readChar()
		return l.newToken(token.LT, "<", start), nil
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.GT_EQUALS, ">=", start), nil
		}
		l.readChar()
		return l.newToken(token.GT, ">", start), nil
	case '/':
		if l.peekChar() == '/' {
			l.skipLineComment()
			return l.Next()
		}
		return l.illegal(start)
	}

	if isDigit(l.ch) {
		literal := l.readNumber()
		return l.newToken(token.INT, literal, start), nil
	}
	if isLetter(l.ch) {
		literal := l.readIdentifier()
		return l.newToken(token.LookupIdentifier(literal), literal, start), nil
	}
	return l.illegal(start)
}

func (l *Lexer) illegal(start token.Position) (token.Token, error) {
	literal := string(l.ch)
	l.readChar()
	tok := l.newToken(token.ILLEGAL, literal, start)
	return tok, fmt.Errorf("unexpected character %q", literal)
}

func (l *Lexer) newToken(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.currentPosition(),
	}
}

func (l *Lexer) currentPosition() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.file,
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
