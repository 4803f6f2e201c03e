// Package parser is used to generate the abstract syntax tree (AST) for a
// program.
//
// A parser is created by calling New() with a lexer as input. The parser
// should then be used only once, by calling parser.Parse() to produce the
// AST. Parsing stops at the first syntax error; the compiler performs no
// work after a parse failure.
package parser

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/wisp/ast"
	"github.com/deepnoodle-ai/wisp/errors"
	"github.com/deepnoodle-ai/wisp/internal/lexer"
	"github.com/deepnoodle-ai/wisp/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// statementTerminators defines tokens that can end a statement. Newlines
// and semicolons both terminate; a closing brace terminates the final
// statement of a block without being consumed.
var statementTerminators = map[token.Type]bool{
	token.SEMICOLON: true,
	token.NEWLINE:   true,
	token.RBRACE:    true,
	token.EOF:       true,
}

// Parse the provided input as wisp source code and return the AST. This is
// a shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(input string, options ...Option) (*ast.Program, error) {
	l := lexer.New(input)
	p := New(l, options...)
	if p.filename != "" {
		l.SetFilename(p.filename)
	}
	p.source = input
	return p.Parse()
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in error messages and positions.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// Parser transforms a token stream into an AST.
type Parser struct {
	// l is our lexer
	l *lexer.Lexer

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// err is the first syntax error encountered, if any. Parsing stops
	// once it is set.
	err error

	// prefixParseFns holds parsing methods for prefix-position tokens.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds parsing methods for infix-position tokens.
	infixParseFns map[token.Type]infixParseFn

	// The filename of the input
	filename string

	// The input source, used to quote offending lines in errors
	source string
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
	}
	for _, opt := range options {
		opt(p)
	}

	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.IF, p.parseIfExpr)

	p.registerInfix(token.PLUS, p.parseInfixExpr)
	p.registerInfix(token.MINUS, p.parseInfixExpr)
	p.registerInfix(token.EQ, p.parseInfixExpr)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(token.LT, p.parseInfixExpr)
	p.registerInfix(token.LT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.GT, p.parseInfixExpr)
	p.registerInfix(token.GT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.AND, p.parseInfixExpr)
	p.registerInfix(token.OR, p.parseInfixExpr)
	p.registerInfix(token.DECLARE, p.parseAssignExpr)
	p.registerInfix(token.LPAREN, p.parseCallExpr)

	// Prime curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

func (p *Parser) registerInfix(t token.Type, fn infixParseFn) {
	p.infixParseFns[t] = fn
}

// Parse the program and return the AST. A program is a sequence of function
// declarations.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}
	p.skipSeparators()
	for p.curToken.Type != token.EOF && p.err == nil {
		if p.curToken.Type != token.FUNC {
			p.setTokenError(p.curToken, errors.E1001,
				"expected a function declaration (got %s)", p.describe(p.curToken))
			break
		}
		fn := p.parseFuncDecl()
		if fn != nil {
			program.Funcs = append(program.Funcs, fn)
		}
		p.skipSeparators()
	}
	if p.err != nil {
		return nil, p.err
	}
	return program, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	tok, err := p.l.Next()
	if err != nil && p.err == nil {
		p.setTokenError(tok, errors.E1003, "%s", err.Error())
	}
	p.peekToken = tok
}

// skipSeparators advances past any newline and semicolon tokens.
func (p *Parser) skipSeparators() {
	for p.curToken.Type == token.NEWLINE || p.curToken.Type == token.SEMICOLON {
		p.nextToken()
	}
}

// skipNewlines advances past newline tokens only. Used where a line break
// is allowed but a statement boundary is not, e.g. after a comma.
func (p *Parser) skipNewlines() {
	for p.curToken.Type == token.NEWLINE {
		p.nextToken()
	}
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// expect consumes the current token if it has the given type and reports a
// syntax error otherwise.
func (p *Parser) expect(t token.Type) (token.Token, bool) {
	tok := p.curToken
	if tok.Type != t {
		p.setTokenError(tok, errors.E1001,
			"expected %s (got %s)", describeType(t), p.describe(tok))
		return tok, false
	}
	p.nextToken()
	return tok, true
}

func (p *Parser) describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "newline"
	case token.IDENT, token.INT:
		return fmt.Sprintf("%q", tok.Literal)
	default:
		return fmt.Sprintf("%q", tok.Literal)
	}
}

func describeType(t token.Type) string {
	switch t {
	case token.IDENT:
		return "an identifier"
	case token.LBRACE:
		return `"{"`
	case token.RBRACE:
		return `"}"`
	case token.LPAREN:
		return `"("`
	case token.RPAREN:
		return `")"`
	default:
		return fmt.Sprintf("%q", string(t))
	}
}

func (p *Parser) setTokenError(tok token.Token, code errors.ErrorCode, format string, args ...any) {
	if p.err != nil {
		return
	}
	pos := tok.StartPosition
	p.err = &errors.SyntaxError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Location: errors.SourceLocation{
			Filename: p.filename,
			Line:     pos.LineNumber(),
			Column:   pos.ColumnNumber(),
			Source:   p.sourceLine(pos),
		},
	}
}

func (p *Parser) sourceLine(pos token.Position) string {
	if p.source == "" {
		return ""
	}
	lines := strings.Split(p.source, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return ""
	}
	return lines[pos.Line]
}
