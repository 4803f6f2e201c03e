package parser

import (
	"github.com/deepnoodle-ai/wisp/ast"
	"github.com/deepnoodle-ai/wisp/errors"
	"github.com/deepnoodle-ai/wisp/internal/token"
)

// parseFuncDecl parses "func name(params) { body }". The current token is
// the "func" keyword.
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	funcTok := p.curToken
	p.nextToken()

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	name := &ast.Ident{Token: nameTok, Name: nameTok.Literal}

	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	params := p.parseParams()
	if p.err != nil {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.FuncDecl{Token: funcTok, Name: name, Params: params, Body: body}
}

// parseParams parses a comma-separated identifier list up to and including
// the closing parenthesis.
func (p *Parser) parseParams() []*ast.Ident {
	var params []*ast.Ident
	p.skipNewlines()
	if p.curToken.Type == token.RPAREN {
		p.nextToken()
		return params
	}
	for {
		tok, ok := p.expect(token.IDENT)
		if !ok {
			return nil
		}
		params = append(params, &ast.Ident{Token: tok, Name: tok.Literal})
		p.skipNewlines()
		if p.curToken.Type == token.COMMA {
			p.nextToken()
			p.skipNewlines()
			continue
		}
		if _, ok := p.expect(token.RPAREN); !ok {
			return nil
		}
		return params
	}
}

// parseBlock parses "{ stmt* }". The final element may be an expression,
// which becomes the value of the block.
func (p *Parser) parseBlock() *ast.Block {
	lbrace, ok := p.expect(token.LBRACE)
	if !ok {
		return nil
	}
	block := &ast.Block{Token: lbrace}
	p.skipSeparators()
	for p.curToken.Type != token.RBRACE {
		if p.curToken.Type == token.EOF {
			p.setTokenError(lbrace, errors.E1004, "block is missing a closing brace")
			return nil
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
		if !statementTerminators[p.curToken.Type] {
			p.setTokenError(p.curToken, errors.E1001,
				"unexpected %s after statement", p.describe(p.curToken))
			return nil
		}
		p.skipSeparators()
	}
	block.EndTok = p.curToken
	p.nextToken()
	return block
}

// parseStatement parses one element of a block: a let, while or if
// statement, or an expression.
func (p *Parser) parseStatement() ast.Node {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLet()
	case token.WHILE:
		return p.parseWhile()
	default:
		return p.parseExpression(LOWEST)
	}
}

// parseLet parses "let name = expr".
func (p *Parser) parseLet() ast.Node {
	letTok := p.curToken
	p.nextToken()

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.ASSIGN); !ok {
		return nil
	}
	value := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	return &ast.Let{
		Token: letTok,
		Name:  &ast.Ident{Token: nameTok, Name: nameTok.Literal},
		Value: value,
	}
}

// parseWhile parses "while cond { body }".
func (p *Parser) parseWhile() ast.Node {
	whileTok := p.curToken
	p.nextToken()

	cond := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.While{Token: whileTok, Cond: cond, Body: body}
}
