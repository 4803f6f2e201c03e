package parser

import (
	"strconv"

	"github.com/deepnoodle-ai/wisp/ast"
	"github.com/deepnoodle-ai/wisp/errors"
	"github.com/deepnoodle-ai/wisp/internal/token"
)

// parseExpression is the Pratt expression parser: a prefix parse function
// produces the leftmost operand, then infix parse functions fold in
// operators of higher precedence. Because equal precedence does not bind,
// operator chains associate to the left.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.setTokenError(p.curToken, errors.E1001,
			"unexpected %s in expression", p.describe(p.curToken))
		return nil
	}
	left := prefix()
	for p.err == nil && precedence < p.curPrecedence() {
		infix, ok := p.infixParseFns[p.curToken.Type]
		if !ok {
			return left
		}
		left = infix(left)
	}
	if p.err != nil {
		return nil
	}
	return left
}

func (p *Parser) parseIdent() ast.Expr {
	tok := p.curToken
	p.nextToken()
	return &ast.Ident{Token: tok, Name: tok.Literal}
}

func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.setTokenError(tok, errors.E1002, "invalid integer literal %q", tok.Literal)
		return nil
	}
	p.nextToken()
	return &ast.Int{Token: tok, Value: value}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()
	p.skipNewlines()
	expr := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	p.skipNewlines()
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return expr
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	opTok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	p.skipNewlines()
	right := p.parseExpression(precedence)
	if p.err != nil {
		return nil
	}
	return &ast.Infix{Token: opTok, Op: opTok.Literal, X: left, Y: right}
}

// parseAssignExpr parses "name := expr". Assignment is right-associative
// and yields the assigned value.
func (p *Parser) parseAssignExpr(left ast.Expr) ast.Expr {
	opTok := p.curToken
	name, ok := left.(*ast.Ident)
	if !ok {
		p.setTokenError(opTok, errors.E1003, "invalid assignment target")
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	return &ast.Assign{Token: opTok, Name: name, Value: value}
}

// parseCallExpr parses "callee(args)". Only plain function names may be
// called.
func (p *Parser) parseCallExpr(left ast.Expr) ast.Expr {
	lparen := p.curToken
	fun, ok := left.(*ast.Ident)
	if !ok {
		p.setTokenError(lparen, errors.E1003, "invalid call target")
		return nil
	}
	p.nextToken()
	p.skipNewlines()

	call := &ast.Call{Token: lparen, Fun: fun}
	if p.curToken.Type == token.RPAREN {
		call.EndTok = p.curToken
		p.nextToken()
		return call
	}
	for {
		arg := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		p.skipNewlines()
		if p.curToken.Type == token.COMMA {
			p.nextToken()
			p.skipNewlines()
			continue
		}
		endTok, ok := p.expect(token.RPAREN)
		if !ok {
			return nil
		}
		call.EndTok = endTok
		return call
	}
}

// parseIfExpr parses "if cond { ... }" with an optional else block or
// else-if chain. Whether the result is used as a value is decided by the
// compiler, not the parser.
func (p *Parser) parseIfExpr() ast.Expr {
	ifTok := p.curToken
	p.nextToken()

	cond := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	consequence := p.parseBlock()
	if consequence == nil {
		return nil
	}
	node := &ast.If{Token: ifTok, Cond: cond, Consequence: consequence}

	if p.curToken.Type == token.ELSE {
		p.nextToken()
		if p.curToken.Type == token.IF {
			alt := p.parseIfExpr()
			if p.err != nil {
				return nil
			}
			node.Alternative = alt.(*ast.If)
		} else {
			alt := p.parseBlock()
			if alt == nil {
				return nil
			}
			node.Alternative = alt
		}
	}
	return node
}
