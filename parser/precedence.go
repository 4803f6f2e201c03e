package parser

import "github.com/deepnoodle-ai/wisp/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // :=
	COND        // or, and
	EQUALS      // == or !=
	LESSGREATER // > or <
	SUM         // + or -
	CALL        // doIt(x)
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.DECLARE:   ASSIGN,
	token.OR:        COND,
	token.AND:       COND,
	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.LT:        LESSGREATER,
	token.LT_EQUALS: LESSGREATER,
	token.GT:        LESSGREATER,
	token.GT_EQUALS: LESSGREATER,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.LPAREN:    CALL,
}
