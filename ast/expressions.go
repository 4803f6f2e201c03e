package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/wisp/internal/token"
)

// Ident is an identifier reference.
type Ident struct {
	Token token.Token
	Name  string
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.Token.StartPosition }

func (x *Ident) End() token.Position { return x.Token.EndPosition }

func (x *Ident) String() string { return x.Name }

// Int is a decimal integer literal.
type Int struct {
	Token token.Token
	Value int64
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.Token.StartPosition }

func (x *Int) End() token.Position { return x.Token.EndPosition }

func (x *Int) String() string { return fmt.Sprintf("%d", x.Value) }

// Infix is a binary expression. Operator chains are left-associative, so
// "a - b - c" parses as Infix(Infix(a, "-", b), "-", c).
type Infix struct {
	Token token.Token // the operator token
	Op    string
	X     Expr
	Y     Expr
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }

func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Assign is the ":=" expression. It stores a value into an already declared
// variable and evaluates to the stored value.
type Assign struct {
	Token token.Token // the ":=" token
	Name  *Ident
	Value Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Name.Pos() }

func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.Name.String() + " := " + x.Value.String()
}

// Call is a function call expression.
type Call struct {
	Token  token.Token // the "(" token
	Fun    *Ident
	Args   []Expr
	EndTok token.Token // the ")" token
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }

func (x *Call) End() token.Position { return x.EndTok.EndPosition }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, arg := range x.Args {
		args = append(args, arg.String())
	}
	return x.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}

// If is a conditional. It is a statement when used for effect and an
// expression when used as a value, in which case both branches are
// mandatory. Alternative is nil, a *Block for "else { ... }", or an *If
// for "else if".
type If struct {
	Token       token.Token // the "if" token
	Cond        Expr
	Consequence *Block
	Alternative Node
}

func (x *If) stmtNode() {}

func (x *If) exprNode() {}

func (x *If) Pos() token.Position { return x.Token.StartPosition }

func (x *If) End() token.Position {
	if x.Alternative != nil {
		return x.Alternative.End()
	}
	return x.Consequence.End()
}

func (x *If) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(x.Cond.String())
	out.WriteString(" ")
	out.WriteString(x.Consequence.String())
	if x.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(x.Alternative.String())
	}
	return out.String()
}
