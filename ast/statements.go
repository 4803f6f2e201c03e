package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/wisp/internal/token"
)

// Program is the root node: a sequence of function declarations.
type Program struct {
	Funcs []*FuncDecl
}

func (p *Program) Pos() token.Position {
	if len(p.Funcs) > 0 {
		return p.Funcs[0].Pos()
	}
	return token.NoPos
}

func (p *Program) End() token.Position {
	if n := len(p.Funcs); n > 0 {
		return p.Funcs[n-1].End()
	}
	return token.NoPos
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, fn := range p.Funcs {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(fn.String())
	}
	return out.String()
}

// FuncDecl is a named function declaration with parameters and a body.
type FuncDecl struct {
	Token  token.Token // the "func" token
	Name   *Ident
	Params []*Ident
	Body   *Block
}

func (f *FuncDecl) stmtNode() {}

func (f *FuncDecl) Pos() token.Position { return f.Token.StartPosition }

func (f *FuncDecl) End() token.Position { return f.Body.End() }

func (f *FuncDecl) String() string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	var out bytes.Buffer
	out.WriteString("func ")
	out.WriteString(f.Name.String())
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}

// Block is a brace-delimited sequence of statements. The final element may
// be an expression, in which case it is the value of the block.
type Block struct {
	Token  token.Token // the "{" token
	Stmts  []Node
	EndTok token.Token // the "}" token
}

func (b *Block) stmtNode() {}

func (b *Block) Pos() token.Position { return b.Token.StartPosition }

func (b *Block) End() token.Position { return b.EndTok.EndPosition }

// Result returns the trailing expression of the block, if it has one.
func (b *Block) Result() (Expr, bool) {
	if n := len(b.Stmts); n > 0 {
		if expr, ok := b.Stmts[n-1].(Expr); ok {
			return expr, true
		}
	}
	return nil, false
}

func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for i, stmt := range b.Stmts {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(stmt.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Let is a statement that declares a new variable with an initial value.
type Let struct {
	Token token.Token // the "let" token
	Name  *Ident
	Value Expr
}

func (s *Let) stmtNode() {}

func (s *Let) Pos() token.Position { return s.Token.StartPosition }

func (s *Let) End() token.Position { return s.Value.End() }

func (s *Let) String() string {
	return "let " + s.Name.String() + " = " + s.Value.String()
}

// While is a pre-condition loop statement.
type While struct {
	Token token.Token // the "while" token
	Cond  Expr
	Body  *Block
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.Token.StartPosition }

func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	return "while " + s.Cond.String() + " " + s.Body.String()
}
