// Package ast defines the abstract syntax tree representation of wisp code.
//
// The node set is closed: the parser produces exactly these types and the
// compiler switches over them exhaustively. There is no generic "node kind"
// string dispatch anywhere downstream.
package ast

import "github.com/deepnoodle-ai/wisp/internal/token"

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but do
// not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value and
// may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}
