// Package compiler lowers a wisp abstract syntax tree (AST) into a
// WebAssembly module.
//
// # Two-Pass Compilation Strategy
//
// The compiler uses a two-pass approach so that functions can call other
// functions defined later in the source, including mutual recursion:
//
//	func isEven(n) { if n == 0 { 1 } else { isOdd(n - 1) } }
//	func isOdd(n)  { if n == 0 { 0 } else { isEven(n - 1) } }
//
// Pass 1 walks the whole program and builds the module scope: every function
// name is bound to a symbol table holding its parameters and let-declared
// locals, with sequential slot indices (parameters first, then locals, in
// textual order). No code is generated until this pass completes, so call
// sites always resolve against the finished declaration table.
//
// Pass 2 walks the program again and generates one instruction fragment per
// function. Identifiers resolve against the enclosing function's table only;
// there is no outer lexical scope for plain identifiers, and function names
// live solely in the module scope, reachable only through call expressions.
//
// # Scoping Rules
//
// Function scopes are flat: if and while bodies do not introduce nested
// block scopes, so a let inside a loop body declares a function-wide local.
// Re-declaring a name replaces the prior symbol while keeping its slot.
//
// Every semantic error is fatal. The first error aborts compilation and no
// bytes are produced.
package compiler

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/wisp/ast"
	"github.com/deepnoodle-ai/wisp/errors"
	"github.com/deepnoodle-ai/wisp/internal/token"
	"github.com/deepnoodle-ai/wisp/wasm"
)

// binaryOps maps each operator token to its one fixed opcode. The logical
// operators are not short-circuiting: both operands are always evaluated.
var binaryOps = map[string]byte{
	"+":   wasm.OpI32Add,
	"-":   wasm.OpI32Sub,
	"==":  wasm.OpI32Eq,
	"!=":  wasm.OpI32Ne,
	"<":   wasm.OpI32LtS,
	"<=":  wasm.OpI32LeS,
	">":   wasm.OpI32GtS,
	">=":  wasm.OpI32GeS,
	"and": wasm.OpI32And,
	"or":  wasm.OpI32Or,
}

// Compiler lowers a program AST into a wasm.Module. A Compiler is used for
// a single Compile call and holds no state that outlives it.
type Compiler struct {
	// Module-level scope built during pass 1
	module *ModuleScope

	// Scope of the function currently being compiled (pass 2)
	current *SymbolTable

	// Source filename for error messages
	filename string

	// Original source code for error messages
	source string
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the source filename used in error messages.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSource sets the original source code, enabling error messages that
// quote the offending line.
func WithSource(source string) Option {
	return func(c *Compiler) {
		c.source = source
	}
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Compile lowers the given program and returns the corresponding module.
// This is the standard entry point.
func Compile(program *ast.Program, options ...Option) (*wasm.Module, error) {
	return New(options...).Compile(program)
}

// Compile runs both passes over the program and returns the module.
func (c *Compiler) Compile(program *ast.Program) (*wasm.Module, error) {
	if err := c.buildScopes(program); err != nil {
		return nil, err
	}
	module := &wasm.Module{}
	for _, decl := range program.Funcs {
		fn, err := c.compileFunc(decl)
		if err != nil {
			return nil, err
		}
		module.Funcs = append(module.Funcs, fn)
	}
	return module, nil
}

// ModuleScope returns the module scope built by the first pass. It is nil
// until Compile has been called.
func (c *Compiler) ModuleScope() *ModuleScope {
	return c.module
}

// buildScopes is pass 1: it registers every function declaration in the
// module scope and assigns storage slots for all parameters and locals.
// Unresolved identifiers are not detected here; that is pass 2's job.
func (c *Compiler) buildScopes(program *ast.Program) error {
	c.module = NewModuleScope()
	for _, decl := range program.Funcs {
		name := decl.Name.Name
		table, ok := c.module.Insert(name)
		if !ok {
			return c.formatError(errors.E2005,
				fmt.Sprintf("function %q redefined", name), decl.Name.Pos())
		}
		for _, param := range decl.Params {
			table.InsertParam(param.Name)
		}
		c.collectLocals(table, decl.Body)
	}
	return nil
}

// collectLocals walks a block recursively, registering every let-declared
// name. Control flow bodies share the enclosing function's flat scope.
func (c *Compiler) collectLocals(table *SymbolTable, block *ast.Block) {
	for _, node := range block.Stmts {
		switch node := node.(type) {
		case *ast.Let:
			table.InsertLocal(node.Name.Name)
		case *ast.If:
			c.collectLocalsIf(table, node)
		case *ast.While:
			c.collectLocals(table, node.Body)
		}
	}
}

func (c *Compiler) collectLocalsIf(table *SymbolTable, node *ast.If) {
	c.collectLocals(table, node.Consequence)
	switch alt := node.Alternative.(type) {
	case *ast.Block:
		c.collectLocals(table, alt)
	case *ast.If:
		c.collectLocalsIf(table, alt)
	}
}

// compileFunc is pass 2 for one declaration: it generates the body fragment
// and produces the immutable function record the module builder consumes.
func (c *Compiler) compileFunc(decl *ast.FuncDecl) (*wasm.Function, error) {
	scope, ok := c.module.Function(decl.Name.Name)
	if !ok {
		panic(fmt.Sprintf("compile error: function %q missing from module scope", decl.Name.Name))
	}
	c.current = scope
	defer func() { c.current = nil }()

	body, err := c.compileBlock(decl.Body, true)
	if err != nil {
		return nil, err
	}

	params := make([]wasm.ValType, scope.ParamCount())
	for i := range params {
		params[i] = wasm.I32
	}
	var locals []wasm.LocalGroup
	if n := scope.LocalCount(); n > 0 {
		locals = []wasm.LocalGroup{{Count: n, Type: wasm.I32}}
	}
	return &wasm.Function{
		Name:    decl.Name.Name,
		Params:  params,
		Results: []wasm.ValType{wasm.I32},
		Locals:  locals,
		Body:    body,
	}, nil
}

// compileBlock lowers a block's statements. When wantValue is true the block
// must end in an expression, whose value is left on the stack; otherwise
// every expression value is discarded.
func (c *Compiler) compileBlock(block *ast.Block, wantValue bool) (*wasm.Fragment, error) {
	f := wasm.NewFragment()
	count := len(block.Stmts)
	for i, node := range block.Stmts {
		last := i == count-1
		switch node := node.(type) {
		case *ast.Let:
			if err := c.compileLet(f, node); err != nil {
				return nil, err
			}
		case *ast.While:
			if err := c.compileWhile(f, node); err != nil {
				return nil, err
			}
		case *ast.If:
			frag, err := c.compileIf(node, last && wantValue)
			if err != nil {
				return nil, err
			}
			f.Frag(frag)
		case ast.Expr:
			frag, err := c.compileExpr(node)
			if err != nil {
				return nil, err
			}
			f.Frag(frag)
			if !last || !wantValue {
				f.Byte(wasm.OpDrop)
			}
		default:
			panic(fmt.Sprintf("compile error: unknown ast node type: %T", node))
		}
	}
	if wantValue {
		if _, ok := block.Result(); !ok {
			return nil, c.formatError(errors.E2003,
				"block must end in an expression", block.Pos())
		}
	}
	return f, nil
}

func (c *Compiler) compileLet(f *wasm.Fragment, node *ast.Let) error {
	value, err := c.compileExpr(node.Value)
	if err != nil {
		return err
	}
	sym, ok := c.current.Resolve(node.Name.Name)
	if !ok {
		panic(fmt.Sprintf("compile error: local %q missing from symbol table", node.Name.Name))
	}
	f.Frag(value)
	f.Byte(wasm.OpLocalSet)
	f.Uint(uint64(sym.Index()))
	return nil
}

func (c *Compiler) compileWhile(f *wasm.Fragment, node *ast.While) error {
	cond, err := c.compileExpr(node.Cond)
	if err != nil {
		return err
	}
	body, err := c.compileBlock(node.Body, false)
	if err != nil {
		return err
	}
	// A pre-condition loop from structured forms only: the condition is
	// re-evaluated at the top of each iteration; when it holds, the body
	// runs and branches back to the loop's own start; when it does not,
	// control falls out of the conditional and the loop exits.
	f.Byte(wasm.OpLoop, wasm.BlockTypeVoid)
	f.Frag(cond)
	f.Byte(wasm.OpIf, wasm.BlockTypeVoid)
	f.Frag(body)
	f.Byte(wasm.OpBr)
	f.Uint(1)
	f.Byte(wasm.OpEnd)
	f.Byte(wasm.OpEnd)
	return nil
}

// compileIf lowers a conditional. As a statement the block leaves no value;
// as an expression the block has an i32 result, the else branch is
// mandatory, and each branch must leave exactly one value. No implicit
// default value is ever introduced.
func (c *Compiler) compileIf(node *ast.If, wantValue bool) (*wasm.Fragment, error) {
	cond, err := c.compileExpr(node.Cond)
	if err != nil {
		return nil, err
	}
	f := wasm.NewFragment()
	f.Frag(cond)
	if wantValue {
		f.Byte(wasm.OpIf, byte(wasm.I32))
	} else {
		f.Byte(wasm.OpIf, wasm.BlockTypeVoid)
	}
	consequence, err := c.compileBlock(node.Consequence, wantValue)
	if err != nil {
		return nil, err
	}
	f.Frag(consequence)
	switch alt := node.Alternative.(type) {
	case *ast.Block:
		f.Byte(wasm.OpElse)
		frag, err := c.compileBlock(alt, wantValue)
		if err != nil {
			return nil, err
		}
		f.Frag(frag)
	case *ast.If:
		f.Byte(wasm.OpElse)
		frag, err := c.compileIf(alt, wantValue)
		if err != nil {
			return nil, err
		}
		f.Frag(frag)
	default:
		if wantValue {
			return nil, c.formatError(errors.E2004,
				"if expression is missing an else branch", node.Pos())
		}
	}
	f.Byte(wasm.OpEnd)
	return f, nil
}

func (c *Compiler) compileExpr(node ast.Expr) (*wasm.Fragment, error) {
	switch node := node.(type) {
	case *ast.Int:
		return c.compileInt(node), nil
	case *ast.Ident:
		return c.compileIdent(node)
	case *ast.Infix:
		return c.compileInfix(node)
	case *ast.Assign:
		return c.compileAssign(node)
	case *ast.Call:
		return c.compileCall(node)
	case *ast.If:
		return c.compileIf(node, true)
	default:
		panic(fmt.Sprintf("compile error: unknown expression type: %T", node))
	}
}

func (c *Compiler) compileInt(node *ast.Int) *wasm.Fragment {
	f := wasm.NewFragment()
	f.Byte(wasm.OpI32Const)
	f.Sint(node.Value)
	return f
}

func (c *Compiler) compileIdent(node *ast.Ident) (*wasm.Fragment, error) {
	sym, ok := c.current.Resolve(node.Name)
	if !ok {
		return nil, c.formatUndeclaredError(node.Name, node.Pos())
	}
	f := wasm.NewFragment()
	f.Byte(wasm.OpLocalGet)
	f.Uint(uint64(sym.Index()))
	return f, nil
}

func (c *Compiler) compileInfix(node *ast.Infix) (*wasm.Fragment, error) {
	// Chains are left-associative: the parser nests (a op b) op c, so
	// compiling X first realizes the left fold in evaluation order.
	x, err := c.compileExpr(node.X)
	if err != nil {
		return nil, err
	}
	y, err := c.compileExpr(node.Y)
	if err != nil {
		return nil, err
	}
	opcode, ok := binaryOps[node.Op]
	if !ok {
		// Unreachable given a conforming parser
		return nil, c.formatError(errors.E2002,
			fmt.Sprintf("unhandled operator %q", node.Op), node.Token.StartPosition)
	}
	f := wasm.NewFragment()
	f.Frag(x)
	f.Frag(y)
	f.Byte(opcode)
	return f, nil
}

func (c *Compiler) compileAssign(node *ast.Assign) (*wasm.Fragment, error) {
	value, err := c.compileExpr(node.Value)
	if err != nil {
		return nil, err
	}
	sym, ok := c.current.Resolve(node.Name.Name)
	if !ok {
		return nil, c.formatUndeclaredError(node.Name.Name, node.Name.Pos())
	}
	// An assignment is itself an expression: store the value and leave it
	// on the stack.
	f := wasm.NewFragment()
	f.Frag(value)
	f.Byte(wasm.OpLocalTee)
	f.Uint(uint64(sym.Index()))
	return f, nil
}

func (c *Compiler) compileCall(node *ast.Call) (*wasm.Fragment, error) {
	name := node.Fun.Name
	index, ok := c.module.FunctionIndex(name)
	if !ok {
		err := &errors.CompileError{
			Code:        errors.E2006,
			Message:     fmt.Sprintf("undefined function %q", name),
			Location:    c.location(node.Fun.Pos()),
			Suggestions: errors.SuggestSimilar(name, c.module.Names()),
		}
		return nil, err
	}
	f := wasm.NewFragment()
	for _, arg := range node.Args {
		frag, err := c.compileExpr(arg)
		if err != nil {
			return nil, err
		}
		f.Frag(frag)
	}
	f.Byte(wasm.OpCall)
	f.Uint(uint64(index))
	return f, nil
}

func (c *Compiler) location(pos token.Position) errors.SourceLocation {
	filename := c.filename
	if filename == "" {
		filename = pos.File
	}
	return errors.SourceLocation{
		Filename: filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
		Source:   c.sourceLine(pos),
	}
}

func (c *Compiler) sourceLine(pos token.Position) string {
	if c.source == "" {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return ""
	}
	return lines[pos.Line]
}

func (c *Compiler) formatError(code errors.ErrorCode, msg string, pos token.Position) error {
	return &errors.CompileError{
		Code:     code,
		Message:  msg,
		Location: c.location(pos),
	}
}

func (c *Compiler) formatUndeclaredError(name string, pos token.Position) error {
	return &errors.CompileError{
		Code:        errors.E2001,
		Message:     fmt.Sprintf("undeclared identifier %q", name),
		Location:    c.location(pos),
		Suggestions: errors.SuggestSimilar(name, c.current.Names()),
	}
}
