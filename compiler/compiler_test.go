package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/wisp/errors"
	"github.com/deepnoodle-ai/wisp/parser"
	"github.com/deepnoodle-ai/wisp/wasm"
)

func compileSource(t *testing.T, source string) *wasm.Module {
	t.Helper()
	program, err := parser.Parse(source)
	require.Nil(t, err)
	module, err := Compile(program, WithSource(source))
	require.Nil(t, err)
	return module
}

func compileError(t *testing.T, source string) *errors.CompileError {
	t.Helper()
	program, err := parser.Parse(source)
	require.Nil(t, err)
	_, err = Compile(program, WithSource(source))
	require.NotNil(t, err)
	cerr, ok := err.(*errors.CompileError)
	require.True(t, ok, "expected a compile error, got %T", err)
	return cerr
}

func TestCompileConstant(t *testing.T) {
	module := compileSource(t, "func main() { 42 }")
	require.Len(t, module.Funcs, 1)

	fn := module.Funcs[0]
	require.Equal(t, "main", fn.Name)
	require.Empty(t, fn.Params)
	require.Equal(t, []wasm.ValType{wasm.I32}, fn.Results)
	require.Empty(t, fn.Locals)
	require.Equal(t, []byte{0x41, 0x2a}, fn.Body.Bytes())
}

func TestCompileLetAndAssign(t *testing.T) {
	module := compileSource(t, `
func main() {
	let x = 10
	x := 9
	x
}`)
	fn := module.Funcs[0]
	require.Equal(t, []wasm.LocalGroup{{Count: 1, Type: wasm.I32}}, fn.Locals)
	require.Equal(t, []byte{
		0x41, 0x0a, 0x21, 0x00, // let x = 10
		0x41, 0x09, 0x22, 0x00, 0x1a, // x := 9, value dropped
		0x20, 0x00, // x
	}, fn.Body.Bytes())
}

func TestCompileCall(t *testing.T) {
	module := compileSource(t, `
func doIt() { add(1, 2) }
func add(a, b) { a + b }
`)
	require.Len(t, module.Funcs, 2)
	require.Equal(t, []byte{0x41, 0x01, 0x41, 0x02, 0x10, 0x01}, module.Funcs[0].Body.Bytes())
	require.Equal(t, []byte{0x20, 0x00, 0x20, 0x01, 0x6a}, module.Funcs[1].Body.Bytes())
}

func TestCompileIfExpression(t *testing.T) {
	module := compileSource(t, "func choose(x) { if x { 42 } else { 43 } }")
	require.Equal(t, []byte{
		0x20, 0x00, // x
		0x04, 0x7f, // if (result i32)
		0x41, 0x2a, // 42
		0x05,       // else
		0x41, 0x2b, // 43
		0x0b, // end
	}, module.Funcs[0].Body.Bytes())
}

func TestCompileIfStatement(t *testing.T) {
	module := compileSource(t, `
func f(a) {
	if a { 1 }
	5
}`)
	require.Equal(t, []byte{
		0x20, 0x00, // a
		0x04, 0x40, // if (void)
		0x41, 0x01, 0x1a, // 1, dropped
		0x0b,       // end
		0x41, 0x05, // 5
	}, module.Funcs[0].Body.Bytes())
}

func TestCompileElseIfChain(t *testing.T) {
	module := compileSource(t, `
func compare(a, b) {
	if a < b { 0 - 1 } else if a > b { 1 } else { 0 }
}`)
	require.Equal(t, []byte{
		0x20, 0x00, 0x20, 0x01, 0x48, // a < b
		0x04, 0x7f, // if (result i32)
		0x41, 0x00, 0x41, 0x01, 0x6b, // 0 - 1
		0x05,                         // else
		0x20, 0x00, 0x20, 0x01, 0x4a, // a > b
		0x04, 0x7f, // if (result i32)
		0x41, 0x01, // 1
		0x05,       // else
		0x41, 0x00, // 0
		0x0b, // end
		0x0b, // end
	}, module.Funcs[0].Body.Bytes())
}

func TestCompileWhile(t *testing.T) {
	module := compileSource(t, `
func countTo(n) {
	let x = 0
	while x < n {
		x := x + 1
	}
	x
}`)
	fn := module.Funcs[0]
	require.Equal(t, []wasm.ValType{wasm.I32}, fn.Params)
	require.Equal(t, []wasm.LocalGroup{{Count: 1, Type: wasm.I32}}, fn.Locals)
	require.Equal(t, []byte{
		0x41, 0x00, 0x21, 0x01, // let x = 0
		0x03, 0x40, // loop (void)
		0x20, 0x01, 0x20, 0x00, 0x48, // x < n
		0x04, 0x40, // if (void)
		0x20, 0x01, 0x41, 0x01, 0x6a, 0x22, 0x01, 0x1a, // x := x + 1, dropped
		0x0c, 0x01, // br 1
		0x0b,       // end if
		0x0b,       // end loop
		0x20, 0x01, // x
	}, fn.Body.Bytes())
}

func TestCompileLeftAssociativeChain(t *testing.T) {
	module := compileSource(t, "func f(a, b, c) { a - b - c }")
	// (a - b) - c
	require.Equal(t, []byte{
		0x20, 0x00, 0x20, 0x01, 0x6b,
		0x20, 0x02, 0x6b,
	}, module.Funcs[0].Body.Bytes())
}

func TestCompileLogicalOperators(t *testing.T) {
	module := compileSource(t, "func f(a, b) { a and b or 1 }")
	// Bitwise lowering: both operands always evaluate, no short circuit.
	require.Equal(t, []byte{
		0x20, 0x00, 0x20, 0x01, 0x71,
		0x41, 0x01, 0x72,
	}, module.Funcs[0].Body.Bytes())
}

func TestCompileComparisonOperators(t *testing.T) {
	tests := []struct {
		op     string
		opcode byte
	}{
		{"==", 0x46},
		{"!=", 0x47},
		{"<", 0x48},
		{">", 0x4a},
		{"<=", 0x4c},
		{">=", 0x4e},
	}
	for _, tt := range tests {
		module := compileSource(t, "func f(a, b) { a "+tt.op+" b }")
		require.Equal(t, []byte{0x20, 0x00, 0x20, 0x01, tt.opcode},
			module.Funcs[0].Body.Bytes(), "operator %s", tt.op)
	}
}

func TestCompileMultiByteLiteral(t *testing.T) {
	// Literals are always non-negative; a negative value is spelled as a
	// subtraction, so the immediate is the positive SLEB128 encoding.
	module := compileSource(t, "func f() { 0 - 123456 }")
	require.Equal(t, []byte{0x41, 0x00, 0x41, 0xc0, 0xc4, 0x07, 0x6b},
		module.Funcs[0].Body.Bytes())
}

func TestCompileForwardCall(t *testing.T) {
	// Calls resolve against the full declaration table, so a call target
	// declared later in the source is fine.
	module := compileSource(t, `
func one() { two() }
func two() { 1 }
`)
	require.Equal(t, []byte{0x10, 0x01}, module.Funcs[0].Body.Bytes())
}

func TestCompileRecursion(t *testing.T) {
	module := compileSource(t, `
func isEven(n) { if n == 0 { 1 } else { isOdd(n - 1) } }
func isOdd(n) { if n == 0 { 0 } else { isEven(n - 1) } }
`)
	require.Len(t, module.Funcs, 2)
	// isEven calls isOdd (index 1) and isOdd calls isEven (index 0).
	require.Contains(t, string(module.Funcs[0].Body.Bytes()), string([]byte{0x10, 0x01}))
	require.Contains(t, string(module.Funcs[1].Body.Bytes()), string([]byte{0x10, 0x00}))
}

func TestCompileLetInsideLoopIsFunctionWide(t *testing.T) {
	module := compileSource(t, `
func f(n) {
	while n {
		let y = n
		n := n - y
	}
	n
}`)
	// y lives in the function frame; index 1 after the parameter.
	require.Equal(t, []wasm.LocalGroup{{Count: 1, Type: wasm.I32}}, module.Funcs[0].Locals)
}

func TestCompileUndeclaredIdentifier(t *testing.T) {
	err := compileError(t, "func main() { x }")
	require.Equal(t, errors.E2001, err.Code)
	require.Contains(t, err.Error(), `undeclared identifier "x"`)
}

func TestCompileUndeclaredIdentifierSuggestion(t *testing.T) {
	err := compileError(t, "func main(count) { connt }")
	require.Equal(t, errors.E2001, err.Code)
	require.Len(t, err.Suggestions, 1)
	require.Equal(t, "count", err.Suggestions[0].Value)
}

func TestCompileNoCrossFunctionScope(t *testing.T) {
	// Identifiers resolve only within their own function.
	err := compileError(t, `
func a(x) { x }
func b() { x }
`)
	require.Equal(t, errors.E2001, err.Code)
}

func TestCompileFunctionNameIsNotAValue(t *testing.T) {
	// Function names live in the module scope, not the local frame.
	err := compileError(t, `
func helper() { 1 }
func main() { helper }
`)
	require.Equal(t, errors.E2001, err.Code)
}

func TestCompileMissingResultExpression(t *testing.T) {
	err := compileError(t, "func main() { let x = 1 }")
	require.Equal(t, errors.E2003, err.Code)
	require.Contains(t, err.Error(), "must end in an expression")
}

func TestCompileEmptyBody(t *testing.T) {
	err := compileError(t, "func main() { }")
	require.Equal(t, errors.E2003, err.Code)
}

func TestCompileIfExpressionMissingElse(t *testing.T) {
	err := compileError(t, `
func main(a) {
	let x = if a { 1 }
	x
}`)
	require.Equal(t, errors.E2004, err.Code)
	require.Contains(t, err.Error(), "else")
}

func TestCompileTailIfMissingElse(t *testing.T) {
	// A trailing if supplies the function result, so it needs both arms.
	err := compileError(t, "func main(a) { if a { 1 } }")
	require.Equal(t, errors.E2004, err.Code)
}

func TestCompileDuplicateFunction(t *testing.T) {
	err := compileError(t, `
func main() { 1 }
func main() { 2 }
`)
	require.Equal(t, errors.E2005, err.Code)
	require.Contains(t, err.Error(), `function "main" redefined`)
}

func TestCompileUndefinedFunction(t *testing.T) {
	err := compileError(t, `
func count() { 1 }
func main() { cuont() }
`)
	require.Equal(t, errors.E2006, err.Code)
	require.Contains(t, err.Error(), `undefined function "cuont"`)
	require.Len(t, err.Suggestions, 1)
	require.Equal(t, "count", err.Suggestions[0].Value)
}

func TestCompileErrorLocation(t *testing.T) {
	err := compileError(t, "func main() {\n\tbogus\n}")
	require.Equal(t, 2, err.Location.Line)
	require.Equal(t, "\tbogus", err.Location.Source)
}

func TestModuleScopeAfterCompile(t *testing.T) {
	source := `
func first(a, b) { a }
func second() { first(1, 2) }
`
	program, err := parser.Parse(source)
	require.Nil(t, err)
	c := New()
	_, err = c.Compile(program)
	require.Nil(t, err)

	scope := c.ModuleScope()
	require.Equal(t, []string{"first", "second"}, scope.Names())
	table, ok := scope.Function("first")
	require.True(t, ok)
	require.Equal(t, uint32(2), table.ParamCount())
}
