package wisp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	wisp "github.com/deepnoodle-ai/wisp"
	"github.com/deepnoodle-ai/wisp/errors"
	"github.com/deepnoodle-ai/wisp/wasm"
)

func TestCompileConstantModule(t *testing.T) {
	encoded, err := wisp.Compile("func main() { 42 }")
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7f, // type: () -> i32
		0x03, 0x02, 0x01, 0x00, // func 0 uses type 0
		0x07, 0x08, 0x01, 0x04, 'm', 'a', 'i', 'n', 0x00, 0x00, // export "main"
		0x0a, 0x06, 0x01, 0x04, 0x00, 0x41, 0x2a, 0x0b, // code
	}, encoded)
}

func TestCompileTwoFunctionModule(t *testing.T) {
	encoded, err := wisp.Compile(`
func doIt() { add(1, 2) }
func add(a, b) { a + b }
`)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x00, 0x61, 0x73, 0x6d,
		0x01, 0x00, 0x00, 0x00,
		// type: () -> i32 and (i32, i32) -> i32
		0x01, 0x0b, 0x02,
		0x60, 0x00, 0x01, 0x7f,
		0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
		// function: each func uses its own type index
		0x03, 0x03, 0x02, 0x00, 0x01,
		// export: both functions by name
		0x07, 0x0e, 0x02,
		0x04, 'd', 'o', 'I', 't', 0x00, 0x00,
		0x03, 'a', 'd', 'd', 0x00, 0x01,
		// code: doIt calls add(1, 2); add returns a + b
		0x0a, 0x12, 0x02,
		0x08, 0x00, 0x41, 0x01, 0x41, 0x02, 0x10, 0x01, 0x0b,
		0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
	}, encoded)
}

func TestCompileLoopModule(t *testing.T) {
	encoded, err := wisp.Compile(`
func countTo(n) {
	let x = 0
	while x < n {
		x := x + 1
	}
	x
}
`)
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x00, 0x61, 0x73, 0x6d,
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x06, 0x01, 0x60, 0x01, 0x7f, 0x01, 0x7f, // (i32) -> i32
		0x03, 0x02, 0x01, 0x00,
		0x07, 0x0b, 0x01, 0x07, 'c', 'o', 'u', 'n', 't', 'T', 'o', 0x00, 0x00,
		0x0a, 0x21, 0x01,
		0x1f,             // body size
		0x01, 0x01, 0x7f, // one i32 local
		0x41, 0x00, 0x21, 0x01, // let x = 0
		0x03, 0x40, // loop (void)
		0x20, 0x01, 0x20, 0x00, 0x48, // x < n
		0x04, 0x40, // if (void)
		0x20, 0x01, 0x41, 0x01, 0x6a, 0x22, 0x01, 0x1a, // x := x + 1
		0x0c, 0x01, // br 1
		0x0b,       // end if
		0x0b,       // end loop
		0x20, 0x01, // x
		0x0b, // end body
	}, encoded)
}

func TestCompileBodies(t *testing.T) {
	// Checks the code-section body framing for each shape of function.
	tests := []struct {
		name   string
		source string
		body   []byte
	}{
		{
			name:   "locals and assignment",
			source: "func main() { let x = 10; x := 9; x }",
			body: []byte{
				0x0f, 0x01, 0x01, 0x7f,
				0x41, 0x0a, 0x21, 0x00,
				0x41, 0x09, 0x22, 0x00, 0x1a,
				0x20, 0x00, 0x0b,
			},
		},
		{
			name:   "if expression",
			source: "func choose(x) { if x { 42 } else { 43 } }",
			body: []byte{
				0x0c, 0x00,
				0x20, 0x00, 0x04, 0x7f, 0x41, 0x2a, 0x05, 0x41, 0x2b, 0x0b,
				0x0b,
			},
		},
		{
			name:   "else if chain",
			source: "func compare(a, b) { if a < b { 0 - 1 } else if a > b { 1 } else { 0 } }",
			body: []byte{
				0x1d, 0x00,
				0x20, 0x00, 0x20, 0x01, 0x48,
				0x04, 0x7f,
				0x41, 0x00, 0x41, 0x01, 0x6b,
				0x05,
				0x20, 0x00, 0x20, 0x01, 0x4a,
				0x04, 0x7f,
				0x41, 0x01,
				0x05,
				0x41, 0x00,
				0x0b,
				0x0b,
				0x0b,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := wisp.Compile(tt.source)
			require.Nil(t, err)
			require.Contains(t, string(encoded), string(tt.body))
		})
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	source := `
func isEven(n) { if n == 0 { 1 } else { isOdd(n - 1) } }
func isOdd(n) { if n == 0 { 0 } else { isEven(n - 1) } }
`
	first, err := wisp.Compile(source)
	require.Nil(t, err)
	second, err := wisp.Compile(source)
	require.Nil(t, err)
	require.Equal(t, first, second)
}

func TestCompileModule(t *testing.T) {
	module, err := wisp.CompileModule("func main() { 42 }")
	require.Nil(t, err)
	require.Len(t, module.Funcs, 1)
	require.Equal(t, "main", module.Funcs[0].Name)
	require.Equal(t, []wasm.ValType{wasm.I32}, module.Funcs[0].Results)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := wisp.Compile("func main() {", wisp.WithFilename("main.wisp"))
	require.NotNil(t, err)
	serr, ok := err.(*errors.SyntaxError)
	require.True(t, ok)
	require.Equal(t, errors.E1004, serr.Code)
	require.Equal(t, "main.wisp", serr.Location.Filename)
}

func TestCompileSemanticError(t *testing.T) {
	_, err := wisp.Compile("func main() { x }", wisp.WithFilename("main.wisp"))
	require.NotNil(t, err)
	cerr, ok := err.(*errors.CompileError)
	require.True(t, ok)
	require.Equal(t, errors.E2001, cerr.Code)
	require.Equal(t, "main.wisp", cerr.Location.Filename)
	require.Equal(t, "func main() { x }", cerr.Location.Source)
}

func TestCompileErrorProducesNoBytes(t *testing.T) {
	encoded, err := wisp.Compile(`
func ok() { 1 }
func bad() { nope }
`)
	require.NotNil(t, err)
	require.Nil(t, encoded)
}
