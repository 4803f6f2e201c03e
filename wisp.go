// Package wisp compiles a small imperative language into WebAssembly
// binary modules.
//
// The pipeline is: source text -> lexer -> parser -> AST -> two-pass
// compiler (symbol resolution, then code generation) -> binary module
// assembly. Compilation is stateless and synchronous: each call is a total
// function from source text to module bytes or a single fatal error, and
// concurrent calls share nothing.
//
// Basic usage:
//
//	bytes, err := wisp.Compile("func main() { 42 }")
//	if err != nil {
//	    // err is a *errors.SyntaxError or *errors.CompileError
//	}
//	os.WriteFile("main.wasm", bytes, 0o644)
//
// Every declared function is exported from the module under its source
// name, so any conforming WebAssembly runtime can load the bytes and
// invoke the functions directly.
package wisp

import (
	"github.com/deepnoodle-ai/wisp/compiler"
	"github.com/deepnoodle-ai/wisp/parser"
	"github.com/deepnoodle-ai/wisp/wasm"
)

// Option configures a wisp compilation.
type Option func(*options)

type options struct {
	filename string
}

// WithFilename sets the source filename used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// Compile compiles wisp source code and returns the binary module bytes.
func Compile(source string, opts ...Option) ([]byte, error) {
	module, err := CompileModule(source, opts...)
	if err != nil {
		return nil, err
	}
	return module.Encode(), nil
}

// CompileModule compiles wisp source code and returns the module prior to
// binary encoding, which is useful for inspection and disassembly.
func CompileModule(source string, opts ...Option) (*wasm.Module, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	var parserOpts []parser.Option
	if o.filename != "" {
		parserOpts = append(parserOpts, parser.WithFilename(o.filename))
	}
	program, err := parser.Parse(source, parserOpts...)
	if err != nil {
		return nil, err
	}
	compilerOpts := []compiler.Option{compiler.WithSource(source)}
	if o.filename != "" {
		compilerOpts = append(compilerOpts, compiler.WithFilename(o.filename))
	}
	return compiler.Compile(program, compilerOpts...)
}
