// Package dis disassembles compiled wisp functions into a readable,
// wat-like text listing. It is used by the CLI and by tests that want to
// assert on the structure of generated code without comparing raw bytes.
package dis

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/wisp/wasm"
)

var (
	colorKeyword = color.New(color.FgCyan)
	colorName    = color.New(color.FgGreen)
	colorOperand = color.New(color.FgYellow)
)

// Module returns a text listing of every function in the module.
func Module(m *wasm.Module) (string, error) {
	var b strings.Builder
	b.WriteString("(module\n")
	for _, fn := range m.Funcs {
		text, err := Function(fn)
		if err != nil {
			return "", err
		}
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString(")\n")
	return b.String(), nil
}

// Function returns a text listing of one function: its signature, locals
// and decoded instruction stream.
func Function(fn *wasm.Function) (string, error) {
	var b strings.Builder

	b.WriteString(colorKeyword.Sprint("(func "))
	b.WriteString(colorName.Sprintf("$%s", fn.Name))
	for range fn.Params {
		b.WriteString(colorKeyword.Sprint(" (param i32)"))
	}
	for range fn.Results {
		b.WriteString(colorKeyword.Sprint(" (result i32)"))
	}
	b.WriteString("\n")
	for _, group := range fn.Locals {
		for i := uint32(0); i < group.Count; i++ {
			b.WriteString("  ")
			b.WriteString(colorKeyword.Sprint("(local i32)"))
			b.WriteString("\n")
		}
	}

	var body []byte
	if fn.Body != nil {
		body = fn.Body.Bytes()
	}
	text, err := Instructions(body)
	if err != nil {
		return "", fmt.Errorf("disassemble %s: %w", fn.Name, err)
	}
	b.WriteString(text)
	b.WriteString(")\n")
	return b.String(), nil
}

// Instructions decodes and formats an instruction byte stream. Nested
// blocks are indented; operands are decoded from their LEB128 encodings.
func Instructions(body []byte) (string, error) {
	var b strings.Builder
	depth := 1
	for pos := 0; pos < len(body); {
		opcode := body[pos]
		name := wasm.OpcodeName(opcode)
		if name == "" {
			return "", fmt.Errorf("unknown opcode 0x%02x at offset %d", opcode, pos)
		}
		pos++

		indent := depth
		switch opcode {
		case wasm.OpElse:
			indent--
		case wasm.OpEnd:
			depth--
			indent = depth
			if depth < 0 {
				return "", fmt.Errorf("unbalanced end marker at offset %d", pos-1)
			}
		}
		b.WriteString(strings.Repeat("  ", indent))
		b.WriteString(name)

		switch opcode {
		case wasm.OpBlock, wasm.OpLoop, wasm.OpIf:
			if pos >= len(body) {
				return "", fmt.Errorf("truncated block type at offset %d", pos)
			}
			if bt := body[pos]; bt != wasm.BlockTypeVoid {
				b.WriteString(colorOperand.Sprintf(" (result %s)", valTypeName(bt)))
			}
			pos++
			depth++
		case wasm.OpBr, wasm.OpBrIf, wasm.OpCall, wasm.OpLocalGet, wasm.OpLocalSet, wasm.OpLocalTee:
			v, n := wasm.ReadUleb128(body[pos:])
			if n == 0 {
				return "", fmt.Errorf("truncated operand at offset %d", pos)
			}
			pos += n
			b.WriteString(colorOperand.Sprintf(" %d", v))
		case wasm.OpI32Const:
			v, n := wasm.ReadSleb128(body[pos:])
			if n == 0 {
				return "", fmt.Errorf("truncated operand at offset %d", pos)
			}
			pos += n
			b.WriteString(colorOperand.Sprintf(" %d", v))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func valTypeName(vt byte) string {
	switch wasm.ValType(vt) {
	case wasm.I32:
		return "i32"
	case wasm.I64:
		return "i64"
	case wasm.F32:
		return "f32"
	case wasm.F64:
		return "f64"
	}
	return fmt.Sprintf("0x%02x", vt)
}
