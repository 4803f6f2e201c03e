// Package wasm assembles WebAssembly binary modules.
//
// The package covers exactly what the wisp compiler needs to produce a
// loadable module: full-range LEB128 integer encoders, a Fragment type that
// accumulates bytes as a tree and is flattened once at serialization time,
// and the framing rules for vectors, sections and the module header.
//
// Sections are emitted in the order the binary format requires: type,
// function, export, code. Any other order produces a module a conforming
// runtime will reject.
package wasm

// Magic is the 4-byte module preamble ("\0asm").
var Magic = []byte{0x00, 0x61, 0x73, 0x6d}

// Version is the 4-byte binary format version (1, little-endian).
var Version = []byte{0x01, 0x00, 0x00, 0x00}

// ValType is a value type tag.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
	F32 ValType = 0x7d
	F64 ValType = 0x7c
)

// SectionID identifies a module section.
type SectionID byte

const (
	SectionType     SectionID = 0x01
	SectionFunction SectionID = 0x03
	SectionExport   SectionID = 0x07
	SectionCode     SectionID = 0x0a
)

// FuncTypeTag marks a function type in the type section.
const FuncTypeTag byte = 0x60

// ExportKindFunc marks a function export in the export section.
const ExportKindFunc byte = 0x00

// BlockTypeVoid is the block type for blocks that leave no value.
const BlockTypeVoid byte = 0x40

// Opcodes used by the wisp code generator.
const (
	OpBlock    byte = 0x02
	OpLoop     byte = 0x03
	OpIf       byte = 0x04
	OpElse     byte = 0x05
	OpEnd      byte = 0x0b
	OpBr       byte = 0x0c
	OpBrIf     byte = 0x0d
	OpCall     byte = 0x10
	OpDrop     byte = 0x1a
	OpLocalGet byte = 0x20
	OpLocalSet byte = 0x21
	OpLocalTee byte = 0x22
	OpI32Const byte = 0x41
	OpI32Eq    byte = 0x46
	OpI32Ne    byte = 0x47
	OpI32LtS   byte = 0x48
	OpI32GtS   byte = 0x4a
	OpI32LeS   byte = 0x4c
	OpI32GeS   byte = 0x4e
	OpI32Add   byte = 0x6a
	OpI32Sub   byte = 0x6b
	OpI32And   byte = 0x71
	OpI32Or    byte = 0x72
)

// opcodeNames maps opcodes to their text names, for disassembly.
var opcodeNames = map[byte]string{
	OpBlock:    "block",
	OpLoop:     "loop",
	OpIf:       "if",
	OpElse:     "else",
	OpEnd:      "end",
	OpBr:       "br",
	OpBrIf:     "br_if",
	OpCall:     "call",
	OpDrop:     "drop",
	OpLocalGet: "local.get",
	OpLocalSet: "local.set",
	OpLocalTee: "local.tee",
	OpI32Const: "i32.const",
	OpI32Eq:    "i32.eq",
	OpI32Ne:    "i32.ne",
	OpI32LtS:   "i32.lt_s",
	OpI32GtS:   "i32.gt_s",
	OpI32LeS:   "i32.le_s",
	OpI32GeS:   "i32.ge_s",
	OpI32Add:   "i32.add",
	OpI32Sub:   "i32.sub",
	OpI32And:   "i32.and",
	OpI32Or:    "i32.or",
}

// OpcodeName returns the text name of an opcode, or "" if it is unknown.
func OpcodeName(op byte) string {
	return opcodeNames[op]
}
