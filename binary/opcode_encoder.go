package binary

import "github.com/gowasm/wasmenc/wasm"

// OpEncoder builds a function body's instruction stream one instruction at a
// time. It exists because wasm.FunctionBody.Code is a flat byte slice: this
// type is the convenient, mistake-resistant way to produce one.
type OpEncoder struct {
	enc *Encoder
}

// NewOpEncoder returns an empty OpEncoder.
func NewOpEncoder() *OpEncoder { return &OpEncoder{enc: NewEncoder()} }

// Code returns the instruction bytes written so far.
func (o *OpEncoder) Code() []byte { return o.enc.Bytes() }

// Return appends the `return` instruction.
func (o *OpEncoder) Return() *OpEncoder {
	o.enc.op(wasm.OpcodeReturn)
	return o
}

// End appends the `end` instruction, the mandatory terminator of every
// function body.
func (o *OpEncoder) End() *OpEncoder {
	o.enc.op(wasm.OpcodeEnd)
	return o
}

// GetLocal appends `get_local index`.
func (o *OpEncoder) GetLocal(index uint32) *OpEncoder {
	o.enc.op(wasm.OpcodeLocalGet)
	o.enc.varuint32(index)
	return o
}

// SetLocal appends `set_local index`.
func (o *OpEncoder) SetLocal(index uint32) *OpEncoder {
	o.enc.op(wasm.OpcodeLocalSet)
	o.enc.varuint32(index)
	return o
}

// F64Const appends `f64.const value`: opcode 0x44 followed by value's
// 8-byte little-endian IEEE-754 encoding.
func (o *OpEncoder) F64Const(value float64) *OpEncoder {
	o.enc.op(wasm.OpcodeF64Const)
	o.enc.float64(value)
	return o
}

// I32Const appends `i32.const value`.
func (o *OpEncoder) I32Const(value int32) *OpEncoder {
	o.enc.op(wasm.OpcodeI32Const)
	o.enc.varint32(value)
	return o
}

// I64Const appends `i64.const value`: opcode 0x42 followed by value's
// LEB128 signed encoding.
func (o *OpEncoder) I64Const(value int64) *OpEncoder {
	o.enc.op(wasm.OpcodeI64Const)
	o.enc.varint64(value)
	return o
}

// Call appends `call index`.
func (o *OpEncoder) Call(index uint32) *OpEncoder {
	o.enc.op(wasm.OpcodeCall)
	o.enc.varuint32(index)
	return o
}
