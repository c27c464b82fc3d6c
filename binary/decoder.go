package binary

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gowasm/wasmenc/internal/leb128"
	"github.com/gowasm/wasmenc/wasm"
)

// Decoder is a cursor over a byte slice, consuming it left to right. Every
// read method advances the cursor and fails with an error naming the
// decoder's position if the bytes remaining don't satisfy the requested
// shape.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a Decoder positioned at the start of b.
func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

// Pos returns the number of bytes consumed so far.
func (d *Decoder) Pos() int { return d.pos }

// Remaining returns the bytes not yet consumed.
func (d *Decoder) Remaining() []byte { return d.buf[d.pos:] }

func (d *Decoder) uint8() (uint8, error) {
	if d.pos >= len(d.buf) {
		return 0, fmt.Errorf("binary: unexpected end of input at offset %d", d.pos)
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

func (d *Decoder) bytes(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, fmt.Errorf("binary: unexpected end of input at offset %d, need %d bytes", d.pos, n)
	}
	v := d.buf[d.pos : d.pos+n]
	d.pos += n
	return v, nil
}

func (d *Decoder) uint32() (uint32, error) {
	b, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) float64() (float64, error) {
	b, err := d.bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (d *Decoder) varuint32() (uint32, error) {
	v, n, err := leb128.LoadUint32(d.Remaining())
	if err != nil {
		return 0, fmt.Errorf("binary: at offset %d: %w", d.pos, err)
	}
	d.pos += int(n)
	return v, nil
}

func (d *Decoder) varuint7() (uint8, error) {
	v, err := d.varuint32()
	if err != nil {
		return 0, err
	}
	if !wasm.IsUint7(int64(v)) {
		return 0, fmt.Errorf("binary: at offset %d: %d is not a valid varuint7", d.pos, v)
	}
	return uint8(v), nil
}

func (d *Decoder) varuint1() (uint8, error) {
	v, err := d.varuint32()
	if err != nil {
		return 0, err
	}
	if !wasm.IsUint1(int64(v)) {
		return 0, fmt.Errorf("binary: at offset %d: %d is not a valid varuint1", d.pos, v)
	}
	return uint8(v), nil
}

func (d *Decoder) varint32() (int32, error) {
	v, n, err := leb128.LoadInt32(d.Remaining())
	if err != nil {
		return 0, fmt.Errorf("binary: at offset %d: %w", d.pos, err)
	}
	d.pos += int(n)
	return v, nil
}

func (d *Decoder) varint64() (int64, error) {
	v, n, err := leb128.LoadInt64(d.Remaining())
	if err != nil {
		return 0, fmt.Errorf("binary: at offset %d: %w", d.pos, err)
	}
	d.pos += int(n)
	return v, nil
}

func (d *Decoder) varint7() (int8, error) {
	v, err := d.varint32()
	if err != nil {
		return 0, err
	}
	if !wasm.IsInt7(int64(v)) {
		return 0, fmt.Errorf("binary: at offset %d: %d is not a valid varint7", d.pos, v)
	}
	return int8(v), nil
}

func (d *Decoder) utf8() (string, error) {
	n, err := d.varuint32()
	if err != nil {
		return "", err
	}
	b, err := d.bytes(int(n))
	if err != nil {
		return "", err
	}
	for i, c := range b {
		if c >= 0x80 {
			return "", fmt.Errorf("binary: at offset %d: name contains a non-ASCII byte at index %d", d.pos, i)
		}
	}
	return string(b), nil
}

func (d *Decoder) typ() (wasm.Type, error) {
	v, err := d.varint7()
	if err != nil {
		return 0, err
	}
	t := wasm.Type(v)
	if !t.IsValid() {
		return 0, fmt.Errorf("binary: at offset %d: %d is not a valid type", d.pos, v)
	}
	return t, nil
}

func (d *Decoder) valueType() (wasm.ValueType, error) {
	t, err := d.typ()
	if err != nil {
		return 0, err
	}
	return wasm.ValueTypeFromType(t)
}

func (d *Decoder) externalKind() (wasm.ExternalKind, error) {
	b, err := d.uint8()
	if err != nil {
		return 0, err
	}
	return wasm.ToExternalKind(b)
}

func (d *Decoder) op() (wasm.Opcode, error) {
	b, err := d.uint8()
	if err != nil {
		return 0, err
	}
	return wasm.ToOpcode(b)
}

func (d *Decoder) sectionCode() (wasm.SectionCode, error) {
	b, err := d.varuint7()
	if err != nil {
		return 0, err
	}
	return wasm.ToSectionCode(b)
}

// modulePreamble consumes and validates the magic number and version.
func (d *Decoder) modulePreamble() error {
	magicBytes, err := d.bytes(4)
	if err != nil {
		return fmt.Errorf("binary: %w", err)
	}
	var magic [4]byte
	copy(magic[:], magicBytes)
	version, err := d.uint32()
	if err != nil {
		return fmt.Errorf("binary: %w", err)
	}
	return wasm.ValidatePreamble(magic, version)
}

func (d *Decoder) funcType() (*wasm.FuncType, error) {
	form, err := d.typ()
	if err != nil {
		return nil, err
	}
	if form != wasm.TypeFunc {
		return nil, fmt.Errorf("binary: at offset %d: unsupported type form %s, expected func", d.pos, form)
	}
	paramCount, err := d.varuint32()
	if err != nil {
		return nil, err
	}
	// Zero counts decode to nil slices, matching a FuncType built with nil.
	var params, results []wasm.ValueType
	if paramCount > 0 {
		params = make([]wasm.ValueType, paramCount)
	}
	for i := range params {
		if params[i], err = d.valueType(); err != nil {
			return nil, err
		}
	}
	resultCount, err := d.varuint1()
	if err != nil {
		return nil, err
	}
	if resultCount > 0 {
		results = make([]wasm.ValueType, resultCount)
	}
	for i := range results {
		if results[i], err = d.valueType(); err != nil {
			return nil, err
		}
	}
	return wasm.NewFuncType(params, results)
}

func (d *Decoder) typeSection() (*wasm.TypeSection, error) {
	count, err := d.varuint32()
	if err != nil {
		return nil, err
	}
	types := make([]*wasm.FuncType, count)
	for i := range types {
		if types[i], err = d.funcType(); err != nil {
			return nil, err
		}
	}
	return &wasm.TypeSection{Types: types}, nil
}

func (d *Decoder) functionSection() (*wasm.FunctionSection, error) {
	count, err := d.varuint32()
	if err != nil {
		return nil, err
	}
	indices := make([]uint32, count)
	for i := range indices {
		if indices[i], err = d.varuint32(); err != nil {
			return nil, err
		}
	}
	return &wasm.FunctionSection{TypeIndices: indices}, nil
}

func (d *Decoder) exportEntry() (*wasm.ExportEntry, error) {
	name, err := d.utf8()
	if err != nil {
		return nil, err
	}
	kind, err := d.externalKind()
	if err != nil {
		return nil, err
	}
	index, err := d.varuint32()
	if err != nil {
		return nil, err
	}
	return wasm.NewExportEntry(name, kind, index)
}

func (d *Decoder) exportSection() (*wasm.ExportSection, error) {
	count, err := d.varuint32()
	if err != nil {
		return nil, err
	}
	entries := make([]*wasm.ExportEntry, count)
	for i := range entries {
		if entries[i], err = d.exportEntry(); err != nil {
			return nil, err
		}
	}
	return &wasm.ExportSection{Entries: entries}, nil
}

func (d *Decoder) localEntry() (*wasm.LocalEntry, error) {
	count, err := d.varuint32()
	if err != nil {
		return nil, err
	}
	typ, err := d.valueType()
	if err != nil {
		return nil, err
	}
	return &wasm.LocalEntry{Count: count, Type: typ}, nil
}

func (d *Decoder) functionBody() (*wasm.FunctionBody, error) {
	bodySize, err := d.varuint32()
	if err != nil {
		return nil, err
	}
	raw, err := d.bytes(int(bodySize))
	if err != nil {
		return nil, err
	}
	body := NewDecoder(raw)
	localCount, err := body.varuint32()
	if err != nil {
		return nil, err
	}
	var locals []*wasm.LocalEntry
	if localCount > 0 {
		locals = make([]*wasm.LocalEntry, localCount)
	}
	for i := range locals {
		if locals[i], err = body.localEntry(); err != nil {
			return nil, err
		}
	}
	code := body.Remaining()
	return wasm.NewFunctionBody(locals, code)
}

func (d *Decoder) codeSection() (*wasm.CodeSection, error) {
	count, err := d.varuint32()
	if err != nil {
		return nil, err
	}
	bodies := make([]*wasm.FunctionBody, count)
	for i := range bodies {
		if bodies[i], err = d.functionBody(); err != nil {
			return nil, err
		}
	}
	return &wasm.CodeSection{Bodies: bodies}, nil
}

func (d *Decoder) float32() (float32, error) {
	b, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadOpcode reads one instruction opcode byte. Exported for the
// disassembler, which walks a function body's code as its own Decoder.
func (d *Decoder) ReadOpcode() (wasm.Opcode, error) { return d.op() }

// ReadByte reads one raw byte, the encoding of call_indirect's and
// current_memory/grow_memory's reserved operand.
func (d *Decoder) ReadByte() (byte, error) { return d.uint8() }

// ReadVarUint32 reads a LEB128 unsigned 32-bit integer, the encoding of most
// instruction immediates (branch depths, local/global/function indices).
func (d *Decoder) ReadVarUint32() (uint32, error) { return d.varuint32() }

// ReadVarInt32 reads a LEB128 signed 32-bit integer, the encoding of a block
// type immediate and of i32.const.
func (d *Decoder) ReadVarInt32() (int32, error) { return d.varint32() }

// ReadVarInt64 reads a LEB128 signed 64-bit integer, the encoding of
// i64.const.
func (d *Decoder) ReadVarInt64() (int64, error) { return d.varint64() }

// ReadF32 reads a raw little-endian IEEE-754 single-precision float, the
// encoding of f32.const.
func (d *Decoder) ReadF32() (float32, error) { return d.float32() }

// ReadF64 reads a raw little-endian IEEE-754 double-precision float, the
// encoding of f64.const.
func (d *Decoder) ReadF64() (float64, error) { return d.float64() }

func (d *Decoder) customSection() (*wasm.CustomSection, error) {
	name, err := d.utf8()
	if err != nil {
		return nil, err
	}
	return &wasm.CustomSection{Name: name, Data: d.Remaining()}, nil
}

// DecodeModule decodes a complete wasm.Module from b: the preamble followed
// by zero or more sections, read until the input is exhausted.
func DecodeModule(b []byte) (*wasm.Module, error) {
	d := NewDecoder(b)
	if err := d.modulePreamble(); err != nil {
		return nil, err
	}
	m := &wasm.Module{}
	for len(d.Remaining()) > 0 {
		start := d.pos
		id, err := d.sectionCode()
		if err != nil {
			return nil, err
		}
		if !id.Supported() {
			return nil, fmt.Errorf("binary: at offset %d: section %s is not supported", start, id)
		}
		payloadLen, err := d.varuint32()
		if err != nil {
			return nil, err
		}
		payload, err := d.bytes(int(payloadLen))
		if err != nil {
			return nil, err
		}
		sub := NewDecoder(payload)
		switch id {
		case wasm.SectionCustom:
			c, err := sub.customSection()
			if err != nil {
				return nil, err
			}
			m.Custom = append(m.Custom, c)
			continue
		case wasm.SectionType:
			if m.Types, err = sub.typeSection(); err != nil {
				return nil, err
			}
		case wasm.SectionFunction:
			if m.Functions, err = sub.functionSection(); err != nil {
				return nil, err
			}
		case wasm.SectionExport:
			if m.Exports, err = sub.exportSection(); err != nil {
				return nil, err
			}
		case wasm.SectionCode_:
			if m.Code, err = sub.codeSection(); err != nil {
				return nil, err
			}
		}
		if len(sub.Remaining()) != 0 {
			return nil, fmt.Errorf("binary: section %s declared %d payload bytes but only consumed %d", id, payloadLen, sub.pos)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
