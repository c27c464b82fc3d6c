// Package binary implements the WebAssembly MVP binary format: encoding a
// wasm.Module to bytes and decoding bytes back to a wasm.Module.
package binary

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gowasm/wasmenc/internal/leb128"
	"github.com/gowasm/wasmenc/wasm"
)

// Encoder builds the byte serialization of a wasm.Module incrementally.
// Every method appends to an internal buffer; Bytes returns the result.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns everything written so far.
func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) uint8(v uint8) { e.buf = append(e.buf, v) }

func (e *Encoder) bytes(b []byte) { e.buf = append(e.buf, b...) }

// uint32 appends v as four little-endian bytes, used only for the preamble
// version field (the one fixed-width integer in the format).
func (e *Encoder) uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.bytes(b[:])
}

// float64 appends v as eight little-endian bytes, IEEE-754 double precision.
func (e *Encoder) float64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	e.bytes(b[:])
}

func (e *Encoder) varuint32(v uint32) { e.bytes(leb128.EncodeUint32(v)) }

func (e *Encoder) varuint7(v uint8) {
	wasm.AssertUint7("varuint7", int64(v))
	e.bytes(leb128.EncodeUint32(uint32(v)))
}

func (e *Encoder) varuint1(v uint8) {
	wasm.AssertUint1("varuint1", int64(v))
	e.bytes(leb128.EncodeUint32(uint32(v)))
}

func (e *Encoder) varint32(v int32) { e.bytes(leb128.EncodeInt32(v)) }

func (e *Encoder) varint64(v int64) { e.bytes(leb128.EncodeInt64(v)) }

func (e *Encoder) varint7(v int8) {
	wasm.AssertInt7("varint7", int64(v))
	e.bytes(leb128.EncodeInt32(int32(v)))
}

// utf8 appends s as a varuint32 byte length followed by its bytes. Per
// spec.md's Non-goal on non-ASCII names, every byte of s must be < 0x80.
func (e *Encoder) utf8(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return fmt.Errorf("binary: name %q contains a non-ASCII byte at offset %d", s, i)
		}
	}
	e.varuint32(uint32(len(s)))
	e.bytes([]byte(s))
	return nil
}

func (e *Encoder) typ(t wasm.Type) {
	wasm.AssertInt7("type", int64(t))
	e.varint7(int8(t))
}

func (e *Encoder) valueType(v wasm.ValueType) { e.typ(v.ToType()) }

func (e *Encoder) externalKind(k wasm.ExternalKind) { e.uint8(uint8(k)) }

func (e *Encoder) op(op wasm.Opcode) { e.uint8(byte(op)) }

func (e *Encoder) sectionCode(s wasm.SectionCode) { e.varuint7(uint8(s)) }

// modulePreamble appends the fixed magic number and version.
func (e *Encoder) modulePreamble() {
	e.bytes(wasm.Magic[:])
	e.uint32(wasm.Version)
}

func (e *Encoder) funcType(f *wasm.FuncType) {
	e.typ(wasm.TypeFunc)
	e.varuint32(uint32(len(f.Params)))
	for _, p := range f.Params {
		e.valueType(p)
	}
	e.varuint1(uint8(len(f.Results)))
	for _, r := range f.Results {
		e.valueType(r)
	}
}

// section writes id, measures writePayload's output, and frames it with a
// varuint32 length prefix — mirroring the teacher's approach of encoding a
// section's payload into a scratch buffer first so its length is known
// before the length prefix is written. writePayload reports whether it
// wrote any entries; if that is false and elideIfEmpty is true, section
// writes nothing at all and returns false (an absent section and an empty
// one describe the same module contents, so an encoder may omit an empty
// one). Otherwise it writes a well-formed
// section, empty or not, and returns true.
func (e *Encoder) section(id wasm.SectionCode, writePayload func(*Encoder) bool, elideIfEmpty bool) bool {
	payload := NewEncoder()
	notEmpty := writePayload(payload)
	if elideIfEmpty && !notEmpty {
		return false
	}
	body := payload.Bytes()
	e.sectionCode(id)
	e.varuint32(uint32(len(body)))
	e.bytes(body)
	return true
}

// CustomSection appends a Custom section. Custom sections carry no
// structural meaning, so none is ever elided for being empty: a present,
// empty custom section is a deliberate choice the encoder must honor.
func (e *Encoder) CustomSection(s *wasm.CustomSection) error {
	var encErr error
	e.section(wasm.SectionCustom, func(p *Encoder) bool {
		if err := p.utf8(s.Name); err != nil {
			encErr = err
			return true
		}
		p.bytes(s.Data)
		return true
	}, false)
	return encErr
}

// TypeSection appends the Type section. If elideIfEmpty is true and s has no
// entries, nothing is written and TypeSection reports false.
func (e *Encoder) TypeSection(s *wasm.TypeSection, elideIfEmpty bool) bool {
	if s == nil {
		s = &wasm.TypeSection{}
	}
	return e.section(wasm.SectionType, func(p *Encoder) bool {
		p.varuint32(uint32(len(s.Types)))
		for _, f := range s.Types {
			p.funcType(f)
		}
		return len(s.Types) > 0
	}, elideIfEmpty)
}

// FunctionSection appends the Function section. If elideIfEmpty is true and
// s has no entries, nothing is written and FunctionSection reports false.
func (e *Encoder) FunctionSection(s *wasm.FunctionSection, elideIfEmpty bool) bool {
	if s == nil {
		s = &wasm.FunctionSection{}
	}
	return e.section(wasm.SectionFunction, func(p *Encoder) bool {
		p.varuint32(uint32(len(s.TypeIndices)))
		for _, idx := range s.TypeIndices {
			p.varuint32(idx)
		}
		return len(s.TypeIndices) > 0
	}, elideIfEmpty)
}

func (e *Encoder) exportEntry(x *wasm.ExportEntry) error {
	if err := e.utf8(x.Name); err != nil {
		return err
	}
	e.externalKind(x.Kind)
	e.varuint32(x.Index)
	return nil
}

// ExportSection appends the Export section. If elideIfEmpty is true and s
// has no entries, nothing is written and ExportSection reports false.
func (e *Encoder) ExportSection(s *wasm.ExportSection, elideIfEmpty bool) (bool, error) {
	if s == nil {
		s = &wasm.ExportSection{}
	}
	var encErr error
	wrote := e.section(wasm.SectionExport, func(p *Encoder) bool {
		p.varuint32(uint32(len(s.Entries)))
		for _, x := range s.Entries {
			if err := p.exportEntry(x); err != nil {
				encErr = err
				return true
			}
		}
		return len(s.Entries) > 0
	}, elideIfEmpty)
	return wrote, encErr
}

func (e *Encoder) localEntry(l *wasm.LocalEntry) {
	e.varuint32(l.Count)
	e.valueType(l.Type)
}

func (e *Encoder) functionBody(f *wasm.FunctionBody) {
	body := NewEncoder()
	body.varuint32(uint32(len(f.Locals)))
	for _, l := range f.Locals {
		body.localEntry(l)
	}
	body.bytes(f.Code)
	payload := body.Bytes()
	e.varuint32(uint32(len(payload)))
	e.bytes(payload)
}

// CodeSection appends the Code section. If elideIfEmpty is true and s has no
// entries, nothing is written and CodeSection reports false.
func (e *Encoder) CodeSection(s *wasm.CodeSection, elideIfEmpty bool) bool {
	if s == nil {
		s = &wasm.CodeSection{}
	}
	return e.section(wasm.SectionCode_, func(p *Encoder) bool {
		p.varuint32(uint32(len(s.Bodies)))
		for _, f := range s.Bodies {
			p.functionBody(f)
		}
		return len(s.Bodies) > 0
	}, elideIfEmpty)
}

// Module encodes a complete wasm.Module: preamble followed by every
// populated section, in section-id ascending order (spec.md §9: Type,
// Function, Export, Code). Custom sections may appear anywhere on the wire,
// but this encoder always places a module's Custom sections first, and
// elides every other section that has no entries.
func (e *Encoder) Module(m *wasm.Module) error {
	e.modulePreamble()
	for _, c := range m.Custom {
		if err := e.CustomSection(c); err != nil {
			return err
		}
	}
	e.TypeSection(m.Types, true)
	e.FunctionSection(m.Functions, true)
	if _, err := e.ExportSection(m.Exports, true); err != nil {
		return err
	}
	e.CodeSection(m.Code, true)
	return nil
}

// EncodeModule is a convenience wrapper returning the full byte encoding of
// m, or an error if m contains a non-ASCII name.
func EncodeModule(m *wasm.Module) ([]byte, error) {
	e := NewEncoder()
	if err := e.Module(m); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}
