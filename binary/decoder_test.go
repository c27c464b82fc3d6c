package binary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/wasmenc/wasm"
)

func TestDecodeModuleRejectsUnsupportedSection(t *testing.T) {
	e := NewEncoder()
	e.modulePreamble()
	e.sectionCode(wasm.SectionMemory)
	e.varuint32(1)
	e.uint8(0)

	_, err := DecodeModule(e.Bytes())
	require.Error(t, err)
	require.Contains(t, err.Error(), "not supported")
}

func TestDecodeModuleRejectsTruncatedInput(t *testing.T) {
	_, err := DecodeModule([]byte{0x00, 0x61, 0x73})
	require.Error(t, err)
}

func TestDecodeModuleRejectsSectionLengthMismatch(t *testing.T) {
	// Type section (id=1) declares a 2-byte payload, but a type count of 0
	// (encoded as the single byte 0x00) only consumes 1 of them.
	b := append([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, // preamble
		0x01,       // section id: Type
		0x02,       // payload_len: 2
		0x00, 0x00, // payload: count=0, plus one unconsumed filler byte
	)

	_, err := DecodeModule(b)
	require.Error(t, err)
	require.Contains(t, err.Error(), "declared")
}

// Exercises the full encode->decode symmetry (spec.md §8 property 2) over a
// module using every supported section kind.
func TestModuleRoundTrip(t *testing.T) {
	ft, err := wasm.NewFuncType(nil, []wasm.ValueType{wasm.ValueF64})
	require.NoError(t, err)
	fb, err := wasm.NewFunctionBody(nil, []byte{0x44, 0x18, 0x2d, 0x44, 0x54, 0xfb, 0x21, 0x09, 0x40, 0x0f, 0x0b})
	require.NoError(t, err)
	exp, err := wasm.NewExportEntry("pi", wasm.KindFunction, 0)
	require.NoError(t, err)

	m := &wasm.Module{
		Custom:    []*wasm.CustomSection{{Name: "producer", Data: []byte("wasmenc")}},
		Types:     &wasm.TypeSection{Types: []*wasm.FuncType{ft}},
		Functions: &wasm.FunctionSection{TypeIndices: []uint32{0}},
		Exports:   &wasm.ExportSection{Entries: []*wasm.ExportEntry{exp}},
		Code:      &wasm.CodeSection{Bodies: []*wasm.FunctionBody{fb}},
	}

	encoded, err := EncodeModule(m)
	require.NoError(t, err)

	decoded, err := DecodeModule(encoded)
	require.NoError(t, err)
	require.Equal(t, m, decoded)

	reencoded, err := EncodeModule(decoded)
	require.NoError(t, err)
	require.Equal(t, encoded, reencoded)
}

func TestDecodeModuleEmpty(t *testing.T) {
	encoded, err := EncodeModule(&wasm.Module{})
	require.NoError(t, err)

	decoded, err := DecodeModule(encoded)
	require.NoError(t, err)
	require.Nil(t, decoded.Types)
	require.Nil(t, decoded.Functions)
	require.Nil(t, decoded.Exports)
	require.Nil(t, decoded.Code)
}

func TestDecodeFuncTypeRejectsUnsupportedForm(t *testing.T) {
	e := NewEncoder()
	e.typ(wasm.TypeAnyFunc) // not func
	e.varuint32(0)
	e.varuint1(0)

	d := NewDecoder(e.Bytes())
	_, err := d.funcType()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported type form")
}

func TestDecodeFunctionBodyMissingEnd(t *testing.T) {
	e := NewEncoder()
	// body: local_count=0, code=[0x01] (nop, no end)
	e.varuint32(2) // body size: 1 (local count) + 1 (code byte)
	e.varuint32(0)
	e.uint8(0x01)

	d := NewDecoder(e.Bytes())
	_, err := d.functionBody()
	require.Error(t, err)
	require.Contains(t, err.Error(), "0x0b")
}
