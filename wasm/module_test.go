package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePreamble(t *testing.T) {
	require.NoError(t, ValidatePreamble(Magic, Version))

	err := ValidatePreamble([4]byte{0xba, 0xda, 0xda, 0xba}, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid magic")

	err = ValidatePreamble(Magic, 0x0d)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported version")
}

func TestNewFuncType(t *testing.T) {
	f, err := NewFuncType([]ValueType{ValueF64, ValueF64}, []ValueType{ValueF64})
	require.NoError(t, err)
	require.Equal(t, "(f64, f64) -> f64", f.String())

	_, err = NewFuncType(nil, []ValueType{ValueF64, ValueI32})
	require.Error(t, err)

	f2, err := NewFuncType(nil, nil)
	require.NoError(t, err)
	require.Equal(t, "() -> ()", f2.String())
}

func TestNewExportEntry(t *testing.T) {
	_, err := NewExportEntry("mem", KindMemory, 1)
	require.Error(t, err)

	e, err := NewExportEntry("mem", KindMemory, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), e.Index)

	e2, err := NewExportEntry("fn", KindFunction, 7)
	require.NoError(t, err)
	require.Equal(t, uint32(7), e2.Index)
}

func TestNewFunctionBody(t *testing.T) {
	_, err := NewFunctionBody(nil, nil)
	require.Error(t, err)

	_, err = NewFunctionBody(nil, []byte{0x01})
	require.Error(t, err)
	require.Contains(t, err.Error(), "0x0b")

	body, err := NewFunctionBody([]*LocalEntry{{Count: 1, Type: ValueI32}}, []byte{0x0b})
	require.NoError(t, err)
	require.Equal(t, []byte{0x0b}, body.Code)
}

func TestModuleValidate(t *testing.T) {
	m := &Module{
		Types:     &TypeSection{Types: []*FuncType{{}}},
		Functions: &FunctionSection{TypeIndices: []uint32{0}},
		Code:      &CodeSection{Bodies: []*FunctionBody{{Code: []byte{0x0b}}}},
	}
	require.NoError(t, m.Validate())

	bad := &Module{
		Functions: &FunctionSection{TypeIndices: []uint32{0, 1}},
		Code:      &CodeSection{Bodies: []*FunctionBody{{Code: []byte{0x0b}}}},
	}
	require.Error(t, bad.Validate())

	badType := &Module{
		Functions: &FunctionSection{TypeIndices: []uint32{5}},
		Code:      &CodeSection{Bodies: []*FunctionBody{{Code: []byte{0x0b}}}},
	}
	require.Error(t, badType.Validate())

	badExport := &Module{
		Exports: &ExportSection{Entries: []*ExportEntry{{Name: "f", Kind: KindFunction, Index: 3}}},
	}
	require.Error(t, badExport.Validate())
}
