package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpcodeName(t *testing.T) {
	require.Equal(t, "end", OpcodeEnd.Name())
	require.Equal(t, "f64.const", OpcodeF64Const.Name())
	require.Equal(t, "get_local", OpcodeLocalGet.Name())
	require.Contains(t, Opcode(0xff).Name(), "0xff")
}

func TestOpcodeIsValid(t *testing.T) {
	require.True(t, OpcodeI32Add.IsValid())
	require.True(t, OpcodeEnd.IsValid())
	require.False(t, Opcode(0xff).IsValid())
}

func TestImmediateOf(t *testing.T) {
	require.Equal(t, ImmediateNone, ImmediateOf(OpcodeReturn))
	require.Equal(t, ImmediateVarUint32, ImmediateOf(OpcodeLocalGet))
	require.Equal(t, ImmediateF64, ImmediateOf(OpcodeF64Const))
	require.Equal(t, ImmediateMemArg, ImmediateOf(OpcodeI32Load))
	require.Equal(t, ImmediateBrTable, ImmediateOf(OpcodeBrTable))
}

func TestToOpcode(t *testing.T) {
	op, err := ToOpcode(0x0b)
	require.NoError(t, err)
	require.Equal(t, OpcodeEnd, op)

	_, err = ToOpcode(0xff)
	require.Error(t, err)
}
