package binary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/wasmenc/wasm"
)

func TestOpEncoderF64ConstReturnEnd(t *testing.T) {
	op := NewOpEncoder()
	op.F64Const(math.Pi).Return().End()

	code := op.Code()
	require.Equal(t, []byte{0x44}, code[:1])
}

func TestOpEncoderPiBytes(t *testing.T) {
	op := NewOpEncoder()
	op.F64Const(math.Pi).Return().End()
	code := op.Code()

	body, err := wasm.NewFunctionBody(nil, code)
	require.NoError(t, err)
	require.Equal(t, byte(0x0b), body.Code[len(body.Code)-1])

	d := NewDecoder(code)
	gotOp, err := d.op()
	require.NoError(t, err)
	require.Equal(t, wasm.OpcodeF64Const, gotOp)

	value, err := d.float64()
	require.NoError(t, err)
	require.Equal(t, math.Pi, value)

	gotOp, err = d.op()
	require.NoError(t, err)
	require.Equal(t, wasm.OpcodeReturn, gotOp)

	gotOp, err = d.op()
	require.NoError(t, err)
	require.Equal(t, wasm.OpcodeEnd, gotOp)
}

func TestOpEncoderI64Const(t *testing.T) {
	op := NewOpEncoder()
	op.I64Const(-624485).End()

	d := NewDecoder(op.Code())
	gotOp, err := d.op()
	require.NoError(t, err)
	require.Equal(t, wasm.OpcodeI64Const, gotOp)

	value, err := d.varint64()
	require.NoError(t, err)
	require.Equal(t, int64(-624485), value)
}

func TestOpEncoderGetLocal(t *testing.T) {
	op := NewOpEncoder()
	op.GetLocal(3).End()

	d := NewDecoder(op.Code())
	gotOp, err := d.op()
	require.NoError(t, err)
	require.Equal(t, wasm.OpcodeLocalGet, gotOp)

	idx, err := d.varuint32()
	require.NoError(t, err)
	require.Equal(t, uint32(3), idx)
}
