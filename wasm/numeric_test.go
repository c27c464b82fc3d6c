package wasm

import "testing"

import "github.com/stretchr/testify/require"

func TestIsUint1(t *testing.T) {
	for _, c := range []struct {
		v    int64
		want bool
	}{
		{0, true}, {1, true}, {-1, false}, {2, false},
	} {
		require.Equal(t, c.want, IsUint1(c.v))
	}
}

func TestIsUint7(t *testing.T) {
	require.True(t, IsUint7(0))
	require.True(t, IsUint7(0x7f))
	require.False(t, IsUint7(0x80))
	require.False(t, IsUint7(-1))
}

func TestIsInt7(t *testing.T) {
	require.True(t, IsInt7(-0x40))
	require.True(t, IsInt7(0x3f))
	require.False(t, IsInt7(-0x41))
	require.False(t, IsInt7(0x40))
}

func TestIsUint8(t *testing.T) {
	require.True(t, IsUint8(0))
	require.True(t, IsUint8(0xff))
	require.False(t, IsUint8(0x100))
	require.False(t, IsUint8(-1))
}

func TestIsInt32(t *testing.T) {
	require.True(t, IsInt32(-(1<<31)))
	require.True(t, IsInt32((1<<31)-1))
	require.False(t, IsInt32(1<<31))
	require.False(t, IsInt32(-(1<<31)-1))
}

func TestIsUint32(t *testing.T) {
	require.True(t, IsUint32(0))
	require.True(t, IsUint32(0xffffffff))
	require.False(t, IsUint32(0x100000000))
	require.False(t, IsUint32(-1))
}

func TestAssertPanicsOnViolation(t *testing.T) {
	require.Panics(t, func() { AssertUint7("x", 0x80) })
	require.Panics(t, func() { AssertInt7("x", 0x40) })
	require.Panics(t, func() { AssertUint1("x", 2) })
	require.NotPanics(t, func() { AssertUint32("x", 42) })
}

func TestHex8(t *testing.T) {
	require.Equal(t, "00", Hex8(0))
	require.Equal(t, "ff", Hex8(-1))
	require.Equal(t, "2a", Hex8(0x2a))
}

func TestHex32(t *testing.T) {
	require.Equal(t, "00000000", Hex32(0))
	require.Equal(t, "ffffffff", Hex32(0xffffffff))
	require.Equal(t, "0000002a", Hex32(0x2a))
}
