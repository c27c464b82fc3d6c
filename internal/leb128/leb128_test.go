package leb128

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt32(t *testing.T) {
	for _, c := range []struct {
		input    int32
		expected []byte
	}{
		{input: -165675008, expected: []byte{0x80, 0x80, 0x80, 0xb1, 0x7f}},
		{input: -624485, expected: []byte{0x9b, 0xf1, 0x59}},
		{input: -16256, expected: []byte{0x80, 0x81, 0x7f}},
		{input: -64, expected: []byte{0x40}},
		{input: -65, expected: []byte{0xbf, 0x7f}},
		{input: -4, expected: []byte{0x7c}},
		{input: -1, expected: []byte{0x7f}},
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: 63, expected: []byte{0x3f}},
		{input: 64, expected: []byte{0xc0, 0x00}},
		{input: 16256, expected: []byte{0x80, 0xff, 0x0}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: 165675008, expected: []byte{0x80, 0x80, 0x80, 0xcf, 0x0}},
		{input: int32(math.MaxInt32), expected: []byte{0xff, 0xff, 0xff, 0xff, 0x7}},
	} {
		require.Equal(t, c.expected, EncodeInt32(c.input))
		decoded, n, err := LoadInt32(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, uint64(len(c.expected)), n)
	}
}

func TestEncodeDecodeUint32(t *testing.T) {
	for _, c := range []struct {
		input    uint32
		expected []byte
	}{
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: 0x7f, expected: []byte{0x7f}},
		{input: 0x80, expected: []byte{0x80, 0x01}},
		{input: 16256, expected: []byte{0x80, 0x7f}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: 165675008, expected: []byte{0x80, 0x80, 0x80, 0x4f}},
		{input: uint32(math.MaxUint32), expected: []byte{0xff, 0xff, 0xff, 0xff, 0xf}},
	} {
		require.Equal(t, c.expected, EncodeUint32(c.input))
		decoded, n, err := LoadUint32(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, uint64(len(c.expected)), n)
	}
}

func TestDecodeUint32_Errors(t *testing.T) {
	for _, c := range []struct {
		name  string
		bytes []byte
	}{
		{name: "too many continuation bytes", bytes: []byte{0x83, 0x80, 0x80, 0x80, 0x80, 0x00}},
		{name: "5th byte overflows 32 bits", bytes: []byte{0x82, 0x80, 0x80, 0x80, 0x70}},
		{name: "truncated", bytes: []byte{0x80, 0x80}},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := LoadUint32(c.bytes)
			require.Error(t, err)
		})
	}
}

func TestDecodeInt32_Errors(t *testing.T) {
	for _, c := range []struct {
		name  string
		bytes []byte
	}{
		{name: "unsigned max doesn't fit signed 32", bytes: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{name: "sign-extended overflow", bytes: []byte{0xff, 0xff, 0xff, 0xff, 0x4f}},
		{name: "high garbage bits", bytes: []byte{0x80, 0x80, 0x80, 0x80, 0x70}},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := LoadInt32(c.bytes)
			require.Error(t, err)
		})
	}
}

func TestEncodeDecodeInt64(t *testing.T) {
	for _, c := range []struct {
		input    int64
		expected []byte
	}{
		{input: -math.MaxInt32, expected: []byte{0x81, 0x80, 0x80, 0x80, 0x78}},
		{input: -1, expected: []byte{0x7f}},
		{input: 0, expected: []byte{0x00}},
		{input: math.MaxInt32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0x7}},
		{input: math.MaxInt64, expected: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x0}},
		{input: math.MinInt64, expected: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}},
	} {
		require.Equal(t, c.expected, EncodeInt64(c.input))
		decoded, n, err := LoadInt64(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, uint64(len(c.expected)), n)
	}
}

func TestEncodeDecodeUint64(t *testing.T) {
	for _, c := range []struct {
		input    uint64
		expected []byte
	}{
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: math.MaxUint32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0xf}},
		{input: math.MaxUint64, expected: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x1}},
	} {
		require.Equal(t, c.expected, EncodeUint64(c.input))
		decoded, n, err := LoadUint64(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, uint64(len(c.expected)), n)
	}
}

// TestHexBoundaries checks the byte-length transition points named in spec.md §8
// property 7: both X and X+1 must round-trip as unsigned, and -X-1/-X-2 as
// signed, at each boundary where LEB128 grows by one byte.
func TestHexBoundaries(t *testing.T) {
	boundaries := []uint32{0x3f, 0x7f, 0x1fff, 0x3fff, 0xfffff, 0x1fffff, 0x7ffffff, 0x0fffffff}
	for _, x := range boundaries {
		for _, u := range []uint32{x, x + 1} {
			enc := EncodeUint32(u)
			dec, n, err := LoadUint32(enc)
			require.NoError(t, err)
			require.Equal(t, u, dec)
			require.Equal(t, uint64(len(enc)), n)
		}
		for _, s := range []int32{-int32(x) - 1, -int32(x) - 2} {
			enc := EncodeInt32(s)
			dec, n, err := LoadInt32(enc)
			require.NoError(t, err)
			require.Equal(t, s, dec)
			require.Equal(t, uint64(len(enc)), n)
		}
	}
}
