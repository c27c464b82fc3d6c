package wasm

import "fmt"

// IsUint1 reports whether v is an integer in [0, 1].
func IsUint1(v int64) bool { return v == int64(int64(v)&0x1) && v >= 0 && v <= 1 }

// IsUint7 reports whether v is an integer in [0, 0x7f].
func IsUint7(v int64) bool { return v >= 0 && v <= 0x7f }

// IsInt7 reports whether v is an integer in [-0x40, 0x3f].
func IsInt7(v int64) bool { return v >= -0x40 && v <= 0x3f }

// IsUint8 reports whether v is an integer in [0, 0xff].
func IsUint8(v int64) bool { return v >= 0 && v <= 0xff }

// IsInt32 reports whether v fits in a signed 32-bit integer.
func IsInt32(v int64) bool { return v >= -(1<<31) && v <= (1<<31)-1 }

// IsUint32 reports whether v fits in an unsigned 32-bit integer.
func IsUint32(v int64) bool { return v >= 0 && v <= 0xffffffff }

// AssertUint1 fails with a message naming value if it is not a uint1.
func AssertUint1(name string, v int64) {
	if !IsUint1(v) {
		panic(fmt.Sprintf("'%s' must be a uint1.", name))
	}
}

// AssertUint7 fails with a message naming value if it is not a uint7.
func AssertUint7(name string, v int64) {
	if !IsUint7(v) {
		panic(fmt.Sprintf("'%s' must be a uint7.", name))
	}
}

// AssertInt7 fails with a message naming value if it is not an int7.
func AssertInt7(name string, v int64) {
	if !IsInt7(v) {
		panic(fmt.Sprintf("'%s' must be a int7.", name))
	}
}

// AssertUint8 fails with a message naming value if it is not a uint8.
func AssertUint8(name string, v int64) {
	if !IsUint8(v) {
		panic(fmt.Sprintf("'%s' must be a uint8.", name))
	}
}

// AssertInt32 fails with a message naming value if it is not an int32.
func AssertInt32(name string, v int64) {
	if !IsInt32(v) {
		panic(fmt.Sprintf("'%s' must be a int32.", name))
	}
}

// AssertUint32 fails with a message naming value if it is not a uint32.
func AssertUint32(name string, v int64) {
	if !IsUint32(v) {
		panic(fmt.Sprintf("'%s' must be a uint32.", name))
	}
}

const hexDigits = "0123456789abcdef"

// Hex8 renders the low 8 bits of v as two lowercase hex digits.
func Hex8(v int64) string {
	b := byte(v & 0xff)
	return string([]byte{hexDigits[b>>4], hexDigits[b&0xf]})
}

// Hex32 renders v, interpreted as unsigned 32-bit, as eight zero-padded
// lowercase hex digits.
func Hex32(v uint32) string {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		shift := uint(28 - 4*i)
		out[i] = hexDigits[(v>>shift)&0xf]
	}
	return string(out)
}
