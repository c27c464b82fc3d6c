// Package wasm is the module data model and format enumerations for the
// WebAssembly MVP binary format: the in-memory representation the Encoder
// serializes and the Decoder reconstructs.
package wasm

import "fmt"

// Type is the encoding of the WebAssembly `type` production: value types
// plus the composite-type constructors (func, anyfunc) and the pseudo empty
// block type. It is encoded on the wire as a varint7.
type Type int8

const (
	TypeI32        Type = -0x01
	TypeI64        Type = -0x02
	TypeF32        Type = -0x03
	TypeF64        Type = -0x04
	TypeAnyFunc    Type = -0x10
	TypeFunc       Type = -0x20
	TypeEmptyBlock Type = -0x40
)

func (t Type) String() string {
	switch t {
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeAnyFunc:
		return "anyfunc"
	case TypeFunc:
		return "func"
	case TypeEmptyBlock:
		return "emptyBlock"
	default:
		return fmt.Sprintf("type(%d)", int8(t))
	}
}

// IsValid reports whether t is one of the defined Type constants.
func (t Type) IsValid() bool {
	switch t {
	case TypeI32, TypeI64, TypeF32, TypeF64, TypeAnyFunc, TypeFunc, TypeEmptyBlock:
		return true
	}
	return false
}

// ValueType is the subset of Type usable as a function parameter, result, or
// local: exactly {i32, i64, f32, f64}.
type ValueType int8

const (
	ValueI32 ValueType = ValueType(TypeI32)
	ValueI64 ValueType = ValueType(TypeI64)
	ValueF32 ValueType = ValueType(TypeF32)
	ValueF64 ValueType = ValueType(TypeF64)
)

func (v ValueType) String() string { return v.ToType().String() }

// ToType widens v to the full Type enumeration. This conversion is always
// total: every ValueType is a Type.
func (v ValueType) ToType() Type { return Type(v) }

// IsValid reports whether v is one of i32, i64, f32, f64.
func (v ValueType) IsValid() bool {
	switch v {
	case ValueI32, ValueI64, ValueF32, ValueF64:
		return true
	}
	return false
}

// ValueTypeFromType narrows t to a ValueType, failing if t is not one of the
// four numeric value types.
func ValueTypeFromType(t Type) (ValueType, error) {
	v := ValueType(t)
	if !v.IsValid() {
		return 0, fmt.Errorf("wasm: %s is not a value_type", t)
	}
	return v, nil
}

// ExternalKind classifies an export or import as a function, table, memory,
// or global.
type ExternalKind uint8

const (
	KindFunction ExternalKind = 0
	KindTable    ExternalKind = 1
	KindMemory   ExternalKind = 2
	KindGlobal   ExternalKind = 3
)

func (k ExternalKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return fmt.Sprintf("external_kind(%d)", uint8(k))
	}
}

// IsValid reports whether k is one of the four defined external kinds.
func (k ExternalKind) IsValid() bool {
	switch k {
	case KindFunction, KindTable, KindMemory, KindGlobal:
		return true
	}
	return false
}

// ToExternalKind casts b to an ExternalKind, failing if b names no kind.
func ToExternalKind(b uint8) (ExternalKind, error) {
	k := ExternalKind(b)
	if !k.IsValid() {
		return 0, fmt.Errorf("wasm: %d is not a valid external_kind", b)
	}
	return k, nil
}

// SectionCode identifies the twelve module sections defined by the MVP
// binary format, encoded on the wire as a varuint7. This implementation
// supports only Custom, Type, Function, Export, and Code (spec.md §1
// Non-goals); the rest of the enumeration exists because section ids are a
// single consecutive namespace and a decoder must be able to name an
// unsupported id in its error.
type SectionCode uint8

const (
	SectionCustom   SectionCode = 0
	SectionType     SectionCode = 1
	SectionImport   SectionCode = 2
	SectionFunction SectionCode = 3
	SectionTable    SectionCode = 4
	SectionMemory   SectionCode = 5
	SectionGlobal   SectionCode = 6
	SectionExport   SectionCode = 7
	SectionStart    SectionCode = 8
	SectionElement  SectionCode = 9
	SectionCode_    SectionCode = 10
	SectionData     SectionCode = 11
)

func (s SectionCode) String() string {
	switch s {
	case SectionCustom:
		return "Custom"
	case SectionType:
		return "Type"
	case SectionImport:
		return "Import"
	case SectionFunction:
		return "Function"
	case SectionTable:
		return "Table"
	case SectionMemory:
		return "Memory"
	case SectionGlobal:
		return "Global"
	case SectionExport:
		return "Export"
	case SectionStart:
		return "Start"
	case SectionElement:
		return "Element"
	case SectionCode_:
		return "Code"
	case SectionData:
		return "Data"
	default:
		return fmt.Sprintf("section(%d)", uint8(s))
	}
}

// IsValid reports whether s is one of the twelve defined section ids.
func (s SectionCode) IsValid() bool { return s <= SectionData }

// Supported reports whether this implementation decodes and encodes
// sections of kind s: Custom, Type, Function, Export, and Code.
func (s SectionCode) Supported() bool {
	switch s {
	case SectionCustom, SectionType, SectionFunction, SectionExport, SectionCode_:
		return true
	}
	return false
}

// ToSectionCode casts b to a SectionCode, failing if b names no section.
func ToSectionCode(b uint8) (SectionCode, error) {
	s := SectionCode(b)
	if !s.IsValid() {
		return 0, fmt.Errorf("wasm: %d is not a valid section_code", b)
	}
	return s, nil
}
