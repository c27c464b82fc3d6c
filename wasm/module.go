package wasm

import "fmt"

// Magic is the four-byte value every module begins with: the ASCII bytes
// '\0asm'.
var Magic = [4]byte{0x00, 0x61, 0x73, 0x6d}

// Version is the only binary format version this implementation encodes or
// accepts. spec.md leaves the decoder's behavior on a version mismatch to
// the implementation; SPEC_FULL.md resolves this as a hard decode error
// rather than a warning, matching the Decoder's fail-fast treatment of every
// other preamble defect.
const Version uint32 = 1

// ValidatePreamble reports whether magic and version identify a module this
// implementation can decode.
func ValidatePreamble(magic [4]byte, version uint32) error {
	if magic != Magic {
		return fmt.Errorf("wasm: invalid magic number %x, expected 0x6d736100", magic)
	}
	if version != Version {
		return fmt.Errorf("wasm: unsupported version %d, expected %d", version, Version)
	}
	return nil
}

// FuncType is a function signature: zero or more parameter types and, per
// the MVP restriction spec.md carries forward, zero or one result type.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// NewFuncType validates and builds a FuncType. The MVP binary format (and
// this implementation, per spec.md's Non-goal on multi-value signatures)
// allows at most one result type.
func NewFuncType(params, results []ValueType) (*FuncType, error) {
	if len(results) > 1 {
		return nil, fmt.Errorf("wasm: func_type has %d result types, at most 1 supported", len(results))
	}
	for i, p := range params {
		if !p.IsValid() {
			return nil, fmt.Errorf("wasm: func_type param %d: %w", i, errInvalidValueType(p))
		}
	}
	for i, r := range results {
		if !r.IsValid() {
			return nil, fmt.Errorf("wasm: func_type result %d: %w", i, errInvalidValueType(r))
		}
	}
	return &FuncType{Params: params, Results: results}, nil
}

func errInvalidValueType(v ValueType) error {
	return fmt.Errorf("%d is not a valid value_type", int8(v))
}

// String renders a FuncType as debug text, e.g. "(f64) -> f64" or
// "() -> ()". The Disassembler prints signatures in its own format.
func (f *FuncType) String() string {
	params := "("
	for i, p := range f.Params {
		if i > 0 {
			params += ", "
		}
		params += p.String()
	}
	params += ")"
	results := "()"
	if len(f.Results) == 1 {
		results = f.Results[0].String()
	}
	return params + " -> " + results
}

// CustomSection is an opaque, name-tagged section the format reserves for
// producer-defined data. This implementation neither interprets nor
// validates its payload (spec.md §3).
type CustomSection struct {
	Name string
	Data []byte
}

// TypeSection lists every distinct FuncType a module's functions reference
// by index.
type TypeSection struct {
	Types []*FuncType
}

// FunctionSection assigns each module-defined function, in order, the index
// into TypeSection.Types describing its signature.
type FunctionSection struct {
	TypeIndices []uint32
}

// ExportEntry makes one module-internal item visible under Name to an
// embedder.
type ExportEntry struct {
	Name  string
	Kind  ExternalKind
	Index uint32
}

// NewExportEntry validates and builds an ExportEntry. The MVP format permits
// only a single memory and a single global, so an export of either kind must
// reference index 0.
func NewExportEntry(name string, kind ExternalKind, index uint32) (*ExportEntry, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("wasm: export %q: %d is not a valid external_kind", name, uint8(kind))
	}
	if (kind == KindMemory || kind == KindGlobal) && index != 0 {
		return nil, fmt.Errorf("wasm: export %q: %s export index must be 0, got %d", name, kind, index)
	}
	return &ExportEntry{Name: name, Kind: kind, Index: index}, nil
}

// ExportSection lists every item a module exposes to its embedder.
type ExportSection struct {
	Entries []*ExportEntry
}

// LocalEntry is a run-length-encoded group of a function's locals: Count
// consecutive locals all of Type.
type LocalEntry struct {
	Count uint32
	Type  ValueType
}

// FunctionBody is one module-defined function's locals and instruction
// stream.
type FunctionBody struct {
	Locals []*LocalEntry
	Code   []byte
}

// NewFunctionBody validates and builds a FunctionBody. Code must be
// non-empty and its final byte must be the `end` opcode: every MVP function
// body is itself an implicit block, and the format requires that block to be
// explicitly terminated.
func NewFunctionBody(locals []*LocalEntry, code []byte) (*FunctionBody, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("wasm: function_body code is empty, must end with the end opcode")
	}
	if Opcode(code[len(code)-1]) != OpcodeEnd {
		return nil, fmt.Errorf("wasm: function_body code must end with the end opcode (0x0b), got 0x%02x", code[len(code)-1])
	}
	return &FunctionBody{Locals: locals, Code: code}, nil
}

// CodeSection holds the body of every module-defined function, in the same
// order as FunctionSection.TypeIndices.
type CodeSection struct {
	Bodies []*FunctionBody
}

// Module is the fully decoded in-memory form of a WebAssembly MVP binary:
// every section this implementation understands, each nilable to represent
// a module that omits it (spec.md §3's section-elision rule).
type Module struct {
	Custom    []*CustomSection
	Types     *TypeSection
	Functions *FunctionSection
	Exports   *ExportSection
	Code      *CodeSection
}

// Validate checks cross-section invariants that no single section's
// constructor can enforce on its own: that FunctionSection's and
// CodeSection's entry counts agree, that every FunctionSection type index
// names a real TypeSection entry, and that every ExportEntry naming a
// function indexes a real module-defined function.
func (m *Module) Validate() error {
	if m.Functions != nil && m.Code != nil && len(m.Functions.TypeIndices) != len(m.Code.Bodies) {
		return fmt.Errorf("wasm: function section has %d entries but code section has %d",
			len(m.Functions.TypeIndices), len(m.Code.Bodies))
	}
	if m.Functions != nil {
		typeCount := 0
		if m.Types != nil {
			typeCount = len(m.Types.Types)
		}
		for i, idx := range m.Functions.TypeIndices {
			if int(idx) >= typeCount {
				return fmt.Errorf("wasm: function %d references type index %d, only %d types defined", i, idx, typeCount)
			}
		}
	}
	if m.Exports != nil {
		funcCount := 0
		if m.Functions != nil {
			funcCount = len(m.Functions.TypeIndices)
		}
		for _, e := range m.Exports.Entries {
			if e.Kind == KindFunction && int(e.Index) >= funcCount {
				return fmt.Errorf("wasm: export %q references function index %d, only %d functions defined", e.Name, e.Index, funcCount)
			}
		}
	}
	return nil
}
