// Package disasm renders a WebAssembly MVP binary as human-readable text: a
// hex dump kept in lockstep with a structural annotation, section by
// section.
package disasm

import (
	"fmt"
	"math"
	"strings"

	wasmbinary "github.com/gowasm/wasmenc/binary"
	"github.com/gowasm/wasmenc/internal/leb128"
	"github.com/gowasm/wasmenc/wasm"
)

// HexDump renders data as 16-byte rows, each prefixed with its absolute
// offset (base+row start) as eight zero-padded lowercase hex digits. The
// offset is always emitted, even for a single-row dump, so a reader can
// always locate a byte in the original file.
func HexDump(data []byte, base int) string {
	var sb strings.Builder
	for row := 0; row < len(data); row += 16 {
		end := row + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(&sb, "%08x  ", base+row)
		for i := row; i < row+16; i++ {
			if i < end {
				fmt.Fprintf(&sb, "%02x ", data[i])
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// indent prefixes every line of s with two spaces, used to set off a hex
// dump nested under a section or preamble heading.
func indent(s string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return strings.Join(parts, " ")
}

// sectionBounds is one top-level section's byte range, located by walking
// the id and length varints without interpreting the payload.
type sectionBounds struct {
	id         wasm.SectionCode
	start      int // offset of the id byte
	payloadLen int
	payloadEnd int // exclusive
}

func findSections(data []byte) ([]sectionBounds, error) {
	var out []sectionBounds
	pos := 8 // past the 8-byte preamble
	for pos < len(data) {
		start := pos
		idVal, n, err := leb128.LoadUint32(data[pos:])
		if err != nil {
			return nil, fmt.Errorf("disasm: section id at offset %d: %w", pos, err)
		}
		pos += int(n)
		id, err := wasm.ToSectionCode(uint8(idVal))
		if err != nil {
			return nil, fmt.Errorf("disasm: at offset %d: %w", start, err)
		}
		payloadLen, n2, err := leb128.LoadUint32(data[pos:])
		if err != nil {
			return nil, fmt.Errorf("disasm: section length at offset %d: %w", pos, err)
		}
		pos += int(n2)
		payloadEnd := pos + int(payloadLen)
		if payloadEnd > len(data) {
			return nil, fmt.Errorf("disasm: section at offset %d declares %d payload bytes, past end of input", start, payloadLen)
		}
		out = append(out, sectionBounds{id: id, start: start, payloadLen: int(payloadLen), payloadEnd: payloadEnd})
		pos = payloadEnd
	}
	return out, nil
}

// Disassemble decodes data as a complete module and renders it as: a hex
// dump of the whole module, the preamble, and then one section at a time —
// each section's own hex dump immediately followed by its pretty-printed
// payload, so a reader can always tell which hex bytes a given annotation
// describes.
func Disassemble(data []byte) (string, error) {
	m, err := wasmbinary.DecodeModule(data)
	if err != nil {
		return "", err
	}
	sections, err := findSections(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(HexDump(data, 0))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  module version %d\n", readVersion(data))
	sb.WriteString(indent(HexDump(data[:8], 0)))

	customIdx, typeUsed, funcUsed, exportUsed, codeUsed := 0, false, false, false, false
	for _, s := range sections {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s Section (id=%d)\n", s.id, uint8(s.id))
		sb.WriteString(indent(HexDump(data[s.start:s.payloadEnd], s.start)))
		switch s.id {
		case wasm.SectionCustom:
			if customIdx < len(m.Custom) {
				sb.WriteString(renderCustomSection(m.Custom[customIdx]))
				customIdx++
			}
		case wasm.SectionType:
			if !typeUsed {
				sb.WriteString(renderTypeSection(m.Types))
				typeUsed = true
			}
		case wasm.SectionFunction:
			if !funcUsed {
				sb.WriteString(renderFunctionSection(m.Functions))
				funcUsed = true
			}
		case wasm.SectionExport:
			if !exportUsed {
				sb.WriteString(renderExportSection(m.Exports))
				exportUsed = true
			}
		case wasm.SectionCode_:
			if !codeUsed {
				text, err := renderCodeSection(m)
				if err != nil {
					return "", err
				}
				sb.WriteString(text)
				codeUsed = true
			}
		}
	}
	return sb.String(), nil
}

// readVersion reads the preamble version directly from the raw bytes, for
// display only — wasm.ValidatePreamble has already confirmed it's supported
// by the time Disassemble calls this.
func readVersion(data []byte) uint32 {
	return uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24
}

func renderCustomSection(c *wasm.CustomSection) string {
	return fmt.Sprintf("  %s = { %s }\n", c.Name, hexBytes(c.Data))
}

func renderTypeSection(s *wasm.TypeSection) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	for i, f := range s.Types {
		fmt.Fprintf(&sb, "  [%d] func_type: %s\n", i, renderSignature(f))
	}
	return sb.String()
}

func renderFunctionSection(s *wasm.FunctionSection) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	for i, typeIdx := range s.TypeIndices {
		fmt.Fprintf(&sb, "  [%d] type index: %d\n", i, typeIdx)
	}
	return sb.String()
}

func renderExportSection(s *wasm.ExportSection) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	for i, e := range s.Entries {
		fmt.Fprintf(&sb, "  [%d] '%s' %s index: %d\n", i, e.Name, e.Kind, e.Index)
	}
	return sb.String()
}

// renderSignature renders a func_type the way §4.F's payload-printing rules
// describe: "(param,param,…) => ret | void".
func renderSignature(f *wasm.FuncType) string {
	if f == nil {
		return "(?) => ?"
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	ret := "void"
	if len(f.Results) == 1 {
		ret = f.Results[0].String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(params, ","), ret)
}

// codeCommentColumn is where every code line's "// " comment starts,
// regardless of how many bytes the instruction's hex rendering took.
const codeCommentColumn = 30

func formatCodeLine(prefix string, instrBytes []byte, comment string) string {
	line := prefix + hexBytes(instrBytes)
	if len(line) < codeCommentColumn {
		line += strings.Repeat(" ", codeCommentColumn-len(line))
	} else {
		line += "  "
	}
	return line + "// " + comment
}

func renderCodeSection(m *wasm.Module) (string, error) {
	s := m.Code
	if s == nil {
		return "", nil
	}
	var sb strings.Builder
	for i, body := range s.Bodies {
		fmt.Fprintf(&sb, "  [%d]\n", i)

		var exportNames []string
		if m.Exports != nil {
			for _, e := range m.Exports.Entries {
				if e.Kind == wasm.KindFunction && int(e.Index) == i {
					exportNames = append(exportNames, fmt.Sprintf("'%s'", e.Name))
				}
			}
		}
		if len(exportNames) > 0 {
			fmt.Fprintf(&sb, "    export: %s\n", strings.Join(exportNames, " ... "))
		}

		var sig *wasm.FuncType
		if m.Functions != nil && i < len(m.Functions.TypeIndices) && m.Types != nil {
			typeIdx := m.Functions.TypeIndices[i]
			if int(typeIdx) < len(m.Types.Types) {
				sig = m.Types.Types[typeIdx]
			}
		}
		fmt.Fprintf(&sb, "    signature: %s\n", renderSignature(sig))

		sb.WriteString("    params:\n")
		if sig != nil {
			for pi, p := range sig.Params {
				fmt.Fprintf(&sb, "      $%d: %s\n", pi, p)
			}
		}

		sb.WriteString("    locals:\n")
		localIdx := 0
		if sig != nil {
			localIdx = len(sig.Params)
		}
		for _, l := range body.Locals {
			for c := uint32(0); c < l.Count; c++ {
				fmt.Fprintf(&sb, "      $%d: %s\n", localIdx, l.Type)
				localIdx++
			}
		}

		sb.WriteString("    code:\n")
		instrs, err := disassembleInstructions(body.Code)
		if err != nil {
			return "", fmt.Errorf("disasm: function[%d]: %w", i, err)
		}
		for _, in := range instrs {
			sb.WriteString(formatCodeLine("      ", in.bytes, in.text))
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// instruction is one decoded opcode: the raw bytes it occupied in the
// function body's code stream, and the mnemonic text rendered as its
// aligned comment.
type instruction struct {
	bytes []byte
	text  string
}

// disassembleInstructions walks a function body's instruction stream with a
// Decoder, rendering one instruction per entry with its immediate operand
// (if any) in the syntax a reader of the WebAssembly text format would
// recognize.
func disassembleInstructions(code []byte) ([]instruction, error) {
	var out []instruction
	d := wasmbinary.NewDecoder(code)
	for len(d.Remaining()) > 0 {
		start := d.Pos()
		op, err := d.ReadOpcode()
		if err != nil {
			return nil, fmt.Errorf("at instruction offset %d: %w", start, err)
		}
		line := op.Name()
		switch wasm.ImmediateOf(op) {
		case wasm.ImmediateNone:
			// no operand
		case wasm.ImmediateReservedByte:
			if _, err := d.ReadByte(); err != nil {
				return nil, fmt.Errorf("at instruction offset %d: missing reserved byte for %s", start, op.Name())
			}
		case wasm.ImmediateBlockType:
			v, err := d.ReadVarInt32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: block type: %w", start, err)
			}
			line = fmt.Sprintf("%s %d", line, v)
		case wasm.ImmediateVarUint32:
			v, err := d.ReadVarUint32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: %w", start, err)
			}
			line = fmt.Sprintf("%s %d", line, v)
		case wasm.ImmediateCallIndirect:
			v, err := d.ReadVarUint32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: %w", start, err)
			}
			if _, err := d.ReadByte(); err != nil {
				return nil, fmt.Errorf("at instruction offset %d: missing reserved byte for call_indirect", start)
			}
			line = fmt.Sprintf("%s %d", line, v)
		case wasm.ImmediateMemArg:
			align, err := d.ReadVarUint32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: memarg align: %w", start, err)
			}
			offset, err := d.ReadVarUint32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: memarg offset: %w", start, err)
			}
			line = fmt.Sprintf("%s align=%d offset=%d", line, align, offset)
		case wasm.ImmediateBrTable:
			count, err := d.ReadVarUint32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: br_table count: %w", start, err)
			}
			targets := make([]string, 0, count)
			for i := uint32(0); i < count; i++ {
				t, err := d.ReadVarUint32()
				if err != nil {
					return nil, fmt.Errorf("at instruction offset %d: br_table target %d: %w", start, i, err)
				}
				targets = append(targets, fmt.Sprintf("%d", t))
			}
			def, err := d.ReadVarUint32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: br_table default: %w", start, err)
			}
			line = fmt.Sprintf("%s [%s] default=%d", line, strings.Join(targets, " "), def)
		case wasm.ImmediateI32:
			v, err := d.ReadVarInt32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: %w", start, err)
			}
			line = fmt.Sprintf("%s %d", line, v)
		case wasm.ImmediateI64:
			v, err := d.ReadVarInt64()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: %w", start, err)
			}
			line = fmt.Sprintf("%s %d", line, v)
		case wasm.ImmediateF32:
			v, err := d.ReadF32()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: missing f32 operand: %w", start, err)
			}
			line = fmt.Sprintf("%s 0x%08x (%g)", line, math.Float32bits(v), v)
		case wasm.ImmediateF64:
			v, err := d.ReadF64()
			if err != nil {
				return nil, fmt.Errorf("at instruction offset %d: missing f64 operand: %w", start, err)
			}
			line = fmt.Sprintf("%s 0x%016x (%g)", line, math.Float64bits(v), v)
		}
		out = append(out, instruction{bytes: append([]byte(nil), code[start:d.Pos()]...), text: line})
	}
	return out, nil
}
