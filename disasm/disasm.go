// Package disasm renders a compiled instruction stream (package instr) as
// human-readable text, for the hircompile command and for tests that want
// to assert on the shape of emitted code without hand-decoding bytes.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/coregx/hirprog/instr"
)

// Disassemble renders buf, one instruction per line prefixed with its byte
// offset.
func Disassemble(buf []byte) string {
	var b strings.Builder
	pos := 0
	for pos < len(buf) {
		if buf[pos] != instr.OpcodePrefix {
			fmt.Fprintf(&b, "%4d  <stray byte 0x%02x>\n", pos, buf[pos])
			pos++
			continue
		}
		op := instr.Opcode(buf[pos+1])
		switch op {
		case instr.MATCH:
			fmt.Fprintf(&b, "%4d  match\n", pos)
			pos += 2
		case instr.START:
			fmt.Fprintf(&b, "%4d  start\n", pos)
			pos += 2
		case instr.END:
			fmt.Fprintf(&b, "%4d  end\n", pos)
			pos += 2
		case instr.WordBoundary:
			fmt.Fprintf(&b, "%4d  word_boundary\n", pos)
			pos += 2
		case instr.WordBoundaryNeg:
			fmt.Fprintf(&b, "%4d  word_boundary_neg\n", pos)
			pos += 2
		case instr.AnyByte:
			fmt.Fprintf(&b, "%4d  any_byte\n", pos)
			pos += 2
		case instr.Literal:
			fmt.Fprintf(&b, "%4d  literal 0x%02x\n", pos, buf[pos+2])
			pos += 3
		case instr.MaskedByte:
			fmt.Fprintf(&b, "%4d  masked_byte value=0x%02x mask=0x%02x\n", pos, buf[pos+2], buf[pos+3])
			pos += 4
		case instr.Class:
			fmt.Fprintf(&b, "%4d  class %s\n", pos, classSummary(buf[pos+2:pos+2+instr.ClassBitmapSize]))
			pos += 2 + instr.ClassBitmapSize
		case instr.Jump:
			off := int16(binary.LittleEndian.Uint16(buf[pos+2 : pos+4]))
			fmt.Fprintf(&b, "%4d  jump %+d -> %d\n", pos, off, pos+int(off))
			pos += 4
		case instr.SplitA:
			off := int16(binary.LittleEndian.Uint16(buf[pos+2 : pos+4]))
			fmt.Fprintf(&b, "%4d  split_a %+d -> %d\n", pos, off, pos+int(off))
			pos += 4
		case instr.SplitB:
			off := int16(binary.LittleEndian.Uint16(buf[pos+2 : pos+4]))
			fmt.Fprintf(&b, "%4d  split_b %+d -> %d\n", pos, off, pos+int(off))
			pos += 4
		case instr.SplitN:
			n := int(buf[pos+2])
			targets := make([]string, n)
			for i := 0; i < n; i++ {
				at := pos + 3 + i*2
				off := int16(binary.LittleEndian.Uint16(buf[at : at+2]))
				targets[i] = fmt.Sprintf("%+d->%d", off, pos+int(off))
			}
			fmt.Fprintf(&b, "%4d  split_n [%s]\n", pos, strings.Join(targets, ", "))
			pos += 3 + 2*n
		default:
			fmt.Fprintf(&b, "%4d  <unknown opcode %d>\n", pos, op)
			pos += 2
		}
	}
	return b.String()
}

// classSummary renders a packed 256-bit class bitmap as a list of byte
// ranges, e.g. "[0x30-0x39]" for a digit class.
func classSummary(packed []byte) string {
	var ranges []string
	inRange := false
	start := 0
	for b := 0; b < 256; b++ {
		set := packed[b/8]&(1<<uint(b%8)) != 0
		if set && !inRange {
			inRange = true
			start = b
		} else if !set && inRange {
			inRange = false
			ranges = append(ranges, formatRange(start, b-1))
		}
	}
	if inRange {
		ranges = append(ranges, formatRange(start, 255))
	}
	return "[" + strings.Join(ranges, ",") + "]"
}

func formatRange(lo, hi int) string {
	if lo == hi {
		return fmt.Sprintf("0x%02x", lo)
	}
	return fmt.Sprintf("0x%02x-0x%02x", lo, hi)
}
