package disasm

import (
	"strings"
	"testing"

	"github.com/coregx/hirprog/instr"
)

func TestDisassemble_NoOperandOpcodes(t *testing.T) {
	s := instr.NewSeq(0)
	s.EmitInstr(instr.MATCH)
	got := Disassemble(s.Bytes())
	if !strings.Contains(got, "0  match") {
		t.Errorf("Disassemble() = %q, want a line for match at offset 0", got)
	}
}

func TestDisassemble_Literal(t *testing.T) {
	s := instr.NewSeq(0)
	s.EmitLiteral([]byte{'a'}, false)
	got := Disassemble(s.Bytes())
	if !strings.Contains(got, "literal 0x61") {
		t.Errorf("Disassemble() = %q, want a literal 0x61 line", got)
	}
}

func TestDisassemble_JumpShowsTarget(t *testing.T) {
	s := instr.NewSeq(0)
	loc := s.EmitJumpOrSplit(instr.Jump)
	s.PatchInstr(loc, instr.Offset(10))
	got := Disassemble(s.Bytes())
	if !strings.Contains(got, "jump +10 -> 10") {
		t.Errorf("Disassemble() = %q, want \"jump +10 -> 10\"", got)
	}
}

func TestDisassemble_SplitNListsAllTargets(t *testing.T) {
	s := instr.NewSeq(0)
	loc := s.EmitSplitN(2)
	s.PatchSplitN(loc, []instr.Offset{5, 7})
	got := Disassemble(s.Bytes())
	if !strings.Contains(got, "split_n") || !strings.Contains(got, "+5->5") || !strings.Contains(got, "+7->7") {
		t.Errorf("Disassemble() = %q, want both split_n targets listed", got)
	}
}

func TestDisassemble_ClassSummarizesContiguousRange(t *testing.T) {
	var bitmap [256]bool
	for b := '0'; b <= '9'; b++ {
		bitmap[b] = true
	}
	s := instr.NewSeq(0)
	s.EmitClass(&bitmap)
	got := Disassemble(s.Bytes())
	if !strings.Contains(got, "[0x30-0x39]") {
		t.Errorf("Disassemble() = %q, want class range [0x30-0x39]", got)
	}
}

func TestDisassemble_MaskedByte(t *testing.T) {
	s := instr.NewSeq(0)
	s.EmitMaskedByte(0x40, 0xf0)
	got := Disassemble(s.Bytes())
	if !strings.Contains(got, "masked_byte value=0x40 mask=0xf0") {
		t.Errorf("Disassemble() = %q, want masked_byte line", got)
	}
}
