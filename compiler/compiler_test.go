package compiler

import (
	"encoding/binary"
	"testing"

	"github.com/coregx/hirprog/hir"
	"github.com/coregx/hirprog/instr"
)

// assertNoStraySplits scans code for Jump/SplitA/SplitB instructions and
// fails if any targets itself: an unpatched operand is left zero, which
// decodes as an offset of 0 and therefore a target equal to the
// instruction's own position.
func assertNoStraySplits(t *testing.T, label string, code []byte) {
	t.Helper()
	pos := 0
	for pos < len(code) {
		if code[pos] != instr.OpcodePrefix {
			pos++
			continue
		}
		op := instr.Opcode(code[pos+1])
		switch op {
		case instr.Jump, instr.SplitA, instr.SplitB:
			off := int16(binary.LittleEndian.Uint16(code[pos+2 : pos+4]))
			if target := pos + int(off); target == pos {
				t.Errorf("%s: instruction at %d targets itself (unpatched operand)", label, pos)
			}
			pos += 4
		case instr.SplitN:
			n := int(code[pos+2])
			for i := 0; i < n; i++ {
				at := pos + 3 + i*2
				off := int16(binary.LittleEndian.Uint16(code[at : at+2]))
				if target := pos + int(off); target == pos {
					t.Errorf("%s: split_n alt %d at %d targets itself (unpatched operand)", label, i, pos)
				}
			}
			pos += 3 + 2*n
		case instr.Literal:
			pos += 3
		case instr.MaskedByte:
			pos += 4
		case instr.Class:
			pos += 2 + instr.ClassBitmapSize
		default:
			pos += 2
		}
	}
}

func mustCompile(t *testing.T, pattern string) *Result {
	t.Helper()
	result, err := Compile(pattern, DefaultConfig())
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", pattern, err)
	}
	return result
}

func TestCompile_EmptyPatternYieldsExactZeroLengthAtom(t *testing.T) {
	result := mustCompile(t, "")
	if len(result.Atoms) != 1 {
		t.Fatalf("Atoms = %v, want 1 atom", result.Atoms)
	}
	a := result.Atoms[0].Atom
	if a.Len() != 0 || !a.IsExact() {
		t.Errorf("atom = %+v, want exact zero-length", a)
	}
}

func TestCompile_PureLiteralYieldsOneExactAtom(t *testing.T) {
	result := mustCompile(t, "hello")
	if len(result.Atoms) != 1 {
		t.Fatalf("Atoms = %v, want 1 atom", result.Atoms)
	}
	a := result.Atoms[0].Atom
	if !a.IsExact() {
		t.Error("literal pattern's atom should be exact")
	}
	// DesiredAtomSize is 4: "hell" scores higher than "ello" ('e' is the
	// most frequent letter), so the leading window is chosen.
	if string(a.Bytes()) != "hell" {
		t.Errorf("atom bytes = %q, want \"hell\"", a.Bytes())
	}
}

func TestCompile_EveryCodeEndsInMatch(t *testing.T) {
	result := mustCompile(t, "a+b*")
	endsInMatch := func(code []byte) bool {
		n := len(code)
		return n >= 2 && code[n-2] == instr.OpcodePrefix && instr.Opcode(code[n-1]) == instr.MATCH
	}
	if !endsInMatch(result.Forward) {
		t.Error("forward code should end in MATCH")
	}
	if !endsInMatch(result.Backward) {
		t.Error("backward code should end in MATCH")
	}
}

func TestCompile_ExactRepetitionZeroTimes(t *testing.T) {
	result := mustCompile(t, "a{0,0}")
	// a{0,0} degrades to an empty match: forward/backward code is just MATCH.
	if len(result.Forward) != 2 {
		t.Errorf("len(Forward) = %d, want 2 (just MATCH)", len(result.Forward))
	}
}

func TestCompile_AlternationProducesAtomPerBranch(t *testing.T) {
	result := mustCompile(t, "cat|dog")
	if len(result.Atoms) != 2 {
		t.Fatalf("Atoms = %v, want 2", result.Atoms)
	}
}

func TestCompile_InvalidPatternReturnsCompileError(t *testing.T) {
	_, err := Compile("(unclosed", DefaultConfig())
	if err == nil {
		t.Fatal("Compile() error = nil, want non-nil for malformed pattern")
	}
	if _, ok := err.(*CompileError); !ok {
		t.Errorf("error type = %T, want *CompileError", err)
	}
}

func TestCompileHIR_DeepNestingReturnsErrTooComplex(t *testing.T) {
	n := hir.Literal([]byte("a"))
	for i := 0; i < 10; i++ {
		n = hir.Capture(1, "", n)
	}
	cfg := DefaultConfig()
	cfg.MaxRecursionDepth = 5
	_, err := CompileHIR(n, cfg)
	if err != ErrTooComplex {
		t.Errorf("CompileHIR() error = %v, want ErrTooComplex", err)
	}
}

func TestCompile_BoundedRepetitionClonesBody(t *testing.T) {
	short := mustCompile(t, "a{2}")
	long := mustCompile(t, "a{4}")
	if len(long.Forward) <= len(short.Forward) {
		t.Errorf("len(Forward) for a{4} = %d, should exceed a{2}'s %d", len(long.Forward), len(short.Forward))
	}
}

func TestCompile_OptionalQuantifierPatchesLeadingSplit(t *testing.T) {
	tests := []string{"a?", "a{0,2}", "a{0,3}"}
	for _, pattern := range tests {
		t.Run(pattern, func(t *testing.T) {
			result := mustCompile(t, pattern)
			assertNoStraySplits(t, "forward", result.Forward)
			assertNoStraySplits(t, "backward", result.Backward)

			// The very first instruction is the leading split (min == 0):
			// it must target the end of the whole compiled code (where
			// MATCH begins), i.e. skipping the optional body entirely.
			if result.Forward[0] != instr.OpcodePrefix {
				t.Fatalf("forward code does not start with an instruction: %v", result.Forward)
			}
			op := instr.Opcode(result.Forward[1])
			if op != instr.SplitA && op != instr.SplitB {
				t.Fatalf("first forward instruction = %v, want SplitA/SplitB", op)
			}
			off := int16(binary.LittleEndian.Uint16(result.Forward[2:4]))
			target := int(off)
			wantTarget := len(result.Forward) - 2 // MATCH's position
			if target != wantTarget {
				t.Errorf("leading split targets %d, want %d (MATCH's position)", target, wantTarget)
			}
		})
	}
}

func TestCompileHIR_OptionalQuantifierDrainsBookmarks(t *testing.T) {
	max := uint32(2)
	n := hir.Repeat(0, &max, true, hir.Literal([]byte("a")))
	c := New(DefaultConfig())
	if err := hir.Walk(n, c); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(c.bookmarks) != 0 {
		t.Errorf("len(bookmarks) = %d after compiling a{0,2}, want 0", len(c.bookmarks))
	}
}

func TestCompile_NestedBoundedRepetition(t *testing.T) {
	// Exercises EmitClone's rehoming of a jump that targets exactly the end
	// of its own cloned body.
	result, err := Compile("(?:a*){2,3}", DefaultConfig())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(result.Forward) == 0 {
		t.Error("expected non-empty forward code")
	}
}
