// Package compiler performs a single depth-first traversal of an HIR tree
// (package hir) and emits two parallel Pike VM instruction streams
// (package instr) — one that matches a pattern left-to-right, one that
// matches it right-to-left — plus the set of short literal atoms (package
// atom) a prefilter can scan for before ever running the VM.
//
// Compiling a regexp is a single DFS over its HIR: code for the two
// directions is produced together, and as each node finishes, the best
// atoms seen at that point are folded into the atoms kept for the
// enclosing node. By the time the traversal returns to the root, the
// atoms left on top of the stack are the ones actually used.
package compiler

import (
	"errors"
	"regexp/syntax"

	"github.com/coregx/hirprog/hir"
	"github.com/coregx/hirprog/instr"
	"github.com/coregx/hirprog/litextract"
)

// Result is the output of a successful compile: two instruction streams
// and the atoms extracted to drive prefiltering.
type Result struct {
	Forward  []byte
	Backward []byte
	Atoms    []RegexpAtom
}

// Compiler drives the HIR traversal. Use New/CompileHIR, or the Compile
// convenience entry point when starting from pattern text.
type Compiler struct {
	cfg Config

	forward  *instr.Seq
	backward *instr.Seq

	// Locations the compiler needs to remember across visitor callbacks,
	// e.g. the start of a jump whose destination isn't known yet.
	bookmarks []instr.Location

	// Best atoms found so far: one entry for the whole pattern, plus one
	// per alternative of every Alternation currently open. The top entry
	// belongs to the innermost open alternative (or the whole pattern).
	bestAtomsStack []regexpAtoms

	// Scratch backward-code chunks for the children of a Concat node
	// currently being visited; see visitPreConcat/visitPostConcat.
	backwardChunks []*instr.Seq

	litExtractor *litextract.Extractor

	// depth is how many HIR levels deep the traversal currently is; the
	// root's children are at depth 1 while visited, 0 once finished.
	depth int

	// zeroRepDepth counts how many enclosing Repetition nodes might match
	// zero times. Atoms aren't extracted from a subtree while this is
	// nonzero: a literal required only inside an optional loop body isn't
	// required by the pattern as a whole.
	zeroRepDepth int
}

// New creates a Compiler ready to walk one HIR tree.
func New(cfg Config) *Compiler {
	if cfg.MaxRecursionDepth == 0 {
		cfg.MaxRecursionDepth = 100
	}
	return &Compiler{
		cfg:            cfg,
		forward:        instr.NewSeq(0),
		backward:       instr.NewSeq(0),
		bestAtomsStack: []regexpAtoms{emptyAtoms()},
		litExtractor:   litextract.New(litextract.DefaultConfig(cfg.DesiredAtomSize)),
	}
}

// Compile parses pattern with regexp/syntax and compiles it.
func Compile(pattern string, cfg Config) (*Result, error) {
	parsed, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	h, err := hir.FromSyntax(parsed)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	result, err := CompileHIR(h, cfg)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return result, nil
}

// CompileHIR compiles an already-built HIR tree.
func CompileHIR(h *hir.Node, cfg Config) (*Result, error) {
	c := New(cfg)

	if err := hir.Walk(h, c); err != nil {
		if errors.Is(err, instr.ErrTooLarge) {
			return nil, ErrTooLarge
		}
		return nil, err
	}

	c.forwardCodeMut().EmitInstr(instr.MATCH)
	c.backwardCodeMut().EmitInstr(instr.MATCH)

	top := c.bestAtomsStack[len(c.bestAtomsStack)-1]
	invariant(top.len() <= cfg.MaxAtomsPerRegexp, "atom count exceeds configured maximum")

	return &Result{
		Forward:  c.forward.Bytes(),
		Backward: c.backward.Bytes(),
		Atoms:    top.atoms,
	}, nil
}

func (c *Compiler) forwardCodeMut() *instr.Seq { return c.forward }

func (c *Compiler) backwardCode() *instr.Seq {
	if n := len(c.backwardChunks); n > 0 {
		return c.backwardChunks[n-1]
	}
	return c.backward
}

func (c *Compiler) backwardCodeMut() *instr.Seq { return c.backwardCode() }

func (c *Compiler) location() instr.Location {
	return instr.Location{
		Fwd:      c.forward.Location(),
		BckSeqID: c.backwardCode().SeqID(),
		Bck:      c.backwardCode().Location(),
	}
}

// emitInstr appends op to both streams. Jump/SplitA/SplitB carry a
// patchable offset operand (reserved as zero here and filled in later by
// patchInstr); every other opcode this compiler emits directly takes none.
func (c *Compiler) emitInstr(op instr.Opcode) instr.Location {
	var fwd, bck int
	switch op {
	case instr.Jump, instr.SplitA, instr.SplitB:
		fwd = c.forwardCodeMut().EmitJumpOrSplit(op)
		bck = c.backwardCodeMut().EmitJumpOrSplit(op)
	default:
		fwd = c.forwardCodeMut().EmitInstr(op)
		bck = c.backwardCodeMut().EmitInstr(op)
	}
	return instr.Location{Fwd: fwd, BckSeqID: c.backwardCode().SeqID(), Bck: bck}
}

func (c *Compiler) emitSplitN(n instr.NumAlt) instr.Location {
	fwd := c.forwardCodeMut().EmitSplitN(n)
	bck := c.backwardCodeMut().EmitSplitN(n)
	return instr.Location{Fwd: fwd, BckSeqID: c.backwardCode().SeqID(), Bck: bck}
}

func (c *Compiler) emitLiteral(lit []byte) instr.Location {
	fwd := c.forwardCodeMut().EmitLiteral(lit, false)
	bck := c.backwardCodeMut().EmitLiteral(lit, true)
	return instr.Location{Fwd: fwd, BckSeqID: c.backwardCode().SeqID(), Bck: bck}
}

func (c *Compiler) emitClass(bitmap *[256]bool) instr.Location {
	fwd := c.forwardCodeMut().EmitClass(bitmap)
	bck := c.backwardCodeMut().EmitClass(bitmap)
	return instr.Location{Fwd: fwd, BckSeqID: c.backwardCode().SeqID(), Bck: bck}
}

func (c *Compiler) emitClone(start, end instr.Location) instr.Location {
	fwd := c.forwardCodeMut().EmitClone(start.Fwd, end.Fwd)
	bck := c.backwardCodeMut().EmitClone(start.Bck, end.Bck)
	return instr.Location{Fwd: fwd, BckSeqID: c.backwardCode().SeqID(), Bck: bck}
}

func (c *Compiler) patchInstr(loc instr.Location, off instr.OffsetPair) {
	c.forwardCodeMut().PatchInstr(loc.Fwd, off.Fwd)
	c.backwardCodeMut().PatchInstr(loc.Bck, off.Bck)
}

func (c *Compiler) patchSplitN(loc instr.Location, offsets []instr.OffsetPair) {
	fwd := make([]instr.Offset, len(offsets))
	bck := make([]instr.Offset, len(offsets))
	for i, o := range offsets {
		fwd[i] = o.Fwd
		bck[i] = o.Bck
	}
	c.forwardCodeMut().PatchSplitN(loc.Fwd, fwd)
	c.backwardCodeMut().PatchSplitN(loc.Bck, bck)
}

func (c *Compiler) pushBookmark(loc instr.Location) {
	c.bookmarks = append(c.bookmarks, loc)
}

func (c *Compiler) popBookmark() instr.Location {
	n := len(c.bookmarks)
	invariant(n > 0, "popBookmark on empty bookmark stack")
	loc := c.bookmarks[n-1]
	c.bookmarks = c.bookmarks[:n-1]
	return loc
}

func pickOpcode(greedy bool, ifGreedy, ifNot instr.Opcode) instr.Opcode {
	if greedy {
		return ifGreedy
	}
	return ifNot
}
