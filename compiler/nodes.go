package compiler

import (
	"github.com/coregx/hirprog/hir"
	"github.com/coregx/hirprog/instr"
	"github.com/coregx/hirprog/internal/conv"
)

func (c *Compiler) visitPreConcat() {
	c.pushBookmark(c.location())
	c.backwardChunks = append(c.backwardChunks, instr.NewSeq(c.backwardCode().SeqID()+1))
}

// visitPostConcat splices the n scratch backward-code chunks accumulated
// for this Concat's children into the parent backward stream in reverse
// order (children were visited left-to-right, but the backward stream
// must read right-to-left), relocating any atom whose code location
// pointed into one of those chunks, and returns one Location per child:
// locations[i].Fwd is where child i's forward code begins, and
// locations[i].Bck is the parent backward offset just past child i's
// spliced chunk (where backward code for the children before i begins).
func (c *Compiler) visitPostConcat(n int) []instr.Location {
	total := len(c.backwardChunks)
	lastN := c.backwardChunks[total-n:]
	c.backwardChunks = c.backwardChunks[:total-n]

	backward := c.backwardCodeMut()

	bm := len(c.bookmarks)
	locations := append([]instr.Location(nil), c.bookmarks[bm-n:]...)
	c.bookmarks = c.bookmarks[:bm-n]

	chunkLocations := make(map[uint64]int, n)
	for i := n - 1; i >= 0; i-- {
		chunk := lastN[i]
		chunkLocations[chunk.SeqID()] = backward.Location()
		backward.Append(chunk)
		locations[i].BckSeqID = backward.SeqID()
		locations[i].Bck = backward.Location()
	}

	best := &c.bestAtomsStack[len(c.bestAtomsStack)-1]
	for i := range best.atoms {
		if adj, ok := chunkLocations[best.atoms[i].CodeLoc.BckSeqID]; ok {
			best.atoms[i].CodeLoc.BckSeqID = backward.SeqID()
			best.atoms[i].CodeLoc.Bck += adj
		}
	}

	return locations
}

func (c *Compiler) visitPreAlternation(numAlts int) {
	// TODO: surface this as a compile error instead of an invariant panic
	// once patterns with wide alternations show up in practice.
	l0 := c.emitSplitN(instr.NumAlt(conv.IntToUint8(numAlts)))
	c.pushBookmark(l0)
	c.pushBookmark(c.location())
	c.bestAtomsStack = append(c.bestAtomsStack, emptyAtoms())
}

// visitAlternationIn runs between each pair of alternatives: it closes the
// previous one with a jump to the (not yet known) end of the alternation.
func (c *Compiler) visitAlternationIn() {
	l := c.emitInstr(instr.Jump)
	c.pushBookmark(l)
	c.pushBookmark(c.location())
	c.bestAtomsStack = append(c.bestAtomsStack, emptyAtoms())
}

func (c *Compiler) visitPostAlternation(n int) (instr.Location, error) {
	lEnd := c.location()

	exprLocs := make([]instr.Location, 0, n)
	for i := 0; i < n-1; i++ {
		exprLocs = append(exprLocs, c.popBookmark())
		lnJ := c.popBookmark()
		off, err := lEnd.Sub(lnJ)
		if err != nil {
			return instr.Location{}, err
		}
		c.patchInstr(lnJ, off)
	}
	exprLocs = append(exprLocs, c.popBookmark())
	splitLoc := c.popBookmark()

	offsets := make([]instr.OffsetPair, n)
	for i, loc := range exprLocs {
		off, err := loc.Sub(splitLoc)
		if err != nil {
			return instr.Location{}, err
		}
		offsets[n-1-i] = off
	}
	c.patchSplitN(splitLoc, offsets)

	stackLen := len(c.bestAtomsStack)
	lastN := c.bestAtomsStack[stackLen-n:]
	c.bestAtomsStack = c.bestAtomsStack[:stackLen-n]

	alt := emptyAtoms()
	for i, a := range lastN {
		alt.atoms = append(alt.atoms, a.atoms...)
		if i == 0 || a.minQuality < alt.minQuality {
			alt.minQuality = a.minQuality
		}
	}

	best := &c.bestAtomsStack[len(c.bestAtomsStack)-1]
	if alt.len() <= c.cfg.MaxAtomsPerRegexp && best.minQuality < alt.minQuality {
		*best = alt
	}

	return splitLoc, nil
}

func (c *Compiler) visitPostLook(k hir.LookKind) instr.Location {
	switch k {
	case hir.LookStart:
		return c.emitInstr(instr.START)
	case hir.LookEnd:
		return c.emitInstr(instr.END)
	case hir.LookWordAscii:
		return c.emitInstr(instr.WordBoundary)
	case hir.LookWordAsciiNegate:
		return c.emitInstr(instr.WordBoundaryNeg)
	default:
		panic("compiler: unsupported look-around kind")
	}
}

func (c *Compiler) visitPostClass(n *hir.Node) instr.Location {
	ranges, ok := n.ByteRanges()
	if !ok {
		// regexp/syntax classes outside the byte range need a multi-byte
		// UTF-8 encoding this instruction format has no way to express as
		// a single Class instruction.
		panic("compiler: unicode character classes are not supported")
	}
	var bitmap [256]bool
	for _, r := range ranges {
		for b := int(r[0]); b <= int(r[1]); b++ {
			bitmap[b] = true
		}
	}
	return c.emitClass(&bitmap)
}

func (c *Compiler) visitPreRepetition(rep hir.Repetition) {
	switch {
	case rep.Max == nil && rep.Min == 0: // e* / e*?
		l1 := c.emitInstr(pickOpcode(rep.Greedy, instr.SplitA, instr.SplitB))
		c.pushBookmark(l1)
		c.zeroRepDepth++

	case rep.Max == nil && rep.Min == 1: // e+ / e+?
		c.pushBookmark(c.location())

	case rep.Max == nil: // e{min,}, min > 1
		c.pushBookmark(c.location())

	default: // e{min,max}
		if rep.Min == 0 {
			split := c.emitInstr(pickOpcode(rep.Greedy, instr.SplitA, instr.SplitB))
			c.pushBookmark(split)
			c.zeroRepDepth++
		}
		c.pushBookmark(c.location())
	}
}

func (c *Compiler) visitPostRepetition(rep hir.Repetition) (instr.Location, error) {
	switch {
	case rep.Max == nil && rep.Min == 0:
		return c.postRepetitionStar(rep)
	case rep.Max == nil && rep.Min == 1:
		return c.postRepetitionPlus(rep)
	case rep.Max == nil:
		return c.postRepetitionMinOnly(rep)
	default:
		return c.postRepetitionBounded(rep)
	}
}

func (c *Compiler) postRepetitionStar(rep hir.Repetition) (instr.Location, error) {
	l1 := c.popBookmark()
	l2 := c.emitInstr(instr.Jump)
	l3 := c.location()

	off, err := l3.Sub(l1)
	if err != nil {
		return instr.Location{}, err
	}
	c.patchInstr(l1, off)

	off, err = l1.Sub(l2)
	if err != nil {
		return instr.Location{}, err
	}
	c.patchInstr(l2, off)

	c.zeroRepDepth--
	return l1, nil
}

func (c *Compiler) postRepetitionPlus(rep hir.Repetition) (instr.Location, error) {
	l1 := c.popBookmark()
	l2 := c.emitInstr(pickOpcode(rep.Greedy, instr.SplitB, instr.SplitA))
	off, err := l1.Sub(l2)
	if err != nil {
		return instr.Location{}, err
	}
	c.patchInstr(l2, off)
	return l1, nil
}

func (c *Compiler) postRepetitionMinOnly(rep hir.Repetition) (instr.Location, error) {
	invariant(rep.Min >= 2, "postRepetitionMinOnly called with min < 2")

	start := c.popBookmark()
	end := c.location()

	for i := uint32(0); i < satSub(rep.Min, 3); i++ {
		c.emitClone(start, end)
	}

	var l1 instr.Location
	if rep.Min > 2 {
		l1 = c.location()
		c.emitClone(start, end)
	} else {
		l1 = start
	}

	l2 := c.emitInstr(pickOpcode(rep.Greedy, instr.SplitB, instr.SplitA))
	off, err := l1.Sub(l2)
	if err != nil {
		return instr.Location{}, err
	}
	c.patchInstr(l2, off)
	c.emitClone(start, end)

	// The code for `e` has been duplicated min-1 extra times since the
	// atoms below were extracted (when only the first copy existed), so
	// any atom located inside that first copy needs its backward location
	// pushed forward by the size of the (min-1) extra copies plus the
	// split instruction inserted after them.
	adjustment := int(rep.Min-1)*(end.Bck-start.Bck) + instr.JumpOpSize
	c.adjustBackwardAtoms(start, adjustment)

	return start, nil
}

func (c *Compiler) postRepetitionBounded(rep hir.Repetition) (instr.Location, error) {
	min, max := rep.Min, *rep.Max

	// visitPreRepetition pushed the body-start bookmark last, and, when
	// min == 0, the leading split's bookmark just beneath it. Both are
	// popped here so the leading split ends up in splits below and gets
	// patched like every other one; leaving it on c.bookmarks would strand
	// it permanently and shift every bookmark a sibling Concat expects.
	start := c.popBookmark()
	var leadSplit instr.Location
	if min == 0 {
		leadSplit = c.popBookmark()
	}
	end := c.location()

	for i := uint32(0); i < satSub(min, 1); i++ {
		c.emitClone(start, end)
	}

	loopCount := max - min
	if min == 0 {
		loopCount = max - 1
	}

	splits := make([]instr.Location, 0, loopCount+1)
	if min == 0 {
		splits = append(splits, leadSplit)
	}
	for i := uint32(0); i < loopCount; i++ {
		split := c.emitInstr(pickOpcode(rep.Greedy, instr.SplitA, instr.SplitB))
		splits = append(splits, split)
		c.emitClone(start, end)
	}

	if min > 1 {
		adjustment := int(min-1) * (end.Bck - start.Bck)
		c.adjustBackwardAtoms(start, adjustment)
	}

	endLoc := c.location()
	for _, split := range splits {
		off, err := endLoc.Sub(split)
		if err != nil {
			return instr.Location{}, err
		}
		c.patchInstr(split, off)
	}

	if min == 0 {
		c.zeroRepDepth--
	}

	return start, nil
}

// adjustBackwardAtoms shifts forward by adjustment the backward-location
// of every atom in the current level that points into the chunk owning
// start, at or after start itself — i.e. every atom discovered while
// compiling the repeated body, whose backward code has since moved
// because more copies of that body were emitted after extraction.
func (c *Compiler) adjustBackwardAtoms(start instr.Location, adjustment int) {
	best := &c.bestAtomsStack[len(c.bestAtomsStack)-1]
	for i := range best.atoms {
		loc := &best.atoms[i].CodeLoc
		if loc.BckSeqID == start.BckSeqID && loc.Bck >= start.Bck {
			loc.Bck += adjustment
		}
	}
}

func satSub(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}
