package compiler

import (
	"github.com/coregx/hirprog/atom"
	"github.com/coregx/hirprog/hir"
	"github.com/coregx/hirprog/instr"
	"github.com/coregx/hirprog/litseq"
)

// Compiler implements hir.Visitor; CompileHIR drives the walk via
// hir.Walk.
var _ hir.Visitor = (*Compiler)(nil)

func (c *Compiler) VisitPre(n *hir.Node) error {
	if c.depth+1 > c.cfg.MaxRecursionDepth {
		return ErrTooComplex
	}

	switch n.Kind() {
	case hir.KindCapture:
		c.pushBookmark(c.location())
	case hir.KindConcat:
		c.visitPreConcat()
	case hir.KindAlternation:
		c.visitPreAlternation(len(n.Subs()))
	case hir.KindRepetition:
		c.visitPreRepetition(n.RepetitionInfo())
	}
	c.depth++
	return nil
}

func (c *Compiler) VisitConcatIn() error {
	c.visitPreConcat()
	return nil
}

func (c *Compiler) VisitAlternationIn() error {
	c.visitAlternationIn()
	return nil
}

func (c *Compiler) VisitPost(n *hir.Node) error {
	c.depth--

	var atoms []atom.Atom
	var codeLoc instr.Location

	switch n.Kind() {
	case hir.KindEmpty:
		if c.zeroRepDepth > 0 {
			return nil
		}
		codeLoc = c.location()
		atoms = []atom.Atom{atom.Exact(nil)}

	case hir.KindLiteral:
		loc := c.emitLiteral(n.Literal())
		loc.BckSeqID = c.backwardCode().SeqID()
		loc.Bck = c.backwardCode().Location()
		if c.zeroRepDepth > 0 {
			return nil
		}
		lit := n.Literal()
		best := atom.BestFromSlice(lit, c.cfg.DesiredAtomSize)
		adjustment := instr.LiteralCodeLength(lit[:best.Backtrack()])
		loc.Fwd += adjustment
		loc.Bck -= adjustment
		best.SetBacktrack(0)
		codeLoc = loc
		atoms = []atom.Atom{best}

	case hir.KindCapture:
		loc := c.popBookmark()
		loc.BckSeqID = c.backwardCode().SeqID()
		loc.Bck = c.backwardCode().Location()
		if c.zeroRepDepth > 0 {
			return nil
		}
		codeLoc = loc
		atoms = c.extractNodeAtoms(n)

	case hir.KindLook:
		loc := c.visitPostLook(n.Look())
		loc.BckSeqID = c.backwardCode().SeqID()
		loc.Bck = c.backwardCode().Location()
		if c.zeroRepDepth > 0 {
			return nil
		}
		codeLoc = loc
		atoms = c.extractNodeAtoms(n)

	case hir.KindClass:
		var loc instr.Location
		if n.IsAnyByte() {
			loc = c.emitInstr(instr.AnyByte)
		} else {
			loc = c.visitPostClass(n)
		}
		loc.BckSeqID = c.backwardCode().SeqID()
		loc.Bck = c.backwardCode().Location()
		if c.zeroRepDepth > 0 {
			return nil
		}
		codeLoc = loc
		atoms = c.extractNodeAtoms(n)

	case hir.KindConcat:
		locations := c.visitPostConcat(len(n.Subs()))
		if c.zeroRepDepth > 0 {
			return nil
		}
		a, loc, ok := c.bestConcatAtoms(n, locations)
		if !ok {
			return nil
		}
		atoms, codeLoc = a, loc

	case hir.KindAlternation:
		loc, err := c.visitPostAlternation(len(n.Subs()))
		if err != nil {
			return err
		}
		loc.BckSeqID = c.backwardCode().SeqID()
		loc.Bck = c.backwardCode().Location()
		if c.zeroRepDepth > 0 {
			return nil
		}
		codeLoc = loc
		atoms = c.extractNodeAtoms(n)

	case hir.KindRepetition:
		loc, err := c.visitPostRepetition(n.RepetitionInfo())
		if err != nil {
			return err
		}
		loc.BckSeqID = c.backwardCode().SeqID()
		loc.Bck = c.backwardCode().Location()
		if c.zeroRepDepth > 0 {
			return nil
		}
		codeLoc = loc
		atoms = c.extractNodeAtoms(n)
	}

	if len(atoms) == 0 {
		return nil
	}

	canBeExact := c.depth == 0 && !n.HasLookAround()

	minQuality := atoms[0].Quality()
	exactAtoms := 0
	for _, a := range atoms {
		if q := a.Quality(); q < minQuality {
			minQuality = q
		}
		if a.IsExact() {
			exactAtoms++
		}
	}

	best := &c.bestAtomsStack[len(c.bestAtomsStack)-1]
	if minQuality > best.minQuality || (minQuality == best.minQuality && canBeExact && exactAtoms > best.exactAtoms) {
		wrapped := regexpAtoms{
			atoms:      make([]RegexpAtom, len(atoms)),
			minQuality: minQuality,
			exactAtoms: exactAtoms,
		}
		for i, a := range atoms {
			wrapped.atoms[i] = RegexpAtom{Atom: a, CodeLoc: codeLoc}
		}
		if !canBeExact {
			wrapped.makeInexact()
		}
		*best = wrapped
	}

	return nil
}

// extractNodeAtoms runs the literal extractor over n and converts the
// result to atoms, the path shared by every node kind except Empty (which
// always yields one exact empty atom), Literal (which has its own, more
// deliberate, window-selection logic) and Concat (which compares several
// candidate suffixes).
func (c *Compiler) extractNodeAtoms(n *hir.Node) []atom.Atom {
	seq := c.litExtractor.Extract(n)
	simplified := litseq.SimplifySeq(seq)
	atoms, ok := litseq.SeqToAtoms(simplified)
	if !ok {
		return nil
	}
	return atoms
}

// bestConcatAtoms tries concat_seq over each suffix of the children's
// extracted sequences and keeps whichever suffix yields the best quality,
// matching the node's own code location for that suffix's starting child.
func (c *Compiler) bestConcatAtoms(n *hir.Node, locations []instr.Location) ([]atom.Atom, instr.Location, bool) {
	subs := n.Subs()
	seqs := make([]*litseq.Seq, len(subs))
	for i, sub := range subs {
		seqs[i] = c.litExtractor.Extract(sub)
	}

	var bestAtoms []atom.Atom
	var bestLoc instr.Location
	found := false
	var bestQuality litseq.Quality

	for i := range seqs {
		seq, ok := litseq.ConcatSeq(seqs[i:])
		if !ok {
			continue
		}
		quality, ok := litseq.EvalQuality(seq)
		if !ok {
			continue
		}
		if found && !bestQuality.Less(quality) {
			continue
		}
		if i > 0 {
			seq.MakeInexact()
		}
		atoms, ok := litseq.SeqToAtoms(seq)
		if !ok {
			continue
		}
		bestAtoms = atoms
		bestLoc = locations[i]
		bestQuality = quality
		found = true
	}

	return bestAtoms, bestLoc, found
}
