// Package litextract computes, for an arbitrary HIR subtree, the set of
// literal strings that could occur as a prefix of anything the subtree
// matches. It plays the role of the external literal extractor the
// compiler consults while deciding which atoms to pull out of a node:
// given a node, Extract returns a litseq.Seq describing either a finite,
// enumerable set of candidate prefixes or litseq.Infinite() when no useful
// finite set exists (an unbounded repetition, an oversized character
// class, and so on).
package litextract

import (
	"github.com/coregx/hirprog/hir"
	"github.com/coregx/hirprog/litseq"
)

// Config bounds the work Extract is willing to do, mirroring the knobs a
// real literal extractor exposes: how large a character class may be
// before it's given up on, how many literals a sequence may carry in
// total before the extractor bails to Infinite, how long a single literal
// may grow before being truncated (and marked inexact), and how many
// times a bounded repetition may be unrolled.
type Config struct {
	LimitClass      int
	LimitTotal      int
	LimitLiteralLen int
	LimitRepeat     int
}

// DefaultConfig returns the limits the compiler configures its extractor
// with: class expansion up to 256 bytes, a total literal-count budget of
// 512, literals truncated to maxLiteralLen, and repetitions unrolled up to
// maxLiteralLen copies. maxLiteralLen is normally atom.DesiredSize.
func DefaultConfig(maxLiteralLen int) Config {
	return Config{
		LimitClass:      256,
		LimitTotal:      512,
		LimitLiteralLen: maxLiteralLen,
		LimitRepeat:     maxLiteralLen,
	}
}

// Extractor runs Extract with a fixed Config.
type Extractor struct {
	cfg Config
}

// New builds an Extractor with the given limits.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract computes the candidate-prefix sequence for n.
func (e *Extractor) Extract(n *hir.Node) *litseq.Seq {
	switch n.Kind() {
	case hir.KindEmpty:
		return litseq.Singleton(litseq.NewLiteral(nil, true))

	case hir.KindLiteral:
		lit := n.Literal()
		if len(lit) > e.cfg.LimitLiteralLen {
			trimmed := append([]byte(nil), lit[:e.cfg.LimitLiteralLen]...)
			return litseq.Singleton(litseq.NewLiteral(trimmed, false))
		}
		return litseq.Singleton(litseq.NewLiteral(append([]byte(nil), lit...), true))

	case hir.KindClass:
		return e.extractClass(n)

	case hir.KindLook:
		// Look-around assertions are treated as always matching the empty
		// string: they contribute no bytes, but don't make the sequence
		// infinite either.
		return litseq.Singleton(litseq.NewLiteral(nil, true))

	case hir.KindCapture:
		return e.Extract(n.Sub())

	case hir.KindConcat:
		return e.extractConcat(n)

	case hir.KindAlternation:
		return e.extractAlternation(n)

	case hir.KindRepetition:
		return e.extractRepetition(n)

	default:
		return litseq.Infinite()
	}
}

func (e *Extractor) extractClass(n *hir.Node) *litseq.Seq {
	ranges, ok := n.ByteRanges()
	if !ok {
		return litseq.Infinite()
	}
	total := 0
	for _, r := range ranges {
		total += int(r[1]) - int(r[0]) + 1
	}
	if total > e.cfg.LimitClass {
		return litseq.Infinite()
	}
	lits := make([]litseq.Literal, 0, total)
	for _, r := range ranges {
		for b := int(r[0]); b <= int(r[1]); b++ {
			lits = append(lits, litseq.NewLiteral([]byte{byte(b)}, true))
		}
	}
	return litseq.New(lits...)
}

func (e *Extractor) extractConcat(n *hir.Node) *litseq.Seq {
	result := litseq.Singleton(litseq.NewLiteral(nil, true))
	for _, sub := range n.Subs() {
		if result.IsInexact() {
			// An inexact literal is only a prefix of what it stands for;
			// appending the next child's bytes to it would not be.
			result.MakeInexact()
			break
		}
		childSeq := e.Extract(sub)
		if childSeq.IsInfinite() {
			result.MakeInexact()
			return litseq.Infinite()
		}
		if cross, ok := result.MaxCrossLen(childSeq); !ok || cross > e.cfg.LimitTotal {
			result.MakeInexact()
			break
		}
		result.CrossForward(childSeq)
		result.KeepFirstBytes(e.cfg.LimitLiteralLen)
	}
	return result
}

func (e *Extractor) extractAlternation(n *hir.Node) *litseq.Seq {
	var collected []litseq.Literal
	for _, sub := range n.Subs() {
		childSeq := e.Extract(sub)
		if childSeq.IsInfinite() {
			return litseq.Infinite()
		}
		lits, _ := childSeq.Literals()
		collected = append(collected, lits...)
		if len(collected) > e.cfg.LimitTotal {
			return litseq.Infinite()
		}
	}
	return litseq.New(collected...)
}

func (e *Extractor) extractRepetition(n *hir.Node) *litseq.Seq {
	rep := n.RepetitionInfo()

	// A repetition that may occur zero times contributes no literal that
	// is guaranteed to occur: any prefix derived from its body could be
	// skipped entirely.
	if rep.Min == 0 {
		return litseq.Infinite()
	}
	if int(rep.Min) > e.cfg.LimitRepeat {
		return litseq.Infinite()
	}

	subSeq := e.Extract(rep.Sub)
	if subSeq.IsInfinite() {
		return litseq.Infinite()
	}

	result := subSeq.Clone()
	for i := uint32(1); i < rep.Min; i++ {
		if result.IsInexact() {
			result.MakeInexact()
			break
		}
		if cross, ok := result.MaxCrossLen(subSeq); !ok || cross > e.cfg.LimitTotal {
			result.MakeInexact()
			break
		}
		result.CrossForward(subSeq)
		result.KeepFirstBytes(e.cfg.LimitLiteralLen)
	}

	// Unless the repetition is bounded to exactly Min occurrences, more
	// copies of the body may follow, so this prefix alone never proves a
	// complete match of the repetition.
	if rep.Max == nil || *rep.Max > rep.Min {
		result.MakeInexact()
	}
	return result
}
