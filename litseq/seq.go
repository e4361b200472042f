// Package litseq manipulates candidate-literal sequences produced by the
// external literal extractor (package litextract): simplifying a sequence
// down to its useful essence, taking the cross product of several
// sequences produced for the children of a concatenation, and converting a
// finite sequence into the atom.Atom values the compiler ultimately emits.
//
// A Seq represents the set of literal strings that could occur at some
// position in a match. It may be infinite (e.g. ".*" contributes no useful
// literal information) or finite but inexact (a literal is known to occur,
// but matching it is not by itself sufficient proof of a match — only a
// necessary prefix/fragment).
package litseq

import (
	"github.com/coregx/hirprog/atom"
)

// Literal is one candidate string in a Seq.
type Literal struct {
	Bytes []byte
	// Exact indicates this literal represents a complete match by itself;
	// false means it's only a necessary fragment (a prefix, a suffix, or a
	// substring contributed by a wildcard-bounded concatenation).
	Exact bool
}

// NewLiteral builds a Literal.
func NewLiteral(b []byte, exact bool) Literal {
	return Literal{Bytes: b, Exact: exact}
}

// Seq is a sequence of alternative literals, or the infinite/unknown
// sequence when the literals can't be enumerated.
type Seq struct {
	literals []Literal
	infinite bool
}

// New builds a finite sequence from the given literals.
func New(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Singleton builds a finite sequence with exactly one literal.
func Singleton(lit Literal) *Seq {
	return &Seq{literals: []Literal{lit}}
}

// Infinite returns a sequence that represents an unbounded or otherwise
// unenumerable set of strings (e.g. the contribution of `.*`).
func Infinite() *Seq {
	return &Seq{infinite: true}
}

// None returns the sequence that matches no strings at all (e.g. an empty
// character class).
func None() *Seq {
	return &Seq{}
}

// IsInfinite reports whether this sequence cannot be enumerated.
func (s *Seq) IsInfinite() bool { return s != nil && s.infinite }

// Len returns the number of literals and true, or (0, false) if the
// sequence is infinite.
func (s *Seq) Len() (int, bool) {
	if s.IsInfinite() {
		return 0, false
	}
	return len(s.literals), true
}

// IsEmpty reports whether the sequence contains no literals (and is not
// infinite) — the "matches nothing" sequence.
func (s *Seq) IsEmpty() bool {
	return s == nil || (!s.infinite && len(s.literals) == 0)
}

// MaxLiteralLen returns the length of the longest literal, or (0, false)
// if infinite or empty.
func (s *Seq) MaxLiteralLen() (int, bool) {
	if s.IsInfinite() || s.IsEmpty() {
		return 0, false
	}
	max := 0
	for _, l := range s.literals {
		if len(l.Bytes) > max {
			max = len(l.Bytes)
		}
	}
	return max, true
}

// LongestCommonPrefix returns the longest common prefix shared by every
// literal, or nil if infinite, empty, or there is no common prefix.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsInfinite() || s.IsEmpty() {
		return nil
	}
	prefix := s.literals[0].Bytes
	for _, l := range s.literals[1:] {
		prefix = commonPrefix(prefix, l.Bytes)
		if len(prefix) == 0 {
			return nil
		}
	}
	out := make([]byte, len(prefix))
	copy(out, prefix)
	return out
}

func commonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// IsInexact reports whether the sequence is infinite or contains any
// inexact literal — in either case, a cross product with it can never
// become exact again.
func (s *Seq) IsInexact() bool {
	if s.IsInfinite() {
		return true
	}
	for _, l := range s.literals {
		if !l.Exact {
			return true
		}
	}
	return false
}

// MakeInexact marks every literal in the sequence inexact.
func (s *Seq) MakeInexact() {
	for i := range s.literals {
		s.literals[i].Exact = false
	}
}

// Literals returns the sequence's literals and true, or (nil, false) if
// the sequence is infinite.
func (s *Seq) Literals() ([]Literal, bool) {
	if s.IsInfinite() {
		return nil, false
	}
	return s.literals, true
}

// MaxCrossLen returns the number of literals a cross product of s with
// other would produce, or (0, false) if either is infinite.
func (s *Seq) MaxCrossLen(other *Seq) (int, bool) {
	if s.IsInfinite() || other.IsInfinite() {
		return 0, false
	}
	return len(s.literals) * len(other.literals), true
}

// CrossForward replaces s with the cross product s × other: every literal
// in s extended with every literal in other, concatenated. If either side
// is infinite, s becomes infinite.
func (s *Seq) CrossForward(other *Seq) {
	if s.IsInfinite() || other.IsInfinite() {
		s.infinite = true
		s.literals = nil
		return
	}
	if len(s.literals) == 0 || len(other.literals) == 0 {
		s.literals = nil
		return
	}
	out := make([]Literal, 0, len(s.literals)*len(other.literals))
	for _, a := range s.literals {
		for _, b := range other.literals {
			combined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			combined = append(combined, a.Bytes...)
			combined = append(combined, b.Bytes...)
			out = append(out, Literal{Bytes: combined, Exact: a.Exact && b.Exact})
		}
	}
	s.literals = out
}

// KeepFirstBytes trims every literal down to its first n bytes.
func (s *Seq) KeepFirstBytes(n int) {
	for i, l := range s.literals {
		if len(l.Bytes) > n {
			s.literals[i].Bytes = l.Bytes[:n]
			s.literals[i].Exact = false
		}
	}
}

// Dedup removes literals whose bytes repeat an earlier literal's, keeping
// the first occurrence (and its exactness).
func (s *Seq) Dedup() {
	if len(s.literals) < 2 {
		return
	}
	seen := make(map[string]bool, len(s.literals))
	out := s.literals[:0]
	for _, l := range s.literals {
		key := string(l.Bytes)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	s.literals = out
}

// Clone deep-copies the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	if s.infinite {
		return Infinite()
	}
	out := make([]Literal, len(s.literals))
	for i, l := range s.literals {
		b := make([]byte, len(l.Bytes))
		copy(b, l.Bytes)
		out[i] = Literal{Bytes: b, Exact: l.Exact}
	}
	return &Seq{literals: out}
}

// Quality scores a finite sequence: Min is the minimum, across its
// literals, of the atom.Quality of the atom.DesiredSize-byte window
// atom.BestFromSlice picks from each literal, and Exact reports whether
// every literal is exact. EvalQuality returns ok=false instead when the
// sequence can't produce any atoms at all (infinite or empty).
type Quality struct {
	Min   int
	Exact bool
}

// Less reports whether q is worse than other: lower Min loses, and among
// equal Min, being inexact loses.
func (q Quality) Less(other Quality) bool {
	if q.Min != other.Min {
		return q.Min < other.Min
	}
	return !q.Exact && other.Exact
}

// EvalQuality computes the Quality of a sequence, or ok=false if the
// sequence contributes no usable atoms.
func EvalQuality(s *Seq) (q Quality, ok bool) {
	if s.IsInfinite() || s.IsEmpty() {
		return Quality{}, false
	}
	min := 0
	allExact := true
	for i, l := range s.literals {
		a := atom.BestFromSlice(l.Bytes, atom.DesiredSize)
		if i == 0 || a.Quality() < min {
			min = a.Quality()
		}
		if !l.Exact {
			allExact = false
		}
	}
	return Quality{Min: min, Exact: allExact}, true
}

// SimplifySeq collapses a sequence of exactly 256 literals that all share a
// common prefix one byte shorter than the longest literal into a single
// inexact literal containing just that prefix: 256 literals of length N
// differing only in their last byte carry no more information than the
// (N-1)-byte prefix they share, and keeping 256 of them wastes atom
// budget for nothing.
func SimplifySeq(seq *Seq) *Seq {
	n, ok := seq.Len()
	if !ok || n != 256 {
		return seq
	}
	maxLen, ok := seq.MaxLiteralLen()
	if !ok || maxLen <= 1 {
		return seq
	}
	prefix := seq.LongestCommonPrefix()
	if len(prefix) != maxLen-1 {
		return seq
	}
	return Singleton(NewLiteral(prefix, false))
}

// ConcatSeq computes the cross product of up to the first
// atom.DesiredSize sequences in seqs, bailing out early once the first
// sequence looks useless, the running cross product would exceed
// atom.MaxPerRegexp, or the result has already gone inexact (further
// cross products would be no-ops). The trailing "256 one-byte literals"
// case (a wildcard byte at the end of the window, e.g. hex pattern
// `{ 01 02 ?? }`) is dropped rather than exploded into 256 three-byte
// atoms. Returns false if no useful sequence could be built at all.
func ConcatSeq(seqs []*Seq) (*Seq, bool) {
	result := Singleton(NewLiteral(nil, true))

	if len(seqs) > 0 {
		first := seqs[0]
		if first.IsInfinite() {
			return nil, false
		}
		if n, _ := first.Len(); n == 256 {
			if maxLen, ok := first.MaxLiteralLen(); !ok || maxLen <= 1 {
				return nil, false
			}
		}
	}

	limit := len(seqs)
	if limit > atom.DesiredSize {
		limit = atom.DesiredSize
	}

	added := 0
	for i := 0; i < limit; i++ {
		seq := seqs[i]

		if cross, ok := result.MaxCrossLen(seq); !ok || cross > atom.MaxPerRegexp {
			break
		}

		isLast := i == limit-1
		if isLast {
			if n, ok := seq.Len(); ok && n == 256 {
				if maxLen, ok := seq.MaxLiteralLen(); ok && maxLen == 1 {
					break
				}
			}
		}

		if result.IsInexact() {
			break
		}

		result.CrossForward(seq)
		added++
	}

	if added < len(seqs) {
		result.MakeInexact()
	}

	result.KeepFirstBytes(atom.DesiredSize)
	result.Dedup()

	return SimplifySeq(result), true
}

// SeqToAtoms converts a finite sequence's literals to atom.Atom values, one
// per literal (no further windowing: ConcatSeq and the callers that build
// Seqs directly from sub-HIRs already keep literals at atom.DesiredSize or
// shorter). Returns (nil, false) if the sequence is infinite.
func SeqToAtoms(seq *Seq) ([]atom.Atom, bool) {
	lits, ok := seq.Literals()
	if !ok {
		return nil, false
	}
	atoms := make([]atom.Atom, len(lits))
	for i, l := range lits {
		if l.Exact {
			atoms[i] = atom.Exact(l.Bytes)
		} else {
			atoms[i] = atom.Inexact(l.Bytes)
		}
	}
	return atoms, true
}
