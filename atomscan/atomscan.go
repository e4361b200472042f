// Package atomscan wires the atoms a compile produces into an
// Aho-Corasick automaton, so a scanner can find candidate match positions
// before ever running the Pike VM: any occurrence of an atom in the
// automaton is a signal to resume compiled code at that atom's recorded
// location, while the absence of any occurrence proves the pattern
// doesn't match at all (atom soundness).
package atomscan

import (
	"errors"
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/hirprog/compiler"
)

// ErrNoAtoms is returned by Build when given an empty atom set: there is
// nothing useful an Aho-Corasick automaton could scan for.
var ErrNoAtoms = errors.New("atomscan: no atoms to build a scanner from")

// Scanner finds occurrences of a compile's atoms in a haystack.
type Scanner struct {
	auto *ahocorasick.Automaton
	// byLiteral maps an atom's exact bytes to every RegexpAtom that
	// shares them (distinct HIR nodes can extract the same literal).
	byLiteral map[string][]compiler.RegexpAtom
}

// Candidate is one atom occurrence found in a haystack, together with
// every compiled atom that produced those bytes.
type Candidate struct {
	Start, End int
	Atoms      []compiler.RegexpAtom
}

// Build constructs a Scanner from a compile's extracted atoms.
func Build(atoms []compiler.RegexpAtom) (*Scanner, error) {
	if len(atoms) == 0 {
		return nil, ErrNoAtoms
	}

	builder := ahocorasick.NewBuilder()
	byLiteral := make(map[string][]compiler.RegexpAtom, len(atoms))

	for _, a := range atoms {
		key := string(a.Atom.Bytes())
		if _, seen := byLiteral[key]; !seen {
			builder.AddPattern(a.Atom.Bytes())
		}
		byLiteral[key] = append(byLiteral[key], a)
	}

	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("atomscan: building automaton: %w", err)
	}

	return &Scanner{auto: auto, byLiteral: byLiteral}, nil
}

// Find returns the first atom occurrence in haystack at or after position
// at, or ok=false if none of the atoms occur.
func (s *Scanner) Find(haystack []byte, at int) (candidate Candidate, ok bool) {
	m := s.auto.Find(haystack, at)
	if m == nil {
		return Candidate{}, false
	}
	key := string(haystack[m.Start:m.End])
	return Candidate{Start: m.Start, End: m.End, Atoms: s.byLiteral[key]}, true
}

// IsMatch reports whether any atom occurs anywhere in haystack.
func (s *Scanner) IsMatch(haystack []byte) bool {
	return s.auto.IsMatch(haystack)
}
