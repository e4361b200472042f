package compiler

import (
	"math"

	"github.com/coregx/hirprog/atom"
	"github.com/coregx/hirprog/instr"
)

// RegexpAtom pairs an extracted atom with the instruction-stream location
// the Pike VM must resume from once the atom is found (and, for an
// inexact atom, where it must start its verification scan).
type RegexpAtom struct {
	Atom    atom.Atom
	CodeLoc instr.Location
}

// regexpAtoms is the running "best atoms found so far" value the compiler
// keeps one of for the whole pattern and one per alternative of each open
// Alternation (the top of bestAtomsStack is the innermost of those that
// the node currently being finished belongs to).
type regexpAtoms struct {
	atoms      []RegexpAtom
	minQuality int
	exactAtoms int
}

func emptyAtoms() regexpAtoms {
	return regexpAtoms{minQuality: math.MinInt32}
}

func (a *regexpAtoms) makeInexact() {
	a.exactAtoms = 0
	for i := range a.atoms {
		a.atoms[i].Atom.SetExact(false)
	}
}

func (a *regexpAtoms) len() int { return len(a.atoms) }
