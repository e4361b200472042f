package atomscan

import (
	"testing"

	"github.com/coregx/hirprog/atom"
	"github.com/coregx/hirprog/compiler"
	"github.com/coregx/hirprog/instr"
)

func regexpAtom(lit string, loc int) compiler.RegexpAtom {
	return compiler.RegexpAtom{
		Atom:    atom.Exact([]byte(lit)),
		CodeLoc: instr.Location{Fwd: loc},
	}
}

func TestBuild_EmptyAtomsFails(t *testing.T) {
	_, err := Build(nil)
	if err != ErrNoAtoms {
		t.Errorf("Build(nil) error = %v, want ErrNoAtoms", err)
	}
}

func TestBuild_FindLocatesAtom(t *testing.T) {
	atoms := []compiler.RegexpAtom{regexpAtom("foo", 10), regexpAtom("bar", 20)}
	scanner, err := Build(atoms)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	candidate, ok := scanner.Find([]byte("xxfooyy"), 0)
	if !ok {
		t.Fatal("Find() ok = false, want true")
	}
	if candidate.Start != 2 || candidate.End != 5 {
		t.Errorf("Find() = {%d,%d}, want {2,5}", candidate.Start, candidate.End)
	}
	if len(candidate.Atoms) != 1 || candidate.Atoms[0].CodeLoc.Fwd != 10 {
		t.Errorf("Find() atoms = %+v, want the \"foo\" atom at loc 10", candidate.Atoms)
	}
}

func TestBuild_FindNoMatch(t *testing.T) {
	atoms := []compiler.RegexpAtom{regexpAtom("foo", 10)}
	scanner, err := Build(atoms)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	_, ok := scanner.Find([]byte("nothing here"), 0)
	if ok {
		t.Error("Find() ok = true, want false for a haystack with no atom occurrence")
	}
}

func TestBuild_IsMatch(t *testing.T) {
	atoms := []compiler.RegexpAtom{regexpAtom("needle", 0)}
	scanner, err := Build(atoms)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !scanner.IsMatch([]byte("a needle in a haystack")) {
		t.Error("IsMatch() = false, want true")
	}
	if scanner.IsMatch([]byte("nothing to see")) {
		t.Error("IsMatch() = true, want false")
	}
}

func TestBuild_SharedLiteralKeepsBothAtoms(t *testing.T) {
	atoms := []compiler.RegexpAtom{regexpAtom("dup", 1), regexpAtom("dup", 2)}
	scanner, err := Build(atoms)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	candidate, ok := scanner.Find([]byte("dup"), 0)
	if !ok {
		t.Fatal("Find() ok = false, want true")
	}
	if len(candidate.Atoms) != 2 {
		t.Errorf("len(Atoms) = %d, want 2 for two RegexpAtoms sharing the same literal", len(candidate.Atoms))
	}
}
