package litseq

import (
	"testing"

	"github.com/coregx/hirprog/atom"
)

func lit(s string, exact bool) Literal { return NewLiteral([]byte(s), exact) }

func TestSeq_IsEmptyIsInfinite(t *testing.T) {
	if !None().IsEmpty() {
		t.Error("None() should be empty")
	}
	if Infinite().IsEmpty() {
		t.Error("Infinite() should not report empty")
	}
	if !Infinite().IsInfinite() {
		t.Error("Infinite() should report infinite")
	}
	if Singleton(lit("a", true)).IsInfinite() {
		t.Error("Singleton() should not be infinite")
	}
}

func TestSeq_LongestCommonPrefix(t *testing.T) {
	tests := []struct {
		name string
		lits []Literal
		want string
	}{
		{"shared prefix", []Literal{lit("food", true), lit("foot", true)}, "foo"},
		{"no overlap", []Literal{lit("abc", true), lit("xyz", true)}, ""},
		{"single literal", []Literal{lit("abc", true)}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.lits...)
			got := string(s.LongestCommonPrefix())
			if got != tt.want {
				t.Errorf("LongestCommonPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeq_MakeInexact(t *testing.T) {
	s := New(lit("a", true), lit("b", true))
	s.MakeInexact()
	if !s.IsInexact() {
		t.Error("MakeInexact() should make the sequence inexact")
	}
	lits, _ := s.Literals()
	for _, l := range lits {
		if l.Exact {
			t.Errorf("literal %q still exact after MakeInexact", l.Bytes)
		}
	}
}

func TestSeq_CrossForward(t *testing.T) {
	a := New(lit("foo", true), lit("bar", true))
	b := New(lit("1", true), lit("2", true))
	a.CrossForward(b)

	lits, _ := a.Literals()
	if len(lits) != 4 {
		t.Fatalf("len(Literals()) = %d, want 4", len(lits))
	}
	want := map[string]bool{"foo1": true, "foo2": true, "bar1": true, "bar2": true}
	for _, l := range lits {
		if !want[string(l.Bytes)] {
			t.Errorf("unexpected cross literal %q", l.Bytes)
		}
		if !l.Exact {
			t.Errorf("literal %q should stay exact when both sides exact", l.Bytes)
		}
	}
}

func TestSeq_CrossForward_InfiniteAbsorbs(t *testing.T) {
	a := New(lit("foo", true))
	a.CrossForward(Infinite())
	if !a.IsInfinite() {
		t.Error("crossing with Infinite() should make the sequence infinite")
	}
}

func TestSeq_Dedup(t *testing.T) {
	s := New(lit("a", true), lit("a", true), lit("b", true))
	s.Dedup()
	lits, _ := s.Literals()
	if len(lits) != 2 {
		t.Fatalf("len(Literals()) after Dedup = %d, want 2", len(lits))
	}
}

func TestSimplifySeq_Collapses256SharedPrefix(t *testing.T) {
	lits := make([]Literal, 256)
	for i := 0; i < 256; i++ {
		lits[i] = NewLiteral([]byte{'a', 'b', byte(i)}, true)
	}
	seq := New(lits...)
	got := SimplifySeq(seq)
	n, ok := got.Len()
	if !ok || n != 1 {
		t.Fatalf("SimplifySeq() len = %d, ok=%v; want 1", n, ok)
	}
	gotLits, _ := got.Literals()
	if string(gotLits[0].Bytes) != "ab" {
		t.Errorf("SimplifySeq() literal = %q, want \"ab\"", gotLits[0].Bytes)
	}
	if gotLits[0].Exact {
		t.Error("collapsed literal should be inexact")
	}
}

func TestSimplifySeq_LeavesOtherSequencesUnchanged(t *testing.T) {
	seq := New(lit("a", true), lit("b", true))
	got := SimplifySeq(seq)
	n, _ := got.Len()
	if n != 2 {
		t.Errorf("SimplifySeq() should leave a 2-literal seq unchanged, got len %d", n)
	}
}

func TestConcatSeq_SimpleCrossProduct(t *testing.T) {
	seqs := []*Seq{
		New(lit("a", true)),
		New(lit("b", true)),
	}
	got, ok := ConcatSeq(seqs)
	if !ok {
		t.Fatal("ConcatSeq() ok = false, want true")
	}
	lits, _ := got.Literals()
	if len(lits) != 1 || string(lits[0].Bytes) != "ab" {
		t.Errorf("ConcatSeq() = %v, want single literal \"ab\"", lits)
	}
	if !lits[0].Exact {
		t.Error("cross of two exact single literals should stay exact")
	}
}

func TestConcatSeq_InfiniteFirstBailsOut(t *testing.T) {
	seqs := []*Seq{Infinite(), New(lit("a", true))}
	_, ok := ConcatSeq(seqs)
	if ok {
		t.Error("ConcatSeq() should fail when the first sequence is infinite")
	}
}

func TestConcatSeq_BeyondDesiredSizeMarksInexact(t *testing.T) {
	seqs := make([]*Seq, atom.DesiredSize+1)
	for i := range seqs {
		seqs[i] = New(lit("x", true))
	}
	got, ok := ConcatSeq(seqs)
	if !ok {
		t.Fatal("ConcatSeq() ok = false, want true")
	}
	if !got.IsInexact() {
		t.Error("a cross product that skipped trailing sequences must be inexact")
	}
}

func TestSeqToAtoms(t *testing.T) {
	seq := New(lit("foo", true), lit("bar", false))
	atoms, ok := SeqToAtoms(seq)
	if !ok {
		t.Fatal("SeqToAtoms() ok = false, want true")
	}
	if len(atoms) != 2 {
		t.Fatalf("len(atoms) = %d, want 2", len(atoms))
	}
	if !atoms[0].IsExact() || atoms[1].IsExact() {
		t.Errorf("atoms exactness = %v,%v, want true,false", atoms[0].IsExact(), atoms[1].IsExact())
	}
}

func TestSeqToAtoms_InfiniteFails(t *testing.T) {
	_, ok := SeqToAtoms(Infinite())
	if ok {
		t.Error("SeqToAtoms(Infinite()) should fail")
	}
}

func TestEvalQuality_PrefersHigherMinQuality(t *testing.T) {
	digits, _ := EvalQuality(New(lit("1234", true)))
	letters, _ := EvalQuality(New(lit("aaaa", true)))
	if !letters.Less(digits) {
		t.Errorf("digits quality %+v should beat letters quality %+v", digits, letters)
	}
}
