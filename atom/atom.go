// Package atom implements the candidate-literal type the compiler extracts
// from a regexp's HIR: a short byte string that must appear in any matching
// input, annotated with how far it sits inside its source literal
// (backtrack), whether finding it is sufficient proof of a match (exact),
// and a quality score used to pick the best atom among several candidates.
package atom

// DesiredSize is the target atom length. Atoms are trimmed to this length
// wherever possible; it also bounds best_atom_from_slice's window size.
const DesiredSize = 4

// MaxPerRegexp bounds the number of atoms a single compiled pattern may
// contribute.
const MaxPerRegexp = 4096

// Atom is a short byte string extracted from a regexp that must appear in
// any matching input.
type Atom struct {
	bytes     []byte
	backtrack int
	exact     bool
}

// Exact creates an atom that, if found in the input, is sufficient proof
// that the whole regexp matched.
func Exact(b []byte) Atom {
	return Atom{bytes: b, exact: true}
}

// Inexact creates an atom that is merely necessary, not sufficient: the
// full regexp must still be verified via the Pike VM.
func Inexact(b []byte) Atom {
	return Atom{bytes: b, exact: false}
}

// Bytes returns the atom's literal byte string.
func (a Atom) Bytes() []byte { return a.bytes }

// Len returns the number of bytes in the atom.
func (a Atom) Len() int { return len(a.bytes) }

// IsExact reports whether this atom is exact.
func (a Atom) IsExact() bool { return a.exact }

// SetExact overrides the exactness flag (used to demote a promoted atom to
// inexact once it's known it can't be trusted, e.g. look-arounds nearby).
func (a *Atom) SetExact(exact bool) { a.exact = exact }

// Backtrack returns the number of bytes that precede this atom inside its
// source literal; the VM must back up the scan position by this many bytes
// before starting verification.
func (a Atom) Backtrack() int { return a.backtrack }

// SetBacktrack overrides the backtrack count.
func (a *Atom) SetBacktrack(n int) { a.backtrack = n }

// Quality scores the atom: higher is better. It penalizes bytes that are
// common in ordinary text/binary data and rewards digits and length.
func (a Atom) Quality() int {
	if len(a.bytes) == 0 {
		// The empty atom comes from nodes that match the empty string
		// (Empty nodes, and look-arounds, which the literal extractor
		// treats as matching the empty string); treat it as maximal
		// quality so it never gets displaced by a worse but non-empty
		// candidate elsewhere in the same alternation.
		return qualityMax
	}
	total := 0
	for _, b := range a.bytes {
		total += byteQualityTable[b]
	}
	// Average per-byte quality, then reward extra length: a longer atom
	// of similar average quality is more selective than a short one.
	avg := total / len(a.bytes)
	return avg + len(a.bytes)*lengthBonus
}

const (
	qualityMax  = 1 << 20
	lengthBonus = 2
)

// BestFromSlice picks the desiredLen-byte window of lit with the best
// Quality, recording how far into lit the window starts (backtrack). If
// lit is shorter than desiredLen, the whole literal is used. Ties favor
// the earliest (leftmost) window, matching a left-to-right scan bias.
func BestFromSlice(lit []byte, desiredLen int) Atom {
	if len(lit) <= desiredLen {
		return Exact(append([]byte(nil), lit...))
	}

	bestStart := 0
	bestQuality := windowQuality(lit[0:desiredLen])
	for start := 1; start+desiredLen <= len(lit); start++ {
		q := windowQuality(lit[start : start+desiredLen])
		if q > bestQuality {
			bestQuality = q
			bestStart = start
		}
	}

	window := append([]byte(nil), lit[bestStart:bestStart+desiredLen]...)
	a := Exact(window)
	a.backtrack = bestStart
	return a
}

func windowQuality(window []byte) int {
	a := Atom{bytes: window}
	return a.Quality()
}
