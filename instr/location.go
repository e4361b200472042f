package instr

// Location is an immutable position in the two parallel instruction
// streams: a byte offset into the forward stream, and a byte offset into
// whichever backward chunk (identified by BckSeqID) is currently receiving
// code. Locations may be re-homed by the concat node compiler when a
// backward chunk is spliced into its parent; see Relocated.
type Location struct {
	Fwd       int
	BckSeqID  uint64
	Bck       int
}

// OffsetPair is the result of subtracting one Location from another: a
// bounded forward and backward jump displacement, computed componentwise.
type OffsetPair struct {
	Fwd Offset
	Bck Offset
}

// Sub computes self - other componentwise, narrowing each component to
// Offset. Returns ErrTooLarge if either component overflows the platform
// offset width.
func (l Location) Sub(other Location) (OffsetPair, error) {
	fwd, err := narrow(l.Fwd - other.Fwd)
	if err != nil {
		return OffsetPair{}, err
	}
	bck, err := narrow(l.Bck - other.Bck)
	if err != nil {
		return OffsetPair{}, err
	}
	return OffsetPair{Fwd: fwd, Bck: bck}, nil
}

// Relocated returns a copy of l with its backward component re-homed to a
// new chunk (used when a concat's backward code chunk is spliced into its
// parent).
func (l Location) Relocated(seqID uint64, bck int) Location {
	l.BckSeqID = seqID
	l.Bck = bck
	return l
}

func narrow(v int) (Offset, error) {
	if v < int(minOffset) || v > int(maxOffset) {
		return 0, ErrTooLarge
	}
	return Offset(v), nil
}

const (
	minOffset = Offset(-32768)
	maxOffset = Offset(32767)
)
