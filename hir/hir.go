// Package hir implements the high-level intermediate representation the
// compiler package walks: a small tagged-variant tree with the same shape
// as a parsed regexp, annotated with whether any subtree contains a
// look-around assertion (needed by the compiler to decide whether an
// extracted atom can ever be trusted as exact).
package hir

// Kind identifies the variant of a Node.
type Kind int

const (
	KindEmpty Kind = iota
	KindLiteral
	KindClass
	KindLook
	KindCapture
	KindConcat
	KindAlternation
	KindRepetition
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindLiteral:
		return "Literal"
	case KindClass:
		return "Class"
	case KindLook:
		return "Look"
	case KindCapture:
		return "Capture"
	case KindConcat:
		return "Concat"
	case KindAlternation:
		return "Alternation"
	case KindRepetition:
		return "Repetition"
	default:
		return "Unknown"
	}
}

// LookKind identifies the kind of zero-width assertion a Look node holds.
type LookKind int

const (
	LookStart LookKind = iota
	LookEnd
	LookWordAscii
	LookWordAsciiNegate
)

// Repetition carries the bounds of a Repetition node. Max == nil means
// unbounded ("e*", "e+", "e{min,}").
type Repetition struct {
	Min    uint32
	Max    *uint32
	Greedy bool
	Sub    *Node
}

// Node is one node of the HIR tree. The zero value is not a valid Node;
// use the constructor functions below.
type Node struct {
	kind Kind

	literal []byte
	ranges  [][2]rune // Class: inclusive rune ranges

	look LookKind

	captureIndex int
	captureName  string
	sub          *Node // Capture's single child

	subs []*Node // Concat/Alternation children

	rep Repetition

	hasLookAround bool
}

// Kind returns the node's variant.
func (n *Node) Kind() Kind { return n.kind }

// HasLookAround reports whether this node or any of its descendants is a
// Look node. An atom extracted from a subtree where this is true can never
// be trusted as exact: look-around assertions are treated by the literal
// extractor as always matching, so a literal match doesn't guarantee the
// assertion actually held at that position.
func (n *Node) HasLookAround() bool { return n.hasLookAround }

// Literal returns the byte string of a KindLiteral node.
func (n *Node) Literal() []byte { return n.literal }

// ClassRanges returns the inclusive rune ranges of a KindClass node.
func (n *Node) ClassRanges() [][2]rune { return n.ranges }

// ByteRanges converts a KindClass node's rune ranges to byte ranges. It
// succeeds only when every range lies entirely within [0,255]: a class
// that includes runes above U+00FF has no single-byte representation
// (multi-byte UTF-8 sequences would need sequences of classes, which this
// representation doesn't model), and ok is false in that case.
func (n *Node) ByteRanges() (ranges [][2]byte, ok bool) {
	out := make([][2]byte, 0, len(n.ranges))
	for _, r := range n.ranges {
		if r[0] > 255 || r[1] > 255 {
			return nil, false
		}
		out = append(out, [2]byte{byte(r[0]), byte(r[1])})
	}
	return out, true
}

// IsAnyByte reports whether a KindClass node is the single range
// 0x00-0xFF, i.e. matches any one byte. Classes that extend past 0xFF
// (such as the [0,0x10FFFF] class FromSyntax builds for "." with
// dot-matches-all) do not count.
func (n *Node) IsAnyByte() bool {
	if n.kind != KindClass || len(n.ranges) != 1 {
		return false
	}
	return n.ranges[0][0] == 0 && n.ranges[0][1] == 255
}

// Look returns the assertion kind of a KindLook node.
func (n *Node) Look() LookKind { return n.look }

// CaptureIndex returns the 1-based capture group index of a KindCapture
// node (0 for an unnamed, non-counted group, matching regexp/syntax).
func (n *Node) CaptureIndex() int { return n.captureIndex }

// CaptureName returns the capture group's name, or "" if unnamed.
func (n *Node) CaptureName() string { return n.captureName }

// Sub returns the single child of a KindCapture node.
func (n *Node) Sub() *Node { return n.sub }

// Subs returns the children of a KindConcat or KindAlternation node.
func (n *Node) Subs() []*Node { return n.subs }

// RepetitionInfo returns the bounds of a KindRepetition node.
func (n *Node) RepetitionInfo() Repetition { return n.rep }

// Empty builds the node that matches the empty string unconditionally.
func Empty() *Node {
	return &Node{kind: KindEmpty}
}

// Literal builds a node matching exactly the given byte string.
func Literal(b []byte) *Node {
	return &Node{kind: KindLiteral, literal: b}
}

// Class builds a node matching any single byte within one of the given
// inclusive rune ranges.
func Class(ranges [][2]rune) *Node {
	return &Node{kind: KindClass, ranges: ranges}
}

// Look builds a zero-width assertion node.
func Look(k LookKind) *Node {
	return &Node{kind: KindLook, look: k, hasLookAround: true}
}

// Capture builds a capturing-group node around sub.
func Capture(index int, name string, sub *Node) *Node {
	return &Node{
		kind:          KindCapture,
		captureIndex:  index,
		captureName:   name,
		sub:           sub,
		hasLookAround: sub.HasLookAround(),
	}
}

// Concat builds a concatenation of subs, matched in order.
func Concat(subs ...*Node) *Node {
	return &Node{kind: KindConcat, subs: subs, hasLookAround: anyLookAround(subs)}
}

// Alternation builds a node matching any one of subs.
func Alternation(subs ...*Node) *Node {
	return &Node{kind: KindAlternation, subs: subs, hasLookAround: anyLookAround(subs)}
}

// Repeat builds a node matching sub repeated between min and max times
// (max == nil meaning unbounded), greedily or not.
func Repeat(min uint32, max *uint32, greedy bool, sub *Node) *Node {
	return &Node{
		kind:          KindRepetition,
		rep:           Repetition{Min: min, Max: max, Greedy: greedy, Sub: sub},
		hasLookAround: sub.HasLookAround(),
	}
}

func anyLookAround(subs []*Node) bool {
	for _, s := range subs {
		if s.HasLookAround() {
			return true
		}
	}
	return false
}
