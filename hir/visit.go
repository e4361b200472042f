package hir

// Visitor receives callbacks during a depth-first walk of a Node tree. The
// callbacks mirror regex-syntax's hir::Visitor trait: VisitPre/VisitPost
// bracket every node, and VisitConcatIn/VisitAlternationIn additionally
// fire once between each pair of siblings in a Concat or Alternation.
type Visitor interface {
	VisitPre(n *Node) error
	VisitPost(n *Node) error
	VisitConcatIn() error
	VisitAlternationIn() error
}

// Walk performs a depth-first traversal of n, invoking v's callbacks. It
// returns the first error returned by any callback and stops immediately.
func Walk(n *Node, v Visitor) error {
	if err := v.VisitPre(n); err != nil {
		return err
	}
	switch n.kind {
	case KindCapture:
		if err := Walk(n.sub, v); err != nil {
			return err
		}
	case KindRepetition:
		if err := Walk(n.rep.Sub, v); err != nil {
			return err
		}
	case KindConcat:
		for i, sub := range n.subs {
			if i > 0 {
				if err := v.VisitConcatIn(); err != nil {
					return err
				}
			}
			if err := Walk(sub, v); err != nil {
				return err
			}
		}
	case KindAlternation:
		for i, sub := range n.subs {
			if i > 0 {
				if err := v.VisitAlternationIn(); err != nil {
					return err
				}
			}
			if err := Walk(sub, v); err != nil {
				return err
			}
		}
	}
	return v.VisitPost(n)
}
