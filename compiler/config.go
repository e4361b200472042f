package compiler

import "github.com/coregx/hirprog/atom"

// Config bounds a single compile: how big an atom the compiler aims for,
// how many atoms a single pattern may contribute before that's considered a
// sign something went wrong upstream (a degenerate pattern whose literal
// extraction exploded combinatorially), and how deeply nested the HIR may
// be before the walk refuses to recurse further.
type Config struct {
	DesiredAtomSize   int
	MaxAtomsPerRegexp int

	// MaxRecursionDepth limits HIR walk recursion to prevent stack overflow
	// on pathologically nested patterns. Default: 100.
	MaxRecursionDepth int
}

// DefaultConfig returns the limits used throughout package atom.
func DefaultConfig() Config {
	return Config{
		DesiredAtomSize:   atom.DesiredSize,
		MaxAtomsPerRegexp: atom.MaxPerRegexp,
		MaxRecursionDepth: 100,
	}
}
