package compiler

import (
	"errors"
	"fmt"

	"github.com/coregx/hirprog/instr"
)

// ErrTooLarge is the sole compile-time failure: some jump or split offset
// produced during code generation didn't fit in the instruction stream's
// platform offset width. This can only happen for patterns whose compiled
// code is enormous (deeply nested bounded repetitions are the usual
// cause). It wraps the lower-level instr.ErrTooLarge that Location.Sub
// actually returns, so callers can match either one with errors.Is.
var ErrTooLarge = fmt.Errorf("compiler: regexp compiles to code too large for the instruction format: %w", instr.ErrTooLarge)

// ErrTooComplex is returned when the HIR walk recurses past
// Config.MaxRecursionDepth, guarding against stack overflow on
// pathologically nested patterns (e.g. deeply nested repetitions).
var ErrTooComplex = errors.New("compiler: regexp is too deeply nested to compile")

// CompileError wraps a compile failure with the pattern that triggered it.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiler: failed to compile %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// invariant panics with a compiler-prefixed message when cond is false. It
// marks conditions the compiler's own construction guarantees rather than
// anything a caller could trigger by passing a different pattern — e.g.
// popping a bookmark off an empty bookmark stack.
func invariant(cond bool, msg string) {
	if !cond {
		panic("compiler: invariant violated: " + msg)
	}
}
