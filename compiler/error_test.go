package compiler

import (
	"errors"
	"testing"

	"github.com/coregx/hirprog/instr"
)

func TestErrTooLarge_WrapsInstrErrTooLarge(t *testing.T) {
	if !errors.Is(ErrTooLarge, instr.ErrTooLarge) {
		t.Error("compiler.ErrTooLarge should wrap instr.ErrTooLarge")
	}
}

func TestCompileError_Unwrap(t *testing.T) {
	ce := &CompileError{Pattern: "a(", Err: ErrTooLarge}
	if !errors.Is(ce, instr.ErrTooLarge) {
		t.Error("CompileError should unwrap through ErrTooLarge down to instr.ErrTooLarge")
	}
}
