// Command hircompile compiles a regexp pattern and prints its disassembled
// forward/backward instruction streams and extracted atoms. It exists to
// inspect what the compiler produces for a given pattern without writing
// a throwaway test.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/coregx/hirprog/compiler"
	"github.com/coregx/hirprog/disasm"
)

func main() {
	pattern := flag.String("pattern", "", "regexp pattern to compile (required)")
	desiredAtomSize := flag.Int("atom-size", 0, "override the desired atom size (0 uses the default)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *pattern == "" {
		logger.Error("missing required -pattern flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg := compiler.DefaultConfig()
	if *desiredAtomSize > 0 {
		cfg.DesiredAtomSize = *desiredAtomSize
	}

	result, err := compiler.Compile(*pattern, cfg)
	if err != nil {
		logger.Error("compile failed", slog.String("pattern", *pattern), slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("pattern: %q\n\n", *pattern)

	fmt.Println("forward code:")
	fmt.Print(disasm.Disassemble(result.Forward))

	fmt.Println("\nbackward code:")
	fmt.Print(disasm.Disassemble(result.Backward))

	fmt.Printf("\natoms (%d):\n", len(result.Atoms))
	for _, a := range result.Atoms {
		fmt.Printf("  %q exact=%v backtrack=%d quality=%d fwd=%d bck=%d\n",
			a.Atom.Bytes(), a.Atom.IsExact(), a.Atom.Backtrack(), a.Atom.Quality(),
			a.CodeLoc.Fwd, a.CodeLoc.Bck)
	}
}
