// Package engine wires the scanner, compiler, and VM together into the
// single "compile a source string, then run it" pipeline the CLI and the
// end-to-end tests both need. It is the one place that owns the order of
// operations: lex, compile, run — and the rule that a compile failure
// must never reach the VM.
package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/kristofer/tinylox/internal/config"
	"github.com/kristofer/tinylox/pkg/chunk"
	"github.com/kristofer/tinylox/pkg/compiler"
	"github.com/kristofer/tinylox/pkg/heap"
	"github.com/kristofer/tinylox/pkg/lexer"
	"github.com/kristofer/tinylox/pkg/vm"
)

// Compile lexes and compiles src into a chunk, allocating string constants
// through h. It returns the first lex error, or else every compile error
// accumulated during panic-mode recovery; the caller must not execute the
// returned chunk if err is non-nil.
func Compile(src string, h *heap.Heap) (*chunk.Chunk, error) {
	tokens, lexErr := lexer.New(src).Tokenize()
	if lexErr != nil {
		return nil, lexErr
	}

	ck := chunk.New()
	ok, compileErrs := compiler.Compile(tokens, ck, h)
	if !ok {
		return nil, joinErrors(compileErrs)
	}
	return ck, nil
}

// Run compiles and executes src, writing PRINT output to out. cfg supplies
// initial capacities and whether tracing is forced on regardless of the
// trace argument.
func Run(src string, out io.Writer, cfg config.Config, trace bool) error {
	h := heap.NewWithCapacity(cfg.InitialTableCapacity)
	ck, err := Compile(src, h)
	if err != nil {
		return err
	}

	machine := vm.NewWithCapacity(h, out, cfg.InitialStackCapacity, cfg.InitialTableCapacity)
	if trace || cfg.Trace {
		machine.SetTracer(vm.NewTracer(out))
	}
	return machine.Run(ck)
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return fmt.Errorf("compile failed with no diagnostics")
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
