package vm

import (
	"fmt"
	"io"

	"github.com/kristofer/tinylox/pkg/chunk"
	"github.com/kristofer/tinylox/pkg/value"
)

// Tracer prints two lines per executed instruction: the live stack contents
// followed by the disassembled instruction about to run. There is no
// breakpoint support, step mode, or interactive prompt — no call stack or
// set of locals to inspect exists in this VM — just a render of the stack
// and a render of the instruction, one line at a time.
type Tracer struct {
	w io.Writer
}

// NewTracer returns a tracer that writes to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

func (t *Tracer) traceStack(st stackValues) {
	fmt.Fprint(t.w, "          ")
	for i := 0; i < st.Len(); i++ {
		fmt.Fprintf(t.w, "[ %s ]", value.Print(st.Peek(st.Len()-1-i)))
	}
	fmt.Fprintln(t.w)
}

func (t *Tracer) traceInstruction(ck *chunk.Chunk, offset int) {
	chunk.DisassembleInstruction(t.w, ck, offset)
}

// stackValues is the minimal read-only view Tracer needs out of the VM's
// stack, so this package doesn't have to import pkg/stack just to print it.
type stackValues interface {
	Len() int
	Peek(depth int) value.Value
}
