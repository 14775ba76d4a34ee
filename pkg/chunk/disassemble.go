package chunk

import (
	"fmt"
	"io"

	"github.com/kristofer/tinylox/pkg/value"
)

// Disassemble writes a human-readable listing of every instruction in c to
// w, labeled name. It walks the raw byte buffer and must advance by each
// instruction's own width rather than a fixed stride.
func Disassemble(w io.Writer, c *Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction prints the single instruction at offset and
// returns the offset of the instruction that follows it.
func DisassembleInstruction(w io.Writer, c *Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := OpCode(c.Code[offset])
	switch op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal:
		return constantInstruction(w, op, c, offset)
	case OpJump, OpJumpIfFalse:
		return jumpInstruction(w, op, c, offset, 1)
	case OpLoop:
		return jumpInstruction(w, op, c, offset, -1)
	default:
		fmt.Fprintln(w, op.String())
		return offset + 1
	}
}

func constantInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	index := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op.String(), index, value.Print(c.Constants[index]))
	return offset + 2
}

func jumpInstruction(w io.Writer, op OpCode, c *Chunk, offset int, sign int) int {
	jump := int(c.ReadU16(offset + 1))
	target := offset + 3 + sign*jump
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op.String(), offset, target)
	return offset + 3
}
