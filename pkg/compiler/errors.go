package compiler

import "fmt"

// CompileError reports a single parse failure with the source line it was
// detected on, using the same "[line N] Error ..." convention every
// lex/compile/runtime error kind in this interpreter follows.
type CompileError struct {
	Line    int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}
