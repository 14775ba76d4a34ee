package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/tinylox/pkg/chunk"
	"github.com/kristofer/tinylox/pkg/heap"
	"github.com/kristofer/tinylox/pkg/lexer"
)

func compileSrc(t *testing.T, src string) (*chunk.Chunk, bool, []error) {
	t.Helper()
	tokens, err := lexer.New(src).Tokenize()
	require.NoError(t, err)
	ck := chunk.New()
	ok, errs := Compile(tokens, ck, heap.New())
	return ck, ok, errs
}

func opsOf(ck *chunk.Chunk) []chunk.OpCode {
	var ops []chunk.OpCode
	for i := 0; i < len(ck.Code); {
		op := chunk.OpCode(ck.Code[i])
		ops = append(ops, op)
		switch op {
		case chunk.OpConstant, chunk.OpGetGlobal, chunk.OpDefineGlobal, chunk.OpSetGlobal:
			i += 2
		case chunk.OpJump, chunk.OpJumpIfFalse, chunk.OpLoop:
			i += 3
		default:
			i++
		}
	}
	return ops
}

func TestCompile_VarDeclarationWithInitializer(t *testing.T) {
	ck, ok, errs := compileSrc(t, `var x = 10;`)
	require.True(t, ok, "%v", errs)
	assert.Equal(t, []chunk.OpCode{chunk.OpConstant, chunk.OpDefineGlobal, chunk.OpReturn}, opsOf(ck))
}

func TestCompile_VarDeclarationWithoutInitializerDefaultsToNil(t *testing.T) {
	ck, ok, errs := compileSrc(t, `var x;`)
	require.True(t, ok, "%v", errs)
	assert.Equal(t, []chunk.OpCode{chunk.OpNil, chunk.OpDefineGlobal, chunk.OpReturn}, opsOf(ck))
}

func TestCompile_BareAssignmentStatementWithoutExprKeyword(t *testing.T) {
	// The formal grammar requires the "expr" keyword before any
	// expression-statement, but a bare assignment like this one is common
	// enough that statement()'s default case accepts it the same way
	// "expr" would.
	ck, ok, errs := compileSrc(t, `var x = 10; x = x + 5; print x;`)
	require.True(t, ok, "%v", errs)
	ops := opsOf(ck)
	assert.Contains(t, ops, chunk.OpSetGlobal)
	assert.Contains(t, ops, chunk.OpPrint)
}

func TestCompile_ExprKeywordStatementPopsResult(t *testing.T) {
	ck, ok, errs := compileSrc(t, `expr 1 + 2;`)
	require.True(t, ok, "%v", errs)
	ops := opsOf(ck)
	assert.Equal(t, chunk.OpPop, ops[len(ops)-2], "expr statement discards its value")
}

func TestCompile_PrintDoesNotPop(t *testing.T) {
	ck, ok, errs := compileSrc(t, `print 1;`)
	require.True(t, ok, "%v", errs)
	ops := opsOf(ck)
	assert.NotContains(t, ops, chunk.OpPop)
}

func TestCompile_IfWithBracelessBody(t *testing.T) {
	ck, ok, errs := compileSrc(t, `if (1 == 1) print 1;`)
	require.True(t, ok, "%v", errs)
	ops := opsOf(ck)
	assert.Contains(t, ops, chunk.OpJumpIfFalse)
	assert.Contains(t, ops, chunk.OpPrint)
}

func TestCompile_WhileEmitsPopOnExitPath(t *testing.T) {
	ck, ok, errs := compileSrc(t, `var x = 0; while (x) { x = 0; }`)
	require.True(t, ok, "%v", errs)
	ops := opsOf(ck)
	// JUMP_IF_FALSE, POP (enter), ..., LOOP, POP (exit), RETURN
	assert.Equal(t, chunk.OpPop, ops[len(ops)-2])
}

func TestCompile_BangEqualEmitsEqualThenNot(t *testing.T) {
	ck, ok, errs := compileSrc(t, `expr 1 != 2;`)
	require.True(t, ok, "%v", errs)
	ops := opsOf(ck)
	eqIdx := indexOf(ops, chunk.OpEqual)
	require.GreaterOrEqual(t, eqIdx, 0)
	assert.Equal(t, chunk.OpNot, ops[eqIdx+1])
}

func TestCompile_LessEqualEmitsGreaterThenNot(t *testing.T) {
	ck, ok, errs := compileSrc(t, `expr 1 <= 2;`)
	require.True(t, ok, "%v", errs)
	ops := opsOf(ck)
	gtIdx := indexOf(ops, chunk.OpGreater)
	require.GreaterOrEqual(t, gtIdx, 0)
	assert.Equal(t, chunk.OpNot, ops[gtIdx+1])
}

func TestCompile_InvalidAssignmentTarget(t *testing.T) {
	// "b" is parsed at a precedence above assignment (it's the right
	// operand of "+"), so the trailing '=' is rejected as an invalid
	// assignment target instead of being folded into a store.
	_, ok, errs := compileSrc(t, `var a = 1; var b = 2; var c = 3; a + b = c;`)
	assert.False(t, ok)
	require.NotEmpty(t, errs)
}

func TestCompile_MissingSemicolonReportsError(t *testing.T) {
	_, ok, errs := compileSrc(t, `print 1`)
	assert.False(t, ok)
	require.NotEmpty(t, errs)
}

func TestCompile_SynchronizeResumesAfterError(t *testing.T) {
	// The first statement is malformed; the parser should still notice
	// the second, well-formed statement instead of cascading errors.
	_, ok, errs := compileSrc(t, `expr ; print 1;`)
	assert.False(t, ok)
	assert.Len(t, errs, 1)
}

func indexOf(ops []chunk.OpCode, target chunk.OpCode) int {
	for i, op := range ops {
		if op == target {
			return i
		}
	}
	return -1
}
