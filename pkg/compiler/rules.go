package compiler

import (
	"github.com/kristofer/tinylox/pkg/chunk"
	"github.com/kristofer/tinylox/pkg/lexer"
	"github.com/kristofer/tinylox/pkg/value"
)

// literal emits the constant-producing opcode for whatever token type sits
// at p.prev(): a number constant, a fresh interned string constant, or one
// of the fixed NIL/TRUE/FALSE opcodes.
func literal(p *Parser, _ bool) {
	switch p.prev().Type {
	case lexer.TokenNumber:
		p.emitConstant(value.Number(p.prev().Number))
	case lexer.TokenString:
		str := p.heap.Intern([]byte(p.prev().Lexeme))
		p.emitConstant(value.FromObj(str))
	case lexer.TokenTrue:
		p.emitOp(chunk.OpTrue)
	case lexer.TokenFalse:
		p.emitOp(chunk.OpFalse)
	case lexer.TokenNil:
		p.emitOp(chunk.OpNil)
	}
}

// unary parses its operand at UNARY precedence so `-a + b` binds as
// `(-a) + b`, then emits the single opcode for whichever prefix operator
// was consumed.
func unary(p *Parser, _ bool) {
	opType := p.prev().Type
	p.parsePrecedence(PrecUnary)
	switch opType {
	case lexer.TokenMinus:
		p.emitOp(chunk.OpNegate)
	case lexer.TokenBang:
		p.emitOp(chunk.OpNot)
	}
}

// binary parses its right operand one precedence level higher than its
// own so `a - b - c` binds left-associatively as `(a - b) - c`, then emits
// the opcode (or opcode pair) for the consumed operator. Every case here
// returns implicitly at the switch's end — Go switches don't fall through
// — so BANG_EQUAL can never bleed into EQUAL_EQUAL's handling.
func binary(p *Parser, _ bool) {
	opType := p.prev().Type
	rule := getRule(opType)
	p.parsePrecedence(rule.precedence + 1)

	switch opType {
	case lexer.TokenPlus:
		p.emitOp(chunk.OpAdd)
	case lexer.TokenMinus:
		p.emitOp(chunk.OpSubtract)
	case lexer.TokenStar:
		p.emitOp(chunk.OpMultiply)
	case lexer.TokenSlash:
		p.emitOp(chunk.OpDivide)
	case lexer.TokenPercent:
		p.emitOp(chunk.OpMod)
	case lexer.TokenEqualEqual:
		p.emitOp(chunk.OpEqual)
	case lexer.TokenBangEqual:
		p.emitOp(chunk.OpEqual)
		p.emitOp(chunk.OpNot)
	case lexer.TokenLess:
		p.emitOp(chunk.OpLess)
	case lexer.TokenLessEqual:
		p.emitOp(chunk.OpGreater)
		p.emitOp(chunk.OpNot)
	case lexer.TokenGreater:
		p.emitOp(chunk.OpGreater)
	case lexer.TokenGreaterEqual:
		p.emitOp(chunk.OpLess)
		p.emitOp(chunk.OpNot)
	}
}

func grouping(p *Parser, _ bool) {
	p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after expression.")
}

// variable emits a global load, or a global store when canAssign holds and
// the next token is '='. When canAssign is false but an '=' still follows
// (e.g. `a + b = c`), that's an invalid assignment target.
func variable(p *Parser, canAssign bool) {
	name := p.prev()
	constIdx := p.identifierConstant(name)

	if p.check(lexer.TokenAssign) {
		if !canAssign {
			p.errorAtCurrent("Invalid assignment target.")
			return
		}
		p.advance()
		p.expression()
		p.emitBytes(chunk.OpSetGlobal, constIdx)
		return
	}
	p.emitBytes(chunk.OpGetGlobal, constIdx)
}
