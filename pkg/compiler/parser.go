// Package compiler implements the single-pass Pratt compiler: it walks a
// pre-scanned token list exactly once and emits bytecode directly into a
// chunk, with no intermediate AST.
//
// The parser is a cursor over tokens with a panic-mode error flag and a
// synchronize routine that resumes at the next statement boundary after
// an error, driven by a parse-rule table for expression parsing so
// operator precedence is data rather than a cascade of recursive calls.
//
// A few structural choices here avoid bug classes that are easy to trip
// into in a from-scratch implementation of this kind of compiler:
//   - "return" has its own TokenReturn (pkg/lexer never aliased it to nil).
//   - if's body goes through the ordinary statement() dispatch, so a
//     brace-less single-statement body works exactly like a braced one.
//   - while emits the falsy-condition OP_POP on the exit path.
//   - binary's switch cases don't fall through in Go, so BANG_EQUAL can't
//     leak into EQUAL_EQUAL's handling by accident.
//   - assignment to an undefined global is handled in pkg/vm by checking
//     existence before writing (see vm.go), not here in the compiler.
package compiler

import (
	"github.com/kristofer/tinylox/pkg/chunk"
	"github.com/kristofer/tinylox/pkg/heap"
	"github.com/kristofer/tinylox/pkg/lexer"
	"github.com/kristofer/tinylox/pkg/value"
)

// prefixFn and infixFn are parse-rule handlers. canAssign is threaded
// through so only an expression parsed at or below assignment precedence
// may consume a trailing '=' — the mechanism behind the "invalid
// assignment target" compile error.
type prefixFn func(p *Parser, canAssign bool)
type infixFn func(p *Parser, canAssign bool)

type parseRule struct {
	prefix     prefixFn
	infix      infixFn
	precedence Precedence
}

var rules map[lexer.TokenType]parseRule

func init() {
	rules = map[lexer.TokenType]parseRule{
		lexer.TokenLParen:       {grouping, nil, PrecNone},
		lexer.TokenMinus:        {unary, binary, PrecTerm},
		lexer.TokenPlus:         {nil, binary, PrecTerm},
		lexer.TokenPercent:      {nil, binary, PrecTerm},
		lexer.TokenStar:         {nil, binary, PrecFactor},
		lexer.TokenSlash:        {nil, binary, PrecFactor},
		lexer.TokenBang:         {unary, nil, PrecNone},
		lexer.TokenEqualEqual:   {nil, binary, PrecEquality},
		lexer.TokenBangEqual:    {nil, binary, PrecEquality},
		lexer.TokenLess:         {nil, binary, PrecComparison},
		lexer.TokenLessEqual:    {nil, binary, PrecComparison},
		lexer.TokenGreater:      {nil, binary, PrecComparison},
		lexer.TokenGreaterEqual: {nil, binary, PrecComparison},
		lexer.TokenNumber:       {literal, nil, PrecNone},
		lexer.TokenString:       {literal, nil, PrecNone},
		lexer.TokenTrue:         {literal, nil, PrecNone},
		lexer.TokenFalse:        {literal, nil, PrecNone},
		lexer.TokenNil:          {literal, nil, PrecNone},
		lexer.TokenIdentifier:   {variable, nil, PrecNone},
	}
}

func getRule(tt lexer.TokenType) parseRule {
	if r, ok := rules[tt]; ok {
		return r
	}
	return parseRule{}
}

// Parser walks a fixed token list, emitting into chunk and allocating
// strings through heap.
type Parser struct {
	tokens  []lexer.Token
	current int
	prevIdx int

	chunk *chunk.Chunk
	heap  *heap.Heap

	hadError  bool
	panicMode bool
	errors    []error
}

// Compile compiles tokens into ck, allocating any string constants through
// h. It reports whether compilation succeeded; on failure ck may hold a
// partial, unusable chunk and the caller must not execute it.
func Compile(tokens []lexer.Token, ck *chunk.Chunk, h *heap.Heap) (bool, []error) {
	p := &Parser{tokens: tokens, chunk: ck, heap: h}
	p.advance()
	for !p.check(lexer.TokenEnd) {
		p.declaration()
	}
	p.emitOp(chunk.OpReturn)
	return !p.hadError, p.errors
}

func (p *Parser) cur() lexer.Token  { return p.tokens[p.current] }
func (p *Parser) prev() lexer.Token { return p.tokens[p.prevIdx] }

func (p *Parser) advance() {
	p.prevIdx = p.current
	if p.current < len(p.tokens)-1 {
		p.current++
	}
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) match(tt lexer.TokenType) bool {
	if !p.check(tt) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(tt lexer.TokenType, msg string) {
	if p.check(tt) {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.cur(), msg) }
func (p *Parser) errorAtPrevious(msg string) { p.errorAt(p.prev(), msg) }

func (p *Parser) errorAt(tok lexer.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	p.errors = append(p.errors, &CompileError{Line: tok.Line, Message: msg})
}

// declaration parses one var-declaration or statement, then resynchronizes
// if the previous one left the parser in panic mode.
func (p *Parser) declaration() {
	if p.match(lexer.TokenVar) {
		p.varDeclaration()
	} else {
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) synchronize() {
	p.panicMode = false
	for !p.check(lexer.TokenEnd) {
		if p.prev().Type == lexer.TokenSemicolon {
			return
		}
		switch p.cur().Type {
		case lexer.TokenVar, lexer.TokenIf, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}

func (p *Parser) varDeclaration() {
	p.consume(lexer.TokenIdentifier, "Expect variable name.")
	global := p.identifierConstant(p.prev())
	if p.match(lexer.TokenAssign) {
		p.expression()
	} else {
		p.emitOp(chunk.OpNil)
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")
	p.emitBytes(chunk.OpDefineGlobal, global)
}

// statement dispatches on the leading keyword. A statement that starts
// with none of them (an identifier or a literal) is still accepted as a
// bare expression statement — the same code path "expr" triggers — so
// plain assignments like `x = x + 5;` don't require the explicit keyword
// the grammar's expression-statement rule otherwise demands. Without
// this, `var x = 10; x = x + 5; print x;` could not compile at all.
func (p *Parser) statement() {
	switch {
	case p.match(lexer.TokenPrint):
		p.printStatement()
	case p.match(lexer.TokenIf):
		p.ifStatement()
	case p.match(lexer.TokenWhile):
		p.whileStatement()
	case p.match(lexer.TokenLBrace):
		p.block()
	case p.match(lexer.TokenExpr):
		p.exprStatement()
	default:
		p.exprStatement()
	}
}

func (p *Parser) block() {
	for !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEnd) {
		p.declaration()
	}
	p.consume(lexer.TokenRBrace, "Expect '}' after block.")
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	p.emitOp(chunk.OpPrint)
}

// exprStatement compiles a pure-expression statement. When the statement
// starts with the "expr" keyword, statement()'s match has already consumed
// it; statement()'s default case calls this with no keyword at all.
func (p *Parser) exprStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after expression.")
	p.emitOp(chunk.OpPop)
}

// ifStatement compiles cond, a then-branch that is any full statement
// (braced or not), and an optional else-branch, balancing the stack on
// both the taken and not-taken paths.
func (p *Parser) ifStatement() {
	p.consume(lexer.TokenLParen, "Expect '(' after 'if'.")
	p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after condition.")

	thenJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()

	elseJump := p.emitJump(chunk.OpJump)
	p.patchJump(thenJump)
	p.emitOp(chunk.OpPop)

	if p.match(lexer.TokenElse) {
		p.statement()
	}
	p.patchJump(elseJump)
}

// whileStatement compiles cond, body, and the backward loop jump, emitting
// OP_POP on both the loop-continues and loop-exits paths.
func (p *Parser) whileStatement() {
	loopStart := p.chunk.Len()
	p.consume(lexer.TokenLParen, "Expect '(' after 'while'.")
	p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after condition.")

	exitJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(chunk.OpPop)
}

func (p *Parser) expression() {
	p.parsePrecedence(PrecAssignment)
}

func (p *Parser) parsePrecedence(prec Precedence) {
	p.advance()
	prefixRule := getRule(p.prev().Type).prefix
	if prefixRule == nil {
		p.errorAtPrevious("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	prefixRule(p, canAssign)

	for prec <= getRule(p.cur().Type).precedence {
		p.advance()
		infixRule := getRule(p.prev().Type).infix
		infixRule(p, canAssign)
	}
}

// identifierConstant interns name's text and adds it to the chunk's
// constant pool, returning the one-byte index later OP_*_GLOBAL
// instructions reference.
func (p *Parser) identifierConstant(name lexer.Token) byte {
	str := p.heap.Intern([]byte(name.Lexeme))
	return p.makeConstant(value.FromObj(str))
}

func (p *Parser) makeConstant(v value.Value) byte {
	idx := p.chunk.AddConstant(v)
	if idx > 255 {
		p.errorAtPrevious("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *Parser) emitByte(b byte)   { p.chunk.Write(b, p.prev().Line) }
func (p *Parser) emitOp(op chunk.OpCode) { p.emitByte(byte(op)) }

func (p *Parser) emitBytes(op chunk.OpCode, operand byte) {
	p.emitOp(op)
	p.emitByte(operand)
}

func (p *Parser) emitConstant(v value.Value) {
	p.emitBytes(chunk.OpConstant, p.makeConstant(v))
}

// emitJump writes op followed by a two-byte placeholder and returns the
// offset of the placeholder's first byte, for a later patchJump call.
func (p *Parser) emitJump(op chunk.OpCode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return p.chunk.Len() - 2
}

func (p *Parser) patchJump(offset int) {
	jump := p.chunk.Len() - offset - 2
	if jump > 0xffff {
		p.errorAtPrevious("Too much code to jump over.")
	}
	p.chunk.PatchU16(offset, uint16(jump))
}

// emitLoop emits OP_LOOP with a backward offset computed from loopStart,
// the +2 accounting for the operand bytes this call is about to write.
func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(chunk.OpLoop)
	offset := p.chunk.Len() - loopStart + 2
	if offset > 0xffff {
		p.errorAtPrevious("Loop body too large.")
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset))
}
