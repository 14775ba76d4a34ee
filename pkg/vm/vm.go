// Package vm implements the tinylox bytecode interpreter: a dispatch loop
// over a chunk's byte-code buffer, a value stack, a heap-object chain, and
// a globals table.
//
// Dispatch is a flat switch over a fixed opcode set — there is no call
// stack here because user-defined functions are a non-goal. The VM
// exposes an explicit New/Run lifecycle, a dedicated error type instead
// of bare fmt.Errorf, and an optional tracer hook for instruction-level
// debugging.
package vm

import (
	"io"
	"math"

	"github.com/kristofer/tinylox/pkg/chunk"
	"github.com/kristofer/tinylox/pkg/heap"
	"github.com/kristofer/tinylox/pkg/stack"
	"github.com/kristofer/tinylox/pkg/table"
	"github.com/kristofer/tinylox/pkg/value"
)

// VM holds all mutable execution state for one run of a chunk.
type VM struct {
	chunk *chunk.Chunk
	ip    int

	stack   *stack.Stack
	heap    *heap.Heap
	globals *table.Table

	out    io.Writer
	tracer *Tracer
}

// New returns a VM that allocates strings through h and writes PRINT
// output to out.
func New(h *heap.Heap, out io.Writer) *VM {
	return NewWithCapacity(h, out, 0, 0)
}

// NewWithCapacity is New, but pre-sizes the value stack and globals table
// to stackCapacity/tableCapacity (internal/config's tuning knobs). A
// capacity of 0 falls back to the package defaults.
func NewWithCapacity(h *heap.Heap, out io.Writer, stackCapacity, tableCapacity int) *VM {
	return &VM{
		stack:   stack.NewWithCapacity(stackCapacity),
		heap:    h,
		globals: table.NewWithCapacity(tableCapacity),
		out:     out,
	}
}

// SetTracer installs an execution tracer; pass nil to disable tracing.
func (vm *VM) SetTracer(t *Tracer) {
	vm.tracer = t
}

// Globals exposes the VM's global-variable table, for tests and for a
// host that wants to pre-seed bindings before Run.
func (vm *VM) Globals() *table.Table {
	return vm.globals
}

// Run executes ck from its first instruction to OP_RETURN (or until a
// runtime error). The stack is reset before execution begins; the globals
// table and heap persist across calls, so a host can Run several chunks
// compiled against the same heap and share global state between them.
func (vm *VM) Run(ck *chunk.Chunk) error {
	vm.chunk = ck
	vm.ip = 0
	vm.stack.Reset()

	for {
		if vm.tracer != nil {
			vm.tracer.traceStack(vm.stack)
			vm.tracer.traceInstruction(vm.chunk, vm.ip)
		}

		line := vm.chunk.GetLine(vm.ip)
		op := chunk.OpCode(vm.readByte())

		switch op {
		case chunk.OpConstant:
			vm.stack.Push(vm.readConstant())

		case chunk.OpNil:
			vm.stack.Push(value.Nil)

		case chunk.OpTrue:
			vm.stack.Push(value.Bool(true))

		case chunk.OpFalse:
			vm.stack.Push(value.Bool(false))

		case chunk.OpPop:
			if _, ok := vm.stack.Pop(); !ok {
				return newRuntimeError(line, "stack underflow")
			}

		case chunk.OpGetGlobal:
			name := vm.readConstant().AsString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return newRuntimeError(line, "undefined variable %q", string(name.Chars))
			}
			vm.stack.Push(v)

		case chunk.OpDefineGlobal:
			name := vm.readConstant().AsString()
			v, ok := vm.stack.Pop()
			if !ok {
				return newRuntimeError(line, "stack underflow")
			}
			vm.globals.Set(name, v)

		case chunk.OpSetGlobal:
			name := vm.readConstant().AsString()
			if _, exists := vm.globals.Get(name); !exists {
				return newRuntimeError(line, "undefined variable %q", string(name.Chars))
			}
			if vm.stack.Len() == 0 {
				return newRuntimeError(line, "stack underflow")
			}
			top := vm.stack.Peek(0)
			vm.globals.Set(name, top)

		case chunk.OpEqual:
			if err := vm.execEqual(line); err != nil {
				return err
			}

		case chunk.OpGreater:
			if err := vm.execComparison(line, op); err != nil {
				return err
			}

		case chunk.OpLess:
			if err := vm.execComparison(line, op); err != nil {
				return err
			}

		case chunk.OpAdd:
			if err := vm.execAdd(line); err != nil {
				return err
			}

		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			if err := vm.execArithmetic(line, op); err != nil {
				return err
			}

		case chunk.OpMod:
			if err := vm.execMod(line); err != nil {
				return err
			}

		case chunk.OpNot:
			if err := vm.execNot(line); err != nil {
				return err
			}

		case chunk.OpNegate:
			if err := vm.execNegate(line); err != nil {
				return err
			}

		case chunk.OpPrint:
			if vm.stack.Len() == 0 {
				return newRuntimeError(line, "nothing to print")
			}
			top := vm.stack.Peek(0)
			io.WriteString(vm.out, value.Print(top))
			io.WriteString(vm.out, "\n")

		case chunk.OpJump:
			offset := vm.readU16()
			vm.ip += int(offset)

		case chunk.OpJumpIfFalse:
			offset := vm.readU16()
			if vm.stack.Len() == 0 {
				return newRuntimeError(line, "stack underflow")
			}
			top := vm.stack.Peek(0)
			if !top.IsBool() {
				return newRuntimeError(line, "condition must be a boolean")
			}
			if !top.AsBool() {
				vm.ip += int(offset)
			}

		case chunk.OpLoop:
			offset := vm.readU16()
			vm.ip -= int(offset)

		case chunk.OpReturn:
			return nil

		default:
			return newRuntimeError(line, "unknown opcode %d", op)
		}
	}
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readU16() uint16 {
	v := vm.chunk.ReadU16(vm.ip)
	vm.ip += 2
	return v
}

func (vm *VM) readConstant() value.Value {
	idx := vm.readByte()
	return vm.chunk.Constants[idx]
}

// execEqual implements the EQUAL opcode's three-way rule: same type
// compares by value, exactly one nil is always false, anything else is a
// type-mismatch runtime error.
func (vm *VM) execEqual(line int) error {
	b, ok1 := vm.stack.Pop()
	a, ok2 := vm.stack.Pop()
	if !ok1 || !ok2 {
		return newRuntimeError(line, "stack underflow")
	}
	switch {
	case a.Type() == b.Type():
		vm.stack.Push(value.Bool(value.Equal(a, b)))
	case a.IsNil() || b.IsNil():
		vm.stack.Push(value.Bool(false))
	default:
		return newRuntimeError(line, "operands are not comparable")
	}
	return nil
}

// execComparison implements GREATER and LESS: numeric ordering for
// numbers, length ordering for strings.
func (vm *VM) execComparison(line int, op chunk.OpCode) error {
	b, ok1 := vm.stack.Pop()
	a, ok2 := vm.stack.Pop()
	if !ok1 || !ok2 {
		return newRuntimeError(line, "stack underflow")
	}
	switch {
	case a.IsNumber() && b.IsNumber():
		an, bn := a.AsNumber(), b.AsNumber()
		if op == chunk.OpGreater {
			vm.stack.Push(value.Bool(an > bn))
		} else {
			vm.stack.Push(value.Bool(an < bn))
		}
	case a.IsString() && b.IsString():
		al, bl := len(a.AsString().Chars), len(b.AsString().Chars)
		if op == chunk.OpGreater {
			vm.stack.Push(value.Bool(al > bl))
		} else {
			vm.stack.Push(value.Bool(al < bl))
		}
	default:
		return newRuntimeError(line, "operands must be two numbers or two strings")
	}
	return nil
}

// execAdd implements ADD's dual behavior: numeric sum, or string
// concatenation producing a freshly interned ObjString on the heap chain.
func (vm *VM) execAdd(line int) error {
	b, ok1 := vm.stack.Pop()
	a, ok2 := vm.stack.Pop()
	if !ok1 || !ok2 {
		return newRuntimeError(line, "stack underflow")
	}
	switch {
	case a.IsNumber() && b.IsNumber():
		vm.stack.Push(value.Number(a.AsNumber() + b.AsNumber()))
	case a.IsString() && b.IsString():
		as, bs := a.AsString(), b.AsString()
		buf := make([]byte, 0, len(as.Chars)+len(bs.Chars))
		buf = append(buf, as.Chars...)
		buf = append(buf, bs.Chars...)
		result := vm.heap.Intern(buf)
		vm.stack.Push(value.FromObj(result))
	default:
		return newRuntimeError(line, "operands must be two numbers or two strings")
	}
	return nil
}

func (vm *VM) execArithmetic(line int, op chunk.OpCode) error {
	b, ok1 := vm.stack.Pop()
	a, ok2 := vm.stack.Pop()
	if !ok1 || !ok2 {
		return newRuntimeError(line, "stack underflow")
	}
	if !a.IsNumber() || !b.IsNumber() {
		return newRuntimeError(line, "operands must be numbers")
	}
	an, bn := a.AsNumber(), b.AsNumber()
	switch op {
	case chunk.OpSubtract:
		vm.stack.Push(value.Number(an - bn))
	case chunk.OpMultiply:
		vm.stack.Push(value.Number(an * bn))
	case chunk.OpDivide:
		vm.stack.Push(value.Number(an / bn))
	}
	return nil
}

func (vm *VM) execMod(line int) error {
	b, ok1 := vm.stack.Pop()
	a, ok2 := vm.stack.Pop()
	if !ok1 || !ok2 {
		return newRuntimeError(line, "stack underflow")
	}
	if !a.IsNumber() || !b.IsNumber() {
		return newRuntimeError(line, "operands must be numbers")
	}
	vm.stack.Push(value.Number(math.Mod(a.AsNumber(), b.AsNumber())))
	return nil
}

// execNot implements NOT's truthiness rule, distinct from
// JUMP_IF_FALSE's stricter bool-only requirement: nil and false are
// falsey, every number is truthy, and strings are not accepted at all.
func (vm *VM) execNot(line int) error {
	v, ok := vm.stack.Pop()
	if !ok {
		return newRuntimeError(line, "stack underflow")
	}
	switch {
	case v.IsBool():
		vm.stack.Push(value.Bool(!v.AsBool()))
	case v.IsNil():
		vm.stack.Push(value.Bool(true))
	case v.IsNumber():
		vm.stack.Push(value.Bool(false))
	default:
		return newRuntimeError(line, "operand must be a boolean, nil, or number")
	}
	return nil
}

func (vm *VM) execNegate(line int) error {
	v, ok := vm.stack.Pop()
	if !ok {
		return newRuntimeError(line, "stack underflow")
	}
	if !v.IsNumber() {
		return newRuntimeError(line, "operand must be a number")
	}
	vm.stack.Push(value.Number(-v.AsNumber()))
	return nil
}
