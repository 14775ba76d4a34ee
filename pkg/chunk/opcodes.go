package chunk

// OpCode identifies a single bytecode instruction. Every opcode that takes
// an operand encodes it as a fixed number of trailing bytes in the code
// buffer, never a separate parallel array.
type OpCode byte

const (
	OpConstant     OpCode = iota // 1 byte operand: constant pool index
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetGlobal                  // 1 byte operand: constant pool index (name)
	OpDefineGlobal               // 1 byte operand: constant pool index (name)
	OpSetGlobal                  // 1 byte operand: constant pool index (name)
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpMod
	OpNot
	OpNegate
	OpPrint
	OpJump                       // 2 byte operand: forward offset (big-endian u16)
	OpJumpIfFalse                // 2 byte operand: forward offset (big-endian u16)
	OpLoop                       // 2 byte operand: backward offset (big-endian u16)
	OpReturn
)

var opNames = map[OpCode]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpMod:          "OP_MOD",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpReturn:       "OP_RETURN",
}

func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}
