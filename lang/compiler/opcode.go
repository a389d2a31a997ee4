package compiler

import "fmt"

// Opcode is a single byte-sized VM instruction. Operand widths are fixed at
// build time: every opcode is followed by exactly 0 or 1 operand bytes,
// never a variable-length encoding.
type Opcode byte

const (
	OpReturn Opcode = iota
	OpConstant
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpEqual
	OpBangEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpSetGlobal
	OpGetGlobal
	OpSetLocal
	OpGetLocal
	OpClosure
	OpCall
	OpPuts
	OpPop

	maxOpcode
)

var opcodeNames = [...]string{
	OpReturn:        "RETURN",
	OpConstant:      "CONSTANT",
	OpAdd:           "ADD",
	OpSubtract:      "SUBTRACT",
	OpMultiply:      "MULTIPLY",
	OpDivide:        "DIVIDE",
	OpEqual:         "EQUAL",
	OpBangEqual:     "BANG_EQUAL",
	OpLess:          "LESS",
	OpLessEqual:     "LESS_EQUAL",
	OpGreater:       "GREATER",
	OpGreaterEqual:  "GREATER_EQUAL",
	OpSetGlobal:     "SET_GLOBAL",
	OpGetGlobal:     "GET_GLOBAL",
	OpSetLocal:      "SET_LOCAL",
	OpGetLocal:      "GET_LOCAL",
	OpClosure:       "CLOSURE",
	OpCall:          "CALL",
	OpPuts:          "PUTS",
	OpPop:           "POP",
}

func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) || opcodeNames[op] == "" {
		return fmt.Sprintf("Opcode(%d)", byte(op))
	}
	return opcodeNames[op]
}

// Valid reports whether op is one of the opcodes known to this build.
func (op Opcode) Valid() bool { return op < maxOpcode }

// OperandWidth returns the number of operand bytes that follow op in the
// bytecode stream: 0 or 1 for every opcode in this instruction set.
func (op Opcode) OperandWidth() int {
	switch op {
	case OpConstant, OpSetGlobal, OpGetGlobal, OpSetLocal, OpGetLocal, OpClosure, OpCall:
		return 1
	default:
		return 0
	}
}
