package machine

import (
	"errors"
	"fmt"

	"github.com/mna/wisp/lang/compiler"
)

// ErrStackEmpty is returned when an opcode needs to pop an operand but the
// stack does not have one.
var ErrStackEmpty = errors.New("machine: operand stack is empty")

// ErrStackOverflow is returned when Call would push more call frames than
// the implementation-defined maximum depth.
var ErrStackOverflow = errors.New("machine: call stack overflow")

// TypeMismatchError is raised when an opcode's operand is not the kind it
// requires, e.g. arithmetic on a non-Number.
type TypeMismatchError struct {
	Op   compiler.Opcode
	Kind string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s does not accept operand of kind %s", e.Op, e.Kind)
}

// UndefinedGlobalError is raised by GetGlobal when no binding exists.
type UndefinedGlobalError struct {
	Name string
}

func (e *UndefinedGlobalError) Error() string {
	return fmt.Sprintf("undefined global %q", e.Name)
}

// ArityMismatchError is raised by Call when the callee's declared arity does
// not match the number of arguments passed.
type ArityMismatchError struct {
	Expected, Got int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("arity mismatch: expected %d argument(s), got %d", e.Expected, e.Got)
}

// NotCallableError is raised by Call when the callee is not a Closure.
type NotCallableError struct {
	Kind string
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("value of kind %s is not callable", e.Kind)
}

// BadStackIndexError is raised when GetLocal/SetLocal address a slot outside
// the current frame's view of the stack.
type BadStackIndexError struct {
	Want, Have int
}

func (e *BadStackIndexError) Error() string {
	return fmt.Sprintf("bad stack index: wanted %d, have %d slot(s)", e.Want, e.Have)
}

// InvalidOpcodeError is raised when the decoder reads a byte that is not a
// recognized opcode.
type InvalidOpcodeError struct {
	Byte byte
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode byte: %d", e.Byte)
}
