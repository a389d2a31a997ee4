package compiler

import (
	"errors"
	"fmt"
)

// ErrTooManyConstants is returned when a chunk's constant pool would exceed
// 256 entries, the limit imposed by the one-byte constant index operand.
var ErrTooManyConstants = errors.New("compiler: too many constants in chunk")

// ErrTooManyLocals is returned when a function's locals table would exceed
// 256 entries, the limit imposed by the one-byte local slot operand.
var ErrTooManyLocals = errors.New("compiler: too many locals in scope")

// ErrTooManyArgs is returned when a call has more than 255 arguments, the
// limit imposed by the one-byte arity operand.
var ErrTooManyArgs = errors.New("compiler: too many arguments in call")

// LocalAlreadyDefinedError is raised when a second local with the same name
// is declared at the same scope depth.
type LocalAlreadyDefinedError struct {
	Name string
}

func (e *LocalAlreadyDefinedError) Error() string {
	return fmt.Sprintf("local %q already defined in this scope", e.Name)
}

// ReadInOwnInitializerError is raised when a local's own initializer
// expression reads the local before it is defined.
type ReadInOwnInitializerError struct {
	Name string
}

func (e *ReadInOwnInitializerError) Error() string {
	return fmt.Sprintf("cannot read local %q in its own initializer", e.Name)
}
