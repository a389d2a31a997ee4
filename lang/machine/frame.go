package machine

import "github.com/mna/wisp/lang/compiler"

// Frame is a per-invocation record: which closure is executing, the
// instruction pointer into its chunk, and the operand-stack index marking
// this call's base slot. Slot 0 relative to stackStart is always the callee
// closure itself (see VM.call); locals and parameters start at slot 1.
type Frame struct {
	closure    Closure
	function   *compiler.Function
	ip         int
	stackStart int
}
