package machine

import "github.com/mna/wisp/lang/compiler"

// Closure is a heap-allocated value wrapping a compiled function. It
// implements compiler.Value structurally, without compiler importing
// machine: Handle is the only state a constant-pool or stack Value of
// closure kind carries, matching the design notes' requirement that Closure
// be a distinct kind from Function, with room left for future upvalue
// capture.
type Closure struct {
	Handle Handle
}

func (c Closure) Type() string { return "closure" }

// String is a defensive fallback; callers that can reach a Heap should use
// VM.display, which resolves the wrapped function's own string form as the
// specification requires.
func (c Closure) String() string { return "<closure>" }

var _ compiler.Value = Closure{}
