// Package machine implements the stack-based virtual machine that executes
// chunks produced by the compiler package: an operand stack, a call-frame
// stack, a table of globals, and a heap of garbage-collectable closures.
package machine

import (
	"fmt"
	"io"
	"os"

	"github.com/dolthub/swiss"
	"github.com/mna/wisp/lang/compiler"
)

const (
	defaultStackCapacity = 256
	defaultMaxFrames     = 64
	defaultGCThreshold   = 256
)

// Options configures a VM. The zero value is valid; unset fields fall back
// to defaults chosen to satisfy the specification's minimums.
type Options struct {
	// StackCapacity is the operand stack's pre-reserved capacity (minimum 256
	// if unset).
	StackCapacity int
	// MaxFrames is the deepest the call-frame stack may grow before a call
	// raises ErrStackOverflow (minimum 64 if unset).
	MaxFrames int
	// GCThreshold is the number of closure allocations between automatic
	// mark-sweep passes. Zero (the default) picks a tunable constant; a
	// negative value disables automatic collection entirely (the caller must
	// call VM.CollectGarbage explicitly).
	GCThreshold int
	// Stdout receives Puts output. Defaults to os.Stdout.
	Stdout io.Writer
}

func (o Options) withDefaults() Options {
	if o.StackCapacity <= 0 {
		o.StackCapacity = defaultStackCapacity
	}
	if o.MaxFrames <= 0 {
		o.MaxFrames = defaultMaxFrames
	}
	if o.GCThreshold == 0 {
		o.GCThreshold = defaultGCThreshold
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	return o
}

// VM executes compiled chunks. It owns all of its state exclusively: there
// is no shared mutable state between a Run call and anything else, so a VM
// is safe to use from a single goroutine at a time only.
type VM struct {
	opts    Options
	stack   []compiler.Value
	frames  []Frame
	globals *swiss.Map[string, compiler.Value]
	heap    Heap
	stdout  io.Writer
	allocs  int
}

// New prepares a VM to run script, the synthetic top-level function
// produced by compiler.Compile. It wraps script in a closure, pushes it,
// and starts a frame for it, matching the startup sequence the
// specification describes.
func New(script *compiler.Function, opts Options) *VM {
	opts = opts.withDefaults()
	vm := &VM{
		opts:    opts,
		stack:   make([]compiler.Value, 0, opts.StackCapacity),
		globals: swiss.NewMap[string, compiler.Value](16),
		stdout:  opts.Stdout,
	}
	handle := vm.heap.Alloc(script)
	closure := Closure{Handle: handle}
	vm.stack = append(vm.stack, closure)
	vm.frames = append(vm.frames, Frame{closure: closure, function: script, ip: 0, stackStart: 0})
	return vm
}

// Run executes until the outermost frame returns or a runtime error occurs.
func (vm *VM) Run() error {
	for len(vm.frames) > 0 {
		if err := vm.step(); err != nil {
			return err
		}
	}
	return nil
}

// RunScript executes script on a fresh operand stack and call-frame stack,
// reusing the VM's existing globals and heap. This is how a REPL runs each
// line's compiled script as its own top-level unit while still sharing
// state across lines.
func (vm *VM) RunScript(script *compiler.Function) error {
	handle := vm.heap.Alloc(script)
	closure := Closure{Handle: handle}
	vm.stack = vm.stack[:0]
	vm.stack = append(vm.stack, closure)
	vm.frames = vm.frames[:0]
	vm.frames = append(vm.frames, Frame{closure: closure, function: script, ip: 0, stackStart: 0})
	return vm.Run()
}

// Heap exposes the VM's closure arena, chiefly so tests can assert on its
// size after a collection.
func (vm *VM) Heap() *Heap { return &vm.heap }

func (vm *VM) frame() *Frame { return &vm.frames[len(vm.frames)-1] }

func (vm *VM) push(v compiler.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() (compiler.Value, error) {
	n := len(vm.stack)
	if n == 0 {
		return nil, ErrStackEmpty
	}
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v, nil
}

func (vm *VM) peek() (compiler.Value, error) {
	n := len(vm.stack)
	if n == 0 {
		return nil, ErrStackEmpty
	}
	return vm.stack[n-1], nil
}

func (vm *VM) readByte() byte {
	f := vm.frame()
	b := f.function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readConstant() compiler.Value {
	idx := vm.readByte()
	return vm.frame().function.Chunk.Constants[idx]
}

// step decodes and executes a single instruction, or performs the implicit
// Return past the end of a chunk.
func (vm *VM) step() error {
	f := vm.frame()
	if f.ip >= len(f.function.Chunk.Code) {
		return vm.doReturn()
	}

	op := compiler.Opcode(vm.readByte())
	if !op.Valid() {
		return &InvalidOpcodeError{Byte: byte(op)}
	}

	switch op {
	case compiler.OpReturn:
		return vm.doReturn()
	case compiler.OpConstant:
		vm.push(vm.readConstant())
		return nil
	case compiler.OpAdd, compiler.OpSubtract, compiler.OpMultiply, compiler.OpDivide:
		return vm.arithmetic(op)
	case compiler.OpEqual, compiler.OpBangEqual, compiler.OpLess, compiler.OpLessEqual, compiler.OpGreater, compiler.OpGreaterEqual:
		return vm.compare(op)
	case compiler.OpSetGlobal:
		return vm.setGlobal()
	case compiler.OpGetGlobal:
		return vm.getGlobal()
	case compiler.OpSetLocal:
		return vm.setLocal()
	case compiler.OpGetLocal:
		return vm.getLocal()
	case compiler.OpClosure:
		return vm.closure()
	case compiler.OpCall:
		return vm.call(int(vm.readByte()))
	case compiler.OpPuts:
		return vm.puts()
	case compiler.OpPop:
		_, err := vm.pop()
		return err
	default:
		return &InvalidOpcodeError{Byte: byte(op)}
	}
}

func (vm *VM) arithmetic(op compiler.Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	an, ok := a.(compiler.Number)
	if !ok {
		return &TypeMismatchError{Op: op, Kind: a.Type()}
	}
	bn, ok := b.(compiler.Number)
	if !ok {
		return &TypeMismatchError{Op: op, Kind: b.Type()}
	}
	var result compiler.Number
	switch op {
	case compiler.OpAdd:
		result = an + bn
	case compiler.OpSubtract:
		result = an - bn
	case compiler.OpMultiply:
		result = an * bn
	case compiler.OpDivide:
		result = an / bn
	}
	vm.push(result)
	return nil
}

func (vm *VM) compare(op compiler.Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}

	if op == compiler.OpEqual || op == compiler.OpBangEqual {
		eq := valuesEqual(a, b)
		if op == compiler.OpBangEqual {
			eq = !eq
		}
		vm.push(compiler.Bool(eq))
		return nil
	}

	an, ok := a.(compiler.Number)
	if !ok {
		return &TypeMismatchError{Op: op, Kind: a.Type()}
	}
	bn, ok := b.(compiler.Number)
	if !ok {
		return &TypeMismatchError{Op: op, Kind: b.Type()}
	}
	var result bool
	switch op {
	case compiler.OpLess:
		result = an < bn
	case compiler.OpLessEqual:
		result = an <= bn
	case compiler.OpGreater:
		result = an > bn
	case compiler.OpGreaterEqual:
		result = an >= bn
	}
	vm.push(compiler.Bool(result))
	return nil
}

func valuesEqual(a, b compiler.Value) bool {
	switch av := a.(type) {
	case compiler.Number:
		bv, ok := b.(compiler.Number)
		return ok && av == bv
	case compiler.Bool:
		bv, ok := b.(compiler.Bool)
		return ok && av == bv
	case compiler.String:
		bv, ok := b.(compiler.String)
		return ok && av == bv
	case Closure:
		bv, ok := b.(Closure)
		return ok && av.Handle == bv.Handle
	default:
		return false
	}
}

func (vm *VM) setGlobal() error {
	name := vm.readConstant().(compiler.String)
	v, err := vm.peek()
	if err != nil {
		return err
	}
	vm.globals.Put(string(name), v)
	return nil
}

func (vm *VM) getGlobal() error {
	name := vm.readConstant().(compiler.String)
	v, ok := vm.globals.Get(string(name))
	if !ok {
		return &UndefinedGlobalError{Name: string(name)}
	}
	vm.push(v)
	return nil
}

func (vm *VM) setLocal() error {
	slot := int(vm.readByte())
	f := vm.frame()
	idx := f.stackStart + slot
	if idx < 0 || idx >= len(vm.stack) {
		return &BadStackIndexError{Want: slot, Have: len(vm.stack) - f.stackStart}
	}
	v, err := vm.peek()
	if err != nil {
		return err
	}
	vm.stack[idx] = v
	return nil
}

func (vm *VM) getLocal() error {
	slot := int(vm.readByte())
	f := vm.frame()
	idx := f.stackStart + slot
	if idx < 0 || idx >= len(vm.stack) {
		return &BadStackIndexError{Want: slot, Have: len(vm.stack) - f.stackStart}
	}
	vm.push(vm.stack[idx])
	return nil
}

func (vm *VM) closure() error {
	c := vm.readConstant()
	fn, ok := c.(*compiler.Function)
	if !ok {
		return &TypeMismatchError{Op: compiler.OpClosure, Kind: c.Type()}
	}
	handle := vm.heap.Alloc(fn)
	vm.allocs++
	vm.push(Closure{Handle: handle})
	if vm.opts.GCThreshold > 0 && vm.allocs >= vm.opts.GCThreshold {
		vm.CollectGarbage()
	}
	return nil
}

func (vm *VM) call(arity int) error {
	calleeIdx := len(vm.stack) - arity - 1
	if calleeIdx < 0 {
		return ErrStackEmpty
	}
	callee := vm.stack[calleeIdx]
	cl, ok := callee.(Closure)
	if !ok {
		return &NotCallableError{Kind: callee.Type()}
	}
	fn := vm.heap.Function(cl.Handle)
	if int(fn.Arity) != arity {
		return &ArityMismatchError{Expected: int(fn.Arity), Got: arity}
	}
	if len(vm.frames) >= vm.opts.MaxFrames {
		return ErrStackOverflow
	}
	vm.frames = append(vm.frames, Frame{closure: cl, function: fn, ip: 0, stackStart: calleeIdx})
	return nil
}

func (vm *VM) doReturn() error {
	result, err := vm.pop()
	if err != nil {
		return err
	}
	f := vm.frame()
	vm.stack = vm.stack[:f.stackStart]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.push(result)
	return nil
}

func (vm *VM) puts() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(vm.stdout, vm.display(v))
	return err
}

// display renders v the way Puts writes it: numbers and bools and strings
// via their own String, functions as "<fn NAME>", and closures as their
// wrapped function's own string.
func (vm *VM) display(v compiler.Value) string {
	if cl, ok := v.(Closure); ok {
		return vm.heap.Function(cl.Handle).String()
	}
	return v.String()
}

// CollectGarbage runs one mark-sweep pass: every heap-kind Value reachable
// from the operand stack, the globals table, or a call frame's closure is a
// root. Unreached closures are freed.
func (vm *VM) CollectGarbage() {
	for _, v := range vm.stack {
		if cl, ok := v.(Closure); ok {
			vm.heap.mark(cl.Handle)
		}
	}
	vm.globals.Iter(func(_ string, v compiler.Value) (stop bool) {
		if cl, ok := v.(Closure); ok {
			vm.heap.mark(cl.Handle)
		}
		return false
	})
	for _, f := range vm.frames {
		vm.heap.mark(f.closure.Handle)
	}
	vm.heap.Sweep()
	vm.allocs = 0
}
