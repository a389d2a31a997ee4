package machine

import "github.com/mna/wisp/lang/compiler"

// Handle is an opaque, non-owning reference into a Heap. It is never
// dereferenced directly; Heap.Function resolves it.
type Handle int

type object struct {
	alive    bool
	marked   bool
	function *compiler.Function
}

// Heap is an arena of closure objects. Values of Closure kind hold handles
// into it; the heap owns the objects' lifetime. There are no reference
// counts and no host-language ownership cycles: mark-sweep walks roots
// supplied by the VM and frees whatever it does not reach.
type Heap struct {
	objects []object
	free    []Handle
}

// Alloc wraps fn in a new closure object and returns its handle.
func (h *Heap) Alloc(fn *compiler.Function) Handle {
	if n := len(h.free); n > 0 {
		idx := h.free[n-1]
		h.free = h.free[:n-1]
		h.objects[idx] = object{alive: true, function: fn}
		return idx
	}
	h.objects = append(h.objects, object{alive: true, function: fn})
	return Handle(len(h.objects) - 1)
}

// Function returns the function a closure handle wraps. Handles are never
// dereferenced after their object has been freed; doing so is a bug in the
// caller, not a recoverable runtime condition.
func (h *Heap) Function(handle Handle) *compiler.Function {
	return h.objects[handle].function
}

// mark sets the mark bit on handle and transitively marks any closures
// reachable from its function's constant pool (a function compiled today
// never holds nested closures among its constants, but a future closure
// that captures upvalues could, so the walk is unconditional).
func (h *Heap) mark(handle Handle) {
	obj := &h.objects[handle]
	if !obj.alive || obj.marked {
		return
	}
	obj.marked = true
	for _, c := range obj.function.Chunk.Constants {
		if cl, ok := c.(Closure); ok {
			h.mark(cl.Handle)
		}
	}
}

// Sweep frees every unmarked object and clears the mark bit on survivors.
func (h *Heap) Sweep() {
	for i := range h.objects {
		if !h.objects[i].alive {
			continue
		}
		if h.objects[i].marked {
			h.objects[i].marked = false
			continue
		}
		h.objects[i] = object{}
		h.free = append(h.free, Handle(i))
	}
}

// Len reports the number of live (allocated, not yet swept) objects.
func (h *Heap) Len() int {
	n := 0
	for _, o := range h.objects {
		if o.alive {
			n++
		}
	}
	return n
}
