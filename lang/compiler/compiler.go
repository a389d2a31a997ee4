// Package compiler implements a single-pass bytecode compiler: it walks an
// AST and emits a Chunk (code plus a constant pool) per function, tracking
// an explicit stack of compiler instances, one per function nested inside
// the one being compiled.
package compiler

import (
	"fmt"

	"github.com/mna/wisp/lang/ast"
)

// Compiler owns the stack of instances active while compiling nested
// functions. The instance stack is explicit rather than a back-pointer
// chain from each instance to its enclosing one, so that future upvalue
// resolution can walk it without entangling instance lifetimes.
type Compiler struct {
	instances []*instance
}

// Compile compiles a full program (the parser's top-level expression
// sequence) into the synthetic script Function of arity 0.
func Compile(prog []ast.Expr) (*Function, error) {
	c := &Compiler{}
	c.push("")
	for _, e := range prog {
		if err := c.compileStatement(e); err != nil {
			return nil, err
		}
	}
	c.emit(OpReturn)
	return c.pop().function, nil
}

func (c *Compiler) push(name string) { c.instances = append(c.instances, newInstance(name)) }

func (c *Compiler) pop() *instance {
	n := len(c.instances)
	top := c.instances[n-1]
	c.instances = c.instances[:n-1]
	return top
}

func (c *Compiler) top() *instance { return c.instances[len(c.instances)-1] }

func (c *Compiler) chunk() *Chunk { return c.top().function.Chunk }

func (c *Compiler) emit(op Opcode) { c.chunk().Write(op) }

func (c *Compiler) emitByte(op Opcode, operand uint8) {
	c.chunk().Write(op)
	c.chunk().WriteByte(operand)
}

func (c *Compiler) emitConstant(v Value) error {
	k, err := c.chunk().AddConstant(v)
	if err != nil {
		return err
	}
	c.emitByte(OpConstant, k)
	return nil
}

func (c *Compiler) nameConstant(name string) (uint8, error) {
	return c.chunk().AddConstant(String(name))
}

// compileStatement compiles e as a top-level or block-body statement,
// enforcing the invariant that the operand stack returns to its
// pre-statement depth: every statement whose value is not otherwise claimed
// (by a first local declaration, which leaves its initializer value as the
// local's own stack slot) is followed by an explicit Pop.
func (c *Compiler) compileStatement(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.PutsExpr:
		return c.compilePuts(n)
	case *ast.BlockExpr:
		return c.compileBlock(n)
	case *ast.VarSetExpr:
		pop, err := c.compileVarSet(n)
		if err != nil {
			return err
		}
		if pop {
			c.emit(OpPop)
		}
		return nil
	case *ast.FunExpr:
		pop, err := c.compileFun(n)
		if err != nil {
			return err
		}
		if pop {
			c.emit(OpPop)
		}
		return nil
	default:
		if err := c.compileExpr(e); err != nil {
			return err
		}
		c.emit(OpPop)
		return nil
	}
}

// compileExpr compiles e for its value, to be consumed by an enclosing
// expression (a binary operand, a call argument, puts' operand, ...). Unlike
// compileStatement it never emits a trailing Pop.
func (c *Compiler) compileExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.NumberExpr:
		return c.emitConstant(Number(n.Value))
	case *ast.BoolExpr:
		return c.emitConstant(Bool(n.Value))
	case *ast.VarGetExpr:
		return c.compileVarGet(n)
	case *ast.VarSetExpr:
		_, err := c.compileVarSet(n)
		return err
	case *ast.BinaryExpr:
		return c.compileBinary(n)
	case *ast.CallExpr:
		return c.compileCall(n)
	case *ast.FunExpr:
		_, err := c.compileFun(n)
		return err
	case *ast.BlockExpr:
		return c.compileBlock(n)
	case *ast.PutsExpr:
		return c.compilePuts(n)
	default:
		return fmt.Errorf("compiler: unknown expression type %T", e)
	}
}

func (c *Compiler) compileVarGet(n *ast.VarGetExpr) error {
	inst := c.top()
	idx, ok, err := inst.resolveLocal(n.Name)
	if err != nil {
		return err
	}
	if ok {
		c.emitByte(OpGetLocal, uint8(idx))
		return nil
	}
	k, err := c.nameConstant(n.Name)
	if err != nil {
		return err
	}
	c.emitByte(OpGetGlobal, k)
	return nil
}

// compileVarSet compiles an assignment. Inside an open lexical scope, the
// first assignment to a given name declares a new local shadowing any
// outer binding; a second assignment to the same name within that same
// scope reassigns it. At the top level (scope depth 0) assignment always
// targets a global. It reports whether the statement driver should pop the
// value left on the stack: true for a global assignment or a local
// reassignment (both leave a throwaway duplicate on top of the stack),
// false for a first local declaration (whose pushed value *is* the local's
// stack slot and must survive).
func (c *Compiler) compileVarSet(n *ast.VarSetExpr) (bool, error) {
	inst := c.top()
	if inst.scopeDepth > 0 {
		if _, ok := inst.localAt(inst.scopeDepth, n.Name); !ok {
			if err := inst.declareLocal(n.Name); err != nil {
				return false, err
			}
			if err := c.compileExpr(n.Value); err != nil {
				return false, err
			}
			inst.defineLocal()
			return false, nil
		}
	}

	if err := c.compileExpr(n.Value); err != nil {
		return false, err
	}
	if err := c.storeExisting(n.Name); err != nil {
		return false, err
	}
	return true, nil
}

// storeExisting emits SetLocal or SetGlobal for a value already pushed on
// top of the stack, binding it to an existing local (at the current scope
// depth) or a global.
func (c *Compiler) storeExisting(name string) error {
	inst := c.top()
	if inst.scopeDepth > 0 {
		if idx, ok := inst.localAt(inst.scopeDepth, name); ok {
			c.emitByte(OpSetLocal, uint8(idx))
			return nil
		}
	}
	k, err := c.nameConstant(name)
	if err != nil {
		return err
	}
	c.emitByte(OpSetGlobal, k)
	return nil
}

func (c *Compiler) compileBinary(n *ast.BinaryExpr) error {
	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}
	c.emit(binaryOpcode(n.Op))
	return nil
}

func binaryOpcode(op ast.BinaryOp) Opcode {
	switch op {
	case ast.Add:
		return OpAdd
	case ast.Subtract:
		return OpSubtract
	case ast.Multiply:
		return OpMultiply
	case ast.Divide:
		return OpDivide
	case ast.Equal:
		return OpEqual
	case ast.BangEqual:
		return OpBangEqual
	case ast.Less:
		return OpLess
	case ast.LessEq:
		return OpLessEqual
	case ast.Greater:
		return OpGreater
	case ast.GreaterEq:
		return OpGreaterEqual
	default:
		panic(fmt.Sprintf("compiler: unknown binary operator %d", op))
	}
}

func (c *Compiler) compileCall(n *ast.CallExpr) error {
	if err := c.compileExpr(n.Callee); err != nil {
		return err
	}
	if len(n.Args) > 255 {
		return ErrTooManyArgs
	}
	for _, a := range n.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.emitByte(OpCall, uint8(len(n.Args)))
	return nil
}

func (c *Compiler) compilePuts(n *ast.PutsExpr) error {
	if err := c.compileExpr(n.Value); err != nil {
		return err
	}
	c.emit(OpPuts)
	return nil
}

// compileBlock compiles a `do ... end` body in a fresh lexical scope. Its
// net stack effect is always zero: end_scope pops exactly the locals it
// opened, so a block used as a statement needs no extra Pop, and (as a
// known, untested edge of this design) a block used as a subexpression
// leaves nothing for the enclosing expression to consume.
func (c *Compiler) compileBlock(n *ast.BlockExpr) error {
	inst := c.top()
	inst.beginScope()
	for _, stmt := range n.Body {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	popped := inst.endScope()
	for i := 0; i < popped; i++ {
		c.emit(OpPop)
	}
	return nil
}

// compileFun compiles a function declaration: a fresh instance holds its own
// chunk and locals table, parameters are declared as locals 1..arity (slot 0
// is reserved for the callee itself), and the body compiles as a block. The
// finished Function is stored as a constant of the *enclosing* chunk and
// wrapped in a Closure at runtime. It reports whether the caller should pop
// the resulting closure value, using the same declare-or-reassign policy as
// compileVarSet.
func (c *Compiler) compileFun(n *ast.FunExpr) (bool, error) {
	if len(n.Decl.Args) > 255 {
		return false, ErrTooManyArgs
	}

	c.push(n.Name)
	inst := c.top()
	inst.beginScope()
	for _, arg := range n.Decl.Args {
		if err := inst.declareLocal(arg); err != nil {
			c.pop()
			return false, err
		}
		inst.defineLocal()
	}
	// The body compiles as its own nested block: any locals it declares are
	// popped by its own end_scope, leaving only the parameter scope (and,
	// for a nullary function, the callee's own phantom slot) for Return to
	// pop as the call's result.
	inst.beginScope()
	for _, stmt := range n.Decl.Body {
		if err := c.compileStatement(stmt); err != nil {
			c.pop()
			return false, err
		}
	}
	popped := inst.endScope()
	for i := 0; i < popped; i++ {
		c.emit(OpPop)
	}
	c.emit(OpReturn)

	fn := c.pop().function
	fn.Arity = uint8(len(n.Decl.Args))

	k, err := c.chunk().AddConstant(fn)
	if err != nil {
		return false, err
	}
	c.emitByte(OpClosure, k)

	return c.bindFunName(n.Name)
}

// bindFunName binds the closure already pushed on top of the stack to name,
// using the same first-declaration-vs-reassignment-vs-global policy as
// compileVarSet.
func (c *Compiler) bindFunName(name string) (bool, error) {
	inst := c.top()
	if inst.scopeDepth > 0 {
		if _, ok := inst.localAt(inst.scopeDepth, name); !ok {
			if err := inst.declareLocal(name); err != nil {
				return false, err
			}
			inst.defineLocal()
			return false, nil
		}
	}
	if err := c.storeExisting(name); err != nil {
		return false, err
	}
	return true, nil
}
