// Package vm is the minimal stack machine that runs the compiler's
// bytecode output end to end: fetch-decode-execute over a push/pop/peek
// stack and a CallFrame per in-flight call, trimmed to a single Value
// representation (no closures, no upvalues).
package vm

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/modules"
	"github.com/lumen-lang/lumen/internal/value"
)

const (
	initialStackSize = 256
	maxFrames        = 256
)

// CallFrame tracks one in-flight function invocation: the function being
// executed, its bytecode cursor, and the stack slot its locals start at.
type CallFrame struct {
	fn       *value.Function
	chunk    *bytecode.Chunk
	ip       int
	slotBase int
}

// VM is a single-threaded stack machine. out is where OP_INFO writes; New
// takes it from the caller (cmd/lumen prints to stdout, tests collect
// lines).
type VM struct {
	stack    []value.Value
	frames   []CallFrame
	globals  map[string]value.Value
	registry *modules.Registry
	out      func(string)
}

// New builds a VM ready to Run a compiled script function.
func New(reg *modules.Registry, out func(string)) *VM {
	return &VM{
		stack:    make([]value.Value, 0, initialStackSize),
		frames:   make([]CallFrame, 0, 8),
		globals:  make(map[string]value.Value),
		registry: reg,
		out:      out,
	}
}

// RuntimeError is a failure raised while executing bytecode, as opposed to
// a compile-time diagnostics.Error.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] runtime error: %s", e.Line, e.Message)
}

func (vm *VM) frame() *CallFrame {
	return &vm.frames[len(vm.frames)-1]
}

func (vm *VM) push(v value.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() value.Value {
	n := len(vm.stack)
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

// Run executes a compiled top-level script function to completion.
func (vm *VM) Run(fn *value.Function) error {
	chunk, ok := fn.Chunk.(*bytecode.Chunk)
	if !ok {
		return fmt.Errorf("vm: script function has no chunk")
	}
	vm.push(fn)
	vm.frames = append(vm.frames, CallFrame{fn: fn, chunk: chunk, slotBase: 0})
	return vm.run()
}
