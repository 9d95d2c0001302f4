package vm

import (
	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/value"
)

// call dispatches OP_CALL argc against whatever callable sits argc slots
// below the top of the stack: a compiled Function pushes a new CallFrame,
// a Native runs immediately and leaves its result on the stack. Lumen has
// no classes or methods, so these are the only two callable kinds.
func (vm *VM) call(argc int) error {
	callee := vm.peek(argc)

	switch fn := callee.(type) {
	case *value.Function:
		if argc != fn.Arity {
			return vm.runtimeErr("expected %d arguments but got %d", fn.Arity, argc)
		}
		if len(vm.frames) >= maxFrames {
			return vm.runtimeErr("stack overflow")
		}
		chunk, ok := fn.Chunk.(*bytecode.Chunk)
		if !ok {
			return vm.runtimeErr("function has no chunk")
		}
		slotBase := len(vm.stack) - argc - 1
		vm.frames = append(vm.frames, CallFrame{fn: fn, chunk: chunk, slotBase: slotBase})
		return nil

	case *value.Native:
		args := make([]value.Value, argc)
		copy(args, vm.stack[len(vm.stack)-argc:])
		result, err := fn.Fn(args)
		if err != nil {
			return vm.runtimeErr("%s", err.Error())
		}
		vm.stack = vm.stack[:len(vm.stack)-argc-1]
		vm.push(result)
		return nil

	default:
		return vm.runtimeErr("can only call functions")
	}
}

// doImport pops the module-path string OP_IMPORT's operand pushed,
// resolves it against the registry, and flattens the module's members
// directly into the global namespace under their bare names (so `using
// "math"; info sqrt(2);` resolves `sqrt` as an ordinary global). Lumen's
// grammar has no member-access operator, so each `using` defines its
// module's natives straight into the global namespace rather than behind
// a qualified path.
func (vm *VM) doImport() error {
	path, ok := vm.pop().(*value.String)
	if !ok {
		return vm.runtimeErr("using: expected a module path string")
	}
	mod, ok := vm.registry.Lookup(path.Value)
	if !ok {
		return vm.runtimeErr("unknown module %q", path.Value)
	}
	for name, member := range mod.Members {
		vm.globals[name] = member
	}
	vm.globals[path.Value] = mod
	return nil
}
