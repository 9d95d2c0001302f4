package vm

import (
	"fmt"
	"math"

	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/value"
)

func (vm *VM) readByte() byte {
	f := vm.frame()
	b := f.chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort() int {
	f := vm.frame()
	hi, lo := f.chunk.Code[f.ip], f.chunk.Code[f.ip+1]
	f.ip += 2
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant() value.Value {
	idx := vm.readByte()
	return vm.frame().chunk.Constants[idx]
}

func (vm *VM) line() int {
	f := vm.frame()
	if f.ip-1 < 0 || f.ip-1 >= len(f.chunk.Lines) {
		return 0
	}
	return f.chunk.Lines[f.ip-1]
}

func (vm *VM) runtimeErr(format string, args ...any) error {
	return &RuntimeError{Line: vm.line(), Message: fmt.Sprintf(format, args...)}
}

// run is the fetch-decode-execute loop: one switch case per opcode, one
// Value representation, no debugger hooks.
func (vm *VM) run() error {
	for {
		f := vm.frame()
		if f.ip >= len(f.chunk.Code) {
			return vm.runtimeErr("fell off the end of a chunk without OP_RETURN")
		}
		op := bytecode.Opcode(vm.readByte())

		switch op {
		case bytecode.OP_CONSTANT:
			vm.push(vm.readConstant())

		case bytecode.OP_NIL:
			vm.push(value.Nil{})
		case bytecode.OP_TRUE:
			vm.push(value.Bool(true))
		case bytecode.OP_FALSE:
			vm.push(value.Bool(false))
		case bytecode.OP_POP:
			vm.pop()

		case bytecode.OP_GET_LOCAL:
			slot := int(vm.readByte())
			vm.push(vm.stack[f.slotBase+slot])
		case bytecode.OP_SET_LOCAL:
			slot := int(vm.readByte())
			vm.stack[f.slotBase+slot] = vm.peek(0)

		case bytecode.OP_GET_GLOBAL:
			name := vm.readConstant().(*value.String).Value
			v, ok := vm.globals[name]
			if !ok {
				return vm.runtimeErr("undefined variable '%s'", name)
			}
			vm.push(v)
		case bytecode.OP_SET_GLOBAL:
			name := vm.readConstant().(*value.String).Value
			if _, ok := vm.globals[name]; !ok {
				return vm.runtimeErr("undefined variable '%s'", name)
			}
			vm.globals[name] = vm.peek(0)
		case bytecode.OP_DEFINE_GLOBAL:
			name := vm.readConstant().(*value.String).Value
			vm.globals[name] = vm.pop()

		case bytecode.OP_EQUAL:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case bytecode.OP_GREATER:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Bool(a > b) }); err != nil {
				return err
			}
		case bytecode.OP_LESS:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Bool(a < b) }); err != nil {
				return err
			}

		case bytecode.OP_ADD:
			if err := vm.add(); err != nil {
				return err
			}
		case bytecode.OP_SUBTRACT:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a - b) }); err != nil {
				return err
			}
		case bytecode.OP_MULTIPLY:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a * b) }); err != nil {
				return err
			}
		case bytecode.OP_DIVIDE:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a / b) }); err != nil {
				return err
			}
		case bytecode.OP_MODULO:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(math.Mod(a, b)) }); err != nil {
				return err
			}
		case bytecode.OP_POWER:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(math.Pow(a, b)) }); err != nil {
				return err
			}

		case bytecode.OP_NOT:
			vm.push(value.Bool(!value.Truthy(vm.pop())))
		case bytecode.OP_NEGATE:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return vm.runtimeErr("operand must be a number")
			}
			vm.pop()
			vm.push(-n)

		case bytecode.OP_INFO:
			vm.out(vm.pop().Inspect())

		case bytecode.OP_JUMP:
			offset := vm.readShort()
			f.ip += offset
		case bytecode.OP_JUMP_IF_FALSE:
			offset := vm.readShort()
			if !value.Truthy(vm.peek(0)) {
				f.ip += offset
			}
		case bytecode.OP_LOOP:
			offset := vm.readShort()
			f.ip -= offset

		case bytecode.OP_CALL:
			argc := int(vm.readByte())
			if err := vm.call(argc); err != nil {
				return err
			}
		case bytecode.OP_RETURN:
			result := vm.pop()
			finished := vm.frames[len(vm.frames)-1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.stack = vm.stack[:finished.slotBase]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.push(result)

		case bytecode.OP_IMPORT:
			if err := vm.doImport(); err != nil {
				return err
			}

		default:
			return vm.runtimeErr("unknown opcode %d", op)
		}
	}
}

func (vm *VM) numericBinary(op func(a, b float64) value.Value) error {
	bv, aOk := vm.peek(0).(value.Number)
	av, bOk := vm.peek(1).(value.Number)
	if !aOk || !bOk {
		return vm.runtimeErr("operands must be numbers")
	}
	vm.pop()
	vm.pop()
	vm.push(op(float64(av), float64(bv)))
	return nil
}

// add overloads OP_ADD for number+number and string+string; Lumen's value
// model has no other use for string concatenation.
func (vm *VM) add() error {
	b, a := vm.peek(0), vm.peek(1)
	an, aOk := a.(value.Number)
	bn, bOk := b.(value.Number)
	if aOk && bOk {
		vm.pop()
		vm.pop()
		vm.push(an + bn)
		return nil
	}
	as, aOk := a.(*value.String)
	bs, bOk := b.(*value.String)
	if aOk && bOk {
		vm.pop()
		vm.pop()
		vm.push(&value.String{Value: as.Value + bs.Value})
		return nil
	}
	return vm.runtimeErr("operands must be two numbers or two strings")
}
