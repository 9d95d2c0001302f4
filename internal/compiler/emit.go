package compiler

import (
	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/config"
	"github.com/lumen-lang/lumen/internal/diagnostics"
	"github.com/lumen-lang/lumen/internal/value"
)

// emit appends one opcode byte at the previous token's line.
func (c *Compiler) emit(op bytecode.Opcode) {
	c.currentChunk().WriteOp(op, c.previous.Line)
}

// emitByte appends one raw operand byte.
func (c *Compiler) emitByte(b byte) {
	c.currentChunk().Write(b, c.previous.Line)
}

func (c *Compiler) emitOpByte(op bytecode.Opcode, b byte) {
	c.emit(op)
	c.emitByte(b)
}

// emitConstant interns v and emits OP_CONSTANT <index>, failing
// TooManyConstants once the pool would exceed the 256-entry cap.
func (c *Compiler) emitConstant(v value.Value) {
	idx := c.makeConstant(v)
	if c.hadError {
		return
	}
	c.emitOpByte(bytecode.OP_CONSTANT, byte(idx))
}

// makeConstant returns the pool index for v. A string constant whose bytes
// match one already in the current chunk reuses that entry; every other
// value gets a fresh slot.
func (c *Compiler) makeConstant(v value.Value) int {
	if s, ok := v.(*value.String); ok {
		for i, existing := range c.currentChunk().Constants {
			if es, ok := existing.(*value.String); ok && es.Value == s.Value {
				return i
			}
		}
	}
	if len(c.currentChunk().Constants) >= config.MaxConstants {
		c.errorCode(diagnostics.TooManyConstants, "too many constants in one chunk")
		return 0
	}
	return c.currentChunk().AddConstant(v)
}

// emitJump emits op followed by a two-byte 0xFFFF placeholder and returns
// the offset of the first placeholder byte, to be patched later.
func (c *Compiler) emitJump(op bytecode.Opcode) int {
	c.emit(op)
	c.emitByte(0xFF)
	c.emitByte(0xFF)
	return c.currentChunk().Len() - 2
}

// patchJump backfills the placeholder at handle with the forward distance
// from just after it to the chunk's current end.
func (c *Compiler) patchJump(handle int) {
	delta := c.currentChunk().Len() - handle - 2
	if delta > config.MaxJump {
		c.errorCode(diagnostics.JumpTooFar, "too much code to jump over")
		return
	}
	code := c.currentChunk().Code
	code[handle] = byte(delta >> 8)
	code[handle+1] = byte(delta)
}

// emitLoop emits OP_LOOP plus the backward 16-bit delta to target.
func (c *Compiler) emitLoop(target int) {
	c.emit(bytecode.OP_LOOP)

	delta := c.currentChunk().Len() - target + 2
	if delta > config.MaxJump {
		c.errorCode(diagnostics.LoopBodyTooLarge, "loop body too large")
		return
	}
	c.emitByte(byte(delta >> 8))
	c.emitByte(byte(delta))
}

// emitReturn emits the implicit `nil; return` tail every function gets.
func (c *Compiler) emitReturn() {
	c.emit(bytecode.OP_NIL)
	c.emit(bytecode.OP_RETURN)
}

// endCompiler closes the current frame, returns the completed function,
// and pops back to the enclosing frame (if any).
func (c *Compiler) endCompiler() *value.Function {
	c.emitReturn()
	fn := c.cur.function
	if c.cur.enclosing != nil {
		c.cur = c.cur.enclosing
	}
	return fn
}
