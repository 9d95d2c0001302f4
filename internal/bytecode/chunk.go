package bytecode

import "github.com/lumen-lang/lumen/internal/value"

// Chunk is an append-only bytecode buffer with a parallel per-byte line
// table and a constant pool.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []value.Value
}

// NewChunk returns an empty Chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 64),
		Lines:     make([]int, 0, 64),
		Constants: make([]value.Value, 0, 8),
	}
}

// Write appends one byte with its source line.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an opcode byte with its source line.
func (c *Chunk) WriteOp(op Opcode, line int) {
	c.Write(byte(op), line)
}

// Len returns the current size of Code in bytes.
func (c *Chunk) Len() int {
	return len(c.Code)
}

// AddConstant appends value to the constant pool and returns its index.
// Callers are responsible for enforcing the 256-entry cap; a full pool is
// a compiler-level diagnostic, not a Chunk panic.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}
