package bytecode

import (
	"strings"
	"testing"

	"github.com/lumen-lang/lumen/internal/value"
)

func TestDisassembleSimpleChunk(t *testing.T) {
	c := NewChunk()
	idx := c.AddConstant(value.Number(1))
	c.WriteOp(OP_CONSTANT, 1)
	c.Write(byte(idx), 1)
	c.WriteOp(OP_INFO, 1)
	c.WriteOp(OP_RETURN, 1)

	out := Disassemble(c, "test")
	if !strings.Contains(out, "OP_CONSTANT") {
		t.Fatalf("expected disassembly to mention OP_CONSTANT, got:\n%s", out)
	}
	if !strings.Contains(out, "OP_INFO") || !strings.Contains(out, "OP_RETURN") {
		t.Fatalf("expected OP_INFO and OP_RETURN in disassembly, got:\n%s", out)
	}
}

func TestDisassembleJumpShowsTarget(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OP_TRUE, 1)
	c.WriteOp(OP_JUMP_IF_FALSE, 1)
	c.Write(0, 1)
	c.Write(3, 1) // jump forward 3: lands right after the two operand bytes + 3
	c.WriteOp(OP_POP, 1)

	out := Disassemble(c, "test")
	if !strings.Contains(out, "->") {
		t.Fatalf("expected jump target arrow in output, got:\n%s", out)
	}
}
