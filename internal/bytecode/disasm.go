package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders chunk as human-readable text. Callers decide
// whether to print it via config.DisassembleOnCompile.
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(sb, "%04d ", offset)

	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		sb.WriteString("   | ")
	} else {
		fmt.Fprintf(sb, "%4d ", chunk.Lines[offset])
	}

	op := Opcode(chunk.Code[offset])

	switch op {
	case OP_CONSTANT:
		return constantInstruction(sb, chunk, offset)
	case OP_NIL, OP_TRUE, OP_FALSE, OP_POP,
		OP_EQUAL, OP_GREATER, OP_LESS,
		OP_ADD, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE, OP_MODULO, OP_POWER,
		OP_NOT, OP_NEGATE, OP_INFO, OP_RETURN, OP_IMPORT:
		return simpleInstruction(sb, op, offset)
	case OP_GET_LOCAL, OP_SET_LOCAL, OP_CALL:
		return byteInstruction(sb, chunk, op, offset)
	case OP_GET_GLOBAL, OP_SET_GLOBAL, OP_DEFINE_GLOBAL:
		return globalInstruction(sb, chunk, op, offset)
	case OP_JUMP, OP_JUMP_IF_FALSE:
		return jumpInstruction(sb, chunk, op, 1, offset)
	case OP_LOOP:
		return jumpInstruction(sb, chunk, op, -1, offset)
	default:
		fmt.Fprintf(sb, "Unknown opcode %d\n", op)
		return offset + 1
	}
}

func simpleInstruction(sb *strings.Builder, op Opcode, offset int) int {
	fmt.Fprintf(sb, "%s\n", op)
	return offset + 1
}

func byteInstruction(sb *strings.Builder, chunk *Chunk, op Opcode, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(sb, "%-16s %4d\n", op, slot)
	return offset + 2
}

func globalInstruction(sb *strings.Builder, chunk *Chunk, op Opcode, offset int) int {
	idx := chunk.Code[offset+1]
	var name string
	if int(idx) < len(chunk.Constants) {
		name = chunk.Constants[idx].Inspect()
	}
	fmt.Fprintf(sb, "%-16s %4d '%s'\n", op, idx, name)
	return offset + 2
}

func constantInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	var rendered string
	if int(idx) < len(chunk.Constants) {
		rendered = chunk.Constants[idx].Inspect()
	}
	fmt.Fprintf(sb, "%-16s %4d '%s'\n", OP_CONSTANT, idx, rendered)
	return offset + 2
}

func jumpInstruction(sb *strings.Builder, chunk *Chunk, op Opcode, sign, offset int) int {
	delta := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	target := offset + 3 + sign*delta
	fmt.Fprintf(sb, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}
