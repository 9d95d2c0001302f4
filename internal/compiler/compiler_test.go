package compiler

import (
	"strings"
	"testing"

	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/diagnostics"
)

// opsOf decodes chunk.Code into a bare opcode sequence, skipping operand
// bytes, so scenario tests can assert on shape without a VM.
func opsOf(t *testing.T, chunk *bytecode.Chunk) []bytecode.Opcode {
	t.Helper()
	var ops []bytecode.Opcode
	code := chunk.Code
	for i := 0; i < len(code); {
		op := bytecode.Opcode(code[i])
		ops = append(ops, op)
		switch op {
		case bytecode.OP_CONSTANT, bytecode.OP_GET_LOCAL, bytecode.OP_SET_LOCAL,
			bytecode.OP_GET_GLOBAL, bytecode.OP_SET_GLOBAL, bytecode.OP_DEFINE_GLOBAL,
			bytecode.OP_CALL:
			i += 2
		case bytecode.OP_JUMP, bytecode.OP_JUMP_IF_FALSE, bytecode.OP_LOOP:
			i += 3
		default:
			i++
		}
	}
	return ops
}

func mustCompile(t *testing.T, src string) *bytecode.Chunk {
	t.Helper()
	fn, errs := Compile(src)
	if fn == nil {
		t.Fatalf("expected successful compile, got errors: %v", errs)
	}
	chunk, ok := fn.Chunk.(*bytecode.Chunk)
	if !ok {
		t.Fatalf("function.Chunk is not *bytecode.Chunk")
	}
	return chunk
}

func expectError(t *testing.T, src string, code diagnostics.Code) {
	t.Helper()
	fn, errs := Compile(src)
	if fn != nil {
		t.Fatalf("expected compile failure for %q, got a function", src)
	}
	for _, e := range errs {
		if e.Code == code {
			return
		}
	}
	t.Fatalf("expected error code %v for %q, got %v", code, src, errs)
}

func TestInfoArithmetic(t *testing.T) {
	chunk := mustCompile(t, "info 1 + 2;")
	got := opsOf(t, chunk)
	want := []bytecode.Opcode{
		bytecode.OP_CONSTANT, bytecode.OP_CONSTANT, bytecode.OP_ADD, bytecode.OP_INFO,
		bytecode.OP_NIL, bytecode.OP_RETURN, // implicit script tail
	}
	assertOps(t, got, want)
}

func TestGlobalDeclarationAndInfo(t *testing.T) {
	chunk := mustCompile(t, "have x := 10; info x;")
	got := opsOf(t, chunk)
	want := []bytecode.Opcode{
		bytecode.OP_CONSTANT, bytecode.OP_DEFINE_GLOBAL, bytecode.OP_GET_GLOBAL, bytecode.OP_INFO,
		bytecode.OP_NIL, bytecode.OP_RETURN,
	}
	assertOps(t, got, want)
}

func TestBlockLocalsAndTrailingPops(t *testing.T) {
	chunk := mustCompile(t, "{ have a := 1; have b := 2; info a + b; }")
	got := opsOf(t, chunk)
	want := []bytecode.Opcode{
		bytecode.OP_CONSTANT, bytecode.OP_CONSTANT,
		bytecode.OP_GET_LOCAL, bytecode.OP_GET_LOCAL, bytecode.OP_ADD, bytecode.OP_INFO,
		bytecode.OP_POP, bytecode.OP_POP,
		bytecode.OP_NIL, bytecode.OP_RETURN,
	}
	assertOps(t, got, want)
}

func TestIfElse(t *testing.T) {
	chunk := mustCompile(t, "if (true) info 1; else info 2;")
	got := opsOf(t, chunk)
	want := []bytecode.Opcode{
		bytecode.OP_TRUE, bytecode.OP_JUMP_IF_FALSE, bytecode.OP_POP,
		bytecode.OP_CONSTANT, bytecode.OP_INFO, bytecode.OP_JUMP,
		bytecode.OP_POP, bytecode.OP_CONSTANT, bytecode.OP_INFO,
		bytecode.OP_NIL, bytecode.OP_RETURN,
	}
	assertOps(t, got, want)
}

func TestWhileBreak(t *testing.T) {
	chunk := mustCompile(t, "while (true) break;")
	got := opsOf(t, chunk)
	want := []bytecode.Opcode{
		bytecode.OP_TRUE, bytecode.OP_JUMP_IF_FALSE, bytecode.OP_POP,
		bytecode.OP_JUMP, bytecode.OP_LOOP, bytecode.OP_POP,
		bytecode.OP_NIL, bytecode.OP_RETURN,
	}
	assertOps(t, got, want)
}

func TestFunctionCallAndRecursionSlot(t *testing.T) {
	chunk := mustCompile(t, "func f(x) { return x; } info f(3);")
	got := opsOf(t, chunk)
	want := []bytecode.Opcode{
		bytecode.OP_CONSTANT, bytecode.OP_DEFINE_GLOBAL,
		bytecode.OP_GET_GLOBAL, bytecode.OP_CONSTANT, bytecode.OP_CALL, bytecode.OP_INFO,
		bytecode.OP_NIL, bytecode.OP_RETURN,
	}
	assertOps(t, got, want)

	if len(chunk.Constants) == 0 {
		t.Fatalf("expected the compiled function to land in the outer constant pool")
	}
}

func TestForLoopUsesLocalSlot(t *testing.T) {
	chunk := mustCompile(t, "for (have i := 0; i < 3; i = i + 1) info i;")
	got := opsOf(t, chunk)

	// initializer, condition compare, increment (jumped over on the first
	// pass), body info, then the trailing scope pop for the loop variable
	// and the implicit script tail.
	want := []bytecode.Opcode{
		bytecode.OP_CONSTANT, // 0
		bytecode.OP_GET_LOCAL, bytecode.OP_CONSTANT, bytecode.OP_LESS, // i < 3
		bytecode.OP_JUMP_IF_FALSE, bytecode.OP_POP,
		bytecode.OP_JUMP, // skip increment on first pass
		bytecode.OP_GET_LOCAL, bytecode.OP_CONSTANT, bytecode.OP_ADD, bytecode.OP_SET_LOCAL, bytecode.OP_POP,
		bytecode.OP_LOOP,
		bytecode.OP_GET_LOCAL, bytecode.OP_INFO,
		bytecode.OP_LOOP,
		bytecode.OP_POP, // exit: pop false condition
		bytecode.OP_POP, // end_scope: pop loop variable
		bytecode.OP_NIL, bytecode.OP_RETURN,
	}
	assertOps(t, got, want)
}

func assertOps(t *testing.T, got, want []bytecode.Opcode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("opcode count mismatch:\n got:  %v\n want: %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("opcode %d mismatch: got %v want %v\n full got:  %v\n full want: %v", i, got[i], want[i], got, want)
		}
	}
}

func TestReadInOwnInitializer(t *testing.T) {
	expectError(t, "{ have a := a; }", diagnostics.ReadInOwnInitializer)
}

func TestDuplicateNameInSameScope(t *testing.T) {
	expectError(t, "{ have a := 1; have a := 2; }", diagnostics.DuplicateName)
}

func TestBreakOutsideLoop(t *testing.T) {
	expectError(t, "break;", diagnostics.BreakOutsideLoop)
}

func TestContinueOutsideLoop(t *testing.T) {
	expectError(t, "continue;", diagnostics.ContinueOutsideLoop)
}

func TestReturnFromScript(t *testing.T) {
	expectError(t, "return 1;", diagnostics.ReturnFromScript)
}

func TestExpectExpressionThenResync(t *testing.T) {
	fn, errs := Compile("1 + ; have x := 1; info x;")
	if fn != nil {
		t.Fatalf("expected failure due to earlier error")
	}
	found := false
	for _, e := range errs {
		if e.Code == diagnostics.ExpectExpression {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ExpectExpression among errors, got %v", errs)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	expectError(t, "have a := 1; have b := 2; a + b = 3;", diagnostics.InvalidAssignmentTarget)
}

func TestTooManyLocals(t *testing.T) {
	src := "{\n"
	for i := 0; i < 256; i++ {
		src += "have v" + itoa(i) + " := 0;\n"
	}
	src += "}\n"
	expectError(t, src, diagnostics.TooManyLocals)
}

func Test255LocalsSucceed(t *testing.T) {
	src := "{\n"
	for i := 0; i < 255; i++ {
		src += "have v" + itoa(i) + " := 0;\n"
	}
	src += "}\n"
	mustCompile(t, src)
}

func TestTooManyConstants(t *testing.T) {
	src := ""
	for i := 0; i < 257; i++ {
		src += "info " + itoa(i) + ";\n"
	}
	expectError(t, src, diagnostics.TooManyConstants)
}

func Test256ConstantsSucceed(t *testing.T) {
	src := ""
	for i := 0; i < 256; i++ {
		src += "info " + itoa(i) + ";\n"
	}
	mustCompile(t, src)
}

func TestTooManyParams(t *testing.T) {
	src := "func f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "p" + itoa(i)
	}
	src += ") { return 1; }"
	expectError(t, src, diagnostics.TooManyParams)
}

func Test255ParamsSucceed(t *testing.T) {
	src := "func f("
	for i := 0; i < 255; i++ {
		if i > 0 {
			src += ", "
		}
		src += "p" + itoa(i)
	}
	src += ") { return 1; }"
	mustCompile(t, src)
}

// The arguments are `true` literals, which compile to OP_TRUE and take no
// constant-pool slot, so the 256-constant cap is not reached before the
// argument count check.
func TestTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "true"
	}
	src := "f(" + strings.Join(args, ", ") + ");"
	expectError(t, src, diagnostics.TooManyArguments)
}

func Test255ArgumentsSucceed(t *testing.T) {
	args := make([]string, 255)
	for i := range args {
		args[i] = "1"
	}
	src := "f(" + strings.Join(args, ", ") + ");"
	mustCompile(t, src)
}

// jumpBody returns count copies of a 2-byte-bytecode statement
// (OP_TRUE, OP_INFO), used to pad a jump's span to a precise byte count.
func jumpBody(count int) string {
	return strings.Repeat("info true;\n", count)
}

// Each jumpBody statement costs exactly 2 bytes, so the then-branch's jump
// distance lands on 2*count+4. 32765 is the largest count whose distance
// still fits in the 16-bit operand; one more statement pushes it over.
func TestJumpTooFar(t *testing.T) {
	src := "if (true) {\n" + jumpBody(32766) + "}\n"
	expectError(t, src, diagnostics.JumpTooFar)
}

func TestJumpWithinLimitSucceeds(t *testing.T) {
	src := "if (true) {\n" + jumpBody(32765) + "}\n"
	mustCompile(t, src)
}

// A while loop's back-edge distance is 2*count+8 for a body built the same
// way, so the cutoff sits two statements earlier than the if/else case.
func TestLoopBodyTooLarge(t *testing.T) {
	src := "while (true) {\n" + jumpBody(32764) + "}\n"
	expectError(t, src, diagnostics.LoopBodyTooLarge)
}

func TestLoopBodyWithinLimitSucceeds(t *testing.T) {
	src := "while (true) {\n" + jumpBody(32763) + "}\n"
	mustCompile(t, src)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
