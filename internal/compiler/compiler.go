// Package compiler implements the single-pass Pratt-parser bytecode
// compiler: it consumes a token stream from internal/lexer and emits an
// internal/bytecode.Chunk wrapped in an internal/value.Function, without
// ever building an intermediate AST.
package compiler

import (
	"strconv"

	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/config"
	"github.com/lumen-lang/lumen/internal/diagnostics"
	"github.com/lumen-lang/lumen/internal/lexer"
	"github.com/lumen-lang/lumen/internal/token"
	"github.com/lumen-lang/lumen/internal/value"
)

// FunctionType distinguishes the top-level script frame from a nested
// function body.
type FunctionType int

const (
	TypeScript FunctionType = iota
	TypeFunction
)

// Local is one entry of a frame's locals table. Depth -1 means declared
// but not yet initialized (the self-reference guard).
type Local struct {
	Name  string
	Depth int
}

// LoopContext tracks the innermost loop's back-edge target and scope depth
// so break/continue can unwind locals and patch forward jumps correctly.
type LoopContext struct {
	start      int
	scopeDepth int
	breakJumps []int
}

// frame holds all compile-time state for one function body under
// construction (no upvalues, no closures).
type frame struct {
	enclosing *frame

	function *value.Function
	chunk    *bytecode.Chunk
	fnType   FunctionType

	locals     []Local
	scopeDepth int

	loopStack []LoopContext
}

func newFrame(enclosing *frame, fnType FunctionType, name string) *frame {
	chunk := bytecode.NewChunk()
	fn := &value.Function{Arity: 0, Chunk: chunk}
	if fnType != TypeScript {
		fn.Name = &value.String{Value: name}
	}
	f := &frame{
		enclosing: enclosing,
		function:  fn,
		chunk:     chunk,
		fnType:    fnType,
		locals:    make([]Local, 0, config.MaxLocals),
	}
	// Slot 0 is reserved for the callee itself.
	f.locals = append(f.locals, Local{Name: "", Depth: 0})
	return f
}

// Compiler drives the whole single-pass compile: token stream, parser
// state (previous/current/had_error/panic_mode), the current frame, and
// accumulated diagnostics.
type Compiler struct {
	lex *lexer.Lexer

	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool
	errors    []*diagnostics.Error

	cur *frame
}

// New constructs a compiler for source, ready to compile the top-level
// script frame.
func New(source string) *Compiler {
	c := &Compiler{lex: lexer.New(source)}
	c.cur = newFrame(nil, TypeScript, "")
	return c
}

// Compile runs the full single pass and returns the completed top-level
// function, or nil plus the accumulated diagnostics on failure.
func Compile(source string) (*value.Function, []*diagnostics.Error) {
	c := New(source)
	c.advance()
	for !c.check(token.EOF) {
		c.declaration()
	}
	fn := c.endCompiler()
	if c.hadError {
		return nil, c.errors
	}
	return fn, c.errors
}

func (c *Compiler) currentChunk() *bytecode.Chunk {
	return c.cur.chunk
}

// --- token stream plumbing -------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lex.Next()
		if c.current.Kind != token.ILLEGAL {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(k token.Kind) bool {
	return c.current.Kind == k
}

func (c *Compiler) match(k token.Kind) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(k token.Kind, msg string) {
	if c.current.Kind == k {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

// --- diagnostics ------------------------------------------------------------

func (c *Compiler) errorAtCurrent(msg string) {
	c.errorAt(c.current, diagnostics.UnexpectedToken, msg)
}

func (c *Compiler) error(msg string) {
	c.errorAt(c.previous, diagnostics.UnexpectedToken, msg)
}

func (c *Compiler) errorCode(code diagnostics.Code, msg string) {
	c.errorAt(c.previous, code, msg)
}

func (c *Compiler) errorAt(tok token.Token, code diagnostics.Code, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	c.errors = append(c.errors, diagnostics.New(code, tok.Line, "%s", msg))
}

// synchronize resyncs at the next statement boundary after an error.
func (c *Compiler) synchronize() {
	c.panicMode = false

	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.SEMICOLON {
			return
		}
		switch c.current.Kind {
		case token.FUNC, token.HAVE, token.FOR, token.IF, token.WHILE,
			token.INFO, token.RETURN, token.USING, token.BREAK, token.CONTINUE:
			return
		}
		c.advance()
	}
}

// numberFromLexeme parses a decimal literal the way strtod does: malformed
// input can't reach here (the lexer only emits well-formed digit runs), and
// out-of-range magnitudes silently saturate to +/-Inf.
func numberFromLexeme(lexeme string) float64 {
	f, _ := strconv.ParseFloat(lexeme, 64)
	return f
}
