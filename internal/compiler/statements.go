package compiler

import (
	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/config"
	"github.com/lumen-lang/lumen/internal/diagnostics"
	"github.com/lumen-lang/lumen/internal/token"
	"github.com/lumen-lang/lumen/internal/value"
)

// declaration dispatches func/have declarations, resyncing after an error
// by skipping forward to the next statement boundary.
func (c *Compiler) declaration() {
	switch {
	case c.match(token.FUNC):
		c.funcDeclaration()
	case c.match(token.HAVE):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.INFO):
		c.infoStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.CONTINUE):
		c.continueStatement()
	case c.match(token.BREAK):
		c.breakStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.USING):
		c.usingStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "expect '}' after block")
}

// funcDeclaration declares the name early (mark_initialized before the
// body compiles) so the function can call itself recursively.
func (c *Compiler) funcDeclaration() {
	global := c.parseVariable("expect function name")
	c.markInitialized()
	c.function(TypeFunction)
	c.defineVariable(global)
}

// function compiles a nested function body in its own frame: parameters
// become the first locals, then the block, then the frame is torn down
// and the completed function is emitted as a constant in the enclosing
// chunk.
func (c *Compiler) function(fnType FunctionType) {
	name := c.previous.Lexeme
	enclosing := c.cur
	c.cur = newFrame(enclosing, fnType, name)
	c.beginScope()

	c.consume(token.LEFT_PAREN, "expect '(' after function name")
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.cur.function.Arity++
			if c.cur.function.Arity > config.MaxParams {
				c.errorCode(diagnostics.TooManyParams, "can't have more than 255 parameters")
			}
			paramConst := c.parseVariable("expect parameter name")
			c.defineVariable(paramConst)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "expect ')' after parameters")
	c.consume(token.LEFT_BRACE, "expect '{' before function body")
	c.block()

	fn := c.endCompiler()
	c.emitConstant(fn)
}

// varDeclaration implements `have x` / `have x := expr;`. Only `:=` is
// recognized as the initializer token; a bare `=` fails the `;` check and
// is reported as UnexpectedToken.
func (c *Compiler) varDeclaration() {
	global := c.parseVariable("expect variable name")

	if c.match(token.WALRUS) {
		c.expression()
	} else {
		c.emit(bytecode.OP_NIL)
	}
	c.consume(token.SEMICOLON, "expect ';' after variable declaration")

	c.defineVariable(global)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "expect ';' after expression")
	c.emit(bytecode.OP_POP)
}

func (c *Compiler) infoStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "expect ';' after value")
	c.emit(bytecode.OP_INFO)
}

func (c *Compiler) returnStatement() {
	if c.cur.fnType == TypeScript {
		c.errorCode(diagnostics.ReturnFromScript, "can't return from top-level code")
	}

	if c.match(token.SEMICOLON) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(token.SEMICOLON, "expect ';' after return value")
	c.emit(bytecode.OP_RETURN)
}

func (c *Compiler) ifStatement() {
	c.consume(token.LEFT_PAREN, "expect '(' after 'if'")
	c.expression()
	c.consume(token.RIGHT_PAREN, "expect ')' after condition")

	thenJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	c.emit(bytecode.OP_POP)
	c.statement()

	elseJump := c.emitJump(bytecode.OP_JUMP)
	c.patchJump(thenJump)
	c.emit(bytecode.OP_POP)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.currentChunk().Len()
	c.cur.loopStack = append(c.cur.loopStack, LoopContext{start: loopStart, scopeDepth: c.cur.scopeDepth})

	c.consume(token.LEFT_PAREN, "expect '(' after 'while'")
	c.expression()
	c.consume(token.RIGHT_PAREN, "expect ')' after condition")

	exitJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	c.emit(bytecode.OP_POP)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emit(bytecode.OP_POP)

	c.patchBreaks()
}

// forStatement de-sugars the classic three-clause C for loop: the back
// edge from the body targets the increment clause, which then jumps to
// the condition check.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "expect '(' after 'for'")

	switch {
	case c.match(token.SEMICOLON):
		// no initializer
	case c.match(token.HAVE):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.currentChunk().Len()
	c.cur.loopStack = append(c.cur.loopStack, LoopContext{start: loopStart, scopeDepth: c.cur.scopeDepth})

	exitJump := -1
	if !c.check(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "expect ';' after loop condition")
		exitJump = c.emitJump(bytecode.OP_JUMP_IF_FALSE)
		c.emit(bytecode.OP_POP)
	} else {
		c.consume(token.SEMICOLON, "expect ';' after loop condition")
	}

	if !c.check(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(bytecode.OP_JUMP)
		incrementStart := c.currentChunk().Len()
		c.expression()
		c.emit(bytecode.OP_POP)
		c.consume(token.RIGHT_PAREN, "expect ')' after for clauses")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.loopStackTop().start = loopStart
		c.patchJump(bodyJump)
	} else {
		c.consume(token.RIGHT_PAREN, "expect ')' after for clauses")
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emit(bytecode.OP_POP)
	}

	c.patchBreaks()
	c.endScope()
}

func (c *Compiler) loopStackTop() *LoopContext {
	return &c.cur.loopStack[len(c.cur.loopStack)-1]
}

func (c *Compiler) patchBreaks() {
	loop := c.loopStackTop()
	for _, jump := range loop.breakJumps {
		c.patchJump(jump)
	}
	c.cur.loopStack = c.cur.loopStack[:len(c.cur.loopStack)-1]
}

// popLocalsAbove emits one OP_POP per local declared since the loop began,
// without shrinking the locals table (the scope is still active) -- used
// by both break and continue to keep the stack in sync on early exit.
func (c *Compiler) popLocalsAbove(scopeDepth int) {
	locals := c.cur.locals
	for i := len(locals) - 1; i >= 0 && locals[i].Depth > scopeDepth; i-- {
		c.emit(bytecode.OP_POP)
	}
}

func (c *Compiler) continueStatement() {
	if len(c.cur.loopStack) == 0 {
		c.errorCode(diagnostics.ContinueOutsideLoop, "can't use 'continue' outside of a loop")
		c.consume(token.SEMICOLON, "expect ';' after 'continue'")
		return
	}
	loop := c.loopStackTop()
	c.popLocalsAbove(loop.scopeDepth)
	c.emitLoop(loop.start)
	c.consume(token.SEMICOLON, "expect ';' after 'continue'")
}

// breakStatement unwinds locals exactly like continue, then emits a
// forward jump recorded on the loop context and patched once the loop's
// exit point is known, rather than a VM-patched OP_BREAK opcode.
func (c *Compiler) breakStatement() {
	if len(c.cur.loopStack) == 0 {
		c.errorCode(diagnostics.BreakOutsideLoop, "can't use 'break' outside of a loop")
		c.consume(token.SEMICOLON, "expect ';' after 'break'")
		return
	}
	loop := c.loopStackTop()
	c.popLocalsAbove(loop.scopeDepth)
	jump := c.emitJump(bytecode.OP_JUMP)
	loop.breakJumps = append(loop.breakJumps, jump)
	c.consume(token.SEMICOLON, "expect ';' after 'break'")
}

// usingStatement interns the module path string and emits OP_IMPORT; the
// native-module registry resolves the actual import at run time.
func (c *Compiler) usingStatement() {
	c.consume(token.STRING, "expect module name string after 'using'")
	path := c.previous.Lexeme
	c.emitConstant(&value.String{Value: path})
	c.emit(bytecode.OP_IMPORT)
	c.consume(token.SEMICOLON, "expect ';' after 'using' statement")
}
