package compiler

import (
	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/config"
	"github.com/lumen-lang/lumen/internal/diagnostics"
	"github.com/lumen-lang/lumen/internal/token"
	"github.com/lumen-lang/lumen/internal/value"
)

func (c *Compiler) beginScope() {
	c.cur.scopeDepth++
}

// endScope pops the trailing run of locals whose depth exceeds the scope
// just closed, emitting one OP_POP per local.
func (c *Compiler) endScope() {
	c.cur.scopeDepth--

	locals := c.cur.locals
	for len(locals) > 0 && locals[len(locals)-1].Depth > c.cur.scopeDepth {
		c.emit(bytecode.OP_POP)
		locals = locals[:len(locals)-1]
	}
	c.cur.locals = locals
}

func (c *Compiler) addLocal(name string) {
	if len(c.cur.locals) >= config.MaxLocals {
		c.errorCode(diagnostics.TooManyLocals, "too many local variables in function")
		return
	}
	c.cur.locals = append(c.cur.locals, Local{Name: name, Depth: -1})
}

// declareVariable is a no-op at global scope; otherwise it checks for a
// same-scope redeclaration before reserving the new local's slot.
func (c *Compiler) declareVariable(name string) {
	if c.cur.scopeDepth == 0 {
		return
	}

	locals := c.cur.locals
	for i := len(locals) - 1; i >= 0; i-- {
		local := locals[i]
		if local.Depth != -1 && local.Depth < c.cur.scopeDepth {
			break
		}
		if local.Name == name {
			c.errorCode(diagnostics.DuplicateName, "variable '"+name+"' already declared in this scope")
		}
	}

	c.addLocal(name)
}

// markInitialized sets the most recent local's depth, making it visible to
// resolveLocal. At global scope it is a no-op: globals are handled by
// OP_DEFINE_GLOBAL instead.
func (c *Compiler) markInitialized() {
	if c.cur.scopeDepth == 0 {
		return
	}
	c.cur.locals[len(c.cur.locals)-1].Depth = c.cur.scopeDepth
}

// resolveLocal returns the slot for name in the current frame, or -1 if it
// names a global. A match still mid-initialization (depth -1) is reported
// as ReadInOwnInitializer but its slot is returned anyway, to avoid
// cascading errors down the line.
func (c *Compiler) resolveLocal(name string) int {
	locals := c.cur.locals
	for i := len(locals) - 1; i >= 0; i-- {
		if locals[i].Name == name {
			if locals[i].Depth == -1 {
				c.errorCode(diagnostics.ReadInOwnInitializer, "can't read local variable '"+name+"' in its own initializer")
			}
			return i
		}
	}
	return -1
}

// identifierConstant interns name's lexeme as a string constant.
func (c *Compiler) identifierConstant(name string) int {
	return c.makeConstant(&value.String{Value: name})
}

// parseVariable consumes an identifier, declares it, and returns the
// constant-pool index to hand to defineVariable (0, unused, for locals).
func (c *Compiler) parseVariable(msg string) int {
	c.consume(token.IDENT, msg)
	name := c.previous.Lexeme

	c.declareVariable(name)
	if c.cur.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

func (c *Compiler) defineVariable(global int) {
	if c.cur.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(bytecode.OP_DEFINE_GLOBAL, byte(global))
}
