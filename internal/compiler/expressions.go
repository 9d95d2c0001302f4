package compiler

import (
	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/config"
	"github.com/lumen-lang/lumen/internal/diagnostics"
	"github.com/lumen-lang/lumen/internal/token"
	"github.com/lumen-lang/lumen/internal/value"
)

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}

// parsePrecedence is the Pratt driver.
func (c *Compiler) parsePrecedence(prec precedence) {
	c.advance()
	rule := getRule(c.previous.Kind)
	if rule.prefix == nil {
		c.errorCode(diagnostics.ExpectExpression, "expect expression")
		return
	}

	canAssign := prec <= precAssignment
	rule.prefix(c, canAssign)

	for prec <= getRule(c.current.Kind).precedence {
		c.advance()
		infix := getRule(c.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.errorCode(diagnostics.InvalidAssignmentTarget, "invalid assignment target")
	}
}

func (c *Compiler) number(canAssign bool) {
	c.emitConstant(value.Number(numberFromLexeme(c.previous.Lexeme)))
}

func (c *Compiler) stringLiteral(canAssign bool) {
	c.emitConstant(&value.String{Value: c.previous.Lexeme})
}

func (c *Compiler) literal(canAssign bool) {
	switch c.previous.Kind {
	case token.FALSE:
		c.emit(bytecode.OP_FALSE)
	case token.TRUE:
		c.emit(bytecode.OP_TRUE)
	case token.NIL:
		c.emit(bytecode.OP_NIL)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "expect ')' after expression")
}

func (c *Compiler) unary(canAssign bool) {
	op := c.previous.Kind
	c.parsePrecedence(precUnary)
	switch op {
	case token.BANG:
		c.emit(bytecode.OP_NOT)
	case token.MINUS:
		c.emit(bytecode.OP_NEGATE)
	}
}

func (c *Compiler) binary(canAssign bool) {
	op := c.previous.Kind
	rule := getRule(op)
	c.parsePrecedence(rule.precedence + 1) // left-associative

	switch op {
	case token.PLUS:
		c.emit(bytecode.OP_ADD)
	case token.MINUS:
		c.emit(bytecode.OP_SUBTRACT)
	case token.STAR:
		c.emit(bytecode.OP_MULTIPLY)
	case token.SLASH:
		c.emit(bytecode.OP_DIVIDE)
	case token.PERCENT:
		c.emit(bytecode.OP_MODULO)
	case token.POWER:
		c.emit(bytecode.OP_POWER)
	case token.EQUAL_EQUAL:
		c.emit(bytecode.OP_EQUAL)
	case token.BANG_EQUAL:
		c.emit(bytecode.OP_EQUAL)
		c.emit(bytecode.OP_NOT)
	case token.GREATER:
		c.emit(bytecode.OP_GREATER)
	case token.GREATER_EQUAL:
		c.emit(bytecode.OP_LESS)
		c.emit(bytecode.OP_NOT)
	case token.LESS:
		c.emit(bytecode.OP_LESS)
	case token.LESS_EQUAL:
		c.emit(bytecode.OP_GREATER)
		c.emit(bytecode.OP_NOT)
	}
}

// and_ short-circuits: if the left operand is false, skip the right
// operand entirely, leaving the false value on the stack.
func (c *Compiler) and_(canAssign bool) {
	endJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	c.emit(bytecode.OP_POP)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

// or_ short-circuits the other way: skip the right operand when the left
// is already true.
func (c *Compiler) or_(canAssign bool) {
	elseJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	endJump := c.emitJump(bytecode.OP_JUMP)

	c.patchJump(elseJump)
	c.emit(bytecode.OP_POP)

	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

// call parses a comma-separated argument list up to 255 entries and emits
// OP_CALL argc.
func (c *Compiler) call(canAssign bool) {
	argc := c.argumentList()
	c.emitOpByte(bytecode.OP_CALL, byte(argc))
}

func (c *Compiler) argumentList() int {
	argc := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			if argc == config.MaxArguments {
				c.errorCode(diagnostics.TooManyArguments, "can't have more than 255 arguments")
			}
			argc++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "expect ')' after arguments")
	return argc
}

// variable is the prefix action for an identifier.
func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous.Lexeme, canAssign)
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp bytecode.Opcode
	slot := c.resolveLocal(name)
	if slot != -1 {
		getOp, setOp = bytecode.OP_GET_LOCAL, bytecode.OP_SET_LOCAL
	} else {
		slot = c.identifierConstant(name)
		getOp, setOp = bytecode.OP_GET_GLOBAL, bytecode.OP_SET_GLOBAL
	}

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emitOpByte(setOp, byte(slot))
		return
	}
	c.emitOpByte(getOp, byte(slot))
}
