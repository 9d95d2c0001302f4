package compiler

import "github.com/lumen-lang/lumen/internal/token"

// precedence is the Pratt ladder, low to high.
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // > >= < <=
	precTerm                  // + -
	precFactor                // * / %
	precPower                 // **
	precUnary                 // ! -
	precCall                  // ( )
	precPrimary
)

type (
	prefixFn func(c *Compiler, canAssign bool)
	infixFn  func(c *Compiler, canAssign bool)
)

type parseRule struct {
	prefix     prefixFn
	infix      infixFn
	precedence precedence
}

// rules is the static token-kind -> {prefix, infix, precedence} table,
// populated in init() since its entries are bound methods on *Compiler.
var rules map[token.Kind]parseRule

func initRules() map[token.Kind]parseRule {
	r := map[token.Kind]parseRule{
		token.LEFT_PAREN: {prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: precCall},
		token.MINUS:      {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm},
		token.PLUS:       {infix: (*Compiler).binary, precedence: precTerm},
		token.SLASH:      {infix: (*Compiler).binary, precedence: precFactor},
		token.STAR:       {infix: (*Compiler).binary, precedence: precFactor},
		token.PERCENT:    {infix: (*Compiler).binary, precedence: precFactor},
		token.POWER:      {infix: (*Compiler).binary, precedence: precPower},
		token.BANG:       {prefix: (*Compiler).unary},
		token.BANG_EQUAL: {infix: (*Compiler).binary, precedence: precEquality},
		token.EQUAL_EQUAL: {infix: (*Compiler).binary, precedence: precEquality},
		token.GREATER:       {infix: (*Compiler).binary, precedence: precComparison},
		token.GREATER_EQUAL: {infix: (*Compiler).binary, precedence: precComparison},
		token.LESS:          {infix: (*Compiler).binary, precedence: precComparison},
		token.LESS_EQUAL:    {infix: (*Compiler).binary, precedence: precComparison},
		token.IDENT:  {prefix: (*Compiler).variable},
		token.STRING: {prefix: (*Compiler).stringLiteral},
		token.NUMBER: {prefix: (*Compiler).number},
		token.AND:    {infix: (*Compiler).and_, precedence: precAnd},
		token.OR:     {infix: (*Compiler).or_, precedence: precOr},
		token.FALSE:  {prefix: (*Compiler).literal},
		token.TRUE:   {prefix: (*Compiler).literal},
		token.NIL:    {prefix: (*Compiler).literal},
	}
	return r
}

func init() {
	rules = initRules()
}

func getRule(k token.Kind) parseRule {
	return rules[k]
}
