// Package diagnostics implements the compiler's accumulated-error model:
// errors are recorded, not thrown, so compilation can keep going and report
// more than one mistake per run.
package diagnostics

import "fmt"

// Code identifies the kind of compile error.
type Code int

const (
	UnexpectedToken Code = iota
	ExpectExpression
	InvalidAssignmentTarget
	TooManyConstants
	TooManyLocals
	TooManyParams
	TooManyArguments
	DuplicateName
	ReadInOwnInitializer
	ReturnFromScript
	JumpTooFar
	LoopBodyTooLarge
	ContinueOutsideLoop
	BreakOutsideLoop
)

var codeNames = map[Code]string{
	UnexpectedToken:         "UnexpectedToken",
	ExpectExpression:        "ExpectExpression",
	InvalidAssignmentTarget: "InvalidAssignmentTarget",
	TooManyConstants:        "TooManyConstants",
	TooManyLocals:           "TooManyLocals",
	TooManyParams:           "TooManyParams",
	TooManyArguments:        "TooManyArguments",
	DuplicateName:           "DuplicateName",
	ReadInOwnInitializer:    "ReadInOwnInitializer",
	ReturnFromScript:        "ReturnFromScript",
	JumpTooFar:              "JumpTooFar",
	LoopBodyTooLarge:        "LoopBodyTooLarge",
	ContinueOutsideLoop:     "ContinueOutsideLoop",
	BreakOutsideLoop:        "BreakOutsideLoop",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Error is one accumulated compile diagnostic: a code, the source line it
// was raised at, and a human-readable message.
type Error struct {
	Code    Code
	Line    int
	Message string
}

func New(code Code, line int, format string, args ...any) *Error {
	return &Error{Code: code, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] %s: %s", e.Line, e.Code, e.Message)
}
