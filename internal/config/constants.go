// Package config holds process-wide compiler/runtime constants and a
// couple of mutable flags kept at package scope (IsTestMode,
// DisassembleOnCompile).
package config

const SourceFileExt = ".lum"

// SourceFileExtensions are all recognized Lumen source file extensions.
var SourceFileExtensions = []string{".lum", ".lumen"}

// BytecodeFileExt is the extension used for compiled chunks written by
// `lumenc -c`.
const BytecodeFileExt = ".lmc"

// IsTestMode is set by lumenc when the LUMEN_TEST_MODE env var is "1".
var IsTestMode = false

// DisassembleOnCompile (set by lumenc's -debug flag) gates whether lumenc
// prints a disassembly listing of a compiled script before running it.
var DisassembleOnCompile = false

// Structural limits, named here instead of as magic numbers scattered
// through internal/compiler.
const (
	MaxLocals    = 256
	MaxConstants = 256
	MaxParams    = 255
	MaxArguments = 255
	MaxJump      = 0xFFFF
)

// Built-in function names exposed by the registry's "std" module.
const (
	PrintFuncName  = "print"
	LenFuncName    = "len"
	TypeOfFuncName = "typeOf"
)
