package modules

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/config"
	"github.com/lumen-lang/lumen/internal/value"
)

// newStdModule backs `using "std"`: the handful of ambient built-ins no
// third-party library is a better fit for than fmt.
func newStdModule() *value.Module {
	return &value.Module{
		Name: "std",
		Members: map[string]value.Value{
			config.PrintFuncName:  native(config.PrintFuncName, stdPrint),
			config.LenFuncName:    native(config.LenFuncName, stdLen),
			config.TypeOfFuncName: native(config.TypeOfFuncName, stdTypeOf),
		},
	}
}

func stdPrint(args []value.Value) (value.Value, error) {
	for i, a := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(a.Inspect())
	}
	fmt.Println()
	return value.Nil{}, nil
}

func stdLen(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len: expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("len: argument must be a string")
	}
	return value.Number(len(s.Value)), nil
}

func stdTypeOf(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("typeOf: expected 1 argument, got %d", len(args))
	}
	var name string
	switch args[0].Kind() {
	case value.NilKind:
		name = "nil"
	case value.BoolKind:
		name = "bool"
	case value.NumberKind:
		name = "number"
	case value.StringKind:
		name = "string"
	case value.FunctionKind:
		name = "function"
	case value.NativeKind:
		name = "native"
	case value.ModuleKind:
		name = "module"
	default:
		name = "unknown"
	}
	return &value.String{Value: name}, nil
}
