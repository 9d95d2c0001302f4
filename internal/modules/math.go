package modules

import (
	"fmt"
	"math"

	"github.com/lumen-lang/lumen/internal/value"
)

// newMathModule backs `using "math"`. No third-party library covers basic
// transcendental functions any better than the standard math package.
func newMathModule() *value.Module {
	return &value.Module{
		Name: "math",
		Members: map[string]value.Value{
			"sqrt":  native("sqrt", mathUnary(math.Sqrt)),
			"abs":   native("abs", mathUnary(math.Abs)),
			"floor": native("floor", mathUnary(math.Floor)),
			"ceil":  native("ceil", mathUnary(math.Ceil)),
			"pow":   native("pow", mathPow),
		},
	}
}

func mathUnary(f func(float64) float64) value.NativeFn {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		n, ok := args[0].(value.Number)
		if !ok {
			return nil, fmt.Errorf("argument must be a number")
		}
		return value.Number(f(float64(n))), nil
	}
}

func mathPow(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("pow: expected 2 arguments, got %d", len(args))
	}
	base, ok := args[0].(value.Number)
	if !ok {
		return nil, fmt.Errorf("pow: base must be a number")
	}
	exp, ok := args[1].(value.Number)
	if !ok {
		return nil, fmt.Errorf("pow: exponent must be a number")
	}
	return value.Number(math.Pow(float64(base), float64(exp))), nil
}
