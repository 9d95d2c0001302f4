package modules

import (
	"fmt"
	"os"

	"github.com/lumen-lang/lumen/internal/value"
	"github.com/mattn/go-isatty"
)

// newTermModule backs `using "term"`: isTTY over go-isatty, plus a
// handful of ANSI color wrappers (red/green/gray/isTTY). cmd/lumen's REPL
// uses the same isatty calls directly to decide whether to print color,
// rather than going through this module.
func newTermModule() *value.Module {
	return &value.Module{
		Name: "term",
		Members: map[string]value.Value{
			"isTTY": native("isTTY", termIsTTY),
			"red":   native("red", termColor("31")),
			"green": native("green", termColor("32")),
			"gray":  native("gray", termColor("90")),
		},
	}
}

// IsStdoutTTY reports whether stdout is an interactive terminal. The
// Cygwin check catches Cygwin/MSYS2 terminals, which plain IsTerminal
// misses.
func IsStdoutTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func termIsTTY(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("isTTY: expected 0 arguments, got %d", len(args))
	}
	return value.Bool(IsStdoutTTY()), nil
}

func termColor(code string) value.NativeFn {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		s, ok := args[0].(*value.String)
		if !ok {
			return nil, fmt.Errorf("argument must be a string")
		}
		if !IsStdoutTTY() {
			return &value.String{Value: s.Value}, nil
		}
		return &value.String{Value: fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, s.Value)}, nil
	}
}
