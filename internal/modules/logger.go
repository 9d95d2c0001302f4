package modules

import (
	"fmt"
	"log"
	"os"

	"github.com/lumen-lang/lumen/internal/value"
)

// newLoggerModule backs `using "logger"`: structured line logging callable
// from Lumen source, at info/warn/error severities over a single sink,
// using the standard log package.
func newLoggerModule() *value.Module {
	l := log.New(os.Stderr, "", log.LstdFlags)
	return &value.Module{
		Name: "logger",
		Members: map[string]value.Value{
			"info":  native("info", loggerAt(l, "INFO")),
			"warn":  native("warn", loggerAt(l, "WARN")),
			"error": native("error", loggerAt(l, "ERROR")),
		},
	}
}

func loggerAt(l *log.Logger, severity string) value.NativeFn {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: expected 1 argument, got %d", severity, len(args))
		}
		l.Printf("[%s] %s", severity, args[0].Inspect())
		return value.Nil{}, nil
	}
}
