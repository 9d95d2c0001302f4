package modules

import (
	"testing"

	"github.com/lumen-lang/lumen/internal/value"
)

// go test's own harness rarely runs with stdout attached to a terminal, so
// the color wrappers are exercised for their non-TTY passthrough path here;
// IsStdoutTTY itself just forwards to go-isatty and isn't worth mocking.
func TestTermColorPassthroughWhenNotATTY(t *testing.T) {
	if IsStdoutTTY() {
		t.Skip("stdout is a terminal in this environment; passthrough path not exercised")
	}
	v, err := termColor("31")([]value.Value{&value.String{Value: "warn"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*value.String).Value != "warn" {
		t.Fatalf("expected unmodified text when not a TTY, got %q", v.(*value.String).Value)
	}
}

func TestTermIsTTYReturnsBool(t *testing.T) {
	v, err := termIsTTY(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(value.Bool); !ok {
		t.Fatalf("expected a Bool, got %T", v)
	}
}
