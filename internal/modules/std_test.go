package modules

import (
	"testing"

	"github.com/lumen-lang/lumen/internal/value"
)

func TestStdLen(t *testing.T) {
	v, err := stdLen([]value.Value{&value.String{Value: "hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(value.Number) != 5 {
		t.Fatalf("got %v want 5", v)
	}
}

func TestStdTypeOf(t *testing.T) {
	cases := []struct {
		in   value.Value
		want string
	}{
		{value.Nil{}, "nil"},
		{value.Bool(true), "bool"},
		{value.Number(1), "number"},
		{&value.String{Value: "x"}, "string"},
	}
	for _, c := range cases {
		v, err := stdTypeOf([]value.Value{c.in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.(*value.String).Value != c.want {
			t.Fatalf("got %v want %v", v, c.want)
		}
	}
}

func TestStdLenRejectsNonString(t *testing.T) {
	if _, err := stdLen([]value.Value{value.Number(1)}); err == nil {
		t.Fatalf("expected an error for a non-string argument")
	}
}
