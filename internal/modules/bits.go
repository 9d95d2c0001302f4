package modules

import (
	"fmt"

	"github.com/funvibe/funbit/pkg/funbit"
	"github.com/lumen-lang/lumen/internal/value"
)

// newBitsModule backs `using "bits"` over github.com/funvibe/funbit's
// Erlang-style bit syntax builder/matcher, narrowed the same way the yaml
// module is narrowed to scalars: Lumen's value model has no list type to
// hold a multi-field spec, so pack/unpack here cover the single-field case
// (a byte string carrying one N-bit integer), the smallest slice of the
// library's bit-syntax semantics that fits without inventing a compound
// value type.
func newBitsModule() *value.Module {
	return &value.Module{
		Name: "bits",
		Members: map[string]value.Value{
			"pack":   native("pack", bitsPack),
			"unpack": native("unpack", bitsUnpack),
		},
	}
}

func bitsPack(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("pack: expected 2 arguments (value, bitSize), got %d", len(args))
	}
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, fmt.Errorf("pack: value must be a number")
	}
	size, ok := args[1].(value.Number)
	if !ok {
		return nil, fmt.Errorf("pack: bitSize must be a number")
	}

	builder := funbit.NewBuilder()
	builder.AddInteger(uint64(n), funbit.WithSize(uint(size)))
	packed, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	return &value.String{Value: string(packed.ToBytes())}, nil
}

func bitsUnpack(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("unpack: expected 2 arguments (bytes, bitSize), got %d", len(args))
	}
	s, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("unpack: bytes must be a string")
	}
	size, ok := args[1].(value.Number)
	if !ok {
		return nil, fmt.Errorf("unpack: bitSize must be a number")
	}

	var out uint64
	matcher := funbit.NewMatcher()
	matcher.Integer(&out, funbit.WithSize(uint(size)))
	if _, err := funbit.Match(matcher, funbit.NewBitStringFromBytes([]byte(s.Value))); err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}
	return value.Number(out), nil
}
