package modules

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lumen-lang/lumen/internal/value"
)

// newUUIDModule backs `using "uuid"` over github.com/google/uuid: newV4/
// newV7 generation plus parse-and-validate, a domain dependency the
// teacher never uses but the rest of the example pack pulls in for exactly
// this purpose.
func newUUIDModule() *value.Module {
	return &value.Module{
		Name: "uuid",
		Members: map[string]value.Value{
			"newV4": native("newV4", uuidNewV4),
			"newV7": native("newV7", uuidNewV7),
			"parse": native("parse", uuidParse),
		},
	}
}

func uuidNewV4(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("newV4: expected 0 arguments, got %d", len(args))
	}
	return &value.String{Value: uuid.New().String()}, nil
}

func uuidNewV7(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("newV7: expected 0 arguments, got %d", len(args))
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("newV7: %w", err)
	}
	return &value.String{Value: id.String()}, nil
}

func uuidParse(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("parse: expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("parse: argument must be a string")
	}
	id, err := uuid.Parse(s.Value)
	if err != nil {
		return value.Bool(false), nil
	}
	return &value.String{Value: id.String()}, nil
}
