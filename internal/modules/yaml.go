package modules

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/value"
	"gopkg.in/yaml.v3"
)

// newYamlModule backs `using "yaml"` over gopkg.in/yaml.v3. Lumen's value
// model has no list/record compound type, so encode/decode here are
// narrowed to YAML's scalar subtree: a decoded mapping or sequence is
// reported as an error rather than silently flattened.
func newYamlModule() *value.Module {
	return &value.Module{
		Name: "yaml",
		Members: map[string]value.Value{
			"encode": native("encode", yamlEncode),
			"decode": native("decode", yamlDecode),
		},
	}
}

func yamlEncode(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("encode: expected 1 argument, got %d", len(args))
	}
	goVal, err := valueToGo(args[0])
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	out, err := yaml.Marshal(goVal)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return &value.String{Value: string(out)}, nil
}

func yamlDecode(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("decode: expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("decode: argument must be a string")
	}
	var data any
	if err := yaml.Unmarshal([]byte(s.Value), &data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return goToValue(data)
}

func valueToGo(v value.Value) (any, error) {
	switch v := v.(type) {
	case value.Nil:
		return nil, nil
	case value.Bool:
		return bool(v), nil
	case value.Number:
		return float64(v), nil
	case *value.String:
		return v.Value, nil
	default:
		return nil, fmt.Errorf("unsupported value kind for YAML encoding: %v", v.Kind())
	}
}

func goToValue(v any) (value.Value, error) {
	switch v := v.(type) {
	case nil:
		return value.Nil{}, nil
	case bool:
		return value.Bool(v), nil
	case int:
		return value.Number(v), nil
	case int64:
		return value.Number(v), nil
	case float64:
		return value.Number(v), nil
	case string:
		return &value.String{Value: v}, nil
	default:
		return nil, fmt.Errorf("YAML value is a mapping or sequence, which Lumen's scalar value model can't represent")
	}
}
