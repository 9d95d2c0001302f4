package modules

import (
	"fmt"
	"os"

	"github.com/lumen-lang/lumen/internal/value"
)

// newFsModule backs `using "fs"`: file read/write/exists, directly over
// the os package. Nothing richer is needed for what Lumen scripts do with
// a filesystem (read a file, write a file, check existence).
func newFsModule() *value.Module {
	return &value.Module{
		Name: "fs",
		Members: map[string]value.Value{
			"readFile":  native("readFile", fsReadFile),
			"writeFile": native("writeFile", fsWriteFile),
			"exists":    native("exists", fsExists),
		},
	}
}

func fsReadFile(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("readFile: expected 1 argument, got %d", len(args))
	}
	path, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("readFile: path must be a string")
	}
	data, err := os.ReadFile(path.Value)
	if err != nil {
		return nil, err
	}
	return &value.String{Value: string(data)}, nil
}

func fsWriteFile(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("writeFile: expected 2 arguments, got %d", len(args))
	}
	path, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("writeFile: path must be a string")
	}
	contents, ok := args[1].(*value.String)
	if !ok {
		return nil, fmt.Errorf("writeFile: contents must be a string")
	}
	if err := os.WriteFile(path.Value, []byte(contents.Value), 0o644); err != nil {
		return nil, err
	}
	return value.Nil{}, nil
}

func fsExists(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("exists: expected 1 argument, got %d", len(args))
	}
	path, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("exists: path must be a string")
	}
	_, err := os.Stat(path.Value)
	return value.Bool(err == nil), nil
}
