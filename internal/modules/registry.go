// Package modules implements the native-function/module registry that
// OP_IMPORT resolves against at run time: one map[string]value.Value per
// virtual package, since there is no type system to attach type
// information to.
package modules

import "github.com/lumen-lang/lumen/internal/value"

// Registry resolves a `using "name"` import to a Module value.
type Registry struct {
	modules map[string]func() *value.Module
	cache   map[string]*value.Module
}

// NewRegistry builds the registry with every built-in module wired in:
// std/math/fs/logger are the stdlib-backed core modules; yaml/uuid/term/
// bits/sqlite/grpc round out the domain-specific ones.
func NewRegistry() *Registry {
	r := &Registry{
		modules: make(map[string]func() *value.Module),
		cache:   make(map[string]*value.Module),
	}
	r.modules["std"] = newStdModule
	r.modules["math"] = newMathModule
	r.modules["fs"] = newFsModule
	r.modules["logger"] = newLoggerModule
	r.modules["yaml"] = newYamlModule
	r.modules["uuid"] = newUUIDModule
	r.modules["term"] = newTermModule
	r.modules["bits"] = newBitsModule
	r.modules["sqlite"] = newSQLiteModule
	r.modules["grpc"] = newGRPCModule
	return r
}

// Lookup resolves name to its Module value, building and memoizing it on
// first use. An unknown name is a runtime error, not a compile error:
// the compiler only emits OP_IMPORT, leaving resolution to the runtime.
func (r *Registry) Lookup(name string) (*value.Module, bool) {
	if m, ok := r.cache[name]; ok {
		return m, true
	}
	build, ok := r.modules[name]
	if !ok {
		return nil, false
	}
	m := build()
	r.cache[name] = m
	return m, true
}

func native(name string, fn value.NativeFn) *value.Native {
	return &value.Native{Name: name, Fn: fn}
}
