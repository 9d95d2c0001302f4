package modules

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/lumen-lang/lumen/internal/value"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// newGRPCModule backs `using "grpc"`: dynamic unary RPC invocation by
// fully-qualified method name against a descriptor resolved at runtime via
// protoreflect, so Lumen source never needs generated stubs. A
// *grpc.ClientConn is wrapped in a value.Opaque, and the proto file
// registry is keyed by proto file name. Request/response payloads cross
// the Lumen boundary as JSON text (dynamic.Message's own JSON marshaling)
// rather than as protoreflect-typed structures, the same scalar narrowing
// the yaml module applies, since Lumen has no compound value type to hold
// a decoded message natively.
func newGRPCModule() *value.Module {
	return &value.Module{
		Name: "grpc",
		Members: map[string]value.Value{
			"dial":      native("dial", grpcDial),
			"close":     native("close", grpcClose),
			"loadProto": native("loadProto", grpcLoadProto),
			"invoke":    native("invoke", grpcInvoke),
		},
	}
}

var (
	protoRegistry      = map[string]*desc.FileDescriptor{}
	protoRegistryMutex sync.RWMutex
)

func grpcDial(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("dial: expected 1 argument, got %d", len(args))
	}
	target, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("dial: target must be a string")
	}
	conn, err := grpc.NewClient(target.Value, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &value.Opaque{Tag: "grpcConn", Value: conn}, nil
}

func grpcClose(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("close: expected 1 argument, got %d", len(args))
	}
	conn, err := asGRPCConn(args[0])
	if err != nil {
		return nil, fmt.Errorf("close: %w", err)
	}
	if err := conn.Close(); err != nil {
		return nil, fmt.Errorf("close: %w", err)
	}
	return value.Nil{}, nil
}

func grpcLoadProto(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("loadProto: expected 1 argument, got %d", len(args))
	}
	path, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("loadProto: path must be a string")
	}

	parser := protoparse.Parser{ImportPaths: []string{"."}}
	fds, err := parser.ParseFiles(path.Value)
	if err != nil {
		return nil, fmt.Errorf("loadProto: %w", err)
	}

	protoRegistryMutex.Lock()
	defer protoRegistryMutex.Unlock()
	for _, fd := range fds {
		protoRegistry[fd.GetName()] = fd
	}
	return value.Nil{}, nil
}

func findMethodDescriptor(methodPath string) (*desc.MethodDescriptor, error) {
	protoRegistryMutex.RLock()
	defer protoRegistryMutex.RUnlock()
	for _, fd := range protoRegistry {
		for _, svc := range fd.GetServices() {
			for _, m := range svc.GetMethods() {
				if svc.GetFullyQualifiedName()+"/"+m.GetName() == methodPath {
					return m, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("method %q not found in any loaded proto file", methodPath)
}

func grpcInvoke(args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("invoke: expected 3 arguments (conn, method, requestJson), got %d", len(args))
	}
	conn, err := asGRPCConn(args[0])
	if err != nil {
		return nil, fmt.Errorf("invoke: %w", err)
	}
	method, ok := args[1].(*value.String)
	if !ok {
		return nil, fmt.Errorf("invoke: method must be a string")
	}
	reqJSON, ok := args[2].(*value.String)
	if !ok {
		return nil, fmt.Errorf("invoke: request must be a JSON string")
	}

	md, err := findMethodDescriptor(method.Value)
	if err != nil {
		return nil, fmt.Errorf("invoke: %w", err)
	}

	reqMsg := dynamic.NewMessage(md.GetInputType())
	if err := reqMsg.UnmarshalJSON([]byte(reqJSON.Value)); err != nil {
		return nil, fmt.Errorf("invoke: failed to build request: %w", err)
	}
	respMsg := dynamic.NewMessage(md.GetOutputType())

	fullMethod := "/" + method.Value
	if err := conn.Invoke(context.Background(), fullMethod, reqMsg, respMsg); err != nil {
		return nil, fmt.Errorf("invoke: %w", err)
	}

	respJSON, err := respMsg.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("invoke: failed to encode response: %w", err)
	}
	return &value.String{Value: string(respJSON)}, nil
}

func asGRPCConn(v value.Value) (*grpc.ClientConn, error) {
	o, ok := v.(*value.Opaque)
	if !ok || o.Tag != "grpcConn" {
		return nil, fmt.Errorf("expected a value returned by grpc.dial")
	}
	conn, ok := o.Value.(*grpc.ClientConn)
	if !ok {
		return nil, fmt.Errorf("corrupt grpc connection handle")
	}
	return conn, nil
}
