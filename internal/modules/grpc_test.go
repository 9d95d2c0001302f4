package modules

import (
	"testing"

	"github.com/lumen-lang/lumen/internal/value"
)

// A full round trip through loadProto/dial/invoke needs a running gRPC
// server plus a .proto file on disk; that belongs in an integration test,
// not here. These cover the parts reachable without a live peer: argument
// validation and method-descriptor resolution against the process-wide
// registry.

func TestGrpcInvokeRejectsNonConnArgument(t *testing.T) {
	_, err := grpcInvoke([]value.Value{
		value.Number(1),
		&value.String{Value: "pkg.Svc/Method"},
		&value.String{Value: "{}"},
	})
	if err == nil {
		t.Fatalf("expected an error when the first argument isn't a grpc.dial handle")
	}
}

func TestFindMethodDescriptorUnknownMethod(t *testing.T) {
	if _, err := findMethodDescriptor("pkg.NoSuchService/NoSuchMethod"); err == nil {
		t.Fatalf("expected an error for a method with no loaded proto descriptor")
	}
}

func TestGrpcLoadProtoRejectsMissingFile(t *testing.T) {
	if _, err := grpcLoadProto([]value.Value{&value.String{Value: "/nonexistent/service.proto"}}); err == nil {
		t.Fatalf("expected an error loading a nonexistent proto file")
	}
}
