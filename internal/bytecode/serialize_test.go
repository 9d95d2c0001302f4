package bytecode

import (
	"testing"

	"github.com/lumen-lang/lumen/internal/value"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	chunk := NewChunk()
	idx := chunk.AddConstant(&value.String{Value: "hello"})
	chunk.WriteOp(OP_CONSTANT, 1)
	chunk.Write(byte(idx), 1)
	chunk.WriteOp(OP_RETURN, 1)

	data, err := Serialize(chunk)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(got.Code) != len(chunk.Code) {
		t.Fatalf("code length mismatch: got %d want %d", len(got.Code), len(chunk.Code))
	}
	for i := range chunk.Code {
		if got.Code[i] != chunk.Code[i] {
			t.Fatalf("code byte %d mismatch: got %d want %d", i, got.Code[i], chunk.Code[i])
		}
	}
	if len(got.Constants) != 1 || got.Constants[0].(*value.String).Value != "hello" {
		t.Fatalf("constant pool did not round-trip: %v", got.Constants)
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	if _, err := Deserialize([]byte("not a chunk")); err == nil {
		t.Fatalf("expected an error for data with no lumen bytecode magic")
	}
}
