package modules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lumen-lang/lumen/internal/value"
)

func TestUUIDNewV4LooksLikeAUUID(t *testing.T) {
	v, err := uuidNewV4(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(v.(*value.String).Value); err != nil {
		t.Fatalf("newV4 produced an unparsable uuid: %v", err)
	}
}

func TestUUIDParseRoundTrip(t *testing.T) {
	id := uuid.New().String()
	v, err := uuidParse([]value.Value{&value.String{Value: id}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*value.String).Value != id {
		t.Fatalf("got %v want %v", v, id)
	}
}

func TestUUIDParseInvalidReturnsFalse(t *testing.T) {
	v, err := uuidParse([]value.Value{&value.String{Value: "not-a-uuid"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != value.Bool(false) {
		t.Fatalf("expected Bool(false) for an invalid uuid, got %v", v)
	}
}
