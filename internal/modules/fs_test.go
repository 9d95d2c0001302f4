package modules

import (
	"path/filepath"
	"testing"

	"github.com/lumen-lang/lumen/internal/value"
)

func TestFsWriteReadExistsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")

	if _, err := fsExists([]value.Value{&value.String{Value: path}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := fsWriteFile([]value.Value{&value.String{Value: path}, &value.String{Value: "hello"}}); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	existsVal, err := fsExists([]value.Value{&value.String{Value: path}})
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if existsVal != value.Bool(true) {
		t.Fatalf("expected file to exist after writeFile")
	}

	contents, err := fsReadFile([]value.Value{&value.String{Value: path}})
	if err != nil {
		t.Fatalf("readFile: %v", err)
	}
	if contents.(*value.String).Value != "hello" {
		t.Fatalf("got %v want hello", contents)
	}
}

func TestFsReadFileMissingReturnsError(t *testing.T) {
	if _, err := fsReadFile([]value.Value{&value.String{Value: "/nonexistent/path/does/not/exist"}}); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
