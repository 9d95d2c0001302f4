package bundle

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestPackAndLoadArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.lum"), `info "hi";`)
	writeFile(t, filepath.Join(dir, "lib", "helpers.lum"), `func add(a, b) { return a + b; }`)
	writeFile(t, filepath.Join(dir, "README.md"), "not a source file")

	archivePath := filepath.Join(t.TempDir(), "app.txtar")
	if err := Pack(dir, archivePath); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	pkg, err := LoadArchive(archivePath)
	if err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	if len(pkg.Sources) != 2 {
		t.Fatalf("expected 2 source files in the archive, got %d: %v", len(pkg.Sources), pkg.Sources)
	}
	// txtar ends every archived file with a newline, so a source written
	// without one comes back with one appended.
	if pkg.Sources["main.lum"] != "info \"hi\";\n" {
		t.Fatalf("unexpected main.lum contents: %q", pkg.Sources["main.lum"])
	}
	if _, ok := pkg.Sources["lib/helpers.lum"]; !ok {
		t.Fatalf("expected lib/helpers.lum to be archived, got %v", pkg.Sources)
	}
}

func TestPackRejectsDirWithNoSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "nothing to compile here")

	if err := Pack(dir, filepath.Join(t.TempDir(), "out.txtar")); err == nil {
		t.Fatalf("expected an error packing a directory with no .lum files")
	}
}

func TestLoadReadsDirectoryDirectly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.lum"), `info 1;`)

	pkg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pkg.Sources["main.lum"] != `info 1;` {
		t.Fatalf("unexpected contents: %v", pkg.Sources)
	}
}
