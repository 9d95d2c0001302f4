package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectMissingFileReturnsDefaults(t *testing.T) {
	p, err := LoadProject(filepath.Join(t.TempDir(), "lumen.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SourceExt != SourceFileExt {
		t.Fatalf("got %q want %q", p.SourceExt, SourceFileExt)
	}
	if p.CachePath == "" {
		t.Fatalf("expected a default cache path")
	}
}

func TestLoadProjectOverlaysFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.yaml")
	contents := "modulePaths:\n  - ./vendor/lumen-modules\ncachePath: ./build/cache.db\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if len(p.ModulePaths) != 1 || p.ModulePaths[0] != "./vendor/lumen-modules" {
		t.Fatalf("unexpected modulePaths: %v", p.ModulePaths)
	}
	if p.CachePath != "./build/cache.db" {
		t.Fatalf("got %q want ./build/cache.db", p.CachePath)
	}
	if p.SourceExt != SourceFileExt {
		t.Fatalf("expected sourceExt to fall back to the default, got %q", p.SourceExt)
	}
}

func TestLoadProjectRejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.yaml")
	if err := os.WriteFile(path, []byte("not: [valid"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadProject(path); err == nil {
		t.Fatalf("expected an error for malformed yaml")
	}
}
