// Package bundle implements `lumenc bundle`: packaging a directory of
// Lumen source files into a single txtar archive, and loading a package
// either from a directory or from one bundled archive file. There is no
// user-module import system to serialize a compiled dependency graph for
// here — only `using` against the native registry, which needs no
// bundling at all — so this stays at source-level packaging.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lumen-lang/lumen/internal/config"
	"golang.org/x/tools/txtar"
)

// ArchiveExt is the file extension a bundled package is recognized by.
const ArchiveExt = ".txtar"

// Pack walks dir for every recognized source file, archiving each as a
// txtar file section keyed by its path relative to dir, and writes the
// result to outPath. extraExt names additional source extensions to
// recognize beyond config.SourceFileExtensions (a project's configured
// source extension, typically).
func Pack(dir, outPath string, extraExt ...string) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !hasSourceExt(path, extraExt...) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("bundle: walk %s: %w", dir, err)
	}
	sort.Strings(files)

	ar := &txtar.Archive{}
	for _, path := range files {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("bundle: rel %s: %w", path, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("bundle: read %s: %w", path, err)
		}
		ar.Files = append(ar.Files, txtar.File{Name: filepath.ToSlash(rel), Data: data})
	}
	if len(ar.Files) == 0 {
		return fmt.Errorf("bundle: no %s files found under %s", config.SourceFileExt, dir)
	}

	return os.WriteFile(outPath, txtar.Format(ar), 0o644)
}

func hasSourceExt(path string, extraExt ...string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	for _, ext := range extraExt {
		if ext != "" && strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Package is a set of loaded source files, read either from a plain
// directory (Load) or unpacked from a bundled archive (LoadArchive).
type Package struct {
	Name    string
	Sources map[string]string // relative path -> contents
}

// Concat joins every file in the package into one compilation unit, in
// sorted path order. Lumen has no cross-file import of its own, so a
// package's globals are just the union of its files' top-level
// declarations, concatenated in a deterministic order.
func (p *Package) Concat() string {
	names := make([]string, 0, len(p.Sources))
	for name := range p.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(p.Sources[name])
		b.WriteString("\n")
	}
	return b.String()
}

// LoadArchive reads a bundle written by Pack.
func LoadArchive(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	ar := txtar.Parse(data)
	pkg := &Package{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Sources: make(map[string]string, len(ar.Files)),
	}
	for _, f := range ar.Files {
		pkg.Sources[f.Name] = string(f.Data)
	}
	return pkg, nil
}

// Load reads every source file directly from dir, without archiving.
func Load(dir string, extraExt ...string) (*Package, error) {
	pkg := &Package{Name: filepath.Base(dir), Sources: make(map[string]string)}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasSourceExt(path, extraExt...) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		pkg.Sources[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	return pkg, nil
}
