// Command lumenc is the Lumen compiler/runner CLI. Grounded on
// cmd/funxy/main.go's manual os.Args dispatch style (flag-free, `-debug`
// checked by scanning args, panic-recovery wrapper around main), trimmed
// to the subcommands this repo's single VM backend actually needs.
package main

import (
	"bufio"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumen-lang/lumen/internal/bundle"
	"github.com/lumen-lang/lumen/internal/bytecode"
	"github.com/lumen-lang/lumen/internal/compiler"
	"github.com/lumen-lang/lumen/internal/config"
	"github.com/lumen-lang/lumen/internal/modules"
	"github.com/lumen-lang/lumen/internal/value"
	"github.com/lumen-lang/lumen/internal/vm"
	_ "modernc.org/sqlite"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "this is a bug in lumenc, please report it")
			os.Exit(1)
		}
	}()

	if os.Getenv("LUMEN_TEST_MODE") == "1" {
		config.IsTestMode = true
	}

	project, err := config.LoadProject(config.ProjectFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := os.Args[1:]
	for _, a := range args {
		if a == "-debug" || a == "--debug" {
			config.DisassembleOnCompile = true
		}
	}
	args = stripFlag(args, "-debug", "--debug")

	if len(args) == 0 {
		repl()
		return
	}

	switch args[0] {
	case "-help", "--help", "help":
		printUsage()
	case "-c", "--compile":
		exitOn(cmdCompile(args[1:], project))
	case "-r", "--run-compiled":
		exitOn(cmdRunCompiled(args[1:]))
	case "disasm":
		exitOn(cmdDisasm(args[1:], project))
	case "bundle":
		exitOn(cmdBundle(args[1:], project))
	default:
		exitOn(cmdRun(args[0], args[1:], project))
	}
}

func stripFlag(args []string, names ...string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		skip := false
		for _, n := range names {
			if a == n {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, a)
		}
	}
	return out
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lumenc - the Lumen compiler and runner

Usage:
  lumenc <file.lum>            compile and run a script
  lumenc -c <file.lum> <out>   compile a script to bytecode (.lmc)
  lumenc -r <out.lmc>          run a previously compiled chunk
  lumenc disasm <file.lum>     compile and print a disassembly listing
  lumenc bundle <dir> <out>    package a source directory into a txtar bundle
  lumenc                       start the REPL
  lumenc -debug ...            print a disassembly listing before running`)
}

// resolvePath finds the file, directory, or archive a run/compile/disasm
// subcommand should read from: path as given if it exists, otherwise the
// first project.ModulePaths entry under which it exists, trying both the
// bare name and the name with project.SourceExt appended.
func resolvePath(path string, project *config.Project) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	for _, dir := range project.ModulePaths {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		withExt := candidate + project.SourceExt
		if _, err := os.Stat(withExt); err == nil {
			return withExt, nil
		}
	}
	return "", fmt.Errorf("lumenc: %s: no such file or directory", path)
}

// loadSource resolves path against project.ModulePaths and then reads it:
// a directory or a bundle.ArchiveExt file is loaded as a (possibly
// multi-file) bundle.Package and concatenated, anything else is read as a
// single source file.
func loadSource(path string, project *config.Project) (string, error) {
	resolved, err := resolvePath(path, project)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("lumenc: %w", err)
	}

	var pkg *bundle.Package
	switch {
	case info.IsDir():
		pkg, err = bundle.Load(resolved, project.SourceExt)
	case strings.HasSuffix(resolved, bundle.ArchiveExt):
		pkg, err = bundle.LoadArchive(resolved)
	default:
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			return "", fmt.Errorf("lumenc: %w", readErr)
		}
		return string(data), nil
	}
	if err != nil {
		return "", fmt.Errorf("lumenc: %w", err)
	}
	return pkg.Concat(), nil
}

func compileFile(path string, project *config.Project) (*value.Function, error) {
	src, err := loadSource(path, project)
	if err != nil {
		return nil, err
	}
	fn, errs := compiler.Compile(src)
	if fn == nil {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return nil, fmt.Errorf("lumenc: compilation failed with %d error(s)", len(errs))
	}
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
	return fn, nil
}

func cmdRun(path string, _ []string, project *config.Project) error {
	fn, err := loadOrCompile(path, project)
	if err != nil {
		return err
	}
	if config.DisassembleOnCompile {
		printDisasm(fn)
	}
	return runFunction(fn)
}

// loadOrCompile serves a compiled chunk from the sqlite bytecode cache
// named by project.CachePath when the source's contents haven't changed,
// and falls back to compiling and populating the cache on a miss. Grounded
// on the same modernc.org/sqlite driver internal/modules' sqlite module
// exposes to Lumen source, used here directly on the Go side of the
// boundary since main is a separate package from modules.
func loadOrCompile(path string, project *config.Project) (*value.Function, error) {
	src, err := loadSource(path, project)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(src))
	key := hex.EncodeToString(sum[:])

	if chunk, ok := cacheLookup(project.CachePath, key); ok {
		return &value.Function{Chunk: chunk}, nil
	}

	fn, errs := compiler.Compile(src)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
	if fn == nil {
		return nil, fmt.Errorf("lumenc: compilation failed with %d error(s)", len(errs))
	}
	if chunk, ok := fn.Chunk.(*bytecode.Chunk); ok {
		cacheStore(project.CachePath, key, chunk)
	}
	return fn, nil
}

func cacheDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`create table if not exists bytecode_cache (key text primary key, data blob not null)`); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// cacheLookup ignores errors: a cold or unreadable cache is a miss, not a
// fatal condition, the same permissive fallback config.LoadProject uses
// for a missing lumen.yaml.
func cacheLookup(path, key string) (*bytecode.Chunk, bool) {
	db, err := cacheDB(path)
	if err != nil {
		return nil, false
	}
	defer db.Close()

	var data []byte
	if err := db.QueryRow(`select data from bytecode_cache where key = ?`, key).Scan(&data); err != nil {
		return nil, false
	}
	chunk, err := bytecode.Deserialize(data)
	if err != nil {
		return nil, false
	}
	return chunk, true
}

func cacheStore(path, key string, chunk *bytecode.Chunk) {
	data, err := bytecode.Serialize(chunk)
	if err != nil {
		return
	}
	db, err := cacheDB(path)
	if err != nil {
		return
	}
	defer db.Close()
	db.Exec(`insert or replace into bytecode_cache (key, data) values (?, ?)`, key, data)
}

func runFunction(fn *value.Function) error {
	machine := vm.New(modules.NewRegistry(), func(s string) { fmt.Println(s) })
	if err := machine.Run(fn); err != nil {
		return fmt.Errorf("lumenc: %w", err)
	}
	return nil
}

func printDisasm(fn *value.Function) {
	chunk, ok := fn.Chunk.(*bytecode.Chunk)
	if !ok {
		return
	}
	name := "<script>"
	if fn.Name != nil {
		name = fn.Name.Value
	}
	fmt.Fprint(os.Stderr, bytecode.Disassemble(chunk, name))
}

func cmdDisasm(args []string, project *config.Project) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: lumenc disasm <file.lum>")
	}
	fn, err := compileFile(args[0], project)
	if err != nil {
		return err
	}
	printDisasm(fn)
	return nil
}

func cmdCompile(args []string, project *config.Project) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: lumenc -c <file.lum> <out.lmc>")
	}
	fn, err := compileFile(args[0], project)
	if err != nil {
		return err
	}
	chunk, ok := fn.Chunk.(*bytecode.Chunk)
	if !ok {
		return fmt.Errorf("lumenc: internal error: compiled script has no chunk")
	}
	data, err := bytecode.Serialize(chunk)
	if err != nil {
		return fmt.Errorf("lumenc: %w", err)
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		return fmt.Errorf("lumenc: %w", err)
	}
	return nil
}

func cmdRunCompiled(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: lumenc -r <out.lmc>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("lumenc: %w", err)
	}
	chunk, err := bytecode.Deserialize(data)
	if err != nil {
		return fmt.Errorf("lumenc: %w", err)
	}
	fn := &value.Function{Chunk: chunk}
	return runFunction(fn)
}

func cmdBundle(args []string, project *config.Project) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: lumenc bundle <dir> <out.txtar>")
	}
	if err := bundle.Pack(args[0], args[1], project.SourceExt); err != nil {
		return fmt.Errorf("lumenc: %w", err)
	}
	return nil
}

// repl runs an interactive read-compile-run loop, coloring the prompt only
// when stdout is a terminal (modules.IsStdoutTTY's isatty check).
func repl() {
	prompt := "> "
	if modules.IsStdoutTTY() {
		prompt = "\x1b[36m>\x1b[0m "
	}

	reg := modules.NewRegistry()
	out := func(s string) { fmt.Println(s) }
	machine := vm.New(reg, out)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("lumen REPL -- Ctrl-D to exit")
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fn, errs := compiler.Compile(line)
		if fn == nil {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			continue
		}
		if err := machine.Run(fn); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
