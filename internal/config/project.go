package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the default name of a project's config file, discovered
// in the directory a script or bundle is run from.
const ProjectFile = "lumen.yaml"

// Project holds settings that are per-project rather than per-build: which
// directories lumenc searches for a script named on the command line, which
// file extension `lumenc bundle`
// treats as a source file for a given project, and where the sqlite-backed
// bytecode cache lives on disk.
type Project struct {
	ModulePaths []string `yaml:"modulePaths"`
	SourceExt   string   `yaml:"sourceExt"`
	CachePath   string   `yaml:"cachePath"`
}

// DefaultProject mirrors the package-level constants above, used when no
// lumen.yaml is present.
func DefaultProject() *Project {
	return &Project{
		ModulePaths: nil,
		SourceExt:   SourceFileExt,
		CachePath:   "lumen-cache.db",
	}
}

// LoadProject reads path (typically ProjectFile) and overlays it onto
// DefaultProject. A missing file is not an error: callers just get the
// defaults.
func LoadProject(path string) (*Project, error) {
	p := DefaultProject()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if p.SourceExt == "" {
		p.SourceExt = SourceFileExt
	}
	if p.CachePath == "" {
		p.CachePath = "lumen-cache.db"
	}
	return p, nil
}
