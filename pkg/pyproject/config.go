// Package pyproject reads the [tool.apigen] table of a pyproject.toml.
package pyproject

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the project file looked up in a project directory.
const FileName = "pyproject.toml"

// Config is the [tool.apigen] table. Empty fields keep the command defaults.
type Config struct {
	SourceRoot       string   `toml:"source_root"`
	BuildDir         string   `toml:"build_dir"`
	AnnotationModule string   `toml:"annotation_module"`
	InternalPrefixes []string `toml:"internal_prefixes"`
	LibraryName      string   `toml:"library_name"`
}

// Project is the part of pyproject.toml apigen reads.
type Project struct {
	Name    string
	Version string
	Apigen  Config
}

type document struct {
	Project struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"project"`
	Tool struct {
		Apigen Config `toml:"apigen"`
	} `toml:"tool"`
}

// Load reads dir/pyproject.toml. A missing file yields an empty Project.
// Relative paths in the table are resolved against dir.
func Load(dir string) (Project, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, nil
		}
		return Project{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, dir)
}

// Parse decodes pyproject.toml content found in dir.
func Parse(data []byte, dir string) (Project, error) {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return Project{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	cfg := doc.Tool.Apigen
	cfg.SourceRoot = resolve(dir, cfg.SourceRoot)
	cfg.BuildDir = resolve(dir, cfg.BuildDir)
	return Project{Name: doc.Project.Name, Version: doc.Project.Version, Apigen: cfg}, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
