package python

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/publication"
)

// skippedDirs are never scanned for sources, at any depth.
var skippedDirs = map[string]bool{
	"__pycache__": true,
	"build":       true,
	"dist":        true,
	"venv":        true,
}

// SourceFile is a Python source file found under a scan root.
type SourceFile struct {
	Path    string // filesystem path
	Rel     string // slash-separated path relative to the scan root
	Module  string // dotted module path; for __init__.py, the package path
	Package bool   // the file is a package __init__.py
}

// DiscoverModules lists every Python source file under root.
//
// Dot-files, dot-directories and the directories in skippedDirs are skipped.
// Alias packages generated by a previous run (an __init__.py starting with
// publication.MagicComment) are never reported as sources. When
// removeGenerated is set they are also deleted.
func DiscoverModules(ctx context.Context, root string, removeGenerated bool) ([]SourceFile, error) {
	return discover(ctx, root, "", removeGenerated)
}

// discover walks root. Module paths are relative to root and prefixed with
// prefix when it is not empty.
func discover(ctx context.Context, root, prefix string, removeGenerated bool) ([]SourceFile, error) {
	logger := log.FromContext(ctx)
	var files []SourceFile

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Skip symlinks to prevent symlink-based path escapes.
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if path != root && (strings.HasPrefix(d.Name(), ".") || skippedDirs[d.Name()]) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		isPackage := d.Name() == "__init__.py"
		if isPackage {
			generated, err := publication.IsGenerated(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if generated {
				if !removeGenerated {
					logger.Debug("Skipping generated alias package", "file", rel)
					return nil
				}
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("removing generated %s: %w", path, err)
				}
				logger.Debug("Removed generated alias package", "file", rel)
				return nil
			}
		}

		module, ok := modulePath(rel, prefix)
		if !ok {
			logger.Debug("Skipping file that is not an importable module", "file", rel)
			return nil
		}

		files = append(files, SourceFile{Path: path, Rel: rel, Module: module, Package: isPackage})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking source at %s: %w", root, walkErr)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

// modulePath converts a slash-separated .py path into a dotted module path.
func modulePath(rel, prefix string) (string, bool) {
	parts := strings.Split(strings.TrimSuffix(rel, ".py"), "/")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	if prefix != "" {
		parts = append(strings.Split(prefix, "."), parts...)
	}
	if len(parts) == 0 {
		return "", false
	}
	for _, p := range parts {
		if !publication.IsIdentifier(p) {
			return "", false
		}
	}
	return strings.Join(parts, "."), true
}
