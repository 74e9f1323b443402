package aliases

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

// GitignoreHeader starts a .gitignore created by Write.
const GitignoreHeader = "# Ignore generated alias files"

// WriteResult lists what Write did. Paths are slash-separated and relative to
// the destination root.
type WriteResult struct {
	Files       []string // unit files written
	Skipped     []string // unit files left alone because they are not generated
	IgnoredDirs []string // freshly created top-level directories added to .gitignore
}

// Write materializes units under destRoot. Missing directories are created and
// seeded with a marker-only __init__.py. Existing files are only replaced when
// they were generated. The topmost directory of every created chain is listed
// in destRoot/.gitignore.
func Write(ctx context.Context, destRoot string, units []Unit) (WriteResult, error) {
	logger := log.FromContext(ctx)
	destRoot = filepath.Clean(destRoot)
	var res WriteResult

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return res, fmt.Errorf("creating %s: %w", destRoot, err)
	}

	for _, u := range units {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		path := filepath.Join(destRoot, filepath.FromSlash(u.RelPath))
		created, err := createParents(destRoot, filepath.Dir(path))
		if err != nil {
			return res, err
		}
		if len(created) > 0 {
			top, err := filepath.Rel(destRoot, created[0])
			if err != nil {
				return res, err
			}
			res.IgnoredDirs = append(res.IgnoredDirs, "/"+filepath.ToSlash(top))
		}

		ok, err := writeGenerated(path, []byte(u.Content))
		if err != nil {
			return res, err
		}
		if !ok {
			logger.Warn("Not overwriting hand written file", "file", u.RelPath, "module", u.Module)
			res.Skipped = append(res.Skipped, u.RelPath)
			continue
		}
		logger.Debug("Wrote alias package", "module", u.Module, "aliases", len(u.Aliases))
		res.Files = append(res.Files, u.RelPath)
	}

	res.IgnoredDirs = outermost(res.IgnoredDirs)
	if err := appendGitignore(filepath.Join(destRoot, ".gitignore"), res.IgnoredDirs); err != nil {
		return res, err
	}
	return res, nil
}

// createParents creates dir and its missing ancestors below root, outermost
// first. Every directory of the chain without an __init__.py and without
// hand written modules below it is seeded with a marker-only __init__.py, so a chain
// whose markers were removed by a later extraction is restored as it was. It
// returns the created directories in creation order.
func createParents(root, dir string) ([]string, error) {
	var chain []string
	for d := dir; d != root; d = filepath.Dir(d) {
		chain = append(chain, d)
		if filepath.Dir(d) == d {
			break
		}
	}

	var created []string
	for i := len(chain) - 1; i >= 0; i-- {
		d := chain[i]
		_, err := os.Stat(d)
		switch {
		case os.IsNotExist(err):
			if err := os.Mkdir(d, 0o755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", d, err)
			}
			created = append(created, d)
		case err != nil:
			return nil, err
		default:
			seed, err := needsMarker(d)
			if err != nil {
				return nil, err
			}
			if !seed {
				continue
			}
		}
		if err := os.WriteFile(filepath.Join(d, "__init__.py"), []byte(publication.MagicComment), 0o644); err != nil {
			return nil, fmt.Errorf("seeding %s: %w", d, err)
		}
	}
	return created, nil
}

// needsMarker reports whether the existing directory d lacks an __init__.py
// and holds no hand written module anywhere below it.
func needsMarker(d string) (bool, error) {
	if _, err := os.Stat(filepath.Join(d, "__init__.py")); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	source := false
	err := filepath.WalkDir(d, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".py") {
			return nil
		}
		generated, err := publication.IsGenerated(path)
		if err != nil {
			return err
		}
		if !generated {
			source = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", d, err)
	}
	return !source, nil
}

// writeGenerated writes content to path unless path holds a file that was not
// generated. It reports whether the file was written.
func writeGenerated(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		generated, err := publication.IsGenerated(path)
		if err != nil {
			return false, err
		}
		if !generated {
			return false, nil
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// outermost sorts dirs and drops the ones nested in another entry.
func outermost(dirs []string) []string {
	sort.Strings(dirs)
	var out []string
	for _, d := range dirs {
		if n := len(out); n > 0 && strings.HasPrefix(d, out[n-1]+"/") {
			continue
		}
		out = append(out, d)
	}
	return out
}

// appendGitignore adds the entries not yet listed in path.
func appendGitignore(path string, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	existing := string(b)
	if os.IsNotExist(err) {
		existing = GitignoreHeader + "\n"
	}

	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	added := 0
	for _, e := range entries {
		if present[e] {
			continue
		}
		present[e] = true
		out.WriteString(e)
		out.WriteByte('\n')
		added++
	}
	if added == 0 {
		return nil
	}
	return os.WriteFile(path, []byte(out.String()), 0o644)
}
