package aliases

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Install copies every generated *.py file under aliasesDir into installLib,
// keeping relative paths. Hand written files already present in installLib are
// left alone. A missing aliasesDir installs nothing. The slash-separated
// relative paths of the copied files are returned.
func Install(ctx context.Context, aliasesDir, installLib string) ([]string, error) {
	logger := log.FromContext(ctx)

	if _, err := os.Stat(aliasesDir); os.IsNotExist(err) {
		logger.Debug("No alias directory, nothing to install", "dir", aliasesDir)
		return nil, nil
	}

	var installed []string
	err := filepath.WalkDir(aliasesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}

		rel, err := filepath.Rel(aliasesDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(installLib, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		ok, err := writeGenerated(dest, content)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("Not overwriting installed file", "file", dest)
			return nil
		}
		installed = append(installed, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("installing aliases from %s: %w", aliasesDir, err)
	}
	return installed, nil
}
