package aliases

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/driver"
)

// Result describes one alias generation run.
type Result struct {
	Units       []Unit            `json:"-"`
	Files       []string          `json:"files"`   // relative to the destination root
	Outputs     []string          `json:"outputs"` // destination paths of the written files
	Mapping     map[string]string `json:"mapping"` // output path to the file it was produced from
	Skipped     []string          `json:"skipped,omitempty"`
	IgnoredDirs []string          `json:"ignored_dirs,omitempty"`
}

// Generate extracts the publication metadata of sourceRoot, plans the alias
// packages and writes them under destRoot. Stale alias packages in sourceRoot
// are removed by the extraction. destRoot may equal sourceRoot.
func Generate(ctx context.Context, ex driver.Extractor, sourceRoot, destRoot string) (Result, error) {
	tree, err := ex.ExtractTree(ctx, sourceRoot)
	if err != nil {
		return Result{}, err
	}

	units, err := Plan(tree)
	if err != nil {
		return Result{}, err
	}

	written, err := Write(ctx, destRoot, units)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Units:       units,
		Files:       written.Files,
		Mapping:     make(map[string]string, len(written.Files)),
		Skipped:     written.Skipped,
		IgnoredDirs: written.IgnoredDirs,
	}
	for _, f := range written.Files {
		out := filepath.Join(destRoot, filepath.FromSlash(f))
		res.Outputs = append(res.Outputs, out)
		res.Mapping[out] = out
	}

	log.FromContext(ctx).Debug("Generated alias packages", "packages", len(res.Files), "symbols", len(tree.Symbols), "dest", destRoot)
	return res, nil
}
