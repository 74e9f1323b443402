package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/emenda-labs/apigen/core/publication"
)

// DefaultSectionTitle is the nav section holding the API reference.
const DefaultSectionTitle = "API Reference"

// DefaultAPIRoot is the docs directory the reference pages live in.
const DefaultAPIRoot = "reference"

// Config controls how the reference is laid out.
type Config struct {
	Modules      []string // root modules; their pages are directory indexes
	APIRoot      string
	SectionTitle string
}

// Page is one generated stub page.
type Page struct {
	Module  string
	Path    string // slash-separated, relative to the docs directory
	Objects []string
	Content string
}

// Site is the generated reference.
type Site struct {
	Pages []Page
	Nav   *NavNode
}

// Build renders a page for every module that has public objects, and the
// navigation tree of those pages.
func Build(symbols []publication.Symbol, cfg Config) (Site, error) {
	if cfg.APIRoot == "" {
		cfg.APIRoot = DefaultAPIRoot
	}
	if cfg.SectionTitle == "" {
		cfg.SectionTitle = DefaultSectionTitle
	}
	roots := make(map[string]bool, len(cfg.Modules))
	for _, m := range cfg.Modules {
		roots[m] = true
	}

	ix := BuildIndex(symbols)
	site := Site{Nav: NewNav(cfg.SectionTitle)}
	for _, module := range ix.Modules() {
		objects := ix.Paths(module)
		content, err := RenderPage(module, objects)
		if err != nil {
			return Site{}, err
		}
		page := Page{
			Module:  module,
			Path:    DocPath(cfg.APIRoot, module, roots),
			Objects: objects,
			Content: content,
		}
		site.Pages = append(site.Pages, page)
		site.Nav.AddModule(module, page.Path)
	}
	return site, nil
}

// WritePages writes every page under docsDir, replacing files with the same path.
func WritePages(ctx context.Context, docsDir string, pages []Page) error {
	logger := log.FromContext(ctx)
	for _, p := range pages {
		path := filepath.Join(docsDir, filepath.FromSlash(p.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(p.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Debug("Documented module", "module", p.Module, "page", p.Path, "objects", len(p.Objects))
	}
	return nil
}
