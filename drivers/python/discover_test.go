package python

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/apigen/core/publication"
)

func TestDiscoverModules(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pkg/__init__.py":         "",
		"pkg/core.py":             "x = 1\n",
		"pkg/sub/__init__.py":     "",
		"pkg/sub/impl.py":         "",
		"pkg/aliases/__init__.py": publication.MagicComment + "import pkg.core\n",
		"pkg/__pycache__/core.py": "",
		"pkg/.hidden/mod.py":      "",
		"build/lib/pkg/core.py":   "",
		"venv/lib/site.py":        "",
		"pkg/not-a-module.py":     "",
		"pkg/README.md":           "",
		"setup.py":                "",
	})

	files, err := DiscoverModules(context.Background(), root, true)
	require.NoError(t, err)

	var modules []string
	packages := map[string]bool{}
	for _, f := range files {
		modules = append(modules, f.Module)
		packages[f.Module] = f.Package
	}
	assert.Equal(t, []string{"pkg", "pkg.core", "pkg.sub", "pkg.sub.impl", "setup"}, modules)
	assert.True(t, packages["pkg"])
	assert.True(t, packages["pkg.sub"])
	assert.False(t, packages["pkg.core"])

	_, err = os.Stat(filepath.Join(root, "pkg", "aliases", "__init__.py"))
	assert.True(t, os.IsNotExist(err), "generated package should have been removed")
}

func TestDiscover_NonDestructive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"__init__.py":     "",
		"gen/__init__.py": publication.MagicComment,
		"impl.py":         "",
	})

	files, err := discover(context.Background(), root, "lib", false)
	require.NoError(t, err)

	var modules []string
	for _, f := range files {
		modules = append(modules, f.Module)
	}
	assert.Equal(t, []string{"lib", "lib.impl"}, modules)

	_, err = os.Stat(filepath.Join(root, "gen", "__init__.py"))
	assert.NoError(t, err)
}

func TestModulePath(t *testing.T) {
	tests := []struct {
		rel, prefix string
		want        string
		ok          bool
	}{
		{"a/b.py", "", "a.b", true},
		{"a/__init__.py", "", "a", true},
		{"__init__.py", "", "", false},
		{"__init__.py", "lib", "lib", true},
		{"b.py", "lib.x", "lib.x.b", true},
		{"a-b/c.py", "", "", false},
		{"1a.py", "", "", false},
	}
	for _, tt := range tests {
		got, ok := modulePath(tt.rel, tt.prefix)
		assert.Equal(t, tt.ok, ok, tt.rel)
		assert.Equal(t, tt.want, got, tt.rel)
	}
}
