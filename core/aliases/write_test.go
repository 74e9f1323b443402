package aliases

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/apigen/core/publication"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestWrite(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "hopsworks", "core"), 0o755))

	units, err := Plan(sampleTree())
	require.NoError(t, err)
	units = append(units, Unit{Module: "other.deep.pkg", RelPath: "other/deep/pkg/__init__.py", Content: publication.MagicComment})

	res, err := Write(context.Background(), dest, units)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"hopsworks/__init__.py",
		"hopsworks/compat/__init__.py",
		"hopsworks/jobs/__init__.py",
		"other/deep/pkg/__init__.py",
	}, res.Files)
	assert.Equal(t, []string{"/hopsworks/compat", "/hopsworks/jobs", "/other"}, res.IgnoredDirs)

	assert.Equal(t, units[2].Content, readFile(t, filepath.Join(dest, "hopsworks", "jobs", "__init__.py")))
	assert.Equal(t, publication.MagicComment, readFile(t, filepath.Join(dest, "other", "__init__.py")))
	assert.Equal(t, publication.MagicComment, readFile(t, filepath.Join(dest, "other", "deep", "__init__.py")))

	assert.Equal(t, "# Ignore generated alias files\n/hopsworks/compat\n/hopsworks/jobs\n/other\n",
		readFile(t, filepath.Join(dest, ".gitignore")))
}

func TestWrite_Idempotent(t *testing.T) {
	dest := t.TempDir()
	units, err := Plan(sampleTree())
	require.NoError(t, err)

	_, err = Write(context.Background(), dest, units)
	require.NoError(t, err)
	first := readFile(t, filepath.Join(dest, ".gitignore"))

	res, err := Write(context.Background(), dest, units)
	require.NoError(t, err)
	assert.Len(t, res.Files, len(units))
	assert.Empty(t, res.IgnoredDirs)
	assert.Equal(t, first, readFile(t, filepath.Join(dest, ".gitignore")))
}

func TestWrite_KeepsHandWrittenFiles(t *testing.T) {
	dest := t.TempDir()
	path := filepath.Join(dest, "lib", "api", "__init__.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))

	units := []Unit{{Module: "lib.api", RelPath: "lib/api/__init__.py", Content: publication.MagicComment + "x = 1\n"}}
	res, err := Write(context.Background(), dest, units)
	require.NoError(t, err)

	assert.Empty(t, res.Files)
	assert.Equal(t, []string{"lib/api/__init__.py"}, res.Skipped)
	assert.Equal(t, "# mine\n", readFile(t, path))
	_, err = os.Stat(filepath.Join(dest, ".gitignore"))
	assert.True(t, os.IsNotExist(err))
}

func TestWrite_ReseedsRemovedMarkers(t *testing.T) {
	dest := t.TempDir()
	units := []Unit{{Module: "lib.api.v1", RelPath: "lib/api/v1/__init__.py", Content: publication.MagicComment + "x = 1\n"}}

	_, err := Write(context.Background(), dest, units)
	require.NoError(t, err)
	for _, rel := range []string{"lib/__init__.py", "lib/api/__init__.py", "lib/api/v1/__init__.py"} {
		require.NoError(t, os.Remove(filepath.Join(dest, filepath.FromSlash(rel))))
	}

	res, err := Write(context.Background(), dest, units)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/api/v1/__init__.py"}, res.Files)
	assert.Empty(t, res.IgnoredDirs, "no directory was created")
	assert.Equal(t, publication.MagicComment, readFile(t, filepath.Join(dest, "lib", "__init__.py")))
	assert.Equal(t, publication.MagicComment, readFile(t, filepath.Join(dest, "lib", "api", "__init__.py")))
	assert.Equal(t, "# Ignore generated alias files\n/lib\n", readFile(t, filepath.Join(dest, ".gitignore")))
}

func TestWrite_LeavesNamespacePackages(t *testing.T) {
	dest := t.TempDir()
	mod := filepath.Join(dest, "ns", "impl", "core.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(mod), 0o755))
	require.NoError(t, os.WriteFile(mod, []byte("x = 1\n"), 0o644))

	units := []Unit{{Module: "ns.api", RelPath: "ns/api/__init__.py", Content: publication.MagicComment}}
	res, err := Write(context.Background(), dest, units)
	require.NoError(t, err)

	assert.Equal(t, []string{"ns/api/__init__.py"}, res.Files)
	assert.Equal(t, []string{"/ns/api"}, res.IgnoredDirs)
	_, err = os.Stat(filepath.Join(dest, "ns", "__init__.py"))
	assert.True(t, os.IsNotExist(err), "ns holds hand written modules")
	_, err = os.Stat(filepath.Join(dest, "ns", "impl", "__init__.py"))
	assert.True(t, os.IsNotExist(err))
}

func TestAppendGitignore(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("*.pyc\n/lib/api"), 0o644))

	require.NoError(t, appendGitignore(path, []string{"/lib/api", "/lib/compat"}))
	assert.Equal(t, "*.pyc\n/lib/api\n/lib/compat\n", readFile(t, path))
}

func TestOutermost(t *testing.T) {
	got := outermost([]string{"/b", "/a/b/c", "/a/b", "/ab"})
	assert.Equal(t, []string{"/a/b", "/ab", "/b"}, got)
}
