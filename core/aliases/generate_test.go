package aliases_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/apigen/core/aliases"
	"github.com/emenda-labs/apigen/core/publication"
	"github.com/emenda-labs/apigen/drivers/python"
	"github.com/emenda-labs/apigen/pkg/apierr"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

const jobModule = `from apigen import public


@public("hopsworks.jobs.Job", "hopsworks.Job")
class Job:
    pass


@public("hopsworks.jobs.run")
def run():
    pass
`

func TestGenerate_Editable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"hopsworks/__init__.py":      "",
		"hopsworks/core/__init__.py": "",
		"hopsworks/core/job.py":      jobModule,
	})

	res, err := aliases.Generate(context.Background(), python.NewDriver(), root, root)
	require.Error(t, err, "hopsworks is a real package")
	assert.True(t, apierr.Is(err, apierr.CodePathCollision))
	assert.Empty(t, res.Files)

	// Without the colliding alias the tree can be generated in place, twice.
	writeTree(t, root, map[string]string{
		"hopsworks/core/job.py": jobModule[:len("from apigen import public\n\n\n")] +
			"@public(\"hopsworks.jobs.Job\")\nclass Job:\n    pass\n",
	})
	for i := 0; i < 2; i++ {
		res, err = aliases.Generate(context.Background(), python.NewDriver(), root, root)
		require.NoError(t, err)
		assert.Equal(t, []string{"hopsworks/jobs/__init__.py"}, res.Files)
	}

	out := filepath.Join(root, "hopsworks", "jobs", "__init__.py")
	assert.Equal(t, []string{out}, res.Outputs)
	assert.Equal(t, map[string]string{out: out}, res.Mapping)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, publication.MagicComment+"import hopsworks.core.job\nJob = hopsworks.core.job.Job\n", string(b))

	gitignore, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "# Ignore generated alias files\n/hopsworks/jobs\n", string(gitignore))
}

func TestGenerate_EditableTwiceKeepsIntermediatePackages(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib/__init__.py": "",
		"lib/core.py":     "from apigen import public\n\n\n@public(\"lib.api.v1.Job\")\nclass Job:\n    pass\n",
	})

	for i := 0; i < 2; i++ {
		res, err := aliases.Generate(context.Background(), python.NewDriver(), root, root)
		require.NoError(t, err)
		assert.Equal(t, []string{"lib/api/v1/__init__.py"}, res.Files, "run %d", i+1)

		b, err := os.ReadFile(filepath.Join(root, "lib", "api", "__init__.py"))
		require.NoError(t, err, "run %d", i+1)
		assert.Equal(t, publication.MagicComment, string(b))

		b, err = os.ReadFile(filepath.Join(root, "lib", "api", "v1", "__init__.py"))
		require.NoError(t, err)
		assert.Equal(t, publication.MagicComment+"import lib.core\nJob = lib.core.Job\n", string(b))
	}

	gitignore, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "# Ignore generated alias files\n/lib/api\n", string(gitignore))
}

func TestGenerate_BuildDir(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"lib/__init__.py": "",
		"lib/_impl/job.py": `from apigen import public


@public("lib.api.Job", "lib.api.v1.Job")
class Job:
    pass
`,
	})

	dest := filepath.Join(t.TempDir(), "build", "aliases")
	res, err := aliases.Generate(context.Background(), python.NewDriver(), src, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"lib/api/__init__.py", "lib/api/v1/__init__.py"}, res.Files)
	assert.Equal(t, []string{"/lib"}, res.IgnoredDirs)

	// The source tree is not touched.
	_, err = os.Stat(filepath.Join(src, "lib", "api"))
	assert.True(t, os.IsNotExist(err))

	installLib := t.TempDir()
	installed, err := aliases.Install(context.Background(), dest, installLib)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/__init__.py", "lib/api/__init__.py", "lib/api/v1/__init__.py"}, installed)
}
