package publication

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGenerated(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"marker only", write("a.py", MagicComment), true},
		{"marker and content", write("b.py", MagicComment+"import x\n"), true},
		{"hand written", write("c.py", "import x\n"), false},
		{"short file", write("d.py", "#"), false},
		{"empty", write("e.py", ""), false},
		{"marker not first", write("f.py", "\n"+MagicComment), false},
		{"missing", filepath.Join(dir, "missing.py"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsGenerated(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
