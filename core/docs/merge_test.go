package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func navNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return doc.Content[0]
}

func decode(t *testing.T, n *yaml.Node) []any {
	t.Helper()
	var out []any
	require.NoError(t, n.Decode(&out))
	return out
}

func dump(t *testing.T, n *yaml.Node) string {
	t.Helper()
	out, err := yaml.Marshal(n)
	require.NoError(t, err)
	return string(out)
}

func TestMergeSection(t *testing.T) {
	items := []any{map[string]any{"mod": "reference/mod.md"}}

	section := map[string]any{"API Reference": []any{map[string]any{"mod": "reference/mod.md"}}}
	home := map[string]any{"Home": "index.md"}

	tests := []struct {
		name string
		nav  string
		want []any
	}{
		{
			name: "bare placeholder",
			nav:  "- Home: index.md\n- API Reference\n- About: about.md\n",
			want: []any{home, section, map[string]any{"About": "about.md"}},
		},
		{
			name: "mapping placeholder",
			nav:  "- Home: index.md\n- API Reference: old.md\n",
			want: []any{home, section},
		},
		{
			name: "appended",
			nav:  "- Home: index.md\n- Guide:\n    - guide.md\n",
			want: []any{home, map[string]any{"Guide": []any{"guide.md"}}, section},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := navNode(t, tt.nav)
			require.NoError(t, MergeSection(nav, "API Reference", items))
			assert.Equal(t, tt.want, decode(t, nav))
		})
	}
}

func TestMergeSection_Idempotent(t *testing.T) {
	items := []any{map[string]any{"mod": "reference/mod.md"}}
	nav := navNode(t, "- Home: index.md\n")

	require.NoError(t, MergeSection(nav, "API Reference", items))
	first := dump(t, nav)
	require.NoError(t, MergeSection(nav, "API Reference", items))
	assert.Equal(t, first, dump(t, nav))
}

func TestMergeSection_NotAList(t *testing.T) {
	err := MergeSection(navNode(t, "home: index.md\n"), "API Reference", nil)
	assert.ErrorContains(t, err, "nav must be a list")
}
