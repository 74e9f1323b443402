package deprecation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/apigen/pkg/apierr"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name  string
		recs  []string
		until string
		want  string
	}{
		{
			name: "single recommendation",
			recs: []string{"hopsworks.login"},
			want: "old.fn is deprecated. The function will be removed in a future release of hopsworks. Consider using hopsworks.login instead.",
		},
		{
			name:  "two recommendations",
			recs:  []string{"a", "b"},
			until: "4.0",
			want:  "old.fn is deprecated. The function will be removed in version 4.0 of hopsworks. Consider using a or b instead.",
		},
		{
			name: "three recommendations",
			recs: []string{"a", "b", "c"},
			want: "old.fn is deprecated. The function will be removed in a future release of hopsworks. Consider using a, b, or c instead.",
		},
		{
			name:  "four recommendations",
			recs:  []string{"a", "b", "c", "d"},
			until: "12.34",
			want:  "old.fn is deprecated. The function will be removed in version 12.34 of hopsworks. Consider using a, b, c, or d instead.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Message("old.fn", tt.recs, tt.until)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessage_Errors(t *testing.T) {
	_, err := Message("old.fn", nil, "")
	assert.ErrorIs(t, err, apierr.ErrConfiguration)
	assert.True(t, apierr.Is(err, apierr.CodeInvalidDeprecation))

	_, err = Message("old.fn", []string{}, "4.0")
	assert.ErrorIs(t, err, apierr.ErrConfiguration)

	for _, bad := range []string{"4", "4.0.1", "v4.0", "four.zero", "4.", ".4"} {
		_, err := Message("old.fn", []string{"a"}, bad)
		assert.ErrorIs(t, err, apierr.ErrConfiguration, "version %q", bad)
	}
}

func TestFormatter_LibraryName(t *testing.T) {
	got, err := Formatter{LibraryName: "acme"}.Message("x", []string{"y"}, "1.2")
	require.NoError(t, err)
	assert.Equal(t, "x is deprecated. The function will be removed in version 1.2 of acme. Consider using y instead.", got)
}

func TestJoinAlternatives(t *testing.T) {
	assert.Equal(t, "", JoinAlternatives(nil))
	assert.Equal(t, "X", JoinAlternatives([]string{"X"}))
	assert.Equal(t, "X or Y", JoinAlternatives([]string{"X", "Y"}))
	assert.Equal(t, "X, Y, or Z", JoinAlternatives([]string{"X", "Y", "Z"}))
}

func TestOverdue(t *testing.T) {
	tests := []struct {
		until   string
		release string
		want    bool
	}{
		{"", "9.9", false},
		{"4.0", "3.9", false},
		{"4.0", "4.0", true},
		{"4.0", "4.0.2", true},
		{"4.0", "v4.1", true},
		{"4.10", "4.9", false},
	}
	for _, tt := range tests {
		got, err := Overdue(tt.until, tt.release)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Overdue(%q, %q)", tt.until, tt.release)
	}

	_, err := Overdue("4.0", "latest")
	assert.Error(t, err)
	_, err = Overdue("4", "4.0")
	assert.ErrorIs(t, err, apierr.ErrConfiguration)
}
