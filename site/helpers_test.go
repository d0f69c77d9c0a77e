package site

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// newSite creates an in-memory filesystem populated with files, keyed by
// absolute path.
func newSite(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for fn, content := range files {
		require.NoError(t, afero.WriteFile(fs, fn, []byte(content), 0644))
	}
	return fs
}

func readFile(t *testing.T, fs afero.Fs, fn string) string {
	t.Helper()
	buf, err := afero.ReadFile(fs, fn)
	require.NoError(t, err)
	return string(buf)
}

func exists(t *testing.T, fs afero.Fs, fn string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, fn)
	require.NoError(t, err)
	return ok
}
