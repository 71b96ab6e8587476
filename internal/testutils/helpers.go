package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to name inside a fresh temp dir and returns the absolute path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	absDir, err := filepath.Abs(dir)
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	path := filepath.Join(absDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", name)
	return path
}
