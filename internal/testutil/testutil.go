// Package testutil holds filesystem fixtures shared by smithy tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// SoftwareTree lays out installed packages as <root>/<arch>/<name>/<version>/<build>
// for each "name/version/build" entry and returns root.
func SoftwareTree(t testing.TB, root, arch string, packages ...string) string {
	t.Helper()

	for _, p := range packages {
		require.NoError(t, os.MkdirAll(filepath.Join(root, arch, filepath.FromSlash(p)), 0o755), p)
	}
	return root
}
