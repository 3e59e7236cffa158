package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "formulas/zlib.yaml", "name: zlib\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: zlib\n", string(data))
	assert.Equal(t, "formulas", filepath.Base(filepath.Dir(path)))
}

func TestSoftwareTree(t *testing.T) {
	root := SoftwareTree(t, t.TempDir(), "xk6", "zlib/1.2.11/gnu", "szip/2.1/gnu")

	assert.DirExists(t, filepath.Join(root, "xk6", "zlib", "1.2.11", "gnu"))
	assert.DirExists(t, filepath.Join(root, "xk6", "szip", "2.1", "gnu"))
}
