package software

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, prefixes ...string) *Registry {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range prefixes {
		require.NoError(t, fs.MkdirAll(p, 0o755))
	}
	return NewRegistry(fs, "/sw", "xk6", "swtools")
}

func TestRegistryLookup_NewestFirst(t *testing.T) {
	r := newTestRegistry(t,
		"/sw/xk6/zlib/1.2.3/gnu",
		"/sw/xk6/zlib/1.2.10/gnu",
		"/sw/xk6/zlib/1.2.7/gnu",
		"/sw/xk6/zlib/1.2.7/pgi",
		"/sw/xk6/modulefiles/zlib/1.2.7",
	)

	paths, err := r.Lookup("zlib", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/sw/xk6/zlib/1.2.10/gnu",
		"/sw/xk6/zlib/1.2.7/gnu",
		"/sw/xk6/zlib/1.2.7/pgi",
		"/sw/xk6/zlib/1.2.3/gnu",
	}, paths)
}

func TestRegistryLookup_ExactMatch(t *testing.T) {
	r := newTestRegistry(t, "/sw/xk6/foo/1.0/gnu", "/sw/xk6/foo/1.0/pgi")

	paths, err := r.Lookup("foo", "1.0", "gnu")
	require.NoError(t, err)
	assert.Equal(t, []string{"/sw/xk6/foo/1.0/gnu"}, paths)

	paths, err = r.Lookup("foo", "2.0", "gnu")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestRegistryLookup_RejectsPatterns(t *testing.T) {
	r := newTestRegistry(t, "/sw/xk6/zlib/1.2.7/gnu", "/sw/xk6/x/1.0/gnu")

	for _, parts := range [][3]string{
		{"zl*", "", ""},
		{"zlib", "1.2.?", ""},
		{"zlib", "..", "x"},
	} {
		paths, err := r.Lookup(parts[0], parts[1], parts[2])
		assert.Error(t, err, parts)
		assert.Empty(t, paths, parts)
	}
}

func TestRegistryLookup_IgnoresFiles(t *testing.T) {
	r := newTestRegistry(t, "/sw/xk6/foo/1.0")
	require.NoError(t, afero.WriteFile(r.fs, "/sw/xk6/foo/1.0/README", []byte("x"), 0o644))

	paths, err := r.Lookup("foo", "", "")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestRegistryOpen(t *testing.T) {
	r := newTestRegistry(t)

	p, err := r.Open("/sw/xk6/foo/1.0/gnu")
	require.NoError(t, err)
	assert.Equal(t, "foo", p.Name())
	assert.Equal(t, "swtools", p.Group())
	assert.Equal(t, "/sw/xk6/foo/1.0/gnu", p.Prefix())
}

func TestRegistryList(t *testing.T) {
	r := newTestRegistry(t, "/sw/xk6/zlib/1.2.7/gnu", "/sw/xk6/bzip2/1.0.6/gnu")

	pkgs, err := r.List()
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "bzip2", pkgs[0].Name())
	assert.Equal(t, "zlib", pkgs[1].Name())
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, 1, CompareVersions("1.2.10", "1.2.7"))
	assert.Equal(t, -1, CompareVersions("1.0", "1.0.1"))
	assert.Equal(t, 0, CompareVersions("2.12.0", "2.12.0"))
	assert.Equal(t, 1, CompareVersions("1.0", "trunk"))
	assert.Equal(t, -1, CompareVersions("a", "b"))
}
