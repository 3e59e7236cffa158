package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/smithy/internal/errors"
)

// isolate points HOME at a temp dir and clears SMITHY_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{EnvConfig, EnvRoot, EnvArch, EnvFormulaDirectories, EnvFileGroup} {
		t.Setenv(env, "")
	}
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_Defaults(t *testing.T) {
	home := isolate(t)

	r, err := Resolve(ResolveOptions{})
	require.NoError(t, err)

	assert.False(t, r.ConfigFound)
	assert.Equal(t, filepath.Join(home, ".smithy", "config.yaml"), r.ConfigPath.Value)
	assert.Equal(t, SourceDefault, r.ConfigPath.Source)
	assert.Equal(t, "/sw", r.Root.Value)
	assert.Equal(t, SourceDefault, r.Root.Source)
	assert.Equal(t, DefaultArch(), r.Arch.Value)
	assert.Empty(t, r.FileGroup.Value)

	dirs, err := r.Directories()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(home, ".smithy", "formulas")}, dirs)
}

func TestResolve_Precedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "root: /config/sw\narch: cfgarch\nfileGroup: cfggroup\n")

	t.Run("config beats default", func(t *testing.T) {
		r, err := Resolve(ResolveOptions{ConfigFlag: path})
		require.NoError(t, err)
		assert.True(t, r.ConfigFound)
		assert.Equal(t, SourceFlag, r.ConfigPath.Source)
		assert.Equal(t, "/config/sw", r.Root.Value)
		assert.Equal(t, SourceConfig, r.Root.Source)
		assert.Equal(t, "/sw", r.Root.Shadowed[SourceDefault])
		assert.Equal(t, "cfggroup", r.FileGroup.Value)
	})

	t.Run("env beats config", func(t *testing.T) {
		t.Setenv(EnvRoot, "/env/sw")
		t.Setenv(EnvFileGroup, "envgroup")

		r, err := Resolve(ResolveOptions{ConfigFlag: path})
		require.NoError(t, err)
		assert.Equal(t, "/env/sw", r.Root.Value)
		assert.Equal(t, SourceEnv, r.Root.Source)
		assert.Equal(t, "/config/sw", r.Root.Shadowed[SourceConfig])
		assert.Equal(t, "envgroup", r.FileGroup.Value)
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv(EnvArch, "envarch")

		r, err := Resolve(ResolveOptions{ConfigFlag: path, ArchFlag: "flagarch"})
		require.NoError(t, err)
		assert.Equal(t, "flagarch", r.Arch.Value)
		assert.Equal(t, SourceFlag, r.Arch.Source)
		assert.Equal(t, "envarch", r.Arch.Shadowed[SourceEnv])
		assert.Equal(t, "cfgarch", r.Arch.Shadowed[SourceConfig])
	})

	t.Run("config path from env", func(t *testing.T) {
		t.Setenv(EnvConfig, path)

		r, err := Resolve(ResolveOptions{})
		require.NoError(t, err)
		assert.Equal(t, SourceEnv, r.ConfigPath.Source)
		assert.Equal(t, "/config/sw", r.Root.Value)
	})
}

func TestResolve_FormulaDirectoriesFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvFormulaDirectories, "/a"+string(filepath.ListSeparator)+"/b")

	r, err := Resolve(ResolveOptions{})
	require.NoError(t, err)

	dirs, err := r.Directories()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, dirs)
	assert.Equal(t, []string{"/a", "/b"}, r.Effective().FormulaDirectories)
}

func TestResolve_InvalidConfig(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "root: relative/sw\n")

	_, err := Resolve(ResolveOptions{ConfigFlag: path})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestResolveValue(t *testing.T) {
	rv := resolve("root", "", "", "", "")
	assert.Empty(t, rv.Value)
	assert.Empty(t, rv.Source)
	assert.Empty(t, rv.Shadowed)

	rv = resolve("root", "", "/env", "", "/default")
	assert.Equal(t, "/env", rv.Value)
	assert.Equal(t, map[ConfigSource]string{SourceDefault: "/default"}, rv.Shadowed)
}
