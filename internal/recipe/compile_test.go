package recipe

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/fsutil"
	"github.com/opmodel/smithy/internal/runner/runnertest"
	"github.com/opmodel/smithy/internal/software"
)

func compileYAML(t *testing.T, src string) *formula.Definition {
	t.Helper()
	file, err := newTestLoader(t).Parse([]byte(src), "zlib.yaml")
	require.NoError(t, err)
	file.Path = "/formulas/zlib.yaml"
	def, err := Compile(file)
	require.NoError(t, err)
	return def
}

func instantiate(t *testing.T, def *formula.Definition, root, build string, opts ...formula.Option) (*formula.Formula, *runnertest.FakeExecutor) {
	t.Helper()
	exec := &runnertest.FakeExecutor{}
	pkg := software.NewPackage(software.Options{
		Name: "zlib", Version: "1.2.11", BuildName: build, Root: root, Arch: "xk6", Group: "swtools",
	})
	fs := fsutil.New(afero.NewMemMapFs(), func(string) (int, error) { return 1000, nil })
	base := []formula.Option{
		formula.WithPackage(pkg),
		formula.WithExecutor(exec),
		formula.WithModuleTool(nil),
		formula.WithFilesystem(fs),
		formula.WithOutput(io.Discard, io.Discard),
	}
	f, err := formula.New(def, append(base, opts...)...)
	require.NoError(t, err)
	return f, exec
}

func TestCompile_Attributes(t *testing.T) {
	def := compileYAML(t, zlibYAML)
	assert.Equal(t, "zlib", def.Name())
	assert.Equal(t, "/formulas/zlib.yaml", def.File())
	assert.Equal(t, []string{"cflags"}, def.Params())

	f, _ := instantiate(t, def, "/sw", "gnu4.7")
	assert.Equal(t, "https://zlib.net/", f.Homepage())
	assert.Equal(t, "1.2.11", f.Version())

	mods, err := f.Modules()
	require.NoError(t, err)
	assert.Equal(t, []string{"PrgEnv-gnu4.7"}, mods)

	cflags, err := f.Param("cflags")
	require.NoError(t, err)
	assert.Equal(t, "-O2", cflags)

	modulefile, err := f.Modulefile()
	require.NoError(t, err)
	assert.Contains(t, modulefile, "{{ .Prefix }}")
}

func TestCompile_SupportedBuildNames(t *testing.T) {
	def := compileYAML(t, zlibYAML)

	f, _ := instantiate(t, def, "/sw", "pgi12.10")
	assert.NoError(t, f.CheckSupportedBuildNames())

	f, _ = instantiate(t, def, "/sw", "cray8.1")
	assert.Error(t, f.CheckSupportedBuildNames())

	_, err := buildNameMatchers([]string{"/[/"})
	assert.Error(t, err)
}

func TestCompile_InstallStepsFollowRoots(t *testing.T) {
	src := strings.Replace(zlibYAML, "install:", "additionalSoftwareRoots: [/alt]\ninstall:", 1)
	def := compileYAML(t, src)
	f, exec := instantiate(t, def, "/sw", "gnu")

	require.NoError(t, f.RunInstall(context.Background()))
	assert.Equal(t, []string{
		"./configure --prefix=/sw/xk6/zlib/1.2.11/gnu",
		"make",
		"make install",
		"./configure --prefix=/alt/xk6/zlib/1.2.11/gnu",
		"make",
		"make install",
	}, exec.Scripts())
}

func TestCompile_StepFailureStops(t *testing.T) {
	def := compileYAML(t, zlibYAML)
	f, exec := instantiate(t, def, "/sw", "gnu")
	exec.On("make", runnertest.Response{ExitCode: 2})

	err := f.RunInstall(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
	assert.Len(t, exec.Scripts(), 2)
}

func TestCompile_BypassAndTemplateFuncs(t *testing.T) {
	src := `
name: hdf5
homepage: https://www.hdfgroup.org/
url: https://www.hdfgroup.org/ftp/HDF5/hdf5-1.8.10.tar.gz
params:
  shared: "--enable-shared"
install:
  - run: "uname -a"
    bypassModules: true
  - run: "./configure {{ param \"shared\" }} --prefix={{ .Prefix }}"
`
	def := compileYAML(t, src)
	f, exec := instantiate(t, def, "/sw", "gnu")

	require.NoError(t, f.RunInstall(context.Background()))
	assert.Equal(t, []string{
		"uname -a",
		"./configure --enable-shared --prefix=/sw/xk6/zlib/1.2.11/gnu",
	}, exec.Scripts())
}

func TestCompile_TemplateError(t *testing.T) {
	src := `
name: zlib
homepage: https://zlib.net/
url: https://zlib.net/zlib-1.2.11.tar.gz
install:
  - run: "make {{ param \"missing\" }}"
`
	def := compileYAML(t, src)
	f, exec := instantiate(t, def, "/sw", "gnu")

	err := f.RunInstall(context.Background())
	require.Error(t, err)
	assert.Empty(t, exec.Scripts())
}
