package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/opmodel/smithy/internal/config"
	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/runner/runnertest"
	"github.com/opmodel/smithy/internal/testutil"
)

const zlibFormula = `
name: zlib
homepage: https://zlib.net/
url: https://zlib.net/zlib-1.2.11.tar.gz
supportedBuildNames:
  - gnu
params:
  cflags: -O2
install:
  - run: "./configure --prefix={{ .Prefix }}"
  - run: "make install"
modulefile: |
  #%Module
  set PREFIX {{ .Prefix }}
`

const hdf5Formula = `
name: hdf5
homepage: https://www.hdfgroup.org/
url: https://www.hdfgroup.org/ftp/HDF5/hdf5-1.8.10.tar.gz
dependsOn:
  - zlib
  - szip
install:
  - run: "./configure --with-zlib={{ dep \"zlib\" }} --prefix={{ .Prefix }}"
`

// harness is an isolated home with a config pointing at a temp software
// root and formula directory.
type harness struct {
	t        *testing.T
	home     string
	root     string
	formulas string
	exec     *runnertest.FakeExecutor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{config.EnvConfig, config.EnvRoot, config.EnvArch, config.EnvFormulaDirectories, config.EnvFileGroup} {
		t.Setenv(env, "")
	}

	h := &harness{
		t:        t,
		home:     home,
		root:     filepath.Join(home, "sw"),
		formulas: filepath.Join(home, "formulas"),
		exec:     &runnertest.FakeExecutor{},
	}
	testutil.WriteFile(t, home, ".smithy/config.yaml", fmt.Sprintf(
		"root: %s\narch: xk6\nformulaDirectories:\n  - %s\nlog:\n  timestamps: false\n", h.root, h.formulas))
	return h
}

func (h *harness) formula(name, content string) {
	h.t.Helper()
	testutil.WriteFile(h.t, h.formulas, name+".yaml", content)
}

// run executes the root command with args and returns what it wrote to
// its output stream.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	g := &GlobalConfig{
		Executor:       h.exec,
		FormulaOptions: []formula.Option{formula.WithModuleTool(nil)},
	}
	root := newRootCmd(g)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func (h *harness) prefix(spec ...string) string {
	return filepath.Join(append([]string{h.root, "xk6"}, spec...)...)
}
