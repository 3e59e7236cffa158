package formula_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/smithy/internal/envmodule"
	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/fsutil"
	"github.com/opmodel/smithy/internal/runner/runnertest"
	"github.com/opmodel/smithy/internal/software"
)

var moduleTool = &envmodule.Tool{Path: "modulecmd", Flavor: "sh"}

// define declares a formula with the required attributes filled in after
// build, so build's own declarations win.
func define(build func(d *formula.Declarations)) *formula.Definition {
	return formula.Define("zlib", func(d *formula.Declarations) {
		if build != nil {
			build(d)
		}
		d.Homepage("https://zlib.net/")
		d.URL("https://zlib.net/zlib-1.2.11.tar.gz")
		d.Install(func(context.Context, *formula.Formula) error { return nil })
	})
}

func newPackage(root, name, version, build string) *software.Package {
	return software.NewPackage(software.Options{
		Name:      name,
		Version:   version,
		BuildName: build,
		Root:      root,
		Arch:      "xk6",
		Group:     "swtools",
	})
}

func memFS() *fsutil.FS {
	return fsutil.New(afero.NewMemMapFs(), func(name string) (int, error) {
		if name == "swtools" {
			return 1000, nil
		}
		return 0, errors.New("unknown group " + name)
	})
}

type env struct {
	exec *runnertest.FakeExecutor
	fs   *fsutil.FS
}

// newFormula instantiates def against a fake executor and an in-memory
// filesystem, with no module tool unless one is passed in opts.
func newFormula(t *testing.T, def *formula.Definition, opts ...formula.Option) (*formula.Formula, *env) {
	t.Helper()
	e := &env{exec: &runnertest.FakeExecutor{}, fs: memFS()}
	base := []formula.Option{
		formula.WithExecutor(e.exec),
		formula.WithModuleTool(nil),
		formula.WithFilesystem(e.fs),
		formula.WithOutput(io.Discard, io.Discard),
	}
	f, err := formula.New(def, append(base, opts...)...)
	require.NoError(t, err)
	return f, e
}

func noopInstall(context.Context, *formula.Formula) error { return nil }
