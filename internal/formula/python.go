package formula

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/runner"
)

var pythonBuildPattern = regexp.MustCompile(`python(\d+(?:\.\d+)*)`)

// pythonBuildVersion extracts the dotted version from a build name such as
// "python2.7.3_gnu4.7.2".
func pythonBuildVersion(buildName string) (string, bool) {
	m := pythonBuildPattern.FindStringSubmatch(buildName)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// PythonModuleFromBuildName returns the python module named by the build
// name, such as "python/2.7.3".
func (f *Formula) PythonModuleFromBuildName() (string, error) {
	v, ok := pythonBuildVersion(f.BuildName())
	if !ok {
		return "", f.configErrorf("build name %q does not name a python version", f.BuildName())
	}
	return "python/" + v, nil
}

// PythonVersionFromBuildName returns the major and minor python version of
// the build name without a separator, such as "27".
func (f *Formula) PythonVersionFromBuildName() (string, error) {
	v, ok := pythonBuildVersion(f.BuildName())
	if !ok {
		return "", f.configErrorf("build name %q does not name a python version", f.BuildName())
	}
	parts := strings.Split(v, ".")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, ""), nil
}

// CurrentPythonVersion returns the version reported by "python --version" in
// the module environment.
func (f *Formula) CurrentPythonVersion(ctx context.Context) (string, error) {
	out, err := f.runner.Output(ctx, runner.Normal, "python --version 2>&1")
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", f.configErrorf("python --version printed nothing")
	}
	return fields[len(fields)-1], nil
}

// SystemPython runs python with args after checking that the active
// interpreter matches the build name. The prefix site-packages directory is
// created and appended to PYTHONPATH.
func (f *Formula) SystemPython(ctx context.Context, args ...string) error {
	if err := f.System(ctx, "which python"); err != nil {
		return err
	}

	current, err := f.CurrentPythonVersion(ctx)
	if err != nil {
		return err
	}
	module, err := f.PythonModuleFromBuildName()
	if err != nil {
		return err
	}
	want := strings.TrimPrefix(module, "python/")
	if current != want && !strings.HasPrefix(current, want+".") {
		return f.configErrorf("current python version (%s) does not match the version specified in the build name (%s)",
			current, module)
	}

	libDir := filepath.Join(f.Prefix(), "lib", pythonLibDir(current), "site-packages")
	if err := f.fs.EnsureDir(libDir); err != nil {
		return err
	}
	if _, err := f.runner.Output(ctx, runner.Bypass, "cd", f.Prefix(), "&&", "ln -snf lib lib64"); err != nil {
		output.Debug("linking lib64 failed", "prefix", f.Prefix(), "error", err)
	}

	cmd := append([]string{"PYTHONPATH=$PYTHONPATH:" + libDir, "python"}, args...)
	return f.System(ctx, cmd...)
}

// pythonLibDir returns "python<major>.<minor>" for a full version.
func pythonLibDir(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "python" + strings.Join(parts, ".")
}
