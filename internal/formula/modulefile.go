package formula

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/templates"
)

// ModuleData returns the binding modulefiles render against.
func (f *Formula) ModuleData() templates.ModuleData {
	data := templates.ModuleData{
		Name:      f.Name(),
		Version:   f.Version(),
		BuildName: f.BuildName(),
		Prefix:    f.Prefix(),
	}
	if f.pkg != nil {
		data.Root = f.pkg.Root()
		data.Arch = f.pkg.Arch()
		data.Group = f.pkg.Group()
		data.ModulePath = f.pkg.ModulePath()
		data.ModuleFile = f.pkg.ModuleFile()
	}
	return data
}

// TemplateFuncs returns the functions available to formula templates:
//
//	param NAME             resolved parameter value
//	dep NAME               install prefix of a bound dependency
//	moduleVar MODULE VAR   value a module sets for VAR, or ""
func (f *Formula) TemplateFuncs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"param": func(name string) (any, error) {
			return f.Param(name)
		},
		"dep": func(name string) (string, error) {
			d, ok := f.Dependency(name)
			if !ok {
				return "", fmt.Errorf("dependency %q is not bound", name)
			}
			return d.Prefix()
		},
		"moduleVar": func(module, variable string) string {
			return f.ModuleEnvironmentVariable(ctx, module, variable)
		},
	}
}

// CreateModulefile renders the modulefile template into the package's
// modulefile. It returns false when the formula declares no modulefile.
func (f *Formula) CreateModulefile(ctx context.Context) (bool, error) {
	defer f.withContext(ctx)()

	text, err := f.Modulefile()
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	if f.pkg == nil {
		return false, f.configErrorf("creating a modulefile requires a package")
	}

	output.Notice("Creating Modulefile for " + f.pkg.Prefix())

	content, err := templates.NewRenderer(f.ModuleData(), f.TemplateFuncs(ctx)).RenderString(text)
	if err != nil {
		return false, fmt.Errorf("rendering modulefile for %s: %w", f.def.name, err)
	}

	dest := f.pkg.ModuleFile()
	if err := f.fs.EnsureDir(filepath.Dir(dest)); err != nil {
		return false, err
	}
	if err := f.fs.WriteFile(dest, []byte(content)); err != nil {
		return false, err
	}

	if f.GroupWritable() {
		if err := f.fs.MakeGroupWritable(f.pkg.ModulePath(), true); err != nil {
			return false, err
		}
	}
	if err := f.fs.SetGroup(f.pkg.ModulePath(), f.pkg.Group(), true); err != nil {
		return false, err
	}
	return true, nil
}

// FixPermissions makes the prefix group writable, unless disabled, and
// assigns it to the package group.
func (f *Formula) FixPermissions() error {
	if f.pkg == nil {
		return nil
	}
	prefix := f.pkg.Prefix()
	if exists, _ := afero.DirExists(f.fs, prefix); !exists {
		return nil
	}
	if f.GroupWritable() {
		if err := f.fs.MakeGroupWritable(prefix, true); err != nil {
			return err
		}
	}
	return f.fs.SetGroup(prefix, f.pkg.Group(), true)
}
