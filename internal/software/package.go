// Package software models installed software packages and the registry that
// finds them under a software root.
//
// Layout: <root>/<arch>/<name>/<version>/<build>, with modulefiles under
// <root>/<arch>/modulefiles/<name>/<version>.
package software

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceDirName is the per-prefix directory builds are unpacked into.
const SourceDirName = "source"

// ModulefilesDirName is the per-arch directory holding generated modulefiles.
const ModulefilesDirName = "modulefiles"

// Package is an installed, or to-be-installed, piece of software.
type Package struct {
	name      string
	version   string
	buildName string
	root      string
	arch      string
	group     string
}

// Options configures a Package.
type Options struct {
	Name      string
	Version   string
	BuildName string
	Root      string
	Arch      string
	Group     string
}

// NewPackage creates a package from options.
func NewPackage(opts Options) *Package {
	return &Package{
		name:      opts.Name,
		version:   opts.Version,
		buildName: opts.BuildName,
		root:      opts.Root,
		arch:      opts.Arch,
		group:     opts.Group,
	}
}

// ParsePath creates a package from an installed prefix path. path may be
// absolute under <root>/<arch> or relative ("name/version/build").
func ParsePath(root, arch, group, path string) (*Package, error) {
	rel := path
	if filepath.IsAbs(path) {
		base := filepath.Join(root, arch)
		r, err := filepath.Rel(base, path)
		if err != nil || strings.HasPrefix(r, "..") {
			return nil, fmt.Errorf("package path %q is not under %s", path, base)
		}
		rel = r
	}

	parts := strings.Split(filepath.ToSlash(filepath.Clean(rel)), "/")
	if len(parts) != 3 {
		return nil, fmt.Errorf("package path %q: expected name/version/build", path)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return nil, fmt.Errorf("package path %q: expected name/version/build", path)
		}
	}

	return NewPackage(Options{
		Name:      parts[0],
		Version:   parts[1],
		BuildName: parts[2],
		Root:      root,
		Arch:      arch,
		Group:     group,
	}), nil
}

// Name is the package name.
func (p *Package) Name() string { return p.name }

// Version is the package version.
func (p *Package) Version() string { return p.version }

// BuildName is the build variant, e.g. gnu4.7.
func (p *Package) BuildName() string { return p.buildName }

// Root is the software root the package installs under.
func (p *Package) Root() string { return p.root }

// Arch is the architecture directory below Root.
func (p *Package) Arch() string { return p.arch }

// Group is the file group installed files are assigned, or "".
func (p *Package) Group() string { return p.group }

// SetRoot moves the package to another software root. Prefix follows.
func (p *Package) SetRoot(root string) {
	p.root = root
}

// Prefix is the install path for the package under its current root.
func (p *Package) Prefix() string {
	return filepath.Join(p.root, p.arch, p.name, p.version, p.buildName)
}

// SourceDirectory is where the package's sources are unpacked and built.
func (p *Package) SourceDirectory() string {
	return filepath.Join(p.Prefix(), SourceDirName)
}

// ModulePath is the modulefile directory for all versions of the package.
func (p *Package) ModulePath() string {
	return filepath.Join(p.root, p.arch, ModulefilesDirName, p.name)
}

// ModuleFile is the modulefile for this package version.
func (p *Package) ModuleFile() string {
	return filepath.Join(p.ModulePath(), p.version)
}

// String returns name/version/build.
func (p *Package) String() string {
	return FormatSpec(p.name, p.version, p.buildName)
}
