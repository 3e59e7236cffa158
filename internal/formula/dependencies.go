package formula

import (
	"fmt"
	"sort"

	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/software"
)

// Registry finds installed packages.
type Registry interface {
	// Lookup returns install paths matching name and, when non-empty,
	// version and build, newest first.
	Lookup(name, version, build string) ([]string, error)

	// Open returns the package installed at path.
	Open(path string) (Package, error)
}

type softwareRegistry struct {
	*software.Registry
}

func (r softwareRegistry) Open(path string) (Package, error) {
	return r.Registry.Open(path)
}

// SoftwareRegistry adapts a filesystem registry to Registry.
func SoftwareRegistry(r *software.Registry) Registry {
	return softwareRegistry{Registry: r}
}

// Dependency is a bound, read-only handle onto an installed dependency.
// The package is opened on first use.
type Dependency struct {
	// Spec is the declared dependency spec.
	Spec string

	// Path is the install path the spec resolved to.
	Path string

	open func(path string) (Package, error)
	pkg  Package
}

// Package opens and returns the dependency's package.
func (d *Dependency) Package() (Package, error) {
	if d.pkg == nil {
		p, err := d.open(d.Path)
		if err != nil {
			return nil, fmt.Errorf("opening dependency %s: %w", d.Spec, err)
		}
		d.pkg = p
	}
	return d.pkg, nil
}

// Prefix returns the dependency's install prefix.
func (d *Dependency) Prefix() (string, error) {
	p, err := d.Package()
	if err != nil {
		return "", err
	}
	return p.Prefix(), nil
}

// CheckDependencies binds every declared dependency to its newest installed
// match. Specs with no match are collected and returned together in one
// *DependencyError; the others stay bound.
func (f *Formula) CheckDependencies() error {
	specs, err := f.DependsOn()
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return nil
	}
	if f.registry == nil {
		return f.configErrorf("depends_on requires a package registry")
	}

	output.Notice("Searching for dependencies")

	var missing []string
	for _, spec := range specs {
		name, version, build, err := software.ParseSpec(spec)
		if err != nil {
			return f.configErrorf("%v", err)
		}

		paths, err := f.registry.Lookup(name, version, build)
		if err != nil {
			return fmt.Errorf("looking up dependency %s: %w", spec, err)
		}
		if len(paths) == 0 {
			missing = append(missing, spec)
			continue
		}

		output.NoticeUsing(paths[0])
		f.bindDependency(software.NormalizeName(name), &Dependency{
			Spec: spec,
			Path: paths[0],
			open: f.registry.Open,
		})
	}

	if len(missing) > 0 {
		return &DependencyError{Formula: f.def.name, Missing: missing}
	}
	return nil
}

func (f *Formula) bindDependency(name string, d *Dependency) {
	if _, ok := f.deps[name]; !ok {
		f.depNames = append(f.depNames, name)
	}
	f.deps[name] = d
}

// Dependency returns the dependency bound under name. name is normalized the
// same way as dependency specs, so "HDF5-Parallel" finds "hdf5_parallel".
func (f *Formula) Dependency(name string) (*Dependency, bool) {
	d, ok := f.deps[software.NormalizeName(name)]
	return d, ok
}

// Dependencies returns the accessor names of all bound dependencies, sorted.
func (f *Formula) Dependencies() []string {
	names := make([]string, len(f.depNames))
	copy(names, f.depNames)
	sort.Strings(names)
	return names
}
