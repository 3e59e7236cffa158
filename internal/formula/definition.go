// Package formula implements the formula runtime: declarative build recipes
// whose attributes resolve lazily per instance, an install pipeline that runs
// the recipe across software roots, dependency binding and module setup.
//
// A recipe is declared once with Define and instantiated per build with New:
//
//	var Zlib = formula.Define("zlib", func(d *formula.Declarations) {
//		d.Homepage("https://zlib.net/")
//		d.URL("https://zlib.net/zlib-1.2.11.tar.gz")
//		d.ModulesFunc(func(f *formula.Formula) ([]string, error) {
//			return []string{"PrgEnv-" + f.BuildName()}, nil
//		})
//		d.Install(func(ctx context.Context, f *formula.Formula) error {
//			return f.System(ctx, "./configure --prefix="+f.Prefix(), "&&", "make install")
//		})
//	})
package formula

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/opmodel/smithy/internal/output"
)

// Attribute names known to the runtime.
const (
	AttrHomepage                = "homepage"
	AttrURL                     = "url"
	AttrMD5                     = "md5"
	AttrSHA1                    = "sha1"
	AttrSHA2                    = "sha2"
	AttrSHA256                  = "sha256"
	AttrVersion                 = "version"
	AttrModules                 = "modules"
	AttrModuleCommands          = "module_commands"
	AttrDependsOn               = "depends_on"
	AttrAdditionalSoftwareRoots = "additional_software_roots"
	AttrSupportedBuildNames     = "supported_build_names"
	AttrModulefile              = "modulefile"
)

var builtinAttrs = map[string]bool{
	AttrHomepage:                true,
	AttrURL:                     true,
	AttrMD5:                     true,
	AttrSHA1:                    true,
	AttrSHA2:                    true,
	AttrSHA256:                  true,
	AttrVersion:                 true,
	AttrModules:                 true,
	AttrModuleCommands:          true,
	AttrDependsOn:               true,
	AttrAdditionalSoftwareRoots: true,
	AttrSupportedBuildNames:     true,
	AttrModulefile:              true,
}

// Block is a deferred attribute value, evaluated once per instance.
type Block func(f *Formula) (any, error)

// InstallFunc is a formula's install procedure. It runs once per software root.
type InstallFunc func(ctx context.Context, f *Formula) error

// BuildNameMatcher gates which build names a formula supports.
// *regexp.Regexp satisfies it.
type BuildNameMatcher interface {
	MatchString(s string) bool
	String() string
}

// Literal matches build names containing s.
type Literal string

// MatchString reports whether name contains the literal.
func (l Literal) MatchString(name string) bool {
	return strings.Contains(name, string(l))
}

func (l Literal) String() string {
	return string(l)
}

type declared struct {
	value any
	block Block
}

// Definition is an immutable formula recipe shared by all its instances.
type Definition struct {
	name    string
	file    string
	attrs   map[string]declared
	params  []string
	install InstallFunc

	groupWritableDisabled bool
	sealed                bool
}

// Define builds a definition. The first assignment of each attribute inside
// build wins; the definition is sealed when Define returns.
func Define(name string, build func(d *Declarations)) *Definition {
	def := &Definition{
		name:  name,
		attrs: make(map[string]declared),
	}
	if _, file, _, ok := runtime.Caller(1); ok {
		def.file = file
	}
	if build != nil {
		build(&Declarations{def: def})
	}
	def.sealed = true
	return def
}

// Name returns the formula name.
func (d *Definition) Name() string {
	return d.name
}

// File returns the file the formula was defined in.
func (d *Definition) File() string {
	return d.file
}

// Value returns the declared literal or Block for an attribute.
func (d *Definition) Value(name string) (any, bool) {
	a, ok := d.attrs[name]
	if !ok {
		return nil, false
	}
	if a.block != nil {
		return a.block, true
	}
	return a.value, true
}

// Params returns the names declared through Params, sorted.
func (d *Definition) Params() []string {
	out := make([]string, len(d.params))
	copy(out, d.params)
	sort.Strings(out)
	return out
}

// GroupWritable reports whether installs are made group writable.
func (d *Definition) GroupWritable() bool {
	return !d.groupWritableDisabled
}

// HasInstall reports whether an install procedure was declared.
func (d *Definition) HasInstall() bool {
	return d.install != nil
}

func (d *Definition) lookup(name string) (declared, bool) {
	a, ok := d.attrs[name]
	return a, ok
}

// Declarations is the builder passed to Define.
type Declarations struct {
	def *Definition
}

// SetDefinitionFile overrides the recorded source file, for definitions
// compiled from formula files.
func (d *Declarations) SetDefinitionFile(file string) {
	d.mutable()
	d.def.file = file
}

func (d *Declarations) mutable() {
	if d.def.sealed {
		panic(fmt.Sprintf("formula %s: declaration after definition was sealed", d.def.name))
	}
}

// Set declares a literal attribute. Later declarations of name are ignored.
func (d *Declarations) Set(name string, value any) {
	d.mutable()
	if _, ok := d.def.attrs[name]; ok {
		return
	}
	d.def.attrs[name] = declared{value: value}
}

// SetFunc declares a deferred attribute. Later declarations of name are ignored.
func (d *Declarations) SetFunc(name string, block Block) {
	d.mutable()
	if _, ok := d.def.attrs[name]; ok || block == nil {
		return
	}
	d.def.attrs[name] = declared{block: block}
}

// Homepage declares the project homepage.
func (d *Declarations) Homepage(url string) { d.Set(AttrHomepage, url) }

// URL declares the source archive url.
func (d *Declarations) URL(url string) { d.Set(AttrURL, url) }

// MD5 declares the archive md5 checksum.
func (d *Declarations) MD5(sum string) { d.Set(AttrMD5, sum) }

// SHA1 declares the archive sha1 checksum.
func (d *Declarations) SHA1(sum string) { d.Set(AttrSHA1, sum) }

// SHA2 declares the archive sha2 checksum.
func (d *Declarations) SHA2(sum string) { d.Set(AttrSHA2, sum) }

// SHA256 declares the archive sha256 checksum.
func (d *Declarations) SHA256(sum string) { d.Set(AttrSHA256, sum) }

// Version declares the version. Without it the version is derived from the url.
func (d *Declarations) Version(v string) {
	d.Set(AttrVersion, v)
}

// VersionFunc declares a computed version.
func (d *Declarations) VersionFunc(fn func(f *Formula) (string, error)) {
	d.SetFunc(AttrVersion, func(f *Formula) (any, error) { return fn(f) })
}

// Modules declares the modules loaded, after a purge, before every command.
func (d *Declarations) Modules(names ...string) {
	d.Set(AttrModules, names)
}

// ModulesFunc declares a computed module list. It is re-evaluated whenever
// modules are initialized.
func (d *Declarations) ModulesFunc(fn func(f *Formula) ([]string, error)) {
	d.SetFunc(AttrModules, func(f *Formula) (any, error) { return fn(f) })
}

// ModuleCommands declares raw module tool commands, such as "swap gcc gcc/4.7".
func (d *Declarations) ModuleCommands(commands ...string) {
	d.Set(AttrModuleCommands, commands)
}

// ModuleCommandsFunc declares computed module tool commands.
func (d *Declarations) ModuleCommandsFunc(fn func(f *Formula) ([]string, error)) {
	d.SetFunc(AttrModuleCommands, func(f *Formula) (any, error) { return fn(f) })
}

// DependsOn declares dependency specs of the form name[/version[/build]].
func (d *Declarations) DependsOn(specs ...string) {
	d.Set(AttrDependsOn, specs)
}

// DependsOnFunc declares computed dependency specs.
func (d *Declarations) DependsOnFunc(fn func(f *Formula) ([]string, error)) {
	d.SetFunc(AttrDependsOn, func(f *Formula) (any, error) { return fn(f) })
}

// AdditionalSoftwareRoots declares roots the package is also installed under.
func (d *Declarations) AdditionalSoftwareRoots(roots ...string) {
	d.Set(AttrAdditionalSoftwareRoots, roots)
}

// SupportedBuildNames declares the build names the formula may run under.
func (d *Declarations) SupportedBuildNames(matchers ...BuildNameMatcher) {
	d.Set(AttrSupportedBuildNames, matchers)
}

// Modulefile declares the modulefile template. Common indentation is removed.
func (d *Declarations) Modulefile(tmpl string) {
	d.Set(AttrModulefile, tmpl)
}

// ModulefileFunc declares a computed modulefile template.
func (d *Declarations) ModulefileFunc(fn func(f *Formula) (string, error)) {
	d.SetFunc(AttrModulefile, func(f *Formula) (any, error) { return fn(f) })
}

// DisableGroupWritable leaves installed files with their default permissions.
func (d *Declarations) DisableGroupWritable() {
	d.mutable()
	d.def.groupWritableDisabled = true
}

// Params declares one attribute per entry, each with its default value.
func (d *Declarations) Params(params map[string]any) {
	d.mutable()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := d.def.attrs[name]; !ok {
			d.def.params = append(d.def.params, name)
		}
		d.Set(name, params[name])
		output.Debug("formula parameter", "formula", d.def.name, "name", name, "value", params[name])
	}
}

// Install declares the install procedure.
func (d *Declarations) Install(fn InstallFunc) {
	d.mutable()
	if d.def.install == nil {
		d.def.install = fn
	}
}

// Regexp compiles pattern for SupportedBuildNames, panicking on error like
// regexp.MustCompile.
func Regexp(pattern string) BuildNameMatcher {
	return regexp.MustCompile(pattern)
}
