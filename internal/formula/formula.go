package formula

import (
	"context"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/opmodel/smithy/internal/envmodule"
	"github.com/opmodel/smithy/internal/fsutil"
	"github.com/opmodel/smithy/internal/runner"
	"github.com/opmodel/smithy/internal/templates"
)

// Package is the installed, or to-be-installed, artifact a formula builds.
// *software.Package implements it.
type Package interface {
	Name() string
	Version() string
	BuildName() string
	Root() string
	Arch() string
	Group() string
	SetRoot(root string)
	Prefix() string
	SourceDirectory() string
	ModulePath() string
	ModuleFile() string
}

// Formula is one build attempt of a Definition.
type Formula struct {
	def *Definition
	pkg Package

	// identity
	name      string
	version   string
	buildName string
	prefix    string

	cache        map[string]any
	identityDeps map[string]bool
	stack        []*frame

	registry Registry
	deps     map[string]*Dependency
	depNames []string

	executor runner.Executor
	runner   *runner.Runner
	planner  *envmodule.Planner
	tool     *envmodule.Tool
	toolSet  bool
	fs       *fsutil.FS
	stdout   io.Writer
	stderr   io.Writer

	ctx context.Context
}

// Option configures a Formula.
type Option func(*Formula)

// WithPackage binds the instance to a package at construction.
func WithPackage(p Package) Option {
	return func(f *Formula) {
		f.pkg = p
	}
}

// WithRegistry sets the registry dependencies are looked up in.
func WithRegistry(r Registry) Option {
	return func(f *Formula) {
		f.registry = r
	}
}

// WithExecutor sets the executor external commands run through.
func WithExecutor(e runner.Executor) Option {
	return func(f *Formula) {
		f.executor = e
	}
}

// WithModuleTool sets the module tool. A nil tool disables module setup.
// Without this option the tool is detected from the environment.
func WithModuleTool(t *envmodule.Tool) Option {
	return func(f *Formula) {
		f.tool = t
		f.toolSet = true
	}
}

// WithFilesystem sets the filesystem modulefiles and site-packages are
// written to.
func WithFilesystem(fs *fsutil.FS) Option {
	return func(f *Formula) {
		f.fs = fs
	}
}

// WithOutput sets the writers commands stream to.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(f *Formula) {
		f.stdout = stdout
		f.stderr = stderr
	}
}

// WithBuildName sets the build name of an instance with no package.
func WithBuildName(name string) Option {
	return func(f *Formula) {
		f.buildName = name
	}
}

// New creates an instance of def. The definition must declare a homepage,
// a url and an install procedure.
func New(def *Definition, opts ...Option) (*Formula, error) {
	f := &Formula{
		def:          def,
		name:         def.name,
		buildName:    runtime.GOOS,
		cache:        make(map[string]any),
		identityDeps: make(map[string]bool),
		deps:         make(map[string]*Dependency),
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}

	if !f.toolSet {
		f.tool = envmodule.DetectEnv()
	}
	if f.fs == nil {
		f.fs = fsutil.NewOS()
	}
	f.runner = runner.New(f.executor,
		runner.WithSetup(setupFunc(f.moduleSetup)),
		runner.WithDiagnostics(f),
		runner.WithOutput(f.stdout, f.stderr),
	)
	f.planner = envmodule.NewPlanner(f.tool, f.runner)

	if f.pkg != nil {
		f.SetPackage(f.pkg)
	}

	if def.install == nil {
		return nil, f.configErrorf("no install procedure declared")
	}
	for _, attr := range []string{AttrHomepage, AttrURL} {
		s, err := f.StringAttr(attr)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(s) == "" {
			return nil, f.configErrorf("%s must be specified", attr)
		}
	}
	return f, nil
}

type setupFunc func() string

func (s setupFunc) Setup() string { return s() }

func (f *Formula) moduleSetup() string {
	return f.planner.Setup()
}

// Definition returns the recipe this instance was created from.
func (f *Formula) Definition() *Definition {
	return f.def
}

// SetPackage binds the instance to p. Identity is taken from p and every
// cached attribute derived from identity is discarded.
func (f *Formula) SetPackage(p Package) {
	f.pkg = p
	f.name = p.Name()
	f.version = p.Version()
	f.buildName = p.BuildName()
	f.prefix = p.Prefix()
	f.invalidateIdentity()
}

// Package returns the bound package, or nil. Attributes that read it are
// recomputed after SetPackage.
func (f *Formula) Package() Package {
	f.touchIdentity()
	return f.pkg
}

// Name is the package name, or the formula name when no package is bound.
func (f *Formula) Name() string {
	f.touchIdentity()
	return f.name
}

// Version is the package version, or the declared or url-derived version.
func (f *Formula) Version() string {
	f.touchIdentity()
	if f.version != "" {
		return f.version
	}
	return f.str(AttrVersion)
}

// BuildName is the package build name, or the host OS when no package is bound.
func (f *Formula) BuildName() string {
	f.touchIdentity()
	return f.buildName
}

// Prefix is the install path for the current software root.
func (f *Formula) Prefix() string {
	f.touchIdentity()
	return f.prefix
}

func (f *Formula) rebindPrefix(prefix string) {
	f.prefix = prefix
	f.invalidateIdentity()
}

// FormulaFile is the file the formula was defined in.
func (f *Formula) FormulaFile() string {
	return f.def.file
}

// BuildDirectory is the package source directory, or "" with no package.
func (f *Formula) BuildDirectory() string {
	f.touchIdentity()
	if f.pkg == nil {
		return ""
	}
	return f.pkg.SourceDirectory()
}

// GroupWritable reports whether installs are made group writable.
func (f *Formula) GroupWritable() bool {
	return f.def.GroupWritable()
}

// Context returns the context of the operation in progress, for blocks that
// run commands. It is never nil.
func (f *Formula) Context() context.Context {
	if f.ctx == nil {
		return context.Background()
	}
	return f.ctx
}

// withContext makes ctx visible to blocks until the returned func is called.
func (f *Formula) withContext(ctx context.Context) func() {
	prev := f.ctx
	f.ctx = ctx
	return func() { f.ctx = prev }
}

// Modulefile resolves the modulefile template with common indentation removed.
func (f *Formula) Modulefile() (string, error) {
	s, err := f.StringAttr(AttrModulefile)
	if err != nil {
		return "", err
	}
	return templates.Dedent(s), nil
}

// System runs args as one command line in the module environment. A nonzero
// exit returns a *runner.CommandExecutionError.
func (f *Formula) System(ctx context.Context, args ...string) error {
	return f.runner.Run(ctx, runner.Normal, args...)
}

// SystemNoModules runs args in the host environment, bypassing module setup.
func (f *Formula) SystemNoModules(ctx context.Context, args ...string) error {
	return f.runner.Run(ctx, runner.Bypass, args...)
}

// Output runs args in the module environment and returns stdout.
func (f *Formula) Output(ctx context.Context, args ...string) ([]byte, error) {
	return f.runner.Output(ctx, runner.Normal, args...)
}

// Patch applies content with patch(1), -p1 unless args are given.
func (f *Formula) Patch(ctx context.Context, content string, args ...string) error {
	return f.runner.Patch(ctx, content, args...)
}

// ModuleList runs "module list" in the current module environment.
func (f *Formula) ModuleList(ctx context.Context) error {
	return f.planner.List(ctx)
}

// ModuleIsAvailable reports whether the module tool can find module.
func (f *Formula) ModuleIsAvailable(ctx context.Context, module string) bool {
	return f.planner.IsAvailable(ctx, module)
}

// ModuleEnvironmentVariable returns the value module sets for variable, or ""
// when it cannot be determined.
func (f *Formula) ModuleEnvironmentVariable(ctx context.Context, module, variable string) string {
	return f.planner.EnvironmentVariable(ctx, module, variable)
}

// ModuleSetup returns the module setup script of the last initialization.
func (f *Formula) ModuleSetup() envmodule.Script {
	return f.planner.Script()
}

// ModuleState returns the module planner state.
func (f *Formula) ModuleState() envmodule.State {
	return f.planner.State()
}
