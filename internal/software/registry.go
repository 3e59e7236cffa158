package software

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/semver"
)

// Registry finds installed packages under a software root.
type Registry struct {
	fs    afero.Fs
	root  string
	arch  string
	group string
}

// NewRegistry creates a registry over fs rooted at <root>/<arch>.
func NewRegistry(fs afero.Fs, root, arch, group string) *Registry {
	return &Registry{fs: fs, root: root, arch: arch, group: group}
}

// Root returns the software root.
func (r *Registry) Root() string {
	return r.root
}

// Lookup returns the install paths matching name and, when non-empty,
// version and build, newest version first. Each part must be an exact
// directory name.
func (r *Registry) Lookup(name, version, build string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("package lookup requires a name")
	}
	if err := checkSpecParts([]string{name, version, build}); err != nil {
		return nil, fmt.Errorf("package lookup: %w", err)
	}
	return r.lookup(name, version, build)
}

func (r *Registry) lookup(name, version, build string) ([]string, error) {
	pattern := filepath.Join(r.root, r.arch, globPart(name), globPart(version), globPart(build))

	matches, err := afero.Glob(r.fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", pattern, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := r.fs.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		// modulefiles/<name>/<version> has the same depth as a prefix
		if rel, err := filepath.Rel(filepath.Join(r.root, r.arch), m); err == nil &&
			strings.HasPrefix(rel, ModulefilesDirName+string(filepath.Separator)) {
			continue
		}
		paths = append(paths, m)
	}

	sortNewestFirst(paths)
	return paths, nil
}

// Open returns the package installed at path.
func (r *Registry) Open(path string) (*Package, error) {
	return ParsePath(r.root, r.arch, r.group, path)
}

// List returns every installed package, sorted by name then newest version.
func (r *Registry) List() ([]*Package, error) {
	paths, err := r.lookup("*", "", "")
	if err != nil {
		return nil, err
	}
	pkgs := make([]*Package, 0, len(paths))
	for _, p := range paths {
		pkg, err := r.Open(p)
		if err != nil {
			continue
		}
		pkgs = append(pkgs, pkg)
	}
	sort.SliceStable(pkgs, func(i, j int) bool {
		return pkgs[i].Name() < pkgs[j].Name()
	})
	return pkgs, nil
}

func globPart(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// sortNewestFirst orders .../<version>/<build> paths by version descending,
// then build ascending.
func sortNewestFirst(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		vi := filepath.Base(filepath.Dir(paths[i]))
		vj := filepath.Base(filepath.Dir(paths[j]))
		if c := CompareVersions(vi, vj); c != 0 {
			return c > 0
		}
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})
}

// CompareVersions compares dotted version strings. Versions that are valid
// semver once prefixed with "v" compare semantically; others fall back to
// string order and sort below valid ones.
func CompareVersions(a, b string) int {
	va, vb := canonical(a), canonical(b)
	switch {
	case va != "" && vb != "":
		return semver.Compare(va, vb)
	case va != "":
		return 1
	case vb != "":
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
