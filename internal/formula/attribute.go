package formula

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/opmodel/smithy/internal/output"
)

// versionPattern matches dotted version numbers with an optional pre-release
// suffix, as found in archive file names.
var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)+(?:-?(?:alpha|beta|rc|pre)\.?\d*)?`)

// frame is one attribute evaluation in progress.
type frame struct {
	name     string
	identity bool
}

// Attr resolves an attribute for this instance. The first resolution
// evaluates the declared block, or copies the declared literal, and caches
// the result. Undeclared built-in attributes resolve to nil.
func (f *Formula) Attr(name string) (any, error) {
	if v, ok := f.cache[name]; ok {
		if f.identityDeps[name] {
			f.touchIdentity()
		}
		return v, nil
	}

	for _, fr := range f.stack {
		if fr.name == name {
			return nil, f.configErrorf("attribute %q depends on itself", name)
		}
	}

	d, isDeclared := f.def.lookup(name)
	if !isDeclared && !builtinAttrs[name] {
		return nil, f.configErrorf("unknown attribute %q", name)
	}

	fr := &frame{name: name}
	f.stack = append(f.stack, fr)
	v, err := f.evaluate(name, d, isDeclared)
	f.stack = f.stack[:len(f.stack)-1]
	if err != nil {
		return nil, err
	}

	if fr.identity {
		f.identityDeps[name] = true
	}
	f.cache[name] = v
	return v, nil
}

func (f *Formula) evaluate(name string, d declared, isDeclared bool) (any, error) {
	switch {
	case isDeclared && d.block != nil:
		v, err := d.block(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %s.%s: %w", f.def.name, name, err)
		}
		return v, nil
	case isDeclared:
		return clone(d.value), nil
	case name == AttrVersion:
		return f.versionFromURL()
	default:
		return nil, nil
	}
}

// touchIdentity marks every evaluation in progress as depending on the
// instance identity.
func (f *Formula) touchIdentity() {
	for _, fr := range f.stack {
		fr.identity = true
	}
}

// invalidateIdentity drops cached attributes derived from identity.
func (f *Formula) invalidateIdentity() {
	for name := range f.identityDeps {
		delete(f.cache, name)
		delete(f.identityDeps, name)
	}
}

func (f *Formula) invalidate(names ...string) {
	for _, name := range names {
		delete(f.cache, name)
		delete(f.identityDeps, name)
	}
}

func (f *Formula) versionFromURL() (any, error) {
	u, err := f.Attr(AttrURL)
	if err != nil {
		return nil, err
	}
	s, _ := u.(string)
	if s == "" {
		return nil, nil
	}
	if v := VersionFromURL(s); v != "" {
		return v, nil
	}
	return nil, nil
}

// VersionFromURL returns the longest version-like substring of the url's
// file name, or of the whole url when the file name has none.
func VersionFromURL(url string) string {
	file := url
	if i := strings.LastIndex(url, "/"); i >= 0 {
		file = url[i+1:]
	}
	if v := longestVersion(file); v != "" {
		return v
	}
	return longestVersion(url)
}

func longestVersion(s string) string {
	best := ""
	for _, m := range versionPattern.FindAllString(s, -1) {
		if len(m) > len(best) {
			best = m
		}
	}
	return best
}

// StringAttr resolves an attribute expected to hold a string. Nil resolves
// to "".
func (f *Formula) StringAttr(name string) (string, error) {
	v, err := f.Attr(name)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// ListAttr resolves an attribute expected to hold a list of strings. A
// single string is accepted as a one-element list when allowScalar is set.
func (f *Formula) ListAttr(name string, allowScalar bool) ([]string, error) {
	v, err := f.Attr(name)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(string); ok && allowScalar {
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	}
	list, ok := toStringSlice(v)
	if !ok {
		return nil, f.configErrorf("%s must be a list of strings, got %T", name, v)
	}
	return list, nil
}

// str resolves a string attribute for the plain accessors, logging failures.
func (f *Formula) str(name string) string {
	s, err := f.StringAttr(name)
	if err != nil {
		output.Warn("could not resolve attribute", "formula", f.def.name, "attribute", name, "error", err)
		return ""
	}
	return s
}

// Homepage resolves the project homepage.
func (f *Formula) Homepage() string { return f.str(AttrHomepage) }

// URL resolves the source archive url.
func (f *Formula) URL() string { return f.str(AttrURL) }

// MD5 resolves the archive md5 checksum.
func (f *Formula) MD5() string { return f.str(AttrMD5) }

// SHA1 resolves the archive sha1 checksum.
func (f *Formula) SHA1() string { return f.str(AttrSHA1) }

// SHA2 resolves the archive sha2 checksum.
func (f *Formula) SHA2() string { return f.str(AttrSHA2) }

// SHA256 resolves the archive sha256 checksum.
func (f *Formula) SHA256() string { return f.str(AttrSHA256) }

// Param resolves a declared parameter.
func (f *Formula) Param(name string) (any, error) {
	return f.Attr(name)
}

// Modules resolves the declared module list.
func (f *Formula) Modules() ([]string, error) {
	return f.ListAttr(AttrModules, false)
}

// ModuleCommands resolves the declared module commands.
func (f *Formula) ModuleCommands() ([]string, error) {
	return f.ListAttr(AttrModuleCommands, false)
}

// DependsOn resolves the declared dependency specs.
func (f *Formula) DependsOn() ([]string, error) {
	return f.ListAttr(AttrDependsOn, true)
}

// AdditionalSoftwareRoots resolves the declared additional roots.
func (f *Formula) AdditionalSoftwareRoots() ([]string, error) {
	return f.ListAttr(AttrAdditionalSoftwareRoots, true)
}

func toStringSlice(v any) ([]string, bool) {
	switch l := v.(type) {
	case nil:
		return nil, true
	case []string:
		return slices.Clone(l), true
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// present reports whether a resolved value counts as declared.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case []string:
		return len(x) > 0
	case []any:
		return len(x) > 0
	default:
		return true
	}
}

// clone copies the containers a literal may hold so instances never share
// mutable state with the definition.
func clone(v any) any {
	switch x := v.(type) {
	case []string:
		return slices.Clone(x)
	case []BuildNameMatcher:
		return slices.Clone(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = clone(item)
		}
		return out
	case map[string]string:
		return maps.Clone(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = clone(item)
		}
		return out
	default:
		return v
	}
}
