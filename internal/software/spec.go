package software

import (
	"fmt"
	"strings"
	"unicode"
)

// globMeta are the characters filepath.Match treats specially.
const globMeta = `*?[]\`

// ParseSpec splits "name/version/build" into its parts. Version and build are
// optional; missing parts are returned empty. Parts name exact directories:
// glob characters and "." or ".." are rejected.
func ParseSpec(spec string) (name, version, build string, err error) {
	spec = strings.TrimSpace(spec)
	parts := strings.Split(spec, "/")
	if len(parts) > 3 || parts[0] == "" {
		return "", "", "", fmt.Errorf("invalid package spec %q: expected name[/version[/build]]", spec)
	}
	if err := checkSpecParts(parts); err != nil {
		return "", "", "", fmt.Errorf("invalid package spec %q: %w", spec, err)
	}
	name = parts[0]
	if len(parts) > 1 {
		version = parts[1]
	}
	if len(parts) > 2 {
		build = parts[2]
	}
	return name, version, build, nil
}

func checkSpecParts(parts []string) error {
	for _, p := range parts {
		if p == "." || p == ".." {
			return fmt.Errorf("%q is not a valid component", p)
		}
		if strings.ContainsAny(p, globMeta) {
			return fmt.Errorf("%q contains a wildcard character", p)
		}
	}
	return nil
}

// FormatSpec joins non-empty trailing parts into a spec string.
func FormatSpec(name, version, build string) string {
	switch {
	case build != "":
		return name + "/" + version + "/" + build
	case version != "":
		return name + "/" + version
	default:
		return name
	}
}

// NormalizeName converts a package name to a lower-case, underscore separated
// identifier: "HDF5-Parallel" and "hdf5Parallel" both become "hdf5_parallel".
func NormalizeName(name string) string {
	var b strings.Builder
	prevLowerOrDigit := false
	pendingSep := false

	for _, r := range name {
		switch {
		case unicode.IsUpper(r):
			if prevLowerOrDigit {
				pendingSep = true
			}
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			prevLowerOrDigit = false
		case unicode.IsLower(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			prevLowerOrDigit = true
		default:
			pendingSep = true
			prevLowerOrDigit = false
		}
	}
	return b.String()
}
