package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	smithyDirName  = ".smithy"
	configFileName = "config.yaml"
	formulaDirName = "formulas"
)

// Paths are the per-user locations smithy reads by default.
type Paths struct {
	HomeDir    string // ~/.smithy
	ConfigFile string // ~/.smithy/config.yaml
	FormulaDir string // ~/.smithy/formulas
}

// DefaultPaths returns Paths rooted at the current user's home directory.
func DefaultPaths() (*Paths, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(userHome, smithyDirName)
	return &Paths{
		HomeDir:    dir,
		ConfigFile: filepath.Join(dir, configFileName),
		FormulaDir: filepath.Join(dir, formulaDirName),
	}, nil
}

// GetConfigFile returns $SMITHY_CONFIG, or ~/.smithy/config.yaml when unset.
func GetConfigFile() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}
	return paths.ConfigFile, nil
}

// ExpandPath replaces a leading "~" or "~/" with the user's home directory.
// Other paths, including "~user/...", are returned as given.
func ExpandPath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return path, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, rest), nil
}

// ExpandPaths expands each path and drops empty entries, so a
// formula-directory list like "a::b" yields two directories.
func ExpandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		expanded, err := ExpandPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}
