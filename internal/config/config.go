// Package config provides configuration loading and management.
package config

import "runtime"

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Config represents the smithy configuration.
// Loaded from ~/.smithy/config.yaml, validated against the embedded CUE schema.
type Config struct {
	// Root is the software root packages are installed under.
	// Env: SMITHY_ROOT, Default: /sw
	Root string `json:"root,omitempty" mapstructure:"root"`

	// Arch is the architecture directory below the root.
	// Env: SMITHY_ARCH, Default: derived from the host
	Arch string `json:"arch,omitempty" mapstructure:"arch"`

	// FormulaDirectories are searched in order for formula files.
	// Env: SMITHY_FORMULA_DIRECTORIES (colon separated)
	FormulaDirectories []string `json:"formulaDirectories,omitempty" mapstructure:"formulaDirectories"`

	// FileGroup is the group installed files are assigned to.
	// Env: SMITHY_FILE_GROUP, Default: none
	FileGroup string `json:"fileGroup,omitempty" mapstructure:"fileGroup"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty" mapstructure:"log"`
}

// DefaultRoot is the software root used when none is configured.
const DefaultRoot = "/sw"

// DefaultConfig returns a Config with all default values populated.
// Used by `smithy config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Root:               DefaultRoot,
		Arch:               DefaultArch(),
		FormulaDirectories: []string{"~/.smithy/formulas"},
	}
}

// DefaultArch names the host architecture the way uname -m does.
func DefaultArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	default:
		return runtime.GOARCH
	}
}
