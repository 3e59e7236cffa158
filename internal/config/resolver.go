package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opmodel/smithy/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a configuration value with its source and the
// lower-precedence values it shadowed.
type ResolvedValue struct {
	Key      string
	Value    string
	Source   ConfigSource
	Shadowed map[ConfigSource]string
}

// ResolvedConfig is the effective configuration after applying precedence.
type ResolvedConfig struct {
	ConfigPath         ResolvedValue
	Root               ResolvedValue
	Arch               ResolvedValue
	FormulaDirectories ResolvedValue
	FileGroup          ResolvedValue

	// Config is the file configuration, empty when no file exists.
	Config *Config

	// ConfigFound reports whether the config file exists.
	ConfigFound bool
}

// Values returns every resolved value in display order.
func (r *ResolvedConfig) Values() []ResolvedValue {
	return []ResolvedValue{r.ConfigPath, r.Root, r.Arch, r.FormulaDirectories, r.FileGroup}
}

// Directories returns the formula directories with ~ expanded.
func (r *ResolvedConfig) Directories() ([]string, error) {
	if r.FormulaDirectories.Value == "" {
		return nil, nil
	}
	return ExpandPaths(filepath.SplitList(r.FormulaDirectories.Value))
}

// Effective returns the resolved values as a Config.
func (r *ResolvedConfig) Effective() *Config {
	cfg := &Config{
		Root:      r.Root.Value,
		Arch:      r.Arch.Value,
		FileGroup: r.FileGroup.Value,
	}
	if r.FormulaDirectories.Value != "" {
		cfg.FormulaDirectories = filepath.SplitList(r.FormulaDirectories.Value)
	}
	if r.Config != nil {
		cfg.Log = r.Config.Log
	}
	return cfg
}

// ResolveOptions contains the flag values that take part in resolution.
// Empty strings mean the flag was not set.
type ResolveOptions struct {
	ConfigFlag string
	RootFlag   string
	ArchFlag   string
}

// Resolve loads the config file and resolves every value using precedence:
// (1) flag, (2) SMITHY_* env, (3) config file, (4) default.
func Resolve(opts ResolveOptions) (*ResolvedConfig, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}

	result := &ResolvedConfig{}
	result.ConfigPath = resolve("config", opts.ConfigFlag, os.Getenv(EnvConfig), "", paths.ConfigFile)

	cfg, found, err := NewLoader().Load(result.ConfigPath.Value)
	if err != nil {
		return nil, err
	}
	if found {
		v, err := NewValidator()
		if err != nil {
			return nil, err
		}
		if err := v.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", result.ConfigPath.Value, err)
		}
	}
	result.Config = cfg
	result.ConfigFound = found

	defaults := DefaultConfig()
	result.Root = resolve("root", opts.RootFlag, os.Getenv(EnvRoot), cfg.Root, defaults.Root)
	result.Arch = resolve("arch", opts.ArchFlag, os.Getenv(EnvArch), cfg.Arch, defaults.Arch)
	result.FormulaDirectories = resolve("formulaDirectories", "",
		os.Getenv(EnvFormulaDirectories),
		strings.Join(cfg.FormulaDirectories, string(filepath.ListSeparator)),
		strings.Join(defaults.FormulaDirectories, string(filepath.ListSeparator)))
	result.FileGroup = resolve("fileGroup", "", os.Getenv(EnvFileGroup), cfg.FileGroup, "")

	LogResolvedValues(result.Values())
	return result, nil
}

// resolve picks the first non-empty value of flag, env, config and default,
// recording the non-empty values it shadowed.
func resolve(key, flag, env, config, def string) ResolvedValue {
	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, flag},
		{SourceEnv, env},
		{SourceConfig, config},
		{SourceDefault, def},
	}

	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if rv.Source == "" {
			rv.Value = c.value
			rv.Source = c.source
			continue
		}
		rv.Shadowed[c.source] = c.value
	}
	return rv
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)

		sources := make([]string, 0, len(v.Shadowed))
		for source := range v.Shadowed {
			sources = append(sources, string(source))
		}
		sort.Strings(sources)
		for _, source := range sources {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", v.Shadowed[ConfigSource(source)],
			)
		}
	}
}
