package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/smithy/internal/output"
)

// Environment variables read by the resolver.
const (
	EnvConfig             = "SMITHY_CONFIG"
	EnvRoot               = "SMITHY_ROOT"
	EnvArch               = "SMITHY_ARCH"
	EnvFormulaDirectories = "SMITHY_FORMULA_DIRECTORIES"
	EnvFileGroup          = "SMITHY_FILE_GROUP"
)

// Loader reads config.yaml through viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with its own viper instance.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load reads configFile, or the default config path when it is empty.
// A missing file is not an error: Load returns an empty Config and found=false.
func (l *Loader) Load(configFile string) (cfg *Config, found bool, err error) {
	if configFile == "" {
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, false, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expanded, err := ExpandPath(configFile)
	if err != nil {
		return nil, false, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expanded)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			output.Debug("config file not found", "path", expanded)
			return &Config{}, false, nil
		}
		return nil, false, fmt.Errorf("reading config file %s: %w", expanded, err)
	}

	cfg = &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, true, fmt.Errorf("unmarshaling config: %w", err)
	}

	output.Debug("loaded config file", "path", expanded)
	return cfg, true, nil
}

// header is written above generated config files.
const header = "# smithy configuration. Values here are overridden by SMITHY_* variables and flags.\n"

// Write saves cfg as YAML at path, creating ~/.smithy if needed.
func Write(path string, cfg *Config) error {
	target, err := ExpandPath(path)
	if err != nil {
		return err
	}
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	return os.WriteFile(target, append([]byte(header), body...), 0o644)
}

// Exists reports whether a config file is present at path.
func Exists(path string) (bool, error) {
	target, err := ExpandPath(path)
	if err != nil {
		return false, err
	}
	switch _, err := os.Stat(target); {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
