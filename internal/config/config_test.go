package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "/sw", cfg.Root)
	assert.Equal(t, DefaultArch(), cfg.Arch)
	assert.Equal(t, []string{"~/.smithy/formulas"}, cfg.FormulaDirectories)
	assert.Empty(t, cfg.FileGroup)
	assert.Nil(t, cfg.Log.Timestamps)
}

func TestDefaultArch(t *testing.T) {
	assert.NotEmpty(t, DefaultArch())
	assert.NotEqual(t, "amd64", DefaultArch())
}

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "empty", cfg: &Config{}},
		{name: "home root", cfg: &Config{Root: "~/sw", FileGroup: "swtools"}},
		{name: "relative root", cfg: &Config{Root: "sw"}, wantErr: true},
		{name: "arch with slash", cfg: &Config{Arch: "x86/64"}, wantErr: true},
		{name: "empty formula directory", cfg: &Config{FormulaDirectories: []string{""}}, wantErr: true},
		{name: "bad group", cfg: &Config{FileGroup: "sw tools"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
