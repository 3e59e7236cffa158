package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	oerrors "github.com/opmodel/smithy/internal/errors"
)

//go:embed schema.cue
var schemaCUE []byte

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("config/schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling config schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Config")),
	}, nil
}

// Validate checks cfg against the schema. Violations are returned as a
// validation error listing each one.
func (v *Validator) Validate(cfg *Config) error {
	value := v.ctx.Encode(cfg)
	if value.Err() != nil {
		return fmt.Errorf("encoding config: %w", value.Err())
	}

	unified := v.schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var lines []string
		for _, e := range cueerrors.Errors(err) {
			lines = append(lines, strings.TrimSpace(cueerrors.Details(e, nil)))
		}
		return oerrors.NewValidationError(
			"config validation failed: "+strings.Join(lines, "; "),
			"",
			"Run 'smithy config init --force' to regenerate a valid config file.",
		)
	}
	return nil
}
