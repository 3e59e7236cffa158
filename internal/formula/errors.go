package formula

import (
	"fmt"
	"strings"

	oerrors "github.com/opmodel/smithy/internal/errors"
)

// ConfigurationError reports a formula that is declared or used incorrectly:
// missing required attributes, conflicting module declarations, malformed
// values, or a Python interpreter that does not match the build name.
type ConfigurationError struct {
	// Formula is the formula name.
	Formula string

	// File is the formula's source file, if known.
	File string

	Message string
}

func (e *ConfigurationError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Formula, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Formula, e.File, e.Message)
}

// Unwrap returns ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return oerrors.ErrConfiguration
}

// DependencyError lists every declared dependency with no installed match.
type DependencyError struct {
	Formula string
	Missing []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s depends on: %s", e.Formula, strings.Join(e.Missing, " "))
}

// Unwrap returns ErrDependency.
func (e *DependencyError) Unwrap() error {
	return oerrors.ErrDependency
}

// UnsupportedBuildError reports a build name matching none of a formula's
// supported build names.
type UnsupportedBuildError struct {
	Formula   string
	BuildName string
	Patterns  []string
}

func (e *UnsupportedBuildError) Error() string {
	return fmt.Sprintf("%s does not support build name %q; use a build name that includes any of: %s",
		e.Formula, e.BuildName, strings.Join(e.Patterns, ", "))
}

// Unwrap returns ErrUnsupportedBuild.
func (e *UnsupportedBuildError) Unwrap() error {
	return oerrors.ErrUnsupportedBuild
}

func (f *Formula) configErrorf(format string, args ...any) error {
	return &ConfigurationError{
		Formula: f.def.name,
		File:    f.def.file,
		Message: fmt.Sprintf(format, args...),
	}
}
