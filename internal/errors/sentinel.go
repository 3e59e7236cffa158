package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrConfiguration indicates a formula or CLI configuration problem.
	ErrConfiguration = errors.New("configuration error")

	// ErrDependency indicates one or more declared dependencies are not installed.
	ErrDependency = errors.New("dependency error")

	// ErrUnsupportedBuild indicates the build name matches none of a formula's supported build names.
	ErrUnsupportedBuild = errors.New("unsupported build")

	// ErrCommandFailed indicates an external command exited with a nonzero status.
	ErrCommandFailed = errors.New("command failed")

	// ErrValidation indicates a formula file failed schema validation.
	ErrValidation = errors.New("validation error")

	// ErrPermission indicates insufficient filesystem permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a formula, package, or file was not found.
	ErrNotFound = errors.New("not found")
)
