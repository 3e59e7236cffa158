// Package cmd implements the smithy command tree.
package cmd

// Process exit codes. Scripts driving smithy in a build farm rely on these
// staying stable.
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitValidationError  = 2 // formula or config file rejected
	ExitCommandFailed    = 3 // a build step exited nonzero
	ExitPermissionDenied = 4 // prefix or modulefile not writable
	ExitNotFound         = 5 // formula, package or file missing
	ExitDependencyError  = 6 // declared dependency not installed
	ExitUnsupportedBuild = 7 // build name rejected by the formula
)

var exitCodeNames = map[int]string{
	ExitSuccess:          "Success",
	ExitGeneralError:     "General Error",
	ExitValidationError:  "Validation Error",
	ExitCommandFailed:    "Command Failed",
	ExitPermissionDenied: "Permission Denied",
	ExitNotFound:         "Not Found",
	ExitDependencyError:  "Dependency Error",
	ExitUnsupportedBuild: "Unsupported Build",
}

// ExitCodeName returns a short label for code, or "Unknown".
func ExitCodeName(code int) string {
	if name, ok := exitCodeNames[code]; ok {
		return name
	}
	return "Unknown"
}
