// Package envmodule plans and applies environment-module setup for formula builds.
//
// The external module tool (modulecmd) is only usable when MODULESHOME is set.
// Without it the planner is Unavailable and every module operation is a no-op.
package envmodule

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv is the environment variable that signals an environment-modules install.
const HomeEnv = "MODULESHOME"

// DefaultShellFlavor is the shell syntax requested from the module tool.
const DefaultShellFlavor = "sh"

// Tool describes how to invoke the module tool.
type Tool struct {
	// Path is the modulecmd binary, bundled or bare.
	Path string

	// Flavor is the shell syntax modulecmd emits (e.g. "sh").
	Flavor string
}

// Command returns the shell command line invoking the tool with args.
func (t *Tool) Command(args ...string) string {
	parts := append([]string{t.Path, t.Flavor}, args...)
	return strings.Join(parts, " ")
}

// Detect locates the module tool from the environment. It returns nil when
// getenv(HomeEnv) is empty. A modulecmd bundled under $MODULESHOME/bin takes
// precedence over a bare "modulecmd" resolved through PATH.
func Detect(getenv func(string) string, exists func(string) bool) *Tool {
	home := getenv(HomeEnv)
	if home == "" {
		return nil
	}

	tool := &Tool{Path: "modulecmd", Flavor: DefaultShellFlavor}
	bundled := filepath.Join(home, "bin", "modulecmd")
	if exists(bundled) {
		tool.Path = bundled
	}
	return tool
}

// DetectEnv calls Detect with the process environment and filesystem.
func DetectEnv() *Tool {
	return Detect(os.Getenv, func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	})
}
