package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// DefaultPatchArgs are passed to patch when the caller supplies none.
var DefaultPatchArgs = []string{"-p1"}

// Patch writes content to a temporary diff file and applies it with the system
// patch tool, in the host environment. The diff file is removed afterwards.
func (r *Runner) Patch(ctx context.Context, content string, args ...string) error {
	f, err := os.CreateTemp(r.workDir(), "patch-*.diff")
	if err != nil {
		return fmt.Errorf("creating patch file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("writing patch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing patch file: %w", err)
	}

	if len(args) == 0 {
		args = DefaultPatchArgs
	}

	return r.Run(ctx, Bypass, "patch", strings.Join(args, " "), "<"+f.Name())
}
