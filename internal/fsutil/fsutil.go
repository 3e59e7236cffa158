// Package fsutil provides the filesystem operations formulas need around an
// install: recursive directory creation, group ownership and group write bits.
package fsutil

import (
	"fmt"
	"io/fs"
	"os/user"
	"strconv"

	"github.com/spf13/afero"

	oerrors "github.com/opmodel/smithy/internal/errors"
)

// GroupLookup resolves a group name to a gid.
type GroupLookup func(name string) (int, error)

// FS wraps an afero filesystem with install helpers.
type FS struct {
	afero.Fs
	lookupGroup GroupLookup
}

// New creates an FS. A nil lookup resolves groups through os/user.
func New(base afero.Fs, lookup GroupLookup) *FS {
	if lookup == nil {
		lookup = lookupSystemGroup
	}
	return &FS{Fs: base, lookupGroup: lookup}
}

// NewOS creates an FS over the host filesystem.
func NewOS() *FS {
	return New(afero.NewOsFs(), nil)
}

// EnsureDir creates dir and any missing parents with mode 0755.
func (f *FS) EnsureDir(dir string) error {
	if err := f.Fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// WriteFile writes data to path with mode 0644.
func (f *FS) WriteFile(path string, data []byte) error {
	if err := afero.WriteFile(f.Fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// MakeGroupWritable adds g+w to path, and to everything beneath it when recursive.
func (f *FS) MakeGroupWritable(path string, recursive bool) error {
	return f.walk(path, recursive, func(p string, info fs.FileInfo) error {
		mode := info.Mode().Perm() | 0o020
		if info.IsDir() {
			mode |= 0o010 | fs.ModeSetgid&info.Mode()
		}
		if err := f.Chmod(p, mode); err != nil {
			return oerrors.NewPermissionError(
				fmt.Sprintf("could not make %s group writable", p),
				map[string]string{"Path": p},
				"Check that you own the install prefix.",
			)
		}
		return nil
	})
}

// SetGroup changes the group of path, and of everything beneath it when
// recursive. An empty group is a no-op.
func (f *FS) SetGroup(path, group string, recursive bool) error {
	if group == "" {
		return nil
	}
	gid, err := f.lookupGroup(group)
	if err != nil {
		return fmt.Errorf("looking up group %q: %w", group, err)
	}
	return f.walk(path, recursive, func(p string, _ fs.FileInfo) error {
		// -1 leaves the owner unchanged
		if err := f.Chown(p, -1, gid); err != nil {
			return oerrors.NewPermissionError(
				fmt.Sprintf("could not set group %s on %s", group, p),
				map[string]string{"Path": p, "Group": group},
				"Check that you are a member of the group.",
			)
		}
		return nil
	})
}

func (f *FS) walk(path string, recursive bool, fn func(string, fs.FileInfo) error) error {
	if !recursive {
		info, err := f.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		return fn(path, info)
	}
	return afero.Walk(f.Fs, path, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return fn(p, info)
	})
}

func lookupSystemGroup(name string) (int, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(g.Gid)
}
