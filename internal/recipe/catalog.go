package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/afero"

	oerrors "github.com/opmodel/smithy/internal/errors"
	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/output"
)

// Entry is a formula file found in a formula directory.
type Entry struct {
	Name string
	Path string
}

// Catalog finds formula files across formula directories. Earlier
// directories shadow later ones.
type Catalog struct {
	fs     afero.Fs
	dirs   []string
	loader *Loader
}

// NewCatalog creates a catalog over dirs.
func NewCatalog(fs afero.Fs, dirs []string) (*Catalog, error) {
	loader, err := NewLoader(fs)
	if err != nil {
		return nil, err
	}
	return &Catalog{fs: fs, dirs: dirs, loader: loader}, nil
}

// Dirs returns the formula directories in search order.
func (c *Catalog) Dirs() []string {
	return slices.Clone(c.dirs)
}

// Entries returns every formula file, sorted by name. Missing directories
// are skipped.
func (c *Catalog) Entries() ([]Entry, error) {
	seen := make(map[string]bool)
	var entries []Entry

	for _, dir := range c.dirs {
		infos, err := afero.ReadDir(c.fs, dir)
		if err != nil {
			if os.IsNotExist(err) {
				output.Debug("formula directory missing", "dir", dir)
				continue
			}
			return nil, fmt.Errorf("reading formula directory %s: %w", dir, err)
		}
		for _, info := range infos {
			if info.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(info.Name()))
			if !slices.Contains(Extensions, ext) {
				continue
			}
			name := strings.TrimSuffix(info.Name(), filepath.Ext(info.Name()))
			if seen[name] {
				continue
			}
			seen[name] = true
			entries = append(entries, Entry{Name: name, Path: filepath.Join(dir, info.Name())})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Find returns the entry for the named formula.
func (c *Catalog) Find(name string) (Entry, error) {
	entries, err := c.Entries()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, oerrors.NewNotFoundError(
		fmt.Sprintf("formula %q not found", name),
		strings.Join(c.dirs, ":"),
		"Run 'smithy formula list' to see available formulas, or create one with 'smithy formula new'.",
	)
}

// Load finds, loads and compiles the named formula.
func (c *Catalog) Load(name string) (*File, *formula.Definition, error) {
	entry, err := c.Find(name)
	if err != nil {
		return nil, nil, err
	}
	file, err := c.loader.LoadFile(entry.Path)
	if err != nil {
		return nil, nil, err
	}
	def, err := Compile(file)
	if err != nil {
		return nil, nil, err
	}
	return file, def, nil
}

// LoadFile loads a formula file without searching the catalog.
func (c *Catalog) LoadFile(path string) (*File, error) {
	return c.loader.LoadFile(path)
}
