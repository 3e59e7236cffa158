package recipe

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/smithy/internal/errors"
	"github.com/opmodel/smithy/internal/output"
)

//go:embed schema.cue
var schemaCUE []byte

// ErrUnsupportedFormat is returned for files that are not CUE, YAML or JSON.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Extensions lists the file extensions formula files may use.
var Extensions = []string{".cue", ".yaml", ".yml", ".json"}

// Loader decodes formula files and validates them against the embedded schema.
type Loader struct {
	fs     afero.Fs
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader creates a loader reading from fs.
func NewLoader(fs afero.Fs) (*Loader, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Loader{
		fs:     fs,
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Formula")),
	}, nil
}

// LoadFile reads, validates and decodes a formula file.
func (l *Loader) LoadFile(path string) (*File, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading formula file: %w", err)
	}
	f, err := l.Parse(data, path)
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

// Parse validates and decodes formula source. The format is taken from the
// extension of name.
func (l *Loader) Parse(data []byte, name string) (*File, error) {
	var (
		value cue.Value
		err   error
	)

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".cue":
		value, err = l.loadCUE(data, name)
	case ".yaml", ".yml":
		value, err = l.loadYAML(data, name)
	case ".json":
		value, err = l.loadJSON(data, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	unified := l.schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, validationError(name, err)
	}

	var f File
	if err := unified.Decode(&f); err != nil {
		return nil, validationError(name, err)
	}
	for i, step := range f.Install {
		if step.actions() != 1 {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("install step %d must set exactly one of run, patch or python", i+1),
				name,
				"Split combined actions into separate steps.",
			)
		}
	}

	output.Debug("loaded formula file", "name", f.Name, "path", name, "steps", len(f.Install))
	return &f, nil
}

// loadCUE compiles CUE source code.
func (l *Loader) loadCUE(data []byte, path string) (cue.Value, error) {
	value := l.ctx.CompileBytes(data, cue.Filename(path))
	if value.Err() != nil {
		return cue.Value{}, validationError(path, value.Err())
	}
	return value, nil
}

// loadYAML converts a YAML document to JSON and compiles that. Anchors are
// resolved; mapping keys must be scalars.
func (l *Loader) loadYAML(data []byte, path string) (cue.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cue.Value{}, oerrors.NewValidationError(fmt.Sprintf("parsing YAML: %v", err), path, "")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return cue.Value{}, oerrors.NewValidationError("formula file is empty", path, "")
	}

	plain, err := yamlToPlain(doc.Content[0])
	if err != nil {
		return cue.Value{}, oerrors.NewValidationError(err.Error(), path, "")
	}
	jsonData, err := json.Marshal(plain)
	if err != nil {
		return cue.Value{}, fmt.Errorf("converting YAML to JSON: %w", err)
	}
	return l.loadJSON(jsonData, path)
}

func yamlToPlain(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlToPlain(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
			}
			v, err := yamlToPlain(val)
			if err != nil {
				return nil, err
			}
			m[key.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := yamlToPlain(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
}

// loadJSON compiles JSON, which is valid CUE.
func (l *Loader) loadJSON(data []byte, path string) (cue.Value, error) {
	if !json.Valid(data) {
		return cue.Value{}, oerrors.NewValidationError("invalid JSON", path, "")
	}
	value := l.ctx.CompileBytes(data, cue.Filename(path))
	if value.Err() != nil {
		return cue.Value{}, validationError(path, value.Err())
	}
	return value, nil
}

func validationError(path string, err error) error {
	msg := strings.TrimSpace(cueerrors.Details(err, nil))
	return oerrors.NewValidationError(msg, path, "Check the file against the formula schema.")
}
