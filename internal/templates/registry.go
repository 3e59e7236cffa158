package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed files/*
var files embed.FS

// TemplateName identifies an embedded template.
type TemplateName string

const (
	Modulefile  TemplateName = "modulefile"
	FormulaYAML TemplateName = "yaml"
	FormulaCUE  TemplateName = "cue"
)

// DefaultFormat is the skeleton format formula new uses without --format.
const DefaultFormat = string(FormulaYAML)

var registry = map[TemplateName]Template{
	Modulefile:  {Name: Modulefile, File: "files/modulefile.tmpl"},
	FormulaYAML: {Name: FormulaYAML, File: "files/formula.yaml.tmpl", Skeleton: true, Indent: "  "},
	FormulaCUE:  {Name: FormulaCUE, File: "files/formula.cue.tmpl", Skeleton: true, Indent: "\t"},
}

// Get looks up a template by name.
func Get(name string) (Template, error) {
	t, ok := registry[TemplateName(name)]
	if !ok {
		return Template{}, fmt.Errorf("unknown template %q", name)
	}
	return t, nil
}

// Formats lists the skeleton formats formula new accepts, sorted.
func Formats() []string {
	var out []string
	for name, t := range registry {
		if t.Skeleton {
			out = append(out, string(name))
		}
	}
	slices.Sort(out)
	return out
}

// Source returns the raw text of an embedded template.
func Source(name TemplateName) (string, error) {
	t, err := Get(string(name))
	if err != nil {
		return "", err
	}
	b, err := fs.ReadFile(files, t.File)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", t.File, err)
	}
	return string(b), nil
}

func skeleton(format string) (Template, error) {
	t, err := Get(format)
	if err != nil || !t.Skeleton {
		return Template{}, fmt.Errorf("unknown formula format %q; valid formats: %s",
			format, strings.Join(Formats(), ", "))
	}
	return t, nil
}
