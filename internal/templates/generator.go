package templates

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/opmodel/smithy/internal/output"
)

// Generator writes formula skeletons.
type Generator struct {
	fs   afero.Fs
	opts GenerateOptions
}

// NewGenerator creates a new generator with the given options.
func NewGenerator(fs afero.Fs, opts GenerateOptions) *Generator {
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	return &Generator{fs: fs, opts: opts}
}

// Generate renders the skeleton and writes <TargetDir>/<Name>.<Format>.
func (g *Generator) Generate() (*GenerateResult, error) {
	tmpl, err := skeleton(g.opts.Format)
	if err != nil {
		return nil, err
	}

	if err := ValidateFormulaName(g.opts.Name); err != nil {
		return nil, err
	}
	if err := ValidateURL(g.opts.URL); err != nil {
		return nil, err
	}

	homepage := g.opts.Homepage
	if homepage == "" {
		homepage = DeriveHomepage(g.opts.URL)
	}

	modulefile, err := Source(Modulefile)
	if err != nil {
		return nil, err
	}
	data := SkeletonData{
		Name:       g.opts.Name,
		Homepage:   homepage,
		URL:        g.opts.URL,
		Modulefile: Indent(strings.TrimRight(modulefile, "\n"), tmpl.Indent),
	}

	content, err := NewRenderer(data, nil).RenderTemplate(tmpl.Name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(g.opts.TargetDir, g.opts.Name+"."+string(tmpl.Name))
	if !g.opts.Force {
		if exists, _ := afero.Exists(g.fs, path); exists {
			return nil, fmt.Errorf("file %s already exists; use --force to overwrite", path)
		}
	}

	if err := g.fs.MkdirAll(g.opts.TargetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", g.opts.TargetDir, err)
	}
	if err := afero.WriteFile(g.fs, path, content, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	output.Debug("created formula", "template", tmpl.Name, "path", path)

	return &GenerateResult{Path: path, TemplateName: string(tmpl.Name)}, nil
}
