package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/software"
)

// formulaView is the resolved form of a formula printed by formula display.
type formulaView struct {
	Name                    string         `json:"name"`
	File                    string         `json:"file"`
	Homepage                string         `json:"homepage"`
	URL                     string         `json:"url"`
	Version                 string         `json:"version"`
	MD5                     string         `json:"md5,omitempty"`
	SHA1                    string         `json:"sha1,omitempty"`
	SHA2                    string         `json:"sha2,omitempty"`
	SHA256                  string         `json:"sha256,omitempty"`
	Prefix                  string         `json:"prefix,omitempty"`
	Modules                 []string       `json:"modules,omitempty"`
	ModuleCommands          []string       `json:"moduleCommands,omitempty"`
	DependsOn               []string       `json:"dependsOn,omitempty"`
	AdditionalSoftwareRoots []string       `json:"additionalSoftwareRoots,omitempty"`
	SupportedBuildNames     []string       `json:"supportedBuildNames,omitempty"`
	GroupWritable           bool           `json:"groupWritable"`
	Params                  map[string]any `json:"params,omitempty"`
	Modulefile              string         `json:"modulefile,omitempty"`
}

// NewFormulaDisplayCmd creates the formula display command.
func NewFormulaDisplayCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "display NAME[/VERSION/BUILD]",
		Short: "Show a formula's resolved attributes",
		Long: `Print a formula's attributes as YAML after resolving every declaration.

Given a full NAME/VERSION/BUILD spec, attributes are resolved for that
package, so templated values show the prefix and build they would install to.

Examples:
  smithy formula display zlib
  smithy formula display zlib/1.2.11/gnu4.7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExitCode(runFormulaDisplay(cmd, g, args[0]))
		},
	}
}

func runFormulaDisplay(cmd *cobra.Command, g *GlobalConfig, spec string) error {
	name, version, build, err := software.ParseSpec(spec)
	if err != nil {
		return err
	}

	c, err := g.catalog()
	if err != nil {
		return err
	}
	_, def, err := c.Load(name)
	if err != nil {
		return err
	}

	var pkg *software.Package
	if version != "" && build != "" {
		if pkg, err = g.newPackage(name, version, build); err != nil {
			return err
		}
	}

	f, err := g.newFormula(def, pkg, formula.WithModuleTool(nil))
	if err != nil {
		return err
	}

	view, err := resolveView(f)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("encoding formula: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func resolveView(f *formula.Formula) (*formulaView, error) {
	view := &formulaView{
		Name:          f.Definition().Name(),
		File:          f.FormulaFile(),
		Homepage:      f.Homepage(),
		URL:           f.URL(),
		Version:       f.Version(),
		MD5:           f.MD5(),
		SHA1:          f.SHA1(),
		SHA2:          f.SHA2(),
		SHA256:        f.SHA256(),
		Prefix:        f.Prefix(),
		GroupWritable: f.GroupWritable(),
	}

	var err error
	if view.Modules, err = f.Modules(); err != nil {
		return nil, err
	}
	if view.ModuleCommands, err = f.ModuleCommands(); err != nil {
		return nil, err
	}
	if view.DependsOn, err = f.DependsOn(); err != nil {
		return nil, err
	}
	if view.AdditionalSoftwareRoots, err = f.AdditionalSoftwareRoots(); err != nil {
		return nil, err
	}

	matchers, err := f.SupportedBuildNames()
	if err != nil {
		return nil, err
	}
	for _, m := range matchers {
		view.SupportedBuildNames = append(view.SupportedBuildNames, m.String())
	}

	if names := f.Definition().Params(); len(names) > 0 {
		view.Params = make(map[string]any, len(names))
		for _, name := range names {
			if view.Params[name], err = f.Param(name); err != nil {
				return nil, err
			}
		}
	}

	if view.Modulefile, err = f.Modulefile(); err != nil {
		return nil, err
	}
	return view, nil
}
