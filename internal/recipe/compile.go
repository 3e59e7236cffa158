package recipe

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/templates"
)

// Compile turns a formula file into a definition. String values containing
// "{{" are rendered per instance with text/template against the instance's
// module data (.Name .Version .BuildName .Prefix ...), with the functions
// param, dep and moduleVar. The modulefile is kept as written; it is rendered
// when the modulefile is created.
func Compile(file *File) (*formula.Definition, error) {
	matchers, err := buildNameMatchers(file.SupportedBuildNames)
	if err != nil {
		return nil, err
	}

	def := formula.Define(file.Name, func(d *formula.Declarations) {
		if file.Path != "" {
			d.SetDefinitionFile(file.Path)
		}

		setString(d, formula.AttrHomepage, file.Homepage)
		setString(d, formula.AttrURL, file.URL)
		setString(d, formula.AttrMD5, file.MD5)
		setString(d, formula.AttrSHA1, file.SHA1)
		setString(d, formula.AttrSHA2, file.SHA2)
		setString(d, formula.AttrSHA256, file.SHA256)
		setString(d, formula.AttrVersion, file.Version)

		setList(d, formula.AttrModules, file.Modules)
		setList(d, formula.AttrModuleCommands, file.ModuleCommands)
		setList(d, formula.AttrDependsOn, file.DependsOn)
		setList(d, formula.AttrAdditionalSoftwareRoots, file.AdditionalSoftwareRoots)

		if len(matchers) > 0 {
			d.SupportedBuildNames(matchers...)
		}
		if file.Modulefile != "" {
			d.Modulefile(file.Modulefile)
		}
		if file.DisableGroupWritable {
			d.DisableGroupWritable()
		}
		if len(file.Params) > 0 {
			d.Params(file.Params)
		}

		steps := append([]Step(nil), file.Install...)
		d.Install(func(ctx context.Context, f *formula.Formula) error {
			return runSteps(ctx, f, steps)
		})
	})
	return def, nil
}

func buildNameMatchers(entries []string) ([]formula.BuildNameMatcher, error) {
	matchers := make([]formula.BuildNameMatcher, 0, len(entries))
	for _, e := range entries {
		if len(e) > 2 && strings.HasPrefix(e, "/") && strings.HasSuffix(e, "/") {
			re, err := regexp.Compile(e[1 : len(e)-1])
			if err != nil {
				return nil, fmt.Errorf("supported build name %s: %w", e, err)
			}
			matchers = append(matchers, re)
			continue
		}
		matchers = append(matchers, formula.Literal(e))
	}
	return matchers, nil
}

func isTemplate(s string) bool {
	return strings.Contains(s, "{{")
}

func setString(d *formula.Declarations, name, value string) {
	switch {
	case value == "":
	case isTemplate(value):
		d.SetFunc(name, func(f *formula.Formula) (any, error) {
			return render(f.Context(), f, value)
		})
	default:
		d.Set(name, value)
	}
}

func setList(d *formula.Declarations, name string, values []string) {
	if len(values) == 0 {
		return
	}
	templated := false
	for _, v := range values {
		if isTemplate(v) {
			templated = true
			break
		}
	}
	if !templated {
		d.Set(name, values)
		return
	}
	d.SetFunc(name, func(f *formula.Formula) (any, error) {
		out := make([]string, 0, len(values))
		for _, v := range values {
			s, err := render(f.Context(), f, v)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	})
}

func render(ctx context.Context, f *formula.Formula, text string) (string, error) {
	if !isTemplate(text) {
		return text, nil
	}
	return templates.NewRenderer(f.ModuleData(), f.TemplateFuncs(ctx)).RenderString(text)
}

func runSteps(ctx context.Context, f *formula.Formula, steps []Step) error {
	for i, step := range steps {
		output.Debug("install step", "formula", f.Definition().Name(), "step", i+1, "action", step.Action())

		var err error
		switch {
		case step.Run != "":
			var line string
			if line, err = render(ctx, f, step.Run); err != nil {
				break
			}
			if step.BypassModules {
				err = f.SystemNoModules(ctx, line)
			} else {
				err = f.System(ctx, line)
			}
		case step.Patch != "":
			var content string
			if content, err = render(ctx, f, step.Patch); err != nil {
				break
			}
			err = f.Patch(ctx, content, step.PatchArgs...)
		case step.Python != "":
			var args string
			if args, err = render(ctx, f, step.Python); err != nil {
				break
			}
			err = f.SystemPython(ctx, args)
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}
