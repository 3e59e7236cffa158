package templates

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	for _, name := range []TemplateName{Modulefile, FormulaYAML, FormulaCUE} {
		tmpl, err := Get(string(name))
		require.NoError(t, err, name)
		assert.Equal(t, name, tmpl.Name)

		src, err := Source(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, src, name)
	}

	_, err := Get("YAML")
	assert.Error(t, err)
	_, err = Source("invalid")
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"cue", "yaml"}, Formats())
	assert.Contains(t, Formats(), DefaultFormat)
}

func TestRenderModulefile(t *testing.T) {
	r := NewRenderer(ModuleData{
		Name:    "zlib",
		Version: "1.2.11",
		Prefix:  "/sw/xk6/zlib/1.2.11/gnu",
	}, nil)

	out, err := r.RenderTemplate(Modulefile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "#%Module"))
	assert.Contains(t, string(out), "set PREFIX /sw/xk6/zlib/1.2.11/gnu")
	assert.Contains(t, string(out), `module-whatis "zlib 1.2.11"`)
}

func TestRenderString_Funcs(t *testing.T) {
	r := NewRenderer(map[string]string{"Name": "zlib"}, map[string]any{
		"upper": strings.ToUpper,
	})

	out, err := r.RenderString("{{ upper .Name }}")
	require.NoError(t, err)
	assert.Equal(t, "ZLIB", out)

	_, err = r.RenderString("{{ .Missing }}")
	assert.Error(t, err)

	_, err = r.RenderString("{{ unknownFunc }}")
	assert.Error(t, err)
}

func TestDedent(t *testing.T) {
	in := "\n    #%Module\n      set PREFIX /x\n\n    prepend-path PATH /x/bin\n"
	assert.Equal(t, "#%Module\n  set PREFIX /x\n\nprepend-path PATH /x/bin\n", Dedent(in))
	assert.Equal(t, "", Dedent("   \n  "))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", Indent("a\n\nb", "  "))
}

func TestValidateFormulaName(t *testing.T) {
	assert.NoError(t, ValidateFormulaName("zlib"))
	assert.NoError(t, ValidateFormulaName("netcdf-fortran"))
	assert.Error(t, ValidateFormulaName(""))
	assert.Error(t, ValidateFormulaName("1zlib"))
	assert.Error(t, ValidateFormulaName("z lib"))
}

func TestDeriveHomepage(t *testing.T) {
	assert.Equal(t, "https://zlib.net/", DeriveHomepage("https://zlib.net/zlib-1.2.11.tar.gz"))
	assert.Equal(t, "", DeriveHomepage("zlib.tar.gz"))
	assert.Error(t, ValidateURL("zlib.tar.gz"))
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantPath string
		contains []string
	}{
		{
			name:     "yaml default",
			wantPath: "/formulas/zlib.yaml",
			contains: []string{
				"name: zlib",
				"homepage: https://zlib.net/",
				`run: "./configure --prefix={{ .Prefix }}"`,
				"  #%Module",
			},
		},
		{
			name:     "cue",
			format:   "cue",
			wantPath: "/formulas/zlib.cue",
			contains: []string{
				`name:     "zlib"`,
				`{run: "./configure --prefix={{ .Prefix }}"}`,
				"\t#%Module",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			res, err := NewGenerator(fs, GenerateOptions{
				Name:      "zlib",
				URL:       "https://zlib.net/zlib-1.2.11.tar.gz",
				Format:    tt.format,
				TargetDir: "/formulas",
			}).Generate()
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, res.Path)

			content, err := afero.ReadFile(fs, res.Path)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(content), want)
			}
		})
	}
}

func TestGenerate_RefusesOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := GenerateOptions{Name: "zlib", URL: "https://zlib.net/zlib.tar.gz", TargetDir: "/f"}

	_, err := NewGenerator(fs, opts).Generate()
	require.NoError(t, err)

	_, err = NewGenerator(fs, opts).Generate()
	assert.ErrorContains(t, err, "already exists")

	opts.Force = true
	_, err = NewGenerator(fs, opts).Generate()
	assert.NoError(t, err)
}

func TestGenerate_InvalidFormat(t *testing.T) {
	_, err := NewGenerator(afero.NewMemMapFs(), GenerateOptions{
		Name: "zlib", URL: "https://zlib.net/z.tar.gz", Format: "modulefile",
	}).Generate()
	assert.ErrorContains(t, err, "unknown formula format")
}
