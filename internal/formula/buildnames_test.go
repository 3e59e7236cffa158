package formula_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/smithy/internal/errors"
	"github.com/opmodel/smithy/internal/formula"
)

func TestCheckSupportedBuildNames(t *testing.T) {
	tests := []struct {
		name      string
		matchers  []formula.BuildNameMatcher
		buildName string
		wantErr   bool
	}{
		{name: "nothing declared", buildName: "anything"},
		{name: "literal substring", matchers: []formula.BuildNameMatcher{formula.Literal("gnu")}, buildName: "gnu4.7.2"},
		{name: "pattern match", matchers: []formula.BuildNameMatcher{formula.Regexp(`^pgi\d+`)}, buildName: "pgi12.10"},
		{
			name:      "second matcher matches",
			matchers:  []formula.BuildNameMatcher{formula.Literal("cray"), regexp.MustCompile(`gnu`)},
			buildName: "gnu4.7",
		},
		{
			name:      "pattern mismatch",
			matchers:  []formula.BuildNameMatcher{formula.Regexp(`^pgi`)},
			buildName: "gnu4.7",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := define(func(d *formula.Declarations) {
				if tt.matchers != nil {
					d.SupportedBuildNames(tt.matchers...)
				}
			})
			f, _ := newFormula(t, def, formula.WithPackage(newPackage("/sw", "zlib", "1.2.11", tt.buildName)))

			err := f.CheckSupportedBuildNames()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrUnsupportedBuild))
		})
	}
}

func TestCheckSupportedBuildNames_ListsEveryPattern(t *testing.T) {
	def := define(func(d *formula.Declarations) {
		d.Set(formula.AttrSupportedBuildNames, []any{"cray", regexp.MustCompile(`^pgi`)})
	})
	f, _ := newFormula(t, def, formula.WithBuildName("gnu4.7"))

	err := f.CheckSupportedBuildNames()
	var ubErr *formula.UnsupportedBuildError
	require.ErrorAs(t, err, &ubErr)
	assert.Equal(t, []string{"cray", "^pgi"}, ubErr.Patterns)
	assert.Equal(t, "gnu4.7", ubErr.BuildName)
	assert.Contains(t, err.Error(), "^pgi")
}

func TestSupportedBuildNames_InvalidEntry(t *testing.T) {
	def := define(func(d *formula.Declarations) {
		d.Set(formula.AttrSupportedBuildNames, []any{42})
	})
	f, _ := newFormula(t, def)
	assert.True(t, errors.Is(f.CheckSupportedBuildNames(), oerrors.ErrConfiguration))
}
