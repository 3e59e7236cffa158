package formula

import (
	"github.com/opmodel/smithy/internal/output"
)

// SupportedBuildNames resolves the declared build name matchers. String
// entries match as substrings; matcher entries such as *regexp.Regexp match
// as patterns.
func (f *Formula) SupportedBuildNames() ([]BuildNameMatcher, error) {
	v, err := f.Attr(AttrSupportedBuildNames)
	if err != nil {
		return nil, err
	}
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []BuildNameMatcher:
		return l, nil
	case []string:
		out := make([]BuildNameMatcher, 0, len(l))
		for _, s := range l {
			out = append(out, Literal(s))
		}
		return out, nil
	case []any:
		out := make([]BuildNameMatcher, 0, len(l))
		for _, item := range l {
			switch m := item.(type) {
			case string:
				out = append(out, Literal(m))
			case BuildNameMatcher:
				out = append(out, m)
			default:
				return nil, f.configErrorf("supported_build_names entries must be strings or patterns, got %T", item)
			}
		}
		return out, nil
	default:
		return nil, f.configErrorf("supported_build_names must be a list, got %T", v)
	}
}

// CheckSupportedBuildNames returns an *UnsupportedBuildError when the build
// name matches none of the declared matchers. No matchers means any build
// name is supported.
func (f *Formula) CheckSupportedBuildNames() error {
	matchers, err := f.SupportedBuildNames()
	if err != nil {
		return err
	}
	if len(matchers) == 0 {
		return nil
	}

	buildName := f.BuildName()
	for _, m := range matchers {
		if m.MatchString(buildName) {
			return nil
		}
	}

	patterns := make([]string, 0, len(matchers))
	output.NoticeWarn(f.def.name + " supported build names:")
	for _, m := range matchers {
		patterns = append(patterns, m.String())
		output.Println("  " + m.String())
	}
	return &UnsupportedBuildError{
		Formula:   f.def.name,
		BuildName: buildName,
		Patterns:  patterns,
	}
}
