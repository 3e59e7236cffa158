package templates

import (
	"fmt"
	"net/url"
	"unicode"
)

// ValidateFormulaName checks if a formula name is valid.
// Names allow letters, digits, hyphens, dots and underscores.
func ValidateFormulaName(name string) error {
	if name == "" {
		return fmt.Errorf("formula name cannot be empty")
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '.' {
			return fmt.Errorf("invalid formula name %q: contains invalid character %q", name, r)
		}
	}

	if !unicode.IsLetter(rune(name[0])) {
		return fmt.Errorf("invalid formula name %q: must start with a letter", name)
	}

	return nil
}

// ValidateURL checks that raw is an absolute URL with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q: must be absolute", raw)
	}
	return nil
}

// DeriveHomepage returns the scheme and host of raw as a homepage URL.
func DeriveHomepage(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}
