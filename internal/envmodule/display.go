package envmodule

import (
	"regexp"
	"strings"
)

// ParseDisplayVariable extracts the value assigned to variable from module
// display output. Lines look like "prepend-path  PATH  /opt/dot/bin".
// Returns "" when no line matches.
func ParseDisplayVariable(display, variable string) string {
	if variable == "" {
		return ""
	}
	re, err := regexp.Compile(`(?m)^(\S+)\s+` + regexp.QuoteMeta(variable) + `\s+(.*)$`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(display)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[2])
}

func availContains(avail, module string) bool {
	for _, line := range strings.Split(avail, "\n") {
		for _, field := range strings.Fields(line) {
			field = strings.TrimSuffix(field, "(default)")
			if field == module || strings.HasPrefix(field, module+"/") {
				return true
			}
		}
	}
	return false
}
