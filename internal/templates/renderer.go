package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Renderer handles template rendering with data substitution.
type Renderer struct {
	data  any
	funcs template.FuncMap
}

// NewRenderer creates a new renderer with the given data and extra template
// functions. funcs may be nil.
func NewRenderer(data any, funcs template.FuncMap) *Renderer {
	return &Renderer{data: data, funcs: funcs}
}

// RenderFile renders a single template and returns the content.
func (r *Renderer) RenderFile(content []byte) ([]byte, error) {
	tmpl := template.New("file").Option("missingkey=error")
	if r.funcs != nil {
		tmpl = tmpl.Funcs(r.funcs)
	}
	tmpl, err := tmpl.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderString renders a template string and returns the result.
func (r *Renderer) RenderString(content string) (string, error) {
	result, err := r.RenderFile([]byte(content))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// RenderTemplate renders an embedded template by name.
func (r *Renderer) RenderTemplate(name TemplateName) ([]byte, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	out, err := r.RenderFile([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return out, nil
}

// Dedent removes the common leading indentation of the non-blank lines in s
// and trims leading blank lines.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")

	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, l := range lines {
			if len(l) >= indent {
				lines[i] = l[indent:]
			} else {
				lines[i] = strings.TrimLeft(l, " \t")
			}
		}
	}
	return strings.TrimLeft(strings.Join(lines, "\n"), " \t\r\n")
}

// Indent prefixes every non-blank line of s with prefix.
func Indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
