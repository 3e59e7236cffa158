// Package templates renders modulefiles and formula skeletons with text/template.
package templates

// Template describes an embedded template.
type Template struct {
	Name TemplateName

	// File is the path within the embedded filesystem.
	File string

	// Skeleton marks formula file templates.
	Skeleton bool

	// Indent is prefixed to each modulefile line embedded in a skeleton.
	Indent string
}

// ModuleData is the binding modulefile templates render against.
type ModuleData struct {
	Name       string
	Version    string
	BuildName  string
	Root       string
	Arch       string
	Prefix     string
	Group      string
	ModulePath string
	ModuleFile string
}

// SkeletonData is the binding formula skeletons render against.
type SkeletonData struct {
	// Name is the formula name as given on the command line.
	Name string

	Homepage string
	URL      string

	// Modulefile is the default modulefile body, already indented for the
	// target format.
	Modulefile string
}

// GenerateOptions configures formula skeleton generation.
type GenerateOptions struct {
	// Name is the formula name.
	Name string

	// URL is the source archive URL.
	URL string

	// Homepage defaults to the scheme and host of URL.
	Homepage string

	// Format selects the skeleton template (yaml or cue).
	Format string

	// TargetDir is the directory the formula file is written to.
	TargetDir string

	// Force allows overwriting an existing formula file.
	Force bool
}

// GenerateResult contains the result of skeleton generation.
type GenerateResult struct {
	// Path is the formula file written.
	Path string

	// TemplateName is the template that was used.
	TemplateName string
}
