// Package recipe loads formulas declared in CUE, YAML or JSON files and
// compiles them into formula definitions.
package recipe

// File is a decoded formula file.
type File struct {
	Name     string `json:"name"`
	Homepage string `json:"homepage"`
	URL      string `json:"url"`

	MD5    string `json:"md5,omitempty"`
	SHA1   string `json:"sha1,omitempty"`
	SHA2   string `json:"sha2,omitempty"`
	SHA256 string `json:"sha256,omitempty"`

	// Version is derived from URL when empty.
	Version string `json:"version,omitempty"`

	Modules                 []string `json:"modules,omitempty"`
	ModuleCommands          []string `json:"moduleCommands,omitempty"`
	DependsOn               []string `json:"dependsOn,omitempty"`
	AdditionalSoftwareRoots []string `json:"additionalSoftwareRoots,omitempty"`
	SupportedBuildNames     []string `json:"supportedBuildNames,omitempty"`

	DisableGroupWritable bool   `json:"disableGroupWritable,omitempty"`
	Modulefile           string `json:"modulefile,omitempty"`

	Params map[string]any `json:"params,omitempty"`

	Install []Step `json:"install"`

	// Path is the file the formula was loaded from.
	Path string `json:"-"`
}

// Step is one install action. Exactly one of Run, Patch and Python is set.
type Step struct {
	// Run is a shell command line.
	Run string `json:"run,omitempty"`

	// BypassModules runs Run in the host environment.
	BypassModules bool `json:"bypassModules,omitempty"`

	// Patch is a unified diff applied in the build directory.
	Patch string `json:"patch,omitempty"`

	// PatchArgs replaces the default -p1.
	PatchArgs []string `json:"patchArgs,omitempty"`

	// Python is an argument line for the build's python interpreter.
	Python string `json:"python,omitempty"`
}

// Action names the step kind, for logging.
func (s Step) Action() string {
	switch {
	case s.Run != "":
		return "run"
	case s.Patch != "":
		return "patch"
	case s.Python != "":
		return "python"
	default:
		return ""
	}
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Run != "", s.Patch != "", s.Python != ""} {
		if set {
			n++
		}
	}
	return n
}
