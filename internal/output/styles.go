package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette. These are the single source of truth; never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: prefixes, package paths, formula names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for success notices.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for warnings.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for failures.
	ColorBoldRed = lipgloss.Color("204")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs and notice headers.
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleSuccess styles success notices.
	StyleSuccess = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)

	// StyleWarn styles warning notices.
	StyleWarn = lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)

	// StyleFailed styles failure lines.
	StyleFailed = lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// render applies style only when writing to a terminal.
func render(style lipgloss.Style, s string) string {
	if !IsTTY() {
		return s
	}
	return style.Render(s)
}

// Notice prints a bold notice line to stdout. Commands echo through here before they run.
func Notice(msg string) {
	Println(render(StyleAction, "==> ") + msg)
}

// NoticeSuccess prints a success notice, e.g. "SUCCESS /sw/zlib/1.2.7/gnu".
func NoticeSuccess(msg string) {
	Println(render(StyleSuccess, "==> "+msg))
}

// NoticeWarn prints a warning notice.
func NoticeWarn(msg string) {
	Println(render(StyleWarn, "==> "+msg))
}

// NoticeUsing announces a dependency or path being used by a build.
func NoticeUsing(path string) {
	Println(render(StyleAction, "==> ") + "Using " + render(StyleNoun, path))
}
