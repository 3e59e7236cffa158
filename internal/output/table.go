package output

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table is a borderless column listing in the style of `module avail`:
// a bold header row followed by left-aligned, padded cells.
type Table struct {
	headers []string
	rows    [][]string
}

var (
	headerCell = StyleAction.PaddingRight(2)
	plainCell  = lipgloss.NewStyle().PaddingRight(2)
)

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// Row appends a row. Missing cells render empty.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table. Header styling is dropped when stdout is not a TTY.
func (t *Table) String() string {
	header := plainCell
	if IsTTY() {
		header = headerCell
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return plainCell
		})

	return tbl.String()
}

// RenderParamsTable renders formula parameters sorted by name.
func RenderParamsTable(params map[string]any) string {
	t := NewTable("PARAMETER", "VALUE")
	for _, name := range slices.Sorted(maps.Keys(params)) {
		t.Row(name, fmt.Sprint(params[name]))
	}
	return t.String()
}
