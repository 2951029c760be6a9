package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// columnGap separates rendered columns
const columnGap = "  "

// OperationRow is one line of the operations listing
type OperationRow struct {
	ID      string
	Kind    string
	Route   string
	Tag     string
	Summary string
}

func (r OperationRow) cells() []string {
	return []string{r.ID, r.Kind, r.Route, r.Tag, r.Summary}
}

var operationHeaders = []string{"Operation", "Kind", "Route", "Tag", "Summary"}

// OperationTable lists the operations derived for one service
type OperationTable struct {
	w       io.Writer
	rows    []OperationRow
	noColor bool
}

// NewOperationTable creates an empty operation listing
func NewOperationTable(w io.Writer, noColor bool) *OperationTable {
	return &OperationTable{w: w, noColor: noColor}
}

// Add appends a row
func (t *OperationTable) Add(row OperationRow) {
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *OperationTable) Len() int {
	return len(t.rows)
}

// Render writes the header, an underline and one aligned line per row.
// The kind column is colored by family: standard methods, custom actions
// and unclassified operations.
func (t *OperationTable) Render() {
	if len(t.rows) == 0 {
		t.paint(color.FgHiBlack).Fprintln(t.w, "(no operations)")
		return
	}

	widths := make([]int, len(operationHeaders))
	for i, h := range operationHeaders {
		widths[i] = width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row.cells() {
			widths[i] = max(widths[i], width(cell))
		}
	}

	head := t.paint(color.Bold, color.FgCyan)
	rule := t.paint(color.FgHiBlack)
	underline := make([]string, len(widths))
	for i := range widths {
		underline[i] = strings.Repeat("─", widths[i])
	}
	t.line(widths, operationHeaders, func(int) *color.Color { return head })
	t.line(widths, underline, func(int) *color.Color { return rule })

	for _, row := range t.rows {
		kind := t.kindColor(row.Kind)
		t.line(widths, row.cells(), func(col int) *color.Color {
			if col == 1 {
				return kind
			}
			return nil
		})
	}
}

// line pads every cell but the last to its column width before coloring so
// escape codes never count toward alignment
func (t *OperationTable) line(widths []int, cells []string, colorOf func(col int) *color.Color) {
	var b strings.Builder
	for i, cell := range cells {
		text := cell
		if i < len(cells)-1 {
			text = pad(cell, widths[i])
		}
		if c := colorOf(i); c != nil {
			text = c.Sprint(text)
		}
		if i > 0 {
			b.WriteString(columnGap)
		}
		b.WriteString(text)
	}
	fmt.Fprintln(t.w, strings.TrimRight(b.String(), " "))
}

func (t *OperationTable) kindColor(kind string) *color.Color {
	switch kind {
	case "-", "":
		return t.paint(color.FgHiBlack)
	case "custom-action", "collection-action":
		return t.paint(color.FgYellow)
	default:
		return t.paint(color.FgGreen)
	}
}

func (t *OperationTable) paint(attrs ...color.Attribute) *color.Color {
	return newColor(t.noColor, attrs...)
}

// Fields renders labelled values with the labels aligned
//
//	Title:      Library API
//	Version:    2.1.0
type Fields struct {
	w       io.Writer
	labels  []string
	values  []string
	noColor bool
}

// NewFields creates an empty field list
func NewFields(w io.Writer, noColor bool) *Fields {
	return &Fields{w: w, noColor: noColor}
}

// Add appends a field. Empty values render as "-".
func (f *Fields) Add(label, value string) {
	if value == "" {
		value = "-"
	}
	f.labels = append(f.labels, label)
	f.values = append(f.values, value)
}

// Render writes one line per field
func (f *Fields) Render() {
	longest := 0
	for _, l := range f.labels {
		longest = max(longest, width(l)+1)
	}
	label := newColor(f.noColor, color.FgCyan)
	for i, l := range f.labels {
		label.Fprint(f.w, pad(l+":", longest))
		fmt.Fprintf(f.w, " %s\n", f.values[i])
	}
}

// ResourceList renders resource types with their path patterns, one pattern
// per line, followed by a blank line
type ResourceList struct {
	w        io.Writer
	types    []string
	patterns [][]string
	noColor  bool
}

// NewResourceList creates an empty resource listing
func NewResourceList(w io.Writer, noColor bool) *ResourceList {
	return &ResourceList{w: w, noColor: noColor}
}

// Add appends a resource type and its patterns
func (l *ResourceList) Add(resourceType string, patterns []string) {
	l.types = append(l.types, resourceType)
	l.patterns = append(l.patterns, patterns)
}

// Render writes the "Resources" title and the aligned entries
func (l *ResourceList) Render() {
	newColor(l.noColor, color.Bold, color.FgCyan).Fprintln(l.w, "Resources")
	if len(l.types) == 0 {
		fmt.Fprintln(l.w, "  (none)")
		fmt.Fprintln(l.w)
		return
	}

	longest := 0
	for _, typ := range l.types {
		longest = max(longest, width(typ))
	}
	for i, typ := range l.types {
		for j, p := range l.patterns[i] {
			name := typ
			if j > 0 {
				name = ""
			}
			fmt.Fprintf(l.w, "  %s%s%s\n", pad(name, longest), columnGap, p)
		}
	}
	fmt.Fprintln(l.w)
}

// Header writes title underlined to its own width
func Header(w io.Writer, title string, noColor bool) {
	newColor(noColor, color.Bold, color.FgCyan).Fprintln(w, title)
	newColor(noColor, color.FgHiBlack).Fprintln(w, strings.Repeat("═", width(title)))
}

func newColor(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	}
	return c
}

// width counts runes so arrows and box characters occupy one column
func width(s string) int {
	return utf8.RuneCountInString(s)
}

func pad(s string, w int) string {
	if n := width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
