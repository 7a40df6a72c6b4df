package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table represents a simple table for displaying tabular data
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// TableOptions configures table behavior
type TableOptions struct {
	NoColor bool
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	t := &Table{writer: w, headers: headers}
	if opts != nil {
		t.noColor = opts.NoColor
	}
	return t
}

// AddRow adds a row to the table. Missing cells render empty and extra
// cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows added
func (t *Table) Len() int {
	return len(t.rows)
}

// Render renders the table to the writer
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if t.noColor {
		bold.DisableColor()
		gray.DisableColor()
	}

	last := len(t.headers) - 1
	for i, header := range t.headers {
		bold.Fprint(t.writer, cell(header, widths[i], i == last))
		if i < last {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for i, width := range widths {
		gray.Fprint(t.writer, strings.Repeat("─", width))
		if i < last {
			gray.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		for i, c := range row {
			fmt.Fprint(t.writer, cell(c, widths[i], i == last))
			if i < last {
				fmt.Fprint(t.writer, "  ")
			}
		}
		fmt.Fprintln(t.writer)
	}
}

// cell pads s to width, except in the last column
func cell(s string, width int, last bool) string {
	if last {
		return s
	}
	return padRight(s, width)
}

// padRight pads a string with spaces on the right to reach the target width
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// KeyValueTable renders a simple key-value table (2 columns)
type KeyValueTable struct {
	writer  io.Writer
	rows    [][2]string
	noColor bool
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow adds a key-value pair to the table
func (t *KeyValueTable) AddRow(key, value string) {
	t.rows = append(t.rows, [2]string{key, value})
}

// Render renders the key-value table
func (t *KeyValueTable) Render() {
	if len(t.rows) == 0 {
		return
	}

	maxKeyWidth := 0
	for _, row := range t.rows {
		if n := utf8.RuneCountInString(row[0]); n > maxKeyWidth {
			maxKeyWidth = n
		}
	}

	cyan := color.New(color.FgCyan)
	if t.noColor {
		cyan.DisableColor()
	}
	for _, row := range t.rows {
		cyan.Fprint(t.writer, padRight(row[0]+":", maxKeyWidth+1))
		fmt.Fprintf(t.writer, " %s\n", row[1])
	}
}

// Header renders a styled header
func Header(w io.Writer, title string, noColor bool) {
	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if noColor {
		bold.DisableColor()
		gray.DisableColor()
	}
	bold.Fprintln(w, title)
	gray.Fprintln(w, strings.Repeat("─", utf8.RuneCountInString(title)))
}
