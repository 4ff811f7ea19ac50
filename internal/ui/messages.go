// Package ui provides message printing utilities.
package ui

import (
	"fmt"
	"strings"
)

// Println prints an empty line.
func Println() {
	fmt.Fprintln(writer())
}

// PrintSuccess prints a success message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(writer(), SuccessStyle.Render("✓ "+msg))
}

// PrintError prints an error message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(writer(), ErrorStyle.Render("✗ "+msg))
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(writer(), WarningStyle.Render("⚠ "+msg))
}

// PrintInfo prints an informational message.
func PrintInfo(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(writer(), InfoStyle.Render(msg))
}

// PrintDim prints a dimmed message.
func PrintDim(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(writer(), DimStyle.Render(msg))
}

// PrintBox prints content in a styled box.
//
// Parameters:
//   - title: Box title
//   - content: Box content
func PrintBox(title, content string) {
	titleStyled := BoxTitleStyle.Render(title)
	fmt.Fprintln(writer(), BoxStyle.Render(titleStyled+"\n"+content))
}

// PrintErrorBox prints a fatal failure with its remediation text.
func PrintErrorBox(title, content string) {
	titleStyled := ErrorStyle.Render(title)
	fmt.Fprintln(writer(), ErrorBoxStyle.Render(titleStyled+"\n"+content))
}

// Table renders rows in aligned columns.
type Table struct {
	// Headers contains the column header names.
	Headers []string

	// Rows contains all data rows.
	Rows [][]string
}

// NewTable creates a new table with the specified headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow adds a data row to the table. Missing trailing cells render empty.
func (t *Table) AddRow(values ...string) {
	t.Rows = append(t.Rows, values)
}

// Render prints the table. Column width is the widest cell in that column.
func (t *Table) Render() {
	if len(t.Headers) == 0 {
		return
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	w := writer()
	fmt.Fprintln(w, t.line(widths, t.Headers, TableHeaderStyle.Render))

	total := 2 * (len(widths) - 1)
	for _, n := range widths {
		total += n
	}
	fmt.Fprintln(w, DimStyle.Render(strings.Repeat("─", total)))

	for _, row := range t.Rows {
		fmt.Fprintln(w, t.line(widths, row, TableCellStyle.Render))
	}
}

func (t *Table) line(widths []int, cells []string, render func(...string) string) string {
	parts := make([]string, len(widths))
	for i := range widths {
		val := ""
		if i < len(cells) {
			val = cells[i]
		}
		parts[i] = render(val + strings.Repeat(" ", widths[i]-len(val)))
	}
	return strings.Join(parts, "  ")
}
