// Package ui provides the startup banner for devup.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// tagline is printed under the banner.
const tagline = "One command to bring the workspace up"

// PrintBanner prints the devup banner with version and workspace info.
// Nothing is printed when output is not a terminal.
//
// Parameters:
//   - version: The CLI version string to display
//   - root: The workspace root being bootstrapped
func PrintBanner(version, root string) {
	if !Interactive() {
		return
	}

	name := lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true).
		PaddingLeft(2).
		Render("devup")

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		PaddingLeft(2)

	w := writer()
	fmt.Fprintln(w)
	fmt.Fprintln(w, name)
	fmt.Fprintln(w, infoStyle.Italic(true).Render(tagline))
	fmt.Fprintln(w)
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("Version:   %s", version)))
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("Workspace: %s", root)))
	fmt.Fprintln(w)
}
