// Package ui provides terminal output styling for devup.
//
// All user-facing console lines go through this package so they share one
// palette. Structured diagnostics go through charmbracelet/log instead.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	Blue    = lipgloss.Color("#3B82F6")
	Teal    = lipgloss.Color("#14B8A6")
	Red     = lipgloss.Color("#EF4444")
	Amber   = lipgloss.Color("#F59E0B")
	Green   = lipgloss.Color("#22C55E")
	DimGray = lipgloss.Color("#9CA3AF")
)

// Text styles.
var (
	// TitleStyle for stage headings
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Blue)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))

	// DimStyle for less important text
	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// RunningStyle for the in-progress stage marker
	RunningStyle = lipgloss.NewStyle().
			Foreground(Teal)
)

// Box styles.
var (
	// BoxStyle for remediation hints
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Padding(0, 1)

	BoxTitleStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true)

	// ErrorBoxStyle for fatal failures
	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(0, 1)
)

// Table styles.
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Bold(true)

	TableCellStyle = lipgloss.NewStyle()
)
