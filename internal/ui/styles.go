package ui

import "github.com/charmbracelet/lipgloss"

var (
	styleAccent   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true) // blue
	styleDim      = lipgloss.NewStyle().Faint(true)
	styleBar      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleBarTrail = lipgloss.NewStyle().Foreground(lipgloss.Color("238")) // dark gray
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
	styleSep      = lipgloss.NewStyle().Faint(true)
	styleHelp     = lipgloss.NewStyle().Faint(true)
)
