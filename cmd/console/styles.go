package main

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#8BC34A")
	mutedColor  = lipgloss.Color("#6C7A89")
	borderColor = lipgloss.Color("#3B4252")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginBottom(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 3)

	dialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	dashboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				MarginBottom(1)

	productRowStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)
