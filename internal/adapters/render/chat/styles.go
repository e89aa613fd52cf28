package chat

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	session   lipgloss.Style
	active    lipgloss.Style
	detail    lipgloss.Style
	empty     lipgloss.Style
	userRole  lipgloss.Style
	botRole   lipgloss.Style
	content   lipgloss.Style
	timestamp lipgloss.Style
	section   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		session:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		active:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		empty:     lipgloss.NewStyle().Faint(true),
		userRole:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		botRole:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		content:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section:   lipgloss.NewStyle().MarginTop(1),
	}
}
