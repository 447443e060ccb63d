package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("#7a8699")
	destructive = lipgloss.Color("#e53935")
	info        = lipgloss.Color("#2196F3")
)

type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
	Badge    lipgloss.Style
	Selected lipgloss.Style
	Complete lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1),
		Heading:  lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Badge:    lipgloss.NewStyle().Foreground(info).Padding(0, 1).Border(lipgloss.RoundedBorder(), false, true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Complete: lipgloss.NewStyle().Foreground(accent),
		Error:    lipgloss.NewStyle().Foreground(destructive),
		Status:   lipgloss.NewStyle().Italic(true).Foreground(muted),
		Help:     lipgloss.NewStyle().Foreground(muted).Faint(true),
	}
}
