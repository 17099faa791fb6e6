package tui

import "github.com/charmbracelet/lipgloss"

var (
	red    = lipgloss.Color("#FF2442")
	muted  = lipgloss.Color("#8A8A8A")
	green  = lipgloss.Color("#2BA471")
	yellow = lipgloss.Color("#E6A23C")
)

var styles = struct {
	title    lipgloss.Style
	header   lipgloss.Style
	muted    lipgloss.Style
	notice   lipgloss.Style
	selected lipgloss.Style
	card     lipgloss.Style
	spinner  lipgloss.Style
	gradeA   lipgloss.Style
	gradeB   lipgloss.Style
	gradeC   lipgloss.Style
}{
	title:    lipgloss.NewStyle().Bold(true).Foreground(red).MarginBottom(1),
	header:   lipgloss.NewStyle().Bold(true),
	muted:    lipgloss.NewStyle().Foreground(muted),
	notice:   lipgloss.NewStyle().Foreground(yellow).MarginTop(1),
	selected: lipgloss.NewStyle().Foreground(red).Bold(true),
	card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1).
		MarginBottom(1),
	spinner: lipgloss.NewStyle().Foreground(red),
	gradeA:  lipgloss.NewStyle().Foreground(green).Bold(true),
	gradeB:  lipgloss.NewStyle().Foreground(yellow).Bold(true),
	gradeC:  lipgloss.NewStyle().Foreground(red).Bold(true),
}
