package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Slate/indigo palette to match the dashboard theme
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#818CF8") // Light indigo
	Accent    = lipgloss.Color("#F472B6") // Pink accent
	Success   = lipgloss.Color("#34D399") // Emerald
	Warning   = lipgloss.Color("#FBBF24") // Amber
	Error     = lipgloss.Color("#F87171") // Soft red
	Muted     = lipgloss.Color("#64748B") // Slate gray
	Text      = lipgloss.Color("#E2E8F0") // Slate white
	BgDark    = lipgloss.Color("#0F172A") // Slate 900

	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2).
			MarginTop(1)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true).
				PaddingLeft(2)

	ItemStyle = lipgloss.NewStyle().
			Foreground(Text).
			PaddingLeft(2)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.NormalBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(Text).
				Border(lipgloss.NormalBorder()).
				BorderForeground(Accent).
				Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Width(20)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Secondary).
			Padding(0, 1).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Width(80).
			Align(lipgloss.Left).
			Background(BgDark).
			Padding(0, 2)
)

func centered(s string) string {
	return lipgloss.NewStyle().Width(80).Align(lipgloss.Center).Render(s)
}
