package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Width(12)

	selectedCellStyle = cellStyle.
				Foreground(lipgloss.Color("205")).
				Bold(true)

	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Padding(1, 4)
)
