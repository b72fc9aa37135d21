package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("205")).Underline(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("236")).Padding(0, 1)

	attentionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))

	guestMsgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hostMsgStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	templateMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	aiMsgStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))

	draftBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("111")).
			Padding(0, 1)

	dateSepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Align(lipgloss.Center)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
