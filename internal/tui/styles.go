package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	missingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	bodyStyle     = lipgloss.NewStyle().PaddingLeft(2)
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	optionStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	focusedOptionStyle = optionStyle.BorderForeground(lipgloss.Color("57")).Bold(true)
	// labeledOptionStyle marks the label already recorded for the item.
	labeledOptionStyle = optionStyle.Background(lipgloss.Color("22")).Foreground(lipgloss.Color("230"))

	labeledLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	sliderTrackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sliderThumbStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Bold(true)
	inputStyle       = lipgloss.NewStyle().Underline(true)
)
