package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"kidtodo/internal/model"
)

var (
	// Tab styles
	tabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("236")).
			PaddingLeft(1).
			PaddingRight(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			PaddingLeft(1).
			PaddingRight(1)

	chipStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingRight(1)
	activeChipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true).Underline(true).PaddingRight(1)

	priorityHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // Red
	priorityMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true) // Yellow
	priorityLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)  // Green

	statusDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	statusPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)

	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	bulletStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	progressFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	progressEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
)

// Status line colors.
const (
	colorInfo  = "86"
	colorOK    = "82"
	colorError = "196"
)

func priorityCell(p model.Priority) string {
	label := p.Label()
	switch p {
	case model.PriorityHigh:
		return priorityHighStyle.Render(label)
	case model.PriorityLow:
		return priorityLowStyle.Render(label)
	default:
		return priorityMedStyle.Render(label)
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("86"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}
