package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kidtodo/internal/view"
)

const progressWidth = 30

func (m Model) View() string {
	switch m.mode {
	case modeAdd, modeEdit, modeNewProject:
		return m.formView()
	}

	frame := m.events.frame
	header := headerStyle.Render("📋 kidtodo")

	tabs := make([]string, 0, len(frame.Projects))
	for i, name := range frame.Projects {
		label := name
		if i < 9 {
			label = fmt.Sprintf("[%d] %s", i+1, name)
		}
		if name == frame.ActiveProject {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var chips []string
	for _, f := range []view.Filter{view.FilterAll, view.FilterActive, view.FilterDone} {
		if f == frame.Filter {
			chips = append(chips, activeChipStyle.Render(string(f)))
		} else {
			chips = append(chips, chipStyle.Render(string(f)))
		}
	}
	controls := strings.Join(chips, "") + bulletStyle.Render(" • ") + "sort: " + actionStyle.Render(string(frame.Sort))
	if m.mode == modeSearch {
		controls += bulletStyle.Render(" • ") + m.inputs[0].View()
	} else if frame.Search != "" {
		controls += bulletStyle.Render(" • ") + "search: " + actionStyle.Render(frame.Search)
	}

	content := m.table.View()
	if len(frame.VisibleTasks) == 0 {
		content = lipgloss.NewStyle().Padding(1).Render("Nothing here yet. Press n to add a task.")
	}

	progress := progressBar(frame.Stats.Percent) +
		fmt.Sprintf(" %d%% done in %q", frame.Stats.Percent, frame.ActiveProject) +
		bulletStyle.Render(" • ") +
		fmt.Sprintf("%d tasks • %d done", frame.Stats.Total, frame.Stats.Done)

	commandRow := m.commandRow()

	if m.statusMsg != "" && m.now().Before(m.statusExpiry) {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.statusColor))
		commandRow += "\n> " + statusStyle.Render(m.statusMsg)
	}

	sections := []string{header, "", tabRow, controls, content, progress}
	if m.toast != nil {
		body := headerStyle.Render(m.toast.Title) + "\n" + m.toast.Body + "\n" +
			keyStyle.Render("m") + ": " + actionStyle.Render("mark done") + " " +
			bulletStyle.Render("•") + " " + keyStyle.Render("esc") + ": " + actionStyle.Render("dismiss")
		sections = append(sections, toastStyle.Render(body))
	}
	sections = append(sections, "", commandRow)

	return lipgloss.JoinVertical(lipgloss.Top, sections...)
}

func (m Model) commandRow() string {
	if m.mode == modeConfirmClearAll {
		return priorityHighStyle.Render("Clear ALL tasks in ALL projects?") + " " +
			keyStyle.Render("y") + ": " + actionStyle.Render("yes") + " " +
			bulletStyle.Render("•") + " " + keyStyle.Render("any key") + ": " + actionStyle.Render("no")
	}
	if m.mode == modeSearch {
		return keyStyle.Render("enter") + ": " + actionStyle.Render("keep search") + " " +
			bulletStyle.Render("•") + " " + keyStyle.Render("esc") + ": " + actionStyle.Render("clear search")
	}

	commands := []string{
		keyStyle.Render("←→") + ": " + actionStyle.Render("project"),
		keyStyle.Render("↑↓") + ": " + actionStyle.Render("navigate"),
		keyStyle.Render("n") + ": " + actionStyle.Render("add"),
		keyStyle.Render("e") + ": " + actionStyle.Render("edit"),
		keyStyle.Render("space") + ": " + actionStyle.Render("toggle done"),
		keyStyle.Render("d") + ": " + actionStyle.Render("delete"),
		keyStyle.Render("f") + ": " + actionStyle.Render("filter"),
		keyStyle.Render("s") + ": " + actionStyle.Render("sort"),
		keyStyle.Render("/") + ": " + actionStyle.Render("search"),
		keyStyle.Render("p") + ": " + actionStyle.Render("new project"),
		keyStyle.Render("c/C") + ": " + actionStyle.Render("clear done/all"),
		keyStyle.Render("x") + ": " + actionStyle.Render("export"),
		keyStyle.Render("q") + ": " + actionStyle.Render("quit"),
	}
	return strings.Join(commands, bulletStyle.Render(" • "))
}

func (m Model) formView() string {
	var labels []string
	var title string
	switch m.mode {
	case modeNewProject:
		title = "📁 New Project"
		labels = []string{"Project name:"}
	case modeAdd:
		title = fmt.Sprintf("➕ New Task in %q", m.events.frame.ActiveProject)
		labels = formLabels[:]
	default:
		title = "✏️ Editing Mode"
		labels = formLabels[:]
	}

	fields := make([]string, 0, len(m.inputs))
	for i, input := range m.inputs {
		label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Render(labels[i])
		fields = append(fields, label+"\n"+input.View())
	}
	content := lipgloss.JoinVertical(lipgloss.Top, fields...)

	footer := keyStyle.Render("tab") + ": " + actionStyle.Render("next field") + " " +
		bulletStyle.Render("•") + " " + keyStyle.Render("shift+tab") + ": " + actionStyle.Render("prev field") + " " +
		bulletStyle.Render("•") + " " + keyStyle.Render("enter") + ": " + actionStyle.Render("save") + " " +
		bulletStyle.Render("•") + " " + keyStyle.Render("esc") + ": " + actionStyle.Render("cancel")
	if m.mode == modeEdit {
		footer += "\n" + bulletStyle.Render(fmt.Sprintf("blank keeps the current value, %q clears a due date or time", clearValue))
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		headerStyle.Render(title),
		"",
		content,
		"",
		footer,
	)
}

func progressBar(percent int) string {
	filled := percent * progressWidth / 100
	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", progressWidth-filled))
}
