// Package tui is the terminal presentation layer. It renders the app's frames
// and relays key presses back as intents; every decision about tasks lives in
// the app package.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"kidtodo/internal/app"
	"kidtodo/internal/model"
	"kidtodo/internal/reminder"
	"kidtodo/internal/store"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeSearch
	modeNewProject
	modeConfirmClearAll
)

const statusTTL = 3 * time.Second

// clearValue typed into an edit field removes the due date or time.
const clearValue = "-"

type statusMsg struct {
	message string
	color   string
}

type reminderTickMsg struct{}

func showStatus(msg string, color string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message: msg, color: color}
	}
}

// events is the app.Listener for the program. The app calls it synchronously
// from inside Update, so the model reads it right after each intent.
type events struct {
	frame   app.Frame
	pending []reminder.Notification
}

func (e *events) Render(f app.Frame) { e.frame = f }

func (e *events) Notify(n reminder.Notification) { e.pending = append(e.pending, n) }

// Model is the Bubble Tea model.
type Model struct {
	app        *app.App
	events     *events
	remind     reminder.Config
	exportPath string
	now        func() time.Time

	mode         mode
	table        table.Model
	inputs       []textinput.Model
	editingField int
	editingID    string

	statusMsg    string
	statusColor  string
	statusExpiry time.Time

	toast *reminder.Notification

	width  int
	height int
}

// New builds the model and registers it as a's listener.
func New(a *app.App, exportPath string) Model {
	ev := &events{frame: a.Frame()}
	a.SetListener(ev)

	m := Model{
		app:         a,
		events:      ev,
		remind:      a.Reminders().Config(),
		exportPath:  exportPath,
		now:         time.Now,
		statusColor: colorInfo,
	}
	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "Task", Width: 40},
			{Title: "Priority", Width: 10},
			{Title: "Due", Width: 18},
			{Title: "Reminder", Width: 14},
			{Title: "Status", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	m.table.SetStyles(tableStyles())
	m.syncRows()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(m.remind.StartupDelay, func(time.Time) tea.Msg { return reminderTickMsg{} })
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.remind.Interval, func(time.Time) tea.Msg { return reminderTickMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.setStatus(msg.message, msg.color)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustLayout()
		return m, nil

	case reminderTickMsg:
		m.app.Tick()
		m.absorb()
		return m, m.scheduleTick()

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeEdit, modeNewProject:
			return m.handleFormKeys(msg)
		case modeSearch:
			return m.handleSearchKeys(msg)
		case modeConfirmClearAll:
			return m.handleConfirmKeys(msg)
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	frame := m.events.frame

	switch key := msg.String(); key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "left", "shift+tab":
		m.switchProject(-1)
	case "right", "tab":
		m.switchProject(1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i, _ := strconv.Atoi(key)
		if i <= len(frame.Projects) {
			m.app.SwitchProject(frame.Projects[i-1])
			m.absorb()
		}
	case "up", "k", "down", "j":
		m.table, _ = m.table.Update(msg)
	case "n", "a":
		m.startAdd()
	case "e":
		m.startEdit()
	case " ", "enter":
		if t, ok := m.selected(); ok {
			res := m.app.Toggle(t.ID)
			m.absorb()
			label := "TODO"
			if !t.Done {
				label = "DONE"
			}
			m.report(res, fmt.Sprintf("✅ Task marked as %s", label))
		}
	case "d", "delete":
		if t, ok := m.selected(); ok {
			res := m.app.Delete(t.ID)
			m.absorb()
			m.report(res, fmt.Sprintf("🗑️ Deleted: %s", t.Text))
		}
	case "f":
		m.app.SetFilter(frame.Filter.Next())
		m.absorb()
	case "s":
		m.app.SetSort(frame.Sort.Next())
		m.absorb()
	case "/":
		m.mode = modeSearch
		in := textinput.New()
		in.Placeholder = "search tasks"
		in.SetValue(frame.Search)
		in.Focus()
		m.inputs = []textinput.Model{in}
		m.editingField = 0
	case "p":
		m.mode = modeNewProject
		in := textinput.New()
		in.Placeholder = "e.g. Sports"
		in.Focus()
		m.inputs = []textinput.Model{in}
		m.editingField = 0
	case "c":
		res := m.app.ClearDone()
		m.absorb()
		m.report(res, fmt.Sprintf("🧹 Cleared done tasks in %q", frame.ActiveProject))
	case "C":
		m.mode = modeConfirmClearAll
	case "x":
		if err := m.app.ExportFile(m.exportPath); err != nil {
			m.setStatus(fmt.Sprintf("❌ Export failed: %v", err), colorError)
		} else {
			m.setStatus(fmt.Sprintf("💾 Exported to %s", m.exportPath), colorOK)
		}
	case "m":
		if m.toast != nil {
			id := m.toast.TaskID
			m.toast = nil
			if t, ok := m.app.Store().Task(id); ok && !t.Done {
				res := m.app.Toggle(id)
				m.absorb()
				m.report(res, "✅ Task marked as DONE")
			}
		}
	case "esc":
		m.toast = nil
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.inputs = nil
		m.app.SetSearch("")
		m.absorb()
		return m, nil
	case "enter":
		m.mode = modeNormal
		m.inputs = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[0], cmd = m.inputs[0].Update(msg)
	m.app.SetSearch(m.inputs[0].Value())
	m.absorb()
	return m, cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	if msg.String() != "y" && msg.String() != "Y" {
		return m, showStatus("❌ Clear all cancelled", colorError)
	}
	res := m.app.ClearAll()
	m.absorb()
	m.report(res, "🧹 Cleared ALL tasks in ALL projects")
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.inputs = nil
		return m, showStatus("❌ Edit cancelled", colorError)
	case "enter":
		if !m.submitForm() {
			return m, nil
		}
		m.mode = modeNormal
		m.inputs = nil
		return m, nil
	case "tab", "down":
		m.focusField(m.editingField + 1)
	case "shift+tab", "up":
		m.focusField(m.editingField - 1)
	default:
		if len(m.inputs) > 0 {
			var cmd tea.Cmd
			m.inputs[m.editingField], cmd = m.inputs[m.editingField].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) focusField(i int) {
	if len(m.inputs) == 0 {
		return
	}
	m.editingField = (i + len(m.inputs)) % len(m.inputs)
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.inputs[m.editingField].Focus()
}

// Form field order for add and edit.
const (
	fieldText = iota
	fieldDue
	fieldDueTime
	fieldRemind
	fieldPriority
	fieldCount
)

var formLabels = [fieldCount]string{"Task:", "Due date (YYYY-MM-DD):", "Due time (HH:MM):", "Remind (minutes before):", "Priority (low / med / high):"}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
	}
	inputs[fieldText].CharLimit = model.MaxTextLen
	inputs[fieldDue].Placeholder = "2024-06-01"
	inputs[fieldDueTime].Placeholder = "17:00"
	inputs[fieldRemind].Placeholder = "0"
	inputs[fieldPriority].Placeholder = "med"
	inputs[fieldText].Focus()
	return inputs
}

func (m *Model) startAdd() {
	m.mode = modeAdd
	m.editingID = ""
	m.editingField = 0
	m.inputs = newFormInputs()
}

func (m *Model) startEdit() {
	t, ok := m.selected()
	if !ok {
		return
	}
	m.mode = modeEdit
	m.editingID = t.ID
	m.editingField = 0
	m.inputs = newFormInputs()
	m.inputs[fieldText].SetValue(t.Text)
	m.inputs[fieldDue].SetValue(t.DueDate())
	m.inputs[fieldDueTime].SetValue(t.DueClock())
	m.inputs[fieldRemind].SetValue(strconv.Itoa(t.RemindBeforeMin))
	m.inputs[fieldPriority].SetValue(string(t.Priority))
}

// submitForm relays the form as an intent. It reports false when the input
// could not be parsed, so the form stays open with what was typed.
func (m *Model) submitForm() bool {
	switch m.mode {
	case modeNewProject:
		res := m.app.AddProject(m.inputs[0].Value())
		m.absorb()
		m.report(res, fmt.Sprintf("📁 Project %q added", strings.TrimSpace(m.inputs[0].Value())))
	case modeAdd:
		lead, err := parseLead(m.inputs[fieldRemind].Value())
		if err != nil {
			m.setStatus("❌ "+err.Error(), colorError)
			return false
		}
		_, res := m.app.SubmitTask(store.NewTask{
			Text:            m.inputs[fieldText].Value(),
			Project:         m.events.frame.ActiveProject,
			Due:             m.inputs[fieldDue].Value(),
			DueTime:         m.inputs[fieldDueTime].Value(),
			RemindBeforeMin: lead,
			Priority:        m.inputs[fieldPriority].Value(),
		})
		m.absorb()
		m.report(res, "✅ Task added")
	case modeEdit:
		res := m.app.Edit(m.editingID, editFromInputs(m.inputs))
		m.absorb()
		m.report(res, "✅ Changes saved")
	}
	return true
}

func editFromInputs(inputs []textinput.Model) store.Edit {
	text := inputs[fieldText].Value()
	priority := inputs[fieldPriority].Value()
	e := store.Edit{Text: &text, Priority: &priority}

	due := strings.TrimSpace(inputs[fieldDue].Value())
	if due == clearValue {
		e.ClearDue = true
	} else {
		e.Due = &due
	}
	dueTime := strings.TrimSpace(inputs[fieldDueTime].Value())
	if dueTime == clearValue {
		e.ClearDueTime = true
	} else {
		e.DueTime = &dueTime
	}
	if lead, err := parseLead(inputs[fieldRemind].Value()); err == nil {
		e.RemindBeforeMin = &lead
	}
	return e
}

func parseLead(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("reminder must be a whole number of minutes, got %q", s)
	}
	return n, nil
}

func (m *Model) switchProject(step int) {
	projects := m.events.frame.Projects
	if len(projects) == 0 {
		return
	}
	cur := 0
	for i, p := range projects {
		if p == m.events.frame.ActiveProject {
			cur = i
			break
		}
	}
	next := (cur + step + len(projects)) % len(projects)
	m.app.SwitchProject(projects[next])
	m.absorb()
}

func (m Model) selected() (model.Task, bool) {
	tasks := m.events.frame.VisibleTasks
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[cursor], true
}

// absorb picks up the frame and notifications the app emitted.
func (m *Model) absorb() {
	m.syncRows()
	if len(m.events.pending) == 0 {
		return
	}
	last := m.events.pending[len(m.events.pending)-1]
	m.toast = &last
	m.setStatus(fmt.Sprintf("⏰ %d reminder(s) due", len(m.events.pending)), colorInfo)
	m.events.pending = nil
}

func (m *Model) syncRows() {
	tasks := m.events.frame.VisibleTasks
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, m.taskRow(t))
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) taskRow(t model.Task) table.Row {
	due := "No due date"
	if t.DueDate() != "" {
		due = strings.TrimSpace(t.DueDate() + " " + t.DueClock())
	}

	remind := "-"
	switch reminder.StateOf(t) {
	case reminder.Armed:
		remind = fmt.Sprintf("%dm before", t.RemindBeforeMin)
	case reminder.Fired:
		remind = "sent"
	}

	status := statusPendingStyle.Render("TODO")
	if t.Done {
		status = statusDoneStyle.Render("DONE")
	}

	return table.Row{t.Text, priorityCell(t.Priority), due, remind, status}
}

func (m *Model) report(res store.Result, okMsg string) {
	switch {
	case res.Rejected():
		m.setStatus("❌ "+res.Reason.Error(), colorError)
	case res.Changed && !res.Saved:
		m.setStatus(fmt.Sprintf("⚠️ Not saved: %v", res.Reason), colorError)
	case res.Changed:
		m.setStatus(okMsg, colorOK)
	}
}

func (m *Model) setStatus(msg, color string) {
	m.statusMsg = msg
	m.statusColor = color
	m.statusExpiry = m.now().Add(statusTTL)
}

func (m *Model) adjustLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	tableHeight := m.height - 12
	if tableHeight < 5 {
		tableHeight = 5
	}
	m.table.SetHeight(tableHeight)
}
