package tui

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"kidtodo/internal/app"
)

// Run starts the program on the alternate screen and blocks until it quits.
// The terminal belongs to the UI, so log output goes to logPath, or nowhere
// when logPath is empty.
func Run(a *app.App, exportPath, logPath string) error {
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "kidtodo")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(New(a, exportPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
