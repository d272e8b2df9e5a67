// Package app is the single context the presentation layer talks to. It owns
// the task store, the view selectors and the reminder engine, turns user
// intents into store mutations and emits a fresh Frame after each of them.
//
// An App is not safe for concurrent use. All intents and ticks must arrive on
// one goroutine, which is what the Bubble Tea loop and Run both do.
package app

import (
	"context"
	"log"
	"time"

	"kidtodo/internal/clock"
	"kidtodo/internal/model"
	"kidtodo/internal/persist"
	"kidtodo/internal/reminder"
	"kidtodo/internal/store"
	"kidtodo/internal/view"
)

// Frame is everything needed to render the current state.
type Frame struct {
	VisibleTasks  []model.Task
	Stats         view.Stats
	Projects      []string
	ActiveProject string
	Filter        view.Filter
	Search        string
	Sort          view.Sort
}

// Listener receives the app's output events.
type Listener interface {
	Render(Frame)
	Notify(reminder.Notification)
}

type nopListener struct{}

func (nopListener) Render(Frame)                 {}
func (nopListener) Notify(reminder.Notification) {}

// Options configures New. Zero values fall back to the wall clock, UUIDs and
// the default reminder timing.
type Options struct {
	Clock    clock.Clock
	IDs      clock.IDSource
	Reminder reminder.Config
	Listener Listener
}

type App struct {
	store    *store.Store
	reminder *reminder.Engine
	clock    clock.Clock
	listener Listener

	activeProject string
	filter        view.Filter
	search        string
	sort          view.Sort
}

// New loads the collection through p and selects the first project.
func New(p store.Persister, opts Options) *App {
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	if opts.IDs == nil {
		opts.IDs = clock.UUIDs()
	}
	if opts.Listener == nil {
		opts.Listener = nopListener{}
	}
	s := store.Open(p, opts.Clock, opts.IDs)
	a := &App{
		store:    s,
		reminder: reminder.NewEngine(s, opts.Clock, opts.Reminder),
		clock:    opts.Clock,
		listener: opts.Listener,
		filter:   view.FilterAll,
		sort:     view.SortNewest,
	}
	a.activeProject = s.Projects()[0]
	return a
}

// SetListener replaces the event sink.
func (a *App) SetListener(l Listener) {
	if l == nil {
		l = nopListener{}
	}
	a.listener = l
}

// Store exposes the underlying store for read access.
func (a *App) Store() *store.Store { return a.store }

// Reminders exposes the reminder engine.
func (a *App) Reminders() *reminder.Engine { return a.reminder }

// Frame computes the current view without emitting it.
func (a *App) Frame() Frame {
	tasks := a.store.Tasks()
	return Frame{
		VisibleTasks:  view.VisibleTasks(tasks, a.activeProject, a.filter, a.search, a.sort),
		Stats:         view.ProjectStats(tasks, a.activeProject),
		Projects:      a.store.Projects(),
		ActiveProject: a.activeProject,
		Filter:        a.filter,
		Search:        a.search,
		Sort:          a.sort,
	}
}

func (a *App) ActiveProject() string { return a.activeProject }

// SubmitTask adds a task and immediately checks whether its reminder is due.
func (a *App) SubmitTask(in store.NewTask) (model.Task, store.Result) {
	t, res := a.store.AddTask(in)
	if res.Changed {
		a.scan()
	}
	a.render()
	return t, res
}

func (a *App) Toggle(id string) store.Result {
	res := a.store.ToggleDone(id)
	a.render()
	return res
}

func (a *App) Delete(id string) store.Result {
	res := a.store.DeleteTask(id)
	a.render()
	return res
}

func (a *App) Edit(id string, e store.Edit) store.Result {
	res := a.store.EditTask(id, e)
	if res.Changed {
		a.scan()
	}
	a.render()
	return res
}

// SwitchProject selects an existing project; unknown names are ignored.
func (a *App) SwitchProject(name string) {
	if a.store.HasProject(name) {
		a.activeProject = name
	}
	a.render()
}

// AddProject creates a project and makes it active.
func (a *App) AddProject(name string) store.Result {
	clean, res := a.store.AddProject(name)
	if res.Changed {
		a.activeProject = clean
	}
	a.render()
	return res
}

func (a *App) SetFilter(f view.Filter) {
	a.filter = view.ParseFilter(string(f))
	a.render()
}

func (a *App) SetSearch(text string) {
	a.search = text
	a.render()
}

func (a *App) SetSort(s view.Sort) {
	a.sort = view.ParseSort(string(s))
	a.render()
}

// ClearDone removes the completed tasks of the active project.
func (a *App) ClearDone() store.Result {
	res := a.store.ClearDone(a.activeProject)
	a.render()
	return res
}

// ClearAll wipes every project's tasks. The presentation layer confirms
// before calling it.
func (a *App) ClearAll() store.Result {
	res := a.store.ClearAll()
	a.render()
	return res
}

// Export returns a snapshot suitable for persist.Export.
func (a *App) Export() model.Snapshot {
	return a.store.Export()
}

// ExportFile writes a backup document to path.
func (a *App) ExportFile(path string) error {
	return persist.ExportFile(path, a.store.Export())
}

// Tick runs one reminder scan and returns what fired.
func (a *App) Tick() []reminder.Notification {
	fired := a.scan()
	if len(fired) > 0 {
		a.render()
	}
	return fired
}

// Run drives reminder scans from a single goroutine until ctx is done: once
// after the startup delay, then on every interval.
func (a *App) Run(ctx context.Context) error {
	cfg := a.reminder.Config()

	startup := time.NewTimer(cfg.StartupDelay)
	defer startup.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-startup.C:
		a.Tick()
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.Tick()
		}
	}
}

func (a *App) scan() []reminder.Notification {
	fired := a.reminder.Scan()
	for _, n := range fired {
		log.Printf("reminder fired for %s", n.TaskID)
		a.listener.Notify(n)
	}
	return fired
}

func (a *App) render() {
	a.listener.Render(a.Frame())
}
