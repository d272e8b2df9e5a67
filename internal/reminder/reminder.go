// Package reminder fires due-date reminders while the app is running.
//
// A task's reminder is armed when it has a due date, a due time and a
// positive lead. A scan fires every armed reminder whose remind instant has
// passed, unless it passed more than the grace window ago, and marks it so
// later scans skip it. Editing the due date, time or lead re-arms it.
package reminder

import (
	"fmt"
	"log"
	"time"

	"kidtodo/internal/clock"
	"kidtodo/internal/model"
	"kidtodo/internal/store"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultGrace        = 6 * time.Hour
	DefaultStartupDelay = time.Second
)

const dueLayout = "2006-01-02 15:04"

// State of a task's reminder.
type State int

const (
	Unarmed State = iota
	Armed
	Fired
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	default:
		return "unarmed"
	}
}

// StateOf derives the reminder state from the task fields.
func StateOf(t model.Task) State {
	if t.DueDate() == "" || t.DueClock() == "" || t.RemindBeforeMin <= 0 {
		return Unarmed
	}
	if t.Reminded() {
		return Fired
	}
	return Armed
}

// Notification is emitted once per firing for the presentation layer.
type Notification struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Config holds the scan timing.
type Config struct {
	Interval     time.Duration
	Grace        time.Duration
	StartupDelay time.Duration
	// Location interprets due dates and times; nil means time.Local.
	Location *time.Location
}

func DefaultConfig() Config {
	return Config{
		Interval:     DefaultInterval,
		Grace:        DefaultGrace,
		StartupDelay: DefaultStartupDelay,
	}
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Grace <= 0 {
		c.Grace = DefaultGrace
	}
	if c.StartupDelay < 0 {
		c.StartupDelay = 0
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

type Engine struct {
	store *store.Store
	clock clock.Clock
	cfg   Config
}

func NewEngine(s *store.Store, clk clock.Clock, cfg Config) *Engine {
	return &Engine{store: s, clock: clk, cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// RemindAt returns the instant the task's reminder is due, or false if the
// task is not armed, its lead is out of range or its date and time do not
// parse.
func (e *Engine) RemindAt(t model.Task) (time.Time, bool) {
	if StateOf(t) == Unarmed || !model.ValidLead(t.RemindBeforeMin) {
		return time.Time{}, false
	}
	due, err := time.ParseInLocation(dueLayout, t.DueDate()+" "+t.DueClock(), e.cfg.Location)
	if err != nil {
		return time.Time{}, false
	}
	return due.Add(-time.Duration(t.RemindBeforeMin) * time.Minute), true
}

// Scan fires every reminder that is due now and returns the notifications.
func (e *Engine) Scan() []Notification {
	now := e.clock.Now()
	var fired []Notification
	for _, t := range e.store.Tasks() {
		if t.Done || StateOf(t) != Armed {
			continue
		}
		at, ok := e.RemindAt(t)
		if !ok {
			continue
		}
		if now.Before(at) || now.After(at.Add(e.cfg.Grace)) {
			continue
		}
		res := e.store.MarkReminded(t.ID, now)
		if !res.Changed {
			continue
		}
		if !res.Saved {
			log.Printf("reminder: fired %s but could not persist it: %v", t.ID, res.Reason)
		}
		fired = append(fired, notificationFor(t))
	}
	return fired
}

func notificationFor(t model.Task) Notification {
	body := fmt.Sprintf("Due %s at %s", t.DueDate(), t.DueClock())
	if t.Project != "" {
		body += " • " + t.Project
	}
	return Notification{
		TaskID: t.ID,
		Title:  "⏰ " + t.Text,
		Body:   body,
	}
}
