// Package store owns the canonical task and project collections. Every
// mutation is written through the persistence codec before it returns.
//
// A Store is not safe for concurrent use; callers serialize access on one
// goroutine (the UI loop or the watch loop).
package store

import (
	"errors"
	"log"
	"strings"
	"time"

	"kidtodo/internal/clock"
	"kidtodo/internal/model"
)

// Validation failures. A rejected operation changes nothing.
var (
	ErrEmptyText        = errors.New("task text is empty")
	ErrUnknownProject   = errors.New("project does not exist")
	ErrEmptyProject     = errors.New("project name is empty")
	ErrDuplicateProject = errors.New("project already exists")
	ErrInvalidPriority  = errors.New("priority must be low, med or high")
	ErrInvalidLead      = errors.New("reminder lead must be between 0 and 153722867 minutes")
)

// Persister is the slice of the codec the store needs.
type Persister interface {
	Load() model.Snapshot
	Save(model.Snapshot) error
}

// Result describes what a mutation did. Reason is a validation error when
// the call was rejected, or the storage error when the change was applied in
// memory but could not be written.
type Result struct {
	Changed bool
	Saved   bool
	Reason  error
}

// Rejected reports whether validation turned the call into a no-op.
func (r Result) Rejected() bool { return !r.Changed && r.Reason != nil }

// NewTask carries the fields of a submitted task form.
type NewTask struct {
	Text            string
	Project         string
	Due             string
	DueTime         string
	RemindBeforeMin int
	Priority        string
}

// Edit lists replacement values; nil or blank fields keep the prior value.
type Edit struct {
	Text            *string
	Due             *string
	DueTime         *string
	RemindBeforeMin *int
	Priority        *string

	// ClearDue and ClearDueTime remove the value outright.
	ClearDue     bool
	ClearDueTime bool
}

type Store struct {
	persist  Persister
	clock    clock.Clock
	ids      clock.IDSource
	projects []string
	tasks    []model.Task
}

// Open loads the collection once from p.
func Open(p Persister, clk clock.Clock, ids clock.IDSource) *Store {
	snap := p.Load()
	projects := snap.Projects
	if len(projects) == 0 {
		projects = model.DefaultProjects()
	}
	return &Store{
		persist:  p,
		clock:    clk,
		ids:      ids,
		projects: projects,
		tasks:    snap.Todos,
	}
}

// Tasks returns the tasks, newest insertion first. The slice is a copy.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Projects returns the project names in display order.
func (s *Store) Projects() []string {
	return append([]string(nil), s.projects...)
}

// Task looks up a task by id.
func (s *Store) Task(id string) (model.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// HasProject reports whether name is an existing project (exact match).
func (s *Store) HasProject(name string) bool {
	for _, p := range s.projects {
		if p == name {
			return true
		}
	}
	return false
}

// Export returns a deep copy of the whole collection for backups.
func (s *Store) Export() model.Snapshot {
	return model.Snapshot{Projects: s.projects, Todos: s.tasks}.Clone()
}

func (s *Store) AddTask(in NewTask) (model.Task, Result) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return model.Task{}, Result{Reason: ErrEmptyText}
	}
	if !s.HasProject(in.Project) {
		return model.Task{}, Result{Reason: ErrUnknownProject}
	}
	priority := model.DefaultPriority
	if strings.TrimSpace(in.Priority) != "" {
		p, ok := model.ParsePriority(in.Priority)
		if !ok {
			return model.Task{}, Result{Reason: ErrInvalidPriority}
		}
		priority = p
	}
	if !model.ValidLead(in.RemindBeforeMin) {
		return model.Task{}, Result{Reason: ErrInvalidLead}
	}

	t := model.Task{
		ID:              s.ids.NewID(),
		Text:            model.Truncate(text),
		CreatedAt:       clock.Millis(s.clock.Now()),
		Project:         in.Project,
		Due:             model.OptionalString(in.Due),
		DueTime:         model.OptionalString(in.DueTime),
		RemindBeforeMin: in.RemindBeforeMin,
		Priority:        priority,
	}
	s.tasks = append([]model.Task{t}, s.tasks...)
	return t.Clone(), s.commit()
}

// ToggleDone flips the done flag. Unknown ids are ignored.
func (s *Store) ToggleDone(id string) Result {
	i := s.index(id)
	if i < 0 {
		return Result{}
	}
	s.tasks[i].Done = !s.tasks[i].Done
	return s.commit()
}

func (s *Store) DeleteTask(id string) Result {
	i := s.index(id)
	if i < 0 {
		return Result{}
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.commit()
}

// EditTask applies e to the task. Changing the due date, due time or
// reminder lead re-arms the reminder.
func (s *Store) EditTask(id string, e Edit) Result {
	i := s.index(id)
	if i < 0 {
		return Result{}
	}
	t := s.tasks[i].Clone()
	before := t.Clone()

	if e.Text != nil {
		if text := strings.TrimSpace(*e.Text); text != "" {
			t.Text = model.Truncate(text)
		}
	}

	if e.ClearDue {
		t.Due = nil
	} else if e.Due != nil {
		if v := model.OptionalString(*e.Due); v != nil {
			t.Due = v
		}
	}
	if e.ClearDueTime {
		t.DueTime = nil
	} else if e.DueTime != nil {
		if v := model.OptionalString(*e.DueTime); v != nil {
			t.DueTime = v
		}
	}

	if e.RemindBeforeMin != nil && model.ValidLead(*e.RemindBeforeMin) {
		t.RemindBeforeMin = *e.RemindBeforeMin
	}
	if e.Priority != nil {
		if p, ok := model.ParsePriority(*e.Priority); ok {
			t.Priority = p
		}
	}

	if t.DueDate() != before.DueDate() || t.DueClock() != before.DueClock() ||
		t.RemindBeforeMin != before.RemindBeforeMin {
		t.RemindedAt = nil
	}

	if sameTask(t, before) {
		return Result{}
	}
	s.tasks[i] = t
	return s.commit()
}

// AddProject appends a project. Blank names and case-insensitive duplicates
// are rejected.
func (s *Store) AddProject(name string) (string, Result) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return "", Result{Reason: ErrEmptyProject}
	}
	for _, p := range s.projects {
		if model.SameProject(p, clean) {
			return "", Result{Reason: ErrDuplicateProject}
		}
	}
	s.projects = append(s.projects, clean)
	return clean, s.commit()
}

// ClearDone removes the completed tasks of one project.
func (s *Store) ClearDone(project string) Result {
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.Project == project && t.Done {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == len(s.tasks) {
		return Result{}
	}
	s.tasks = kept
	return s.commit()
}

// ClearAll removes every task in every project. Callers confirm first.
func (s *Store) ClearAll() Result {
	if len(s.tasks) == 0 {
		return Result{}
	}
	s.tasks = []model.Task{}
	return s.commit()
}

// MarkReminded records that the reminder for id fired at the given instant.
func (s *Store) MarkReminded(id string, at time.Time) Result {
	i := s.index(id)
	if i < 0 {
		return Result{}
	}
	ms := clock.Millis(at)
	s.tasks[i].RemindedAt = &ms
	return s.commit()
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) commit() Result {
	if err := s.persist.Save(model.Snapshot{Projects: s.projects, Todos: s.tasks}); err != nil {
		log.Printf("store: change kept in memory but not saved: %v", err)
		return Result{Changed: true, Reason: err}
	}
	return Result{Changed: true, Saved: true}
}

func sameTask(a, b model.Task) bool {
	return a.Text == b.Text &&
		a.DueDate() == b.DueDate() && (a.Due == nil) == (b.Due == nil) &&
		a.DueClock() == b.DueClock() && (a.DueTime == nil) == (b.DueTime == nil) &&
		a.RemindBeforeMin == b.RemindBeforeMin &&
		a.Priority == b.Priority &&
		a.Reminded() == b.Reminded()
}
