// Package model defines the task and project data shared by every layer.
package model

import "strings"

// DefaultProjects is the project set used for a fresh or unreadable store.
func DefaultProjects() []string {
	return []string{"Home", "School", "Chores"}
}

// Snapshot is the whole persisted collection. It is also the shape of the
// export file.
type Snapshot struct {
	Projects []string `json:"projects"`
	Todos    []Task   `json:"todos"`
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Projects: append([]string(nil), s.Projects...),
		Todos:    make([]Task, len(s.Todos)),
	}
	for i, t := range s.Todos {
		out.Todos[i] = t.Clone()
	}
	return out
}

// SameProject compares project names the way uniqueness is enforced.
func SameProject(a, b string) bool {
	return strings.EqualFold(a, b)
}
