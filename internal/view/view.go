// Package view computes what the presentation layer shows: the filtered,
// searched and sorted tasks of the active project and its progress.
package view

import (
	"math"
	"sort"
	"strings"

	"kidtodo/internal/model"
)

type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
	FilterDone   Filter = "done"
)

var filters = []Filter{FilterAll, FilterActive, FilterDone}

// ParseFilter maps unknown values to FilterAll.
func ParseFilter(s string) Filter {
	for _, f := range filters {
		if string(f) == strings.ToLower(strings.TrimSpace(s)) {
			return f
		}
	}
	return FilterAll
}

// Next cycles all -> active -> done -> all.
func (f Filter) Next() Filter {
	for i, x := range filters {
		if x == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

type Sort string

const (
	SortNewest   Sort = "newest"
	SortDue      Sort = "due"
	SortPriority Sort = "priority"
)

var sorts = []Sort{SortNewest, SortDue, SortPriority}

// ParseSort maps unknown values to SortNewest.
func ParseSort(s string) Sort {
	for _, x := range sorts {
		if string(x) == strings.ToLower(strings.TrimSpace(s)) {
			return x
		}
	}
	return SortNewest
}

// Next cycles newest -> due -> priority -> newest.
func (s Sort) Next() Sort {
	for i, x := range sorts {
		if x == s {
			return sorts[(i+1)%len(sorts)]
		}
	}
	return SortNewest
}

const (
	noDueDate = "9999-12-31"
	noDueTime = "23:59"
)

// VisibleTasks returns the tasks of activeProject that pass filter and
// search, ordered by sort. The input slice is not modified.
func VisibleTasks(tasks []model.Task, activeProject string, filter Filter, search string, order Sort) []model.Task {
	needle := strings.ToLower(strings.TrimSpace(search))

	list := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Project != activeProject {
			continue
		}
		switch filter {
		case FilterActive:
			if t.Done {
				continue
			}
		case FilterDone:
			if !t.Done {
				continue
			}
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		list = append(list, t)
	}

	switch order {
	case SortNewest:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt > list[j].CreatedAt
		})
	case SortDue:
		sort.SliceStable(list, func(i, j int) bool {
			return DueKey(list[i]) < DueKey(list[j])
		})
	case SortPriority:
		sort.SliceStable(list, func(i, j int) bool {
			return priorityWeight(list[i].Priority) < priorityWeight(list[j].Priority)
		})
	}
	return list
}

// DueKey is the composite "date time" key tasks are ordered by in due order.
// Missing dates sort last, and a missing time sorts last within its date.
func DueKey(t model.Task) string {
	date, clock := t.DueDate(), t.DueClock()
	if date == "" {
		date = noDueDate
	}
	if clock == "" {
		clock = noDueTime
	}
	return date + " " + clock
}

func priorityWeight(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 0
	case model.PriorityMed:
		return 1
	default:
		return 2
	}
}

// Stats is the progress of one project.
type Stats struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Percent int `json:"percent"`
}

func ProjectStats(tasks []model.Task, project string) Stats {
	var st Stats
	for _, t := range tasks {
		if t.Project != project {
			continue
		}
		st.Total++
		if t.Done {
			st.Done++
		}
	}
	if st.Total > 0 {
		st.Percent = int(math.Round(float64(st.Done) / float64(st.Total) * 100))
	}
	return st
}
