package view

import (
	"reflect"
	"testing"

	"kidtodo/internal/model"
)

func strPtr(s string) *string { return &s }

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "1", Text: "Buy MILK", Project: "Home", CreatedAt: 100, Priority: model.PriorityLow},
		{ID: "2", Text: "Homework", Project: "School", CreatedAt: 200, Priority: model.PriorityHigh},
		{ID: "3", Text: "milk the cow", Project: "Home", CreatedAt: 300, Done: true, Priority: model.PriorityHigh},
		{ID: "4", Text: "Dishes", Project: "Home", CreatedAt: 250, Priority: model.PriorityMed},
		{ID: "5", Text: "Laundry", Project: "Home", CreatedAt: 50, Done: true, Priority: model.PriorityHigh},
	}
}

func TestFilterPartitionsAll(t *testing.T) {
	tasks := sampleTasks()
	all := VisibleTasks(tasks, "Home", FilterAll, "", SortNewest)
	active := VisibleTasks(tasks, "Home", FilterActive, "", SortNewest)
	done := VisibleTasks(tasks, "Home", FilterDone, "", SortNewest)

	for _, task := range active {
		if task.Done {
			t.Errorf("active view contains done task %s", task.ID)
		}
	}
	for _, task := range done {
		if !task.Done {
			t.Errorf("done view contains open task %s", task.ID)
		}
	}
	if len(active)+len(done) != len(all) {
		t.Fatalf("Expected active+done == all, got %d+%d != %d", len(active), len(done), len(all))
	}
	seen := map[string]bool{}
	for _, task := range append(active, done...) {
		if seen[task.ID] {
			t.Errorf("task %s in both partitions", task.ID)
		}
		seen[task.ID] = true
	}
	for _, task := range all {
		if !seen[task.ID] {
			t.Errorf("task %s missing from partitions", task.ID)
		}
	}
}

func TestProjectFilter(t *testing.T) {
	got := VisibleTasks(sampleTasks(), "School", FilterAll, "", SortNewest)
	if !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Errorf("Expected only School task, got %v", ids(got))
	}
	if got := VisibleTasks(sampleTasks(), "Nowhere", FilterAll, "", SortNewest); len(got) != 0 {
		t.Errorf("Expected nothing for unknown project, got %v", ids(got))
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"milk", []string{"3", "1"}},
		{"  MiLk ", []string{"3", "1"}},
		{"", []string{"3", "4", "1", "5"}},
		{"zebra", []string{}},
	}
	for _, tt := range tests {
		got := ids(VisibleTasks(sampleTasks(), "Home", FilterAll, tt.search, SortNewest))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("search %q: expected %v, got %v", tt.search, tt.want, got)
		}
	}
}

func TestSortNewest(t *testing.T) {
	got := ids(VisibleTasks(sampleTasks(), "Home", FilterAll, "", SortNewest))
	want := []string{"3", "4", "1", "5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSortDue(t *testing.T) {
	tasks := []model.Task{
		{ID: "none", Project: "P"},
		{ID: "evening", Project: "P", Due: strPtr("2024-01-01"), DueTime: strPtr("18:00")},
		{ID: "dateOnly", Project: "P", Due: strPtr("2024-01-01")},
		{ID: "morning", Project: "P", Due: strPtr("2024-01-01"), DueTime: strPtr("09:00")},
		{ID: "earlier", Project: "P", Due: strPtr("2023-12-31"), DueTime: strPtr("23:00")},
	}
	got := ids(VisibleTasks(tasks, "P", FilterAll, "", SortDue))
	want := []string{"earlier", "morning", "evening", "dateOnly", "none"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSortPriorityIsStable(t *testing.T) {
	got := ids(VisibleTasks(sampleTasks(), "Home", FilterAll, "", SortPriority))
	// High tasks keep their input order (3 before 5), then med, then low.
	want := []string{"3", "5", "4", "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestVisibleTasksDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)
	VisibleTasks(tasks, "Home", FilterAll, "", SortPriority)
	VisibleTasks(tasks, "Home", FilterAll, "", SortNewest)
	if !reflect.DeepEqual(ids(tasks), before) {
		t.Errorf("Input reordered: %v", ids(tasks))
	}
}

func TestProjectStats(t *testing.T) {
	tests := []struct {
		project string
		want    Stats
	}{
		{"Home", Stats{Total: 4, Done: 2, Percent: 50}},
		{"School", Stats{Total: 1, Done: 0, Percent: 0}},
		{"Empty", Stats{}},
	}
	for _, tt := range tests {
		if got := ProjectStats(sampleTasks(), tt.project); got != tt.want {
			t.Errorf("%s: expected %+v, got %+v", tt.project, tt.want, got)
		}
	}

	third := []model.Task{{Project: "P", Done: true}, {Project: "P"}, {Project: "P"}}
	if got := ProjectStats(third, "P").Percent; got != 33 {
		t.Errorf("Expected 33%%, got %d", got)
	}
	twoThirds := []model.Task{{Project: "P", Done: true}, {Project: "P", Done: true}, {Project: "P"}}
	if got := ProjectStats(twoThirds, "P").Percent; got != 67 {
		t.Errorf("Expected 67%%, got %d", got)
	}
}

func TestParseAndCycle(t *testing.T) {
	if ParseFilter("DONE") != FilterDone || ParseFilter("bogus") != FilterAll {
		t.Error("ParseFilter mismatch")
	}
	if ParseSort(" due ") != SortDue || ParseSort("") != SortNewest {
		t.Error("ParseSort mismatch")
	}
	if FilterDone.Next() != FilterAll || FilterAll.Next() != FilterActive {
		t.Error("Filter.Next mismatch")
	}
	if SortPriority.Next() != SortNewest || SortNewest.Next() != SortDue {
		t.Error("Sort.Next mismatch")
	}
}
