package model

import (
	"strings"
	"testing"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"high", PriorityHigh, true},
		{" LOW ", PriorityLow, true},
		{"Med", PriorityMed, true},
		{"urgent", "urgent", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePriority(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePriority(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTruncateCountsCharacters(t *testing.T) {
	short := strings.Repeat("é", MaxTextLen)
	if Truncate(short) != short {
		t.Error("Expected text at the limit to be kept")
	}
	long := strings.Repeat("🐱", MaxTextLen+5)
	if got := []rune(Truncate(long)); len(got) != MaxTextLen {
		t.Errorf("Expected %d characters, got %d", MaxTextLen, len(got))
	}
}

func TestOptionalString(t *testing.T) {
	if OptionalString("   ") != nil {
		t.Error("Expected blank to be nil")
	}
	if got := OptionalString(" 2024-06-01 "); got == nil || *got != "2024-06-01" {
		t.Errorf("Expected trimmed value, got %v", got)
	}
}

func TestCloneSharesNoPointers(t *testing.T) {
	due, at := "2024-06-01", int64(5)
	orig := Task{ID: "a", Due: &due, RemindedAt: &at}
	c := orig.Clone()
	*c.Due = "2025-01-01"
	*c.RemindedAt = 9
	if *orig.Due != "2024-06-01" || *orig.RemindedAt != 5 {
		t.Errorf("Clone leaked pointers: %+v", orig)
	}
}

func TestSnapshotCloneAndSameProject(t *testing.T) {
	s := Snapshot{Projects: DefaultProjects(), Todos: []Task{{ID: "a"}}}
	c := s.Clone()
	c.Projects[0] = "Garden"
	c.Todos[0].ID = "b"
	if s.Projects[0] != "Home" || s.Todos[0].ID != "a" {
		t.Errorf("Snapshot clone is shallow: %+v", s)
	}
	if !SameProject("home", "HOME") || SameProject("Home", "School") {
		t.Error("SameProject mismatch")
	}
}
