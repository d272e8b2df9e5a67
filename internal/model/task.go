package model

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTextLen is the longest task text kept, in characters.
const MaxTextLen = 120

// MaxRemindBeforeMin is the largest reminder lead, in minutes, that still
// fits in a time.Duration.
const MaxRemindBeforeMin = math.MaxInt64 / int64(time.Minute)

// ValidLead reports whether n minutes is a usable reminder lead.
func ValidLead(n int) bool {
	return n >= 0 && int64(n) <= MaxRemindBeforeMin
}

// Priority of a task.
type Priority string

const (
	PriorityLow  Priority = "low"
	PriorityMed  Priority = "med"
	PriorityHigh Priority = "high"
)

// DefaultPriority is used whenever a stored or submitted priority is missing.
const DefaultPriority = PriorityMed

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMed, PriorityHigh:
		return true
	}
	return false
}

// Label is the display form used by the presentation layer.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Med"
	}
}

// ParsePriority accepts low/med/high in any case and surrounding space.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Task is a single to-do item. Field names on the wire match the durable
// record written by earlier versions of the app.
type Task struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Done            bool     `json:"done"`
	CreatedAt       int64    `json:"createdAt"`
	Project         string   `json:"project"`
	Due             *string  `json:"due"`
	DueTime         *string  `json:"dueTime"`
	RemindBeforeMin int      `json:"remindBeforeMin"`
	RemindedAt      *int64   `json:"remindedAt"`
	Priority        Priority `json:"priority"`
}

// DueDate returns the due date or "" when unset.
func (t Task) DueDate() string {
	if t.Due == nil {
		return ""
	}
	return *t.Due
}

// DueClock returns the due time of day or "" when unset.
func (t Task) DueClock() string {
	if t.DueTime == nil {
		return ""
	}
	return *t.DueTime
}

// Reminded reports whether the reminder for the current arming already fired.
func (t Task) Reminded() bool { return t.RemindedAt != nil }

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	c.Due = cloneString(t.Due)
	c.DueTime = cloneString(t.DueTime)
	if t.RemindedAt != nil {
		v := *t.RemindedAt
		c.RemindedAt = &v
	}
	return c
}

// Truncate cuts s to MaxTextLen characters.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxTextLen {
		return s
	}
	r := []rune(s)
	return string(r[:MaxTextLen])
}

// OptionalString maps blank input to nil and anything else to a trimmed copy.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
