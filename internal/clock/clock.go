// Package clock holds the time and id sources the core depends on, so that
// reminder timing and record normalization can be driven deterministically.
package clock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// IDSource mints opaque unique task ids.
type IDSource interface {
	NewID() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

type uuidSource struct{}

func (uuidSource) NewID() string { return uuid.New().String() }

// UUIDs returns an id source backed by random (v4) UUIDs.
func UUIDs() IDSource { return uuidSource{} }

// Millis converts t to epoch milliseconds, the unit stored in records.
func Millis(t time.Time) int64 { return t.UnixMilli() }

// FromMillis is the inverse of Millis.
func FromMillis(ms int64) time.Time { return time.UnixMilli(ms) }

// Manual is a clock that only moves when told to.
type Manual struct {
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time { return m.now }

// Set jumps the clock to t.
func (m *Manual) Set(t time.Time) { m.now = t }

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) { m.now = m.now.Add(d) }

// Sequence mints ids of the form "<prefix>-1", "<prefix>-2", ...
type Sequence struct {
	Prefix string
	n      int
}

func (s *Sequence) NewID() string {
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
